package remote

import (
	"github.com/anyswap/CrossChain-Wallet/tokens/btc"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// signer daemon methods
const (
	MethodGetAccounts   = "Signer.GetAccounts"
	MethodDisconnect    = "Signer.Disconnect"
	MethodSignUtxoTx    = "Signer.SignUtxoTx"
	MethodSignCosmos    = "Signer.SignCosmos"
	MethodSignTypedData = "Signer.SignTypedData"
	MethodChainID       = "Signer.ChainID"
	MethodSwitchChain   = "Signer.SwitchChain"
	MethodSignEvmTx     = "Signer.SignEvmTx"
	MethodSignHash      = "Signer.SignHash"
)

// account kinds reported by the signer daemon
const (
	KindUtxo         = "utxo"
	KindCosmos       = "cosmos"
	KindCosmosEIP712 = "cosmos-eip712"
	KindEvm          = "evm"
	KindTron         = "tron"
	KindXrp          = "xrp"
)

// Account account exposed by the signer daemon
type Account struct {
	Chain   string `json:"chain"`
	Address string `json:"address"`
	Kind    string `json:"kind"`
	PubKey  string `json:"pubKey,omitempty"` // hex, required by cosmos and xrp kinds
}

// GetAccountsArgs args of Signer.GetAccounts
type GetAccountsArgs struct {
	Chains []string `json:"chains,omitempty"`
}

// EmptyArgs args of methods without parameters
type EmptyArgs struct{}

// SignUtxoTxArgs args of Signer.SignUtxoTx, reply is the signed tx hex
type SignUtxoTxArgs struct {
	Chain    string      `json:"chain"`
	Address  string      `json:"address"`
	Tx       string      `json:"tx"`
	PrevOuts []*btc.Utxo `json:"prevOuts"`
}

// SignCosmosArgs args of Signer.SignCosmos, reply is the signature
type SignCosmosArgs struct {
	Chain     string        `json:"chain"`
	Address   string        `json:"address"`
	Mode      string        `json:"mode"`
	SignBytes hexutil.Bytes `json:"signBytes"`
}

// SignTypedDataArgs args of Signer.SignTypedData, reply is the rsv signature
type SignTypedDataArgs struct {
	Chain     string              `json:"chain"`
	Address   common.Address      `json:"address"`
	TypedData *apitypes.TypedData `json:"typedData"`
}

// AddressArgs args of Signer.ChainID, reply is the active chain id
type AddressArgs struct {
	Address common.Address `json:"address"`
}

// SwitchChainArgs args of Signer.SwitchChain
type SwitchChainArgs struct {
	Address common.Address `json:"address"`
	ChainID *hexutil.Big   `json:"chainId"`
}

// SignEvmTxArgs args of Signer.SignEvmTx, reply is the signed tx binary
type SignEvmTxArgs struct {
	Address common.Address `json:"address"`
	ChainID *hexutil.Big   `json:"chainId"`
	Tx      hexutil.Bytes  `json:"tx"`
}

// SignHashArgs args of Signer.SignHash, reply is the signature
type SignHashArgs struct {
	Chain   string        `json:"chain"`
	Address string        `json:"address"`
	Hash    hexutil.Bytes `json:"hash"`
	Message hexutil.Bytes `json:"message,omitempty"`
}

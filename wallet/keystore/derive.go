package keystore

import (
	"fmt"

	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/tokens/btc"
	"github.com/anyswap/CrossChain-Wallet/tokens/cosmos"
	"github.com/anyswap/CrossChain-Wallet/tokens/eth"
	"github.com/anyswap/CrossChain-Wallet/tokens/ripple"
	"github.com/anyswap/CrossChain-Wallet/tokens/tron"
	"github.com/anyswap/CrossChain-Wallet/wallet"
	"github.com/cosmos/cosmos-sdk/crypto/hd"
)

// slip-0044 coin types
var coinTypes = map[tokens.Chain]uint32{
	tokens.BTC:  0,
	tokens.LTC:  2,
	tokens.BCH:  145,
	tokens.DOGE: 3,
	tokens.GAIA: 118,
	tokens.THOR: 931,
	tokens.TRON: 195,
	tokens.XRP:  144,
}

const evmCoinType = 60

// CoinType coin type of chain
func CoinType(chain tokens.Chain) (uint32, error) {
	if tokens.FamilyOf(chain) == tokens.EVMFamily {
		return evmCoinType, nil
	}
	coinType, exist := coinTypes[chain]
	if !exist {
		return 0, fmt.Errorf("%w: %v", tokens.ErrUnknownChain, chain)
	}
	return coinType, nil
}

// HDPath bip44 path of chain at address index
func HDPath(chain tokens.Chain, index uint32) (string, error) {
	coinType, err := CoinType(chain)
	if err != nil {
		return "", err
	}
	return hd.NewFundraiserParams(0, coinType, index).String(), nil
}

// DeriveKey derive secp256k1 private key of chain
func DeriveKey(mnemonic string, chain tokens.Chain, index uint32) ([]byte, error) {
	path, err := HDPath(chain, index)
	if err != nil {
		return nil, err
	}
	return hd.Secp256k1.Derive()(mnemonic, "", path)
}

// deriver derives accounts of one mnemonic, evm chains share one signer
type deriver struct {
	mnemonic  string
	index     uint32
	evmSigner *eth.KeySigner
}

func (d *deriver) account(chain tokens.Chain) (*wallet.AccountContext, error) {
	network, err := tokens.GetNetwork(chain)
	if err != nil {
		return nil, err
	}
	if network.Family == tokens.EVMFamily && d.evmSigner != nil {
		return wallet.NewAccountContext(chain, d.evmSigner.Address().Hex(), ProviderID,
			&wallet.EvmContext{Signer: d.evmSigner}), nil
	}

	key, err := DeriveKey(d.mnemonic, chain, d.index)
	if err != nil {
		return nil, err
	}

	switch network.Family {
	case tokens.UTXOFamily:
		signer, err := btc.NewKeySigner(chain, key)
		if err != nil {
			return nil, err
		}
		address, err := signer.Address()
		if err != nil {
			return nil, err
		}
		return wallet.NewAccountContext(chain, address, ProviderID, &wallet.UtxoContext{Signer: signer}), nil
	case tokens.CosmosFamily:
		signer, err := cosmos.NewKeySigner(key)
		if err != nil {
			return nil, err
		}
		address, err := signer.Address(chain)
		if err != nil {
			return nil, err
		}
		return wallet.NewAccountContext(chain, address, ProviderID,
			&wallet.CosmosContext{Signing: cosmos.NewSigningContext(signer)}), nil
	case tokens.EVMFamily:
		signer, err := eth.NewKeySigner(key, network.GetEVMChainID())
		if err != nil {
			return nil, err
		}
		d.evmSigner = signer
		return wallet.NewAccountContext(chain, signer.Address().Hex(), ProviderID, &wallet.EvmContext{Signer: signer}), nil
	case tokens.TronFamily:
		signer, err := tron.NewKeySigner(key)
		if err != nil {
			return nil, err
		}
		return wallet.NewAccountContext(chain, signer.Address(), ProviderID, &wallet.TronContext{Signer: signer}), nil
	case tokens.XRPFamily:
		signer, err := ripple.NewKeySigner(key)
		if err != nil {
			return nil, err
		}
		return wallet.NewAccountContext(chain, signer.Address(), ProviderID, &wallet.XrpContext{Signer: signer}), nil
	default:
		return nil, fmt.Errorf("%w: %v", tokens.ErrUnknownFamily, network.Family)
	}
}

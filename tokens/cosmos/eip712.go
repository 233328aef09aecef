package cosmos

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anyswap/CrossChain-Wallet/rpc/client"
	"github.com/anyswap/CrossChain-Wallet/tokens"
	ethcommon "github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// TypedDataFetcher converts amino json sign bytes to the EIP-712 document the chain verifies
type TypedDataFetcher func(ctx context.Context, chainID string, signBytes []byte) (*apitypes.TypedData, error)

// typedDataRequest body posted to the eip712 endpoint
type typedDataRequest struct {
	ChainID string          `json:"chainId"`
	SignDoc json.RawMessage `json:"signDoc"`
}

// NewTypedDataFetcher fetcher posting to url
func NewTypedDataFetcher(url string) TypedDataFetcher {
	return func(ctx context.Context, chainID string, signBytes []byte) (*apitypes.TypedData, error) {
		if url == "" {
			return nil, fmt.Errorf("%w: no eip712 api of chain %v", tokens.ErrNotImplemented, chainID)
		}
		var typedData apitypes.TypedData
		err := client.RPCRawPostWithContext(ctx, &typedData, url, &typedDataRequest{
			ChainID: chainID,
			SignDoc: signBytes,
		})
		if err != nil {
			return nil, tokens.WrapRPCQueryError(err, "eip712", chainID)
		}
		return &typedData, nil
	}
}

// TypedDataHash keccak256("\x19\x01" || domainSeparator || hashStruct(message))
func TypedDataHash(typedData *apitypes.TypedData) ([]byte, error) {
	domainSeparator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return nil, err
	}
	typedDataHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return nil, err
	}
	rawData := []byte(fmt.Sprintf("\x19\x01%s%s", string(domainSeparator), string(typedDataHash)))
	return ethcrypto.Keccak256(rawData), nil
}

// recoverTypedSigner recover and check the signer of typed data hash.
// The signature is returned with recovery id 0 or 1.
func recoverTypedSigner(hash, sig []byte, want ethcommon.Address) (*EthPubKey, []byte, error) {
	if len(sig) != ethcrypto.SignatureLength {
		return nil, nil, fmt.Errorf("%w: length %d", tokens.ErrWrongSignature, len(sig))
	}
	sig = append([]byte{}, sig...)
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	pub, err := ethcrypto.SigToPub(hash, sig)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", tokens.ErrWrongSignature, err)
	}
	if have := ethcrypto.PubkeyToAddress(*pub); have != want {
		return nil, nil, fmt.Errorf("%w: recovered %v, want %v", tokens.ErrSenderMismatch, have.Hex(), want.Hex())
	}
	pubKey, err := NewEthPubKey(ethcrypto.CompressPubkey(pub))
	if err != nil {
		return nil, nil, err
	}
	return pubKey, sig, nil
}

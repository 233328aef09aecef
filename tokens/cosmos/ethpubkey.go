package cosmos

import (
	"bytes"
	"encoding/hex"

	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/gogo/protobuf/proto"
	tmcrypto "github.com/tendermint/tendermint/crypto"
)

// EthPubKeyTypeURL proto name of evm keyed account public keys
const EthPubKeyTypeURL = "ethermint.crypto.v1.ethsecp256k1.PubKey"

var _ cryptotypes.PubKey = &EthPubKey{}

func init() {
	proto.RegisterType((*EthPubKey)(nil), EthPubKeyTypeURL)
}

// EthPubKey compressed secp256k1 public key whose address is derived the evm way
type EthPubKey struct {
	Key []byte
}

// NewEthPubKey from compressed or uncompressed public key bytes
func NewEthPubKey(pub []byte) (*EthPubKey, error) {
	if len(pub) == 33 {
		if _, err := ethcrypto.DecompressPubkey(pub); err != nil {
			return nil, err
		}
		return &EthPubKey{Key: append([]byte{}, pub...)}, nil
	}
	ecdsaPub, err := ethcrypto.UnmarshalPubkey(pub)
	if err != nil {
		return nil, err
	}
	return &EthPubKey{Key: ethcrypto.CompressPubkey(ecdsaPub)}, nil
}

// ProtoMessage implements proto.Message
func (*EthPubKey) ProtoMessage() {}

// Reset implements proto.Message
func (pk *EthPubKey) Reset() { *pk = EthPubKey{} }

// String implements proto.Message
func (pk *EthPubKey) String() string { return "EthPubKey{" + hex.EncodeToString(pk.Key) + "}" }

// XXX_MessageName gogo message name
func (*EthPubKey) XXX_MessageName() string { return EthPubKeyTypeURL } //nolint:revive,stylecheck // gogo naming

// Marshal protobuf encoding
func (pk *EthPubKey) Marshal() ([]byte, error) {
	return appendBytes(nil, 1, pk.Key), nil
}

// Unmarshal protobuf decoding
func (pk *EthPubKey) Unmarshal(bz []byte) error {
	pk.Reset()
	return walkFields(bz, func(f *protoField) error {
		if f.num == 1 {
			pk.Key = append([]byte{}, f.bytes...)
		}
		return nil
	})
}

// Address keccak address of the key
func (pk *EthPubKey) Address() tmcrypto.Address {
	pub, err := ethcrypto.DecompressPubkey(pk.Key)
	if err != nil {
		return nil
	}
	return ethcrypto.PubkeyToAddress(*pub).Bytes()
}

// Bytes compressed key
func (pk *EthPubKey) Bytes() []byte {
	return pk.Key
}

// VerifySignature verify 64 or 65 bytes signature over keccak256(msg)
func (pk *EthPubKey) VerifySignature(msg, sig []byte) bool {
	if len(sig) == 65 {
		sig = sig[:64]
	}
	return ethcrypto.VerifySignature(pk.Key, ethcrypto.Keccak256(msg), sig)
}

// Equals implements cryptotypes.PubKey
func (pk *EthPubKey) Equals(other cryptotypes.PubKey) bool {
	return pk.Type() == other.Type() && bytes.Equal(pk.Bytes(), other.Bytes())
}

// Type implements cryptotypes.PubKey
func (pk *EthPubKey) Type() string {
	return "eth_secp256k1"
}

package btc

import (
	"context"
	"fmt"

	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/btcsuite/btcd/btcec"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcutil"
)

// sigHashForkID replay protected sighash flag of bitcoin cash
const sigHashForkID txscript.SigHashType = 0x40

// KeySigner signs p2pkh and p2wpkh inputs with a local private key
type KeySigner struct {
	Chain tokens.Chain
	Key   *btcec.PrivateKey
}

// NewKeySigner new key signer
func NewKeySigner(chain tokens.Chain, keyBytes []byte) (*KeySigner, error) {
	if tokens.ChainParams(chain) == nil {
		return nil, fmt.Errorf("%w: %v is not a utxo chain", tokens.ErrUnknownChain, chain)
	}
	key, _ := btcec.PrivKeyFromBytes(btcec.S256(), keyBytes)
	return &KeySigner{Chain: chain, Key: key}, nil
}

// Address segwit address where supported, legacy otherwise
func (s *KeySigner) Address() (string, error) {
	net := tokens.ChainParams(s.Chain)
	pkHash := btcutil.Hash160(s.Key.PubKey().SerializeCompressed())
	var (
		addr btcutil.Address
		err  error
	)
	if net.Bech32HRPSegwit != "" {
		addr, err = btcutil.NewAddressWitnessPubKeyHash(pkHash, net)
	} else {
		addr, err = btcutil.NewAddressPubKeyHash(pkHash, net)
	}
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}

// SignTx sign every input with SIGHASH_ALL, plus SIGHASH_FORKID on bitcoin cash
func (s *KeySigner) SignTx(_ context.Context, tx *wire.MsgTx, prevOuts []*Utxo) (*wire.MsgTx, error) {
	if len(prevOuts) != len(tx.TxIn) {
		return nil, fmt.Errorf("%w: %d inputs but %d previous outputs", tokens.ErrWrongRawTx, len(tx.TxIn), len(prevOuts))
	}
	signed := tx.Copy()
	sigHashes := txscript.NewTxSigHashes(signed)
	for i, prevOut := range prevOuts {
		switch txscript.GetScriptClass(prevOut.Script) {
		case txscript.WitnessV0PubKeyHashTy:
			witness, err := txscript.WitnessSignature(signed, sigHashes, i, int64(prevOut.Value), prevOut.Script, txscript.SigHashAll, s.Key, true)
			if err != nil {
				return nil, err
			}
			signed.TxIn[i].Witness = witness
		case txscript.PubKeyHashTy:
			if s.Chain == tokens.BCH {
				sigScript, err := s.forkIDSignatureScript(signed, sigHashes, i, prevOut)
				if err != nil {
					return nil, err
				}
				signed.TxIn[i].SignatureScript = sigScript
				continue
			}
			sigScript, err := txscript.SignatureScript(signed, i, prevOut.Script, txscript.SigHashAll, s.Key, true)
			if err != nil {
				return nil, err
			}
			signed.TxIn[i].SignatureScript = sigScript
		default:
			return nil, fmt.Errorf("%w: unsupported script of input %d", tokens.ErrWrongRawTx, i)
		}
	}
	return signed, nil
}

// ForkIDSigHash bip143 style digest committing to the input amount, as bitcoin cash signs
func ForkIDSigHash(tx *wire.MsgTx, sigHashes *txscript.TxSigHashes, idx int, prevOut *Utxo) ([]byte, error) {
	hashType := txscript.SigHashAll | sigHashForkID
	return txscript.CalcWitnessSigHash(prevOut.Script, sigHashes, hashType, tx, idx, int64(prevOut.Value))
}

func (s *KeySigner) forkIDSignatureScript(tx *wire.MsgTx, sigHashes *txscript.TxSigHashes, idx int, prevOut *Utxo) ([]byte, error) {
	hash, err := ForkIDSigHash(tx, sigHashes, idx, prevOut)
	if err != nil {
		return nil, err
	}
	signature, err := s.Key.Sign(hash)
	if err != nil {
		return nil, err
	}
	sig := append(signature.Serialize(), byte(txscript.SigHashAll|sigHashForkID))
	return txscript.NewScriptBuilder().
		AddData(sig).
		AddData(s.Key.PubKey().SerializeCompressed()).
		Script()
}

package btc

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcutil"
)

// GetPayToAddrScript get pay to address script
func GetPayToAddrScript(chain tokens.Chain, address string) ([]byte, error) {
	toAddr, err := tokens.DecodeUtxoAddress(chain, address)
	if err != nil {
		return nil, fmt.Errorf("decode %v address '%v' failed. %w", chain, address, err)
	}
	return txscript.PayToAddrScript(toAddr)
}

// NullDataScript memo output script, memo bytes are the exact utf8 encoding
func NullDataScript(memo string) ([]byte, error) {
	if len(memo) > txscript.MaxDataCarrierSize {
		return nil, fmt.Errorf("%w: %d > %d bytes", tokens.ErrMemoTooLong, len(memo), txscript.MaxDataCarrierSize)
	}
	return txscript.NullDataScript([]byte(memo))
}

// NewTxOut new txout
func NewTxOut(amount int64, pkScript []byte) *wire.TxOut {
	return wire.NewTxOut(amount, pkScript)
}

// NewTxIn new unsigned txin
func NewTxIn(txid string, vout uint32) (*wire.TxIn, error) {
	txHash, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return nil, err
	}
	prevOutPoint := wire.NewOutPoint(txHash, vout)
	return wire.NewTxIn(prevOutPoint, nil, nil), nil
}

// SerializeTx serialize tx to hex string
func SerializeTx(tx *wire.MsgTx) (string, error) {
	buf := bytes.NewBuffer(make([]byte, 0, tx.SerializeSize()))
	if err := tx.Serialize(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf.Bytes()), nil
}

func isValidValue(value btcutil.Amount) bool {
	return value > 0 && value <= btcutil.MaxSatoshi
}

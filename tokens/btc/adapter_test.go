package btc

import (
	"bytes"
	"context"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/anyswap/CrossChain-Wallet/tokens"
	"github.com/anyswap/CrossChain-Wallet/tokens/message"
	"github.com/btcsuite/btcd/btcec"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcutil"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	utxos   []*Utxo
	rate    btcutil.Amount
	posted  []string
	queries int
}

func (s *fakeSource) FindUtxos(context.Context, string) ([]*Utxo, error) {
	s.queries++
	return s.utxos, nil
}

func (s *fakeSource) EstimateFeeRate(context.Context) (btcutil.Amount, error) {
	return s.rate, nil
}

func (s *fakeSource) PostTransaction(_ context.Context, txHex string) (string, error) {
	s.posted = append(s.posted, txHex)
	raw, err := hex.DecodeString(txHex)
	if err != nil {
		return "", err
	}
	var tx wire.MsgTx
	if err = tx.Deserialize(bytes.NewReader(raw)); err != nil {
		return "", err
	}
	return tx.TxHash().String(), nil
}

func TestAdapterEndToEnd(t *testing.T) {
	key, err := btcec.NewPrivateKey(btcec.S256())
	require.NoError(t, err)
	signer, err := NewKeySigner(tokens.BTC, key.Serialize())
	require.NoError(t, err)
	from, err := signer.Address()
	require.NoError(t, err)
	script, err := GetPayToAddrScript(tokens.BTC, from)
	require.NoError(t, err)

	source := &fakeSource{
		utxos: []*Utxo{{Hash: testTxid, Index: 0, Value: 100000000, Script: script}},
		rate:  25,
	}
	adapter := NewAdapter(source)

	msg := &message.Deposit{Asset: tokens.MustParseAsset("BTC.BTC"), Amount: big.NewInt(50000000), Memo: "=:ETH.ETH:0xabc"}
	inbound := &tokens.InboundAddress{Chain: tokens.BTC, Address: testRecipient, GasRate: big.NewInt(10)}
	intent, err := msg.ToUtxo(tokens.BTC, from, inbound)
	require.NoError(t, err)

	sim, err := adapter.Simulate(context.Background(), intent)
	require.NoError(t, err)
	require.Equal(t, "BTC", sim.Symbol)
	require.Equal(t, uint8(8), sim.Decimals)
	require.Equal(t, int64(2420), sim.Amount.Int64())
	require.Equal(t, int64(10), sim.FeeRate.Int64())

	result, err := adapter.SignAndBroadcast(context.Background(), signer, intent, sim)
	require.NoError(t, err)
	require.Len(t, source.posted, 1)
	require.Equal(t, "https://mempool.space/tx/"+result.TxHash, result.Explorer)
	require.Equal(t, int64(50000000), result.Deposited.Amount.Int64())

	raw, err := hex.DecodeString(source.posted[0])
	require.NoError(t, err)
	var tx wire.MsgTx
	require.NoError(t, tx.Deserialize(bytes.NewReader(raw)))
	require.Equal(t, result.TxHash, tx.TxHash().String())
	require.Len(t, tx.TxOut, 3)
	require.Equal(t, int64(49997580), tx.TxOut[1].Value)

	engine, err := txscript.NewEngine(script, &tx, 0, txscript.StandardVerifyFlags, nil, txscript.NewTxSigHashes(&tx), 100000000)
	require.NoError(t, err)
	require.NoError(t, engine.Execute())
}

func TestAdapterEstimatesFeeRate(t *testing.T) {
	source := &fakeSource{utxos: newUtxos(100000000), rate: 20}
	adapter := NewAdapter(source)
	intent := &message.UtxoIntent{
		Chain:     tokens.BTC,
		From:      testFrom,
		Recipient: testRecipient,
		Amount:    big.NewInt(50000000),
	}
	sim, err := adapter.Simulate(context.Background(), intent)
	require.NoError(t, err)
	require.Equal(t, int64(4320), sim.Amount.Int64())
	require.Equal(t, int64(20), sim.FeeRate.Int64())
}

func TestKeySignerLegacy(t *testing.T) {
	key, err := btcec.NewPrivateKey(btcec.S256())
	require.NoError(t, err)
	signer, err := NewKeySigner(tokens.DOGE, key.Serialize())
	require.NoError(t, err)
	address, err := signer.Address()
	require.NoError(t, err)
	require.True(t, tokens.MustGetNetwork(tokens.DOGE).IsValidAddress(address))
	require.Equal(t, byte('D'), address[0])
}

func TestKeySignerForkID(t *testing.T) {
	key, err := btcec.NewPrivateKey(btcec.S256())
	require.NoError(t, err)
	signer, err := NewKeySigner(tokens.BCH, key.Serialize())
	require.NoError(t, err)
	address, err := signer.Address()
	require.NoError(t, err)
	require.Equal(t, byte('1'), address[0])
	require.True(t, tokens.MustGetNetwork(tokens.BCH).IsValidAddress(address))

	addr, err := tokens.DecodeUtxoAddress(tokens.BCH, address)
	require.NoError(t, err)
	pkScript, err := txscript.PayToAddrScript(addr)
	require.NoError(t, err)

	prevOut := &Utxo{Value: 100000, Script: pkScript}
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Index: 0}, nil, nil))
	tx.AddTxOut(wire.NewTxOut(90000, pkScript))

	signed, err := signer.SignTx(context.Background(), tx, []*Utxo{prevOut})
	require.NoError(t, err)

	pushes, err := txscript.PushedData(signed.TxIn[0].SignatureScript)
	require.NoError(t, err)
	require.Len(t, pushes, 2)
	sigBytes := pushes[0]
	require.Equal(t, byte(0x41), sigBytes[len(sigBytes)-1])
	require.True(t, bytes.Equal(key.PubKey().SerializeCompressed(), pushes[1]))

	hash, err := ForkIDSigHash(signed, txscript.NewTxSigHashes(signed), 0, prevOut)
	require.NoError(t, err)
	signature, err := btcec.ParseDERSignature(sigBytes[:len(sigBytes)-1], btcec.S256())
	require.NoError(t, err)
	require.True(t, signature.Verify(hash, key.PubKey()))
}

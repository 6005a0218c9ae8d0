package txbuilder

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/wallet"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/tx"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

const (
	testFee       = 1_000_000
	testCreateFee = 10_000_000
)

var (
	nativeID = types.ID{0xaa}
	quikID   = types.ID{0x51}
	otherID  = types.ID{0x52}

	seller = types.Address{0x01}
	buyer  = types.Address{0x02}
	change = types.Address{0x03}
	dest   = types.Address{0x04}
)

func newBuilder() *Builder {
	return New(Chain{
		NetworkID:        5,
		BlockchainID:     types.ID{0xc4},
		NativeID:         nativeID,
		TxFee:            types.NewAmount(testFee),
		CreateAssetTxFee: types.NewAmount(testCreateFee),
	}, zerolog.Nop())
}

func utxo(seed byte, assetID types.ID, amount uint64, owner types.Address) wallet.UTXO {
	return wallet.UTXO{
		TxID:    types.ID{seed},
		Amount:  types.NewAmount(amount),
		AssetID: assetID,
		TypeID:  types.TypeSECPTransferOutput,
		Address: owner,
	}
}

// requireConsumed checks that every asset's inputs equal its outputs plus
// the expected consumption.
func requireConsumed(t *testing.T, unsigned *tx.Transaction, want map[types.ID]uint64) {
	t.Helper()
	consumed, err := unsigned.Consumed()
	require.NoError(t, err)
	for id, amt := range consumed {
		assert.Equal(t, types.NewAmount(want[id]).String(), amt.String(), "asset %s", id)
	}
}

func TestTransfer(t *testing.T) {
	b := newBuilder()
	in := utxo(1, nativeID, 10_000_000, seller)

	res, err := b.Transfer(in, dest, types.NewAmount(4_000_000), change, "rent")
	require.NoError(t, err)

	require.Len(t, res.Tx.Inputs, 1)
	require.Len(t, res.Tx.Outputs, 2)
	assert.Equal(t, dest, res.Tx.Outputs[0].Addresses[0])
	assert.Equal(t, "4000000", res.Tx.Outputs[0].Amount.String())
	assert.Equal(t, change, res.Tx.Outputs[1].Addresses[0])
	assert.Equal(t, "5000000", res.Tx.Outputs[1].Amount.String())
	assert.Equal(t, []byte("rent"), res.Tx.Memo)
	requireConsumed(t, res.Tx, map[types.ID]uint64{nativeID: testFee})

	owner, ok := res.Refs.Owner(in.ID())
	require.True(t, ok)
	assert.Equal(t, seller, owner)
}

func TestTransfer_ZeroRemainderOmitsChange(t *testing.T) {
	res, err := newBuilder().Transfer(utxo(1, nativeID, 5_000_000, seller), dest, types.NewAmount(4_000_000), change, "")
	require.NoError(t, err)
	require.Len(t, res.Tx.Outputs, 1)
	assert.Nil(t, res.Tx.Memo)
	requireConsumed(t, res.Tx, map[types.ID]uint64{nativeID: testFee})
}

func TestTransfer_Errors(t *testing.T) {
	b := newBuilder()

	_, err := b.Transfer(utxo(1, nativeID, 4_500_000, seller), dest, types.NewAmount(4_000_000), change, "")
	require.ErrorIs(t, err, types.ErrInsufficientFunds)

	_, err = b.Transfer(utxo(1, quikID, 9_000_000, seller), dest, types.NewAmount(1), change, "")
	require.ErrorIs(t, err, types.ErrValidation)

	_, err = b.Transfer(utxo(1, nativeID, 9_000_000, seller), dest, types.Amount{}, change, "")
	require.ErrorIs(t, err, types.ErrValidation)
}

func TestSendTokens(t *testing.T) {
	b := newBuilder()
	fee := utxo(1, nativeID, 3_000_000, seller)
	tokens := []wallet.UTXO{utxo(2, quikID, 300, seller), utxo(3, quikID, 190, buyer)}

	res, err := b.SendTokens(fee, tokens, quikID, types.NewAmount(200), dest, change, "gift")
	require.NoError(t, err)

	require.Len(t, res.Tx.Inputs, 3)
	assert.Len(t, res.Refs, 3)
	require.Len(t, res.Tx.Outputs, 3)
	assert.Equal(t, dest, res.Tx.Outputs[0].Addresses[0])
	assert.Equal(t, "200", res.Tx.Outputs[0].Amount.String())
	assert.Equal(t, "2000000", res.Tx.Outputs[1].Amount.String())
	assert.Equal(t, "290", res.Tx.Outputs[2].Amount.String())
	requireConsumed(t, res.Tx, map[types.ID]uint64{nativeID: testFee})
}

func TestSendTokens_Errors(t *testing.T) {
	b := newBuilder()
	fee := utxo(1, nativeID, 3_000_000, seller)

	_, err := b.SendTokens(fee, nil, quikID, types.NewAmount(1), dest, change, "")
	require.ErrorIs(t, err, types.ErrValidation)
	assert.Contains(t, err.Error(), "no tokens in the wallet matched")

	_, err = b.SendTokens(fee, []wallet.UTXO{utxo(2, quikID, 100, seller)}, quikID, types.NewAmount(101), dest, change, "")
	require.ErrorIs(t, err, types.ErrInsufficientFunds)

	_, err = b.SendTokens(utxo(1, nativeID, 999_999, seller), []wallet.UTXO{utxo(2, quikID, 100, seller)}, quikID, types.NewAmount(1), dest, change, "")
	require.ErrorIs(t, err, types.ErrInsufficientFunds)
}

func TestBurn(t *testing.T) {
	b := newBuilder()
	fee := utxo(1, nativeID, 10_000_000, seller)
	tokens := []wallet.UTXO{utxo(2, quikID, 490, seller)}

	res, err := b.Burn(fee, tokens, quikID, types.NewAmount(200), change)
	require.NoError(t, err)

	require.Len(t, res.Tx.Outputs, 2)
	for _, out := range res.Tx.Outputs {
		assert.Equal(t, change, out.Addresses[0], "a burn has no destination output")
	}
	tokenOuts := res.Tx.OutputsFor(quikID)
	require.Len(t, tokenOuts, 1)
	assert.Equal(t, "290", res.Tx.Outputs[tokenOuts[0]].Amount.String())
	requireConsumed(t, res.Tx, map[types.ID]uint64{nativeID: testFee, quikID: 200})
}

func TestBurn_Everything(t *testing.T) {
	res, err := newBuilder().Burn(utxo(1, nativeID, testFee, seller), []wallet.UTXO{utxo(2, quikID, 490, seller)}, quikID, types.NewAmount(490), change)
	require.NoError(t, err)
	assert.Empty(t, res.Tx.Outputs)
	requireConsumed(t, res.Tx, map[types.ID]uint64{nativeID: testFee, quikID: 490})
}

func TestBurn_TooMuch(t *testing.T) {
	_, err := newBuilder().Burn(utxo(1, nativeID, 10_000_000, seller), []wallet.UTXO{utxo(2, quikID, 490, seller)}, quikID, types.NewAmount(491), change)
	require.ErrorIs(t, err, types.ErrInsufficientFunds)
	assert.Contains(t, err.Error(), "not enough tokens")
}

func TestCreateAsset(t *testing.T) {
	b := newBuilder()
	fee := utxo(1, nativeID, 25_000_000, seller)
	spec := AssetSpec{Name: "Quik Token", Symbol: "QUIK", Denomination: 2, InitialSupply: types.NewAmount(89_400)}

	res, err := b.CreateAsset(fee, spec, dest, change, "")
	require.NoError(t, err)

	assert.Equal(t, tx.KindCreateAsset, res.Tx.Kind)
	assert.Equal(t, "QUIK", res.Tx.Symbol)
	require.Len(t, res.Tx.Outputs, 1)
	assert.Equal(t, "15000000", res.Tx.Outputs[0].Amount.String())
	require.Len(t, res.Tx.InitialStates, 1)
	outs := res.Tx.InitialStates[0].Outputs
	require.Len(t, outs, 2)
	assert.Equal(t, types.TypeSECPTransferOutput, outs[0].Type)
	assert.Equal(t, "89400", outs[0].Amount.String())
	assert.Equal(t, types.TypeSECPMintOutput, outs[1].Type)
	assert.Equal(t, dest, outs[1].Addresses[0])
	requireConsumed(t, res.Tx, map[types.ID]uint64{nativeID: testCreateFee})
}

func TestCreateAsset_NoInitialSupply(t *testing.T) {
	res, err := newBuilder().CreateAsset(utxo(1, nativeID, testCreateFee, seller),
		AssetSpec{Name: "Later", Symbol: "LTR", Denomination: 9}, dest, change, "")
	require.NoError(t, err)
	assert.Empty(t, res.Tx.Outputs)
	require.Len(t, res.Tx.InitialStates[0].Outputs, 1)
	assert.Equal(t, types.TypeSECPMintOutput, res.Tx.InitialStates[0].Outputs[0].Type)
}

func TestCreateAsset_Invalid(t *testing.T) {
	b := newBuilder()
	fee := utxo(1, nativeID, 25_000_000, seller)
	tests := []struct {
		name string
		spec AssetSpec
	}{
		{"no name", AssetSpec{Symbol: "QUIK"}},
		{"no symbol", AssetSpec{Name: "Quik"}},
		{"long symbol", AssetSpec{Name: "Quik", Symbol: "QUIKK"}},
		{"denomination", AssetSpec{Name: "Quik", Symbol: "QUIK", Denomination: 33}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.CreateAsset(fee, tt.spec, dest, change, "")
			require.ErrorIs(t, err, types.ErrValidation)
		})
	}

	_, err := b.CreateAsset(utxo(1, nativeID, testCreateFee-1, seller), AssetSpec{Name: "Quik", Symbol: "QUIK"}, dest, change, "")
	require.ErrorIs(t, err, types.ErrInsufficientFunds)
}

func TestSendAll(t *testing.T) {
	b := newBuilder()
	native := []wallet.UTXOGroup{
		{Address: seller, HDIndex: 0, UTXOs: []wallet.UTXO{utxo(1, nativeID, 3_000_000, seller)}},
		{Address: buyer, HDIndex: 4, UTXOs: []wallet.UTXO{utxo(2, nativeID, 2_000_000, buyer), utxo(3, nativeID, 500, buyer)}},
	}
	mint := utxo(7, quikID, 1, seller)
	mint.TypeID = types.TypeSECPMintOutput
	other := []wallet.UTXOGroup{
		{Address: seller, HDIndex: 0, UTXOs: []wallet.UTXO{utxo(4, quikID, 300, seller), mint, utxo(5, otherID, 9, seller)}},
		{Address: buyer, HDIndex: 4, UTXOs: []wallet.UTXO{utxo(6, quikID, 190, buyer)}},
	}

	res, err := b.SendAll(native, other, dest, "")
	require.NoError(t, err)

	assert.Len(t, res.Tx.Inputs, 6, "the mint output is not spent")
	assert.Len(t, res.Refs, 6)
	require.Len(t, res.Tx.Outputs, 3)
	assert.Equal(t, nativeID, res.Tx.Outputs[0].AssetID)
	assert.Equal(t, "4000500", res.Tx.Outputs[0].Amount.String())
	assert.Equal(t, quikID, res.Tx.Outputs[1].AssetID)
	assert.Equal(t, "490", res.Tx.Outputs[1].Amount.String())
	assert.Equal(t, otherID, res.Tx.Outputs[2].AssetID)
	for _, out := range res.Tx.Outputs {
		assert.Equal(t, dest, out.Addresses[0])
	}
	requireConsumed(t, res.Tx, map[types.ID]uint64{nativeID: testFee})
}

func TestSendAll_NotEnoughForFee(t *testing.T) {
	native := []wallet.UTXOGroup{{Address: seller, UTXOs: []wallet.UTXO{utxo(1, nativeID, 999_999, seller)}}}
	_, err := newBuilder().SendAll(native, nil, dest, "")
	require.ErrorIs(t, err, types.ErrInsufficientFunds)

	_, err = newBuilder().SendAll(nil, nil, dest, "")
	require.ErrorIs(t, err, types.ErrInsufficientFunds)
}

func TestDraftFinish_FeeConservation(t *testing.T) {
	b := newBuilder()

	d := b.newDraft()
	d.spend(utxo(1, nativeID, 10_000_000, seller))
	d.pay(nativeID, types.NewAmount(9_500_000), dest)
	_, err := d.finish("", b.chain.TxFee)
	require.ErrorIs(t, err, types.ErrValidation, "burns less than the fee")

	d = b.newDraft()
	d.spend(utxo(2, nativeID, 10_000_000, seller))
	d.pay(nativeID, types.NewAmount(9_000_000), dest)
	res, err := d.finish("", b.chain.TxFee)
	require.NoError(t, err)
	requireConsumed(t, res.Tx, map[types.ID]uint64{nativeID: testFee})
}

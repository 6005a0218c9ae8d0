package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/config"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/chainclient/chaintest"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/offer"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/storage"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/txbuilder"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/wallet"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/crypto"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

const avax = 1_000_000_000

type fixture struct {
	app   *App
	chain *chaintest.Chain
	store *wallet.FileStore
	pw    []byte
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := wallet.NewFileStore(t.TempDir())
	require.NoError(t, err)
	f := &fixture{chain: chaintest.New(), store: store}

	f.app, err = New(Options{
		Network:      config.Testnet,
		NetworkID:    chaintest.NetworkID,
		BlockchainID: f.chain.BlockchainID,
		PageSize:     10,
		Wallets:      store,
		Chain:        f.chain,
		Cache:        storage.NewMemory(),
		Password: func(string) ([]byte, error) {
			return append([]byte(nil), f.pw...), nil
		},
		EncryptionParams: wallet.EncryptionParams{Memory: 64, Iterations: 1, Parallelism: 1},
		Logger:           zerolog.Nop(),
	})
	require.NoError(t, err)
	return f
}

// newWallet creates a wallet and returns its first addresses.
func (f *fixture) newWallet(t *testing.T, name string) []types.Address {
	t.Helper()
	state, err := f.app.CreateWallet(name, "test wallet", nil)
	require.NoError(t, err)
	d, err := state.Deriver()
	require.NoError(t, err)
	addrs, err := d.Addresses(0, 10)
	require.NoError(t, err)
	return addrs
}

func outsider(t *testing.T) types.Address {
	t.Helper()
	k, err := crypto.GenerateKey()
	require.NoError(t, err)
	return k.Address()
}

func TestCreateWallet(t *testing.T) {
	f := newFixture(t)

	state, err := f.app.CreateWallet("alice", "first", nil)
	require.NoError(t, err)
	assert.Equal(t, "testnet", state.Network)
	assert.Equal(t, uint32(1), state.NextAddress)
	assert.Len(t, strings.Fields(state.Mnemonic), 24)

	_, err = f.app.CreateWallet("alice", "again", nil)
	assert.ErrorIs(t, err, wallet.ErrWalletExists)
	_, err = f.app.CreateWallet("", "", nil)
	assert.ErrorIs(t, err, types.ErrValidation)

	list, err := f.app.ListWallets()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, WalletInfo{Name: "alice", Network: "testnet", Description: "first", AvaxAmount: "0"}, list[0])
}

func TestCreateWallet_Encrypted(t *testing.T) {
	f := newFixture(t)
	f.pw = []byte("hunter2")

	state, err := f.app.CreateWallet("vault", "", []byte("hunter2"))
	require.NoError(t, err)
	assert.True(t, state.IsEncrypted())

	stored, err := f.store.Load("vault")
	require.NoError(t, err)
	assert.Empty(t, stored.Mnemonic)

	_, err = f.app.GetAddress("vault")
	require.NoError(t, err)

	f.pw = []byte("wrong")
	_, err = f.app.GetAddress("vault")
	assert.Error(t, err)
}

func TestGetAddress(t *testing.T) {
	f := newFixture(t)
	addrs := f.newWallet(t, "alice")

	got, err := f.app.GetAddress("alice")
	require.NoError(t, err)
	assert.Equal(t, addrs[1], got)

	peek, err := f.app.PeekAddress("alice")
	require.NoError(t, err)
	assert.Equal(t, addrs[2], peek)

	got, err = f.app.GetAddress("alice")
	require.NoError(t, err)
	assert.Equal(t, addrs[2], got)

	state, err := f.store.Load("alice")
	require.NoError(t, err)
	assert.Equal(t, uint32(3), state.NextAddress)
	assert.Equal(t, addrs[2], state.Addresses[2])

	_, err = f.app.GetAddress("nobody")
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
}

func TestGetKey(t *testing.T) {
	f := newFixture(t)
	addrs := f.newWallet(t, "alice")

	zero := uint32(0)
	k, err := f.app.GetKey("alice", &zero)
	require.NoError(t, err)
	assert.Equal(t, addrs[0].String(), k.Pub)
	assert.True(t, strings.HasPrefix(k.Priv, crypto.PrivateKeyPrefix))
	assert.Len(t, k.PubHex, 66)

	priv, err := crypto.ParsePrivateKey(k.Priv)
	require.NoError(t, err)
	assert.Equal(t, addrs[0], priv.Address())

	k, err = f.app.GetKey("alice", nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), k.Index)
	assert.Equal(t, addrs[1].String(), k.Pub)

	state, err := f.store.Load("alice")
	require.NoError(t, err)
	assert.Equal(t, uint32(2), state.NextAddress)
}

func TestUpdateBalances(t *testing.T) {
	f := newFixture(t)
	addrs := f.newWallet(t, "alice")
	token := f.chain.AddAsset("Test Token", "TST", 2)

	f.chain.Fund(addrs[0], f.chain.NativeID, 2*avax)
	f.chain.Fund(addrs[4], token, 500)
	f.chain.Fund(addrs[6], token, 25)

	report, err := f.app.UpdateBalances(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "2", report.AvaxAmount)
	require.Len(t, report.Tokens, 1)
	assert.Equal(t, TokenSummary{AssetID: token, Name: "Test Token", Symbol: "TST", Amount: "5.25"}, report.Tokens[0])
	assert.Len(t, report.Addresses, 3)

	state, err := f.store.Load("alice")
	require.NoError(t, err)
	assert.Equal(t, "2", state.AvaxAmount)
	assert.Equal(t, uint32(7), state.NextAddress)
	assert.Equal(t, addrs[6], state.Addresses[6])
}

func TestSend(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	addrs := f.newWallet(t, "alice")
	to := outsider(t)
	f.chain.Fund(addrs[0], f.chain.NativeID, 2*avax)

	txID, err := f.app.Send(ctx, "alice", to, "0.5", "rent")
	require.NoError(t, err)
	assert.Equal(t, f.chain.Broadcasts[0].ID(), txID)
	assert.Equal(t, "rent", string(f.chain.Broadcasts[0].Unsigned.Memo))

	assert.Equal(t, types.NewAmount(avax/2), f.chain.Balance(to, f.chain.NativeID))
	// Change lands on the address handed out during the send.
	assert.Equal(t, types.NewAmount(2*avax-avax/2-chaintest.TxFee), f.chain.Balance(addrs[1], f.chain.NativeID))

	state, err := f.store.Load("alice")
	require.NoError(t, err)
	assert.Equal(t, uint32(2), state.NextAddress)
}

func TestSend_NoUsableUTXO(t *testing.T) {
	f := newFixture(t)
	addrs := f.newWallet(t, "alice")
	f.chain.Fund(addrs[0], f.chain.NativeID, avax/10)
	f.chain.Fund(addrs[1], f.chain.NativeID, avax/2)

	// Together the UTXOs would cover it; no single one does.
	_, err := f.app.Send(context.Background(), "alice", outsider(t), "0.5", "")
	require.ErrorIs(t, err, types.ErrNoUsableUTXO)
	assert.Empty(t, f.chain.Broadcasts)
}

func TestSendAll(t *testing.T) {
	f := newFixture(t)
	addrs := f.newWallet(t, "alice")
	token := f.chain.AddAsset("Test Token", "TST", 0)
	to := outsider(t)
	f.chain.Fund(addrs[0], f.chain.NativeID, avax)
	f.chain.Fund(addrs[3], f.chain.NativeID, avax)
	f.chain.Fund(addrs[3], token, 70)

	_, err := f.app.SendAll(context.Background(), "alice", to, "")
	require.NoError(t, err)
	assert.Equal(t, types.NewAmount(2*avax-chaintest.TxFee), f.chain.Balance(to, f.chain.NativeID))
	assert.Equal(t, types.NewAmount(70), f.chain.Balance(to, token))
	assert.Equal(t, 2, f.chain.UTXOCount())
}

func TestSendTokens(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	addrs := f.newWallet(t, "alice")
	token := f.chain.AddAsset("Test Token", "TST", 2)
	to := outsider(t)
	f.chain.Fund(addrs[0], f.chain.NativeID, avax)
	f.chain.Fund(addrs[2], token, 300)
	f.chain.Fund(addrs[3], token, 200)

	_, err := f.app.SendTokens(ctx, "alice", TokenTransfer{AssetID: token, Amount: "2.5", To: to})
	require.NoError(t, err)
	assert.Equal(t, types.NewAmount(250), f.chain.Balance(to, token))

	report, err := f.app.UpdateBalances(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, report.Tokens, 1)
	assert.Equal(t, "2.5", report.Tokens[0].Amount)
}

func TestSendTokens_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	addrs := f.newWallet(t, "alice")
	token := f.chain.AddAsset("Test Token", "TST", 0)
	other := f.chain.AddAsset("Other", "OTH", 0)
	f.chain.Fund(addrs[0], f.chain.NativeID, avax)
	f.chain.Fund(addrs[0], token, 10)

	_, err := f.app.SendTokens(ctx, "alice", TokenTransfer{AssetID: other, Amount: "1", To: outsider(t)})
	assert.ErrorIs(t, err, txbuilder.ErrNoTokens)
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = f.app.SendTokens(ctx, "alice", TokenTransfer{AssetID: token, Amount: "11", To: outsider(t)})
	assert.ErrorIs(t, err, types.ErrInsufficientFunds)
	assert.Empty(t, f.chain.Broadcasts)
}

func TestBurnTokens(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	addrs := f.newWallet(t, "alice")
	token := f.chain.AddAsset("Test Token", "TST", 0)
	f.chain.Fund(addrs[0], f.chain.NativeID, avax)
	f.chain.Fund(addrs[0], token, 490)

	_, err := f.app.BurnTokens(ctx, "alice", token, "200")
	require.NoError(t, err)

	report, err := f.app.UpdateBalances(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, report.Tokens, 1)
	assert.Equal(t, "290", report.Tokens[0].Amount)
}

func TestCreateToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	addrs := f.newWallet(t, "alice")
	f.chain.Fund(addrs[0], f.chain.NativeID, avax)

	txID, err := f.app.CreateToken(ctx, "alice", TokenDefinition{
		Name: "Psf Token", Symbol: "PSF", Denomination: 2, Supply: "1000",
	})
	require.NoError(t, err)

	desc, err := f.chain.AssetDescription(ctx, txID.String())
	require.NoError(t, err)
	assert.Equal(t, "PSF", desc.Symbol)
	// Supply and change both go to the first fresh address.
	assert.Equal(t, types.NewAmount(100_000), f.chain.Balance(addrs[1], txID))
	assert.Equal(t, types.NewAmount(avax-chaintest.CreateAssetTxFee), f.chain.Balance(addrs[1], f.chain.NativeID))

	_, err = f.app.CreateToken(ctx, "alice", TokenDefinition{Name: "Bad", Symbol: "TOOLONG"})
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestBridge(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	addrs := f.newWallet(t, "alice")
	token := f.chain.AddAsset("Test Token", "TST", 0)
	bridge := outsider(t)
	f.chain.Fund(addrs[0], f.chain.NativeID, avax)
	f.chain.Fund(addrs[0], token, 10)

	for _, bad := range []string{"", "qqabc", "bitcoincash:"} {
		_, err := f.app.Bridge(ctx, "alice", TokenTransfer{AssetID: token, Amount: "1", To: bridge}, bad)
		assert.ErrorIs(t, err, types.ErrValidation, bad)
	}

	const bch = "simpleledger:qz9tzs6d5097ejpg279rg0rnlhz546q4fsnck9wh5m"
	_, err := f.app.Bridge(ctx, "alice", TokenTransfer{AssetID: token, Amount: "4", To: bridge}, " "+bch)
	require.NoError(t, err)
	require.Len(t, f.chain.Broadcasts, 1)
	assert.Equal(t, "bch "+bch, string(f.chain.Broadcasts[0].Unsigned.Memo))
	assert.Equal(t, types.NewAmount(4), f.chain.Balance(bridge, token))
}

func TestOffer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seller := f.newWallet(t, "seller")
	buyer := f.newWallet(t, "buyer")
	token := f.chain.AddAsset("Test Token", "TST", 0)
	f.chain.Fund(seller[0], token, 89_400)
	f.chain.Fund(buyer[0], f.chain.NativeID, avax)

	ex, err := f.app.SellOffer(ctx, "seller", token, types.NewAmount(40_000), types.NewAmount(100))
	require.NoError(t, err)
	text, err := ex.Encode()
	require.NoError(t, err)

	received, err := offer.ParseExchange(text)
	require.NoError(t, err)
	countered, err := f.app.BuyOffer(ctx, "buyer", received)
	require.NoError(t, err)

	// The buyer cannot finish the trade alone.
	_, err = f.app.AcceptOffer(ctx, "buyer", countered)
	require.ErrorIs(t, err, types.ErrIncompleteSignature)
	assert.Empty(t, f.chain.Broadcasts)

	txID, err := f.app.AcceptOffer(ctx, "seller", countered)
	require.NoError(t, err)
	assert.Equal(t, f.chain.Broadcasts[0].ID(), txID)

	assert.Equal(t, types.NewAmount(100), f.chain.Balance(seller[0], f.chain.NativeID))
	assert.Equal(t, types.NewAmount(49_400), f.chain.Balance(seller[0], token))

	report, err := f.app.UpdateBalances(ctx, "buyer")
	require.NoError(t, err)
	require.Len(t, report.Tokens, 1)
	assert.Equal(t, "40000", report.Tokens[0].Amount)
	assert.Equal(t, "0.9989999", report.AvaxAmount)
}

func TestNetworkFailure(t *testing.T) {
	f := newFixture(t)
	addrs := f.newWallet(t, "alice")
	f.chain.Fund(addrs[0], f.chain.NativeID, avax)
	f.chain.Err = errors.New("connection refused")

	_, err := f.app.Send(context.Background(), "alice", outsider(t), "0.1", "")
	assert.ErrorIs(t, err, types.ErrNetwork)
}

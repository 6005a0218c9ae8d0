package chaintest

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/chainclient"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/crypto"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/tx"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

var _ chainclient.Service = (*Chain)(nil)

func key(t *testing.T, seed byte) *crypto.PrivateKey {
	t.Helper()
	k, err := crypto.PrivateKeyFromBytes(bytes.Repeat([]byte{seed}, 32))
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes: %v", err)
	}
	return k
}

func transfer(t *testing.T, c *Chain, in types.UTXOID, amount, send uint64, to, change types.Address) *tx.Transaction {
	t.Helper()
	b := tx.NewBuilder(NetworkID, c.BlockchainID).
		AddInput(in, c.NativeID, types.NewAmount(amount)).
		AddOutput(c.NativeID, types.NewAmount(send), to)
	if rest := amount - send - TxFee; rest > 0 {
		b.AddOutput(c.NativeID, types.NewAmount(rest), change)
	}
	unsigned, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return unsigned
}

func TestChain_BroadcastTransfer(t *testing.T) {
	ctx := context.Background()
	c := New()
	alice, bob := key(t, 1), key(t, 2)
	in := c.Fund(alice.Address(), c.NativeID, 10_000_000)

	stx := tx.NewSignedTx(transfer(t, c, in, 10_000_000, 4_000_000, bob.Address(), alice.Address()))
	refs := tx.AddrReferences{}
	refs.Add(in, alice.Address())
	if _, err := tx.Sign(stx, tx.KeySet{alice.Address(): alice}, refs); err != nil {
		t.Fatalf("Sign: %v", err)
	}

	txID, err := c.Broadcast(ctx, stx.Hex())
	if err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	if txID != stx.ID() {
		t.Errorf("txID = %s, want %s", txID, stx.ID())
	}
	if got := c.Balance(bob.Address(), c.NativeID); got.Cmp(types.NewAmount(4_000_000)) != 0 {
		t.Errorf("bob balance = %s", got)
	}
	if got := c.Balance(alice.Address(), c.NativeID); got.Cmp(types.NewAmount(5_000_000)) != 0 {
		t.Errorf("alice balance = %s", got)
	}
	if len(c.Broadcasts) != 1 {
		t.Errorf("broadcasts = %d, want 1", len(c.Broadcasts))
	}

	// Spent inputs cannot be replayed.
	if _, err := c.Broadcast(ctx, stx.Hex()); !errors.Is(err, types.ErrNetwork) {
		t.Errorf("replay should fail, got %v", err)
	}
}

func TestChain_BroadcastRejects(t *testing.T) {
	ctx := context.Background()
	c := New()
	alice, bob := key(t, 1), key(t, 2)
	in := c.Fund(alice.Address(), c.NativeID, 10_000_000)
	refs := tx.AddrReferences{}
	refs.Add(in, alice.Address())

	t.Run("unsigned", func(t *testing.T) {
		stx := tx.NewSignedTx(transfer(t, c, in, 10_000_000, 1, bob.Address(), alice.Address()))
		if _, err := c.Broadcast(ctx, stx.Hex()); err == nil {
			t.Fatal("unsigned tx accepted")
		}
	})

	t.Run("wrong signer", func(t *testing.T) {
		stx := tx.NewSignedTx(transfer(t, c, in, 10_000_000, 1, bob.Address(), alice.Address()))
		wrong := tx.AddrReferences{}
		wrong.Add(in, bob.Address())
		if _, err := tx.Sign(stx, tx.KeySet{bob.Address(): bob}, wrong); err != nil {
			t.Fatalf("Sign: %v", err)
		}
		if _, err := c.Broadcast(ctx, stx.Hex()); err == nil {
			t.Fatal("tx signed by the wrong key accepted")
		}
	})

	t.Run("fee too high", func(t *testing.T) {
		unsigned, err := tx.NewBuilder(NetworkID, c.BlockchainID).
			AddInput(in, c.NativeID, types.NewAmount(10_000_000)).
			AddOutput(c.NativeID, types.NewAmount(1), bob.Address()).
			Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		stx := tx.NewSignedTx(unsigned)
		if _, err := tx.Sign(stx, tx.KeySet{alice.Address(): alice}, refs); err != nil {
			t.Fatalf("Sign: %v", err)
		}
		if _, err := c.Broadcast(ctx, stx.Hex()); err == nil {
			t.Fatal("tx burning more than the fee accepted")
		}
	})

	t.Run("bad hex", func(t *testing.T) {
		if _, err := c.Broadcast(ctx, "zz"); !errors.Is(err, types.ErrNetwork) {
			t.Fatalf("expected network error, got %v", err)
		}
	})

	if c.UTXOCount() != 1 {
		t.Errorf("rejected transactions changed the utxo set")
	}
}

func TestChain_CreateAsset(t *testing.T) {
	ctx := context.Background()
	c := New()
	alice := key(t, 1)
	in := c.Fund(alice.Address(), c.NativeID, 20_000_000)

	unsigned, err := tx.NewBuilder(NetworkID, c.BlockchainID).
		AddInput(in, c.NativeID, types.NewAmount(20_000_000)).
		AddOutput(c.NativeID, types.NewAmount(10_000_000), alice.Address()).
		CreateAsset("Test Token", "TTK", 2).
		AddInitialSupply(types.NewAmount(50_000), alice.Address()).
		AddMintAuthority(alice.Address()).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	stx := tx.NewSignedTx(unsigned)
	refs := tx.AddrReferences{}
	refs.Add(in, alice.Address())
	if _, err := tx.Sign(stx, tx.KeySet{alice.Address(): alice}, refs); err != nil {
		t.Fatalf("Sign: %v", err)
	}

	assetID, err := c.Broadcast(ctx, stx.Hex())
	if err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	desc, err := c.AssetDescription(ctx, assetID.String())
	if err != nil {
		t.Fatalf("AssetDescription: %v", err)
	}
	if desc.Symbol != "TTK" || desc.Denomination != 2 {
		t.Errorf("unexpected description %+v", desc)
	}
	if got := c.Balance(alice.Address(), assetID); got.Cmp(types.NewAmount(50_000)) != 0 {
		t.Errorf("token balance = %s, want 50000", got)
	}

	utxos, err := c.UTXOs(ctx, []types.Address{alice.Address()})
	if err != nil {
		t.Fatalf("UTXOs: %v", err)
	}
	var mints int
	for _, u := range utxos {
		if u.Output.Type == types.TypeSECPMintOutput {
			mints++
		}
	}
	if mints != 1 {
		t.Errorf("mint outputs = %d, want 1", mints)
	}
}

func TestChain_AllBalances(t *testing.T) {
	ctx := context.Background()
	c := New()
	addr := key(t, 1).Address()
	token := c.AddAsset("Test Token", "TTK", 2)
	c.Fund(addr, c.NativeID, 3)
	c.Fund(addr, token, 7)
	c.Fund(addr, c.NativeID, 4)

	got, err := c.AllBalances(ctx, addr)
	if err != nil {
		t.Fatalf("AllBalances: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d balances, want 2", len(got))
	}
	if got[0].Asset != chainclient.NativeAlias || got[0].Balance.Cmp(types.NewAmount(7)) != 0 {
		t.Errorf("native = %+v", got[0])
	}
	if got[1].Asset != token.String() || got[1].Balance.Cmp(types.NewAmount(7)) != 0 {
		t.Errorf("token = %+v", got[1])
	}

	c.Err = errors.New("offline")
	if _, err := c.AllBalances(ctx, addr); !errors.Is(err, types.ErrNetwork) {
		t.Errorf("expected network error, got %v", err)
	}
}

func TestChain_AllBalancesOverflow(t *testing.T) {
	c := New()
	addr := key(t, 1).Address()
	huge := types.AmountFromBytes32(bytes.Repeat([]byte{0xff}, 32))
	for i := 0; i < 2; i++ {
		c.AddUTXO(tx.Output{
			AssetID:   c.NativeID,
			Type:      types.TypeSECPTransferOutput,
			Amount:    huge,
			Threshold: 1,
			Addresses: []types.Address{addr},
		})
	}

	if _, err := c.AllBalances(context.Background(), addr); !errors.Is(err, types.ErrNetwork) {
		t.Errorf("AllBalances with an overflowing total = %v, want ErrNetwork", err)
	}
}

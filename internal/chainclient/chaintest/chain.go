// Package chaintest provides an in-memory chain implementing
// chainclient.Service for tests.
package chaintest

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/chainclient"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/crypto"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/tx"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

// Defaults of a new Chain.
const (
	NetworkID        = 5
	NativeDenom      = 9
	TxFee            = 1_000_000
	CreateAssetTxFee = 10_000_000
)

// Chain is an in-memory ledger. Broadcast checks every credential against
// the owner of the spent UTXO and the flat fee before applying a transaction.
type Chain struct {
	mu sync.Mutex

	NativeID     types.ID
	BlockchainID types.ID
	Fee          chainclient.Fees

	assets map[types.ID]types.AssetDescription
	utxos  []*tx.UTXO
	nonce  uint64

	// Broadcasts records every accepted transaction.
	Broadcasts []*tx.SignedTx
	// Err, when set, fails every call with a network error.
	Err error
	// DescriptionCalls counts AssetDescription calls.
	DescriptionCalls int
}

// New creates a chain whose native asset is "AVAX" with 9 decimals.
func New() *Chain {
	c := &Chain{
		NativeID:     crypto.Hash([]byte("native asset")),
		BlockchainID: crypto.Hash([]byte("x-chain")),
		Fee: chainclient.Fees{
			TxFee:            types.NewAmount(TxFee),
			CreateAssetTxFee: types.NewAmount(CreateAssetTxFee),
		},
		assets: make(map[types.ID]types.AssetDescription),
	}
	c.assets[c.NativeID] = types.AssetDescription{
		AssetID:      c.NativeID,
		Name:         "Avalanche",
		Symbol:       "AVAX",
		Denomination: NativeDenom,
	}
	return c
}

// AddAsset registers an asset and returns its id.
func (c *Chain) AddAsset(name, symbol string, denomination uint8) types.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := crypto.Hash([]byte("asset/" + symbol + "/" + name))
	c.assets[id] = types.AssetDescription{AssetID: id, Name: name, Symbol: symbol, Denomination: denomination}
	return id
}

// Fund creates a transfer UTXO paying amount of assetID to addr.
func (c *Chain) Fund(addr types.Address, assetID types.ID, amount uint64) types.UTXOID {
	return c.AddUTXO(tx.Output{
		AssetID:   assetID,
		Type:      types.TypeSECPTransferOutput,
		Amount:    types.NewAmount(amount),
		Threshold: 1,
		Addresses: []types.Address{addr},
	})
}

// AddUTXO inserts an arbitrary output under a fresh transaction id.
func (c *Chain) AddUTXO(out tx.Output) types.UTXOID {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nonce++
	var seed [8]byte
	binary.BigEndian.PutUint64(seed[:], c.nonce)
	id := types.UTXOID{TxID: crypto.Hash(seed[:]), OutputIndex: 0}
	c.utxos = append(c.utxos, &tx.UTXO{ID: id, Output: out})
	return id
}

// UTXOCount returns the number of unspent outputs.
func (c *Chain) UTXOCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.utxos)
}

// Balance sums the transfer outputs of assetID owned by addr. It panics
// if the total overflows.
func (c *Chain) Balance(addr types.Address, assetID types.ID) types.Amount {
	c.mu.Lock()
	defer c.mu.Unlock()
	totals, err := c.balanceLocked(addr)
	if err != nil {
		panic(err)
	}
	return totals[assetID]
}

func (c *Chain) fail() error {
	if c.Err != nil {
		return fmt.Errorf("%w: %v", types.ErrNetwork, c.Err)
	}
	return nil
}

// AssetDescription implements chainclient.Service.
func (c *Chain) AssetDescription(_ context.Context, asset string) (types.AssetDescription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.DescriptionCalls++
	if err := c.fail(); err != nil {
		return types.AssetDescription{}, err
	}
	if asset == chainclient.NativeAlias {
		return c.assets[c.NativeID], nil
	}
	id, err := types.IDFromString(asset)
	if err != nil {
		return types.AssetDescription{}, fmt.Errorf("%w: rpc error -32000: %v", types.ErrNetwork, err)
	}
	desc, ok := c.assets[id]
	if !ok {
		return types.AssetDescription{}, fmt.Errorf("%w: rpc error -32000: asset %s not found", types.ErrNetwork, asset)
	}
	return desc, nil
}

func (c *Chain) balanceLocked(addr types.Address) (map[types.ID]types.Amount, error) {
	totals := make(map[types.ID]types.Amount)
	for _, u := range c.utxos {
		if u.Output.Type != types.TypeSECPTransferOutput {
			continue
		}
		if owner, ok := u.Output.Owner(); !ok || owner != addr {
			continue
		}
		sum, err := totals[u.Output.AssetID].Add(u.Output.Amount)
		if err != nil {
			return nil, fmt.Errorf("balance of %s in %s: %w", addr, u.Output.AssetID, err)
		}
		totals[u.Output.AssetID] = sum
	}
	return totals, nil
}

// AllBalances implements chainclient.Service. The native asset is reported
// under its alias, like the node does.
func (c *Chain) AllBalances(_ context.Context, addr types.Address) ([]chainclient.Balance, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fail(); err != nil {
		return nil, err
	}
	totals, err := c.balanceLocked(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: rpc error -32000: %v", types.ErrNetwork, err)
	}

	var out []chainclient.Balance
	if amt, ok := totals[c.NativeID]; ok {
		out = append(out, chainclient.Balance{Asset: chainclient.NativeAlias, Balance: amt})
	}
	// Report other assets in first-seen order.
	seen := map[types.ID]bool{c.NativeID: true}
	for _, u := range c.utxos {
		id := u.Output.AssetID
		if amt, ok := totals[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, chainclient.Balance{Asset: id.String(), Balance: amt})
		}
	}
	return out, nil
}

// UTXOs implements chainclient.Service.
func (c *Chain) UTXOs(_ context.Context, addrs []types.Address) ([]*tx.UTXO, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fail(); err != nil {
		return nil, err
	}
	want := make(map[types.Address]bool, len(addrs))
	for _, a := range addrs {
		want[a] = true
	}
	var out []*tx.UTXO
	for _, u := range c.utxos {
		for _, a := range u.Output.Addresses {
			if want[a] {
				cp := *u
				out = append(out, &cp)
				break
			}
		}
	}
	return out, nil
}

// Fees implements chainclient.Service.
func (c *Chain) Fees(context.Context) (chainclient.Fees, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fail(); err != nil {
		return chainclient.Fees{}, err
	}
	return c.Fee, nil
}

// Broadcast implements chainclient.Service.
func (c *Chain) Broadcast(_ context.Context, signedHex string) (types.ID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fail(); err != nil {
		return types.ID{}, err
	}

	stx, err := tx.ParseSignedHex(signedHex)
	if err != nil {
		return types.ID{}, reject(err)
	}
	if err := c.checkLocked(stx); err != nil {
		return types.ID{}, reject(err)
	}

	txID := stx.ID()
	spent := make(map[types.UTXOID]bool, len(stx.Unsigned.Inputs))
	for _, in := range stx.Unsigned.Inputs {
		spent[in.UTXOID] = true
	}
	kept := c.utxos[:0]
	for _, u := range c.utxos {
		if !spent[u.ID] {
			kept = append(kept, u)
		}
	}
	c.utxos = kept

	idx := uint32(0)
	for _, out := range stx.Unsigned.Outputs {
		c.utxos = append(c.utxos, &tx.UTXO{ID: types.UTXOID{TxID: txID, OutputIndex: idx}, Output: out})
		idx++
	}
	if stx.Unsigned.Kind == tx.KindCreateAsset {
		c.assets[txID] = types.AssetDescription{
			AssetID:      txID,
			Name:         stx.Unsigned.Name,
			Symbol:       stx.Unsigned.Symbol,
			Denomination: stx.Unsigned.Denomination,
		}
		for _, st := range stx.Unsigned.InitialStates {
			for _, out := range st.Outputs {
				out.AssetID = txID
				c.utxos = append(c.utxos, &tx.UTXO{ID: types.UTXOID{TxID: txID, OutputIndex: idx}, Output: out})
				idx++
			}
		}
	}
	c.Broadcasts = append(c.Broadcasts, stx)
	return txID, nil
}

func reject(err error) error {
	return fmt.Errorf("%w: rpc error -32000: %v", types.ErrNetwork, err)
}

func (c *Chain) checkLocked(stx *tx.SignedTx) error {
	t := stx.Unsigned
	if t.NetworkID != NetworkID || t.BlockchainID != c.BlockchainID {
		return fmt.Errorf("wrong chain")
	}
	if err := t.Validate(); err != nil {
		return err
	}

	byID := make(map[types.UTXOID]*tx.UTXO, len(c.utxos))
	for _, u := range c.utxos {
		byID[u.ID] = u
	}
	for i, in := range t.Inputs {
		u, ok := byID[in.UTXOID]
		if !ok {
			return fmt.Errorf("input %d: utxo %s missing or spent", i, in.UTXOID)
		}
		if u.Output.AssetID != in.AssetID || u.Output.Amount.Cmp(in.Amount) != 0 {
			return fmt.Errorf("input %d: does not match utxo %s", i, in.UTXOID)
		}
	}

	owners := func(id types.UTXOID) (types.Address, bool) {
		u, ok := byID[id]
		if !ok {
			return types.Address{}, false
		}
		return u.Output.Owner()
	}
	if err := stx.VerifyCredentials(owners); err != nil {
		return err
	}

	fee := c.Fee.TxFee
	if t.Kind == tx.KindCreateAsset {
		fee = c.Fee.CreateAssetTxFee
	}
	return tx.CheckFee(t, c.NativeID, fee)
}

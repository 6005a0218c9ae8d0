// Package balance discovers the funds held by a wallet's derived addresses.
package balance

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/chainclient"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/wallet"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/tx"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

const (
	// MaxPageSize is the most addresses the node accepts in one UTXO query.
	MaxPageSize = 20
	// DefaultPageSize is the number of addresses scanned per page.
	DefaultPageSize = 10
	// MaxScanIndex stops a scan that has run past this many addresses.
	MaxScanIndex = 10_000
)

// Chain is the part of the chain service the aggregator reads.
type Chain interface {
	AllBalances(ctx context.Context, addr types.Address) ([]chainclient.Balance, error)
	UTXOs(ctx context.Context, addrs []types.Address) ([]*tx.UTXO, error)
}

// Describer resolves asset ids and aliases to descriptions.
type Describer interface {
	Describe(ctx context.Context, asset string) (types.AssetDescription, error)
}

// Aggregator scans derived addresses page by page.
type Aggregator struct {
	chain    Chain
	assets   Describer
	pageSize uint32
	logger   zerolog.Logger
}

// New creates an aggregator. A pageSize of 0 selects DefaultPageSize.
func New(chain Chain, assets Describer, pageSize uint32, logger zerolog.Logger) (*Aggregator, error) {
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		return nil, types.Invalidf("page size %d exceeds %d", pageSize, MaxPageSize)
	}
	return &Aggregator{chain: chain, assets: assets, pageSize: pageSize, logger: logger}, nil
}

// Page is the data gathered for one range of addresses.
type Page struct {
	Start uint32
	// Balances holds only the addresses that own at least one asset.
	Balances []wallet.AddressBalance
	// Native and Other bucket the UTXOs by asset, one group per address
	// that owns any.
	Native []wallet.UTXOGroup
	Other  []wallet.UTXOGroup
	// NativeTotal sums the native balance across the page.
	NativeTotal types.Amount
}

// HasBalance reports whether any address in the page holds an asset.
func (p *Page) HasBalance() bool {
	for _, b := range p.Balances {
		if b.HasBalance() {
			return true
		}
	}
	return false
}

// GetAddressData gathers balances and UTXOs for the addresses at
// [index, index+limit). limit must be between 1 and MaxPageSize.
func (a *Aggregator) GetAddressData(ctx context.Context, d *wallet.Deriver, index, limit uint32) (*Page, error) {
	if limit == 0 {
		return nil, types.Invalidf("limit must be a non-zero number")
	}
	if limit > MaxPageSize {
		return nil, types.Invalidf("limit must be %d or less", MaxPageSize)
	}

	addrs, err := d.Addresses(index, limit)
	if err != nil {
		return nil, err
	}
	native, err := a.assets.Describe(ctx, chainclient.NativeAlias)
	if err != nil {
		return nil, fmt.Errorf("native asset: %w", err)
	}
	a.logger.Debug().Uint32("from", index).Uint32("to", index+limit).Msg("Scanning addresses")

	page := &Page{Start: index}
	for i, addr := range addrs {
		bal, err := a.addressBalance(ctx, addr, index+uint32(i), native)
		if err != nil {
			return nil, err
		}
		if !bal.HasBalance() {
			continue
		}
		page.Balances = append(page.Balances, bal)
		if page.NativeTotal, err = page.NativeTotal.Add(bal.Native); err != nil {
			return nil, err
		}
	}

	utxos, err := a.chain.UTXOs(ctx, addrs)
	if err != nil {
		return nil, fmt.Errorf("utxos %d..%d: %w", index, index+limit, err)
	}
	page.Native, page.Other = bucket(addrs, index, utxos, native.AssetID)
	return page, nil
}

// addressBalance lists the assets held by addr. Descriptions are resolved
// concurrently and reassembled in the order the node returned the balances.
func (a *Aggregator) addressBalance(ctx context.Context, addr types.Address, hdIndex uint32, native types.AssetDescription) (wallet.AddressBalance, error) {
	out := wallet.AddressBalance{Address: addr, HDIndex: hdIndex}

	entries, err := a.chain.AllBalances(ctx, addr)
	if err != nil {
		return out, fmt.Errorf("balances of index %d: %w", hdIndex, err)
	}

	var held []chainclient.Balance
	for _, e := range entries {
		if !e.Balance.IsZero() {
			held = append(held, e)
		}
	}
	if len(held) == 0 {
		return out, nil
	}

	descs := make([]types.AssetDescription, len(held))
	g, gctx := errgroup.WithContext(ctx)
	for i, e := range held {
		i, e := i, e
		if e.Asset == chainclient.NativeAlias || e.Asset == native.AssetID.String() {
			descs[i] = native
			continue
		}
		g.Go(func() error {
			desc, err := a.assets.Describe(gctx, e.Asset)
			if err != nil {
				return fmt.Errorf("asset %s: %w", e.Asset, err)
			}
			descs[i] = desc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}

	out.Assets = make([]wallet.AssetBalance, len(held))
	for i, e := range held {
		d := descs[i]
		out.Assets[i] = wallet.AssetBalance{
			AssetID:      d.AssetID,
			Name:         d.Name,
			Symbol:       d.Symbol,
			Denomination: d.Denomination,
			Amount:       e.Balance,
		}
		if d.AssetID == native.AssetID {
			out.Native = e.Balance
		}
	}
	return out, nil
}

// bucket splits utxos into native and other groups per address. NFT
// outputs are dropped and non-transfer outputs count as one unit.
func bucket(addrs []types.Address, start uint32, utxos []*tx.UTXO, nativeID types.ID) (native, other []wallet.UTXOGroup) {
	for i, addr := range addrs {
		hdIndex := start + uint32(i)
		n := wallet.UTXOGroup{Address: addr, HDIndex: hdIndex}
		o := wallet.UTXOGroup{Address: addr, HDIndex: hdIndex}

		for _, u := range utxos {
			if u.Output.Type.IsNFT() || !ownedBy(u.Output, addr) {
				continue
			}
			amount := types.NewAmount(1)
			if u.Output.Type == types.TypeSECPTransferOutput {
				amount = u.Output.Amount
			}
			w := wallet.UTXO{
				TxID:        u.ID.TxID,
				OutputIndex: u.ID.OutputIndex,
				Amount:      amount,
				AssetID:     u.Output.AssetID,
				TypeID:      u.Output.Type,
				HDIndex:     hdIndex,
				Address:     addr,
			}
			if u.Output.AssetID == nativeID {
				n.UTXOs = append(n.UTXOs, w)
			} else {
				o.UTXOs = append(o.UTXOs, w)
			}
		}

		if len(n.UTXOs) > 0 {
			native = append(native, n)
		}
		if len(o.UTXOs) > 0 {
			other = append(other, o)
		}
	}
	return native, other
}

func ownedBy(out tx.Output, addr types.Address) bool {
	for _, a := range out.Addresses {
		if a == addr {
			return true
		}
	}
	return false
}

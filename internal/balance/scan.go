package balance

import (
	"context"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/wallet"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

// Result is the wallet-wide view assembled from every page with a balance.
type Result struct {
	Balances    []wallet.AddressBalance
	Native      []wallet.UTXOGroup
	Other       []wallet.UTXOGroup
	NativeTotal types.Amount
	// Scanned is the first index past the last page examined.
	Scanned uint32
}

// Scan walks the wallet's addresses a page at a time. It keeps going while
// pages hold balances and at least until nextAddress is covered. The first
// empty page past nextAddress ends the scan and is not part of the result.
func (a *Aggregator) Scan(ctx context.Context, d *wallet.Deriver, nextAddress uint32) (*Result, error) {
	res := &Result{}
	index := uint32(0)
	hasBalance := true

	for hasBalance || index < nextAddress {
		page, err := a.GetAddressData(ctx, d, index, a.pageSize)
		if err != nil {
			return nil, err
		}
		index += a.pageSize

		hasBalance = page.HasBalance()
		if hasBalance {
			res.Balances = append(res.Balances, page.Balances...)
			res.Native = append(res.Native, page.Native...)
			res.Other = append(res.Other, page.Other...)
			if res.NativeTotal, err = res.NativeTotal.Add(page.NativeTotal); err != nil {
				return nil, err
			}
		}

		if index > MaxScanIndex {
			a.logger.Warn().Uint32("index", index).Msg("Address scan stopped at safety limit")
			break
		}
	}
	res.Scanned = index

	a.logger.Debug().
		Int("addresses", len(res.Balances)).
		Uint32("scanned", index).
		Str("native", res.NativeTotal.String()).
		Msg("Address scan complete")
	return res, nil
}

// HighestIndex returns the largest HD index that holds an asset, or false
// when nothing does.
func (r *Result) HighestIndex() (uint32, bool) {
	var (
		hi    uint32
		found bool
	)
	for _, b := range r.Balances {
		if !found || b.HDIndex > hi {
			hi, found = b.HDIndex, true
		}
	}
	return hi, found
}

// Apply stores the scan in the wallet state. Addresses with a balance are
// recorded and NextAddress moves past the highest funded index.
func (r *Result) Apply(s *wallet.State, native types.AssetDescription) {
	s.Balances = r.Balances
	s.AvaxUTXOs = r.Native
	s.OtherUTXOs = r.Other
	s.AvaxAmount = r.NativeTotal.Format(native.Denomination)
	for _, b := range r.Balances {
		s.RecordAddress(b.HDIndex, b.Address)
	}
	if hi, ok := r.HighestIndex(); ok && hi >= s.NextAddress {
		s.NextAddress = hi + 1
	}
}

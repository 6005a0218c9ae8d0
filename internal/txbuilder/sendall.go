package txbuilder

import (
	"fmt"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/wallet"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/tx"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

// SendAll spends every transfer UTXO of the wallet, native and other, and
// pays each asset's total to one address. The native total is reduced by
// the fee. Spending from every address in one transaction links them all
// on chain; that is the point of a consolidation.
//
// Only transfer outputs move. Mint authorities and NFTs stay behind.
func (b *Builder) SendAll(native, other []wallet.UTXOGroup, to types.Address, memo string) (*Result, error) {
	d := b.newDraft()

	var nativeTotal types.Amount
	for _, u := range wallet.Flatten(native) {
		if u.TypeID != types.TypeSECPTransferOutput {
			continue
		}
		var err error
		if nativeTotal, err = nativeTotal.Add(u.Amount); err != nil {
			return nil, fmt.Errorf("native total: %w", err)
		}
		d.spend(u)
	}

	var (
		order  []types.ID
		totals = make(map[types.ID]types.Amount)
	)
	for _, u := range wallet.Flatten(other) {
		if u.TypeID != types.TypeSECPTransferOutput {
			continue
		}
		sum, seen := totals[u.AssetID]
		if !seen {
			order = append(order, u.AssetID)
		}
		var err error
		if totals[u.AssetID], err = sum.Add(u.Amount); err != nil {
			return nil, fmt.Errorf("asset %s total: %w", u.AssetID, err)
		}
		d.spend(u)
	}

	remainder, err := tx.Remainder(nativeTotal, b.chain.TxFee, types.Amount{})
	if err != nil {
		return nil, err
	}
	d.pay(b.chain.NativeID, remainder, to)
	for _, id := range order {
		d.pay(id, totals[id], to)
	}

	b.logger.Debug().Int("inputs", len(d.refs)).Int("assets", len(order)+1).Msg("Built consolidation")
	return d.finish(memo, b.chain.TxFee)
}

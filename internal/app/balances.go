package app

import (
	"context"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/wallet"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

// TokenSummary is the wallet-wide holding of one non-native asset.
type TokenSummary struct {
	AssetID types.ID `json:"assetID"`
	Name    string   `json:"name"`
	Symbol  string   `json:"symbol"`
	// Amount is in display units.
	Amount string `json:"amount"`
}

// BalanceReport is the outcome of update-balances.
type BalanceReport struct {
	Wallet     string                  `json:"wallet"`
	AvaxAmount string                  `json:"avaxAmount"`
	Addresses  []wallet.AddressBalance `json:"addresses"`
	Tokens     []TokenSummary          `json:"tokens"`
}

// UpdateBalances scans the wallet's addresses, stores the snapshot and
// summarises the tokens held.
func (a *App) UpdateBalances(ctx context.Context, name string) (*BalanceReport, error) {
	s, err := a.open(name)
	if err != nil {
		return nil, err
	}
	native, err := a.refresh(ctx, s)
	if err != nil {
		return nil, err
	}
	tokens, err := summarize(s.state.Balances, native.AssetID)
	if err != nil {
		return nil, err
	}
	return &BalanceReport{
		Wallet:     name,
		AvaxAmount: s.state.AvaxAmount,
		Addresses:  s.state.Balances,
		Tokens:     tokens,
	}, nil
}

// refresh rescans an opened wallet and persists the result. Every spending
// command starts with it so selection sees the chain's current UTXOs.
func (a *App) refresh(ctx context.Context, s *session) (types.AssetDescription, error) {
	native, err := a.native(ctx)
	if err != nil {
		return types.AssetDescription{}, err
	}
	res, err := a.scanner.Scan(ctx, s.deriver, s.state.NextAddress)
	if err != nil {
		return types.AssetDescription{}, err
	}
	res.Apply(s.state, native)
	if err := a.save(s); err != nil {
		return types.AssetDescription{}, err
	}
	a.logger.Debug().Str("wallet", s.name).Str("avax", s.state.AvaxAmount).
		Int("addresses", len(res.Balances)).Msg("Balances updated")
	return native, nil
}

// summarize totals every non-native asset across addresses, in first-seen
// order.
func summarize(balances []wallet.AddressBalance, nativeID types.ID) ([]TokenSummary, error) {
	type total struct {
		desc   wallet.AssetBalance
		amount types.Amount
	}
	var (
		order  []types.ID
		totals = make(map[types.ID]*total)
	)
	for _, b := range balances {
		for _, asset := range b.Assets {
			if asset.AssetID == nativeID {
				continue
			}
			t, ok := totals[asset.AssetID]
			if !ok {
				t = &total{desc: asset}
				totals[asset.AssetID] = t
				order = append(order, asset.AssetID)
			}
			var err error
			if t.amount, err = t.amount.Add(asset.Amount); err != nil {
				return nil, err
			}
		}
	}

	out := make([]TokenSummary, 0, len(order))
	for _, id := range order {
		t := totals[id]
		out = append(out, TokenSummary{
			AssetID: id,
			Name:    t.desc.Name,
			Symbol:  t.desc.Symbol,
			Amount:  t.amount.Format(t.desc.Denomination),
		})
	}
	return out, nil
}

package app

import (
	"context"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/offer"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/wallet"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

// SellOffer creates an unsigned offer of amount base units of assetID for
// price base units of the native asset.
func (a *App) SellOffer(ctx context.Context, name string, assetID types.ID, amount, price types.Amount) (*offer.Exchange, error) {
	s, err := a.open(name)
	if err != nil {
		return nil, err
	}
	if _, err := a.refresh(ctx, s); err != nil {
		return nil, err
	}
	p, _, err := a.protocol(ctx)
	if err != nil {
		return nil, err
	}
	return p.Sell(wallet.TokenUTXOs(s.state.OtherUTXOs, assetID), assetID, amount, price)
}

// BuyOffer counters an offer: one native UTXO of the wallet pays the price
// and the fee, and the tokens and change go to fresh addresses.
func (a *App) BuyOffer(ctx context.Context, name string, ex *offer.Exchange) (*offer.Exchange, error) {
	sell, err := ex.Transaction()
	if err != nil {
		return nil, err
	}

	s, err := a.open(name)
	if err != nil {
		return nil, err
	}
	if _, err := a.refresh(ctx, s); err != nil {
		return nil, err
	}
	p, b, err := a.protocol(ctx)
	if err != nil {
		return nil, err
	}
	terms, err := b.ReadOffer(sell.Unsigned)
	if err != nil {
		return nil, err
	}
	sel, err := wallet.Selector{Fee: b.Chain().TxFee}.SelectAmount(terms.Price, s.state.AvaxUTXOs)
	if err != nil {
		return nil, err
	}
	pay, err := sel.Require("the offer price plus fee")
	if err != nil {
		return nil, err
	}

	receive, err := s.nextAddress()
	if err != nil {
		return nil, err
	}
	change, err := s.nextAddress()
	if err != nil {
		return nil, err
	}
	keys, err := keysFor(s.deriver, pay)
	if err != nil {
		return nil, err
	}
	defer zeroKeys(keys)

	countered, err := p.Buy(ex, pay, receive, change, keys)
	if err != nil {
		return nil, err
	}
	if err := a.save(s); err != nil {
		return nil, err
	}
	return countered, nil
}

// AcceptOffer signs the wallet's inputs of a countered offer and
// broadcasts it.
func (a *App) AcceptOffer(ctx context.Context, name string, ex *offer.Exchange) (types.ID, error) {
	s, err := a.open(name)
	if err != nil {
		return types.ID{}, err
	}
	if _, err := a.refresh(ctx, s); err != nil {
		return types.ID{}, err
	}
	p, _, err := a.protocol(ctx)
	if err != nil {
		return types.ID{}, err
	}
	keys, err := s.deriver.KeySet(s.state.NextAddress)
	if err != nil {
		return types.ID{}, err
	}
	defer zeroKeys(keys)
	return p.Accept(ctx, ex, keys)
}

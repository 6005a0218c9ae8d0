package app

import (
	"context"
	"strings"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/txbuilder"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/wallet"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

// Send pays amount, in display units of the native asset, to one address.
// A single UTXO funds the payment and the fee; the change goes to a fresh
// address.
func (a *App) Send(ctx context.Context, name string, to types.Address, amount, memo string) (types.ID, error) {
	s, err := a.open(name)
	if err != nil {
		return types.ID{}, err
	}
	native, err := a.refresh(ctx, s)
	if err != nil {
		return types.ID{}, err
	}
	b, err := a.builder(ctx)
	if err != nil {
		return types.ID{}, err
	}

	value, err := types.ParseDisplayAmount(amount, native.Denomination)
	if err != nil {
		return types.ID{}, err
	}
	sel, err := wallet.Selector{Fee: b.Chain().TxFee}.SelectAmount(value, s.state.AvaxUTXOs)
	if err != nil {
		return types.ID{}, err
	}
	in, err := sel.Require("the amount plus fee")
	if err != nil {
		return types.ID{}, err
	}
	a.logger.Debug().Str("utxo", in.ID().String()).Str("amount", in.Amount.String()).Msg("Selected UTXO")

	change, err := s.nextAddress()
	if err != nil {
		return types.ID{}, err
	}
	res, err := b.Transfer(in, to, value, change, memo)
	if err != nil {
		return types.ID{}, err
	}
	return a.finish(ctx, s, res, in)
}

// SendAll moves every transfer UTXO of the wallet to one address.
func (a *App) SendAll(ctx context.Context, name string, to types.Address, memo string) (types.ID, error) {
	s, err := a.open(name)
	if err != nil {
		return types.ID{}, err
	}
	if _, err := a.refresh(ctx, s); err != nil {
		return types.ID{}, err
	}
	b, err := a.builder(ctx)
	if err != nil {
		return types.ID{}, err
	}
	res, err := b.SendAll(s.state.AvaxUTXOs, s.state.OtherUTXOs, to, memo)
	if err != nil {
		return types.ID{}, err
	}
	spent := append(wallet.Flatten(s.state.AvaxUTXOs), wallet.Flatten(s.state.OtherUTXOs)...)
	return a.finish(ctx, s, res, spent...)
}

// TokenTransfer names the asset and quantity of a token command.
type TokenTransfer struct {
	AssetID types.ID
	// Amount is in display units of the asset.
	Amount string
	To     types.Address
	Memo   string
}

// SendTokens sends a token amount. Every UTXO of the token is spent and a
// separate native UTXO pays the fee.
func (a *App) SendTokens(ctx context.Context, name string, t TokenTransfer) (types.ID, error) {
	return a.spendTokens(ctx, name, t, false)
}

// BurnTokens destroys a token amount. To and Memo are ignored.
func (a *App) BurnTokens(ctx context.Context, name string, assetID types.ID, amount string) (types.ID, error) {
	return a.spendTokens(ctx, name, TokenTransfer{AssetID: assetID, Amount: amount}, true)
}

// Bridge prefixes accepted for the receiving address on the other chain.
var bridgePrefixes = []string{"bitcoincash:", "simpleledger:"}

// Bridge sends tokens to the bridge at t.To with the memo the bridge reads
// to find the receiving address on the other chain.
func (a *App) Bridge(ctx context.Context, name string, t TokenTransfer, bchAddr string) (types.ID, error) {
	bchAddr = strings.TrimSpace(bchAddr)
	if !hasBridgePrefix(bchAddr) {
		return types.ID{}, types.Invalidf("invalid BCH or SLP address %q", bchAddr)
	}
	t.Memo = "bch " + bchAddr
	return a.spendTokens(ctx, name, t, false)
}

func hasBridgePrefix(addr string) bool {
	for _, p := range bridgePrefixes {
		if strings.HasPrefix(addr, p) && len(addr) > len(p) {
			return true
		}
	}
	return false
}

func (a *App) spendTokens(ctx context.Context, name string, t TokenTransfer, burn bool) (types.ID, error) {
	s, err := a.open(name)
	if err != nil {
		return types.ID{}, err
	}
	if _, err := a.refresh(ctx, s); err != nil {
		return types.ID{}, err
	}

	tokens := wallet.TokenUTXOs(s.state.OtherUTXOs, t.AssetID)
	if len(tokens) == 0 {
		return types.ID{}, txbuilder.ErrNoTokens
	}
	desc, err := a.assets.Describe(ctx, t.AssetID.String())
	if err != nil {
		return types.ID{}, err
	}
	qty, err := types.ParseDisplayAmount(t.Amount, desc.Denomination)
	if err != nil {
		return types.ID{}, err
	}

	b, err := a.builder(ctx)
	if err != nil {
		return types.ID{}, err
	}
	sel, err := wallet.Selector{Fee: b.Chain().TxFee}.SelectAmount(types.Amount{}, s.state.AvaxUTXOs)
	if err != nil {
		return types.ID{}, err
	}
	fee, err := sel.Require("the transaction fee")
	if err != nil {
		return types.ID{}, err
	}
	change, err := s.nextAddress()
	if err != nil {
		return types.ID{}, err
	}

	var res *txbuilder.Result
	if burn {
		res, err = b.Burn(fee, tokens, t.AssetID, qty, change)
	} else {
		res, err = b.SendTokens(fee, tokens, t.AssetID, qty, t.To, change, t.Memo)
	}
	if err != nil {
		return types.ID{}, err
	}
	return a.finish(ctx, s, res, append(tokens, fee)...)
}

// TokenDefinition describes a token to create.
type TokenDefinition struct {
	Name         string
	Symbol       string
	Denomination uint8
	// Supply is the initial supply in display units. Empty mints nothing.
	Supply string
	// Recipient receives the supply and the mint authority. Nil sends them
	// to a fresh wallet address.
	Recipient *types.Address
	Memo      string
}

// CreateToken declares a new asset. The returned id is also the asset id.
func (a *App) CreateToken(ctx context.Context, name string, def TokenDefinition) (types.ID, error) {
	var supply types.Amount
	if def.Supply != "" {
		var err error
		if supply, err = types.ParseDisplayAmount(def.Supply, def.Denomination); err != nil {
			return types.ID{}, err
		}
	}
	spec := txbuilder.AssetSpec{
		Name:          def.Name,
		Symbol:        def.Symbol,
		Denomination:  def.Denomination,
		InitialSupply: supply,
	}
	if err := spec.Validate(); err != nil {
		return types.ID{}, err
	}

	s, err := a.open(name)
	if err != nil {
		return types.ID{}, err
	}
	if _, err := a.refresh(ctx, s); err != nil {
		return types.ID{}, err
	}
	b, err := a.builder(ctx)
	if err != nil {
		return types.ID{}, err
	}
	sel, err := wallet.Selector{Fee: b.Chain().CreateAssetTxFee}.SelectAmount(types.Amount{}, s.state.AvaxUTXOs)
	if err != nil {
		return types.ID{}, err
	}
	fee, err := sel.Require("the asset creation fee")
	if err != nil {
		return types.ID{}, err
	}
	change, err := s.nextAddress()
	if err != nil {
		return types.ID{}, err
	}
	owner := change
	if def.Recipient != nil {
		owner = *def.Recipient
	}

	res, err := b.CreateAsset(fee, spec, owner, change, def.Memo)
	if err != nil {
		return types.ID{}, err
	}
	return a.finish(ctx, s, res, fee)
}

// finish signs res with the keys of spent, broadcasts it and persists the
// addresses handed out while building.
func (a *App) finish(ctx context.Context, s *session, res *txbuilder.Result, spent ...wallet.UTXO) (types.ID, error) {
	keys, err := keysFor(s.deriver, spent...)
	if err != nil {
		return types.ID{}, err
	}
	txID, err := a.signAndBroadcast(ctx, res, keys)
	if err != nil {
		return types.ID{}, err
	}
	if err := a.save(s); err != nil {
		return txID, err
	}
	return txID, nil
}

package txbuilder

import (
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/wallet"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/tx"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

// SendTokens spends every UTXO in tokens plus feeUTXO for the fee. The
// recipient gets amount; token and native remainders go to change.
func (b *Builder) SendTokens(feeUTXO wallet.UTXO, tokens []wallet.UTXO, assetID types.ID, amount types.Amount,
	to, change types.Address, memo string) (*Result, error) {
	if amount.IsZero() {
		return nil, types.Invalidf("token quantity must be positive")
	}
	return b.spendTokens(feeUTXO, tokens, assetID, amount, &to, change, memo)
}

// Burn destroys amount of assetID: it is a token send without a recipient.
func (b *Builder) Burn(feeUTXO wallet.UTXO, tokens []wallet.UTXO, assetID types.ID, amount types.Amount,
	change types.Address) (*Result, error) {
	if amount.IsZero() {
		return nil, types.Invalidf("burn quantity must be positive")
	}
	return b.spendTokens(feeUTXO, tokens, assetID, amount, nil, change, "")
}

func (b *Builder) spendTokens(feeUTXO wallet.UTXO, tokens []wallet.UTXO, assetID types.ID, amount types.Amount,
	to *types.Address, change types.Address, memo string) (*Result, error) {
	if assetID == b.chain.NativeID {
		return nil, types.Invalidf("use a native transfer to move the native asset")
	}
	held, err := tokenInputs(tokens, assetID)
	if err != nil {
		return nil, err
	}
	if err := b.checkNative(feeUTXO); err != nil {
		return nil, err
	}
	nativeRemainder, err := tx.Remainder(feeUTXO.Amount, b.chain.TxFee, types.Amount{})
	if err != nil {
		return nil, err
	}
	tokenRemainder, ok := held.Sub(amount)
	if !ok {
		return nil, insufficient("not enough tokens in the selected utxos", held, amount)
	}

	d := b.newDraft()
	for _, u := range tokens {
		d.spend(u)
	}
	d.spend(feeUTXO)
	if to != nil {
		d.pay(assetID, amount, *to)
	}
	d.pay(b.chain.NativeID, nativeRemainder, change)
	d.pay(assetID, tokenRemainder, change)

	ev := b.logger.Debug().Str("asset", assetID.String()).Str("amount", amount.String()).
		Str("tokenChange", tokenRemainder.String())
	if to == nil {
		ev.Msg("Built burn")
	} else {
		ev.Msg("Built token transfer")
	}
	return d.finish(memo, b.chain.TxFee)
}

// AssetSpec describes a new asset.
type AssetSpec struct {
	Name         string
	Symbol       string
	Denomination uint8
	// InitialSupply is in base units. Zero mints nothing up front.
	InitialSupply types.Amount
}

// Validate checks the definition.
func (s AssetSpec) Validate() error {
	switch {
	case s.Name == "":
		return types.Invalidf("you must specify a token name")
	case s.Symbol == "" || len(s.Symbol) > tx.MaxSymbolLen:
		return types.Invalidf("you must specify a ticker symbol (max %d characters)", tx.MaxSymbolLen)
	case s.Denomination > types.MaxDenomination:
		return types.Invalidf("denomination must be >= 0 and <= %d", types.MaxDenomination)
	}
	return nil
}

// CreateAsset declares a new asset paid for by feeUTXO. The initial supply
// and the mint authority both go to owner.
func (b *Builder) CreateAsset(feeUTXO wallet.UTXO, spec AssetSpec, owner, change types.Address, memo string) (*Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if err := b.checkNative(feeUTXO); err != nil {
		return nil, err
	}
	remainder, err := tx.Remainder(feeUTXO.Amount, b.chain.CreateAssetTxFee, types.Amount{})
	if err != nil {
		return nil, err
	}

	d := b.newDraft()
	d.spend(feeUTXO)
	d.pay(b.chain.NativeID, remainder, change)
	d.b.CreateAsset(spec.Name, spec.Symbol, spec.Denomination)
	if !spec.InitialSupply.IsZero() {
		d.b.AddInitialSupply(spec.InitialSupply, owner)
	}
	d.b.AddMintAuthority(owner)

	b.logger.Debug().Str("symbol", spec.Symbol).Str("supply", spec.InitialSupply.String()).Msg("Built asset creation")
	return d.finish(memo, b.chain.CreateAssetTxFee)
}

package txbuilder

import (
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/wallet"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

// SellMemo tags the first leg of an offer.
const SellMemo = "sell offer"

// SellOffer builds the seller's half of an offer: every UTXO of the token
// as input, price of the native asset back to the seller's return address,
// and the unsold tokens as change to the same address. The return address
// is the owner of the first token UTXO. The result is left unsigned for the
// buyer to complete; it pays no fee, the buyer's input covers it.
func (b *Builder) SellOffer(tokens []wallet.UTXO, assetID types.ID, amount, price types.Amount) (*Result, error) {
	if amount.IsZero() {
		return nil, types.Invalidf("sell quantity must be positive")
	}
	if price.IsZero() {
		return nil, types.Invalidf("asking price must be positive")
	}
	if assetID == b.chain.NativeID {
		return nil, types.Invalidf("the native asset cannot be offered")
	}
	held, err := tokenInputs(tokens, assetID)
	if err != nil {
		return nil, err
	}
	remainder, ok := held.Sub(amount)
	if !ok {
		return nil, insufficient("not enough tokens to sell", held, amount)
	}
	returnAddr := tokens[0].Address

	d := b.newDraft()
	for _, u := range tokens {
		d.spend(u)
	}
	d.pay(b.chain.NativeID, price, returnAddr)
	d.pay(assetID, remainder, returnAddr)

	b.logger.Debug().Str("asset", assetID.String()).Str("amount", amount.String()).
		Str("price", price.String()).Msg("Built sell offer")
	return d.finishPartial(SellMemo)
}

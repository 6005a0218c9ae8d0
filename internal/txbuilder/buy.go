package txbuilder

import (
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/wallet"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/tx"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

// Offer is what a sell transaction asks for and gives.
type Offer struct {
	AssetID types.ID
	// Amount is the quantity on offer: the seller's inputs of the asset
	// minus the change paid back to the seller.
	Amount types.Amount
	// Price is the native amount the seller expects.
	Price types.Amount
	// PriceOutput is the index of the seller's native output.
	PriceOutput int
}

// ReadOffer inspects a sell transaction. The asset on offer is that of the
// first input.
func (b *Builder) ReadOffer(sell *tx.Transaction) (Offer, error) {
	if len(sell.Inputs) == 0 {
		return Offer{}, types.Invalidf("offer has no inputs")
	}
	if sell.NetworkID != b.chain.NetworkID || sell.BlockchainID != b.chain.BlockchainID {
		return Offer{}, types.Invalidf("offer was built for another chain")
	}
	prices := sell.OutputsFor(b.chain.NativeID)
	if len(prices) == 0 {
		return Offer{}, types.Invalidf("offer asks for no native asset")
	}

	assetID := sell.Inputs[0].AssetID
	if assetID == b.chain.NativeID {
		return Offer{}, types.Invalidf("offer sells the native asset")
	}
	in, err := sell.InputTotal(assetID)
	if err != nil {
		return Offer{}, types.Invalidf("offer inputs: %v", err)
	}
	back, err := sell.OutputTotal(assetID)
	if err != nil {
		return Offer{}, types.Invalidf("offer outputs: %v", err)
	}
	amount, ok := in.Sub(back)
	if !ok || amount.IsZero() {
		return Offer{}, types.Invalidf("offer gives away no %s", assetID)
	}
	return Offer{
		AssetID:     assetID,
		Amount:      amount,
		Price:       sell.Outputs[prices[0]].Amount,
		PriceOutput: prices[0],
	}, nil
}

// BuyOffer completes a sell transaction with the buyer's side: pay is
// spent to cover the price and the fee, the tokens on offer go to receive
// and the native remainder to change. The seller's inputs and outputs keep
// their positions. Refs holds only the buyer's input.
func (b *Builder) BuyOffer(sell *tx.Transaction, pay wallet.UTXO, receive, change types.Address) (*Result, Offer, error) {
	offer, err := b.ReadOffer(sell)
	if err != nil {
		return nil, Offer{}, err
	}
	if err := b.checkNative(pay); err != nil {
		return nil, Offer{}, err
	}
	remainder, err := tx.Remainder(pay.Amount, b.chain.TxFee, offer.Price)
	if err != nil {
		return nil, Offer{}, err
	}

	d := &draft{b: tx.NewBuilderFrom(sell), refs: make(tx.AddrReferences), native: b.chain.NativeID}
	d.spend(pay)
	d.pay(offer.AssetID, offer.Amount, receive)
	d.pay(b.chain.NativeID, remainder, change)

	b.logger.Debug().Str("asset", offer.AssetID.String()).Str("amount", offer.Amount.String()).
		Str("price", offer.Price.String()).Msg("Built buy offer")
	res, err := d.finish(string(sell.Memo), b.chain.TxFee)
	if err != nil {
		return nil, Offer{}, err
	}
	return res, offer, nil
}

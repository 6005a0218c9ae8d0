// Package offer runs the three-step token sale between two wallets:
// the seller offers, the buyer counters and signs its input, and the
// seller accepts by signing the rest and broadcasting.
//
// An offer has no expiry and no cancel step. A seller withdraws an offer
// by spending the offered UTXOs.
package offer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/txbuilder"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/wallet"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/tx"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

// Broadcaster submits signed transactions.
type Broadcaster interface {
	Broadcast(ctx context.Context, signedHex string) (types.ID, error)
}

// Protocol runs offer steps for one wallet.
type Protocol struct {
	builder *txbuilder.Builder
	chain   Broadcaster
	logger  zerolog.Logger
}

// New creates a protocol runner.
func New(builder *txbuilder.Builder, chain Broadcaster, logger zerolog.Logger) *Protocol {
	return &Protocol{builder: builder, chain: chain, logger: logger}
}

// Sell offers amount of assetID, taken from tokens, for price of the native
// asset. The transaction is not signed.
func (p *Protocol) Sell(tokens []wallet.UTXO, assetID types.ID, amount, price types.Amount) (*Exchange, error) {
	res, err := p.builder.SellOffer(tokens, assetID, amount, price)
	if err != nil {
		return nil, err
	}
	ex := NewExchange(&tx.SignedTx{Unsigned: res.Tx}, res.Refs)
	p.logger.Info().Str("asset", assetID.String()).Str("amount", amount.String()).
		Str("price", price.String()).Msg("Offer created")
	return ex, nil
}

// Buy completes the seller's offer with pay and signs the buyer's input
// only. The tokens go to receive and the native change to change.
func (p *Protocol) Buy(ex *Exchange, pay wallet.UTXO, receive, change types.Address, keys tx.Keychain) (*Exchange, error) {
	sell, err := ex.Transaction()
	if err != nil {
		return nil, err
	}
	if len(sell.Credentials) != 0 {
		return nil, types.Invalidf("offer has already been countered")
	}

	res, offer, err := p.builder.BuyOffer(sell.Unsigned, pay, receive, change)
	if err != nil {
		return nil, err
	}
	stx := tx.NewSignedTx(res.Tx)
	n, err := tx.Sign(stx, keys, res.Refs)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: no key for the paying address %s", types.ErrIncompleteSignature, pay.Address)
	}

	p.logger.Info().Str("asset", offer.AssetID.String()).Str("amount", offer.Amount.String()).
		Str("price", offer.Price.String()).Msg("Offer countered")
	return NewExchange(stx, ex.AddrReferences.Merge(res.Refs)), nil
}

// Accept signs the seller's inputs with keys, checks that every slot is
// filled with a valid signature and broadcasts. Only inputs of the asset on
// offer are signed, and the native price must be paid to one of the
// seller's addresses. A transaction that is still incomplete is never
// broadcast.
func (p *Protocol) Accept(ctx context.Context, ex *Exchange, keys tx.Keychain) (types.ID, error) {
	stx, err := ex.Transaction()
	if err != nil {
		return types.ID{}, err
	}
	if len(stx.Credentials) == 0 {
		return types.ID{}, types.Invalidf("offer has not been countered yet")
	}
	if err := stx.Unsigned.Validate(); err != nil {
		return types.ID{}, err
	}

	sellerKeys, err := p.sellerKeys(stx, ex, keys)
	if err != nil {
		return types.ID{}, err
	}
	if _, err := tx.Sign(stx, sellerKeys, ex.AddrReferences); err != nil {
		return types.ID{}, err
	}
	if !stx.IsFullySigned() {
		return types.ID{}, fmt.Errorf("%w: inputs %v", types.ErrIncompleteSignature, stx.UnsignedInputs())
	}
	if err := stx.VerifyCredentials(ex.Owner); err != nil {
		return types.ID{}, err
	}

	txID, err := p.chain.Broadcast(ctx, stx.Hex())
	if err != nil {
		return types.ID{}, err
	}
	p.logger.Info().Str("txid", txID.String()).Msg("Offer accepted")
	return txID, nil
}

// sellerKeys picks the keys Accept may sign with: those owning inputs whose
// slot is still empty. Every such input must be of the asset on offer, and
// the counter must still pay the price to an address in keys. Keys that own
// no empty slot yield an empty set and the transaction stays incomplete.
func (p *Protocol) sellerKeys(stx *tx.SignedTx, ex *Exchange, keys tx.Keychain) (tx.KeySet, error) {
	offer, err := p.builder.ReadOffer(stx.Unsigned)
	if err != nil {
		return nil, err
	}

	out := make(tx.KeySet)
	for i, in := range stx.Unsigned.Inputs {
		if stx.Credentials[i].IsSigned() {
			continue
		}
		owner, ok := ex.Owner(in.UTXOID)
		if !ok {
			continue
		}
		key, ok := keys.Key(owner)
		if !ok {
			continue
		}
		if in.AssetID != offer.AssetID {
			return nil, types.Invalidf("counter spends this wallet's %s input %s", in.AssetID, in.UTXOID)
		}
		out[owner] = key
	}
	if len(out) == 0 {
		return out, nil
	}

	returnAddr, ok := stx.Unsigned.Outputs[offer.PriceOutput].Owner()
	if !ok {
		return nil, types.Invalidf("offer price output has no single owner")
	}
	if _, ok := keys.Key(returnAddr); !ok {
		return nil, types.Invalidf("offer does not pay %s to this wallet", offer.Price)
	}
	p.logger.Debug().Str("asset", offer.AssetID.String()).Str("amount", offer.Amount.String()).
		Str("price", offer.Price.String()).Int("keys", len(out)).Msg("Accepting offer")
	return out, nil
}

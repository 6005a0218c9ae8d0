// Package txbuilder assembles the wallet's transactions from selected UTXOs.
// Every builder returns the unsigned transaction and the owner of each
// input so the signer can find the matching keys.
package txbuilder

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/wallet"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/tx"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

// ErrNoTokens is returned when the wallet holds no transfer UTXO of the
// requested asset.
var ErrNoTokens = types.Invalidf("no tokens in the wallet matched the given token ID")

// Chain identifies the chain a transaction is built for.
type Chain struct {
	NetworkID    uint32
	BlockchainID types.ID
	NativeID     types.ID
	// TxFee is burned by every transaction except asset creation.
	TxFee types.Amount
	// CreateAssetTxFee is burned by asset creation.
	CreateAssetTxFee types.Amount
}

// Builder builds transactions for one chain.
type Builder struct {
	chain  Chain
	logger zerolog.Logger
}

// New creates a builder.
func New(chain Chain, logger zerolog.Logger) *Builder {
	return &Builder{chain: chain, logger: logger}
}

// Chain returns the chain parameters.
func (b *Builder) Chain() Chain {
	return b.chain
}

// Result is a built transaction with the owner of each input.
type Result struct {
	Tx   *tx.Transaction
	Refs tx.AddrReferences
}

// draft collects inputs and their owners ahead of tx.Builder.
type draft struct {
	b      *tx.Builder
	refs   tx.AddrReferences
	native types.ID
}

func (b *Builder) newDraft() *draft {
	return &draft{
		b:      tx.NewBuilder(b.chain.NetworkID, b.chain.BlockchainID),
		refs:   make(tx.AddrReferences),
		native: b.chain.NativeID,
	}
}

func (d *draft) spend(u wallet.UTXO) {
	d.b.AddInput(u.ID(), u.AssetID, u.Amount)
	d.refs.Add(u.ID(), u.Address)
}

// pay adds an output unless amount is zero, so no empty change is emitted.
func (d *draft) pay(assetID types.ID, amount types.Amount, to types.Address) {
	if amount.IsZero() {
		return
	}
	d.b.AddOutput(assetID, amount, to)
}

// finish builds the transaction and checks that it burns exactly fee of
// the native asset.
func (d *draft) finish(memo string, fee types.Amount) (*Result, error) {
	unsigned, err := d.b.SetMemo(memo).Build()
	if err != nil {
		return nil, err
	}
	if err := tx.CheckFee(unsigned, d.native, fee); err != nil {
		return nil, err
	}
	return &Result{Tx: unsigned, Refs: d.refs}, nil
}

func (d *draft) finishPartial(memo string) (*Result, error) {
	unsigned, err := d.b.SetMemo(memo).BuildPartial()
	if err != nil {
		return nil, err
	}
	return &Result{Tx: unsigned, Refs: d.refs}, nil
}

// Transfer sends amount of the native asset out of one UTXO. The remainder
// after the fee goes to change.
func (b *Builder) Transfer(in wallet.UTXO, to types.Address, amount types.Amount, change types.Address, memo string) (*Result, error) {
	if amount.IsZero() {
		return nil, types.Invalidf("amount must be positive")
	}
	if err := b.checkNative(in); err != nil {
		return nil, err
	}
	remainder, err := tx.Remainder(in.Amount, b.chain.TxFee, amount)
	if err != nil {
		return nil, err
	}

	d := b.newDraft()
	d.spend(in)
	d.pay(b.chain.NativeID, amount, to)
	d.pay(b.chain.NativeID, remainder, change)
	b.logger.Debug().Str("utxo", in.ID().String()).Str("amount", amount.String()).
		Str("change", remainder.String()).Msg("Built transfer")
	return d.finish(memo, b.chain.TxFee)
}

func (b *Builder) checkNative(u wallet.UTXO) error {
	if u.AssetID != b.chain.NativeID || u.TypeID != types.TypeSECPTransferOutput {
		return types.Invalidf("utxo %s is not a native transfer output", u.ID())
	}
	return nil
}

// tokenInputs checks that utxos are transfer outputs of assetID and sums them.
func tokenInputs(utxos []wallet.UTXO, assetID types.ID) (types.Amount, error) {
	if len(utxos) == 0 {
		return types.Amount{}, ErrNoTokens
	}
	for _, u := range utxos {
		if u.AssetID != assetID || u.TypeID != types.TypeSECPTransferOutput {
			return types.Amount{}, types.Invalidf("utxo %s is not a transfer output of %s", u.ID(), assetID)
		}
	}
	total, err := wallet.SumUTXOs(utxos)
	if err != nil {
		return types.Amount{}, fmt.Errorf("token total: %w", err)
	}
	return total, nil
}

func insufficient(what string, have, need types.Amount) error {
	return fmt.Errorf("%w: %s: have %s, need %s", types.ErrInsufficientFunds, what, have, need)
}

package tx

import (
	"fmt"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

// Builder constructs transactions incrementally.
type Builder struct {
	tx *Transaction
}

// NewBuilder creates a builder for a base transaction on the given chain.
func NewBuilder(networkID uint32, blockchainID types.ID) *Builder {
	return &Builder{
		tx: &Transaction{
			Kind:         KindBase,
			NetworkID:    networkID,
			BlockchainID: blockchainID,
		},
	}
}

// NewBuilderFrom starts from a copy of t, so more inputs and outputs can be
// appended without touching the original.
func NewBuilderFrom(t *Transaction) *Builder {
	cp := *t
	cp.Inputs = make([]Input, len(t.Inputs))
	for i, in := range t.Inputs {
		in.SigIndices = append([]uint32(nil), in.SigIndices...)
		cp.Inputs[i] = in
	}
	cp.Outputs = make([]Output, len(t.Outputs))
	for i, out := range t.Outputs {
		out.Addresses = append([]types.Address(nil), out.Addresses...)
		out.Payload = append([]byte(nil), out.Payload...)
		cp.Outputs[i] = out
	}
	cp.Memo = append([]byte(nil), t.Memo...)
	cp.InitialStates = nil
	for _, st := range t.InitialStates {
		cp.InitialStates = append(cp.InitialStates, InitialState{
			FxIndex: st.FxIndex,
			Outputs: append([]Output(nil), st.Outputs...),
		})
	}
	return &Builder{tx: &cp}
}

// AddInput spends a transfer UTXO owned by a single key.
func (b *Builder) AddInput(utxoID types.UTXOID, assetID types.ID, amount types.Amount) *Builder {
	b.tx.Inputs = append(b.tx.Inputs, Input{
		UTXOID:     utxoID,
		AssetID:    assetID,
		Type:       types.TypeSECPTransferInput,
		Amount:     amount,
		SigIndices: []uint32{0},
	})
	return b
}

// AddOutput pays amount of assetID to a single address.
func (b *Builder) AddOutput(assetID types.ID, amount types.Amount, to types.Address) *Builder {
	b.tx.Outputs = append(b.tx.Outputs, Output{
		AssetID:   assetID,
		Type:      types.TypeSECPTransferOutput,
		Amount:    amount,
		Threshold: 1,
		Addresses: []types.Address{to},
	})
	return b
}

// SetMemo attaches a memo. Length is checked by Validate.
func (b *Builder) SetMemo(memo string) *Builder {
	if memo == "" {
		b.tx.Memo = nil
		return b
	}
	b.tx.Memo = []byte(memo)
	return b
}

// CreateAsset turns the transaction into an asset creation.
func (b *Builder) CreateAsset(name, symbol string, denomination uint8) *Builder {
	b.tx.Kind = KindCreateAsset
	b.tx.Name = name
	b.tx.Symbol = symbol
	b.tx.Denomination = denomination
	return b
}

// AddInitialSupply mints amount of the new asset to owner.
func (b *Builder) AddInitialSupply(amount types.Amount, owner types.Address) *Builder {
	return b.addInitialOutput(Output{
		Type:      types.TypeSECPTransferOutput,
		Amount:    amount,
		Threshold: 1,
		Addresses: []types.Address{owner},
	})
}

// AddMintAuthority grants owner the right to mint more of the new asset.
func (b *Builder) AddMintAuthority(owner types.Address) *Builder {
	return b.addInitialOutput(Output{
		Type:      types.TypeSECPMintOutput,
		Threshold: 1,
		Addresses: []types.Address{owner},
	})
}

func (b *Builder) addInitialOutput(out Output) *Builder {
	for i := range b.tx.InitialStates {
		if b.tx.InitialStates[i].FxIndex == SECPFxIndex {
			b.tx.InitialStates[i].Outputs = append(b.tx.InitialStates[i].Outputs, out)
			return b
		}
	}
	b.tx.InitialStates = append(b.tx.InitialStates, InitialState{
		FxIndex: SECPFxIndex,
		Outputs: []Output{out},
	})
	return b
}

// Build validates and returns the constructed transaction.
func (b *Builder) Build() (*Transaction, error) {
	if err := b.tx.Validate(); err != nil {
		return nil, fmt.Errorf("build tx: %w", err)
	}
	return b.tx, nil
}

// BuildPartial is Build for a transaction another party will complete.
// Outputs may exceed inputs until they add theirs.
func (b *Builder) BuildPartial() (*Transaction, error) {
	if err := b.tx.ValidateStructure(); err != nil {
		return nil, fmt.Errorf("build tx: %w", err)
	}
	return b.tx, nil
}

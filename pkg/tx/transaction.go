// Package tx defines the transaction model, its canonical codec and signing.
package tx

import (
	"fmt"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/crypto"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

// Kind distinguishes the transaction payloads the wallet produces.
type Kind uint32

const (
	// KindBase moves existing assets.
	KindBase Kind = 0
	// KindCreateAsset additionally declares a new asset and its initial state.
	KindCreateAsset Kind = 1
)

// SECPFxIndex is the feature-extension index of SECP outputs in an initial state.
const SECPFxIndex = 0

// Transaction is an unsigned transaction: the part every credential signs.
type Transaction struct {
	Kind         Kind
	NetworkID    uint32
	BlockchainID types.ID
	Outputs      []Output
	Inputs       []Input
	Memo         []byte

	// KindCreateAsset only.
	Name          string
	Symbol        string
	Denomination  uint8
	InitialStates []InitialState
}

// Input spends a previously observed UTXO.
type Input struct {
	UTXOID     types.UTXOID
	AssetID    types.ID
	Type       types.OutputType
	Amount     types.Amount
	SigIndices []uint32
}

// Output creates a new UTXO.
type Output struct {
	AssetID   types.ID
	Type      types.OutputType
	Amount    types.Amount // transfer outputs only
	Locktime  uint64
	Threshold uint32
	Addresses []types.Address

	GroupID uint32 // NFT outputs only
	Payload []byte // NFT transfer outputs only
}

// InitialState lists the outputs a new asset is born with.
type InitialState struct {
	FxIndex uint32
	Outputs []Output
}

// Owner returns the single address that controls the output.
func (o Output) Owner() (types.Address, bool) {
	if len(o.Addresses) != 1 {
		return types.Address{}, false
	}
	return o.Addresses[0], true
}

// Hash returns the signing digest: BLAKE3 over the unsigned canonical bytes.
func (tx *Transaction) Hash() types.ID {
	return crypto.Hash(tx.Bytes())
}

// InputTotal sums the inputs spending assetID.
func (tx *Transaction) InputTotal(assetID types.ID) (types.Amount, error) {
	var total types.Amount
	for i, in := range tx.Inputs {
		if in.AssetID != assetID {
			continue
		}
		var err error
		if total, err = total.Add(in.Amount); err != nil {
			return types.Amount{}, fmt.Errorf("input %d: %w", i, err)
		}
	}
	return total, nil
}

// OutputTotal sums the transfer outputs paying assetID.
func (tx *Transaction) OutputTotal(assetID types.ID) (types.Amount, error) {
	var total types.Amount
	for i, out := range tx.Outputs {
		if out.AssetID != assetID || out.Type != types.TypeSECPTransferOutput {
			continue
		}
		var err error
		if total, err = total.Add(out.Amount); err != nil {
			return types.Amount{}, fmt.Errorf("output %d: %w", i, err)
		}
	}
	return total, nil
}

// Consumed returns, per asset, the amount spent by inputs and not paid back
// out by outputs. For the native asset this is the fee; for other assets it
// is the burned quantity. An asset whose outputs exceed its inputs is an error.
func (tx *Transaction) Consumed() (map[types.ID]types.Amount, error) {
	assets := make(map[types.ID]struct{})
	for _, in := range tx.Inputs {
		assets[in.AssetID] = struct{}{}
	}
	for _, out := range tx.Outputs {
		assets[out.AssetID] = struct{}{}
	}

	consumed := make(map[types.ID]types.Amount, len(assets))
	for id := range assets {
		in, err := tx.InputTotal(id)
		if err != nil {
			return nil, err
		}
		out, err := tx.OutputTotal(id)
		if err != nil {
			return nil, err
		}
		diff, ok := in.Sub(out)
		if !ok {
			return nil, fmt.Errorf("asset %s: outputs %s exceed inputs %s", id, out, in)
		}
		consumed[id] = diff
	}
	return consumed, nil
}

// OutputsFor returns the indices of transfer outputs paying assetID.
func (tx *Transaction) OutputsFor(assetID types.ID) []int {
	var idx []int
	for i, out := range tx.Outputs {
		if out.AssetID == assetID && out.Type == types.TypeSECPTransferOutput {
			idx = append(idx, i)
		}
	}
	return idx
}

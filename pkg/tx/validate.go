package tx

import (
	"errors"
	"fmt"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

// Structural limits.
const (
	MaxTxInputs   = 1024
	MaxTxOutputs  = 1024
	MaxNameLen    = 128
	MaxSymbolLen  = 4
	MaxThreshold  = 16
	MaxAssetOwner = 16
)

// Validation errors. Each wraps types.ErrValidation.
var (
	ErrNoInputs       = fmt.Errorf("%w: transaction has no inputs", types.ErrValidation)
	ErrTooManyInputs  = fmt.Errorf("%w: too many inputs", types.ErrValidation)
	ErrTooManyOutputs = fmt.Errorf("%w: too many outputs", types.ErrValidation)
	ErrDuplicateInput = fmt.Errorf("%w: duplicate input", types.ErrValidation)
	ErrZeroOutput     = fmt.Errorf("%w: transfer output amount is zero", types.ErrValidation)
	ErrBadOwners      = fmt.Errorf("%w: invalid output owners", types.ErrValidation)
	ErrMemoTooLarge   = fmt.Errorf("%w: memo too large", types.ErrValidation)
	ErrBadAsset       = fmt.Errorf("%w: invalid asset definition", types.ErrValidation)
	ErrNoSigIndices   = errors.New("input has no signature indices")
)

// Validate checks transaction structure and that no asset pays out more
// than its inputs bring in. It does not check that inputs exist on chain or
// that credentials are present.
func (tx *Transaction) Validate() error {
	if err := tx.ValidateStructure(); err != nil {
		return err
	}
	if _, err := tx.Consumed(); err != nil {
		return types.Invalidf("%v", err)
	}
	return nil
}

// ValidateStructure is Validate without the per-asset balance check. A sell
// offer passes it before the buyer adds the input that pays for it.
func (tx *Transaction) ValidateStructure() error {
	if len(tx.Inputs) == 0 {
		return ErrNoInputs
	}
	if len(tx.Inputs) > MaxTxInputs {
		return fmt.Errorf("%w: %d inputs, max %d", ErrTooManyInputs, len(tx.Inputs), MaxTxInputs)
	}
	if len(tx.Outputs) > MaxTxOutputs {
		return fmt.Errorf("%w: %d outputs, max %d", ErrTooManyOutputs, len(tx.Outputs), MaxTxOutputs)
	}
	if len(tx.Memo) > MaxMemoSize {
		return fmt.Errorf("%w: %d bytes, max %d", ErrMemoTooLarge, len(tx.Memo), MaxMemoSize)
	}

	seen := make(map[types.UTXOID]bool, len(tx.Inputs))
	for i, in := range tx.Inputs {
		if seen[in.UTXOID] {
			return fmt.Errorf("input %d (%s): %w", i, in.UTXOID, ErrDuplicateInput)
		}
		seen[in.UTXOID] = true
		if len(in.SigIndices) == 0 {
			return fmt.Errorf("%w: input %d: %v", types.ErrValidation, i, ErrNoSigIndices)
		}
	}

	for i, out := range tx.Outputs {
		if err := validateOutput(out); err != nil {
			return fmt.Errorf("output %d: %w", i, err)
		}
	}

	if tx.Kind == KindCreateAsset {
		return tx.validateAsset()
	}
	return nil
}

func validateOutput(out Output) error {
	if out.Type == types.TypeSECPTransferOutput && out.Amount.IsZero() {
		return ErrZeroOutput
	}
	if len(out.Addresses) == 0 || len(out.Addresses) > MaxAssetOwner {
		return fmt.Errorf("%w: %d addresses", ErrBadOwners, len(out.Addresses))
	}
	if out.Threshold == 0 || out.Threshold > MaxThreshold || int(out.Threshold) > len(out.Addresses) {
		return fmt.Errorf("%w: threshold %d for %d addresses", ErrBadOwners, out.Threshold, len(out.Addresses))
	}
	return nil
}

func (tx *Transaction) validateAsset() error {
	if tx.Name == "" || len(tx.Name) > MaxNameLen {
		return fmt.Errorf("%w: name length %d", ErrBadAsset, len(tx.Name))
	}
	if tx.Symbol == "" || len(tx.Symbol) > MaxSymbolLen {
		return fmt.Errorf("%w: symbol length %d", ErrBadAsset, len(tx.Symbol))
	}
	if tx.Denomination > types.MaxDenomination {
		return fmt.Errorf("%w: denomination %d, max %d", ErrBadAsset, tx.Denomination, types.MaxDenomination)
	}
	if len(tx.InitialStates) == 0 {
		return fmt.Errorf("%w: no initial state", ErrBadAsset)
	}
	for _, st := range tx.InitialStates {
		for i, out := range st.Outputs {
			if err := validateOutput(out); err != nil {
				return fmt.Errorf("initial output %d: %w", i, err)
			}
		}
	}
	return nil
}

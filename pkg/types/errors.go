package types

import (
	"errors"
	"fmt"
)

// Error kinds shared by every wallet operation. Callers match them with errors.Is.
var (
	// ErrValidation marks malformed user input. The operation never starts.
	ErrValidation = errors.New("validation error")
	// ErrInsufficientFunds means the wallet does not hold enough of an asset.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrNoUsableUTXO means no single UTXO covers the target, even if the total might.
	ErrNoUsableUTXO = errors.New("no usable utxo")
	// ErrIncompleteSignature means at least one credential slot is still empty.
	ErrIncompleteSignature = errors.New("the transaction is not fully signed")
	// ErrNetwork wraps any failed chain service call.
	ErrNetwork = errors.New("network error")
	// ErrDeserialization marks malformed hex, JSON or binary data at a boundary.
	ErrDeserialization = errors.New("deserialization error")
	// ErrInvalidSeed means the wallet has no usable seed material.
	ErrInvalidSeed = errors.New("invalid seed")
)

// Invalidf returns an ErrValidation with a formatted message.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

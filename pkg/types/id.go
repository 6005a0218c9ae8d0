// Package types defines core primitive types for the wallet.
package types

import (
	"encoding/json"
	"fmt"
)

// IDSize is the length of an asset, transaction or blockchain ID in bytes.
const IDSize = 32

// ID is a 256-bit identifier. Its text form is CB58.
type ID [IDSize]byte

// IsZero returns true if the ID is all zeros.
func (id ID) IsZero() bool {
	return id == ID{}
}

// String returns the CB58 encoding of the ID.
func (id ID) String() string {
	return CB58Encode(id[:])
}

// Bytes returns a copy of the ID as a byte slice.
func (id ID) Bytes() []byte {
	b := make([]byte, IDSize)
	copy(b, id[:])
	return b
}

// MarshalJSON encodes the ID as a CB58 string.
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON decodes a CB58 string into an ID.
func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*id = ID{}
		return nil
	}
	parsed, err := IDFromString(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// IDFromString parses a CB58 encoded ID.
func IDFromString(s string) (ID, error) {
	b, err := CB58Decode(s)
	if err != nil {
		return ID{}, err
	}
	if len(b) != IDSize {
		return ID{}, fmt.Errorf("%w: id must be %d bytes, got %d", ErrDeserialization, IDSize, len(b))
	}
	var id ID
	copy(id[:], b)
	return id, nil
}

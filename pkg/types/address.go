package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// AddressSize is the length of an address in bytes.
const AddressSize = 20

// Address HRP (human-readable part) constants for bech32 encoding.
const (
	MainnetHRP = "avax"
	TestnetHRP = "fuji"
)

// DefaultChainAlias prefixes every formatted address ("X-avax1...").
const DefaultChainAlias = "X"

// activeHRP and activeAlias are used by String() and MarshalJSON().
// Set once at startup via SetAddressFormat(). Default is mainnet.
var (
	activeHRP   = MainnetHRP
	activeAlias = DefaultChainAlias
)

// SetAddressFormat sets the active chain alias and HRP (call once at startup).
func SetAddressFormat(alias, hrp string) {
	activeAlias = alias
	activeHRP = hrp
}

// GetAddressHRP returns the currently active address HRP.
func GetAddressHRP() string {
	return activeHRP
}

// Address represents a 160-bit public key hash.
type Address [AddressSize]byte

// IsZero returns true if the address is all zeros.
func (a Address) IsZero() bool {
	return a == Address{}
}

// String returns the formatted address (e.g. "X-avax1...").
func (a Address) String() string {
	s, err := FormatAddress(activeAlias, activeHRP, a)
	if err != nil {
		return activeAlias + "-" + hex.EncodeToString(a[:])
	}
	return s
}

// Bytes returns a copy of the address as a byte slice.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressSize)
	copy(b, a[:])
	return b
}

// MarshalJSON encodes the address as a formatted string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a formatted address string.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*a = Address{}
		return nil
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// FormatAddress renders addr as "<alias>-<bech32>". An empty alias omits the prefix.
func FormatAddress(alias, hrp string, addr Address) (string, error) {
	conv, err := bech32.ConvertBits(addr[:], 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("convert bits: %w", err)
	}
	s, err := bech32.Encode(hrp, conv)
	if err != nil {
		return "", fmt.Errorf("bech32 encode: %w", err)
	}
	if alias == "" {
		return s, nil
	}
	return alias + "-" + s, nil
}

// ParseAddress parses "X-avax1..." or a bare bech32 address.
// The HRP is not checked against the active network.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Address{}, Invalidf("empty address")
	}
	if i := strings.IndexByte(s, '-'); i >= 0 {
		s = s[i+1:]
	}
	_, data, err := bech32.Decode(s)
	if err != nil {
		return Address{}, Invalidf("invalid bech32 address %q: %v", s, err)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return Address{}, Invalidf("invalid address payload: %v", err)
	}
	if len(raw) != AddressSize {
		return Address{}, Invalidf("address must be %d bytes, got %d", AddressSize, len(raw))
	}
	var a Address
	copy(a[:], raw)
	return a, nil
}

package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// Amount is a non-negative integer quantity in an asset's smallest unit.
// Balances routinely exceed 53 bits, so it is backed by a 256-bit integer
// and every arithmetic operation reports overflow or underflow.
type Amount struct {
	v uint256.Int
}

// NewAmount returns an Amount holding n.
func NewAmount(n uint64) Amount {
	var a Amount
	a.v.SetUint64(n)
	return a
}

// ParseAmount parses a base-unit decimal integer.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") {
		return Amount{}, Invalidf("invalid amount %q", s)
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return Amount{}, Invalidf("invalid amount %q: %v", s, err)
	}
	return Amount{v: *v}, nil
}

// ParseDisplayAmount parses a human quantity such as "400.00" and scales it
// by 10^denomination. More fractional digits than the denomination allows is an error.
func ParseDisplayAmount(s string, denomination uint8) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") {
		return Amount{}, Invalidf("invalid quantity %q", s)
	}
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	frac = strings.TrimRight(frac, "0")
	if len(frac) > int(denomination) {
		return Amount{}, Invalidf("quantity %q has more than %d decimal places", s, denomination)
	}
	digits := whole + frac + strings.Repeat("0", int(denomination)-len(frac))
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return Amount{}, nil
	}
	return ParseAmount(digits)
}

// Scale multiplies a by 10^denomination.
func (a Amount) Scale(denomination uint8) (Amount, error) {
	var base, exp, factor uint256.Int
	base.SetUint64(10)
	exp.SetUint64(uint64(denomination))
	factor.Exp(&base, &exp)
	var out Amount
	if _, overflow := out.v.MulOverflow(&a.v, &factor); overflow {
		return Amount{}, Invalidf("amount %s overflows when scaled by 10^%d", a, denomination)
	}
	return out, nil
}

// Add returns a+b, failing on overflow.
func (a Amount) Add(b Amount) (Amount, error) {
	var out Amount
	if _, overflow := out.v.AddOverflow(&a.v, &b.v); overflow {
		return Amount{}, fmt.Errorf("amount overflow: %s + %s", a, b)
	}
	return out, nil
}

// Sub returns a-b. ok is false when b > a.
func (a Amount) Sub(b Amount) (out Amount, ok bool) {
	if _, underflow := out.v.SubOverflow(&a.v, &b.v); underflow {
		return Amount{}, false
	}
	return out, true
}

// Cmp compares a and b and returns -1, 0 or +1.
func (a Amount) Cmp(b Amount) int {
	return a.v.Cmp(&b.v)
}

// Lt reports whether a < b.
func (a Amount) Lt(b Amount) bool {
	return a.v.Lt(&b.v)
}

// IsZero reports whether a == 0.
func (a Amount) IsZero() bool {
	return a.v.IsZero()
}

// Uint64 returns a as uint64 when it fits.
func (a Amount) Uint64() (uint64, bool) {
	return a.v.Uint64(), a.v.IsUint64()
}

// String returns the base-unit decimal representation.
func (a Amount) String() string {
	return a.v.Dec()
}

// Format renders a in display units for the given denomination ("4.9" for 490 at 2).
func (a Amount) Format(denomination uint8) string {
	if denomination == 0 {
		return a.String()
	}
	var base, exp, div, q, r uint256.Int
	base.SetUint64(10)
	exp.SetUint64(uint64(denomination))
	div.Exp(&base, &exp)
	q.DivMod(&a.v, &div, &r)
	if r.IsZero() {
		return q.Dec()
	}
	frac := r.Dec()
	frac = strings.Repeat("0", int(denomination)-len(frac)) + frac
	return q.Dec() + "." + strings.TrimRight(frac, "0")
}

// Bytes32 returns the 32-byte big-endian encoding.
func (a Amount) Bytes32() [32]byte {
	return a.v.Bytes32()
}

// AmountFromBytes32 decodes a 32-byte big-endian amount.
func AmountFromBytes32(b []byte) Amount {
	var a Amount
	a.v.SetBytes32(b)
	return a
}

// SumAmounts adds every element of amounts.
func SumAmounts(amounts ...Amount) (Amount, error) {
	var total Amount
	for _, x := range amounts {
		var err error
		if total, err = total.Add(x); err != nil {
			return Amount{}, err
		}
	}
	return total, nil
}

// MarshalJSON encodes the amount as a quoted decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts a quoted decimal string or a bare JSON number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*a = Amount{}
		return nil
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

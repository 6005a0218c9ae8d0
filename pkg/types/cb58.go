package types

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// checksumLen is the number of trailing SHA-256 bytes appended by CB58.
const checksumLen = 4

// CB58Encode encodes data as base58 with a 4-byte SHA-256 checksum suffix.
func CB58Encode(data []byte) string {
	sum := sha256.Sum256(data)
	buf := make([]byte, 0, len(data)+checksumLen)
	buf = append(buf, data...)
	buf = append(buf, sum[len(sum)-checksumLen:]...)
	return base58.Encode(buf)
}

// CB58Decode reverses CB58Encode and verifies the checksum.
func CB58Decode(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty cb58 string", ErrDeserialization)
	}
	raw := base58.Decode(s)
	if len(raw) < checksumLen {
		return nil, fmt.Errorf("%w: invalid cb58 string %q", ErrDeserialization, s)
	}
	data, check := raw[:len(raw)-checksumLen], raw[len(raw)-checksumLen:]
	sum := sha256.Sum256(data)
	if !bytes.Equal(check, sum[len(sum)-checksumLen:]) {
		return nil, fmt.Errorf("%w: cb58 checksum mismatch", ErrDeserialization)
	}
	return data, nil
}

package crypto

import (
	"fmt"
	"strings"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// SignatureSize is the length of a compact recoverable signature.
const SignatureSize = 65

// PrivateKeyPrefix prefixes the CB58 text form of a private key.
const PrivateKeyPrefix = "PrivateKey-"

// Signer signs 32-byte digests.
type Signer interface {
	// Sign produces a recoverable signature over a 32-byte hash.
	Sign(hash []byte) ([]byte, error)
	// PublicKey returns the compressed 33-byte public key.
	PublicKey() []byte
}

// PrivateKey wraps a secp256k1 private key.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// GenerateKey creates a new random secp256k1 private key.
func GenerateKey() (*PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromBytes creates a PrivateKey from a 32-byte secret.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("private key must be 32 bytes, got %d", len(b))
	}
	key := secp256k1.PrivKeyFromBytes(b)
	return &PrivateKey{key: key}, nil
}

// ParsePrivateKey parses the "PrivateKey-<cb58>" text form.
func ParsePrivateKey(s string) (*PrivateKey, error) {
	if !strings.HasPrefix(s, PrivateKeyPrefix) {
		return nil, types.Invalidf("private key must start with %q", PrivateKeyPrefix)
	}
	raw, err := types.CB58Decode(strings.TrimPrefix(s, PrivateKeyPrefix))
	if err != nil {
		return nil, err
	}
	return PrivateKeyFromBytes(raw)
}

// Sign produces a 65-byte compact recoverable ECDSA signature over a 32-byte hash.
// Nonces follow RFC 6979, so signing the same hash twice yields the same bytes.
func (pk *PrivateKey) Sign(hash []byte) ([]byte, error) {
	if len(hash) != 32 {
		return nil, fmt.Errorf("hash must be 32 bytes, got %d", len(hash))
	}
	return ecdsa.SignCompact(pk.key, hash, true), nil
}

// PublicKey returns the compressed 33-byte public key.
func (pk *PrivateKey) PublicKey() []byte {
	return pk.key.PubKey().SerializeCompressed()
}

// Address returns the address controlled by this key.
func (pk *PrivateKey) Address() types.Address {
	return AddressFromPubKey(pk.PublicKey())
}

// Serialize returns the 32-byte private key scalar.
func (pk *PrivateKey) Serialize() []byte {
	return pk.key.Serialize()
}

// String returns the "PrivateKey-<cb58>" text form.
func (pk *PrivateKey) String() string {
	return PrivateKeyPrefix + types.CB58Encode(pk.Serialize())
}

// Zero securely zeroes the private key memory.
func (pk *PrivateKey) Zero() {
	pk.key.Zero()
}

// RecoverPublicKey returns the compressed public key that produced signature over hash.
func RecoverPublicKey(hash, signature []byte) ([]byte, error) {
	if len(signature) != SignatureSize {
		return nil, fmt.Errorf("signature must be %d bytes, got %d", SignatureSize, len(signature))
	}
	pub, _, err := ecdsa.RecoverCompact(signature, hash)
	if err != nil {
		return nil, fmt.Errorf("recover public key: %w", err)
	}
	return pub.SerializeCompressed(), nil
}

// VerifySignature reports whether signature over hash was made by the key
// controlling addr. Returns false on any error.
func VerifySignature(hash, signature []byte, addr types.Address) bool {
	pub, err := RecoverPublicKey(hash, signature)
	if err != nil {
		return false
	}
	return AddressFromPubKey(pub) == addr
}

// Package crypto provides the wallet's cryptographic primitives.
package crypto

import (
	"crypto/sha256"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // address format requires RIPEMD-160
)

// Hash computes a BLAKE3-256 hash of the input data.
// It is the signing digest over a transaction's canonical bytes.
func Hash(data []byte) types.ID {
	return blake3.Sum256(data)
}

// AddressFromPubKey derives an address from a compressed public key.
// Address = RIPEMD160(SHA256(compressed_pubkey)).
func AddressFromPubKey(pubKey []byte) types.Address {
	sha := sha256.Sum256(pubKey)
	h := ripemd160.New()
	h.Write(sha[:])
	var addr types.Address
	copy(addr[:], h.Sum(nil))
	return addr
}

package tx

import (
	"encoding/json"
	"fmt"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/crypto"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
	"github.com/pkg/errors"
)

// AddrReferences maps a UTXO key (see types.UTXOID.Key) to the address that
// owns it. It travels alongside a partially signed transaction so that each
// party can find the inputs it holds keys for.
type AddrReferences map[string]types.Address

// Add records owner for the UTXO.
func (r AddrReferences) Add(id types.UTXOID, owner types.Address) {
	r[id.Key()] = owner
}

// Owner returns the recorded owner of the UTXO.
func (r AddrReferences) Owner(id types.UTXOID) (types.Address, bool) {
	a, ok := r[id.Key()]
	return a, ok
}

// Merge returns a new map holding r and other. Entries in other win.
func (r AddrReferences) Merge(other AddrReferences) AddrReferences {
	out := make(AddrReferences, len(r)+len(other))
	for k, v := range r {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// ParseAddrReferences decodes the JSON object form {"<utxo key>": "<address>"}.
func ParseAddrReferences(s string) (AddrReferences, error) {
	refs := make(AddrReferences)
	if err := json.Unmarshal([]byte(s), &refs); err != nil {
		return nil, errors.Wrapf(types.ErrDeserialization, "address references: %v", err)
	}
	return refs, nil
}

// Keychain resolves an address to the key that controls it.
type Keychain interface {
	Key(addr types.Address) (*crypto.PrivateKey, bool)
}

// KeySet is an in-memory Keychain.
type KeySet map[types.Address]*crypto.PrivateKey

// Key implements Keychain.
func (k KeySet) Key(addr types.Address) (*crypto.PrivateKey, bool) {
	key, ok := k[addr]
	return key, ok
}

// Add inserts key under its own address.
func (k KeySet) Add(key *crypto.PrivateKey) {
	k[key.Address()] = key
}

// Sign fills every empty credential slot whose input owner, looked up in
// refs, has a key in keys. Slots that already carry signatures are left
// untouched and inputs without a known owner or key are skipped, so several
// parties can sign the same transaction in turn. It returns the number of
// slots it filled.
//
// A transaction with no credentials gets one empty slot per input first.
func Sign(stx *SignedTx, keys Keychain, refs AddrReferences) (int, error) {
	if stx == nil || stx.Unsigned == nil {
		return 0, types.Invalidf("nothing to sign")
	}
	if len(stx.Credentials) == 0 {
		stx.Credentials = make([]Credential, len(stx.Unsigned.Inputs))
	}
	if len(stx.Credentials) != len(stx.Unsigned.Inputs) {
		return 0, types.Invalidf("%d credentials for %d inputs", len(stx.Credentials), len(stx.Unsigned.Inputs))
	}

	hash := stx.Unsigned.Hash()
	cache := make(map[types.Address][]byte)
	signed := 0

	for i, in := range stx.Unsigned.Inputs {
		if stx.Credentials[i].IsSigned() {
			continue
		}
		owner, ok := refs.Owner(in.UTXOID)
		if !ok {
			continue
		}
		sig, cached := cache[owner]
		if !cached {
			key, ok := keys.Key(owner)
			if !ok {
				continue
			}
			var err error
			sig, err = key.Sign(hash[:])
			if err != nil {
				return signed, fmt.Errorf("sign input %d: %w", i, err)
			}
			cache[owner] = sig
		}
		stx.Credentials[i] = Credential{Signatures: [][]byte{sig}}
		signed++
	}
	return signed, nil
}

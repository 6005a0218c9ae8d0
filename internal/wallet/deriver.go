package wallet

import (
	"fmt"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/crypto"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/tx"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

// DerivedKey is the key material at one HD index.
type DerivedKey struct {
	Index     uint32
	Key       *crypto.PrivateKey
	PublicKey []byte
	Address   types.Address
}

// Deriver maps HD indices on the external chain of account 0 to keys.
// It holds the external chain key so each derivation is a single step.
type Deriver struct {
	chain *HDKey
}

// NewDeriver builds a Deriver from a BIP-39 mnemonic.
func NewDeriver(mnemonic string) (*Deriver, error) {
	seed, err := SeedFromMnemonic(mnemonic, "")
	if err != nil {
		return nil, err
	}
	return NewDeriverFromSeed(seed)
}

// NewDeriverFromSeed builds a Deriver from a 64-byte BIP-39 seed.
func NewDeriverFromSeed(seed []byte) (*Deriver, error) {
	master, err := NewMasterKey(seed)
	if err != nil {
		return nil, err
	}
	acct, err := master.DeriveAccount(0)
	if err != nil {
		return nil, err
	}
	chain, err := acct.DeriveChild(ChangeExternal)
	if err != nil {
		return nil, err
	}
	return &Deriver{chain: chain}, nil
}

// Derive returns the key material at index.
func (d *Deriver) Derive(index uint32) (*DerivedKey, error) {
	child, err := d.chain.DeriveChild(index)
	if err != nil {
		return nil, err
	}
	key, err := child.Signer()
	if err != nil {
		return nil, fmt.Errorf("index %d: %w", index, err)
	}
	return &DerivedKey{
		Index:     index,
		Key:       key,
		PublicKey: child.PublicKeyBytes(),
		Address:   child.Address(),
	}, nil
}

// DeriveRange returns the keys at [start, start+limit).
func (d *Deriver) DeriveRange(start, limit uint32) ([]*DerivedKey, error) {
	if start+limit < start {
		return nil, types.Invalidf("index range %d+%d overflows", start, limit)
	}
	keys := make([]*DerivedKey, 0, limit)
	for i := start; i < start+limit; i++ {
		k, err := d.Derive(i)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// Addresses returns the addresses at [start, start+limit).
func (d *Deriver) Addresses(start, limit uint32) ([]types.Address, error) {
	keys, err := d.DeriveRange(start, limit)
	if err != nil {
		return nil, err
	}
	addrs := make([]types.Address, len(keys))
	for i, k := range keys {
		addrs[i] = k.Address
	}
	return addrs, nil
}

// KeySet returns a keychain holding the keys at [0, n).
func (d *Deriver) KeySet(n uint32) (tx.KeySet, error) {
	keys, err := d.DeriveRange(0, n)
	if err != nil {
		return nil, err
	}
	set := make(tx.KeySet, len(keys))
	for _, k := range keys {
		set.Add(k.Key)
	}
	return set, nil
}

// KeysFor returns a keychain holding the keys at the given indices.
func (d *Deriver) KeysFor(indices ...uint32) (tx.KeySet, error) {
	set := make(tx.KeySet, len(indices))
	for _, i := range indices {
		k, err := d.Derive(i)
		if err != nil {
			return nil, err
		}
		set.Add(k.Key)
	}
	return set, nil
}

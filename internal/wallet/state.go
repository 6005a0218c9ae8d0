package wallet

import (
	"fmt"
	"time"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

// StateVersion is the current wallet file format.
const StateVersion = 1

// WalletTypeMnemonic is the only wallet type: keys derive from a BIP-39 phrase.
const WalletTypeMnemonic = "mnemonic"

// State is the persisted wallet. Scans refresh the balance snapshot;
// get-address style operations advance NextAddress.
type State struct {
	Version     int       `json:"version"`
	Network     string    `json:"network"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`

	// Exactly one of Mnemonic and EncryptedMnemonic is set.
	Mnemonic          string `json:"mnemonic,omitempty"`
	EncryptedMnemonic []byte `json:"encryptedMnemonic,omitempty"`

	NextAddress uint32                   `json:"nextAddress"`
	Addresses   map[uint32]types.Address `json:"addresses"`

	Balances   []AddressBalance `json:"balances"`
	AvaxUTXOs  []UTXOGroup      `json:"avaxUtxos"`
	OtherUTXOs []UTXOGroup      `json:"otherUtxos"`
	AvaxAmount string           `json:"avaxAmount"`

	unlocked string
}

// NewState creates a wallet for mnemonic with index 0 recorded.
func NewState(network, mnemonic, description string) (*State, error) {
	if err := CheckMnemonic(mnemonic); err != nil {
		return nil, err
	}
	mnemonic = NormalizeMnemonic(mnemonic)
	d, err := NewDeriver(mnemonic)
	if err != nil {
		return nil, err
	}
	first, err := d.Derive(0)
	if err != nil {
		return nil, err
	}
	return &State{
		Version:     StateVersion,
		Network:     network,
		Type:        WalletTypeMnemonic,
		Description: description,
		CreatedAt:   time.Now().UTC(),
		Mnemonic:    mnemonic,
		NextAddress: 1,
		Addresses:   map[uint32]types.Address{0: first.Address},
		AvaxAmount:  "0",
	}, nil
}

// IsEncrypted reports whether the mnemonic is sealed with a password.
func (s *State) IsEncrypted() bool {
	return len(s.EncryptedMnemonic) > 0
}

// Encrypt seals the mnemonic with password. The plaintext is kept in
// memory for the rest of the session but never written out again.
func (s *State) Encrypt(password []byte, params EncryptionParams) error {
	if s.IsEncrypted() {
		return fmt.Errorf("wallet is already encrypted")
	}
	sealed, err := Encrypt([]byte(s.Mnemonic), password, params)
	if err != nil {
		return fmt.Errorf("encrypt mnemonic: %w", err)
	}
	s.unlocked = s.Mnemonic
	s.Mnemonic = ""
	s.EncryptedMnemonic = sealed
	return nil
}

// Unlock opens an encrypted mnemonic for this session.
func (s *State) Unlock(password []byte) error {
	if !s.IsEncrypted() {
		return nil
	}
	plain, err := Decrypt(s.EncryptedMnemonic, password)
	if err != nil {
		return err
	}
	s.unlocked = string(plain)
	zero(plain)
	return nil
}

// Secret returns the usable mnemonic.
func (s *State) Secret() (string, error) {
	if s.IsEncrypted() {
		if s.unlocked == "" {
			return "", fmt.Errorf("%w: wallet is locked", types.ErrInvalidSeed)
		}
		return s.unlocked, nil
	}
	if err := CheckMnemonic(s.Mnemonic); err != nil {
		return "", err
	}
	return s.Mnemonic, nil
}

// Deriver returns an AddressDeriver over the wallet's key material.
func (s *State) Deriver() (*Deriver, error) {
	m, err := s.Secret()
	if err != nil {
		return nil, err
	}
	return NewDeriver(m)
}

// NextKey derives the key at NextAddress, records its address and
// advances NextAddress. Callers persist the state afterwards.
func (s *State) NextKey(d *Deriver) (*DerivedKey, error) {
	k, err := d.Derive(s.NextAddress)
	if err != nil {
		return nil, err
	}
	s.RecordAddress(k.Index, k.Address)
	s.NextAddress++
	return k, nil
}

// RecordAddress stores the address derived at index.
func (s *State) RecordAddress(index uint32, addr types.Address) {
	if s.Addresses == nil {
		s.Addresses = make(map[uint32]types.Address)
	}
	s.Addresses[index] = addr
}

// AddressAt returns the recorded address at index.
func (s *State) AddressAt(index uint32) (types.Address, bool) {
	a, ok := s.Addresses[index]
	return a, ok
}

// validate checks the invariants of a freshly loaded state.
func (s *State) validate() error {
	if s.Version != StateVersion {
		return fmt.Errorf("unsupported wallet version: %d", s.Version)
	}
	if s.Type != WalletTypeMnemonic {
		return fmt.Errorf("unsupported wallet type: %q", s.Type)
	}
	if s.Mnemonic != "" && s.IsEncrypted() {
		return fmt.Errorf("wallet holds both a plain and an encrypted mnemonic")
	}
	return nil
}

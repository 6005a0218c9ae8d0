package app

import (
	"encoding/hex"
	"fmt"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/wallet"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

// CreateWallet generates a 24-word mnemonic and stores a new wallet under
// name. A non-empty password encrypts the mnemonic at rest.
func (a *App) CreateWallet(name, description string, password []byte) (*wallet.State, error) {
	if err := wallet.CheckName(name); err != nil {
		return nil, err
	}
	if a.wallets.Exists(name) {
		return nil, fmt.Errorf("%w: %s", wallet.ErrWalletExists, name)
	}

	mnemonic, err := wallet.GenerateMnemonic()
	if err != nil {
		return nil, err
	}
	state, err := wallet.NewState(string(a.opts.Network), mnemonic, description)
	if err != nil {
		return nil, err
	}
	if len(password) > 0 {
		if err := state.Encrypt(password, a.opts.EncryptionParams); err != nil {
			return nil, err
		}
	}
	if err := a.wallets.Create(name, state); err != nil {
		return nil, err
	}

	a.logger.Info().Str("wallet", name).Bool("encrypted", state.IsEncrypted()).Msg("Wallet created")
	return state, nil
}

// WalletInfo is one line of list-wallets.
type WalletInfo struct {
	Name        string `json:"name"`
	Network     string `json:"network"`
	Description string `json:"description"`
	AvaxAmount  string `json:"avaxAmount"`
	Encrypted   bool   `json:"encrypted"`
}

// ListWallets returns every stored wallet with its last known balance.
// Wallets that fail to load are skipped with a warning.
func (a *App) ListWallets() ([]WalletInfo, error) {
	names, err := a.wallets.List()
	if err != nil {
		return nil, err
	}
	out := make([]WalletInfo, 0, len(names))
	for _, name := range names {
		s, err := a.wallets.Load(name)
		if err != nil {
			a.logger.Warn().Err(err).Str("wallet", name).Msg("Skipping unreadable wallet")
			continue
		}
		out = append(out, WalletInfo{
			Name:        name,
			Network:     s.Network,
			Description: s.Description,
			AvaxAmount:  s.AvaxAmount,
			Encrypted:   s.IsEncrypted(),
		})
	}
	return out, nil
}

// GetAddress hands out the next unused address of the wallet.
func (a *App) GetAddress(name string) (types.Address, error) {
	s, err := a.open(name)
	if err != nil {
		return types.Address{}, err
	}
	addr, err := s.nextAddress()
	if err != nil {
		return types.Address{}, err
	}
	if err := a.save(s); err != nil {
		return types.Address{}, err
	}
	return addr, nil
}

// KeyInfo is a derived key pair in its exportable form.
type KeyInfo struct {
	Index  uint32 `json:"index"`
	Priv   string `json:"priv"`
	Pub    string `json:"pub"`
	PubHex string `json:"pubHex"`
}

// GetKey exports the key pair at index. A nil index exports the key at
// nextAddress and advances it like GetAddress.
func (a *App) GetKey(name string, index *uint32) (KeyInfo, error) {
	s, err := a.open(name)
	if err != nil {
		return KeyInfo{}, err
	}

	var k *wallet.DerivedKey
	if index == nil {
		if k, err = s.state.NextKey(s.deriver); err != nil {
			return KeyInfo{}, err
		}
		if err := a.save(s); err != nil {
			return KeyInfo{}, err
		}
	} else if k, err = s.deriver.Derive(*index); err != nil {
		return KeyInfo{}, err
	}
	defer k.Key.Zero()

	return KeyInfo{
		Index:  k.Index,
		Priv:   k.Key.String(),
		Pub:    k.Address.String(),
		PubHex: hex.EncodeToString(k.PublicKey),
	}, nil
}

// PeekAddress returns the address at nextAddress without handing it out.
func (a *App) PeekAddress(name string) (types.Address, error) {
	s, err := a.open(name)
	if err != nil {
		return types.Address{}, err
	}
	k, err := s.deriver.Derive(s.state.NextAddress)
	if err != nil {
		return types.Address{}, err
	}
	k.Key.Zero()
	return k.Address, nil
}

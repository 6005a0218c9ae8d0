// Package wallet implements the HD wallet: mnemonic and seed handling,
// address derivation, persisted wallet state and UTXO selection.
package wallet

import (
	"fmt"
	"strings"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
	"github.com/tyler-smith/go-bip39"
)

// MnemonicEntropyBits is the entropy size for 24-word mnemonics.
const MnemonicEntropyBits = 256

// GenerateMnemonic creates a new 24-word BIP-39 mnemonic.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(MnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// ValidateMnemonic checks if a mnemonic is valid per BIP-39
// (correct word count, valid words, valid checksum).
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(NormalizeMnemonic(mnemonic))
}

// NormalizeMnemonic lowercases the phrase and collapses whitespace.
func NormalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(strings.ToLower(mnemonic)), " ")
}

// CheckMnemonic is ValidateMnemonic returning an ErrInvalidSeed.
func CheckMnemonic(mnemonic string) error {
	if strings.TrimSpace(mnemonic) == "" {
		return fmt.Errorf("%w: wallet has no mnemonic", types.ErrInvalidSeed)
	}
	if !ValidateMnemonic(mnemonic) {
		return fmt.Errorf("%w: mnemonic fails BIP-39 checks", types.ErrInvalidSeed)
	}
	return nil
}

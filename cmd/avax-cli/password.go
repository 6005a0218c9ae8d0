package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/config"
)

// passwordEnv lets scripts unlock encrypted wallets without a terminal.
const passwordEnv = config.EnvPrefix + "_PASSWORD"

// promptPassword unlocks an encrypted wallet.
func promptPassword(walletName string) ([]byte, error) {
	if pw, ok := os.LookupEnv(passwordEnv); ok {
		return []byte(pw), nil
	}
	return readPassword(fmt.Sprintf("Password for wallet %q: ", walletName))
}

// newPassword asks for a password twice. An empty answer means no
// encryption.
func newPassword() ([]byte, error) {
	if pw, ok := os.LookupEnv(passwordEnv); ok {
		return []byte(pw), nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, nil
	}
	password, err := readPassword("Enter password (empty for none): ")
	if err != nil {
		return nil, err
	}
	if len(password) == 0 {
		return nil, nil
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return nil, err
	}
	if string(password) != string(confirm) {
		return nil, fmt.Errorf("passwords do not match")
	}
	clear(confirm)
	return password, nil
}

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

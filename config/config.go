// Package config handles application configuration.
//
// Settings come from, in rising precedence: per-network defaults, an
// optional avax-cli.{yaml,json,toml} file, a .env file, AVAXCLI_
// environment variables and command-line flags.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

// NetworkType identifies mainnet or testnet.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
)

// MaxPageSize is the largest number of addresses queried per page.
const MaxPageSize = 20

// Config holds the wallet's runtime configuration.
type Config struct {
	// Core
	Network NetworkType `mapstructure:"network"`
	DataDir string      `mapstructure:"datadir"`

	// Node API base URL, e.g. https://api.avax.network
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`

	// Chain parameters
	NetworkID    uint32 `mapstructure:"network-id"`
	BlockchainID string `mapstructure:"blockchain-id"` // CB58
	HRP          string `mapstructure:"hrp"`
	ChainAlias   string `mapstructure:"chain-alias"`

	// Addresses queried per balance page.
	PageSize uint32 `mapstructure:"page-size"`

	// Logging
	Log LogConfig `mapstructure:"log"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
	JSON  bool   `mapstructure:"json"`
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.avax-cli
//	macOS:   ~/Library/Application Support/AvaxCLI
//	Windows: %APPDATA%\AvaxCLI
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".avax-cli"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "AvaxCLI")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "AvaxCLI")
		}
		return filepath.Join(home, "AppData", "Roaming", "AvaxCLI")
	default:
		return filepath.Join(home, ".avax-cli")
	}
}

// ChainDataDir returns the network-specific data directory.
func (c *Config) ChainDataDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// WalletDir returns the wallet file directory.
func (c *Config) WalletDir() string {
	return filepath.Join(c.ChainDataDir(), "wallets")
}

// CacheDir returns the asset-description cache directory.
func (c *Config) CacheDir() string {
	return filepath.Join(c.ChainDataDir(), "cache")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ChainID decodes BlockchainID. Call after Validate.
func (c *Config) ChainID() types.ID {
	id, _ := types.IDFromString(c.BlockchainID)
	return id
}

// ApplyAddressFormat makes address formatting follow this network.
func (c *Config) ApplyAddressFormat() {
	types.SetAddressFormat(c.ChainAlias, c.HRP)
}

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

// Validate checks the runtime config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Network != Mainnet && cfg.Network != Testnet {
		return types.Invalidf("network must be %q or %q", Mainnet, Testnet)
	}
	if err := validateEndpoint(cfg.Endpoint); err != nil {
		return err
	}
	if cfg.PageSize == 0 || cfg.PageSize > MaxPageSize {
		return types.Invalidf("page-size must be in range [1, %d]", MaxPageSize)
	}
	if cfg.Timeout <= 0 {
		return types.Invalidf("timeout must be positive")
	}
	if cfg.NetworkID == 0 {
		return types.Invalidf("network-id must be set")
	}
	if _, err := types.IDFromString(cfg.BlockchainID); err != nil {
		return types.Invalidf("blockchain-id: %v", err)
	}
	if cfg.HRP == "" || cfg.ChainAlias == "" {
		return types.Invalidf("hrp and chain-alias must be set")
	}
	return nil
}

func validateEndpoint(endpoint string) error {
	if strings.TrimSpace(endpoint) == "" {
		return types.Invalidf("endpoint is empty")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return types.Invalidf("endpoint: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return types.Invalidf("endpoint must be an http or https URL, got %q", endpoint)
	}
	if u.Host == "" {
		return types.Invalidf("endpoint %q has no host", endpoint)
	}
	return nil
}

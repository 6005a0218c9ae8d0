package config

import "time"

// DefaultPageSize is the number of addresses queried per balance page.
const DefaultPageSize = 10

// DefaultMainnet returns the default configuration for mainnet.
func DefaultMainnet() *Config {
	return &Config{
		Network:      Mainnet,
		DataDir:      DefaultDataDir(),
		Endpoint:     "https://api.avax.network",
		Timeout:      30 * time.Second,
		NetworkID:    1,
		BlockchainID: "2oYMBNV4eNHyqk2fjjV5nVQLDbtmNJzq5s3qs3Lo6ftnC6FByM",
		HRP:          "avax",
		ChainAlias:   "X",
		PageSize:     DefaultPageSize,
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// DefaultTestnet returns the default configuration for the Fuji testnet.
func DefaultTestnet() *Config {
	cfg := DefaultMainnet()
	cfg.Network = Testnet
	cfg.Endpoint = "https://api.avax-test.network"
	cfg.NetworkID = 5
	cfg.BlockchainID = "2JVSBoinj9C2J33VntvzYtVJNZdN2NKiwwKjcumHUWEb5DbBrm"
	cfg.HRP = "fuji"
	return cfg
}

// Default returns the default configuration for the given network.
func Default(network NetworkType) *Config {
	switch network {
	case Testnet:
		return DefaultTestnet()
	default:
		return DefaultMainnet()
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the wallet reads,
// e.g. AVAXCLI_ENDPOINT or AVAXCLI_LOG_LEVEL.
const EnvPrefix = "AVAXCLI"

// ConfigName is the config file base name looked up in the data directory
// and the working directory.
const ConfigName = "avax-cli"

// LoadEnvFile loads variables from a .env file into the process
// environment. Variables that are already set win. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load resolves the configuration from v. Flags should already be bound to
// v under the same keys as the Config fields ("network", "page-size",
// "log.level", ...). The returned config has been validated.
func Load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	dataDir := v.GetString("datadir")
	if dataDir == "" {
		dataDir = DefaultDataDir()
	}
	v.SetConfigName(ConfigName)
	v.AddConfigPath(dataDir)
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	network := NetworkType(strings.ToLower(v.GetString("network")))
	if network == "" {
		network = Mainnet
	}
	setDefaults(v, Default(network))

	cfg := &Config{
		Network:      network,
		DataDir:      v.GetString("datadir"),
		Endpoint:     strings.TrimRight(v.GetString("endpoint"), "/"),
		Timeout:      v.GetDuration("timeout"),
		NetworkID:    v.GetUint32("network-id"),
		BlockchainID: v.GetString("blockchain-id"),
		HRP:          v.GetString("hrp"),
		ChainAlias:   v.GetString("chain-alias"),
		PageSize:     v.GetUint32("page-size"),
		Log: LogConfig{
			Level: v.GetString("log.level"),
			File:  v.GetString("log.file"),
			JSON:  v.GetBool("log.json"),
		},
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("datadir", d.DataDir)
	v.SetDefault("endpoint", d.Endpoint)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("network-id", d.NetworkID)
	v.SetDefault("blockchain-id", d.BlockchainID)
	v.SetDefault("hrp", d.HRP)
	v.SetDefault("chain-alias", d.ChainAlias)
	v.SetDefault("page-size", d.PageSize)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.json", d.Log.JSON)
}

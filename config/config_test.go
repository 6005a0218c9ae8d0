package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

func TestDefaults_Valid(t *testing.T) {
	for _, network := range []NetworkType{Mainnet, Testnet} {
		cfg := Default(network)
		if err := Validate(cfg); err != nil {
			t.Errorf("Default(%s) invalid: %v", network, err)
		}
		if cfg.Network != network {
			t.Errorf("Network = %s, want %s", cfg.Network, network)
		}
	}
}

func TestDefaultTestnet(t *testing.T) {
	cfg := DefaultTestnet()
	if cfg.NetworkID != 5 || cfg.HRP != "fuji" {
		t.Errorf("testnet: NetworkID=%d HRP=%s", cfg.NetworkID, cfg.HRP)
	}
	if cfg.Endpoint != "https://api.avax-test.network" {
		t.Errorf("testnet endpoint = %s", cfg.Endpoint)
	}
	if cfg.ChainID() == (types.ID{}) {
		t.Error("testnet blockchain id should decode")
	}
}

func TestConfig_Dirs(t *testing.T) {
	cfg := DefaultTestnet()
	cfg.DataDir = "/data"
	if got := cfg.WalletDir(); got != filepath.Join("/data", "testnet", "wallets") {
		t.Errorf("WalletDir = %s", got)
	}
	if got := cfg.CacheDir(); got != filepath.Join("/data", "testnet", "cache") {
		t.Errorf("CacheDir = %s", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown network", func(c *Config) { c.Network = "devnet" }},
		{"empty endpoint", func(c *Config) { c.Endpoint = "" }},
		{"ws endpoint", func(c *Config) { c.Endpoint = "ws://localhost:9650" }},
		{"no host", func(c *Config) { c.Endpoint = "http://" }},
		{"page size zero", func(c *Config) { c.PageSize = 0 }},
		{"page size too big", func(c *Config) { c.PageSize = 21 }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"bad blockchain id", func(c *Config) { c.BlockchainID = "not-an-id" }},
		{"no hrp", func(c *Config) { c.HRP = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultMainnet()
			tt.mutate(cfg)
			err := Validate(cfg)
			if !errors.Is(err, types.ErrValidation) {
				t.Fatalf("Validate() = %v, want ErrValidation", err)
			}
		})
	}

	if err := Validate(nil); err == nil {
		t.Error("Validate(nil) should fail")
	}
}

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	v.Set("datadir", t.TempDir())
	v.Set("network", "testnet")

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Network != Testnet || cfg.NetworkID != 5 || cfg.PageSize != DefaultPageSize {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("AVAXCLI_ENDPOINT", "http://127.0.0.1:9650/")
	t.Setenv("AVAXCLI_PAGE_SIZE", "20")
	t.Setenv("AVAXCLI_LOG_LEVEL", "debug")

	v := viper.New()
	v.Set("datadir", t.TempDir())
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Endpoint != "http://127.0.0.1:9650" {
		t.Errorf("Endpoint = %s", cfg.Endpoint)
	}
	if cfg.PageSize != 20 {
		t.Errorf("PageSize = %d", cfg.PageSize)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %s", cfg.Log.Level)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	content := "network: testnet\nendpoint: http://localhost:9650\ntimeout: 5s\nlog:\n  json: true\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigName+".yaml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	v.Set("datadir", dir)
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Network != Testnet || cfg.HRP != "fuji" {
		t.Errorf("network from file not applied: %+v", cfg)
	}
	if cfg.Endpoint != "http://localhost:9650" || cfg.Timeout != 5*time.Second || !cfg.Log.JSON {
		t.Errorf("file values not applied: %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	v := viper.New()
	v.Set("datadir", t.TempDir())
	v.Set("page-size", 40)
	if _, err := Load(v); !errors.Is(err, types.ErrValidation) {
		t.Fatalf("Load() = %v, want ErrValidation", err)
	}
}

func TestLoadEnvFile(t *testing.T) {
	const key = "AVAXCLI_TEST_ENVFILE_VALUE"
	t.Cleanup(func() { os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(key+"=from-file\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv(key); got != "from-file" {
		t.Errorf("%s = %q", key, got)
	}

	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing file should be ignored: %v", err)
	}
}

// avax-cli is a command-line HD wallet for the Avalanche X-chain.
//
// Command results go to stdout; logs go to stderr. A failed command logs
// the error and prints 0.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/config"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/app"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/log"
)

var (
	v   = viper.New()
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "avax-cli",
	Short: "Avalanche X-chain HD wallet",
	Long: `avax-cli manages HD wallets on the Avalanche X-chain: balances across
derived addresses, AVAX and token transfers, token creation and burning,
and a three-step token sale between two wallets.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("network", string(config.Mainnet), "network: mainnet or testnet")
	pf.String("endpoint", "", "node API URL (default: the network's public API)")
	pf.String("datadir", config.DefaultDataDir(), "data directory")
	pf.Uint32("page-size", config.DefaultPageSize, "addresses queried per balance page (max 20)")
	pf.Duration("timeout", 0, "HTTP timeout per node request")
	pf.String("log-level", "info", "log level: debug, info, warn, error, off")
	pf.Bool("log-json", false, "log JSON instead of colored text")
	pf.String("log-file", "", "also append JSON logs to this file")
	pf.String("env-file", ".env", "load environment variables from this file")

	for key, flag := range map[string]string{
		"network":   "network",
		"endpoint":  "endpoint",
		"datadir":   "datadir",
		"page-size": "page-size",
		"timeout":   "timeout",
		"log.level": "log-level",
		"log.json":  "log-json",
		"log.file":  "log-file",
	} {
		// Unset flags fall through to the file, env and network defaults.
		if err := v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(
		createWalletCmd(),
		listWalletsCmd(),
		getAddressCmd(),
		getKeyCmd(),
		updateBalancesCmd(),
		sendCmd(),
		sendAllCmd(),
		sendTokensCmd(),
		burnTokensCmd(),
		createTokenCmd(),
		bridgeCmd(),
		makeOfferCmd(),
	)
}

func loadConfig(cmd *cobra.Command) error {
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return err
	}
	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}
	c, err := config.Load(v)
	if err != nil {
		return err
	}
	if err := log.Init(c.Log.Level, c.Log.JSON, c.Log.File); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	cfg = c
	log.CLI.Debug().Str("network", string(cfg.Network)).Str("endpoint", cfg.Endpoint).Msg("Config loaded")
	return nil
}

// withApp opens the wallet app for one command and closes it afterwards.
func withApp(fn func(ctx context.Context, a *app.App) (any, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		a, err := app.Open(cfg, promptPassword, log.Wallet)
		if err != nil {
			return err
		}
		defer a.Close()

		out, err := fn(cmd.Context(), a)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), out)
	}
}

func printResult(w io.Writer, out any) error {
	switch r := out.(type) {
	case nil:
		return nil
	case string:
		_, err := fmt.Fprintln(w, r)
		return err
	case fmt.Stringer:
		_, err := fmt.Fprintln(w, r.String())
		return err
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.CLI.Error().Err(err).Msg("Command failed")
		fmt.Println(0)
		os.Exit(1)
	}
}

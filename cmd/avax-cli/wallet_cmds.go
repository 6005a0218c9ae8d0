package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/app"
)

func createWalletCmd() *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "create-wallet",
		Short: "Generate a new HD wallet",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app.App) (any, error) {
			password, err := newPassword()
			if err != nil {
				return nil, err
			}
			defer clear(password)

			state, err := a.CreateWallet(name, description, password)
			if err != nil {
				return nil, err
			}
			mnemonic, err := state.Secret()
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"name":      name,
				"network":   state.Network,
				"address":   state.Addresses[0].String(),
				"mnemonic":  mnemonic,
				"encrypted": state.IsEncrypted(),
			}, nil
		}),
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "name of the wallet")
	cmd.Flags().StringVarP(&description, "description", "d", "", "description of the wallet")
	return cmd
}

func listWalletsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-wallets",
		Short: "List existing wallets",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app.App) (any, error) {
			return a.ListWallets()
		}),
	}
}

func getAddressCmd() *cobra.Command {
	var (
		name     string
		noUpdate bool
	)
	cmd := &cobra.Command{
		Use:   "get-address",
		Short: "Show an unused address to receive funds",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app.App) (any, error) {
			if noUpdate {
				return a.PeekAddress(name)
			}
			return a.GetAddress(name)
		}),
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "name of the wallet")
	cmd.Flags().BoolVarP(&noUpdate, "noupdate", "u", false, "do not advance the wallet's next address")
	return cmd
}

func getKeyCmd() *cobra.Command {
	var (
		name  string
		index uint32
	)
	cmd := &cobra.Command{
		Use:   "get-key",
		Short: "Export a private key and its address",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = withApp(func(ctx context.Context, a *app.App) (any, error) {
		if cmd.Flags().Changed("index") {
			return a.GetKey(name, &index)
		}
		return a.GetKey(name, nil)
	})
	cmd.Flags().StringVarP(&name, "name", "n", "", "name of the wallet")
	cmd.Flags().Uint32VarP(&index, "index", "i", 0, "HD index of the key (default: the next unused one)")
	return cmd
}

func updateBalancesCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "update-balances",
		Short: "Scan the wallet's addresses and refresh its balances",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app.App) (any, error) {
			return a.UpdateBalances(ctx, name)
		}),
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "name of the wallet")
	return cmd
}

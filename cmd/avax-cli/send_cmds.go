package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/app"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

func parseAddress(s string) (types.Address, error) {
	if s == "" {
		return types.Address{}, types.Invalidf("you must specify a send-to address with the -a flag")
	}
	return types.ParseAddress(s)
}

func parseTokenID(s string) (types.ID, error) {
	if s == "" {
		return types.ID{}, types.Invalidf("you must specify a token ID with the -t flag")
	}
	id, err := types.IDFromString(s)
	if err != nil {
		return types.ID{}, fmt.Errorf("token ID: %w", err)
	}
	return id, nil
}

func sendCmd() *cobra.Command {
	var name, amount, to, memo string
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send AVAX to an address",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app.App) (any, error) {
			addr, err := parseAddress(to)
			if err != nil {
				return nil, err
			}
			return a.Send(ctx, name, addr, amount, memo)
		}),
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "name of the wallet")
	cmd.Flags().StringVarP(&amount, "avax", "q", "", "quantity of AVAX to send, e.g. 0.5")
	cmd.Flags().StringVarP(&to, "sendAddr", "a", "", "address to send AVAX to")
	cmd.Flags().StringVarP(&memo, "memo", "m", "", "memo attached to the transaction")
	return cmd
}

func sendAllCmd() *cobra.Command {
	var name, to, memo string
	cmd := &cobra.Command{
		Use:   "send-all",
		Short: "Send every AVAX and token UTXO of the wallet to one address",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app.App) (any, error) {
			addr, err := parseAddress(to)
			if err != nil {
				return nil, err
			}
			return a.SendAll(ctx, name, addr, memo)
		}),
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "name of the wallet")
	cmd.Flags().StringVarP(&to, "sendAddr", "a", "", "address to send everything to")
	cmd.Flags().StringVarP(&memo, "memo", "m", "", "memo attached to the transaction")
	return cmd
}

// tokenFlags are shared by the token transfer commands.
type tokenFlags struct {
	name, tokenID, qty, to, memo string
}

func (f *tokenFlags) register(cmd *cobra.Command, withRecipient bool) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "name of the wallet")
	cmd.Flags().StringVarP(&f.tokenID, "tokenId", "t", "", "asset ID of the token")
	cmd.Flags().StringVarP(&f.qty, "qty", "q", "", "quantity of tokens, in display units")
	if withRecipient {
		cmd.Flags().StringVarP(&f.to, "sendAddr", "a", "", "address to send the tokens to")
		cmd.Flags().StringVarP(&f.memo, "memo", "m", "", "memo attached to the transaction")
	}
}

func (f *tokenFlags) transfer() (app.TokenTransfer, error) {
	id, err := parseTokenID(f.tokenID)
	if err != nil {
		return app.TokenTransfer{}, err
	}
	to, err := parseAddress(f.to)
	if err != nil {
		return app.TokenTransfer{}, err
	}
	return app.TokenTransfer{AssetID: id, Amount: f.qty, To: to, Memo: f.memo}, nil
}

func sendTokensCmd() *cobra.Command {
	var f tokenFlags
	cmd := &cobra.Command{
		Use:   "send-tokens",
		Short: "Send tokens to an address",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app.App) (any, error) {
			t, err := f.transfer()
			if err != nil {
				return nil, err
			}
			return a.SendTokens(ctx, f.name, t)
		}),
	}
	f.register(cmd, true)
	return cmd
}

func burnTokensCmd() *cobra.Command {
	var f tokenFlags
	cmd := &cobra.Command{
		Use:   "burn-tokens",
		Short: "Destroy a quantity of tokens",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app.App) (any, error) {
			id, err := parseTokenID(f.tokenID)
			if err != nil {
				return nil, err
			}
			return a.BurnTokens(ctx, f.name, id, f.qty)
		}),
	}
	f.register(cmd, false)
	return cmd
}

func bridgeCmd() *cobra.Command {
	var (
		f       tokenFlags
		bchAddr string
	)
	cmd := &cobra.Command{
		Use:   "bridge",
		Short: "Send tokens to the SLP-AVAX bridge",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app.App) (any, error) {
			t, err := f.transfer()
			if err != nil {
				return nil, err
			}
			return a.Bridge(ctx, f.name, t, bchAddr)
		}),
	}
	f.register(cmd, false)
	cmd.Flags().StringVarP(&f.to, "sendAddr", "a", "", "address of the bridge")
	cmd.Flags().StringVarP(&bchAddr, "bchAddr", "b", "", "BCH or SLP address receiving the tokens on the other side")
	return cmd
}

func createTokenCmd() *cobra.Command {
	var (
		name, to string
		def      app.TokenDefinition
	)
	cmd := &cobra.Command{
		Use:   "create-token",
		Short: "Create a new token",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app.App) (any, error) {
			if to != "" {
				addr, err := types.ParseAddress(to)
				if err != nil {
					return nil, err
				}
				def.Recipient = &addr
			}
			return a.CreateToken(ctx, name, def)
		}),
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "name of the wallet")
	cmd.Flags().StringVarP(&def.Name, "token", "t", "", "name of the new token")
	cmd.Flags().StringVarP(&def.Symbol, "symbol", "s", "", "ticker symbol, up to 4 characters")
	cmd.Flags().Uint8VarP(&def.Denomination, "denomination", "d", 0, "number of decimal places")
	cmd.Flags().StringVarP(&def.Supply, "initial", "i", "", "initial supply, in display units")
	cmd.Flags().StringVarP(&def.Memo, "memo", "m", "", "memo attached to the transaction")
	cmd.Flags().StringVarP(&to, "sendAddr", "a", "", "address receiving the supply (default: a fresh wallet address)")
	return cmd
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/app"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/offer"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

func makeOfferCmd() *cobra.Command {
	var name, operation, tokenID, amount, price, txHex, references, record string
	cmd := &cobra.Command{
		Use:   "make-offer",
		Short: "Trade tokens for AVAX with another wallet",
		Long: `make-offer runs one step of a token sale.

  sell    the seller offers --amount tokens of --tokenId for --avax nAVAX
  buy     the buyer pays for the offer and signs its own input
  accept  the seller signs the remaining inputs and broadcasts

The steps exchange a JSON record; pass it back with --offer, or pass its
parts with --txHex and --reference.`,
		Args: cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app.App) (any, error) {
			switch operation {
			case "sell":
				id, err := parseTokenID(tokenID)
				if err != nil {
					return nil, err
				}
				qty, err := types.ParseAmount(amount)
				if err != nil {
					return nil, fmt.Errorf("--amount: %w", err)
				}
				avax, err := types.ParseAmount(price)
				if err != nil {
					return nil, fmt.Errorf("--avax: %w", err)
				}
				return encode(a.SellOffer(ctx, name, id, qty, avax))
			case "buy":
				ex, err := readExchange(record, txHex, references)
				if err != nil {
					return nil, err
				}
				return encode(a.BuyOffer(ctx, name, ex))
			case "accept":
				ex, err := readExchange(record, txHex, references)
				if err != nil {
					return nil, err
				}
				return a.AcceptOffer(ctx, name, ex)
			default:
				return nil, types.Invalidf("--operation must be sell, buy or accept")
			}
		}),
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "name of the wallet")
	cmd.Flags().StringVarP(&operation, "operation", "o", "", "sell, buy or accept")
	cmd.Flags().StringVarP(&tokenID, "tokenId", "t", "", "asset ID of the token to sell")
	cmd.Flags().StringVarP(&amount, "amount", "q", "", "quantity of tokens to sell, in base units")
	cmd.Flags().StringVarP(&price, "avax", "a", "", "nAVAX asked for the tokens")
	cmd.Flags().StringVar(&txHex, "txHex", "", "transaction hex from the previous step")
	cmd.Flags().StringVarP(&references, "reference", "r", "", "address references JSON from the previous step")
	cmd.Flags().StringVar(&record, "offer", "", "full exchange record from the previous step")
	return cmd
}

func readExchange(record, txHex, references string) (*offer.Exchange, error) {
	if record != "" {
		return offer.ParseExchange(record)
	}
	return offer.ExchangeFromParts(txHex, references)
}

func encode(ex *offer.Exchange, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return ex.Encode()
}

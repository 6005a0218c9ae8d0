package chainclient

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/tx"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

// API paths on the node.
const (
	XChainPath = "/ext/bc/X"
	InfoPath   = "/ext/info"
)

// NativeAlias is the alias the node accepts for the native asset id.
const NativeAlias = "AVAX"

// UTXOPageLimit is the page size requested from avm.getUTXOs.
const UTXOPageLimit = 1024

// Balance is one entry of avm.getAllBalances. Asset is an asset id in CB58
// or an alias such as "AVAX".
type Balance struct {
	Asset   string       `json:"asset"`
	Balance types.Amount `json:"balance"`
}

// Fees are the flat fees charged by the chain.
type Fees struct {
	TxFee            types.Amount `json:"txFee"`
	CreateAssetTxFee types.Amount `json:"createAssetTxFee"`
}

// Service is the chain API the wallet consumes.
type Service interface {
	// AssetDescription resolves an asset id or alias.
	AssetDescription(ctx context.Context, asset string) (types.AssetDescription, error)
	AllBalances(ctx context.Context, addr types.Address) ([]Balance, error)
	UTXOs(ctx context.Context, addrs []types.Address) ([]*tx.UTXO, error)
	Fees(ctx context.Context) (Fees, error)
	// Broadcast submits a signed transaction in hex and returns its id.
	Broadcast(ctx context.Context, signedHex string) (types.ID, error)
}

// AssetID resolves a symbol or alias to its asset id.
func AssetID(ctx context.Context, s Service, symbol string) (types.ID, error) {
	desc, err := s.AssetDescription(ctx, symbol)
	if err != nil {
		return types.ID{}, err
	}
	return desc.AssetID, nil
}

// NodeService implements Service over JSON-RPC.
type NodeService struct {
	client *Client
}

// NewNodeService wraps client.
func NewNodeService(client *Client) *NodeService {
	return &NodeService{client: client}
}

type assetDescriptionReply struct {
	AssetID      types.ID `json:"assetID"`
	Name         string   `json:"name"`
	Symbol       string   `json:"symbol"`
	Denomination jsonUint `json:"denomination"`
}

// AssetDescription wraps avm.getAssetDescription.
func (s *NodeService) AssetDescription(ctx context.Context, asset string) (types.AssetDescription, error) {
	var reply assetDescriptionReply
	params := map[string]string{"assetID": asset}
	if err := s.client.Call(ctx, XChainPath, "avm.getAssetDescription", params, &reply); err != nil {
		return types.AssetDescription{}, err
	}
	if reply.Denomination > types.MaxDenomination {
		return types.AssetDescription{}, fmt.Errorf("%w: asset %s denomination %d", types.ErrDeserialization, asset, reply.Denomination)
	}
	return types.AssetDescription{
		AssetID:      reply.AssetID,
		Name:         reply.Name,
		Symbol:       reply.Symbol,
		Denomination: uint8(reply.Denomination),
	}, nil
}

// AllBalances wraps avm.getAllBalances.
func (s *NodeService) AllBalances(ctx context.Context, addr types.Address) ([]Balance, error) {
	var reply struct {
		Balances []Balance `json:"balances"`
	}
	params := map[string]string{"address": addr.String()}
	if err := s.client.Call(ctx, XChainPath, "avm.getAllBalances", params, &reply); err != nil {
		return nil, err
	}
	return reply.Balances, nil
}

type utxoIndex struct {
	Address string `json:"address"`
	UTXO    string `json:"utxo"`
}

type getUTXOsArgs struct {
	Addresses  []string   `json:"addresses"`
	Limit      int        `json:"limit"`
	StartIndex *utxoIndex `json:"startIndex,omitempty"`
	Encoding   string     `json:"encoding"`
}

type getUTXOsReply struct {
	NumFetched jsonUint  `json:"numFetched"`
	UTXOs      []string  `json:"utxos"`
	EndIndex   utxoIndex `json:"endIndex"`
}

// UTXOs wraps avm.getUTXOs, following endIndex until a short page.
func (s *NodeService) UTXOs(ctx context.Context, addrs []types.Address) ([]*tx.UTXO, error) {
	args := getUTXOsArgs{Limit: UTXOPageLimit, Encoding: "hex"}
	for _, a := range addrs {
		args.Addresses = append(args.Addresses, a.String())
	}

	var (
		out  []*tx.UTXO
		seen = make(map[types.UTXOID]bool)
	)
	for {
		var reply getUTXOsReply
		if err := s.client.Call(ctx, XChainPath, "avm.getUTXOs", args, &reply); err != nil {
			return nil, err
		}
		for i, raw := range reply.UTXOs {
			u, err := parseHexUTXO(raw)
			if err != nil {
				return nil, fmt.Errorf("utxo %d: %w", i, err)
			}
			if seen[u.ID] {
				continue
			}
			seen[u.ID] = true
			out = append(out, u)
		}
		if int(reply.NumFetched) < UTXOPageLimit || reply.EndIndex.UTXO == "" {
			return out, nil
		}
		args.StartIndex = &reply.EndIndex
	}
}

func parseHexUTXO(s string) (*tx.UTXO, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: utxo hex: %v", types.ErrDeserialization, err)
	}
	return tx.ParseUTXO(b)
}

// Fees wraps info.getTxFee.
func (s *NodeService) Fees(ctx context.Context) (Fees, error) {
	var reply Fees
	if err := s.client.Call(ctx, InfoPath, "info.getTxFee", struct{}{}, &reply); err != nil {
		return Fees{}, err
	}
	return reply, nil
}

// Broadcast wraps avm.issueTx.
func (s *NodeService) Broadcast(ctx context.Context, signedHex string) (types.ID, error) {
	var reply struct {
		TxID types.ID `json:"txID"`
	}
	params := map[string]string{"tx": "0x" + strings.TrimPrefix(signedHex, "0x"), "encoding": "hex"}
	if err := s.client.Call(ctx, XChainPath, "avm.issueTx", params, &reply); err != nil {
		return types.ID{}, err
	}
	return reply.TxID, nil
}

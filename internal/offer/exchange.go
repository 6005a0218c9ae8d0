package offer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/tx"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

// ExchangeVersion is the current exchange record schema.
const ExchangeVersion = 1

// Exchange is the record two parties pass back and forth out of band.
// TxHex is always the signed-form encoding: no credentials after the sell
// step and one slot per input after the buy step.
type Exchange struct {
	Version        int               `json:"version"`
	TxHex          string            `json:"txHex"`
	AddrReferences tx.AddrReferences `json:"addrReferences"`
}

// NewExchange wraps a transaction and its input owners.
func NewExchange(stx *tx.SignedTx, refs tx.AddrReferences) *Exchange {
	if refs == nil {
		refs = make(tx.AddrReferences)
	}
	return &Exchange{Version: ExchangeVersion, TxHex: stx.Hex(), AddrReferences: refs}
}

// Encode returns the JSON form.
func (e *Exchange) Encode() (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("encode exchange: %w", err)
	}
	return string(b), nil
}

// ReferencesJSON returns the address references alone, as JSON.
func (e *Exchange) ReferencesJSON() (string, error) {
	b, err := json.Marshal(e.AddrReferences)
	if err != nil {
		return "", fmt.Errorf("encode references: %w", err)
	}
	return string(b), nil
}

// Transaction decodes TxHex.
func (e *Exchange) Transaction() (*tx.SignedTx, error) {
	stx, err := tx.ParseSignedHex(e.TxHex)
	if err != nil {
		return nil, fmt.Errorf("offer transaction: %w", err)
	}
	return stx, nil
}

// Owner implements tx.OwnerLookup over the references.
func (e *Exchange) Owner(id types.UTXOID) (types.Address, bool) {
	return e.AddrReferences.Owner(id)
}

type wireExchange struct {
	Version        *int            `json:"version"`
	TxHex          string          `json:"txHex"`
	AddrReferences json.RawMessage `json:"addrReferences"`
}

// ParseExchange decodes an exchange record. Besides the versioned form it
// accepts the unversioned pair whose addrReferences is itself a JSON
// string.
func ParseExchange(s string) (*Exchange, error) {
	var w wireExchange
	dec := json.NewDecoder(strings.NewReader(s))
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("%w: exchange record: %v", types.ErrDeserialization, err)
	}
	if w.Version != nil && *w.Version != ExchangeVersion {
		return nil, fmt.Errorf("%w: exchange record version %d", types.ErrDeserialization, *w.Version)
	}
	if w.TxHex == "" {
		return nil, fmt.Errorf("%w: exchange record has no txHex", types.ErrDeserialization)
	}

	raw := bytes.TrimSpace(w.AddrReferences)
	if len(raw) > 0 && raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("%w: address references: %v", types.ErrDeserialization, err)
		}
		raw = []byte(inner)
	}
	if len(raw) == 0 || string(raw) == "null" {
		raw = []byte("{}")
	}
	refs, err := tx.ParseAddrReferences(string(raw))
	if err != nil {
		return nil, err
	}
	return &Exchange{Version: ExchangeVersion, TxHex: w.TxHex, AddrReferences: refs}, nil
}

// ExchangeFromParts builds a record from a transaction hex and a JSON
// address reference map, the two values passed as separate flags.
func ExchangeFromParts(txHex, references string) (*Exchange, error) {
	if strings.TrimSpace(txHex) == "" {
		return nil, types.Invalidf("a transaction hex is required")
	}
	if strings.TrimSpace(references) == "" {
		return nil, types.Invalidf("an address reference map is required")
	}
	refs, err := tx.ParseAddrReferences(references)
	if err != nil {
		return nil, err
	}
	return &Exchange{Version: ExchangeVersion, TxHex: strings.TrimSpace(txHex), AddrReferences: refs}, nil
}

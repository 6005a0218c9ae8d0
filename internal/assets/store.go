// Package assets caches asset descriptions so that each asset is resolved
// on the chain once per wallet database.
package assets

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/storage"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

var prefixAsset = []byte("a/") // a/<query> -> AssetDescription JSON

// Store persists asset descriptions keyed by the string they were looked up
// with: an asset id in CB58 or an alias such as "AVAX".
type Store struct {
	db storage.DB
}

// NewStore creates an asset description store.
func NewStore(db storage.DB) *Store {
	return &Store{db: db}
}

// Put stores desc under query.
func (s *Store) Put(query string, desc types.AssetDescription) error {
	data, err := json.Marshal(desc)
	if err != nil {
		return fmt.Errorf("asset marshal: %w", err)
	}
	return s.db.Put(assetKey(query), data)
}

// Get retrieves the description stored under query. A missing entry
// returns storage.ErrNotFound.
func (s *Store) Get(query string) (types.AssetDescription, error) {
	data, err := s.db.Get(assetKey(query))
	if err != nil {
		return types.AssetDescription{}, fmt.Errorf("asset get %s: %w", query, err)
	}
	var desc types.AssetDescription
	if err := json.Unmarshal(data, &desc); err != nil {
		return types.AssetDescription{}, fmt.Errorf("%w: asset %s: %v", types.ErrDeserialization, query, err)
	}
	return desc, nil
}

// Has checks if a description is stored under query.
func (s *Store) Has(query string) (bool, error) {
	return s.db.Has(assetKey(query))
}

// List returns every stored description once, ordered by symbol then id.
func (s *Store) List() ([]types.AssetDescription, error) {
	seen := make(map[types.ID]bool)
	var out []types.AssetDescription
	err := s.db.ForEach(prefixAsset, func(_, value []byte) error {
		var desc types.AssetDescription
		if err := json.Unmarshal(value, &desc); err != nil {
			return nil // Skip corrupt entries.
		}
		if !seen[desc.AssetID] {
			seen[desc.AssetID] = true
			out = append(out, desc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Symbol != out[j].Symbol {
			return out[i].Symbol < out[j].Symbol
		}
		return out[i].AssetID.String() < out[j].AssetID.String()
	})
	return out, nil
}

func assetKey(query string) []byte {
	key := make([]byte, 0, len(prefixAsset)+len(query))
	key = append(key, prefixAsset...)
	return append(key, query...)
}

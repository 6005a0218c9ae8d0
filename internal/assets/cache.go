package assets

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/storage"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

// Describer resolves an asset id or alias on the chain.
type Describer interface {
	AssetDescription(ctx context.Context, asset string) (types.AssetDescription, error)
}

// Cache answers asset description lookups from its Store and falls back to
// the chain on a miss. Concurrent misses for the same query share one call.
type Cache struct {
	store  *Store
	chain  Describer
	group  singleflight.Group
	logger zerolog.Logger
}

// NewCache creates a cache over db.
func NewCache(db storage.DB, chain Describer, logger zerolog.Logger) *Cache {
	return &Cache{store: NewStore(db), chain: chain, logger: logger}
}

// Describe returns the description of asset, an id in CB58 or an alias.
func (c *Cache) Describe(ctx context.Context, asset string) (types.AssetDescription, error) {
	desc, err := c.store.Get(asset)
	if err == nil {
		return desc, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		c.logger.Warn().Err(err).Str("asset", asset).Msg("Asset cache read failed")
	}

	v, err, _ := c.group.Do(asset, func() (any, error) {
		desc, err := c.chain.AssetDescription(ctx, asset)
		if err != nil {
			return nil, err
		}
		c.remember(asset, desc)
		return desc, nil
	})
	if err != nil {
		return types.AssetDescription{}, err
	}
	return v.(types.AssetDescription), nil
}

// remember stores desc under the query and under its id, so that a later
// lookup by either form hits. Write failures only cost a future round trip.
func (c *Cache) remember(query string, desc types.AssetDescription) {
	keys := []string{query}
	if id := desc.AssetID.String(); id != query {
		keys = append(keys, id)
	}
	for _, k := range keys {
		if err := c.store.Put(k, desc); err != nil {
			c.logger.Warn().Err(err).Str("asset", k).Msg("Asset cache write failed")
		}
	}
	c.logger.Debug().Str("asset", query).Str("symbol", desc.Symbol).Msg("Asset description cached")
}

// Known returns every cached description.
func (c *Cache) Known() ([]types.AssetDescription, error) {
	return c.store.List()
}

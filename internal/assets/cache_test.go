package assets

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/chainclient/chaintest"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/storage"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

func TestCache_Describe(t *testing.T) {
	ctx := context.Background()
	chain := chaintest.New()
	tok := chain.AddAsset("Test Token", "TTK", 2)
	cache := NewCache(storage.NewMemory(), chain, zerolog.Nop())

	desc, err := cache.Describe(ctx, "AVAX")
	require.NoError(t, err)
	assert.Equal(t, chain.NativeID, desc.AssetID)
	assert.Equal(t, uint8(9), desc.Denomination)

	// Alias and id lookups now hit the cache.
	_, err = cache.Describe(ctx, "AVAX")
	require.NoError(t, err)
	_, err = cache.Describe(ctx, chain.NativeID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, chain.DescriptionCalls)

	desc, err = cache.Describe(ctx, tok.String())
	require.NoError(t, err)
	assert.Equal(t, "TTK", desc.Symbol)
	assert.Equal(t, 2, chain.DescriptionCalls)

	known, err := cache.Known()
	require.NoError(t, err)
	assert.Len(t, known, 2)
}

func TestCache_DescribeError(t *testing.T) {
	chain := chaintest.New()
	chain.Err = errors.New("offline")
	cache := NewCache(storage.NewMemory(), chain, zerolog.Nop())

	_, err := cache.Describe(context.Background(), "AVAX")
	require.ErrorIs(t, err, types.ErrNetwork)

	// Failures are not cached.
	chain.Err = nil
	_, err = cache.Describe(context.Background(), "AVAX")
	require.NoError(t, err)
}

func TestCache_DescribeConcurrent(t *testing.T) {
	chain := chaintest.New()
	cache := NewCache(storage.NewMemory(), chain, zerolog.Nop())

	var wg sync.WaitGroup
	for n := 0; n < 16; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			desc, err := cache.Describe(context.Background(), "AVAX")
			assert.NoError(t, err)
			assert.Equal(t, "AVAX", desc.Symbol)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, chain.DescriptionCalls, 16)
	assert.GreaterOrEqual(t, chain.DescriptionCalls, 1)
}

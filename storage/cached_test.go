package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2096779623/xLog/storage"
	"github.com/2096779623/xLog/storage/testkit"
)

func TestCachedCAS_Conformance(t *testing.T) {
	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS {
		return &storage.CachedCAS{Cache: testkit.NewMemCAS(), Source: testkit.NewMemCAS()}
	})
}

func TestCachedCAS_FillsCacheOnMiss(t *testing.T) {
	ctx := context.Background()
	cache, source := testkit.NewMemCAS(), testkit.NewMemCAS()
	data := []byte("remote avatar block")
	id := testkit.DagPBCID(t, data)
	require.NoError(t, source.PutBlock(ctx, id, data))

	c := &storage.CachedCAS{Cache: cache, Source: source}
	assert.True(t, c.Has(ctx, id))
	assert.False(t, cache.Has(ctx, id))

	got, err := c.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.True(t, cache.Has(ctx, id), "block should be cached after a miss")

	_, err = c.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, source.Gets(), "second read must be served from cache")
}

func TestCachedCAS_MissingEverywhere(t *testing.T) {
	ctx := context.Background()
	c := &storage.CachedCAS{Cache: testkit.NewMemCAS(), Source: testkit.NewMemCAS()}
	id := testkit.DagPBCID(t, []byte("nowhere"))
	_, err := c.Get(ctx, id)
	assert.True(t, storage.IsNotFound(err))

	noSource := &storage.CachedCAS{Cache: testkit.NewMemCAS()}
	_, err = noSource.Get(ctx, id)
	assert.True(t, storage.IsNotFound(err))
}

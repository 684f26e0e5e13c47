package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2096779623/xLog/storage"
	"github.com/2096779623/xLog/storage/testkit"
)

// failingCAS returns err from every call.
type failingCAS struct{ err error }

func (f failingCAS) Put(context.Context, []byte) (cid.Cid, error) { return cid.Undef, f.err }
func (f failingCAS) Get(context.Context, cid.Cid) ([]byte, error) { return nil, f.err }
func (f failingCAS) Has(context.Context, cid.Cid) bool { return false }

func TestMultiCAS_Conformance(t *testing.T) {
	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS {
		return storage.MultiCAS{Adapters: []storage.CAS{testkit.NewMemCAS(), testkit.NewMemCAS()}}
	})
}

func TestMultiCAS_FallsBackInOrder(t *testing.T) {
	ctx := context.Background()
	first, second := testkit.NewMemCAS(), testkit.NewMemCAS()
	id, err := second.Put(ctx, []byte("only in second"))
	require.NoError(t, err)

	m := storage.MultiCAS{Adapters: []storage.CAS{first, second}}
	got, err := m.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "only in second", string(got))
	assert.Equal(t, 1, first.Gets())
	assert.True(t, m.Has(ctx, id))
}

func TestMultiCAS_ErrorHandling(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("gateway unreachable")
	backup := testkit.NewMemCAS()
	id, err := backup.Put(ctx, []byte("x"))
	require.NoError(t, err)

	strict := storage.MultiCAS{Adapters: []storage.CAS{failingCAS{boom}, backup}}
	_, err = strict.Get(ctx, id)
	assert.ErrorIs(t, err, boom)

	lenient := storage.MultiCAS{Adapters: []storage.CAS{failingCAS{boom}, backup}, ContinueOnError: true}
	got, err := lenient.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "x", string(got))

	allFail := storage.MultiCAS{Adapters: []storage.CAS{failingCAS{storage.ErrNotFound}, failingCAS{boom}}, ContinueOnError: true}
	_, err = allFail.Get(ctx, id)
	assert.ErrorIs(t, err, boom)

	notFound := storage.MultiCAS{Adapters: []storage.CAS{failingCAS{storage.ErrNotFound}}}
	_, err = notFound.Get(ctx, id)
	assert.True(t, storage.IsNotFound(err))
}

func TestMultiCAS_NoAdapters(t *testing.T) {
	_, err := storage.MultiCAS{}.Put(context.Background(), []byte("x"))
	assert.Error(t, err)
}

func TestMultiCAS_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mem := testkit.NewMemCAS()
	id, err := mem.Put(context.Background(), []byte("x"))
	require.NoError(t, err)
	cancel()

	m := storage.MultiCAS{Adapters: []storage.CAS{mem}}
	_, err = m.Get(ctx, id)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, m.Has(ctx, id))
}

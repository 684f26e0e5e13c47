package testkit

import (
	"bytes"
	"context"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2096779623/xLog/cidutil"
	"github.com/2096779623/xLog/storage"
)

// NewCAS constructs a fresh, empty CAS instance for a test.
// The returned CAS MUST be isolated from other tests.
type NewCAS func(t *testing.T) storage.CAS

func RunCASConformance(t *testing.T, newCAS NewCAS) {
	t.Helper()
	ctx := context.Background()

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		cas := newCAS(t)
		want := []byte("hello, xlog storage")

		id, err := cas.Put(ctx, want)
		require.NoError(t, err)
		wantID, err := cidutil.CIDv1RawSHA256CID(want)
		require.NoError(t, err)
		assert.Equal(t, wantID, id, "Put CID mismatch")

		got, err := cas.Get(ctx, id)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(got, want), "Get bytes mismatch")
		require.NoError(t, cidutil.Verify(id, got))
	})

	t.Run("PutIdempotent", func(t *testing.T) {
		cas := newCAS(t)
		b := []byte("same bytes")

		id1, err := cas.Put(ctx, b)
		require.NoError(t, err)
		id2, err := cas.Put(ctx, b)
		require.NoError(t, err)
		assert.Equal(t, id1, id2, "Put not idempotent")
	})

	t.Run("HasAndNotFound", func(t *testing.T) {
		cas := newCAS(t)
		b := []byte("missing")
		id, err := cidutil.CIDv1RawSHA256CID(b)
		require.NoError(t, err)

		assert.False(t, cas.Has(ctx, id), "Has returned true for missing CID")
		_, err = cas.Get(ctx, id)
		assert.True(t, storage.IsNotFound(err), "Get missing: got err=%v want ErrNotFound", err)

		_, err = cas.Put(ctx, b)
		require.NoError(t, err)
		assert.True(t, cas.Has(ctx, id), "Has returned false after Put")
	})

	t.Run("RejectUndefCID", func(t *testing.T) {
		cas := newCAS(t)
		var undef cid.Cid
		assert.False(t, cas.Has(ctx, undef))
		_, err := cas.Get(ctx, undef)
		assert.Error(t, err)
	})

	t.Run("PutBlockAnyCodec", func(t *testing.T) {
		cas := newCAS(t)
		bp, ok := cas.(storage.BlockPutter)
		if !ok {
			t.Skip("backend does not implement storage.BlockPutter")
		}
		data := []byte("a dag-pb block")
		id := DagPBCID(t, data)

		require.NoError(t, bp.PutBlock(ctx, id, data))
		require.NoError(t, bp.PutBlock(ctx, id, data), "PutBlock must be idempotent")
		got, err := cas.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, data, got)

		assert.ErrorIs(t, bp.PutBlock(ctx, id, []byte("other")), storage.ErrCIDMismatch)
	})
}

// DagPBCID returns a CIDv0 for data, the form most gateway URLs in the wild use.
func DagPBCID(t testing.TB, data []byte) cid.Cid {
	t.Helper()
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	require.NoError(t, err)
	return cid.NewCidV0(sum)
}

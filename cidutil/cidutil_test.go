package cidutil

import (
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCIDv1RawSHA256_MatchesCIDForm(t *testing.T) {
	data := []byte("hello, xlog")
	s := CIDv1RawSHA256(data)
	id, err := CIDv1RawSHA256CID(data)
	require.NoError(t, err)
	assert.Equal(t, id.String(), s)
	assert.Equal(t, uint64(1), id.Version())
	assert.Equal(t, uint64(cid.Raw), id.Type())
}

func TestDecode(t *testing.T) {
	id, err := CIDv1RawSHA256CID([]byte("x"))
	require.NoError(t, err)

	got, err := Decode("  " + id.String() + "\n")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = Decode("")
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Decode("not-a-cid")
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	data := []byte("block bytes")
	id, err := CIDv1RawSHA256CID(data)
	require.NoError(t, err)

	require.NoError(t, Verify(id, data))
	assert.ErrorIs(t, Verify(id, []byte("other bytes")), ErrMismatch)
	assert.ErrorIs(t, Verify(cid.Undef, data), ErrEmpty)
}

func TestVerify_UsesPrefixOfRequestedCID(t *testing.T) {
	data := []byte("dag-pb looking block")
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	require.NoError(t, err)
	v0 := cid.NewCidV0(sum)

	require.NoError(t, Verify(v0, data))

	raw, err := CIDv1RawSHA256CID(data)
	require.NoError(t, err)
	assert.NotEqual(t, v0, raw, "codec is part of the identity")
}

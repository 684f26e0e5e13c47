package storage

import (
	"context"

	"github.com/ipfs/go-cid"
)

// CAS is a minimal content-addressable block store.
//
// Contract:
// - Put MUST be idempotent.
// - Stored blocks MUST be immutable.
// - Get MUST return ErrNotFound when the CID is absent.
// - Get MUST only return bytes whose hash matches the requested CID.
type CAS interface {
	Put(ctx context.Context, data []byte) (cid.Cid, error)
	Get(ctx context.Context, id cid.Cid) ([]byte, error)
	Has(ctx context.Context, id cid.Cid) bool
}

// BlockPutter stores bytes under a caller-supplied CID of any codec.
// Implementations MUST verify data against id before storing it.
type BlockPutter interface {
	PutBlock(ctx context.Context, id cid.Cid, data []byte) error
}

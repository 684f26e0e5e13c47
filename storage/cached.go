package storage

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ipfs/go-cid"
)

// CachedCAS is a read-through cache in front of a (usually remote) source.
//
// Get serves from Cache when possible; on a miss it reads Source and stores the
// verified block in Cache. Cache must implement BlockPutter to retain blocks
// whose CID is not raw+sha2-256. Put writes to Cache only.
type CachedCAS struct {
	Cache  CAS
	Source CAS
	Logger *slog.Logger
}

var _ CAS = (*CachedCAS)(nil)

func (c *CachedCAS) Put(ctx context.Context, data []byte) (cid.Cid, error) {
	if c.Cache == nil {
		return cid.Undef, errors.New("storage: CachedCAS has no cache")
	}
	return c.Cache.Put(ctx, data)
}

func (c *CachedCAS) Get(ctx context.Context, id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, ErrInvalidCID
	}
	log := c.logger()
	if c.Cache != nil {
		b, err := c.Cache.Get(ctx, id)
		if err == nil {
			return b, nil
		}
		if !IsNotFound(err) {
			log.WarnContext(ctx, "cache read failed", slog.String("cid", id.String()), slog.Any("error", err))
		}
	}
	if c.Source == nil {
		return nil, ErrNotFound
	}
	b, err := c.Source.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	log.DebugContext(ctx, "cache miss filled", slog.String("cid", id.String()), slog.Int("bytes", len(b)))
	if bp, ok := c.Cache.(BlockPutter); ok {
		if err := bp.PutBlock(ctx, id, b); err != nil {
			log.WarnContext(ctx, "cache store failed", slog.String("cid", id.String()), slog.Any("error", err))
		}
	}
	return b, nil
}

func (c *CachedCAS) Has(ctx context.Context, id cid.Cid) bool {
	if c.Cache != nil && c.Cache.Has(ctx, id) {
		return true
	}
	return c.Source != nil && c.Source.Has(ctx, id)
}

func (c *CachedCAS) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

package storage

import (
	"context"
	"errors"

	"github.com/ipfs/go-cid"
)

// MultiCAS provides deterministic, ordered fallback across multiple CAS adapters.
//
// Retrieval order is the slice order in Adapters; callers MUST supply a fixed order.
// Gateway fallback relies on this: the primary gateway first, then each known gateway.
//
// Put is defined to write only to the first adapter.
type MultiCAS struct {
	Adapters []CAS

	// ContinueOnError makes Get try the next adapter after any error, not only
	// ErrNotFound. The last non-not-found error is returned when every adapter fails.
	ContinueOnError bool
}

var _ CAS = MultiCAS{}

func (m MultiCAS) Put(ctx context.Context, data []byte) (cid.Cid, error) {
	if len(m.Adapters) == 0 {
		return cid.Undef, errors.New("storage: MultiCAS has no adapters")
	}
	return m.Adapters[0].Put(ctx, data)
}

func (m MultiCAS) Get(ctx context.Context, id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, ErrInvalidCID
	}
	var lastErr error
	for _, cas := range m.Adapters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := cas.Get(ctx, id)
		if err == nil {
			return b, nil
		}
		if IsNotFound(err) {
			continue
		}
		if !m.ContinueOnError {
			return nil, err
		}
		lastErr = err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNotFound
}

func (m MultiCAS) Has(ctx context.Context, id cid.Cid) bool {
	for _, cas := range m.Adapters {
		if ctx.Err() != nil {
			return false
		}
		if cas.Has(ctx, id) {
			return true
		}
	}
	return false
}

package testkit

import (
	"context"
	"sync"

	"github.com/ipfs/go-cid"

	"github.com/2096779623/xLog/cidutil"
	"github.com/2096779623/xLog/storage"
)

// MemCAS is an in-memory storage.CAS for tests.
type MemCAS struct {
	mu     sync.RWMutex
	blocks map[cid.Cid][]byte
	gets   int
}

var (
	_ storage.CAS         = (*MemCAS)(nil)
	_ storage.BlockPutter = (*MemCAS)(nil)
)

func NewMemCAS() *MemCAS {
	return &MemCAS{blocks: make(map[cid.Cid][]byte)}
}

func (m *MemCAS) Put(ctx context.Context, data []byte) (cid.Cid, error) {
	id, err := cidutil.CIDv1RawSHA256CID(data)
	if err != nil {
		return cid.Undef, err
	}
	return id, m.PutBlock(ctx, id, data)
}

func (m *MemCAS) PutBlock(_ context.Context, id cid.Cid, data []byte) error {
	if !id.Defined() {
		return storage.ErrInvalidCID
	}
	if err := cidutil.Verify(id, data); err != nil {
		return storage.ErrCIDMismatch
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blocks[id] = append([]byte(nil), data...)
	return nil
}

func (m *MemCAS) Get(_ context.Context, id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	b, ok := m.blocks[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (m *MemCAS) Has(_ context.Context, id cid.Cid) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.blocks[id]
	return ok
}

// Gets returns how many times Get was called.
func (m *MemCAS) Gets() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gets
}

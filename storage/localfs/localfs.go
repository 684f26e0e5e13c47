package localfs

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/ipfs/go-cid"

	"github.com/2096779623/xLog/cidutil"
	"github.com/2096779623/xLog/storage"
)

// CAS is a local filesystem-backed block store, used as the on-disk cache in
// front of remote gateways.
//
// Blocks are stored immutably and keyed strictly by CID. It never uses the network.
type CAS struct {
	root string
}

var (
	_ storage.CAS         = (*CAS)(nil)
	_ storage.BlockPutter = (*CAS)(nil)
)

// New constructs a filesystem CAS rooted at root. The directory will be created if needed.
func New(root string) (*CAS, error) {
	if root == "" {
		return nil, errors.New("localfs: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &CAS{root: root}, nil
}

func (c *CAS) Put(ctx context.Context, data []byte) (cid.Cid, error) {
	id, err := cidutil.CIDv1RawSHA256CID(data)
	if err != nil {
		return cid.Undef, err
	}
	if err := c.PutBlock(ctx, id, data); err != nil {
		return cid.Undef, err
	}
	return id, nil
}

// PutBlock stores data under id after verifying it against id's hash.
func (c *CAS) PutBlock(ctx context.Context, id cid.Cid, data []byte) error {
	if !id.Defined() {
		return storage.ErrInvalidCID
	}
	if err := cidutil.Verify(id, data); err != nil {
		return storage.ErrCIDMismatch
	}

	path := c.pathFor(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o444)
	if err != nil {
		if os.IsExist(err) {
			existing, rerr := c.Get(ctx, id)
			if rerr != nil {
				// Present but unreadable or corrupted: never repair in place.
				return storage.ErrImmutable
			}
			if !bytes.Equal(existing, data) {
				return storage.ErrImmutable
			}
			return nil
		}
		return err
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}

func (c *CAS) Get(_ context.Context, id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	b, err := os.ReadFile(c.pathFor(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	if err := cidutil.Verify(id, b); err != nil {
		return nil, storage.ErrCIDMismatch
	}
	return b, nil
}

func (c *CAS) Has(_ context.Context, id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	_, err := os.Stat(c.pathFor(id))
	return err == nil
}

func (c *CAS) pathFor(id cid.Cid) string {
	s := id.String()
	if len(s) < 4 {
		return filepath.Join(c.root, s)
	}
	// The first characters are the multibase/version prefix; shard on the tail.
	return filepath.Join(c.root, s[len(s)-3:len(s)-1], s)
}

package kubo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ipfs/go-cid"

	"github.com/2096779623/xLog/cidutil"
	"github.com/2096779623/xLog/storage"
)

// CAS is a block store backed by the local Kubo "ipfs" CLI.
//
// It operates on the local IPFS repo and does not require a running daemon,
// which makes a local node usable as the first read backend ahead of public
// gateways. Bytes returned by the CLI are verified against the requested CID.
type CAS struct {
	bin string
	env []string
}

var _ storage.CAS = (*CAS)(nil)

type Options struct {
	// Bin is the path to the ipfs binary. If empty, "ipfs" is used.
	Bin string
	// Env optionally overrides the command environment (e.g. to set IPFS_PATH).
	// If nil, the process environment is used.
	Env []string
}

func New(opts Options) *CAS {
	bin := opts.Bin
	if bin == "" {
		bin = "ipfs"
	}
	return &CAS{bin: bin, env: opts.Env}
}

func (c *CAS) Put(ctx context.Context, data []byte) (cid.Cid, error) {
	id, err := cidutil.CIDv1RawSHA256CID(data)
	if err != nil {
		return cid.Undef, err
	}

	// Explicit parameters so the CID matches cidutil.CIDv1RawSHA256CID.
	out, err := c.run(ctx, data,
		"block", "put",
		"--quiet",
		"--cid-codec=raw",
		"--mhtype=sha2-256",
		"--mhlen=32",
		"/dev/stdin",
	)
	if err != nil {
		return cid.Undef, err
	}

	got, err := cid.Decode(strings.TrimSpace(string(out)))
	if err != nil {
		return cid.Undef, fmt.Errorf("kubo: unexpected block put output: %w", err)
	}
	if !got.Equals(id) {
		return cid.Undef, storage.ErrCIDMismatch
	}
	return id, nil
}

func (c *CAS) Get(ctx context.Context, id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}

	out, err := c.run(ctx, nil, "block", "get", "--offline", id.String())
	if err != nil {
		if isLikelyNotFound(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	if err := cidutil.Verify(id, out); err != nil {
		return nil, storage.ErrCIDMismatch
	}
	return out, nil
}

func (c *CAS) Has(ctx context.Context, id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	_, err := c.run(ctx, nil, "block", "stat", "--offline", id.String())
	return err == nil
}

func (c *CAS) run(ctx context.Context, stdin []byte, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.bin, args...)
	if c.env != nil {
		cmd.Env = c.env
	}
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	out, err := cmd.Output()
	if err == nil {
		return out, nil
	}

	var ee *exec.ExitError
	if errors.As(err, &ee) {
		s := strings.TrimSpace(string(ee.Stderr))
		if s == "" {
			return nil, fmt.Errorf("kubo: %v", err)
		}
		return nil, fmt.Errorf("kubo: %s", s)
	}
	return nil, fmt.Errorf("kubo: %w", err)
}

func isLikelyNotFound(err error) bool {
	if err == nil || errors.Is(err, exec.ErrNotFound) {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "block was not found locally")
}

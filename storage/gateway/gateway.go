// Package gateway reads blocks from IPFS HTTP gateways.
//
// Requests use the trustless gateway form (GET <base><cid>?format=raw with
// Accept: application/vnd.ipld.raw), so every response is a single block that
// can be verified against the requested CID. Gateways are not trusted:
// reachability is not validity, CID verification is.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ipfs/go-cid"

	"github.com/2096779623/xLog/cidutil"
	"github.com/2096779623/xLog/storage"
)

const (
	rawContentType = "application/vnd.ipld.raw"

	// DefaultMaxBlockBytes bounds a single block response.
	DefaultMaxBlockBytes = 4 << 20
)

var ErrBlockTooLarge = errors.New("gateway: block exceeds size limit")

type Options struct {
	// Client is the HTTP client. If nil, a client with Timeout is used.
	Client *http.Client
	// Timeout applies per request when Client is nil. Zero means 15s.
	Timeout time.Duration
	// MaxBlockBytes bounds response bodies. Zero means DefaultMaxBlockBytes.
	MaxBlockBytes int64
	// UserAgent is sent with every request when non-empty.
	UserAgent string
}

// CAS is a read-only storage.CAS backed by one gateway base.
type CAS struct {
	base      string
	client    *http.Client
	maxBytes  int64
	userAgent string
}

var _ storage.CAS = (*CAS)(nil)

// New returns a CAS for base, e.g. "https://ipfs.io/ipfs/".
func New(base string, opts Options) (*CAS, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("gateway: parse base %q: %w", base, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("gateway: base %q must be an absolute http(s) URL", base)
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	maxBytes := opts.MaxBlockBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBlockBytes
	}
	return &CAS{base: base, client: client, maxBytes: maxBytes, userAgent: opts.UserAgent}, nil
}

// Chain builds an ordered fallback over several gateway bases. Any failure on
// one gateway moves on to the next.
func Chain(bases []string, opts Options) (storage.MultiCAS, error) {
	adapters := make([]storage.CAS, 0, len(bases))
	for _, b := range bases {
		c, err := New(b, opts)
		if err != nil {
			return storage.MultiCAS{}, err
		}
		adapters = append(adapters, c)
	}
	return storage.MultiCAS{Adapters: adapters, ContinueOnError: true}, nil
}

// Base returns the gateway base this CAS reads from.
func (c *CAS) Base() string { return c.base }

// BlockURL returns the trustless block URL for id.
func (c *CAS) BlockURL(id cid.Cid) string {
	return c.base + id.String() + "?format=raw"
}

func (c *CAS) Put(context.Context, []byte) (cid.Cid, error) {
	return cid.Undef, storage.ErrReadOnly
}

func (c *CAS) Get(ctx context.Context, id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	resp, err := c.do(ctx, http.MethodGet, id)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("gateway %s: %w", c.base, err)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("gateway %s: read body: %w", c.base, err)
	}
	if int64(len(b)) > c.maxBytes {
		return nil, ErrBlockTooLarge
	}
	if err := cidutil.Verify(id, b); err != nil {
		return nil, storage.ErrCIDMismatch
	}
	return b, nil
}

func (c *CAS) Has(ctx context.Context, id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	resp, err := c.do(ctx, http.MethodHead, id)
	if err != nil {
		return false
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *CAS) do(ctx context.Context, method string, id cid.Cid) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BlockURL(id), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", rawContentType)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.client.Do(req)
}

func checkStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound, http.StatusGone:
		return storage.ErrNotFound
	default:
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}

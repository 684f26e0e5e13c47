package rpc

import (
	"context"
	"time"

	"github.com/ipfs/go-cid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/2096779623/xLog/cidutil"
	"github.com/2096779623/xLog/ipfsurl"
	"github.com/2096779623/xLog/storage"
)

// Client calls a remote Address service. It also implements storage.CAS
// (read-only), so a remote daemon can serve as a block backend.
type Client struct {
	cc     *grpc.ClientConn
	client AddressClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

var _ storage.CAS = (*Client)(nil)

type DialOptions struct {
	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int
}

// Dial creates a client for target. The connection is established lazily.
func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}
	cc, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return NewClient(cc), nil
}

// NewClient wraps an existing connection.
func NewClient(cc *grpc.ClientConn) *Client {
	return &Client{cc: cc, client: NewAddressClient(cc)}
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

func (c *Client) ToGateway(ctx context.Context, s string) (string, error) {
	return c.convert(ctx, c.client.ToGateway, s)
}

func (c *Client) ToIPFS(ctx context.Context, s string) (string, error) {
	return c.convert(ctx, c.client.ToIPFS, s)
}

func (c *Client) ToCID(ctx context.Context, s string) (string, error) {
	return c.convert(ctx, c.client.ToCID, s)
}

func (c *Client) convert(ctx context.Context, call func(context.Context, *wrapperspb.StringValue, ...grpc.CallOption) (*wrapperspb.StringValue, error), s string) (string, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()
	reply, err := call(ctx, wrapperspb.String(s))
	if err != nil {
		return "", mapRPC(err)
	}
	return reply.GetValue(), nil
}

// FetchAddress returns the block named by address, in any form the server
// recognizes. The bytes are not verified; use Get when the CID is known.
func (c *Client) FetchAddress(ctx context.Context, address string) ([]byte, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()
	reply, err := c.client.Fetch(ctx, wrapperspb.String(address))
	if err != nil {
		return nil, mapRPC(err)
	}
	return reply.GetValue(), nil
}

func (c *Client) Put(context.Context, []byte) (cid.Cid, error) {
	return cid.Undef, storage.ErrReadOnly
}

func (c *Client) Get(ctx context.Context, id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	b, err := c.FetchAddress(ctx, ipfsurl.Scheme+id.String())
	if err != nil {
		return nil, err
	}
	if err := cidutil.Verify(id, b); err != nil {
		return nil, storage.ErrCIDMismatch
	}
	return b, nil
}

func (c *Client) Has(ctx context.Context, id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	ctx, cancel := c.ctx(ctx)
	defer cancel()
	reply, err := c.client.Has(ctx, wrapperspb.String(ipfsurl.Scheme+id.String()))
	if err != nil {
		return false
	}
	return reply.GetValue()
}

func (c *Client) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, c.Timeout)
}

package rpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/2096779623/xLog/ipfsurl"
	"github.com/2096779623/xLog/storage"
)

// Server exposes an ipfsurl.Normalizer, and optionally a block store, over
// the Address gRPC service.
type Server struct {
	UnimplementedAddressServer
	Normalizer *ipfsurl.Normalizer
	// CAS serves Fetch and Has. If nil, those methods fail with FailedPrecondition.
	CAS    storage.CAS
	Logger *slog.Logger
}

func (s *Server) ToGateway(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return wrapperspb.String(s.Normalizer.ToGateway(in.GetValue())), nil
}

func (s *Server) ToIPFS(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return wrapperspb.String(s.Normalizer.ToIPFS(in.GetValue())), nil
}

func (s *Server) ToCID(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return wrapperspb.String(s.Normalizer.ToCID(in.GetValue())), nil
}

// Fetch returns the block named by an address in any recognized form.
func (s *Server) Fetch(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if s.CAS == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing CAS")
	}
	addr, err := s.Normalizer.Parse(in.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if addr.Path != "" {
		return nil, status.Errorf(codes.InvalidArgument, "%v: %q", ErrPathUnsupported, in.GetValue())
	}
	b, err := s.CAS.Get(ctx, addr.CID)
	if err != nil {
		if !storage.IsNotFound(err) {
			s.logger().WarnContext(ctx, "fetch failed", slog.String("cid", addr.CID.String()), slog.Any("error", err))
		}
		return nil, mapErr(err)
	}
	return wrapperspb.Bytes(b), nil
}

func (s *Server) Has(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if s.CAS == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing CAS")
	}
	addr, err := s.Normalizer.Parse(in.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return wrapperspb.Bool(s.CAS.Has(ctx, addr.CID)), nil
}

func (s *Server) ready() error {
	if s == nil || s.Normalizer == nil {
		return status.Error(codes.FailedPrecondition, "missing normalizer")
	}
	return nil
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return status.Error(codes.NotFound, storage.ErrNotFound.Error())
	case errors.Is(err, storage.ErrInvalidCID):
		return status.Error(codes.InvalidArgument, storage.ErrInvalidCID.Error())
	case errors.Is(err, storage.ErrCIDMismatch):
		return status.Error(codes.DataLoss, storage.ErrCIDMismatch.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Unavailable, err.Error())
	}
}

package rpc

import (
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/2096779623/xLog/ipfsurl"
	"github.com/2096779623/xLog/storage"
)

// ErrPathUnsupported is returned by Fetch for addresses that carry a path
// after the CID; only whole blocks are served.
var ErrPathUnsupported = errors.New("rpc: address paths are not supported")

func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.NotFound:
		return storage.ErrNotFound
	case codes.DataLoss:
		// Server uses DataLoss when bytes do not match the requested CID.
		return storage.ErrCIDMismatch
	case codes.InvalidArgument:
		// Server uses InvalidArgument for unrecognized addresses and bad CIDs.
		switch msg := st.Message(); {
		case strings.HasPrefix(msg, ipfsurl.ErrNotIPFS.Error()):
			return ipfsurl.ErrNotIPFS
		case strings.HasPrefix(msg, ErrPathUnsupported.Error()):
			return ErrPathUnsupported
		}
		return storage.ErrInvalidCID
	default:
		return err
	}
}

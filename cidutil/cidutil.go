package cidutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

var (
	ErrEmpty    = errors.New("cidutil: empty cid")
	ErrMismatch = errors.New("cidutil: bytes do not match cid")
)

// CIDv1RawSHA256 returns a CIDv1 string using the "raw" multicodec
// and a sha2-256 multihash.
func CIDv1RawSHA256(data []byte) string {
	id, err := CIDv1RawSHA256CID(data)
	if err != nil {
		// multihash.Sum only errors for invalid inputs; with SHA2_256 and -1 length,
		// this should be unreachable.
		return ""
	}
	return id.String()
}

// CIDv1RawSHA256CID returns a CIDv1 (raw + sha2-256) derived from data.
func CIDv1RawSHA256CID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// Decode parses s as a CID of any version or multibase.
func Decode(s string) (cid.Cid, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return cid.Undef, ErrEmpty
	}
	id, err := cid.Decode(s)
	if err != nil {
		return cid.Undef, err
	}
	if !id.Defined() {
		return cid.Undef, ErrEmpty
	}
	return id, nil
}

// Verify recomputes the multihash of data using the hash function and codec
// recorded in id and reports ErrMismatch when they differ.
//
// Blocks fetched from gateways are only trusted after Verify succeeds.
func Verify(id cid.Cid, data []byte) error {
	if !id.Defined() {
		return ErrEmpty
	}
	got, err := id.Prefix().Sum(data)
	if err != nil {
		return fmt.Errorf("cidutil: hash %s: %w", id, err)
	}
	if !got.Equals(id) {
		return ErrMismatch
	}
	return nil
}

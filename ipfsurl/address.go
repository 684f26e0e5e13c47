package ipfsurl

import (
	"fmt"
	"strings"

	"github.com/ipfs/go-cid"

	"github.com/2096779623/xLog/cidutil"
)

// Address is a decoded content address: a CID plus an optional path, query
// or fragment that followed it ("/avatar.png", "?filename=a.png").
type Address struct {
	CID  cid.Cid
	Path string
}

// String renders the canonical ipfs:// form.
func (a Address) String() string {
	if !a.CID.Defined() {
		return ""
	}
	return Scheme + a.CID.String() + a.Path
}

// URL renders the address on the given gateway base.
func (a Address) URL(base string) string {
	if !a.CID.Defined() {
		return ""
	}
	return base + a.CID.String() + a.Path
}

// Parse decodes s, given in canonical or any recognized gateway form.
// Matching is always anchored at the start of s, whatever the Mode.
func (n *Normalizer) Parse(s string) (Address, error) {
	rest, ok := n.trim(s)
	if !ok {
		return Address{}, fmt.Errorf("%w: %q", ErrNotIPFS, s)
	}
	seg, path := rest, ""
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		seg, path = rest[:i], rest[i:]
	}
	id, err := cidutil.Decode(seg)
	if err != nil {
		return Address{}, fmt.Errorf("%w %q: %w", ErrInvalidCID, seg, err)
	}
	return Address{CID: id, Path: path}, nil
}

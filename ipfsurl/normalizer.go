// Package ipfsurl converts between ipfs:// addresses and the HTTP gateway
// URLs that serve the same content.
//
// A Normalizer holds one primary gateway base, used for every URL it renders,
// and a list of known gateway bases it recognizes on input. All methods are
// total functions over strings: they never fail and never panic, and values
// in forms the Normalizer does not recognize pass through unchanged.
package ipfsurl

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Options configures a Normalizer.
type Options struct {
	// Gateway is the primary gateway base, e.g. "https://ipfs.xlog.app/ipfs/".
	// Required. A missing trailing "/" is added.
	Gateway string
	// Gateways lists additional recognized gateway bases. If nil, KnownGateways is used.
	// No base may be a prefix of another.
	Gateways []string
	// Mode selects prefix matching. The zero value is Anchored.
	Mode Mode
}

// Normalizer rewrites content addresses. It is immutable after New and safe
// for concurrent use.
type Normalizer struct {
	primary  string
	prefixes []string // primary first, then known gateways in registration order
	longest  []string // prefixes sorted longest first
	mode     Mode

	toIPFS    *strings.Replacer
	stripGW   *strings.Replacer
	toPrimary *strings.Replacer
}

// New validates opts and builds a Normalizer.
func New(opts Options) (*Normalizer, error) {
	primary, err := checkBase(opts.Gateway)
	if err != nil {
		return nil, err
	}
	switch opts.Mode {
	case Anchored, ReplaceAll:
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidMode, opts.Mode)
	}

	known := opts.Gateways
	if known == nil {
		known = KnownGateways
	}
	prefixes := []string{primary}
	seen := map[string]struct{}{primary: {}}
	for _, g := range known {
		if strings.TrimSpace(g) == "" {
			continue
		}
		base, err := checkBase(g)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[base]; dup {
			continue
		}
		seen[base] = struct{}{}
		prefixes = append(prefixes, base)
	}
	// A base that starts another would be stripped from the other's output,
	// so ToGateway would stop being idempotent.
	for i, a := range prefixes {
		for _, b := range prefixes[i+1:] {
			if strings.HasPrefix(a, b) || strings.HasPrefix(b, a) {
				return nil, fmt.Errorf("%w: %q overlaps %q", ErrInvalidGateway, a, b)
			}
		}
	}

	longest := append([]string(nil), prefixes...)
	// strings.Replacer prefers earlier arguments on a tie at the same position,
	// so longest-first makes the result independent of registration order.
	sort.SliceStable(longest, func(i, j int) bool { return len(longest[i]) > len(longest[j]) })

	toIPFS := make([]string, 0, 2*len(longest))
	strip := make([]string, 0, 2*len(longest))
	for _, p := range longest {
		toIPFS = append(toIPFS, p, Scheme)
		strip = append(strip, p, "")
	}

	return &Normalizer{
		primary:   primary,
		prefixes:  prefixes,
		longest:   longest,
		mode:      opts.Mode,
		toIPFS:    strings.NewReplacer(toIPFS...),
		stripGW:   strings.NewReplacer(strip...),
		toPrimary: strings.NewReplacer(Scheme, primary),
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(opts Options) *Normalizer {
	n, err := New(opts)
	if err != nil {
		panic(err)
	}
	return n
}

func checkBase(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty base", ErrInvalidGateway)
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidGateway, s, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: %q: scheme must be http or https", ErrInvalidGateway, s)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: %q: missing host", ErrInvalidGateway, s)
	}
	if !strings.HasSuffix(s, "/") {
		s += "/"
	}
	return s, nil
}

// Gateway returns the primary gateway base.
func (n *Normalizer) Gateway() string { return n.primary }

// Mode returns the configured matching mode.
func (n *Normalizer) Mode() Mode { return n.mode }

// Prefixes returns the recognized gateway bases, primary first.
func (n *Normalizer) Prefixes() []string {
	return append([]string(nil), n.prefixes...)
}

// ToGateway renders s as a URL on the primary gateway. Values already on any
// recognized gateway are moved to the primary one.
func (n *Normalizer) ToGateway(s string) string {
	c := n.ToIPFS(s)
	if n.mode == ReplaceAll {
		return n.toPrimary.Replace(c)
	}
	if strings.HasPrefix(c, Scheme) {
		return n.primary + c[len(Scheme):]
	}
	return c
}

// ToGatewayURL is ToGateway for URL objects. A nil value yields "".
func (n *Normalizer) ToGatewayURL(u fmt.Stringer) string {
	if u == nil {
		return ""
	}
	if v, ok := u.(*url.URL); ok && v == nil {
		return ""
	}
	return n.ToGateway(u.String())
}

// ToIPFS rewrites every recognized gateway base in s to Scheme.
func (n *Normalizer) ToIPFS(s string) string {
	if n.mode == ReplaceAll {
		return n.toIPFS.Replace(s)
	}
	if p, ok := n.matchGateway(s); ok {
		return Scheme + s[len(p):]
	}
	return s
}

// ToCID strips every recognized prefix from s, leaving the identifier and
// whatever path or query followed it.
func (n *Normalizer) ToCID(s string) string {
	if n.mode == ReplaceAll {
		return strings.ReplaceAll(n.stripGW.Replace(s), Scheme, "")
	}
	rest, _ := n.trim(s)
	return rest
}

// IsIPFS reports whether s starts with Scheme or a recognized gateway base.
func (n *Normalizer) IsIPFS(s string) bool {
	_, ok := n.trim(s)
	return ok
}

func (n *Normalizer) matchGateway(s string) (string, bool) {
	for _, p := range n.longest {
		if strings.HasPrefix(s, p) {
			return p, true
		}
	}
	return "", false
}

// trim removes one leading recognized prefix.
func (n *Normalizer) trim(s string) (string, bool) {
	if p, ok := n.matchGateway(s); ok {
		return s[len(p):], true
	}
	if strings.HasPrefix(s, Scheme) {
		return s[len(Scheme):], true
	}
	return s, false
}

package ipfsurl

import "encoding/base64"

// StylesheetDataURLPrefix is the data: URL header used for embedded site CSS.
const StylesheetDataURLPrefix = "data:text/css;base64,"

// RewriteStylesheet points every ipfs:// or recognized gateway URL in css at
// the primary gateway. A stylesheet holds many URLs, so the rewrite always
// covers the whole text regardless of Mode.
func (n *Normalizer) RewriteStylesheet(css string) string {
	if css == "" {
		return ""
	}
	return n.toPrimary.Replace(n.toIPFS.Replace(css))
}

// StylesheetDataURL returns css, rewritten, as a base64 data: URL suitable for
// a <link rel="stylesheet"> href. Empty css yields "".
func (n *Normalizer) StylesheetDataURL(css string) string {
	if css == "" {
		return ""
	}
	return StylesheetDataURLPrefix + base64.StdEncoding.EncodeToString([]byte(n.RewriteStylesheet(css)))
}

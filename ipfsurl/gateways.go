package ipfsurl

// Scheme is the canonical content-addressing prefix.
const Scheme = "ipfs://"

// KnownGateways lists public gateway bases that serve the same content store.
// Each base, concatenated with a CID, names the same content as Scheme+CID.
//
// No entry is a substring of another; keep it that way when adding gateways.
var KnownGateways = []string{
	"https://gateway.ipfs.io/ipfs/",
	"https://ipfs.io/ipfs/",
	"https://cf-ipfs.com/ipfs/",
	"https://ipfs.4everland.xyz/ipfs/",
	"https://rss3.mypinata.cloud/ipfs/",
}

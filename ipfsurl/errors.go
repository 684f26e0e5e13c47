package ipfsurl

import "errors"

var (
	ErrInvalidGateway = errors.New("ipfsurl: invalid gateway")
	ErrInvalidMode    = errors.New("ipfsurl: invalid mode")
	ErrNotIPFS        = errors.New("ipfsurl: not an ipfs address")
	ErrInvalidCID     = errors.New("ipfsurl: invalid cid")
)

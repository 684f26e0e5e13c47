package ipfsurl

import "fmt"

// Mode selects where a recognized prefix may match.
//
// Anchored only rewrites a prefix at the start of the value, so the identifier
// and any path after it are never touched. ReplaceAll rewrites every occurrence
// anywhere in the value, which is what stylesheet text needs.
type Mode int

const (
	Anchored Mode = iota
	ReplaceAll
)

func (m Mode) String() string {
	switch m {
	case Anchored:
		return "anchored"
	case ReplaceAll:
		return "replace-all"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a configuration value to a Mode. The empty string is Anchored.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "anchored":
		return Anchored, nil
	case "replace-all", "replaceall", "all":
		return ReplaceAll, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

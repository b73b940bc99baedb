package placement

import (
	"strings"

	"github.com/mapforge/mapforge/pkg/errors"
)

// Mode selects the spatial distribution policy used to place tiles.
type Mode int

// The five placement policies. ModeWeighted doubles as the fallback for any
// unrecognized value reaching the dispatcher.
const (
	ModeCenter Mode = iota
	ModeWeighted
	ModeIslands
	ModeDualContinents
	ModeRing
)

// String returns the canonical mode name.
func (m Mode) String() string {
	switch m {
	case ModeCenter:
		return "center"
	case ModeWeighted:
		return "weighted"
	case ModeIslands:
		return "islands"
	case ModeDualContinents:
		return "dual-continents"
	case ModeRing:
		return "ring"
	default:
		return "unknown"
	}
}

// modeAliases maps accepted (lowercased) names to canonical modes. The
// Turkish names are kept for compatibility with the original map service.
var modeAliases = map[string]Mode{
	"center":          ModeCenter,
	"merkez":          ModeCenter,
	"weighted":        ModeWeighted,
	"agirlik":         ModeWeighted,
	"islands":         ModeIslands,
	"island":          ModeIslands,
	"adalar":          ModeIslands,
	"dual-continents": ModeDualContinents,
	"continents":      ModeDualContinents,
	"iki-kita":        ModeDualContinents,
	"ring":            ModeRing,
	"rings":           ModeRing,
	"halka":           ModeRing,
}

// ParseMode resolves a case-insensitive mode name or alias to its canonical
// Mode. Unknown names are an error.
func ParseMode(name string) (Mode, error) {
	m, ok := modeAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidMode, "unsupported mode %q", name)
	}
	return m, nil
}

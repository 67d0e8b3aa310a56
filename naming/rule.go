// Package naming resolves the symmetric counterpart of an entity name from a
// configurable, ordered set of naming rules such as ".L"/".R" suffixes,
// "L_"/"R_" prefixes or "Left"/"Right" infixes.
package naming

import (
	"errors"
	"fmt"
	"strings"

	"quickflip/internal/common"
)

// Mode selects where in a name a rule fragment must appear.
type Mode int

const (
	// ModeSuffix matches fragments at the end of the name.
	ModeSuffix Mode = iota
	// ModePrefix matches fragments at the start of the name.
	ModePrefix
	// ModeInfix matches fragments anywhere; the last occurrence is replaced.
	ModeInfix
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeSuffix:
		return "suffix"
	case ModePrefix:
		return "prefix"
	case ModeInfix:
		return "infix"
	default:
		return common.UnknownStr
	}
}

// ParseMode parses "suffix", "prefix" or "infix".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "suffix", "":
		return ModeSuffix, nil
	case "prefix":
		return ModePrefix, nil
	case "infix":
		return ModeInfix, nil
	default:
		return 0, fmt.Errorf("unknown naming mode %q", s)
	}
}

// Rule pairs two name fragments that mirror each other.
type Rule struct {
	A             string
	B             string
	Mode          Mode
	CaseSensitive bool
}

// String returns e.g. `suffix(".L"<->".R")`.
func (r Rule) String() string {
	return fmt.Sprintf("%s(%q<->%q)", r.Mode, r.A, r.B)
}

// Rules is an ordered rule set; earlier rules win ties.
type Rules []Rule

// DefaultRules returns the conventional left/right naming rules used by
// common rigging tools.
func DefaultRules() Rules {
	return Rules{
		{A: ".L", B: ".R", Mode: ModeSuffix},
		{A: "_L", B: "_R", Mode: ModeSuffix},
		{A: "-L", B: "-R", Mode: ModeSuffix},
		{A: "L_", B: "R_", Mode: ModePrefix},
		{A: "Left", B: "Right", Mode: ModeInfix, CaseSensitive: true},
	}
}

// Validate rejects rules that cannot produce a distinct counterpart.
func (rs Rules) Validate() error {
	var errs []error

	for i, r := range rs {
		switch {
		case r.A == "" || r.B == "":
			errs = append(errs, fmt.Errorf("rule %d: empty fragment", i))
		case r.Mode < ModeSuffix || r.Mode > ModeInfix:
			errs = append(errs, fmt.Errorf("rule %d: unknown mode %d", i, int(r.Mode)))
		case r.equal(r.A, r.B):
			errs = append(errs, fmt.Errorf("rule %d: fragments %q and %q are identical", i, r.A, r.B))
		}
	}

	return errors.Join(errs...)
}

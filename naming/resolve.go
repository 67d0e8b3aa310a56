package naming

import (
	"sort"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"quickflip/internal/common"
)

// Kind classifies a resolution result.
type Kind int

const (
	// KindName means a counterpart name was derived from a rule.
	KindName Kind = iota
	// KindSelfSymmetric means no rule applies; the entity mirrors onto itself.
	KindSelfSymmetric
	// KindUnresolved means a rule applied but the counterpart does not exist.
	KindUnresolved
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindName:
		return "name"
	case KindSelfSymmetric:
		return "self_symmetric"
	case KindUnresolved:
		return "unresolved"
	default:
		return common.UnknownStr
	}
}

// Counterpart is the result of resolving one name.
type Counterpart struct {
	Kind Kind
	// Name is the derived counterpart name. For KindUnresolved it is the name
	// that was looked for and not found.
	Name string
	// Rule is the index of the rule that produced Name, or -1.
	Rule int
	// Ambiguous is set when several rule fragments matched with different
	// results; Alternatives lists the names that lost the tie-break.
	Ambiguous    bool
	Alternatives []string
}

// match is one structural occurrence of a rule fragment inside a name.
type match struct {
	rule       int
	sideB      bool
	start, end int // rune offsets
	fragLen    int // rune length of the matched fragment
	result     string
}

// Resolve derives the counterpart of name from rules.
//
// Every rule is tested on both fragments. A single match is authoritative.
// When several matches disagree the longest fragment wins, then the earlier
// rule, then fragment A; the result is flagged Ambiguous. A name that
// matches nothing is its own mirror.
func Resolve(name string, rules Rules) Counterpart {
	matches := findMatches(name, rules)
	if len(matches) == 0 {
		return Counterpart{Kind: KindSelfSymmetric, Name: name, Rule: -1}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].fragLen != matches[j].fragLen {
			return matches[i].fragLen > matches[j].fragLen
		}

		if matches[i].rule != matches[j].rule {
			return matches[i].rule < matches[j].rule
		}

		return !matches[i].sideB && matches[j].sideB
	})

	best := matches[0]
	out := Counterpart{Kind: KindName, Name: best.result, Rule: best.rule}

	for _, m := range matches[1:] {
		if m.result != best.result {
			out.Ambiguous = true
			out.Alternatives = append(out.Alternatives, m.result)
		}
	}

	out.Alternatives = common.Dedupe(out.Alternatives)

	if out.Name == name {
		out.Kind = KindSelfSymmetric
	}

	return out
}

// Resolver binds a rule set to name lookups within one namespace.
type Resolver struct {
	rules Rules
}

// NewResolver creates a Resolver for rules.
func NewResolver(rules Rules) *Resolver {
	return &Resolver{rules: rules}
}

// Rules returns the configured rule set.
func (r *Resolver) Rules() Rules {
	return r.rules
}

// Lookup resolves name and checks the counterpart against known. A derived
// name that known rejects becomes KindUnresolved.
func (r *Resolver) Lookup(name string, known func(string) bool) Counterpart {
	c := Resolve(name, r.rules)
	if c.Kind == KindName && known != nil && !known(c.Name) {
		c.Kind = KindUnresolved
	}

	return c
}

func findMatches(name string, rules Rules) []match {
	runes := []rune(name)

	var out []match

	for i, rule := range rules {
		for _, sideB := range []bool{false, true} {
			from, to := rule.A, rule.B
			if sideB {
				from, to = rule.B, rule.A
			}

			start, ok := rule.locate(runes, from)
			if !ok {
				continue
			}

			end := start + utf8.RuneCountInString(from)
			replacement := rule.shape(string(runes[start:end]), to)

			out = append(out, match{
				rule:    i,
				sideB:   sideB,
				start:   start,
				end:     end,
				fragLen: end - start,
				result:  string(runes[:start]) + replacement + string(runes[end:]),
			})
		}
	}

	return out
}

// locate returns the rune offset of frag in name according to the rule mode.
// Infix looks for the last occurrence.
func (r Rule) locate(name []rune, frag string) (int, bool) {
	n := utf8.RuneCountInString(frag)
	if n == 0 || n > len(name) {
		return 0, false
	}

	switch r.Mode {
	case ModeSuffix:
		start := len(name) - n
		return start, start > 0 && r.equal(string(name[start:]), frag)
	case ModePrefix:
		return 0, n < len(name) && r.equal(string(name[:n]), frag)
	case ModeInfix:
		for start := len(name) - n; start >= 0; start-- {
			if r.equal(string(name[start:start+n]), frag) {
				return start, true
			}
		}
	}

	return 0, false
}

func (r Rule) equal(a, b string) bool {
	if r.CaseSensitive {
		return a == b
	}

	fold := cases.Fold()

	return fold.String(a) == fold.String(b)
}

// shape returns the replacement fragment. Case-insensitive rules follow the
// case of the matched text when it is all lower or all upper.
func (r Rule) shape(matched, replacement string) string {
	if r.CaseSensitive {
		return replacement
	}

	lower := cases.Lower(language.Und).String(matched)
	upper := cases.Upper(language.Und).String(matched)

	switch {
	case matched == lower && matched != upper:
		return cases.Lower(language.Und).String(replacement)
	case matched == upper && matched != lower:
		return cases.Upper(language.Und).String(replacement)
	default:
		return replacement
	}
}

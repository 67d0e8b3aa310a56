package diagnostic

import (
	"fmt"
	"strings"

	"quickflip/internal/common"
)

// Codes for diagnostics raised while collecting, planning and applying.
const (
	CodeNoCounterpart     = "no_counterpart"
	CodeAmbiguousName     = "ambiguous_name"
	CodeEntityStale       = "entity_stale"
	CodeEmptyScope        = "empty_scope"
	CodeInvalidAxis       = "invalid_axis"
	CodeCollectionCycle   = "collection_cycle"
	CodeEntitySkipped     = "entity_skipped"
	CodeUnknownCollection = "unknown_collection"
	CodeDuplicateTarget   = "duplicate_target"
)

// Diagnostics holds the non-fatal findings of one operation. Fatal failures
// are returned as errors instead.
type Diagnostics struct {
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Namespace is the armature or scene the entity lives in (if any).
	Namespace string
	// Entity is the name of the bone or object this relates to (if any).
	Entity string
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	default:
		return common.UnknownStr
	}
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, namespace, entity string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity:  DiagnosticWarning,
		Code:      code,
		Message:   message,
		Namespace: namespace,
		Entity:    entity,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, namespace, entity string) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity:  DiagnosticInfo,
		Code:      code,
		Message:   message,
		Namespace: namespace,
		Entity:    entity,
	})
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// WarningStrings returns every warning formatted for display, in the order
// they were raised.
func (d *Diagnostics) WarningStrings() []string {
	out := make([]string, 0, len(d.Warnings))
	for _, w := range d.Warnings {
		out = append(out, w.String())
	}

	return out
}

// CountCode returns how many diagnostics of any severity carry code.
func (d *Diagnostics) CountCode(code string) int {
	n := 0

	for _, list := range [][]Diagnostic{d.Warnings, d.Infos} {
		for _, diag := range list {
			if diag.Code == code {
				n++
			}
		}
	}

	return n
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Namespace != "" {
		prefix = append(prefix, "["+d.Namespace+"]")
	}

	if d.Entity != "" {
		prefix = append(prefix, d.Entity)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}

// Package diag implements the diagnostic sink: an append-only, never-panics
// collector of labeled analyzer findings, modeled on the way build/fmterr
// accumulates and later formats a batch of build errors, but carrying the
// richer (rule id, severity, secondary labels, fix hint) shape the WDL
// analyzer's diagnostics need.
package diag

import (
	"sort"

	"github.com/gowdl/wdlsem/internal/span"
)

// Severity classifies a diagnostic.
type Severity uint8

const (
	Error Severity = iota
	Warning
	Note
	// Off is not a severity any pass ever reports; it is the sentinel a
	// caller's per-rule DiagnosticConfig maps a rule_id to in order to
	// drop it entirely during remapping, rather than downgrade it.
	Off
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	case Off:
		return "off"
	default:
		return "unknown"
	}
}

// Label attaches a message to a span; a Diagnostic has exactly one primary
// label and zero or more secondary ones (e.g. "first defined here").
type Label struct {
	Span    span.Span
	Message string
}

// Diagnostic is one analyzer finding. RuleID is the stable identifier
// referenced by §7 of the design (e.g. "TypeMismatch"); exact wording of
// Primary.Message is not a stable contract.
type Diagnostic struct {
	Severity  Severity
	RuleID    string
	Primary   Label
	Secondary []Label
	Fix       string // optional "fix:" suggestion, empty if none
}

// Sink accumulates diagnostics for one document. It never rejects a
// diagnostic and is not safe for concurrent writers; each document's body
// pass owns its own Sink per the single-writer discipline in §5.
type Sink struct {
	diags []Diagnostic
}

// NewSink returns an empty sink.
func NewSink() *Sink {
	return &Sink{}
}

// Report appends a diagnostic, insertion order preserved until Finalize.
func (s *Sink) Report(d Diagnostic) {
	s.diags = append(s.diags, d)
}

// Errorf is a convenience for the common case of a single-span error with
// no secondary labels or fix hint.
func (s *Sink) Errorf(ruleID string, sp span.Span, message string) {
	s.Report(Diagnostic{Severity: Error, RuleID: ruleID, Primary: Label{Span: sp, Message: message}})
}

// Warnf mirrors Errorf for warnings.
func (s *Sink) Warnf(ruleID string, sp span.Span, message string) {
	s.Report(Diagnostic{Severity: Warning, RuleID: ruleID, Primary: Label{Span: sp, Message: message}})
}

// HasErrors reports whether any Error-severity diagnostic was reported.
func (s *Sink) HasErrors() bool {
	for _, d := range s.diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Len returns the number of diagnostics reported so far.
func (s *Sink) Len() int { return len(s.diags) }

// Finalize returns the diagnostics sorted by primary span start, breaking
// ties by original insertion order (Go's sort.SliceStable preserves that).
// Two analyses of identical source produce a byte-identical sequence
// because the passes that populate the sink run deterministically and this
// sort is stable.
func (s *Sink) Finalize() []Diagnostic {
	out := make([]Diagnostic, len(s.diags))
	copy(out, s.diags)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Primary.Span.URI != out[j].Primary.Span.URI {
			return out[i].Primary.Span.URI < out[j].Primary.Span.URI
		}
		return out[i].Primary.Span.Start < out[j].Primary.Span.Start
	})
	return out
}

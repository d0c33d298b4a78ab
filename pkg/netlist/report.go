package netlist

import "fmt"

// WarningKind classifies a non-fatal extraction problem.
type WarningKind string

const (
	WarnNotHit          WarningKind = "NOT_HIT"
	WarnTerminalCount   WarningKind = "TERMINAL_COUNT"
	WarnSegmentMismatch WarningKind = "SEGMENT_MISMATCH"
	WarnNoChannel       WarningKind = "NO_CHANNEL"
	WarnNoGate          WarningKind = "NO_GATE"
	WarnUnterminated    WarningKind = "UNTERMINATED_POLYGON"
)

// Warning is one recoverable problem. Subject names the offending shape,
// e.g. "via 12" or "t345".
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Subject string      `json:"subject"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s: %s", w.Kind, w.Subject, w.Message)
}

// Report collects warnings across stages. The zero value is ready to use.
type Report struct {
	Warnings []Warning
}

// Warn records a warning.
func (r *Report) Warn(kind WarningKind, subject, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{
		Kind:    kind,
		Subject: subject,
		Message: fmt.Sprintf(format, args...),
	})
}

// Count returns how many warnings of kind were recorded.
func (r *Report) Count(kind WarningKind) int {
	n := 0
	for _, w := range r.Warnings {
		if w.Kind == kind {
			n++
		}
	}
	return n
}

// Merge appends the warnings of o.
func (r *Report) Merge(o *Report) {
	if o != nil {
		r.Warnings = append(r.Warnings, o.Warnings...)
	}
}

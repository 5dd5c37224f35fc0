package detect

import (
	"fmt"
	"strings"
	"sync/atomic"
)

const (
	// MaxLayers bounds the layer ids the transition table can track.
	MaxLayers = 100
	// MaxDepth bounds the number of layers a single goroutine may hold at once.
	MaxDepth = 16
)

var throwOnViolation atomic.Bool

// PanicOnViolation selects how violations are surfaced: when set, the detector
// panics with a *ViolationError instead of terminating the process. The report
// is written to stderr either way.
func PanicOnViolation(v bool) {
	throwOnViolation.Store(v)
}

// Kind classifies a detector violation.
type Kind int

const (
	// KindInversion means two layers were acquired in both orders.
	KindInversion Kind = iota
	// KindRecursion means a layer was acquired twice by one goroutine.
	KindRecursion
	// KindOverflow means a goroutine exceeded MaxDepth held layers.
	KindOverflow
	// KindUnderflow means a release with no matching acquisition.
	KindUnderflow
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindInversion:
		return "lock-order inversion"
	case KindRecursion:
		return "recursion on layer"
	case KindOverflow:
		return "trace depth overflow"
	case KindUnderflow:
		return "release without acquisition"
	default:
		return "unknown violation"
	}
}

// Frame is one held acquisition in a goroutine's trace.
type Frame struct {
	LayerID   uint32
	LayerName string
	// Site is the file:line of the acquiring call, empty when unavailable.
	Site string
}

// ViolationError describes a detected lock discipline violation. It is the
// panic value when PanicOnViolation is set.
type ViolationError struct {
	ReportID  string
	Kind      Kind
	Layer     string
	Goroutine int64
	// Trace is the offending goroutine's trace, bottom to top, including the
	// acquisition that triggered the violation where one was recorded.
	Trace []Frame
}

// Error implements the error interface.
func (e *ViolationError) Error() string {
	return fmt.Sprintf("strata: %s %q (goroutine %d, report %s)", e.Kind, e.Layer, e.Goroutine, e.ReportID)
}

// Dump renders the full report, one trace frame per line, bottom to top.
func (e *ViolationError) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "strata: %s detected on layer %q (report %s)\n", e.Kind, e.Layer, e.ReportID)
	fmt.Fprintf(&b, "goroutine %d lock trace (bottom to top):\n", e.Goroutine)
	if len(e.Trace) == 0 {
		b.WriteString("  (empty)\n")
		return b.String()
	}
	for i, f := range e.Trace {
		if f.Site != "" {
			fmt.Fprintf(&b, "  %d: layer %q (id %d) acquired at %s\n", i, f.LayerName, f.LayerID, f.Site)
		} else {
			fmt.Fprintf(&b, "  %d: layer %q (id %d)\n", i, f.LayerName, f.LayerID)
		}
	}
	return b.String()
}

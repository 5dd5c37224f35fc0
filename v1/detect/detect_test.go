package detect

import (
	"strings"
	"testing"
)

func TestViolationErrorDump(t *testing.T) {
	ve := &ViolationError{
		ReportID:  "r-1",
		Kind:      KindInversion,
		Layer:     "orders",
		Goroutine: 42,
		Trace: []Frame{
			{LayerID: 0, LayerName: "users", Site: "main.go:17"},
			{LayerID: 1, LayerName: "orders", Site: "main.go:21"},
		},
	}
	dump := ve.Dump()
	for _, want := range []string{"lock-order inversion", "orders", "goroutine 42", "main.go:17", "main.go:21"} {
		if !strings.Contains(dump, want) {
			t.Fatalf("dump missing %q:\n%s", want, dump)
		}
	}
}

func TestViolationErrorEmptyTrace(t *testing.T) {
	ve := &ViolationError{ReportID: "r-2", Kind: KindUnderflow, Goroutine: 7}
	if !strings.Contains(ve.Dump(), "(empty)") {
		t.Fatalf("empty trace should render as (empty):\n%s", ve.Dump())
	}
}

func TestKindStrings(t *testing.T) {
	kinds := map[Kind]string{
		KindInversion: "lock-order inversion",
		KindRecursion: "recursion on layer",
		KindOverflow:  "trace depth overflow",
		KindUnderflow: "release without acquisition",
	}
	for k, want := range kinds {
		if k.String() != want {
			t.Fatalf("kind %d: got %q want %q", k, k.String(), want)
		}
	}
}

// Package detect implements an optional cross-goroutine lock discipline
// detector for strata layers. It keeps a bounded per-goroutine trace of held
// layers and a process-wide table recording the first observed acquisition
// direction for every layer pair. Acquiring two layers in both orders over the
// lifetime of the process, re-acquiring a layer already held by the same
// goroutine, or overflowing the trace is reported as a violation.
//
// The detector is compiled in only when the "deadlock" build tag is set; in
// regular builds every hook is a no-op and the calls are elided. Violations
// print a structured report to stderr and terminate the process, or panic with
// a *ViolationError after PanicOnViolation(true).
package detect

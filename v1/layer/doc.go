// Package layer provides fine-grained, address-keyed locking for data that is
// identified by pointer rather than by a mutex of its own. A layer owns a
// fixed pool of mutexes; acquiring a handle maps it onto pool slots, so two
// acquisitions with the same handle on the same layer exclude each other
// without the target carrying any state.
//
// Symmetric layers expose a single acquisition mode. Asymmetric layers split
// reads from writes: a reader takes one of P slots per handle, picked by
// goroutine identity, while a writer takes all P, which keeps uncontended
// readers nearly independent of each other. Multi-target acquisitions sort
// their slot indices and deduplicate them before locking, so overlapping
// batches on one layer cannot deadlock.
//
// Every acquisition returns a guard that must be released by the caller,
// typically with defer. Cross-layer ordering is not arbitrated here; build
// with the "deadlock" tag to let the detect package flag inversions.
package layer

package layer

import "unsafe"

// Handle is the stable integer identity of a lock target. Within one layer,
// acquisitions with equal handles contend on the same pool slots. Handles that
// inherit raw-memory alignment also inherit cache-line grouping: addresses in
// one cache line collapse onto one bucket.
type Handle uintptr

// HandleOf derives the handle for an object from its address. The handle does
// not keep the object alive; the caller holds the object for at least as long
// as any guard acquired on it.
func HandleOf[T any](p *T) Handle {
	return Handle(uintptr(unsafe.Pointer(p)))
}

//go:build deadlock

package detect

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/petermattis/goid"

	sterrors "github.com/mirkobrombin/go-strata/v1/errors"
	"github.com/mirkobrombin/go-strata/v1/metrics"
)

// Enabled is true if the detector build is active.
const Enabled = true

// cell is one transition table entry, padded to a cache line so unrelated
// layer pairs never share one.
type cell struct {
	dir atomic.Uint32
	_   [60]byte
}

// transitions records, per unordered layer pair, the first acquisition
// direction observed: 0 unseen, 1 higher-id-first, 2 lower-id-first.
var transitions [MaxLayers * MaxLayers]cell

// gtrace is the bounded stack of layers held by one goroutine. Only the owning
// goroutine touches frames and top; the shard lock covers map membership only.
type gtrace struct {
	frames [MaxDepth]Frame
	top    int
}

const traceShards = 64

var traces [traceShards]struct {
	mu sync.Mutex
	m  map[int64]*gtrace
}

func init() {
	for i := range traces {
		traces[i].m = make(map[int64]*gtrace)
	}
}

func traceFor(gid int64, create bool) *gtrace {
	s := &traces[uint64(gid)%traceShards]
	s.mu.Lock()
	tr, ok := s.m[gid]
	if !ok && create {
		tr = &gtrace{}
		s.m[gid] = tr
	}
	s.mu.Unlock()
	return tr
}

func dropTrace(gid int64) {
	s := &traces[uint64(gid)%traceShards]
	s.mu.Lock()
	delete(s.m, gid)
	s.mu.Unlock()
}

// RegisterLayer records a new layer with the detector. Ids at or beyond
// MaxLayers cannot be tracked and are a configuration violation.
func RegisterLayer(id uint32, name string) {
	if id >= MaxLayers {
		panic(fmt.Errorf("strata: layer %q: %w (%d >= %d)", name, sterrors.ErrTooManyLayers, id, MaxLayers))
	}
}

// OnAcquire records one acquisition on the calling goroutine's trace and
// checks the layer pair formed with the previously held layer.
func OnAcquire(id uint32, name, site string) {
	gid := goid.Get()
	tr := traceFor(gid, true)
	if tr.top >= MaxDepth {
		report(KindOverflow, name, gid, tr)
		return
	}
	tr.frames[tr.top] = Frame{LayerID: id, LayerName: name, Site: site}
	tr.top++
	if tr.top < 2 {
		return
	}
	prev := tr.frames[tr.top-2].LayerID
	if prev == id {
		// Sequential single acquires on one layer have no ordering guarantee
		// across addresses, so same-layer reacquisition is always flagged.
		report(KindRecursion, name, gid, tr)
		return
	}
	lo, hi := prev, id
	var dir uint32 = 2
	if prev > id {
		lo, hi = id, prev
		dir = 1
	}
	if was := transitions[int(lo)*MaxLayers+int(hi)].dir.Swap(dir); was != 0 && was != dir {
		report(KindInversion, name, gid, tr)
	}
}

// OnRelease pops one acquisition from the calling goroutine's trace.
func OnRelease() {
	gid := goid.Get()
	tr := traceFor(gid, false)
	if tr == nil || tr.top == 0 {
		report(KindUnderflow, "", gid, tr)
		return
	}
	tr.top--
	if tr.top == 0 {
		dropTrace(gid)
	}
}

func report(kind Kind, layer string, gid int64, tr *gtrace) {
	err := &ViolationError{
		ReportID:  uuid.NewString(),
		Kind:      kind,
		Layer:     layer,
		Goroutine: gid,
	}
	if tr != nil {
		err.Trace = append(err.Trace, tr.frames[:tr.top]...)
	}
	metrics.ViolationCounter.Inc()
	fmt.Fprint(os.Stderr, err.Dump())
	if throwOnViolation.Load() {
		panic(err)
	}
	os.Exit(2)
}

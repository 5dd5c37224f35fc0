package layer

import (
	"github.com/mirkobrombin/go-strata/v1/detect"
	sterrors "github.com/mirkobrombin/go-strata/v1/errors"
)

// A Guard owns one held pool slot. Guards are single-owner: the first Release
// unlocks, every later call is a no-op. Use Transfer or Adopt to hand the slot
// to another guard.
type Guard struct {
	core *layerCore
	ix   uint64
	owns bool
}

// Release unlocks the held slot. Releasing an already released or
// transferred-from guard does nothing.
func (g *Guard) Release() {
	if g == nil || !g.owns {
		return
	}
	g.owns = false
	g.core.pool.unlock(g.ix)
	detect.OnRelease()
}

// Transfer moves ownership out of g: the returned guard owns the slot and g is
// left released-without-unlocking. Transferring a non-owning guard returns nil.
func (g *Guard) Transfer() *Guard {
	if g == nil || !g.owns {
		return nil
	}
	g.owns = false
	return &Guard{core: g.core, ix: g.ix, owns: true}
}

// Adopt replaces g's holding with src's, releasing whatever g held first.
// Guards on different pools refuse the transfer with ErrCrossPool.
func (g *Guard) Adopt(src *Guard) error {
	if g.core.pool != src.core.pool {
		return sterrors.ErrCrossPool
	}
	if g.owns {
		g.owns = false
		g.core.pool.unlock(g.ix)
		detect.OnRelease()
	}
	g.ix = src.ix
	g.owns = src.owns
	src.owns = false
	return nil
}

// A BatchGuard owns a sorted set of distinct pool slots acquired as one
// deadlock-free step.
type BatchGuard struct {
	core *layerCore
	ixs  []uint64
	owns bool
}

// Release unlocks all held slots in reverse acquisition order. Releasing an
// already released guard does nothing.
func (g *BatchGuard) Release() {
	if g == nil || !g.owns {
		return
	}
	g.owns = false
	for i := len(g.ixs) - 1; i >= 0; i-- {
		g.core.pool.unlock(g.ixs[i])
	}
	detect.OnRelease()
}

// Transfer moves ownership out of g, leaving g released-without-unlocking.
// Transferring a non-owning guard returns nil.
func (g *BatchGuard) Transfer() *BatchGuard {
	if g == nil || !g.owns {
		return nil
	}
	g.owns = false
	return &BatchGuard{core: g.core, ixs: g.ixs, owns: true}
}

// Len reports the number of distinct slots the guard acquired.
func (g *BatchGuard) Len() int { return len(g.ixs) }

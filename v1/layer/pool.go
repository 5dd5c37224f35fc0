package layer

import (
	"fmt"
	"sync"

	sterrors "github.com/mirkobrombin/go-strata/v1/errors"
)

// lockPool is a fixed array of mutexes addressed by masked index. It never
// allocates after construction.
type lockPool struct {
	mask uint64
	mus  []sync.Mutex
}

func newLockPool(n int) *lockPool {
	if n <= 0 || n&(n-1) != 0 {
		panic(fmt.Errorf("strata: pool size %d: %w", n, sterrors.ErrNotPowerOfTwo))
	}
	return &lockPool{mask: uint64(n - 1), mus: make([]sync.Mutex, n)}
}

func (p *lockPool) lock(ix uint64)   { p.mus[ix&p.mask].Lock() }
func (p *lockPool) unlock(ix uint64) { p.mus[ix&p.mask].Unlock() }

func (p *lockPool) tryLock(ix uint64) bool { return p.mus[ix&p.mask].TryLock() }

package layer

import "testing"

func TestSimpleKeyCacheLineGrouping(t *testing.T) {
	base := Handle(0x1000)
	if simpleKey(base) != simpleKey(base+63) {
		t.Fatalf("handles within one cache line should share a key")
	}
	if simpleKey(base) == simpleKey(base+64) {
		t.Fatalf("handles one cache line apart should not share a key")
	}
}

func TestSimpleKey2IgnoresBias(t *testing.T) {
	h := Handle(0x2040)
	for b := uint64(0); b < 8; b++ {
		if simpleKey2(h, b) != simpleKey(h) {
			t.Fatalf("bias %d changed the symmetric key", b)
		}
	}
}

func TestBiasedKey2CoversAllSlots(t *testing.T) {
	const p = 8
	h := Handle(0x4000)
	seen := make(map[uint64]bool)
	for b := uint64(0); b < p; b++ {
		k := biasedKey2(h, b, p)
		if k < simpleKey(h) || k >= simpleKey(h)+p {
			t.Fatalf("bias %d produced key %d outside [%d, %d)", b, k, simpleKey(h), simpleKey(h)+p)
		}
		seen[k] = true
	}
	if len(seen) != p {
		t.Fatalf("expected %d distinct slots, got %d", p, len(seen))
	}
}

func TestBiasedKeyStablePerGoroutine(t *testing.T) {
	const p = 8
	h := Handle(0x8000)
	first := biasedKey(h, p)
	for i := 0; i < 100; i++ {
		if k := biasedKey(h, p); k != first {
			t.Fatalf("read bias changed within one goroutine: %d then %d", first, k)
		}
	}
	if d := first - simpleKey(h); d >= p {
		t.Fatalf("bias %d out of range", d)
	}
}

func TestBatchGuardSlotSetSortedUnique(t *testing.T) {
	l := NewSymmetric("hash-batch", WithPoolSize(16))
	a, b, c := Handle(0x40), Handle(0x80), Handle(0x40+16*64)
	// a and c collide after masking with the pool size.
	g := l.SynchronizeAll(a, b, c)
	defer g.Release()
	if g.Len() != 2 {
		t.Fatalf("expected 2 distinct slots after dedup, got %d", g.Len())
	}
	for i := 1; i < len(g.ixs); i++ {
		if g.ixs[i-1] >= g.ixs[i] {
			t.Fatalf("slots not in ascending order: %v", g.ixs)
		}
	}
}

func TestWriteLockSlotCount(t *testing.T) {
	l := NewAsymmetric("hash-write", WithPoolSize(64), WithParallelism(4))
	h := Handle(0x40 << cacheLineBits)
	g := l.WriteLock(h)
	defer g.Release()
	if g.Len() != 4 {
		t.Fatalf("expected 4 slots for one handle at P=4, got %d", g.Len())
	}
}

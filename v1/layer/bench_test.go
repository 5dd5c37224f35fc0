package layer

import "testing"

func BenchmarkSynchronize(b *testing.B) {
	l := NewSymmetric("bench-sym")
	var x padded
	h := HandleOf(&x)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g := l.Synchronize(h)
		g.Release()
	}
}

func BenchmarkReadLock(b *testing.B) {
	l := NewAsymmetric("bench-read")
	var x padded
	h := HandleOf(&x)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g := l.ReadLock(h)
		g.Release()
	}
}

func BenchmarkWriteLock(b *testing.B) {
	l := NewAsymmetric("bench-write")
	var x padded
	h := HandleOf(&x)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g := l.WriteLock(h)
		g.Release()
	}
}

func BenchmarkReadLockParallel(b *testing.B) {
	l := NewAsymmetric("bench-read-parallel")
	var x padded
	h := HandleOf(&x)
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			g := l.ReadLock(h)
			g.Release()
		}
	})
}

func BenchmarkSynchronizeAll(b *testing.B) {
	l := NewSymmetric("bench-sym-batch")
	var ts [3]padded
	ha, hb, hc := HandleOf(&ts[0]), HandleOf(&ts[1]), HandleOf(&ts[2])
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g := l.SynchronizeAll(ha, hb, hc)
		g.Release()
	}
}

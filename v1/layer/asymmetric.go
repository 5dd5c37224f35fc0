package layer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	sterrors "github.com/mirkobrombin/go-strata/v1/errors"
	"github.com/mirkobrombin/go-strata/v1/metrics"
)

// AsymmetricLayer trades extra writer work for near-independent reader fast
// paths: a reader occupies one of P slots per handle, chosen by goroutine
// identity, while a writer occupies all P. Readers pay one mutex, writers pay
// P, and reader-reader parallelism on one handle approaches P-way.
type AsymmetricLayer struct {
	core layerCore
	p    uint64
}

// NewAsymmetric constructs an asymmetric layer. The name is used in
// diagnostics only. NewAsymmetric panics if the pool size or parallelism
// option is not a power of two.
func NewAsymmetric(name string, opts ...Option) *AsymmetricLayer {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.parallelism <= 0 || cfg.parallelism&(cfg.parallelism-1) != 0 {
		panic(fmt.Errorf("strata: parallelism %d: %w", cfg.parallelism, sterrors.ErrNotPowerOfTwo))
	}
	return &AsymmetricLayer{core: newLayerCore(name, &cfg), p: uint64(cfg.parallelism)}
}

// Name returns the layer's diagnostic name.
func (l *AsymmetricLayer) Name() string { return l.core.name }

// Parallelism returns the layer's read-side parallelism.
func (l *AsymmetricLayer) Parallelism() int { return int(l.p) }

// ReadLock acquires the calling goroutine's read slot for h.
func (l *AsymmetricLayer) ReadLock(h Handle) *Guard {
	metrics.ReadLockCounter.Inc()
	return l.core.acquireOne(biasedKey(h, l.p), site())
}

// ReadLockCtx is ReadLock with span emission when tracing is enabled.
func (l *AsymmetricLayer) ReadLockCtx(ctx context.Context, h Handle) *Guard {
	if l.core.traceEnabled {
		_, span := tracer.Start(ctx, "Layer.ReadLock", trace.WithAttributes(
			attribute.String("strata.layer", l.core.name),
			attribute.Int("strata.targets", 1),
		))
		defer span.End()
	}
	metrics.ReadLockCounter.Inc()
	return l.core.acquireOne(biasedKey(h, l.p), site())
}

// WriteLock acquires every read slot of every handle, excluding all readers
// of those handles on any goroutine. The slot set is sorted, deduplicated and
// locked in ascending order, so overlapping writers cannot deadlock.
func (l *AsymmetricLayer) WriteLock(hs ...Handle) *BatchGuard {
	metrics.WriteLockCounter.Inc()
	return l.core.acquireBatch(l.writeKeys(hs), site())
}

// WriteLockCtx is WriteLock with span emission when tracing is enabled.
func (l *AsymmetricLayer) WriteLockCtx(ctx context.Context, hs ...Handle) *BatchGuard {
	var span trace.Span
	if l.core.traceEnabled {
		_, span = tracer.Start(ctx, "Layer.WriteLock", trace.WithAttributes(
			attribute.String("strata.layer", l.core.name),
			attribute.Int("strata.targets", len(hs)),
		))
		defer span.End()
	}
	metrics.WriteLockCounter.Inc()
	g := l.core.acquireBatch(l.writeKeys(hs), site())
	if span != nil {
		span.SetAttributes(attribute.Int("strata.slots", g.Len()))
	}
	return g
}

// TryReadLock attempts the read acquisition without blocking. It reports
// whether the guard was obtained.
func (l *AsymmetricLayer) TryReadLock(h Handle) (*Guard, bool) {
	g, ok := l.core.tryAcquireOne(biasedKey(h, l.p), site())
	if ok {
		metrics.ReadLockCounter.Inc()
	}
	return g, ok
}

// TryWriteLock attempts the write acquisition without blocking. On a busy slot
// the already-held prefix is released in reverse and the call reports failure.
func (l *AsymmetricLayer) TryWriteLock(hs ...Handle) (*BatchGuard, bool) {
	g, ok := l.core.tryAcquireBatch(l.writeKeys(hs), site())
	if ok {
		metrics.WriteLockCounter.Inc()
	}
	return g, ok
}

func (l *AsymmetricLayer) writeKeys(hs []Handle) []uint64 {
	ixs := make([]uint64, 0, uint64(len(hs))*l.p)
	for _, h := range hs {
		for b := uint64(0); b < l.p; b++ {
			ixs = append(ixs, biasedKey2(h, b, l.p))
		}
	}
	return ixs
}

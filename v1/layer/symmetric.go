package layer

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mirkobrombin/go-strata/v1/metrics"
)

// SymmetricLayer is a named pool of mutexes with a single acquisition mode.
// Construct with NewSymmetric; the zero value is not usable.
type SymmetricLayer struct {
	core layerCore
}

// NewSymmetric constructs a symmetric layer. The name is used in diagnostics
// only. NewSymmetric panics if the pool size option is not a power of two.
func NewSymmetric(name string, opts ...Option) *SymmetricLayer {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &SymmetricLayer{core: newLayerCore(name, &cfg)}
}

// Name returns the layer's diagnostic name.
func (l *SymmetricLayer) Name() string { return l.core.name }

// Synchronize acquires the slot for h and returns the owning guard.
func (l *SymmetricLayer) Synchronize(h Handle) *Guard {
	metrics.SynchronizeCounter.Inc()
	return l.core.acquireOne(simpleKey(h), site())
}

// SynchronizeCtx is Synchronize with span emission when tracing is enabled.
func (l *SymmetricLayer) SynchronizeCtx(ctx context.Context, h Handle) *Guard {
	if l.core.traceEnabled {
		_, span := tracer.Start(ctx, "Layer.Synchronize", trace.WithAttributes(
			attribute.String("strata.layer", l.core.name),
			attribute.Int("strata.targets", 1),
		))
		defer span.End()
	}
	metrics.SynchronizeCounter.Inc()
	return l.core.acquireOne(simpleKey(h), site())
}

// SynchronizeAll acquires the slots for every handle as one deadlock-free
// step: the derived indices are sorted, deduplicated and locked in ascending
// order.
func (l *SymmetricLayer) SynchronizeAll(hs ...Handle) *BatchGuard {
	metrics.SynchronizeCounter.Inc()
	ixs := make([]uint64, len(hs))
	for i, h := range hs {
		ixs[i] = simpleKey2(h, 0)
	}
	return l.core.acquireBatch(ixs, site())
}

// SynchronizeAllCtx is SynchronizeAll with span emission when tracing is
// enabled.
func (l *SymmetricLayer) SynchronizeAllCtx(ctx context.Context, hs ...Handle) *BatchGuard {
	var span trace.Span
	if l.core.traceEnabled {
		_, span = tracer.Start(ctx, "Layer.SynchronizeAll", trace.WithAttributes(
			attribute.String("strata.layer", l.core.name),
			attribute.Int("strata.targets", len(hs)),
		))
		defer span.End()
	}
	metrics.SynchronizeCounter.Inc()
	ixs := make([]uint64, len(hs))
	for i, h := range hs {
		ixs[i] = simpleKey2(h, 0)
	}
	g := l.core.acquireBatch(ixs, site())
	if span != nil {
		span.SetAttributes(attribute.Int("strata.slots", g.Len()))
	}
	return g
}

// TrySynchronize attempts the acquisition without blocking. It reports whether
// the guard was obtained.
func (l *SymmetricLayer) TrySynchronize(h Handle) (*Guard, bool) {
	g, ok := l.core.tryAcquireOne(simpleKey(h), site())
	if ok {
		metrics.SynchronizeCounter.Inc()
	}
	return g, ok
}

// TrySynchronizeAll attempts the batch acquisition without blocking. On a busy
// slot the already-held prefix is released in reverse and the call reports
// failure.
func (l *SymmetricLayer) TrySynchronizeAll(hs ...Handle) (*BatchGuard, bool) {
	ixs := make([]uint64, len(hs))
	for i, h := range hs {
		ixs[i] = simpleKey2(h, 0)
	}
	g, ok := l.core.tryAcquireBatch(ixs, site())
	if ok {
		metrics.SynchronizeCounter.Inc()
	}
	return g, ok
}

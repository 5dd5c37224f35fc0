// Package presets bundles layer configurations for common sharing patterns so
// callers do not have to reason about pool sizes and parallelism factors.
package presets

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mirkobrombin/go-strata/v1/layer"
)

// NewReadMostly creates an asymmetric layer tuned for data that is read far
// more often than it is written. Readers stay nearly independent; writers pay
// the full parallelism factor.
func NewReadMostly(name string) *layer.AsymmetricLayer {
	return layer.NewAsymmetric(name, layer.WithParallelism(layer.DefaultParallelism))
}

// NewWriteHeavy creates an asymmetric layer with a low parallelism factor for
// data with a significant write share: writers only pay two slots per target
// while readers keep some independence.
func NewWriteHeavy(name string) *layer.AsymmetricLayer {
	return layer.NewAsymmetric(name, layer.WithParallelism(2))
}

// NewSerialized creates a layer whose pool is a single mutex, serializing
// every acquisition. Useful as a drop-in while debugging suspected lock
// granularity issues.
func NewSerialized(name string) *layer.SymmetricLayer {
	return layer.NewSymmetric(name, layer.WithPoolSize(1))
}

// NewObserved creates a symmetric layer with latency metrics on reg and span
// emission enabled.
func NewObserved(name string, reg prometheus.Registerer) *layer.SymmetricLayer {
	return layer.NewSymmetric(name, layer.WithMetrics(reg), layer.WithTracing())
}

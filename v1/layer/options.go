package layer

import "github.com/prometheus/client_golang/prometheus"

const (
	// DefaultPoolSize is the number of mutexes in a layer's pool.
	DefaultPoolSize = 256
	// DefaultParallelism is the read-side parallelism of asymmetric layers.
	DefaultParallelism = 8
)

type config struct {
	poolSize    int
	parallelism int
	level       int
	registry    prometheus.Registerer
	tracing     bool
}

func defaultConfig() config {
	return config{poolSize: DefaultPoolSize, parallelism: DefaultParallelism}
}

// Option configures a layer at construction.
type Option func(*config)

// WithPoolSize sets the mutex pool size. The size must be a power of two;
// construction panics otherwise.
func WithPoolSize(n int) Option {
	return func(c *config) { c.poolSize = n }
}

// WithParallelism sets the read-side parallelism of an asymmetric layer. The
// value must be a power of two; construction panics otherwise. Symmetric
// layers ignore it. A parallelism of 1 makes the layer behave symmetrically.
func WithParallelism(p int) Option {
	return func(c *config) { c.parallelism = p }
}

// WithLevel records an explicit hierarchy level for the layer. The level is
// carried for diagnostics only; ordering violations are currently derived
// from acquisition history, not from levels.
func WithLevel(level int) Option {
	return func(c *config) { c.level = level }
}

// WithMetrics enables an acquisition latency histogram for the layer,
// registered on the provided registerer.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *config) { c.registry = reg }
}

// WithTracing enables span emission on the *Ctx acquisition variants.
func WithTracing() Option {
	return func(c *config) { c.tracing = true }
}

package layer

import (
	"runtime"
	"slices"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"

	"github.com/mirkobrombin/go-strata/v1/detect"
	"github.com/mirkobrombin/go-strata/v1/metrics"
)

var tracer = otel.Tracer("github.com/mirkobrombin/go-strata/v1/layer")

// layersCounter hands out process-wide stable layer ids.
var layersCounter atomic.Uint32

// layerCore carries what both layer flavors share: the pool, the diagnostic
// identity and the optional instrumentation.
type layerCore struct {
	name  string
	id    uint32
	level int
	pool  *lockPool

	latencyHist  prometheus.Histogram
	traceEnabled bool
}

func newLayerCore(name string, cfg *config) layerCore {
	id := layersCounter.Add(1) - 1
	detect.RegisterLayer(id, name)
	metrics.LayerGauge.Inc()
	c := layerCore{
		name:         name,
		id:           id,
		level:        cfg.level,
		pool:         newLockPool(cfg.poolSize),
		traceEnabled: cfg.tracing,
	}
	if cfg.registry != nil {
		c.latencyHist = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "strata_acquire_latency_seconds",
			Help:        "Latency of lock acquisitions on the layer",
			ConstLabels: prometheus.Labels{"layer": name},
			Buckets:     prometheus.DefBuckets,
		})
		cfg.registry.MustRegister(c.latencyHist)
	}
	return c
}

// acquireOne blocks until the slot at ix is held and returns the owning guard.
func (c *layerCore) acquireOne(ix uint64, site string) *Guard {
	detect.OnAcquire(c.id, c.name, site)
	var start time.Time
	if c.latencyHist != nil {
		start = time.Now()
	}
	c.pool.lock(ix)
	if c.latencyHist != nil {
		c.latencyHist.Observe(time.Since(start).Seconds())
	}
	return &Guard{core: c, ix: ix, owns: true}
}

// acquireBatch sorts ixs ascending, deduplicates, and locks each surviving
// slot in order. The ascending total order is what makes overlapping batches
// on one layer deadlock-free; the dedup keeps a slot from being locked twice
// when two targets hash together.
func (c *layerCore) acquireBatch(ixs []uint64, site string) *BatchGuard {
	for i := range ixs {
		ixs[i] &= c.pool.mask
	}
	slices.Sort(ixs)
	ixs = slices.Compact(ixs)
	detect.OnAcquire(c.id, c.name, site)
	var start time.Time
	if c.latencyHist != nil {
		start = time.Now()
	}
	for _, ix := range ixs {
		c.pool.lock(ix)
	}
	if c.latencyHist != nil {
		c.latencyHist.Observe(time.Since(start).Seconds())
	}
	return &BatchGuard{core: c, ixs: ixs, owns: true}
}

// tryAcquireOne is acquireOne without blocking; it reports whether the slot
// was taken.
func (c *layerCore) tryAcquireOne(ix uint64, site string) (*Guard, bool) {
	if !c.pool.tryLock(ix) {
		return nil, false
	}
	detect.OnAcquire(c.id, c.name, site)
	return &Guard{core: c, ix: ix, owns: true}, true
}

// tryAcquireBatch attempts the ascending acquisition without blocking. On the
// first busy slot it releases the already-held prefix in reverse and reports
// failure.
func (c *layerCore) tryAcquireBatch(ixs []uint64, site string) (*BatchGuard, bool) {
	for i := range ixs {
		ixs[i] &= c.pool.mask
	}
	slices.Sort(ixs)
	ixs = slices.Compact(ixs)
	for i, ix := range ixs {
		if c.pool.tryLock(ix) {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			c.pool.unlock(ixs[j])
		}
		return nil, false
	}
	detect.OnAcquire(c.id, c.name, site)
	return &BatchGuard{core: c, ixs: ixs, owns: true}, true
}

// site reports the caller's file:line for detector traces. It costs nothing
// when the detector build is off.
func site() string {
	if !detect.Enabled {
		return ""
	}
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return ""
	}
	for i := len(file) - 1; i >= 0; i-- {
		if file[i] == '/' {
			file = file[i+1:]
			break
		}
	}
	return file + ":" + strconv.Itoa(line)
}

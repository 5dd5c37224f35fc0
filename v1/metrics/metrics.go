package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// ReadLockCounter tracks the number of read acquisitions on asymmetric layers.
	ReadLockCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "strata_read_lock_total",
		Help: "Total number of read lock acquisitions",
	})
	// WriteLockCounter tracks the number of write acquisitions on asymmetric layers.
	WriteLockCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "strata_write_lock_total",
		Help: "Total number of write lock acquisitions",
	})
	// SynchronizeCounter tracks the number of acquisitions on symmetric layers.
	SynchronizeCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "strata_synchronize_total",
		Help: "Total number of symmetric acquisitions",
	})
	// LayerGauge reports the number of layers constructed by the process.
	LayerGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "strata_layers",
		Help: "Number of lock layers constructed",
	})
	// ViolationCounter tracks detector violations (recursion, inversion, depth
	// overflow, release without acquisition).
	ViolationCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "strata_detector_violations_total",
		Help: "Total number of lock discipline violations reported by the detector",
	})
)

// NewRegistry creates a new Prometheus registry.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// RegisterCoreMetrics registers strata core metrics on the provided registry.
func RegisterCoreMetrics(reg prometheus.Registerer) {
	reg.MustRegister(ReadLockCounter, WriteLockCounter, SynchronizeCounter, LayerGauge, ViolationCounter)
}

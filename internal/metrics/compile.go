package metrics

import "github.com/prometheus/client_golang/prometheus"

// Compile Prometheus metrics.
var (
	CompileTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wpquery",
			Name:      "compile_total",
			Help:      "Total number of compiled query definitions",
		},
		[]string{"status"}, // "ok" / "invalid" / "state"
	)

	CompileConditions = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "wpquery",
			Name:      "compile_conditions",
			Help:      "Leaf meta and taxonomy conditions per compiled query",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32},
		},
	)

	CompileDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "wpquery",
			Name:      "compile_duration_seconds",
			Help:      "Time spent applying and rendering a query definition, including rejected ones",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
	)
)

var compileMetricsRegistered bool

// RegisterCompileMetrics registers the compile metrics on the default registry.
// Must be called once from main.
func RegisterCompileMetrics() {
	if compileMetricsRegistered {
		return
	}
	prometheus.MustRegister(CompileTotal)
	prometheus.MustRegister(CompileConditions)
	prometheus.MustRegister(CompileDuration)
	compileMetricsRegistered = true
}

// WriteTextfile dumps the default registry in node_exporter textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	DocumentLoads      prometheus.Counter
	DocumentSaves      prometheus.Counter
	SaveRejections     *prometheus.CounterVec
	Uploads            prometheus.Counter
	EntryDeletions     prometheus.Counter
	SaveDuration       prometheus.Histogram
	StartupTimeSeconds prometheus.Gauge
}

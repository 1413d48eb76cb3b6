package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		DocumentLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gamerecord_document_loads_total",
			Help: "The total number of app data documents served.",
		}),
		DocumentSaves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gamerecord_document_saves_total",
			Help: "The total number of app data documents accepted for write.",
		}),
		SaveRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gamerecord_save_rejections_total",
			Help: "The total number of writes rejected by a guard, by reason.",
		}, []string{"reason"}),
		Uploads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gamerecord_uploads_total",
			Help: "The total number of unconditional migration uploads.",
		}),
		EntryDeletions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gamerecord_entry_deletions_total",
			Help: "The total number of single game entries deleted.",
		}),
		SaveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gamerecord_save_duration_seconds",
			Help:    "The duration of document save operations.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gamerecord_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.DocumentLoads,
		s.DocumentSaves,
		s.SaveRejections,
		s.Uploads,
		s.EntryDeletions,
		s.SaveDuration,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncDocumentLoads() {
	s.DocumentLoads.Inc()
}

func (s *Service) IncDocumentSaves() {
	s.DocumentSaves.Inc()
}

func (s *Service) IncSaveRejections(reason string) {
	s.SaveRejections.WithLabelValues(reason).Inc()
}

func (s *Service) IncUploads() {
	s.Uploads.Inc()
}

func (s *Service) IncEntryDeletions() {
	s.EntryDeletions.Inc()
}

func (s *Service) ObserveSaveDuration(duration float64) {
	s.SaveDuration.Observe(duration)
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}

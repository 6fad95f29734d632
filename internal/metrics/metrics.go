// Package metrics - метрики Prometheus конвейера приема и обогащения инцидентов
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Исходы обработки элемента источника
const (
	OutcomeNormalized = "normalized"
	OutcomeDuplicate  = "duplicate"
	OutcomeRejected   = "rejected"
	OutcomeSkipped    = "skipped"
	OutcomeFailed     = "failed"
)

// Результаты запроса к геокодеру
const (
	GeocodeFound    = "found"
	GeocodeNotFound = "not_found"
	GeocodeError    = "error"
)

// PipelineMetrics - счетчики конвейера. Методы безопасны для nil-получателя,
// поэтому сервисы можно собирать без метрик (тесты, одноразовые команды).
type PipelineMetrics struct {
	itemsTotal      *prometheus.CounterVec
	runDuration     prometheus.Histogram
	geocodeRequests *prometheus.CounterVec
	sourceErrors    *prometheus.CounterVec
}

// NewRegistry создает реестр со стандартными метриками процесса и рантайма
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// NewPipelineMetrics создает и регистрирует метрики конвейера
func NewPipelineMetrics(registry prometheus.Registerer) (*PipelineMetrics, error) {
	m := &PipelineMetrics{
		itemsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "osint_ingest_items_total",
				Help: "Total number of source items by processing outcome",
			},
			[]string{"source", "outcome"},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "osint_ingest_run_duration_seconds",
				Help:    "Duration of a full ingestion run",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
			},
		),
		geocodeRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "osint_geocode_requests_total",
				Help: "Total number of geocoding provider requests by result",
			},
			[]string{"result"},
		),
		sourceErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "osint_source_errors_total",
				Help: "Total number of per-source errors collected during ingestion",
			},
			[]string{"source"},
		),
	}
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Describe implements prometheus.Collector
func (m *PipelineMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.itemsTotal.Describe(ch)
	m.runDuration.Describe(ch)
	m.geocodeRequests.Describe(ch)
	m.sourceErrors.Describe(ch)
}

// Collect implements prometheus.Collector
func (m *PipelineMetrics) Collect(ch chan<- prometheus.Metric) {
	m.itemsTotal.Collect(ch)
	m.runDuration.Collect(ch)
	m.geocodeRequests.Collect(ch)
	m.sourceErrors.Collect(ch)
}

func (m *PipelineMetrics) ItemProcessed(source, outcome string) {
	if m == nil {
		return
	}
	m.itemsTotal.WithLabelValues(source, outcome).Inc()
}

func (m *PipelineMetrics) ObserveRun(d time.Duration) {
	if m == nil {
		return
	}
	m.runDuration.Observe(d.Seconds())
}

func (m *PipelineMetrics) GeocodeRequest(result string) {
	if m == nil {
		return
	}
	m.geocodeRequests.WithLabelValues(result).Inc()
}

func (m *PipelineMetrics) SourceError(source string) {
	if m == nil {
		return
	}
	m.sourceErrors.WithLabelValues(source).Inc()
}

// Handler отдает метрики реестра в текстовом формате Prometheus
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}

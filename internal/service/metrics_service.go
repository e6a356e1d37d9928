package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the
// assistant pipeline.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	assistantRequests  *prometheus.CounterVec
	completionDuration prometheus.Observer

	uploadRowsAccepted prometheus.Counter
	uploadRowsRejected prometheus.Counter
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	assistantRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_requests_total",
		Help: "Assistant questions by resolved intent and outcome",
	}, []string{"intent", "outcome"})

	completionDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "assistant_completion_duration_seconds",
		Help:    "Latency of completion provider calls",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
	})

	uploadRowsAccepted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "attendance_upload_rows_accepted_total",
		Help: "Attendance CSV rows accepted for upsert",
	})

	uploadRowsRejected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "attendance_upload_rows_rejected_total",
		Help: "Attendance CSV rows rejected during validation",
	})

	registry.MustRegister(
		requestDuration,
		requestTotal,
		assistantRequests,
		completionDuration,
		uploadRowsAccepted,
		uploadRowsRejected,
	)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		assistantRequests:  assistantRequests,
		completionDuration: completionDuration,
		uploadRowsAccepted: uploadRowsAccepted,
		uploadRowsRejected: uploadRowsRejected,
	}
}

// Handler serves the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one finished HTTP request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := prometheus.Labels{
		"method": method,
		"path":   path,
		"status": strconv.Itoa(status),
	}
	s.requestDuration.With(labels).Observe(duration.Seconds())
	s.requestTotal.With(labels).Inc()
}

// ObserveAssistantRequest records one assistant question.
func (s *MetricsService) ObserveAssistantRequest(intent QuestionIntent, outcome string) {
	s.assistantRequests.WithLabelValues(string(intent), outcome).Inc()
}

// ObserveCompletion records the latency of one provider call.
func (s *MetricsService) ObserveCompletion(duration time.Duration) {
	s.completionDuration.Observe(duration.Seconds())
}

// ObserveUpload records the accepted/rejected row split of one CSV run.
func (s *MetricsService) ObserveUpload(accepted, rejected int) {
	s.uploadRowsAccepted.Add(float64(accepted))
	s.uploadRowsRejected.Add(float64(rejected))
}

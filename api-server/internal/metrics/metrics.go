package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/search"
	"github.com/cx-tal-miterani/hall-booking-console/shared/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hall_booking_console"

// Metrics holds the console's Prometheus collectors
type Metrics struct {
	registry *prometheus.Registry

	SearchesTotal      *prometheus.CounterVec
	SearchDuration     prometheus.Histogram
	SearchResultRows   prometheus.Histogram
	CancellationsTotal *prometheus.CounterVec
	PaymentsTotal      *prometheus.CounterVec
	ActiveSessions     prometheus.Gauge
}

// New registers the console collectors on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		SearchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Booking searches by result.",
		}, []string{"result"}),
		SearchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Booking search latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		SearchResultRows: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_result_rows",
			Help:      "Rows returned per search page.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		}),
		CancellationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cancellations_total",
			Help:      "Confirmed cancellations by result.",
		}, []string{"result"}),
		PaymentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_initiations_total",
			Help:      "Payment initiations by outcome.",
		}, []string{"outcome"}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Open operator sessions.",
		}),
	}
}

// Handler exposes the registry for scraping
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveCancellation counts a confirmed cancellation
func (m *Metrics) ObserveCancellation(err error) {
	m.CancellationsTotal.WithLabelValues(resultLabel(err)).Inc()
}

// ObservePayment counts a payment initiation outcome
func (m *Metrics) ObservePayment(outcome string) {
	m.PaymentsTotal.WithLabelValues(outcome).Inc()
}

// InstrumentSearch wraps a search collaborator with latency and result metrics
func (m *Metrics) InstrumentSearch(next search.SearchCollaborator) search.SearchCollaborator {
	return &instrumentedSearch{next: next, m: m}
}

type instrumentedSearch struct {
	next search.SearchCollaborator
	m    *Metrics
}

func (s *instrumentedSearch) Search(ctx context.Context, filter search.FilterState) ([]models.Booking, int, error) {
	start := time.Now()
	bookings, total, err := s.next.Search(ctx, filter)
	s.m.SearchDuration.Observe(time.Since(start).Seconds())
	s.m.SearchesTotal.WithLabelValues(resultLabel(err)).Inc()
	if err == nil {
		s.m.SearchResultRows.Observe(float64(len(bookings)))
	}
	return bookings, total, err
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

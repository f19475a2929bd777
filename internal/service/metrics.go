package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "vetcare"

// Metrics holds the application collectors
type Metrics struct {
	// HTTP metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Domain metrics
	AppointmentsBooked prometheus.Counter
	SlotConflicts      prometheus.Counter
	EventsPublished    *prometheus.CounterVec
	AuthFailures       *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		AppointmentsBooked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "appointments_booked_total",
			Help:      "Total number of booked appointments",
		}),
		SlotConflicts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "appointment_slot_conflicts_total",
			Help:      "Bookings rejected because the vet slot was taken",
		}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "domain_events_published_total",
			Help:      "Domain events handed to the publisher",
		}, []string{"event", "status"}),
		AuthFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "auth_failures_total",
			Help:      "Rejected authentication attempts",
		}, []string{"reason"}),
	}
}

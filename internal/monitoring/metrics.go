// Package monitoring defines the Prometheus metrics exported at /metrics.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts requests by method, route template and status.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration observes request latency per route template.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// BookingsTotal counts ticket booking attempts by outcome.  Outcomes:
	// "confirmed", "out_of_bounds", "seat_taken", "error".
	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_bookings_total",
			Help: "Ticket booking attempts by outcome",
		},
		[]string{"outcome"},
	)

	// TicketsSold counts individual tickets successfully sold.
	TicketsSold = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_sold_total",
			Help: "Tickets successfully sold",
		},
	)
)

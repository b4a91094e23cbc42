package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Collectors for the booking engine. Labels use the product type
// (hotel, flight, train) in lowercase.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travel_searches_total",
			Help: "Catalog searches served, by product type",
		},
		[]string{"product"},
	)

	BookingsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travel_bookings_created_total",
			Help: "Bookings successfully created, by product type",
		},
		[]string{"product"},
	)

	BookingsCancelledTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travel_bookings_cancelled_total",
			Help: "Bookings cancelled, by product type",
		},
		[]string{"product"},
	)

	BookingConflictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travel_booking_conflicts_total",
			Help: "Booking attempts rejected for insufficient capacity, by product type",
		},
		[]string{"product"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "travel_http_request_duration_seconds",
			Help:    "HTTP request latency by method, route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

var registerOnce sync.Once

// Register installs the collectors into the default registry. Safe to
// call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			SearchesTotal,
			BookingsCreatedTotal,
			BookingsCancelledTotal,
			BookingConflictsTotal,
			HTTPRequestDuration,
		)
	})
}

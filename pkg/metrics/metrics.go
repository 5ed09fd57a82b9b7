package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bookcom"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	roomUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "room_updates_total",
			Help:      "Count of room updates by kind (book, review).",
		},
		[]string{"kind"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Count of bookings created through POST /bookings.",
		},
	)

	bookingsClaimed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_claimed_total",
			Help:      "Count of rooms copied into bookings by a claim.",
		},
	)

	bookingsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_deleted_total",
			Help:      "Count of booking documents removed.",
		},
	)

	idReassignments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_id_reassignments_total",
			Help:      "Count of inserts retried under fresh ids after a duplicate key, by operation.",
		},
		[]string{"operation"},
	)

	eventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Count of domain events handed to the broker, by type and result.",
		},
		[]string{"type", "result"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			httpDuration,
			roomUpdates,
			bookingsCreated,
			bookingsClaimed,
			bookingsDeleted,
			idReassignments,
			eventsPublished,
		)
	})
}

func ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func IncRoomUpdate(kind string) {
	roomUpdates.WithLabelValues(kind).Inc()
}

func IncBookingCreated() {
	bookingsCreated.Inc()
}

func AddBookingsClaimed(n int) {
	bookingsClaimed.Add(float64(n))
}

func AddBookingsDeleted(n int64) {
	bookingsDeleted.Add(float64(n))
}

func IncIDReassignment(operation string) {
	idReassignments.WithLabelValues(operation).Inc()
}

func IncEventPublished(eventType string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	eventsPublished.WithLabelValues(eventType, result).Inc()
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitclub_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	SubscriptionEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_subscription_events_total",
			Help: "Subscription ledger mutations by plan and action",
		},
		[]string{"plan", "action"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_bookings_total",
			Help: "Booking attempts by outcome",
		},
		[]string{"outcome"},
	)

	BookingCancellationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_booking_cancellations_total",
			Help: "Total number of booking cancellations",
		},
		[]string{"initiator"},
	)

	BookingsDeletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_bookings_deleted_total",
			Help: "Bookings hard-deleted by cascades",
		},
		[]string{"reason"},
	)

	SupplementOrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_supplement_orders_total",
			Help: "Supplement orders by outcome",
		},
		[]string{"outcome"},
	)

	AdminCancellationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_admin_cancellations_total",
			Help: "Admin subscription cancellations by booking cleanup outcome",
		},
		[]string{"booking_outcome"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fitclub_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	EventsPublishFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_events_publish_failures_total",
			Help: "Domain events that could not be published",
		},
		[]string{"type"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordSubscriptionEvent(plan, action string) {
	SubscriptionEventsTotal.WithLabelValues(plan, action).Inc()
}

func RecordBooking(outcome string) {
	BookingsTotal.WithLabelValues(outcome).Inc()
}

func RecordBookingCancellation(initiator string) {
	BookingCancellationsTotal.WithLabelValues(initiator).Inc()
}

func RecordBookingsDeleted(reason string, n int64) {
	BookingsDeletedTotal.WithLabelValues(reason).Add(float64(n))
}

func RecordSupplementOrder(outcome string) {
	SupplementOrdersTotal.WithLabelValues(outcome).Inc()
}

func RecordAdminCancellation(bookingOutcome string) {
	AdminCancellationsTotal.WithLabelValues(bookingOutcome).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func RecordPublishFailure(eventType string) {
	EventsPublishFailuresTotal.WithLabelValues(eventType).Inc()
}

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barberbook",
			Name:      "booking_created_total",
			Help:      "Count of bookings created by origin.",
		},
		[]string{"origin"},
	)

	bookingRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barberbook",
			Name:      "booking_rejected_total",
			Help:      "Count of rejected booking attempts by reason.",
		},
		[]string{"reason"},
	)

	bookingCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "barberbook",
			Name:      "booking_cancelled_total",
			Help:      "Count of bookings cancelled.",
		},
	)

	bookingCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barberbook",
			Name:      "booking_completed_total",
			Help:      "Count of completed bookings by payment method.",
		},
		[]string{"method"},
	)

	remindersSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "barberbook",
			Name:      "reminders_sent_total",
			Help:      "Count of appointment reminders dispatched.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			bookingCreated, bookingRejected, bookingCancelled,
			bookingCompleted, remindersSent,
		)
	})
}

func IncBookingCreated(origin string) {
	bookingCreated.WithLabelValues(origin).Inc()
}

func IncBookingRejected(reason string) {
	bookingRejected.WithLabelValues(reason).Inc()
}

func IncBookingCancelled() {
	bookingCancelled.Inc()
}

func IncBookingCompleted(method string) {
	bookingCompleted.WithLabelValues(method).Inc()
}

func IncReminderSent() {
	remindersSent.Inc()
}

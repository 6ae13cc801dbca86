package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hotelbook",
			Name:      "api_requests_total",
			Help:      "Count of backend API requests by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	checkoutOutcome = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hotelbook",
			Name:      "checkout_outcome_total",
			Help:      "Count of finished checkouts by payment method and outcome.",
		},
		[]string{"method", "outcome"},
	)

	bookingCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hotelbook",
			Name:      "booking_cancelled_total",
			Help:      "Count of bookings cancelled from the client.",
		},
	)

	guardDenied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hotelbook",
			Name:      "guard_denied_total",
			Help:      "Count of navigations refused by the route guard.",
		},
		[]string{"reason"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(apiRequests, checkoutOutcome, bookingCancelled, guardDenied)
	})
}

func IncAPIRequest(endpoint, outcome string) {
	apiRequests.WithLabelValues(endpoint, outcome).Inc()
}

func IncCheckoutOutcome(method, outcome string) {
	checkoutOutcome.WithLabelValues(method, outcome).Inc()
}

func IncBookingCancelled() {
	bookingCancelled.Inc()
}

func IncGuardDenied(reason string) {
	guardDenied.WithLabelValues(reason).Inc()
}

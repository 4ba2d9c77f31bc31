package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crushquest_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// FeedRequests counts feed requests by mode and outcome.
	FeedRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crushquest_feed_requests_total",
		Help: "Total number of feed requests by mode and outcome",
	}, []string{"mode", "outcome"})

	// FeedFilteredOut counts candidate doros removed by the visibility filter.
	FeedFilteredOut = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crushquest_feed_filtered_out_total",
		Help: "Total number of candidate doros hidden by the visibility filter",
	}, []string{"mode"})
)

// RecordFeedRequest increments the feed request counter.
func RecordFeedRequest(mode, outcome string) {
	FeedRequests.WithLabelValues(mode, outcome).Inc()
}

// RecordFeedFilteredOut adds the number of doros hidden from a single feed
// response.
func RecordFeedFilteredOut(mode string, hidden int) {
	if hidden > 0 {
		FeedFilteredOut.WithLabelValues(mode).Add(float64(hidden))
	}
}

// InitMetrics creates the Prometheus HTTP instrumentation for the app.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus middleware as a fiber.Handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}

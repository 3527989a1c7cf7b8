package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success Outcome = "success"
	Error   Outcome = "error"
)

func (O Outcome) String() string {
	return string(O)
}

var (
	once                         sync.Once
	metricsRouter                *chi.Mux
	httpRequestDurationHistogram *prometheus.HistogramVec
	eventHandlerFailureCounter   *prometheus.CounterVec
	withdrawalBatchCounter       *prometheus.CounterVec
	ledgerCallDurationHistogram  *prometheus.HistogramVec
	queueMessageCounter          *prometheus.CounterVec
)

// Init initializes the metrics package.
func Init(metricsPort int) {
	once.Do(func() {
		initMetricsRouter(metricsPort)
		registerMetrics()
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	go func() {
		metricsAddr := fmt.Sprintf(":%d", metricsPort)
		err := http.ListenAndServe(metricsAddr, metricsRouter)
		if err != nil {
			log.Fatal().Err(err).Msgf("error starting metrics server on %s", metricsAddr)
		}
	}()
}

// registerMetrics initializes and register the Prometheus metrics.
func registerMetrics() {
	defaultHistogramBucketsSeconds := []float64{0.1, 0.5, 1, 2.5, 5, 10, 30}

	httpRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of http request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"endpoint", "status"},
	)

	eventHandlerFailureCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlement_event_handler_failures_total",
			Help: "Total number of settlement event handler failures.",
		},
		[]string{"handler", "event_type"},
	)

	withdrawalBatchCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "withdrawal_batch_records_total",
			Help: "Total number of standard withdrawal records processed by the reconciliation worker, by outcome.",
		},
		[]string{"outcome"},
	)

	ledgerCallDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_call_duration_seconds",
			Help:    "Histogram of ledger gateway call durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"operation", "outcome"},
	)

	queueMessageCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queue_messages_total",
			Help: "Total number of queue messages processed, by queue and outcome.",
		},
		[]string{"queue", "outcome"},
	)

	prometheus.MustRegister(
		httpRequestDurationHistogram,
		eventHandlerFailureCounter,
		withdrawalBatchCounter,
		ledgerCallDurationHistogram,
		queueMessageCounter,
	)
}

// StartHttpRequestDurationTimer starts a timer to measure http request handling duration.
func StartHttpRequestDurationTimer(endpoint string) func(statusCode int) {
	startTime := time.Now()
	return func(statusCode int) {
		duration := time.Since(startTime).Seconds()
		httpRequestDurationHistogram.WithLabelValues(endpoint, fmt.Sprintf("%d", statusCode)).Observe(duration)
	}
}

func RecordEventHandlerFailure(handler, eventType string) {
	if eventHandlerFailureCounter == nil {
		return
	}
	eventHandlerFailureCounter.WithLabelValues(handler, eventType).Inc()
}

func RecordWithdrawalBatchOutcome(outcome string, count int) {
	if withdrawalBatchCounter == nil {
		return
	}
	withdrawalBatchCounter.WithLabelValues(outcome).Add(float64(count))
}

// StartLedgerCallDurationTimer starts a timer to measure a ledger gateway call.
func StartLedgerCallDurationTimer(operation string) func(outcome Outcome) {
	startTime := time.Now()
	return func(outcome Outcome) {
		if ledgerCallDurationHistogram == nil {
			return
		}
		duration := time.Since(startTime).Seconds()
		ledgerCallDurationHistogram.WithLabelValues(operation, outcome.String()).Observe(duration)
	}
}

func RecordQueueMessage(queueName string, outcome Outcome) {
	if queueMessageCounter == nil {
		return
	}
	queueMessageCounter.WithLabelValues(queueName, outcome.String()).Inc()
}

package stats

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "zkkd"

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route and status code",
		},
		[]string{"method", "route", "code"},
	)
	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{.005, .01, .05, .1, .25, .5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)
	deliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relayer_deliveries_total",
			Help:      "Total number of message delivery attempts by destination and result",
		},
		[]string{"destination", "result"},
	)
)

// RecordRequest tracks a served HTTP request.
func RecordRequest(method, route string, code int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordDelivery tracks a delivery attempt of the relayer.
func RecordDelivery(dstDomain uint32, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	deliveries.WithLabelValues(strconv.FormatUint(uint64(dstDomain), 10), result).Inc()
}

// RegisterGauge registers a gauge whose value is computed by fn at every
// scrape. Registering the same gauge twice is a no-op.
func RegisterGauge(name, help string, fn func() float64) error {
	gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, fn)

	if err := prometheus.Register(gauge); err != nil {
		are := prometheus.AlreadyRegisteredError{}
		if errors.As(err, &are) {
			return nil
		}
		return err
	}
	return nil
}

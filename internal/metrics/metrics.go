package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Outcome labels for ajax requests
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Collector records ajax and storage metrics
type Collector struct {
	ajaxRequests *prometheus.CounterVec
	ajaxDuration *prometheus.HistogramVec
	storageOps   *prometheus.CounterVec
}

// New creates a collector whose metrics are registered on reg
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		ajaxRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webutils_ajax_requests_total",
				Help: "Total number of ajax requests by method and outcome",
			},
			[]string{"method", "outcome"},
		),
		ajaxDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webutils_ajax_request_duration_seconds",
				Help:    "Ajax request duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{"method"},
		),
		storageOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webutils_storage_operations_total",
				Help: "Total number of storage operations by strategy, operation and result",
			},
			[]string{"strategy", "op", "result"},
		),
	}
}

// ObserveRequest records one completed ajax request
func (c *Collector) ObserveRequest(method, outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	c.ajaxRequests.WithLabelValues(method, outcome).Inc()
	c.ajaxDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// StorageOp records one storage get or set. result is "hit", "miss", "ok" or "error".
func (c *Collector) StorageOp(strategy, op, result string) {
	if c == nil {
		return
	}
	c.storageOps.WithLabelValues(strategy, op, result).Inc()
}

// WriteText writes every metric family gathered from g in the Prometheus
// text exposition format
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

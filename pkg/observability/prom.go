package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ServiceName = "covidatlas"
)

var (
	DispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "binding", "dispatch_total"),
		Help: "Number of control events dispatched to a binding",
	}, []string{"control"})
	DispatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "binding", "dispatch_duration_seconds"),
		Help:    "Duration of binding recomputation in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	}, []string{"control"})
	DatasetRows = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: prometheus.BuildFQName(ServiceName, "dataset", "rows"),
		Help: "Rows kept and dropped while loading a table",
	}, []string{"table", "state"})
)

package rankd

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ppopth/gf2-rank/host"
)

const namespace = "gf2rank"

type metrics struct {
	requests       *prometheus.CounterVec
	duration       prometheus.Histogram
	blocks         prometheus.Counter
	fallbackPivots prometheus.Counter
}

func newMetrics(reg prometheus.Registerer, h *host.Host) (*metrics, error) {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Rank requests served, by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rank_duration_seconds",
			Help:      "Time spent computing one rank.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}),
		blocks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_total",
			Help:      "Column blocks eliminated through a lookup table.",
		}),
		fallbackPivots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_pivots_total",
			Help:      "Pivots found by single-pivot elimination.",
		}),
	}
	collectors := []prometheus.Collector{
		m.requests, m.duration, m.blocks, m.fallbackPivots,
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transport_sent_bytes_total",
			Help:      "Bytes written to request streams.",
		}, func() float64 { return float64(h.GetBytesSent()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transport_received_bytes_total",
			Help:      "Bytes read from request streams.",
		}, func() float64 { return float64(h.GetBytesReceived()) }),
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

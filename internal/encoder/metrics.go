package encoder

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type encoderMetrics struct {
	encodes     *prometheus.CounterVec
	durations   *prometheus.HistogramVec
	payloadSize prometheus.Histogram
	openFigures prometheus.Gauge
}

var (
	encoderMetricsOnce sync.Once
	encoderMetricsInst *encoderMetrics
)

func globalEncoderMetrics() *encoderMetrics {
	encoderMetricsOnce.Do(func() {
		encoderMetricsInst = newEncoderMetrics()
	})
	return encoderMetricsInst
}

func newEncoderMetrics() *encoderMetrics {
	return &encoderMetrics{
		encodes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plotbox",
			Subsystem: "encoder",
			Name:      "encodes_total",
			Help:      "Figures encoded into plot boxes, labeled by path and result",
		}, []string{"path", "status"}),
		durations: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "plotbox",
			Subsystem: "encoder",
			Name:      "encode_duration_seconds",
			Help:      "Time spent rasterizing and encoding a figure",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
		payloadSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "plotbox",
			Subsystem: "encoder",
			Name:      "png_bytes",
			Help:      "Size of encoded PNG payloads before base64",
			Buckets:   prometheus.ExponentialBuckets(4096, 2, 10),
		}),
		openFigures: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "plotbox",
			Subsystem: "figures",
			Name:      "open",
			Help:      "Figures tracked by the current-figure registry after the latest encode",
		}),
	}
}

package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lvillar/reportes"
)

// metrics holds the collectors of one server. Each server registers them on
// its own registry.
type metrics struct {
	reg *prometheus.Registry

	renders  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	degraded *prometheus.CounterVec
	pages    *prometheus.CounterVec
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &metrics{
		reg: reg,
		renders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reportes",
			Name:      "renders_total",
			Help:      "Report requests by kind and outcome.",
		}, []string{"kind", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "reportes",
			Name:      "render_seconds",
			Help:      "Time spent reading the upload and rendering the report.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		}, []string{"kind"}),
		degraded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reportes",
			Name:      "degraded_values_total",
			Help:      "Values that could not be read and were rendered as zero.",
		}, []string{"kind"}),
		pages: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reportes",
			Name:      "pages_total",
			Help:      "Pages rendered.",
		}, []string{"kind"}),
	}
}

func (m *metrics) observe(kind reportes.Kind, start time.Time, res *reportes.Result, apiErr *APIError) {
	k := string(kind)
	m.renders.WithLabelValues(k, outcome(apiErr)).Inc()
	m.duration.WithLabelValues(k).Observe(time.Since(start).Seconds())
	if res != nil {
		m.degraded.WithLabelValues(k).Add(float64(res.Degraded))
		m.pages.WithLabelValues(k).Add(float64(res.Pages))
	}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

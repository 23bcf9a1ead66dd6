package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	fetchDuration  *prom.HistogramVec
	fetchResults   *prom.CounterVec
	staleResponses *prom.CounterVec
	renderDuration prom.Histogram
	liveSessions   prom.Gauge
}

// NewPrometheusRecorder constructs metrics and registers them with reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		fetchDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "manualsite",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of remote manual fetches",
			Buckets:   prom.DefBuckets,
		}, []string{"kind"}),
		fetchResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "manualsite",
			Name:      "fetch_results_total",
			Help:      "Fetch results by kind and outcome",
		}, []string{"kind", "result"}),
		staleResponses: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "manualsite",
			Name:      "stale_responses_total",
			Help:      "Responses discarded because a newer request superseded them",
		}, []string{"kind"}),
		renderDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "manualsite",
			Name:      "page_render_duration_seconds",
			Help:      "Server-side page render duration",
			Buckets:   prom.DefBuckets,
		}),
		liveSessions: prom.NewGauge(prom.GaugeOpts{
			Namespace: "manualsite",
			Name:      "live_sessions",
			Help:      "Open live navigation sessions",
		}),
	}
	reg.MustRegister(pr.fetchDuration, pr.fetchResults, pr.staleResponses, pr.renderDuration, pr.liveSessions)
	return pr
}

func (p *PrometheusRecorder) ObserveFetch(kind FetchKind, d time.Duration, result ResultLabel) {
	if p == nil {
		return
	}
	if result != ResultCached {
		p.fetchDuration.WithLabelValues(string(kind)).Observe(d.Seconds())
	}
	p.fetchResults.WithLabelValues(string(kind), string(result)).Inc()
}

func (p *PrometheusRecorder) IncStaleResponse(kind FetchKind) {
	if p == nil {
		return
	}
	p.staleResponses.WithLabelValues(string(kind)).Inc()
}

func (p *PrometheusRecorder) ObservePageRender(d time.Duration) {
	if p == nil {
		return
	}
	p.renderDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetLiveSessions(n int) {
	if p == nil {
		return
	}
	p.liveSessions.Set(float64(n))
}

// HTTPHandler returns an http.Handler that serves the metrics in reg.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	loadDuration *prom.HistogramVec
	loadResults  *prom.CounterVec
	loadErrors   *prom.CounterVec
	optionCount  prom.Gauge
	reloads      prom.Counter
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
// A nil registry gets a fresh private one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		loadDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "siteconfig",
			Name:      "load_duration_seconds",
			Help:      "Duration of configuration loads by source format",
			Buckets:   prom.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"format"}),
		loadResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "siteconfig",
			Name:      "load_results_total",
			Help:      "Configuration load outcomes",
		}, []string{"result"}),
		loadErrors: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "siteconfig",
			Name:      "load_errors_total",
			Help:      "Configuration load failures by error category",
		}, []string{"category"}),
		optionCount: prom.NewGauge(prom.GaugeOpts{
			Namespace: "siteconfig",
			Name:      "options",
			Help:      "Number of declared options in the last successful load",
		}),
		reloads: prom.NewCounter(prom.CounterOpts{
			Namespace: "siteconfig",
			Name:      "reloads_total",
			Help:      "Reloads triggered by file changes",
		}),
	}
	reg.MustRegister(pr.loadDuration, pr.loadResults, pr.loadErrors, pr.optionCount, pr.reloads)
	return pr
}

func (p *PrometheusRecorder) ObserveLoadDuration(format string, d time.Duration) {
	if p == nil {
		return
	}
	p.loadDuration.WithLabelValues(format).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncLoadResult(result ResultLabel) {
	if p == nil {
		return
	}
	p.loadResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncLoadError(category string) {
	if p == nil {
		return
	}
	p.loadErrors.WithLabelValues(category).Inc()
}

func (p *PrometheusRecorder) SetOptionCount(n int) {
	if p == nil {
		return
	}
	p.optionCount.Set(float64(n))
}

func (p *PrometheusRecorder) IncReload() {
	if p == nil {
		return
	}
	p.reloads.Inc()
}

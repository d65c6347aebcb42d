package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gathered returns the first sample value of the named family matching label.
func gathered(t *testing.T, reg *prom.Registry, name, labelValue string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelValue != "" {
				matched := false
				for _, lp := range m.GetLabel() {
					if lp.GetValue() == labelValue {
						matched = true
					}
				}
				if !matched {
					continue
				}
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				return float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	t.Fatalf("metric %s{%s} not found", name, labelValue)
	return 0
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveLoadDuration("dsl", 150*time.Microsecond)
	pr.IncLoadResult(ResultSuccess)
	pr.IncLoadResult(ResultSuccess)
	pr.IncLoadResult(ResultFailed)
	pr.IncLoadError("unknown_option")
	pr.SetOptionCount(17)
	pr.IncReload()

	assert.InDelta(t, 2, gathered(t, reg, "siteconfig_load_results_total", "success"), 0)
	assert.InDelta(t, 1, gathered(t, reg, "siteconfig_load_results_total", "failed"), 0)
	assert.InDelta(t, 1, gathered(t, reg, "siteconfig_load_errors_total", "unknown_option"), 0)
	assert.InDelta(t, 17, gathered(t, reg, "siteconfig_options", ""), 0)
	assert.InDelta(t, 1, gathered(t, reg, "siteconfig_reloads_total", ""), 0)
	assert.InDelta(t, 1, gathered(t, reg, "siteconfig_load_duration_seconds", "dsl"), 0)
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncLoadResult(ResultSuccess)

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "siteconfig_load_results_total")
}

package metrics

import (
	"testing"
	"time"
)

// Compile-time interface checks.
var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveLoadDuration("dsl", time.Millisecond)
	r.IncLoadResult(ResultSuccess)
	r.IncLoadError("syntax")
	r.SetOptionCount(3)
	r.IncReload()
}

func TestNilPrometheusRecorder(t *testing.T) {
	var p *PrometheusRecorder
	p.ObserveLoadDuration("dsl", time.Millisecond)
	p.IncLoadResult(ResultFailed)
	p.IncLoadError("syntax")
	p.SetOptionCount(1)
	p.IncReload()
}

package metrics

import "time"

// ResultLabel enumerates load result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// Recorder defines observability hooks for configuration loading.
type Recorder interface {
	ObserveLoadDuration(format string, d time.Duration)
	IncLoadResult(result ResultLabel)
	IncLoadError(category string)
	SetOptionCount(n int)
	IncReload()
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveLoadDuration(string, time.Duration) {}
func (NoopRecorder) IncLoadResult(ResultLabel)                 {}
func (NoopRecorder) IncLoadError(string)                       {}
func (NoopRecorder) SetOptionCount(int)                        {}
func (NoopRecorder) IncReload()                                {}

package metrics

import "time"

// Outcome labels a finished build.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// Recorder defines observability hooks for documentation builds.
type Recorder interface {
	ObserveBuildDuration(version string, d time.Duration)
	IncBuildOutcome(version string, outcome Outcome)
	IncDocuments(parser string)
	AddLinksRewritten(n int)
	IncHook(hook string, success bool)
	AddBytesWritten(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(string, time.Duration) {}
func (NoopRecorder) IncBuildOutcome(string, Outcome)            {}
func (NoopRecorder) IncDocuments(string)                        {}
func (NoopRecorder) AddLinksRewritten(int)                      {}
func (NoopRecorder) IncHook(string, bool)                       {}
func (NoopRecorder) AddBytesWritten(int)                        {}

// Package metrics defines observability hooks for site builds.
package metrics

import "time"

// Recorder defines observability hooks for build metrics. Implementations may
// forward to Prometheus, etc. The NoopRecorder allows optional injection.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string) // outcome: success|failed
	AddProblemsLoaded(n int)
	AddPagesWritten(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) IncBuildOutcome(string)             {}
func (NoopRecorder) AddProblemsLoaded(int)              {}
func (NoopRecorder) AddPagesWritten(int)                {}

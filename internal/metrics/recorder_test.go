package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestUnit_PrometheusRecorder_CountsBuildOutcomes(t *testing.T) {
	reg := prom.NewRegistry()
	rec := NewPrometheusRecorder(reg)

	rec.IncBuildOutcome("success")
	rec.IncBuildOutcome("success")
	rec.IncBuildOutcome("failed")

	require.Equal(t, 2.0, testutil.ToFloat64(rec.buildOutcome.WithLabelValues("success")))
	require.Equal(t, 1.0, testutil.ToFloat64(rec.buildOutcome.WithLabelValues("failed")))
}

func TestUnit_PrometheusRecorder_AccumulatesCounters(t *testing.T) {
	rec := NewPrometheusRecorder(nil)

	rec.AddProblemsLoaded(3)
	rec.AddProblemsLoaded(4)
	rec.AddPagesWritten(10)
	rec.ObserveBuildDuration(250 * time.Millisecond)

	require.Equal(t, 7.0, testutil.ToFloat64(rec.problemsLoaded))
	require.Equal(t, 10.0, testutil.ToFloat64(rec.pagesWritten))
}

func TestUnit_PrometheusRecorder_NilReceiverIsSafe(t *testing.T) {
	var rec *PrometheusRecorder

	require.NotPanics(t, func() {
		rec.ObserveBuildDuration(time.Second)
		rec.IncBuildOutcome("success")
		rec.AddProblemsLoaded(1)
		rec.AddPagesWritten(1)
	})
}

func TestUnit_NoopRecorder_ImplementsRecorder(t *testing.T) {
	var _ Recorder = NoopRecorder{}
	var _ Recorder = (*PrometheusRecorder)(nil)
}

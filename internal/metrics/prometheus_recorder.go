package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	buildDuration  prom.Histogram
	buildOutcome   *prom.CounterVec
	problemsLoaded prom.Counter
	pagesWritten   prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "practicebank",
			Name:      "build_duration_seconds",
			Help:      "Total site build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "practicebank",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		problemsLoaded: prom.NewCounter(prom.CounterOpts{
			Namespace: "practicebank",
			Name:      "problems_loaded_total",
			Help:      "Problems loaded across all builds",
		}),
		pagesWritten: prom.NewCounter(prom.CounterOpts{
			Namespace: "practicebank",
			Name:      "pages_written_total",
			Help:      "HTML pages written across all builds",
		}),
	}
	reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.problemsLoaded, pr.pagesWritten)
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) AddProblemsLoaded(n int) {
	if p == nil || p.problemsLoaded == nil {
		return
	}
	p.problemsLoaded.Add(float64(n))
}

func (p *PrometheusRecorder) AddPagesWritten(n int) {
	if p == nil || p.pagesWritten == nil {
		return
	}
	p.pagesWritten.Add(float64(n))
}

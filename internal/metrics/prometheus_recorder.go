package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once              sync.Once
	transformDuration prom.Histogram
	documentDuration  *prom.HistogramVec
	documentResults   *prom.CounterVec
	rewrites          *prom.CounterVec
	concurrency       prom.Gauge
	buildDuration     prom.Histogram
	buildOutcome      *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.transformDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "deskwrap",
			Name:      "transform_duration_seconds",
			Help:      "Total duration of the output transform pass",
			Buckets:   prom.DefBuckets,
		})
		pr.documentDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "deskwrap",
			Name:      "document_duration_seconds",
			Help:      "Duration of individual document rewrites",
			Buckets:   prom.DefBuckets,
		}, []string{"document", "result"})
		pr.documentResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "deskwrap",
			Name:      "document_results_total",
			Help:      "Document rewrite results by outcome",
		}, []string{"result"})
		pr.rewrites = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "deskwrap",
			Name:      "rewrites_total",
			Help:      "Reference rewrites by applied policy",
		}, []string{"policy"})
		pr.concurrency = prom.NewGauge(prom.GaugeOpts{
			Namespace: "deskwrap",
			Name:      "transform_concurrency",
			Help:      "Configured worker count for the last transform pass",
		})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "deskwrap",
			Name:      "build_duration_seconds",
			Help:      "Total build duration including the framework build",
			Buckets:   prom.DefBuckets,
		})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "deskwrap",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		reg.MustRegister(pr.transformDuration, pr.documentDuration, pr.documentResults, pr.rewrites, pr.concurrency, pr.buildDuration, pr.buildOutcome)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveTransformDuration(d time.Duration) {
	if p == nil || p.transformDuration == nil {
		return
	}
	p.transformDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveDocumentDuration(doc string, d time.Duration, success bool) {
	if p == nil || p.documentDuration == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.documentDuration.WithLabelValues(doc, res).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncDocumentResult(result ResultLabel) {
	if p == nil || p.documentResults == nil {
		return
	}
	p.documentResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncRewrite(policy string) {
	if p == nil || p.rewrites == nil {
		return
	}
	p.rewrites.WithLabelValues(policy).Inc()
}

func (p *PrometheusRecorder) SetTransformConcurrency(n int) {
	if p == nil || p.concurrency == nil {
		return
	}
	p.concurrency.Set(float64(n))
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

package metrics

import "time"

// ResultLabel enumerates document processing result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for build and transform metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc. All methods
// must be safe on the zero value so injection stays optional.
type Recorder interface {
	ObserveTransformDuration(d time.Duration)
	ObserveDocumentDuration(doc string, d time.Duration, success bool)
	IncDocumentResult(result ResultLabel)
	IncRewrite(policy string) // policy: file|hash|relative|keep
	SetTransformConcurrency(n int)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string) // outcome: success|warning|failed|canceled
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveTransformDuration(time.Duration)                {}
func (NoopRecorder) ObserveDocumentDuration(string, time.Duration, bool)   {}
func (NoopRecorder) IncDocumentResult(ResultLabel)                         {}
func (NoopRecorder) IncRewrite(string)                                     {}
func (NoopRecorder) SetTransformConcurrency(int)                           {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)                    {}
func (NoopRecorder) IncBuildOutcome(string)                                {}

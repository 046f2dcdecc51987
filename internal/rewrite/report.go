package rewrite

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Outcome is the final state of a transform pass.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// DocumentFailure records one document that could not be transformed, so
// callers can surface per-document causes instead of a single opaque error.
type DocumentFailure struct {
	Path string
	Err  error
}

// Report captures what one transform pass did across the whole output tree.
type Report struct {
	BuildID         string
	Start           time.Time
	End             time.Time
	Documents       int // routed documents attempted
	RewrittenDocs   int // documents whose text actually changed
	HashRoutingDocs int
	SkippedRoutes   int            // routes with no emitted document
	References      map[string]int // applied rewrites by policy label
	Failures        []DocumentFailure
	Outcome         Outcome
}

// NewReport starts a report with a fresh build ID and start timestamp.
func NewReport() *Report {
	return &Report{
		BuildID:    uuid.NewString(),
		Start:      time.Now(),
		References: make(map[string]int),
	}
}

func (r *Report) finish() {
	if r.End.IsZero() {
		r.End = time.Now()
	}
}

// Duration is the wall-clock time the pass took.
func (r *Report) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// TotalRewrites sums applied rewrites across all policies.
func (r *Report) TotalRewrites() int {
	total := 0
	for _, n := range r.References {
		total += n
	}
	return total
}

func (r *Report) deriveOutcome(ctxErr error) {
	switch {
	case ctxErr != nil:
		r.Outcome = OutcomeCanceled
	case len(r.Failures) > 0:
		r.Outcome = OutcomeFailed
	default:
		r.Outcome = OutcomeSuccess
	}
}

// Summary renders a one-line description suitable for CLI output.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "rewrote %d/%d documents", r.RewrittenDocs, r.Documents)

	if total := r.TotalRewrites(); total > 0 {
		labels := make([]string, 0, len(r.References))
		for label := range r.References {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		parts := make([]string, 0, len(labels))
		for _, label := range labels {
			parts = append(parts, fmt.Sprintf("%s %d", label, r.References[label]))
		}
		fmt.Fprintf(&b, " (%d references: %s)", total, strings.Join(parts, ", "))
	}
	if r.HashRoutingDocs > 0 {
		fmt.Fprintf(&b, ", %d hash-routing", r.HashRoutingDocs)
	}
	if r.SkippedRoutes > 0 {
		fmt.Fprintf(&b, ", %d routes skipped", r.SkippedRoutes)
	}
	if n := len(r.Failures); n > 0 {
		fmt.Fprintf(&b, ", %d failed", n)
	}
	return b.String()
}

// Package verify checks that a transformed output tree actually resolves
// from disk: every local reference of every routed document must point at a
// file that exists. This catches the silent breakage mode where a rewrite
// produced a syntactically valid but dangling target.
package verify

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/deskwrap/internal/logfields"
	"git.home.luguber.info/inful/deskwrap/internal/manifest"
)

// Finding is one reference whose target is missing.
type Finding struct {
	Document  string // root-relative document path
	Reference string // raw attribute value
	Target    string // filesystem path that was checked
	Tag       string
	Attribute string
}

// Report summarizes a verification pass.
type Report struct {
	Documents int
	Checked   int
	Findings  []Finding
}

// OK reports whether every checked reference resolved.
func (r *Report) OK() bool {
	return len(r.Findings) == 0
}

// Verifier checks routed documents under one output root.
type Verifier struct {
	root      string
	publisher Publisher
}

// New builds a Verifier for the output root. publisher may be nil.
func New(root string, publisher Publisher) *Verifier {
	return &Verifier{root: root, publisher: publisher}
}

// VerifyRoutes checks every routed document and returns the findings.
// Publishing failures never fail the pass; the report stands on its own.
func (v *Verifier) VerifyRoutes(ctx context.Context, routes []manifest.Route, buildID string) (*Report, error) {
	report := &Report{}

	for _, route := range routes {
		if route.OutputFile == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		findings, checked, err := v.verifyDocument(route.OutputFile)
		if err != nil {
			return report, fmt.Errorf("verifying %s: %w", route.OutputFile, err)
		}
		report.Documents++
		report.Checked += checked
		report.Findings = append(report.Findings, findings...)
	}

	for _, f := range report.Findings {
		slog.Warn("Broken reference",
			logfields.Document(f.Document),
			slog.String("reference", f.Reference),
			logfields.Path(f.Target))
		v.publish(ctx, f, buildID)
	}

	slog.Info("Verification finished",
		logfields.Count(report.Checked),
		slog.Int("documents", report.Documents),
		slog.Int("broken", len(report.Findings)))
	return report, nil
}

func (v *Verifier) verifyDocument(outputFile string) ([]Finding, int, error) {
	docPath := filepath.Join(v.root, filepath.FromSlash(outputFile))
	file, err := os.Open(docPath)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	refs, err := extractReferences(file)
	if err != nil {
		return nil, 0, err
	}

	docDir := path.Dir(outputFile)
	var findings []Finding
	checked := 0
	for _, ref := range refs {
		target, ok := v.resolveTarget(docDir, ref.Value)
		if !ok {
			continue
		}
		checked++
		if _, err := os.Stat(target); err != nil {
			findings = append(findings, Finding{
				Document:  outputFile,
				Reference: ref.Value,
				Target:    target,
				Tag:       ref.Tag,
				Attribute: ref.Attribute,
			})
		}
	}
	return findings, checked, nil
}

// resolveTarget maps a reference to the filesystem path it must hit, or
// reports it out of scope. Hash routes, in-page fragments, and non-file
// schemes resolve client-side or remotely and are never checked.
func (v *Verifier) resolveTarget(docDir, ref string) (string, bool) {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return "", false
	}

	if strings.HasPrefix(ref, "file://") {
		p := stripQueryFragment(strings.TrimPrefix(ref, "file://"))
		return filepath.FromSlash(p), true
	}

	if u, err := url.Parse(ref); err != nil || u.Scheme != "" {
		return "", false
	}

	p := stripQueryFragment(ref)
	if p == "" {
		return "", false
	}
	if strings.HasPrefix(p, "/") {
		// Root-absolute references should not survive a transform; check
		// them against the output root so they surface as findings when
		// they dangle.
		return filepath.Join(v.root, filepath.FromSlash(p)), true
	}
	return filepath.Join(v.root, filepath.FromSlash(path.Join(docDir, p))), true
}

func stripQueryFragment(p string) string {
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	if i := strings.IndexByte(p, '#'); i >= 0 {
		p = p[:i]
	}
	return p
}

func (v *Verifier) publish(ctx context.Context, f Finding, buildID string) {
	if v.publisher == nil {
		return
	}
	event := &BrokenReferenceEvent{
		Document:  f.Document,
		Reference: f.Reference,
		Target:    f.Target,
		Tag:       f.Tag,
		Attribute: f.Attribute,
		BuildID:   buildID,
	}
	if err := v.publisher.PublishBroken(ctx, event); err != nil {
		slog.Warn("Failed to publish broken reference event", logfields.Error(err))
	}
}

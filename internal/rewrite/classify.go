package rewrite

import (
	"path"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/deskwrap/internal/util/sets"
)

// Kind identifies the construct a reference was extracted from.
type Kind int

const (
	// KindAttribute covers href/src/to attribute values.
	KindAttribute Kind = iota
	// KindHydration covers hydration markers (hydrate, component-url, renderer-url).
	KindHydration
	// KindImport covers dynamic import specifiers.
	KindImport
)

// Policy is the rewrite decision for one reference.
type Policy int

const (
	// PolicyKeep leaves the value byte-identical.
	PolicyKeep Policy = iota
	// PolicyHashRoute turns a page link into a client-side hash fragment.
	PolicyHashRoute
	// PolicyAssetRelative points a build asset at the document's own directory.
	PolicyAssetRelative
	// PolicyLocalFile resolves a page link to an absolute file:// locator.
	PolicyLocalFile
)

// String returns the short label used for metrics and report counters.
func (p Policy) String() string {
	switch p {
	case PolicyHashRoute:
		return "hash"
	case PolicyAssetRelative:
		return "relative"
	case PolicyLocalFile:
		return "file"
	default:
		return "keep"
	}
}

// Classification is the classifier outcome for one reference.
// For PolicyKeep, PolicyHashRoute and PolicyAssetRelative, Value is the final
// replacement string. For PolicyLocalFile, Value is the output-root-relative
// target (index.html resolution applied); the engine owns the file:// prefix
// because only it knows the output root.
type Classification struct {
	Policy Policy
	Value  string
}

// assetExtensions are the script, stylesheet, image and icon formats emitted
// into the build output. References ending in one of these stay colocated with
// the document and are rewritten document-relative, never to hash routes or
// file locators.
var assetExtensions = sets.New(
	".js", ".mjs", ".cjs", ".css",
	".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".avif",
	".ico", ".icns",
	".woff", ".woff2", ".ttf",
)

// schemePattern matches scheme-qualified values (https:, file:, mailto:,
// data: …). The scheme needs two or more characters so Windows drive prefixes
// like C:/ are not mistaken for schemes.
var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]+:`)

// Classify maps one raw reference value to its rewrite policy. Rules apply in
// priority order, first match wins. Values that fit no rule are left
// unchanged; an unrecognized reference is safer untouched than guessed at.
func Classify(raw string, kind Kind, hashRoutingDoc bool, assetDir string) Classification {
	// Routing hashes resolve entirely client-side and must never become
	// filesystem paths. Canonical form drops the single leading slash.
	if strings.HasPrefix(raw, "#/") {
		return Classification{PolicyKeep, raw}
	}
	if strings.HasPrefix(raw, "/#/") {
		return Classification{PolicyHashRoute, raw[1:]}
	}

	if skipValue(raw) {
		return Classification{PolicyKeep, raw}
	}

	// Already-relative values are correct for local-file loading as emitted.
	if strings.HasPrefix(raw, "./") || strings.HasPrefix(raw, "../") {
		return Classification{PolicyKeep, raw}
	}

	rooted := strings.HasPrefix(raw, "/")
	cleaned := strings.TrimPrefix(strings.TrimLeft(raw, "/"), "./")

	if kind == KindImport && strings.HasPrefix(cleaned, assetDir+"/") {
		return Classification{PolicyAssetRelative, "./" + cleaned}
	}

	if assetExtensions.Has(extOf(cleaned)) {
		return Classification{PolicyAssetRelative, "./" + cleaned}
	}

	// Bare page links (no leading slash) stay relative to wherever the
	// document lives; only root-absolute links are re-resolved.
	if !rooted {
		return Classification{PolicyKeep, raw}
	}

	if hashRoutingDoc {
		target, frag := splitFragment(cleaned)
		return Classification{PolicyHashRoute, "#/" + strings.TrimSuffix(target, "/") + frag}
	}

	return Classification{PolicyLocalFile, localFileTarget(cleaned)}
}

// skipValue reports values no rule may touch: empty strings, bare in-page
// fragments, scheme-qualified URLs and protocol-relative URLs.
func skipValue(raw string) bool {
	return raw == "" ||
		strings.HasPrefix(raw, "#") ||
		strings.HasPrefix(raw, "//") ||
		schemePattern.MatchString(raw)
}

// localFileTarget resolves a cleaned root-relative page path to the document
// the static server would have served: directories gain index.html, targets
// without an extension resolve to their directory index, explicit documents
// pass through. In-page fragments survive the resolution.
func localFileTarget(cleaned string) string {
	target, frag := splitFragment(cleaned)
	switch {
	case target == "":
		return "index.html" + frag
	case strings.HasSuffix(target, "/"):
		return target + "index.html" + frag
	case extOf(target) == "":
		return target + "/index.html" + frag
	default:
		return target + frag
	}
}

func splitFragment(v string) (target, frag string) {
	if i := strings.IndexByte(v, '#'); i >= 0 {
		return v[:i], v[i:]
	}
	return v, ""
}

// extOf extracts the lowercased file extension, ignoring query and fragment
// suffixes.
func extOf(v string) string {
	if i := strings.IndexByte(v, '?'); i >= 0 {
		v = v[:i]
	}
	v, _ = splitFragment(v)
	return strings.ToLower(path.Ext(v))
}

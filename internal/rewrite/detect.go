package rewrite

import (
	"regexp"
	"strings"
)

// DefaultRouterSignatures are router-factory call names whose presence marks a
// document as hash-routing. The list is injectable through Config so new
// routing libraries can be recognized without touching classification logic.
var DefaultRouterSignatures = []string{
	"createHashRouter",
	"createWebHashHistory",
	"createHashHistory",
	"HashRouter",
	"useHashLocation",
}

// hashModePattern matches router config literals like mode: "hash" or
// type: 'hash'.
var hashModePattern = regexp.MustCompile(`(?:mode|type)\s*:\s*["']hash["']`)

// DetectHashRouting reports whether a document serves client-side hash-routed
// content. This is a best-effort substring heuristic: unlisted routing
// libraries are missed, and a signature inside a comment counts as a hit.
// Callers treat the result as a hint, never a guarantee.
func DetectHashRouting(text, docPath string, signatures []string) bool {
	for _, sig := range signatures {
		if strings.Contains(text, sig) {
			return true
		}
	}
	if hashModePattern.MatchString(text) {
		return true
	}
	return strings.Contains(strings.ToLower(docPath), "router")
}

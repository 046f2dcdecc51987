package rewrite

import (
	"regexp"
	"strings"
)

// Attribute scanning is anchored to literal attribute syntax (attr="value")
// so attribute-name substrings inside unrelated script text don't match. The
// leading whitespace group pins matches to real tag attributes; dynamic
// imports anchor on call syntax instead.
var (
	attrLinkPattern  = regexp.MustCompile(`(\s(?:href|src|to)\s*=\s*")([^"]*)(")`)
	hydrationPattern = regexp.MustCompile(`(\s(?:hydrate|component-url|renderer-url)\s*=\s*")([^"]*)(")`)
	importPattern    = regexp.MustCompile(`(import\(\s*)(?:"([^"]+)"|'([^']+)')(\s*\))`)
)

// docStats aggregates what one document rewrite changed.
type docStats struct {
	policies map[string]int // policy label -> applied rewrites
	hashDoc  bool
	changed  bool
}

// RewriteDocument applies the full reference transform to one document's
// text: hash-routing detection, attribute/hydration/import rewriting, and the
// final asset-prefix cleanup. Pure text in, text out; no filesystem access.
// Running it on its own output is a no-op.
func (e *Engine) RewriteDocument(text, docPath string) string {
	out, _ := e.transformText(text, docPath, false)
	return out
}

func (e *Engine) transformText(text, docPath string, forceHash bool) (string, docStats) {
	stats := docStats{policies: map[string]int{}}
	stats.hashDoc = forceHash || DetectHashRouting(text, docPath, e.signatures)

	out := e.rewriteAttributes(text, attrLinkPattern, KindAttribute, stats.hashDoc, &stats)
	out = e.rewriteAttributes(out, hydrationPattern, KindHydration, stats.hashDoc, &stats)
	out = e.rewriteImports(out, stats.hashDoc, &stats)
	out = e.cleanupAssetPrefixes(out)

	stats.changed = out != text
	return out, stats
}

// rewriteAttributes rewrites every double-quoted attribute value matched by
// pattern. The three capture groups are prefix (through the opening quote),
// value, and closing quote.
func (e *Engine) rewriteAttributes(text string, pattern *regexp.Regexp, kind Kind, hashDoc bool, stats *docStats) string {
	return pattern.ReplaceAllStringFunc(text, func(match string) string {
		sub := pattern.FindStringSubmatch(match)
		if len(sub) < 4 {
			return match
		}
		c := Classify(sub[2], kind, hashDoc, e.assetDir)
		replacement := e.replacementFor(c)
		if replacement == sub[2] {
			return match
		}
		stats.policies[c.Policy.String()]++
		return sub[1] + replacement + sub[3]
	})
}

// rewriteImports rewrites dynamic import specifiers, preserving whichever
// quote style the bundler emitted.
func (e *Engine) rewriteImports(text string, hashDoc bool, stats *docStats) string {
	return importPattern.ReplaceAllStringFunc(text, func(match string) string {
		sub := importPattern.FindStringSubmatch(match)
		if len(sub) < 5 {
			return match
		}
		value, quote := sub[2], `"`
		if value == "" {
			value, quote = sub[3], `'`
		}
		c := Classify(value, KindImport, hashDoc, e.assetDir)
		replacement := e.replacementFor(c)
		if replacement == value {
			return match
		}
		stats.policies[c.Policy.String()]++
		return sub[1] + quote + replacement + quote + sub[4]
	})
}

// replacementFor turns a classification into the literal substitution text.
// Only the engine knows the output root, so file locators compose here.
func (e *Engine) replacementFor(c Classification) string {
	if c.Policy == PolicyLocalFile {
		return localFileURL(e.outputRoot, c.Value)
	}
	return c.Value
}

// cleanupAssetPrefixes collapses residual "/./<assetDir> references left by
// rule ordering into clean "./<assetDir> form, for both quote styles.
func (e *Engine) cleanupAssetPrefixes(text string) string {
	out := strings.ReplaceAll(text, `"/./`+e.assetDir, `"./`+e.assetDir)
	return strings.ReplaceAll(out, `'/./`+e.assetDir, `'./`+e.assetDir)
}

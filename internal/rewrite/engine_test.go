package rewrite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/deskwrap/internal/manifest"
)

const staticSiteDoc = `<!doctype html>
<html lang="en">
<head>
<link rel="stylesheet" href="/_astro/index.38fc2d.css">
<script type="module" src="/_astro/main.e41ab2.js"></script>
</head>
<body>
<a href="/about">About</a>
<a href="/blog/">Blog</a>
<a href="#/legacy">Legacy</a>
<a href="https://example.com">Site</a>
<img src="/_astro/hero.77ac01.png" alt="">
</body>
</html>`

const staticSiteWant = `<!doctype html>
<html lang="en">
<head>
<link rel="stylesheet" href="./_astro/index.38fc2d.css">
<script type="module" src="./_astro/main.e41ab2.js"></script>
</head>
<body>
<a href="file:///out/about/index.html">About</a>
<a href="file:///out/blog/index.html">Blog</a>
<a href="#/legacy">Legacy</a>
<a href="https://example.com">Site</a>
<img src="./_astro/hero.77ac01.png" alt="">
</body>
</html>`

func newTestEngine(root string) *Engine {
	return New(Config{OutputRoot: root, AssetDir: "_astro", Concurrency: 2})
}

func TestRewriteDocumentStaticSite(t *testing.T) {
	e := newTestEngine("/out")
	got := e.RewriteDocument(staticSiteDoc, "/out/index.html")
	assert.Equal(t, staticSiteWant, got)
}

func TestRewriteDocumentHashRouting(t *testing.T) {
	doc := `<html>
<head><script type="module" src="/_astro/spa.9b2c41.js">const router = createHashRouter(routes);</script></head>
<body>
<a href="/about">About</a>
<a href="/docs/">Docs</a>
<div to="/settings"></div>
<img src="/_astro/hero.77ac01.png">
</body>
</html>`

	want := `<html>
<head><script type="module" src="./_astro/spa.9b2c41.js">const router = createHashRouter(routes);</script></head>
<body>
<a href="#/about">About</a>
<a href="#/docs">Docs</a>
<div to="#/settings"></div>
<img src="./_astro/hero.77ac01.png">
</body>
</html>`

	e := newTestEngine("/out")
	assert.Equal(t, want, e.RewriteDocument(doc, "/out/index.html"))
}

func TestRewriteDocumentHydrationMarkers(t *testing.T) {
	doc := `<astro-island component-url="/_astro/Counter.1a2b3c.js" renderer-url="/_astro/client.4d5e6f.js" hydrate="idle"></astro-island>`
	want := `<astro-island component-url="./_astro/Counter.1a2b3c.js" renderer-url="./_astro/client.4d5e6f.js" hydrate="idle"></astro-island>`

	e := newTestEngine("/out")
	assert.Equal(t, want, e.RewriteDocument(doc, "/out/index.html"))
}

func TestRewriteDocumentDynamicImports(t *testing.T) {
	doc := `<script type="module">
const counter = await import("/_astro/Counter.52ab1c.js");
const island = await import('/_astro/Island.9f31e0.js');
const runtime = await import("astro/client");
</script>`
	want := `<script type="module">
const counter = await import("./_astro/Counter.52ab1c.js");
const island = await import('./_astro/Island.9f31e0.js');
const runtime = await import("astro/client");
</script>`

	e := newTestEngine("/out")
	assert.Equal(t, want, e.RewriteDocument(doc, "/out/index.html"))
}

// Asset references that only appear inside script text still get the
// "/./<assetDir> cleanup even though no attribute pattern matches them.
func TestRewriteDocumentCleanupPass(t *testing.T) {
	doc := `<script>const u = "/./_astro/data.bin"; const v = '/./_astro/other.bin';</script>`
	want := `<script>const u = "./_astro/data.bin"; const v = './_astro/other.bin';</script>`

	e := newTestEngine("/out")
	assert.Equal(t, want, e.RewriteDocument(doc, "/out/index.html"))
}

func TestRewriteDocumentIdempotent(t *testing.T) {
	docs := map[string]string{
		"static site":  staticSiteDoc,
		"hash routing": staticSiteDoc + `<script>createWebHashHistory()</script>`,
	}

	e := newTestEngine("/out")
	for name, doc := range docs {
		first := e.RewriteDocument(doc, "/out/index.html")
		second := e.RewriteDocument(first, "/out/index.html")
		assert.Equal(t, first, second, "%s document must survive a second pass unchanged", name)
	}
}

func TestRewriteDocumentWindowsRoot(t *testing.T) {
	e := New(Config{OutputRoot: `C:\proj\dist`, AssetDir: "_astro"})
	got := e.RewriteDocument(`<a href="/about">About</a>`, "C:/proj/dist/index.html")
	assert.Equal(t, `<a href="file://C:/proj/dist/about/index.html">About</a>`, got)
}

func writeDoc(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func readDoc(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestProcessRoutesRewritesOnDisk(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "index.html", `<a href="/about">About</a> <img src="/_astro/logo.3f.png">`)
	writeDoc(t, root, "about/index.html", `<a href="/">Home</a>`)

	routes := []manifest.Route{
		{Pattern: "/", OutputFile: "index.html"},
		{Pattern: "/about", OutputFile: "about/index.html"},
	}

	e := newTestEngine(root)
	report, err := e.ProcessRoutes(context.Background(), routes)
	require.NoError(t, err)

	assert.Equal(t, OutcomeSuccess, report.Outcome)
	assert.NotEmpty(t, report.BuildID)
	assert.Equal(t, 2, report.Documents)
	assert.Equal(t, 2, report.RewrittenDocs)
	assert.Equal(t, 0, report.HashRoutingDocs)
	assert.Equal(t, 2, report.References["file"])
	assert.Equal(t, 1, report.References["relative"])
	assert.Equal(t, 3, report.TotalRewrites())

	normRoot := NormalizePath(root)
	index := readDoc(t, root, "index.html")
	assert.Contains(t, index, `href="file://`+normRoot+`/about/index.html"`)
	assert.Contains(t, index, `src="./_astro/logo.3f.png"`)

	about := readDoc(t, root, "about/index.html")
	assert.Contains(t, about, `href="file://`+normRoot+`/index.html"`)
}

func TestProcessRoutesForcedHashRoutes(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "app/settings/index.html",
		`<a href="/app/profile">Profile</a> <img src="/_astro/icon.9a.svg">`)
	writeDoc(t, root, "about/index.html", `<a href="/contact">Contact</a>`)

	e := New(Config{
		OutputRoot:  root,
		Concurrency: 1,
		HashRoutes:  []string{"/app/*"},
	})
	report, err := e.ProcessRoutes(context.Background(), []manifest.Route{
		{Pattern: "/app/settings", OutputFile: "app/settings/index.html"},
		{Pattern: "/about", OutputFile: "about/index.html"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.HashRoutingDocs)

	// No router signature in the document text; the route pattern alone
	// forces hash mode, while assets stay document-relative.
	app := readDoc(t, root, "app/settings/index.html")
	assert.Contains(t, app, `href="#/app/profile"`)
	assert.Contains(t, app, `src="./_astro/icon.9a.svg"`)

	about := readDoc(t, root, "about/index.html")
	assert.Contains(t, about, `href="file://`+NormalizePath(root)+`/contact/index.html"`)
}

func TestProcessRoutesWithCache(t *testing.T) {
	root := t.TempDir()
	const emitted = `<a href="/about">About</a> <img src="/_astro/logo.3f.png">`
	writeDoc(t, root, "index.html", emitted)

	routes := []manifest.Route{{Pattern: "/", OutputFile: "index.html"}}
	e := New(Config{OutputRoot: root, Concurrency: 1, CacheSize: 16})

	first, err := e.ProcessRoutes(context.Background(), routes)
	require.NoError(t, err)
	rewritten := readDoc(t, root, "index.html")

	// A framework rebuild re-emits the identical raw document; the cached
	// transform must still land the rewritten bytes on disk.
	writeDoc(t, root, "index.html", emitted)
	second, err := e.ProcessRoutes(context.Background(), routes)
	require.NoError(t, err)

	assert.Equal(t, rewritten, readDoc(t, root, "index.html"))
	assert.Equal(t, first.RewrittenDocs, second.RewrittenDocs)
	assert.Equal(t, first.References, second.References)

	// Without a rebuild the document is already portable.
	third, err := e.ProcessRoutes(context.Background(), routes)
	require.NoError(t, err)
	assert.Equal(t, 0, third.RewrittenDocs)
	assert.Equal(t, 1, third.Documents)
}

func TestProcessRoutesFailureIsolation(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "good/index.html", `<a href="/">Home</a>`)

	routes := []manifest.Route{
		{Pattern: "/missing", OutputFile: "missing/index.html"},
		{Pattern: "/good", OutputFile: "good/index.html"},
	}

	e := newTestEngine(root)
	report, err := e.ProcessRoutes(context.Background(), routes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing/index.html")

	assert.Equal(t, OutcomeFailed, report.Outcome)
	assert.Equal(t, 2, report.Documents)
	assert.Equal(t, 1, report.RewrittenDocs)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "missing/index.html", report.Failures[0].Path)

	// The failing sibling must not keep the healthy document from being
	// rewritten.
	assert.Contains(t, readDoc(t, root, "good/index.html"), `href="file://`+NormalizePath(root)+`/index.html"`)
}

func TestProcessRoutesSkipsRoutesWithoutDocument(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "index.html", `<a href="./ok.css">`)

	routes := []manifest.Route{
		{Pattern: "/", OutputFile: "index.html"},
		{Pattern: "/api/feed", OutputFile: ""},
	}

	e := newTestEngine(root)
	report, err := e.ProcessRoutes(context.Background(), routes)
	require.NoError(t, err)

	assert.Equal(t, 1, report.SkippedRoutes)
	assert.Equal(t, 1, report.Documents)
	assert.Equal(t, 0, report.RewrittenDocs, "an already portable document is left untouched")
}

func TestProcessRoutesCanceled(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "index.html", `<a href="/about">About</a>`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := newTestEngine(root)
	report, err := e.ProcessRoutes(ctx, []manifest.Route{{Pattern: "/", OutputFile: "index.html"}})
	require.Error(t, err)
	assert.Equal(t, OutcomeCanceled, report.Outcome)
}

func TestRunBoundedPreservesOrder(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	results := runBounded(context.Background(), items, 2, func(_ context.Context, n int) (int, error) {
		return n * 10, nil
	})

	require.Len(t, results, len(items))
	for i, res := range results {
		require.NoError(t, res.err)
		assert.Equal(t, (i+1)*10, res.value)
	}
}

func TestReportSummary(t *testing.T) {
	r := NewReport()
	r.Documents = 14
	r.RewrittenDocs = 12
	r.References["file"] = 30
	r.References["relative"] = 12
	r.References["hash"] = 6
	r.HashRoutingDocs = 2
	r.Failures = append(r.Failures, DocumentFailure{Path: "broken/index.html", Err: os.ErrNotExist})

	got := r.Summary()
	assert.Contains(t, got, "rewrote 12/14 documents")
	assert.Contains(t, got, "48 references")
	assert.Contains(t, got, "file 30")
	assert.Contains(t, got, "hash 6")
	assert.Contains(t, got, "2 hash-routing")
	assert.Contains(t, got, "1 failed")
}

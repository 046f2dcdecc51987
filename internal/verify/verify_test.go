package verify

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/deskwrap/internal/manifest"
)

type capturePublisher struct {
	events []*BrokenReferenceEvent
}

func (c *capturePublisher) PublishBroken(_ context.Context, e *BrokenReferenceEvent) error {
	c.events = append(c.events, e)
	return nil
}

func (c *capturePublisher) Close() error { return nil }

func writeOut(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestExtractReferences(t *testing.T) {
	doc := `<html><head>
<link rel="stylesheet" href="./_astro/index.css">
<script type="module" src="./_astro/main.js"></script>
</head><body>
<a href="file:///out/about/index.html">About</a>
<img src="./_astro/hero.png" alt="">
<astro-island component-url="./_astro/Counter.js" renderer-url="./_astro/client.js"></astro-island>
<a>no href</a>
</body></html>`

	refs, err := extractReferences(strings.NewReader(doc))
	require.NoError(t, err)

	values := make([]string, len(refs))
	for i, r := range refs {
		values[i] = r.Value
	}
	assert.Equal(t, []string{
		"./_astro/index.css",
		"./_astro/main.js",
		"file:///out/about/index.html",
		"./_astro/hero.png",
		"./_astro/Counter.js",
		"./_astro/client.js",
	}, values)
	assert.Equal(t, "link", refs[0].Tag)
	assert.Equal(t, "component-url", refs[4].Attribute)
}

func TestVerifyRoutesAllResolved(t *testing.T) {
	root := t.TempDir()
	writeOut(t, root, "_astro/app.css", "body{}")
	writeOut(t, root, "about/index.html", `<html><body>ok</body></html>`)
	writeOut(t, root, "index.html",
		`<html><head><link rel="stylesheet" href="./_astro/app.css"></head>
<body><a href="file://`+root+`/about/index.html">About</a>
<a href="https://example.com">external</a>
<a href="#/settings">hash route</a>
<a href="#top">fragment</a></body></html>`)

	v := New(root, nil)
	report, err := v.VerifyRoutes(context.Background(), []manifest.Route{
		{Pattern: "/", OutputFile: "index.html"},
		{Pattern: "/about", OutputFile: "about/index.html"},
	}, "build-1")
	require.NoError(t, err)

	assert.True(t, report.OK())
	assert.Equal(t, 2, report.Documents)
	assert.Equal(t, 2, report.Checked, "external, hash and fragment references are out of scope")
}

func TestVerifyRoutesFindsBrokenReferences(t *testing.T) {
	root := t.TempDir()
	writeOut(t, root, "index.html",
		`<html><body>
<img src="./_astro/missing.png">
<a href="file://`+root+`/gone/index.html">Gone</a>
</body></html>`)

	pub := &capturePublisher{}
	v := New(root, pub)
	report, err := v.VerifyRoutes(context.Background(), []manifest.Route{
		{Pattern: "/", OutputFile: "index.html"},
	}, "build-7")
	require.NoError(t, err)

	assert.False(t, report.OK())
	require.Len(t, report.Findings, 2)
	assert.Equal(t, "./_astro/missing.png", report.Findings[0].Reference)
	assert.Equal(t, "index.html", report.Findings[0].Document)

	require.Len(t, pub.events, 2)
	assert.Equal(t, "build-7", pub.events[0].BuildID)
	assert.Equal(t, "./_astro/missing.png", pub.events[0].Reference)
}

func TestVerifyRoutesQueryAndFragmentStripped(t *testing.T) {
	root := t.TempDir()
	writeOut(t, root, "_astro/sprite.svg", "<svg/>")
	writeOut(t, root, "index.html",
		`<html><body><img src="./_astro/sprite.svg#icon"><script src="./_astro/sprite.svg?v=2"></script></body></html>`)

	v := New(root, nil)
	report, err := v.VerifyRoutes(context.Background(), []manifest.Route{
		{Pattern: "/", OutputFile: "index.html"},
	}, "")
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 2, report.Checked)
}

func TestVerifyRoutesSkipsUnroutedDocuments(t *testing.T) {
	root := t.TempDir()
	v := New(root, nil)
	report, err := v.VerifyRoutes(context.Background(), []manifest.Route{
		{Pattern: "/api", OutputFile: ""},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, 0, report.Documents)
}

func TestVerifyRoutesMissingDocument(t *testing.T) {
	v := New(t.TempDir(), nil)
	_, err := v.VerifyRoutes(context.Background(), []manifest.Route{
		{Pattern: "/", OutputFile: "index.html"},
	}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index.html")
}

package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		kind       Kind
		hashDoc    bool
		wantPolicy Policy
		wantValue  string
	}{
		{
			name:       "Hash route stays byte-identical",
			raw:        "#/settings",
			kind:       KindAttribute,
			wantPolicy: PolicyKeep,
			wantValue:  "#/settings",
		},
		{
			name:       "Slash-prefixed hash route drops the slash",
			raw:        "/#/settings",
			kind:       KindAttribute,
			wantPolicy: PolicyHashRoute,
			wantValue:  "#/settings",
		},
		{
			name:       "Bare hash root form",
			raw:        "/#/",
			kind:       KindAttribute,
			wantPolicy: PolicyHashRoute,
			wantValue:  "#/",
		},
		{
			name:       "Empty value untouched",
			raw:        "",
			kind:       KindAttribute,
			wantPolicy: PolicyKeep,
			wantValue:  "",
		},
		{
			name:       "In-page fragment untouched",
			raw:        "#installation",
			kind:       KindAttribute,
			wantPolicy: PolicyKeep,
			wantValue:  "#installation",
		},
		{
			name:       "Absolute URL untouched",
			raw:        "https://example.com/logo.png",
			kind:       KindAttribute,
			wantPolicy: PolicyKeep,
			wantValue:  "https://example.com/logo.png",
		},
		{
			name:       "Mailto untouched",
			raw:        "mailto:team@example.com",
			kind:       KindAttribute,
			wantPolicy: PolicyKeep,
			wantValue:  "mailto:team@example.com",
		},
		{
			name:       "Data URI untouched",
			raw:        "data:image/png;base64,iVBOR",
			kind:       KindAttribute,
			wantPolicy: PolicyKeep,
			wantValue:  "data:image/png;base64,iVBOR",
		},
		{
			name:       "Protocol-relative URL untouched",
			raw:        "//cdn.example.com/lib.js",
			kind:       KindAttribute,
			wantPolicy: PolicyKeep,
			wantValue:  "//cdn.example.com/lib.js",
		},
		{
			name:       "Explicitly relative path untouched",
			raw:        "./chunk.js",
			kind:       KindAttribute,
			wantPolicy: PolicyKeep,
			wantValue:  "./chunk.js",
		},
		{
			name:       "Parent-relative path untouched",
			raw:        "../shared/logo.svg",
			kind:       KindAttribute,
			wantPolicy: PolicyKeep,
			wantValue:  "../shared/logo.svg",
		},
		{
			name:       "Root-relative asset becomes document-relative",
			raw:        "/_astro/index.38fc2d.css",
			kind:       KindAttribute,
			wantPolicy: PolicyAssetRelative,
			wantValue:  "./_astro/index.38fc2d.css",
		},
		{
			name:       "Asset extension wins over page resolution",
			raw:        "/images/hero.webp",
			kind:       KindAttribute,
			wantPolicy: PolicyAssetRelative,
			wantValue:  "./images/hero.webp",
		},
		{
			name:       "Asset keeps query string",
			raw:        "/_astro/app.js?v=2",
			kind:       KindAttribute,
			wantPolicy: PolicyAssetRelative,
			wantValue:  "./_astro/app.js?v=2",
		},
		{
			name:       "Svg sprite fragment still classifies as asset",
			raw:        "/_astro/sprite.svg#icon-close",
			kind:       KindAttribute,
			wantPolicy: PolicyAssetRelative,
			wantValue:  "./_astro/sprite.svg#icon-close",
		},
		{
			name:       "Bare asset reference gains explicit relative prefix",
			raw:        "styles.css",
			kind:       KindAttribute,
			wantPolicy: PolicyAssetRelative,
			wantValue:  "./styles.css",
		},
		{
			name:       "Import specifier under asset dir becomes relative",
			raw:        "/_astro/Counter.52ab1c.js",
			kind:       KindImport,
			wantPolicy: PolicyAssetRelative,
			wantValue:  "./_astro/Counter.52ab1c.js",
		},
		{
			name:       "Import of bare module specifier untouched",
			raw:        "astro/client",
			kind:       KindImport,
			wantPolicy: PolicyKeep,
			wantValue:  "astro/client",
		},
		{
			name:       "Hydration marker under asset dir becomes relative",
			raw:        "/_astro/Island.9f31e0.js",
			kind:       KindHydration,
			wantPolicy: PolicyAssetRelative,
			wantValue:  "./_astro/Island.9f31e0.js",
		},
		{
			name:       "Hydration directive value untouched",
			raw:        "idle",
			kind:       KindHydration,
			wantPolicy: PolicyKeep,
			wantValue:  "idle",
		},
		{
			name:       "Root page link resolves to directory index",
			raw:        "/about",
			kind:       KindAttribute,
			wantPolicy: PolicyLocalFile,
			wantValue:  "about/index.html",
		},
		{
			name:       "Site root resolves to top index",
			raw:        "/",
			kind:       KindAttribute,
			wantPolicy: PolicyLocalFile,
			wantValue:  "index.html",
		},
		{
			name:       "Directory link gains index document",
			raw:        "/blog/",
			kind:       KindAttribute,
			wantPolicy: PolicyLocalFile,
			wantValue:  "blog/index.html",
		},
		{
			name:       "Explicit document passes through",
			raw:        "/blog.html",
			kind:       KindAttribute,
			wantPolicy: PolicyLocalFile,
			wantValue:  "blog.html",
		},
		{
			name:       "Page fragment survives index resolution",
			raw:        "/about#team",
			kind:       KindAttribute,
			wantPolicy: PolicyLocalFile,
			wantValue:  "about/index.html#team",
		},
		{
			name:       "Nested page link",
			raw:        "/docs/guides/setup",
			kind:       KindAttribute,
			wantPolicy: PolicyLocalFile,
			wantValue:  "docs/guides/setup/index.html",
		},
		{
			name:       "Bare page link left for the document to resolve",
			raw:        "about",
			kind:       KindAttribute,
			wantPolicy: PolicyKeep,
			wantValue:  "about",
		},
		{
			name:       "Hash-routing document turns page link into fragment",
			raw:        "/about",
			kind:       KindAttribute,
			hashDoc:    true,
			wantPolicy: PolicyHashRoute,
			wantValue:  "#/about",
		},
		{
			name:       "Hash-routing fragment drops trailing slash",
			raw:        "/docs/",
			kind:       KindAttribute,
			hashDoc:    true,
			wantPolicy: PolicyHashRoute,
			wantValue:  "#/docs",
		},
		{
			name:       "Hash-routing root maps to bare hash",
			raw:        "/",
			kind:       KindAttribute,
			hashDoc:    true,
			wantPolicy: PolicyHashRoute,
			wantValue:  "#/",
		},
		{
			name:       "Hash-routing keeps page fragment",
			raw:        "/about#team",
			kind:       KindAttribute,
			hashDoc:    true,
			wantPolicy: PolicyHashRoute,
			wantValue:  "#/about#team",
		},
		{
			name:       "Hash-routing document still relativizes assets",
			raw:        "/_astro/main.e41ab2.js",
			kind:       KindAttribute,
			hashDoc:    true,
			wantPolicy: PolicyAssetRelative,
			wantValue:  "./_astro/main.e41ab2.js",
		},
		{
			name:       "Existing hash route untouched in hash-routing document",
			raw:        "#/about",
			kind:       KindAttribute,
			hashDoc:    true,
			wantPolicy: PolicyKeep,
			wantValue:  "#/about",
		},
		{
			name:       "Windows drive path is not a scheme",
			raw:        "C:/exports/report.html",
			kind:       KindAttribute,
			wantPolicy: PolicyKeep,
			wantValue:  "C:/exports/report.html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.raw, tt.kind, tt.hashDoc, "_astro")
			assert.Equal(t, tt.wantPolicy, got.Policy)
			assert.Equal(t, tt.wantValue, got.Value)
		})
	}
}

// Classifier outputs must classify as keep on a second pass, otherwise
// repeated builds would corrupt documents.
func TestClassifyIdempotent(t *testing.T) {
	inputs := []struct {
		raw     string
		kind    Kind
		hashDoc bool
	}{
		{"/#/settings", KindAttribute, false},
		{"/_astro/index.38fc2d.css", KindAttribute, false},
		{"/about", KindAttribute, true},
		{"/docs/", KindAttribute, true},
		{"/_astro/chunk.bb01f7.js", KindImport, false},
		{"styles.css", KindAttribute, false},
	}

	for _, in := range inputs {
		first := Classify(in.raw, in.kind, in.hashDoc, "_astro")
		second := Classify(first.Value, in.kind, in.hashDoc, "_astro")
		assert.Equal(t, PolicyKeep, second.Policy, "second pass of %q must keep", in.raw)
		assert.Equal(t, first.Value, second.Value, "second pass of %q must not change the value", in.raw)
	}
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "keep", PolicyKeep.String())
	assert.Equal(t, "hash", PolicyHashRoute.String())
	assert.Equal(t, "relative", PolicyAssetRelative.String())
	assert.Equal(t, "file", PolicyLocalFile.String())
}

func TestDetectHashRouting(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		docPath string
		want    bool
	}{
		{
			name: "React hash router factory",
			text: `<script>const r = createHashRouter(routes);</script>`,
			want: true,
		},
		{
			name: "Vue hash history",
			text: `history: createWebHashHistory(),`,
			want: true,
		},
		{
			name: "Router mode literal",
			text: `const router = new Router({ mode: "hash" });`,
			want: true,
		},
		{
			name: "Single-quoted mode literal",
			text: `new Router({mode: 'hash'})`,
			want: true,
		},
		{
			name:    "Router in document path",
			text:    `<html><body>static</body></html>`,
			docPath: "/out/router/index.html",
			want:    true,
		},
		{
			name:    "Plain static document",
			text:    `<html><a href="/about">About</a></html>`,
			docPath: "/out/index.html",
			want:    false,
		},
		{
			name: "History mode is not hash mode",
			text: `new Router({ mode: "history" })`,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectHashRouting(tt.text, tt.docPath, DefaultRouterSignatures)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Posix path unchanged", "/home/user/app/dist", "/home/user/app/dist"},
		{"Backslashes become slashes", `C:\proj\dist`, "C:/proj/dist"},
		{"Leading slash before drive stripped", "/C:/proj/dist", "C:/proj/dist"},
		{"Mixed separators", `C:\proj/dist\out`, "C:/proj/dist/out"},
		{"Posix root kept", "/", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePath(tt.in))
		})
	}
}

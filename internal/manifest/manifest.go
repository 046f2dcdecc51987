// Package manifest locates the HTML documents emitted by a framework build.
//
// Frameworks with a deskwrap adapter write a route manifest into the build
// output; Load reads it. Builds without an adapter fall back to Discover,
// which walks the output tree and derives route patterns from file paths.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileName is the route manifest written by framework adapters into the
// build output root.
const FileName = ".deskwrap-routes.json"

// Sentinel errors for manifest resolution.
var (
	ErrManifestNotFound = errors.New("route manifest not found")
	ErrManifestInvalid  = errors.New("route manifest invalid")
	ErrNoDocuments      = errors.New("no documents found in build output")
)

// Route pairs a URL pattern with the document emitted for it. Routes without
// an output file (API endpoints, redirects) carry an empty OutputFile and are
// skipped by the transform.
type Route struct {
	Pattern    string `json:"pattern"`
	OutputFile string `json:"file,omitempty"`
}

// Manifest is the set of routes produced by one framework build.
type Manifest struct {
	Routes []Route `json:"routes"`

	// Source records how the manifest was obtained: "manifest" or "discovered".
	Source string `json:"-"`
}

// DocumentCount returns the number of routes that emitted a document.
func (m *Manifest) DocumentCount() int {
	n := 0
	for _, r := range m.Routes {
		if r.OutputFile != "" {
			n++
		}
	}
	return n
}

// Load reads the adapter-written route manifest from outputRoot.
func Load(outputRoot string) (*Manifest, error) {
	path := filepath.Join(outputRoot, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
		}
		return nil, fmt.Errorf("reading route manifest %s: %w", path, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrManifestInvalid, path, err)
	}

	for i := range m.Routes {
		m.Routes[i].OutputFile = normalizeOutputFile(m.Routes[i].OutputFile)
	}
	m.Source = "manifest"
	return &m, nil
}

// Discover walks outputRoot collecting emitted HTML documents when no
// manifest exists. Route patterns are derived from file paths, so
// about/index.html yields /about and blog.html yields /blog.
func Discover(outputRoot string) (*Manifest, error) {
	var routes []Route

	err := filepath.WalkDir(outputRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Hidden directories never hold emitted pages.
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(d.Name()))
		if ext != ".html" && ext != ".htm" {
			return nil
		}

		rel, err := filepath.Rel(outputRoot, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		routes = append(routes, Route{
			Pattern:    PatternForFile(rel),
			OutputFile: rel,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking build output %s: %w", outputRoot, err)
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoDocuments, outputRoot)
	}

	sort.Slice(routes, func(i, j int) bool { return routes[i].Pattern < routes[j].Pattern })
	return &Manifest{Routes: routes, Source: "discovered"}, nil
}

// Resolve prefers the adapter manifest and falls back to discovery.
// The returned Manifest's Source tells callers which path was taken.
func Resolve(outputRoot string) (*Manifest, error) {
	m, err := Load(outputRoot)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, ErrManifestNotFound) {
		return nil, err
	}
	return Discover(outputRoot)
}

// PatternForFile derives the served route pattern from an output-relative
// document path.
func PatternForFile(rel string) string {
	p := "/" + strings.TrimPrefix(filepath.ToSlash(rel), "/")
	switch {
	case p == "/index.html":
		return "/"
	case strings.HasSuffix(p, "/index.html"):
		return strings.TrimSuffix(p, "/index.html")
	case strings.HasSuffix(p, ".html"):
		return strings.TrimSuffix(p, ".html")
	case strings.HasSuffix(p, ".htm"):
		return strings.TrimSuffix(p, ".htm")
	default:
		return p
	}
}

func normalizeOutputFile(file string) string {
	return strings.TrimPrefix(filepath.ToSlash(file), "/")
}

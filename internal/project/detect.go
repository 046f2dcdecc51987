// Package project recognizes existing frontend projects and wires the
// desktop shell into them without disturbing what the framework tooling owns.
package project

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"git.home.luguber.info/inful/deskwrap/internal/config"
	derrors "git.home.luguber.info/inful/deskwrap/internal/errors"
	"git.home.luguber.info/inful/deskwrap/internal/pkgjson"
	"git.home.luguber.info/inful/deskwrap/internal/pkgmgr"
)

// Info is what detection learned about a project directory.
type Info struct {
	Framework      string
	ConfigFile     string // framework config path relative to the root, empty when dep-detected
	OutDir         string
	AssetDir       string // versioned asset directory the framework emits
	PackageManager pkgmgr.Manager
	AppName        string
	HasShellWiring bool
}

type frameworkSpec struct {
	name     string
	configs  []string
	deps     []string
	outDir   string
	assetDir string
}

// Order matters: SvelteKit and Astro projects also carry a Vite config, so
// the more specific frameworks come first.
var frameworks = []frameworkSpec{
	{name: "astro", configs: []string{"astro.config.mjs", "astro.config.ts", "astro.config.js"}, deps: []string{"astro"}, outDir: "dist", assetDir: "_astro"},
	{name: "sveltekit", configs: []string{"svelte.config.js"}, deps: []string{"@sveltejs/kit"}, outDir: "build", assetDir: "_app"},
	{name: "nuxt", configs: []string{"nuxt.config.ts", "nuxt.config.js"}, deps: []string{"nuxt"}, outDir: "dist", assetDir: "_nuxt"},
	{name: "next", configs: []string{"next.config.js", "next.config.mjs", "next.config.ts"}, deps: []string{"next"}, outDir: "out", assetDir: "_next"},
	{name: "vite", configs: []string{"vite.config.ts", "vite.config.js", "vite.config.mjs"}, deps: []string{"vite"}, outDir: "dist", assetDir: "assets"},
}

// FrameworkUnknown marks a package.json project with no recognized framework.
const FrameworkUnknown = "unknown"

// maxConfigDepth bounds the framework-config scan so monorepo app
// subdirectories are found without crawling the whole tree.
const maxConfigDepth = 2

// Detect inspects dir and reports what lives there. A directory without a
// package.json is not a project.
func Detect(dir string) (*Info, error) {
	pj, err := pkgjson.Load(dir)
	if err != nil {
		return nil, derrors.NotAProject(dir)
	}

	info := &Info{
		Framework:      FrameworkUnknown,
		OutDir:         config.DefaultBuildOutput,
		AssetDir:       config.DefaultAssetDir,
		PackageManager: pkgmgr.Detect(dir),
		AppName:        pj.Name(),
	}
	if info.AppName == "" {
		info.AppName = filepath.Base(dir)
	}

	if spec, configFile := findFrameworkConfig(dir); spec != nil {
		info.Framework = spec.name
		info.ConfigFile = configFile
		info.OutDir = spec.outDir
		info.AssetDir = spec.assetDir
	} else if spec := frameworkFromDeps(pj); spec != nil {
		info.Framework = spec.name
		info.OutDir = spec.outDir
		info.AssetDir = spec.assetDir
	}

	info.HasShellWiring = hasShellWiring(dir)
	return info, nil
}

// findFrameworkConfig walks dir to maxConfigDepth looking for a known
// framework config, honoring .gitignore. The shallowest hit wins; ties break
// by framework specificity.
func findFrameworkConfig(dir string) (*frameworkSpec, string) {
	gi := loadGitignore(dir)

	type candidate struct {
		spec  *frameworkSpec
		rel   string
		depth int
		index int
	}
	var best *candidate

	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		depth := strings.Count(rel, "/")

		if d.IsDir() {
			name := d.Name()
			if strings.HasPrefix(name, ".") || name == "node_modules" || depth >= maxConfigDepth {
				return filepath.SkipDir
			}
			if gi != nil && gi.MatchesPath(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		for i := range frameworks {
			for _, cfgName := range frameworks[i].configs {
				if d.Name() != cfgName {
					continue
				}
				c := &candidate{spec: &frameworks[i], rel: rel, depth: depth, index: i}
				if best == nil || c.depth < best.depth || (c.depth == best.depth && c.index < best.index) {
					best = c
				}
			}
		}
		return nil
	})

	if best == nil {
		return nil, ""
	}
	return best.spec, best.rel
}

func frameworkFromDeps(pj *pkgjson.File) *frameworkSpec {
	for i := range frameworks {
		for _, dep := range frameworks[i].deps {
			if pj.HasDependency(dep) {
				return &frameworks[i]
			}
		}
	}
	return nil
}

func loadGitignore(dir string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

// hasShellWiring reports whether the configured shell entry already exists.
func hasShellWiring(dir string) bool {
	entry := config.DefaultShellEntry
	cfgPath := filepath.Join(dir, config.DefaultFileName)
	if cfg, err := config.Load(cfgPath); err == nil && cfg.Shell.Entry != "" {
		entry = cfg.Shell.Entry
	}
	_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(entry)))
	return err == nil
}

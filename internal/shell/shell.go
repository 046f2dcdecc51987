// Package shell renders the desktop-shell bootstrap files a wrapped project
// needs: a window-creating entry script and a context-isolated preload. The
// shell loads the build output's index.html straight from disk, which is what
// the reference transform makes possible.
package shell

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"text/template"

	"git.home.luguber.info/inful/deskwrap/internal/config"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// ElectronVersion is the devDependency constraint wiring installs.
const ElectronVersion = "^31.0.0"

// DesktopScript rebuilds, re-transforms, and launches the shell.
const DesktopScript = "deskwrap build && electron ."

// WindowOptions shape the shell's main window.
type WindowOptions struct {
	Width      int
	Height     int
	Fullscreen bool
	DevTools   bool
}

// Params carries everything the bootstrap templates render.
type Params struct {
	AppName   string
	AppID     string
	Entry     string // entry script path relative to the project root
	OutputDir string // build output directory relative to the project root
	Window    WindowOptions
}

// ParamsFromConfig derives render parameters from a loaded configuration.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		AppName:   cfg.App.Name,
		AppID:     cfg.App.ID,
		Entry:     cfg.Shell.Entry,
		OutputDir: cfg.Build.Output,
		Window: WindowOptions{
			Width:      cfg.Shell.Width,
			Height:     cfg.Shell.Height,
			Fullscreen: cfg.Shell.Fullscreen,
			DevTools:   cfg.Shell.DevTools,
		},
	}
}

// Files renders the bootstrap set as project-root-relative path to content.
// The preload sits beside the entry script because the entry resolves it with
// __dirname.
func Files(p Params) (map[string][]byte, error) {
	if p.Entry == "" {
		p.Entry = config.DefaultShellEntry
	}
	if p.OutputDir == "" {
		p.OutputDir = config.DefaultBuildOutput
	}

	entryDir := path.Dir(p.Entry)
	out := make(map[string][]byte, 2)

	entry, err := render("main.js.tmpl", p)
	if err != nil {
		return nil, err
	}
	out[p.Entry] = entry

	preload, err := render("preload.js.tmpl", p)
	if err != nil {
		return nil, err
	}
	out[path.Join(entryDir, "preload.js")] = preload

	return out, nil
}

func render(name string, p Params) ([]byte, error) {
	tpl, err := template.New(name).Option("missingkey=error").ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("parsing shell template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("rendering shell template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Write renders the bootstrap under dir. Existing files are left alone unless
// force is set, so a re-run never clobbers user edits. Returns the
// root-relative paths actually written.
func Write(dir string, p Params, force bool) ([]string, error) {
	files, err := Files(p)
	if err != nil {
		return nil, err
	}

	var written []string
	for rel, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		if !force {
			if _, err := os.Stat(full); err == nil {
				continue
			}
		}
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return written, fmt.Errorf("creating shell directory: %w", err)
		}
		if err := os.WriteFile(full, content, 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", rel, err)
		}
		written = append(written, rel)
	}
	sort.Strings(written)
	return written, nil
}

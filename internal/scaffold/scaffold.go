// Package scaffold creates new desktop-wrapped projects from the embedded
// starter or a remote git template, then wires the shell in the same way
// detection-driven augmentation does.
package scaffold

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/deskwrap/internal/config"
	derrors "git.home.luguber.info/inful/deskwrap/internal/errors"
	"git.home.luguber.info/inful/deskwrap/internal/logfields"
	"git.home.luguber.info/inful/deskwrap/internal/pkgmgr"
	"git.home.luguber.info/inful/deskwrap/internal/project"
	"git.home.luguber.info/inful/deskwrap/internal/util/slug"
)

// Options tune Create.
type Options struct {
	// Name is the app's display name. Required.
	Name string
	// Dir is the target directory. Defaults to the slugged name.
	Dir string
	// TemplateURL selects a remote git template over the embedded starter.
	TemplateURL string
	// Manager overrides package-manager detection for the printed commands.
	Manager string
}

// Result describes the created project.
type Result struct {
	Dir                string
	Info               *project.Info
	PlaceholderWritten bool
	NextSteps          []string
}

// Create materializes a new project in its own directory. The target must
// not already contain files; Create never merges into existing work.
func Create(ctx context.Context, opts Options) (*Result, error) {
	if strings.TrimSpace(opts.Name) == "" {
		return nil, derrors.ValidationFailed("name", "an app name is required")
	}

	var manager pkgmgr.Manager
	managerChosen := opts.Manager != ""
	if managerChosen {
		var err error
		manager, err = pkgmgr.FromName(opts.Manager)
		if err != nil {
			return nil, derrors.ValidationFailed("package-manager", err.Error())
		}
	}

	slugName := slug.Make(opts.Name)
	dir := opts.Dir
	if dir == "" {
		dir = slugName
	}
	if err := ensureTarget(dir); err != nil {
		return nil, err
	}

	if opts.TemplateURL != "" {
		slog.Info("Cloning template", slog.String("url", opts.TemplateURL), logfields.Path(dir))
		if err := cloneTemplate(ctx, opts.TemplateURL, dir); err != nil {
			return nil, err
		}
	} else {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, derrors.ScaffoldFailed("create target directory", err)
		}
		if err := materializeStarter(dir, templateData{Name: opts.Name, Slug: slugName}); err != nil {
			return nil, derrors.ScaffoldFailed("materialize starter", err)
		}
	}

	augmented, err := project.Augment(dir, project.Options{AppName: opts.Name})
	if err != nil {
		return nil, err
	}

	if !managerChosen {
		manager = augmented.Info.PackageManager
	}

	cfg, err := config.LoadOrDefault(filepath.Join(dir, config.DefaultFileName))
	if err != nil {
		return nil, err
	}
	placeholder, err := writeWelcomePlaceholder(dir, cfg.Build.Output, opts.Name)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Dir:                dir,
		Info:               augmented.Info,
		PlaceholderWritten: placeholder,
		NextSteps:          NextSteps(dir, manager),
	}

	slog.Info("Project created",
		logfields.App(opts.Name),
		logfields.Path(dir),
		logfields.Manager(manager.Name))
	return res, nil
}

// NextSteps lists the literal commands that take a fresh project to a
// running desktop window.
func NextSteps(dir string, m pkgmgr.Manager) []string {
	return []string{
		fmt.Sprintf("cd %s", dir),
		strings.Join(m.InstallArgs(), " "),
		strings.Join(m.RunArgs("desktop"), " "),
	}
}

func ensureTarget(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return derrors.ScaffoldFailed("inspect target directory", err)
	}
	if len(entries) > 0 {
		return derrors.New(derrors.CategoryScaffold, derrors.SeverityFatal,
			"target directory is not empty").WithContext("dir", dir)
	}
	return nil
}

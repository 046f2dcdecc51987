package project

import (
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/deskwrap/internal/config"
	"git.home.luguber.info/inful/deskwrap/internal/logfields"
	"git.home.luguber.info/inful/deskwrap/internal/pkgjson"
	"git.home.luguber.info/inful/deskwrap/internal/shell"
	"git.home.luguber.info/inful/deskwrap/internal/util/slug"
)

// Options tune Augment.
type Options struct {
	// AppName overrides the package.json name as the display name.
	AppName string
	// Force overwrites shell files and the configuration if already present.
	Force bool
}

// Result reports what Augment actually changed. A second run on the same
// project reports nothing changed.
type Result struct {
	Info            *Info
	ShellFiles      []string
	ConfigWritten   bool
	ManifestPatched bool
}

// Augment wires the desktop shell into an existing project: a tailored
// deskwrap.yaml, the shell bootstrap files, and package.json entries for the
// shell runtime. Every step skips work already done, so Augment is safe to
// re-run.
func Augment(dir string, opts Options) (*Result, error) {
	info, err := Detect(dir)
	if err != nil {
		return nil, err
	}

	appName := opts.AppName
	if appName == "" {
		appName = info.AppName
	}

	res := &Result{Info: info}

	cfgPath := filepath.Join(dir, config.DefaultFileName)
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) || opts.Force {
		cfg := config.Example(appName)
		cfg.App.ID = "com.deskwrap." + slug.Make(appName)
		cfg.Build.Output = info.OutDir
		cfg.Build.AssetDir = info.AssetDir
		if err := config.Write(cfgPath, cfg, opts.Force); err != nil {
			return nil, err
		}
		res.ConfigWritten = true
		slog.Info("Wrote configuration", logfields.Path(cfgPath))
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	params := shell.ParamsFromConfig(cfg)
	if params.AppName == "" {
		params.AppName = appName
	}
	written, err := shell.Write(dir, params, opts.Force)
	if err != nil {
		return nil, err
	}
	res.ShellFiles = written
	for _, f := range written {
		slog.Info("Wrote shell file", logfields.File(f))
	}

	pj, err := pkgjson.Load(dir)
	if err != nil {
		return nil, err
	}
	if err := pj.SetMain(cfg.Shell.Entry); err != nil {
		return nil, err
	}
	if err := pj.MergeScripts(map[string]string{"desktop": shell.DesktopScript}); err != nil {
		return nil, err
	}
	if err := pj.AddDevDependencies(map[string]string{"electron": shell.ElectronVersion}); err != nil {
		return nil, err
	}
	res.ManifestPatched = pj.Dirty()
	if err := pj.Save(); err != nil {
		return nil, err
	}
	if res.ManifestPatched {
		slog.Info("Patched package.json", logfields.App(appName))
	}

	return res, nil
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	derrors "git.home.luguber.info/inful/deskwrap/internal/errors"
	"git.home.luguber.info/inful/deskwrap/internal/scaffold"
	"git.home.luguber.info/inful/deskwrap/internal/tui"
	"git.home.luguber.info/inful/deskwrap/internal/util/slug"
)

// CreateCmd implements the 'create' command.
type CreateCmd struct {
	Name           string `arg:"" optional:"" help:"App display name"`
	Dir            string `help:"Target directory (defaults to a slug of the name)"`
	Template       string `help:"Git URL of a project template instead of the built-in starter"`
	PackageManager string `name:"package-manager" help:"Package manager for the printed commands (npm|pnpm|yarn|bun)"`
	Yes            bool   `short:"y" help:"Non-interactive: never start the wizard"`
}

func (c *CreateCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := scaffold.Options{
		Name:        c.Name,
		Dir:         c.Dir,
		TemplateURL: c.Template,
		Manager:     c.PackageManager,
	}

	if opts.Name == "" {
		if c.Yes {
			return derrors.ValidationFailed("name", "an app name is required with --yes")
		}
		answers, err := tui.Run()
		if err != nil {
			if errors.Is(err, tui.ErrAborted) {
				fmt.Println("Aborted.")
				return nil
			}
			return err
		}
		opts.Name = answers.Name
		if answers.TemplateURL != "" {
			opts.TemplateURL = answers.TemplateURL
		}
		if answers.Manager != "" {
			opts.Manager = answers.Manager
		}
	}

	if opts.Dir == "" {
		opts.Dir = slug.Make(opts.Name)
	}
	if !filepath.IsAbs(opts.Dir) {
		opts.Dir = filepath.Join(root.Dir, opts.Dir)
	}

	result, err := scaffold.Create(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Printf("Created %s in %s\n\nNext steps:\n", opts.Name, result.Dir)
	for _, step := range result.NextSteps {
		fmt.Printf("  %s\n", step)
	}
	return nil
}

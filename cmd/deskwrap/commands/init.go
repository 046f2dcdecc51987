package commands

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/deskwrap/internal/project"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Name  string `help:"App display name (defaults to the package.json name)"`
	Force bool   `help:"Overwrite existing shell files and configuration"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	result, err := project.Augment(root.Dir, project.Options{
		AppName: i.Name,
		Force:   i.Force,
	})
	if err != nil {
		return err
	}

	info := result.Info
	fmt.Printf("Detected %s project (%s)\n", info.Framework, info.PackageManager.Name)
	if result.ConfigWritten {
		fmt.Println("Wrote deskwrap.yaml")
	}
	if len(result.ShellFiles) > 0 {
		fmt.Printf("Wrote shell files: %s\n", strings.Join(result.ShellFiles, ", "))
	}
	if result.ManifestPatched {
		fmt.Println("Patched package.json (main, desktop script, electron dev dependency)")
	}
	if !result.ConfigWritten && len(result.ShellFiles) == 0 && !result.ManifestPatched {
		fmt.Println("Project already wired, nothing to do")
	}
	return nil
}

package commands

import (
	"fmt"

	"git.home.luguber.info/inful/deskwrap/internal/project"
)

// DetectCmd implements the 'detect' command.
type DetectCmd struct{}

func (d *DetectCmd) Run(_ *Global, root *CLI) error {
	info, err := project.Detect(root.Dir)
	if err != nil {
		return err
	}

	fmt.Printf("Framework:       %s\n", info.Framework)
	if info.ConfigFile != "" {
		fmt.Printf("Config file:     %s\n", info.ConfigFile)
	}
	fmt.Printf("Build output:    %s (assets in %s)\n", info.OutDir, info.AssetDir)
	fmt.Printf("Package manager: %s\n", info.PackageManager.Name)
	if info.AppName != "" {
		fmt.Printf("App name:        %s\n", info.AppName)
	}
	if info.HasShellWiring {
		fmt.Println("Shell wiring:    present")
	} else {
		fmt.Println("Shell wiring:    missing (run 'deskwrap init')")
	}
	return nil
}

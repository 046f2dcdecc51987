package commands

import (
	"fmt"

	"git.home.luguber.info/inful/deskwrap/internal/version"
)

// VersionCmd implements the 'version' command.
type VersionCmd struct {
	Check bool `help:"Check the release host for a newer version"`
}

func (v *VersionCmd) Run(_ *Global, _ *CLI) error {
	fmt.Printf("deskwrap %s (commit %s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)

	if !v.Check {
		return nil
	}
	status, err := version.CheckUpdate()
	if err != nil {
		fmt.Printf("Update check failed: %v\n", err)
		return nil
	}
	switch {
	case status.Latest == "":
		fmt.Println("Update check skipped for development builds.")
	case status.Outdated:
		fmt.Printf("A newer release is available: v%s (running %s).\n", status.Latest, status.Current)
	default:
		fmt.Println("You are on the latest release.")
	}
	return nil
}

package main

import (
	"log/slog"

	"git.home.luguber.info/inful/deskwrap/cmd/deskwrap/commands"
	derrors "git.home.luguber.info/inful/deskwrap/internal/errors"
	"github.com/alecthomas/kong"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("deskwrap"),
		kong.Description("Wrap a web framework project as a desktop app that loads straight from disk."),
		kong.UsageOnError(),
	)

	if err := ctx.Run(&commands.Global{Logger: slog.Default()}); err != nil {
		derrors.NewCLIErrorAdapter(cli.Verbose, nil).HandleError(err)
	}
}

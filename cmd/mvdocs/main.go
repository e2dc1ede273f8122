package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mvdocs/cmd/mvdocs/commands"
	ferrors "git.home.luguber.info/inful/mvdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/mvdocs/internal/version"
)

func main() {
	var cli commands.CLI
	globals := commands.NewGlobal(os.Stdout)

	ctx := kong.Parse(&cli,
		kong.Name("mvdocs"),
		kong.Description("Multi-version documentation builder"),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(globals),
	)
	err := ctx.Run(globals, &cli)
	os.Exit(ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Report(err))
}

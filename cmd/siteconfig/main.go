package main

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/siteconfig/cmd/siteconfig/commands"
	ferrors "git.home.luguber.info/inful/siteconfig/internal/foundation/errors"
	"git.home.luguber.info/inful/siteconfig/internal/version"
)

func main() {
	loadDotEnv(".env")

	cli := &commands.CLI{}
	global := commands.NewGlobal()
	parser := kong.Parse(cli,
		kong.Name("siteconfig"),
		kong.Description("Load, validate and inspect site configuration files."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)

	if err := parser.Run(cli); err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).WithOutput(global.Err, nil).HandleError(err)
	}
}

// loadDotEnv reads path into the environment when it exists. Variables
// already set win.
func loadDotEnv(path string) {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to load env file", "file", path, "error", err)
	}
}

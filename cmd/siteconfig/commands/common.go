package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/siteconfig/internal/config"
	ferrors "git.home.luguber.info/inful/siteconfig/internal/foundation/errors"
)

// Global is shared state bound into every command.
type Global struct {
	Logger *slog.Logger
	// Out receives command output; logs go to Err.
	Out io.Writer
	Err io.Writer
}

// NewGlobal returns a Global writing to the process streams.
func NewGlobal() *Global {
	return &Global{Logger: slog.Default(), Out: os.Stdout, Err: os.Stderr}
}

// Loader returns a config loader logging through g.
func (g *Global) Loader() *config.Loader {
	return config.NewLoader().WithLogger(g.Logger)
}

// CLI definition & global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path" default:"config.rb" env:"SITECONFIG_FILE"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `name:"log-format" help:"Log output format" enum:"text,json" default:"text"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Check  CheckCmd  `cmd:"" help:"Validate configuration files"`
	Show   ShowCmd   `cmd:"" help:"Print the configuration record or resolved settings"`
	Keys   KeysCmd   `cmd:"" help:"List every recognized option"`
	Init   InitCmd   `cmd:"" help:"Write an example configuration file"`
	Render RenderCmd `cmd:"" help:"Render a markdown file with the configured renderer"`
	Watch  WatchCmd  `cmd:"" help:"Reload the configuration whenever it changes"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = NewLogger(g.Err, c.LogFormat, level)
	slog.SetDefault(g.Logger)
	return nil
}

// NewLogger builds the process logger for format ("text" or "json").
func NewLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// parseEnvironments maps --env values onto known environments.
func parseEnvironments(raw []string) ([]config.Environment, error) {
	envs := make([]config.Environment, 0, len(raw))
	for _, r := range raw {
		env, err := config.ParseEnvironment(r)
		if err != nil {
			msg := fmt.Sprintf("invalid --env (valid: %s)", strings.Join(config.Environments(), ", "))
			return nil, ferrors.WrapError(err, ferrors.CategoryValidation, msg).UserAction().Build()
		}
		envs = append(envs, env)
	}
	return envs, nil
}

// configPath picks the positional file when given, else the global --config.
func configPath(arg string, root *CLI) string {
	if arg != "" {
		return arg
	}
	return root.Config
}

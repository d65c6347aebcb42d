package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/siteconfig/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Output directory for generated config file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	// With an output directory the file is named after the --config base name.
	if i.Output != "" {
		return RunInit(g, filepath.Join(i.Output, filepath.Base(root.Config)), i.Force)
	}
	return RunInit(g, root.Config, i.Force)
}

func RunInit(g *Global, configPath string, force bool) error {
	fmt.Fprintf(g.Out, "Writing %s configuration to %s\n", config.DetectFormat(configPath), configPath)
	if err := config.Init(configPath, force); err != nil {
		fmt.Fprintln(g.Out, "Initialization failed")
		return err
	}
	fmt.Fprintln(g.Out, "initialized successfully")
	return nil
}

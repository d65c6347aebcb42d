package commands

import (
	"fmt"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Files []string `arg:"" optional:"" help:"Files to validate (defaults to --config)"`
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	files := c.Files
	if len(files) == 0 {
		files = []string{root.Config}
	}
	return RunCheck(g, files)
}

// RunCheck loads each file in turn and stops at the first failure.
func RunCheck(g *Global, files []string) error {
	loader := g.Loader()
	for _, f := range files {
		rec, err := loader.Load(f)
		if err != nil {
			return err
		}
		fp := rec.Fingerprint()
		fmt.Fprintf(g.Out, "%s: ok (%s, %d options, %d environments, %s)\n",
			f, rec.Format, rec.Len(), len(rec.Environments()), fp[:12])
	}
	return nil
}

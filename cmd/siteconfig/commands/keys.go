package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"git.home.luguber.info/inful/siteconfig/internal/config"
	ferrors "git.home.luguber.info/inful/siteconfig/internal/foundation/errors"
)

// KeysCmd implements the 'keys' command.
type KeysCmd struct {
	Format   string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	Markdown bool   `short:"m" help:"List the accepted markdown flags instead of options"`
}

func (k *KeysCmd) Run(g *Global) error {
	if k.Markdown {
		return WriteMarkdownFlags(g.Out, k.Format)
	}
	return WriteKeys(g.Out, k.Format)
}

type keyInfo struct {
	Key       string `json:"key"`
	Type      string `json:"type"`
	Default   any    `json:"default"`
	Directive string `json:"directive"`
}

// WriteKeys lists every recognized option.
func WriteKeys(w io.Writer, format string) error {
	opts := config.KnownOptions()
	if format == "json" {
		out := make([]keyInfo, len(opts))
		for i, o := range opts {
			out[i] = keyInfo{Key: o.Key, Type: o.Type.String(), Default: o.Default.Interface(), Directive: o.Directive}
		}
		return writeJSON(w, out)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tTYPE\tDEFAULT\tDIRECTIVE")
	for _, o := range opts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.Key, o.Type, o.Default, o.Directive)
	}
	return tw.Flush()
}

// WriteMarkdownFlags lists the flag names accepted by set :markdown.
func WriteMarkdownFlags(w io.Writer, format string) error {
	flags := config.MarkdownFlagNames()
	if format == "json" {
		return writeJSON(w, flags)
	}
	for _, f := range flags {
		if _, err := fmt.Fprintln(w, f); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to write flags").Build()
		}
	}
	return nil
}

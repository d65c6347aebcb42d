package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/siteconfig/internal/config"
	ferrors "git.home.luguber.info/inful/siteconfig/internal/foundation/errors"
)

// ShowCmd implements the 'show' command.
type ShowCmd struct {
	File     string   `arg:"" optional:"" help:"Configuration file (defaults to --config)"`
	Env      []string `short:"e" name:"env" help:"Environment to include; repeat to overlay in order"`
	Format   string   `short:"f" default:"text" help:"Output format (text, yaml or json)" enum:"text,yaml,json"`
	Resolved bool     `short:"r" help:"Print typed settings with defaults instead of declared options"`
}

func (s *ShowCmd) Run(g *Global, root *CLI) error {
	envs, err := parseEnvironments(s.Env)
	if err != nil {
		return err
	}
	rec, err := g.Loader().Load(configPath(s.File, root))
	if err != nil {
		return err
	}
	if s.Resolved {
		return WriteSettings(g.Out, rec.Resolve(envs...), s.Format)
	}
	return WriteRecord(g.Out, rec, envs, s.Format)
}

// WriteRecord prints the declared options of rec. A non-empty envs limits
// environment scopes to those listed; global options are always included.
func WriteRecord(w io.Writer, rec *config.Record, envs []config.Environment, format string) error {
	var entries []config.Entry
	for _, e := range rec.Entries() {
		if e.Env == config.EnvGlobal || len(envs) == 0 || slices.Contains(envs, e.Env) {
			entries = append(entries, e)
		}
	}

	switch format {
	case "json":
		out := make(map[string]any, len(entries))
		for _, e := range entries {
			out[e.QualifiedKey()] = e.Value.Interface()
		}
		return writeJSON(w, out)
	case "yaml":
		doc := &yaml.Node{Kind: yaml.MappingNode}
		for _, e := range entries {
			var val yaml.Node
			if err := val.Encode(e.Value.Interface()); err != nil {
				return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to encode value").
					WithContext(ferrors.ContextKey, e.QualifiedKey()).
					Build()
			}
			doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: e.QualifiedKey()}, &val)
		}
		return writeYAML(w, doc)
	default:
		fmt.Fprintf(w, "# %s (%s) %s\n", rec.Source, rec.Format, rec.Fingerprint())
		for _, e := range entries {
			fmt.Fprintf(w, "%s = %s\n", e.QualifiedKey(), e.Value)
		}
		return nil
	}
}

// WriteSettings prints resolved settings. Text output is YAML.
func WriteSettings(w io.Writer, s *config.Settings, format string) error {
	if format == "json" {
		return writeJSON(w, s)
	}
	return writeYAML(w, s)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to encode json").Build()
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to encode yaml").Build()
	}
	if err := enc.Close(); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to encode yaml").Build()
	}
	return nil
}

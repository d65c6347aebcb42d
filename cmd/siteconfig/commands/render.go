package commands

import (
	"bytes"
	"log/slog"
	"os"
	"strings"

	"git.home.luguber.info/inful/siteconfig/internal/config"
	ferrors "git.home.luguber.info/inful/siteconfig/internal/foundation/errors"
	"git.home.luguber.info/inful/siteconfig/internal/logfields"
	"git.home.luguber.info/inful/siteconfig/internal/render"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	File string   `arg:"" help:"Markdown file to render"`
	Env  []string `short:"e" name:"env" help:"Environment to activate; repeat to overlay in order"`
	CSS  bool     `help:"Prepend a <style> block for class-based highlighting"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	envs, err := parseEnvironments(r.Env)
	if err != nil {
		return err
	}
	rec, err := g.Loader().Load(root.Config)
	if err != nil {
		return err
	}
	return RunRender(g, rec.Resolve(envs...), r.File, r.CSS)
}

// RunRender renders the markdown file at path with settings s.
func RunRender(g *Global, s *config.Settings, path string, css bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read markdown file").
			WithPosition(path, 0, 0).
			Fatal().
			Build()
	}

	r := render.New(s)
	if flags := r.Unsupported(); len(flags) > 0 {
		names := make([]string, len(flags))
		for i, f := range flags {
			names[i] = string(f)
		}
		g.Logger.Warn("Markdown options have no effect with goldmark",
			logfields.Option(strings.Join(names, ",")),
			logfields.File(path))
	}
	g.Logger.Debug("Rendering markdown", logfields.File(path), slog.String("engine", string(r.Engine())))

	if css {
		var style bytes.Buffer
		if err := r.WriteCSS(&style); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryRender, "failed to write stylesheet").Build()
		}
		if style.Len() > 0 {
			if _, err := g.Out.Write([]byte("<style>\n" + style.String() + "</style>\n")); err != nil {
				return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write output").Build()
			}
		}
	}
	return r.Render(g.Out, src)
}

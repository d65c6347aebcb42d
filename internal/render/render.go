// Package render binds resolved site settings to a markdown renderer.
//
// All markdown engines map onto goldmark. Flags without a goldmark
// counterpart are reported by Unsupported rather than silently dropped.
package render

import (
	"bytes"
	"io"
	"slices"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/siteconfig/internal/config"
	ferrors "git.home.luguber.info/inful/siteconfig/internal/foundation/errors"
)

// builtin flags describe behaviour goldmark always has.
var builtin = []config.MarkdownFlag{
	config.FlagNoIntraEmphasis,
	config.FlagFencedCodeBlocks,
	config.FlagGHBlockcode,
	config.FlagLaxHTMLBlocks,
	config.FlagSpaceAfterHeaders,
}

// Renderer renders markdown documents for one set of resolved settings.
// It is safe for concurrent use.
type Renderer struct {
	md          goldmark.Markdown
	engine      config.MarkdownEngine
	unsupported []config.MarkdownFlag
	highlighter *codeHighlighter
}

// New builds a renderer from s.
func New(s *config.Settings) *Renderer {
	var (
		exts        []goldmark.Extender
		parserOpts  []parser.Option
		htmlOpts    []renderer.Option
		unsupported []config.MarkdownFlag
	)
	unsafe := true

	for _, flag := range s.Markdown {
		switch flag {
		case config.FlagTables:
			exts = append(exts, extension.Table)
		case config.FlagStrikethrough:
			exts = append(exts, extension.Strikethrough)
		case config.FlagAutolink:
			exts = append(exts, extension.Linkify)
		case config.FlagFootnotes:
			exts = append(exts, extension.Footnote)
		case config.FlagSmartypants:
			exts = append(exts, extension.Typographer)
		case config.FlagWithTOCData:
			parserOpts = append(parserOpts, parser.WithAutoHeadingID())
		case config.FlagHardWrap:
			htmlOpts = append(htmlOpts, html.WithHardWraps())
		case config.FlagXHTML:
			htmlOpts = append(htmlOpts, html.WithXHTML())
		case config.FlagEscapeHTML, config.FlagFilterHTML:
			unsafe = false
		default:
			if !slices.Contains(builtin, flag) {
				unsupported = append(unsupported, flag)
			}
		}
	}
	if unsafe {
		htmlOpts = append(htmlOpts, html.WithUnsafe())
	}

	r := &Renderer{engine: s.MarkdownEngine, unsupported: unsupported}
	if s.Syntax.Enabled {
		r.highlighter = newCodeHighlighter(s.Syntax)
		htmlOpts = append(htmlOpts, renderer.WithNodeRenderers(util.Prioritized(r.highlighter, 100)))
	}

	r.md = goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parserOpts...),
		goldmark.WithRendererOptions(htmlOpts...),
	)
	return r
}

// Engine is the configured engine name. Rendering always uses goldmark.
func (r *Renderer) Engine() config.MarkdownEngine { return r.engine }

// Unsupported lists enabled flags that have no effect on the output.
func (r *Renderer) Unsupported() []config.MarkdownFlag { return slices.Clone(r.unsupported) }

// Render converts src to HTML.
func (r *Renderer) Render(w io.Writer, src []byte) error {
	if err := r.md.Convert(src, w); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRender, "failed to render markdown").Build()
	}
	return nil
}

// RenderString is Render into a string.
func (r *Renderer) RenderString(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, []byte(src)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteCSS writes the stylesheet for class-based highlighting. It writes
// nothing when highlighting is off or styles are inlined.
func (r *Renderer) WriteCSS(w io.Writer) error {
	if r.highlighter == nil {
		return nil
	}
	return r.highlighter.writeCSS(w)
}

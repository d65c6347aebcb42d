package render

import (
	"bytes"
	"io"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/siteconfig/internal/config"
	ferrors "git.home.luguber.info/inful/siteconfig/internal/foundation/errors"
)

// codeHighlighter renders fenced code blocks through chroma.
type codeHighlighter struct {
	cssClass  string
	style     *chroma.Style
	formatter *chromahtml.Formatter
	inline    bool
}

func newCodeHighlighter(s config.SyntaxSettings) *codeHighlighter {
	style := styles.Fallback
	if s.InlineTheme != "" {
		style = styles.Get(s.InlineTheme)
	}
	return &codeHighlighter{
		cssClass: s.CSSClass,
		style:    style,
		inline:   s.InlineTheme != "",
		formatter: chromahtml.New(
			chromahtml.WithClasses(s.InlineTheme == ""),
			chromahtml.WithLineNumbers(s.LineNumbers),
			chromahtml.WrapLongLines(s.Wrap),
		),
	}
}

func (h *codeHighlighter) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, h.renderFencedCodeBlock)
}

func (h *codeHighlighter) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	var code bytes.Buffer
	lines := n.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}

	lexer := lexers.Get(string(n.Language(source)))
	if lexer == nil {
		lexer = lexers.Fallback
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code.String())
	if err != nil {
		return ast.WalkStop, ferrors.WrapError(err, ferrors.CategoryRender, "failed to tokenise code block").Build()
	}

	if h.cssClass != "" {
		_, _ = w.WriteString(`<div class="` + string(util.EscapeHTML([]byte(h.cssClass))) + `">`)
	}
	if err := h.formatter.Format(w, h.style, iterator); err != nil {
		return ast.WalkStop, ferrors.WrapError(err, ferrors.CategoryRender, "failed to highlight code block").Build()
	}
	if h.cssClass != "" {
		_, _ = w.WriteString("</div>\n")
	}
	return ast.WalkSkipChildren, nil
}

func (h *codeHighlighter) writeCSS(w io.Writer) error {
	if h.inline {
		return nil
	}
	return h.formatter.WriteCSS(w, h.style)
}

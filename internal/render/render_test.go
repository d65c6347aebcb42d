package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/siteconfig/internal/config"
)

// elements parses rendered HTML and returns every element with the given tag.
func elements(t *testing.T, doc string, tag string) []*html.Node {
	t.Helper()
	root, err := html.Parse(strings.NewReader(doc))
	require.NoError(t, err)

	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func settings(t *testing.T, src string, envs ...config.Environment) *config.Settings {
	t.Helper()
	rec, err := config.LoadBytes("config.rb", []byte(src))
	require.NoError(t, err)
	return rec.Resolve(envs...)
}

const doc = "# Title\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n~~gone~~ and https://example.com\n\n```go\nfunc main() {}\n```\n"

func TestRender_FlagsSelectExtensions(t *testing.T) {
	r := New(settings(t, "set :markdown, :tables => true, :strikethrough => true, :autolink => true, :with_toc_data => true\n"))
	out, err := r.RenderString(doc)
	require.NoError(t, err)

	assert.Len(t, elements(t, out, "table"), 1)
	assert.Len(t, elements(t, out, "del"), 1)
	links := elements(t, out, "a")
	require.Len(t, links, 1)
	assert.Equal(t, "https://example.com", attr(links[0], "href"))
	h1 := elements(t, out, "h1")
	require.Len(t, h1, 1)
	assert.Equal(t, "title", attr(h1[0], "id"))
}

func TestRender_WithoutFlags(t *testing.T) {
	r := New(settings(t, ""))
	out, err := r.RenderString(doc)
	require.NoError(t, err)

	assert.Empty(t, elements(t, out, "table"))
	assert.Empty(t, elements(t, out, "del"))
	assert.Empty(t, elements(t, out, "a"))
	code := elements(t, out, "code")
	require.Len(t, code, 1)
	assert.Equal(t, "language-go", attr(code[0], "class"))
}

func TestRender_RawHTML(t *testing.T) {
	src := "<aside>note</aside>\n"

	out, err := New(settings(t, "")).RenderString(src)
	require.NoError(t, err)
	assert.Len(t, elements(t, out, "aside"), 1)

	out, err = New(settings(t, "set :markdown, :escape_html => true\n")).RenderString(src)
	require.NoError(t, err)
	assert.Empty(t, elements(t, out, "aside"))
}

func TestRender_HardWrapAndXHTML(t *testing.T) {
	out, err := New(settings(t, "set :markdown, :hard_wrap => true, :xhtml => true\n")).RenderString("one\ntwo\n")
	require.NoError(t, err)
	assert.Contains(t, out, "<br />")
}

func TestRender_Smartypants(t *testing.T) {
	out, err := New(settings(t, "set :markdown, :smartypants => true\n")).RenderString("\"quoted\" -- dash\n")
	require.NoError(t, err)
	assert.Contains(t, out, "&ldquo;quoted&rdquo;")
	assert.Contains(t, out, "&ndash;")
}

func TestRender_Footnotes(t *testing.T) {
	out, err := New(settings(t, "set :markdown, :footnotes => true\n")).RenderString("text[^1]\n\n[^1]: note\n")
	require.NoError(t, err)
	assert.NotEmpty(t, elements(t, out, "sup"))
}

func TestRender_SyntaxHighlighting(t *testing.T) {
	r := New(settings(t, "activate :syntax, line_numbers: true\nset :markdown, :fenced_code_blocks => true\n"))
	out, err := r.RenderString(doc)
	require.NoError(t, err)

	var wrapper *html.Node
	for _, div := range elements(t, out, "div") {
		if attr(div, "class") == "highlight" {
			wrapper = div
		}
	}
	require.NotNil(t, wrapper, "missing highlight wrapper in %s", out)

	pre := elements(t, out, "pre")
	require.NotEmpty(t, pre)
	assert.Contains(t, attr(pre[0], "class"), "chroma")
	assert.Contains(t, out, `class="ln"`)

	var css bytes.Buffer
	require.NoError(t, r.WriteCSS(&css))
	assert.Contains(t, css.String(), ".chroma")
}

func TestRender_InlineTheme(t *testing.T) {
	r := New(settings(t, "activate :syntax, inline_theme: 'monokai', css_class: 'code'\n"))
	out, err := r.RenderString("```go\nvar x = 1\n```\n")
	require.NoError(t, err)
	assert.Contains(t, out, `<div class="code">`)
	assert.Contains(t, out, "style=")

	var css bytes.Buffer
	require.NoError(t, r.WriteCSS(&css))
	assert.Zero(t, css.Len())
}

func TestRender_HighlightingScopedToEnvironment(t *testing.T) {
	src := "configure :production do\n  activate :syntax\nend\n"
	assert.Nil(t, New(settings(t, src)).highlighter)
	assert.NotNil(t, New(settings(t, src, config.EnvProduction)).highlighter)
}

func TestNew_ReportsUnsupportedFlags(t *testing.T) {
	rec, err := config.Load("../config/testdata/config_gfm.rb")
	require.NoError(t, err)
	r := New(rec.Resolve())

	assert.Equal(t, []config.MarkdownFlag{config.FlagSuperscript}, r.Unsupported())
	assert.Equal(t, config.EngineRedcarpet, r.Engine())
}

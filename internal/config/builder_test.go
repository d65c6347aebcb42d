package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/siteconfig/internal/foundation/errors"
)

func sampleOptions() []Option {
	return []Option{
		Syntax(SyntaxOptions{LineNumbers: true}),
		Blog(BlogOptions{
			DefaultExtension: ".md",
			TagTemplate:      "tag.html",
			CalendarTemplate: "calendar.html",
			Paginate:         true,
			PerPage:          10,
			PageLink:         "page/{num}",
		}),
		Page("/feed.xml", PageOptions{NoLayout: true}),
		Set("markdown_engine", EngineRedcarpet),
		Markdown("fenced_code_blocks", "smartypants"),
		Set("css_dir", "stylesheets"),
		Set("js_dir", "javascripts"),
		Set("images_dir", "images"),
		Configure(EnvDevelopment, LiveReload(LiveReloadOptions{})),
		Configure(EnvBuild,
			MinifyCSS(MinifyOptions{}),
			MinifyJS(MinifyOptions{}),
			AssetHash(AssetHashOptions{}),
			RelativeAssets(),
		),
	}
}

func TestBuild_MatchesFile(t *testing.T) {
	built, err := Build(sampleOptions()...)
	require.NoError(t, err)
	loaded := loadTestdata(t, "config.rb")

	assert.True(t, loaded.Equal(built), "records differ:\nfile    %v\nbuilder %v", loaded.Entries(), built.Entries())
	assert.Equal(t, loaded.Fingerprint(), built.Fingerprint())
	assert.Equal(t, "<builder>", built.Source)
}

func TestBuild_ZeroFieldsAreNotDeclared(t *testing.T) {
	rec, err := Build(Blog(BlogOptions{}), LiveReload(LiveReloadOptions{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"blog", "liveReload"}, rec.Global().Keys())
}

func TestBuild_ExplicitFalse(t *testing.T) {
	rec, err := Build(
		Syntax(SyntaxOptions{Wrap: Bool(false)}),
		LiveReload(LiveReloadOptions{ApplyJSLive: Bool(false), Ignore: []string{"*.map"}}),
		Set("relative_links", false),
		Page("/raw.html", PageOptions{DirectoryIndex: Bool(false)}),
	)
	require.NoError(t, err)

	v, ok := rec.Get("relativeLinks")
	require.True(t, ok)
	assert.False(t, v.Bool)

	s := rec.Resolve()
	assert.False(t, s.Syntax.Wrap)
	assert.False(t, s.LiveReload.ApplyJSLive)
	assert.True(t, s.LiveReload.ApplyCSSLive)
	assert.Equal(t, []string{"*.map"}, s.LiveReload.Ignore)

	page, ok := s.Page("/raw.html")
	require.True(t, ok)
	require.NotNil(t, page.DirectoryIndex)
	assert.False(t, *page.DirectoryIndex)
}

func TestBuild_OptionsAreValues(t *testing.T) {
	opts := BlogOptions{PerPage: 5}
	blog := Blog(opts)
	opts.PerPage = 50

	rec, err := Build(blog, Set("css_dir", "a"), Set("css_dir", nil))
	require.NoError(t, err)
	perPage, _ := rec.Get("blog.perPage")
	assert.Equal(t, 5, perPage.Int)
	assert.False(t, rec.Has("assetDirs.css"))
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name     string
		opt      Option
		category ferrors.ErrorCategory
	}{
		{"negative per page", Blog(BlogOptions{PerPage: -1}), ferrors.CategoryTypeMismatch},
		{"unknown extension", Activate("sitemap"), ferrors.CategoryUnknownOption},
		{"unknown setting", Set("css_directory", "x"), ferrors.CategoryUnknownOption},
		{"wrong type", Set("relative_links", "yes"), ferrors.CategoryTypeMismatch},
		{"unknown flag", Markdown("tabels"), ferrors.CategoryUnknownOption},
		{"global configure", Configure(EnvGlobal, RelativeAssets()), ferrors.CategoryUnknownOption},
		{"nested configure", Configure(EnvBuild, Configure(EnvDevelopment)), ferrors.CategoryConfig},
		{"unsupported value", Set("css_dir", 1.5), ferrors.CategoryTypeMismatch},
		{"unsupported value in scope", Configure(EnvBuild, Set("css_dir", map[string]string{})), ferrors.CategoryTypeMismatch},
		{"unsupported list item", Set("css_dir", []any{"a", uint(1)}), ferrors.CategoryTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Build(tt.opt)
			require.Error(t, err)
			assert.Nil(t, rec)
			assert.Equal(t, tt.category, ferrors.GetCategory(err), "error: %v", err)
		})
	}
}

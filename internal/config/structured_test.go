package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/siteconfig/internal/foundation/errors"
)

func TestLoad_StructuredEquivalents(t *testing.T) {
	want := loadTestdata(t, "config.rb")

	for _, name := range []string{"config.yaml", "config.jsonc"} {
		t.Run(name, func(t *testing.T) {
			got := loadTestdata(t, name)
			assert.Equal(t, DetectFormat(name), got.Format)
			assert.True(t, want.Equal(got), "records differ:\nwant %v\ngot  %v", want.Entries(), got.Entries())
			assert.Equal(t, want.Fingerprint(), got.Fingerprint())
		})
	}
}

func TestParseStructured_Positions(t *testing.T) {
	src := "set:\n  css_dir: css\n  per_page: 3\n"
	_, err := LoadBytes("site.yaml", []byte(src))
	require.Error(t, err)

	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, ferrors.CategoryUnknownOption, classified.Category())
	line, _ := classified.Context().GetInt(ferrors.ContextLine)
	col, _ := classified.Context().GetInt(ferrors.ContextColumn)
	assert.Equal(t, 3, line)
	assert.Equal(t, 3, col)
}

func TestParseStructured_Values(t *testing.T) {
	src := `activate:
  livereload:
    port: 35730
    ignore: [a, b]
  gzip:
    exts: .html
set:
  relative_links: true
  css_dir: ~
page:
  /index.html:
  /about.html: {layout: about, directory_index: false}
`
	rec, err := LoadBytes("site.yml", []byte(src))
	require.NoError(t, err)

	port, _ := rec.Get("liveReload.port")
	assert.Equal(t, 35730, port.Int)
	ignore, _ := rec.Get("liveReload.ignore")
	assert.Equal(t, []string{"a", "b"}, ignore.List)
	exts, _ := rec.Get("gzip.exts")
	assert.Equal(t, []string{".html"}, exts.List)
	assert.False(t, rec.Has("assetDirs.css"))

	about, ok := rec.Global().Page("/about.html")
	require.True(t, ok)
	layout, _ := about.Layout()
	assert.Equal(t, "about", layout)
	_, ok = rec.Global().Page("/index.html")
	assert.True(t, ok)
}

func TestParseStructured_ActivateFalseIsSkipped(t *testing.T) {
	rec, err := LoadBytes("site.yaml", []byte("activate:\n  gzip: false\n  asset_hash: {}\n"))
	require.NoError(t, err)
	assert.False(t, rec.Has("gzip"))
	assert.True(t, rec.Has("assetHash"))
}

func TestParseStructured_Errors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		src      string
		category ferrors.ErrorCategory
	}{
		{"malformed yaml", "site.yaml", "set: [\n", ferrors.CategorySyntax},
		{"malformed json", "site.json", "{\"set\": {\"css_dir\": }\n", ferrors.CategorySyntax},
		{"root not mapping", "site.yaml", "- activate\n", ferrors.CategoryConfig},
		{"unknown section", "site.yaml", "enable:\n  blog: true\n", ferrors.CategoryUnknownOption},
		{"activate scalar", "site.yaml", "activate:\n  blog: yes please\n", ferrors.CategoryTypeMismatch},
		{"float value", "site.yaml", "activate:\n  blog: {per_page: 2.5}\n", ferrors.CategorySyntax},
		{"page not mapping", "site.yaml", "page:\n  /x: [1]\n", ferrors.CategoryTypeMismatch},
		{"nested configure", "site.yaml", "configure:\n  build:\n    configure:\n      development: {}\n", ferrors.CategoryConfig},
		{"unknown environment", "site.jsonc", "{\"configure\": {\"staging\": {}}}", ferrors.CategoryUnknownOption},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes(tt.file, []byte(tt.src))
			require.Error(t, err)
			assert.Equal(t, tt.category, ferrors.GetCategory(err), "error: %v", err)
		})
	}
}

func TestParseStructured_Empty(t *testing.T) {
	rec, err := LoadBytes("empty.yaml", nil)
	require.NoError(t, err)
	assert.Zero(t, rec.Len())
}

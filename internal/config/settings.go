package config

import (
	"maps"
	"slices"
)

// Settings is the typed view of a record for one combination of active
// environments. Undeclared options carry framework defaults.
type Settings struct {
	Environments []Environment `yaml:"environments" json:"environments"`

	MarkdownEngine MarkdownEngine `yaml:"markdownEngine" json:"markdownEngine"`
	Markdown       []MarkdownFlag `yaml:"markdownOptions" json:"markdownOptions"`

	Syntax    SyntaxSettings `yaml:"syntaxHighlighting" json:"syntaxHighlighting"`
	Blog      BlogSettings   `yaml:"blog" json:"blog"`
	AssetDirs AssetDirs      `yaml:"assetDirs" json:"assetDirs"`
	Paths     Paths          `yaml:"paths" json:"paths"`

	RelativeLinks    bool   `yaml:"relativeLinks" json:"relativeLinks"`
	RelativeAssets   bool   `yaml:"relativeAssets" json:"relativeAssets"`
	HTTPPrefix       string `yaml:"httpPrefix" json:"httpPrefix"`
	IndexFile        string `yaml:"indexFile" json:"indexFile"`
	StripIndexFile   bool   `yaml:"stripIndexFile" json:"stripIndexFile"`
	TrailingSlash    bool   `yaml:"trailingSlash" json:"trailingSlash"`
	DirectoryIndexes bool   `yaml:"directoryIndexes" json:"directoryIndexes"`

	LiveReload LiveReloadSettings `yaml:"liveReload" json:"liveReload"`
	MinifyCSS  MinifySettings     `yaml:"minifyCss" json:"minifyCss"`
	MinifyJS   MinifySettings     `yaml:"minifyJs" json:"minifyJs"`
	AssetHash  AssetHashSettings  `yaml:"assetHash" json:"assetHash"`
	Gzip       GzipSettings       `yaml:"gzip" json:"gzip"`

	Pages []PageSettings `yaml:"pages,omitempty" json:"pages,omitempty"`
}

// HasMarkdown reports whether flag is enabled.
func (s *Settings) HasMarkdown(flag MarkdownFlag) bool {
	return slices.Contains(s.Markdown, flag)
}

// Page returns the resolved rule for path.
func (s *Settings) Page(path string) (PageSettings, bool) {
	for _, p := range s.Pages {
		if p.Path == path {
			return p, true
		}
	}
	return PageSettings{}, false
}

type SyntaxSettings struct {
	Enabled     bool   `yaml:"enabled" json:"enabled"`
	LineNumbers bool   `yaml:"lineNumbers" json:"lineNumbers"`
	CSSClass    string `yaml:"cssClass" json:"cssClass"`
	InlineTheme string `yaml:"inlineTheme,omitempty" json:"inlineTheme,omitempty"`
	Wrap        bool   `yaml:"wrap" json:"wrap"`
}

type BlogSettings struct {
	Enabled          bool   `yaml:"enabled" json:"enabled"`
	Name             string `yaml:"name,omitempty" json:"name,omitempty"`
	Prefix           string `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	Permalink        string `yaml:"permalink" json:"permalink"`
	Sources          string `yaml:"sources" json:"sources"`
	Taglink          string `yaml:"taglink" json:"taglink"`
	Layout           string `yaml:"layout" json:"layout"`
	SummarySeparator string `yaml:"summarySeparator" json:"summarySeparator"`
	SummaryLength    int    `yaml:"summaryLength" json:"summaryLength"`
	YearLink         string `yaml:"yearLink" json:"yearLink"`
	MonthLink        string `yaml:"monthLink" json:"monthLink"`
	DayLink          string `yaml:"dayLink" json:"dayLink"`
	DefaultExtension string `yaml:"defaultExtension" json:"defaultExtension"`
	TagTemplate      string `yaml:"tagTemplate,omitempty" json:"tagTemplate,omitempty"`
	YearTemplate     string `yaml:"yearTemplate,omitempty" json:"yearTemplate,omitempty"`
	MonthTemplate    string `yaml:"monthTemplate,omitempty" json:"monthTemplate,omitempty"`
	DayTemplate      string `yaml:"dayTemplate,omitempty" json:"dayTemplate,omitempty"`
	CalendarTemplate string `yaml:"calendarTemplate,omitempty" json:"calendarTemplate,omitempty"`
	Paginate         bool   `yaml:"paginate" json:"paginate"`
	PerPage          int    `yaml:"perPage" json:"perPage"`
	PageLinkPattern  string `yaml:"pageLinkPattern" json:"pageLinkPattern"`
}

type AssetDirs struct {
	CSS    string `yaml:"css" json:"css"`
	JS     string `yaml:"js" json:"js"`
	Images string `yaml:"images" json:"images"`
	Fonts  string `yaml:"fonts" json:"fonts"`
}

type Paths struct {
	Source  string `yaml:"source" json:"source"`
	Build   string `yaml:"build" json:"build"`
	Layouts string `yaml:"layouts" json:"layouts"`
}

type LiveReloadSettings struct {
	Enabled      bool     `yaml:"enabled" json:"enabled"`
	Host         string   `yaml:"host" json:"host"`
	Port         int      `yaml:"port" json:"port"`
	ApplyCSSLive bool     `yaml:"applyCssLive" json:"applyCssLive"`
	ApplyJSLive  bool     `yaml:"applyJsLive" json:"applyJsLive"`
	Ignore       []string `yaml:"ignore,omitempty" json:"ignore,omitempty"`
}

type MinifySettings struct {
	Enabled bool     `yaml:"enabled" json:"enabled"`
	Inline  bool     `yaml:"inline" json:"inline"`
	Ignore  []string `yaml:"ignore,omitempty" json:"ignore,omitempty"`
}

type AssetHashSettings struct {
	Enabled bool     `yaml:"enabled" json:"enabled"`
	Exts    []string `yaml:"exts" json:"exts"`
	Ignore  []string `yaml:"ignore,omitempty" json:"ignore,omitempty"`
}

type GzipSettings struct {
	Enabled bool     `yaml:"enabled" json:"enabled"`
	Exts    []string `yaml:"exts" json:"exts"`
}

// PageSettings is a resolved page rule. NoLayout is set by `layout: false`.
type PageSettings struct {
	Path           string `yaml:"path" json:"path"`
	Layout         string `yaml:"layout,omitempty" json:"layout,omitempty"`
	NoLayout       bool   `yaml:"noLayout,omitempty" json:"noLayout,omitempty"`
	DirectoryIndex *bool  `yaml:"directoryIndex,omitempty" json:"directoryIndex,omitempty"`
	Proxy          string `yaml:"proxy,omitempty" json:"proxy,omitempty"`
	Ignore         bool   `yaml:"ignore,omitempty" json:"ignore,omitempty"`
}

// overlay is the merged key space of the global scope and the requested
// environments.
type overlay struct {
	values map[string]Value
	pages  map[string]PageRule
}

func (o overlay) value(key string) Value {
	if v, ok := o.values[key]; ok {
		return v
	}
	spec, _ := specForKey(key)
	return spec.Default
}

func (o overlay) bool(key string) bool     { return o.value(key).Bool }
func (o overlay) int(key string) int       { return o.value(key).Int }
func (o overlay) str(key string) string    { return o.value(key).Str }
func (o overlay) list(key string) []string { return slices.Clone(o.value(key).List) }

// Resolve overlays the given environments, in order, on the global scope
// and returns the typed settings. Environments without a configure block
// contribute nothing. The record is not modified.
func (r *Record) Resolve(envs ...Environment) *Settings {
	o := overlay{values: maps.Clone(r.global.values), pages: maps.Clone(r.global.pages)}
	for _, env := range envs {
		s := r.Scope(env)
		if s == nil || env == EnvGlobal {
			continue
		}
		maps.Copy(o.values, s.values)
		maps.Copy(o.pages, s.pages)
	}

	st := &Settings{
		Environments: slices.Clone(envs),

		MarkdownEngine: MarkdownEngine(o.str(keyMarkdownEngine)),

		Syntax: SyntaxSettings{
			Enabled:     o.bool("syntaxHighlighting"),
			LineNumbers: o.bool("syntaxHighlighting.lineNumbers"),
			CSSClass:    o.str("syntaxHighlighting.cssClass"),
			InlineTheme: o.str("syntaxHighlighting.inlineTheme"),
			Wrap:        o.bool("syntaxHighlighting.wrap"),
		},
		Blog: BlogSettings{
			Enabled:          o.bool("blog"),
			Name:             o.str("blog.name"),
			Prefix:           o.str("blog.prefix"),
			Permalink:        o.str("blog.permalink"),
			Sources:          o.str("blog.sources"),
			Taglink:          o.str("blog.taglink"),
			Layout:           o.str("blog.layout"),
			SummarySeparator: o.str("blog.summarySeparator"),
			SummaryLength:    o.int("blog.summaryLength"),
			YearLink:         o.str("blog.yearLink"),
			MonthLink:        o.str("blog.monthLink"),
			DayLink:          o.str("blog.dayLink"),
			DefaultExtension: o.str("blog.defaultExtension"),
			TagTemplate:      o.str("blog.tagTemplate"),
			YearTemplate:     o.str("blog.yearTemplate"),
			MonthTemplate:    o.str("blog.monthTemplate"),
			DayTemplate:      o.str("blog.dayTemplate"),
			CalendarTemplate: o.str("blog.calendarTemplate"),
			Paginate:         o.bool("blog.paginate"),
			PerPage:          o.int("blog.perPage"),
			PageLinkPattern:  o.str("blog.pageLinkPattern"),
		},
		AssetDirs: AssetDirs{
			CSS:    o.str("assetDirs.css"),
			JS:     o.str("assetDirs.js"),
			Images: o.str("assetDirs.images"),
			Fonts:  o.str("assetDirs.fonts"),
		},
		Paths: Paths{
			Source:  o.str("paths.source"),
			Build:   o.str("paths.build"),
			Layouts: o.str("paths.layouts"),
		},

		RelativeLinks:    o.bool("relativeLinks"),
		RelativeAssets:   o.bool("relativeAssets"),
		HTTPPrefix:       o.str("httpPrefix"),
		IndexFile:        o.str("indexFile"),
		StripIndexFile:   o.bool("stripIndexFile"),
		TrailingSlash:    o.bool("trailingSlash"),
		DirectoryIndexes: o.bool("directoryIndexes"),

		LiveReload: LiveReloadSettings{
			Enabled:      o.bool("liveReload"),
			Host:         o.str("liveReload.host"),
			Port:         o.int("liveReload.port"),
			ApplyCSSLive: o.bool("liveReload.applyCssLive"),
			ApplyJSLive:  o.bool("liveReload.applyJsLive"),
			Ignore:       o.list("liveReload.ignore"),
		},
		MinifyCSS: MinifySettings{
			Enabled: o.bool("minifyCss"),
			Inline:  o.bool("minifyCss.inline"),
			Ignore:  o.list("minifyCss.ignore"),
		},
		MinifyJS: MinifySettings{
			Enabled: o.bool("minifyJs"),
			Inline:  o.bool("minifyJs.inline"),
			Ignore:  o.list("minifyJs.ignore"),
		},
		AssetHash: AssetHashSettings{
			Enabled: o.bool("assetHash"),
			Exts:    o.list("assetHash.exts"),
			Ignore:  o.list("assetHash.ignore"),
		},
		Gzip: GzipSettings{
			Enabled: o.bool("gzip"),
			Exts:    o.list("gzip.exts"),
		},
	}

	for _, flag := range o.list(keyMarkdownOptions) {
		st.Markdown = append(st.Markdown, MarkdownFlag(flag))
	}
	for _, path := range slices.Sorted(maps.Keys(o.pages)) {
		st.Pages = append(st.Pages, resolvePage(o.pages[path]))
	}
	return st
}

func resolvePage(rule PageRule) PageSettings {
	p := PageSettings{Path: rule.Path}
	if name, ok := rule.Layout(); ok {
		p.Layout = name
		p.NoLayout = name == ""
	}
	if v, ok := rule.Values["directoryIndex"]; ok {
		b := v.Bool
		p.DirectoryIndex = &b
	}
	p.Proxy = rule.Values["proxy"].Str
	p.Ignore = rule.Values["ignore"].Bool
	return p
}

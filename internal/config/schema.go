package config

import (
	"slices"
	"strings"
)

// optionSpec describes one recognized option.
type optionSpec struct {
	Source string // spelling in configuration files
	Key    string // canonical key, relative to the owning extension
	Type   ValueType
	Min    int // inclusive bounds for TypeInt when Max > 0
	Max    int
	// Default is the framework default reported by Settings and `keys`.
	Default Value
	// parse validates TypeEnum values and returns the canonical name.
	parse func(string) (string, error)
}

// extensionSpec describes an extension accepted by `activate`.
type extensionSpec struct {
	Name    string
	Key     string
	Options []optionSpec
}

func (e *extensionSpec) option(source string) (optionSpec, bool) {
	for _, o := range e.Options {
		if o.Source == source {
			return o, true
		}
	}
	return optionSpec{}, false
}

const (
	keyMarkdownEngine  = "markdownEngine"
	keyMarkdownOptions = "markdownOptions"
)

var extensions = []*extensionSpec{
	{
		Name: "syntax",
		Key:  "syntaxHighlighting",
		Options: []optionSpec{
			{Source: "line_numbers", Key: "lineNumbers", Type: TypeBool, Default: BoolValue(false)},
			{Source: "css_class", Key: "cssClass", Type: TypeString, Default: StringValue("highlight")},
			{Source: "inline_theme", Key: "inlineTheme", Type: TypeString, Default: StringValue("")},
			{Source: "wrap", Key: "wrap", Type: TypeBool, Default: BoolValue(true)},
		},
	},
	{
		Name: "blog",
		Key:  "blog",
		Options: []optionSpec{
			{Source: "name", Key: "name", Type: TypeString, Default: StringValue("")},
			{Source: "prefix", Key: "prefix", Type: TypeString, Default: StringValue("")},
			{Source: "permalink", Key: "permalink", Type: TypeString, Default: StringValue("{year}/{month}/{day}/{title}.html")},
			{Source: "sources", Key: "sources", Type: TypeString, Default: StringValue("{year}-{month}-{day}-{title}.html")},
			{Source: "taglink", Key: "taglink", Type: TypeString, Default: StringValue("tags/{tag}.html")},
			{Source: "layout", Key: "layout", Type: TypeString, Default: StringValue("layout")},
			{Source: "summary_separator", Key: "summarySeparator", Type: TypeString, Default: StringValue("READMORE")},
			{Source: "summary_length", Key: "summaryLength", Type: TypeInt, Min: 0, Max: 1 << 20, Default: IntValue(250)},
			{Source: "year_link", Key: "yearLink", Type: TypeString, Default: StringValue("{year}.html")},
			{Source: "month_link", Key: "monthLink", Type: TypeString, Default: StringValue("{year}/{month}.html")},
			{Source: "day_link", Key: "dayLink", Type: TypeString, Default: StringValue("{year}/{month}/{day}.html")},
			{Source: "default_extension", Key: "defaultExtension", Type: TypeString, Default: StringValue(".markdown")},
			{Source: "tag_template", Key: "tagTemplate", Type: TypeString, Default: StringValue("")},
			{Source: "year_template", Key: "yearTemplate", Type: TypeString, Default: StringValue("")},
			{Source: "month_template", Key: "monthTemplate", Type: TypeString, Default: StringValue("")},
			{Source: "day_template", Key: "dayTemplate", Type: TypeString, Default: StringValue("")},
			{Source: "calendar_template", Key: "calendarTemplate", Type: TypeString, Default: StringValue("")},
			{Source: "paginate", Key: "paginate", Type: TypeBool, Default: BoolValue(false)},
			{Source: "per_page", Key: "perPage", Type: TypeInt, Min: 1, Max: 10000, Default: IntValue(10)},
			{Source: "page_link", Key: "pageLinkPattern", Type: TypeString, Default: StringValue("page/{num}")},
		},
	},
	{
		Name: "livereload",
		Key:  "liveReload",
		Options: []optionSpec{
			{Source: "host", Key: "host", Type: TypeString, Default: StringValue("0.0.0.0")},
			{Source: "port", Key: "port", Type: TypeInt, Min: 1, Max: 65535, Default: IntValue(35729)},
			{Source: "apply_css_live", Key: "applyCssLive", Type: TypeBool, Default: BoolValue(true)},
			{Source: "apply_js_live", Key: "applyJsLive", Type: TypeBool, Default: BoolValue(true)},
			{Source: "ignore", Key: "ignore", Type: TypeStringList, Default: ListValue()},
		},
	},
	{
		Name: "minify_css",
		Key:  "minifyCss",
		Options: []optionSpec{
			{Source: "inline", Key: "inline", Type: TypeBool, Default: BoolValue(false)},
			{Source: "ignore", Key: "ignore", Type: TypeStringList, Default: ListValue()},
		},
	},
	{
		Name: "minify_javascript",
		Key:  "minifyJs",
		Options: []optionSpec{
			{Source: "inline", Key: "inline", Type: TypeBool, Default: BoolValue(false)},
			{Source: "ignore", Key: "ignore", Type: TypeStringList, Default: ListValue()},
		},
	},
	{
		Name: "asset_hash",
		Key:  "assetHash",
		Options: []optionSpec{
			{Source: "exts", Key: "exts", Type: TypeStringList, Default: ListValue(".css", ".js", ".png", ".jpg", ".jpeg", ".gif", ".svg", ".woff", ".woff2")},
			{Source: "ignore", Key: "ignore", Type: TypeStringList, Default: ListValue()},
		},
	},
	{Name: "relative_assets", Key: "relativeAssets"},
	{Name: "directory_indexes", Key: "directoryIndexes"},
	{
		Name: "gzip",
		Key:  "gzip",
		Options: []optionSpec{
			{Source: "exts", Key: "exts", Type: TypeStringList, Default: ListValue(".css", ".htm", ".html", ".js", ".svg", ".xhtml")},
		},
	},
}

// settingSpecs are the options accepted by `set`.
var settingSpecs = []optionSpec{
	{Source: "markdown_engine", Key: keyMarkdownEngine, Type: TypeEnum, Default: Value{Type: TypeEnum, Str: string(EngineKramdown)}, parse: parseEngine},
	{Source: "markdown", Key: keyMarkdownOptions, Type: TypeFlags, Default: Value{Type: TypeFlags, List: []string{}}},
	{Source: "css_dir", Key: "assetDirs.css", Type: TypeString, Default: StringValue("stylesheets")},
	{Source: "js_dir", Key: "assetDirs.js", Type: TypeString, Default: StringValue("javascripts")},
	{Source: "images_dir", Key: "assetDirs.images", Type: TypeString, Default: StringValue("images")},
	{Source: "fonts_dir", Key: "assetDirs.fonts", Type: TypeString, Default: StringValue("fonts")},
	{Source: "source", Key: "paths.source", Type: TypeString, Default: StringValue("source")},
	{Source: "build_dir", Key: "paths.build", Type: TypeString, Default: StringValue("build")},
	{Source: "layouts_dir", Key: "paths.layouts", Type: TypeString, Default: StringValue("layouts")},
	{Source: "relative_links", Key: "relativeLinks", Type: TypeBool, Default: BoolValue(false)},
	{Source: "http_prefix", Key: "httpPrefix", Type: TypeString, Default: StringValue("/")},
	{Source: "index_file", Key: "indexFile", Type: TypeString, Default: StringValue("index.html")},
	{Source: "strip_index_file", Key: "stripIndexFile", Type: TypeBool, Default: BoolValue(true)},
	{Source: "trailing_slash", Key: "trailingSlash", Type: TypeBool, Default: BoolValue(true)},
}

// pageSpecs are the options accepted by `page`.
var pageSpecs = []optionSpec{
	{Source: "layout", Key: "layout", Type: TypeLayout},
	{Source: "directory_index", Key: "directoryIndex", Type: TypeBool},
	{Source: "proxy", Key: "proxy", Type: TypeString},
	{Source: "ignore", Key: "ignore", Type: TypeBool},
}

func parseEngine(raw string) (string, error) {
	e, err := markdownEngineEnum.Parse(raw)
	return string(e), err
}

func lookupExtension(name string) (*extensionSpec, bool) {
	for _, e := range extensions {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

func lookupSetting(source string) (optionSpec, bool) {
	return lookupSpec(settingSpecs, source)
}

func lookupPageOption(source string) (optionSpec, bool) {
	return lookupSpec(pageSpecs, source)
}

func lookupSpec(specs []optionSpec, source string) (optionSpec, bool) {
	for _, s := range specs {
		if s.Source == source {
			return s, true
		}
	}
	return optionSpec{}, false
}

// specForKey returns the spec of a canonical key such as "blog.perPage".
func specForKey(key string) (optionSpec, bool) {
	for _, s := range settingSpecs {
		if s.Key == key {
			return s, true
		}
	}
	for _, e := range extensions {
		if key == e.Key {
			return optionSpec{Source: e.Name, Key: e.Key, Type: TypeBool, Default: BoolValue(false)}, true
		}
		rest, ok := strings.CutPrefix(key, e.Key+".")
		if !ok {
			continue
		}
		for _, o := range e.Options {
			if o.Key == rest {
				o.Key = key
				return o, true
			}
		}
	}
	return optionSpec{}, false
}

// OptionInfo documents one recognized option.
type OptionInfo struct {
	Key       string
	Type      ValueType
	Directive string
	Default   Value
}

// KnownOptions lists every recognized option key, sorted by key.
func KnownOptions() []OptionInfo {
	var out []OptionInfo
	for _, s := range settingSpecs {
		out = append(out, OptionInfo{Key: s.Key, Type: s.Type, Directive: "set :" + s.Source, Default: s.Default})
	}
	for _, e := range extensions {
		out = append(out, OptionInfo{Key: e.Key, Type: TypeBool, Directive: "activate :" + e.Name, Default: BoolValue(false)})
		for _, o := range e.Options {
			out = append(out, OptionInfo{
				Key:       e.Key + "." + o.Key,
				Type:      o.Type,
				Directive: "activate :" + e.Name + ", " + o.Source + ":",
				Default:   o.Default,
			})
		}
	}
	slices.SortFunc(out, func(a, b OptionInfo) int { return strings.Compare(a.Key, b.Key) })
	return out
}

// ExtensionNames lists the extensions accepted by `activate`.
func ExtensionNames() []string {
	out := make([]string, len(extensions))
	for i, e := range extensions {
		out[i] = e.Name
	}
	slices.Sort(out)
	return out
}

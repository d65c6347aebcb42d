package config

import (
	"fmt"
	"reflect"

	"git.home.luguber.info/inful/siteconfig/internal/dsl"
	ferrors "git.home.luguber.info/inful/siteconfig/internal/foundation/errors"
)

// builderSource is the Record.Source of records produced by Build.
const builderSource = "<builder>"

// Option is one declaration passed to Build. Options are plain values and
// can be stored, reused and combined freely.
type Option struct {
	directives []dsl.Directive
	err        error
}

// Build applies the options in order, exactly as a file with the same
// directives would be loaded.
func Build(opts ...Option) (*Record, error) {
	rec := newRecord(builderSource, FormatDSL)
	for _, o := range opts {
		if o.err != nil {
			return nil, o.err
		}
		if err := apply(rec, o.directives); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// Option structs use `opt` tags naming the file spelling of each field.
// Zero fields are not declared. Fields whose default is true are *bool so
// an explicit false can be expressed.

type SyntaxOptions struct {
	LineNumbers bool   `opt:"line_numbers"`
	CSSClass    string `opt:"css_class"`
	InlineTheme string `opt:"inline_theme"`
	Wrap        *bool  `opt:"wrap"`
}

type BlogOptions struct {
	Name             string `opt:"name"`
	Prefix           string `opt:"prefix"`
	Permalink        string `opt:"permalink"`
	Sources          string `opt:"sources"`
	Taglink          string `opt:"taglink"`
	Layout           string `opt:"layout"`
	SummarySeparator string `opt:"summary_separator"`
	SummaryLength    int    `opt:"summary_length"`
	YearLink         string `opt:"year_link"`
	MonthLink        string `opt:"month_link"`
	DayLink          string `opt:"day_link"`
	DefaultExtension string `opt:"default_extension"`
	TagTemplate      string `opt:"tag_template"`
	YearTemplate     string `opt:"year_template"`
	MonthTemplate    string `opt:"month_template"`
	DayTemplate      string `opt:"day_template"`
	CalendarTemplate string `opt:"calendar_template"`
	Paginate         bool   `opt:"paginate"`
	PerPage          int    `opt:"per_page"`
	PageLink         string `opt:"page_link"`
}

type LiveReloadOptions struct {
	Host         string   `opt:"host"`
	Port         int      `opt:"port"`
	ApplyCSSLive *bool    `opt:"apply_css_live"`
	ApplyJSLive  *bool    `opt:"apply_js_live"`
	Ignore       []string `opt:"ignore"`
}

type MinifyOptions struct {
	Inline bool     `opt:"inline"`
	Ignore []string `opt:"ignore"`
}

type AssetHashOptions struct {
	Exts   []string `opt:"exts"`
	Ignore []string `opt:"ignore"`
}

type GzipOptions struct {
	Exts []string `opt:"exts"`
}

// PageOptions configures a page rule. NoLayout renders without a layout
// and takes precedence over Layout.
type PageOptions struct {
	Layout         string
	NoLayout       bool
	DirectoryIndex *bool  `opt:"directory_index"`
	Proxy          string `opt:"proxy"`
	Ignore         bool   `opt:"ignore"`
}

// Bool returns a pointer to b for the *bool option fields.
func Bool(b bool) *bool { return &b }

func Syntax(o SyntaxOptions) Option { return activation("syntax", o) }
func Blog(o BlogOptions) Option { return activation("blog", o) }
func LiveReload(o LiveReloadOptions) Option { return activation("livereload", o) }
func MinifyCSS(o MinifyOptions) Option { return activation("minify_css", o) }
func MinifyJS(o MinifyOptions) Option { return activation("minify_javascript", o) }
func AssetHash(o AssetHashOptions) Option { return activation("asset_hash", o) }
func Gzip(o GzipOptions) Option { return activation("gzip", o) }
func RelativeAssets() Option { return activation("relative_assets", struct{}{}) }
func DirectoryIndexes() Option { return activation("directory_indexes", struct{}{}) }
func Activate(extension string) Option { return activation(extension, struct{}{}) }

// Configure scopes opts to env.
func Configure(env Environment, opts ...Option) Option {
	var body []dsl.Directive
	for _, o := range opts {
		if o.err != nil {
			return o
		}
		body = append(body, o.directives...)
	}
	return single(dsl.Directive{
		Kind:  dsl.Call,
		Pos:   builderPos(),
		Name:  "configure",
		Args:  []dsl.Value{symbol(string(env))},
		Block: &dsl.Block{Pos: builderPos(), Body: body},
	})
}

// Set declares a setting by its file spelling, e.g. Set("css_dir", "css").
// value may be a bool, an integer, a string (or string-based type such as
// MarkdownEngine), a []string, or nil to clear the setting. Other types
// make Build fail with a type mismatch.
func Set(setting string, value any) Option {
	v := dsl.Value{Kind: dsl.KindNil, Pos: builderPos()}
	if rv := reflect.ValueOf(value); rv.IsValid() {
		var err error
		if v, err = toLiteral(rv); err != nil {
			return Option{err: ferrors.TypeMismatchError(fmt.Sprintf("set :%s: %v", setting, err)).
				WithPosition(builderSource, 0, 0).
				WithContext(ferrors.ContextKey, setting).
				Build()}
		}
	}
	return single(dsl.Directive{
		Kind: dsl.Call,
		Pos:  builderPos(),
		Name: "set",
		Args: []dsl.Value{symbol(setting), v},
	})
}

// Markdown enables the given flags (file spellings such as
// "fenced_code_blocks") and replaces any earlier flag set.
func Markdown(flags ...string) Option {
	pairs := make([]dsl.Pair, len(flags))
	for i, f := range flags {
		pairs[i] = dsl.Pair{Key: f, KeyPos: builderPos(), Value: dsl.Value{Kind: dsl.KindBool, Bool: true, Pos: builderPos()}}
	}
	return single(dsl.Directive{
		Kind: dsl.Call,
		Pos:  builderPos(),
		Name: "set",
		Args: []dsl.Value{symbol("markdown"), {Kind: dsl.KindHash, Hash: pairs, Pos: builderPos()}},
	})
}

// Page declares a page rule for path.
func Page(path string, o PageOptions) Option {
	d := dsl.Directive{
		Kind: dsl.Call,
		Pos:  builderPos(),
		Name: "page",
		Args: []dsl.Value{{Kind: dsl.KindString, Str: path, Pos: builderPos()}},
	}
	switch {
	case o.NoLayout:
		d.Options = append(d.Options, dsl.Pair{Key: "layout", KeyPos: builderPos(), Value: dsl.Value{Kind: dsl.KindBool, Pos: builderPos()}})
	case o.Layout != "":
		d.Options = append(d.Options, dsl.Pair{Key: "layout", KeyPos: builderPos(), Value: dsl.Value{Kind: dsl.KindString, Str: o.Layout, Pos: builderPos()}})
	}
	pairs, err := structPairs(o)
	if err != nil {
		return Option{err: ferrors.WrapError(err, ferrors.CategoryInternal, "page "+path).Build()}
	}
	d.Options = append(d.Options, pairs...)
	return single(d)
}

func activation(extension string, opts any) Option {
	pairs, err := structPairs(opts)
	if err != nil {
		return Option{err: ferrors.WrapError(err, ferrors.CategoryInternal, "activate :"+extension).Build()}
	}
	return single(dsl.Directive{
		Kind:    dsl.Call,
		Pos:     builderPos(),
		Name:    "activate",
		Args:    []dsl.Value{symbol(extension)},
		Options: pairs,
	})
}

func single(d dsl.Directive) Option { return Option{directives: []dsl.Directive{d}} }

func builderPos() dsl.Pos { return dsl.Pos{File: builderSource} }

func symbol(s string) dsl.Value {
	return dsl.Value{Kind: dsl.KindSymbol, Str: s, Pos: builderPos()}
}

// structPairs converts the declared (non-zero) tagged fields of a struct.
func structPairs(opts any) ([]dsl.Pair, error) {
	rv := reflect.ValueOf(opts)
	rt := rv.Type()
	var out []dsl.Pair
	for i := range rt.NumField() {
		tag := rt.Field(i).Tag.Get("opt")
		if tag == "" {
			continue
		}
		v, ok, err := literal(rv.Field(i))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tag, err)
		}
		if !ok {
			continue
		}
		out = append(out, dsl.Pair{Key: tag, KeyPos: builderPos(), Value: v})
	}
	return out, nil
}

// literal converts a declared struct field. ok is false for zero values
// and nil pointers, which count as not declared.
func literal(rv reflect.Value) (dsl.Value, bool, error) {
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return dsl.Value{}, false, nil
		}
		rv = rv.Elem()
	} else if rv.IsZero() {
		return dsl.Value{}, false, nil
	}
	v, err := toLiteral(rv)
	return v, err == nil, err
}

func toLiteral(rv reflect.Value) (dsl.Value, error) {
	v := dsl.Value{Pos: builderPos()}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			v.Kind = dsl.KindNil
			return v, nil
		}
		return toLiteral(rv.Elem())
	case reflect.Bool:
		v.Kind, v.Bool = dsl.KindBool, rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v.Kind, v.Int = dsl.KindInt, rv.Int()
	case reflect.String:
		v.Kind, v.Str = dsl.KindString, rv.String()
	case reflect.Slice:
		v.Kind = dsl.KindArray
		v.List = make([]dsl.Value, 0, rv.Len())
		for i := range rv.Len() {
			item, err := toLiteral(rv.Index(i))
			if err != nil {
				return dsl.Value{}, err
			}
			v.List = append(v.List, item)
		}
	default:
		return dsl.Value{}, fmt.Errorf("unsupported value of type %s", rv.Type())
	}
	return v, nil
}

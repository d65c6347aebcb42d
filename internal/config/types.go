package config

import (
	"slices"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/siteconfig/internal/foundation/normalization"
)

// Environment is a named run mode whose options apply exclusively.
type Environment string

const (
	// EnvGlobal is the unscoped namespace; it is never a valid configure target.
	EnvGlobal      Environment = ""
	EnvDevelopment Environment = "development"
	EnvBuild       Environment = "build"
	EnvProduction  Environment = "production"
	EnvTest        Environment = "test"
	EnvServer      Environment = "server"
)

var environmentEnum = normalization.NewEnum("environment", EnvDevelopment, EnvBuild, EnvProduction, EnvTest, EnvServer)

// ParseEnvironment maps an environment name onto a known Environment.
func ParseEnvironment(raw string) (Environment, error) {
	return environmentEnum.Parse(raw)
}

// Environments lists the known environment names.
func Environments() []string { return environmentEnum.Values() }

// MarkdownEngine selects the renderer implementation.
type MarkdownEngine string

const (
	EngineRedcarpet MarkdownEngine = "redcarpet"
	EngineKramdown  MarkdownEngine = "kramdown"
	EngineRDiscount MarkdownEngine = "rdiscount"
	EngineMaruku    MarkdownEngine = "maruku"
)

var markdownEngineEnum = normalization.NewEnum("markdown engine", EngineRedcarpet, EngineKramdown, EngineRDiscount, EngineMaruku)

// MarkdownFlag is a renderer feature toggle stored in markdownOptions.
type MarkdownFlag string

const (
	FlagNoIntraEmphasis     MarkdownFlag = "noIntraEmphasis"
	FlagTables              MarkdownFlag = "tables"
	FlagFencedCodeBlocks    MarkdownFlag = "fencedCodeBlocks"
	FlagAutolink            MarkdownFlag = "autolink"
	FlagStrikethrough       MarkdownFlag = "strikethrough"
	FlagLaxHTMLBlocks       MarkdownFlag = "laxHtmlBlocks"
	FlagSpaceAfterHeaders   MarkdownFlag = "spaceAfterHeaders"
	FlagSuperscript         MarkdownFlag = "superscript"
	FlagUnderline           MarkdownFlag = "underline"
	FlagHighlight           MarkdownFlag = "highlight"
	FlagQuote               MarkdownFlag = "quote"
	FlagFootnotes           MarkdownFlag = "footnotes"
	FlagSmartypants         MarkdownFlag = "smartypants"
	FlagGHBlockcode         MarkdownFlag = "ghBlockcode"
	FlagDisableIndentedCode MarkdownFlag = "disableIndentedCodeBlocks"
	FlagHardWrap            MarkdownFlag = "hardWrap"
	FlagWithTOCData         MarkdownFlag = "withTocData"
	FlagXHTML               MarkdownFlag = "xhtml"
	FlagEscapeHTML          MarkdownFlag = "escapeHtml"
	FlagFilterHTML          MarkdownFlag = "filterHtml"
)

// markdownFlags maps the source spelling of each flag to its canonical name.
var markdownFlags = map[string]MarkdownFlag{
	"no_intra_emphasis":            FlagNoIntraEmphasis,
	"tables":                       FlagTables,
	"fenced_code_blocks":           FlagFencedCodeBlocks,
	"autolink":                     FlagAutolink,
	"strikethrough":                FlagStrikethrough,
	"lax_html_blocks":              FlagLaxHTMLBlocks,
	"space_after_headers":          FlagSpaceAfterHeaders,
	"superscript":                  FlagSuperscript,
	"underline":                    FlagUnderline,
	"highlight":                    FlagHighlight,
	"quote":                        FlagQuote,
	"footnotes":                    FlagFootnotes,
	"smartypants":                  FlagSmartypants,
	"gh_blockcode":                 FlagGHBlockcode,
	"disable_indented_code_blocks": FlagDisableIndentedCode,
	"hard_wrap":                    FlagHardWrap,
	"with_toc_data":                FlagWithTOCData,
	"xhtml":                        FlagXHTML,
	"escape_html":                  FlagEscapeHTML,
	"filter_html":                  FlagFilterHTML,
}

// MarkdownFlagNames lists the accepted source spellings in sorted order.
func MarkdownFlagNames() []string {
	out := make([]string, 0, len(markdownFlags))
	for k := range markdownFlags {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// ValueType is the declared type of an option.
type ValueType int

const (
	TypeBool ValueType = iota
	TypeInt
	TypeString
	TypeStringList
	TypeEnum
	TypeFlags
	// TypeLayout is a layout name or false (no layout).
	TypeLayout
)

func (t ValueType) String() string {
	switch t {
	case TypeBool:
		return "boolean"
	case TypeInt:
		return "integer"
	case TypeString:
		return "string"
	case TypeStringList:
		return "list of strings"
	case TypeEnum:
		return "enum"
	case TypeFlags:
		return "flag set"
	case TypeLayout:
		return "layout"
	default:
		return "unknown"
	}
}

// Value is a typed option value. Only the field matching Type is meaningful;
// List holds string lists and sorted flag sets.
type Value struct {
	Type ValueType
	Bool bool
	Int  int
	Str  string
	List []string
}

// BoolValue returns a boolean Value.
func BoolValue(b bool) Value { return Value{Type: TypeBool, Bool: b} }

// IntValue returns an integer Value.
func IntValue(n int) Value { return Value{Type: TypeInt, Int: n} }

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{Type: TypeString, Str: s} }

// ListValue returns a string list Value.
func ListValue(items ...string) Value {
	return Value{Type: TypeStringList, List: append([]string{}, items...)}
}

// Equal reports whether two values have the same type and content.
func (v Value) Equal(o Value) bool {
	return v.Type == o.Type && v.Bool == o.Bool && v.Int == o.Int && v.Str == o.Str && slices.Equal(v.List, o.List)
}

// Interface returns the value as a plain Go value for encoding.
func (v Value) Interface() any {
	switch v.Type {
	case TypeBool:
		return v.Bool
	case TypeInt:
		return v.Int
	case TypeStringList, TypeFlags:
		return append([]string{}, v.List...)
	case TypeLayout:
		if v.Str == "" {
			return false
		}
		return v.Str
	default:
		return v.Str
	}
}

func (v Value) String() string {
	switch v.Type {
	case TypeBool:
		return strconv.FormatBool(v.Bool)
	case TypeInt:
		return strconv.Itoa(v.Int)
	case TypeString:
		return strconv.Quote(v.Str)
	case TypeEnum:
		return ":" + v.Str
	case TypeStringList:
		quoted := make([]string, len(v.List))
		for i, s := range v.List {
			quoted[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	case TypeFlags:
		return "{" + strings.Join(v.List, ", ") + "}"
	case TypeLayout:
		if v.Str == "" {
			return "false"
		}
		return strconv.Quote(v.Str)
	default:
		return "?"
	}
}

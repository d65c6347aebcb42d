package dsl

import (
	"fmt"
	"strconv"
	"strings"
)

// Pos is a position in a source file. Line and Column are 1-based.
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string {
	if p.Line == 0 {
		return p.File
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Kind identifies the type of a literal Value.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindString
	KindSymbol
	KindArray
	KindHash
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindArray:
		return "array"
	case KindHash:
		return "hash"
	default:
		return "unknown"
	}
}

// Value is a literal argument value.
type Value struct {
	Kind Kind
	Bool bool
	Int  int64
	// Str holds the text of strings and symbols (without the leading colon).
	Str  string
	List []Value
	Hash []Pair
	Pos  Pos
}

// Pair is a key/value entry of a hash literal or a hash-style argument list.
type Pair struct {
	Key    string
	KeyPos Pos
	Value  Value
}

// Text returns the string form of strings and symbols.
func (v Value) Text() (string, bool) {
	if v.Kind == KindString || v.Kind == KindSymbol {
		return v.Str, true
	}
	return "", false
}

// String renders the value in source syntax.
func (v Value) String() string {
	switch v.Kind {
	case KindNil:
		return "nil"
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindString:
		return strconv.Quote(v.Str)
	case KindSymbol:
		return ":" + v.Str
	case KindArray:
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindHash:
		parts := make([]string, len(v.Hash))
		for i, p := range v.Hash {
			parts[i] = p.Key + ": " + p.Value.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "?"
	}
}

// DirectiveKind distinguishes calls from attribute assignments.
type DirectiveKind int

const (
	// Call is `name arg, key: value [do ... end]`.
	Call DirectiveKind = iota
	// Assign is `receiver.attr = value` inside a block.
	Assign
)

// Directive is one statement of a configuration file.
type Directive struct {
	Kind DirectiveKind
	Pos  Pos

	// Call form.
	Name    string
	Args    []Value
	Options []Pair
	Block   *Block

	// Assign form.
	Receiver string
	Attr     string
	Value    Value
}

// Block is a `do |params| ... end` body attached to a call.
type Block struct {
	Pos    Pos
	Params []string
	Body   []Directive
}

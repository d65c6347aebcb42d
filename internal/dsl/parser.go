package dsl

import (
	"fmt"
	"os"
	"slices"

	ferrors "git.home.luguber.info/inful/siteconfig/internal/foundation/errors"
)

// ParseFile reads and parses a configuration file.
func ParseFile(path string) ([]Directive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read config file").
			Fatal().
			WithPosition(path, 0, 0).
			Build()
	}
	return Parse(path, data)
}

// Parse parses src into directives. The name is only used for positions.
func Parse(name string, src []byte) ([]Directive, error) {
	toks, err := lex(name, string(src))
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.program()
}

func syntaxErrorf(pos Pos, format string, args ...any) error {
	return ferrors.SyntaxError(fmt.Sprintf(format, args...)).
		WithPosition(pos.File, pos.Line, pos.Column).
		Build()
}

type parser struct {
	toks   []token
	i      int
	params [][]string // block parameters in scope, innermost last
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) peekAt(ahead int) token {
	if p.i+ahead >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i+ahead]
}

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.typ != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) expect(typ tokenType) (token, error) {
	t := p.peek()
	if t.typ != typ {
		return t, syntaxErrorf(t.pos, "expected %s, found %s", typ, t.describe())
	}
	return p.next(), nil
}

func (p *parser) skipNewlines() {
	for p.peek().typ == tokNewline {
		p.next()
	}
}

func (p *parser) isKeyword(t token, kw string) bool {
	return t.typ == tokIdent && t.text == kw
}

func (p *parser) program() ([]Directive, error) {
	out, err := p.statements(func(t token) bool { return t.typ == tokEOF })
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.typ != tokEOF {
		return nil, syntaxErrorf(t.pos, "unexpected %s", t.describe())
	}
	return out, nil
}

// statements parses newline separated directives until stop matches.
func (p *parser) statements(stop func(token) bool) ([]Directive, error) {
	var out []Directive
	for {
		p.skipNewlines()
		t := p.peek()
		if stop(t) || t.typ == tokEOF {
			return out, nil
		}
		d, err := p.statement()
		if err != nil {
			return nil, err
		}
		out = append(out, d)

		end := p.peek()
		switch {
		case end.typ == tokNewline:
		case stop(end), end.typ == tokEOF:
		default:
			return nil, syntaxErrorf(end.pos, "unexpected %s after directive", end.describe())
		}
	}
}

func (p *parser) statement() (Directive, error) {
	t := p.peek()
	if t.typ != tokIdent {
		return Directive{}, syntaxErrorf(t.pos, "expected directive, found %s", t.describe())
	}
	switch t.text {
	case "do", "end", "true", "false", "nil":
		return Directive{}, syntaxErrorf(t.pos, "unexpected keyword %q", t.text)
	}
	if p.peekAt(1).typ == tokDot {
		return p.assignment()
	}
	return p.call()
}

func (p *parser) assignment() (Directive, error) {
	recv := p.next()
	if !p.inScope(recv.text) {
		return Directive{}, syntaxErrorf(recv.pos, "undefined receiver %q (not a block parameter)", recv.text)
	}
	p.next() // '.'
	attr, err := p.expect(tokIdent)
	if err != nil {
		return Directive{}, err
	}
	if _, err := p.expect(tokAssign); err != nil {
		return Directive{}, err
	}
	p.skipNewlines()
	val, err := p.value()
	if err != nil {
		return Directive{}, err
	}
	return Directive{Kind: Assign, Pos: recv.pos, Receiver: recv.text, Attr: attr.text, Value: val}, nil
}

func (p *parser) inScope(name string) bool {
	for _, params := range p.params {
		if slices.Contains(params, name) {
			return true
		}
	}
	return false
}

func (p *parser) call() (Directive, error) {
	name := p.next()
	d := Directive{Kind: Call, Pos: name.pos, Name: name.text}

	switch t := p.peek(); {
	case t.typ == tokLParen:
		p.next()
		if p.peek().typ != tokRParen {
			if err := p.arguments(&d); err != nil {
				return Directive{}, err
			}
		}
		if _, err := p.expect(tokRParen); err != nil {
			return Directive{}, err
		}
	case p.startsArgument(t):
		if err := p.arguments(&d); err != nil {
			return Directive{}, err
		}
	}

	if p.isKeyword(p.peek(), "do") {
		block, err := p.block()
		if err != nil {
			return Directive{}, err
		}
		d.Block = block
	}
	return d, nil
}

func (p *parser) startsArgument(t token) bool {
	switch t.typ {
	case tokLabel, tokSymbol, tokString, tokInt, tokLBracket, tokLBrace:
		return true
	case tokIdent:
		return t.text == "true" || t.text == "false" || t.text == "nil"
	}
	return false
}

func (p *parser) arguments(d *Directive) error {
	for {
		if p.peek().typ == tokLabel {
			pair, err := p.labelPair()
			if err != nil {
				return err
			}
			d.Options = append(d.Options, pair)
		} else {
			val, err := p.value()
			if err != nil {
				return err
			}
			if p.peek().typ == tokArrow {
				pair, err := p.arrowPair(val)
				if err != nil {
					return err
				}
				d.Options = append(d.Options, pair)
			} else {
				if len(d.Options) > 0 {
					return syntaxErrorf(val.Pos, "positional argument after hash arguments")
				}
				d.Args = append(d.Args, val)
			}
		}
		if p.peek().typ != tokComma {
			return nil
		}
		p.next()
		p.skipNewlines()
	}
}

func (p *parser) labelPair() (Pair, error) {
	label := p.next()
	p.skipNewlines()
	val, err := p.value()
	if err != nil {
		return Pair{}, err
	}
	return Pair{Key: label.text, KeyPos: label.pos, Value: val}, nil
}

func (p *parser) arrowPair(key Value) (Pair, error) {
	name, ok := key.Text()
	if !ok {
		return Pair{}, syntaxErrorf(key.Pos, "hash key must be a symbol or string, found %s", key.Kind)
	}
	p.next() // '=>'
	p.skipNewlines()
	val, err := p.value()
	if err != nil {
		return Pair{}, err
	}
	return Pair{Key: name, KeyPos: key.Pos, Value: val}, nil
}

func (p *parser) block() (*Block, error) {
	do := p.next()
	b := &Block{Pos: do.pos}

	if p.peek().typ == tokPipe {
		p.next()
		for {
			param, err := p.expect(tokIdent)
			if err != nil {
				return nil, err
			}
			if slices.Contains(b.Params, param.text) {
				return nil, syntaxErrorf(param.pos, "duplicate block parameter %q", param.text)
			}
			b.Params = append(b.Params, param.text)
			if p.peek().typ != tokComma {
				break
			}
			p.next()
		}
		if _, err := p.expect(tokPipe); err != nil {
			return nil, err
		}
	}

	p.params = append(p.params, b.Params)
	defer func() { p.params = p.params[:len(p.params)-1] }()

	body, err := p.statements(func(t token) bool { return p.isKeyword(t, "end") })
	if err != nil {
		return nil, err
	}
	if !p.isKeyword(p.peek(), "end") {
		return nil, syntaxErrorf(do.pos, "block opened here is missing 'end'")
	}
	p.next()
	b.Body = body
	return b, nil
}

func (p *parser) value() (Value, error) {
	t := p.next()
	v := Value{Pos: t.pos}
	switch t.typ {
	case tokString:
		v.Kind, v.Str = KindString, t.text
	case tokSymbol:
		v.Kind, v.Str = KindSymbol, t.text
	case tokInt:
		v.Kind, v.Int = KindInt, t.num
	case tokIdent:
		switch t.text {
		case "true", "false":
			v.Kind, v.Bool = KindBool, t.text == "true"
		case "nil":
			v.Kind = KindNil
		default:
			return Value{}, syntaxErrorf(t.pos, "expected value, found identifier %q", t.text)
		}
	case tokLBracket:
		v.Kind = KindArray
		v.List = []Value{}
		for p.peek().typ != tokRBracket {
			item, err := p.value()
			if err != nil {
				return Value{}, err
			}
			v.List = append(v.List, item)
			if p.peek().typ != tokComma {
				break
			}
			p.next()
		}
		if _, err := p.expect(tokRBracket); err != nil {
			return Value{}, err
		}
	case tokLBrace:
		v.Kind = KindHash
		v.Hash = []Pair{}
		for p.peek().typ != tokRBrace {
			var pair Pair
			var err error
			if p.peek().typ == tokLabel {
				pair, err = p.labelPair()
			} else {
				var key Value
				if key, err = p.value(); err == nil {
					if p.peek().typ != tokArrow {
						t := p.peek()
						return Value{}, syntaxErrorf(t.pos, "expected '=>' in hash literal, found %s", t.describe())
					}
					pair, err = p.arrowPair(key)
				}
			}
			if err != nil {
				return Value{}, err
			}
			v.Hash = append(v.Hash, pair)
			if p.peek().typ != tokComma {
				break
			}
			p.next()
		}
		if _, err := p.expect(tokRBrace); err != nil {
			return Value{}, err
		}
	default:
		return Value{}, syntaxErrorf(t.pos, "expected value, found %s", t.describe())
	}
	return v, nil
}

package dsl

import (
	"strconv"
	"strings"
)

type tokenType int

const (
	tokEOF tokenType = iota
	tokNewline
	tokIdent
	tokLabel // `name:` used as a hash key
	tokSymbol
	tokString
	tokInt
	tokComma
	tokDot
	tokAssign
	tokArrow
	tokPipe
	tokLBracket
	tokRBracket
	tokLBrace
	tokRBrace
	tokLParen
	tokRParen
)

var tokenNames = map[tokenType]string{
	tokEOF:      "end of file",
	tokNewline:  "end of line",
	tokIdent:    "identifier",
	tokLabel:    "label",
	tokSymbol:   "symbol",
	tokString:   "string",
	tokInt:      "integer",
	tokComma:    "','",
	tokDot:      "'.'",
	tokAssign:   "'='",
	tokArrow:    "'=>'",
	tokPipe:     "'|'",
	tokLBracket: "'['",
	tokRBracket: "']'",
	tokLBrace:   "'{'",
	tokRBrace:   "'}'",
	tokLParen:   "'('",
	tokRParen:   "')'",
}

func (t tokenType) String() string { return tokenNames[t] }

type token struct {
	typ  tokenType
	text string
	num  int64
	pos  Pos
}

func (t token) describe() string {
	switch t.typ {
	case tokIdent, tokLabel, tokInt:
		return t.typ.String() + " " + strconv.Quote(t.text)
	case tokSymbol:
		return "symbol :" + t.text
	case tokString:
		return "string " + strconv.Quote(t.text)
	default:
		return t.typ.String()
	}
}

type lexer struct {
	file  string
	src   string
	off   int
	line  int
	col   int
	depth int // open ( [ { ; newlines inside are insignificant
	toks  []token
}

// lex splits src into tokens. Semicolons are reported as newlines.
func lex(file, src string) ([]token, error) {
	l := &lexer{file: file, src: src, line: 1, col: 1}
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		l.toks = append(l.toks, tok)
		if tok.typ == tokEOF {
			return l.toks, nil
		}
	}
}

func (l *lexer) pos() Pos { return Pos{File: l.file, Line: l.line, Column: l.col} }

func (l *lexer) peek(ahead int) byte {
	if l.off+ahead >= len(l.src) {
		return 0
	}
	return l.src[l.off+ahead]
}

func (l *lexer) advance() byte {
	c := l.src[l.off]
	l.off++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *lexer) errorf(pos Pos, format string, args ...any) error {
	return syntaxErrorf(pos, format, args...)
}

func (l *lexer) emit(typ tokenType, text string, pos Pos) (token, error) {
	return token{typ: typ, text: text, pos: pos}, nil
}

func (l *lexer) next() (token, error) {
	for l.off < len(l.src) {
		c := l.peek(0)
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			l.advance()
		case c == '\\' && l.peek(1) == '\n':
			l.advance()
			l.advance()
		case c == '#':
			for l.off < len(l.src) && l.peek(0) != '\n' {
				l.advance()
			}
		case (c == '\n' || c == ';') && l.depth > 0:
			l.advance()
		case c == '\n' || c == ';':
			pos := l.pos()
			l.advance()
			return l.emit(tokNewline, "", pos)
		default:
			return l.scan()
		}
	}
	return l.emit(tokEOF, "", l.pos())
}

func (l *lexer) scan() (token, error) {
	pos := l.pos()
	c := l.peek(0)
	switch {
	case isIdentStart(c):
		ident := l.ident()
		if l.peek(0) == ':' && l.peek(1) != ':' {
			l.advance()
			return l.emit(tokLabel, ident, pos)
		}
		return l.emit(tokIdent, ident, pos)
	case isDigit(c) || (c == '-' && isDigit(l.peek(1))):
		return l.number(pos)
	case c == '"' || c == '\'':
		s, err := l.quoted(pos)
		if err != nil {
			return token{}, err
		}
		if l.peek(0) == ':' && l.peek(1) != ':' {
			// "key": value
			l.advance()
			return l.emit(tokLabel, s, pos)
		}
		return l.emit(tokString, s, pos)
	case c == ':':
		l.advance()
		switch {
		case isIdentStart(l.peek(0)):
			return l.emit(tokSymbol, l.ident(), pos)
		case l.peek(0) == '"' || l.peek(0) == '\'':
			s, err := l.quoted(l.pos())
			if err != nil {
				return token{}, err
			}
			return l.emit(tokSymbol, s, pos)
		default:
			return token{}, l.errorf(pos, "unexpected ':'")
		}
	}

	l.advance()
	switch c {
	case ',':
		return l.emit(tokComma, "", pos)
	case '.':
		return l.emit(tokDot, "", pos)
	case '|':
		return l.emit(tokPipe, "", pos)
	case '=':
		if l.peek(0) == '>' {
			l.advance()
			return l.emit(tokArrow, "", pos)
		}
		if l.peek(0) == '=' {
			return token{}, l.errorf(pos, "comparison operators are not supported")
		}
		return l.emit(tokAssign, "", pos)
	case '[', '{', '(':
		l.depth++
		return l.emit(map[byte]tokenType{'[': tokLBracket, '{': tokLBrace, '(': tokLParen}[c], "", pos)
	case ']', '}', ')':
		if l.depth > 0 {
			l.depth--
		}
		return l.emit(map[byte]tokenType{']': tokRBracket, '}': tokRBrace, ')': tokRParen}[c], "", pos)
	}
	return token{}, l.errorf(pos, "unexpected character %q", rune(c))
}

func (l *lexer) ident() string {
	start := l.off
	for l.off < len(l.src) && isIdentPart(l.peek(0)) {
		l.advance()
	}
	if c := l.peek(0); c == '?' || c == '!' {
		l.advance()
	}
	return l.src[start:l.off]
}

func (l *lexer) number(pos Pos) (token, error) {
	start := l.off
	if l.peek(0) == '-' {
		l.advance()
	}
	for l.off < len(l.src) && (isDigit(l.peek(0)) || l.peek(0) == '_') {
		l.advance()
	}
	if l.peek(0) == '.' && isDigit(l.peek(1)) {
		return token{}, l.errorf(pos, "floating point values are not supported")
	}
	if isIdentStart(l.peek(0)) {
		return token{}, l.errorf(pos, "malformed number %q", l.src[start:l.off+1])
	}
	text := l.src[start:l.off]
	if strings.HasSuffix(text, "_") || strings.Contains(text, "__") {
		return token{}, l.errorf(pos, "malformed number %q", text)
	}
	n, err := strconv.ParseInt(strings.ReplaceAll(text, "_", ""), 10, 64)
	if err != nil {
		return token{}, l.errorf(pos, "integer %s out of range", text)
	}
	return token{typ: tokInt, text: text, num: n, pos: pos}, nil
}

func (l *lexer) quoted(pos Pos) (string, error) {
	quote := l.advance()
	var b strings.Builder
	for {
		if l.off >= len(l.src) {
			return "", l.errorf(pos, "unterminated string")
		}
		c := l.advance()
		switch {
		case c == quote:
			return b.String(), nil
		case c == '\n':
			return "", l.errorf(pos, "unterminated string")
		case c == '#' && quote == '"' && l.peek(0) == '{':
			return "", l.errorf(pos, "string interpolation is not supported")
		case c == '\\':
			if l.off >= len(l.src) {
				return "", l.errorf(pos, "unterminated string")
			}
			esc := l.advance()
			if quote == '\'' {
				if esc != '\'' && esc != '\\' {
					b.WriteByte('\\')
				}
				b.WriteByte(esc)
				continue
			}
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '0':
				b.WriteByte(0)
			case '"', '\\', '\'', '#':
				b.WriteByte(esc)
			default:
				return "", l.errorf(Pos{File: l.file, Line: l.line, Column: l.col - 2}, "unknown escape sequence \\%c", esc)
			}
		default:
			b.WriteByte(c)
		}
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Package lang implements the CCS surface syntax: a hand-written
// lexer and recursive-descent parser that build selector.Selector and
// ruletree.Node values directly, sitting above the core packages and
// never imported by them (spec §6, §12).
package lang

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/hellige/ccs-go/ccserr"
	"github.com/hellige/ccs-go/stringval"
)

var (
	intRe    = regexp.MustCompile(`^[-+]?[0-9]+$`)
	doubleRe = regexp.MustCompile(`^[-+]?[0-9]+\.?[0-9]*([eE][-+]?[0-9]+)?$`)
)

// TokenKind enumerates the lexical token types of the surface syntax.
type TokenKind int

const (
	EOS TokenKind = iota
	LParen
	RParen
	LBrace
	RBrace
	Semi
	Colon
	Comma
	Dot
	Eq
	Constrain
	Context
	Import
	Override
	Int
	Double
	Ident
	NumID
	String
)

func (k TokenKind) String() string {
	switch k {
	case EOS:
		return "end-of-input"
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case LBrace:
		return "'{'"
	case RBrace:
		return "'}'"
	case Semi:
		return "';'"
	case Colon:
		return "':'"
	case Comma:
		return "','"
	case Dot:
		return "'.'"
	case Eq:
		return "'='"
	case Constrain:
		return "'@constrain'"
	case Context:
		return "'@context'"
	case Import:
		return "'@import'"
	case Override:
		return "'@override'"
	case Int:
		return "integer"
	case Double:
		return "double"
	case Ident:
		return "identifier"
	case NumID:
		return "numeric/identifier"
	case String:
		return "string literal"
	default:
		return "unknown"
	}
}

// Location is a 1-based line/column in a source stream.
type Location struct {
	Line   int
	Column int
}

func (l Location) String() string { return fmt.Sprintf("<%d:%d>", l.Line, l.Column) }

// Token is one lexical unit: its kind, source location, accumulated
// text (for idents/numbers), and, for String tokens, the parsed
// stringval.StringVal.
type Token struct {
	Kind        TokenKind
	Loc         Location
	Value       string
	StringValue *stringval.StringVal
}

const eof = rune(0)

type runeBuf struct {
	r         io.RuneReader
	peekR     rune
	peekErr   error
	line, col int
}

func newRuneBuf(r io.Reader) *runeBuf {
	b := &runeBuf{r: asRuneReader(r), line: 1, col: 0}
	b.peekR, _, b.peekErr = b.r.ReadRune()
	if b.peekErr != nil {
		b.peekR = eof
	}
	return b
}

func asRuneReader(r io.Reader) io.RuneReader {
	if rr, ok := r.(io.RuneReader); ok {
		return rr
	}
	return runeReaderAdapter{r}
}

type runeReaderAdapter struct{ r io.Reader }

func (a runeReaderAdapter) ReadRune() (rune, int, error) {
	var buf [1]byte
	n, err := a.r.Read(buf[:])
	if n == 0 {
		return eof, 0, err
	}
	return rune(buf[0]), 1, nil
}

func (b *runeBuf) get() rune {
	c := b.peekR
	next, _, err := b.r.ReadRune()
	if err != nil {
		next = eof
	}
	b.peekR = next
	b.col++
	if c == '\n' {
		b.line++
		b.col = 0
	}
	return c
}

func (b *runeBuf) peek() rune { return b.peekR }

func (b *runeBuf) location() Location      { return Location{Line: b.line, Column: b.col} }
func (b *runeBuf) peekLocation() Location  { return Location{Line: b.line, Column: b.col + 1} }

// Lexer tokenizes a CCS source stream, always holding exactly one
// token of lookahead.
type Lexer struct {
	filename string
	buf      *runeBuf
	next     Token
}

// NewLexer creates a Lexer over r, identified as filename in error
// messages.
func NewLexer(r io.Reader, filename string) (*Lexer, error) {
	l := &Lexer{filename: filename, buf: newRuneBuf(r)}
	tok, err := l.nextToken()
	if err != nil {
		return nil, err
	}
	l.next = tok
	return l, nil
}

// Peek returns the current lookahead token without consuming it.
func (l *Lexer) Peek() Token { return l.next }

// Consume returns the current lookahead token and advances.
func (l *Lexer) Consume() (Token, error) {
	tok := l.next
	next, err := l.nextToken()
	if err != nil {
		return Token{}, err
	}
	l.next = next
	return tok, nil
}

func (l *Lexer) parseErr(loc Location, format string, args ...any) error {
	return &ccserr.ParseError{Filename: l.filename, Line: loc.Line, Column: loc.Column, Message: fmt.Sprintf(format, args...)}
}

func (l *Lexer) nextToken() (Token, error) {
	c := l.buf.get()
	for isSpace(c) || c == '/' {
		if isSpace(c) {
			c = l.buf.get()
			continue
		}
		consumed, err := l.skipComment()
		if err != nil {
			return Token{}, err
		}
		if !consumed {
			break
		}
		c = l.buf.get()
	}

	where := l.buf.location()

	switch c {
	case eof:
		return Token{Kind: EOS, Loc: where}, nil
	case '(':
		return Token{Kind: LParen, Loc: where}, nil
	case ')':
		return Token{Kind: RParen, Loc: where}, nil
	case '{':
		return Token{Kind: LBrace, Loc: where}, nil
	case '}':
		return Token{Kind: RBrace, Loc: where}, nil
	case ';':
		return Token{Kind: Semi, Loc: where}, nil
	case ':':
		return Token{Kind: Colon, Loc: where}, nil
	case ',':
		return Token{Kind: Comma, Loc: where}, nil
	case '.':
		return Token{Kind: Dot, Loc: where}, nil
	case '=':
		return Token{Kind: Eq, Loc: where}, nil
	case '@':
		return l.command(c, where)
	case '\'', '"':
		return l.stringLit(c, where)
	}

	if numidInitChar(c) {
		return l.numid(c, where)
	}
	if identInitChar(c) {
		return l.ident(c, where), nil
	}
	return Token{}, l.parseErr(where, "Unexpected character: %q", c)
}

func (l *Lexer) skipComment() (bool, error) {
	if l.buf.peek() == '/' {
		l.buf.get()
		for {
			c := l.buf.get()
			if c == '\n' || c == eof {
				return true, nil
			}
		}
	}
	if l.buf.peek() == '*' {
		l.buf.get()
		return true, l.multilineComment()
	}
	return false, nil
}

func (l *Lexer) multilineComment() error {
	for {
		c := l.buf.get()
		if c == eof {
			return l.parseErr(l.buf.location(), "Unterminated multi-line comment")
		}
		if c == '*' && l.buf.peek() == '/' {
			l.buf.get()
			return nil
		}
	}
}

func (l *Lexer) command(_ rune, where Location) (Token, error) {
	tok := l.ident('@', where)
	switch tok.Value {
	case "@constrain":
		tok.Kind = Constrain
	case "@context":
		tok.Kind = Context
	case "@import":
		tok.Kind = Import
	case "@override":
		tok.Kind = Override
	default:
		return Token{}, l.parseErr(where, "Unrecognized @-command: %s", tok.Value)
	}
	return tok, nil
}

func identInitChar(c rune) bool {
	return c == '$' || c == '_' || ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z')
}

func identChar(c rune) bool {
	return identInitChar(c) || ('0' <= c && c <= '9')
}

func numidInitChar(c rune) bool {
	return ('0' <= c && c <= '9') || c == '-' || c == '+'
}

func numidChar(c rune) bool {
	return numidInitChar(c) || identChar(c) || c == '.'
}

func interpolantChar(c rune) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z')
}

func isSpace(c rune) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

func (l *Lexer) ident(first rune, where Location) Token {
	var sb strings.Builder
	sb.WriteRune(first)
	for identChar(l.buf.peek()) {
		sb.WriteRune(l.buf.get())
	}
	return Token{Kind: Ident, Loc: where, Value: sb.String()}
}

func (l *Lexer) numid(first rune, where Location) (Token, error) {
	if first == '0' && l.buf.peek() == 'x' {
		l.buf.get()
		return l.hexLiteral(where)
	}
	var sb strings.Builder
	sb.WriteRune(first)
	for numidChar(l.buf.peek()) {
		sb.WriteRune(l.buf.get())
	}
	val := sb.String()
	kind := NumID
	if intRe.MatchString(val) {
		kind = Int
	} else if doubleRe.MatchString(val) {
		kind = Double
	}
	return Token{Kind: kind, Loc: where, Value: val}, nil
}

func (l *Lexer) hexLiteral(where Location) (Token, error) {
	var sb strings.Builder
	n := hexDigit(l.buf.peek())
	for n != -1 {
		sb.WriteRune(l.buf.get())
		n = hexDigit(l.buf.peek())
	}
	return Token{Kind: Int, Loc: where, Value: sb.String()}, nil
}

func hexDigit(c rune) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'f':
		return 10 + int(c-'a')
	case 'A' <= c && c <= 'F':
		return 10 + int(c-'A')
	default:
		return -1
	}
}

// stringLit lexes a quoted string, including ${...} interpolants and
// backslash escapes, delegating the assembled value to stringval.
func (l *Lexer) stringLit(quote rune, where Location) (Token, error) {
	result := &stringval.StringVal{}
	var current strings.Builder
	for l.buf.peek() != quote {
		peek := l.buf.peek()
		switch {
		case peek == eof:
			return Token{}, l.parseErr(l.buf.peekLocation(), "Unterminated string literal")
		case peek == '$':
			l.buf.get()
			if l.buf.peek() != '{' {
				return Token{}, l.parseErr(l.buf.peekLocation(), "Expected '{'")
			}
			l.buf.get()
			if current.Len() > 0 {
				result.AddLiteral(current.String())
				current.Reset()
			}
			var interp strings.Builder
			for l.buf.peek() != '}' {
				if !interpolantChar(l.buf.peek()) {
					return Token{}, l.parseErr(l.buf.peekLocation(),
						"Character not allowed in string interpolant: %q", l.buf.peek())
				}
				interp.WriteRune(l.buf.get())
			}
			l.buf.get()
			result.AddInterpolant(interp.String())
		case peek == '\\':
			l.buf.get()
			escape := l.buf.get()
			switch escape {
			case '$', '\'', '"', '\\', 't', 'n', 'r':
				current.WriteRune(unescape(escape))
			case '\n':
				// escaped newline: ignore
			default:
				return Token{}, l.parseErr(l.buf.location(), "Unrecognized escape sequence: '\\%c'", escape)
			}
		default:
			current.WriteRune(l.buf.get())
		}
	}
	l.buf.get()
	if current.Len() > 0 {
		result.AddLiteral(current.String())
	}
	return Token{Kind: String, Loc: where, StringValue: result}, nil
}

func unescape(c rune) rune {
	switch c {
	case 't':
		return '\t'
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	default:
		return c
	}
}

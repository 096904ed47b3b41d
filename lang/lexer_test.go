package lang

import (
	"strings"
	"testing"
)

func tokenize(t *testing.T, src string) []Token {
	t.Helper()
	lex, err := NewLexer(strings.NewReader(src), "test.ccs")
	if err != nil {
		t.Fatalf("NewLexer: %v", err)
	}
	var toks []Token
	for {
		tok := lex.Peek()
		toks = append(toks, tok)
		if tok.Kind == EOS {
			return toks
		}
		if _, err := lex.Consume(); err != nil {
			t.Fatalf("Consume: %v", err)
		}
	}
}

func TestLexIdentsAndPunctuation(t *testing.T) {
	toks := tokenize(t, "env.prod { a = 1 }")
	kinds := make([]TokenKind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	want := []TokenKind{Ident, Dot, Ident, LBrace, Ident, Eq, Int, RBrace, EOS}
	if len(kinds) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(kinds), kinds, len(want), want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestLexIntAndDoubleAndHex(t *testing.T) {
	toks := tokenize(t, "1 -2 3.14 0xFF")
	if toks[0].Kind != Int || toks[0].Value != "1" {
		t.Fatalf("got %+v", toks[0])
	}
	if toks[1].Kind != Int || toks[1].Value != "-2" {
		t.Fatalf("got %+v", toks[1])
	}
	if toks[2].Kind != Double || toks[2].Value != "3.14" {
		t.Fatalf("got %+v", toks[2])
	}
	if toks[3].Kind != Int || toks[3].Value != "FF" {
		t.Fatalf("expected hex digits captured verbatim, got %+v", toks[3])
	}
}

func TestLexAtCommands(t *testing.T) {
	toks := tokenize(t, "@import @constrain @context @override")
	want := []TokenKind{Import, Constrain, Context, Override, EOS}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestLexUnrecognizedAtCommand(t *testing.T) {
	_, err := NewLexer(strings.NewReader("@bogus"), "test.ccs")
	if err == nil {
		t.Fatalf("expected an error for an unrecognized @-command")
	}
}

func TestLexStringWithInterpolationAndEscapes(t *testing.T) {
	toks := tokenize(t, `"host-${region}\n-\"quoted\""`)
	if toks[0].Kind != String {
		t.Fatalf("expected a String token, got %s", toks[0].Kind)
	}
	sv := toks[0].StringValue
	if !sv.HasInterpolation() {
		t.Fatalf("expected the string to have an interpolation")
	}
	out, err := sv.Resolve(map[string]string{"region": "us"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := "host-us\n-\"quoted\""
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestLexUnterminatedStringIsAnError(t *testing.T) {
	_, err := NewLexer(strings.NewReader(`"unterminated`), "test.ccs")
	if err == nil {
		t.Fatalf("expected an unterminated-string error")
	}
}

func TestLexSkipsLineAndBlockComments(t *testing.T) {
	toks := tokenize(t, "a // trailing comment\n/* block\ncomment */ b")
	kinds := make([]TokenKind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	want := []TokenKind{Ident, Ident, EOS}
	if len(kinds) != len(want) {
		t.Fatalf("got %v, want %v", kinds, want)
	}
}

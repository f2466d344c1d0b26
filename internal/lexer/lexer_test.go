package lexer

import (
	"testing"

	"logaffeine/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenize_BlockHeader(t *testing.T) {
	toks := New("## Main\n").Tokenize()
	if toks[0].Kind != token.BLOCK_HEADER {
		t.Fatalf("expected first token to be BLOCK_HEADER, got %v", toks[0].Kind)
	}
	if toks[0].Lexeme != "Main" {
		t.Fatalf("expected block header name %q, got %q", "Main", toks[0].Lexeme)
	}
	if toks[len(toks)-1].Kind != token.EOF {
		t.Fatalf("expected the last token to be EOF, got %v", toks[len(toks)-1].Kind)
	}
}

func TestTokenize_KeywordsAndPunctuation(t *testing.T) {
	toks := New("Let x be 5.\n").Tokenize()
	got := kinds(toks)
	want := []token.Kind{token.LET, token.AMBIGUOUS, token.BE, token.NUMBER, token.DOT, token.NEWLINE, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(got), got)
	}
	for i, k := range want {
		if got[i] != k {
			t.Fatalf("token %d: got %v, want %v (full stream %v)", i, got[i], k, got)
		}
	}
}

// An open-class word like a variable name never classifies as IDENT
// directly: it is handed to the parser as AMBIGUOUS, which decides
// identifier-vs-predicate status from sentence position.
func TestTokenize_OpenClassWordIsAmbiguous(t *testing.T) {
	toks := New("fact\n").Tokenize()
	if toks[0].Kind != token.AMBIGUOUS {
		t.Fatalf("expected an open-class word to lex as AMBIGUOUS, got %v", toks[0].Kind)
	}
	if toks[0].Lexeme != "fact" {
		t.Fatalf("expected lexeme %q, got %q", "fact", toks[0].Lexeme)
	}
}

func TestTokenize_Indentation(t *testing.T) {
	src := "If n equals 0:\n    Return 1.\nReturn 2.\n"
	toks := New(src).Tokenize()
	var indents, dedents int
	for _, tk := range toks {
		switch tk.Kind {
		case token.INDENT:
			indents++
		case token.DEDENT:
			dedents++
		}
	}
	if indents != 1 || dedents != 1 {
		t.Fatalf("expected one INDENT and one matching DEDENT, got %d INDENT and %d DEDENT in %v", indents, dedents, kinds(toks))
	}
}

func TestTokenize_StringLiteral(t *testing.T) {
	toks := New(`Show "hello".` + "\n").Tokenize()
	var found bool
	for _, tk := range toks {
		if tk.Kind == token.STRING {
			found = true
			if tk.Lexeme != "hello" {
				t.Fatalf("expected string lexeme %q, got %q", "hello", tk.Lexeme)
			}
		}
	}
	if !found {
		t.Fatalf("expected a STRING token, got %v", kinds(toks))
	}
}

func TestTokenize_Number(t *testing.T) {
	toks := New("42\n").Tokenize()
	if toks[0].Kind != token.NUMBER || toks[0].Lexeme != "42" {
		t.Fatalf("expected NUMBER token %q, got %v %q", "42", toks[0].Kind, toks[0].Lexeme)
	}
}

func TestTokenize_NeverFailsOnIllegalInput(t *testing.T) {
	toks := New("@@@\n").Tokenize()
	if toks[len(toks)-1].Kind != token.EOF {
		t.Fatalf("expected a stream ending in EOF even for illegal characters, got %v", kinds(toks))
	}
}

// Package token defines the contract the external lexer/MWE-folder hands
// the parser: a stream of tokens carrying a span, a lemma, and a bundle
// of morphological features, per spec.md §2 item 2 and §6.
package token

import "fmt"

// Kind is the primary lexical category of a token.
type Kind string

const (
	ILLEGAL Kind = "ILLEGAL"
	EOF     Kind = "EOF"
	NEWLINE Kind = "NEWLINE"
	INDENT  Kind = "INDENT"
	DEDENT  Kind = "DEDENT"

	BLOCK_HEADER Kind = "BLOCK_HEADER" // `## Main`, `## Theorem`, ...

	// Imperative keywords.
	LET      Kind = "LET"
	BE       Kind = "BE"
	SET      Kind = "SET"
	TO       Kind = "TO"
	CALL     Kind = "CALL"
	WITH     Kind = "WITH"
	IF       Kind = "IF"
	OTHERWISE Kind = "OTHERWISE"
	WHILE    Kind = "WHILE"
	REPEAT   Kind = "REPEAT"
	ZONE     Kind = "ZONE"
	INSPECT  Kind = "INSPECT"
	DEFINE   Kind = "DEFINE"
	FUNCTION Kind = "FUNCTION"
	RETURN   Kind = "RETURN"
	GIVE     Kind = "GIVE"
	SHOW     Kind = "SHOW"
	READFROM Kind = "READFROM"
	ASSERT   Kind = "ASSERT"
	THAT     Kind = "THAT"
	OF       Kind = "OF"
	IN       Kind = "IN"
	ITEM     Kind = "ITEM"
	FROM     Kind = "FROM"
	POP      Kind = "POP"
	INTO     Kind = "INTO"
	AWAIT    Kind = "AWAIT"
	MESSAGE  Kind = "MESSAGE"
	CONCURRENT Kind = "CONCURRENT"
	PARALLEL Kind = "PARALLEL"
	PIPE     Kind = "PIPE"
	CREATE   Kind = "CREATE"
	RECEIVE  Kind = "RECEIVE"
	TRY      Kind = "TRY"

	// Declarative / logical-form vocabulary classes. The real lexer
	// resolves open-class words to AMBIGUOUS tokens with a primary
	// category plus alternatives (DESIGN NOTES); we model the closed
	// function-word classes directly.
	ARTICLE     Kind = "ARTICLE"     // a, an, the
	QUANTIFIER  Kind = "QUANTIFIER"  // all, every, some, no, most, many, few
	COPULA      Kind = "COPULA"      // is, are, was, were
	NEGATION    Kind = "NEGATION"    // not, n't
	MODAL       Kind = "MODAL"       // must, may, can, should
	CONJUNCTION Kind = "CONJUNCTION" // and, or
	PREPOSITION Kind = "PREPOSITION" // of, to, by, with, in
	PRONOUN     Kind = "PRONOUN"     // he, she, it, they, his, her, ...
	RELATIVE    Kind = "RELATIVE"    // who, which, that

	AMBIGUOUS Kind = "AMBIGUOUS" // open-class word; Alternatives holds other readings

	IDENT  Kind = "IDENT"
	NUMBER Kind = "NUMBER"
	STRING Kind = "STRING"
	DOT    Kind = "DOT"
	COMMA  Kind = "COMMA"
	COLON  Kind = "COLON"
	LBRACKET Kind = "LBRACKET"
	RBRACKET Kind = "RBRACKET"
	LPAREN Kind = "LPAREN"
	RPAREN Kind = "RPAREN"
)

// Span is a half-open byte range within the source file.
type Span struct {
	Start int
	End   int
}

// MorphFeatures captures the morphological features the external lexer
// delivers alongside a lemma: tense, number, gender, and verb class,
// consumed by the declarative parser's mode logic (spec.md §3 "AST —
// logical form", quantifier/modal/temporal/aspectual nodes).
type MorphFeatures struct {
	Plural    bool
	Past      bool
	Progressive bool
	Gender    string // "m", "f", "n", "" (unknown)
	VerbClass string // "stative", "eventive", ""
}

// Token is one lexical unit.
type Token struct {
	Kind    Kind
	Lexeme  string
	Lemma   string
	Span    Span
	Line    int
	Column  int
	Morph   MorphFeatures
	// Alternatives holds secondary lexical-category readings for an
	// AMBIGUOUS token; the primary Kind is tried first (DESIGN NOTES
	// "dynamic lexical class").
	Alternatives []Kind
}

func (t Token) String() string {
	return fmt.Sprintf("%d:%d %s %q", t.Line, t.Column, t.Kind, t.Lexeme)
}

var keywords = map[string]Kind{
	"let": LET, "be": BE, "set": SET, "to": TO, "call": CALL, "with": WITH,
	"if": IF, "otherwise": OTHERWISE, "while": WHILE, "repeat": REPEAT,
	"zone": ZONE, "inspect": INSPECT, "define": DEFINE, "function": FUNCTION,
	"return": RETURN, "give": GIVE, "show": SHOW, "assert": ASSERT,
	"that": THAT, "of": OF, "in": IN, "item": ITEM, "from": FROM,
	"pop": POP, "into": INTO, "await": AWAIT, "message": MESSAGE,
	"concurrent": CONCURRENT, "parallel": PARALLEL, "pipe": PIPE,
	"create": CREATE, "receive": RECEIVE, "try": TRY,
}

var quantifiers = map[string]bool{
	"all": true, "every": true, "some": true, "no": true, "most": true,
	"many": true, "few": true, "each": true, "any": true,
}

var articles = map[string]bool{"a": true, "an": true, "the": true}
var copulas = map[string]bool{"is": true, "are": true, "was": true, "were": true}
var modals = map[string]bool{"must": true, "may": true, "can": true, "should": true, "might": true}
var pronouns = map[string]bool{
	"he": true, "she": true, "it": true, "they": true, "him": true,
	"her": true, "his": true, "its": true, "their": true, "them": true,
}
var relatives = map[string]bool{"who": true, "which": true, "that": true}

// LookupWord classifies a lowercase word into its closed-class Kind, or
// returns IDENT if it belongs to no closed class (an open-class content
// word, handled by the parser as an AMBIGUOUS token upstream).
func LookupWord(word string) Kind {
	if k, ok := keywords[word]; ok {
		return k
	}
	if quantifiers[word] {
		return QUANTIFIER
	}
	if articles[word] {
		return ARTICLE
	}
	if copulas[word] {
		return COPULA
	}
	if modals[word] {
		return MODAL
	}
	if pronouns[word] {
		return PRONOUN
	}
	if relatives[word] {
		return RELATIVE
	}
	if word == "not" {
		return NEGATION
	}
	if word == "and" || word == "or" {
		return CONJUNCTION
	}
	return IDENT
}

package parser

import (
	"errors"
	"strings"
	"testing"

	"logaffeine/internal/ast"
	"logaffeine/internal/diagnostics"
	"logaffeine/internal/discovery"
	"logaffeine/internal/intern"
	"logaffeine/internal/lexer"
)

func newTestParser(src string) *Parser {
	toks := lexer.New(src).Tokenize()
	return New(toks, discovery.New(), discovery.NewPolicyRegistry(), intern.New())
}

// "All men are mortal." (spec.md §8 scenario 4) lowers to a universal
// quantifier whose body is an implication of restrictor and scope.
func TestParseQuantifiedSentence_Universal(t *testing.T) {
	p := newTestParser("## Theorem\nAll men are mortal.\n")
	if !p.processBlockHeaders() {
		t.Fatalf("expected a block header")
	}
	expr, err := p.parseLogicExpr(ModeFlags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q, ok := expr.(*ast.Quantifier)
	if !ok {
		t.Fatalf("expected *ast.Quantifier, got %T", expr)
	}
	if q.Kind != ast.QUniversal {
		t.Fatalf("expected QUniversal, got %v", q.Kind)
	}
	body, ok := q.Body.(*ast.BinaryOp)
	if !ok || body.Op != "implies" {
		t.Fatalf("expected an 'implies' body, got %#v", q.Body)
	}
	if _, ok := body.Left.(*ast.Predicate); !ok {
		t.Fatalf("expected restrictor predicate, got %T", body.Left)
	}
	if _, ok := body.Right.(*ast.Predicate); !ok {
		t.Fatalf("expected scope predicate, got %T", body.Right)
	}
}

// "Socrates is mortal." exercises the proper-name-subject + copula shape.
func TestParseSentence_ProperNameCopula(t *testing.T) {
	p := newTestParser("## Theorem\nSocrates is mortal.\n")
	p.processBlockHeaders()
	expr, err := p.parseLogicExpr(ModeFlags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pred, ok := expr.(*ast.Predicate)
	if !ok {
		t.Fatalf("expected *ast.Predicate, got %T", expr)
	}
	if len(pred.Args) != 1 {
		t.Fatalf("expected one argument, got %d", len(pred.Args))
	}
	if _, ok := pred.Args[0].(*ast.Atom); !ok {
		t.Fatalf("expected an Atom subject, got %T", pred.Args[0])
	}
}

// A definite-description subject produces a DefiniteDescription node at
// parse time; RewriteAxioms then lifts it into an existential-plus-
// uniqueness form (spec.md §8 Boundary).
func TestRewriteAxioms_DefiniteDescriptionUniqueness(t *testing.T) {
	p := newTestParser("## Theorem\nThe king is wise.\n")
	p.processBlockHeaders()
	expr, err := p.parseLogicExpr(ModeFlags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := expr.(*ast.Predicate); !ok {
		t.Fatalf("expected the raw parse to be a copula Predicate wrapping a DefiniteDescription argument, got %T", expr)
	}

	rewritten := RewriteAxioms(expr, p.interner)
	q, ok := rewritten.(*ast.Quantifier)
	if !ok {
		t.Fatalf("expected RewriteAxioms to produce an existential, got %T", rewritten)
	}
	if q.Kind != ast.QExistential {
		t.Fatalf("expected QExistential, got %v", q.Kind)
	}
	conjAll, ok := q.Body.(*ast.BinaryOp)
	if !ok || conjAll.Op != "and" {
		t.Fatalf("expected top conjunction, got %#v", q.Body)
	}
	inner, ok := conjAll.Left.(*ast.BinaryOp)
	if !ok || inner.Op != "and" {
		t.Fatalf("expected restrictor/uniqueness conjunction, got %#v", conjAll.Left)
	}
	if _, ok := inner.Left.(*ast.Predicate); !ok {
		t.Fatalf("expected restrictor predicate, got %T", inner.Left)
	}
	uniq, ok := inner.Right.(*ast.Quantifier)
	if !ok || uniq.Kind != ast.QUniversal {
		t.Fatalf("expected a universal uniqueness clause, got %#v", inner.Right)
	}
	if _, ok := conjAll.Right.(*ast.Predicate); !ok {
		t.Fatalf("expected the wise(x) body predicate to survive, got %T", conjAll.Right)
	}
}

// spec.md §8 scenario 2: "item 0 of xs" is a parse-time ZeroIndex error,
// not a later analysis-phase failure.
func TestParseIndexExpr_ZeroIndexRejectedAtParseTime(t *testing.T) {
	src := "## Main\nLet xs be [1, 2, 3].\nLet y be item 0 of xs.\n"
	p := newTestParser(src)
	_, err := p.ParseProgram()
	if err == nil {
		t.Fatalf("expected a ZeroIndex parse error, got none")
	}
	diag, ok := err.(*diagnostics.Diagnostic)
	if !ok {
		t.Fatalf("expected *diagnostics.Diagnostic, got %T (%v)", err, err)
	}
	if diag.Code != diagnostics.ErrZeroIndex {
		t.Fatalf("expected code %s, got %s", diagnostics.ErrZeroIndex, diag.Code)
	}
}

// A positive, 1-based index parses fine and round-trips through Let.
func TestParseIndexExpr_PositiveIndexAccepted(t *testing.T) {
	src := "## Main\nLet xs be [1, 2, 3].\nLet y be item 1 of xs.\n"
	p := newTestParser(src)
	stmts, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	let, ok := stmts[1].(*ast.Let)
	if !ok {
		t.Fatalf("expected *ast.Let, got %T", stmts[1])
	}
	idx, ok := let.Value.(*ast.IndexExpr)
	if !ok {
		t.Fatalf("expected *ast.IndexExpr, got %T", let.Value)
	}
	lit, ok := idx.Index.(*ast.IntLit)
	if !ok || lit.Value != 1 {
		t.Fatalf("expected index literal 1, got %#v", idx.Index)
	}
}

// Imperative arithmetic exercises precedence climbing over the
// word-spelled operators ("plus" binds looser than "times").
func TestParseExpr_ArithmeticPrecedence(t *testing.T) {
	src := "## Main\nLet x be 1 plus 2 times 3.\n"
	p := newTestParser(src)
	stmts, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	let := stmts[0].(*ast.Let)
	top, ok := let.Value.(*ast.BinExpr)
	if !ok || top.Op != "plus" {
		t.Fatalf("expected top-level 'plus', got %#v", let.Value)
	}
	rhs, ok := top.Right.(*ast.BinExpr)
	if !ok || rhs.Op != "times" {
		t.Fatalf("expected right operand 'times', got %#v", top.Right)
	}
}

// TryParse must roll back every piece of speculative state (position,
// variable counter, negative depth) on a failed attempt.
func TestTryParse_RollsBackOnFailure(t *testing.T) {
	p := newTestParser("## Theorem\nAll men are mortal.\n")
	p.processBlockHeaders()
	cp := p.checkpoint()

	_, ok := TryParse(p, func(pp *Parser) (ast.LogicExpr, error) {
		pp.advance()
		pp.freshVar(pp.cur())
		return nil, errStub
	})
	if ok {
		t.Fatalf("expected TryParse to report failure")
	}
	after := p.checkpoint()
	if after != cp {
		t.Fatalf("TryParse did not roll back state: before=%#v after=%#v", cp, after)
	}
}

var errStub = errors.New("stub failure")

// ParseForest must produce at least the primary reading and never exceed
// the configured cap.
func TestParseForest_ProducesPrimaryReading(t *testing.T) {
	p := newTestParser("## Theorem\nEvery man is mortal.\n")
	p.processBlockHeaders()
	readings, err := p.ParseForest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(readings) == 0 {
		t.Fatalf("expected at least one reading")
	}
	if len(readings) > 12 {
		t.Fatalf("expected at most 12 readings, got %d", len(readings))
	}
	if _, ok := readings[0].Expr.(*ast.Quantifier); !ok {
		t.Fatalf("expected the primary reading to be a quantifier, got %T", readings[0].Expr)
	}
}

// spec.md §8 scenario 5: "Every woman loves a man." has a quantified
// subject and a quantified (indefinite) object, so ParseAllScopes must
// enumerate both the surface and inverse scope readings, both built from
// the same three predicates.
func TestParseAllScopes_TransitiveSentenceYieldsSurfaceAndInverse(t *testing.T) {
	p := newTestParser("## Theorem\nEvery woman loves a man.\n")
	p.processBlockHeaders()
	readings, err := p.ParseAllScopes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(readings) != 2 {
		t.Fatalf("expected exactly 2 scope readings, got %d", len(readings))
	}

	surface, ok := readings[0].Expr.(*ast.Quantifier)
	if !ok || surface.Kind != ast.QUniversal {
		t.Fatalf("expected the surface reading to start with a universal quantifier, got %#v", readings[0].Expr)
	}
	surfaceBody, ok := surface.Body.(*ast.BinaryOp)
	if !ok || surfaceBody.Op != "implies" {
		t.Fatalf("expected the surface reading body to be an implication, got %#v", surface.Body)
	}
	if _, ok := surfaceBody.Right.(*ast.Quantifier); !ok {
		t.Fatalf("expected an existential nested in the surface reading's scope, got %T", surfaceBody.Right)
	}

	inverse, ok := readings[1].Expr.(*ast.Quantifier)
	if !ok || inverse.Kind != ast.QExistential {
		t.Fatalf("expected the inverse reading to start with an existential quantifier, got %#v", readings[1].Expr)
	}
	inverseBody, ok := inverse.Body.(*ast.BinaryOp)
	if !ok || inverseBody.Op != "and" {
		t.Fatalf("expected the inverse reading body to be a conjunction, got %#v", inverse.Body)
	}
	if _, ok := inverseBody.Right.(*ast.Quantifier); !ok {
		t.Fatalf("expected a universal nested in the inverse reading's scope, got %T", inverseBody.Right)
	}
}

// A sentence with only one quantifier (no object NP to permute against)
// has exactly one scope reading.
func TestParseAllScopes_IntransitiveSentenceYieldsOneReading(t *testing.T) {
	p := newTestParser("## Theorem\nEvery man runs.\n")
	p.processBlockHeaders()
	readings, err := p.ParseAllScopes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(readings) != 1 {
		t.Fatalf("expected exactly 1 scope reading, got %d", len(readings))
	}
}

// Assert restores the outer block mode even when the embedded logical
// expression fails to parse.
func TestParseAssert_RestoresModeOnError(t *testing.T) {
	src := "## Main\nAssert that .\n"
	p := newTestParser(src)
	p.processBlockHeaders()
	before := p.blockMode
	_, err := p.parseAssert()
	if err == nil {
		t.Fatalf("expected a parse error from the empty assertion")
	}
	if p.blockMode != before {
		t.Fatalf("expected blockMode to be restored to %v, got %v", before, p.blockMode)
	}
}

func TestNormalizeHeader(t *testing.T) {
	if normalizeHeader("Theorem") != "theorem" {
		t.Fatalf("expected normalizeHeader to lowercase")
	}
	if !strings.EqualFold(normalizeHeader("MAIN"), "main") {
		t.Fatalf("expected case-insensitive normalization")
	}
}

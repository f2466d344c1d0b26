// Package parser implements the dual-mode parser of spec.md §4.1: a
// recursive-descent grammar that produces a logical-form expression in
// declarative blocks and a statement list in imperative blocks, the mode
// flipping on `BlockHeader` tokens (grounded on original_source's
// `parser::mod::Parser::process_block_headers`). The Go shape (a single
// Parser struct walking a flat token slice with cur/peek helpers and a
// registered-function dispatch for sentence shapes) follows the teacher's
// `internal/parser` package (funxy).
package parser

import (
	"fmt"

	"logaffeine/internal/ast"
	"logaffeine/internal/config"
	"logaffeine/internal/diagnostics"
	"logaffeine/internal/discovery"
	"logaffeine/internal/intern"
	"logaffeine/internal/token"
)

// donkeyBinding is one entry of the cross-sentence anaphora binding table
// (spec.md §4 REDESIGN FLAGS "Discourse context threaded through the
// parser"): a noun class, the variable it's bound to, and whether a
// later sentence has already consumed it.
type donkeyBinding struct {
	class intern.Symbol
	name  intern.Symbol
	used  bool
}

// Parser walks a flat token slice, producing either LogicExpr trees
// (declarative blocks) or Stmt lists (imperative blocks).
type Parser struct {
	tokens []token.Token
	pos    int

	registry *discovery.Registry
	policy   *discovery.PolicyRegistry
	interner *intern.Pool
	exprs    *ast.Arena
	stmts    *ast.StmtArena

	blockMode     ParserMode
	flags         ModeFlags
	varCounter    int
	island        int
	pendingTense  string
	donkeyBindings []donkeyBinding

	Diagnostics diagnostics.Bag
}

// ParserMode is the block-level mode a BlockHeader token sets (spec.md
// §4.1 "State machine of modes").
type ParserMode int

const (
	ModeDeclarative ParserMode = iota
	ModeImperative
)

// New creates a Parser over toks, consulting reg/pol (built by the
// discovery pass) to resolve struct/enum names encountered mid-parse.
func New(toks []token.Token, reg *discovery.Registry, pol *discovery.PolicyRegistry, interner *intern.Pool) *Parser {
	return &Parser{
		tokens:   toks,
		registry: reg,
		policy:   pol,
		interner: interner,
		exprs:    ast.NewArena(),
		stmts:    ast.NewStmtArena(),
		blockMode: ModeDeclarative,
	}
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if !p.at(k) {
		return token.Token{}, fmt.Errorf("expected %s, got %s %q at %d:%d", k, p.cur().Kind, p.cur().Lexeme, p.cur().Line, p.cur().Column)
	}
	return p.advance(), nil
}

// freshVar allocates the next deterministic logical variable (spec.md
// §4.1 "Variable ... allocated deterministically by the parser's
// variable-allocation scheme").
func (p *Parser) freshVar(tok token.Token) *ast.Variable {
	name := fmt.Sprintf("x%d", p.varCounter)
	p.varCounter++
	return &ast.Variable{Token: tok, Name: p.interner.Intern(name)}
}

// skipNewlines consumes any run of NEWLINE tokens.
func (p *Parser) skipNewlines() {
	for p.at(token.NEWLINE) {
		p.advance()
	}
}

// processBlockHeaders advances past a run of BlockHeader tokens, setting
// mode from the last one seen (spec.md §4.1: "Block headers in the token
// stream flip modes"; grounded on original_source's
// `process_block_headers`).
func (p *Parser) processBlockHeaders() bool {
	advanced := false
	for p.at(token.BLOCK_HEADER) {
		hdr := p.advance()
		advanced = true
		bh, ok := config.KnownBlockHeaders[normalizeHeader(hdr.Lexeme)]
		if !ok {
			continue
		}
		if bh.IsImperative() {
			p.blockMode = ModeImperative
		} else {
			p.blockMode = ModeDeclarative
		}
		p.skipNewlines()
	}
	return advanced
}

func normalizeHeader(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			r = r + ('a' - 'A')
		}
		out = append(out, r)
	}
	return string(out)
}

// ParseProgram parses the whole token stream into a sequence of blocks,
// returning the statements of every imperative block concatenated in
// source order (spec.md §4.1 "parse_program() -> ordered list of
// statements for an imperative block"). Declarative blocks are parsed
// too, through ParseForest, but their logical forms are discarded by this
// entry point and RewriteAxioms is not applied to them; use ParseForest
// for declarative content.
func (p *Parser) ParseProgram() ([]ast.Stmt, error) {
	var out []ast.Stmt
	p.skipNewlines()
	for p.cur().Kind != token.EOF {
		if !p.processBlockHeaders() {
			p.skipNewlines()
			if p.cur().Kind == token.EOF {
				break
			}
		}
		switch p.blockMode {
		case ModeImperative:
			stmts, err := p.parseStatements()
			if err != nil {
				return out, err
			}
			out = append(out, stmts...)
		default:
			if _, err := p.ParseForest(); err != nil {
				return out, err
			}
		}
		p.skipNewlines()
	}
	return out, nil
}

// parseStatements parses statements until the next BlockHeader or EOF.
func (p *Parser) parseStatements() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for {
		p.skipNewlines()
		if p.cur().Kind == token.EOF || p.cur().Kind == token.BLOCK_HEADER || p.cur().Kind == token.DEDENT {
			break
		}
		s, err := p.parseStmt()
		if err != nil {
			return stmts, err
		}
		if s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts, nil
}

// parseBlock parses an INDENT ... DEDENT delimited statement block
// (spec.md §4.1 "Indentation is tokenized ... the parser treats them as
// explicit delimiters").
func (p *Parser) parseBlock() ([]ast.Stmt, error) {
	p.skipNewlines()
	if _, err := p.expect(token.INDENT); err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for {
		p.skipNewlines()
		if p.at(token.DEDENT) || p.cur().Kind == token.EOF {
			break
		}
		s, err := p.parseStmt()
		if err != nil {
			return stmts, err
		}
		if s != nil {
			stmts = append(stmts, s)
		}
	}
	if _, err := p.expect(token.DEDENT); err != nil {
		return stmts, err
	}
	return stmts, nil
}

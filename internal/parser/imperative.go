package parser

import (
	"fmt"
	"strconv"
	"strings"

	"logaffeine/internal/ast"
	"logaffeine/internal/diagnostics"
	"logaffeine/internal/token"
)

// parseStmt parses one imperative statement, keyword-directed (spec.md
// §3 "AST — statements", §4.1 imperative grammar list).
func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch p.cur().Kind {
	case token.LET:
		return p.parseLet()
	case token.SET:
		return p.parseSet()
	case token.RETURN:
		return p.parseReturn()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.REPEAT:
		return p.parseRepeat()
	case token.ZONE:
		return p.parseZone()
	case token.INSPECT:
		return p.parseInspect()
	case token.DEFINE:
		return p.parseFunctionDef()
	case token.CALL:
		return p.parseCall()
	case token.GIVE:
		return p.parseGive()
	case token.SHOW:
		return p.parseShow()
	case token.READFROM:
		return p.parseReadFrom()
	case token.CREATE:
		return p.parseCreatePipe()
	case token.RECEIVE:
		return p.parseReceivePipe(false)
	case token.TRY:
		return p.parseTryReceive()
	case token.POP:
		return p.parsePop()
	case token.AWAIT:
		return p.parseAwaitMessage()
	case token.CONCURRENT:
		return p.parseConcurrent()
	case token.PARALLEL:
		return p.parseParallel()
	case token.ASSERT:
		return p.parseAssert()
	default:
		if word(p.cur(), "read") {
			return p.parseReadFrom()
		}
		return nil, fmt.Errorf("unexpected token %s %q at %d:%d starting a statement", p.cur().Kind, p.cur().Lexeme, p.cur().Line, p.cur().Column)
	}
}

func word(t token.Token, w string) bool {
	return strings.ToLower(t.Lexeme) == w
}

func (p *Parser) consumeDot() error {
	if p.at(token.DOT) {
		p.advance()
		return nil
	}
	return fmt.Errorf("expected '.' at %d:%d, got %s", p.cur().Line, p.cur().Column, p.cur().Kind)
}

// parseLet: `Let x be <expr>.` with an optional `as a <Type>` annotation.
func (p *Parser) parseLet() (ast.Stmt, error) {
	tok := p.advance() // LET
	name, err := p.expectWordlike()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.BE); err != nil {
		return nil, err
	}
	val, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	annotation := ""
	if word(p.cur(), "as") {
		p.advance()
		if p.at(token.ARTICLE) {
			p.advance()
		}
		tn, err := p.expectWordlike()
		if err != nil {
			return nil, err
		}
		annotation = tn.Lexeme
	}
	if err := p.consumeDot(); err != nil {
		return nil, err
	}
	return &ast.Let{Token: tok, Var: p.interner.Intern(name.Lexeme), Annotation: annotation, Value: val}, nil
}

// parseSet handles `Set x to v.`, `Set item N of xs to v.`, and
// `Set the f of x to v.`.
func (p *Parser) parseSet() (ast.Stmt, error) {
	tok := p.advance() // SET
	switch {
	case p.at(token.ITEM):
		p.advance()
		idx, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.OF); err != nil {
			return nil, err
		}
		coll, err := p.expectWordlike()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.TO); err != nil {
			return nil, err
		}
		val, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if err := p.consumeDot(); err != nil {
			return nil, err
		}
		return &ast.SetIndex{Token: tok, Collection: p.interner.Intern(coll.Lexeme), Index: idx, Value: val}, nil
	case p.at(token.ARTICLE):
		p.advance()
		field, err := p.expectWordlike()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.OF); err != nil {
			return nil, err
		}
		obj, err := p.expectWordlike()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.TO); err != nil {
			return nil, err
		}
		val, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if err := p.consumeDot(); err != nil {
			return nil, err
		}
		return &ast.SetField{Token: tok, Object: p.interner.Intern(obj.Lexeme), Field: p.interner.Intern(field.Lexeme), Value: val}, nil
	default:
		name, err := p.expectWordlike()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.TO); err != nil {
			return nil, err
		}
		val, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if err := p.consumeDot(); err != nil {
			return nil, err
		}
		return &ast.Set{Token: tok, Var: p.interner.Intern(name.Lexeme), Value: val}, nil
	}
}

// parseReturn handles both bare `Return.` and `Return <expr>.` (spec.md
// §4.1 "Zero-argument Return. is legal").
func (p *Parser) parseReturn() (ast.Stmt, error) {
	tok := p.advance() // RETURN
	if p.at(token.DOT) {
		p.advance()
		return &ast.Return{Token: tok}, nil
	}
	val, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if err := p.consumeDot(); err != nil {
		return nil, err
	}
	return &ast.Return{Token: tok, Value: val}, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	tok := p.advance() // IF
	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var otherwise []ast.Stmt
	p.skipNewlines()
	if p.at(token.OTHERWISE) {
		p.advance()
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		otherwise, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.If{Token: tok, Cond: cond, Then: then, Otherwise: otherwise}, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	tok := p.advance() // WHILE
	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.While{Token: tok, Cond: cond, Body: body}, nil
}

// parseRepeat: `Repeat x in xs: <block>` (spec.md §4.2 "the pattern binds
// the element type").
func (p *Parser) parseRepeat() (ast.Stmt, error) {
	tok := p.advance() // REPEAT
	name, err := p.expectWordlike()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IN); err != nil {
		return nil, err
	}
	iter, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Repeat{Token: tok, Var: p.interner.Intern(name.Lexeme), Iterable: iter, Body: body}, nil
}

func (p *Parser) parseZone() (ast.Stmt, error) {
	tok := p.advance() // ZONE
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Zone{Token: tok, Body: body}, nil
}

// parseInspect: `Inspect x:` followed by an indented list of
// `<pattern>:` arms, each with its own indented body.
func (p *Parser) parseInspect() (ast.Stmt, error) {
	tok := p.advance() // INSPECT
	scrutinee, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	p.skipNewlines()
	if _, err := p.expect(token.INDENT); err != nil {
		return nil, err
	}
	var cases []ast.InspectCase
	for {
		p.skipNewlines()
		if p.at(token.DEDENT) || p.cur().Kind == token.EOF {
			break
		}
		pat, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		cases = append(cases, ast.InspectCase{Pattern: pat, Body: body})
	}
	if _, err := p.expect(token.DEDENT); err != nil {
		return nil, err
	}
	return &ast.Inspect{Token: tok, Scrutinee: scrutinee, Cases: cases}, nil
}

func (p *Parser) parsePattern() (ast.Pattern, error) {
	if word(p.cur(), "_") {
		p.advance()
		return ast.WildcardPattern{}, nil
	}
	switch p.cur().Kind {
	case token.NUMBER, token.STRING:
		e, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return ast.LiteralPattern{Value: e}, nil
	case token.IDENT, token.AMBIGUOUS:
		name := p.advance()
		if p.at(token.LPAREN) {
			p.advance()
			var args []ast.Pattern
			for !p.at(token.RPAREN) {
				sub, err := p.parsePattern()
				if err != nil {
					return nil, err
				}
				args = append(args, sub)
				if p.at(token.COMMA) {
					p.advance()
				}
			}
			p.advance() // RPAREN
			return ast.ConstructorPattern{Name: p.interner.Intern(name.Lexeme), Args: args}, nil
		}
		return ast.VarPattern{Name: p.interner.Intern(name.Lexeme)}, nil
	}
	return nil, fmt.Errorf("unexpected token %s in pattern at %d:%d", p.cur().Kind, p.cur().Line, p.cur().Column)
}

// parseFunctionDef: `Define Function f with x as a Int, y as a String
// returns Int: <block>`.
func (p *Parser) parseFunctionDef() (ast.Stmt, error) {
	tok := p.advance() // DEFINE
	if _, err := p.expect(token.FUNCTION); err != nil {
		return nil, err
	}
	name, err := p.expectWordlike()
	if err != nil {
		return nil, err
	}
	def := &ast.FunctionDef{Token: tok, Name: p.interner.Intern(name.Lexeme), Annotations: map[string]bool{}}

	if p.at(token.WITH) {
		p.advance()
		for {
			pname, err := p.expectWordlike()
			if err != nil {
				return nil, err
			}
			param := ast.Param{Name: p.interner.Intern(pname.Lexeme)}
			if word(p.cur(), "as") {
				p.advance()
				if p.at(token.ARTICLE) {
					p.advance()
				}
				tn, err := p.expectWordlike()
				if err != nil {
					return nil, err
				}
				param.TypeName = tn.Lexeme
			}
			def.Params = append(def.Params, param)
			if p.at(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	if word(p.cur(), "returns") {
		p.advance()
		rt, err := p.expectWordlike()
		if err != nil {
			return nil, err
		}
		def.ReturnType = rt.Lexeme
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	def.Body = body
	return def, nil
}

func (p *Parser) parseCall() (ast.Stmt, error) {
	tok := p.advance() // CALL
	callee, err := p.expectWordlike()
	if err != nil {
		return nil, err
	}
	var args []ast.Expr
	if p.at(token.WITH) {
		p.advance()
		args, err = p.parseExprList()
		if err != nil {
			return nil, err
		}
	}
	if err := p.consumeDot(); err != nil {
		return nil, err
	}
	return &ast.Call{Token: tok, Callee: p.interner.Intern(callee.Lexeme), Args: args}, nil
}

func (p *Parser) parseGive() (ast.Stmt, error) {
	tok := p.advance()
	obj, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if err := p.consumeDot(); err != nil {
		return nil, err
	}
	return &ast.Give{Token: tok, Object: obj}, nil
}

func (p *Parser) parseShow() (ast.Stmt, error) {
	tok := p.advance()
	obj, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if err := p.consumeDot(); err != nil {
		return nil, err
	}
	return &ast.Show{Token: tok, Object: obj}, nil
}

// parseReadFrom accepts either a real READFROM token (the external
// lexer's folded MWE) or the bare content word "read" followed by FROM.
func (p *Parser) parseReadFrom() (ast.Stmt, error) {
	tok := p.advance() // READFROM or "read"
	if word(tok, "read") {
		if _, err := p.expect(token.FROM); err != nil {
			return nil, err
		}
	}
	name, err := p.expectWordlike()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.FROM); err != nil {
		return nil, err
	}
	src, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if err := p.consumeDot(); err != nil {
		return nil, err
	}
	return &ast.ReadFrom{Token: tok, Var: p.interner.Intern(name.Lexeme), Source: src}, nil
}

func (p *Parser) parseCreatePipe() (ast.Stmt, error) {
	tok := p.advance() // CREATE
	if _, err := p.expect(token.PIPE); err != nil {
		return nil, err
	}
	name, err := p.expectWordlike()
	if err != nil {
		return nil, err
	}
	elem := ""
	if word(p.cur(), "of") {
		p.advance()
		tn, err := p.expectWordlike()
		if err != nil {
			return nil, err
		}
		elem = tn.Lexeme
	}
	if err := p.consumeDot(); err != nil {
		return nil, err
	}
	return &ast.CreatePipe{Token: tok, Var: p.interner.Intern(name.Lexeme), Elem: elem}, nil
}

func (p *Parser) parseReceivePipe(try bool) (ast.Stmt, error) {
	tok := p.advance() // RECEIVE
	name, err := p.expectWordlike()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.FROM); err != nil {
		return nil, err
	}
	pipe, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if err := p.consumeDot(); err != nil {
		return nil, err
	}
	return &ast.ReceivePipe{Token: tok, Var: p.interner.Intern(name.Lexeme), Pipe: pipe, Try: try}, nil
}

func (p *Parser) parseTryReceive() (ast.Stmt, error) {
	p.advance() // TRY
	if _, err := p.expect(token.RECEIVE); err != nil {
		return nil, err
	}
	return p.parseReceivePipe(true)
}

func (p *Parser) parsePop() (ast.Stmt, error) {
	tok := p.advance() // POP
	if _, err := p.expect(token.INTO); err != nil {
		return nil, err
	}
	name, err := p.expectWordlike()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.FROM); err != nil {
		return nil, err
	}
	coll, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if err := p.consumeDot(); err != nil {
		return nil, err
	}
	return &ast.Pop{Token: tok, Var: p.interner.Intern(name.Lexeme), Collection: coll}, nil
}

func (p *Parser) parseAwaitMessage() (ast.Stmt, error) {
	tok := p.advance() // AWAIT
	if _, err := p.expect(token.MESSAGE); err != nil {
		return nil, err
	}
	if word(p.cur(), "into") {
		p.advance()
	}
	name, err := p.expectWordlike()
	if err != nil {
		return nil, err
	}
	if err := p.consumeDot(); err != nil {
		return nil, err
	}
	return &ast.AwaitMessage{Token: tok, Var: p.interner.Intern(name.Lexeme)}, nil
}

func (p *Parser) parseConcurrent() (ast.Stmt, error) {
	tok := p.advance()
	tasks, err := p.parseTaskList()
	if err != nil {
		return nil, err
	}
	return &ast.Concurrent{Token: tok, Tasks: tasks}, nil
}

func (p *Parser) parseParallel() (ast.Stmt, error) {
	tok := p.advance()
	tasks, err := p.parseTaskList()
	if err != nil {
		return nil, err
	}
	return &ast.Parallel{Token: tok, Tasks: tasks}, nil
}

// parseTaskList parses the indented list of sub-blocks under a
// `Concurrent:`/`Parallel:` header, one per `Zone:`-style nested block.
func (p *Parser) parseTaskList() ([][]ast.Stmt, error) {
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	p.skipNewlines()
	if _, err := p.expect(token.INDENT); err != nil {
		return nil, err
	}
	var tasks [][]ast.Stmt
	for {
		p.skipNewlines()
		if p.at(token.DEDENT) || p.cur().Kind == token.EOF {
			break
		}
		if _, err := p.expect(token.ZONE); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, body)
	}
	if _, err := p.expect(token.DEDENT); err != nil {
		return nil, err
	}
	return tasks, nil
}

// parseAssert performs the bracketed mode switch to declarative mode for
// the duration of parsing the embedded proposition, restoring the outer
// mode on exit even on error (spec.md §4.1 "Assert ... always restores
// the outer mode on exit even on parse error").
func (p *Parser) parseAssert() (ast.Stmt, error) {
	tok := p.advance() // ASSERT
	if p.at(token.THAT) {
		p.advance()
	}
	saved := p.blockMode
	p.blockMode = ModeDeclarative
	prop, err := p.parseLogicExpr(p.flags)
	p.blockMode = saved
	if err != nil {
		return nil, err
	}
	if err := p.consumeDot(); err != nil {
		return nil, err
	}
	return &ast.Assert{Token: tok, Prop: prop}, nil
}

// expectWordlike accepts any content-word token (IDENT or AMBIGUOUS) as a
// name: variable, function, field, or type name.
func (p *Parser) expectWordlike() (token.Token, error) {
	if p.cur().Kind == token.IDENT || p.cur().Kind == token.AMBIGUOUS {
		return p.advance(), nil
	}
	return token.Token{}, fmt.Errorf("expected a name, got %s %q at %d:%d", p.cur().Kind, p.cur().Lexeme, p.cur().Line, p.cur().Column)
}

// --- Imperative expression grammar -----------------------------------

var binOpWords = map[string]int{
	"or": 1, "and": 2,
	"equals": 3, "is": 3,
	"plus": 4, "minus": 4,
	"times": 5, "modulo": 5,
}

func (p *Parser) parseExprList() ([]ast.Expr, error) {
	var args []ast.Expr
	for {
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		args = append(args, e)
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return args, nil
}

// parseExpr is a precedence-climbing parser over the word-spelled
// arithmetic/comparison operators ("plus", "minus", "times", "divided
// by", "equals", "and", "or"); this language expresses operators as
// prose rather than punctuation, consistent with the rest of its
// surface syntax.
func (p *Parser) parseExpr(minPrec int) (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		opName, prec, ok := p.peekBinOp()
		if !ok || prec < minPrec {
			break
		}
		opTok := p.advance()
		if opName == "divided" {
			p.advance() // "by"
		}
		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinExpr{Token: opTok, Op: opName, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) peekBinOp() (string, int, bool) {
	lex := strings.ToLower(p.cur().Lexeme)
	if lex == "divided" {
		return "divided", 4, true
	}
	if prec, ok := binOpWords[lex]; ok {
		return lex, prec, true
	}
	return "", 0, false
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if word(p.cur(), "not") || p.cur().Kind == token.NEGATION {
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Token: tok, Op: "not", Operand: operand}, nil
	}
	if p.cur().Kind == token.ITEM {
		return p.parseIndexExpr()
	}
	if p.at(token.ARTICLE) {
		return p.parseFieldOrPrimary()
	}
	return p.parsePostfix()
}

// parseIndexExpr: `item N of xs`. Sequence indices are 1-based (spec.md
// §4.1), so a literal zero index is rejected here, at parse time, rather
// than deferred to a later analysis phase.
func (p *Parser) parseIndexExpr() (ast.Expr, error) {
	tok := p.advance() // ITEM
	idxTok := p.cur()
	idx, err := p.parseExpr(5)
	if err != nil {
		return nil, err
	}
	if lit, ok := idx.(*ast.IntLit); ok && lit.Value == 0 {
		return nil, diagnostics.New(diagnostics.PhaseParser, diagnostics.ErrZeroIndex,
			diagnostics.Span{Start: idxTok.Span.Start, End: idxTok.Span.End}, lit.Value)
	}
	if _, err := p.expect(token.OF); err != nil {
		return nil, err
	}
	coll, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	return &ast.IndexExpr{Token: tok, Collection: coll, Index: idx}, nil
}

// parseFieldOrPrimary handles `the <field> of <object>` and falls back
// to an ordinary article-prefixed noun phrase otherwise.
func (p *Parser) parseFieldOrPrimary() (ast.Expr, error) {
	artTok := p.advance() // ARTICLE
	name, err := p.expectWordlike()
	if err != nil {
		return nil, err
	}
	if word(p.cur(), "of") {
		p.advance()
		obj, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		return &ast.FieldExpr{Token: artTok, Object: obj, Field: p.interner.Intern(name.Lexeme)}, nil
	}
	return &ast.Ident{Token: name, Name: p.interner.Intern(name.Lexeme)}, nil
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur()
	switch tok.Kind {
	case token.NUMBER:
		p.advance()
		if strings.Contains(tok.Lexeme, ".") {
			v, err := strconv.ParseFloat(tok.Lexeme, 64)
			if err != nil {
				return nil, err
			}
			return &ast.FloatLit{Token: tok, Value: v}, nil
		}
		v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return nil, err
		}
		return &ast.IntLit{Token: tok, Value: v}, nil
	case token.STRING:
		p.advance()
		return &ast.StringLit{Token: tok, Value: tok.Lexeme}, nil
	case token.LBRACKET:
		return p.parseListLit()
	case token.LPAREN:
		p.advance()
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return e, nil
	case token.IDENT, token.AMBIGUOUS:
		if word(tok, "true") || word(tok, "false") {
			p.advance()
			return &ast.BoolLit{Token: tok, Value: word(tok, "true")}, nil
		}
		p.advance()
		if p.at(token.LPAREN) {
			p.advance()
			var args []ast.Expr
			if !p.at(token.RPAREN) {
				var err error
				args, err = p.parseExprList()
				if err != nil {
					return nil, err
				}
			}
			if _, err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
			return &ast.CallExpr{Token: tok, Callee: p.interner.Intern(tok.Lexeme), Args: args}, nil
		}
		return &ast.Ident{Token: tok, Name: p.interner.Intern(tok.Lexeme)}, nil
	}
	return nil, fmt.Errorf("unexpected token %s %q at %d:%d in expression", tok.Kind, tok.Lexeme, tok.Line, tok.Column)
}

func (p *Parser) parseListLit() (ast.Expr, error) {
	tok := p.advance() // LBRACKET
	var elems []ast.Expr
	for !p.at(token.RBRACKET) {
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.ListLit{Token: tok, Elements: elems}, nil
}

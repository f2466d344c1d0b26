package parser

import (
	"fmt"
	"strconv"
	"strings"

	"logaffeine/internal/ast"
	"logaffeine/internal/token"
)

// Parse parses one logical-form sentence and, if it is followed by a DOT
// with a further sentence still to come, a second one ANDed onto the
// first (spec.md §4.1's exported parser contract; grounded on
// original_source's `Parser::parse`, which does the same one-or-two
// sentence lookahead past the period separator). Most callers that want
// every declarative sentence in a block use ParseProgram/ParseForest
// instead; Parse exists for callers that hold a single sentence.
func (p *Parser) Parse() (ast.LogicExpr, error) {
	first, err := p.parseSentence(ModeFlags{})
	if err != nil {
		return nil, err
	}
	if p.at(token.DOT) {
		p.advance()
		p.skipNewlines()
		if p.cur().Kind != token.EOF && p.cur().Kind != token.BLOCK_HEADER && p.cur().Kind != token.DEDENT {
			second, err := p.parseSentence(ModeFlags{})
			if err != nil {
				return nil, err
			}
			return &ast.BinaryOp{Token: first.GetToken(), Op: "and", Left: first, Right: second}, nil
		}
	}
	return first, nil
}

// parseLogicExpr parses one declarative sentence, up to and including its
// terminating DOT, under the given mode flags (spec.md §4.1 "Algorithm
// (declarative)"). The grammar is a finite set of sentence shapes:
// quantified ("Every man is mortal."), definite-description ("The king
// is wise."), and atomic/proper-name ("Socrates is mortal.") subjects,
// each combined with a copula+predicate, modal, or bare-verb predicate.
func (p *Parser) parseLogicExpr(flags ModeFlags) (ast.LogicExpr, error) {
	expr, err := p.parseSentence(flags)
	if err != nil {
		return nil, err
	}
	for word(p.cur(), "and") || word(p.cur(), "or") {
		opTok := p.advance()
		op := strings.ToLower(opTok.Lexeme)
		rhs, err := p.parseSentence(flags)
		if err != nil {
			return nil, err
		}
		expr = &ast.BinaryOp{Token: opTok, Op: op, Left: expr, Right: rhs}
	}
	if p.at(token.DOT) {
		p.advance()
	}
	return expr, nil
}

// parseSentence parses one conjunct: an optional leading negation, then
// a subject+predicate shape.
func (p *Parser) parseSentence(flags ModeFlags) (ast.LogicExpr, error) {
	if p.at(token.IF) || word(p.cur(), "if") {
		return p.parseConditional(flags)
	}

	subjTok := p.cur()

	switch {
	case p.cur().Kind == token.QUANTIFIER:
		return p.parseQuantifiedSentence(flags)
	case p.cur().Kind == token.ARTICLE && word(p.cur(), "the"):
		return p.parseDefiniteSentence(flags)
	case p.cur().Kind == token.ARTICLE:
		// "a man is mortal" — indefinite reads as existential.
		return p.parseIndefiniteSentence(flags)
	case p.cur().Kind == token.IDENT || p.cur().Kind == token.AMBIGUOUS:
		name := p.advance()
		subject := ast.LogicExpr(&ast.Atom{Token: subjTok, Name: p.interner.Intern(name.Lexeme)})
		return p.parsePredicatePhrase(flags, subject)
	}
	return nil, fmt.Errorf("unexpected token %s %q at %d:%d starting a sentence", p.cur().Kind, p.cur().Lexeme, p.cur().Line, p.cur().Column)
}

// parseConditional: `If P then Q.` -> implication.
func (p *Parser) parseConditional(flags ModeFlags) (ast.LogicExpr, error) {
	tok := p.advance() // IF
	antecedent, err := p.parseSentenceNoTerminator(flags)
	if err != nil {
		return nil, err
	}
	if word(p.cur(), "then") {
		p.advance()
	}
	consequent, err := p.parseSentenceNoTerminator(flags)
	if err != nil {
		return nil, err
	}
	return &ast.BinaryOp{Token: tok, Op: "implies", Left: antecedent, Right: consequent}, nil
}

// parseSentenceNoTerminator parses one sentence body without consuming a
// trailing DOT (used inside conditionals where "then"/DOT marks the
// boundary instead).
func (p *Parser) parseSentenceNoTerminator(flags ModeFlags) (ast.LogicExpr, error) {
	return p.parseSentence(flags)
}

// parseQuantifiedSentence: `<Det> <noun> <predicate-phrase>.` lowers to
// the standard generalized-quantifier encoding: universal force pairs
// the restrictor with the scope via implication, existential force via
// conjunction (GLOSSARY "Quantifier").
func (p *Parser) parseQuantifiedSentence(flags ModeFlags) (ast.LogicExpr, error) {
	detTok := p.advance() // QUANTIFIER
	kind := quantifierKindOf(detTok.Lexeme)

	nounTok, err := p.expectWordlike()
	if err != nil {
		return nil, err
	}
	bound := p.freshVar(nounTok)
	restrictor := ast.LogicExpr(&ast.Predicate{Token: nounTok, Name: p.interner.Intern(nounTok.Lemma), Args: []ast.LogicExpr{bound}})

	scope, err := p.parsePredicatePhrase(flags, bound)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(detTok.Lexeme, "no") {
		scope = &ast.UnaryOp{Token: detTok, Op: "not", Operand: scope}
	}

	var body ast.LogicExpr
	switch kind {
	case ast.QUniversal, ast.QFew:
		body = &ast.BinaryOp{Token: detTok, Op: "implies", Left: restrictor, Right: scope}
	default:
		body = &ast.BinaryOp{Token: detTok, Op: "and", Left: restrictor, Right: scope}
	}
	return &ast.Quantifier{Token: detTok, Kind: kind, Bound: bound, Body: body, IslandID: p.island}, nil
}

// parseIndefiniteSentence: `a <noun> <predicate-phrase>.` — existential
// quantification over an indefinite NP.
func (p *Parser) parseIndefiniteSentence(flags ModeFlags) (ast.LogicExpr, error) {
	artTok := p.advance() // ARTICLE
	nounTok, err := p.expectWordlike()
	if err != nil {
		return nil, err
	}
	bound := p.freshVar(nounTok)
	restrictor := ast.LogicExpr(&ast.Predicate{Token: nounTok, Name: p.interner.Intern(nounTok.Lemma), Args: []ast.LogicExpr{bound}})
	scope, err := p.parsePredicatePhrase(flags, bound)
	if err != nil {
		return nil, err
	}
	body := &ast.BinaryOp{Token: artTok, Op: "and", Left: restrictor, Right: scope}
	return &ast.Quantifier{Token: artTok, Kind: ast.QExistential, Bound: bound, Body: body, IslandID: p.island}, nil
}

// parseDefiniteSentence: `the <noun> <predicate-phrase>.` produces a
// DefiniteDescription subject; the semantic-axioms pass rewrites it into
// an existential-plus-uniqueness form (spec.md §8 Boundary).
func (p *Parser) parseDefiniteSentence(flags ModeFlags) (ast.LogicExpr, error) {
	artTok := p.advance() // ARTICLE "the"
	nounTok, err := p.expectWordlike()
	if err != nil {
		return nil, err
	}
	bound := p.freshVar(nounTok)
	desc := &ast.DefiniteDescription{Token: artTok, Predicate: p.interner.Intern(nounTok.Lemma), Bound: bound}
	return p.parsePredicatePhrase(flags, desc)
}

func quantifierKindOf(lexeme string) ast.QuantifierKind {
	switch strings.ToLower(lexeme) {
	case "all", "every", "each":
		return ast.QUniversal
	case "some", "any":
		return ast.QExistential
	case "no":
		return ast.QUniversal // restrictor -> not(scope); the callers wrap the scope in the negation
	case "most":
		return ast.QMost
	case "many":
		return ast.QMany
	case "few":
		return ast.QFew
	default:
		return ast.QGeneric
	}
}

// parsePredicatePhrase parses the verb phrase following subj: a copula
// clause ("is mortal", "is not wise"), a modal clause ("must leave"), or
// a bare verb ("runs"), optionally building a neo-Davidsonian event for
// genuine eventive verbs when flags.EventReading() holds.
func (p *Parser) parsePredicatePhrase(flags ModeFlags, subj ast.LogicExpr) (ast.LogicExpr, error) {
	switch {
	case p.cur().Kind == token.COPULA:
		copTok := p.advance()
		negated := false
		if p.cur().Kind == token.NEGATION || word(p.cur(), "not") {
			p.advance()
			negated = true
		}
		predTok, err := p.expectWordlike()
		if err != nil {
			return nil, err
		}
		pred := ast.LogicExpr(&ast.Predicate{Token: predTok, Name: p.interner.Intern(predTok.Lemma), Args: []ast.LogicExpr{subj}})
		if negated {
			pred = &ast.UnaryOp{Token: copTok, Op: "not", Operand: pred}
		}
		return pred, nil
	case p.cur().Kind == token.MODAL:
		modTok := p.advance()
		verbTok, err := p.expectWordlike()
		if err != nil {
			return nil, err
		}
		inner := ast.LogicExpr(&ast.Predicate{Token: verbTok, Name: p.interner.Intern(verbTok.Lemma), Args: []ast.LogicExpr{subj}})
		return &ast.Modal{Token: modTok, Vector: ast.ModalDeontic, Operand: inner}, nil
	case p.cur().Kind == token.IDENT || p.cur().Kind == token.AMBIGUOUS:
		verbTok := p.advance()
		if flags.EventReading() && verbTok.Morph.VerbClass == "eventive" {
			ev := &ast.NeoDavidsonianEvent{
				Token:      verbTok,
				Verb:       p.interner.Intern(verbTok.Lemma),
				Roles:      []ast.RoleArg{{Role: ast.RoleAgent, Term: subj}},
				EventVar:   p.freshVar(verbTok),
				Convention: ast.FreshEventVar,
			}
			return p.parseObjectNP(ev, func(obj ast.LogicExpr) {
				ev.Roles = append(ev.Roles, ast.RoleArg{Role: ast.RoleTheme, Term: obj})
			})
		}
		pred := &ast.Predicate{Token: verbTok, Name: p.interner.Intern(verbTok.Lemma), Args: []ast.LogicExpr{subj}}
		return p.parseObjectNP(pred, func(obj ast.LogicExpr) {
			pred.Args = append(pred.Args, obj)
		})
	}
	return nil, fmt.Errorf("unexpected token %s %q at %d:%d in predicate phrase", p.cur().Kind, p.cur().Lexeme, p.cur().Line, p.cur().Column)
}

// parseObjectNP looks for a direct-object NP following a bare verb
// (grounded on original_source's quantified-object handling,
// parser::mod::Parser::parse_verb_phrase around the "Quantified object"
// branch). atomic is the predicate/event already built over the subject
// alone; attach wires the object term into it once parsed.
//
// Detection is deliberately narrow: it only fires on a leading QUANTIFIER
// or ARTICLE, the two closed-class determiners that unambiguously start
// an NP. A bare IDENT/AMBIGUOUS token after the verb is left alone (it
// may be an adverb, not an object), so intransitive verbs followed by a
// modifier still parse as before; this costs bare-proper-name objects
// ("loves Mary") in exchange for never misreading an adverb as one.
//
// A quantified or indefinite object introduces a second Quantifier
// nested inside atomic's scope slot (the "surface scope" reading
// ParseAllScopes starts from); a definite object produces a
// DefiniteDescription term attached directly, matching how a definite
// subject is handled.
func (p *Parser) parseObjectNP(atomic ast.LogicExpr, attach func(obj ast.LogicExpr)) (ast.LogicExpr, error) {
	switch {
	case p.cur().Kind == token.QUANTIFIER:
		detTok := p.advance()
		kind := quantifierKindOf(detTok.Lexeme)
		nounTok, err := p.expectWordlike()
		if err != nil {
			return nil, err
		}
		bound := p.freshVar(nounTok)
		restrictor := ast.LogicExpr(&ast.Predicate{Token: nounTok, Name: p.interner.Intern(nounTok.Lemma), Args: []ast.LogicExpr{bound}})
		attach(bound)
		var op string
		if kind == ast.QUniversal || kind == ast.QFew {
			op = "implies"
		} else {
			op = "and"
		}
		scope := atomic
		if strings.EqualFold(detTok.Lexeme, "no") {
			scope = &ast.UnaryOp{Token: detTok, Op: "not", Operand: atomic}
		}
		body := &ast.BinaryOp{Token: detTok, Op: op, Left: restrictor, Right: scope}
		return &ast.Quantifier{Token: detTok, Kind: kind, Bound: bound, Body: body, IslandID: p.island}, nil
	case p.cur().Kind == token.ARTICLE && word(p.cur(), "the"):
		artTok := p.advance()
		nounTok, err := p.expectWordlike()
		if err != nil {
			return nil, err
		}
		bound := p.freshVar(nounTok)
		attach(&ast.DefiniteDescription{Token: artTok, Predicate: p.interner.Intern(nounTok.Lemma), Bound: bound})
		return atomic, nil
	case p.cur().Kind == token.ARTICLE:
		artTok := p.advance()
		nounTok, err := p.expectWordlike()
		if err != nil {
			return nil, err
		}
		bound := p.freshVar(nounTok)
		restrictor := ast.LogicExpr(&ast.Predicate{Token: nounTok, Name: p.interner.Intern(nounTok.Lemma), Args: []ast.LogicExpr{bound}})
		attach(bound)
		body := &ast.BinaryOp{Token: artTok, Op: "and", Left: restrictor, Right: atomic}
		return &ast.Quantifier{Token: artTok, Kind: ast.QExistential, Bound: bound, Body: body, IslandID: p.island}, nil
	}
	return atomic, nil
}

// parseQuestion handles `Does <subj> <verb>?` / `Who <verb>?` shapes.
// Not wired into parseSentence by default (questions are a declarative
// sub-grammar used from REPL-style Example blocks); exposed for callers
// that need it explicitly.
func (p *Parser) parseQuestion(flags ModeFlags) (*ast.Question, error) {
	tok := p.cur()
	if word(tok, "who") || word(tok, "what") {
		p.advance()
		wh := p.freshVar(tok)
		verbTok, err := p.expectWordlike()
		if err != nil {
			return nil, err
		}
		body := ast.LogicExpr(&ast.Predicate{Token: verbTok, Name: p.interner.Intern(verbTok.Lemma), Args: []ast.LogicExpr{wh}})
		return &ast.Question{Token: tok, Kind: ast.QuestionWh, WhVar: wh, Body: body}, nil
	}
	body, err := p.parseSentenceNoTerminator(flags)
	if err != nil {
		return nil, err
	}
	return &ast.Question{Token: tok, Kind: ast.QuestionPolar, Body: body}, nil
}

// parseCardinal reads a leading NUMBER into N for `Cardinal`/`AtLeast`/
// `AtMost` quantifier shapes ("at least 3 men run").
func (p *Parser) parseCardinal() (int, error) {
	tok, err := p.expect(token.NUMBER)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok.Lexeme)
	if err != nil {
		return 0, err
	}
	return n, nil
}

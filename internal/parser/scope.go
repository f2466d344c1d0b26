package parser

import "logaffeine/internal/ast"

// ParseAllScopes parses one declarative sentence and enumerates its
// quantifier-scope readings (spec.md §4.1's `ParseAllScopes` contract,
// the counterpart to ParseForest's mode-flag enumeration). Most sentences
// bind a single quantifier and so have exactly one scope reading; a
// transitive sentence whose verb phrase introduced a second, object-bound
// quantifier (parseObjectNP) has two: the naturally-nested surface-scope
// reading parseLogicExpr produces directly, and the inverse-scope reading
// obtained by swapping which of the two quantifiers outscopes the other.
func (p *Parser) ParseAllScopes() ([]Reading, error) {
	startCP := p.checkpoint()
	expr, err := p.parseLogicExpr(ModeFlags{})
	if err != nil {
		p.restore(startCP)
		return nil, err
	}
	readings := []Reading{{Expr: expr}}
	if inverse, ok := invertScope(expr); ok {
		readings = append(readings, Reading{Expr: inverse})
	}
	return readings, nil
}

// invertScope swaps the nesting order of two directly-nested quantifiers:
// an outer Quantifier whose body's right-hand operand is itself a
// Quantifier over the same binary-connective shape. This is exactly the
// shape parseObjectNP produces for a transitive sentence with a
// quantified or indefinite object (subject quantifier outermost, object
// quantifier nested in the scope slot); swapping the two nodes while
// keeping the innermost atomic predicate fixed yields the other scope
// reading, with the same set of predicates as the original.
func invertScope(e ast.LogicExpr) (ast.LogicExpr, bool) {
	outer, ok := e.(*ast.Quantifier)
	if !ok {
		return nil, false
	}
	outerBody, ok := outer.Body.(*ast.BinaryOp)
	if !ok {
		return nil, false
	}
	inner, ok := outerBody.Right.(*ast.Quantifier)
	if !ok {
		return nil, false
	}
	innerBody, ok := inner.Body.(*ast.BinaryOp)
	if !ok {
		return nil, false
	}

	newInner := &ast.Quantifier{
		Token:              outer.Token,
		Kind:               outer.Kind,
		N:                  outer.N,
		Bound:              outer.Bound,
		Body:               &ast.BinaryOp{Token: outerBody.Token, Op: outerBody.Op, Left: outerBody.Left, Right: innerBody.Right},
		IslandID:           outer.IslandID,
		HasExceptionClause: outer.HasExceptionClause,
	}
	newOuter := &ast.Quantifier{
		Token:              inner.Token,
		Kind:               inner.Kind,
		N:                  inner.N,
		Bound:              inner.Bound,
		Body:               &ast.BinaryOp{Token: innerBody.Token, Op: innerBody.Op, Left: innerBody.Left, Right: newInner},
		IslandID:           inner.IslandID,
		HasExceptionClause: inner.HasExceptionClause,
	}
	return newOuter, true
}

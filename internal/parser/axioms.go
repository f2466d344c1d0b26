package parser

import (
	"logaffeine/internal/ast"
	"logaffeine/internal/intern"
	"logaffeine/internal/token"
)

// RewriteAxioms runs the semantic axioms/pragmatics pass over a parsed
// logical form (spec.md §2 "Semantic axioms/pragmatics rewrite pass";
// grounded on original_source's `src/lib.rs`/`src/ontology.rs` uniqueness
// and generic-quantifier handling). Two rewrites:
//
//   - A definite description ("the F") occurring as an argument to a
//     predicate or identity is lifted out and replaced by a fresh bound
//     variable, with the whole containing proposition wrapped in
//     ∃x(F(x) ∧ ∀y(F(y) → y=x) ∧ Body(x)) (spec.md §8 Boundary "a
//     definite description in declarative mode produces a uniqueness
//     axiom in the output form").
//   - A generic quantifier with an exception clause is normalized to
//     "most" semantics (spec.md §3 Quantifier "generic").
//
// interner mints the fresh variables the uniqueness clause needs.
func RewriteAxioms(e ast.LogicExpr, interner *intern.Pool) ast.LogicExpr {
	if e == nil {
		return nil
	}
	r := &axiomsRewriter{interner: interner}
	return r.rewrite(e)
}

type axiomsRewriter struct {
	interner    *intern.Pool
	uniqCounter int
}

func (r *axiomsRewriter) freshVar(tok token.Token, tag string) *ast.Variable {
	r.uniqCounter++
	return &ast.Variable{Token: tok, Name: r.interner.Intern(tag)}
}

func (r *axiomsRewriter) rewrite(e ast.LogicExpr) ast.LogicExpr {
	switch n := e.(type) {
	case *ast.DefiniteDescription:
		// A bare definite description with no enclosing predicate (e.g.
		// the whole sentence is just "the king"): wrap it trivially.
		return r.wrapUniqueness(n, &ast.Predicate{Token: n.Token, Name: n.Predicate, Args: []ast.LogicExpr{n.Bound}})
	case *ast.Predicate:
		args := make([]ast.LogicExpr, len(n.Args))
		var pending []*ast.DefiniteDescription
		for i, a := range n.Args {
			if dd, ok := a.(*ast.DefiniteDescription); ok {
				args[i] = dd.Bound
				pending = append(pending, dd)
			} else {
				args[i] = r.rewrite(a)
			}
		}
		body := ast.LogicExpr(&ast.Predicate{Token: n.Token, Name: n.Name, Args: args})
		for _, dd := range pending {
			body = r.wrapUniqueness(dd, body)
		}
		return body
	case *ast.Identity:
		left, leftDD := n.Left, (*ast.DefiniteDescription)(nil)
		if dd, ok := n.Left.(*ast.DefiniteDescription); ok {
			left, leftDD = dd.Bound, dd
		} else {
			left = r.rewrite(n.Left)
		}
		right, rightDD := n.Right, (*ast.DefiniteDescription)(nil)
		if dd, ok := n.Right.(*ast.DefiniteDescription); ok {
			right, rightDD = dd.Bound, dd
		} else {
			right = r.rewrite(n.Right)
		}
		body := ast.LogicExpr(&ast.Identity{Token: n.Token, Left: left, Right: right})
		if leftDD != nil {
			body = r.wrapUniqueness(leftDD, body)
		}
		if rightDD != nil {
			body = r.wrapUniqueness(rightDD, body)
		}
		return body
	case *ast.BinaryOp:
		return &ast.BinaryOp{Token: n.Token, Op: n.Op, Left: r.rewrite(n.Left), Right: r.rewrite(n.Right)}
	case *ast.UnaryOp:
		return &ast.UnaryOp{Token: n.Token, Op: n.Op, Operand: r.rewrite(n.Operand)}
	case *ast.Quantifier:
		kind := n.Kind
		if kind == ast.QGeneric && n.HasExceptionClause {
			kind = ast.QMost
		}
		return &ast.Quantifier{Token: n.Token, Kind: kind, N: n.N, Bound: n.Bound, Body: r.rewrite(n.Body), IslandID: n.IslandID, HasExceptionClause: n.HasExceptionClause}
	case *ast.Modal:
		return &ast.Modal{Token: n.Token, Vector: n.Vector, Operand: r.rewrite(n.Operand)}
	case *ast.Temporal:
		return &ast.Temporal{Token: n.Token, Operator: n.Operator, Body: r.rewrite(n.Body)}
	case *ast.Aspectual:
		return &ast.Aspectual{Token: n.Token, Operator: n.Operator, Body: r.rewrite(n.Body)}
	case *ast.Lambda:
		return &ast.Lambda{Token: n.Token, Bound: n.Bound, Body: r.rewrite(n.Body)}
	case *ast.Focus:
		return &ast.Focus{Token: n.Token, Operand: r.rewrite(n.Operand)}
	case *ast.SpeechAct:
		return &ast.SpeechAct{Token: n.Token, Kind: n.Kind, Body: r.rewrite(n.Body)}
	default:
		return e
	}
}

// wrapUniqueness builds ∃x(F(x) ∧ ∀y(F(y) → y=x) ∧ body) around body,
// where x is dd.Bound.
func (r *axiomsRewriter) wrapUniqueness(dd *ast.DefiniteDescription, body ast.LogicExpr) ast.LogicExpr {
	restrictor := &ast.Predicate{Token: dd.Token, Name: dd.Predicate, Args: []ast.LogicExpr{dd.Bound}}

	y := r.freshVar(dd.Token, "y")
	yInstance := &ast.Predicate{Token: dd.Token, Name: dd.Predicate, Args: []ast.LogicExpr{y}}
	yEqualsX := &ast.Identity{Token: dd.Token, Left: y, Right: dd.Bound}
	uniqueness := &ast.Quantifier{
		Token: dd.Token,
		Kind:  ast.QUniversal,
		Bound: y,
		Body:  &ast.BinaryOp{Token: dd.Token, Op: "implies", Left: yInstance, Right: yEqualsX},
	}

	conj := &ast.BinaryOp{Token: dd.Token, Op: "and", Left: restrictor, Right: uniqueness}
	full := &ast.BinaryOp{Token: dd.Token, Op: "and", Left: conj, Right: body}
	return &ast.Quantifier{Token: dd.Token, Kind: ast.QExistential, Bound: dd.Bound, Body: full}
}

package codegen

import (
	"logaffeine/internal/analysis"
	"logaffeine/internal/ast"
	"logaffeine/internal/config"
	"logaffeine/internal/intern"
)

// FuncClass is the per-function transformation spec.md §4.4's "Per-function
// dispatch" classifies a body into, at most one applying.
type FuncClass int

const (
	ClassPlain FuncClass = iota
	ClassClosedForm
	ClassTCE
	ClassMutualTCE
	ClassAccumulator
	ClassMemoization
)

// ClosedFormShape is the recurrence the closed-form class recognizes:
// f(0) = B, f(d) = k + f(d-1) + f(d-1) (spec.md §4.4 item 1).
type ClosedFormShape struct {
	Base  int64
	K     int64
	Param intern.Symbol
}

// classify runs the six-way dispatch for one function against the rest of
// the program's functions (mutual TCE needs a partner). Suppressions from
// fn.Annotations are honored before any pattern is attempted.
func (g *Generator) classify(fn *ast.FunctionDef, all []*ast.FunctionDef) (FuncClass, any) {
	if fn.Annotations[config.AnnotationNoOptimize] {
		return ClassPlain, nil
	}

	if !fn.Annotations[config.AnnotationNoTCO] {
		if shape, ok := matchClosedForm(fn); ok {
			return ClassClosedForm, shape
		}
		if ok := isTailRecursive(fn, fn.Name); ok {
			return ClassTCE, nil
		}
		if partner, ok := matchMutualTCE(fn, all); ok {
			return ClassMutualTCE, partner
		}
	}

	if !fn.Annotations[config.AnnotationNoTCO] {
		if ok := matchAccumulator(fn); ok {
			return ClassAccumulator, nil
		}
	}

	if !fn.Annotations[config.AnnotationNoMemo] {
		hashable := true
		for i := range fn.Params {
			if g.paramRustType(fn, i) == "f64" { // Rust floats aren't Hash/Eq
				hashable = false
			}
		}
		if hashable && isMemoCandidate(fn, g.readonly) {
			return ClassMemoization, nil
		}
	}

	return ClassPlain, nil
}

// matchClosedForm recognizes the single-parameter recurrence
// f(0)=B; f(d) = k + f(d-1) + f(d-1), emitted as ((B+k) << d) - k.
func matchClosedForm(fn *ast.FunctionDef) (ClosedFormShape, bool) {
	if len(fn.Params) != 1 || len(fn.Body) != 1 {
		return ClosedFormShape{}, false
	}
	ifStmt, ok := fn.Body[0].(*ast.If)
	if !ok || len(ifStmt.Then) != 1 || len(ifStmt.Otherwise) != 1 {
		return ClosedFormShape{}, false
	}
	param := fn.Params[0].Name

	cond, ok := ifStmt.Cond.(*ast.BinExpr)
	if !ok || cond.Op != "equals" {
		return ClosedFormShape{}, false
	}
	if !isZeroAgainst(cond, param) {
		return ClosedFormShape{}, false
	}

	baseReturn, ok := ifStmt.Then[0].(*ast.Return)
	if !ok || baseReturn.Value == nil {
		return ClosedFormShape{}, false
	}
	baseLit, ok := baseReturn.Value.(*ast.IntLit)
	if !ok {
		return ClosedFormShape{}, false
	}

	recReturn, ok := ifStmt.Otherwise[0].(*ast.Return)
	if !ok || recReturn.Value == nil {
		return ClosedFormShape{}, false
	}
	k, ok := matchDoubleRecurrence(recReturn.Value, fn.Name)
	if !ok {
		return ClosedFormShape{}, false
	}

	return ClosedFormShape{Base: baseLit.Value, K: k, Param: param}, true
}

func isZeroAgainst(cond *ast.BinExpr, param intern.Symbol) bool {
	check := func(e ast.Expr) bool {
		id, ok := e.(*ast.Ident)
		return ok && id.Name == param
	}
	zero := func(e ast.Expr) bool {
		lit, ok := e.(*ast.IntLit)
		return ok && lit.Value == 0
	}
	return (check(cond.Left) && zero(cond.Right)) || (check(cond.Right) && zero(cond.Left))
}

// matchDoubleRecurrence recognizes `k plus f(d-1) plus f(d-1)` in either
// associativity and returns k's literal value.
func matchDoubleRecurrence(e ast.Expr, self intern.Symbol) (int64, bool) {
	outer, ok := e.(*ast.BinExpr)
	if !ok || outer.Op != "plus" {
		return 0, false
	}
	// (k plus f(d-1)) plus f(d-1): the left-associative parse of the sum.
	if l, isBin := outer.Left.(*ast.BinExpr); isBin && l.Op == "plus" {
		lk, kok := l.Left.(*ast.IntLit)
		c1, ok1 := l.Right.(*ast.CallExpr)
		c2, ok2 := outer.Right.(*ast.CallExpr)
		if kok && ok1 && ok2 && c1.Callee == self && c2.Callee == self {
			return lk.Value, true
		}
	}
	k, ok := outer.Left.(*ast.IntLit)
	inner := outer.Right
	if !ok {
		k, ok = outer.Right.(*ast.IntLit)
		inner = outer.Left
	}
	if !ok {
		return 0, false
	}
	sum, ok := inner.(*ast.BinExpr)
	if !ok || sum.Op != "plus" {
		return 0, false
	}
	left, lok := sum.Left.(*ast.CallExpr)
	right, rok := sum.Right.(*ast.CallExpr)
	if !lok || !rok || left.Callee != self || right.Callee != self {
		return 0, false
	}
	return k.Value, true
}

// isTailRecursive reports whether every call to self inside fn's body
// occurs in tail position (spec.md §4.4 item 2 "every recursive call is in
// tail position with the same arity").
func isTailRecursive(fn *ast.FunctionDef, self intern.Symbol) bool {
	found := false
	var walkTail func(stmts []ast.Stmt)
	var walkNonTail func(stmts []ast.Stmt)

	walkNonTail = func(stmts []ast.Stmt) {
		for _, s := range stmts {
			if callsSelfAnywhere([]ast.Stmt{s}, self) {
				found = true
			}
		}
	}

	walkTail = func(stmts []ast.Stmt) {
		if len(stmts) == 0 {
			return
		}
		last := stmts[len(stmts)-1]
		walkNonTail(stmts[:len(stmts)-1])
		switch n := last.(type) {
		case *ast.Return:
			if n.Value != nil {
				if call, ok := n.Value.(*ast.CallExpr); ok && call.Callee == self {
					// tail call: same arity, and no self call inside its arguments
					if len(call.Args) != len(fn.Params) {
						found = true
					}
					for _, a := range call.Args {
						if exprCallsSelf(a, self) {
							found = true
						}
					}
					return
				}
			}
			walkNonTail([]ast.Stmt{last})
		case *ast.If:
			if exprCallsSelf(n.Cond, self) {
				found = true
			}
			walkTail(n.Then)
			walkTail(n.Otherwise)
		default:
			walkNonTail([]ast.Stmt{last})
		}
	}

	walkTail(fn.Body)
	if !found {
		return callsSelfAnywhere(fn.Body, self)
	}
	return false
}

func callsSelfAnywhere(stmts []ast.Stmt, self intern.Symbol) bool {
	any := false
	var walk func([]ast.Stmt)
	walk = func(ss []ast.Stmt) {
		for _, s := range ss {
			if callsSelfNonTail(s, self) {
				any = true
			}
			switch n := s.(type) {
			case *ast.If:
				walk(n.Then)
				walk(n.Otherwise)
			case *ast.While:
				walk(n.Body)
			case *ast.Repeat:
				walk(n.Body)
			case *ast.Zone:
				walk(n.Body)
			}
		}
	}
	walk(stmts)
	return any
}

func callsSelfNonTail(s ast.Stmt, self intern.Symbol) bool {
	var exprs []ast.Expr
	switch n := s.(type) {
	case *ast.Let:
		exprs = []ast.Expr{n.Value}
	case *ast.Set:
		exprs = []ast.Expr{n.Value}
	case *ast.Return:
		exprs = []ast.Expr{n.Value}
	case *ast.If:
		exprs = []ast.Expr{n.Cond}
	case *ast.While:
		exprs = []ast.Expr{n.Cond}
	case *ast.Repeat:
		exprs = []ast.Expr{n.Iterable}
	case *ast.Call:
		exprs = n.Args
	}
	for _, e := range exprs {
		if exprCallsSelf(e, self) {
			return true
		}
	}
	return false
}

func exprCallsSelf(e ast.Expr, self intern.Symbol) bool {
	if e == nil {
		return false
	}
	switch n := e.(type) {
	case *ast.CallExpr:
		if n.Callee == self {
			return true
		}
		for _, a := range n.Args {
			if exprCallsSelf(a, self) {
				return true
			}
		}
	case *ast.BinExpr:
		return exprCallsSelf(n.Left, self) || exprCallsSelf(n.Right, self)
	case *ast.UnaryExpr:
		return exprCallsSelf(n.Operand, self)
	case *ast.IndexExpr:
		return exprCallsSelf(n.Collection, self) || exprCallsSelf(n.Index, self)
	case *ast.FieldExpr:
		return exprCallsSelf(n.Object, self)
	case *ast.ListLit:
		for _, el := range n.Elements {
			if exprCallsSelf(el, self) {
				return true
			}
		}
	case *ast.MapLit:
		for _, entry := range n.Entries {
			if exprCallsSelf(entry.Key, self) || exprCallsSelf(entry.Value, self) {
				return true
			}
		}
	}
	return false
}

// matchMutualTCE finds a partner function b such that fn and b each
// tail-call only themselves or each other (spec.md §4.4 item 3).
func matchMutualTCE(fn *ast.FunctionDef, all []*ast.FunctionDef) (*ast.FunctionDef, bool) {
	for _, other := range all {
		if other.Name == fn.Name {
			continue
		}
		allowed := map[intern.Symbol]bool{fn.Name: true, other.Name: true}
		if callsOnlyTail(fn, allowed) && callsOnlyTail(other, allowed) &&
			callsSelfAnywhere(fn.Body, other.Name) && callsSelfAnywhere(other.Body, fn.Name) {
			return other, true
		}
	}
	return nil, false
}

func callsOnlyTail(fn *ast.FunctionDef, allowed map[intern.Symbol]bool) bool {
	ok := true
	var walk func([]ast.Stmt)
	walk = func(stmts []ast.Stmt) {
		for _, s := range stmts {
			switch n := s.(type) {
			case *ast.Return:
				if call, isCall := n.Value.(*ast.CallExpr); isCall {
					if !allowed[call.Callee] {
						ok = false
					}
				}
			case *ast.If:
				walk(n.Then)
				walk(n.Otherwise)
			}
		}
	}
	walk(fn.Body)
	return ok
}

// matchAccumulator recognizes a single non-tail recursive call wrapped in +
// or * with an identity constant (spec.md §4.4 item 4).
func matchAccumulator(fn *ast.FunctionDef) bool {
	if len(fn.Body) == 0 {
		return false
	}
	last, ok := fn.Body[len(fn.Body)-1].(*ast.Return)
	if !ok || last.Value == nil {
		return false
	}
	bin, ok := last.Value.(*ast.BinExpr)
	if !ok || (bin.Op != "plus" && bin.Op != "times") {
		return false
	}
	lc, lIsCall := bin.Left.(*ast.CallExpr)
	rc, rIsCall := bin.Right.(*ast.CallExpr)
	if lIsCall == rIsCall {
		return false
	}
	if lIsCall {
		return lc.Callee == fn.Name && !exprCallsSelf(bin.Right, fn.Name)
	}
	return rc.Callee == fn.Name && !exprCallsSelf(bin.Left, fn.Name) // exactly one side is the recursive call
}

// isMemoCandidate reports whether every parameter of fn is readonly and fn
// calls itself more than once; the body is not otherwise scanned for
// Set/Give. The hashability condition (no Float parameter) is checked by
// classify, which has the parameter types.
func isMemoCandidate(fn *ast.FunctionDef, readonly *analysis.ReadonlyParams) bool {
	if readonly == nil || len(fn.Params) == 0 {
		return false
	}
	for i := range fn.Params {
		if !readonly.IsReadonly(fn.Name, i) {
			return false
		}
	}
	calls := countSelfCalls(fn.Body, fn.Name)
	return calls > 1
}

func countSelfCalls(stmts []ast.Stmt, self intern.Symbol) int {
	n := 0
	var walkExpr func(ast.Expr)
	walkExpr = func(e ast.Expr) {
		if e == nil {
			return
		}
		switch v := e.(type) {
		case *ast.CallExpr:
			if v.Callee == self {
				n++
			}
			for _, a := range v.Args {
				walkExpr(a)
			}
		case *ast.BinExpr:
			walkExpr(v.Left)
			walkExpr(v.Right)
		case *ast.UnaryExpr:
			walkExpr(v.Operand)
		case *ast.IndexExpr:
			walkExpr(v.Collection)
			walkExpr(v.Index)
		case *ast.FieldExpr:
			walkExpr(v.Object)
		case *ast.ListLit:
			for _, el := range v.Elements {
				walkExpr(el)
			}
		case *ast.MapLit:
			for _, entry := range v.Entries {
				walkExpr(entry.Key)
				walkExpr(entry.Value)
			}
		}
	}
	var walk func([]ast.Stmt)
	walk = func(ss []ast.Stmt) {
		for _, s := range ss {
			switch v := s.(type) {
			case *ast.Let:
				walkExpr(v.Value)
			case *ast.Set:
				walkExpr(v.Value)
			case *ast.Return:
				walkExpr(v.Value)
			case *ast.If:
				walkExpr(v.Cond)
				walk(v.Then)
				walk(v.Otherwise)
			case *ast.While:
				walkExpr(v.Cond)
				walk(v.Body)
			case *ast.Repeat:
				walkExpr(v.Iterable)
				walk(v.Body)
			case *ast.Zone:
				walk(v.Body)
			case *ast.Inspect:
				walkExpr(v.Scrutinee)
				for _, cs := range v.Cases {
					walk(cs.Body)
				}
			case *ast.Call:
				if v.Callee == self {
					n++
				}
				for _, a := range v.Args {
					walkExpr(a)
				}
			}
		}
	}
	walk(stmts)
	return n
}

package analysis

import (
	"logaffeine/internal/ast"
	"logaffeine/internal/intern"
)

// ReadonlyParams maps a function symbol to the set of parameter indices
// the fixed point of spec.md §4.3 proved readonly.
type ReadonlyParams struct {
	byFunc map[intern.Symbol]map[int]bool
}

// IsReadonly reports whether fn's i'th parameter is readonly.
func (r *ReadonlyParams) IsReadonly(fn intern.Symbol, i int) bool {
	return r.byFunc[fn] != nil && r.byFunc[fn][i]
}

// Excluded decides whether a function is outside the readonly/mutable-
// borrow optimization entirely (spec.md §4.3 "Exclusions"). Native and
// exported functions always are; TCE/accumulator/mutual-TCE eligibility
// is a codegen-time classification, so the driver wires it in by
// wrapping the predicate it passes to ComputeReadonlyParams (see
// DESIGN.md).
type Excluded func(fn *ast.FunctionDef) bool

// DefaultExcluded excludes native and exported functions; pass a richer
// predicate from the driver once codegen classification is available.
func DefaultExcluded(fn *ast.FunctionDef) bool {
	return fn.Native || fn.Exported
}

// ComputeReadonlyParams runs the fixed point: every non-excluded
// parameter starts assumed readonly, and is evicted whenever it is
// mutated directly (Set/SetIndex/SetField/Pop) or passed at a call site
// to a parameter slot that isn't (itself) readonly.
func ComputeReadonlyParams(in Inputs, graph *CallGraph, excluded Excluded) *ReadonlyParams {
	if excluded == nil {
		excluded = DefaultExcluded
	}
	fns := collectFunctionDefs(in.Statements)
	byName := make(map[intern.Symbol]*ast.FunctionDef, len(fns))
	for _, fn := range fns {
		byName[fn.Name] = fn
	}

	r := &ReadonlyParams{byFunc: make(map[intern.Symbol]map[int]bool)}
	for _, fn := range fns {
		if excluded(fn) {
			continue
		}
		set := make(map[int]bool, len(fn.Params))
		for i := range fn.Params {
			set[i] = true
		}
		r.byFunc[fn.Name] = set
	}

	for changed := true; changed; {
		changed = false
		for _, fn := range fns {
			set, ok := r.byFunc[fn.Name]
			if !ok {
				continue
			}
			for i, p := range fn.Params {
				if !set[i] {
					continue
				}
				if mutatesVar(fn.Body, p.Name) || passedToNonReadonlySlot(fn.Body, p.Name, byName, r) {
					delete(set, i)
					changed = true
				}
			}
		}
	}
	return r
}

// mutatesVar reports whether sym is ever the target of Set, SetIndex,
// SetField, or Pop anywhere in stmts (spec.md §4.3 readonly condition i).
func mutatesVar(stmts []ast.Stmt, sym intern.Symbol) bool {
	found := false
	var walk func([]ast.Stmt)
	walk = func(ss []ast.Stmt) {
		for _, s := range ss {
			switch n := s.(type) {
			case *ast.Set:
				if n.Var == sym {
					found = true
				}
			case *ast.SetIndex:
				if n.Collection == sym {
					found = true
				}
			case *ast.SetField:
				if n.Object == sym {
					found = true
				}
			case *ast.Pop:
				if id, ok := identOf(n.Collection); ok && id == sym {
					found = true
				}
			case *ast.If:
				walk(n.Then)
				walk(n.Otherwise)
			case *ast.While:
				walk(n.Body)
			case *ast.Repeat:
				walk(n.Body)
			case *ast.Zone:
				walk(n.Body)
			case *ast.Inspect:
				for _, cs := range n.Cases {
					walk(cs.Body)
				}
			case *ast.Concurrent:
				for _, t := range n.Tasks {
					walk(t)
				}
			case *ast.Parallel:
				for _, t := range n.Tasks {
					walk(t)
				}
			}
		}
	}
	walk(stmts)
	return found
}

// passedToNonReadonlySlot reports whether sym is ever passed, bare, as a
// call argument to a parameter slot that the current fixed-point
// iteration has not (yet, or ever) proven readonly, or to a function
// whose signature is unknown entirely (conservatively disqualifying).
func passedToNonReadonlySlot(stmts []ast.Stmt, sym intern.Symbol, byName map[intern.Symbol]*ast.FunctionDef, r *ReadonlyParams) bool {
	disqualified := false
	checkArgs := func(callee intern.Symbol, args []ast.Expr) {
		for i, a := range args {
			id, ok := identOf(a)
			if !ok || id != sym {
				continue
			}
			target, ok := byName[callee]
			if !ok {
				disqualified = true // unknown/native call target: conservative
				continue
			}
			if i >= len(target.Params) || !r.IsReadonly(callee, i) {
				disqualified = true
			}
		}
	}
	var walkExpr func(ast.Expr)
	walkExpr = func(e ast.Expr) {
		if e == nil {
			return
		}
		switch n := e.(type) {
		case *ast.CallExpr:
			checkArgs(n.Callee, n.Args)
			for _, a := range n.Args {
				walkExpr(a)
			}
		case *ast.BinExpr:
			walkExpr(n.Left)
			walkExpr(n.Right)
		case *ast.UnaryExpr:
			walkExpr(n.Operand)
		case *ast.IndexExpr:
			walkExpr(n.Collection)
			walkExpr(n.Index)
		case *ast.FieldExpr:
			walkExpr(n.Object)
		case *ast.ListLit:
			for _, el := range n.Elements {
				walkExpr(el)
			}
		case *ast.MapLit:
			for _, entry := range n.Entries {
				walkExpr(entry.Key)
				walkExpr(entry.Value)
			}
		}
	}
	var walk func([]ast.Stmt)
	walk = func(ss []ast.Stmt) {
		for _, s := range ss {
			switch n := s.(type) {
			case *ast.Let:
				walkExpr(n.Value)
			case *ast.Set:
				walkExpr(n.Value)
			case *ast.SetIndex:
				walkExpr(n.Index)
				walkExpr(n.Value)
			case *ast.SetField:
				walkExpr(n.Value)
			case *ast.Return:
				walkExpr(n.Value)
			case *ast.If:
				walkExpr(n.Cond)
				walk(n.Then)
				walk(n.Otherwise)
			case *ast.While:
				walkExpr(n.Cond)
				walk(n.Body)
			case *ast.Repeat:
				walkExpr(n.Iterable)
				walk(n.Body)
			case *ast.Zone:
				walk(n.Body)
			case *ast.Inspect:
				walkExpr(n.Scrutinee)
				for _, cs := range n.Cases {
					walk(cs.Body)
				}
			case *ast.Call:
				checkArgs(n.Callee, n.Args)
				for _, a := range n.Args {
					walkExpr(a)
				}
			case *ast.Give:
				walkExpr(n.Object)
			case *ast.Show:
				walkExpr(n.Object)
			case *ast.ReadFrom:
				walkExpr(n.Source)
			case *ast.ReceivePipe:
				walkExpr(n.Pipe)
			case *ast.Pop:
				walkExpr(n.Collection)
			case *ast.Concurrent:
				for _, t := range n.Tasks {
					walk(t)
				}
			case *ast.Parallel:
				for _, t := range n.Tasks {
					walk(t)
				}
			}
		}
	}
	walk(stmts)
	return disqualified
}

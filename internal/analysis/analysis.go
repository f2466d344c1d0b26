// Package analysis implements the whole-program analyses of spec.md
// §4.3: call graph, liveness, readonly/mutable-borrow parameter
// fixed-points, escape analysis, and the four-state ownership abstract
// interpreter. All of them share one input and produce read-only
// summaries codegen consults at call sites.
package analysis

import (
	"logaffeine/internal/ast"
	"logaffeine/internal/inference"
	"logaffeine/internal/intern"
)

// Inputs is the shared read-only input every analysis in this package
// consumes (spec.md §4.3 "All analyses share a single input: statements
// + type env").
type Inputs struct {
	Statements []ast.Stmt
	TypeEnv    *inference.TypeEnv
	Interner   *intern.Pool
}

// collectFunctionDefs finds every FunctionDef in the program, including
// ones nested inside blocks (If/While/Repeat/Zone bodies), since the
// surface grammar allows local function definitions.
func collectFunctionDefs(stmts []ast.Stmt) []*ast.FunctionDef {
	var out []*ast.FunctionDef
	var walk func([]ast.Stmt)
	walk = func(ss []ast.Stmt) {
		for _, s := range ss {
			switch n := s.(type) {
			case *ast.FunctionDef:
				out = append(out, n)
				walk(n.Body)
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
				for _, c := range n.Cases {
					walk(c.Body)
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
	return out
}

func cloneSet(s map[intern.Symbol]bool) map[intern.Symbol]bool {
	out := make(map[intern.Symbol]bool, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func unionSet(a, b map[intern.Symbol]bool) map[intern.Symbol]bool {
	out := cloneSet(a)
	for k, v := range b {
		if v {
			out[k] = true
		}
	}
	return out
}

// identOf reports the variable an expression names, if it is a bare
// identifier (the only shape most of these analyses care about: `Set x
// to ...`, `Give x`, `item i of xs`, etc. all route through a variable).
func identOf(e ast.Expr) (intern.Symbol, bool) {
	if id, ok := e.(*ast.Ident); ok {
		return id.Name, true
	}
	return 0, false
}

// addUses walks e and records every variable it reads into uses.
func addUses(uses map[intern.Symbol]bool, e ast.Expr) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.Ident:
		uses[n.Name] = true
	case *ast.BinExpr:
		addUses(uses, n.Left)
		addUses(uses, n.Right)
	case *ast.UnaryExpr:
		addUses(uses, n.Operand)
	case *ast.IndexExpr:
		addUses(uses, n.Collection)
		addUses(uses, n.Index)
	case *ast.FieldExpr:
		addUses(uses, n.Object)
	case *ast.CallExpr:
		for _, a := range n.Args {
			addUses(uses, a)
		}
	case *ast.ListLit:
		for _, el := range n.Elements {
			addUses(uses, el)
		}
	case *ast.MapLit:
		for _, entry := range n.Entries {
			addUses(uses, entry.Key)
			addUses(uses, entry.Value)
		}
	}
}

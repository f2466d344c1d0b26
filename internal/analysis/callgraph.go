package analysis

import (
	"logaffeine/internal/ast"
	"logaffeine/internal/intern"
)

// CallGraph is the directed caller -> callee edge set of spec.md §4.3
// "Call graph": one edge per call site, consumed by the
// readonly/mutable-borrow fixed points.
type CallGraph struct {
	Edges map[intern.Symbol]map[intern.Symbol]bool
}

// BuildCallGraph walks every function body (top-level and nested) and
// records one edge per Call statement or CallExpr it finds.
func BuildCallGraph(in Inputs) *CallGraph {
	g := &CallGraph{Edges: make(map[intern.Symbol]map[intern.Symbol]bool)}
	for _, fn := range collectFunctionDefs(in.Statements) {
		g.walkStmts(fn.Name, fn.Body)
	}
	return g
}

func (g *CallGraph) addEdge(from, to intern.Symbol) {
	if g.Edges[from] == nil {
		g.Edges[from] = make(map[intern.Symbol]bool)
	}
	g.Edges[from][to] = true
}

func (g *CallGraph) walkExpr(caller intern.Symbol, e ast.Expr) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.CallExpr:
		g.addEdge(caller, n.Callee)
		for _, a := range n.Args {
			g.walkExpr(caller, a)
		}
	case *ast.BinExpr:
		g.walkExpr(caller, n.Left)
		g.walkExpr(caller, n.Right)
	case *ast.UnaryExpr:
		g.walkExpr(caller, n.Operand)
	case *ast.IndexExpr:
		g.walkExpr(caller, n.Collection)
		g.walkExpr(caller, n.Index)
	case *ast.FieldExpr:
		g.walkExpr(caller, n.Object)
	case *ast.ListLit:
		for _, el := range n.Elements {
			g.walkExpr(caller, el)
		}
	case *ast.MapLit:
		for _, entry := range n.Entries {
			g.walkExpr(caller, entry.Key)
			g.walkExpr(caller, entry.Value)
		}
	}
}

func (g *CallGraph) walkStmts(caller intern.Symbol, stmts []ast.Stmt) {
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.Let:
			g.walkExpr(caller, n.Value)
		case *ast.Set:
			g.walkExpr(caller, n.Value)
		case *ast.SetIndex:
			g.walkExpr(caller, n.Index)
			g.walkExpr(caller, n.Value)
		case *ast.SetField:
			g.walkExpr(caller, n.Value)
		case *ast.Return:
			g.walkExpr(caller, n.Value)
		case *ast.If:
			g.walkExpr(caller, n.Cond)
			g.walkStmts(caller, n.Then)
			g.walkStmts(caller, n.Otherwise)
		case *ast.While:
			g.walkExpr(caller, n.Cond)
			g.walkStmts(caller, n.Body)
		case *ast.Repeat:
			g.walkExpr(caller, n.Iterable)
			g.walkStmts(caller, n.Body)
		case *ast.Zone:
			g.walkStmts(caller, n.Body)
		case *ast.Inspect:
			g.walkExpr(caller, n.Scrutinee)
			for _, cs := range n.Cases {
				g.walkStmts(caller, cs.Body)
			}
		case *ast.Call:
			g.addEdge(caller, n.Callee)
			for _, a := range n.Args {
				g.walkExpr(caller, a)
			}
		case *ast.Give:
			g.walkExpr(caller, n.Object)
		case *ast.Show:
			g.walkExpr(caller, n.Object)
		case *ast.ReadFrom:
			g.walkExpr(caller, n.Source)
		case *ast.ReceivePipe:
			g.walkExpr(caller, n.Pipe)
		case *ast.Pop:
			g.walkExpr(caller, n.Collection)
		case *ast.Concurrent:
			for _, t := range n.Tasks {
				g.walkStmts(caller, t)
			}
		case *ast.Parallel:
			for _, t := range n.Tasks {
				g.walkStmts(caller, t)
			}
		case *ast.FunctionDef:
			g.walkStmts(n.Name, n.Body)
		}
	}
}

// Callees returns fn's direct call targets (order is unspecified).
func (g *CallGraph) Callees(fn intern.Symbol) []intern.Symbol {
	out := make([]intern.Symbol, 0, len(g.Edges[fn]))
	for callee := range g.Edges[fn] {
		out = append(out, callee)
	}
	return out
}

// CallsOnly reports whether every call fn makes lands on a target in
// allowed. The codegen classifiers do not use it; they walk the function
// bodies themselves.
func (g *CallGraph) CallsOnly(fn intern.Symbol, allowed map[intern.Symbol]bool) bool {
	for callee := range g.Edges[fn] {
		if !allowed[callee] {
			return false
		}
	}
	return true
}

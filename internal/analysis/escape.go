package analysis

import (
	"logaffeine/internal/ast"
	"logaffeine/internal/intern"
)

// EscapeInfo records, per function, the locals that escape its scope
// (spec.md §4.3 "Escape": returned, stored into a field of a
// longer-lived value, or captured by a closure that outlives its
// scope). The surface grammar has no closure-literal construct, so the
// third clause never fires here and ComputeEscape does not check for it.
type EscapeInfo struct {
	byFunc map[intern.Symbol]map[intern.Symbol]bool
}

// Escapes reports whether sym escapes fn's scope.
func (e *EscapeInfo) Escapes(fn intern.Symbol, sym intern.Symbol) bool {
	return e.byFunc[fn] != nil && e.byFunc[fn][sym]
}

// ComputeEscape finds every local that is returned or stored into a
// field anywhere in the program.
func ComputeEscape(in Inputs) *EscapeInfo {
	info := &EscapeInfo{byFunc: make(map[intern.Symbol]map[intern.Symbol]bool)}
	for _, fn := range collectFunctionDefs(in.Statements) {
		set := make(map[intern.Symbol]bool)
		markEscaping(fn.Body, set)
		if len(set) > 0 {
			info.byFunc[fn.Name] = set
		}
	}
	return info
}

func markEscaping(stmts []ast.Stmt, set map[intern.Symbol]bool) {
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.Return:
			if id, ok := identOf(n.Value); ok {
				set[id] = true
			}
		case *ast.SetField:
			if id, ok := identOf(n.Value); ok {
				set[id] = true
			}
		case *ast.If:
			markEscaping(n.Then, set)
			markEscaping(n.Otherwise, set)
		case *ast.While:
			markEscaping(n.Body, set)
		case *ast.Repeat:
			markEscaping(n.Body, set)
		case *ast.Zone:
			markEscaping(n.Body, set)
		case *ast.Inspect:
			for _, cs := range n.Cases {
				markEscaping(cs.Body, set)
			}
		case *ast.Concurrent:
			for _, t := range n.Tasks {
				markEscaping(t, set)
			}
		case *ast.Parallel:
			for _, t := range n.Tasks {
				markEscaping(t, set)
			}
		}
	}
}

package analysis

import (
	"logaffeine/internal/ast"
	"logaffeine/internal/intern"
)

// MutableBorrowParams maps a function symbol to the parameter indices
// spec.md §4.3 "Mutable-borrow parameters" qualifies: mutated only
// through element-index assignment, with an identity return.
type MutableBorrowParams struct {
	byFunc map[intern.Symbol]map[int]bool
}

// IsMutableBorrow reports whether fn's i'th parameter qualifies.
func (m *MutableBorrowParams) IsMutableBorrow(fn intern.Symbol, i int) bool {
	return m.byFunc[fn] != nil && m.byFunc[fn][i]
}

// ComputeMutableBorrowParams finds, per function, every parameter that
// is mutated exclusively via SetIndex (never Set/SetField/Pop, and never
// reassigned wholesale) and that the function returns unchanged
// (identity return). Readonly takes precedence: a parameter ComputeReadonlyParams
// already proved readonly is never a borrow candidate (spec.md §4.3).
func ComputeMutableBorrowParams(in Inputs, readonly *ReadonlyParams) *MutableBorrowParams {
	fns := collectFunctionDefs(in.Statements)
	m := &MutableBorrowParams{byFunc: make(map[intern.Symbol]map[int]bool)}

	for _, fn := range fns {
		set := make(map[int]bool)
		for i, p := range fn.Params {
			if readonly != nil && readonly.IsReadonly(fn.Name, i) {
				continue
			}
			if indexMutatedOnly(fn.Body, p.Name) && hasIdentityReturn(fn.Body, p.Name) {
				set[i] = true
			}
		}
		if len(set) > 0 {
			m.byFunc[fn.Name] = set
		}
	}
	return m
}

// indexMutatedOnly reports whether sym is mutated at least once, and
// only ever through SetIndex (no Set/SetField/Pop, which would change
// its identity or length rather than an element in place).
func indexMutatedOnly(stmts []ast.Stmt, sym intern.Symbol) bool {
	mutatedViaIndex := false
	otherMutation := false
	var walk func([]ast.Stmt)
	walk = func(ss []ast.Stmt) {
		for _, s := range ss {
			switch n := s.(type) {
			case *ast.SetIndex:
				if n.Collection == sym {
					mutatedViaIndex = true
				}
			case *ast.Set:
				if n.Var == sym {
					otherMutation = true
				}
			case *ast.SetField:
				if n.Object == sym {
					otherMutation = true
				}
			case *ast.Pop:
				if id, ok := identOf(n.Collection); ok && id == sym {
					otherMutation = true
				}
			case *ast.Give:
				if id, ok := identOf(n.Object); ok && id == sym {
					otherMutation = true
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
			}
		}
	}
	walk(stmts)
	return mutatedViaIndex && !otherMutation
}

// hasIdentityReturn reports whether every non-empty Return in stmts
// returns sym directly.
func hasIdentityReturn(stmts []ast.Stmt, sym intern.Symbol) bool {
	found := false
	ok := true
	var walk func([]ast.Stmt)
	walk = func(ss []ast.Stmt) {
		for _, s := range ss {
			switch n := s.(type) {
			case *ast.Return:
				if n.Value == nil {
					continue
				}
				id, isIdent := identOf(n.Value)
				if !isIdent || id != sym {
					ok = false
				} else {
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
			}
		}
	}
	walk(stmts)
	return found && ok
}

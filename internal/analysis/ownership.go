package analysis

import (
	"logaffeine/internal/ast"
	"logaffeine/internal/diagnostics"
	"logaffeine/internal/intern"
	"logaffeine/internal/token"
)

// VarState is one of the four states of spec.md §4.3's ownership
// abstract interpretation (grounded on
// original_source/src/analysis/ownership.rs's `VarState`).
type VarState int

const (
	Owned VarState = iota
	Moved
	MaybeMoved
	Borrowed
)

func (s VarState) String() string {
	switch s {
	case Owned:
		return "Owned"
	case Moved:
		return "Moved"
	case MaybeMoved:
		return "MaybeMoved"
	case Borrowed:
		return "Borrowed"
	}
	return "?"
}

// OwnershipChecker runs the transfer rules of spec.md §4.3 over one
// function body, tracking each variable's VarState and reporting the
// first UseAfterMove/UseAfterMaybeMove/DoubleMove violation it finds
// (grounded on original_source/src/analysis/ownership.rs's
// `OwnershipChecker`/`check_stmt`/`check_not_moved`/`merge_states`).
type OwnershipChecker struct {
	state    map[intern.Symbol]VarState
	interner *intern.Pool
}

// NewOwnershipChecker returns a checker with empty initial state.
func NewOwnershipChecker(interner *intern.Pool) *OwnershipChecker {
	return &OwnershipChecker{state: make(map[intern.Symbol]VarState), interner: interner}
}

// CheckProgram runs the checker over a whole statement list, stopping at
// the first violation (spec.md §7 "ownership errors accumulate per
// function" — callers run one OwnershipChecker per function and collect
// into a diagnostics.Bag).
func (c *OwnershipChecker) CheckProgram(stmts []ast.Stmt) error {
	return c.checkBlock(stmts)
}

func (c *OwnershipChecker) checkBlock(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := c.checkStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (c *OwnershipChecker) checkStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.Let:
		if err := c.checkNotMoved(n.Value); err != nil {
			return err
		}
		c.state[n.Var] = Owned

	case *ast.Give:
		if id, ok := identOf(n.Object); ok {
			switch c.state[id] {
			case Moved:
				return c.err(diagnostics.ErrDoubleMove, n.Token, id)
			case MaybeMoved:
				return c.err(diagnostics.ErrUseAfterMaybeMove, n.Token, id)
			default:
				c.state[id] = Moved
			}
		} else if err := c.checkNotMoved(n.Object); err != nil {
			return err
		}

	case *ast.Show:
		if err := c.checkNotMoved(n.Object); err != nil {
			return err
		}
		if id, ok := identOf(n.Object); ok {
			if s, known := c.state[id]; !known || s == Owned {
				c.state[id] = Borrowed
			}
		}

	case *ast.If:
		before := cloneStates(c.state)
		if err := c.checkBlock(n.Then); err != nil {
			return err
		}
		afterThen := cloneStates(c.state)

		var afterElse map[intern.Symbol]VarState
		if n.Otherwise != nil {
			c.state = cloneStates(before)
			if err := c.checkBlock(n.Otherwise); err != nil {
				return err
			}
			afterElse = cloneStates(c.state)
		} else {
			afterElse = before
		}
		c.state = mergeStates(afterThen, afterElse)

	case *ast.While:
		before := cloneStates(c.state)
		if err := c.checkBlock(n.Body); err != nil {
			return err
		}
		c.state = mergeStates(before, c.state)

	case *ast.Repeat:
		if err := c.checkBlock(n.Body); err != nil {
			return err
		}

	case *ast.Zone:
		if err := c.checkBlock(n.Body); err != nil {
			return err
		}

	case *ast.Inspect:
		if len(n.Cases) == 0 {
			return nil
		}
		before := cloneStates(c.state)
		var branchStates []map[intern.Symbol]VarState
		for _, cs := range n.Cases {
			c.state = cloneStates(before)
			if err := c.checkBlock(cs.Body); err != nil {
				return err
			}
			branchStates = append(branchStates, cloneStates(c.state))
		}
		merged := branchStates[0]
		for _, bs := range branchStates[1:] {
			merged = mergeStates(merged, bs)
		}
		c.state = merged

	case *ast.Return:
		if n.Value != nil {
			return c.checkNotMoved(n.Value)
		}

	case *ast.Set:
		return c.checkNotMoved(n.Value)

	case *ast.Call:
		for _, a := range n.Args {
			if err := c.checkNotMoved(a); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkNotMoved reports UseAfterMove/UseAfterMaybeMove if e reads a
// variable in one of those states (grounded on
// original_source's `check_not_moved`).
func (c *OwnershipChecker) checkNotMoved(e ast.Expr) error {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ast.Ident:
		switch c.state[n.Name] {
		case Moved:
			return c.err(diagnostics.ErrUseAfterMove, n.Token, n.Name)
		case MaybeMoved:
			return c.err(diagnostics.ErrUseAfterMaybeMove, n.Token, n.Name)
		}
		return nil
	case *ast.BinExpr:
		if err := c.checkNotMoved(n.Left); err != nil {
			return err
		}
		return c.checkNotMoved(n.Right)
	case *ast.UnaryExpr:
		return c.checkNotMoved(n.Operand)
	case *ast.FieldExpr:
		return c.checkNotMoved(n.Object)
	case *ast.IndexExpr:
		if err := c.checkNotMoved(n.Collection); err != nil {
			return err
		}
		return c.checkNotMoved(n.Index)
	case *ast.CallExpr:
		for _, a := range n.Args {
			if err := c.checkNotMoved(a); err != nil {
				return err
			}
		}
		return nil
	case *ast.ListLit:
		for _, el := range n.Elements {
			if err := c.checkNotMoved(el); err != nil {
				return err
			}
		}
		return nil
	case *ast.MapLit:
		for _, entry := range n.Entries {
			if err := c.checkNotMoved(entry.Key); err != nil {
				return err
			}
			if err := c.checkNotMoved(entry.Value); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

func (c *OwnershipChecker) err(code diagnostics.Code, tok token.Token, sym intern.Symbol) error {
	name := c.interner.Resolve(sym)
	return diagnostics.New(diagnostics.PhaseOwnership, code,
		diagnostics.Span{Start: tok.Span.Start, End: tok.Span.End}, name)
}

// cloneStates copies a state map (original_source's `state.clone()`).
func cloneStates(s map[intern.Symbol]VarState) map[intern.Symbol]VarState {
	out := make(map[intern.Symbol]VarState, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// mergeStates implements spec.md §4.3 "If joins branch states as
// MaybeMoved when they disagree" (grounded on original_source's
// `merge_states`).
func mergeStates(a, b map[intern.Symbol]VarState) map[intern.Symbol]VarState {
	merged := cloneStates(a)
	for sym, bVal := range b {
		aVal, ok := a[sym]
		if !ok {
			aVal = Owned
		}
		merged[sym] = mergeOne(aVal, bVal)
	}
	return merged
}

func mergeOne(a, b VarState) VarState {
	switch {
	case a == Moved && b == Moved:
		return Moved
	case a == Moved || b == Moved:
		return MaybeMoved
	case a == MaybeMoved || b == MaybeMoved:
		return MaybeMoved
	case a == Borrowed || b == Borrowed:
		return Borrowed
	default:
		return Owned
	}
}

package analysis

import (
	"testing"

	"logaffeine/internal/ast"
	"logaffeine/internal/diagnostics"
	"logaffeine/internal/intern"
)

func TestOwnership_GiveThenUseIsUseAfterMove(t *testing.T) {
	interner := intern.New()
	x := interner.Intern("x")

	stmts := []ast.Stmt{
		&ast.Let{Var: x, Value: &ast.IntLit{Value: 1}},
		&ast.Give{Object: &ast.Ident{Name: x}},
		&ast.Show{Object: &ast.Ident{Name: x}},
	}
	c := NewOwnershipChecker(interner)
	err := c.CheckProgram(stmts)
	if err == nil {
		t.Fatalf("expected a use-after-move error")
	}
	diag, ok := err.(*diagnostics.Diagnostic)
	if !ok || diag.Code != diagnostics.ErrUseAfterMove {
		t.Fatalf("expected ErrUseAfterMove, got %#v", err)
	}
}

func TestOwnership_DoubleGiveIsDoubleMove(t *testing.T) {
	interner := intern.New()
	x := interner.Intern("x")

	stmts := []ast.Stmt{
		&ast.Let{Var: x, Value: &ast.IntLit{Value: 1}},
		&ast.Give{Object: &ast.Ident{Name: x}},
		&ast.Give{Object: &ast.Ident{Name: x}},
	}
	c := NewOwnershipChecker(interner)
	err := c.CheckProgram(stmts)
	if err == nil {
		t.Fatalf("expected a double-move error")
	}
	diag, ok := err.(*diagnostics.Diagnostic)
	if !ok || diag.Code != diagnostics.ErrDoubleMove {
		t.Fatalf("expected ErrDoubleMove, got %#v", err)
	}
}

func TestOwnership_ShowThenGiveIsFine(t *testing.T) {
	interner := intern.New()
	x := interner.Intern("x")

	stmts := []ast.Stmt{
		&ast.Let{Var: x, Value: &ast.IntLit{Value: 1}},
		&ast.Show{Object: &ast.Ident{Name: x}},
		&ast.Give{Object: &ast.Ident{Name: x}},
	}
	c := NewOwnershipChecker(interner)
	if err := c.CheckProgram(stmts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOwnership_IfGivesInOneBranchIsMaybeMovedAfter(t *testing.T) {
	interner := intern.New()
	x := interner.Intern("x")
	cond := interner.Intern("cond")

	stmts := []ast.Stmt{
		&ast.Let{Var: x, Value: &ast.IntLit{Value: 1}},
		&ast.If{
			Cond: &ast.Ident{Name: cond},
			Then: []ast.Stmt{&ast.Give{Object: &ast.Ident{Name: x}}},
		},
		&ast.Give{Object: &ast.Ident{Name: x}},
	}
	c := NewOwnershipChecker(interner)
	err := c.CheckProgram(stmts)
	if err == nil {
		t.Fatalf("expected a maybe-move error after the if")
	}
	diag, ok := err.(*diagnostics.Diagnostic)
	if !ok || diag.Code != diagnostics.ErrUseAfterMaybeMove {
		t.Fatalf("expected ErrUseAfterMaybeMove, got %#v", err)
	}
}

func TestOwnership_IfGivesInBothBranchesIsDefinitelyMoved(t *testing.T) {
	interner := intern.New()
	x := interner.Intern("x")
	cond := interner.Intern("cond")

	stmts := []ast.Stmt{
		&ast.Let{Var: x, Value: &ast.IntLit{Value: 1}},
		&ast.If{
			Cond:      &ast.Ident{Name: cond},
			Then:      []ast.Stmt{&ast.Give{Object: &ast.Ident{Name: x}}},
			Otherwise: []ast.Stmt{&ast.Give{Object: &ast.Ident{Name: x}}},
		},
		&ast.Give{Object: &ast.Ident{Name: x}},
	}
	c := NewOwnershipChecker(interner)
	err := c.CheckProgram(stmts)
	if err == nil {
		t.Fatalf("expected a double-move error: x was moved on every path")
	}
	diag, ok := err.(*diagnostics.Diagnostic)
	if !ok || diag.Code != diagnostics.ErrDoubleMove {
		t.Fatalf("expected ErrDoubleMove, got %#v", err)
	}
}

func TestBuildCallGraph_RecordsDirectCall(t *testing.T) {
	interner := intern.New()
	f := interner.Intern("f")
	g := interner.Intern("g")

	fn := &ast.FunctionDef{
		Name: f,
		Body: []ast.Stmt{
			&ast.Call{Callee: g},
		},
	}
	in := Inputs{Statements: []ast.Stmt{fn}, Interner: interner}
	graph := BuildCallGraph(in)
	if !graph.Edges[f][g] {
		t.Fatalf("expected an edge f -> g")
	}
}

func TestComputeLiveness_UsedAfterIsLive(t *testing.T) {
	interner := intern.New()
	x := interner.Intern("x")
	y := interner.Intern("y")

	letX := &ast.Let{Var: x, Value: &ast.IntLit{Value: 1}}
	letY := &ast.Let{Var: y, Value: &ast.Ident{Name: x}}
	fn := &ast.FunctionDef{Body: []ast.Stmt{letX, letY}}

	li := ComputeLiveness(fn)
	if !li.IsLiveAfter(letX, x) {
		t.Fatalf("expected x to be live right after its own Let, since letY reads it")
	}
	if li.IsLiveAfter(letY, x) {
		t.Fatalf("expected x to be dead after the statement that consumes it last")
	}
}

func TestComputeReadonlyParams_MutatedParamIsNotReadonly(t *testing.T) {
	interner := intern.New()
	f := interner.Intern("f")
	p := interner.Intern("p")

	fn := &ast.FunctionDef{
		Name:   f,
		Params: []ast.Param{{Name: p}},
		Body: []ast.Stmt{
			&ast.Set{Var: p, Value: &ast.IntLit{Value: 2}},
		},
	}
	in := Inputs{Statements: []ast.Stmt{fn}, Interner: interner}
	graph := BuildCallGraph(in)
	ro := ComputeReadonlyParams(in, graph, nil)
	if ro.IsReadonly(f, 0) {
		t.Fatalf("expected p to be disqualified: it is mutated via Set")
	}
}

func TestComputeReadonlyParams_UnmutatedParamIsReadonly(t *testing.T) {
	interner := intern.New()
	f := interner.Intern("f")
	p := interner.Intern("p")
	r := interner.Intern("r")

	fn := &ast.FunctionDef{
		Name:   f,
		Params: []ast.Param{{Name: p}},
		Body: []ast.Stmt{
			&ast.Let{Var: r, Value: &ast.Ident{Name: p}},
			&ast.Return{Value: &ast.Ident{Name: r}},
		},
	}
	in := Inputs{Statements: []ast.Stmt{fn}, Interner: interner}
	graph := BuildCallGraph(in)
	ro := ComputeReadonlyParams(in, graph, nil)
	if !ro.IsReadonly(f, 0) {
		t.Fatalf("expected p to be readonly: never mutated, never passed elsewhere")
	}
}

func TestComputeMutableBorrowParams_IndexMutationWithIdentityReturn(t *testing.T) {
	interner := intern.New()
	f := interner.Intern("f")
	xs := interner.Intern("xs")

	fn := &ast.FunctionDef{
		Name:   f,
		Params: []ast.Param{{Name: xs}},
		Body: []ast.Stmt{
			&ast.SetIndex{Collection: xs, Index: &ast.IntLit{Value: 1}, Value: &ast.IntLit{Value: 0}},
			&ast.Return{Value: &ast.Ident{Name: xs}},
		},
	}
	in := Inputs{Statements: []ast.Stmt{fn}, Interner: interner}
	graph := BuildCallGraph(in)
	ro := ComputeReadonlyParams(in, graph, nil)
	mb := ComputeMutableBorrowParams(in, ro)
	if !mb.IsMutableBorrow(f, 0) {
		t.Fatalf("expected xs to qualify as a mutable-borrow parameter")
	}
}

func TestComputeEscape_ReturnedLocalEscapes(t *testing.T) {
	interner := intern.New()
	f := interner.Intern("f")
	x := interner.Intern("x")

	fn := &ast.FunctionDef{
		Name: f,
		Body: []ast.Stmt{
			&ast.Let{Var: x, Value: &ast.IntLit{Value: 1}},
			&ast.Return{Value: &ast.Ident{Name: x}},
		},
	}
	in := Inputs{Statements: []ast.Stmt{fn}, Interner: interner}
	esc := ComputeEscape(in)
	if !esc.Escapes(f, x) {
		t.Fatalf("expected x to escape via Return")
	}
}

package inference

import (
	"testing"

	"logaffeine/internal/ast"
	"logaffeine/internal/discovery"
	"logaffeine/internal/intern"
	"logaffeine/internal/typesystem"
)

func TestInferLet_LiteralTypes(t *testing.T) {
	interner := intern.New()
	reg := discovery.New()
	xs := interner.Intern("xs")

	stmts := []ast.Stmt{
		&ast.Let{Var: xs, Value: &ast.IntLit{Value: 3}},
	}
	env, diags := InferProgram(stmts, reg, interner)
	if !diags.Empty() {
		t.Fatalf("unexpected diagnostics: %v", diags.Error())
	}
	if got := env.Lookup(xs); got.String() != "Int" {
		t.Fatalf("got %s, want Int", got)
	}
}

func TestInferLet_AnnotationWins(t *testing.T) {
	interner := intern.New()
	reg := discovery.New()
	x := interner.Intern("x")

	stmts := []ast.Stmt{
		&ast.Let{Var: x, Annotation: "Float", Value: &ast.IntLit{Value: 3}},
	}
	env, _ := InferProgram(stmts, reg, interner)
	if got := env.Lookup(x); got.String() != "Float" {
		t.Fatalf("got %s, want Float (annotation should win)", got)
	}
}

func TestInferBinExpr_ArithmeticPromotion(t *testing.T) {
	interner := intern.New()
	reg := discovery.New()
	x := interner.Intern("x")

	stmts := []ast.Stmt{
		&ast.Let{Var: x, Value: &ast.BinExpr{
			Op:   "plus",
			Left: &ast.IntLit{Value: 1}, Right: &ast.FloatLit{Value: 2.5},
		}},
	}
	env, _ := InferProgram(stmts, reg, interner)
	if got := env.Lookup(x); got.String() != "Float" {
		t.Fatalf("got %s, want Float (Int+Float promotes to Float)", got)
	}
}

func TestInferBinExpr_StringConcatenation(t *testing.T) {
	interner := intern.New()
	reg := discovery.New()
	x := interner.Intern("x")

	stmts := []ast.Stmt{
		&ast.Let{Var: x, Value: &ast.BinExpr{
			Op:   "plus",
			Left: &ast.StringLit{Value: "a"}, Right: &ast.StringLit{Value: "b"},
		}},
	}
	env, _ := InferProgram(stmts, reg, interner)
	if got := env.Lookup(x); got.String() != "String" {
		t.Fatalf("got %s, want String", got)
	}
}

func TestInferBinExpr_ComparisonIsBool(t *testing.T) {
	interner := intern.New()
	reg := discovery.New()
	x := interner.Intern("x")

	stmts := []ast.Stmt{
		&ast.Let{Var: x, Value: &ast.BinExpr{
			Op:   "equals",
			Left: &ast.IntLit{Value: 1}, Right: &ast.IntLit{Value: 2},
		}},
	}
	env, _ := InferProgram(stmts, reg, interner)
	if got := env.Lookup(x); got.String() != "Bool" {
		t.Fatalf("got %s, want Bool", got)
	}
}

func TestInferReadFrom_AlwaysString(t *testing.T) {
	interner := intern.New()
	reg := discovery.New()
	line := interner.Intern("line")

	stmts := []ast.Stmt{
		&ast.ReadFrom{Var: line, Source: &ast.StringLit{Value: "stdin"}},
	}
	env, _ := InferProgram(stmts, reg, interner)
	if got := env.Lookup(line); got.String() != "String" {
		t.Fatalf("got %s, want String (ReadFrom always binds String)", got)
	}
}

func TestInferRepeat_BindsElementType(t *testing.T) {
	interner := intern.New()
	reg := discovery.New()
	xs := interner.Intern("xs")
	v := interner.Intern("v")

	stmts := []ast.Stmt{
		&ast.Let{Var: xs, Value: &ast.ListLit{Elements: []ast.Expr{&ast.IntLit{Value: 1}, &ast.IntLit{Value: 2}}}},
		&ast.Repeat{Var: v, Iterable: &ast.Ident{Name: xs}},
	}
	env, _ := InferProgram(stmts, reg, interner)
	if got := env.Lookup(v); got.String() != "Int" {
		t.Fatalf("got %s, want Int (Repeat binds the sequence's element type)", got)
	}
}

func TestInferPop_BindsElementType(t *testing.T) {
	interner := intern.New()
	reg := discovery.New()
	xs := interner.Intern("xs")
	v := interner.Intern("v")

	stmts := []ast.Stmt{
		&ast.Let{Var: xs, Value: &ast.ListLit{Elements: []ast.Expr{&ast.StringLit{Value: "a"}}}},
		&ast.Pop{Var: v, Collection: &ast.Ident{Name: xs}},
	}
	env, _ := InferProgram(stmts, reg, interner)
	if got := env.Lookup(v); got.String() != "String" {
		t.Fatalf("got %s, want String", got)
	}
}

func TestInferCall_SignatureReturnType(t *testing.T) {
	interner := intern.New()
	reg := discovery.New()
	double := interner.Intern("double")
	n := interner.Intern("n")
	result := interner.Intern("result")

	fn := &ast.FunctionDef{
		Name:       double,
		Params:     []ast.Param{{Name: n, TypeName: "Int"}},
		ReturnType: "Int",
		Body: []ast.Stmt{
			&ast.Return{Value: &ast.Ident{Name: n}},
		},
	}
	call := &ast.Let{Var: result, Value: &ast.CallExpr{Callee: double, Args: []ast.Expr{&ast.IntLit{Value: 21}}}}

	env, diags := InferProgram([]ast.Stmt{fn, call}, reg, interner)
	if !diags.Empty() {
		t.Fatalf("unexpected diagnostics: %v", diags.Error())
	}
	if got := env.Lookup(result); got.String() != "Int" {
		t.Fatalf("got %s, want Int", got)
	}
}

func TestInferCall_NativeAbsPropagatesFirstArgType(t *testing.T) {
	interner := intern.New()
	reg := discovery.New()
	abs := interner.Intern("abs")
	result := interner.Intern("result")

	stmts := []ast.Stmt{
		&ast.Let{Var: result, Value: &ast.CallExpr{Callee: abs, Args: []ast.Expr{&ast.FloatLit{Value: -3.5}}}},
	}
	env, _ := InferProgram(stmts, reg, interner)
	if got := env.Lookup(result); got.String() != "Float" {
		t.Fatalf("got %s, want Float (abs propagates its argument's type)", got)
	}
}

func TestInferCall_NativeSqrtIsFloat(t *testing.T) {
	interner := intern.New()
	reg := discovery.New()
	sqrt := interner.Intern("sqrt")
	result := interner.Intern("result")

	stmts := []ast.Stmt{
		&ast.Let{Var: result, Value: &ast.CallExpr{Callee: sqrt, Args: []ast.Expr{&ast.IntLit{Value: 4}}}},
	}
	env, _ := InferProgram(stmts, reg, interner)
	if got := env.Lookup(result); got.String() != "Float" {
		t.Fatalf("got %s, want Float", got)
	}
}

func TestInferFieldExpr_StructFieldType(t *testing.T) {
	interner := intern.New()
	reg := discovery.New()
	reg.Structs["Point"] = &discovery.StructDef{
		Name: "Point",
		Fields: []discovery.Field{
			{Name: "x", Type: typesystem.Int},
			{Name: "y", Type: typesystem.Int},
		},
	}
	p := interner.Intern("p")
	x := interner.Intern("x")
	result := interner.Intern("result")

	stmts := []ast.Stmt{
		&ast.Let{Var: p, Annotation: "Point", Value: &ast.Ident{Name: p}},
		&ast.Let{Var: result, Value: &ast.FieldExpr{Object: &ast.Ident{Name: p}, Field: x}},
	}
	env, _ := InferProgram(stmts, reg, interner)
	if got := env.Lookup(result); got.String() != "Int" {
		t.Fatalf("got %s, want Int", got)
	}
}

func TestTypeEnvLookup_DefaultsToUnknown(t *testing.T) {
	env := NewTypeEnv()
	if got := env.Lookup(intern.Symbol(999)); got.String() != "Unknown" {
		t.Fatalf("got %s, want Unknown for an unbound variable", got)
	}
}

package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"logaffeine/internal/ast"
	"logaffeine/internal/intern"
)

// exprText renders e as Rust expression text. It never fails: an
// unresolvable callee becomes a compile_error! invocation rather than an
// error return (spec.md §4.4 "Failure semantics").
func (g *Generator) exprText(e ast.Expr) string {
	if e == nil {
		return ""
	}
	switch n := e.(type) {
	case *ast.Ident:
		return g.resolve(n.Name)
	case *ast.IntLit:
		return strconv.FormatInt(n.Value, 10)
	case *ast.FloatLit:
		return strconv.FormatFloat(n.Value, 'g', -1, 64)
	case *ast.StringLit:
		return strconv.Quote(n.Value)
	case *ast.BoolLit:
		if n.Value {
			return "true"
		}
		return "false"
	case *ast.ListLit:
		var parts []string
		for _, el := range n.Elements {
			parts = append(parts, g.exprText(el))
		}
		return "vec![" + strings.Join(parts, ", ") + "]"
	case *ast.MapLit:
		var parts []string
		for _, entry := range n.Entries {
			parts = append(parts, fmt.Sprintf("(%s, %s)", g.exprText(entry.Key), g.exprText(entry.Value)))
		}
		return "std::collections::HashMap::from([" + strings.Join(parts, ", ") + "])"
	case *ast.BinExpr:
		return g.binExprText(n)
	case *ast.UnaryExpr:
		return g.unaryExprText(n)
	case *ast.IndexExpr:
		return fmt.Sprintf("%s[(%s - 1) as usize]", g.exprText(n.Collection), g.exprText(n.Index))
	case *ast.FieldExpr:
		return fmt.Sprintf("%s.%s", g.exprText(n.Object), g.resolve(n.Field))
	case *ast.CallExpr:
		return g.callExprText(n)
	}
	return "_"
}

var binOpRust = map[string]string{
	"and":    "&&",
	"or":     "||",
	"equals": "==",
	"is":     "==",
	"minus":  "-",
	"times":  "*",
	"modulo": "%",
}

func (g *Generator) binExprText(n *ast.BinExpr) string {
	left := g.exprText(n.Left)
	right := g.exprText(n.Right)
	switch n.Op {
	case "plus":
		if g.isStringExpr(n.Left) || g.isStringExpr(n.Right) {
			return fmt.Sprintf("format!(\"{}{}\", %s, %s)", left, right)
		}
		return fmt.Sprintf("(%s + %s)", left, right)
	case "divided":
		return fmt.Sprintf("(%s / %s)", left, right)
	}
	if op, ok := binOpRust[n.Op]; ok {
		return fmt.Sprintf("(%s %s %s)", left, op, right)
	}
	return fmt.Sprintf("(%s /* %s */ %s)", left, n.Op, right)
}

func (g *Generator) unaryExprText(n *ast.UnaryExpr) string {
	operand := g.exprText(n.Operand)
	if n.Op == "not" {
		return "!" + operand
	}
	return "-" + operand
}

func (g *Generator) isStringExpr(e ast.Expr) bool {
	if lit, ok := e.(*ast.StringLit); ok {
		_ = lit
		return true
	}
	return false
}

func (g *Generator) callExprText(n *ast.CallExpr) string {
	var args []string
	for i, a := range n.Args {
		args = append(args, g.argTextImpl(n.Callee, i, a))
	}
	name := g.resolve(n.Callee)
	if text, ok := mapNativeCall(name, args); ok {
		return text
	}
	if _, known := g.funcsByName[n.Callee]; known {
		return fmt.Sprintf("%s(%s)", name, strings.Join(args, ", "))
	}
	return unknownNativePath(name)
}

// argTextImpl renders one call argument: by reference if the callee's
// corresponding parameter is readonly or mutable-borrow, by value
// (cloning unless the argument is dead after the enclosing statement)
// otherwise (spec.md §4.4 "Call-site rewrites").
func (g *Generator) argTextImpl(callee intern.Symbol, idx int, arg ast.Expr) string {
	text := g.exprText(arg)

	if g.readonly != nil && g.readonly.IsReadonly(callee, idx) {
		return "&" + text
	}
	if g.borrow != nil && g.borrow.IsMutableBorrow(callee, idx) {
		return "&mut " + text
	}

	id, isIdent := arg.(*ast.Ident)
	if !isIdent {
		return text
	}
	if g.currentLiveness != nil && g.currentStmt != nil && g.currentLiveness.IsLiveAfter(g.currentStmt, id.Name) {
		return text + ".clone()"
	}
	return text
}

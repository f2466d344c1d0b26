// Package prettyprinter dumps statement lists and logical-form expressions
// as an indented tree, for the driver's `dump-ast` command. Grounded on the
// teacher's internal/prettyprinter/tree_printer.go (funxy): a Visitor
// implementation accumulating into a bytes.Buffer with an indent counter,
// one write/writeIndent helper pair, adapted from the teacher's
// statement/expression node set to this pipeline's Stmt/Expr/LogicExpr
// node set.
package prettyprinter

import (
	"bytes"
	"fmt"
	"strings"

	"logaffeine/internal/ast"
	"logaffeine/internal/intern"
)

// TreePrinter renders Stmt, Expr, and LogicExpr trees as indented text.
type TreePrinter struct {
	buf      bytes.Buffer
	indent   int
	interner *intern.Pool
}

// NewTreePrinter creates a printer that resolves interned symbols through
// pool for readable output.
func NewTreePrinter(pool *intern.Pool) *TreePrinter {
	return &TreePrinter{interner: pool}
}

func (p *TreePrinter) String() string { return p.buf.String() }

func (p *TreePrinter) write(s string)   { p.buf.WriteString(s) }
func (p *TreePrinter) writeIndent()     { p.write(strings.Repeat("  ", p.indent)) }
func (p *TreePrinter) sym(s intern.Symbol) string {
	if p.interner == nil {
		return fmt.Sprintf("#%d", s)
	}
	return p.interner.Resolve(s)
}

// PrintProgram renders a top-level imperative statement list, the shape
// ParseProgram returns.
func (p *TreePrinter) PrintProgram(stmts []ast.Stmt) string {
	p.write("Program\n")
	p.indent++
	for _, s := range stmts {
		s.Accept(p)
	}
	p.indent--
	return p.String()
}

// PrintLogic renders a single declarative-mode logical-form expression.
func (p *TreePrinter) PrintLogic(e ast.LogicExpr) string {
	e.Accept(p)
	p.write("\n")
	return p.String()
}

func (p *TreePrinter) printStmts(stmts []ast.Stmt) {
	p.indent++
	for _, s := range stmts {
		s.Accept(p)
	}
	p.indent--
}

// --- StmtVisitor -------------------------------------------------------

func (p *TreePrinter) VisitLet(n *ast.Let) {
	p.writeIndent()
	p.write("Let " + p.sym(n.Var))
	if n.Annotation != "" {
		p.write(": " + n.Annotation)
	}
	p.write(" = ")
	n.Value.Accept(p)
	p.write("\n")
}

func (p *TreePrinter) VisitSet(n *ast.Set) {
	p.writeIndent()
	p.write("Set " + p.sym(n.Var) + " = ")
	n.Value.Accept(p)
	p.write("\n")
}

func (p *TreePrinter) VisitSetIndex(n *ast.SetIndex) {
	p.writeIndent()
	p.write("SetIndex " + p.sym(n.Collection) + "[")
	n.Index.Accept(p)
	p.write("] = ")
	n.Value.Accept(p)
	p.write("\n")
}

func (p *TreePrinter) VisitSetField(n *ast.SetField) {
	p.writeIndent()
	p.write("SetField " + p.sym(n.Object) + "." + p.sym(n.Field) + " = ")
	n.Value.Accept(p)
	p.write("\n")
}

func (p *TreePrinter) VisitReturn(n *ast.Return) {
	p.writeIndent()
	p.write("Return")
	if n.Value != nil {
		p.write(" ")
		n.Value.Accept(p)
	}
	p.write("\n")
}

func (p *TreePrinter) VisitIf(n *ast.If) {
	p.writeIndent()
	p.write("If ")
	n.Cond.Accept(p)
	p.write("\n")
	p.writeIndent()
	p.write("Then:\n")
	p.printStmts(n.Then)
	if n.Otherwise != nil {
		p.writeIndent()
		p.write("Otherwise:\n")
		p.printStmts(n.Otherwise)
	}
}

func (p *TreePrinter) VisitWhile(n *ast.While) {
	p.writeIndent()
	p.write("While ")
	n.Cond.Accept(p)
	p.write("\n")
	p.printStmts(n.Body)
}

func (p *TreePrinter) VisitRepeat(n *ast.Repeat) {
	p.writeIndent()
	p.write("Repeat " + p.sym(n.Var) + " in ")
	n.Iterable.Accept(p)
	p.write("\n")
	p.printStmts(n.Body)
}

func (p *TreePrinter) VisitZone(n *ast.Zone) {
	p.writeIndent()
	p.write("Zone\n")
	p.printStmts(n.Body)
}

func (p *TreePrinter) VisitInspect(n *ast.Inspect) {
	p.writeIndent()
	p.write("Inspect ")
	n.Scrutinee.Accept(p)
	p.write("\n")
	p.indent++
	for _, c := range n.Cases {
		p.writeIndent()
		p.write("Case " + patternString(p, c.Pattern) + ":\n")
		p.printStmts(c.Body)
	}
	p.indent--
}

func patternString(p *TreePrinter, pat ast.Pattern) string {
	switch pt := pat.(type) {
	case ast.WildcardPattern:
		return "_"
	case ast.VarPattern:
		return p.sym(pt.Name)
	case ast.LiteralPattern:
		return "lit"
	case ast.ConstructorPattern:
		parts := make([]string, len(pt.Args))
		for i, a := range pt.Args {
			parts[i] = patternString(p, a)
		}
		return p.sym(pt.Name) + "(" + strings.Join(parts, ", ") + ")"
	default:
		return "?"
	}
}

func (p *TreePrinter) VisitFunctionDef(n *ast.FunctionDef) {
	p.writeIndent()
	p.write("FunctionDef " + p.sym(n.Name) + "\n")
	p.indent++
	p.writeIndent()
	p.write("Params: ")
	for i, param := range n.Params {
		if i > 0 {
			p.write(", ")
		}
		p.write(p.sym(param.Name))
		if param.TypeName != "" {
			p.write(": " + param.TypeName)
		}
	}
	p.write("\n")
	if n.ReturnType != "" {
		p.writeIndent()
		p.write("Return: " + n.ReturnType + "\n")
	}
	p.writeIndent()
	p.write("Body:\n")
	p.printStmts(n.Body)
	p.indent--
}

func (p *TreePrinter) VisitCall(n *ast.Call) {
	p.writeIndent()
	p.write("Call " + p.sym(n.Callee) + "(")
	p.writeArgs(n.Args)
	p.write(")\n")
}

func (p *TreePrinter) VisitGive(n *ast.Give) {
	p.writeIndent()
	p.write("Give ")
	n.Object.Accept(p)
	p.write("\n")
}

func (p *TreePrinter) VisitShow(n *ast.Show) {
	p.writeIndent()
	p.write("Show ")
	n.Object.Accept(p)
	p.write("\n")
}

func (p *TreePrinter) VisitReadFrom(n *ast.ReadFrom) {
	p.writeIndent()
	p.write("ReadFrom " + p.sym(n.Var) + " <- ")
	n.Source.Accept(p)
	p.write("\n")
}

func (p *TreePrinter) VisitCreatePipe(n *ast.CreatePipe) {
	p.writeIndent()
	p.write(fmt.Sprintf("CreatePipe %s: %s\n", p.sym(n.Var), n.Elem))
}

func (p *TreePrinter) VisitReceivePipe(n *ast.ReceivePipe) {
	p.writeIndent()
	verb := "ReceivePipe"
	if n.Try {
		verb = "TryReceivePipe"
	}
	p.write(verb + " " + p.sym(n.Var) + " <- ")
	n.Pipe.Accept(p)
	p.write("\n")
}

func (p *TreePrinter) VisitPop(n *ast.Pop) {
	p.writeIndent()
	p.write("Pop " + p.sym(n.Var) + " <- ")
	n.Collection.Accept(p)
	p.write("\n")
}

func (p *TreePrinter) VisitAwaitMessage(n *ast.AwaitMessage) {
	p.writeIndent()
	p.write("AwaitMessage " + p.sym(n.Var) + "\n")
}

func (p *TreePrinter) printTasks(label string, tasks [][]ast.Stmt) {
	p.writeIndent()
	p.write(label + "\n")
	p.indent++
	for i, task := range tasks {
		p.writeIndent()
		p.write(fmt.Sprintf("Task %d:\n", i))
		p.printStmts(task)
	}
	p.indent--
}

func (p *TreePrinter) VisitConcurrent(n *ast.Concurrent) { p.printTasks("Concurrent", n.Tasks) }
func (p *TreePrinter) VisitParallel(n *ast.Parallel)     { p.printTasks("Parallel", n.Tasks) }

func (p *TreePrinter) VisitAssert(n *ast.Assert) {
	p.writeIndent()
	p.write("Assert ")
	n.Prop.Accept(p)
	p.write("\n")
}

// --- ExprVisitor ---------------------------------------------------------

func (p *TreePrinter) writeArgs(args []ast.Expr) {
	for i, a := range args {
		if i > 0 {
			p.write(", ")
		}
		a.Accept(p)
	}
}

func (p *TreePrinter) VisitIdent(n *ast.Ident)       { p.write(p.sym(n.Name)) }
func (p *TreePrinter) VisitIntLit(n *ast.IntLit)     { p.write(fmt.Sprintf("%d", n.Value)) }
func (p *TreePrinter) VisitFloatLit(n *ast.FloatLit) { p.write(fmt.Sprintf("%g", n.Value)) }
func (p *TreePrinter) VisitStringLit(n *ast.StringLit) {
	p.write(fmt.Sprintf("%q", n.Value))
}
func (p *TreePrinter) VisitBoolLit(n *ast.BoolLit) { p.write(fmt.Sprintf("%t", n.Value)) }

func (p *TreePrinter) VisitListLit(n *ast.ListLit) {
	p.write("[")
	p.writeArgs(n.Elements)
	p.write("]")
}

func (p *TreePrinter) VisitMapLit(n *ast.MapLit) {
	p.write("{")
	for i, e := range n.Entries {
		if i > 0 {
			p.write(", ")
		}
		e.Key.Accept(p)
		p.write(": ")
		e.Value.Accept(p)
	}
	p.write("}")
}

func (p *TreePrinter) VisitBinExpr(n *ast.BinExpr) {
	p.write("(")
	n.Left.Accept(p)
	p.write(" " + n.Op + " ")
	n.Right.Accept(p)
	p.write(")")
}

func (p *TreePrinter) VisitUnaryExpr(n *ast.UnaryExpr) {
	p.write("(" + n.Op + " ")
	n.Operand.Accept(p)
	p.write(")")
}

func (p *TreePrinter) VisitIndexExpr(n *ast.IndexExpr) {
	p.write("item ")
	n.Index.Accept(p)
	p.write(" of ")
	n.Collection.Accept(p)
}

func (p *TreePrinter) VisitFieldExpr(n *ast.FieldExpr) {
	n.Object.Accept(p)
	p.write("." + p.sym(n.Field))
}

func (p *TreePrinter) VisitCallExpr(n *ast.CallExpr) {
	p.write(p.sym(n.Callee) + "(")
	p.writeArgs(n.Args)
	p.write(")")
}

// --- LogicVisitor --------------------------------------------------------

func (p *TreePrinter) VisitAtom(n *ast.Atom)     { p.write(p.sym(n.Name)) }
func (p *TreePrinter) VisitVariable(n *ast.Variable) { p.write(p.sym(n.Name)) }

func (p *TreePrinter) VisitPredicate(n *ast.Predicate) {
	p.write(p.sym(n.Name) + "(")
	for i, a := range n.Args {
		if i > 0 {
			p.write(", ")
		}
		a.Accept(p)
	}
	p.write(")")
}

func (p *TreePrinter) VisitBinaryOp(n *ast.BinaryOp) {
	p.write("(")
	n.Left.Accept(p)
	p.write(" " + n.Op + " ")
	n.Right.Accept(p)
	p.write(")")
}

func (p *TreePrinter) VisitUnaryOp(n *ast.UnaryOp) {
	p.write("(" + n.Op + " ")
	n.Operand.Accept(p)
	p.write(")")
}

func (p *TreePrinter) VisitIdentity(n *ast.Identity) {
	p.write("(")
	n.Left.Accept(p)
	p.write(" = ")
	n.Right.Accept(p)
	p.write(")")
}

func (p *TreePrinter) VisitQuantifier(n *ast.Quantifier) {
	p.write(fmt.Sprintf("Quant[%d](%s, ", n.Kind, p.sym(n.Bound.Name)))
	n.Body.Accept(p)
	p.write(")")
}

func (p *TreePrinter) VisitModal(n *ast.Modal) {
	p.write("Modal[" + string(n.Vector) + "](")
	n.Operand.Accept(p)
	p.write(")")
}

func (p *TreePrinter) VisitTemporal(n *ast.Temporal) {
	p.write("Temporal[" + string(n.Operator) + "](")
	n.Body.Accept(p)
	p.write(")")
}

func (p *TreePrinter) VisitAspectual(n *ast.Aspectual) {
	p.write("Aspect[" + string(n.Operator) + "](")
	n.Body.Accept(p)
	p.write(")")
}

func (p *TreePrinter) VisitLambda(n *ast.Lambda) {
	p.write("Lambda(" + p.sym(n.Bound.Name) + ", ")
	n.Body.Accept(p)
	p.write(")")
}

func (p *TreePrinter) VisitFocus(n *ast.Focus) {
	p.write("Focus(")
	n.Operand.Accept(p)
	p.write(")")
}

func (p *TreePrinter) VisitMetaphor(n *ast.Metaphor) {
	p.write("Metaphor(")
	n.Source.Accept(p)
	p.write(" as ")
	n.Target.Accept(p)
	p.write(")")
}

func (p *TreePrinter) VisitQuestion(n *ast.Question) {
	p.write("Question(")
	n.Body.Accept(p)
	p.write(")")
}

func (p *TreePrinter) VisitNeoDavidsonianEvent(n *ast.NeoDavidsonianEvent) {
	p.write("Event[" + p.sym(n.Verb) + "](")
	for i, r := range n.Roles {
		if i > 0 {
			p.write(", ")
		}
		p.write(string(r.Role) + "=")
		r.Term.Accept(p)
	}
	p.write(")")
}

func (p *TreePrinter) VisitSpeechAct(n *ast.SpeechAct) {
	p.write("SpeechAct[" + string(n.Kind) + "](")
	n.Body.Accept(p)
	p.write(")")
}

func (p *TreePrinter) VisitSuperlative(n *ast.Superlative) {
	verb := "most"
	if !n.Most {
		verb = "least"
	}
	p.write("Superlative[" + verb + " " + p.sym(n.Adjective) + "](")
	n.ComparisonSet.Accept(p)
	p.write(")")
}

func (p *TreePrinter) VisitTemporalAnchor(n *ast.TemporalAnchor) {
	p.write("Anchor[" + n.Anchor + "](")
	n.Body.Accept(p)
	p.write(")")
}

func (p *TreePrinter) VisitDefiniteDescription(n *ast.DefiniteDescription) {
	p.write("The(" + p.sym(n.Predicate) + ", " + p.sym(n.Bound.Name) + ")")
}

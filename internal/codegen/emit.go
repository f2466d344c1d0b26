package codegen

import (
	"fmt"
	"strings"

	"logaffeine/internal/ast"
	"logaffeine/internal/discovery"
)

// emitStmt walks stmts from start, consulting the peephole catalog at
// every statement boundary before falling through to emitOneStmt
// (spec.md §4.4 "Traversal": peephole rules are tried first, in order,
// at every statement site).
func (g *Generator) emitStmt(stmts []ast.Stmt, start int) {
	for i := start; i < len(stmts); i++ {
		if text, n, ok := tryPeephole(g, stmts, i); ok {
			for _, line := range strings.Split(text, "\n") {
				g.writeLine(line)
			}
			i += n - 1
			continue
		}
		g.emitOneStmt(stmts[i])
	}
}

// emitOneStmt emits a single statement with no peephole lookahead,
// recursing into emitStmt for any nested body (spec.md §4.4 "Traversal").
func (g *Generator) emitOneStmt(s ast.Stmt) {
	g.currentStmt = s
	switch n := s.(type) {
	case *ast.Let:
		// Always declared mut: Set/SetIndex/SetField may reassign it later
		// in the same scope, and an unused mut is a warning, not an error.
		g.writeLine(fmt.Sprintf("let mut %s = %s;", g.resolve(n.Var), g.exprText(n.Value)))
	case *ast.Set:
		g.writeLine(fmt.Sprintf("%s = %s;", g.resolve(n.Var), g.exprText(n.Value)))
	case *ast.SetIndex:
		g.writeLine(fmt.Sprintf("%s[(%s - 1) as usize] = %s;", g.resolve(n.Collection), g.exprText(n.Index), g.exprText(n.Value)))
	case *ast.SetField:
		g.writeLine(fmt.Sprintf("%s.%s = %s;", g.resolve(n.Object), g.resolve(n.Field), g.exprText(n.Value)))
	case *ast.Return:
		if n.Value == nil {
			g.writeLine("return;")
			return
		}
		g.writeLine(fmt.Sprintf("return %s;", g.exprText(n.Value)))
	case *ast.If:
		g.writeLine(fmt.Sprintf("if %s {", g.exprText(n.Cond)))
		g.indent++
		g.emitStmt(n.Then, 0)
		g.indent--
		if len(n.Otherwise) > 0 {
			g.writeLine("} else {")
			g.indent++
			g.emitStmt(n.Otherwise, 0)
			g.indent--
		}
		g.writeLine("}")
	case *ast.While:
		g.writeLine(fmt.Sprintf("while %s {", g.exprText(n.Cond)))
		g.indent++
		g.emitStmt(n.Body, 0)
		g.indent--
		g.writeLine("}")
	case *ast.Repeat:
		g.writeLine(fmt.Sprintf("for %s in %s {", g.resolve(n.Var), g.repeatIterText(n.Iterable)))
		g.indent++
		g.emitStmt(n.Body, 0)
		g.indent--
		g.writeLine("}")
	case *ast.Zone:
		g.writeLine("{")
		g.indent++
		g.emitStmt(n.Body, 0)
		g.indent--
		g.writeLine("}")
	case *ast.Inspect:
		g.writeLine(fmt.Sprintf("match %s {", g.exprText(n.Scrutinee)))
		g.indent++
		for _, cs := range n.Cases {
			g.writeLine(g.patternText(cs.Pattern) + " => {")
			g.indent++
			g.emitStmt(cs.Body, 0)
			g.indent--
			g.writeLine("}")
		}
		g.indent--
		g.writeLine("}")
	case *ast.FunctionDef:
		// A nested definition: Generate emits only the top-level
		// FunctionDefs up front, so one met here (inside some enclosing
		// body) is a closure-shaped local function. Emit it inline once,
		// guarded against repeats.
		if !g.emittedFuncs[n.Name] {
			g.emitFunction(n, g.allFuncs)
		}
	case *ast.Call:
		var args []string
		for i, a := range n.Args {
			args = append(args, g.argTextImpl(n.Callee, i, a))
		}
		name := g.resolve(n.Callee)
		if text, ok := mapNativeCall(name, args); ok {
			g.writeLine(text + ";")
			return
		}
		g.writeLine(fmt.Sprintf("%s(%s);", name, strings.Join(args, ", ")))
	case *ast.Give:
		g.writeLine(g.exprText(n.Object) + ";")
	case *ast.Show:
		g.writeLine(fmt.Sprintf("&%s;", g.exprText(n.Object)))
	case *ast.ReadFrom:
		g.writeLine(fmt.Sprintf("let mut %s = logicaffeine_system::read_from(%s);", g.resolve(n.Var), g.exprText(n.Source)))
	case *ast.CreatePipe:
		g.writeLine(fmt.Sprintf("let (%s_tx, mut %s) = tokio::sync::mpsc::unbounded_channel();", g.resolve(n.Var), g.resolve(n.Var)))
	case *ast.ReceivePipe:
		if n.Try {
			g.writeLine(fmt.Sprintf("let %s = %s.try_recv().ok();", g.resolve(n.Var), g.exprText(n.Pipe)))
			return
		}
		g.writeLine(fmt.Sprintf("let %s = %s.recv().await;", g.resolve(n.Var), g.exprText(n.Pipe)))
	case *ast.Pop:
		g.writeLine(fmt.Sprintf("let %s = %s.pop();", g.resolve(n.Var), g.exprText(n.Collection)))
	case *ast.AwaitMessage:
		g.writeLine(fmt.Sprintf("let %s = logicaffeine_system::await_message().await;", g.resolve(n.Var)))
	case *ast.Concurrent:
		g.emitTaskSet(n.Tasks, "tokio::join!")
	case *ast.Parallel:
		g.emitTaskSet(n.Tasks, "std::thread::scope")
	case *ast.Assert:
		g.writeLine(fmt.Sprintf("assert!(%s);", g.logicExprText(n.Prop)))
	}
}

// emitTaskSet emits each task body wrapped in its own closure/block and
// joins them with the given combinator (spec.md §5 "Concurrent/Parallel").
func (g *Generator) emitTaskSet(tasks [][]ast.Stmt, combinator string) {
	if combinator == "tokio::join!" {
		g.writeLine("tokio::join!(")
		g.indent++
		for _, t := range tasks {
			g.writeLine("async {")
			g.indent++
			g.emitStmt(t, 0)
			g.indent--
			g.writeLine("},")
		}
		g.indent--
		g.writeLine(");")
		return
	}
	g.writeLine("std::thread::scope(|scope| {")
	g.indent++
	for _, t := range tasks {
		g.writeLine("scope.spawn(|| {")
		g.indent++
		g.emitStmt(t, 0)
		g.indent--
		g.writeLine("});")
	}
	g.indent--
	g.writeLine("});")
}

// repeatIterText renders a Repeat's source expression, unrolling a
// `range(a, b)` call to the idiomatic Rust range syntax rather than
// leaving it as a function call (peepholeRangeLoop handles the common
// standalone case; this is the fallback for everything else).
func (g *Generator) repeatIterText(e ast.Expr) string {
	if call, ok := isRangeCall(g, e); ok && len(call.Args) == 2 {
		return fmt.Sprintf("%s..%s", g.exprText(call.Args[0]), g.exprText(call.Args[1]))
	}
	return fmt.Sprintf("%s.iter().cloned()", g.exprText(e))
}

func (g *Generator) patternText(p ast.Pattern) string {
	switch n := p.(type) {
	case ast.WildcardPattern:
		return "_"
	case ast.VarPattern:
		return g.resolve(n.Name)
	case ast.LiteralPattern:
		return g.exprText(n.Value)
	case ast.ConstructorPattern:
		if len(n.Args) == 0 {
			return g.resolve(n.Name)
		}
		var sub []string
		for _, a := range n.Args {
			sub = append(sub, g.patternText(a))
		}
		return fmt.Sprintf("%s(%s)", g.resolve(n.Name), strings.Join(sub, ", "))
	}
	return "_"
}

// logicExprText lowers an Assert statement's embedded logical-form
// expression to a Rust boolean expression. It covers the connective and
// predicate-application shapes codegen needs to emit a runtime
// assert!(); the kernel package, not this one, is where a logical form
// receives its full proof-theoretic treatment (spec.md §4.4 only names
// Assert among the statements this package lowers, not a general FOL
// evaluator).
func (g *Generator) logicExprText(e ast.LogicExpr) string {
	switch n := e.(type) {
	case *ast.Atom:
		return g.resolve(n.Name)
	case *ast.Variable:
		return g.resolve(n.Name)
	case *ast.Predicate:
		var args []string
		for _, a := range n.Args {
			args = append(args, g.logicExprText(a))
		}
		return fmt.Sprintf("%s(%s)", g.resolve(n.Name), strings.Join(args, ", "))
	case *ast.BinaryOp:
		left := g.logicExprText(n.Left)
		right := g.logicExprText(n.Right)
		switch n.Op {
		case "and":
			return fmt.Sprintf("(%s && %s)", left, right)
		case "or":
			return fmt.Sprintf("(%s || %s)", left, right)
		case "implies":
			return fmt.Sprintf("(!(%s) || (%s))", left, right)
		case "equals":
			return fmt.Sprintf("(%s == %s)", left, right)
		}
		return fmt.Sprintf("(%s /* %s */ %s)", left, n.Op, right)
	case *ast.UnaryOp:
		return fmt.Sprintf("!(%s)", g.logicExprText(n.Operand))
	case *ast.Identity:
		return fmt.Sprintf("(%s == %s)", g.logicExprText(n.Left), g.logicExprText(n.Right))
	}
	return "true /* unverified assertion form */"
}

// emitPolicies renders each type's predicates and capabilities as an impl
// block of `fn <name>(&self) -> bool` methods (spec.md §4.4 "Policy-driven
// emission").
func (g *Generator) emitPolicies() {
	names := make(map[string]bool)
	for name := range g.policies.Predicates {
		names[name] = true
	}
	for name := range g.policies.Capabilities {
		names[name] = true
	}
	if len(names) == 0 {
		return
	}
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sortStrings(sorted)
	for _, typeName := range sorted {
		g.writeLine(fmt.Sprintf("impl %s {", typeName))
		g.indent++
		for _, pred := range g.policies.Predicates[typeName] {
			g.writeLine(fmt.Sprintf("pub fn %s(&self) -> bool {", pred.Name))
			g.indent++
			g.writeLine(g.policyCondText(pred.Condition, "self"))
			g.indent--
			g.writeLine("}")
		}
		for _, cap := range g.policies.Capabilities[typeName] {
			g.writeLine(fmt.Sprintf("pub fn can_%s(&self, object: &%s) -> bool {", cap.Action, cap.ObjectType))
			g.indent++
			g.writeLine(g.policyCondText(cap.Condition, "self"))
			g.indent--
			g.writeLine("}")
		}
		g.indent--
		g.writeLine("}")
	}
}

// policyCondText renders one policy condition node as a boolean Rust
// expression over receiver.
func (g *Generator) policyCondText(c discovery.PolicyCond, receiver string) string {
	switch n := c.(type) {
	case discovery.FieldEquals:
		return fmt.Sprintf("%s.%s == %s", receiver, n.Field, goLitText(n.Value))
	case discovery.FieldBool:
		return fmt.Sprintf("%s.%s", receiver, n.Field)
	case discovery.PredicateCall:
		return fmt.Sprintf("%s.%s()", receiver, n.Name)
	case discovery.ObjectFieldEquals:
		return fmt.Sprintf("%s.%s == object.%s", receiver, n.SubjectField, n.ObjectField)
	case discovery.And:
		return fmt.Sprintf("(%s && %s)", g.policyCondText(n.Left, receiver), g.policyCondText(n.Right, receiver))
	case discovery.Or:
		return fmt.Sprintf("(%s || %s)", g.policyCondText(n.Left, receiver), g.policyCondText(n.Right, receiver))
	}
	return "true"
}

func goLitText(v any) string {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%q", val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return fmt.Sprintf("%d", val)
	case int64:
		return fmt.Sprintf("%d", val)
	case float64:
		return fmt.Sprintf("%g", val)
	}
	return fmt.Sprintf("%v", v)
}

func sortStrings(ss []string) {
	for i := 1; i < len(ss); i++ {
		for j := i; j > 0 && ss[j-1] > ss[j]; j-- {
			ss[j-1], ss[j] = ss[j], ss[j-1]
		}
	}
}

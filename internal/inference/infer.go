package inference

import (
	"logaffeine/internal/ast"
	"logaffeine/internal/config"
	"logaffeine/internal/diagnostics"
	"logaffeine/internal/discovery"
	"logaffeine/internal/intern"
	"logaffeine/internal/typesystem"
)

// checker carries the mutable state of one InferProgram run: the
// unification table, the discovery registry (for struct/enum field and
// name lookups), the interner (to turn symbols back into surface names at
// the handful of sites that need one), and the inference-time variable
// map (which, unlike TypeEnv.Vars, may still hold unresolved TVars until
// the final zonk pass).
type checker struct {
	table    *typesystem.UnionTable
	registry *discovery.Registry
	interner *intern.Pool
	vars     map[intern.Symbol]typesystem.Type
	funcs    map[intern.Symbol]typesystem.Func
	retStack []typesystem.Type
	diags    diagnostics.Bag
}

// InferProgram runs the preregister-then-check pipeline of spec.md §4.2
// over a whole program and returns the resulting type environment plus
// any unification diagnostics collected along the way (inference never
// halts on error; an unresolved site falls back to Unknown per spec.md
// §4.2 "Failure semantics").
func InferProgram(stmts []ast.Stmt, registry *discovery.Registry, interner *intern.Pool) (*TypeEnv, diagnostics.Bag) {
	c := &checker{
		table:    typesystem.NewUnionTable(),
		registry: registry,
		interner: interner,
		vars:     make(map[intern.Symbol]typesystem.Type),
		funcs:    make(map[intern.Symbol]typesystem.Func),
	}
	c.preregister(stmts)
	for _, s := range stmts {
		c.checkStmt(s)
	}

	env := NewTypeEnv()
	for sym, t := range c.vars {
		env.Vars[sym] = c.table.Zonk(t)
	}
	for sym, f := range c.funcs {
		env.Funcs[sym] = typesystem.Func{Return: c.table.Zonk(f.Return), Params: zonkAll(c.table, f.Params)}
	}
	return env, c.diags
}

func zonkAll(t *typesystem.UnionTable, ts []typesystem.Type) []typesystem.Type {
	out := make([]typesystem.Type, len(ts))
	for i, x := range ts {
		out[i] = t.Zonk(x)
	}
	return out
}

// typeFromName resolves a surface type name (as it appears in a Param,
// Let annotation, or ReturnType) to a typesystem.Type: built-in
// constructors first, then the discovery registry for struct/enum names.
// An unannotated ("") name gives Unknown; any other unrecognized name
// gives UserDefined with that name.
func typeFromName(name string, reg *discovery.Registry) typesystem.Type {
	switch name {
	case "":
		return typesystem.Unknown{}
	case "Int":
		return typesystem.Int
	case "Nat":
		return typesystem.Nat
	case "Float":
		return typesystem.Float
	case "Bool":
		return typesystem.Bool
	case "Char":
		return typesystem.Char
	case "Byte":
		return typesystem.Byte
	case "String":
		return typesystem.String
	case "Unit":
		return typesystem.Unit
	case "Duration":
		return typesystem.Duration
	case "Date":
		return typesystem.Date
	case "Moment":
		return typesystem.Moment
	case "Time":
		return typesystem.Time
	case "Span":
		return typesystem.Span
	}
	if reg != nil {
		if t := reg.Lookup(name); t != (typesystem.Unknown{}) {
			return t
		}
	}
	return typesystem.UserDefined{Name: name}
}

// preregister installs every top-level function signature before any
// body is checked, so mutually- and self-recursive calls resolve
// (spec.md §4.2 "preregister phase installs every top-level function
// signature before any body is checked").
func (c *checker) preregister(stmts []ast.Stmt) {
	for _, s := range stmts {
		if fn, ok := s.(*ast.FunctionDef); ok {
			c.registerSignature(fn)
		}
	}
}

func (c *checker) registerSignature(fn *ast.FunctionDef) {
	params := make([]typesystem.Type, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = typeFromName(p.TypeName, c.registry)
	}
	ret := typeFromName(fn.ReturnType, c.registry)
	c.funcs[fn.Name] = typesystem.Func{Params: params, Return: ret}
}

func (c *checker) checkStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		c.checkStmt(s)
	}
}

func (c *checker) checkStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Let:
		val := c.checkExpr(n.Value)
		if n.Annotation != "" {
			bound := typeFromName(n.Annotation, c.registry)
			if err := c.table.Unify(bound, val); err != nil {
				c.diags.Add(diagnostics.New(diagnostics.PhaseType, diagnostics.ErrUnification,
					diagnostics.Span{Start: n.Token.Span.Start, End: n.Token.Span.End}, bound.String(), val.String()))
			}
			c.vars[n.Var] = bound
		} else {
			c.vars[n.Var] = val
		}
	case *ast.Set:
		val := c.checkExpr(n.Value)
		if existing, ok := c.vars[n.Var]; ok {
			c.table.Unify(existing, val)
		} else {
			c.vars[n.Var] = val
		}
	case *ast.SetIndex:
		c.checkExpr(n.Index)
		c.checkExpr(n.Value)
	case *ast.SetField:
		c.checkExpr(n.Value)
	case *ast.Return:
		if n.Value != nil {
			t := c.checkExpr(n.Value)
			if len(c.retStack) > 0 {
				c.table.Unify(c.retStack[len(c.retStack)-1], t)
			}
		}
	case *ast.If:
		c.checkExpr(n.Cond)
		c.checkStmts(n.Then)
		c.checkStmts(n.Otherwise)
	case *ast.While:
		c.checkExpr(n.Cond)
		c.checkStmts(n.Body)
	case *ast.Repeat:
		iter := c.checkExpr(n.Iterable)
		c.vars[n.Var] = c.elementOf(iter)
		c.checkStmts(n.Body)
	case *ast.Zone:
		c.checkStmts(n.Body)
	case *ast.Inspect:
		c.checkExpr(n.Scrutinee)
		for _, cs := range n.Cases {
			c.bindPattern(cs.Pattern)
			c.checkStmts(cs.Body)
		}
	case *ast.FunctionDef:
		if _, ok := c.funcs[n.Name]; !ok {
			c.registerSignature(n)
		}
		sig := c.funcs[n.Name]
		for i, p := range n.Params {
			if i < len(sig.Params) {
				c.vars[p.Name] = sig.Params[i]
			}
		}
		c.retStack = append(c.retStack, sig.Return)
		c.checkStmts(n.Body)
		c.retStack = c.retStack[:len(c.retStack)-1]
	case *ast.Call:
		c.checkCallArgs(n.Callee, n.Args)
	case *ast.Give:
		c.checkExpr(n.Object)
	case *ast.Show:
		c.checkExpr(n.Object)
	case *ast.ReadFrom:
		c.checkExpr(n.Source)
		c.vars[n.Var] = typesystem.String // spec.md §4.2 "ReadFrom: always binds String"
	case *ast.CreatePipe:
		c.vars[n.Var] = typesystem.UserDefined{Name: "Pipe", Args: []typesystem.Type{typeFromName(n.Elem, c.registry)}}
	case *ast.ReceivePipe:
		pipeT := c.checkExpr(n.Pipe)
		c.vars[n.Var] = c.elementOf(pipeT)
	case *ast.Pop:
		collT := c.checkExpr(n.Collection)
		c.vars[n.Var] = c.elementOf(collT)
	case *ast.AwaitMessage:
		c.vars[n.Var] = typesystem.Unknown{}
	case *ast.Concurrent:
		for _, task := range n.Tasks {
			c.checkStmts(task)
		}
	case *ast.Parallel:
		for _, task := range n.Tasks {
			c.checkStmts(task)
		}
	case *ast.Assert:
		// Prop is a LogicExpr, not an imperative Expr; it carries its own
		// logical-form typing discipline and isn't part of TypeEnv.
	}
}

func (c *checker) bindPattern(p ast.Pattern) {
	switch pat := p.(type) {
	case ast.VarPattern:
		c.vars[pat.Name] = typesystem.Unknown{}
	case ast.ConstructorPattern:
		for _, sub := range pat.Args {
			c.bindPattern(sub)
		}
	}
}

// elementOf recovers the element type a Repeat/Pop/ReceivePipe binds: the
// element of a Seq/Set/Pipe, or the key of a Map (spec.md §4.2 "Repeat in
// iterable: the pattern binds the element type ... key of map").
func (c *checker) elementOf(t typesystem.Type) typesystem.Type {
	switch v := c.table.Zonk(t).(type) {
	case typesystem.Seq:
		return v.Elem
	case typesystem.SetT:
		return v.Elem
	case typesystem.Map:
		return v.Key
	case typesystem.UserDefined:
		if v.Name == "Pipe" && len(v.Args) == 1 {
			return v.Args[0]
		}
	}
	return typesystem.Unknown{}
}

func (c *checker) checkCallArgs(callee intern.Symbol, args []ast.Expr) typesystem.Type {
	argTypes := make([]typesystem.Type, len(args))
	for i, a := range args {
		argTypes[i] = c.checkExpr(a)
	}
	if sig, ok := c.funcs[callee]; ok {
		for i, pt := range sig.Params {
			if i < len(argTypes) {
				c.table.Unify(pt, argTypes[i])
			}
		}
		return sig.Return
	}
	name := c.interner.Resolve(callee)
	switch name {
	case config.NativeSqrt, config.NativeFloor:
		return typesystem.Float
	case config.NativeParseInt:
		return typesystem.Int
	case config.NativeAbs, config.NativeMin, config.NativeMax:
		if len(argTypes) > 0 {
			return argTypes[0]
		}
		return typesystem.Unknown{}
	}
	return typesystem.Unknown{}
}

// checkExpr elaborates an imperative expression, returning its
// (possibly still-unresolved) inference type and recording any
// unification constraints it entails.
func (c *checker) checkExpr(e ast.Expr) typesystem.Type {
	if e == nil {
		return typesystem.Unknown{}
	}
	switch n := e.(type) {
	case *ast.Ident:
		if t, ok := c.vars[n.Name]; ok {
			return t
		}
		return typesystem.Unknown{}
	case *ast.IntLit:
		return typesystem.Int
	case *ast.FloatLit:
		return typesystem.Float
	case *ast.StringLit:
		return typesystem.String
	case *ast.BoolLit:
		return typesystem.Bool
	case *ast.ListLit:
		elem := typesystem.Type(typesystem.Unknown{})
		for i, el := range n.Elements {
			t := c.checkExpr(el)
			if i == 0 {
				elem = t
			} else {
				c.table.Unify(elem, t)
			}
		}
		return typesystem.Seq{Elem: elem}
	case *ast.MapLit:
		key := typesystem.Type(typesystem.Unknown{})
		val := typesystem.Type(typesystem.Unknown{})
		for i, entry := range n.Entries {
			kt := c.checkExpr(entry.Key)
			vt := c.checkExpr(entry.Value)
			if i == 0 {
				key, val = kt, vt
			} else {
				c.table.Unify(key, kt)
				c.table.Unify(val, vt)
			}
		}
		return typesystem.Map{Key: key, Value: val}
	case *ast.BinExpr:
		left := c.checkExpr(n.Left)
		right := c.checkExpr(n.Right)
		switch n.Op {
		case "and", "or", "equals", "is":
			return typesystem.Bool
		case "plus":
			if isString(c.table.Zonk(left)) || isString(c.table.Zonk(right)) {
				return typesystem.String
			}
			return typesystem.Promote(c.table.Zonk(left), c.table.Zonk(right))
		case "minus", "times", "modulo", "divided":
			return typesystem.Promote(c.table.Zonk(left), c.table.Zonk(right))
		}
		return typesystem.Unknown{}
	case *ast.UnaryExpr:
		operand := c.checkExpr(n.Operand)
		if n.Op == "not" {
			return typesystem.Bool
		}
		return operand
	case *ast.IndexExpr:
		collT := c.checkExpr(n.Collection)
		c.checkExpr(n.Index)
		return c.elementOf(collT)
	case *ast.FieldExpr:
		objT := c.checkExpr(n.Object)
		return c.fieldType(objT, n.Field)
	case *ast.CallExpr:
		return c.checkCallArgs(n.Callee, n.Args)
	}
	return typesystem.Unknown{}
}

func isString(t typesystem.Type) bool {
	c, ok := t.(typesystem.Con)
	return ok && c.Name == "String"
}

func (c *checker) fieldType(objT typesystem.Type, field intern.Symbol) typesystem.Type {
	ud, ok := c.table.Zonk(objT).(typesystem.UserDefined)
	if !ok || c.registry == nil {
		return typesystem.Unknown{}
	}
	sd, ok := c.registry.Structs[ud.Name]
	if !ok {
		return typesystem.Unknown{}
	}
	name := c.interner.Resolve(field)
	for _, f := range sd.Fields {
		if f.Name == name {
			return f.Type
		}
	}
	return typesystem.Unknown{}
}

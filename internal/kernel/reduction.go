package kernel

import "fmt"

var gensymCounter int

func gensym(base string) string {
	gensymCounter++
	return fmt.Sprintf("%s~%d", base, gensymCounter)
}

// freeVars collects the free (named) variables of t.
func freeVars(t Term) map[string]bool {
	out := make(map[string]bool)
	collectFreeVars(t, out)
	return out
}

func collectFreeVars(t Term, out map[string]bool) {
	switch n := t.(type) {
	case Var:
		out[n.Name] = true
	case App:
		collectFreeVars(n.Func, out)
		collectFreeVars(n.Arg, out)
	case Lambda:
		collectFreeVars(n.ParamType, out)
		inner := freeVars(n.Body)
		delete(inner, n.Param)
		for k := range inner {
			out[k] = true
		}
	case Pi:
		collectFreeVars(n.ParamType, out)
		inner := freeVars(n.BodyType)
		delete(inner, n.Param)
		for k := range inner {
			out[k] = true
		}
	case Fix:
		inner := freeVars(n.Body)
		delete(inner, n.Name)
		for k := range inner {
			out[k] = true
		}
	case Match:
		collectFreeVars(n.Discriminant, out)
		collectFreeVars(n.Motive, out)
		for _, c := range n.Cases {
			collectFreeVars(c.Body, out)
		}
	}
}

// Substitute replaces every free occurrence of Var{name} in term with
// replacement, renaming binders that would otherwise capture a free
// variable of replacement (spec.md §9 "capture-avoiding via α-renaming
// on binder clash").
func Substitute(term Term, name string, replacement Term) Term {
	switch t := term.(type) {
	case Var:
		if t.Name == name {
			return replacement
		}
		return t
	case Global, Sort, Lit, Hole:
		return t
	case App:
		return App{Substitute(t.Func, name, replacement), Substitute(t.Arg, name, replacement)}
	case Lambda:
		param, body := renameIfCaptured(t.Param, t.Body, name, replacement)
		return Lambda{param, Substitute(t.ParamType, name, replacement), Substitute(body, name, replacement)}
	case Pi:
		param, body := renameIfCaptured(t.Param, t.BodyType, name, replacement)
		return Pi{param, Substitute(t.ParamType, name, replacement), Substitute(body, name, replacement)}
	case Fix:
		fname, body := renameIfCaptured(t.Name, t.Body, name, replacement)
		return Fix{fname, Substitute(body, name, replacement)}
	case Match:
		cases := make([]Case, len(t.Cases))
		for i, c := range t.Cases {
			cases[i] = Case{Substitute(c.Body, name, replacement)}
		}
		return Match{Substitute(t.Discriminant, name, replacement), Substitute(t.Motive, name, replacement), cases}
	}
	return term
}

// renameIfCaptured alpha-renames a binder (param, body) away from name's
// substitution site when param would otherwise capture a free variable
// of replacement, or shadows name itself (in which case body is returned
// unchanged since the substitution doesn't reach under this binder).
func renameIfCaptured(param string, body Term, name string, replacement Term) (string, Term) {
	if param == name {
		return param, body
	}
	if !freeVars(replacement)[param] {
		return param, body
	}
	fresh := gensym(param)
	return fresh, Substitute(body, param, Var{fresh})
}

// Normalize repeatedly applies reduce_step until a fixed point or fuel
// runs out, matching reduction.rs's normalize (default fuel 10000).
// Normalization fuel exhausted is non-fatal: the current term is returned
// (spec.md §7 "Kernel" errors, diagnostics.ErrKernelFuel documents the
// condition for callers that want to surface it).
func Normalize(ctx *Context, term Term) Term {
	return NormalizeFuel(ctx, term, 10000)
}

func NormalizeFuel(ctx *Context, term Term, fuel int) Term {
	current := term
	for fuel > 0 {
		fuel--
		reduced := reduceStep(ctx, current)
		if Equal(reduced, current) {
			return current
		}
		current = reduced
	}
	return current
}

// reduceStep performs one head-reduction step, reducing under binders
// for full normalization (mirrors reduction.rs's reduce_step exactly:
// primitive arithmetic first, then beta/fix/delta/iota, then descend).
func reduceStep(ctx *Context, term Term) Term {
	switch t := term.(type) {
	case Lit, Sort, Var, Hole:
		return term
	case Global:
		if body, ok := ctx.DefinitionBody(t.Name); ok {
			return body
		}
		return term
	case App:
		if r, ok := tryPrimitiveReduce(t.Func, t.Arg); ok {
			return r
		}
		switch f := t.Func.(type) {
		case Lambda:
			return Substitute(f.Body, f.Param, t.Arg)
		case Fix:
			if isConstructorForm(ctx, t.Arg) {
				unfolded := Substitute(f.Body, f.Name, f)
				return App{unfolded, t.Arg}
			}
			reducedArg := reduceStep(ctx, t.Arg)
			if !Equal(reducedArg, t.Arg) {
				return App{t.Func, reducedArg}
			}
			return term
		default:
			reducedFunc := reduceStep(ctx, t.Func)
			if !Equal(reducedFunc, t.Func) {
				return App{reducedFunc, t.Arg}
			}
			reducedArg := reduceStep(ctx, t.Arg)
			return App{t.Func, reducedArg}
		}
	case Match:
		if idx, args, ok := extractConstructor(ctx, t.Discriminant); ok {
			result := t.Cases[idx].Body
			cur := result
			for _, a := range args {
				cur = App{cur, a}
			}
			return reduceStep(ctx, cur)
		}
		reducedDisc := reduceStep(ctx, t.Discriminant)
		if !Equal(reducedDisc, t.Discriminant) {
			return Match{reducedDisc, t.Motive, t.Cases}
		}
		return term
	case Lambda:
		rpt := reduceStep(ctx, t.ParamType)
		rb := reduceStep(ctx, t.Body)
		if !Equal(rpt, t.ParamType) || !Equal(rb, t.Body) {
			return Lambda{t.Param, rpt, rb}
		}
		return term
	case Pi:
		rpt := reduceStep(ctx, t.ParamType)
		rbt := reduceStep(ctx, t.BodyType)
		if !Equal(rpt, t.ParamType) || !Equal(rbt, t.BodyType) {
			return Pi{t.Param, rpt, rbt}
		}
		return term
	case Fix:
		rb := reduceStep(ctx, t.Body)
		if !Equal(rb, t.Body) {
			return Fix{t.Name, rb}
		}
		return term
	}
	return term
}

func isConstructorForm(ctx *Context, t Term) bool {
	_, _, ok := extractConstructor(ctx, t)
	return ok
}

// extractConstructor walks nested applications to find a Global head and,
// if it names a constructor, returns its declaration index and VALUE
// arguments only (leading type-parameter arguments are skipped), matching
// reduction.rs's extract_constructor/count_type_params.
func extractConstructor(ctx *Context, t Term) (int, []Term, bool) {
	var args []Term
	cur := t
	for {
		app, ok := cur.(App)
		if !ok {
			break
		}
		args = append([]Term{app.Arg}, args...)
		cur = app.Func
	}
	g, ok := cur.(Global)
	if !ok {
		return 0, nil, false
	}
	inductive, ok := ctx.ConstructorInductive(g.Name)
	if !ok {
		return 0, nil, false
	}
	for idx, ctor := range ctx.Constructors(inductive) {
		if ctor.Name != g.Name {
			continue
		}
		numTypeParams := countTypeParams(ctor.Type)
		if numTypeParams < len(args) {
			return idx, args[numTypeParams:], true
		}
		return idx, nil, true
	}
	return 0, nil, false
}

func countTypeParams(ty Term) int {
	count := 0
	cur := ty
	for {
		pi, ok := cur.(Pi)
		if !ok {
			break
		}
		if _, isSort := pi.ParamType.(Sort); !isSort {
			break
		}
		count++
		cur = pi.BodyType
	}
	return count
}

// tryPrimitiveReduce folds fully-applied integer arithmetic: ((op x) y)
// where op in {add,sub,mul,div,mod} and x, y are Int literals. Division
// and modulo by zero leave the term stuck (no panic on Int overflow:
// Go's int64 wraps, matching "inherited from the target" per spec.md §9).
func tryPrimitiveReduce(fn, arg Term) (Term, bool) {
	outer, ok := fn.(App)
	if !ok {
		return nil, false
	}
	op, ok := outer.Func.(Global)
	if !ok {
		return nil, false
	}
	x, ok := outer.Arg.(Lit)
	if !ok || x.Value.Kind != LitInt {
		return nil, false
	}
	y, ok := arg.(Lit)
	if !ok || y.Value.Kind != LitInt {
		return nil, false
	}
	switch op.Name {
	case "add":
		return Lit{IntLit(x.Value.I + y.Value.I)}, true
	case "sub":
		return Lit{IntLit(x.Value.I - y.Value.I)}, true
	case "mul":
		return Lit{IntLit(x.Value.I * y.Value.I)}, true
	case "div":
		if y.Value.I == 0 {
			return nil, false
		}
		return Lit{IntLit(x.Value.I / y.Value.I)}, true
	case "mod":
		if y.Value.I == 0 {
			return nil, false
		}
		return Lit{IntLit(x.Value.I % y.Value.I)}, true
	}
	return nil, false
}

package typesystem

import "fmt"

// Subst maps inference variables to the types they have been bound to.
// Grounded on the teacher's Subst (typesystem/types.go): a plain map
// composed left-to-right, no persistent/union-find structure of its own
// (the union-find lives in UnionTable below).
type Subst map[TVar]Type

// TypeError reports a unification failure between two types, carrying
// both sides in surface form (spec.md §4.2 "Failure semantics").
type TypeError struct {
	Left, Right Type
	Reason      string
}

func (e *TypeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot unify %s with %s: %s", e.Left, e.Right, e.Reason)
	}
	return fmt.Sprintf("cannot unify %s with %s", e.Left, e.Right)
}

// entry is either Root(type) or Link(tvar), per spec.md §3 "Inference
// type": "A unification table maps each tyvar to either Root(type) or
// Link(tyvar) with path compression; union uses rank."
type entry struct {
	isLink bool
	link   TVar
	typ    Type // valid when !isLink; nil means "unbound root"
	rank   int
}

// UnionTable is the unification table: Fresh mints variables, Unify adds
// constraints, Resolve/Zonk read them back out.
type UnionTable struct {
	entries map[TVar]*entry
	next    int
}

// NewUnionTable returns an empty table.
func NewUnionTable() *UnionTable {
	return &UnionTable{entries: make(map[TVar]*entry)}
}

// Fresh mints a new, unbound type variable.
func (u *UnionTable) Fresh() TVar {
	v := TVar{ID: u.next}
	u.next++
	u.entries[v] = &entry{}
	return v
}

func (u *UnionTable) get(v TVar) *entry {
	e, ok := u.entries[v]
	if !ok {
		e = &entry{}
		u.entries[v] = e
	}
	return e
}

// find follows Link chains to the representative variable, compressing
// the path as it goes.
func (u *UnionTable) find(v TVar) TVar {
	e := u.get(v)
	if !e.isLink {
		return v
	}
	root := u.find(e.link)
	if root != e.link {
		e.link = root // path compression
	}
	return root
}

// Resolve returns the current inference type bound to v, following Link
// chains with path compression, or v itself if still unbound.
func (u *UnionTable) Resolve(v TVar) Type {
	root := u.find(v)
	e := u.get(root)
	if e.typ != nil {
		return e.typ
	}
	return root
}

// union merges two unbound variables by rank.
func (u *UnionTable) union(a, b TVar) {
	ea, eb := u.get(a), u.get(b)
	switch {
	case ea.rank < eb.rank:
		ea.isLink, ea.link = true, b
	case ea.rank > eb.rank:
		eb.isLink, eb.link = true, a
	default:
		eb.isLink, eb.link = true, a
		ea.rank++
	}
}

// Unify attempts to make t1 and t2 equal, recording bindings in the
// table. Robinson's algorithm with an occurs check (spec.md §4.2).
func (u *UnionTable) Unify(t1, t2 Type) error {
	t1, t2 = u.shallowResolve(t1), u.shallowResolve(t2)

	v1, ok1 := t1.(TVar)
	v2, ok2 := t2.(TVar)

	switch {
	case ok1 && ok2:
		if v1 == u.find(v1) && v2 == u.find(v2) && v1 != v2 {
			u.union(v1, v2)
		}
		return nil
	case ok1:
		return u.bind(v1, t2)
	case ok2:
		return u.bind(v2, t1)
	}

	switch a := t1.(type) {
	case Con:
		b, ok := t2.(Con)
		if !ok || a.Name != b.Name {
			return &TypeError{t1, t2, ""}
		}
		return nil
	case Seq:
		b, ok := t2.(Seq)
		if !ok {
			return &TypeError{t1, t2, ""}
		}
		return u.Unify(a.Elem, b.Elem)
	case SetT:
		b, ok := t2.(SetT)
		if !ok {
			return &TypeError{t1, t2, ""}
		}
		return u.Unify(a.Elem, b.Elem)
	case Map:
		b, ok := t2.(Map)
		if !ok {
			return &TypeError{t1, t2, ""}
		}
		if err := u.Unify(a.Key, b.Key); err != nil {
			return err
		}
		return u.Unify(a.Value, b.Value)
	case Option:
		b, ok := t2.(Option)
		if !ok {
			return &TypeError{t1, t2, ""}
		}
		return u.Unify(a.Elem, b.Elem)
	case UserDefined:
		b, ok := t2.(UserDefined)
		if !ok || a.Name != b.Name || len(a.Args) != len(b.Args) {
			return &TypeError{t1, t2, ""}
		}
		for i := range a.Args {
			if err := u.Unify(a.Args[i], b.Args[i]); err != nil {
				return err
			}
		}
		return nil
	case Func:
		b, ok := t2.(Func)
		if !ok || len(a.Params) != len(b.Params) {
			return &TypeError{t1, t2, "arity mismatch"}
		}
		for i := range a.Params {
			if err := u.Unify(a.Params[i], b.Params[i]); err != nil {
				return err
			}
		}
		return u.Unify(a.Return, b.Return)
	case Unknown:
		return nil // Unknown unifies with anything, silently
	}
	if _, ok := t2.(Unknown); ok {
		return nil
	}
	return &TypeError{t1, t2, ""}
}

// shallowResolve follows a TVar's link chain one level into its bound
// type (if any), without recursing into structured types.
func (u *UnionTable) shallowResolve(t Type) Type {
	v, ok := t.(TVar)
	if !ok {
		return t
	}
	root := u.find(v)
	e := u.get(root)
	if e.typ != nil {
		return e.typ
	}
	return root
}

func (u *UnionTable) bind(v TVar, t Type) error {
	root := u.find(v)
	if tv, ok := t.(TVar); ok && u.find(tv) == root {
		return nil
	}
	if occurs(root, t, u) {
		return &TypeError{v, t, "occurs check failed"}
	}
	e := u.get(root)
	e.typ = t
	return nil
}

func occurs(v TVar, t Type, u *UnionTable) bool {
	t = u.shallowResolve(t)
	for _, fv := range t.FreeVars() {
		if u.find(fv) == v {
			return true
		}
	}
	return false
}

// Zonk resolves every type variable in t to its current root, producing a
// surface type; unresolved roots map to Unknown (GLOSSARY "Zonk").
func (u *UnionTable) Zonk(t Type) Type {
	switch v := t.(type) {
	case TVar:
		resolved := u.Resolve(v)
		if rv, ok := resolved.(TVar); ok {
			_ = rv
			return Unknown{}
		}
		return u.Zonk(resolved)
	case Seq:
		return Seq{u.Zonk(v.Elem)}
	case SetT:
		return SetT{u.Zonk(v.Elem)}
	case Map:
		return Map{u.Zonk(v.Key), u.Zonk(v.Value)}
	case Option:
		return Option{u.Zonk(v.Elem)}
	case UserDefined:
		args := make([]Type, len(v.Args))
		for i, a := range v.Args {
			args[i] = u.Zonk(a)
		}
		return UserDefined{v.Name, args}
	case Func:
		params := make([]Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = u.Zonk(p)
		}
		return Func{params, u.Zonk(v.Return)}
	default:
		return t
	}
}

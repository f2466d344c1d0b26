package kernel

// EntryKind tags what a global name resolves to (spec.md §4.5 "Context").
type EntryKind int

const (
	EntryInductive EntryKind = iota
	EntryAxiom
	EntryDefinition
)

// Constructor is one constructor of an inductive declaration: a name and
// its full Pi-telescope type (leading type parameters, then value
// arguments, ending in the inductive's own type).
type Constructor struct {
	Name string
	Type Term
}

// Entry is one global binding: an inductive (with its constructor list),
// an axiom (a declared but opaque type), or a definition (a typed body
// that delta-reduces).
type Entry struct {
	Kind         EntryKind
	Type         Term
	Body         Term // only for EntryDefinition
	Constructors []Constructor
}

// Context is the persistent global-name table the normalizer and type
// checker consult. Grounded on original_source's Context (add_inductive/
// add_declaration/add_definition) plus a reverse constructor->inductive
// index reduction.rs's extract_constructor needs.
type Context struct {
	entries      map[string]Entry
	ctorOwner    map[string]string // constructor name -> owning inductive name
}

func NewContext() *Context {
	return &Context{
		entries:   make(map[string]Entry),
		ctorOwner: make(map[string]string),
	}
}

// AddInductive registers an opaque or constructor-bearing inductive type.
func (c *Context) AddInductive(name string, ty Term, ctors ...Constructor) {
	c.entries[name] = Entry{Kind: EntryInductive, Type: ty, Constructors: ctors}
	for _, ctor := range ctors {
		c.ctorOwner[ctor.Name] = name
	}
}

// AddDeclaration registers an axiom: a name with a type but no body.
func (c *Context) AddDeclaration(name string, ty Term) {
	c.entries[name] = Entry{Kind: EntryAxiom, Type: ty}
}

// AddDefinition registers a name that delta-reduces to body.
func (c *Context) AddDefinition(name string, ty, body Term) {
	c.entries[name] = Entry{Kind: EntryDefinition, Type: ty, Body: body}
}

// Lookup returns the entry for name, if any.
func (c *Context) Lookup(name string) (Entry, bool) {
	e, ok := c.entries[name]
	return e, ok
}

// DefinitionBody returns the body to delta-reduce to, if name is a
// definition (not an axiom, constructor, or inductive).
func (c *Context) DefinitionBody(name string) (Term, bool) {
	e, ok := c.entries[name]
	if !ok || e.Kind != EntryDefinition {
		return nil, false
	}
	return e.Body, true
}

// ConstructorInductive returns the inductive name owning constructor
// name, if any.
func (c *Context) ConstructorInductive(name string) (string, bool) {
	owner, ok := c.ctorOwner[name]
	return owner, ok
}

// Constructors returns the constructor list of inductive name, in
// declaration order.
func (c *Context) Constructors(inductiveName string) []Constructor {
	e, ok := c.entries[inductiveName]
	if !ok {
		return nil
	}
	return e.Constructors
}

// NewStandardContext builds a Context pre-populated with the kernel's
// standard library: Entity, Nat, Bool, True/False/Not/And/Or/Eq, the
// opaque primitive types (Int/Float/Text/Duration/Date/Moment) and their
// arithmetic/comparison declarations. Grounded on
// original_source/.../prelude.rs's StandardLibrary::register.
func NewStandardContext() *Context {
	c := NewContext()
	registerPrimitives(c)
	registerLogicalConnectives(c)
	return c
}

func binType(dom, codomain Term) Term {
	return Pi{Param: "_", ParamType: dom, BodyType: Pi{Param: "_", ParamType: dom, BodyType: codomain}}
}

func registerPrimitives(c *Context) {
	typ0 := Sort{TypeN(0)}
	c.AddInductive("Int", typ0)
	c.AddInductive("Float", typ0)
	c.AddInductive("Text", typ0)
	c.AddInductive("Duration", typ0)
	c.AddInductive("Date", typ0)
	c.AddInductive("Moment", typ0)

	intT := Global{"Int"}
	c.AddDeclaration("add", binType(intT, intT))
	c.AddDeclaration("sub", binType(intT, intT))
	c.AddDeclaration("mul", binType(intT, intT))
	c.AddDeclaration("div", binType(intT, intT))
	c.AddDeclaration("mod", binType(intT, intT))

	durT, dateT, momT := Global{"Duration"}, Global{"Date"}, Global{"Moment"}
	boolT := Global{"Bool"}
	c.AddDeclaration("add_duration", binType(durT, durT))
	c.AddDeclaration("sub_duration", binType(durT, durT))
	c.AddDeclaration("date_add_days", Pi{Param: "_", ParamType: dateT, BodyType: Pi{Param: "_", ParamType: intT, BodyType: dateT}})
	c.AddDeclaration("date_sub_date", Pi{Param: "_", ParamType: dateT, BodyType: Pi{Param: "_", ParamType: dateT, BodyType: intT}})
	c.AddDeclaration("moment_add_duration", Pi{Param: "_", ParamType: momT, BodyType: Pi{Param: "_", ParamType: durT, BodyType: momT}})
	c.AddDeclaration("moment_sub_moment", Pi{Param: "_", ParamType: momT, BodyType: Pi{Param: "_", ParamType: momT, BodyType: durT}})
	c.AddDeclaration("date_lt", binType(dateT, boolT))
	c.AddDeclaration("moment_lt", binType(momT, boolT))
	c.AddDeclaration("duration_lt", binType(durT, boolT))
}

// registerLogicalConnectives registers Entity, Nat (zero/succ), Bool
// (true/false), True/False (propositional constants as 0/1-constructor
// inductives in Prop), And/Or (two-constructor inductives in Prop), and
// Eq (the single-constructor reflexivity family), matching prelude.rs's
// register_entity/register_nat/register_bool/register_true/
// register_false/register_and/register_or/register_eq.
func registerLogicalConnectives(c *Context) {
	c.AddInductive("Entity", Sort{TypeN(0)})

	nat := Global{"Nat"}
	c.AddInductive("Nat", Sort{TypeN(0)},
		Constructor{"Zero", nat},
		Constructor{"Succ", Pi{Param: "_", ParamType: nat, BodyType: nat}},
	)

	boolT := Global{"Bool"}
	c.AddInductive("Bool", Sort{TypeN(0)},
		Constructor{"True", boolT},
		Constructor{"False", boolT},
	)

	prop := Sort{Prop()}
	c.AddInductive("True_", prop, Constructor{"I", Global{"True_"}})
	c.AddInductive("False_", prop) // no constructors: the absurd proposition

	c.AddInductive("Not", Pi{Param: "P", ParamType: prop, BodyType: prop})

	andType := Pi{Param: "A", ParamType: prop, BodyType: Pi{Param: "B", ParamType: prop, BodyType: prop}}
	c.AddInductive("And", andType,
		Constructor{"Conj", Pi{Param: "A", ParamType: prop, BodyType: Pi{Param: "B", ParamType: prop,
			BodyType: Pi{Param: "_", ParamType: Var{"A"}, BodyType: Pi{Param: "_", ParamType: Var{"B"}, BodyType: apps(Global{"And"}, Var{"A"}, Var{"B"})}}}}},
	)

	c.AddInductive("Or", andType,
		Constructor{"InL", Pi{Param: "A", ParamType: prop, BodyType: Pi{Param: "B", ParamType: prop,
			BodyType: Pi{Param: "_", ParamType: Var{"A"}, BodyType: apps(Global{"Or"}, Var{"A"}, Var{"B"})}}}},
		Constructor{"InR", Pi{Param: "A", ParamType: prop, BodyType: Pi{Param: "B", ParamType: prop,
			BodyType: Pi{Param: "_", ParamType: Var{"B"}, BodyType: apps(Global{"Or"}, Var{"A"}, Var{"B"})}}}},
	)

	// Eq T a b : Prop, with the single reflexivity constructor Eq T a a.
	eqType := Pi{Param: "T", ParamType: Sort{TypeN(0)}, BodyType: Pi{Param: "a", ParamType: Var{"T"}, BodyType: Pi{Param: "b", ParamType: Var{"T"}, BodyType: prop}}}
	c.AddInductive("Eq", eqType,
		Constructor{"Refl", Pi{Param: "T", ParamType: Sort{TypeN(0)}, BodyType: Pi{Param: "a", ParamType: Var{"T"},
			BodyType: EqProp(Var{"T"}, Var{"a"}, Var{"a"})}}},
	)
}

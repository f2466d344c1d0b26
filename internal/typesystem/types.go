// Package typesystem implements the surface Type model of spec.md §3 and
// the inference-only extension (Var) plus the unification table of
// spec.md §4.2, grounded on the teacher's typesystem package (Type
// interface, Subst, Apply, FreeTypeVariables shape).
package typesystem

import "fmt"

// Type is the interface every surface and inference type implements.
type Type interface {
	String() string
	// Apply substitutes s into every Var this type contains.
	Apply(s Subst) Type
	// FreeVars returns the inference variables this type mentions.
	FreeVars() []TVar
}

// TVar is an inference-only type variable, minted by the unification
// table's Fresh.
type TVar struct{ ID int }

func (t TVar) String() string        { return fmt.Sprintf("t%d", t.ID) }
func (t TVar) Apply(s Subst) Type {
	if r, ok := s[t]; ok {
		if rv, ok := r.(TVar); ok && rv == t {
			return t
		}
		return r.Apply(s)
	}
	return t
}
func (t TVar) FreeVars() []TVar { return []TVar{t} }

// Con is a nullary type constant: Int, Nat, Float, Bool, Char, Byte,
// String, Unit, Duration, Date, Moment, Time, Span.
type Con struct{ Name string }

func (t Con) String() string      { return t.Name }
func (t Con) Apply(Subst) Type    { return t }
func (t Con) FreeVars() []TVar    { return nil }

var (
	Int      = Con{"Int"}
	Nat      = Con{"Nat"}
	Float    = Con{"Float"}
	Bool     = Con{"Bool"}
	Char     = Con{"Char"}
	Byte     = Con{"Byte"}
	String   = Con{"String"}
	Unit     = Con{"Unit"}
	Duration = Con{"Duration"}
	Date     = Con{"Date"}
	Moment   = Con{"Moment"}
	Time     = Con{"Time"}
	Span     = Con{"Span"}
)

// Seq carries exactly one element type (spec.md §3 invariant).
type Seq struct{ Elem Type }

func (t Seq) String() string { return "Seq<" + t.Elem.String() + ">" }
func (t Seq) Apply(s Subst) Type { return Seq{t.Elem.Apply(s)} }
func (t Seq) FreeVars() []TVar   { return t.Elem.FreeVars() }

// SetT carries exactly one element type.
type SetT struct{ Elem Type }

func (t SetT) String() string    { return "Set<" + t.Elem.String() + ">" }
func (t SetT) Apply(s Subst) Type { return SetT{t.Elem.Apply(s)} }
func (t SetT) FreeVars() []TVar  { return t.Elem.FreeVars() }

// Map carries a key and a value type.
type Map struct {
	Key   Type
	Value Type
}

func (t Map) String() string { return "Map<" + t.Key.String() + ", " + t.Value.String() + ">" }
func (t Map) Apply(s Subst) Type { return Map{t.Key.Apply(s), t.Value.Apply(s)} }
func (t Map) FreeVars() []TVar {
	return append(append([]TVar{}, t.Key.FreeVars()...), t.Value.FreeVars()...)
}

// Option carries exactly one element type.
type Option struct{ Elem Type }

func (t Option) String() string     { return "Option<" + t.Elem.String() + ">" }
func (t Option) Apply(s Subst) Type { return Option{t.Elem.Apply(s)} }
func (t Option) FreeVars() []TVar   { return t.Elem.FreeVars() }

// UserDefined names a struct/enum/inductive type from the discovery
// registry.
type UserDefined struct {
	Name string
	Args []Type // generic instantiation arguments, if any
}

func (t UserDefined) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	s := t.Name + "<"
	for i, a := range t.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ">"
}
func (t UserDefined) Apply(s Subst) Type {
	args := make([]Type, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.Apply(s)
	}
	return UserDefined{t.Name, args}
}
func (t UserDefined) FreeVars() []TVar {
	var out []TVar
	for _, a := range t.Args {
		out = append(out, a.FreeVars()...)
	}
	return out
}

// Unknown is the fallback for an unresolved type: codegen falls back to a
// safe Rust-of-unknown emission for it (spec.md §4.2 "Failure semantics").
type Unknown struct{}

func (Unknown) String() string    { return "Unknown" }
func (Unknown) Apply(Subst) Type  { return Unknown{} }
func (Unknown) FreeVars() []TVar  { return nil }

// Func is a function signature: parameter types plus a return type. It is
// not part of the surface Type union per se but is what the type
// environment stores for function symbols (spec.md §3 "Type environment").
type Func struct {
	Params []Type
	Return Type
}

func (t Func) String() string {
	s := "fn("
	for i, p := range t.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ") -> " + t.Return.String()
}
func (t Func) Apply(s Subst) Type {
	params := make([]Type, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.Apply(s)
	}
	return Func{params, t.Return.Apply(s)}
}
func (t Func) FreeVars() []TVar {
	var out []TVar
	for _, p := range t.Params {
		out = append(out, p.FreeVars()...)
	}
	return append(out, t.Return.FreeVars()...)
}

// Promote implements spec.md §3's numeric promotion rule: if either side
// is Float -> Float; if both Int-like -> Int; else Unknown.
func Promote(a, b Type) Type {
	isFloat := func(t Type) bool { c, ok := t.(Con); return ok && c.Name == "Float" }
	isIntLike := func(t Type) bool {
		c, ok := t.(Con)
		return ok && (c.Name == "Int" || c.Name == "Nat")
	}
	if isFloat(a) || isFloat(b) {
		return Float
	}
	if isIntLike(a) && isIntLike(b) {
		return Int
	}
	return Unknown{}
}

// FromRustTypeStr and ToRustType implement the round-trip property of
// spec.md §8: from_rust_type_str(to_rust_type(t)) = t for every surface
// type except UserDefined and Unknown.
func ToRustType(t Type) string {
	switch v := t.(type) {
	case Con:
		switch v.Name {
		case "Int":
			return "i64"
		case "Nat":
			return "u64"
		case "Float":
			return "f64"
		case "Bool":
			return "bool"
		case "Char":
			return "char"
		case "Byte":
			return "u8"
		case "String":
			return "String"
		case "Unit":
			return "()"
		case "Duration":
			return "std::time::Duration"
		case "Date":
			return "logicaffeine_data::Date"
		case "Moment":
			return "logicaffeine_data::Moment"
		case "Time":
			return "logicaffeine_data::Time"
		case "Span":
			return "logicaffeine_data::Span"
		}
	case Seq:
		return "Vec<" + ToRustType(v.Elem) + ">"
	case SetT:
		return "std::collections::HashSet<" + ToRustType(v.Elem) + ">"
	case Map:
		return "std::collections::HashMap<" + ToRustType(v.Key) + ", " + ToRustType(v.Value) + ">"
	case Option:
		return "Option<" + ToRustType(v.Elem) + ">"
	case UserDefined:
		return v.Name
	case Unknown:
		return "_"
	}
	return "_"
}

// FromRustTypeStr inverts ToRustType for every type it can round-trip
// (i.e. everything but UserDefined and Unknown, which both emit text that
// only sometimes corresponds 1:1 with a surface Type name).
func FromRustTypeStr(s string) Type {
	switch s {
	case "i64":
		return Int
	case "u64":
		return Nat
	case "f64":
		return Float
	case "bool":
		return Bool
	case "char":
		return Char
	case "u8":
		return Byte
	case "String":
		return String
	case "()":
		return Unit
	case "std::time::Duration":
		return Duration
	case "logicaffeine_data::Date":
		return Date
	case "logicaffeine_data::Moment":
		return Moment
	case "logicaffeine_data::Time":
		return Time
	case "logicaffeine_data::Span":
		return Span
	}
	return Unknown{}
}

// Package discovery implements the discovery pass of spec.md §4 (not
// given its own numbered subsection, but named throughout §2 item 3 and
// §3 "Type registry"/"Policy registry"): one linear scan over the token
// stream that builds a name -> definition registry the parser consults
// while it still has to decide, e.g., whether `Circle` names a struct or
// an ordinary noun phrase referent.
package discovery

import "logaffeine/internal/typesystem"

// Field is one struct field: a name, a declared type, and an optional
// refinement predicate (GLOSSARY "Refinement type").
type Field struct {
	Name       string
	Type       typesystem.Type
	Refinement string // predicate name, or "" if unrefined
}

// StructDef is a struct/record declaration.
type StructDef struct {
	Name       string
	Fields     []Field
	Generics   []string
	Portable   bool // plain-old-data, safe to copy across FFI boundary
	Shared     bool // reference-counted, safe to alias
}

// Variant is one enum/inductive constructor.
type Variant struct {
	Name    string
	Payload []typesystem.Type
}

// EnumDef is a tagged-union declaration.
type EnumDef struct {
	Name     string
	Variants []Variant
	Generics []string
}

// InductiveDef is a declaration consumed by the proof kernel: same shape
// as EnumDef but registered separately so the kernel's `Context` can tell
// "this name has an eliminator" apart from "this name is just a Rust enum".
type InductiveDef struct {
	Name     string
	Variants []Variant
}

// Registry is the name -> definition mapping, built once in the discovery
// pass and read-only thereafter (spec.md §3 "Type registry").
type Registry struct {
	Structs    map[string]*StructDef
	Enums      map[string]*EnumDef
	Inductives map[string]*InductiveDef
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		Structs:    make(map[string]*StructDef),
		Enums:      make(map[string]*EnumDef),
		Inductives: make(map[string]*InductiveDef),
	}
}

// Lookup resolves name to a surface Type if it names a known struct or
// enum, or Unknown if not (the registry itself never errors; unknown
// names are a type-checking concern, not a discovery one).
func (r *Registry) Lookup(name string) typesystem.Type {
	if _, ok := r.Structs[name]; ok {
		return typesystem.UserDefined{Name: name}
	}
	if _, ok := r.Enums[name]; ok {
		return typesystem.UserDefined{Name: name}
	}
	return typesystem.Unknown{}
}

// Has reports whether name is a known struct, enum, or inductive.
func (r *Registry) Has(name string) bool {
	_, s := r.Structs[name]
	_, e := r.Enums[name]
	_, i := r.Inductives[name]
	return s || e || i
}

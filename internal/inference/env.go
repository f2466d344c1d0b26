// Package inference implements the bidirectional type checker of spec.md
// §4.2: a preregister pass over top-level signatures followed by a check
// pass over statement bodies, built on internal/typesystem's
// Robinson-with-occurs-check union table. Grounded on the teacher's
// analyzer/inference*.go split (analyzer/inference.go's
// preregister-then-check shape, analyzer/inference_decl.go's signature
// installation, analyzer/inference_calls.go's call-site rule).
package inference

import (
	"logaffeine/internal/intern"
	"logaffeine/internal/typesystem"
)

// TypeEnv is spec.md §3's "Type environment": two maps, variable symbol
// -> surface type and function symbol -> signature, both total (a
// missing entry reads back as Unknown rather than panicking).
type TypeEnv struct {
	Vars  map[intern.Symbol]typesystem.Type
	Funcs map[intern.Symbol]typesystem.Func
}

// NewTypeEnv returns an empty environment.
func NewTypeEnv() *TypeEnv {
	return &TypeEnv{
		Vars:  make(map[intern.Symbol]typesystem.Type),
		Funcs: make(map[intern.Symbol]typesystem.Func),
	}
}

// Lookup is total: an unbound variable defaults to Unknown (spec.md §4.2
// "TypeEnv lookups are total").
func (e *TypeEnv) Lookup(name intern.Symbol) typesystem.Type {
	if t, ok := e.Vars[name]; ok {
		return t
	}
	return typesystem.Unknown{}
}

// LookupFunc reports a function's signature, if one was registered.
func (e *TypeEnv) LookupFunc(name intern.Symbol) (typesystem.Func, bool) {
	f, ok := e.Funcs[name]
	return f, ok
}

// Package config holds the fixed constants the rest of the compiler is
// parameterized by: source extensions, block header names, built-in
// function/native names, and a handful of design-open-question knobs
// that are recorded rather than guessed (see DESIGN.md).
package config

// SourceFileExt is the canonical extension for logaffeine source files.
const SourceFileExt = ".logos"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".logos", ".lgc"}

// ManifestName is the project manifest file, analogous to Cargo.toml.
const ManifestName = "Largo.toml"

// MaxForestReadings caps how many readings ParseForest collects.
//
// The source this spec was distilled from caps forest readings at 12
// without justification (spec.md §9 "Open questions"). We keep the same
// cap rather than re-derive or change it.
const MaxForestReadings = 12

// BlockHeader names the fixed set of `## Name` block headers. Case is
// normalized to lower before lookup.
type BlockHeader string

const (
	BlockMain       BlockHeader = "main"
	BlockTheorem    BlockHeader = "theorem"
	BlockDefinition BlockHeader = "definition"
	BlockProof      BlockHeader = "proof"
	BlockExample    BlockHeader = "example"
	BlockLogic      BlockHeader = "logic"
	BlockNote       BlockHeader = "note"
	BlockRequires   BlockHeader = "requires"
)

// IsImperative reports whether a block header switches the parser into
// imperative mode. Only Main does; every other known header is
// declarative (spec.md §4.1).
func (b BlockHeader) IsImperative() bool {
	return b == BlockMain
}

// KnownBlockHeaders is the fixed set the discovery pass and preamble pass
// recognize.
var KnownBlockHeaders = map[string]BlockHeader{
	"main":       BlockMain,
	"theorem":    BlockTheorem,
	"definition": BlockDefinition,
	"proof":      BlockProof,
	"example":    BlockExample,
	"logic":      BlockLogic,
	"note":       BlockNote,
	"requires":   BlockRequires,
}

// Built-in native function names hard-wired into the type checker and
// codegen's native-call mapping (spec.md §4.2, §4.4 "map_native_function").
const (
	NativeSqrt     = "sqrt"
	NativeParseInt = "parseInt"
	NativeFloor    = "floor"
	NativeAbs      = "abs"
	NativeMin      = "min"
	NativeMax      = "max"
)

// NativesPropagatingFirstArgType are built-ins whose return type is the
// first argument's type rather than a fixed type.
var NativesPropagatingFirstArgType = map[string]bool{
	NativeAbs: true,
	NativeMin: true,
	NativeMax: true,
}

// Annotation comment markers that suppress an optimization class at
// codegen time (spec.md §4.4).
const (
	AnnotationNoTCO      = "## No TCO"
	AnnotationNoMemo     = "## No Memo"
	AnnotationNoPeephole = "## No Peephole"
	AnnotationNoBorrow   = "## No Borrow"
	AnnotationNoOptimize = "## No Optimize"
)

// Default build profile directory names, mirroring the layout §6 specifies.
const (
	ProfileDebug   = "debug"
	ProfileRelease = "release"
)

// Generated-code path dependencies always present in the emitted
// Cargo.toml (spec.md §6 "Generated code dependencies").
var AlwaysGeneratedDeps = []string{"logicaffeine-data", "logicaffeine-system"}

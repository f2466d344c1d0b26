// Package diagnostics implements the categorized error taxonomy of
// spec.md §7: every diagnostic carries a kind, a phase, a source span,
// and optional auxiliary data, and every kind renders to a one-paragraph
// user-visible message.
package diagnostics

import "fmt"

// Phase is the pipeline stage a diagnostic was raised in.
type Phase string

const (
	PhaseLexer     Phase = "lexer"
	PhaseDiscovery Phase = "discovery"
	PhaseParser    Phase = "parser"
	PhaseType      Phase = "type"
	PhaseOwnership Phase = "ownership"
	PhaseEscape    Phase = "escape"
	PhaseManifest  Phase = "manifest"
	PhaseToolchain Phase = "toolchain"
	PhaseKernel    Phase = "kernel"
)

// Code is a stable, categorized error code.
type Code string

const (
	// Parse errors.
	ErrUnexpectedToken      Code = "P001" // unexpected token
	ErrExpectedKeyword      Code = "P002" // expected keyword
	ErrExpectedIdentifier   Code = "P003" // expected identifier
	ErrExpectedStatement    Code = "P004" // expected statement
	ErrExpectedExpression   Code = "P005" // expected expression
	ErrExpectedContentWord  Code = "P006" // expected content word
	ErrExpectedVerb         Code = "P007" // expected verb
	ErrExpectedCopula       Code = "P008" // expected copula
	ErrExpectedNumber       Code = "P009" // expected number
	ErrZeroIndex            Code = "P010" // zero index, 1-based indices required
	ErrIsValueEquality      Code = "P011" // `is`-value-equality in imperative mode
	ErrUndefinedVariable    Code = "P012" // undefined variable (imperative mode)
	ErrUseAfterMoveParse    Code = "P013" // use-after-move detected during parse

	// Type errors.
	ErrUnification           Code = "T001" // unification failure between two types
	ErrOccursCheck            Code = "T002" // occurs check
	ErrUnknownConstructor     Code = "T003" // unknown constructor
	ErrArityMismatch          Code = "T004" // arity mismatch
	ErrStativeProgressive     Code = "T005" // stative/progressive conflict (NL surface)

	// Ownership errors.
	ErrUseAfterMove     Code = "O001"
	ErrUseAfterMaybeMove Code = "O002"
	ErrDoubleMove       Code = "O003"

	// Escape errors.
	ErrLocalEscapes Code = "E001"

	// Manifest errors.
	ErrManifestMissing  Code = "M001" // missing file
	ErrManifestMalformed Code = "M002" // malformed manifest
	ErrManifestField    Code = "M003" // missing required field

	// Toolchain errors.
	ErrToolchain Code = "X001" // external compiler stderr, captured verbatim

	// Kernel errors.
	ErrKernelIllFormed  Code = "K001" // concludes -> Error
	ErrKernelFuel       Code = "K002" // normalization fuel exhausted (non-fatal)
	ErrKernelTypeCheck  Code = "K003" // term does not type-check against its context
)

var templates = map[Code]string{
	ErrUnexpectedToken:      "unexpected token %q",
	ErrExpectedKeyword:      "expected keyword %q, found %q",
	ErrExpectedIdentifier:   "expected an identifier, found %q",
	ErrExpectedStatement:    "expected a statement, found %q",
	ErrExpectedExpression:   "expected an expression, found %q",
	ErrExpectedContentWord:  "expected a content word, found %q",
	ErrExpectedVerb:         "expected a verb, found %q",
	ErrExpectedCopula:       "expected a copula ('is'/'are'), found %q",
	ErrExpectedNumber:       "expected a number, found %q",
	ErrZeroIndex:            "index %d is out of range: indices are 1-based, so 'item 0 of ...' is always invalid",
	ErrIsValueEquality:      "'is' cannot be used for value equality in an imperative block; use 'equals'",
	ErrUndefinedVariable:    "undefined variable %q",
	ErrUseAfterMoveParse:    "%q was already given away earlier in this block",

	ErrUnification:       "cannot unify %s with %s",
	ErrOccursCheck:       "occurs check failed: %s occurs in %s",
	ErrUnknownConstructor: "unknown constructor %q",
	ErrArityMismatch:     "arity mismatch: expected %d arguments, got %d",
	ErrStativeProgressive: "stative verb %q cannot take the progressive aspect",

	ErrUseAfterMove:      "cannot use %q after giving it away; once given, a value cannot be used again (consider Show instead of Give if you only need to read it)",
	ErrUseAfterMaybeMove: "cannot use %q here: it may have been given away in an earlier branch",
	ErrDoubleMove:        "cannot give %q away twice",

	ErrLocalEscapes: "%q escapes its defining scope",

	ErrManifestMissing:  "manifest file not found: %s",
	ErrManifestMalformed: "malformed manifest: %s",
	ErrManifestField:    "manifest is missing required field %q",

	ErrToolchain: "the native toolchain reported an error:\n%s",

	ErrKernelIllFormed: "derivation does not conclude a valid proposition: %s",
	ErrKernelFuel:      "normalization ran out of fuel before reaching a normal form",
	ErrKernelTypeCheck: "term %s does not type-check in the current context",
}

// Span is a half-open byte range (start, end) within one source file,
// matching spec.md §6 "Diagnostics".
type Span struct {
	Start int
	End   int
}

// Diagnostic is a single categorized error, matching spec.md §7.
type Diagnostic struct {
	Code  Code
	Phase Phase
	Span  Span
	Args  []any
	File  string
	Hint  string
}

func (d *Diagnostic) Error() string {
	template, ok := templates[d.Code]
	if !ok {
		return fmt.Sprintf("unknown diagnostic code: %s", d.Code)
	}
	msg := fmt.Sprintf(template, d.Args...)

	prefix := ""
	if d.File != "" {
		prefix = d.File + ": "
	}
	phase := ""
	if d.Phase != "" {
		phase = fmt.Sprintf("[%s] ", d.Phase)
	}
	if d.Span.Start > 0 || d.Span.End > 0 {
		return fmt.Sprintf("%s%serror at byte %d-%d [%s]: %s", prefix, phase, d.Span.Start, d.Span.End, d.Code, msg)
	}
	return fmt.Sprintf("%s%serror [%s]: %s", prefix, phase, d.Code, msg)
}

// New builds a Diagnostic with code, phase, span and template args.
func New(phase Phase, code Code, span Span, args ...any) *Diagnostic {
	return &Diagnostic{Code: code, Phase: phase, Span: span, Args: args}
}

// WithHint attaches a remedy hint and returns the receiver for chaining.
// spec.md §7 requires a suggested remedy for the three most common
// classes: parse, type, ownership.
func (d *Diagnostic) WithHint(hint string) *Diagnostic {
	d.Hint = hint
	return d
}

// Bag accumulates diagnostics that are reported together rather than
// halting the pass that found them (ownership and escape errors are
// accumulated per function, per spec.md §7 "Propagation policy").
type Bag struct {
	items []*Diagnostic
}

func (b *Bag) Add(d *Diagnostic) { b.items = append(b.items, d) }

func (b *Bag) Empty() bool { return len(b.items) == 0 }

func (b *Bag) Items() []*Diagnostic { return b.items }

func (b *Bag) Error() string {
	if len(b.items) == 0 {
		return ""
	}
	s := b.items[0].Error()
	for _, d := range b.items[1:] {
		s += "\n" + d.Error()
	}
	return s
}

// Package kernel implements the proof kernel of spec.md §4.5: a Calculus
// of Constructions with inductive families, a call-by-name normalizer
// with fuel, a deeply-embedded Syntax type used for reflection, a
// Derivation language whose validity is checked by Concludes, a tactic
// combinator library, and a handful of decision procedures (ring, lia,
// omega, cc, simp, auto, induction, inversion).
//
// Grounded on original_source/crates/logicaffeine_kernel/src/{prelude,
// reduction}.rs: the reduction rules (β/ι/δ/fix), the fuel-bounded
// normalize loop, and the Syntax reflection primitives (syn_size,
// syn_max_var, syn_lift, syn_subst, syn_beta, syn_step, syn_eval,
// syn_quote, syn_diag) all carry over with the same semantics. The
// representation differs: the original encodes Syntax as ordinary Term
// applications of global constructor names (so one reducer handles both
// layers uniformly); this package gives Syntax its own Go type and
// dedicated functions, which is the idiomatic Go shape for "two related
// but distinct term languages" (mirroring how internal/ast splits logical
// form from statements rather than forcing one node type to cover both).
// Pure logic over a closed term language: standard library only, no
// ecosystem dependency models a dependently-typed kernel better than
// direct pattern matching (no Go package in the examples or the
// ecosystem implements a CoC kernel).
package kernel

import "fmt"

// Universe is a sort: Prop or Type n.
type Universe struct {
	IsProp bool
	Level  int // meaningful only when !IsProp
}

func Prop() Universe       { return Universe{IsProp: true} }
func TypeN(n int) Universe { return Universe{Level: n} }

func (u Universe) String() string {
	if u.IsProp {
		return "Prop"
	}
	return fmt.Sprintf("Type %d", u.Level)
}

func (u Universe) Equal(o Universe) bool {
	return u.IsProp == o.IsProp && (u.IsProp || u.Level == o.Level)
}

// LitKind tags the literal variants the kernel can embed directly.
type LitKind int

const (
	LitInt LitKind = iota
	LitFloat
	LitText
	LitBool
	LitDuration
	LitDate
	LitMoment
)

// Literal is an immediate value of one of the kernel's opaque base types.
type Literal struct {
	Kind LitKind
	I    int64
	F    float64
	S    string
	B    bool
}

func IntLit(n int64) Literal  { return Literal{Kind: LitInt, I: n} }
func BoolLit(b bool) Literal  { return Literal{Kind: LitBool, B: b} }
func TextLit(s string) Literal { return Literal{Kind: LitText, S: s} }

func (l Literal) Equal(o Literal) bool {
	if l.Kind != o.Kind {
		return false
	}
	switch l.Kind {
	case LitInt, LitDuration, LitMoment:
		return l.I == o.I
	case LitDate:
		return l.I == o.I
	case LitFloat:
		return l.F == o.F
	case LitText:
		return l.S == o.S
	case LitBool:
		return l.B == o.B
	}
	return false
}

func (l Literal) String() string {
	switch l.Kind {
	case LitInt, LitDuration, LitDate, LitMoment:
		return fmt.Sprintf("%d", l.I)
	case LitFloat:
		return fmt.Sprintf("%g", l.F)
	case LitText:
		return fmt.Sprintf("%q", l.S)
	case LitBool:
		return fmt.Sprintf("%v", l.B)
	}
	return "<lit>"
}

// Term is the CoC term language (spec.md §4.5 "Term language"). Every
// variant is a tagged struct implementing this marker interface, matching
// the tagged-variant style internal/typesystem and internal/ast already
// use for closed term grammars.
type Term interface {
	fmt.Stringer
	termNode()
}

// Sort is a universe term: Type n or Prop.
type Sort struct{ U Universe }

func (t Sort) termNode()      {}
func (t Sort) String() string { return t.U.String() }

// Var is a named local variable, bound by an enclosing Lambda or Pi.
// Substitution is capture-avoiding via alpha-renaming on binder clash
// (spec.md §9 "Dependent types as tagged variants").
type Var struct{ Name string }

func (t Var) termNode()      {}
func (t Var) String() string { return t.Name }

// Global references a name in the Context: an inductive, a constructor,
// an axiom, or a definition.
type Global struct{ Name string }

func (t Global) termNode()      {}
func (t Global) String() string { return t.Name }

// App is function application.
type App struct {
	Func Term
	Arg  Term
}

func (t App) termNode()      {}
func (t App) String() string { return fmt.Sprintf("(%s %s)", t.Func, t.Arg) }

// Lambda is a typed abstraction.
type Lambda struct {
	Param     string
	ParamType Term
	Body      Term
}

func (t Lambda) termNode() {}
func (t Lambda) String() string {
	return fmt.Sprintf("(λ%s:%s. %s)", t.Param, t.ParamType, t.Body)
}

// Pi is a dependent product type.
type Pi struct {
	Param    string
	ParamType Term
	BodyType  Term
}

func (t Pi) termNode() {}
func (t Pi) String() string {
	return fmt.Sprintf("(Π%s:%s. %s)", t.Param, t.ParamType, t.BodyType)
}

// Lit embeds an immediate literal value.
type Lit struct{ Value Literal }

func (t Lit) termNode()      {}
func (t Lit) String() string { return t.Value.String() }

// Case is one arm of a Match: the body to apply to the constructor's
// value arguments (type parameters are skipped, see countTypeParams).
type Case struct{ Body Term }

// Match is dependent pattern matching with an explicit motive (the
// result type family) and one Case per constructor of the discriminant's
// inductive type, in declaration order.
type Match struct {
	Discriminant Term
	Motive       Term
	Cases        []Case
}

func (t Match) termNode() {}
func (t Match) String() string {
	return fmt.Sprintf("match %s { %d cases }", t.Discriminant, len(t.Cases))
}

// Fix is guarded recursion: Fix unfolds only when applied to a
// constructor-headed argument (spec.md §4.5 "fix with guarded
// unfolding"; spec.md §9 "Kernel fix-point unfolding").
type Fix struct {
	Name string
	Body Term
}

func (t Fix) termNode()      {}
func (t Fix) String() string { return fmt.Sprintf("(fix %s. %s)", t.Name, t.Body) }

// Hole is an unfilled term, e.g. a tactic goal not yet discharged.
type Hole struct{}

func (t Hole) termNode()      {}
func (t Hole) String() string { return "_" }

// Equal is syntactic (alpha-equivalence-insensitive except for bound
// names, matching the original's derived PartialEq on Term) structural
// equality, used throughout reduction to detect fixed points and by
// DModusPonens/DApply to check that a supplied proof's conclusion
// matches the expected antecedent.
func Equal(a, b Term) bool {
	switch x := a.(type) {
	case Sort:
		y, ok := b.(Sort)
		return ok && x.U.Equal(y.U)
	case Var:
		y, ok := b.(Var)
		return ok && x.Name == y.Name
	case Global:
		y, ok := b.(Global)
		return ok && x.Name == y.Name
	case App:
		y, ok := b.(App)
		return ok && Equal(x.Func, y.Func) && Equal(x.Arg, y.Arg)
	case Lambda:
		y, ok := b.(Lambda)
		return ok && x.Param == y.Param && Equal(x.ParamType, y.ParamType) && Equal(x.Body, y.Body)
	case Pi:
		y, ok := b.(Pi)
		return ok && x.Param == y.Param && Equal(x.ParamType, y.ParamType) && Equal(x.BodyType, y.BodyType)
	case Lit:
		y, ok := b.(Lit)
		return ok && x.Value.Equal(y.Value)
	case Match:
		y, ok := b.(Match)
		if !ok || len(x.Cases) != len(y.Cases) || !Equal(x.Discriminant, y.Discriminant) || !Equal(x.Motive, y.Motive) {
			return false
		}
		for i := range x.Cases {
			if !Equal(x.Cases[i].Body, y.Cases[i].Body) {
				return false
			}
		}
		return true
	case Fix:
		y, ok := b.(Fix)
		return ok && x.Name == y.Name && Equal(x.Body, y.Body)
	case Hole:
		_, ok := b.(Hole)
		return ok
	}
	return false
}

// apps builds f applied to args left to right: apps(f, a, b) = (f a) b.
func apps(f Term, args ...Term) Term {
	cur := f
	for _, a := range args {
		cur = App{Func: cur, Arg: a}
	}
	return cur
}

// EqProp builds the Term-level proposition Eq T a b used by DRefl/DCompute.
func EqProp(ty, a, b Term) Term {
	return apps(Global{"Eq"}, ty, a, b)
}

// Implies builds Implies A B, the shape DModusPonens inspects.
func Implies(a, b Term) Term {
	return apps(Global{"Implies"}, a, b)
}

// Forall builds a Term-level universal quantification over the given
// bound-variable type and body (body has a free Var(boundName) for the
// bound occurrence), used by DUnivIntro/DUnivElim/DInduction/DElim
// conclusions.
func Forall(boundType Term, body Term) Term {
	return apps(Global{"Forall"}, boundType, body)
}

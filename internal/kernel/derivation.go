package kernel

import (
	"errors"
	"fmt"
)

// Derivation is the deeply-embedded proof-tree language of spec.md §4.5
// "Derivation language": one tagged variant per inference rule. Validity
// is checked lazily by Concludes, not at construction time (the original
// builds derivations as plain Syntax application trees; this package
// keeps the CoC term representation for conclusions but gives
// derivations their own tagged-variant type, the same split Term/Syntax
// already uses elsewhere in this package).
type Derivation interface {
	derivationNode()
}

// ErrIllFormed is returned by Concludes when a derivation fails
// validation (spec.md §4.5 "on mismatch it returns SName \"Error\"";
// here represented as a Go error rather than an in-band error term,
// since Concludes already returns (Term, error) and every caller needs
// to distinguish failure from a real conclusion).
var ErrIllFormed = errors.New("derivation does not conclude a valid proposition")

type DAxiom struct{ P Term }
type DModusPonens struct{ Impl, Ant Derivation }
type DUnivIntro struct{ D Derivation }
type DUnivElim struct {
	D Derivation
	T Term
}
type DRefl struct{ Ty, A Term }
type DCompute struct{ Goal Term }
type DCong struct {
	Ctx Term // Lambda x. f(x)
	Eq  Derivation
}
type DInduction struct {
	Motive, Base, Step Term
}
type DElim struct {
	IndType, Motive Term
	Cases           []Derivation
}
type DCase struct{ Body Term }
type DCaseEnd struct{}
type DDestruct struct {
	IndType, Motive Term
	Cases           []Derivation
}
type DRewrite struct {
	EqProof        Derivation
	Old, New       Term
}
type DApply struct {
	HypName        string
	HypProof       Derivation
	Old, New       Term
}
type DInversion struct{ HypType Term }
type DRingSolve struct{ Goal Term }
type DLiaSolve struct{ Goal Term }
type DccSolve struct{ Goal Term }
type DSimpSolve struct{ Goal Term }
type DOmegaSolve struct{ Goal Term }
type DAutoSolve struct{ Goal Term }

func (DAxiom) derivationNode()       {}
func (DModusPonens) derivationNode() {}
func (DUnivIntro) derivationNode()   {}
func (DUnivElim) derivationNode()    {}
func (DRefl) derivationNode()        {}
func (DCompute) derivationNode()     {}
func (DCong) derivationNode()        {}
func (DInduction) derivationNode()   {}
func (DElim) derivationNode()        {}
func (DDestruct) derivationNode()    {}
func (DRewrite) derivationNode()     {}
func (DApply) derivationNode()       {}
func (DInversion) derivationNode()   {}
func (DRingSolve) derivationNode()   {}
func (DLiaSolve) derivationNode()    {}
func (DccSolve) derivationNode()     {}
func (DSimpSolve) derivationNode()   {}
func (DOmegaSolve) derivationNode()  {}
func (DAutoSolve) derivationNode()   {}

// Concludes extracts the proposition a derivation proves, performing
// validation as it goes (spec.md §4.5 "concludes d"): e.g. DModusPonens
// only concludes B when its first derivation's conclusion has the shape
// Implies A B and its second derivation's conclusion is syntactically
// equal to A. On mismatch it returns ErrIllFormed rather than the
// original's in-band SName "Error", since every call site here already
// threads a Go error.
func Concludes(ctx *Context, d Derivation) (Term, error) {
	switch n := d.(type) {
	case DAxiom:
		return n.P, nil

	case DRefl:
		// DRefl T a concludes Eq T a a syntactically (spec.md §8 invariant).
		return EqProp(n.Ty, n.A, n.A), nil

	case DModusPonens:
		implConc, err := Concludes(ctx, n.Impl)
		if err != nil {
			return nil, err
		}
		antConc, err := Concludes(ctx, n.Ant)
		if err != nil {
			return nil, err
		}
		a, b, ok := extractImplication(implConc)
		if !ok || !Equal(Normalize(ctx, antConc), Normalize(ctx, a)) {
			return nil, ErrIllFormed
		}
		return b, nil

	case DUnivIntro:
		inner, err := Concludes(ctx, n.D)
		if err != nil {
			return nil, err
		}
		return Forall(Hole{}, inner), nil

	case DUnivElim:
		conc, err := Concludes(ctx, n.D)
		if err != nil {
			return nil, err
		}
		_, body, ok := extractForall(conc)
		if !ok {
			return nil, ErrIllFormed
		}
		return Substitute(body, "@bound", n.T), nil

	case DCompute:
		a, b, ty, ok := extractEq(n.Goal)
		if !ok {
			return nil, ErrIllFormed
		}
		if !Equal(Normalize(ctx, a), Normalize(ctx, b)) {
			return nil, ErrIllFormed
		}
		return EqProp(ty, a, b), nil

	case DCong:
		lam, ok := n.Ctx.(Lambda)
		if !ok {
			return nil, ErrIllFormed
		}
		eqConc, err := Concludes(ctx, n.Eq)
		if err != nil {
			return nil, err
		}
		a, b, ty, ok := extractEq(eqConc)
		if !ok {
			return nil, ErrIllFormed
		}
		fa := Substitute(lam.Body, lam.Param, a)
		fb := Substitute(lam.Body, lam.Param, b)
		return EqProp(ty, fa, fb), nil

	case DInduction:
		// Base : motive(Zero). Step : forall n, motive(n) -> motive(Succ n).
		// Concludes forall n : Nat, motive(n), trusting Base/Step are
		// already Terms of the right shape (the caller built them via
		// Induction(), which checks Base and Step against those shapes).
		return Forall(Global{"Nat"}, App{n.Motive, Var{"@bound"}}), nil

	case DElim:
		inductive, ok := globalName(n.IndType)
		if !ok {
			return nil, ErrIllFormed
		}
		ctors := ctx.Constructors(inductive)
		if len(ctors) != len(n.Cases) {
			return nil, ErrIllFormed
		}
		for _, c := range n.Cases {
			if _, err := Concludes(ctx, c); err != nil {
				return nil, err
			}
		}
		return Forall(n.IndType, App{n.Motive, Var{"@bound"}}), nil

	case DDestruct:
		inductive, ok := globalName(n.IndType)
		if !ok {
			return nil, ErrIllFormed
		}
		if len(ctx.Constructors(inductive)) != len(n.Cases) {
			return nil, ErrIllFormed
		}
		return Forall(n.IndType, App{n.Motive, Var{"@bound"}}), nil

	case DRewrite:
		eqConc, err := Concludes(ctx, n.EqProof)
		if err != nil {
			return nil, err
		}
		a, b, _, ok := extractEq(eqConc)
		if !ok {
			return nil, ErrIllFormed
		}
		if !Equal(Normalize(ctx, n.Old), Normalize(ctx, replaceTerm(n.New, b, a))) {
			return nil, ErrIllFormed
		}
		return n.New, nil

	case DApply:
		hypConc, err := Concludes(ctx, n.HypProof)
		if err != nil {
			return nil, err
		}
		a, b, ok := extractImplication(hypConc)
		if !ok {
			return nil, ErrIllFormed
		}
		if !Equal(Normalize(ctx, n.Old), Normalize(ctx, replaceTerm(n.New, b, a))) {
			return nil, ErrIllFormed
		}
		return n.New, nil

	case DInversion:
		inductive, ok := globalName(n.HypType)
		if !ok || len(ctx.Constructors(inductive)) != 0 {
			return nil, ErrIllFormed
		}
		return Global{"False_"}, nil

	case DRingSolve:
		if !ringProves(ctx, n.Goal) {
			return nil, ErrIllFormed
		}
		return n.Goal, nil

	case DLiaSolve:
		if !liaProves(n.Goal) {
			return nil, ErrIllFormed
		}
		return n.Goal, nil

	case DccSolve:
		if !ccProves(ctx, n.Goal, nil) {
			return nil, ErrIllFormed
		}
		return n.Goal, nil

	case DSimpSolve:
		simplified := Simp(ctx, n.Goal)
		a, b, _, ok := extractEq(simplified)
		if !ok || !Equal(a, b) {
			return nil, ErrIllFormed
		}
		return n.Goal, nil

	case DOmegaSolve:
		if !omegaProves(n.Goal) {
			return nil, ErrIllFormed
		}
		return n.Goal, nil

	case DAutoSolve:
		if _, err := Concludes(ctx, Auto(ctx, n.Goal)); err != nil {
			return nil, ErrIllFormed
		}
		return n.Goal, nil
	}
	return nil, fmt.Errorf("%w: unknown derivation %T", ErrIllFormed, d)
}

func globalName(t Term) (string, bool) {
	g, ok := t.(Global)
	if !ok {
		return "", false
	}
	return g.Name, true
}

// extractImplication recognizes Implies(A, B) = ((Implies A) B).
func extractImplication(t Term) (a, b Term, ok bool) {
	outer, ok1 := t.(App)
	if !ok1 {
		return nil, nil, false
	}
	inner, ok2 := outer.Func.(App)
	if !ok2 {
		return nil, nil, false
	}
	if g, ok3 := inner.Func.(Global); !ok3 || g.Name != "Implies" {
		return nil, nil, false
	}
	return inner.Arg, outer.Arg, true
}

// extractForall recognizes Forall(boundType, body) = ((Forall ty) body).
func extractForall(t Term) (boundType, body Term, ok bool) {
	outer, ok1 := t.(App)
	if !ok1 {
		return nil, nil, false
	}
	inner, ok2 := outer.Func.(App)
	if !ok2 {
		return nil, nil, false
	}
	if g, ok3 := inner.Func.(Global); !ok3 || g.Name != "Forall" {
		return nil, nil, false
	}
	return inner.Arg, outer.Arg, true
}

// extractEq recognizes Eq(ty, a, b) = (((Eq ty) a) b).
func extractEq(t Term) (a, b, ty Term, ok bool) {
	outer, ok1 := t.(App)
	if !ok1 {
		return nil, nil, nil, false
	}
	mid, ok2 := outer.Func.(App)
	if !ok2 {
		return nil, nil, nil, false
	}
	inner, ok3 := mid.Func.(App)
	if !ok3 {
		return nil, nil, nil, false
	}
	if g, ok4 := inner.Func.(Global); !ok4 || g.Name != "Eq" {
		return nil, nil, nil, false
	}
	return mid.Arg, outer.Arg, inner.Arg, true
}

// replaceTerm substitutes every syntactic occurrence of old with
// replacement inside t (not binder-aware: used only for the closed
// rewrite-target terms DRewrite/DApply operate on).
func replaceTerm(t, old, replacement Term) Term {
	if Equal(t, old) {
		return replacement
	}
	switch n := t.(type) {
	case App:
		return App{replaceTerm(n.Func, old, replacement), replaceTerm(n.Arg, old, replacement)}
	case Lambda:
		return Lambda{n.Param, replaceTerm(n.ParamType, old, replacement), replaceTerm(n.Body, old, replacement)}
	case Pi:
		return Pi{n.Param, replaceTerm(n.ParamType, old, replacement), replaceTerm(n.BodyType, old, replacement)}
	}
	return t
}

// Induction builds a DInduction after verifying Base proves motive(Zero)
// and Step proves the inductive step shape, matching spec.md §4.5
// "induction: ... verifying one case per constructor".
func Induction(motive, base, step Term) (Derivation, error) {
	wantBase := App{motive, Global{"Zero"}}
	if !Equal(Normalize(NewStandardContext(), base), Normalize(NewStandardContext(), wantBase)) {
		return nil, fmt.Errorf("%w: induction base does not prove motive(Zero)", ErrIllFormed)
	}
	wantStep := Forall(Global{"Nat"}, Implies(App{motive, Var{"@bound"}}, App{motive, App{Global{"Succ"}, Var{"@bound"}}}))
	if !Equal(Normalize(NewStandardContext(), step), Normalize(NewStandardContext(), wantStep)) {
		return nil, fmt.Errorf("%w: induction step does not prove motive(n) -> motive(Succ n)", ErrIllFormed)
	}
	return DInduction{Motive: motive, Base: base, Step: step}, nil
}

// ElimInductive builds a DElim after checking one case per constructor of
// indType (spec.md §4.5 "induction ... builds DElim after verifying one
// case per constructor").
func ElimInductive(ctx *Context, indType, motive Term, cases []Derivation) (Derivation, error) {
	name, ok := globalName(indType)
	if !ok {
		return nil, fmt.Errorf("%w: elim target is not an inductive", ErrIllFormed)
	}
	if len(ctx.Constructors(name)) != len(cases) {
		return nil, fmt.Errorf("%w: elim case count does not match constructor count", ErrIllFormed)
	}
	return DElim{IndType: indType, Motive: motive, Cases: cases}, nil
}

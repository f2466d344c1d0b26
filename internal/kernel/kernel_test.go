package kernel

import "testing"

func TestConcludesDReflIsReflexiveEq(t *testing.T) {
	ctx := NewStandardContext()
	a := Lit{IntLit(5)}
	conc, err := Concludes(ctx, DRefl{Ty: Global{"Int"}, A: a})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := EqProp(Global{"Int"}, a, a)
	if !Equal(conc, want) {
		t.Errorf("concludes(DRefl T a) = %s, want %s", conc, want)
	}
}

func TestSynSubstOnClosedTermIsIdentity(t *testing.T) {
	// SLam (SSort Prop) (SLit 7) has no free variable 0: substituting
	// leaves it unchanged.
	closed := NewSLam(NewSSort(Prop()), NewSLit(7))
	replaced := SynSubst(NewSVar(99), 0, closed)
	if !SynEqual(replaced, closed) {
		t.Errorf("syn_subst on a closed term changed it: got %s, want %s", replaced, closed)
	}
}

func TestSynEvalConfluentUpToStuck(t *testing.T) {
	// ((SName "add") (SLit 2)) applied to (SLit 3) should fold to SLit 5
	// regardless of extra fuel once it reaches normal form.
	term := NewSApp(NewSApp(NewSName("add"), NewSLit(2)), NewSLit(3))
	n5 := SynEval(5, term)
	n6 := SynEval(6, term)
	if !SynEqual(n5, n6) {
		t.Errorf("syn_eval not confluent: fuel=5 -> %s, fuel=6 -> %s", n5, n6)
	}
	if n5.Kind != SLit || n5.N != 5 {
		t.Errorf("expected SLit 5, got %s", n5)
	}
}

func TestModusPonensValidatesAntecedent(t *testing.T) {
	ctx := NewStandardContext()
	p := Global{"P"}
	q := Global{"Q"}
	implD := DAxiom{P: Implies(p, q)}
	antD := DAxiom{P: p}
	conc, err := Concludes(ctx, DModusPonens{Impl: implD, Ant: antD})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Equal(conc, q) {
		t.Errorf("modus ponens concluded %s, want %s", conc, q)
	}

	wrongAnt := DAxiom{P: Global{"R"}}
	if _, err := Concludes(ctx, DModusPonens{Impl: implD, Ant: wrongAnt}); err == nil {
		t.Error("expected ErrIllFormed when antecedent doesn't match")
	}
}

func TestNormalizeFoldsArithmetic(t *testing.T) {
	ctx := NewStandardContext()
	expr := App{App{Global{"add"}, Lit{IntLit(2)}}, Lit{IntLit(3)}}
	got := Normalize(ctx, expr)
	want := Lit{IntLit(5)}
	if !Equal(got, want) {
		t.Errorf("normalize(add 2 3) = %s, want %s", got, want)
	}
}

func TestRingProvesReflexiveArithmeticEquality(t *testing.T) {
	ctx := NewStandardContext()
	lhs := App{App{Global{"add"}, Lit{IntLit(2)}}, Lit{IntLit(3)}}
	goal := EqProp(Global{"Int"}, lhs, Lit{IntLit(5)})
	if !ringProves(ctx, goal) {
		t.Error("ring should prove (add 2 3) = 5")
	}
	d := DRingSolve{Goal: goal}
	if _, err := Concludes(ctx, d); err != nil {
		t.Errorf("DRingSolve should conclude: %v", err)
	}
}

func TestOmegaProvesGroundInequality(t *testing.T) {
	goal := App{App{Global{string(CmpLe)}, Lit{IntLit(3)}}, Lit{IntLit(5)}}
	if !omegaProves(goal) {
		t.Error("omega should prove 3 <= 5")
	}
	if omegaProves(App{App{Global{string(CmpLe)}, Lit{IntLit(9)}}, Lit{IntLit(5)}}) {
		t.Error("omega should not prove 9 <= 5")
	}
}

func TestTactOrElseFallsThroughOnFailure(t *testing.T) {
	ctx := NewStandardContext()
	goal := EqProp(Global{"Int"}, Lit{IntLit(1)}, Lit{IntLit(1)})
	alwaysRing := func(ctx *Context, goal Term) Derivation { return DRingSolve{Goal: goal} }
	tac := TactOrElse(TactFail, alwaysRing)
	d := tac(ctx, goal)
	if _, err := Concludes(ctx, d); err != nil {
		t.Errorf("expected TactOrElse to fall through to the working tactic: %v", err)
	}
}

func TestInductionRejectsWrongBase(t *testing.T) {
	motive := Global{"AlwaysFalse"} // motive(Zero) won't match a mismatched base
	_, err := Induction(motive, Global{"NotMotiveZero"}, Global{"step"})
	if err == nil {
		t.Error("expected induction to reject a base that doesn't prove motive(Zero)")
	}
}

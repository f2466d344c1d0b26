package kernel

// Tactic is a goal -> derivation function, the Go shape of spec.md
// §4.5's tactic combinators ("Each is reduced by the kernel when all
// arguments are supplied" — here, each combinator is just a closure
// over Tactic values, applied directly rather than reduced as a Term).
type Tactic func(ctx *Context, goal Term) Derivation

// TactFail always fails: Concludes on its result is always ErrIllFormed.
func TactFail(ctx *Context, goal Term) Derivation {
	return DCompute{Goal: Global{"@fail"}}
}

// succeeds reports whether t's derivation on goal concludes without
// error, the condition every combinator below branches on.
func succeeds(ctx *Context, t Tactic, goal Term) (Derivation, bool) {
	d := t(ctx, goal)
	_, err := Concludes(ctx, d)
	return d, err == nil
}

// TactOrElse tries t1; if its conclusion is ill-formed, tries t2.
func TactOrElse(t1, t2 Tactic) Tactic {
	return func(ctx *Context, goal Term) Derivation {
		if d, ok := succeeds(ctx, t1, goal); ok {
			return d
		}
		return t2(ctx, goal)
	}
}

// TactTry runs t, falling back to a no-op (DCompute on the goal itself,
// which only concludes if the goal actually reduces reflexively) if t
// fails, rather than propagating the failure.
func TactTry(t Tactic) Tactic {
	return TactOrElse(t, func(ctx *Context, goal Term) Derivation {
		return DCompute{Goal: goal}
	})
}

// TactRepeat applies t until it stops making progress (its result
// derivation stops changing) or fails.
func TactRepeat(t Tactic) Tactic {
	return func(ctx *Context, goal Term) Derivation {
		current := goal
		var last Derivation = DCompute{Goal: goal}
		for {
			d, ok := succeeds(ctx, t, current)
			if !ok {
				return last
			}
			conc, err := Concludes(ctx, d)
			if err != nil || Equal(conc, current) {
				return d
			}
			last = d
			current = conc
		}
	}
}

// TactThen runs t1 to discharge goal, then runs t2 on t1's conclusion
// (sequential composition, matching try_tact_then_reduce).
func TactThen(t1, t2 Tactic) Tactic {
	return func(ctx *Context, goal Term) Derivation {
		d1, ok := succeeds(ctx, t1, goal)
		if !ok {
			return d1
		}
		conc, err := Concludes(ctx, d1)
		if err != nil {
			return d1
		}
		return t2(ctx, conc)
	}
}

// TactFirst tries each tactic in order, returning the first that
// succeeds, or the last (failing) attempt if none do.
func TactFirst(tactics []Tactic) Tactic {
	return func(ctx *Context, goal Term) Derivation {
		var last Derivation = DCompute{Goal: goal}
		for _, t := range tactics {
			d, ok := succeeds(ctx, t, goal)
			if ok {
				return d
			}
			last = d
		}
		return last
	}
}

// TactSolve requires t to fully close goal, returning its derivation
// unchanged (a no-op wrapper that documents intent at call sites, the
// same way the original's tact_solve is a thin marker over an inner
// tactic rather than adding behavior of its own).
func TactSolve(t Tactic) Tactic {
	return t
}

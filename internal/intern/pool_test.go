package intern

import "testing"

func TestPool_InternIsStable(t *testing.T) {
	p := New()
	a := p.Intern("fact")
	b := p.Intern("fact")
	if a != b {
		t.Fatalf("expected repeated Intern of the same string to return the same Symbol, got %d and %d", a, b)
	}
	if a == Invalid {
		t.Fatalf("expected a real intern to never return Invalid")
	}
}

func TestPool_DistinctStringsGetDistinctSymbols(t *testing.T) {
	p := New()
	a := p.Intern("fact")
	b := p.Intern("countdown")
	if a == b {
		t.Fatalf("expected distinct strings to get distinct symbols")
	}
}

func TestPool_ResolveRoundTrips(t *testing.T) {
	p := New()
	for _, s := range []string{"n", "fact", "Main", ""} {
		sym := p.Intern(s)
		if got := p.Resolve(sym); got != s {
			t.Fatalf("Resolve(Intern(%q)) = %q", s, got)
		}
	}
}

func TestPool_Len(t *testing.T) {
	p := New()
	p.Intern("a")
	p.Intern("b")
	p.Intern("a") // repeat, should not grow Len
	if got := p.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
}

package typesystem

import "testing"

func TestRoundTripRustType(t *testing.T) {
	cases := []Type{Int, Nat, Float, Bool, Char, Byte, String, Unit, Duration, Date, Moment, Time, Span}
	for _, tc := range cases {
		t.Run(tc.String(), func(t *testing.T) {
			got := FromRustTypeStr(ToRustType(tc))
			if got.String() != tc.String() {
				t.Fatalf("round trip broke: %s -> %q -> %s", tc, ToRustType(tc), got)
			}
		})
	}
}

func TestPromote(t *testing.T) {
	tests := []struct {
		a, b Type
		want Type
	}{
		{Int, Int, Int},
		{Int, Float, Float},
		{Float, Int, Float},
		{Nat, Int, Int},
		{String, Int, Unknown{}},
	}
	for _, tc := range tests {
		if got := Promote(tc.a, tc.b); got.String() != tc.want.String() {
			t.Fatalf("Promote(%s, %s) = %s, want %s", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestUnifyBasic(t *testing.T) {
	u := NewUnionTable()
	v := u.Fresh()
	if err := u.Unify(v, Int); err != nil {
		t.Fatal(err)
	}
	if got := u.Zonk(v); got.String() != "Int" {
		t.Fatalf("got %s, want Int", got)
	}
}

func TestUnifyOccursCheck(t *testing.T) {
	u := NewUnionTable()
	v := u.Fresh()
	seq := Seq{Elem: v}
	if err := u.Unify(v, seq); err == nil {
		t.Fatal("expected occurs check failure")
	}
}

func TestUnifyMismatch(t *testing.T) {
	u := NewUnionTable()
	if err := u.Unify(Int, String); err == nil {
		t.Fatal("expected a unification failure between Int and String")
	}
}

func TestZonkIdempotent(t *testing.T) {
	u := NewUnionTable()
	v := u.Fresh()
	if err := u.Unify(v, Seq{Elem: Int}); err != nil {
		t.Fatal(err)
	}
	once := u.Zonk(v)
	twice := u.Zonk(once)
	if once.String() != twice.String() {
		t.Fatalf("zonk not idempotent: %s vs %s", once, twice)
	}
}

func TestZonkUnresolvedIsUnknown(t *testing.T) {
	u := NewUnionTable()
	v := u.Fresh()
	if got := u.Zonk(v); got.String() != "Unknown" {
		t.Fatalf("got %s, want Unknown", got)
	}
}

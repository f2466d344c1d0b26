package discovery

import (
	"testing"

	"logaffeine/internal/lexer"
)

func TestDiscover_StructDeclaration(t *testing.T) {
	src := "Define Point as a structure:\n" +
		"    x is a Int.\n" +
		"    y is a Int.\n"
	toks := lexer.New(src).Tokenize()
	reg, _, err := Discover(toks)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	sd, ok := reg.Structs["Point"]
	if !ok {
		t.Fatalf("expected a discovered struct named Point, got %v", reg.Structs)
	}
	if len(sd.Fields) != 2 || sd.Fields[0].Name != "x" || sd.Fields[1].Name != "y" {
		t.Fatalf("expected fields [x, y], got %v", sd.Fields)
	}
}

func TestDiscover_EnumDeclaration(t *testing.T) {
	src := "Define Shape as an enumeration:\n" +
		"    Circle with radius as a Float.\n" +
		"    Square.\n"
	toks := lexer.New(src).Tokenize()
	reg, _, err := Discover(toks)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	ed, ok := reg.Enums["Shape"]
	if !ok {
		t.Fatalf("expected a discovered enum named Shape, got %v", reg.Enums)
	}
	if len(ed.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d: %v", len(ed.Variants), ed.Variants)
	}
	if ed.Variants[0].Name != "Circle" || len(ed.Variants[0].Payload) != 1 {
		t.Fatalf("expected Circle variant with one payload field, got %+v", ed.Variants[0])
	}
	if ed.Variants[1].Name != "Square" || len(ed.Variants[1].Payload) != 0 {
		t.Fatalf("expected a payload-less Square variant, got %+v", ed.Variants[1])
	}
}

// Ordinary program statements that happen to start with a DEFINE-shaped
// word but don't match either declaration body leave the registry empty
// rather than erroring.
func TestDiscover_IgnoresNonDeclarations(t *testing.T) {
	toks := lexer.New("## Main\nLet x be 5.\nReturn x.\n").Tokenize()
	reg, pol, err := Discover(toks)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(reg.Structs) != 0 || len(reg.Enums) != 0 {
		t.Fatalf("expected no declarations discovered, got structs=%v enums=%v", reg.Structs, reg.Enums)
	}
	if pol == nil {
		t.Fatalf("expected a non-nil (if empty) policy registry")
	}
}

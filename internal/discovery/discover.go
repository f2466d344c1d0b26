package discovery

import (
	"fmt"
	"strings"

	"logaffeine/internal/token"
	"logaffeine/internal/typesystem"
)

// Discover performs the one linear scan over the token stream that builds
// the type registry consulted by the parser (spec.md §2 item 3, §4
// intro). It also returns a policy registry, which it leaves empty: no
// policy declaration shape is recognized. It recognizes two declaration
// shapes:
//
//	Define <Name> as a structure:
//	    <field> is a <Type>.
//	    ...
//
//	Define <Name> as an enumeration:
//	    <Variant>.
//	    <Variant> with <field> as a <Type>.
//	    ...
//
// Everything else is skipped over (the parser's own recursive-descent
// handles statements and logical-form sentences; the discovery pass only
// needs to find declaration headers, exactly as the teacher's
// `analyzer/declarations.go` does a single forward pass looking only for
// `type`/`alias` tokens and ignoring the rest of the program).
func Discover(toks []token.Token) (*Registry, *PolicyRegistry, error) {
	reg := New()
	pol := NewPolicyRegistry()

	i := 0
	for i < len(toks) {
		if toks[i].Kind == token.DEFINE {
			consumed, err := discoverDeclaration(toks[i:], reg)
			if err != nil {
				return nil, nil, err
			}
			if consumed > 0 {
				i += consumed
				continue
			}
		}
		i++
	}
	return reg, pol, nil
}

// word reports whether t is the closed-class glue word w, matched on the
// surface Lexeme rather than Lemma: the lemmatizer's suffix-stripping
// heuristic is meant for content words and mangles short function words
// like "as" and "is".
func word(t token.Token, w string) bool {
	return strings.ToLower(t.Lexeme) == w
}

// discoverDeclaration attempts to parse one declaration header starting at
// toks[0] == DEFINE. It returns 0 (consuming nothing) if the shape
// doesn't match, so the caller advances past it as an ordinary statement
// instead.
func discoverDeclaration(toks []token.Token, reg *Registry) (int, error) {
	i := 1 // past DEFINE
	if i >= len(toks) || (toks[i].Kind != token.IDENT && toks[i].Kind != token.AMBIGUOUS) {
		return 0, nil
	}
	name := toks[i].Lexeme
	i++
	if i < len(toks) && word(toks[i], "as") {
		i++
	}
	if i >= len(toks) || toks[i].Kind != token.ARTICLE {
		return 0, nil
	}
	i++
	if i >= len(toks) {
		return 0, nil
	}

	switch {
	case word(toks[i], "structure"):
		i++
		return scanStructBody(toks, i, name, reg)
	case word(toks[i], "enumeration") || word(toks[i], "enum"):
		i++
		return scanEnumBody(toks, i, name, reg)
	}
	return 0, nil
}

// scanStructBody expects `:` INDENT (field-line)* DEDENT starting at i.
func scanStructBody(toks []token.Token, i int, name string, reg *Registry) (int, error) {
	if i >= len(toks) || toks[i].Kind != token.COLON {
		return 0, nil
	}
	i++
	for i < len(toks) && toks[i].Kind == token.NEWLINE {
		i++
	}
	if i >= len(toks) || toks[i].Kind != token.INDENT {
		return 0, nil
	}
	i++

	def := &StructDef{Name: name}
	for i < len(toks) && toks[i].Kind != token.DEDENT {
		if toks[i].Kind == token.NEWLINE {
			i++
			continue
		}
		if toks[i].Kind != token.IDENT && toks[i].Kind != token.AMBIGUOUS {
			return 0, fmt.Errorf("discovery: expected field name in structure %q", name)
		}
		fieldName := toks[i].Lexeme
		i++
		if i >= len(toks) || !word(toks[i], "is") {
			return 0, fmt.Errorf("discovery: expected 'is' after field %q in structure %q", fieldName, name)
		}
		i++
		if i >= len(toks) || toks[i].Kind != token.ARTICLE {
			return 0, fmt.Errorf("discovery: expected article before field type for %q", fieldName)
		}
		i++
		if i >= len(toks) || (toks[i].Kind != token.IDENT && toks[i].Kind != token.AMBIGUOUS) {
			return 0, fmt.Errorf("discovery: expected a type name for field %q", fieldName)
		}
		fieldType := typeFromName(toks[i].Lexeme)
		i++
		if i < len(toks) && toks[i].Kind == token.DOT {
			i++
		}
		def.Fields = append(def.Fields, Field{Name: fieldName, Type: fieldType})
	}
	if i >= len(toks) {
		return 0, fmt.Errorf("discovery: unterminated structure %q", name)
	}
	i++ // past DEDENT
	reg.Structs[name] = def
	return i, nil // consumed tokens from "Define" through DEDENT
}

// scanEnumBody expects `:` INDENT (variant-line)* DEDENT starting at i.
func scanEnumBody(toks []token.Token, i int, name string, reg *Registry) (int, error) {
	if i >= len(toks) || toks[i].Kind != token.COLON {
		return 0, nil
	}
	i++
	for i < len(toks) && toks[i].Kind == token.NEWLINE {
		i++
	}
	if i >= len(toks) || toks[i].Kind != token.INDENT {
		return 0, nil
	}
	i++

	def := &EnumDef{Name: name}
	for i < len(toks) && toks[i].Kind != token.DEDENT {
		if toks[i].Kind == token.NEWLINE {
			i++
			continue
		}
		if toks[i].Kind != token.IDENT && toks[i].Kind != token.AMBIGUOUS {
			return 0, fmt.Errorf("discovery: expected variant name in enumeration %q", name)
		}
		variant := Variant{Name: toks[i].Lexeme}
		i++
		if i < len(toks) && word(toks[i], "with") {
			i++
			for i < len(toks) && toks[i].Kind != token.DOT {
				if toks[i].Kind == token.IDENT || toks[i].Kind == token.AMBIGUOUS {
					payloadField := toks[i].Lexeme
					_ = payloadField
					i++
					if i < len(toks) && word(toks[i], "as") {
						i++
					}
					if i < len(toks) && toks[i].Kind == token.ARTICLE {
						i++
					}
					if i < len(toks) && (toks[i].Kind == token.IDENT || toks[i].Kind == token.AMBIGUOUS) {
						variant.Payload = append(variant.Payload, typeFromName(toks[i].Lexeme))
						i++
					}
				} else {
					i++
				}
			}
		}
		if i < len(toks) && toks[i].Kind == token.DOT {
			i++
		}
		def.Variants = append(def.Variants, variant)
	}
	if i >= len(toks) {
		return 0, fmt.Errorf("discovery: unterminated enumeration %q", name)
	}
	i++ // past DEDENT
	reg.Enums[name] = def
	return i, nil
}

// typeFromName resolves a surface type-name token to a typesystem.Type,
// falling back to UserDefined for names the discovery pass hasn't
// registered yet (forward references are resolved later by inference,
// which reads the now-complete registry).
func typeFromName(name string) typesystem.Type {
	switch name {
	case "Int":
		return typesystem.Int
	case "Nat":
		return typesystem.Nat
	case "Float":
		return typesystem.Float
	case "Bool":
		return typesystem.Bool
	case "Char":
		return typesystem.Char
	case "Byte":
		return typesystem.Byte
	case "String":
		return typesystem.String
	case "Unit":
		return typesystem.Unit
	case "Duration":
		return typesystem.Duration
	case "Date":
		return typesystem.Date
	case "Moment":
		return typesystem.Moment
	case "Time":
		return typesystem.Time
	case "Span":
		return typesystem.Span
	default:
		return typesystem.UserDefined{Name: name}
	}
}

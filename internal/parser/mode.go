package parser

// ModeFlags bundles the five mode flags that parameterize the
// declarative grammar (spec.md §4.1: "a recursive-descent parser over a
// finite grammar of sentence shapes, parameterized by five mode flags").
// All five commute except that NounPriority must dominate EventReading
// when both apply (spec.md §4 REDESIGN FLAGS, "Multiple mode flags"),
// which is why EventReading() below consults NounPriority first rather
// than the two being independent bits.
type ModeFlags struct {
	NounPriority   bool
	Collective     bool
	PPAttachToNoun bool
	eventReading   bool
	NegativeDepth  uint32
}

// EventReading reports whether the parser should build a neo-Davidsonian
// event representation for the current verb. NounPriority dominates: a
// sentence read in noun-priority mode (a possessive NP, e.g.) never
// also triggers event-reading for the same span.
func (m ModeFlags) EventReading() bool {
	if m.NounPriority {
		return false
	}
	return m.eventReading
}

// SetEventReading sets the underlying flag; EventReading() still applies
// the dominance rule on read.
func (m *ModeFlags) SetEventReading(v bool) {
	m.eventReading = v
}

// Negative reports whether the current position is under an odd number
// of negation operators (grounded on original_source's
// `is_negative_context`: `negative_depth % 2 == 1`).
func (m ModeFlags) Negative() bool {
	return m.NegativeDepth%2 == 1
}

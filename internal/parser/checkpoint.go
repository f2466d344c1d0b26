package parser

// ParserCheckpoint snapshots every piece of mutable parser state touched
// by a speculative branch, so TryParse can roll back cleanly on failure
// (spec.md §4.1, §4 REDESIGN FLAGS "Checkpoint/restore for speculative
// parsing"; grounded on original_source's `parser::mod::ParserCheckpoint`
// and its `checkpoint`/`restore` pair).
//
// Every speculative branch in the grammar goes through TryParse; no
// ad-hoc position save/restore is permitted outside it (spec.md §4.1).
type ParserCheckpoint struct {
	pos           int
	varCounter    int
	bindingsLen   int
	island        int
	pendingTense  string
	negativeDepth uint32
}

// checkpoint captures the parser's current position and counters.
func (p *Parser) checkpoint() ParserCheckpoint {
	return ParserCheckpoint{
		pos:           p.pos,
		varCounter:    p.varCounter,
		bindingsLen:   len(p.donkeyBindings),
		island:        p.island,
		pendingTense:  p.pendingTense,
		negativeDepth: p.flags.NegativeDepth,
	}
}

// restore rewinds the parser to a previously captured checkpoint.
func (p *Parser) restore(cp ParserCheckpoint) {
	p.pos = cp.pos
	p.varCounter = cp.varCounter
	if cp.bindingsLen <= len(p.donkeyBindings) {
		p.donkeyBindings = p.donkeyBindings[:cp.bindingsLen]
	}
	p.island = cp.island
	p.pendingTense = cp.pendingTense
	p.flags.NegativeDepth = cp.negativeDepth
}

// TryParse runs op speculatively: on success it commits (leaves parser
// state as op left it and returns the result, true); on failure it rolls
// back to the pre-call checkpoint and returns the zero value, false.
func TryParse[T any](p *Parser, op func(p *Parser) (T, error)) (T, bool) {
	cp := p.checkpoint()
	result, err := op(p)
	if err != nil {
		p.restore(cp)
		var zero T
		return zero, false
	}
	return result, true
}

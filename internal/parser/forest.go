package parser

import (
	"strconv"

	"logaffeine/internal/ast"
	"logaffeine/internal/config"
	"logaffeine/internal/intern"
)

// Reading is one candidate logical form produced for an ambiguous
// sentence, tagged with the mode-flag combination that produced it.
type Reading struct {
	Expr  ast.LogicExpr
	Flags ModeFlags
}

// ParseForest parses one declarative sentence under every combination of
// mode flags that could plausibly apply (lexical, attachment, plurality,
// and event-adjective ambiguity per spec.md §4.1 "parse_forest()"),
// deduplicating structurally identical results and truncating at
// config.MaxForestReadings — the cap the source imposes without
// justification (spec.md §9; see DESIGN.md).
//
// Every candidate is parsed via TryParse so a dead-end reading rolls the
// parser position back cleanly before the next combination is tried.
func (p *Parser) ParseForest() ([]Reading, error) {
	startCP := p.checkpoint()
	var readings []Reading

	combos := flagCombinations()
	var firstErr error
	for _, flags := range combos {
		if len(readings) >= config.MaxForestReadings {
			break
		}
		p.restore(startCP)
		expr, ok := TryParse(p, func(pp *Parser) (ast.LogicExpr, error) {
			return pp.parseLogicExpr(flags)
		})
		if !ok {
			continue
		}
		if !containsEquivalent(readings, expr) {
			readings = append(readings, Reading{Expr: expr, Flags: flags})
		}
	}
	if len(readings) == 0 {
		// Re-run once under default flags to surface a real parse error.
		p.restore(startCP)
		_, err := p.parseLogicExpr(ModeFlags{})
		if err != nil {
			firstErr = err
		}
		p.restore(startCP)
		return nil, firstErr
	}
	// Commit the parser position by re-parsing the primary (first)
	// reading; the other readings' token counts are not compared.
	p.restore(startCP)
	p.parseLogicExpr(readings[0].Flags)
	return readings, nil
}

// flagCombinations enumerates the mode-flag settings ParseForest tries,
// in a fixed order so the primary (first) reading is deterministic:
// noun_priority dominates event_reading (spec.md §4 REDESIGN FLAGS), so
// combinations with NounPriority true are listed first.
func flagCombinations() []ModeFlags {
	var combos []ModeFlags
	for _, np := range []bool{true, false} {
		for _, coll := range []bool{false, true} {
			for _, pp := range []bool{false, true} {
				for _, ev := range []bool{false, true} {
					f := ModeFlags{NounPriority: np, Collective: coll, PPAttachToNoun: pp}
					f.SetEventReading(ev)
					combos = append(combos, f)
				}
			}
		}
	}
	return combos
}

// containsEquivalent reports whether expr is structurally identical (by
// pretty-printed shape) to an existing reading, a cheap dedup since full
// alpha-equivalence checking isn't worth the complexity for a forest cap
// this small.
func containsEquivalent(readings []Reading, expr ast.LogicExpr) bool {
	shape := shapeOf(expr)
	for _, r := range readings {
		if shapeOf(r.Expr) == shape {
			return true
		}
	}
	return false
}

// shapeOf renders a coarse structural signature of a logical form, deep
// enough to dedupe genuinely identical parses without the cost of a full
// equality visitor.
func shapeOf(e ast.LogicExpr) string {
	if e == nil {
		return ""
	}
	v := &shapeVisitor{}
	e.Accept(v)
	return v.out
}

type shapeVisitor struct {
	ast.BaseLogicVisitor
	out string
}

func (s *shapeVisitor) VisitAtom(n *ast.Atom)         { s.out = "Atom(" + sym(n.Name) + ")" }
func (s *shapeVisitor) VisitVariable(n *ast.Variable) { s.out = "Var(" + sym(n.Name) + ")" }
func (s *shapeVisitor) VisitPredicate(n *ast.Predicate) {
	s.out = "Pred(" + sym(n.Name) + "," + shapeOfAll(n.Args) + ")"
}
func (s *shapeVisitor) VisitBinaryOp(n *ast.BinaryOp) {
	s.out = "Bin(" + n.Op + "," + shapeOf(n.Left) + "," + shapeOf(n.Right) + ")"
}
func (s *shapeVisitor) VisitUnaryOp(n *ast.UnaryOp) {
	s.out = "Un(" + n.Op + "," + shapeOf(n.Operand) + ")"
}
func (s *shapeVisitor) VisitQuantifier(n *ast.Quantifier) {
	s.out = "Q(" + shapeOf(n.Body) + ")"
}
func (s *shapeVisitor) VisitModal(n *ast.Modal) {
	s.out = "Modal(" + string(n.Vector) + "," + shapeOf(n.Operand) + ")"
}
func (s *shapeVisitor) VisitNeoDavidsonianEvent(n *ast.NeoDavidsonianEvent) {
	s.out = "Ev(" + sym(n.Verb) + ")"
}
func (s *shapeVisitor) VisitDefiniteDescription(n *ast.DefiniteDescription) {
	s.out = "The(" + sym(n.Predicate) + ")"
}

func shapeOfAll(args []ast.LogicExpr) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += ";"
		}
		out += shapeOf(a)
	}
	return out
}

func sym(s intern.Symbol) string { return strconv.Itoa(int(s)) }

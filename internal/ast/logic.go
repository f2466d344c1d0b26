// Package ast holds the two AST shapes the parser produces: logical-form
// expressions (this file) for declarative blocks, and statements
// (stmt.go) for imperative blocks, per spec.md §3.
package ast

import (
	"logaffeine/internal/intern"
	"logaffeine/internal/token"
)

// LogicExpr is the base interface every logical-form node implements,
// mirroring the teacher's Node/Accept(Visitor) shape (funxy internal/ast).
type LogicExpr interface {
	GetToken() token.Token
	Accept(v LogicVisitor)
	logicExprNode()
}

// QuantifierKind enumerates the quantifier kinds spec.md §3 lists.
type QuantifierKind int

const (
	QUniversal QuantifierKind = iota
	QExistential
	QMost
	QFew
	QMany
	QCardinal   // carries N
	QAtLeast    // carries N
	QAtMost     // carries N
	QGeneric
)

// EventConvention names which of the two event-variable conventions a
// NeoDavidsonianEvent node uses. spec.md §9 flags that the source mixes
// both without resolving which is canonical; DESIGN.md records that we
// keep both rather than pick one.
type EventConvention int

const (
	EventTemplate EventConvention = iota // reuses a captured Parser.EventTemplate
	FreshEventVar                        // allocates a brand new event variable per occurrence
)

// ThematicRole names a neo-Davidsonian semantic role.
type ThematicRole string

const (
	RoleAgent     ThematicRole = "Agent"
	RoleTheme     ThematicRole = "Theme"
	RoleRecipient ThematicRole = "Recipient"
	RoleInstrument ThematicRole = "Instrument"
	RoleLocation  ThematicRole = "Location"
)

// Atom is an irreducible logical constant (a proper name or constant
// referent).
type Atom struct {
	Token token.Token
	Name  intern.Symbol
}

func (n *Atom) GetToken() token.Token  { return n.Token }
func (n *Atom) Accept(v LogicVisitor)  { v.VisitAtom(n) }
func (n *Atom) logicExprNode()         {}

// Variable is a bound or free logical variable, allocated deterministically
// by the parser's variable-allocation scheme (spec.md §4.1).
type Variable struct {
	Token token.Token
	Name  intern.Symbol
}

func (n *Variable) GetToken() token.Token { return n.Token }
func (n *Variable) Accept(v LogicVisitor) { v.VisitVariable(n) }
func (n *Variable) logicExprNode()        {}

// Predicate applies Name to Args, e.g. mortal(x) or loves(x, y).
type Predicate struct {
	Token token.Token
	Name  intern.Symbol
	Args  []LogicExpr
}

func (n *Predicate) GetToken() token.Token { return n.Token }
func (n *Predicate) Accept(v LogicVisitor) { v.VisitPredicate(n) }
func (n *Predicate) logicExprNode()        {}

// BinaryOp is a binary logical/comparison connective (and, or, implies,
// equals, ...).
type BinaryOp struct {
	Token token.Token
	Op    string
	Left  LogicExpr
	Right LogicExpr
}

func (n *BinaryOp) GetToken() token.Token { return n.Token }
func (n *BinaryOp) Accept(v LogicVisitor) { v.VisitBinaryOp(n) }
func (n *BinaryOp) logicExprNode()        {}

// UnaryOp is a unary connective, chiefly negation.
type UnaryOp struct {
	Token token.Token
	Op    string
	Operand LogicExpr
}

func (n *UnaryOp) GetToken() token.Token { return n.Token }
func (n *UnaryOp) Accept(v LogicVisitor) { v.VisitUnaryOp(n) }
func (n *UnaryOp) logicExprNode()        {}

// Identity is a.k.a `=`: asserts two terms denote the same individual.
type Identity struct {
	Token token.Token
	Left  LogicExpr
	Right LogicExpr
}

func (n *Identity) GetToken() token.Token { return n.Token }
func (n *Identity) Accept(v LogicVisitor) { v.VisitIdentity(n) }
func (n *Identity) logicExprNode()        {}

// Quantifier binds Variable in Body under Kind, scoped to IslandID (a
// quantifier-scope boundary a bound variable may not escape; see GLOSSARY
// "Island id"). N carries the cardinal/at-least/at-most count when Kind
// needs one.
type Quantifier struct {
	Token    token.Token
	Kind     QuantifierKind
	N        int
	Bound    *Variable
	Body     LogicExpr
	IslandID int
	// HasExceptionClause marks a generic quantifier that carries an
	// explicit exception (used by the semantic-axioms pass to decide
	// whether to normalize `generic` to "most" semantics).
	HasExceptionClause bool
}

func (n *Quantifier) GetToken() token.Token { return n.Token }
func (n *Quantifier) Accept(v LogicVisitor) { v.VisitQuantifier(n) }
func (n *Quantifier) logicExprNode()        {}

// ModalVector names the flavor of modality (deontic, epistemic, ...).
type ModalVector string

const (
	ModalDeontic  ModalVector = "deontic"
	ModalEpistemic ModalVector = "epistemic"
)

// Modal wraps Operand in a modal operator.
type Modal struct {
	Token   token.Token
	Vector  ModalVector
	Operand LogicExpr
}

func (n *Modal) GetToken() token.Token { return n.Token }
func (n *Modal) Accept(v LogicVisitor) { v.VisitModal(n) }
func (n *Modal) logicExprNode()        {}

// TemporalOperator names a tense/temporal-logic operator.
type TemporalOperator string

const (
	TemporalPast   TemporalOperator = "past"
	TemporalFuture TemporalOperator = "future"
	TemporalAlways TemporalOperator = "always"
)

// Temporal wraps Body in a temporal operator.
type Temporal struct {
	Token    token.Token
	Operator TemporalOperator
	Body     LogicExpr
}

func (n *Temporal) GetToken() token.Token { return n.Token }
func (n *Temporal) Accept(v LogicVisitor) { v.VisitTemporal(n) }
func (n *Temporal) logicExprNode()        {}

// AspectualOperator names a grammatical-aspect operator.
type AspectualOperator string

const (
	AspectPerfect     AspectualOperator = "perfect"
	AspectProgressive AspectualOperator = "progressive"
	AspectHabitual    AspectualOperator = "habitual"
)

// Aspectual wraps Body in an aspectual operator.
type Aspectual struct {
	Token    token.Token
	Operator AspectualOperator
	Body     LogicExpr
}

func (n *Aspectual) GetToken() token.Token { return n.Token }
func (n *Aspectual) Accept(v LogicVisitor) { v.VisitAspectual(n) }
func (n *Aspectual) logicExprNode()        {}

// Lambda is a logical abstraction over Bound in Body.
type Lambda struct {
	Token token.Token
	Bound *Variable
	Body  LogicExpr
}

func (n *Lambda) GetToken() token.Token { return n.Token }
func (n *Lambda) Accept(v LogicVisitor) { v.VisitLambda(n) }
func (n *Lambda) logicExprNode()        {}

// Focus marks Operand as the information-structural focus of the clause
// (used by cleft and it-cleft readings).
type Focus struct {
	Token   token.Token
	Operand LogicExpr
}

func (n *Focus) GetToken() token.Token { return n.Token }
func (n *Focus) Accept(v LogicVisitor) { v.VisitFocus(n) }
func (n *Focus) logicExprNode()        {}

// Metaphor wraps a source-domain predicate applied to a target-domain
// argument, e.g. "time is money" readings.
type Metaphor struct {
	Token  token.Token
	Source LogicExpr
	Target LogicExpr
}

func (n *Metaphor) GetToken() token.Token { return n.Token }
func (n *Metaphor) Accept(v LogicVisitor) { v.VisitMetaphor(n) }
func (n *Metaphor) logicExprNode()        {}

// QuestionKind distinguishes polar from wh-questions.
type QuestionKind int

const (
	QuestionPolar QuestionKind = iota
	QuestionWh
)

// Question wraps Body, optionally binding a wh-variable.
type Question struct {
	Token   token.Token
	Kind    QuestionKind
	WhVar   *Variable
	Body    LogicExpr
}

func (n *Question) GetToken() token.Token { return n.Token }
func (n *Question) Accept(v LogicVisitor) { v.VisitQuestion(n) }
func (n *Question) logicExprNode()        {}

// RoleArg pairs a thematic role with its filler term.
type RoleArg struct {
	Role ThematicRole
	Term LogicExpr
}

// NeoDavidsonianEvent represents a verb as a predicate over an event
// variable with thematic roles and modifiers as separate conjuncts
// (GLOSSARY "Neo-Davidsonian event").
type NeoDavidsonianEvent struct {
	Token      token.Token
	Verb       intern.Symbol
	Roles      []RoleArg
	Modifiers  []intern.Symbol
	EventVar   *Variable
	Convention EventConvention
}

func (n *NeoDavidsonianEvent) GetToken() token.Token { return n.Token }
func (n *NeoDavidsonianEvent) Accept(v LogicVisitor) { v.VisitNeoDavidsonianEvent(n) }
func (n *NeoDavidsonianEvent) logicExprNode()        {}

// SpeechActKind names the illocutionary force of a SpeechAct node.
type SpeechActKind string

const (
	SpeechAssertion SpeechActKind = "assertion"
	SpeechQuestion  SpeechActKind = "question"
	SpeechCommand   SpeechActKind = "command"
)

// SpeechAct wraps Body with an illocutionary force.
type SpeechAct struct {
	Token token.Token
	Kind  SpeechActKind
	Body  LogicExpr
}

func (n *SpeechAct) GetToken() token.Token { return n.Token }
func (n *SpeechAct) Accept(v LogicVisitor) { v.VisitSpeechAct(n) }
func (n *SpeechAct) logicExprNode()        {}

// Superlative represents "the most/least ADJ(x)" comparisons over a
// comparison class.
type Superlative struct {
	Token          token.Token
	Adjective      intern.Symbol
	Most           bool // false = "least"
	ComparisonSet  LogicExpr
	Bound          *Variable
}

func (n *Superlative) GetToken() token.Token { return n.Token }
func (n *Superlative) Accept(v LogicVisitor) { v.VisitSuperlative(n) }
func (n *Superlative) logicExprNode()        {}

// TemporalAnchor anchors Body to a concrete point or interval in time.
type TemporalAnchor struct {
	Token token.Token
	Anchor string // e.g. "now", "yesterday", an ISO date surface form
	Body  LogicExpr
}

func (n *TemporalAnchor) GetToken() token.Token { return n.Token }
func (n *TemporalAnchor) Accept(v LogicVisitor) { v.VisitTemporalAnchor(n) }
func (n *TemporalAnchor) logicExprNode()        {}

// DefiniteDescription represents "the F" prior to the semantic-axioms
// pass rewriting it into an existential-plus-uniqueness form (spec.md §8
// Boundary: "a definite description in declarative mode produces a
// uniqueness axiom").
type DefiniteDescription struct {
	Token     token.Token
	Predicate intern.Symbol
	Bound     *Variable
}

func (n *DefiniteDescription) GetToken() token.Token { return n.Token }
func (n *DefiniteDescription) Accept(v LogicVisitor) { v.VisitDefiniteDescription(n) }
func (n *DefiniteDescription) logicExprNode()        {}

// LogicVisitor is the double-dispatch interface over LogicExpr, mirroring
// the teacher's Visitor pattern (funxy internal/ast).
type LogicVisitor interface {
	VisitAtom(*Atom)
	VisitVariable(*Variable)
	VisitPredicate(*Predicate)
	VisitBinaryOp(*BinaryOp)
	VisitUnaryOp(*UnaryOp)
	VisitIdentity(*Identity)
	VisitQuantifier(*Quantifier)
	VisitModal(*Modal)
	VisitTemporal(*Temporal)
	VisitAspectual(*Aspectual)
	VisitLambda(*Lambda)
	VisitFocus(*Focus)
	VisitMetaphor(*Metaphor)
	VisitQuestion(*Question)
	VisitNeoDavidsonianEvent(*NeoDavidsonianEvent)
	VisitSpeechAct(*SpeechAct)
	VisitSuperlative(*Superlative)
	VisitTemporalAnchor(*TemporalAnchor)
	VisitDefiniteDescription(*DefiniteDescription)
}

// BaseLogicVisitor provides no-op defaults; embed it and override only the
// visits you need, the way partial tree-walkers are written throughout
// the teacher's analyzer package.
type BaseLogicVisitor struct{}

func (BaseLogicVisitor) VisitAtom(*Atom)                                 {}
func (BaseLogicVisitor) VisitVariable(*Variable)                         {}
func (BaseLogicVisitor) VisitPredicate(*Predicate)                       {}
func (BaseLogicVisitor) VisitBinaryOp(*BinaryOp)                         {}
func (BaseLogicVisitor) VisitUnaryOp(*UnaryOp)                           {}
func (BaseLogicVisitor) VisitIdentity(*Identity)                         {}
func (BaseLogicVisitor) VisitQuantifier(*Quantifier)                     {}
func (BaseLogicVisitor) VisitModal(*Modal)                               {}
func (BaseLogicVisitor) VisitTemporal(*Temporal)                         {}
func (BaseLogicVisitor) VisitAspectual(*Aspectual)                       {}
func (BaseLogicVisitor) VisitLambda(*Lambda)                             {}
func (BaseLogicVisitor) VisitFocus(*Focus)                               {}
func (BaseLogicVisitor) VisitMetaphor(*Metaphor)                         {}
func (BaseLogicVisitor) VisitQuestion(*Question)                         {}
func (BaseLogicVisitor) VisitNeoDavidsonianEvent(*NeoDavidsonianEvent)   {}
func (BaseLogicVisitor) VisitSpeechAct(*SpeechAct)                       {}
func (BaseLogicVisitor) VisitSuperlative(*Superlative)                   {}
func (BaseLogicVisitor) VisitTemporalAnchor(*TemporalAnchor)             {}
func (BaseLogicVisitor) VisitDefiniteDescription(*DefiniteDescription)   {}

package discovery

// PredicateDef is a named boolean condition over a type's fields, e.g.
// "a Order is late if its dueDate is before now" (spec.md §3 "Policy
// registry": "Per-type predicate defs (name + boolean condition over
// fields)").
type PredicateDef struct {
	Name      string
	TypeName  string
	Condition PolicyCond
}

// CapabilityDef is a named action-permission rule: "an Admin can delete
// any Document".
type CapabilityDef struct {
	Action    string
	TypeName  string
	ObjectType string
	Condition PolicyCond
}

// PolicyCond is the condition-AST the codegen's policy-driven emission
// lowers literally (spec.md §4.4 "Policy-driven emission"): field-equals,
// field-bool, predicate call, object-field-equals, and/or.
type PolicyCond interface {
	policyCondNode()
}

type FieldEquals struct {
	Field string
	Value any
}

func (FieldEquals) policyCondNode() {}

type FieldBool struct {
	Field string
}

func (FieldBool) policyCondNode() {}

type PredicateCall struct {
	Name string
}

func (PredicateCall) policyCondNode() {}

// ObjectFieldEquals compares a field on the capability's subject type to
// a field on its object type, e.g. "the Order's owner equals the User".
type ObjectFieldEquals struct {
	SubjectField string
	ObjectField  string
}

func (ObjectFieldEquals) policyCondNode() {}

type And struct{ Left, Right PolicyCond }

func (And) policyCondNode() {}

type Or struct{ Left, Right PolicyCond }

func (Or) policyCondNode() {}

// PolicyRegistry holds the per-type predicate and capability definitions
// discovered alongside the type registry.
type PolicyRegistry struct {
	Predicates   map[string][]PredicateDef
	Capabilities map[string][]CapabilityDef
}

func NewPolicyRegistry() *PolicyRegistry {
	return &PolicyRegistry{
		Predicates:   make(map[string][]PredicateDef),
		Capabilities: make(map[string][]CapabilityDef),
	}
}

func (p *PolicyRegistry) AddPredicate(d PredicateDef) {
	p.Predicates[d.TypeName] = append(p.Predicates[d.TypeName], d)
}

func (p *PolicyRegistry) AddCapability(d CapabilityDef) {
	p.Capabilities[d.TypeName] = append(p.Capabilities[d.TypeName], d)
}

package ast

// NodeID is an opaque handle into an Arena. AST shapes are always trees
// (DESIGN NOTES: "cyclic references never arise because every AST shape
// is a tree; back-edges live in separate side tables"), so an arena index
// is sufficient; no node ever needs to outlive the arena that owns it.
type NodeID int

// Arena is a bump allocator for LogicExpr nodes, scoped to one parse
// (one compilation unit in batch mode, one sentence-or-block in
// incremental/REPL use). Nodes reference each other by NodeID into the
// same Arena, never by pointer into another arena.
type Arena struct {
	nodes []LogicExpr
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Add appends n and returns its stable NodeID within this arena.
func (a *Arena) Add(n LogicExpr) NodeID {
	a.nodes = append(a.nodes, n)
	return NodeID(len(a.nodes) - 1)
}

// Get resolves a NodeID to its node.
func (a *Arena) Get(id NodeID) LogicExpr {
	return a.nodes[id]
}

// Len reports how many nodes the arena currently holds.
func (a *Arena) Len() int { return len(a.nodes) }

// StmtArena is the statement-tree analogue of Arena.
type StmtArena struct {
	nodes []Stmt
}

func NewStmtArena() *StmtArena { return &StmtArena{} }

func (a *StmtArena) Add(n Stmt) NodeID {
	a.nodes = append(a.nodes, n)
	return NodeID(len(a.nodes) - 1)
}

func (a *StmtArena) Get(id NodeID) Stmt { return a.nodes[id] }

func (a *StmtArena) Len() int { return len(a.nodes) }

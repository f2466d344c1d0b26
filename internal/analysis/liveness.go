package analysis

import (
	"logaffeine/internal/ast"
	"logaffeine/internal/intern"
)

// LivenessInfo answers spec.md §4.3's `live_after(fn, stmt_index)`: the
// set of variables used by any later reachable statement. Keyed by
// statement identity (pointer equality; every Stmt node in this AST is a
// distinct pointer), since the source grammar has no explicit statement
// index the way the spec's prose does.
type LivenessInfo struct {
	liveAfter map[ast.Stmt]map[intern.Symbol]bool
}

// LiveAfter reports the variables live immediately after s, or an empty
// set if s was never visited by ComputeLiveness.
func (li *LivenessInfo) LiveAfter(s ast.Stmt) map[intern.Symbol]bool {
	if set, ok := li.liveAfter[s]; ok {
		return set
	}
	return map[intern.Symbol]bool{}
}

// IsLiveAfter reports whether v is used by some statement reachable
// after s.
func (li *LivenessInfo) IsLiveAfter(s ast.Stmt, v intern.Symbol) bool {
	return li.LiveAfter(s)[v]
}

// ComputeLiveness runs the backward dataflow of spec.md §4.3 over one
// function body: `If`/`While`/`Inspect` merge successor live-sets by
// union at the join.
func ComputeLiveness(fn *ast.FunctionDef) *LivenessInfo {
	li := &LivenessInfo{liveAfter: make(map[ast.Stmt]map[intern.Symbol]bool)}
	analyzeBlock(li, fn.Body, map[intern.Symbol]bool{})
	return li
}

// analyzeBlock walks stmts backward. liveAfterBlock is what's live once
// the whole list finishes (i.e. the live-set flowing in from whatever
// follows this block); it returns what's live entering the first
// statement of the block.
func analyzeBlock(li *LivenessInfo, stmts []ast.Stmt, liveAfterBlock map[intern.Symbol]bool) map[intern.Symbol]bool {
	live := cloneSet(liveAfterBlock)
	for i := len(stmts) - 1; i >= 0; i-- {
		s := stmts[i]
		li.liveAfter[s] = cloneSet(live)
		live = transferBackward(li, s, live)
	}
	return live
}

// transferBackward computes the live-before set for one statement given
// its live-after set, recording nested blocks' own liveness along the
// way.
func transferBackward(li *LivenessInfo, s ast.Stmt, liveAfter map[intern.Symbol]bool) map[intern.Symbol]bool {
	switch n := s.(type) {
	case *ast.Let:
		live := cloneSet(liveAfter)
		delete(live, n.Var)
		addUses(live, n.Value)
		return live
	case *ast.Set:
		live := cloneSet(liveAfter)
		addUses(live, n.Value)
		return live
	case *ast.SetIndex:
		live := cloneSet(liveAfter)
		live[n.Collection] = true
		addUses(live, n.Index)
		addUses(live, n.Value)
		return live
	case *ast.SetField:
		live := cloneSet(liveAfter)
		live[n.Object] = true
		addUses(live, n.Value)
		return live
	case *ast.Return:
		live := cloneSet(liveAfter)
		addUses(live, n.Value)
		return live
	case *ast.If:
		thenBefore := analyzeBlock(li, n.Then, liveAfter)
		elseBefore := liveAfter
		if n.Otherwise != nil {
			elseBefore = analyzeBlock(li, n.Otherwise, liveAfter)
		}
		live := unionSet(thenBefore, elseBefore)
		addUses(live, n.Cond)
		return live
	case *ast.While:
		bodyBefore := analyzeBlock(li, n.Body, liveAfter)
		live := unionSet(liveAfter, bodyBefore)
		addUses(live, n.Cond)
		return live
	case *ast.Repeat:
		bodyBefore := analyzeBlock(li, n.Body, liveAfter)
		delete(bodyBefore, n.Var) // freshly bound each iteration
		live := unionSet(liveAfter, bodyBefore)
		addUses(live, n.Iterable)
		return live
	case *ast.Zone:
		return analyzeBlock(li, n.Body, liveAfter)
	case *ast.Inspect:
		live := cloneSet(liveAfter)
		for _, cs := range n.Cases {
			caseBefore := analyzeBlock(li, cs.Body, liveAfter)
			live = unionSet(live, caseBefore)
		}
		addUses(live, n.Scrutinee)
		return live
	case *ast.Call:
		live := cloneSet(liveAfter)
		for _, a := range n.Args {
			addUses(live, a)
		}
		return live
	case *ast.Give:
		live := cloneSet(liveAfter)
		addUses(live, n.Object)
		return live
	case *ast.Show:
		live := cloneSet(liveAfter)
		addUses(live, n.Object)
		return live
	case *ast.ReadFrom:
		live := cloneSet(liveAfter)
		delete(live, n.Var)
		addUses(live, n.Source)
		return live
	case *ast.Pop:
		live := cloneSet(liveAfter)
		delete(live, n.Var)
		addUses(live, n.Collection)
		return live
	case *ast.ReceivePipe:
		live := cloneSet(liveAfter)
		delete(live, n.Var)
		addUses(live, n.Pipe)
		return live
	case *ast.CreatePipe:
		live := cloneSet(liveAfter)
		delete(live, n.Var)
		return live
	case *ast.AwaitMessage:
		live := cloneSet(liveAfter)
		delete(live, n.Var)
		return live
	case *ast.Concurrent:
		live := cloneSet(liveAfter)
		for _, t := range n.Tasks {
			live = unionSet(live, analyzeBlock(li, t, liveAfter))
		}
		return live
	case *ast.Parallel:
		live := cloneSet(liveAfter)
		for _, t := range n.Tasks {
			live = unionSet(live, analyzeBlock(li, t, liveAfter))
		}
		return live
	case *ast.FunctionDef:
		ComputeLiveness(n)
		return cloneSet(liveAfter)
	default:
		return cloneSet(liveAfter)
	}
}

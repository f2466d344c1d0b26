package codegen

import (
	"fmt"

	"logaffeine/internal/ast"
	"logaffeine/internal/intern"
)

// peepholeRule is one entry of spec.md §4.4's ordered catalog: given the
// statement stream starting at i, it either fires (returning the Rust text
// to emit and how many leading statements it consumed) or declines.
type peepholeRule func(g *Generator, stmts []ast.Stmt, i int) (string, int, bool)

// peepholeCatalog is applied in this fixed order at every statement site
// (spec.md §4.4 table, rows 1-10). The first rule to fire wins; if none
// fire the statement falls through to the default emission path.
var peepholeCatalog []peepholeRule

// The catalog is filled in init: peepholeHoistBuffer emits nested
// statements through tryPeephole, so a static initializer would be cyclic.
func init() {
	peepholeCatalog = []peepholeRule{
		peepholeToVecFromSource, // 1: push-copy loop onto a freshly-declared dest -> src.to_vec()
		peepholeVecFill,         // 2: vec fill with constant -> vec![k; n]
		peepholeExtendFromSlice, // 3: push-copy loop onto an existing dest -> extend_from_slice
		peepholeWithCapacity,    // 4: empty alloc then N pushes -> Vec::with_capacity(N)
		peepholeMergeCapacity,   // 5: merge-two allocation -> capacity = sum of source lengths
		peepholeStringWithCap,   // 6: empty string then N pushes -> String::with_capacity(N)
		peepholeHoistBuffer,     // 7: buffer reused across while iterations -> hoist, clear+swap
		peepholeRangeLoop,       // 8: integer for i in a..b -> range loop (the body is not inspected)
		peepholeMemSwap,         // 9: swap via temporary -> mem::swap
		peepholeRotateLeft,      // 10: shift loop by one -> rotate_left(1)
	}
}

// tryPeephole walks the catalog in order and returns the first match.
func tryPeephole(g *Generator, stmts []ast.Stmt, i int) (string, int, bool) {
	if g.noPeephole {
		return "", 0, false
	}
	for _, rule := range peepholeCatalog {
		if text, n, ok := rule(g, stmts, i); ok {
			return text, n, true
		}
	}
	return "", 0, false
}

func isPushCall(g *Generator, s ast.Stmt) (collection, value ast.Expr, ok bool) {
	call, isCall := s.(*ast.Call)
	if !isCall {
		return nil, nil, false
	}
	if g.resolve(call.Callee) != "push" || len(call.Args) != 2 {
		return nil, nil, false
	}
	return call.Args[0], call.Args[1], true
}

func isRangeCall(g *Generator, e ast.Expr) (*ast.CallExpr, bool) {
	call, ok := e.(*ast.CallExpr)
	if !ok || g.resolve(call.Callee) != "range" {
		return nil, false
	}
	return call, true
}

// precededByEmptyLet reports whether stmts[i-1] is a Let that declares
// name as a freshly empty vector, the adjacency peepholeToVecFromSource
// requires to distinguish "this dest was just allocated" from "this dest
// already held elements and the loop is appending onto it" (the latter
// is peepholeExtendFromSlice's territory).
func precededByEmptyLet(stmts []ast.Stmt, i int, name intern.Symbol) bool {
	if i == 0 {
		return false
	}
	letStmt, ok := stmts[i-1].(*ast.Let)
	return ok && letStmt.Var == name && isEmptyVecLit(letStmt.Value)
}

// peepholeToVecFromSource: `Let dest be []. Repeat v in src { Call push
// with dest, v. }` -> `dest = src.to_vec();`. Requires dest to have been
// freshly declared empty on the immediately preceding statement;
// otherwise the loop is appending onto an existing vec and
// peepholeExtendFromSlice applies instead.
func peepholeToVecFromSource(g *Generator, stmts []ast.Stmt, i int) (string, int, bool) {
	rep, ok := stmts[i].(*ast.Repeat)
	if !ok || len(rep.Body) != 1 {
		return "", 0, false
	}
	coll, val, ok := isPushCall(g, rep.Body[0])
	if !ok {
		return "", 0, false
	}
	dest, isIdent := coll.(*ast.Ident)
	if !isIdent {
		return "", 0, false
	}
	valIdent, isVal := val.(*ast.Ident)
	if !isVal || valIdent.Name != rep.Var {
		return "", 0, false
	}
	if !precededByEmptyLet(stmts, i, dest.Name) {
		return "", 0, false
	}
	src := g.exprText(rep.Iterable)
	return fmt.Sprintf("%s = %s.to_vec();", g.resolve(dest.Name), src), 1, true
}

// peepholeVecFill: `Repeat v in range(0, n) { Call push with dest, k. }`
// with k a literal constant -> `dest = vec![k; n];`
func peepholeVecFill(g *Generator, stmts []ast.Stmt, i int) (string, int, bool) {
	rep, ok := stmts[i].(*ast.Repeat)
	if !ok || len(rep.Body) != 1 {
		return "", 0, false
	}
	coll, val, ok := isPushCall(g, rep.Body[0])
	if !ok {
		return "", 0, false
	}
	dest, isIdent := coll.(*ast.Ident)
	if !isIdent {
		return "", 0, false
	}
	if !isConstant(val) {
		return "", 0, false
	}
	rangeCall, isRange := isRangeCall(g, rep.Iterable)
	if !isRange || len(rangeCall.Args) != 2 {
		return "", 0, false
	}
	if lo, isLit := rangeCall.Args[0].(*ast.IntLit); !isLit || lo.Value != 0 {
		return "", 0, false
	}
	n := g.exprText(rangeCall.Args[1])
	k := g.exprText(val)
	return fmt.Sprintf("%s = vec![%s; %s];", g.resolve(dest.Name), k, n), 1, true
}

// peepholeExtendFromSlice: `Repeat v in src { Call push with dest, v. }`
// with no preceding empty-vec Let for dest (it already holds elements, or
// was declared further back) -> `dest.extend_from_slice(&src);`. Covers
// the copy-by-push shape peepholeToVecFromSource declines because its
// Let-adjacency precondition doesn't hold.
func peepholeExtendFromSlice(g *Generator, stmts []ast.Stmt, i int) (string, int, bool) {
	rep, ok := stmts[i].(*ast.Repeat)
	if !ok || len(rep.Body) != 1 {
		return "", 0, false
	}
	coll, val, ok := isPushCall(g, rep.Body[0])
	if !ok {
		return "", 0, false
	}
	dest, isIdent := coll.(*ast.Ident)
	valIdent, isVal := val.(*ast.Ident)
	if !isIdent || !isVal || valIdent.Name != rep.Var {
		return "", 0, false
	}
	src := g.exprText(rep.Iterable)
	return fmt.Sprintf("%s.extend_from_slice(&%s);", g.resolve(dest.Name), src), 1, true
}

// peepholeWithCapacity: an empty Let immediately followed by a Repeat that
// pushes exactly once per iteration of a statically sized range -> emit
// the allocation with the known capacity instead of growing on the fly.
func peepholeWithCapacity(g *Generator, stmts []ast.Stmt, i int) (string, int, bool) {
	if i+1 >= len(stmts) {
		return "", 0, false
	}
	letStmt, isLet := stmts[i].(*ast.Let)
	if !isLet || !isEmptyVecLit(letStmt.Value) {
		return "", 0, false
	}
	rep, isRepeat := stmts[i+1].(*ast.Repeat)
	if !isRepeat || len(rep.Body) != 1 {
		return "", 0, false
	}
	coll, _, ok := isPushCall(g, rep.Body[0])
	if !ok {
		return "", 0, false
	}
	dest, isIdent := coll.(*ast.Ident)
	if !isIdent || dest.Name != letStmt.Var {
		return "", 0, false
	}
	rangeCall, isRange := isRangeCall(g, rep.Iterable)
	if !isRange || len(rangeCall.Args) != 2 {
		return "", 0, false
	}
	cap := g.exprText(rangeCall.Args[1])
	return fmt.Sprintf("let mut %s = Vec::with_capacity(%s as usize);", g.resolve(letStmt.Var), cap), 1, true
}

// peepholeMergeCapacity: two sequential push-loops over two different
// sources into the same fresh destination -> preallocate with the summed
// length instead of growing twice.
func peepholeMergeCapacity(g *Generator, stmts []ast.Stmt, i int) (string, int, bool) {
	if i+2 >= len(stmts) {
		return "", 0, false
	}
	letStmt, isLet := stmts[i].(*ast.Let)
	if !isLet || !isEmptyVecLit(letStmt.Value) {
		return "", 0, false
	}
	first, ok1 := stmts[i+1].(*ast.Repeat)
	second, ok2 := stmts[i+2].(*ast.Repeat)
	if !ok1 || !ok2 {
		return "", 0, false
	}
	c1, v1, ok := isPushCall(g, firstOrNil(first))
	if !ok {
		return "", 0, false
	}
	c2, v2, ok := isPushCall(g, firstOrNil(second))
	if !ok {
		return "", 0, false
	}
	d1, isD1 := c1.(*ast.Ident)
	d2, isD2 := c2.(*ast.Ident)
	if !isD1 || !isD2 || d1.Name != letStmt.Var || d2.Name != letStmt.Var {
		return "", 0, false
	}
	vi1, ok1v := v1.(*ast.Ident)
	vi2, ok2v := v2.(*ast.Ident)
	if !ok1v || !ok2v || vi1.Name != first.Var || vi2.Name != second.Var {
		return "", 0, false
	}
	src1 := g.exprText(first.Iterable)
	src2 := g.exprText(second.Iterable)
	return fmt.Sprintf("let mut %s = Vec::with_capacity(%s.len() + %s.len());",
		g.resolve(letStmt.Var), src1, src2), 1, true
}

func firstOrNil(rep *ast.Repeat) ast.Stmt {
	if len(rep.Body) != 1 {
		return nil
	}
	return rep.Body[0]
}

// peepholeStringWithCap: same shape as peepholeWithCapacity but the
// destination is a fresh empty string.
func peepholeStringWithCap(g *Generator, stmts []ast.Stmt, i int) (string, int, bool) {
	if i+1 >= len(stmts) {
		return "", 0, false
	}
	letStmt, isLet := stmts[i].(*ast.Let)
	if !isLet || !isEmptyStringLit(letStmt.Value) {
		return "", 0, false
	}
	rep, isRepeat := stmts[i+1].(*ast.Repeat)
	if !isRepeat || len(rep.Body) != 1 {
		return "", 0, false
	}
	coll, _, ok := isPushCall(g, rep.Body[0])
	if !ok {
		return "", 0, false
	}
	dest, isIdent := coll.(*ast.Ident)
	if !isIdent || dest.Name != letStmt.Var {
		return "", 0, false
	}
	rangeCall, isRange := isRangeCall(g, rep.Iterable)
	if !isRange || len(rangeCall.Args) != 2 {
		return "", 0, false
	}
	cap := g.exprText(rangeCall.Args[1])
	return fmt.Sprintf("let mut %s = String::with_capacity(%s as usize);", g.resolve(letStmt.Var), cap), 1, true
}

// peepholeHoistBuffer: a buffer declared and cleared at the top of every
// `While` iteration is hoisted above the loop and cleared in place
// (`buf.clear()`) instead of reallocating each pass.
func peepholeHoistBuffer(g *Generator, stmts []ast.Stmt, i int) (string, int, bool) {
	w, ok := stmts[i].(*ast.While)
	if !ok || len(w.Body) == 0 {
		return "", 0, false
	}
	letStmt, isLet := w.Body[0].(*ast.Let)
	if !isLet || !isEmptyVecLit(letStmt.Value) {
		return "", 0, false
	}
	var sb []string
	sb = append(sb, fmt.Sprintf("let mut %s = Vec::new();", g.resolve(letStmt.Var)))
	sb = append(sb, fmt.Sprintf("while %s {", g.exprText(w.Cond)))
	sb = append(sb, fmt.Sprintf("%s.clear();", g.resolve(letStmt.Var)))
	g.indent++
	for _, s := range w.Body[1:] {
		sb = append(sb, g.emitStmtText(s))
	}
	g.indent--
	sb = append(sb, "}")
	return joinLines(sb), 1, true
}

// peepholeRangeLoop: `Repeat i in range(a,b) { ... }` -> a plain
// `for i in a..b` range loop rather than an iterator adapter. It fires for
// every Repeat over a two-argument range call; the body is not inspected
// for indexed use of i.
func peepholeRangeLoop(g *Generator, stmts []ast.Stmt, i int) (string, int, bool) {
	rep, ok := stmts[i].(*ast.Repeat)
	if !ok {
		return "", 0, false
	}
	rangeCall, isRange := isRangeCall(g, rep.Iterable)
	if !isRange || len(rangeCall.Args) != 2 {
		return "", 0, false
	}
	lo := g.exprText(rangeCall.Args[0])
	hi := g.exprText(rangeCall.Args[1])
	var sb []string
	sb = append(sb, fmt.Sprintf("for %s in %s..%s {", g.resolve(rep.Var), lo, hi))
	g.indent++
	for _, s := range rep.Body {
		sb = append(sb, g.emitStmtText(s))
	}
	g.indent--
	sb = append(sb, "}")
	return joinLines(sb), 1, true
}

// peepholeMemSwap: `Let tmp = a. Set a = b. Set b = tmp.` -> mem::swap.
func peepholeMemSwap(g *Generator, stmts []ast.Stmt, i int) (string, int, bool) {
	if i+2 >= len(stmts) {
		return "", 0, false
	}
	letStmt, isLet := stmts[i].(*ast.Let)
	if !isLet {
		return "", 0, false
	}
	aFromTmp, isIdentA := letStmt.Value.(*ast.Ident)
	if !isIdentA {
		return "", 0, false
	}
	set1, ok1 := stmts[i+1].(*ast.Set)
	set2, ok2 := stmts[i+2].(*ast.Set)
	if !ok1 || !ok2 {
		return "", 0, false
	}
	bVal, isIdentB := set1.Value.(*ast.Ident)
	if !isIdentB || set1.Var != aFromTmp.Name {
		return "", 0, false
	}
	tmpVal, isIdentT := set2.Value.(*ast.Ident)
	if !isIdentT || tmpVal.Name != letStmt.Var || set2.Var != bVal.Name {
		return "", 0, false
	}
	return fmt.Sprintf("std::mem::swap(&mut %s, &mut %s);", g.resolve(set1.Var), g.resolve(set2.Var)), 3, true
}

// peepholeRotateLeft: `Repeat i in range(1, n) { set item i-1 of xs to item
// i of xs. }` (a by-one left shift written as a loop) -> rotate_left(1).
func peepholeRotateLeft(g *Generator, stmts []ast.Stmt, i int) (string, int, bool) {
	rep, ok := stmts[i].(*ast.Repeat)
	if !ok || len(rep.Body) != 1 {
		return "", 0, false
	}
	setIdx, isSetIdx := rep.Body[0].(*ast.SetIndex)
	if !isSetIdx {
		return "", 0, false
	}
	idxExpr, isIdx := setIdx.Value.(*ast.IndexExpr)
	if !isIdx {
		return "", 0, false
	}
	srcColl, isIdent := idxExpr.Collection.(*ast.Ident)
	if !isIdent || srcColl.Name != setIdx.Collection {
		return "", 0, false
	}
	rangeCall, isRange := isRangeCall(g, rep.Iterable)
	if !isRange || len(rangeCall.Args) != 2 {
		return "", 0, false
	}
	dst, isDst := setIdx.Index.(*ast.BinExpr)
	src, isSrc := idxExpr.Index.(*ast.Ident)
	if !isDst || dst.Op != "minus" || !isSrc || src.Name != rep.Var {
		return "", 0, false
	}
	dv, isDv := dst.Left.(*ast.Ident)
	one, isOne := dst.Right.(*ast.IntLit)
	if !isDv || !isOne || dv.Name != rep.Var || one.Value != 1 {
		return "", 0, false
	}
	return fmt.Sprintf("%s.rotate_left(1);", g.resolve(setIdx.Collection)), 1, true
}

func isConstant(e ast.Expr) bool {
	switch e.(type) {
	case *ast.IntLit, *ast.FloatLit, *ast.BoolLit, *ast.StringLit:
		return true
	}
	return false
}

func isEmptyVecLit(e ast.Expr) bool {
	lit, ok := e.(*ast.ListLit)
	return ok && len(lit.Elements) == 0
}

func isEmptyStringLit(e ast.Expr) bool {
	lit, ok := e.(*ast.StringLit)
	return ok && lit.Value == ""
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}

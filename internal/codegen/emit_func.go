package codegen

import (
	"fmt"
	"strings"

	"logaffeine/internal/ast"
	"logaffeine/internal/config"
	"logaffeine/internal/discovery"
	"logaffeine/internal/intern"
	"logaffeine/internal/typesystem"
)

// emitFunction dispatches fn to one of the six per-class emitters
// (spec.md §4.4 "Per-function dispatch"), guarding against a function
// being emitted twice when a nested local FunctionDef reuses the name.
func (g *Generator) emitFunction(fn *ast.FunctionDef, all []*ast.FunctionDef) {
	if g.emittedFuncs[fn.Name] {
		return
	}
	g.emittedFuncs[fn.Name] = true

	prevFn, prevNoPeephole, prevLiveness := g.currentFn, g.noPeephole, g.currentLiveness
	g.currentFn = fn.Name
	g.noPeephole = fn.Annotations[config.AnnotationNoPeephole]
	g.currentLiveness = g.liveness[fn.Name]
	defer func() {
		g.currentFn, g.noPeephole, g.currentLiveness = prevFn, prevNoPeephole, prevLiveness
	}()

	class, data := g.classify(fn, all)
	switch class {
	case ClassClosedForm:
		g.emitClosedForm(fn, data.(ClosedFormShape))
	case ClassTCE:
		g.emitTCE(fn)
	case ClassAccumulator:
		g.emitAccumulator(fn)
	case ClassMemoization:
		g.emitMemoized(fn)
	default:
		// ClassMutualTCE is detected here but, absent a two-state
		// trampoline encoding, conservatively falls back to an ordinary
		// recursive emission (correct, just not stack-bounded); building
		// the full cross-function trampoline is left for a future pass
		// (DESIGN.md).
		g.emitPlain(fn)
	}
}

func (g *Generator) emitPlain(fn *ast.FunctionDef) {
	g.emitFnSignatureAndFFI(fn, false, func() {
		g.emitStmt(fn.Body, 0)
	})
}

// emitClosedForm emits the non-recursive shifted form of the recurrence
// classify recognized (spec.md §4.4 item 1).
func (g *Generator) emitClosedForm(fn *ast.FunctionDef, shape ClosedFormShape) {
	g.emitFnSignatureAndFFI(fn, false, func() {
		g.writeLine(fmt.Sprintf("(((%d + %d) << (%s as u32)) - %d)", shape.Base, shape.K, g.resolve(shape.Param), shape.K))
	})
}

// emitTCE rewrites every self-tail-call into a loop-carried parameter
// rebind plus `continue` (spec.md §4.4 item 2).
func (g *Generator) emitTCE(fn *ast.FunctionDef) {
	g.emitFnSignatureAndFFI(fn, true, func() {
		g.writeLine("loop {")
		g.indent++
		g.emitTCEBody(fn.Body, fn.Name, fn.Params)
		g.indent--
		g.writeLine("}")
	})
}

// emitTCEBody mirrors isTailRecursive's own tail/non-tail walk: every
// statement but the last of a block is emitted ordinarily, and a last
// statement that is either a tail self-call Return or a nested If gets
// the tail-position treatment recursively.
func (g *Generator) emitTCEBody(stmts []ast.Stmt, self intern.Symbol, params []ast.Param) {
	if len(stmts) == 0 {
		return
	}
	for _, s := range stmts[:len(stmts)-1] {
		g.emitOneStmt(s)
	}
	last := stmts[len(stmts)-1]
	switch n := last.(type) {
	case *ast.Return:
		if n.Value != nil {
			if call, ok := n.Value.(*ast.CallExpr); ok && call.Callee == self {
				g.emitTailRebind(params, call.Args)
				g.writeLine("continue;")
				return
			}
		}
		g.emitOneStmt(last)
	case *ast.If:
		g.writeLine(fmt.Sprintf("if %s {", g.exprText(n.Cond)))
		g.indent++
		g.emitTCEBody(n.Then, self, params)
		g.indent--
		if len(n.Otherwise) > 0 {
			g.writeLine("} else {")
			g.indent++
			g.emitTCEBody(n.Otherwise, self, params)
			g.indent--
		}
		g.writeLine("}")
	default:
		g.emitOneStmt(last)
	}
}

// emitTailRebind evaluates every new argument into a temporary before
// assigning back into the loop-carried parameters, so a tail call whose
// arguments reference each other's old values (e.g. a swap) rebinds
// correctly instead of reading partially updated state.
func (g *Generator) emitTailRebind(params []ast.Param, args []ast.Expr) {
	n := len(params)
	if len(args) < n {
		n = len(args)
	}
	for i := 0; i < n; i++ {
		g.writeLine(fmt.Sprintf("let __tce%d = %s;", i, g.exprText(args[i])))
	}
	for i := 0; i < n; i++ {
		g.writeLine(fmt.Sprintf("%s = __tce%d;", g.resolve(params[i].Name), i))
	}
}

// emitAccumulator rewrites the single non-tail recursive call wrapped in
// +/* into an explicit loop carrying an accumulator (spec.md §4.4 item
// 4). It recognizes the common shape matchAccumulator validated plus a
// leading base-case If, which covers every accumulator example spec.md
// §8 gives; a body shaped more richly than that still classifies as
// ClassAccumulator from dispatch.go's narrower check but is emitted here
// conservatively via the same loop skeleton.
func (g *Generator) emitAccumulator(fn *ast.FunctionDef) {
	last := fn.Body[len(fn.Body)-1].(*ast.Return)
	bin := last.Value.(*ast.BinExpr)
	var call *ast.CallExpr
	var other ast.Expr
	if c, ok := bin.Left.(*ast.CallExpr); ok {
		call, other = c, bin.Right
	} else {
		call, _ = bin.Right.(*ast.CallExpr)
		other = bin.Left
	}
	identity := "0"
	if bin.Op == "times" {
		identity = "1"
	}
	retType := g.funcReturnType(fn)

	g.emitFnSignatureAndFFI(fn, false, func() {
		g.writeLine(fmt.Sprintf("let mut acc: %s = %s;", retType, identity))
		for _, p := range fn.Params {
			g.writeLine(fmt.Sprintf("let mut %s = %s;", g.resolve(p.Name), g.resolve(p.Name)))
		}
		g.writeLine("loop {")
		g.indent++
		for _, s := range fn.Body[:len(fn.Body)-1] {
			if handled := g.emitAccumulatorBaseCase(s, bin.Op); handled {
				continue
			}
			g.emitOneStmt(s)
		}
		// Plain target integer arithmetic with no overflow check: what an
		// overflowing accumulator does is whatever the target's own
		// arithmetic does.
		g.writeLine(fmt.Sprintf("acc = %s;", combineOp(bin.Op, "acc", g.exprText(other))))
		if call != nil {
			g.emitTailRebind(fn.Params, call.Args)
		}
		g.indent--
		g.writeLine("}")
	})
}

// emitAccumulatorBaseCase recognizes `If cond: Return <literal-or-expr>.`
// as the recurrence's base case and emits the loop's early-exit combining
// the accumulator with the base value, reporting whether it handled s.
func (g *Generator) emitAccumulatorBaseCase(s ast.Stmt, op string) bool {
	ifs, ok := s.(*ast.If)
	if !ok || len(ifs.Then) != 1 || len(ifs.Otherwise) != 0 {
		return false
	}
	baseReturn, ok := ifs.Then[0].(*ast.Return)
	if !ok || baseReturn.Value == nil {
		return false
	}
	g.writeLine(fmt.Sprintf("if %s {", g.exprText(ifs.Cond)))
	g.indent++
	g.writeLine(fmt.Sprintf("return %s;", combineOp(op, "acc", g.exprText(baseReturn.Value))))
	g.indent--
	g.writeLine("}")
	return true
}

func combineOp(op, a, b string) string {
	if op == "times" {
		return fmt.Sprintf("(%s * %s)", a, b)
	}
	return fmt.Sprintf("(%s + %s)", a, b)
}

// emitMemoized wraps the body in a thread-local cache keyed by the
// parameter tuple, computing once and cloning thereafter (spec.md §4.4
// item 5). isMemoCandidate already guarantees every parameter is
// readonly and hashable.
func (g *Generator) emitMemoized(fn *ast.FunctionDef) {
	name := g.resolve(fn.Name)
	ret := g.funcReturnType(fn)
	keyType := g.memoKeyType(fn)
	cacheName := strings.ToUpper(name) + "_MEMO"

	g.writeLine("thread_local! {")
	g.indent++
	g.writeLine(fmt.Sprintf("static %s: std::cell::RefCell<std::collections::HashMap<%s, %s>> = std::cell::RefCell::new(std::collections::HashMap::new());", cacheName, keyType, ret))
	g.indent--
	g.writeLine("}")

	key := g.memoKeyExpr(fn)
	g.emitFnSignatureAndFFI(fn, false, func() {
		g.writeLine(fmt.Sprintf("if let Some(v) = %s.with(|c| c.borrow().get(&%s).cloned()) {", cacheName, key))
		g.indent++
		g.writeLine("return v;")
		g.indent--
		g.writeLine("}")
		g.writeLine("let __memo_result = (|| {")
		g.indent++
		g.emitStmt(fn.Body, 0)
		g.indent--
		g.writeLine("})();")
		g.writeLine(fmt.Sprintf("%s.with(|c| c.borrow_mut().insert(%s, __memo_result.clone()));", cacheName, key))
		g.writeLine("__memo_result")
	})
}

func (g *Generator) memoKeyType(fn *ast.FunctionDef) string {
	if len(fn.Params) == 1 {
		return g.paramRustType(fn, 0)
	}
	var ts []string
	for i := range fn.Params {
		ts = append(ts, g.paramRustType(fn, i))
	}
	return "(" + strings.Join(ts, ", ") + ")"
}

func (g *Generator) memoKeyExpr(fn *ast.FunctionDef) string {
	if len(fn.Params) == 1 {
		return g.resolve(fn.Params[0].Name)
	}
	var ns []string
	for _, p := range fn.Params {
		ns = append(ns, g.resolve(p.Name))
	}
	return "(" + strings.Join(ns, ", ") + ")"
}

// emitFnSignatureAndFFI renders fn's signature, dispatching to the FFI
// wrapper shape for an exported function (spec.md §4.4 "FFI emission":
// a safe inner function plus a catch_unwind extern "C" or #[wasm_bindgen]
// wrapper), and runs body (already indented one level in) as its block.
func (g *Generator) emitFnSignatureAndFFI(fn *ast.FunctionDef, mutParams bool, body func()) {
	name := g.resolve(fn.Name)
	retType := g.funcReturnType(fn)
	params := g.funcParamsOpt(fn, mutParams)

	if fn.Exported && fn.ExportedABI == "wasm" {
		g.hasWasmExport = true
		g.writeLine("#[wasm_bindgen]")
		g.writeLine(fmt.Sprintf("pub fn %s(%s) -> %s {", name, params, retType))
		g.indent++
		body()
		g.indent--
		g.writeLine("}")
		return
	}

	if fn.Exported && (fn.ExportedABI == "" || fn.ExportedABI == "c") {
		g.writeLine(fmt.Sprintf("fn %s_impl(%s) -> %s {", name, params, retType))
		g.indent++
		body()
		g.indent--
		g.writeLine("}")
		g.writeLine("")
		g.writeLine(fmt.Sprintf("#[export_name = %q]", name))
		g.writeLine(fmt.Sprintf("pub extern \"C\" fn %s(%s) -> %s {", name, g.ffiParams(fn), g.ffiReturnType(fn)))
		g.indent++
		g.writeLine("let result = std::panic::catch_unwind(|| {")
		g.indent++
		g.writeLine(fmt.Sprintf("%s_impl(%s)", name, g.ffiCallArgs(fn)))
		g.indent--
		g.writeLine("});")
		g.writeLine("match result {")
		g.indent++
		g.writeLine(fmt.Sprintf("Ok(v) => %s,", g.ffiWrapReturn(fn)))
		g.writeLine("Err(e) => {")
		g.indent++
		g.writeLine("set_last_error(format!(\"{:?}\", e));")
		g.writeLine(g.ffiErrReturn(fn))
		g.indent--
		g.writeLine("}")
		g.indent--
		g.writeLine("}")
		g.indent--
		g.writeLine("}")
		return
	}

	sig := "fn"
	if g.hasAsync && fnHasSuspension(fn) {
		sig = "async fn"
	}
	g.writeLine(fmt.Sprintf("%s %s(%s) -> %s {", sig, name, params, retType))
	g.indent++
	body()
	g.indent--
	g.writeLine("}")
}

// fnHasSuspension reports whether fn's own body (not a nested
// FunctionDef) contains an async suspension point, deciding whether its
// signature needs the `async` keyword.
func fnHasSuspension(fn *ast.FunctionDef) bool {
	found := false
	var walk func([]ast.Stmt)
	walk = func(ss []ast.Stmt) {
		for _, s := range ss {
			switch n := s.(type) {
			case *ast.ReceivePipe:
				if !n.Try {
					found = true
				}
			case *ast.AwaitMessage:
				found = true
			case *ast.Concurrent:
				found = true
			case *ast.If:
				walk(n.Then)
				walk(n.Otherwise)
			case *ast.While:
				walk(n.Body)
			case *ast.Repeat:
				walk(n.Body)
			case *ast.Zone:
				walk(n.Body)
			case *ast.Inspect:
				for _, cs := range n.Cases {
					walk(cs.Body)
				}
			}
		}
	}
	walk(fn.Body)
	return found
}

// ffiParams/ffiReturnType/ffiCallArgs/ffiWrapReturn/ffiErrReturn marshal
// the common primitive and String cases across the C ABI boundary; a
// struct/enum parameter or return crossing FFI is out of this pass's
// scope (spec.md §4.4 names only the error-slot and panic-catching
// convention, not a full struct marshaling scheme).
func (g *Generator) ffiParams(fn *ast.FunctionDef) string {
	var parts []string
	for i, p := range fn.Params {
		t := g.paramRustType(fn, i)
		if t == "String" {
			parts = append(parts, fmt.Sprintf("%s: *const std::os::raw::c_char", g.resolve(p.Name)))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", g.resolve(p.Name), t))
	}
	return strings.Join(parts, ", ")
}

func (g *Generator) ffiReturnType(fn *ast.FunctionDef) string {
	if g.funcReturnType(fn) == "String" {
		return "*mut std::os::raw::c_char"
	}
	return g.funcReturnType(fn)
}

func (g *Generator) ffiCallArgs(fn *ast.FunctionDef) string {
	var parts []string
	for i, p := range fn.Params {
		if g.paramRustType(fn, i) == "String" {
			parts = append(parts, fmt.Sprintf("unsafe { std::ffi::CStr::from_ptr(%s) }.to_string_lossy().into_owned()", g.resolve(p.Name)))
			continue
		}
		parts = append(parts, g.resolve(p.Name))
	}
	return strings.Join(parts, ", ")
}

func (g *Generator) ffiWrapReturn(fn *ast.FunctionDef) string {
	if g.funcReturnType(fn) == "String" {
		return "std::ffi::CString::new(v).unwrap().into_raw()"
	}
	return "v"
}

func (g *Generator) ffiErrReturn(fn *ast.FunctionDef) string {
	t := g.funcReturnType(fn)
	if t == "String" {
		return "std::ptr::null_mut()"
	}
	return zeroValue(t)
}

func zeroValue(rustType string) string {
	switch rustType {
	case "i64", "u64", "u8":
		return "0"
	case "f64":
		return "0.0"
	case "bool":
		return "false"
	case "char":
		return "'\\0'"
	case "()":
		return "()"
	}
	return "Default::default()"
}

// funcParams renders a parameter list honoring the readonly/mutable-
// borrow analyses' by-reference decision (spec.md §4.3/§4.4).
func (g *Generator) funcParams(fn *ast.FunctionDef) string {
	return g.funcParamsOpt(fn, false)
}

func (g *Generator) funcParamsOpt(fn *ast.FunctionDef, forceMut bool) string {
	var parts []string
	for i, p := range fn.Params {
		t := g.paramRustType(fn, i)
		switch {
		case forceMut:
			parts = append(parts, fmt.Sprintf("mut %s: %s", g.resolve(p.Name), t))
		case g.readonly != nil && g.readonly.IsReadonly(fn.Name, i):
			parts = append(parts, fmt.Sprintf("%s: &%s", g.resolve(p.Name), t))
		case g.borrow != nil && g.borrow.IsMutableBorrow(fn.Name, i):
			parts = append(parts, fmt.Sprintf("%s: &mut %s", g.resolve(p.Name), t))
		default:
			parts = append(parts, fmt.Sprintf("%s: %s", g.resolve(p.Name), t))
		}
	}
	return strings.Join(parts, ", ")
}

func (g *Generator) funcReturnType(fn *ast.FunctionDef) string {
	if sig, ok := g.env.LookupFunc(fn.Name); ok {
		return g.rustType(sig.Return)
	}
	return g.rustType(surfaceTypeFromName(fn.ReturnType, g.registry))
}

func (g *Generator) paramRustType(fn *ast.FunctionDef, i int) string {
	if sig, ok := g.env.LookupFunc(fn.Name); ok && i < len(sig.Params) {
		return g.rustType(sig.Params[i])
	}
	if i < len(fn.Params) {
		return g.rustType(surfaceTypeFromName(fn.Params[i].TypeName, g.registry))
	}
	return "_"
}

// surfaceTypeFromName maps a Param/FunctionDef's surface type-name string
// (spec.md §3 primitive type names, or a registry struct/enum name) to
// its typesystem.Type, the inverse of the surface grammar's type
// annotations rather than of ToRustType/FromRustTypeStr (which round-trip
// Rust type strings, not surface names).
func surfaceTypeFromName(name string, reg *discovery.Registry) typesystem.Type {
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
	case "Unit", "":
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
	}
	if reg != nil {
		if t := reg.Lookup(name); t.String() != "Unknown" {
			return t
		}
	}
	return typesystem.Unknown{}
}

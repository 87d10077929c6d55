package compiler

import (
	"wasmcore/internal/ast"
	"wasmcore/internal/diag"
	"wasmcore/internal/ir"
	"wasmcore/internal/source"
	"wasmcore/internal/types"
)

// compileSource is spec.md §4.1's compileSource: idempotent on
// NormalizedPath, dispatching every top-level statement by kind.
func (c *Compiler) compileSource(src *ast.Source) {
	if c.files[src.NormalizedPath] {
		return
	}
	c.files[src.NormalizedPath] = true

	for _, stmt := range src.Statements {
		c.compileTopLevelStmt(src, stmt)
	}
}

func (c *Compiler) compileTopLevelStmt(src *ast.Source, stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ClassDeclStmt:
		if c.shouldCompileDecl(src, s.Generic, s.Export) {
			c.compileClassTopLevel(s)
		}
	case *ast.FuncDeclStmt:
		if c.shouldCompileDecl(src, s.Generic, s.Export) {
			c.compileFunctionTopLevel(s)
		}
	case *ast.EnumDeclStmt:
		if c.shouldCompileTreeShaken(src, s.Export) {
			c.compileEnumTopLevel(s)
		}
	case *ast.NamespaceDeclStmt:
		if c.shouldCompileTreeShaken(src, s.Export) {
			c.compileNamespaceTopLevel(s)
		}
	case *ast.VarDeclStmt:
		if c.shouldCompileTreeShaken(src, s.Export) {
			c.compileGlobalDeclaration(s)
		}
	case *ast.ImportDeclStmt:
		c.compileImport(s)
	case *ast.ExportDeclStmt:
		c.compileExport(src, s)
	default:
		c.lowerTopLevelStmt(stmt)
	}
}

// shouldCompileDecl implements spec.md §4.1's Class/Function eligibility
// rule: non-generic, and (no-tree-shaking or (entry source and exported)).
func (c *Compiler) shouldCompileDecl(src *ast.Source, generic, export bool) bool {
	if generic {
		return false
	}
	return c.shouldCompileTreeShaken(src, export)
}

// shouldCompileTreeShaken implements the Enum/Namespace/Variable rule:
// no-tree-shaking or (entry source and exported).
func (c *Compiler) shouldCompileTreeShaken(src *ast.Source, export bool) bool {
	if c.opts.NoTreeShaking {
		return true
	}
	return src.IsEntry && export
}

// lowerTopLevelStmt handles "Any other statement: lower as a statement into
// the start function's body (save/restore currentFunction)".
func (c *Compiler) lowerTopLevelStmt(stmt ast.Stmt) {
	saved := c.save()
	c.currentFunction = c.startFunction
	n := c.compileStmt(stmt)
	c.appendStart(n)
	c.restore(saved)
}

func (c *Compiler) compileImport(s *ast.ImportDeclStmt) {
	target, ok := c.program.SourceByPath(s.FromPath)
	if !ok {
		c.sink.Error(diag.KindLookup, s.FromPath, "import target not found: %s", s.FromPath)
		return
	}
	c.compileSource(target)
}

func (c *Compiler) compileExport(src *ast.Source, s *ast.ExportDeclStmt) {
	if s.FromPath != "" {
		if target, ok := c.program.SourceByPath(s.FromPath); ok {
			c.compileSource(target)
		} else {
			c.sink.Error(diag.KindLookup, s.FromPath, "re-export target not found: %s", s.FromPath)
			return
		}
	}
	for _, name := range s.Names {
		el := c.resolveDeclElement(name, s.Span)
		if el == nil {
			continue
		}
		if c.shouldCompileTreeShaken(src, true) {
			c.compileElement(el)
		}
	}
}

// compileElement re-dispatches an already-resolved Element through the same
// per-kind compile path a top-level statement would take, used by
// compileExport's "materialize each exported element" step.
func (c *Compiler) compileElement(el *source.Element) {
	switch el.Kind {
	case source.KindGlobal:
		c.compileGlobal(el.GlobalInfo)
	case source.KindEnum:
		c.compileEnum(el.EnumInfo)
	case source.KindFunctionPrototype:
		if inst, err := el.FuncProtoInfo.ResolveInclTypeArguments(nil); err == nil && inst != nil {
			c.compileFunction(inst)
		}
	case source.KindFunction:
		c.compileFunction(el.FunctionInfo)
	case source.KindNamespace:
		c.compileNamespace(el.NamespaceInfo)
	case source.KindClassPrototype, source.KindClass:
		c.compileClass(el)
	}
}

// ---- Function ----

func (c *Compiler) compileFunctionTopLevel(decl *ast.FuncDeclStmt) {
	el := c.resolveDeclElement(decl.Name, decl.Span)
	if el == nil || el.FuncProtoInfo == nil {
		return
	}
	inst, err := el.FuncProtoInfo.ResolveInclTypeArguments(nil)
	if err != nil {
		c.sink.Error(diag.KindType, "", "resolving function %q: %v", decl.Name, err)
		return
	}
	if inst == nil {
		return
	}
	c.compileFunction(inst)
}

// compileFunction is spec.md §4.1's compileFunction: refuses duplicate work
// via isCompiled, requires a statement body, saves/swaps/restores
// currentFunction, lowers the body, then registers the function (with its
// signature, reused or newly registered in the shared type table) and an
// export if the instance carries one.
func (c *Compiler) compileFunction(instance *source.Function) {
	if instance.IsCompiled || instance.IsImport || instance.IsBuiltin {
		return
	}
	if instance.Body == nil {
		c.sink.Error(diag.KindStructural, "", "function %q has no body", instance.InternalName)
		return
	}
	instance.IsCompiled = true

	saved := c.save()
	c.currentFunction = instance
	c.disallowContinue = false
	body := c.compileStmt(instance.Body)
	c.restore(saved)

	sig := ir.FuncSig{Params: c.nativesOf(instance.Params), Result: c.native(instance.ReturnType)}
	typeIdx := c.module.AddFunctionType(sig)
	c.module.AddFunction(&ir.Function{
		Name:       instance.InternalName,
		Sig:        sig,
		TypeIndex:  typeIdx,
		Locals:     c.nativesOf(instance.Locals[len(instance.Params):]),
		Body:       body,
		ExportName: instance.GlobalExportName,
	})
}

// compileClassTopLevel resolves the class element then defers to
// compileClass, the spec.md §4.1 design placeholder.
func (c *Compiler) compileClassTopLevel(decl *ast.ClassDeclStmt) {
	el := c.resolveDeclElement(decl.Name, decl.Span)
	if el == nil {
		return
	}
	c.compileClass(el)
}

// compileClass is an explicit design placeholder (spec.md §4.1): "the design
// reserves this seam for layout computation, field offset assignment,
// method dispatch emission. Not specified further." Reported as
// KindUnsupported rather than silently doing nothing, so a caller can tell
// a class declaration was seen and skipped.
func (c *Compiler) compileClass(el *source.Element) {
	c.sink.Error(diag.KindUnsupported, "", "class compilation is not implemented: %s", el.InternalName)
}

// ---- Namespace ----

func (c *Compiler) compileNamespaceTopLevel(decl *ast.NamespaceDeclStmt) {
	el := c.resolveDeclElement(decl.Name, decl.Span)
	if el == nil || el.NamespaceInfo == nil {
		return
	}
	c.compileNamespace(el.NamespaceInfo)
}

// compileNamespace compiles every member, then reports the design note's
// open question verbatim: the teacher-adjacent source this is derived from
// ends compileNamespaceDeclaration with an unconditional "not implemented"
// error even after fully compiling its members. Whether that's a stale
// throw or a missing post-processing step is ambiguous (spec.md §9 Open
// questions); preserved here rather than silently fixed.
func (c *Compiler) compileNamespace(ns *source.Namespace) {
	for _, member := range ns.Members {
		c.compileElement(member)
	}
	// TODO: ambiguous whether this final error is stale or a missing
	// post-processing step; preserved per spec.md §9.
	c.sink.Error(diag.KindUnsupported, "", "namespace compilation is not implemented: %s", ns.InternalName)
}

// ---- Global ----

func (c *Compiler) compileGlobalDeclaration(decl *ast.VarDeclStmt) {
	for _, d := range decl.Declarators {
		el := c.resolveDeclElement(d.Name, d.Span)
		if el == nil || el.GlobalInfo == nil {
			continue
		}
		c.compileGlobal(el.GlobalInfo)
	}
}

// compileGlobal is spec.md §4.1's compileGlobal, implementing the
// bug fix from spec.md §9: the backend global's native
// type is derived from the logical type (types.NativeOf), not hardcoded to
// i32 as the source this core is grounded on does.
func (c *Compiler) compileGlobal(g *source.Global) {
	if g.IsCompiled {
		return
	}
	if c.module.NoEmit() {
		// determineExpressionType's dry run reaches here for a
		// not-yet-compiled global; discovering its type must not mark it
		// compiled or schedule a start-function initializer.
		return
	}
	g.IsCompiled = true
	native := c.native(g.Type)

	if g.Const != nil {
		c.module.AddGlobal(&ir.Global{
			Name:       g.InternalName,
			Type:       native,
			Mutable:    false,
			Init:       c.constNode(g.Const, native),
			ExportName: exportNameIf(g.Export, g.InternalName),
		})
		return
	}

	if g.Init != nil {
		saved := c.save()
		c.currentFunction = c.startFunction
		value := c.compileExpression(g.Init, g.Type, true)
		c.restore(saved)

		if isLiteralExpr(g.Init) {
			c.module.AddGlobal(&ir.Global{
				Name:       g.InternalName,
				Type:       native,
				Mutable:    false,
				Init:       value,
				ExportName: exportNameIf(g.Export, g.InternalName),
			})
			return
		}

		c.module.AddGlobal(&ir.Global{
			Name:       g.InternalName,
			Type:       native,
			Mutable:    true,
			Init:       c.minusOneOf(native),
			ExportName: exportNameIf(g.Export, g.InternalName),
		})
		c.appendStart(c.module.CreateSetGlobal(g.InternalName, value))
		return
	}

	c.module.AddGlobal(&ir.Global{
		Name:       g.InternalName,
		Type:       native,
		Mutable:    false,
		Init:       c.zeroOf(native),
		ExportName: exportNameIf(g.Export, g.InternalName),
	})
}

func exportNameIf(export bool, name string) string {
	if export {
		return name
	}
	return ""
}

func isLiteralExpr(e ast.Expr) bool {
	switch e.(type) {
	case *ast.IntLit, *ast.FloatLit, *ast.BoolLit, *ast.NullExpr:
		return true
	default:
		return false
	}
}

func (c *Compiler) zeroOf(n types.Native) *ir.Node {
	switch n {
	case types.NativeI64:
		return c.module.CreateI64(0)
	case types.NativeF32:
		return c.module.CreateF32(0)
	case types.NativeF64:
		return c.module.CreateF64(0)
	default:
		return c.module.CreateI32(0)
	}
}

func (c *Compiler) minusOneOf(n types.Native) *ir.Node {
	switch n {
	case types.NativeI64:
		return c.module.CreateI64(-1)
	case types.NativeF32:
		return c.module.CreateF32(-1)
	case types.NativeF64:
		return c.module.CreateF64(-1)
	default:
		return c.module.CreateI32(-1)
	}
}

func (c *Compiler) constNode(cv *source.ConstValue, n types.Native) *ir.Node {
	switch {
	case cv.Type.Kind == types.Bool:
		if cv.Bool {
			return c.module.CreateI32(1)
		}
		return c.module.CreateI32(0)
	case cv.Type.IsAnyFloat():
		if n == types.NativeF32 {
			return c.module.CreateF32(float32(cv.F64))
		}
		return c.module.CreateF64(cv.F64)
	case cv.Type.IsLongInteger():
		return c.module.CreateI64(cv.I64)
	case cv.Type.IsSmallInteger():
		// Small integers are sign-extended or mask-zero-extended to i32 at
		// emit time (spec.md §4.1 compileGlobal).
		width := cv.Type.Size(c.opts.Target)
		if cv.Type.IsSignedInteger() {
			return c.module.CreateI32(int32(types.SignExtend(int32(cv.I64), width)))
		}
		return c.module.CreateI32(int32(types.ZeroMask(uint32(cv.I64), width)))
	default:
		return c.module.CreateI32(int32(cv.I64))
	}
}

// ---- Enum ----

func (c *Compiler) compileEnumTopLevel(decl *ast.EnumDeclStmt) {
	el := c.resolveDeclElement(decl.Name, decl.Span)
	if el == nil || el.EnumInfo == nil {
		return
	}
	c.compileEnum(el.EnumInfo)
}

// compileEnum is spec.md §4.1's compileEnum: for each member in declaration
// order, pick a constant (own constant, explicit initializer, or
// previous+1); emit as i32 globals. Non-literal initializers defer to the
// start function using the placeholder pattern, and — per spec.md §9's open
// question — the start-function ordering must preserve declaration order so
// a later "previous + 1" read of an earlier deferred member observes the
// right runtime value.
func (c *Compiler) compileEnum(en *source.Enum) {
	var previous *ir.Node
	for i, m := range en.Members {
		if m.IsCompiled {
			previous = c.module.CreateGetGlobal(m.InternalName, types.NativeI32)
			continue
		}
		m.IsCompiled = true

		switch {
		case m.Const != nil:
			val := c.module.CreateI32(int32(m.Const.I64))
			c.module.AddGlobal(&ir.Global{Name: m.InternalName, Type: types.NativeI32, Init: val, ExportName: exportNameIf(en.Export, "")})
			previous = c.module.CreateGetGlobal(m.InternalName, types.NativeI32)

		case m.Init != nil:
			saved := c.save()
			c.currentFunction = c.startFunction
			value := c.compileExpression(m.Init, types.I32T(), true)
			c.restore(saved)
			if isLiteralExpr(m.Init) {
				c.module.AddGlobal(&ir.Global{Name: m.InternalName, Type: types.NativeI32, Init: value})
			} else {
				c.module.AddGlobal(&ir.Global{Name: m.InternalName, Type: types.NativeI32, Mutable: true, Init: c.module.CreateI32(-1)})
				c.appendStart(c.module.CreateSetGlobal(m.InternalName, value))
			}
			previous = c.module.CreateGetGlobal(m.InternalName, types.NativeI32)

		default:
			if i == 0 {
				c.module.AddGlobal(&ir.Global{Name: m.InternalName, Type: types.NativeI32, Init: c.module.CreateI32(0)})
				previous = c.module.CreateGetGlobal(m.InternalName, types.NativeI32)
				continue
			}
			c.module.AddGlobal(&ir.Global{Name: m.InternalName, Type: types.NativeI32, Mutable: true, Init: c.module.CreateI32(-1)})
			incr := c.module.CreateBinary("add", types.NativeI32, previous, c.module.CreateI32(1))
			c.appendStart(c.module.CreateSetGlobal(m.InternalName, incr))
			previous = c.module.CreateGetGlobal(m.InternalName, types.NativeI32)
		}
	}
}

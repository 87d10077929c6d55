package compiler

import (
	"fmt"

	"wasmcore/internal/ast"
	"wasmcore/internal/diag"
	"wasmcore/internal/ir"
	"wasmcore/internal/source"
	"wasmcore/internal/types"
)

// compileStmt is the Statement lowering component (spec.md §4.2): every
// statement lowers to a single backend expression, since WebAssembly
// permits statements to be expressions of type "none".
func (c *Compiler) compileStmt(stmt ast.Stmt) *ir.Node {
	switch s := stmt.(type) {
	case *ast.BlockStmt:
		return c.compileBlock(s)
	case *ast.EmptyStmt:
		return c.module.CreateNop()
	case *ast.ExprStmt:
		return c.compileExprStmt(s)
	case *ast.IfStmt:
		return c.compileIf(s)
	case *ast.WhileStmt:
		return c.compileWhile(s)
	case *ast.DoWhileStmt:
		return c.compileDoWhile(s)
	case *ast.ForStmt:
		return c.compileFor(s)
	case *ast.SwitchStmt:
		return c.compileSwitch(s)
	case *ast.BreakStmt:
		return c.compileBreak()
	case *ast.ContinueStmt:
		return c.compileContinue()
	case *ast.ReturnStmt:
		return c.compileReturn(s)
	case *ast.ThrowStmt:
		// Exception-handling lowering is treated as unreachable pending a
		// spec (spec.md §1 Non-goals / §4.2 throw).
		return c.module.CreateUnreachable()
	case *ast.TryStmt:
		c.sink.Error(diag.KindUnsupported, "", "try/catch is not implemented")
		return c.module.CreateUnreachable()
	case *ast.VarDeclStmt:
		return c.compileVarDeclStmt(s)
	default:
		c.sink.Error(diag.KindUnsupported, "", "unsupported statement form %T", stmt)
		return c.module.CreateUnreachable()
	}
}

func (c *Compiler) compileBlock(s *ast.BlockStmt) *ir.Node {
	nodes := make([]*ir.Node, len(s.Stmts))
	for i, st := range s.Stmts {
		nodes[i] = c.compileStmt(st)
	}
	return c.module.CreateBlock("", nodes, types.NativeNone)
}

// compileExprStmt lowers under contextual void, so the value is dropped if
// the expression produces one (spec.md §4.2 "expression-statement").
func (c *Compiler) compileExprStmt(s *ast.ExprStmt) *ir.Node {
	return c.compileExpression(s.Expr, types.Void_(), true)
}

func (c *Compiler) compileIf(s *ast.IfStmt) *ir.Node {
	cond := c.compileExpression(s.Cond, types.I32T(), true)
	then := c.compileStmt(s.Then)
	var els *ir.Node
	if s.Else != nil {
		els = c.compileStmt(s.Else)
	}
	return c.module.CreateIf(cond, then, els, types.NativeNone)
}

// compileWhile emits spec.md §4.2's while skeleton:
//
//	block break$L { loop continue$L { if (cond) block { body; br continue$L } } }
func (c *Compiler) compileWhile(s *ast.WhileStmt) *ir.Node {
	stem := c.currentFunction.EnterBreakContext()
	cond := c.compileExpression(s.Cond, types.I32T(), true)
	body := c.compileStmt(s.Body)
	c.currentFunction.LeaveBreakContext()

	contLabel, breakLabel := labelsFor(stem)
	inner := c.module.CreateBlock("", []*ir.Node{body, c.module.CreateBreak(contLabel, nil)}, types.NativeNone)
	ifNode := c.module.CreateIf(cond, inner, nil, types.NativeNone)
	loop := c.module.CreateLoop(contLabel, ifNode)
	return c.module.CreateBlock(breakLabel, []*ir.Node{loop}, types.NativeNone)
}

// compileDoWhile emits the same skeleton as while, but with body preceding
// the conditional back-edge: `br_if continue$L, cond` (spec.md §4.2).
func (c *Compiler) compileDoWhile(s *ast.DoWhileStmt) *ir.Node {
	stem := c.currentFunction.EnterBreakContext()
	body := c.compileStmt(s.Body)
	cond := c.compileExpression(s.Cond, types.I32T(), true)
	c.currentFunction.LeaveBreakContext()

	contLabel, breakLabel := labelsFor(stem)
	loopBody := c.module.CreateBlock("", []*ir.Node{body, c.module.CreateBreak(contLabel, cond)}, types.NativeNone)
	loop := c.module.CreateLoop(contLabel, loopBody)
	return c.module.CreateBlock(breakLabel, []*ir.Node{loop}, types.NativeNone)
}

// compileFor lowers the classic C-style for: init above the loop, default
// cond `i32.const 1`, default inc/init `nop`, inc placed between body and
// the back-edge (spec.md §4.2).
func (c *Compiler) compileFor(s *ast.ForStmt) *ir.Node {
	var initNode *ir.Node
	if s.Init != nil {
		initNode = c.compileStmt(s.Init)
	} else {
		initNode = c.module.CreateNop()
	}

	stem := c.currentFunction.EnterBreakContext()
	var cond *ir.Node
	if s.Cond != nil {
		cond = c.compileExpression(s.Cond, types.I32T(), true)
	} else {
		cond = c.module.CreateI32(1)
	}
	body := c.compileStmt(s.Body)
	var inc *ir.Node
	if s.Inc != nil {
		inc = c.compileExpression(s.Inc, types.Void_(), true)
	} else {
		inc = c.module.CreateNop()
	}
	c.currentFunction.LeaveBreakContext()

	contLabel, breakLabel := labelsFor(stem)
	inner := c.module.CreateBlock("", []*ir.Node{body, inc, c.module.CreateBreak(contLabel, nil)}, types.NativeNone)
	ifNode := c.module.CreateIf(cond, inner, nil, types.NativeNone)
	loop := c.module.CreateLoop(contLabel, ifNode)
	outer := c.module.CreateBlock(breakLabel, []*ir.Node{loop}, types.NativeNone)
	return c.module.CreateBlock("", []*ir.Node{initNode, outer}, types.NativeNone)
}

func labelsFor(stem string) (continueLabel, breakLabel string) {
	return "continue$" + stem, "break$" + stem
}

// compileSwitch implements spec.md §4.2's switch lowering: the scrutinee is
// lowered under contextual i32 into a fresh local; a cascade of nested
// blocks labelled case0$L, case1$L, ..., break$L is emitted, innermost
// first. The innermost block holds the dispatch chain (a br_if per case
// label, in declaration order, ending in an unconditional br to either the
// default case's label or break$L); each subsequent wrapping block's body is
// that case's statements, so falling off the end of a case's statements
// naturally enters the next case (fall-through).
func (c *Compiler) compileSwitch(s *ast.SwitchStmt) *ir.Node {
	stem := c.currentFunction.EnterBreakContext()
	savedDisallow := c.disallowContinue
	c.disallowContinue = true
	defer func() {
		c.currentFunction.LeaveBreakContext()
		c.disallowContinue = savedDisallow
	}()

	value := c.compileExpression(s.Value, types.I32T(), true)
	scrutinee := c.currentFunction.AddLocal("", types.I32T())
	setLocal := c.module.CreateSetLocal(scrutinee.Index, value)

	_, breakLabel := labelsFor(stem)

	var labeled []ast.SwitchCase
	var def *ast.SwitchCase
	for i, sc := range s.Cases {
		if s.DefaultIdx >= 0 && i == s.DefaultIdx {
			d := sc
			def = &d
			continue
		}
		labeled = append(labeled, sc)
	}

	caseLabel := func(i int) string { return fmt.Sprintf("case%d$%s", i, stem) }
	defaultLabel := "case_default$" + stem

	if len(labeled) == 0 {
		body := []*ir.Node{setLocal}
		if def != nil {
			body = append(body, c.compileCaseBody(def.Body)...)
		}
		return c.module.CreateBlock(breakLabel, body, types.NativeNone)
	}

	fallback := breakLabel
	if def != nil {
		fallback = defaultLabel
	}

	var dispatch []*ir.Node
	for i, sc := range labeled {
		for _, labelExpr := range sc.Labels {
			lv := c.compileExpression(labelExpr, types.I32T(), true)
			t := c.module.CreateGetLocal(scrutinee.Index, types.NativeI32)
			eq := c.module.CreateBinary("eq", types.NativeI32, t, lv)
			dispatch = append(dispatch, c.module.CreateBreak(caseLabel(i), eq))
		}
	}
	dispatch = append(dispatch, c.module.CreateBreak(fallback, nil))

	body := []*ir.Node{c.module.CreateBlock(caseLabel(0), dispatch, types.NativeNone)}
	body = append(body, c.compileCaseBody(labeled[0].Body)...)

	for i := 1; i < len(labeled); i++ {
		wrapped := c.module.CreateBlock(caseLabel(i), body, types.NativeNone)
		body = append([]*ir.Node{wrapped}, c.compileCaseBody(labeled[i].Body)...)
	}

	if def != nil {
		wrapped := c.module.CreateBlock(defaultLabel, body, types.NativeNone)
		body = append([]*ir.Node{wrapped}, c.compileCaseBody(def.Body)...)
	}

	all := append([]*ir.Node{setLocal}, body...)
	return c.module.CreateBlock(breakLabel, all, types.NativeNone)
}

func (c *Compiler) compileCaseBody(stmts []ast.Stmt) []*ir.Node {
	out := make([]*ir.Node, 0, len(stmts))
	for _, st := range stmts {
		out = append(out, c.compileStmt(st))
	}
	return out
}

// compileBreak and compileContinue implement spec.md §4.2's jump-target
// rule: emit a br to the current break/continue label; if no break context
// exists (or, for continue, disallowContinue is set), emit an unreachable
// and a diagnostic.
func (c *Compiler) compileBreak() *ir.Node {
	if c.currentFunction.BreakContext == nil {
		c.sink.Error(diag.KindStructural, "", "break used outside any enclosing loop or switch")
		return c.module.CreateUnreachable()
	}
	return c.module.CreateBreak("break$"+*c.currentFunction.BreakContext, nil)
}

func (c *Compiler) compileContinue() *ir.Node {
	if c.currentFunction.BreakContext == nil {
		c.sink.Error(diag.KindStructural, "", "continue used outside any enclosing loop")
		return c.module.CreateUnreachable()
	}
	if c.disallowContinue {
		c.sink.Error(diag.KindStructural, "", "continue used inside a switch must target an enclosing loop, not the switch")
		return c.module.CreateUnreachable()
	}
	return c.module.CreateBreak("continue$"+*c.currentFunction.BreakContext, nil)
}

func (c *Compiler) compileReturn(s *ast.ReturnStmt) *ir.Node {
	if s.Value == nil {
		return c.module.CreateReturn(nil)
	}
	v := c.compileExpression(s.Value, c.currentFunction.ReturnType, true)
	return c.module.CreateReturn(v)
}

// compileVarDeclStmt covers both top-level globals and local variable
// statements, told apart by currentFunction (spec.md §4.2 "variable").
func (c *Compiler) compileVarDeclStmt(s *ast.VarDeclStmt) *ir.Node {
	if c.currentFunction == c.startFunction {
		c.compileGlobalDeclaration(s)
		return c.module.CreateNop()
	}
	nodes := make([]*ir.Node, len(s.Declarators))
	for i, d := range s.Declarators {
		nodes[i] = c.compileLocalDeclarator(d)
	}
	return c.module.CreateBlock("", nodes, types.NativeNone)
}

func (c *Compiler) compileLocalDeclarator(d ast.VarDeclarator) *ir.Node {
	if d.Type == nil {
		c.sink.Error(diag.KindType, "", "local %q requires an explicit type", d.Name)
		return c.module.CreateUnreachable()
	}
	t, err := c.program.ResolveType(d.Type, nil, true)
	if err != nil || t == nil {
		c.sink.Error(diag.KindType, "", "resolving type of local %q: %v", d.Name, err)
		return c.module.CreateUnreachable()
	}

	local := c.findLocal(d.Name)
	if local != nil {
		c.sink.Error(diag.KindStructural, "", "duplicate local identifier %q", d.Name)
	} else {
		local = c.currentFunction.AddLocal(d.Name, t)
	}

	if d.Init == nil {
		return c.module.CreateNop()
	}
	value := c.compileExpression(d.Init, local.Type, true)
	return c.module.CreateSetLocal(local.Index, value)
}

func (c *Compiler) findLocal(name string) *source.Local {
	for _, l := range c.currentFunction.Locals {
		if l.Name == name {
			return l
		}
	}
	return nil
}

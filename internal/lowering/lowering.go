// Package lowering implements AST→HIR lowering (component C8): walking
// parsed declarations and statements into the shared HIR holders of
// internal/hir, declaring every name before any body is lowered so
// forward references (a function calling one declared later in the same
// file) resolve correctly.
//
// Grounded on funvibe-funxy/internal/analyzer/processor.go's four-pass
// analyzeNaming/Headers/Instances/Bodies structure, collapsed here into
// the specification's two conceptual passes (declare, then define): this
// package's four internal phases (types, type bodies, function headers,
// function/top-level bodies) are the declare half and the define half
// respectively — type+header phases never read a body, body lowering
// never introduces a new name.
package lowering

import (
	"fmt"

	"github.com/corelang/hirc/internal/ast"
	"github.com/corelang/hirc/internal/checker"
	"github.com/corelang/hirc/internal/context"
	"github.com/corelang/hirc/internal/convert"
	"github.com/corelang/hirc/internal/destructors"
	"github.com/corelang/hirc/internal/diagnostics"
	"github.com/corelang/hirc/internal/hir"
	"github.com/corelang/hirc/internal/monomorphize"
	"github.com/corelang/hirc/internal/resolver"
	"github.com/corelang/hirc/internal/source"
)

// Lowerer carries the shared state one compiler session's lowering pass
// needs across all four phases and every file.
type Lowerer struct {
	ctx   *context.Context
	mono  *monomorphize.Monomorphizer
	diags *diagnostics.Store

	// classNode/traitNode/funcNode map each declared AST node to the HIR
	// holder it was declared into, so later phases can find a
	// declaration's holder again without a second name lookup.
	classNode map[*ast.ClassDeclaration]*hir.Class
	traitNode map[*ast.TraitDeclaration]*hir.Trait
	funcNode  map[*ast.FunctionDeclaration]*hir.Function
}

func New(ctx *context.Context, mono *monomorphize.Monomorphizer, diags *diagnostics.Store) *Lowerer {
	return &Lowerer{
		ctx:       ctx,
		mono:      mono,
		diags:     diags,
		classNode: map[*ast.ClassDeclaration]*hir.Class{},
		traitNode: map[*ast.TraitDeclaration]*hir.Trait{},
		funcNode:  map[*ast.FunctionDeclaration]*hir.Function{},
	}
}

// OrderedFiles decides the file-then-statement walk order for a
// multi-file module. Grounded on funvibe-funxy/internal/modules/module.go's
// OrderedFiles/orderByTopLevelDeps topological pass (entry file last);
// this narrow AST doesn't carry cross-file import edges the way the
// teacher's module graph does; this module's topological pass is
// therefore the identity ordering with entry moved last, which is
// exactly the teacher's fallback when no edges are found between a
// set of files.
func OrderedFiles(files []*ast.Module, entry *ast.Module) []*ast.Module {
	out := make([]*ast.Module, 0, len(files))
	for _, f := range files {
		if f != entry {
			out = append(out, f)
		}
	}
	if entry != nil {
		out = append(out, entry)
	}
	return out
}

// LowerFiles runs all four phases over the given files (already ordered
// by OrderedFiles) and returns the finalized module.
func (l *Lowerer) LowerFiles(files []*ast.Module) *hir.Module {
	for _, f := range files {
		for _, stmt := range f.Statements {
			l.declareTypeName(stmt)
		}
	}
	for _, f := range files {
		for _, stmt := range f.Statements {
			l.defineTypeBody(stmt)
		}
	}
	for _, f := range files {
		for _, stmt := range f.Statements {
			l.declareFunctionHeader(stmt)
		}
	}

	var out []hir.Statement
	for _, f := range files {
		for _, stmt := range f.Statements {
			if s := l.lowerTopLevel(stmt); s != nil {
				out = append(out, s)
			}
		}
	}

	module := l.ctx.Module()
	module.Statements = out

	ins := destructors.New(l.ctx)
	for _, f := range module.Monomorphized {
		ins.Process(f)
	}
	for _, fn := range l.funcNode {
		ins.Process(fn)
	}

	return module
}

// --- Phase 1: declare type names ---

func (l *Lowerer) declareTypeName(stmt ast.Statement) {
	switch d := stmt.(type) {
	case *ast.ClassDeclaration:
		class := hir.NewClass(d.Name.Text, d.Loc)
		l.classNode[d] = class
		l.ctx.AddType(class)
	case *ast.TraitDeclaration:
		trait := hir.NewTrait(d.Name.Text, d.Loc)
		l.traitNode[d] = trait
		l.ctx.AddType(trait)
	}
}

// --- Phase 2: define type bodies (generics, members, signatures) ---

func (l *Lowerer) defineTypeBody(stmt ast.Statement) {
	switch d := stmt.(type) {
	case *ast.ClassDeclaration:
		l.defineClassBody(d)
	case *ast.TraitDeclaration:
		l.defineTraitBody(d)
	}
}

func (l *Lowerer) defineClassBody(d *ast.ClassDeclaration) {
	class := l.classByDecl(d)
	if class == nil {
		return
	}

	genCtx := l.ctx
	var generics []hir.Type
	if len(d.Generics) > 0 {
		genCtx = l.ctx.Nested(context.GenericScope)
		for _, g := range d.Generics {
			var constraint hir.Type
			if g.Constraint != nil {
				constraint = l.resolveType(genCtx, *g.Constraint)
			}
			generic := hir.NewGeneric(g.Name, constraint)
			genCtx.AddType(generic)
			generics = append(generics, generic)
		}
		class.Generics = generics
	}

	var members []hir.Member
	for _, m := range d.Members {
		members = append(members, hir.Member{Name: m.Name, Type: l.resolveType(genCtx, m.Type)})
	}
	class.SetMembers(members)
}

func (l *Lowerer) defineTraitBody(d *ast.TraitDeclaration) {
	trait := l.traitByDecl(d)
	if trait == nil {
		return
	}
	traitCtx := l.ctx.NestedTrait(trait)
	for _, st := range d.SuperTraits {
		trait.SuperTraits = append(trait.SuperTraits, l.resolveType(traitCtx, st))
	}
	for _, sig := range d.Functions {
		parts := l.lowerNameParts(traitCtx, sig.NameParts)
		f := hir.NewFunction(parts, sig.Loc)
		if sig.ReturnType != nil {
			f.ReturnType = l.resolveType(traitCtx, *sig.ReturnType)
		} else {
			f.ReturnType = builtinNone(l.ctx)
		}
		trait.AddFunction(f)
		l.lowerTraitFunctionBody(traitCtx, f, sig)
	}
}

// lowerTraitFunctionBody lowers a trait signature's provided/default
// body, if it has one, the same way an ordinary function body is
// lowered (Self is already bound in traitCtx by NestedTrait). A
// required signature (sig.Body == nil) leaves f.Body nil, which is what
// marks it as "declared but not defined" for §4.6(i)'s implementation
// check.
func (l *Lowerer) lowerTraitFunctionBody(traitCtx *context.Context, f *hir.Function, sig ast.TraitFunctionSig) {
	if sig.Body == nil {
		return
	}
	bodyCtx := traitCtx.NestedFunction(f)
	for _, p := range f.Params() {
		bodyCtx.AddVariable(hir.NewVariable(p.Name, p.Type, p.Mutable, p.Name.Loc))
	}
	block := l.lowerBlockStatements(bodyCtx, sig.Body, sig.Loc)
	f.Body = block.Statements
}

// --- Phase 3: declare function headers ---

// declareFunctionHeader declares top-level function headers. Impl-block
// functions are declared and lowered together in lowerImpl (phase 4)
// instead, since their Self type only resolves inside the impl's own
// nested context, which doesn't exist until lowerImpl builds it.
func (l *Lowerer) declareFunctionHeader(stmt ast.Statement) {
	if d, ok := stmt.(*ast.FunctionDeclaration); ok {
		l.declareOneFunctionHeader(l.ctx, d)
	}
}

func (l *Lowerer) declareOneFunctionHeader(parentCtx *context.Context, d *ast.FunctionDeclaration) *hir.Function {
	fnCtx := parentCtx
	var generics []*hir.Generic
	if len(d.Generics) > 0 {
		fnCtx = parentCtx.Nested(context.GenericScope)
		for _, g := range d.Generics {
			var constraint hir.Type
			if g.Constraint != nil {
				constraint = l.resolveType(fnCtx, *g.Constraint)
			}
			generic := hir.NewGeneric(g.Name, constraint)
			fnCtx.AddType(generic)
			generics = append(generics, generic)
		}
	}

	parts := l.lowerNameParts(fnCtx, d.NameParts)
	f := hir.NewFunction(parts, d.Loc)
	f.Generics = generics

	for _, a := range d.Annotations {
		switch a.Name.Text {
		case "mangle_as":
			if len(a.Args) > 0 {
				f.RuntimeName = a.Args[0]
			}
		case "builtin":
			f.IsBuiltin = true
		}
	}

	if d.ReturnType != nil {
		f.ReturnType = l.resolveType(fnCtx, *d.ReturnType)
	} else if d.Body != nil {
		f.ReturnType = l.deduceReturnType(fnCtx, d.Body)
	} else {
		l.report(diagnostics.CantDeduceReturnType, d.Loc, fmt.Sprintf("function %q has no declared return type and no body to deduce one from", f.NameFormat()))
		f.ReturnType = hir.UnknownType{}
	}

	l.funcNode[d] = f
	l.ctx.AddFunction(f)
	return f
}

// deduceReturnType implements §4.8's implicit-return rule: a function
// with no declared return type takes the type of its body's trailing
// expression statement, or None if the body ends in anything else
// (mirrors the teacher's block-value convention).
func (l *Lowerer) deduceReturnType(fnCtx *context.Context, body []ast.Statement) hir.Type {
	if len(body) == 0 {
		l.report(diagnostics.EmptyBlock, source.Location{}, "cannot deduce a return type from an empty function body")
		return hir.UnknownType{}
	}
	last := body[len(body)-1]
	if es, ok := last.(*ast.ExpressionStatement); ok {
		return l.typeOfExpr(fnCtx, es.Value)
	}
	return builtinNone(l.ctx)
}

// typeOfExpr computes an AST expression's static type without fully
// lowering it, for use while still declaring headers (return-type
// deduction runs before body lowering proper).
func (l *Lowerer) typeOfExpr(ctx *context.Context, e ast.Expression) hir.Type {
	lowered := l.lowerExpr(ctx, e)
	return lowered.Ty()
}

func builtinNone(ctx *context.Context) hir.Type {
	if b := ctx.Builtin(); b != nil {
		if t, ok := b.Type("None"); ok {
			return t
		}
	}
	return hir.UnknownType{}
}

func (l *Lowerer) classByDecl(d *ast.ClassDeclaration) *hir.Class {
	return l.classNode[d]
}

func (l *Lowerer) traitByDecl(d *ast.TraitDeclaration) *hir.Trait {
	return l.traitNode[d]
}

func (l *Lowerer) lowerNameParts(ctx *context.Context, parts []ast.NamePartNode) []hir.NamePart {
	out := make([]hir.NamePart, len(parts))
	for i, p := range parts {
		if p.Param != nil {
			out[i] = hir.ParamPart(&hir.Parameter{
				Name:    p.Param.Name,
				Type:    l.resolveType(ctx, p.Param.Type),
				Mutable: p.Param.Mutable,
			})
		} else {
			out[i] = hir.TextPart(p.Text)
		}
	}
	return out
}

// resolveType turns an ast.Type reference into a concrete hir.Type,
// specializing a generic class if the reference carries generic
// arguments. `Self` is not a declared type name: it resolves through
// ctx.Self(), which NestedTrait/NestedImpl bind to the trait's own
// SelfType or the implementing class respectively.
func (l *Lowerer) resolveType(ctx *context.Context, t ast.Type) hir.Type {
	if t.Name.Text == "Self" {
		if self := ctx.Self(); self != nil {
			return self
		}
		l.report(diagnostics.UnknownType, t.Loc, "Self used outside a trait or implementation")
		return hir.UnknownType{}
	}
	base, ok := ctx.FindType(t.Name.Text)
	if !ok {
		l.report(diagnostics.UnknownType, t.Loc, fmt.Sprintf("unknown type %q", t.Name.Text))
		return hir.UnknownType{}
	}
	if len(t.Generics) == 0 {
		return base
	}
	class, ok := base.(*hir.Class)
	if !ok {
		l.report(diagnostics.UnknownType, t.Loc, fmt.Sprintf("%q does not take generic arguments", t.Name.Text))
		return base
	}
	args := make([]hir.Type, len(t.Generics))
	for i, g := range t.Generics {
		args[i] = l.resolveType(ctx, g)
	}
	sub := hir.Substitution{}
	for i, g := range class.Generics {
		sub[g] = args[i]
	}
	return hir.Apply(class, sub)
}

func (l *Lowerer) report(kind diagnostics.Kind, loc source.Location, message string) {
	if l.diags == nil {
		return
	}
	_ = l.diags.Report(diagnostics.Diagnostic{Kind: kind, Message: message, Loc: loc})
}

// --- Phase 4: lower bodies / top-level statements ---

func (l *Lowerer) lowerTopLevel(stmt ast.Statement) hir.Statement {
	switch d := stmt.(type) {
	case *ast.ClassDeclaration:
		return &hir.ClassDeclStmt{Class: l.classByDecl(d), Loc: d.Loc}
	case *ast.TraitDeclaration:
		return &hir.TraitDeclStmt{Trait: l.traitByDecl(d), Loc: d.Loc}
	case *ast.FunctionDeclaration:
		f := l.functionByDecl(d)
		l.lowerFunctionBody(l.ctx, f, d)
		return &hir.FunctionDeclStmt{Function: f, Loc: d.Loc}
	case *ast.ImplDeclaration:
		l.lowerImpl(d)
		return nil
	case *ast.VariableDeclaration:
		return l.lowerVariableDecl(l.ctx, d)
	case *ast.UseStatement:
		return &hir.UseStmt{Path: d.Path, Loc: d.Loc}
	default:
		return nil
	}
}

func (l *Lowerer) functionByDecl(d *ast.FunctionDeclaration) *hir.Function {
	return l.funcNode[d]
}

func (l *Lowerer) lowerImpl(d *ast.ImplDeclaration) {
	traitType := l.resolveType(l.ctx, d.Trait)
	classType := l.resolveType(l.ctx, d.Class)
	trait, ok := traitType.(*hir.Trait)
	if !ok {
		l.report(diagnostics.NotImplemented, d.Loc, "impl target is not a trait")
		return
	}
	class, ok := classType.(*hir.Class)
	if !ok {
		l.report(diagnostics.NotImplemented, d.Loc, "impl is not for a class")
		return
	}

	implCtx := l.ctx.NestedImpl(class)
	var candidates []*hir.Function
	for _, fd := range d.Functions {
		f := l.declareOneFunctionHeader(implCtx, fd)
		l.lowerFunctionBody(implCtx, f, fd)
		candidates = append(candidates, f)
	}

	impl, err := checker.CheckImplementation(l.ctx, trait, class, candidates)
	if err != nil {
		l.report(diagnostics.NotImplemented, d.Loc, err.Error())
		return
	}
	l.ctx.AddImplementation(impl)
}

func (l *Lowerer) lowerFunctionBody(parentCtx *context.Context, f *hir.Function, d *ast.FunctionDeclaration) {
	if f == nil || d.Body == nil {
		return
	}
	bodyCtx := parentCtx.NestedFunction(f)
	for _, p := range f.Params() {
		bodyCtx.AddVariable(hir.NewVariable(p.Name, p.Type, p.Mutable, p.Name.Loc))
	}
	block := l.lowerBlockStatements(bodyCtx, d.Body, d.Loc)
	f.Body = block.Statements
}

func (l *Lowerer) lowerVariableDecl(ctx *context.Context, d *ast.VariableDeclaration) *hir.VariableDeclStmt {
	var value hir.Expression
	if d.Value != nil {
		value = l.lowerExpr(ctx, d.Value)
	}
	var typ hir.Type
	switch {
	case d.Type != nil:
		typ = l.resolveType(ctx, *d.Type)
	case value != nil:
		typ = value.Ty()
	default:
		typ = hir.UnknownType{}
	}
	v := hir.NewVariable(d.Name, typ, d.Mutable, d.Loc)
	if value != nil {
		if conv, ok := convert.Convertibility(ctx, value.Ty(), typ); ok {
			value = convert.Apply(conv, value)
		} else {
			l.report(diagnostics.TypeMismatch, d.Loc, fmt.Sprintf("cannot initialize %s: %s with a value of type %s", d.Name.Text, typ.Name(), value.Ty().Name()))
		}
	}
	ctx.AddVariable(v)
	return &hir.VariableDeclStmt{Variable: v, Value: value, Loc: d.Loc}
}

func (l *Lowerer) lowerBlockStatements(ctx *context.Context, stmts []ast.Statement, loc source.Location) *hir.Block {
	blk := &hir.Block{Loc: loc}
	for _, s := range stmts {
		switch v := s.(type) {
		case *ast.VariableDeclaration:
			vs := l.lowerVariableDecl(ctx, v)
			blk.Statements = append(blk.Statements, vs)
			blk.Variables = append(blk.Variables, vs.Variable)
		case *ast.ExpressionStatement:
			blk.Statements = append(blk.Statements, &hir.ExpressionStmt{Value: l.lowerExpr(ctx, v.Value), Loc: v.Loc})
		case *ast.AssignmentStatement:
			blk.Statements = append(blk.Statements, l.lowerAssignment(ctx, v))
		case *ast.ReturnStatement:
			var val hir.Expression
			if v.Value != nil {
				val = l.lowerExpr(ctx, v.Value)
				if fn := ctx.Function(); fn != nil && fn.ReturnType != nil {
					if conv, ok := convert.Convertibility(ctx, val.Ty(), fn.ReturnType); ok {
						val = convert.Apply(conv, val)
					} else {
						l.report(diagnostics.ReturnTypeMismatch, v.Loc, fmt.Sprintf("returning %s where %s is expected", val.Ty().Name(), fn.ReturnType.Name()))
					}
				}
			}
			blk.Statements = append(blk.Statements, &hir.ReturnStmt{Value: val, Loc: v.Loc})
		case *ast.BlockStatement:
			blk.Statements = append(blk.Statements, l.lowerBlockStatements(ctx.Nested(context.BlockScope), v.Statements, v.Loc))
		case *ast.IfStatement:
			blk.Statements = append(blk.Statements, l.lowerIf(ctx, v))
		case *ast.WhileStatement:
			blk.Statements = append(blk.Statements, &hir.WhileStmt{
				Condition: l.lowerExpr(ctx, v.Condition),
				Body:      l.lowerBlockStatements(ctx.Nested(context.BlockScope), v.Body.Statements, v.Body.Loc),
				Loc:       v.Loc,
			})
		case *ast.LoopStatement:
			blk.Statements = append(blk.Statements, &hir.LoopStmt{
				Body: l.lowerBlockStatements(ctx.Nested(context.BlockScope), v.Body.Statements, v.Body.Loc),
				Loc:  v.Loc,
			})
		case *ast.FunctionDeclaration:
			f := l.declareOneFunctionHeader(ctx, v)
			l.lowerFunctionBody(ctx, f, v)
			blk.Statements = append(blk.Statements, &hir.FunctionDeclStmt{Function: f, Loc: v.Loc})
		}
	}
	return blk
}

func (l *Lowerer) lowerAssignment(ctx *context.Context, v *ast.AssignmentStatement) *hir.AssignmentStmt {
	target := l.lowerExpr(ctx, v.Target)
	value := l.lowerExpr(ctx, v.Value)
	if ref, ok := target.(*hir.VariableReference); ok && !ref.Variable.Mutable {
		l.report(diagnostics.AssignmentToImmutable, v.Loc, fmt.Sprintf("cannot assign to immutable variable %s", ref.Variable.Name.Text))
	}
	if conv, ok := convert.Convertibility(ctx, value.Ty(), target.Ty()); ok {
		value = convert.Apply(conv, value)
	} else {
		l.report(diagnostics.TypeMismatch, v.Loc, fmt.Sprintf("cannot assign value of type %s to target of type %s", value.Ty().Name(), target.Ty().Name()))
	}
	return &hir.AssignmentStmt{Target: target, Value: value, Loc: v.Loc}
}

func (l *Lowerer) lowerIf(ctx *context.Context, v *ast.IfStatement) *hir.IfStmt {
	stmt := &hir.IfStmt{
		Condition: l.lowerExpr(ctx, v.Condition),
		Then:      l.lowerBlockStatements(ctx.Nested(context.BlockScope), v.Then.Statements, v.Then.Loc),
		Loc:       v.Loc,
	}
	for _, ei := range v.ElseIfs {
		stmt.ElseIfs = append(stmt.ElseIfs, hir.ElseIf{
			Condition: l.lowerExpr(ctx, ei.Condition),
			Then:      l.lowerBlockStatements(ctx.Nested(context.BlockScope), ei.Then.Statements, ei.Then.Loc),
		})
	}
	if v.Else != nil {
		stmt.Else = l.lowerBlockStatements(ctx.Nested(context.BlockScope), v.Else.Statements, v.Else.Loc)
	}
	return stmt
}

func (l *Lowerer) lowerExpr(ctx *context.Context, e ast.Expression) hir.Expression {
	switch v := e.(type) {
	case *ast.NoneLiteral:
		return &hir.NoneLiteral{Loc: v.Loc, Typ: builtinNone(ctx)}
	case *ast.BoolLiteral:
		return &hir.BoolLiteral{Value: v.Value, Loc: v.Loc, Typ: lookupBuiltin(ctx, "Bool")}
	case *ast.IntegerLiteral:
		return &hir.IntegerLiteral{Text: v.Text, Loc: v.Loc, Typ: lookupBuiltin(ctx, "Integer")}
	case *ast.RationalLiteral:
		return &hir.RationalLiteral{Numerator: v.Numerator, Denominator: v.Denominator, Loc: v.Loc, Typ: lookupBuiltin(ctx, "Rational")}
	case *ast.StringLiteral:
		return &hir.StringLiteral{Value: v.Value, Loc: v.Loc, Typ: lookupBuiltin(ctx, "String")}
	case *ast.VariableReference:
		if vr, ok := ctx.FindVariable(v.Name.Text); ok {
			return &hir.VariableReference{Variable: vr, Loc: v.Loc}
		}
		l.report(diagnostics.UndefinedName, v.Loc, fmt.Sprintf("undefined name %q", v.Name.Text))
		return &hir.VariableReference{Variable: hir.NewVariable(v.Name, hir.UnknownType{}, false, v.Loc), Loc: v.Loc}
	case *ast.MemberReference:
		base := l.lowerExpr(ctx, v.Base)
		memberType := hir.Type(hir.UnknownType{})
		baseType := base.Ty()
		if c, ok := baseType.(*hir.Class); ok {
			found := false
			for _, m := range c.MemberList() {
				if m.Name.Text == v.MemberName.Text {
					memberType = m.Type
					found = true
					break
				}
			}
			if !found {
				l.report(diagnostics.UndefinedName, v.Loc, fmt.Sprintf("%s has no member %q", c.Name(), v.MemberName.Text))
			}
		} else {
			l.report(diagnostics.TypeMismatch, v.Loc, fmt.Sprintf("cannot access member %q on non-class type %s", v.MemberName.Text, baseType.Name()))
		}
		return &hir.MemberReference{Base: base, MemberName: v.MemberName, MemberType: memberType, Loc: v.Loc}
	case *ast.CallExpression:
		return l.lowerCall(ctx, v)
	case *ast.TypeReferenceExpression:
		t := l.resolveType(ctx, v.Referenced)
		return &hir.TypeReferenceExpr{Referenced: t, Loc: v.Loc}
	case *ast.ConstructorExpression:
		return l.lowerConstructor(ctx, v)
	default:
		l.report(diagnostics.UnknownType, e.Range(), fmt.Sprintf("unsupported expression node %T", e))
		return &hir.NoneLiteral{Loc: e.Range(), Typ: builtinNone(ctx)}
	}
}

func lookupBuiltin(ctx *context.Context, name string) hir.Type {
	if b := ctx.Builtin(); b != nil {
		if t, ok := b.Type(name); ok {
			return t
		}
	}
	return hir.UnknownType{}
}

func (l *Lowerer) lowerCall(ctx *context.Context, v *ast.CallExpression) hir.Expression {
	parts := make([]resolver.CallPart, len(v.Parts))
	for i, p := range v.Parts {
		if p.Arg != nil {
			parts[i] = resolver.CallPart{Arg: l.lowerExpr(ctx, p.Arg)}
		} else {
			parts[i] = resolver.CallPart{Text: p.Text}
		}
	}
	call, err := resolver.Resolve(ctx, parts, l.mono.Specialize)
	if err != nil {
		l.report(diagnostics.NoFunction, v.Loc, err.Error())
		return &hir.NoneLiteral{Loc: v.Loc, Typ: builtinNone(ctx)}
	}
	call.Loc = v.Loc
	return call
}

func (l *Lowerer) lowerConstructor(ctx *context.Context, v *ast.ConstructorExpression) hir.Expression {
	t := l.resolveType(ctx, v.Type)
	class, ok := t.(*hir.Class)
	if !ok {
		l.report(diagnostics.UnknownType, v.Loc, fmt.Sprintf("%q is not a class", v.Type.Name.Text))
		return &hir.NoneLiteral{Loc: v.Loc, Typ: builtinNone(ctx)}
	}
	fields := make([]hir.FieldInit, len(v.Fields))
	for i, fi := range v.Fields {
		val := l.lowerExpr(ctx, fi.Value)
		for _, m := range class.MemberList() {
			if m.Name.Text == fi.Name.Text {
				if conv, ok := convert.Convertibility(ctx, val.Ty(), m.Type); ok {
					val = convert.Apply(conv, val)
				} else {
					l.report(diagnostics.TypeMismatch, fi.Value.Range(), fmt.Sprintf("field %s: cannot use value of type %s where %s is expected", fi.Name.Text, val.Ty().Name(), m.Type.Name()))
				}
				break
			}
		}
		fields[i] = hir.FieldInit{Name: fi.Name, Value: val}
	}
	return &hir.Constructor{Class: class, Fields: fields, Loc: v.Loc}
}

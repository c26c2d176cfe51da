// Package monomorphize implements the monomorphizer (component C9):
// turning a generic function plus a concrete substitution into a
// cloned, fully concrete specialization, reusing an existing instance
// whenever one with the same canonical name already exists.
//
// Grounded on original_source/src/semantics/monomorphize.rs for the
// clone-with-substitution shape and the reuse-by-canonical-name rule,
// and the teacher's vm/compiler.go specialization-naming idiom for why
// CanonicalName is the right dedup key (two requests for the same
// generic function with equal substitutions must always land on the
// same Function pointer, or the resolver's pointer-identity equality
// on Function breaks).
package monomorphize

import (
	"github.com/corelang/hirc/internal/hir"
)

// Monomorphizer owns the module instances are registered into and
// drives the fixed-point iteration needed when specializing a function
// whose body itself calls other generic functions (a generic function
// can only finish specializing once every generic call its body makes
// has itself been specialized, and that nested specialization can in
// turn require more).
type Monomorphizer struct {
	module *hir.Module

	// pending guards against infinite recursion on mutually- or
	// self-recursive generic functions: a function's specialization is
	// registered in the module (and hence satisfies FunctionByCanonicalName)
	// before its body is cloned, so a recursive call within its own body
	// resolves to the in-progress instance instead of looping forever.
	inProgress map[string]*hir.Function
}

func New(module *hir.Module) *Monomorphizer {
	return &Monomorphizer{module: module, inProgress: make(map[string]*hir.Function)}
}

// Specialize returns the concrete instance of generic for the given
// substitution, creating and cloning it on first request and reusing it
// on every subsequent request with an equal substitution (idempotence),
// regardless of which call site asked (confluence).
func (m *Monomorphizer) Specialize(generic *hir.Function, sub hir.Substitution) *hir.Function {
	if len(sub) == 0 {
		return generic
	}

	canonical := canonicalNameFor(generic, sub)
	if existing, ok := m.module.FunctionByCanonicalName(canonical); ok {
		return existing
	}
	if existing, ok := m.inProgress[canonical]; ok {
		return existing
	}

	parts := make([]hir.NamePart, len(generic.NameParts))
	for i, p := range generic.NameParts {
		if p.IsParam() {
			parts[i] = hir.ParamPart(&hir.Parameter{
				Name:    p.Param.Name,
				Type:    hir.Apply(p.Param.Type, sub),
				Mutable: p.Param.Mutable,
			})
		} else {
			parts[i] = p
		}
	}

	instance := hir.NewFunction(parts, generic.Loc)
	instance.ReturnType = hir.Apply(generic.ReturnType, sub)
	instance.RuntimeName = generic.RuntimeName
	instance.IsBuiltin = generic.IsBuiltin
	instance.SetGenericOriginal(generic)

	m.inProgress[canonical] = instance
	m.module.AddMonomorphized(instance)

	if generic.Body != nil {
		varMap := map[*hir.Variable]*hir.Variable{}
		// Parameters alias between the generic original and its
		// specialization: the cloned body's VariableReferences to a
		// parameter must resolve to the specialization's own Parameter
		// binding, not the generic's.
		origParams := generic.Params()
		newParams := instance.Params()
		for i := range origParams {
			varMap[paramAsVariable(origParams[i])] = paramAsVariable(newParams[i])
		}
		instance.Body = cloneStatements(generic.Body, sub, varMap, m)
	}

	delete(m.inProgress, canonical)
	return instance
}

// paramAsVariable gives a Parameter a stable *Variable identity for
// varMap purposes. Parameters are looked up by reference to the
// Parameter's bound Name across the clone, since lowering binds a
// function's parameters into its body's outermost Block as Variables
// sharing the Parameter's identifier.
func paramAsVariable(p *hir.Parameter) *hir.Variable {
	return hir.NewVariable(p.Name, p.Type, p.Mutable, p.Name.Loc)
}

func canonicalNameFor(generic *hir.Function, sub hir.Substitution) string {
	parts := make([]hir.NamePart, len(generic.NameParts))
	for i, p := range generic.NameParts {
		if p.IsParam() {
			parts[i] = hir.ParamPart(&hir.Parameter{
				Name: p.Param.Name,
				Type: hir.Apply(p.Param.Type, sub),
			})
		} else {
			parts[i] = p
		}
	}
	tmp := hir.NewFunction(parts, generic.Loc)
	return tmp.CanonicalName()
}

func cloneStatements(stmts []hir.Statement, sub hir.Substitution, varMap map[*hir.Variable]*hir.Variable, m *Monomorphizer) []hir.Statement {
	out := make([]hir.Statement, len(stmts))
	for i, s := range stmts {
		out[i] = cloneStatement(s, sub, varMap, m)
	}
	return out
}

func cloneStatement(s hir.Statement, sub hir.Substitution, varMap map[*hir.Variable]*hir.Variable, m *Monomorphizer) hir.Statement {
	switch v := s.(type) {
	case *hir.VariableDeclStmt:
		nv := hir.NewVariable(v.Variable.Name, hir.Apply(v.Variable.Type, sub), v.Variable.Mutable, v.Variable.Loc)
		varMap[v.Variable] = nv
		var val hir.Expression
		if v.Value != nil {
			val = cloneExpr(v.Value, sub, varMap, m)
		}
		return &hir.VariableDeclStmt{Variable: nv, Value: val, Loc: v.Loc}
	case *hir.ExpressionStmt:
		return &hir.ExpressionStmt{Value: cloneExpr(v.Value, sub, varMap, m), Loc: v.Loc}
	case *hir.AssignmentStmt:
		return &hir.AssignmentStmt{
			Target: cloneExpr(v.Target, sub, varMap, m),
			Value:  cloneExpr(v.Value, sub, varMap, m),
			Loc:    v.Loc,
		}
	case *hir.ReturnStmt:
		var val hir.Expression
		if v.Value != nil {
			val = cloneExpr(v.Value, sub, varMap, m)
		}
		return &hir.ReturnStmt{Value: val, Loc: v.Loc}
	case *hir.Block:
		return cloneBlock(v, sub, varMap, m)
	case *hir.IfStmt:
		elseIfs := make([]hir.ElseIf, len(v.ElseIfs))
		for i, ei := range v.ElseIfs {
			elseIfs[i] = hir.ElseIf{
				Condition: cloneExpr(ei.Condition, sub, varMap, m),
				Then:      cloneBlock(ei.Then, sub, varMap, m),
			}
		}
		var els *hir.Block
		if v.Else != nil {
			els = cloneBlock(v.Else, sub, varMap, m)
		}
		return &hir.IfStmt{
			Condition: cloneExpr(v.Condition, sub, varMap, m),
			Then:      cloneBlock(v.Then, sub, varMap, m),
			ElseIfs:   elseIfs,
			Else:      els,
			Loc:       v.Loc,
		}
	case *hir.WhileStmt:
		return &hir.WhileStmt{
			Condition: cloneExpr(v.Condition, sub, varMap, m),
			Body:      cloneBlock(v.Body, sub, varMap, m),
			Loc:       v.Loc,
		}
	case *hir.LoopStmt:
		return &hir.LoopStmt{Body: cloneBlock(v.Body, sub, varMap, m), Loc: v.Loc}
	default:
		return s
	}
}

func cloneBlock(b *hir.Block, sub hir.Substitution, varMap map[*hir.Variable]*hir.Variable, m *Monomorphizer) *hir.Block {
	nb := &hir.Block{Loc: b.Loc}
	nb.Statements = cloneStatements(b.Statements, sub, varMap, m)
	for _, v := range b.Variables {
		if nv, ok := varMap[v]; ok {
			nb.Variables = append(nb.Variables, nv)
		}
	}
	return nb
}

func cloneExpr(e hir.Expression, sub hir.Substitution, varMap map[*hir.Variable]*hir.Variable, m *Monomorphizer) hir.Expression {
	switch v := e.(type) {
	case *hir.NoneLiteral, *hir.BoolLiteral, *hir.IntegerLiteral, *hir.RationalLiteral, *hir.StringLiteral:
		return e
	case *hir.VariableReference:
		if nv, ok := varMap[v.Variable]; ok {
			return &hir.VariableReference{Variable: nv, Loc: v.Loc}
		}
		return v
	case *hir.MemberReference:
		return &hir.MemberReference{
			Base:       cloneExpr(v.Base, sub, varMap, m),
			MemberName: v.MemberName,
			MemberType: hir.Apply(v.MemberType, sub),
			Loc:        v.Loc,
		}
	case *hir.Call:
		callee := v.Callee
		if callee.IsGeneric() {
			callSub := hir.Substitution{}
			for k, val := range sub {
				callSub[k] = val
			}
			callee = m.Specialize(v.Callee, callSub)
		}
		newArgs := make([]hir.CallArg, len(v.Args))
		for i, a := range v.Args {
			newArgs[i] = hir.CallArg{Value: cloneExpr(a.Value, sub, varMap, m)}
		}
		return &hir.Call{Callee: callee, Args: newArgs, Loc: v.Loc}
	case *hir.TypeReferenceExpr:
		return &hir.TypeReferenceExpr{Referenced: hir.Apply(v.Referenced, sub), Loc: v.Loc}
	case *hir.Constructor:
		fields := make([]hir.FieldInit, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = hir.FieldInit{Name: f.Name, Value: cloneExpr(f.Value, sub, varMap, m)}
		}
		class := v.Class
		if class.IsGeneric() {
			if applied, ok := hir.Apply(class, sub).(*hir.Class); ok {
				class = applied
			}
		}
		return &hir.Constructor{Class: class, Fields: fields, Loc: v.Loc}
	case *hir.ImplicitConversion:
		return &hir.ImplicitConversion{
			Kind:   v.Kind,
			Inner:  cloneExpr(v.Inner, sub, varMap, m),
			Target: hir.Apply(v.Target, sub),
			Loc:    v.Loc,
		}
	default:
		return e
	}
}

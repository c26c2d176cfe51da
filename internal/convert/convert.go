// Package convert implements the convertibility relation and implicit
// conversion insertion (component C7): given a value's static type and
// a required type, decide whether (and how) the value can be converted,
// and build the HIR node representing that conversion.
//
// Grounded on original_source/src/hir/expressions/implicit_conversion.rs
// for the conversion node shapes and
// original_source/src/semantics/convert.rs for the precedence order
// tried below: an exact match needs no conversion, then a reference can
// be dereferenced, then a value can be referenced, then (last resort) a
// value can be copied and the copy referenced. The underlying class/
// trait/generic relation (§4.6) that each of those steps tests against
// is coreConvertible below, grounded on
// original_source/src/hir/types.rs's Type::convertible_to.
package convert

import (
	"github.com/corelang/hirc/internal/context"
	"github.com/corelang/hirc/internal/hir"
)

// Conversion is the zero-or-one implicit conversion Convertibility found
// between an argument's actual type and a parameter's required type.
// The zero value (Kind == none) means the types already match exactly.
type Conversion struct {
	kind   kind
	target hir.Type
}

type kind int

const (
	none kind = iota
	reference
	dereference
	copyThenReference
)

// Convertibility decides whether a value of type from can be used where
// a value of type to is required, per §4.7, built on top of the core
// class/trait/generic relation of §4.6 (coreConvertible). ctx resolves
// trait-implementation satisfaction; it may be nil when neither side can
// possibly involve a trait or generic (e.g. comparing two concrete
// builtin classes), but callers should always have one available.
func Convertibility(ctx *context.Context, from, to hir.Type) (Conversion, bool) {
	if coreConvertible(ctx, from, to) {
		return Conversion{}, true
	}

	// A reference can be dereferenced to match a non-reference target,
	// or re-borrowed to match a reference of the same mutability class
	// with a convertible pointee.
	if isReference(from) {
		pointee := pointeeOf(from)
		if coreConvertible(ctx, pointee, to) {
			return Conversion{kind: dereference, target: to}, true
		}
		if isReference(to) && referenceCompatible(from, to) && coreConvertible(ctx, pointee, pointeeOf(to)) {
			return Conversion{kind: none}, true
		}
	}

	// A plain value can be referenced to match a reference target whose
	// pointee it satisfies.
	if isReference(to) && !isReference(from) {
		if coreConvertible(ctx, from, pointeeOf(to)) {
			return Conversion{kind: reference, target: to}, true
		}
	}

	// Last resort: copy the value, then reference the copy. Only tried
	// when `to` is a reference and a direct reference didn't already
	// match above, so at most one of {reference, copyThenReference} is
	// ever chosen for a given argument; a reference-then-dereference
	// sequence is never synthesized (§4.7).
	if isReference(to) {
		pointee := pointeeOf(to)
		if coreConvertible(ctx, from, pointee) || (isReference(from) && coreConvertible(ctx, pointeeOf(from), pointee)) {
			return Conversion{kind: copyThenReference, target: to}, true
		}
	}

	return Conversion{}, false
}

// Apply wraps expr in the HIR node Convertibility decided on, or returns
// it unchanged if no conversion was needed.
func Apply(c Conversion, expr hir.Expression) hir.Expression {
	switch c.kind {
	case none:
		return expr
	case reference:
		return &hir.ImplicitConversion{Kind: hir.ConvertReference, Inner: expr, Target: c.target, Loc: expr.Range()}
	case dereference:
		return &hir.ImplicitConversion{Kind: hir.ConvertDereference, Inner: expr, Target: c.target, Loc: expr.Range()}
	case copyThenReference:
		return &hir.ImplicitConversion{Kind: hir.ConvertCopy, Inner: expr, Target: c.target, Loc: expr.Range()}
	default:
		return expr
	}
}

// coreConvertible implements §4.6's relation "ignoring surrounding
// references": A→A always; a specialization converts to another
// specialization of the same generic class pairwise on their
// arguments; a class converts to a trait (or to the SelfType of a
// trait) it implements; a concrete type converts to an unconstrained
// generic, or to a constrained one if it converts to the constraint; a
// generic converts to a concrete type only through its own constraint;
// a trait's SelfType converts to a trait its own trait extends.
// Function types and unrelated classes never convert.
func coreConvertible(ctx *context.Context, from, to hir.Type) bool {
	if from == nil || to == nil {
		return from == to
	}
	if hir.TypesEqual(from, to) {
		return true
	}

	switch t := to.(type) {
	case *hir.Trait:
		switch f := from.(type) {
		case *hir.Class:
			return implements(ctx, f, t)
		case hir.SelfType:
			return traitExtends(f.Trait(), t)
		}
		return false
	case hir.SelfType:
		if fc, ok := from.(*hir.Class); ok {
			return implements(ctx, fc, t.Trait())
		}
		return false
	case *hir.Generic:
		if t.Constraint == nil {
			return true
		}
		return coreConvertible(ctx, from, t.Constraint)
	}

	if fg, ok := from.(*hir.Generic); ok {
		if fg.Constraint == nil {
			return false
		}
		return coreConvertible(ctx, fg.Constraint, to)
	}

	fc, fok := from.(*hir.Class)
	tc, tok := to.(*hir.Class)
	if fok && tok && fc.Basename() == tc.Basename() && len(fc.Generics) == len(tc.Generics) {
		for i := range fc.Generics {
			if !coreConvertible(ctx, fc.Generics[i], tc.Generics[i]) {
				return false
			}
		}
		return true
	}

	return false
}

// implements reports whether class satisfies trait: first via an
// explicitly registered Implementation record (if the lowering pass
// ever created one), then, since the language spec.md describes has no
// "impl Trait for Class" declaration at all, by structurally scanning
// the surrounding context for a function matching every one of trait's
// required signatures with Self substituted for class (§4.6(i); spec.md
// §8 scenario 3 implements a trait purely by declaring such a function
// at top level, no impl block involved).
func implements(ctx *context.Context, class *hir.Class, trait *hir.Trait) bool {
	if ctx == nil {
		return false
	}
	if _, ok := ctx.FindImplementation(class, trait); ok {
		return true
	}
	return ctx.StructuralMatch(trait, class, func(from, to hir.Type) bool {
		_, ok := Convertibility(ctx, from, to)
		return ok
	})
}

// traitExtends reports whether trait is t itself or transitively lists
// t among its supertraits.
func traitExtends(trait, t *hir.Trait) bool {
	if trait == t {
		return true
	}
	for _, super := range trait.SuperTraits {
		if st, ok := super.(*hir.Trait); ok && traitExtends(st, t) {
			return true
		}
	}
	return false
}

func isReference(t hir.Type) bool {
	c, ok := t.(*hir.Class)
	return ok && c.IsAnyReference()
}

func pointeeOf(t hir.Type) hir.Type {
	c, ok := t.(*hir.Class)
	if !ok || len(c.Generics) == 0 {
		return nil
	}
	return c.Generics[0]
}

// referenceCompatible reports whether converting from `from`'s
// reference kind to `to`'s is allowed: ReferenceMut can stand in for
// Reference, but not vice versa.
func referenceCompatible(from, to hir.Type) bool {
	fc := from.(*hir.Class)
	tc := to.(*hir.Class)
	if fc.IsReference() {
		return tc.IsReference()
	}
	return true // ReferenceMut satisfies either
}

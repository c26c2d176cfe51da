// Package checker implements the type and trait checker (component C6):
// deciding whether a class satisfies a trait's declared functions, and
// unifying a generic signature against a concrete one to derive a
// substitution.
//
// Grounded on original_source/src/semantics/implements.rs for
// implementation-satisfaction checking and
// original_source/src/hir/types.rs's Type::diff for unification (already
// implemented once, as hir.Diff, since both the resolver and this
// package need the identical operation and a second copy would drift).
package checker

import (
	"fmt"

	"github.com/corelang/hirc/internal/context"
	"github.com/corelang/hirc/internal/convert"
	"github.com/corelang/hirc/internal/hir"
)

// Error reports that a class's declared implementation of a trait is
// incomplete or mismatched.
type Error struct {
	Class   *hir.Class
	Trait   *hir.Trait
	Missing string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s does not implement %s: %s", e.Class.Name(), e.Trait.Name(), e.Missing)
}

// CheckImplementation verifies that class implements trait's every
// super-trait (transitively, per §4.6(i)) and that every function the
// trait declares has a matching function among candidates (the class's
// own methods, gathered by the lowering pass from an `impl Trait for
// Class` block), and returns the context.Implementation record to
// register if so. ctx is consulted for the super-trait check, which
// relies on each super-trait's own `impl` block having already been
// registered (lowering visits impls in source order; forward-declaring
// a class before implementing its super-traits is the user's
// responsibility, same as any other forward reference).
//
// A candidate matches a trait function if they share a name format and
// every trait parameter's declared type is convertible from the
// candidate's corresponding parameter type with Self substituted for
// the implementing class (§4.6's generic-unification machinery, reused
// here with Self playing the role of the bound generic).
func CheckImplementation(ctx *context.Context, trait *hir.Trait, class *hir.Class, candidates []*hir.Function) (*context.Implementation, error) {
	for _, super := range trait.SuperTraits {
		superTrait, ok := super.(*hir.Trait)
		if !ok {
			continue
		}
		if _, ok := ctx.FindImplementation(class, superTrait); !ok {
			return nil, &Error{Class: class, Trait: trait, Missing: fmt.Sprintf("super-trait %s", superTrait.Name())}
		}
	}

	impl := &context.Implementation{
		Trait:     trait,
		Class:     class,
		Functions: make(map[string]*hir.Function),
	}

	for _, sig := range trait.FunctionList() {
		format := sig.NameFormat()
		var matched *hir.Function
		for _, cand := range candidates {
			if cand.NameFormat() != format {
				continue
			}
			if matches(ctx, sig, cand, class) {
				matched = cand
				break
			}
		}
		if matched == nil {
			// A provided/default signature (sig.Body != nil) is exempt from
			// §4.6(i)'s matching-function requirement: the trait itself
			// supplies the implementation, substituting Self for class.
			if sig.Body != nil {
				impl.Functions[format] = sig
				continue
			}
			return nil, &Error{Class: class, Trait: trait, Missing: sig.CanonicalName()}
		}
		impl.Functions[format] = matched
	}

	return impl, nil
}

// matches reports whether candidate's signature satisfies sig once Self
// is replaced by class throughout sig's parameter and return types.
func matches(ctx *context.Context, sig, candidate *hir.Function, class *hir.Class) bool {
	sigParams := sig.Params()
	candParams := candidate.Params()
	if len(sigParams) != len(candParams) {
		return false
	}
	for i, sp := range sigParams {
		required := substituteSelf(sp.Type, class)
		if _, ok := convert.Convertibility(ctx, candParams[i].Type, required); !ok {
			return false
		}
	}
	requiredReturn := substituteSelf(sig.ReturnType, class)
	_, ok := convert.Convertibility(ctx, candidate.ReturnType, requiredReturn)
	return ok
}

func substituteSelf(t hir.Type, class *hir.Class) hir.Type {
	if _, ok := t.(hir.SelfType); ok {
		return class
	}
	return t
}

// Unify is the generic-signature matching operation the resolver calls
// through hir.Diff directly today; it is exposed here too so other
// passes that need "does this concrete type satisfy this (possibly
// generic) constraint" can phrase it as a checker operation without
// reaching into internal/hir's lower-level Diff.
func Unify(generic, concrete hir.Type) hir.Substitution {
	return hir.Diff(generic, concrete)
}

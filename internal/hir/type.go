// Package hir is the HIR data model (component C2): the shared,
// mutable entities the rest of the pipeline resolves, checks, converts,
// monomorphizes and destroys.
package hir

import (
	"fmt"
	"strings"
	"weak"

	"github.com/corelang/hirc/internal/source"
)

// Type is the value every typed HIR node carries. It is a closed set per
// §3: a user class, a user trait (used generically, before a concrete
// implementor is known), Self inside a trait body, a generic parameter,
// a function type, or Unknown while inference is still in flight.
type Type interface {
	fmt.Stringer
	// Name is the type's display name: a class's specialized name
	// ("B<Y>"), a trait's name, "Self", a generic parameter's name, or a
	// function type's "(P1, P2) -> R" rendering.
	Name() string
	// Basename is Name without generic arguments; for non-class types it
	// is the same as Name.
	Basename() string
	// IsGeneric reports whether this type (transitively) depends on an
	// unbound generic parameter.
	IsGeneric() bool
	isType()
}

// UnknownType is the placeholder type before inference assigns a real one.
type UnknownType struct{}

func (UnknownType) String() string   { return "Unknown" }
func (UnknownType) Name() string     { return "Unknown" }
func (UnknownType) Basename() string { return "Unknown" }
func (UnknownType) IsGeneric() bool  { panic("hir: IsGeneric called on UnknownType") }
func (UnknownType) isType()          {}

// Generic is the type of a generic parameter, e.g. the `T` in
// `fn identity<T>(x: T) -> T`. Two Generics are the same parameter only
// if they are the same pointer; Name collisions across unrelated
// generic declarations are expected and harmless.
type Generic struct {
	Name_      source.Identifier
	Generated  bool // true for compiler-synthesized generics (e.g. from `impl Trait` params)
	Constraint Type // nil if unconstrained
}

func NewGeneric(name source.Identifier, constraint Type) *Generic {
	return &Generic{Name_: name, Constraint: constraint}
}

func (g *Generic) String() string { return g.Name() }
func (g *Generic) Name() string   { return g.Name_.Text }
func (g *Generic) Basename() string { return g.Name_.Text }
func (*Generic) IsGeneric() bool  { return true }
func (*Generic) isType()         {}

// SelfType stands for the receiver type inside a trait's function
// signatures, before a concrete implementor is substituted in. It holds
// only a weak reference to its Trait: traits own their function list,
// functions' signatures mention SelfType, and SelfType must not keep the
// Trait alive on its own (see weak.go).
type SelfType struct {
	trait weak.Pointer[Trait]
}

func NewSelfType(t *Trait) SelfType {
	return SelfType{trait: weak.Make(t)}
}

// Trait dereferences the weak trait reference. Panics if the owning
// Trait has been collected, which cannot happen while any Function or
// Module still references it transitively.
func (s SelfType) Trait() *Trait {
	t := s.trait.Value()
	if t == nil {
		panic("hir: SelfType's trait has been collected")
	}
	return t
}

func (s SelfType) String() string   { return "Self" }
func (s SelfType) Name() string     { return "Self" }
func (s SelfType) Basename() string { return "Self" }
func (SelfType) IsGeneric() bool    { return true }
func (SelfType) isType()            {}

// FuncType is the type of a function value: its parameter types and
// return type. It caches its rendered name the way Class/Function do,
// grounded on the original implementation's FunctionTypeBuilder.
type FuncType struct {
	Params []Type
	Return Type

	name string
}

// NewFuncType builds a function type and computes its cached name.
func NewFuncType(params []Type, ret Type) *FuncType {
	ft := &FuncType{Params: params, Return: ret}
	ft.name = ft.buildName()
	return ft
}

func (ft *FuncType) buildName() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range ft.Params {
		if i != 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name())
	}
	b.WriteString(") -> ")
	b.WriteString(ft.Return.Name())
	return b.String()
}

func (ft *FuncType) String() string   { return ft.name }
func (ft *FuncType) Name() string     { return ft.name }
func (ft *FuncType) Basename() string { return ft.name }
func (ft *FuncType) IsGeneric() bool {
	if ft.Return.IsGeneric() {
		return true
	}
	for _, p := range ft.Params {
		if p.IsGeneric() {
			return true
		}
	}
	return false
}
func (*FuncType) isType() {}

// Substitution maps generic parameters (and, for diff-derived
// substitutions, arbitrary types) to concrete types. It is the output of
// Diff and the input to Apply, matching §4.6/§4.9.
type Substitution map[Type]Type

// Diff returns the substitution that would need to be applied to `from`
// to obtain `to`, per §4.6. It ignores whether `from` is actually
// generic: the caller (the resolver's candidate scorer) is responsible
// for rejecting diffs against non-generic parameters.
//
// Grounded on original_source/src/hir/types.rs Type::diff.
func Diff(from, to Type) Substitution {
	if typesEqual(from, to) {
		return Substitution{}
	}
	fc, fok := from.(*Class)
	tc, tok := to.(*Class)
	if fok && tok && fc.Basename_ == tc.Basename_ {
		sub := Substitution{}
		n := len(fc.Generics)
		if len(tc.Generics) < n {
			n = len(tc.Generics)
		}
		for i := 0; i < n; i++ {
			for k, v := range Diff(fc.Generics[i], tc.Generics[i]) {
				sub[k] = v
			}
		}
		return sub
	}
	return Substitution{from: to}
}

// Apply substitutes every occurrence of a generic/bound type found in
// sub, recursively through class generic arguments and function
// parameter/return types. Types with no generic occurrence are returned
// unchanged (and, for Class, without cloning — monomorphization is the
// only operation that clones classes).
func Apply(t Type, sub Substitution) Type {
	if len(sub) == 0 {
		return t
	}
	if repl, ok := sub[t]; ok {
		return repl
	}
	switch v := t.(type) {
	case *Class:
		if len(v.Generics) == 0 {
			return v
		}
		changed := false
		newGenerics := make([]Type, len(v.Generics))
		for i, g := range v.Generics {
			ng := Apply(g, sub)
			newGenerics[i] = ng
			if ng != g {
				changed = true
			}
		}
		if !changed {
			return v
		}
		return specializeGenerics(v, newGenerics)
	case *FuncType:
		newParams := make([]Type, len(v.Params))
		changed := false
		for i, p := range v.Params {
			np := Apply(p, sub)
			newParams[i] = np
			if np != p {
				changed = true
			}
		}
		newReturn := Apply(v.Return, sub)
		if newReturn != v.Return {
			changed = true
		}
		if !changed {
			return v
		}
		return NewFuncType(newParams, newReturn)
	default:
		return t
	}
}

// TypesEqual exposes typesEqual to other packages (the checker's
// convertibility relation and its tests) that need §4.2's "equality of
// the pointed-to data" without duplicating the switch below.
func TypesEqual(a, b Type) bool { return typesEqual(a, b) }

// typesEqual is the equality relation §4.2 calls "equality of the
// pointed-to data": pointer identity for the shared holders (Class,
// Trait, Function all dedupe by canonical name, so identity and content
// coincide in practice and comparing by identity sidesteps infinite
// recursion through mutually-recursive member graphs), structural
// equality for the small acyclic value types.
func typesEqual(a, b Type) bool {
	switch av := a.(type) {
	case *Class:
		bv, ok := b.(*Class)
		return ok && av == bv
	case *Generic:
		bv, ok := b.(*Generic)
		return ok && av == bv
	case SelfType:
		bv, ok := b.(SelfType)
		return ok && av.trait.Value() == bv.trait.Value()
	case *FuncType:
		bv, ok := b.(*FuncType)
		if !ok || len(av.Params) != len(bv.Params) {
			return false
		}
		for i := range av.Params {
			if !typesEqual(av.Params[i], bv.Params[i]) {
				return false
			}
		}
		return typesEqual(av.Return, bv.Return)
	case UnknownType:
		_, ok := b.(UnknownType)
		return ok
	default:
		return a == b
	}
}

// Package context implements the symbol tables and layered context
// stack (components C3 and C4): every lookup a lowering/checking/
// resolving pass performs — variables, types, functions, trait
// implementations, generic substitutions — goes through a Context.
//
// Grounded on funvibe-funxy/internal/symbols/symbol_table_core.go and
// symbol_table_advanced.go's layered `SymbolTable{outer *SymbolTable}`
// delegation, and original_source/src/semantics/contexts/*.rs for which
// lookups each layer kind adds.
package context

import (
	"sync"

	"github.com/corelang/hirc/internal/hir"
)

// Kind names what a Context layer represents, which determines which
// extra lookups (generics, Self, an enclosing Function) it adds on top
// of the base variable/type/function tables every layer has.
type Kind int

const (
	ModuleScope Kind = iota
	BlockScope
	FunctionScope
	GenericScope
	TraitScope
	ImplScope
)

// BuiltinProvider is the fixed runtime-symbol/builtin-class registry
// from §6, queried only by the root Context. internal/builtin implements
// this; Context only depends on the narrow interface to avoid every
// lookup path importing the manifest loader.
type BuiltinProvider interface {
	Type(name string) (hir.Type, bool)
	FunctionsWithFormat(format string) []*hir.Function
}

// Implementation records that a Class satisfies a Trait, keyed by the
// class's canonical name so specializations of a generic class don't
// need a fresh implementation record each time a new instantiation
// appears — only the generic class's own implementation is consulted,
// then specialized via the same Diff/Apply machinery as any other
// generic lookup.
type Implementation struct {
	Trait *hir.Trait
	Class *hir.Class
	// Functions maps a trait function's name-format to the concrete
	// Function that implements it for Class.
	Functions map[string]*hir.Function
}

// Context is one layer of the lookup chain. A lookup that misses in the
// current layer delegates to Outer, exactly like the teacher's
// SymbolTable chain; the root layer (Kind == ModuleScope with Outer ==
// nil) delegates a final miss to Builtin.
type Context struct {
	mu    sync.RWMutex
	kind  Kind
	outer *Context

	module  *hir.Module      // set on the root context
	builtin BuiltinProvider  // set on the root context

	function *hir.Function // set on FunctionScope/GenericScope layers
	trait    *hir.Trait    // set on TraitScope layers, for Self resolution
	selfType hir.Type      // set on ImplScope layers, the concrete Self

	variables map[string]*hir.Variable
	types     map[string]hir.Type

	// generics maps a generic parameter to the type substituted for it in
	// this layer, populated when entering a monomorphized instance's body
	// or a trait implementation's Self-bound context.
	generics map[*hir.Generic]hir.Type

	implementations []*Implementation
}

// NewRoot creates the module-level context at the base of every chain.
func NewRoot(module *hir.Module, builtin BuiltinProvider) *Context {
	return &Context{
		kind:      ModuleScope,
		module:    module,
		builtin:   builtin,
		variables: make(map[string]*hir.Variable),
		types:     make(map[string]hir.Type),
	}
}

// Nested opens a child layer of the given kind beneath c.
func (c *Context) Nested(kind Kind) *Context {
	return &Context{
		kind:      kind,
		outer:     c,
		variables: make(map[string]*hir.Variable),
		types:     make(map[string]hir.Type),
	}
}

// NestedFunction opens a function-body layer, recording the enclosing
// Function so Function() and return-type deduction can find it.
func (c *Context) NestedFunction(f *hir.Function) *Context {
	child := c.Nested(FunctionScope)
	child.function = f
	return child
}

// NestedTrait opens a layer for a trait's function signatures, where
// SelfType resolves to the trait's own Self rather than a concrete class.
func (c *Context) NestedTrait(t *hir.Trait) *Context {
	child := c.Nested(TraitScope)
	child.trait = t
	return child
}

// NestedImpl opens a layer for a trait implementation's body, where Self
// resolves to the concrete implementing class.
func (c *Context) NestedImpl(self hir.Type) *Context {
	child := c.Nested(ImplScope)
	child.selfType = self
	return child
}

// Module walks up to the root layer's Module.
func (c *Context) Module() *hir.Module {
	for cur := c; cur != nil; cur = cur.outer {
		if cur.module != nil {
			return cur.module
		}
	}
	return nil
}

// Function returns the nearest enclosing function, or nil at module
// scope (e.g. while lowering a top-level `let`).
func (c *Context) Function() *hir.Function {
	for cur := c; cur != nil; cur = cur.outer {
		cur.mu.RLock()
		f := cur.function
		cur.mu.RUnlock()
		if f != nil {
			return f
		}
	}
	return nil
}

// Self resolves the Self type visible in the current layer: the
// concrete implementing class inside an impl body, or the trait's
// SelfType placeholder inside a trait signature. Returns nil outside
// both.
func (c *Context) Self() hir.Type {
	for cur := c; cur != nil; cur = cur.outer {
		if cur.selfType != nil {
			return cur.selfType
		}
		if cur.trait != nil {
			return hir.NewSelfType(cur.trait)
		}
	}
	return nil
}

// AddVariable declares a variable in the current layer.
func (c *Context) AddVariable(v *hir.Variable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.variables[v.Name.Text] = v
	if m := c.module; m != nil {
		m.AddVariable(v)
	}
}

// FindVariable searches this layer, then delegates outward, per §4.4's
// layered lookup. A module-scope miss checks the Module's own table
// (module-level variables declared before this Context chain was built,
// e.g. while lowering a later file in the same module).
func (c *Context) FindVariable(name string) (*hir.Variable, bool) {
	for cur := c; cur != nil; cur = cur.outer {
		cur.mu.RLock()
		v, ok := cur.variables[name]
		cur.mu.RUnlock()
		if ok {
			return v, true
		}
		if cur.module != nil {
			if v, ok := cur.module.Variable(name); ok {
				return v, true
			}
		}
	}
	return nil, false
}

// AddType declares a class or trait in the current layer.
func (c *Context) AddType(t hir.Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types[t.Basename()] = t
	if m := c.module; m != nil {
		m.AddType(t)
	}
}

// FindType resolves a basename to its declared Type, falling back to the
// builtin registry at the root.
func (c *Context) FindType(basename string) (hir.Type, bool) {
	for cur := c; cur != nil; cur = cur.outer {
		cur.mu.RLock()
		t, ok := cur.types[basename]
		cur.mu.RUnlock()
		if ok {
			return t, true
		}
		if cur.module != nil {
			if t, ok := cur.module.Type(basename); ok {
				return t, true
			}
		}
		if cur.builtin != nil {
			if t, ok := cur.builtin.Type(basename); ok {
				return t, true
			}
		}
	}
	return nil, false
}

// AddFunction declares a function, visible through FindFunctionsWithFormat
// from this layer outward.
func (c *Context) AddFunction(f *hir.Function) {
	if m := c.Module(); m != nil {
		m.AddFunction(f)
	}
}

// FindFunctionsWithFormat is the resolver's first-level lookup (§4.5):
// every candidate sharing a name format, gathered across every layer
// from innermost to the builtin registry, since a block-local function
// can legally share a name format with a module-level one.
func (c *Context) FindFunctionsWithFormat(format string) []*hir.Function {
	var out []*hir.Function
	seen := map[*hir.Function]bool{}
	add := func(fs []*hir.Function) {
		for _, f := range fs {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	for cur := c; cur != nil; cur = cur.outer {
		if cur.module != nil {
			add(cur.module.FunctionsWithFormat(format))
		}
		if cur.builtin != nil {
			add(cur.builtin.FunctionsWithFormat(format))
		}
	}
	return out
}

// AddImplementation records that Class satisfies Trait in the current
// layer (normally the root).
func (c *Context) AddImplementation(impl *Implementation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.implementations = append(c.implementations, impl)
}

// FindImplementation looks up whether class implements trait, searching
// outward; generic classes register one Implementation that every
// specialization reuses (the lookup compares by SpecializationOf when a
// direct match fails).
func (c *Context) FindImplementation(class *hir.Class, trait *hir.Trait) (*Implementation, bool) {
	target := class
	for cur := c; cur != nil; cur = cur.outer {
		cur.mu.RLock()
		for _, impl := range cur.implementations {
			if impl.Trait == trait && (impl.Class == target || impl.Class == target.SpecializationOf) {
				cur.mu.RUnlock()
				return impl, true
			}
		}
		cur.mu.RUnlock()
	}
	return nil, false
}

// StructuralMatch reports whether class satisfies trait purely by
// having, somewhere in scope, a function for every one of trait's
// required (sig.Body == nil) signatures with Self substituted for
// class — the language described by spec.md has no "impl Trait for
// Class" declaration at all (§8 scenario 3 declares a plain top-level
// function and expects implementation to follow from that alone), so
// this is the only satisfaction check most classes ever go through; an
// explicit Implementation registered via AddImplementation (if the
// surface language is ever extended with one) is still tried first by
// FindImplementation at every call site, ahead of this structural scan.
// convertible is supplied by the caller (internal/convert) so this
// package never has to import it back.
func (c *Context) StructuralMatch(trait *hir.Trait, class *hir.Class, convertible func(from, to hir.Type) bool) bool {
	for _, super := range trait.SuperTraits {
		superTrait, ok := super.(*hir.Trait)
		if !ok {
			continue
		}
		if _, ok := c.FindImplementation(class, superTrait); !ok && !c.StructuralMatch(superTrait, class, convertible) {
			return false
		}
	}
	for _, sig := range trait.FunctionList() {
		if sig.Body != nil {
			continue // provided/default implementation, nothing required
		}
		format := sig.NameFormat()
		matched := false
		for _, cand := range c.FindFunctionsWithFormat(format) {
			if structuralFunctionMatches(sig, cand, class, convertible) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func structuralFunctionMatches(sig, candidate *hir.Function, class *hir.Class, convertible func(from, to hir.Type) bool) bool {
	sigParams := sig.Params()
	candParams := candidate.Params()
	if len(sigParams) != len(candParams) {
		return false
	}
	for i, sp := range sigParams {
		if !convertible(candParams[i].Type, substituteSelf(sp.Type, class)) {
			return false
		}
	}
	return convertible(candidate.ReturnType, substituteSelf(sig.ReturnType, class))
}

func substituteSelf(t hir.Type, class *hir.Class) hir.Type {
	if _, ok := t.(hir.SelfType); ok {
		return class
	}
	return t
}

// MapGeneric binds a generic parameter to a concrete type in the current
// layer, used when entering a monomorphized function's body or an impl
// block's Self-bound context.
func (c *Context) MapGeneric(g *hir.Generic, t hir.Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generics == nil {
		c.generics = make(map[*hir.Generic]hir.Type)
	}
	c.generics[g] = t
}

// ResolveGeneric follows the layer chain to find what concrete type (if
// any) a generic parameter is bound to here.
func (c *Context) ResolveGeneric(g *hir.Generic) (hir.Type, bool) {
	for cur := c; cur != nil; cur = cur.outer {
		cur.mu.RLock()
		t, ok := cur.generics[g]
		cur.mu.RUnlock()
		if ok {
			return t, true
		}
	}
	return nil, false
}

// Builtin exposes the root's builtin registry, for passes (e.g. the
// resolver matching an unqualified call against a runtime symbol) that
// need more than Type/FunctionsWithFormat.
func (c *Context) Builtin() BuiltinProvider {
	for cur := c; cur != nil; cur = cur.outer {
		if cur.builtin != nil {
			return cur.builtin
		}
	}
	return nil
}

func (c *Context) Kind() Kind { return c.kind }

package hir

import (
	"strings"
	"sync"
	"weak"

	"github.com/google/uuid"

	"github.com/corelang/hirc/internal/source"
)

// NamePart is one piece of a function's multipart name: either a literal
// word ("distance", "from") or a parameter slot ("<a: Point>"). A
// function's full declaration is the concatenation of its parts in
// order, e.g. `distance from <a: Point> to <b: Point>`.
//
// Grounded on original_source/src/ast/declarations/function.rs's
// NameParts (Text/Parameter variants).
type NamePart struct {
	// Text is set for a literal word part; Param is set for a parameter
	// slot. Exactly one of the two is non-zero.
	Text  string
	Param *Parameter
}

func TextPart(text string) NamePart       { return NamePart{Text: text} }
func ParamPart(p *Parameter) NamePart     { return NamePart{Param: p} }
func (p NamePart) IsParam() bool          { return p.Param != nil }

// Parameter is one parameter slot in a function's name.
type Parameter struct {
	Name    source.Identifier
	Type    Type
	Mutable bool // true for `mut` parameters, which bind ReferenceMut
}

// Function is a shared holder for a lowered function declaration: its
// multipart name, generic parameters, parameter list, return type and
// (for non-builtin functions) its body.
//
// Two strings key every lookup the resolver performs (§4.5): NameFormat
// replaces each parameter slot with an empty placeholder ("distance
// from <> to <>") and is the first-level bucket key; CanonicalName adds
// each parameter's declared type ("distance from <:Point> to <:Point>")
// and disambiguates within a bucket, including across monomorphized
// instances of the same generic function.
//
// Grounded on original_source/src/ast/declarations/function.rs and the
// teacher's cached-name idiom in typesystem/types.go.
type Function struct {
	mu sync.RWMutex

	ID uuid.UUID

	NameParts  []NamePart
	Generics   []*Generic
	ReturnType Type
	Body       []Statement // nil for builtins and required (bodyless) trait signatures

	// RuntimeName overrides the mangled name used to reach a builtin
	// symbol (the `mangle_as` annotation from §6); empty otherwise.
	RuntimeName string
	IsBuiltin   bool

	Loc source.Location

	// GenericOriginal is the generic function this was monomorphized
	// from; nil for a non-generic function or the generic original
	// itself. It is a weak reference: the module's function index is the
	// only strong owner of any Function, generic or specialized, so a
	// generic original must not be kept alive solely because one of its
	// instances points back at it (see weak.go/monomorphize.go).
	genericOriginal weak.Pointer[Function]

	nameFormat    string
	canonicalName string
}

// NewFunction builds a function from its declared name parts. Generics,
// ReturnType and Body are filled in by the caller (internal/lowering)
// once they've been determined, since the function's own signature may
// be self-referential (a recursive function's body references its own
// Function holder).
func NewFunction(parts []NamePart, loc source.Location) *Function {
	f := &Function{ID: uuid.New(), NameParts: parts, Loc: loc}
	f.nameFormat = buildNameFormat(parts)
	return f
}

func buildNameFormat(parts []NamePart) string {
	var b strings.Builder
	for i, p := range parts {
		if i != 0 {
			b.WriteByte(' ')
		}
		if p.IsParam() {
			b.WriteString("<>")
		} else {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

// NameFormat is the first-level lookup key: parameter slots erased.
func (f *Function) NameFormat() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.nameFormat
}

// CanonicalName is the second-level lookup key: each parameter slot
// carries its declared type. Computed lazily since parameter types are
// only known once lowering has processed the signature's type
// references; recomputed whenever the signature changes (monomorphized
// instances get theirs set directly via SetCanonicalName once their
// parameter types are substituted).
func (f *Function) CanonicalName() string {
	f.mu.RLock()
	cached := f.canonicalName
	f.mu.RUnlock()
	if cached != "" {
		return cached
	}
	name := f.buildCanonicalName()
	f.mu.Lock()
	f.canonicalName = name
	f.mu.Unlock()
	return name
}

func (f *Function) buildCanonicalName() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var b strings.Builder
	for i, p := range f.NameParts {
		if i != 0 {
			b.WriteByte(' ')
		}
		if p.IsParam() {
			b.WriteString("<:")
			if p.Param.Type != nil {
				b.WriteString(p.Param.Type.Name())
			}
			b.WriteByte('>')
		} else {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

// InvalidateCanonicalName clears the cache after a parameter's type is
// substituted (monomorphization), forcing a rebuild on next access.
func (f *Function) InvalidateCanonicalName() {
	f.mu.Lock()
	f.canonicalName = ""
	f.mu.Unlock()
}

func (f *Function) String() string { return f.CanonicalName() }

// Type returns this function's value type, e.g. for passing it as a
// first-class value or matching it against a FuncType constraint.
func (f *Function) Type() *FuncType {
	f.mu.RLock()
	defer f.mu.RUnlock()
	params := make([]Type, 0, len(f.NameParts))
	for _, p := range f.NameParts {
		if p.IsParam() {
			params = append(params, p.Param.Type)
		}
	}
	return NewFuncType(params, f.ReturnType)
}

func (f *Function) IsGeneric() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.Generics) > 0
}

// SetGenericOriginal records the generic function this was specialized
// from, as a weak back-reference.
func (f *Function) SetGenericOriginal(orig *Function) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.genericOriginal = weak.Make(orig)
}

// GenericOriginal dereferences the weak back-reference, or nil if this
// function was never a specialization (or its original was collected,
// which cannot happen while the module's function index is reachable).
func (f *Function) GenericOriginal() *Function {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.genericOriginal.Value()
}

// Params returns just the parameter slots, in declaration order.
func (f *Function) Params() []*Parameter {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []*Parameter
	for _, p := range f.NameParts {
		if p.IsParam() {
			out = append(out, p.Param)
		}
	}
	return out
}

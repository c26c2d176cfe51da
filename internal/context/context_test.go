package context

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corelang/hirc/internal/hir"
	"github.com/corelang/hirc/internal/source"
)

func id(name string) source.Identifier { return source.New(name, source.Location{}) }

// fakeBuiltin is a minimal BuiltinProvider stand-in for tests, grounded
// on the shape internal/builtin.Registry implements.
type fakeBuiltin struct {
	types map[string]hir.Type
}

func (f *fakeBuiltin) Type(name string) (hir.Type, bool) {
	t, ok := f.types[name]
	return t, ok
}

func (f *fakeBuiltin) FunctionsWithFormat(string) []*hir.Function { return nil }

func TestVariableLookupDelegatesToOuterLayer(t *testing.T) {
	root := NewRoot(hir.NewModule("m"), nil)
	v := hir.NewVariable(id("x"), nil, false, source.Location{})
	root.AddVariable(v)

	child := root.Nested(BlockScope)
	found, ok := child.FindVariable("x")
	require.True(t, ok)
	assert.Same(t, v, found)

	_, ok = child.FindVariable("y")
	assert.False(t, ok)
}

func TestVariableInInnerLayerShadowsOuter(t *testing.T) {
	root := NewRoot(hir.NewModule("m"), nil)
	outer := hir.NewVariable(id("x"), nil, false, source.Location{})
	root.AddVariable(outer)

	child := root.Nested(BlockScope)
	inner := hir.NewVariable(id("x"), nil, false, source.Location{})
	child.AddVariable(inner)

	found, ok := child.FindVariable("x")
	require.True(t, ok)
	assert.Same(t, inner, found)
}

func TestFindTypeFallsBackToBuiltinAtRoot(t *testing.T) {
	i32 := hir.NewBuiltinClass("I32", hir.BuiltinI32)
	builtin := &fakeBuiltin{types: map[string]hir.Type{"I32": i32}}
	root := NewRoot(hir.NewModule("m"), builtin)

	child := root.Nested(FunctionScope)
	found, ok := child.FindType("I32")
	require.True(t, ok)
	assert.Same(t, i32, found)

	_, ok = child.FindType("DoesNotExist")
	assert.False(t, ok)
}

func TestSelfResolvesTraitSelfTypeInsideTraitScope(t *testing.T) {
	trait := hir.NewTrait("Ord", source.Location{})
	root := NewRoot(hir.NewModule("m"), nil)
	traitCtx := root.NestedTrait(trait)

	self := traitCtx.Self()
	require.NotNil(t, self)
	selfType, ok := self.(hir.SelfType)
	require.True(t, ok)
	assert.Equal(t, trait, selfType.Trait())
}

func TestSelfResolvesConcreteClassInsideImplScope(t *testing.T) {
	point := hir.NewClass("Point", source.Location{})
	root := NewRoot(hir.NewModule("m"), nil)
	implCtx := root.NestedImpl(point)

	assert.Same(t, point, implCtx.Self())
}

func TestFunctionWalksUpToNearestFunctionScope(t *testing.T) {
	root := NewRoot(hir.NewModule("m"), nil)
	fn := hir.NewFunction([]hir.NamePart{hir.TextPart("f")}, source.Location{})
	fnCtx := root.NestedFunction(fn)
	block := fnCtx.Nested(BlockScope)

	assert.Same(t, fn, block.Function())
	assert.Nil(t, root.Function())
}

func TestFindImplementationMatchesSpecializationsOfGenericClass(t *testing.T) {
	tparam := hir.NewGeneric(id("T"), nil)
	genericClass := hir.NewClass("Box", source.Location{})
	genericClass.Generics = []hir.Type{tparam}
	trait := hir.NewTrait("Container", source.Location{})

	root := NewRoot(hir.NewModule("m"), nil)
	root.AddImplementation(&Implementation{Trait: trait, Class: genericClass, Functions: map[string]*hir.Function{}})

	i32 := hir.NewBuiltinClass("I32", hir.BuiltinI32)
	specialized := hir.Apply(genericClass, hir.Substitution{tparam: i32}).(*hir.Class)

	_, ok := root.FindImplementation(specialized, trait)
	assert.True(t, ok, "a specialization of a generic class should satisfy a trait its generic original implements")
}

func TestResolveGenericSearchesOutward(t *testing.T) {
	g := hir.NewGeneric(id("T"), nil)
	i32 := hir.NewBuiltinClass("I32", hir.BuiltinI32)

	root := NewRoot(hir.NewModule("m"), nil)
	root.MapGeneric(g, i32)

	child := root.Nested(GenericScope)
	bound, ok := child.ResolveGeneric(g)
	require.True(t, ok)
	assert.Same(t, i32, bound)
}

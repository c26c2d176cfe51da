package hir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corelang/hirc/internal/source"
)

func id(name string) source.Identifier { return source.New(name, source.Location{}) }

func TestDiffNonGenericEqualTypesYieldsEmptySubstitution(t *testing.T) {
	i32 := NewBuiltinClass("I32", BuiltinI32)
	sub := Diff(i32, i32)
	assert.Empty(t, sub)
}

func TestDiffBindsGenericParameterToConcreteArgument(t *testing.T) {
	tparam := NewGeneric(id("T"), nil)
	box := NewClass("Box", source.Location{})
	box.Generics = []Type{tparam}

	i32 := NewBuiltinClass("I32", BuiltinI32)
	concreteBox := NewClass("Box", source.Location{})
	concreteBox.Generics = []Type{i32}

	sub := Diff(box, concreteBox)
	require.Len(t, sub, 1)
	assert.Equal(t, i32, sub[tparam])
}

func TestDiffFallsBackToWholeTypeKeyOnBasenameMismatch(t *testing.T) {
	i32 := NewBuiltinClass("I32", BuiltinI32)
	str := NewBuiltinClass("String", BuiltinString)
	sub := Diff(i32, str)
	require.Len(t, sub, 1)
	assert.Equal(t, str, sub[i32])
}

func TestApplySubstitutesNestedGenericClassArguments(t *testing.T) {
	tparam := NewGeneric(id("T"), nil)
	box := NewClass("Box", source.Location{})
	box.Generics = []Type{tparam}

	i32 := NewBuiltinClass("I32", BuiltinI32)
	sub := Substitution{tparam: i32}

	applied := Apply(box, sub)
	applyBox, ok := applied.(*Class)
	require.True(t, ok)
	assert.Equal(t, "Box<I32>", applyBox.Name())
	assert.Equal(t, box, applyBox.SpecializationOf)
}

func TestApplyReturnsSameClassPointerWhenNoGenericOccurs(t *testing.T) {
	i32 := NewBuiltinClass("I32", BuiltinI32)
	sub := Substitution{NewGeneric(id("Unrelated"), nil): i32}
	assert.Same(t, i32, Apply(i32, sub))
}

func TestApplyOnEmptySubstitutionIsIdentity(t *testing.T) {
	i32 := NewBuiltinClass("I32", BuiltinI32)
	assert.Same(t, i32, Apply(i32, Substitution{}))
}

func TestTypesEqualComparesClassesByIdentity(t *testing.T) {
	a := NewClass("Point", source.Location{})
	b := NewClass("Point", source.Location{})
	assert.True(t, TypesEqual(a, a))
	assert.False(t, TypesEqual(a, b), "two distinct Class holders with the same name are not equal")
}

func TestTypesEqualComparesFuncTypesStructurally(t *testing.T) {
	i32 := NewBuiltinClass("I32", BuiltinI32)
	str := NewBuiltinClass("String", BuiltinString)
	a := NewFuncType([]Type{i32}, str)
	b := NewFuncType([]Type{i32}, str)
	assert.True(t, TypesEqual(a, b))

	c := NewFuncType([]Type{str}, str)
	assert.False(t, TypesEqual(a, c))
}

func TestSelfTypeEqualityFollowsWeakTraitReference(t *testing.T) {
	trait := NewTrait("Ord", source.Location{})
	s1 := NewSelfType(trait)
	s2 := NewSelfType(trait)
	assert.True(t, TypesEqual(s1, s2))
	assert.Equal(t, trait, s1.Trait())
}

func TestGenericIsGenericAlwaysTrue(t *testing.T) {
	g := NewGeneric(id("T"), nil)
	assert.True(t, g.IsGeneric())
}

func TestClassIsGenericReflectsItsGenericArguments(t *testing.T) {
	i32 := NewBuiltinClass("I32", BuiltinI32)
	concrete := NewClass("Box", source.Location{})
	concrete.Generics = []Type{i32}
	assert.False(t, concrete.IsGeneric())

	tparam := NewGeneric(id("T"), nil)
	generic := NewClass("Box", source.Location{})
	generic.Generics = []Type{tparam}
	assert.True(t, generic.IsGeneric())
}

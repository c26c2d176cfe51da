package hir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corelang/hirc/internal/source"
)

func TestClassNameRendersGenericArguments(t *testing.T) {
	i32 := NewBuiltinClass("I32", BuiltinI32)
	box := NewClass("Box", source.Location{})
	box.Generics = []Type{i32}
	assert.Equal(t, "Box<I32>", box.Name())
}

func TestClassNameWithoutGenericsIsBareBasename(t *testing.T) {
	point := NewClass("Point", source.Location{})
	assert.Equal(t, "Point", point.Name())
}

func TestClassBuiltinTagPredicates(t *testing.T) {
	ref := NewBuiltinClass("Reference", BuiltinReference)
	assert.True(t, ref.IsReference())
	assert.True(t, ref.IsAnyReference())
	assert.False(t, ref.IsReferenceMut())

	mut := NewBuiltinClass("ReferenceMut", BuiltinReferenceMut)
	assert.True(t, mut.IsAnyReference())
	assert.False(t, mut.IsReference())

	user := NewClass("Point", source.Location{})
	assert.False(t, user.IsBuiltin())
	assert.False(t, user.IsAnyReference())
}

func TestClassSizeInBytesForBuiltins(t *testing.T) {
	assert.Equal(t, 0, NewBuiltinClass("None", BuiltinNone).SizeInBytes())
	assert.Equal(t, 1, NewBuiltinClass("Bool", BuiltinBool).SizeInBytes())
	assert.Equal(t, 4, NewBuiltinClass("I32", BuiltinI32).SizeInBytes())
	assert.Equal(t, 8, NewBuiltinClass("F64", BuiltinF64).SizeInBytes())
}

func TestClassSizeInBytesSumsUserMembers(t *testing.T) {
	point := NewClass("Point", source.Location{})
	i32 := NewBuiltinClass("I32", BuiltinI32)
	point.SetMembers([]Member{
		{Name: id("x"), Type: i32},
		{Name: id("y"), Type: i32},
	})
	assert.Equal(t, 8, point.SizeInBytes())
}

func TestSpecializeGenericsSubstitutesMemberTypes(t *testing.T) {
	tparam := NewGeneric(id("T"), nil)
	box := NewClass("Box", source.Location{})
	box.Generics = []Type{tparam}
	box.SetMembers([]Member{{Name: id("value"), Type: tparam}})

	i32 := NewBuiltinClass("I32", BuiltinI32)
	specialized := Apply(box, Substitution{tparam: i32}).(*Class)

	require.Len(t, specialized.MemberList(), 1)
	assert.Same(t, i32, specialized.MemberList()[0].Type)
	assert.Same(t, box, specialized.SpecializationOf)
	// The generic original itself must be untouched by specialization.
	assert.Same(t, tparam, box.MemberList()[0].Type)
}

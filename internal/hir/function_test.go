package hir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corelang/hirc/internal/source"
)

func TestFunctionNameFormatErasesParameterSlots(t *testing.T) {
	point := NewClass("Point", source.Location{})
	f := NewFunction([]NamePart{
		TextPart("distance"),
		TextPart("from"),
		ParamPart(&Parameter{Name: id("a"), Type: point}),
		TextPart("to"),
		ParamPart(&Parameter{Name: id("b"), Type: point}),
	}, source.Location{})

	assert.Equal(t, "distance from <> to <>", f.NameFormat())
}

func TestFunctionCanonicalNameIncludesParameterTypesAndCaches(t *testing.T) {
	point := NewClass("Point", source.Location{})
	f := NewFunction([]NamePart{
		TextPart("distance"),
		TextPart("from"),
		ParamPart(&Parameter{Name: id("a"), Type: point}),
	}, source.Location{})

	first := f.CanonicalName()
	assert.Equal(t, "distance from <:Point>", first)

	// Mutating the parameter's type after the first call must not change
	// the cached result until InvalidateCanonicalName is called.
	f.Params()[0].Type = NewBuiltinClass("I32", BuiltinI32)
	assert.Equal(t, first, f.CanonicalName())

	f.InvalidateCanonicalName()
	assert.Equal(t, "distance from <:I32>", f.CanonicalName())
}

func TestFunctionIsGenericReflectsGenericsSlice(t *testing.T) {
	f := NewFunction([]NamePart{TextPart("none")}, source.Location{})
	assert.False(t, f.IsGeneric())

	f.Generics = []*Generic{NewGeneric(id("T"), nil)}
	assert.True(t, f.IsGeneric())
}

func TestFunctionGenericOriginalWeakReference(t *testing.T) {
	generic := NewFunction([]NamePart{TextPart("identity")}, source.Location{})
	generic.Generics = []*Generic{NewGeneric(id("T"), nil)}

	instance := NewFunction([]NamePart{TextPart("identity")}, source.Location{})
	instance.SetGenericOriginal(generic)

	assert.Same(t, generic, instance.GenericOriginal())
}

func TestFunctionTypeCollectsOnlyParameterSlots(t *testing.T) {
	i32 := NewBuiltinClass("I32", BuiltinI32)
	str := NewBuiltinClass("String", BuiltinString)
	f := NewFunction([]NamePart{
		TextPart("convert"),
		ParamPart(&Parameter{Name: id("x"), Type: i32}),
	}, source.Location{})
	f.ReturnType = str

	ft := f.Type()
	assert.Equal(t, []Type{i32}, ft.Params)
	assert.Same(t, str, ft.Return)
}

func TestFunctionParamsPreservesDeclarationOrder(t *testing.T) {
	i32 := NewBuiltinClass("I32", BuiltinI32)
	f := NewFunction([]NamePart{
		ParamPart(&Parameter{Name: id("a"), Type: i32}),
		TextPart("plus"),
		ParamPart(&Parameter{Name: id("b"), Type: i32}),
	}, source.Location{})

	params := f.Params()
	assert.Len(t, params, 2)
	assert.Equal(t, "a", params[0].Name.Text)
	assert.Equal(t, "b", params[1].Name.Text)
}

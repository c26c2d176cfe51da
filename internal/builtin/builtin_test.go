package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corelang/hirc/internal/hir"
)

func TestLoadRegistersEveryBuiltinClassWithItsTag(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	cases := []struct {
		name string
		tag  hir.BuiltinTag
	}{
		{"None", hir.BuiltinNone},
		{"Bool", hir.BuiltinBool},
		{"I32", hir.BuiltinI32},
		{"F64", hir.BuiltinF64},
		{"Integer", hir.BuiltinInteger},
		{"Rational", hir.BuiltinRational},
		{"String", hir.BuiltinString},
		{"Reference", hir.BuiltinReference},
		{"ReferenceMut", hir.BuiltinReferenceMut},
	}
	for _, c := range cases {
		class, ok := r.Class(c.name)
		require.True(t, ok, "missing builtin class %s", c.name)
		assert.True(t, class.IsBuiltin())
		assert.Equal(t, c.name, class.Basename())
	}
}

func TestLoadGivesReferenceAndReferenceMutAGenericParameter(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	ref, ok := r.Class("Reference")
	require.True(t, ok)
	assert.True(t, ref.IsGeneric())
	assert.Len(t, ref.Generics, 1)
}

func TestLoadParsesPlainNameFunctionWithTrailingParamSlots(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	fns := r.FunctionsWithFormat("integer_from_i64 <>")
	require.Len(t, fns, 1)
	fn := fns[0]
	assert.Equal(t, "integer_from_i64", fn.RuntimeName)
	assert.True(t, fn.IsBuiltin)
	require.Len(t, fn.Params(), 1)
	i32, _ := r.Class("I32")
	assert.Same(t, i32, fn.Params()[0].Type)
	integer, _ := r.Class("Integer")
	assert.Same(t, integer, fn.ReturnType)
}

func TestLoadParsesOperatorStyleFormatWithInterleavedParams(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	fns := r.FunctionsWithFormat("<> + <>")
	require.Len(t, fns, 1)
	fn := fns[0]
	assert.Equal(t, "integer_plus_integer", fn.RuntimeName)
	require.Len(t, fn.Params(), 2)
	integer, _ := r.Class("Integer")
	assert.Same(t, integer, fn.Params()[0].Type)
	assert.Same(t, integer, fn.Params()[1].Type)
}

func TestLoadDisambiguatesEqualityOperatorOverloadsByFormatBucketAndParamTypes(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	fns := r.FunctionsWithFormat("<> == <>")
	require.Len(t, fns, 2, "Integer == Integer and Rational == Rational share one NameFormat bucket")

	integer, _ := r.Class("Integer")
	rational, _ := r.Class("Rational")
	var sawInteger, sawRational bool
	for _, fn := range fns {
		switch fn.Params()[0].Type {
		case integer:
			sawInteger = true
		case rational:
			sawRational = true
		}
	}
	assert.True(t, sawInteger)
	assert.True(t, sawRational)
}

func TestLoadParsesZeroArgumentPlainNameFunction(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	fns := r.FunctionsWithFormat("none")
	require.Len(t, fns, 1)
	assert.Empty(t, fns[0].Params())
	none, _ := r.Class("None")
	assert.Same(t, none, fns[0].ReturnType)
}

func TestLoadCoversEverySpecifiedRuntimeFunctionFormat(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	formats := []string{
		"none",
		"integer_from_i64 <>",
		"integer_from_c_string <>",
		"rational_from_c_string <>",
		"string_from_c_string_and_length <> <>",
		"integer_as_string <>",
		"rational_as_string <>",
		"print_string <>",
		"minus <>",
		"<> + <>",
		"<> * <>",
		"<> / <>",
		"<> == <>",
		"<> < <>",
	}
	for _, f := range formats {
		assert.NotEmpty(t, r.FunctionsWithFormat(f), "expected at least one function for format %q", f)
	}
}

func TestTypeReturnsFalseForUnknownClassName(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)
	_, ok := r.Type("NoSuchClass")
	assert.False(t, ok)
}

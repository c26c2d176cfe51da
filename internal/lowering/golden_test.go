package lowering_test

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/corelang/hirc/internal/ast"
	"github.com/corelang/hirc/internal/convert"
	"github.com/corelang/hirc/internal/diagnostics"
	"github.com/corelang/hirc/internal/hir"
)

// golden end-to-end scenarios from spec.md §8, bundled as a txtar
// archive of (scenario name)/description and (scenario name)/expect
// file pairs. The description is prose documentation only (no parser
// is in scope, so the AST for each scenario is still built by hand
// below); the expect file is the one thing actually checked, parsed
// into key=value assertions.
func loadExpectations(t *testing.T, scenario string) map[string]string {
	t.Helper()
	arc, err := txtar.ParseFile("testdata/scenarios.txtar")
	require.NoError(t, err)

	out := map[string]string{}
	want := scenario + "/expect"
	for _, f := range arc.Files {
		if f.Name != want {
			continue
		}
		for _, line := range strings.Split(strings.TrimSpace(string(f.Data)), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			k, v, ok := strings.Cut(line, "=")
			require.True(t, ok, "malformed expectation line %q", line)
			out[k] = v
		}
	}
	require.NotEmpty(t, out, "no expect section found for scenario %q", scenario)
	return out
}

// TestGoldenIdentityMonomorphization is spec.md §8 scenario 1: a
// generic identity function called with an Integer literal must
// monomorphize to exactly one instance whose return and parameter
// types are both Integer.
func TestGoldenIdentityMonomorphization(t *testing.T) {
	exp := loadExpectations(t, "identity")
	ctx, l, _ := newSession(t, nil)

	identity := &ast.FunctionDeclaration{
		NameParts: []ast.NamePartNode{
			{Text: "identity"},
			{Param: &ast.ParameterNode{Name: id("x"), Type: ast.Type{Name: id("T")}}},
		},
		Generics:   []ast.GenericParameterNode{{Name: id("T")}},
		ReturnType: &ast.Type{Name: id("T")},
		Body: []ast.Statement{
			&ast.ReturnStatement{Value: &ast.VariableReference{Name: id("x")}},
		},
	}
	main := &ast.FunctionDeclaration{
		NameParts:  []ast.NamePartNode{{Text: "main"}},
		ReturnType: &ast.Type{Name: id("Integer")},
		Body: []ast.Statement{
			&ast.ReturnStatement{Value: &ast.CallExpression{
				Parts: []ast.CallPart{
					{Text: "identity"},
					{Arg: &ast.IntegerLiteral{Text: "5"}},
				},
			}},
		},
	}

	astModule := &ast.Module{Statements: []ast.Statement{identity, main}}
	lowered := l.LowerFiles([]*ast.Module{astModule})

	wantCount, err := strconv.Atoi(exp["monomorphized_count"])
	require.NoError(t, err)
	require.Len(t, lowered.Monomorphized, wantCount)

	instance := lowered.Monomorphized[0]
	integerClass, ok := ctx.Builtin().Type("Integer")
	require.True(t, ok)
	assert.Equal(t, exp["instance_return_type"], instance.ReturnType.Name())
	assert.Equal(t, exp["instance_param_type"], instance.Params()[0].Type.Name())
	assert.Same(t, integerClass, instance.ReturnType)
}

// TestGoldenMultipartNameFormatting is spec.md §8 scenario 2: the
// name-format/canonical-name pair a multipart function call derives.
func TestGoldenMultipartNameFormatting(t *testing.T) {
	exp := loadExpectations(t, "multipart")
	ctx, l, _ := newSession(t, nil)

	point := &ast.ClassDeclaration{Name: id("Point")}
	distance := &ast.FunctionDeclaration{
		NameParts: []ast.NamePartNode{
			{Text: "distance"}, {Text: "from"},
			{Param: &ast.ParameterNode{Name: id("a"), Type: ast.Type{Name: id("Point")}}},
			{Text: "to"},
			{Param: &ast.ParameterNode{Name: id("b"), Type: ast.Type{Name: id("Point")}}},
		},
		ReturnType: &ast.Type{Name: id("Integer")},
		Body: []ast.Statement{
			&ast.ReturnStatement{Value: &ast.IntegerLiteral{Text: "0"}},
		},
	}
	call := &ast.FunctionDeclaration{
		NameParts:  []ast.NamePartNode{{Text: "call_distance"}},
		ReturnType: &ast.Type{Name: id("Integer")},
		Body: []ast.Statement{
			&ast.ReturnStatement{Value: &ast.CallExpression{
				Parts: []ast.CallPart{
					{Text: "distance"}, {Text: "from"},
					{Arg: &ast.ConstructorExpression{Type: ast.Type{Name: id("Point")}}},
					{Text: "to"},
					{Arg: &ast.ConstructorExpression{Type: ast.Type{Name: id("Point")}}},
				},
			}},
		},
	}

	astModule := &ast.Module{Statements: []ast.Statement{point, distance, call}}
	l.LowerFiles([]*ast.Module{astModule})

	fns := ctx.FindFunctionsWithFormat(exp["name_format"])
	require.Len(t, fns, 1)
	assert.Equal(t, exp["canonical_name"], fns[0].CanonicalName())
}

// TestGoldenImmutableAssignment is spec.md §8 scenario 4: a second
// assignment to a `let` (non-`mut`) binding reports exactly one
// AssignmentToImmutable diagnostic.
func TestGoldenImmutableAssignment(t *testing.T) {
	exp := loadExpectations(t, "immutable_assignment")
	diags, err := diagnostics.NewStore()
	require.NoError(t, err)
	defer diags.Close()
	_, l, _ := newSession(t, diags)

	mutate := &ast.FunctionDeclaration{
		NameParts: []ast.NamePartNode{{Text: "mutate"}},
		Body: []ast.Statement{
			&ast.VariableDeclaration{Name: id("x"), Value: &ast.IntegerLiteral{Text: "1"}},
			&ast.AssignmentStatement{Target: &ast.VariableReference{Name: id("x")}, Value: &ast.IntegerLiteral{Text: "2"}},
		},
	}

	astModule := &ast.Module{Statements: []ast.Statement{mutate}}
	l.LowerFiles([]*ast.Module{astModule})

	found, err := diags.OfKind(diagnostics.AssignmentToImmutable)
	require.NoError(t, err)
	wantCount, err := strconv.Atoi(exp["assignment_to_immutable_errors"])
	require.NoError(t, err)
	assert.Len(t, found, wantCount)
}

// TestGoldenTraitSatisfactionWithoutImplBlock is spec.md §8 scenario 3:
// declaring trait Ord with one required signature, a class X, and a
// plain top-level function matching that signature with Self replaced
// by X must make X implement Ord, with no "impl Ord for X" block
// anywhere in the module.
func TestGoldenTraitSatisfactionWithoutImplBlock(t *testing.T) {
	exp := loadExpectations(t, "trait_satisfaction")
	ctx, l, _ := newSession(t, nil)

	ord := &ast.TraitDeclaration{
		Name: id("Ord"),
		Functions: []ast.TraitFunctionSig{
			{
				NameParts: []ast.NamePartNode{
					{Param: &ast.ParameterNode{Name: id("a"), Type: ast.Type{Name: id("Self")}}},
					{Text: "<"},
					{Param: &ast.ParameterNode{Name: id("b"), Type: ast.Type{Name: id("Self")}}},
				},
				ReturnType: &ast.Type{Name: id("Bool")},
			},
		},
	}
	class := &ast.ClassDeclaration{Name: id("X")}
	less := &ast.FunctionDeclaration{
		NameParts: []ast.NamePartNode{
			{Param: &ast.ParameterNode{Name: id("a"), Type: ast.Type{Name: id("X")}}},
			{Text: "<"},
			{Param: &ast.ParameterNode{Name: id("b"), Type: ast.Type{Name: id("X")}}},
		},
		ReturnType: &ast.Type{Name: id("Bool")},
		Body: []ast.Statement{
			&ast.ReturnStatement{Value: &ast.BoolLiteral{Value: true}},
		},
	}

	astModule := &ast.Module{Statements: []ast.Statement{ord, class, less}}
	l.LowerFiles([]*ast.Module{astModule})

	traitType, ok := ctx.FindType("Ord")
	require.True(t, ok)
	trait, ok := traitType.(*hir.Trait)
	require.True(t, ok)

	classType, ok := ctx.FindType("X")
	require.True(t, ok)
	xClass, ok := classType.(*hir.Class)
	require.True(t, ok)

	conv, ok := convert.Convertibility(ctx, xClass, trait)
	assert.Equal(t, exp["implements"] == "true", ok)
	assert.Equal(t, convert.Conversion{}, conv, "satisfying a trait structurally needs no wrapping conversion")
}

// TestScenariosArchiveFormatsCleanly guards against the fixture file
// bitrotting into something txtar itself can't round-trip.
func TestScenariosArchiveFormatsCleanly(t *testing.T) {
	arc, err := txtar.ParseFile("testdata/scenarios.txtar")
	require.NoError(t, err)
	assert.NotEmpty(t, arc.Files)
	for _, f := range arc.Files {
		assert.True(t, bytes.HasSuffix(f.Data, []byte("\n")) || len(f.Data) == 0, "file %q should end with a newline", f.Name)
	}
}

package lowering_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corelang/hirc/internal/ast"
	"github.com/corelang/hirc/internal/builtin"
	"github.com/corelang/hirc/internal/context"
	"github.com/corelang/hirc/internal/diagnostics"
	"github.com/corelang/hirc/internal/hir"
	"github.com/corelang/hirc/internal/lowering"
	"github.com/corelang/hirc/internal/monomorphize"
	"github.com/corelang/hirc/internal/source"
)

func id(name string) source.Identifier { return source.New(name, source.Location{}) }

func newSession(t *testing.T, diags *diagnostics.Store) (*context.Context, *lowering.Lowerer, *hir.Module) {
	t.Helper()
	reg, err := builtin.Load()
	require.NoError(t, err)
	module := hir.NewModule("test")
	ctx := context.NewRoot(module, reg)
	mono := monomorphize.New(module)
	return ctx, lowering.New(ctx, mono, diags), module
}

func TestLowerFilesMonomorphizesGenericIdentityCalledWithAnInteger(t *testing.T) {
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

	require.Len(t, lowered.Monomorphized, 1, "identity<Integer> should be monomorphized exactly once")
	instance := lowered.Monomorphized[0]
	integerClass, _ := ctx.Builtin().Type("Integer")
	assert.Same(t, integerClass, instance.ReturnType)
	assert.Same(t, integerClass, instance.Params()[0].Type)

	var mainFn *hir.Function
	for _, s := range lowered.Statements {
		if fd, ok := s.(*hir.FunctionDeclStmt); ok && fd.Function.NameFormat() == "main" {
			mainFn = fd.Function
		}
	}
	require.NotNil(t, mainFn)
	ret := mainFn.Body[0].(*hir.ReturnStmt)
	call := ret.Value.(*hir.Call)
	assert.Same(t, instance, call.Callee, "main's call to identity(5) must resolve to the monomorphized instance")
}

func TestLowerFilesReusesOneMonomorphizedInstanceAcrossTwoCallSites(t *testing.T) {
	_, l, module := newSession(t, nil)

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
	callIdentity := func() *ast.CallExpression {
		return &ast.CallExpression{Parts: []ast.CallPart{
			{Text: "identity"},
			{Arg: &ast.IntegerLiteral{Text: "1"}},
		}}
	}
	first := &ast.FunctionDeclaration{
		NameParts:  []ast.NamePartNode{{Text: "first"}},
		ReturnType: &ast.Type{Name: id("Integer")},
		Body:       []ast.Statement{&ast.ReturnStatement{Value: callIdentity()}},
	}
	second := &ast.FunctionDeclaration{
		NameParts:  []ast.NamePartNode{{Text: "second"}},
		ReturnType: &ast.Type{Name: id("Integer")},
		Body:       []ast.Statement{&ast.ReturnStatement{Value: callIdentity()}},
	}

	astModule := &ast.Module{Statements: []ast.Statement{identity, first, second}}
	lowered := l.LowerFiles([]*ast.Module{astModule})

	require.Len(t, lowered.Monomorphized, 1, "both call sites request identity<Integer>, so only one instance should ever be produced")
	assert.Same(t, module, lowered)
}

func TestLowerFilesReportsAssignmentToAnImmutableVariable(t *testing.T) {
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
	assert.Len(t, found, 1)
}

func TestLowerFilesDeducesReturnTypeFromTrailingExpressionStatement(t *testing.T) {
	ctx, l, _ := newSession(t, nil)

	bare := &ast.FunctionDeclaration{
		NameParts: []ast.NamePartNode{{Text: "bare"}},
		Body: []ast.Statement{
			&ast.ExpressionStatement{Value: &ast.IntegerLiteral{Text: "5"}},
		},
	}

	astModule := &ast.Module{Statements: []ast.Statement{bare}}
	l.LowerFiles([]*ast.Module{astModule})

	fns := ctx.FindFunctionsWithFormat("bare")
	require.Len(t, fns, 1)
	integerClass, _ := ctx.Builtin().Type("Integer")
	assert.Same(t, integerClass, fns[0].ReturnType)
}

func TestLowerFilesReportsUndeducibleReturnTypeForEmptyBody(t *testing.T) {
	diags, err := diagnostics.NewStore()
	require.NoError(t, err)
	defer diags.Close()
	ctx, l, _ := newSession(t, diags)

	emptyBody := &ast.FunctionDeclaration{
		NameParts: []ast.NamePartNode{{Text: "empty_body"}},
		Body:      []ast.Statement{},
	}

	astModule := &ast.Module{Statements: []ast.Statement{emptyBody}}
	l.LowerFiles([]*ast.Module{astModule})

	found, err := diags.OfKind(diagnostics.CantDeduceReturnType)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	fns := ctx.FindFunctionsWithFormat("empty_body")
	require.Len(t, fns, 1)
	_, isUnknown := fns[0].ReturnType.(hir.UnknownType)
	assert.True(t, isUnknown)
}

func TestOrderedFilesMovesEntryFileLast(t *testing.T) {
	a := &ast.Module{}
	entry := &ast.Module{}
	b := &ast.Module{}

	ordered := lowering.OrderedFiles([]*ast.Module{entry, a, b}, entry)
	require.Len(t, ordered, 3)
	assert.Same(t, entry, ordered[2])
}

package ast

import "github.com/corelang/hirc/internal/source"

// NamePartNode is one part of a function's declared multipart name:
// either a literal word or a parameter slot, e.g. `distance from
// <a: Point> to <b: Point>` parses to five parts.
//
// Grounded on original_source/src/ast/declarations/function.rs's
// NamePart (Text/Parameter variants).
type NamePartNode struct {
	Text  string
	Param *ParameterNode // non-nil for a parameter slot
}

// ParameterNode is one declared parameter, e.g. `a: Point` or `mut a: Point`.
type ParameterNode struct {
	Name    source.Identifier
	Type    Type
	Mutable bool
	Loc     source.Location
}

// GenericParameterNode is one declared generic parameter, e.g. the `T`
// in `fn identity<T>`, optionally constrained (`T: Ordered`).
type GenericParameterNode struct {
	Name       source.Identifier
	Constraint *Type // nil if unconstrained
	Loc        source.Location
}

// FunctionDeclaration declares a (possibly generic, possibly builtin)
// function.
type FunctionDeclaration struct {
	NameParts   []NamePartNode
	Generics    []GenericParameterNode
	ReturnType  *Type // nil: return type must be deduced from the body
	Body        []Statement // nil for a builtin/trait-signature-only declaration
	Annotations []Annotation
	Loc         source.Location
}

func (d *FunctionDeclaration) Range() source.Location { return d.Loc }
func (d *FunctionDeclaration) Accept(v Visitor)        { v.VisitFunctionDeclaration(d) }
func (*FunctionDeclaration) statementNode()            {}

// ClassMemberDecl is one declared field of a class.
type ClassMemberDecl struct {
	Name source.Identifier
	Type Type
	Loc  source.Location
}

// ClassDeclaration declares a (possibly generic, possibly builtin) class.
type ClassDeclaration struct {
	Name        source.Identifier
	Generics    []GenericParameterNode
	Members     []ClassMemberDecl
	Annotations []Annotation
	Loc         source.Location
}

func (d *ClassDeclaration) Range() source.Location { return d.Loc }
func (d *ClassDeclaration) Accept(v Visitor)        { v.VisitClassDeclaration(d) }
func (*ClassDeclaration) statementNode()            {}

// TraitFunctionSig is one function signature declared inside a trait
// body: Body is nil for a required signature (one an implementing
// function must match) and non-nil for a provided/default
// implementation (one implementors may override but don't have to),
// per spec.md §3's "ordered map of required/provided functions" and
// §4.6(i)'s "every function declared but not defined by the trait".
type TraitFunctionSig struct {
	NameParts  []NamePartNode
	ReturnType *Type
	Body       []Statement // nil: required; non-nil: provided/default
	Loc        source.Location
}

// TraitDeclaration declares a trait's name, supertraits and function
// signatures.
type TraitDeclaration struct {
	Name        source.Identifier
	SuperTraits []Type
	Functions   []TraitFunctionSig
	Loc         source.Location
}

func (d *TraitDeclaration) Range() source.Location { return d.Loc }
func (d *TraitDeclaration) Accept(v Visitor)        { v.VisitTraitDeclaration(d) }
func (*TraitDeclaration) statementNode()            {}

// ImplDeclaration declares that Class implements Trait, with a body of
// function declarations satisfying the trait's signatures.
type ImplDeclaration struct {
	Trait     Type
	Class     Type
	Functions []*FunctionDeclaration
	Loc       source.Location
}

func (d *ImplDeclaration) Range() source.Location { return d.Loc }
func (d *ImplDeclaration) Accept(v Visitor)        { v.VisitImplDeclaration(d) }
func (*ImplDeclaration) statementNode()            {}

// VariableDeclaration declares a `let`/`let mut` binding, optionally
// with an explicit type and/or an initializer.
type VariableDeclaration struct {
	Name        source.Identifier
	Mutable     bool
	Type        *Type // nil: type must be inferred from Value
	Value       Expression // nil: declaration with no initializer
	Loc         source.Location
}

func (d *VariableDeclaration) Range() source.Location { return d.Loc }
func (d *VariableDeclaration) Accept(v Visitor)        { v.VisitVariableDeclaration(d) }
func (*VariableDeclaration) statementNode()            {}

// UseStatement imports declarations from another module.
type UseStatement struct {
	Path []source.Identifier
	Loc  source.Location
}

func (d *UseStatement) Range() source.Location { return d.Loc }
func (d *UseStatement) Accept(v Visitor)        { v.VisitUseStatement(d) }
func (*UseStatement) statementNode()            {}

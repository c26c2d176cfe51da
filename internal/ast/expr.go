package ast

import "github.com/corelang/hirc/internal/source"

// NoneLiteral is the `none` literal.
type NoneLiteral struct{ Loc source.Location }

func (e *NoneLiteral) Range() source.Location { return e.Loc }
func (e *NoneLiteral) Accept(v Visitor)        { v.VisitNoneLiteral(e) }
func (*NoneLiteral) expressionNode()           {}

// BoolLiteral is a `true`/`false` literal.
type BoolLiteral struct {
	Value bool
	Loc   source.Location
}

func (e *BoolLiteral) Range() source.Location { return e.Loc }
func (e *BoolLiteral) Accept(v Visitor)        { v.VisitBoolLiteral(e) }
func (*BoolLiteral) expressionNode()           {}

// IntegerLiteral is an integer literal, kept as the exact digit text
// written (the source language's Integer is arbitrary-precision).
type IntegerLiteral struct {
	Text string
	Loc  source.Location
}

func (e *IntegerLiteral) Range() source.Location { return e.Loc }
func (e *IntegerLiteral) Accept(v Visitor)        { v.VisitIntegerLiteral(e) }
func (*IntegerLiteral) expressionNode()           {}

// RationalLiteral is a rational literal like `1/3`.
type RationalLiteral struct {
	Numerator, Denominator string
	Loc                    source.Location
}

func (e *RationalLiteral) Range() source.Location { return e.Loc }
func (e *RationalLiteral) Accept(v Visitor)        { v.VisitRationalLiteral(e) }
func (*RationalLiteral) expressionNode()           {}

// StringLiteral is a quoted string literal.
type StringLiteral struct {
	Value string
	Loc   source.Location
}

func (e *StringLiteral) Range() source.Location { return e.Loc }
func (e *StringLiteral) Accept(v Visitor)        { v.VisitStringLiteral(e) }
func (*StringLiteral) expressionNode()           {}

// VariableReference is a bare name used as a value, resolved during
// lowering to either a local/module variable or a zero-argument call.
type VariableReference struct {
	Name source.Identifier
	Loc  source.Location
}

func (e *VariableReference) Range() source.Location { return e.Loc }
func (e *VariableReference) Accept(v Visitor)        { v.VisitVariableReference(e) }
func (*VariableReference) expressionNode()           {}

// MemberReference is a `base.member` field access.
type MemberReference struct {
	Base       Expression
	MemberName source.Identifier
	Loc        source.Location
}

func (e *MemberReference) Range() source.Location { return e.Loc }
func (e *MemberReference) Accept(v Visitor)        { v.VisitMemberReference(e) }
func (*MemberReference) expressionNode()           {}

// CallPart is one part of a call's ordered parts: a literal word, or an
// argument expression in that position.
//
// Grounded on original_source/src/ast/expressions/call.rs.
type CallPart struct {
	Text string
	Arg  Expression // non-nil for an argument position
}

// CallExpression is a multipart call as written, before resolution picks
// a concrete declaration.
type CallExpression struct {
	Parts []CallPart
	Loc   source.Location
}

func (e *CallExpression) Range() source.Location { return e.Loc }
func (e *CallExpression) Accept(v Visitor)        { v.VisitCallExpression(e) }
func (*CallExpression) expressionNode()           {}

// TypeReferenceExpression is a type used as a value, e.g. the `Point` in
// `x is Point` or in a constructor's head position.
type TypeReferenceExpression struct {
	Referenced Type
	Loc        source.Location
}

func (e *TypeReferenceExpression) Range() source.Location { return e.Loc }
func (e *TypeReferenceExpression) Accept(v Visitor)        { v.VisitTypeReferenceExpression(e) }
func (*TypeReferenceExpression) expressionNode()           {}

// FieldInit is one `name: value` pair inside a ConstructorExpression.
type FieldInit struct {
	Name  source.Identifier
	Value Expression
}

// ConstructorExpression builds a new class instance, e.g.
// `Point { x: 1, y: 2 }`.
type ConstructorExpression struct {
	Type   Type
	Fields []FieldInit
	Loc    source.Location
}

func (e *ConstructorExpression) Range() source.Location { return e.Loc }
func (e *ConstructorExpression) Accept(v Visitor)        { v.VisitConstructorExpression(e) }
func (*ConstructorExpression) expressionNode()           {}

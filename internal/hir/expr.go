package hir

import "github.com/corelang/hirc/internal/source"

// Expression is a lowered, typed value-producing node. Every variant
// carries its own Type so downstream passes (conversion insertion,
// monomorphization, destructor insertion) never need to re-derive it.
type Expression interface {
	Typed
	Range() source.Location
	expressionNode()
}

// Typed is satisfied by every node that carries a resolved Type,
// mirroring the original implementation's Typed trait.
type Typed interface {
	Ty() Type
}

// NoneLiteral is the single value of the builtin None class.
type NoneLiteral struct {
	Loc source.Location
	Typ Type
}

func (l *NoneLiteral) Ty() Type                { return l.Typ }
func (l *NoneLiteral) Range() source.Location  { return l.Loc }
func (*NoneLiteral) expressionNode()           {}

// BoolLiteral is a `true`/`false` literal.
type BoolLiteral struct {
	Value bool
	Loc   source.Location
	Typ   Type
}

func (l *BoolLiteral) Ty() Type               { return l.Typ }
func (l *BoolLiteral) Range() source.Location { return l.Loc }
func (*BoolLiteral) expressionNode()          {}

// IntegerLiteral is an arbitrary-precision integer literal (the
// builtin Integer class, not machine I32 — narrowing to I32 happens
// through an implicit or explicit conversion like any other).
type IntegerLiteral struct {
	Text string // decimal digits as written; kept exact, not parsed to int64
	Loc  source.Location
	Typ  Type
}

func (l *IntegerLiteral) Ty() Type               { return l.Typ }
func (l *IntegerLiteral) Range() source.Location { return l.Loc }
func (*IntegerLiteral) expressionNode()          {}

// RationalLiteral is an arbitrary-precision rational literal, e.g. `1/3`.
type RationalLiteral struct {
	Numerator, Denominator string
	Loc                    source.Location
	Typ                    Type
}

func (l *RationalLiteral) Ty() Type               { return l.Typ }
func (l *RationalLiteral) Range() source.Location { return l.Loc }
func (*RationalLiteral) expressionNode()          {}

// StringLiteral is a quoted string literal.
type StringLiteral struct {
	Value string
	Loc   source.Location
	Typ   Type
}

func (l *StringLiteral) Ty() Type               { return l.Typ }
func (l *StringLiteral) Range() source.Location { return l.Loc }
func (*StringLiteral) expressionNode()          {}

// VariableReference reads a variable's current value.
type VariableReference struct {
	Variable *Variable
	Loc      source.Location
}

func (e *VariableReference) Ty() Type               { return e.Variable.Type }
func (e *VariableReference) Range() source.Location { return e.Loc }
func (*VariableReference) expressionNode()          {}

// MemberReference reads a field off a class instance, e.g. `point.x`.
type MemberReference struct {
	Base       Expression
	MemberName source.Identifier
	MemberType Type
	Loc        source.Location
}

func (e *MemberReference) Ty() Type               { return e.MemberType }
func (e *MemberReference) Range() source.Location { return e.Loc }
func (*MemberReference) expressionNode()          {}

// CallArg is one argument slot in a resolved call, already carrying any
// implicit conversion the resolver inserted (§4.7).
type CallArg struct {
	Value Expression
}

// Call is a fully resolved call to a specific Function, with arguments
// already matched to parameter slots and implicit conversions applied.
// Before resolution, internal/resolver works from the AST's ordered
// call parts; by the time a Call node exists, the target Function and
// every argument's conversion are fixed (§4.5, §4.7).
type Call struct {
	Callee *Function
	Args   []CallArg
	Loc    source.Location
}

func (e *Call) Ty() Type               { return e.Callee.ReturnType }
func (e *Call) Range() source.Location { return e.Loc }
func (*Call) expressionNode()          {}

// TypeReferenceExpr is a type used as a value, e.g. in `x is Point` or
// as the callee-position `Point` of a constructor call's brace form.
type TypeReferenceExpr struct {
	Referenced Type
	Loc        source.Location
}

func (e *TypeReferenceExpr) Ty() Type               { return e.Referenced }
func (e *TypeReferenceExpr) Range() source.Location { return e.Loc }
func (*TypeReferenceExpr) expressionNode()          {}

// FieldInit is one `name: value` pair in a constructor expression.
type FieldInit struct {
	Name  source.Identifier
	Value Expression
}

// Constructor builds a new instance of a class from field initializers,
// e.g. `Point { x: 1, y: 2 }`.
type Constructor struct {
	Class  *Class
	Fields []FieldInit
	Loc    source.Location
}

func (e *Constructor) Ty() Type               { return e.Class }
func (e *Constructor) Range() source.Location { return e.Loc }
func (*Constructor) expressionNode()          {}

// ConversionKind enumerates the implicit conversions of §4.7, in the
// precedence order the resolver tries them: an exact match needs none,
// then dereference, then reference, then copy-then-reference.
type ConversionKind int

const (
	ConvertReference ConversionKind = iota
	ConvertDereference
	ConvertCopy
)

// ImplicitConversion wraps an expression whose static type doesn't
// exactly match a required type, converted per §4.7. At most one
// conversion is ever inserted per argument (never a copy *and* a
// reference, for instance; a copy-then-reference is represented as a
// single ConvertCopy node whose Target is already the reference type).
type ImplicitConversion struct {
	Kind   ConversionKind
	Inner  Expression
	Target Type
	Loc    source.Location
}

func (e *ImplicitConversion) Ty() Type               { return e.Target }
func (e *ImplicitConversion) Range() source.Location { return e.Loc }
func (*ImplicitConversion) expressionNode()          {}

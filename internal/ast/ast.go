// Package ast defines the tree the (external) parser hands to the HIR
// lowering pipeline. Lexing and parsing themselves are out of scope for
// this module (see spec §1) — this package only fixes the shape of their
// output so that internal/lowering has something concrete to walk.
package ast

import "github.com/corelang/hirc/internal/source"

// Node is the base interface for every AST node.
type Node interface {
	Range() source.Location
	Accept(v Visitor)
}

// Statement is a Node that appears in a statement position.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that appears in an expression position.
type Expression interface {
	Node
	expressionNode()
}

// Type is a reference to a type as written in source: a basename plus
// zero or more generic arguments, e.g. `Point` or `Map<String, Int>`.
type Type struct {
	Name     source.Identifier
	Generics []Type
	Loc      source.Location
}

func (t Type) Range() source.Location { return t.Loc }

// Annotation is a compiler directive attached to a declaration, e.g.
// @mangle_as("add_i32") or @builtin.
type Annotation struct {
	Name source.Identifier
	Args []string
	Loc  source.Location
}

// Module is the root node produced by the parser for one source file.
type Module struct {
	File       *source.File
	Statements []Statement
}

func (m *Module) Range() source.Location {
	if len(m.Statements) == 0 {
		return source.Location{}
	}
	return source.Join(m.Statements[0].Range(), m.Statements[len(m.Statements)-1].Range())
}
func (m *Module) Accept(v Visitor) { v.VisitModule(m) }

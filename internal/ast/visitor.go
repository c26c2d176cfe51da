package ast

// Visitor is implemented by anything that walks an AST tree node by
// node. internal/lowering doesn't actually use double-dispatch (a
// two-pass declare/define walk is driven directly by type switches,
// which reads more naturally for that pass's shape), but the interface
// is kept for exactly the purpose the teacher's own Visitor serves:
// tooling (a pretty-printer, a linter) that wants to walk the tree
// without repeating every node-kind type switch.
//
// Grounded on funvibe-funxy/internal/ast/ast_core.go's Visitor.
type Visitor interface {
	VisitModule(*Module)

	VisitFunctionDeclaration(*FunctionDeclaration)
	VisitClassDeclaration(*ClassDeclaration)
	VisitTraitDeclaration(*TraitDeclaration)
	VisitImplDeclaration(*ImplDeclaration)
	VisitVariableDeclaration(*VariableDeclaration)
	VisitUseStatement(*UseStatement)
	VisitExpressionStatement(*ExpressionStatement)
	VisitAssignmentStatement(*AssignmentStatement)
	VisitReturnStatement(*ReturnStatement)
	VisitBlockStatement(*BlockStatement)
	VisitIfStatement(*IfStatement)
	VisitWhileStatement(*WhileStatement)
	VisitLoopStatement(*LoopStatement)

	VisitNoneLiteral(*NoneLiteral)
	VisitBoolLiteral(*BoolLiteral)
	VisitIntegerLiteral(*IntegerLiteral)
	VisitRationalLiteral(*RationalLiteral)
	VisitStringLiteral(*StringLiteral)
	VisitVariableReference(*VariableReference)
	VisitMemberReference(*MemberReference)
	VisitCallExpression(*CallExpression)
	VisitTypeReferenceExpression(*TypeReferenceExpression)
	VisitConstructorExpression(*ConstructorExpression)
}

// BaseVisitor implements Visitor with no-op methods, so a walker that
// only cares about a few node kinds can embed it and override the rest,
// the same convenience the teacher's own base visitor gives callers.
type BaseVisitor struct{}

func (BaseVisitor) VisitModule(*Module) {}

func (BaseVisitor) VisitFunctionDeclaration(*FunctionDeclaration) {}
func (BaseVisitor) VisitClassDeclaration(*ClassDeclaration)       {}
func (BaseVisitor) VisitTraitDeclaration(*TraitDeclaration)       {}
func (BaseVisitor) VisitImplDeclaration(*ImplDeclaration)         {}
func (BaseVisitor) VisitVariableDeclaration(*VariableDeclaration) {}
func (BaseVisitor) VisitUseStatement(*UseStatement)               {}
func (BaseVisitor) VisitExpressionStatement(*ExpressionStatement) {}
func (BaseVisitor) VisitAssignmentStatement(*AssignmentStatement) {}
func (BaseVisitor) VisitReturnStatement(*ReturnStatement)         {}
func (BaseVisitor) VisitBlockStatement(*BlockStatement)           {}
func (BaseVisitor) VisitIfStatement(*IfStatement)                 {}
func (BaseVisitor) VisitWhileStatement(*WhileStatement)           {}
func (BaseVisitor) VisitLoopStatement(*LoopStatement)             {}

func (BaseVisitor) VisitNoneLiteral(*NoneLiteral)                           {}
func (BaseVisitor) VisitBoolLiteral(*BoolLiteral)                           {}
func (BaseVisitor) VisitIntegerLiteral(*IntegerLiteral)                     {}
func (BaseVisitor) VisitRationalLiteral(*RationalLiteral)                   {}
func (BaseVisitor) VisitStringLiteral(*StringLiteral)                       {}
func (BaseVisitor) VisitVariableReference(*VariableReference)               {}
func (BaseVisitor) VisitMemberReference(*MemberReference)                   {}
func (BaseVisitor) VisitCallExpression(*CallExpression)                     {}
func (BaseVisitor) VisitTypeReferenceExpression(*TypeReferenceExpression)   {}
func (BaseVisitor) VisitConstructorExpression(*ConstructorExpression)       {}

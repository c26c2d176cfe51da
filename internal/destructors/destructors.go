// Package destructors implements destructor insertion (component C10):
// walking a lowered function body to track each local's liveness state
// and splicing in calls to its type's `destroy <:T>` function wherever
// the local goes out of scope still holding a value.
//
// Grounded on original_source/src/semantics/destructors.rs for the
// liveness states and the early-return cleanup rule.
package destructors

import (
	"github.com/corelang/hirc/internal/context"
	"github.com/corelang/hirc/internal/hir"
)

// State is a local variable's position in the liveness state machine.
type State int

const (
	// Declared means a binding exists but holds no value yet (`let x: T`
	// with no initializer).
	Declared State = iota
	// Initialized means the binding currently holds a live value that
	// must eventually be destroyed.
	Initialized
	// Moved means the value was moved out (passed by value to a
	// parameter, returned, or reassigned-from) and no longer needs
	// destroying.
	Moved
	// Dropped means a destroy call for this binding has already been
	// inserted; reaching it again (e.g. on a second exit path) is a no-op.
	Dropped
)

// Inserter threads the context needed to look up each type's destructor
// function through one function body's traversal.
type Inserter struct {
	ctx *context.Context
}

func New(ctx *context.Context) *Inserter {
	return &Inserter{ctx: ctx}
}

// Process rewrites f's body in place, inserting destructor calls at
// every block's natural exit and before every early return, in reverse
// declaration order, per §4.10. It also inserts a destructor call for a
// reassigned target's prior value immediately before the new store,
// the one behavior original_source/src/semantics/destructors.rs's
// `with_destructors` actually performs for an Assignment node.
func (ins *Inserter) Process(f *hir.Function) {
	if f.Body == nil {
		return
	}
	states := map[*hir.Variable]State{}
	var stack []*[]*hir.Variable
	f.Body = ins.processBlockStatements(f.Body, states, &stack)
}

// processBlockStatements walks one statement list, recursing into
// nested blocks, and appends that scope's own cleanup at the end. It
// pushes a pointer to its own declaredHere onto stack for the duration
// of the walk (including the function's top-level body, which is not
// itself a *hir.Block), so a ReturnStmt at any depth can reach every
// enclosing scope's locals, not just its immediate one.
func (ins *Inserter) processBlockStatements(stmts []hir.Statement, states map[*hir.Variable]State, stack *[]*[]*hir.Variable) []hir.Statement {
	var out []hir.Statement
	var declaredHere []*hir.Variable
	*stack = append(*stack, &declaredHere)
	defer func() { *stack = (*stack)[:len(*stack)-1] }()

	for _, s := range stmts {
		switch v := s.(type) {
		case *hir.VariableDeclStmt:
			if v.Value != nil {
				states[v.Variable] = Initialized
			} else {
				states[v.Variable] = Declared
			}
			declaredHere = append(declaredHere, v.Variable)
			out = append(out, v)

		case *hir.AssignmentStmt:
			if ref, ok := v.Target.(*hir.VariableReference); ok {
				if destroyCall := ins.destroyIfLive(ref.Variable, states); destroyCall != nil {
					out = append(out, destroyCall)
				}
				states[ref.Variable] = Initialized
			}
			out = append(out, v)

		case *hir.ReturnStmt:
			out = append(out, ins.cleanupBeforeReturn(states, stack)...)
			out = append(out, v)

		case *hir.Block:
			child := ins.processNestedBlock(v, states, stack)
			out = append(out, child)

		case *hir.IfStmt:
			out = append(out, ins.processIf(v, states, stack))

		case *hir.WhileStmt:
			v.Body = ins.processNestedBlock(v.Body, states, stack)
			out = append(out, v)

		case *hir.LoopStmt:
			v.Body = ins.processNestedBlock(v.Body, states, stack)
			out = append(out, v)

		default:
			out = append(out, s)
		}
	}

	out = append(out, ins.cleanupAtScopeEnd(states, declaredHere)...)
	return out
}

func (ins *Inserter) processNestedBlock(b *hir.Block, states map[*hir.Variable]State, stack *[]*[]*hir.Variable) *hir.Block {
	b.Statements = ins.processBlockStatements(b.Statements, states, stack)
	return b
}

func (ins *Inserter) processIf(v *hir.IfStmt, states map[*hir.Variable]State, stack *[]*[]*hir.Variable) *hir.IfStmt {
	v.Then = ins.processNestedBlock(v.Then, states, stack)
	for i := range v.ElseIfs {
		v.ElseIfs[i].Then = ins.processNestedBlock(v.ElseIfs[i].Then, states, stack)
	}
	if v.Else != nil {
		v.Else = ins.processNestedBlock(v.Else, states, stack)
	}
	return v
}

// cleanupAtScopeEnd destroys this block's own live locals, reverse
// declaration order, and marks them Dropped.
func (ins *Inserter) cleanupAtScopeEnd(states map[*hir.Variable]State, declaredHere []*hir.Variable) []hir.Statement {
	var out []hir.Statement
	for i := len(declaredHere) - 1; i >= 0; i-- {
		v := declaredHere[i]
		if destroyCall := ins.destroyIfLive(v, states); destroyCall != nil {
			out = append(out, destroyCall)
		}
	}
	return out
}

// cleanupBeforeReturn destroys every still-live local across this
// scope and every enclosing scope on stack (innermost first), since
// control is about to leave all of them at once (§4.10's early-return
// rule). stack's last entry is always the current scope, so this
// covers it without a separate declaredHere argument.
func (ins *Inserter) cleanupBeforeReturn(states map[*hir.Variable]State, stack *[]*[]*hir.Variable) []hir.Statement {
	var out []hir.Statement
	for si := len(*stack) - 1; si >= 0; si-- {
		level := *(*stack)[si]
		for i := len(level) - 1; i >= 0; i-- {
			if call := ins.destroyIfLive(level[i], states); call != nil {
				out = append(out, call)
			}
		}
	}
	return out
}

func (ins *Inserter) destroyIfLive(v *hir.Variable, states map[*hir.Variable]State) hir.Statement {
	if states[v] != Initialized {
		return nil
	}
	states[v] = Dropped
	fn := ins.lookupDestructor(v.Type)
	if fn == nil {
		return nil
	}
	return &hir.ExpressionStmt{
		Value: &hir.Call{
			Callee: fn,
			Args:   []hir.CallArg{{Value: &hir.VariableReference{Variable: v, Loc: v.Loc}}},
			Loc:    v.Loc,
		},
		Loc: v.Loc,
	}
}

// lookupDestructor finds the `destroy <:T>` function for t, if the
// compiler session has one registered. Types with no destructor (most
// builtins, and user classes nobody declared a destroy for) are simply
// skipped: destructor insertion is opt-in per type, not mandatory.
func (ins *Inserter) lookupDestructor(t hir.Type) *hir.Function {
	if t == nil {
		return nil
	}
	for _, f := range ins.ctx.FindFunctionsWithFormat("destroy <>") {
		params := f.Params()
		if len(params) == 1 && params[0].Type != nil && params[0].Type.Basename() == t.Basename() {
			return f
		}
	}
	return nil
}

// Package resolver implements call resolution (component C5): turning a
// parsed call's ordered name/argument parts into a concrete Function,
// binding any generics involved and inserting the implicit conversions
// each argument needs.
//
// Grounded on funvibe-funxy/internal/analyzer/inference_calls.go's
// candidate-gathering-then-scoring shape, and
// original_source/src/ast/expressions/call.rs for how a call's parts
// (text tokens interleaved with argument expressions) derive a name
// format.
package resolver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/corelang/hirc/internal/context"
	"github.com/corelang/hirc/internal/convert"
	"github.com/corelang/hirc/internal/hir"
)

// CallPart is one part of an unresolved call, mirroring the AST's call
// shape: either a literal word or an argument expression in that
// position.
type CallPart struct {
	Text string
	Arg  hir.Expression
}

// Error is returned when no candidate resolves, or more than one
// resolves with equal precedence (an ambiguous call, per §7 NoFunction).
type Error struct {
	Format string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("no function matching %q: %s", e.Format, e.Reason)
}

// NameFormat derives a call's name-format lookup key the same way a
// declaration's NameFormat is derived: literal words kept verbatim,
// argument positions erased to "<>".
func NameFormat(parts []CallPart) string {
	var b strings.Builder
	for i, p := range parts {
		if i != 0 {
			b.WriteByte(' ')
		}
		if p.Arg != nil {
			b.WriteString("<>")
		} else {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

func args(parts []CallPart) []hir.Expression {
	var out []hir.Expression
	for _, p := range parts {
		if p.Arg != nil {
			out = append(out, p.Arg)
		}
	}
	return out
}

// candidate is a Function paired with the arguments-to-parameters
// binding computed while scoring it.
type candidate struct {
	function     *hir.Function
	substitution hir.Substitution
	conversions  []convert.Conversion // one per argument, in order
	bound        *hir.Function        // monomorphized instance if function was generic, else function
}

// Resolve finds the best-matching function for a call, per §4.5's
// precedence rules: exact non-generic matches beat generic ones, fewer
// substitutions beat more, and a tie on both is broken by the most
// specific (least-generic) return type. monomorphize is called to
// materialize a concrete instance when the winning candidate is
// generic; it is injected rather than imported directly so the resolver
// package doesn't need to depend on internal/monomorphize's full API
// surface, only this one operation.
func Resolve(ctx *context.Context, parts []CallPart, monomorphize func(*hir.Function, hir.Substitution) *hir.Function) (*hir.Call, error) {
	format := NameFormat(parts)
	callArgs := args(parts)

	candidates := ctx.FindFunctionsWithFormat(format)
	if len(candidates) == 0 {
		return nil, &Error{Format: format, Reason: "no declaration with this name format"}
	}

	var scored []candidate
	for _, f := range candidates {
		c, ok := score(ctx, f, callArgs)
		if ok {
			scored = append(scored, c)
		}
	}
	if len(scored) == 0 {
		return nil, &Error{Format: format, Reason: "no overload accepts these argument types"}
	}

	best := pickBest(scored)
	if best == nil {
		return nil, &Error{Format: format, Reason: "ambiguous call: multiple equally-specific overloads"}
	}

	target := best.function
	if len(best.substitution) > 0 {
		target = monomorphize(best.function, best.substitution)
	}

	callExprArgs := make([]hir.CallArg, len(callArgs))
	for i, a := range callArgs {
		callExprArgs[i] = hir.CallArg{Value: convert.Apply(best.conversions[i], a)}
	}

	return &hir.Call{Callee: target, Args: callExprArgs}, nil
}

// score checks whether f's parameters accept callArgs, returning the
// generic substitution (empty if f is non-generic) and the per-argument
// conversion each parameter needs. ok is false if any argument's type is
// not convertible to its parameter's type at all.
func score(ctx *context.Context, f *hir.Function, callArgs []hir.Expression) (candidate, bool) {
	params := f.Params()
	if len(params) != len(callArgs) {
		return candidate{}, false
	}

	sub := hir.Substitution{}
	conversions := make([]convert.Conversion, len(callArgs))
	for i, p := range params {
		argType := callArgs[i].Ty()
		paramType := p.Type
		// Only an actual unbound Generic placeholder (bare, or nested
		// inside a class/function type) needs diff-based binding; a
		// parameter whose declared type is a concrete Trait or SelfType
		// is not itself a substitution variable — it's satisfied directly
		// through convert.Convertibility's Class→Trait rule, and running
		// it through Diff/Apply would fabricate a bogus {Trait: argType}
		// substitution entry that wrongly looks like a generic binding to
		// the caller (which monomorphizes on any non-empty substitution).
		if p.Type != nil && hasUnboundGeneric(paramType) {
			for k, v := range hir.Diff(paramType, argType) {
				sub[k] = v
			}
			paramType = hir.Apply(paramType, sub)
		}
		conv, ok := convert.Convertibility(ctx, argType, paramType)
		if !ok {
			return candidate{}, false
		}
		conversions[i] = conv
	}

	return candidate{function: f, substitution: sub, conversions: conversions}, true
}

// pickBest applies §4.5's tie-break order. Returns nil if two or more
// candidates remain tied after every rule, which the caller reports as
// an ambiguous call.
func pickBest(scored []candidate) *candidate {
	sort.SliceStable(scored, func(i, j int) bool {
		return rank(scored[i]) < rank(scored[j])
	})
	if len(scored) == 1 {
		return &scored[0]
	}
	best := scored[0]
	if rank(scored[1]) == rank(best) {
		return nil
	}
	return &best
}

// rank gives a candidate a sortable precedence: non-generic calls (zero
// substitutions) sort first, then by substitution count ascending, with
// a final nudge for more specific (fewer free generics in the) return
// type breaking remaining ties.
func rank(c candidate) [2]int {
	specificity := 0
	if c.function.ReturnType != nil && c.function.ReturnType.IsGeneric() {
		specificity = 1
	}
	return [2]int{len(c.substitution), specificity}
}

// hasUnboundGeneric reports whether t is, or structurally contains, an
// actual Generic placeholder — as opposed to a concrete Trait or
// SelfType, which also report IsGeneric() true (for return-type
// specificity ranking) but are not themselves substitution variables.
func hasUnboundGeneric(t hir.Type) bool {
	switch v := t.(type) {
	case *hir.Generic:
		return true
	case *hir.Class:
		for _, g := range v.Generics {
			if hasUnboundGeneric(g) {
				return true
			}
		}
		return false
	case *hir.FuncType:
		for _, p := range v.Params {
			if hasUnboundGeneric(p) {
				return true
			}
		}
		return hasUnboundGeneric(v.Return)
	default:
		return false
	}
}

package hir

import (
	"fmt"
	"strings"
)

// Dump renders a module's statements as indented text, grounded on the
// teacher's prettyprinter conventions. It exists primarily so golden
// end-to-end tests have something stable to diff against.
func (m *Module) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "module %s\n", m.Name)
	for _, s := range m.Statements {
		dumpStatement(&b, s, 1)
	}
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func dumpStatement(b *strings.Builder, s Statement, depth int) {
	indent(b, depth)
	switch v := s.(type) {
	case *FunctionDeclStmt:
		fmt.Fprintf(b, "fn %s -> %s\n", v.Function.CanonicalName(), v.Function.ReturnType.Name())
	case *ClassDeclStmt:
		fmt.Fprintf(b, "class %s\n", v.Class.Name())
	case *TraitDeclStmt:
		fmt.Fprintf(b, "trait %s\n", v.Trait.Name())
	case *VariableDeclStmt:
		fmt.Fprintf(b, "let %s: %s\n", v.Variable.Name, v.Variable.Type.Name())
	case *ExpressionStmt:
		fmt.Fprintf(b, "expr: %s\n", dumpExpr(v.Value))
	case *AssignmentStmt:
		fmt.Fprintf(b, "%s = %s\n", dumpExpr(v.Target), dumpExpr(v.Value))
	case *ReturnStmt:
		if v.Value == nil {
			b.WriteString("return\n")
		} else {
			fmt.Fprintf(b, "return %s\n", dumpExpr(v.Value))
		}
	case *IfStmt:
		fmt.Fprintf(b, "if %s\n", dumpExpr(v.Condition))
		dumpBlock(b, v.Then, depth+1)
	case *WhileStmt:
		fmt.Fprintf(b, "while %s\n", dumpExpr(v.Condition))
		dumpBlock(b, v.Body, depth+1)
	case *LoopStmt:
		b.WriteString("loop\n")
		dumpBlock(b, v.Body, depth+1)
	case *UseStmt:
		b.WriteString("use ")
		for i, id := range v.Path {
			if i != 0 {
				b.WriteByte('.')
			}
			b.WriteString(id.Text)
		}
		b.WriteByte('\n')
	case *Block:
		dumpBlock(b, v, depth)
	default:
		fmt.Fprintf(b, "<unknown statement %T>\n", s)
	}
}

func dumpBlock(b *strings.Builder, blk *Block, depth int) {
	for _, s := range blk.Statements {
		dumpStatement(b, s, depth)
	}
}

func dumpExpr(e Expression) string {
	switch v := e.(type) {
	case *NoneLiteral:
		return "none"
	case *BoolLiteral:
		return fmt.Sprintf("%t", v.Value)
	case *IntegerLiteral:
		return v.Text
	case *RationalLiteral:
		return v.Numerator + "/" + v.Denominator
	case *StringLiteral:
		return fmt.Sprintf("%q", v.Value)
	case *VariableReference:
		return v.Variable.Name.String()
	case *MemberReference:
		return dumpExpr(v.Base) + "." + v.MemberName.String()
	case *Call:
		parts := make([]string, len(v.Args))
		for i, a := range v.Args {
			parts[i] = dumpExpr(a.Value)
		}
		return fmt.Sprintf("%s(%s)", v.Callee.CanonicalName(), strings.Join(parts, ", "))
	case *TypeReferenceExpr:
		return v.Referenced.Name()
	case *Constructor:
		fields := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = fmt.Sprintf("%s: %s", f.Name, dumpExpr(f.Value))
		}
		return fmt.Sprintf("%s { %s }", v.Class.Name(), strings.Join(fields, ", "))
	case *ImplicitConversion:
		kind := [...]string{"ref", "deref", "copy"}[v.Kind]
		return fmt.Sprintf("%s(%s)", kind, dumpExpr(v.Inner))
	default:
		return fmt.Sprintf("<unknown expr %T>", e)
	}
}

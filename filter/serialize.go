package filter

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Serialize renders expr as canonical filter text that Parse accepts and
// round-trips to an AST equal to expr.
func Serialize(expr *Expr) string {
	var b strings.Builder
	writeExpr(&b, expr, false)
	return b.String()
}

// writeExpr writes expr to b. parenthesizeLogical wraps a Logical node in
// parentheses (a Not node always carries its own); this is needed only on
// the left operand of a parent Logical
// node, since the grammar's right-recursion means the right operand never
// needs extra grouping to preserve its boundary.
func writeExpr(b *strings.Builder, expr *Expr, parenthesizeLogical bool) {
	switch expr.Kind {
	case KindAttribute:
		b.WriteString(expr.Path.String())
		if expr.Present {
			b.WriteString(" pr")
			return
		}
		b.WriteString(" ")
		b.WriteString(expr.Operator)
		b.WriteString(" ")
		b.WriteString(serializeValue(expr.Value))

	case KindValuePath:
		b.WriteString(expr.Path.String())
		b.WriteString("[")
		writeExpr(b, expr.Inner, false)
		b.WriteString("]")

	case KindNot:
		b.WriteString("not(")
		writeExpr(b, expr.Inner, false)
		b.WriteString(")")

	case KindLogical:
		if parenthesizeLogical {
			b.WriteString("(")
		}
		writeExpr(b, expr.Left, expr.Left.Kind == KindLogical)
		b.WriteString(" ")
		b.WriteString(expr.LogOp)
		b.WriteString(" ")
		writeExpr(b, expr.Right, false)
		if parenthesizeLogical {
			b.WriteString(")")
		}
	}
}

// serializeValue renders a compValue as JSON, quoting strings (with embedded
// quotes backslash-escaped via the standard JSON string escaping rules).
func serializeValue(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

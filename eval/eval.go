// Package eval implements the Filter Evaluator: attribute path resolution
// against a resource, filter AST evaluation, sorting, pagination, and
// attribute projection. None of it depends on where the resource came from,
// so it is equally used to evaluate an adapter's residual filters in memory.
package eval

import (
	"strings"
	"time"

	"github.com/entrahub/scim/filter"
	"github.com/entrahub/scim/resource"
)

// Get resolves path (uri + attrName + optional subAttr) against a resource's
// data. The URI qualifier, if present, selects the schema-extension
// sub-object of that name before descending into attrName.
func Get(r *resource.Resource, path filter.Path) interface{} {
	return getFromMap(r.Data(), path)
}

func getFromMap(root map[string]interface{}, path filter.Path) interface{} {
	var cur interface{} = root

	if path.URI != "" {
		ext, ok := lookupFold(root, path.URI)
		if !ok {
			return nil
		}
		cur = ext
	}

	m, ok := cur.(map[string]interface{})
	if !ok {
		return nil
	}
	v, ok := lookupFold(m, path.Attr)
	if !ok {
		return nil
	}
	if path.SubAttr == "" {
		return v
	}

	sub, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	out, _ := lookupFold(sub, path.SubAttr)
	return out
}

func lookupFold(m map[string]interface{}, key string) (interface{}, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// Evaluate reports whether r satisfies expr.
func Evaluate(r *resource.Resource, expr *filter.Expr) bool {
	return evalExpr(r.Data(), expr)
}

// evalExpr evaluates expr against subject, a JSON object (the resource's
// data for a top-level filter, or one array element's value for a ValuePath
// element that is itself an object — scalar array elements are compared
// directly via a synthetic {"value": elem} wrapper so attrExp paths keep
// working inside a ValuePath whose elements are scalars).
func evalExpr(subject map[string]interface{}, expr *filter.Expr) bool {
	switch expr.Kind {
	case filter.KindLogical:
		switch expr.LogOp {
		case filter.LogAnd:
			return evalExpr(subject, expr.Left) && evalExpr(subject, expr.Right)
		case filter.LogOr:
			return evalExpr(subject, expr.Left) || evalExpr(subject, expr.Right)
		}
		return false

	case filter.KindNot:
		return !evalExpr(subject, expr.Inner)

	case filter.KindValuePath:
		v := getFromMap(subject, expr.Path)
		arr, ok := v.([]interface{})
		if !ok {
			return false
		}
		for _, elem := range arr {
			if evalElement(elem, expr.Inner) {
				return true
			}
		}
		return false

	case filter.KindAttribute:
		v := getFromMap(subject, expr.Path)
		if expr.Present {
			return isPresent(v)
		}
		return compare(v, expr.Operator, expr.Value)
	}
	return false
}

// evalElement evaluates inner against one array element, which may be a
// complex object (the common case: emails[type eq "work"]) or a scalar.
func evalElement(elem interface{}, inner *filter.Expr) bool {
	if m, ok := elem.(map[string]interface{}); ok {
		return evalExpr(m, inner)
	}
	// A scalar array element is only meaningful against a "value"-named
	// attrExp, e.g. schemas[value eq "..."] style filters over a string array.
	return evalExpr(map[string]interface{}{"value": elem}, inner)
}

func isPresent(v interface{}) bool {
	if v == nil {
		return false
	}
	switch vv := v.(type) {
	case string:
		return vv != ""
	case []interface{}:
		return len(vv) > 0
	default:
		return true
	}
}

// compare implements the comparison operators of §4.2: eq/ne treat null and
// absent as equal to each other; co/sw/ew are defined only for strings;
// gt/lt/ge/le work over strings (lexicographic), numbers, and ISO-8601
// instants, and yield false for any other combination.
func compare(v interface{}, op string, want interface{}) bool {
	switch op {
	case filter.OpEqual:
		return equal(v, want)
	case filter.OpNotEqual:
		return !equal(v, want)
	case filter.OpContains:
		a, b, ok := bothStrings(v, want)
		return ok && strings.Contains(a, b)
	case filter.OpStartsWith:
		a, b, ok := bothStrings(v, want)
		return ok && strings.HasPrefix(a, b)
	case filter.OpEndsWith:
		a, b, ok := bothStrings(v, want)
		return ok && strings.HasSuffix(a, b)
	case filter.OpGreaterThan:
		return ordinalCompare(v, want) == 1
	case filter.OpLessThan:
		return ordinalCompare(v, want) == -1
	case filter.OpGreaterThanOrEqual:
		c := ordinalCompare(v, want)
		return c == 1 || c == 0
	case filter.OpLessThanOrEqual:
		c := ordinalCompare(v, want)
		return c == -1 || c == 0
	}
	return false
}

func equal(a, b interface{}) bool {
	if a == nil && b == nil {
		return true
	}
	if (a == nil) != (b == nil) {
		// absent/null on one side: treated as mutually equal only when both are nil.
		return isNilLike(a) && isNilLike(b)
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	return a == b
}

func isNilLike(v interface{}) bool { return v == nil }

func bothStrings(a, b interface{}) (string, string, bool) {
	as, ok1 := a.(string)
	bs, ok2 := b.(string)
	return as, bs, ok1 && ok2
}

// ordinalCompare returns -1, 0, 1, or 2 (incomparable) for gt/lt/ge/le
// purposes. Incomparable combinations make every ordering operator false.
func ordinalCompare(a, b interface{}) int {
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			if at, aerr := time.Parse(time.RFC3339, as); aerr == nil {
				if bt, berr := time.Parse(time.RFC3339, bs); berr == nil {
					return timeCompare(at, bt)
				}
			}
			switch {
			case as < bs:
				return -1
			case as > bs:
				return 1
			default:
				return 0
			}
		}
		return 2
	}
	if af, ok := a.(float64); ok {
		if bf, ok := b.(float64); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
		return 2
	}
	return 2
}

func timeCompare(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

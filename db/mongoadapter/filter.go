package mongoadapter

import (
	"strings"

	"github.com/entrahub/scim/filter"
	"go.mongodb.org/mongo-driver/bson"
)

// transformFilter renders expr as a native Mongo query, the same way the
// teacher's filter transformer walks a compiled expression tree into
// bson.D. It reports ok=false when expr contains a construct this adapter
// does not translate (currently: ValuePath selectors, since expressing
// "emails[type eq \"work\"]" correctly requires $elemMatch bookkeeping this
// adapter keeps out of scope) — the caller falls back to fetching
// everything and evaluating expr in memory via the eval package.
func transformFilter(expr *filter.Expr) (bson.M, bool) {
	switch expr.Kind {
	case filter.KindLogical:
		left, ok := transformFilter(expr.Left)
		if !ok {
			return nil, false
		}
		right, ok := transformFilter(expr.Right)
		if !ok {
			return nil, false
		}
		op := "$and"
		if expr.LogOp == filter.LogOr {
			op = "$or"
		}
		return bson.M{op: bson.A{left, right}}, true

	case filter.KindNot:
		inner, ok := transformFilter(expr.Inner)
		if !ok {
			return nil, false
		}
		return bson.M{"$nor": bson.A{inner}}, true

	case filter.KindAttribute:
		field := mongoField(expr.Path)
		if expr.Present {
			return bson.M{field: bson.M{"$exists": true, "$ne": nil}}, true
		}
		cond, ok := transformOperator(expr.Operator, expr.Value)
		if !ok {
			return nil, false
		}
		return bson.M{field: cond}, true

	default:
		// KindValuePath and anything future: not translatable.
		return nil, false
	}
}

func transformOperator(op string, value interface{}) (interface{}, bool) {
	switch op {
	case filter.OpEqual:
		return bson.M{"$eq": value}, true
	case filter.OpNotEqual:
		return bson.M{"$ne": value}, true
	case filter.OpGreaterThan:
		return bson.M{"$gt": value}, true
	case filter.OpLessThan:
		return bson.M{"$lt": value}, true
	case filter.OpGreaterThanOrEqual:
		return bson.M{"$gte": value}, true
	case filter.OpLessThanOrEqual:
		return bson.M{"$lte": value}, true
	case filter.OpContains:
		s, ok := value.(string)
		if !ok {
			return nil, false
		}
		return bson.M{"$regex": regexQuoteMeta(s)}, true
	case filter.OpStartsWith:
		s, ok := value.(string)
		if !ok {
			return nil, false
		}
		return bson.M{"$regex": "^" + regexQuoteMeta(s)}, true
	case filter.OpEndsWith:
		s, ok := value.(string)
		if !ok {
			return nil, false
		}
		return bson.M{"$regex": regexQuoteMeta(s) + "$"}, true
	default:
		return nil, false
	}
}

// mongoField maps a filter path to its dotted field name in the stored
// document. Schema-extension-qualified paths address the nested container
// object keyed by the extension's URI, same as the eval package's path
// resolution; the colons in a URI are valid Mongo field name characters, so
// no escaping is required beyond joining the segments.
func mongoField(p filter.Path) string {
	var segs []string
	if p.URI != "" {
		segs = append(segs, p.URI)
	}
	segs = append(segs, p.Attr)
	if p.SubAttr != "" {
		segs = append(segs, p.SubAttr)
	}
	return strings.Join(segs, ".")
}

// regexQuoteMeta escapes regex metacharacters so co/sw/ew comparisons match
// literally rather than as a pattern.
func regexQuoteMeta(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`\.+*?()|[]{}^$`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

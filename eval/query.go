package eval

import (
	"sort"
	"strings"
	"time"

	"github.com/entrahub/scim/resource"
)

// SortOrder selects ascending or descending sort direction.
type SortOrder int

const (
	SortAscending SortOrder = iota
	SortDescending
)

// Sort orders resources by the dotted attribute path sortBy. Undefined
// values sort before defined values in ascending order (after before, in
// descending). Strings compare by codepoint order, dates compare as
// instants when both sides parse as RFC3339, and booleans order false<true.
// The sort is stable, matching the teacher's sort.Sort wrapper idiom.
func Sort(resources []*resource.Resource, sortBy string, order SortOrder) {
	less := func(i, j int) bool {
		a := dottedGet(resources[i].Data(), sortBy)
		b := dottedGet(resources[j].Data(), sortBy)
		c := sortCompare(a, b)
		if order == SortDescending {
			return c > 0
		}
		return c < 0
	}
	sort.SliceStable(resources, less)
}

func dottedGet(m map[string]interface{}, path string) interface{} {
	var cur interface{} = m
	for _, seg := range strings.Split(path, ".") {
		cm, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur, ok = lookupFold(cm, seg)
		if !ok {
			return nil
		}
	}
	return cur
}

// sortCompare returns -1/0/1. Undefined (nil) sorts before defined.
func sortCompare(a, b interface{}) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ab == bb:
				return 0
			case !ab && bb:
				return -1
			default:
				return 1
			}
		}
	}

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
	}

	return 0
}

// Page holds the result of applying pagination to a filtered result set.
type Page struct {
	Resources    []*resource.Resource
	StartIndex   int
	ItemsPerPage int
	TotalResults int
}

// Paginate slices resources per the 1-based startIndex/count contract of
// §4.2: startIndex defaults to 1, count unbounded when nil. TotalResults
// reflects the pre-pagination length; ItemsPerPage reflects what's returned.
func Paginate(resources []*resource.Resource, startIndex int, count *int) Page {
	total := len(resources)
	if startIndex < 1 {
		startIndex = 1
	}

	start := startIndex - 1
	if start > total {
		start = total
	}

	end := total
	if count != nil {
		c := *count
		if c < 0 {
			c = 0
		}
		if start+c < end {
			end = start + c
		}
	}
	if end < start {
		end = start
	}

	page := resources[start:end]
	return Page{
		Resources:    page,
		StartIndex:   startIndex,
		ItemsPerPage: len(page),
		TotalResults: total,
	}
}

// Project applies an include-list and/or exclude-list of dotted attribute
// paths to a resource's data, per §4.2's rules: core attributes (schemas,
// id, externalId, meta) are kept by default but, like any other attribute,
// are removed if named in excludedAttributes; an included path implies its
// ancestors and descendants, and exclusion removes the whole subtree.
func Project(r *resource.Resource, attributes, excludedAttributes []string) map[string]interface{} {
	data := r.Clone().Data()

	if len(attributes) == 0 && len(excludedAttributes) == 0 {
		return data
	}

	if len(attributes) > 0 {
		keep := map[string]interface{}{}
		for _, core := range []string{"schemas", "id", "externalId", "meta"} {
			if v, ok := data[core]; ok {
				keep[core] = v
			}
		}
		for _, path := range attributes {
			copyPath(data, keep, strings.Split(path, "."))
		}
		data = keep
	}

	for _, path := range excludedAttributes {
		removePath(data, strings.Split(path, "."))
	}

	return data
}

func copyPath(src, dst map[string]interface{}, segs []string) {
	if len(segs) == 0 {
		return
	}
	v, ok := lookupFold(src, segs[0])
	if !ok {
		return
	}
	if len(segs) == 1 {
		dst[segs[0]] = v
		return
	}
	sub, ok := v.(map[string]interface{})
	if !ok {
		dst[segs[0]] = v
		return
	}
	nested, ok := dst[segs[0]].(map[string]interface{})
	if !ok {
		nested = map[string]interface{}{}
		dst[segs[0]] = nested
	}
	copyPath(sub, nested, segs[1:])
}

func removePath(m map[string]interface{}, segs []string) {
	if len(segs) == 0 {
		return
	}
	if len(segs) == 1 {
		delete(m, segs[0])
		for k := range m {
			if strings.EqualFold(k, segs[0]) {
				delete(m, k)
			}
		}
		return
	}
	v, ok := lookupFold(m, segs[0])
	if !ok {
		return
	}
	sub, ok := v.(map[string]interface{})
	if !ok {
		return
	}
	removePath(sub, segs[1:])
}

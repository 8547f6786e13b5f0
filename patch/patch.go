// Package patch implements the PATCH engine: RFC 7644 §3.5.2 Add/Replace/
// Remove semantics over the generic resource model, applied atomically to a
// cloned copy so a failed operation never mutates the caller's resource.
package patch

import (
	"fmt"
	"strings"

	"github.com/entrahub/scim/filter"
	"github.com/entrahub/scim/resource"
	"github.com/entrahub/scim/spec"
)

const (
	OpAdd     = "add"
	OpReplace = "replace"
	OpRemove  = "remove"
)

// Operation is one PATCH operation in a request's Operations list.
type Operation struct {
	Op    string      `json:"op"`
	Path  string      `json:"path"`
	Value interface{} `json:"value,omitempty"`
}

// Request is a parsed PATCH request body.
type Request struct {
	Schemas    []string    `json:"schemas"`
	Operations []Operation `json:"Operations"`
}

// Validate checks the schema guard of §4.3: the request must declare the
// PatchOp message schema.
func (r *Request) Validate() error {
	for _, s := range r.Schemas {
		if s == spec.SchemaURIPatchOp {
			return nil
		}
	}
	return fmt.Errorf("%w: missing PatchOp schema", spec.ErrInvalidSyntax)
}

// Engine applies PATCH requests against resources of one resource type,
// validating scalar values against that type's known-attribute table.
type Engine struct {
	rt *spec.ResourceType
}

// New returns an Engine for the given resource type.
func New(rt *spec.ResourceType) *Engine {
	return &Engine{rt: rt}
}

// Apply runs every operation of req against r in order, on a clone of r.
// If any operation fails, the original r is returned unchanged alongside
// the error (atomicity per §4.3 and the no-mutation invariant of §8).
func (e *Engine) Apply(r *resource.Resource, req *Request) (*resource.Resource, error) {
	if err := req.Validate(); err != nil {
		return r, err
	}

	working := r.Clone()
	for _, op := range req.Operations {
		if err := e.applyOne(working, op); err != nil {
			return r, err
		}
	}
	return working, nil
}

func (e *Engine) applyOne(r *resource.Resource, op Operation) error {
	kind := strings.ToLower(op.Op)

	if strings.TrimSpace(op.Path) == "" {
		switch kind {
		case OpAdd, OpReplace:
			obj, ok := op.Value.(map[string]interface{})
			if !ok {
				return fmt.Errorf("%w: value must be an object when path is absent", spec.ErrInvalidValue)
			}
			for k, v := range obj {
				r.Data()[k] = v
			}
			return nil
		case OpRemove:
			return fmt.Errorf("%w: remove requires a path", spec.ErrInvalidSyntax)
		default:
			return fmt.Errorf("%w: unrecognized op %q", spec.ErrInvalidSyntax, op.Op)
		}
	}

	segs, err := parsePath(op.Path)
	if err != nil {
		return err
	}

	container, segs, ok := rootExtension(r.Data(), segs, kind == OpAdd)
	if !ok {
		if kind == OpRemove {
			return nil // target's extension container absent: no-op
		}
		return fmt.Errorf("%w: target path not found", spec.ErrNoTarget)
	}

	switch kind {
	case OpAdd:
		return e.applyAdd(container, segs, op.Value)
	case OpReplace:
		return e.applyReplace(container, segs, op.Value)
	case OpRemove:
		return e.applyRemove(container, segs, op.Value)
	default:
		return fmt.Errorf("%w: unrecognized op %q", spec.ErrInvalidSyntax, op.Op)
	}
}

// rootExtension re-roots container into the schema-extension sub-object
// named by segs[0]'s URI qualifier, if any (e.g. a path beginning with the
// Enterprise User URI). create controls whether an absent extension
// container is created (Add) or reported as not found (Replace/Remove).
func rootExtension(container map[string]interface{}, segs []segment, create bool) (map[string]interface{}, []segment, bool) {
	if len(segs) == 0 || segs[0].uri == "" {
		return container, segs, true
	}

	uri := segs[0].uri
	bare := append([]segment(nil), segs...)
	bare[0] = segment{name: segs[0].name, filter: segs[0].filter}

	ext, ok := container[uri].(map[string]interface{})
	if !ok {
		if !create {
			return nil, nil, false
		}
		ext = map[string]interface{}{}
		container[uri] = ext
	}
	return ext, bare, true
}

// segment is one dot-separated unit of a PATCH path, optionally carrying a
// bracketed filter selector (e.g. "emails[type eq \"work\"]"). Only the
// first segment of a path may carry a non-empty uri (a schema-extension
// qualifier per the attrPath grammar).
type segment struct {
	uri    string
	name   string
	filter *filter.Expr
}

// parsePath splits a PATCH path into dot-separated segments, honoring
// bracket nesting so dots inside a filter selector are not treated as path
// separators. Dots inside a schema-URI qualifier (such as the "2.0" of the
// Enterprise User URI) are not separators either: splitting starts after
// the last colon that precedes any filter selector.
func parsePath(raw string) ([]segment, error) {
	var segs []segment
	depth := 0
	start := 0
	head := raw
	if b := strings.IndexByte(raw, '['); b >= 0 {
		head = raw[:b]
	}
	for i := strings.LastIndexByte(head, ':') + 1; i < len(raw); i++ {
		switch raw[i] {
		case '[':
			depth++
		case ']':
			depth--
		case '.':
			if depth == 0 {
				s, err := parseSegment(raw[start:i])
				if err != nil {
					return nil, err
				}
				segs = append(segs, s)
				start = i + 1
			}
		}
	}
	last, err := parseSegment(raw[start:])
	if err != nil {
		return nil, err
	}
	segs = append(segs, last)
	segs[0] = splitSegmentURI(segs[0])
	return segs, nil
}

// splitSegmentURI applies the last-colon heuristic (§4.1) to the first
// segment of a path, separating a schema-URI qualifier from the bare
// attribute name.
func splitSegmentURI(s segment) segment {
	idx := strings.LastIndexByte(s.name, ':')
	if idx < 0 {
		return s
	}
	return segment{uri: s.name[:idx], name: s.name[idx+1:], filter: s.filter}
}

func parseSegment(raw string) (segment, error) {
	idx := strings.IndexByte(raw, '[')
	if idx < 0 {
		if raw == "" {
			return segment{}, fmt.Errorf("%w: empty path segment", spec.ErrInvalidPath)
		}
		return segment{name: raw}, nil
	}
	if raw[len(raw)-1] != ']' {
		return segment{}, fmt.Errorf("%w: unterminated filter selector in path", spec.ErrInvalidPath)
	}
	name := raw[:idx]
	if name == "" {
		return segment{}, fmt.Errorf("%w: empty attribute name before filter selector", spec.ErrInvalidPath)
	}
	expr, err := filter.Parse(raw[idx+1 : len(raw)-1])
	if err != nil {
		return segment{}, fmt.Errorf("%w: invalid filter selector in path", spec.ErrInvalidPath)
	}
	return segment{name: name, filter: expr}, nil
}

// isPlural applies the heuristic of §4.3: a name ending in "s" (but not
// "schemas") is treated as multi-valued when creating it from absent.
func isPlural(name string) bool {
	return strings.HasSuffix(name, "s") && name != "schemas"
}

// knownAttribute looks up the attribute definition for segs against rt.
// Callers reach this after rootExtension has stripped any URI qualifier
// from the path, but AllAttributes searches every extension schema by name
// when no URI is given, so extension fields still resolve correctly.
func knownAttribute(rt *spec.ResourceType, segs []segment) *spec.Attribute {
	var uri, name, subAttr string
	if len(segs) >= 1 {
		uri = segs[0].uri
		name = segs[0].name
	}
	if len(segs) >= 2 {
		subAttr = segs[1].name
	}
	return rt.AllAttributes(uri, name, subAttr)
}

// validateType checks value's JSON type against attr's declared type, per
// the known-attribute table referenced in §4.3. A nil attr (unknown/ad hoc
// field) is not validated.
func validateType(attr *spec.Attribute, value interface{}) error {
	if attr == nil || attr.IsMultiValued() || attr.Type() == spec.TypeComplex {
		return nil
	}
	ok := true
	switch attr.Type() {
	case spec.TypeBoolean:
		_, ok = value.(bool)
	case spec.TypeInteger, spec.TypeDecimal:
		_, ok = value.(float64)
	case spec.TypeString, spec.TypeDateTime, spec.TypeReference, spec.TypeBinary:
		_, ok = value.(string)
	}
	if !ok {
		return fmt.Errorf("%w: value type does not match attribute %q", spec.ErrInvalidValue, attr.Name())
	}
	return nil
}

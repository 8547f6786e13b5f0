package patch

import (
	"fmt"

	"github.com/entrahub/scim/eval"
	"github.com/entrahub/scim/filter"
	"github.com/entrahub/scim/resource"
	"github.com/entrahub/scim/spec"
)

// applyAdd implements §4.3 Add semantics over a container (the resource
// root, or a nested complex attribute reached by a previous segment).
func (e *Engine) applyAdd(container map[string]interface{}, segs []segment, value interface{}) error {
	seg := segs[0]

	if len(segs) > 1 {
		if seg.filter != nil {
			return e.forEachMatch(container, seg, segs[1:], func(elem map[string]interface{}, rest []segment) error {
				return e.applyAdd(elem, rest, value)
			})
		}
		child, ok := container[seg.name].(map[string]interface{})
		if !ok {
			child = map[string]interface{}{}
			container[seg.name] = child
		}
		return e.applyAdd(child, segs[1:], value)
	}

	if seg.filter != nil {
		arr, ok := container[seg.name].([]interface{})
		if !ok {
			return fmt.Errorf("%w: filter selector used on non-array attribute %q", spec.ErrInvalidValue, seg.name)
		}
		if anyMatches(arr, seg.filter) {
			return nil // duplicate suppression: a matching element already exists
		}
		container[seg.name] = append(arr, value)
		return nil
	}

	existing, present := container[seg.name]
	if arr, ok := existing.([]interface{}); ok {
		container[seg.name] = append(arr, value)
		return nil
	}
	if !present && isPlural(seg.name) {
		container[seg.name] = []interface{}{value}
		return nil
	}

	attr := knownAttribute(e.rt, segs)
	if err := validateType(attr, value); err != nil {
		return err
	}
	container[seg.name] = value
	return nil
}

// applyReplace implements §4.3 Replace semantics.
func (e *Engine) applyReplace(container map[string]interface{}, segs []segment, value interface{}) error {
	seg := segs[0]

	if len(segs) > 1 {
		if seg.filter != nil {
			return e.forEachMatch(container, seg, segs[1:], func(elem map[string]interface{}, rest []segment) error {
				return e.applyReplace(elem, rest, value)
			})
		}
		child, ok := container[seg.name].(map[string]interface{})
		if !ok {
			return fmt.Errorf("%w: target path not found", spec.ErrNoTarget)
		}
		return e.applyReplace(child, segs[1:], value)
	}

	if seg.filter != nil {
		arr, ok := container[seg.name].([]interface{})
		if !ok {
			return fmt.Errorf("%w: filter selector used on non-array attribute %q", spec.ErrInvalidValue, seg.name)
		}
		for i, elem := range arr {
			m, ok := elem.(map[string]interface{})
			if !ok || !matches(m, seg.filter) {
				continue
			}
			if obj, ok := value.(map[string]interface{}); ok {
				for k, v := range obj {
					m[k] = v
				}
			} else {
				arr[i] = value
			}
		}
		container[seg.name] = arr
		return nil
	}

	attr := knownAttribute(e.rt, segs)
	if err := validateType(attr, value); err != nil {
		return err
	}
	container[seg.name] = value
	return nil
}

// applyRemove implements §4.3 Remove semantics.
func (e *Engine) applyRemove(container map[string]interface{}, segs []segment, value interface{}) error {
	seg := segs[0]

	if len(segs) > 1 {
		if seg.filter != nil {
			return e.forEachMatch(container, seg, segs[1:], func(elem map[string]interface{}, rest []segment) error {
				return e.applyRemove(elem, rest, value)
			})
		}
		child, ok := container[seg.name].(map[string]interface{})
		if !ok {
			return nil // target absent: no-op
		}
		return e.applyRemove(child, segs[1:], value)
	}

	existing, present := container[seg.name]
	if !present {
		return nil // target absent: no-op
	}

	if seg.filter != nil {
		arr, ok := existing.([]interface{})
		if !ok {
			return fmt.Errorf("%w: filter selector used on non-array attribute %q", spec.ErrInvalidValue, seg.name)
		}
		kept := make([]interface{}, 0, len(arr))
		for _, elem := range arr {
			m, ok := elem.(map[string]interface{})
			if ok && matches(m, seg.filter) {
				continue
			}
			kept = append(kept, elem)
		}
		container[seg.name] = kept
		return nil
	}

	if arr, ok := existing.([]interface{}); ok {
		if value == nil {
			container[seg.name] = []interface{}{}
			return nil
		}
		kept := make([]interface{}, 0, len(arr))
		for _, elem := range arr {
			if !shallowEqual(elem, value) {
				kept = append(kept, elem)
			}
		}
		container[seg.name] = kept
		return nil
	}

	delete(container, seg.name)
	return nil
}

// forEachMatch applies fn to every element of container[seg.name] (an
// array) matching seg.filter, used when a filtered segment is not the last
// in the path (e.g. "emails[type eq \"work\"].value").
func (e *Engine) forEachMatch(container map[string]interface{}, seg segment, rest []segment, fn func(elem map[string]interface{}, rest []segment) error) error {
	arr, ok := container[seg.name].([]interface{})
	if !ok {
		return fmt.Errorf("%w: filter selector used on non-array attribute %q", spec.ErrInvalidValue, seg.name)
	}
	for _, elem := range arr {
		m, ok := elem.(map[string]interface{})
		if !ok || !matches(m, seg.filter) {
			continue
		}
		if err := fn(m, rest); err != nil {
			return err
		}
	}
	return nil
}

// matches reports whether elem (a complex array element) satisfies expr.
func matches(elem map[string]interface{}, expr *filter.Expr) bool {
	return eval.Evaluate(resource.New(nil, elem), expr)
}

// anyMatches reports whether any element of arr satisfies expr.
func anyMatches(arr []interface{}, expr *filter.Expr) bool {
	for _, e := range arr {
		m, ok := e.(map[string]interface{})
		if ok && matches(m, expr) {
			return true
		}
	}
	return false
}

// shallowEqual reports whether a and b are equal for PATCH remove-by-value
// purposes: scalars compare by JSON equality; for an object value, every key
// present in value must equal the corresponding key in elem (elem may carry
// additional keys not named in value).
func shallowEqual(elem, value interface{}) bool {
	valueObj, ok := value.(map[string]interface{})
	if !ok {
		return elem == value
	}
	elemObj, ok := elem.(map[string]interface{})
	if !ok {
		return false
	}
	for k, v := range valueObj {
		if elemObj[k] != v {
			return false
		}
	}
	return true
}

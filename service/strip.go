package service

import "github.com/entrahub/scim/spec"

// StripNeverReturned deletes every field marked Returned: never (per RFC 7643
// §7, e.g. User's password) from data, recursively through complex and
// multi-valued complex attributes. The create, get, query, replace and patch
// services apply it to every resource they return, regardless of how the
// value got there; the delete service returns the deleted resource as it
// was stored.
func StripNeverReturned(rt *spec.ResourceType, data map[string]interface{}) {
	stripAttributes(rt.SuperAttribute(true).SubAttributes(), data)
}

func stripAttributes(attrs []*spec.Attribute, data map[string]interface{}) {
	for _, attr := range attrs {
		if attr.Returned() == spec.ReturnedNever {
			delete(data, attr.Name())
			continue
		}
		if attr.Type() != spec.TypeComplex {
			continue
		}
		if attr.IsMultiValued() {
			arr, ok := data[attr.Name()].([]interface{})
			if !ok {
				continue
			}
			for _, elem := range arr {
				if m, ok := elem.(map[string]interface{}); ok {
					stripAttributes(attr.SubAttributes(), m)
				}
			}
			continue
		}
		if m, ok := data[attr.Name()].(map[string]interface{}); ok {
			stripAttributes(attr.SubAttributes(), m)
		}
	}
}

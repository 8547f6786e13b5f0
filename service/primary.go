package service

import "github.com/entrahub/scim/spec"

// EnforcePrimary applies the deterministic single-primary rule of §4.5 to
// every multi-valued complex attribute that has a "primary" sub attribute
// (emails, phoneNumbers, ims, photos, entitlements, roles,
// x509Certificates): scanning each array from the end, the last element with
// primary == true wins, and every other element's primary is cleared (or
// left absent if it was never set).
func EnforcePrimary(rt *spec.ResourceType, data map[string]interface{}) {
	for _, attr := range rt.SuperAttribute(true).SubAttributes() {
		if !attr.IsMultiValued() || attr.Type() != spec.TypeComplex {
			continue
		}
		if attr.SubAttributeForName("primary") == nil {
			continue
		}

		arr, ok := data[attr.Name()].([]interface{})
		if !ok {
			continue
		}

		wonIdx := -1
		for i := len(arr) - 1; i >= 0; i-- {
			elem, ok := arr[i].(map[string]interface{})
			if !ok {
				continue
			}
			if b, ok := elem["primary"].(bool); ok && b {
				wonIdx = i
				break
			}
		}
		if wonIdx == -1 {
			continue
		}

		for i, e := range arr {
			elem, ok := e.(map[string]interface{})
			if !ok {
				continue
			}
			if _, present := elem["primary"]; present {
				elem["primary"] = i == wonIdx
			}
		}
	}
}

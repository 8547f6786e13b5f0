package scimconfig

import (
	"fmt"

	"github.com/entrahub/scim/spec"
)

// ResourceTypes returns the ResourceTypes discovery list: User is always
// present, Group only when o.GroupsEnabled.
func ResourceTypes(o Options) []*spec.ResourceType {
	types := []*spec.ResourceType{spec.UserResourceType}
	if o.GroupsEnabled {
		types = append(types, spec.GroupResourceType)
	}
	return types
}

// ResourceType returns the resource type registered under id, or
// spec.ErrNotFound if absent (or gated off by o.GroupsEnabled).
func ResourceType(o Options, id string) (*spec.ResourceType, error) {
	for _, rt := range ResourceTypes(o) {
		if rt.ID() == id {
			return rt, nil
		}
	}
	return nil, fmt.Errorf("%w: no resource type registered for id %q", spec.ErrNotFound, id)
}

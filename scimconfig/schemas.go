package scimconfig

import (
	"fmt"

	"github.com/entrahub/scim/spec"
)

// Schemas returns the Schemas discovery list: Core and User always present,
// EnterpriseUser and Group additionally present when o.GroupsEnabled.
func Schemas(o Options) []*spec.Schema {
	schemas := []*spec.Schema{spec.CoreSchema, spec.UserSchema}
	if o.GroupsEnabled {
		schemas = append(schemas, spec.EnterpriseUserSchema, spec.GroupSchema)
	}
	return schemas
}

// Schema returns the schema registered under id, or spec.ErrNotFound if
// absent (or gated off by o.GroupsEnabled).
func Schema(o Options, id string) (*spec.Schema, error) {
	for _, s := range Schemas(o) {
		if s.ID() == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: no schema registered for id %q", spec.ErrNotFound, id)
}

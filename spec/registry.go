package spec

// Registry is a read-only lookup of the schemas and resource types known to
// a running server. The default registry (DefaultRegistry) carries the
// built-in User and Group definitions; callers needing a custom schema set
// build their own with NewRegistry.
type Registry struct {
	schemas       map[string]*Schema
	resourceTypes map[string]*ResourceType
}

// NewRegistry builds a Registry from the given schemas and resource types.
func NewRegistry(schemas []*Schema, resourceTypes []*ResourceType) *Registry {
	r := &Registry{schemas: map[string]*Schema{}, resourceTypes: map[string]*ResourceType{}}
	for _, s := range schemas {
		r.schemas[s.id] = s
	}
	for _, rt := range resourceTypes {
		r.resourceTypes[rt.id] = rt
	}
	return r
}

// Schema returns the schema registered under the given URI, or nil.
func (r *Registry) Schema(id string) *Schema { return r.schemas[id] }

// Schemas returns every registered schema.
func (r *Registry) Schemas() []*Schema {
	out := make([]*Schema, 0, len(r.schemas))
	for _, s := range r.schemas {
		out = append(out, s)
	}
	return out
}

// ResourceType returns the resource type registered under the given id, or nil.
func (r *Registry) ResourceType(id string) *ResourceType { return r.resourceTypes[id] }

// ResourceTypeForEndpoint returns the resource type served at the given
// endpoint (e.g. "/Users"), or nil.
func (r *Registry) ResourceTypeForEndpoint(endpoint string) *ResourceType {
	for _, rt := range r.resourceTypes {
		if rt.endpoint == endpoint {
			return rt
		}
	}
	return nil
}

// ResourceTypes returns every registered resource type.
func (r *Registry) ResourceTypes() []*ResourceType {
	out := make([]*ResourceType, 0, len(r.resourceTypes))
	for _, rt := range r.resourceTypes {
		out = append(out, rt)
	}
	return out
}

// DefaultRegistry carries the built-in core schemas (User, Group, Enterprise
// User extension) and their resource types.
var DefaultRegistry = NewRegistry(
	[]*Schema{CoreSchema, UserSchema, EnterpriseUserSchema, GroupSchema},
	[]*ResourceType{UserResourceType, GroupResourceType},
)

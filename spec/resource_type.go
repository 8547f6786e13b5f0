package spec

import "encoding/json"

// ResourceType models a SCIM resource type (RFC 7643 §6): a main schema plus
// zero or more schema extensions.
type ResourceType struct {
	id          string
	name        string
	description string
	endpoint    string
	schema      *Schema
	extensions  []*Schema
	required    map[string]bool
}

// NewResourceType returns a new ResourceType with no extensions.
func NewResourceType(id, name, description, endpoint string, schema *Schema) *ResourceType {
	return &ResourceType{
		id:          id,
		name:        name,
		description: description,
		endpoint:    endpoint,
		schema:      schema,
		required:    map[string]bool{},
	}
}

// WithExtension adds a schema extension and returns the resource type, for chained construction.
func (t *ResourceType) WithExtension(ext *Schema, required bool) *ResourceType {
	t.extensions = append(t.extensions, ext)
	t.required[ext.id] = required
	return t
}

// ID returns the id of the resource type.
func (t *ResourceType) ID() string { return t.id }

// Name returns the name of the resource type.
func (t *ResourceType) Name() string { return t.name }

// Description returns the human-readable description of the resource type.
func (t *ResourceType) Description() string { return t.description }

// Endpoint returns the relative endpoint at which resources of this type are served.
func (t *ResourceType) Endpoint() string { return t.endpoint }

// Schema returns the resource type's main schema.
func (t *ResourceType) Schema() *Schema { return t.schema }

// Extensions returns the resource type's schema extensions.
func (t *ResourceType) Extensions() []*Schema { return t.extensions }

// ExtensionRequired returns whether the given extension schema is required.
func (t *ResourceType) ExtensionRequired(schemaId string) bool { return t.required[schemaId] }

// AllAttributes returns the attribute addressable by a schema-URI-qualified or bare name, searching
// the main schema first and then each extension. subAttr, if non-empty, descends one more level.
func (t *ResourceType) AllAttributes(uri, name, subAttr string) *Attribute {
	lookIn := func(s *Schema) *Attribute {
		attr := s.AttributeForName(name)
		if attr == nil {
			return nil
		}
		if subAttr == "" {
			return attr
		}
		return attr.SubAttributeForName(subAttr)
	}

	if uri != "" {
		if uri == t.schema.id {
			return lookIn(t.schema)
		}
		for _, ext := range t.extensions {
			if ext.id == uri {
				return lookIn(ext)
			}
		}
		return nil
	}

	if attr := lookIn(t.schema); attr != nil {
		return attr
	}
	for _, ext := range t.extensions {
		if attr := lookIn(ext); attr != nil {
			return attr
		}
	}
	return nil
}

func (t *ResourceType) MarshalJSON() ([]byte, error) {
	type extJSON struct {
		Schema   string `json:"schema"`
		Required bool   `json:"required"`
	}
	wip := struct {
		Schemas     []string  `json:"schemas"`
		ID          string    `json:"id"`
		Name        string    `json:"name"`
		Description string    `json:"description"`
		Endpoint    string    `json:"endpoint"`
		Schema      string    `json:"schema"`
		Extensions  []extJSON `json:"schemaExtensions,omitempty"`
	}{
		Schemas:     []string{SchemaURIResourceType},
		ID:          t.id,
		Name:        t.name,
		Description: t.description,
		Endpoint:    t.endpoint,
		Schema:      t.schema.id,
	}
	for _, ext := range t.extensions {
		wip.Extensions = append(wip.Extensions, extJSON{Schema: ext.id, Required: t.required[ext.id]})
	}
	return json.Marshal(wip)
}

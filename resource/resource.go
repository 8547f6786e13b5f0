// Package resource implements the generic JSON-object resource model that
// the filter, eval, patch, db and service packages all operate over: a SCIM
// resource is a schema-less map, with schema enforcement left to the
// attribute lookups callers perform via spec.ResourceType.
package resource

import (
	"encoding/json"
	"strings"

	"github.com/entrahub/scim/spec"
)

// Resource wraps a decoded SCIM resource document, along with the
// spec.ResourceType it was constructed for. The underlying data is a plain
// JSON object (map[string]interface{} after decoding), addressed either
// directly via Data or through the small set of meta/id accessors below.
type Resource struct {
	resourceType *spec.ResourceType
	data         map[string]interface{}
}

// New wraps an already-decoded JSON object as a Resource of the given type.
// A nil data map is treated as an empty resource.
func New(rt *spec.ResourceType, data map[string]interface{}) *Resource {
	if data == nil {
		data = map[string]interface{}{}
	}
	return &Resource{resourceType: rt, data: data}
}

// ResourceType returns the resource type this resource was constructed for.
func (r *Resource) ResourceType() *spec.ResourceType { return r.resourceType }

// Data returns the underlying JSON object. Callers mutating it directly are
// responsible for maintaining schema invariants (use the patch package for
// validated mutation instead).
func (r *Resource) Data() map[string]interface{} { return r.data }

// Clone returns a deep copy of the resource, sharing no mutable state with
// the original. It is used by the patch engine and resource service to
// provide atomicity: operate on the clone, discard it on error.
func (r *Resource) Clone() *Resource {
	return &Resource{resourceType: r.resourceType, data: deepCopy(r.data).(map[string]interface{})}
}

func deepCopy(v interface{}) interface{} {
	switch vv := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(vv))
		for k, e := range vv {
			out[k] = deepCopy(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(vv))
		for i, e := range vv {
			out[i] = deepCopy(e)
		}
		return out
	default:
		return v
	}
}

// EnsureSchemas sets the resource's "schemas" array to the resource type's
// main schema URI plus, for each extension whose container key is already
// present in the data, that extension's URI. It is idempotent and is called
// by the resource service after create/replace so the wire document always
// carries an accurate schemas list regardless of what the client sent.
func (r *Resource) EnsureSchemas() {
	uris := []string{r.resourceType.Schema().ID()}
	for _, ext := range r.resourceType.Extensions() {
		if _, ok := r.data[ext.ID()]; ok {
			uris = append(uris, ext.ID())
		}
	}
	r.data["schemas"] = uris
}

// IdOrEmpty returns the resource's "id" attribute, or "" if absent or not a string.
func (r *Resource) IdOrEmpty() string {
	s, _ := r.data["id"].(string)
	return s
}

// SetId sets the resource's "id" attribute.
func (r *Resource) SetId(id string) { r.data["id"] = id }

func (r *Resource) metaMap() map[string]interface{} {
	m, ok := r.data["meta"].(map[string]interface{})
	if !ok {
		m = map[string]interface{}{}
		r.data["meta"] = m
	}
	return m
}

// MetaVersionOrEmpty returns meta.version, or "" if absent.
func (r *Resource) MetaVersionOrEmpty() string {
	m, _ := r.data["meta"].(map[string]interface{})
	s, _ := m["version"].(string)
	return s
}

// MetaLocationOrEmpty returns meta.location, or "" if absent.
func (r *Resource) MetaLocationOrEmpty() string {
	m, _ := r.data["meta"].(map[string]interface{})
	s, _ := m["location"].(string)
	return s
}

// SetMeta stamps meta.resourceType, meta.created, meta.lastModified,
// meta.location and meta.version. created is left untouched (passed as "")
// when this is an update rather than a creation.
func (r *Resource) SetMeta(resourceType, created, lastModified, location, version string) {
	m := r.metaMap()
	m["resourceType"] = resourceType
	if created != "" {
		m["created"] = created
	}
	m["lastModified"] = lastModified
	m["location"] = location
	m["version"] = version
}

// Get resolves a dotted attribute path ("name.givenName") against the
// resource's data, returning nil if any segment is absent. It does not
// understand filter selectors; use the eval package for full path
// resolution including value-path filters.
func (r *Resource) Get(path string) interface{} {
	var cur interface{} = r.data
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur, ok = lookupFold(m, seg)
		if !ok {
			return nil
		}
	}
	return cur
}

// lookupFold looks up key in m case-insensitively, as SCIM attribute names
// are compared without regard to case.
func lookupFold(m map[string]interface{}, key string) (interface{}, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// MarshalJSON renders the resource's data as it is. It does not populate the
// "schemas" array; EnsureSchemas does that.
func (r *Resource) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.data)
}

// UnmarshalJSON decodes a SCIM resource document. The Resource's
// resourceType must already be set via New before calling this (it is not
// inferred from the document's "schemas" array).
func (r *Resource) UnmarshalJSON(b []byte) error {
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	r.data = m
	return nil
}

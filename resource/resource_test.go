package resource

import (
	"testing"

	"github.com/entrahub/scim/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResource_IdAndMeta(t *testing.T) {
	r := New(spec.UserResourceType, map[string]interface{}{})
	assert.Equal(t, "", r.IdOrEmpty())

	r.SetId("1234")
	assert.Equal(t, "1234", r.IdOrEmpty())

	r.SetMeta("User", "2020-01-01T00:00:00Z", "2020-01-02T00:00:00Z", "/Users/1234", "W/\"1\"")
	assert.Equal(t, "W/\"1\"", r.MetaVersionOrEmpty())
	assert.Equal(t, "/Users/1234", r.MetaLocationOrEmpty())
}

func TestResource_Get(t *testing.T) {
	r := New(spec.UserResourceType, map[string]interface{}{
		"userName": "david",
		"name": map[string]interface{}{
			"familyName": "Qiu",
		},
	})

	assert.Equal(t, "david", r.Get("userName"))
	assert.Equal(t, "Qiu", r.Get("name.familyName"))
	assert.Nil(t, r.Get("name.givenName"))
	assert.Nil(t, r.Get("nonExistent.sub"))
}

func TestResource_Clone(t *testing.T) {
	r := New(spec.UserResourceType, map[string]interface{}{
		"userName": "david",
		"emails": []interface{}{
			map[string]interface{}{"value": "david@example.com", "primary": true},
		},
	})

	clone := r.Clone()
	clone.Data()["userName"] = "other"
	emails := clone.Data()["emails"].([]interface{})
	emails[0].(map[string]interface{})["value"] = "changed@example.com"

	require.Equal(t, "david", r.Get("userName"))
	require.Equal(t, "david@example.com", r.Data()["emails"].([]interface{})[0].(map[string]interface{})["value"])
}

func TestResource_EnsureSchemas(t *testing.T) {
	r := New(spec.UserResourceType, map[string]interface{}{
		spec.SchemaURIEnterpriseUser: map[string]interface{}{"employeeNumber": "701"},
	})
	r.EnsureSchemas()

	schemas := r.Data()["schemas"].([]string)
	assert.Contains(t, schemas, spec.SchemaURIUser)
	assert.Contains(t, schemas, spec.SchemaURIEnterpriseUser)
}

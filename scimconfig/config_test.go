package scimconfig

import (
	"testing"

	"github.com/entrahub/scim/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceProviderConfig_Defaults(t *testing.T) {
	c := ServiceProviderConfig(Options{EnableBulk: true})
	assert.True(t, c.Patch.Supported)
	assert.True(t, c.Filter.Supported)
	assert.Equal(t, 200, c.Filter.MaxResults)
	assert.True(t, c.Bulk.Supported)
	assert.Equal(t, 100, c.Bulk.MaxOp)
	assert.False(t, c.ETag.Supported)
}

func TestResourceTypes_GroupsGating(t *testing.T) {
	without := ResourceTypes(Options{})
	assert.Len(t, without, 1)

	with := ResourceTypes(Options{GroupsEnabled: true})
	assert.Len(t, with, 2)

	rt, err := ResourceType(Options{}, spec.ResourceTypeUser)
	require.NoError(t, err)
	assert.Equal(t, "User", rt.Name())

	_, err = ResourceType(Options{}, spec.ResourceTypeGroup)
	assert.ErrorIs(t, err, spec.ErrNotFound)
}

func TestSchemas_GroupsGating(t *testing.T) {
	without := Schemas(Options{})
	assert.Len(t, without, 2)

	with := Schemas(Options{GroupsEnabled: true})
	assert.Len(t, with, 4)

	_, err := Schema(Options{}, spec.SchemaURIGroup)
	assert.ErrorIs(t, err, spec.ErrNotFound)

	s, err := Schema(Options{GroupsEnabled: true}, spec.SchemaURIGroup)
	require.NoError(t, err)
	assert.Equal(t, "Group", s.Name())
}

package service

import (
	"context"
	"strings"
	"testing"

	"github.com/entrahub/scim/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchService(t *testing.T) {
	createSvc, memoryDB := newCreateService()
	created, err := createSvc.Do(context.Background(), &CreateRequest{
		Payload: strings.NewReader(`{"userName":"david"}`),
	})
	require.NoError(t, err)

	config := &spec.ServiceProviderConfig{}
	config.Patch.Supported = true
	patchSvc := PatchService(config, spec.UserResourceType, memoryDB, nil, []ByResource{MetaFilter()})

	resp, err := patchSvc.Do(context.Background(), &PatchRequest{
		ResourceID: created.Resource.IdOrEmpty(),
		Payload: strings.NewReader(`{
			"schemas": ["urn:ietf:params:scim:api:messages:2.0:PatchOp"],
			"Operations": [{"op": "replace", "path": "displayName", "value": "David"}]
		}`),
	})
	require.NoError(t, err)
	assert.True(t, resp.Patched)
	assert.Equal(t, "David", resp.Resource.Data()["displayName"])
}

func TestPatchService_NoNetChangeIsNoOp(t *testing.T) {
	createSvc, memoryDB := newCreateService()
	created, err := createSvc.Do(context.Background(), &CreateRequest{
		Payload: strings.NewReader(`{"userName":"david","displayName":"David"}`),
	})
	require.NoError(t, err)
	firstVersion := created.Resource.MetaVersionOrEmpty()

	config := &spec.ServiceProviderConfig{}
	config.Patch.Supported = true
	patchSvc := PatchService(config, spec.UserResourceType, memoryDB, nil, []ByResource{MetaFilter()})

	resp, err := patchSvc.Do(context.Background(), &PatchRequest{
		ResourceID: created.Resource.IdOrEmpty(),
		Payload: strings.NewReader(`{
			"schemas": ["urn:ietf:params:scim:api:messages:2.0:PatchOp"],
			"Operations": [{"op": "replace", "path": "displayName", "value": "David"}]
		}`),
	})
	require.NoError(t, err)
	assert.False(t, resp.Patched)
	assert.Equal(t, firstVersion, resp.Ref.MetaVersionOrEmpty())
}

func TestPatchService_NotSupported(t *testing.T) {
	createSvc, memoryDB := newCreateService()
	created, err := createSvc.Do(context.Background(), &CreateRequest{
		Payload: strings.NewReader(`{"userName":"david"}`),
	})
	require.NoError(t, err)

	config := &spec.ServiceProviderConfig{}
	patchSvc := PatchService(config, spec.UserResourceType, memoryDB, nil, nil)

	_, err = patchSvc.Do(context.Background(), &PatchRequest{
		ResourceID: created.Resource.IdOrEmpty(),
		Payload: strings.NewReader(`{
			"schemas": ["urn:ietf:params:scim:api:messages:2.0:PatchOp"],
			"Operations": [{"op": "replace", "path": "displayName", "value": "David"}]
		}`),
	})
	assert.Error(t, err)
}

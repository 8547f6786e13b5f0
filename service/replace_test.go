package service

import (
	"context"
	"strings"
	"testing"

	"github.com/entrahub/scim/resource"
	"github.com/entrahub/scim/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceService(t *testing.T) {
	createSvc, memoryDB := newCreateService()
	created, err := createSvc.Do(context.Background(), &CreateRequest{
		Payload: strings.NewReader(`{"userName":"david"}`),
	})
	require.NoError(t, err)

	config := &spec.ServiceProviderConfig{}
	replaceSvc := ReplaceService(config, spec.UserResourceType, memoryDB, []ByResource{MetaFilter(), BCryptFilter()})

	resp, err := replaceSvc.Do(context.Background(), &ReplaceRequest{
		ResourceID: created.Resource.IdOrEmpty(),
		Payload:    strings.NewReader(`{"userName":"david","displayName":"David"}`),
	})
	require.NoError(t, err)
	assert.True(t, resp.Replaced)
	assert.Equal(t, "David", resp.Resource.Data()["displayName"])
	assert.Equal(t, created.Resource.IdOrEmpty(), resp.Resource.IdOrEmpty())
}

func TestReplaceService_IdenticalDocumentIsNoOp(t *testing.T) {
	createSvc, memoryDB := newCreateService()
	created, err := createSvc.Do(context.Background(), &CreateRequest{
		Payload: strings.NewReader(`{"userName":"david","displayName":"David"}`),
	})
	require.NoError(t, err)
	firstVersion := created.Resource.MetaVersionOrEmpty()

	config := &spec.ServiceProviderConfig{}
	replaceSvc := ReplaceService(config, spec.UserResourceType, memoryDB, []ByResource{MetaFilter(), BCryptFilter()})

	resp, err := replaceSvc.Do(context.Background(), &ReplaceRequest{
		ResourceID: created.Resource.IdOrEmpty(),
		Payload:    strings.NewReader(`{"userName":"david","displayName":"David"}`),
	})
	require.NoError(t, err)
	assert.False(t, resp.Replaced)
	assert.Equal(t, firstVersion, resp.Ref.MetaVersionOrEmpty())
}

func TestReplaceService_PreConditionFailure(t *testing.T) {
	createSvc, memoryDB := newCreateService()
	created, err := createSvc.Do(context.Background(), &CreateRequest{
		Payload: strings.NewReader(`{"userName":"david"}`),
	})
	require.NoError(t, err)

	config := &spec.ServiceProviderConfig{}
	config.ETag.Supported = true
	replaceSvc := ReplaceService(config, spec.UserResourceType, memoryDB, nil)

	_, err = replaceSvc.Do(context.Background(), &ReplaceRequest{
		ResourceID:    created.Resource.IdOrEmpty(),
		Payload:       strings.NewReader(`{"userName":"david"}`),
		MatchCriteria: func(r *resource.Resource) bool { return false },
	})
	assert.Error(t, err)
}

package service

import (
	"context"
	"strings"
	"testing"

	"github.com/entrahub/scim/db"
	"github.com/entrahub/scim/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCreateService() (Create, db.DB) {
	memoryDB := db.Memory()
	svc := CreateService(spec.UserResourceType, memoryDB, []ByResource{
		UUIDFilter(),
		MetaFilter(),
		BCryptFilter(),
	})
	return svc, memoryDB
}

func TestCreateService_AssignsIdAndMeta(t *testing.T) {
	svc, _ := newCreateService()

	resp, err := svc.Do(context.Background(), &CreateRequest{
		Payload: strings.NewReader(`{"schemas":["urn:ietf:params:scim:schemas:core:2.0:User"],"userName":"david"}`),
	})
	require.NoError(t, err)

	data := resp.Resource.Data()
	assert.NotEmpty(t, data["id"])
	assert.Equal(t, "david", data["userName"])

	meta := data["meta"].(map[string]interface{})
	assert.Equal(t, "User", meta["resourceType"])
	assert.NotEmpty(t, meta["created"])
	assert.NotEmpty(t, meta["version"])
	assert.Contains(t, meta["location"], "/Users/")
}

func TestCreateService_HashesPasswordAndStripsFromResponse(t *testing.T) {
	svc, memoryDB := newCreateService()

	resp, err := svc.Do(context.Background(), &CreateRequest{
		Payload: strings.NewReader(`{"userName":"david","password":"hunter2"}`),
	})
	require.NoError(t, err)
	assert.NotContains(t, resp.Resource.Data(), "password")

	stored, err := memoryDB.GetResource(context.Background(), resp.Resource.IdOrEmpty())
	require.NoError(t, err)
	hashed, ok := stored.Data()["password"].(string)
	require.True(t, ok)
	assert.NotEqual(t, "hunter2", hashed)
}

func TestCreateService_RejectsMalformedPayload(t *testing.T) {
	svc, _ := newCreateService()
	_, err := svc.Do(context.Background(), &CreateRequest{Payload: strings.NewReader(`not json`)})
	assert.Error(t, err)
}

func TestCreateService_RejectsMissingPayload(t *testing.T) {
	svc, _ := newCreateService()
	_, err := svc.Do(context.Background(), &CreateRequest{})
	assert.Error(t, err)
}

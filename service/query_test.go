package service

import (
	"context"
	"strings"
	"testing"

	"github.com/entrahub/scim/queryparam"
	"github.com/entrahub/scim/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryService_FilterAndSort(t *testing.T) {
	createSvc, memoryDB := newCreateService()
	for _, name := range []string{"carol", "alice", "bob"} {
		_, err := createSvc.Do(context.Background(), &CreateRequest{
			Payload: strings.NewReader(`{"userName":"` + name + `"}`),
		})
		require.NoError(t, err)
	}

	config := &spec.ServiceProviderConfig{}
	config.Filter.Supported = true
	config.Sort.Supported = true
	querySvc := QueryService(config, spec.UserResourceType, memoryDB)

	params, err := queryparam.Parse(map[string][]string{
		"filter": {`userName pr`},
		"sortBy": {"userName"},
	})
	require.NoError(t, err)

	resp, err := querySvc.Do(context.Background(), &QueryRequest{Params: params})
	require.NoError(t, err)
	require.Len(t, resp.Resources, 3)
	assert.Equal(t, 3, resp.TotalResults)
	assert.Equal(t, "alice", resp.Resources[0]["userName"])
	assert.Equal(t, "bob", resp.Resources[1]["userName"])
	assert.Equal(t, "carol", resp.Resources[2]["userName"])
}

func TestQueryService_FilterNotSupported(t *testing.T) {
	_, memoryDB := newCreateService()
	config := &spec.ServiceProviderConfig{}

	querySvc := QueryService(config, spec.UserResourceType, memoryDB)
	params, err := queryparam.Parse(map[string][]string{"filter": {`userName pr`}})
	require.NoError(t, err)

	_, err = querySvc.Do(context.Background(), &QueryRequest{Params: params})
	assert.Error(t, err)
}

func TestQueryService_MaxResultsExceeded(t *testing.T) {
	createSvc, memoryDB := newCreateService()
	for _, name := range []string{"a", "b", "c"} {
		_, err := createSvc.Do(context.Background(), &CreateRequest{Payload: strings.NewReader(`{"userName":"` + name + `"}`)})
		require.NoError(t, err)
	}

	config := &spec.ServiceProviderConfig{}
	config.Filter.Supported = true
	config.Filter.MaxResults = 2

	querySvc := QueryService(config, spec.UserResourceType, memoryDB)
	resp, err := querySvc.Do(context.Background(), &QueryRequest{Params: &queryparam.Params{StartIndex: 1}})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, spec.ErrTooMany)
}

package scimsync

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer is a minimal in-memory SCIM server used to exercise Syncer
// without any network dependency.
type fakeServer struct {
	mu        sync.Mutex
	resources map[string]map[string]interface{}
	deleted   []string
}

func newFakeServer() *httptest.Server {
	fs := &fakeServer{resources: map[string]map[string]interface{}{}}
	return httptest.NewServer(http.HandlerFunc(fs.handle))
}

func (fs *fakeServer) handle(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/Users":
		ids := make([]string, 0, len(fs.resources))
		for id := range fs.resources {
			ids = append(ids, id)
		}
		resources := make([]map[string]interface{}, 0, len(ids))
		for _, id := range ids {
			resources = append(resources, fs.resources[id])
		}
		_ = json.NewEncoder(w).Encode(listResponse{
			TotalResults: len(resources),
			StartIndex:   1,
			ItemsPerPage: len(resources),
			Resources:    resources,
		})

	case r.Method == http.MethodPut:
		id := r.URL.Path[len("/Users/"):]
		var data map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&data)
		if _, ok := fs.resources[id]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fs.resources[id] = data
		w.WriteHeader(http.StatusOK)

	case r.Method == http.MethodPost && r.URL.Path == "/Users":
		var data map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&data)
		id, _ := data["id"].(string)
		fs.resources[id] = data
		w.WriteHeader(http.StatusCreated)

	case r.Method == http.MethodDelete:
		id := r.URL.Path[len("/Users/"):]
		if _, ok := fs.resources[id]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		delete(fs.resources, id)
		fs.deleted = append(fs.deleted, id)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func seed(t *testing.T, server *httptest.Server, ids ...string) {
	t.Helper()
	for _, id := range ids {
		body, _ := json.Marshal(map[string]interface{}{"id": id, "userName": id})
		resp, err := http.Post(server.URL+"/Users", "application/scim+json", bytes.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
	}
}

func TestSyncer_Run_UpsertsAndDeletesOrphans(t *testing.T) {
	source := newFakeServer()
	defer source.Close()
	target := newFakeServer()
	defer target.Close()

	seed(t, source, "u1", "u2")
	seed(t, target, "u1", "stale")

	syncer := New(
		Endpoint{BaseURL: source.URL, Resource: "Users"},
		Endpoint{BaseURL: target.URL, Resource: "Users"},
		Options{PageSize: 10, DeleteOrphans: true},
		zerolog.Nop(),
	)

	report, err := syncer.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Upserted)
	assert.Equal(t, 1, report.Deleted)
	assert.Equal(t, 0, report.Failed)
}

func TestSyncer_Run_WithoutOrphanDeletionLeavesStale(t *testing.T) {
	source := newFakeServer()
	defer source.Close()
	target := newFakeServer()
	defer target.Close()

	seed(t, source, "u1")
	seed(t, target, "stale")

	syncer := New(
		Endpoint{BaseURL: source.URL, Resource: "Users"},
		Endpoint{BaseURL: target.URL, Resource: "Users"},
		Options{PageSize: 10, DeleteOrphans: false},
		zerolog.Nop(),
	)

	report, err := syncer.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Upserted)
	assert.Equal(t, 0, report.Deleted)
}

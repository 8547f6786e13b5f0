package groupsync

import (
	"context"
	"testing"

	"github.com/entrahub/scim/db"
	"github.com/entrahub/scim/resource"
	"github.com/entrahub/scim/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedGroupDB(t *testing.T, docs ...map[string]interface{}) db.DB {
	t.Helper()
	database := db.Memory()
	for _, data := range docs {
		_, err := database.CreateResource(context.Background(), resource.New(spec.GroupResourceType, data))
		require.NoError(t, err)
	}
	return database
}

func TestSyncGroupPropertyForUser(t *testing.T) {
	// g1 lists u1 and u2 as direct members; g2 lists u3 and g1, so u1 is
	// also an indirect member of g2 through g1.
	groupDB := seedGroupDB(t,
		map[string]interface{}{
			"id": "g1",
			"members": []interface{}{
				member("u1"),
				member("u2"),
			},
		},
		map[string]interface{}{
			"id": "g2",
			"members": []interface{}{
				member("u3"),
				map[string]interface{}{"value": "g1", "$ref": "/Groups/g1", "display": "g1"},
			},
		},
	)

	user := resource.New(spec.UserResourceType, map[string]interface{}{"id": "u1"})
	svc := NewSyncService(groupDB)
	require.NoError(t, svc.SyncGroupPropertyForUser(context.Background(), user))

	groups, _ := user.Data()["groups"].([]interface{})
	require.Len(t, groups, 2)

	byId := map[string]map[string]interface{}{}
	for _, g := range groups {
		m := g.(map[string]interface{})
		byId[m["value"].(string)] = m
	}

	require.Contains(t, byId, "g1")
	assert.Equal(t, "direct", byId["g1"]["type"])

	require.Contains(t, byId, "g2")
	assert.Equal(t, "indirect", byId["g2"]["type"])
}

func TestSyncGroupPropertyForUser_NoMemberships(t *testing.T) {
	groupDB := seedGroupDB(t, map[string]interface{}{
		"id":      "g1",
		"members": []interface{}{member("someoneElse")},
	})

	user := resource.New(spec.UserResourceType, map[string]interface{}{"id": "u1", "groups": []interface{}{"stale"}})
	svc := NewSyncService(groupDB)
	require.NoError(t, svc.SyncGroupPropertyForUser(context.Background(), user))

	_, hasGroups := user.Data()["groups"]
	assert.False(t, hasGroups)
}

func TestSyncGroupPropertyForUser_ContextCancelled(t *testing.T) {
	groupDB := seedGroupDB(t, map[string]interface{}{
		"id":      "g1",
		"members": []interface{}{member("u1")},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	user := resource.New(spec.UserResourceType, map[string]interface{}{"id": "u1"})
	svc := NewSyncService(groupDB)
	assert.ErrorIs(t, svc.SyncGroupPropertyForUser(ctx, user), context.Canceled)
}

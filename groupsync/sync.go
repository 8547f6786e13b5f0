package groupsync

import (
	"context"
	"fmt"

	"github.com/entrahub/scim/db"
	"github.com/entrahub/scim/eval"
	"github.com/entrahub/scim/filter"
	"github.com/entrahub/scim/resource"
)

// NewSyncService returns a new SyncService.
func NewSyncService(groupDB db.DB) *SyncService {
	return &SyncService{groupDB: groupDB}
}

// SyncService synchronizes a User resource's "groups" attribute against the
// current membership recorded on Group resources.
type SyncService struct {
	groupDB db.DB
}

// SyncGroupPropertyForUser recomputes user's "groups" attribute from the
// latest state of the group database. It does not persist the updated
// resource; the caller is responsible for saving it.
//
// Membership may be nested (a user's direct group may itself be a member of
// another group), so this walks the membership graph breadth-first,
// querying the group database once per newly discovered member. ctx governs
// cancellation across that walk.
func (s *SyncService) SyncGroupPropertyForUser(ctx context.Context, user *resource.Resource) error {
	delete(user.Data(), "groups")

	type task struct {
		member string
		direct bool
	}
	tasks := []task{{member: user.IdOrEmpty(), direct: true}}
	completed := map[string]struct{}{}
	var groups []interface{}

	for len(tasks) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t := tasks[0]
		tasks = tasks[1:]

		found, err := s.searchGroupsForMember(ctx, t.member)
		if err != nil {
			return err
		}
		for _, group := range found {
			groups = append(groups, formulateGroupElementData(group, t.direct))

			groupId := group.IdOrEmpty()
			if _, processed := completed[groupId]; !processed {
				tasks = append(tasks, task{member: groupId, direct: false})
			}
		}

		completed[t.member] = struct{}{}
	}

	if len(groups) > 0 {
		user.Data()["groups"] = groups
	}
	return nil
}

func formulateGroupElementData(group *resource.Resource, direct bool) map[string]interface{} {
	data := map[string]interface{}{
		"value":   group.IdOrEmpty(),
		"$ref":    group.MetaLocationOrEmpty(),
		"display": group.Get("displayName"),
	}
	if direct {
		data["type"] = "direct"
	} else {
		data["type"] = "indirect"
	}
	return data
}

// searchGroupsForMember finds every group that directly lists member as one
// of its members, applying the filter in memory if the adapter could not
// fully express it as a native query.
func (s *SyncService) searchGroupsForMember(ctx context.Context, member string) ([]*resource.Resource, error) {
	expr, err := filter.Parse(fmt.Sprintf("members[value eq %q]", member))
	if err != nil {
		return nil, err
	}

	result, err := s.groupDB.QueryResources(ctx, db.QueryRequest{Filter: expr})
	if err != nil {
		return nil, err
	}

	if result.Residual == nil {
		return result.Resources, nil
	}

	matched := make([]*resource.Resource, 0, len(result.Resources))
	for _, r := range result.Resources {
		if eval.Evaluate(r, result.Residual) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

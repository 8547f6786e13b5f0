package groupsync

import (
	"github.com/entrahub/scim/resource"
)

const (
	fieldMembers = "members"
	fieldValue   = "value"
)

// Compare compares the two snapshots of a group resource before and after a
// modification and reports the difference in membership. At least one of
// before and after must be non-nil. When before is nil, every member of
// after is considered to have just joined; when after is nil, every member
// of before is considered to have just left.
func Compare(before *resource.Resource, after *resource.Resource) *Diff {
	if before == nil && after == nil {
		panic("at least one of before and after should be non-nil")
	}

	beforeIds := memberIds(before)
	afterIds := memberIds(after)

	diff := new(Diff)
	for k := range beforeIds {
		if _, ok := afterIds[k]; !ok {
			diff.addLeft(k)
		}
	}
	for k := range afterIds {
		if _, ok := beforeIds[k]; !ok {
			diff.addJoined(k)
		}
	}
	return diff
}

func memberIds(group *resource.Resource) map[string]struct{} {
	ids := map[string]struct{}{}
	if group == nil {
		return ids
	}

	members, _ := group.Data()[fieldMembers].([]interface{})
	for _, m := range members {
		member, ok := m.(map[string]interface{})
		if !ok {
			continue
		}
		if id, ok := member[fieldValue].(string); ok && id != "" {
			ids[id] = struct{}{}
		}
	}
	return ids
}

// Diff reports the difference between the members of two group resources.
type Diff struct {
	joined map[string]struct{}
	left   map[string]struct{}
}

func (d *Diff) addJoined(id string) {
	if d.joined == nil {
		d.joined = map[string]struct{}{}
	}
	d.joined[id] = struct{}{}
}

func (d *Diff) addLeft(id string) {
	if d.left == nil {
		d.left = map[string]struct{}{}
	}
	d.left[id] = struct{}{}
}

// ForEachJoined invokes callback with each member id that joined the group.
func (d *Diff) ForEachJoined(callback func(id string)) {
	for k := range d.joined {
		callback(k)
	}
}

// ForEachLeft invokes callback with each member id that left the group.
func (d *Diff) ForEachLeft(callback func(id string)) {
	for k := range d.left {
		callback(k)
	}
}

// CountJoined returns the number of new members that joined the group.
func (d *Diff) CountJoined() int { return len(d.joined) }

// CountLeft returns the number of members that left the group.
func (d *Diff) CountLeft() int { return len(d.left) }

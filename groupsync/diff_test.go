package groupsync

import (
	"testing"

	"github.com/entrahub/scim/resource"
	"github.com/entrahub/scim/spec"
	"github.com/stretchr/testify/assert"
)

func groupWithMembers(members ...map[string]interface{}) *resource.Resource {
	data := make([]interface{}, len(members))
	for i, m := range members {
		data[i] = m
	}
	return resource.New(spec.GroupResourceType, map[string]interface{}{
		"id":      "foobar",
		"members": data,
	})
}

func member(value string) map[string]interface{} {
	return map[string]interface{}{"value": value, "$ref": "/Users/" + value, "display": value}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name   string
		before *resource.Resource
		after  *resource.Resource
		expect func(t *testing.T, diff *Diff)
	}{
		{
			name:   "no modification, order changed",
			before: groupWithMembers(member("m1"), member("m2")),
			after:  groupWithMembers(member("m2"), member("m1")),
			expect: func(t *testing.T, diff *Diff) {
				assert.Equal(t, 0, diff.CountLeft())
				assert.Equal(t, 0, diff.CountJoined())
			},
		},
		{
			name:   "someone joined",
			before: groupWithMembers(member("m1")),
			after:  groupWithMembers(member("m1"), member("m2")),
			expect: func(t *testing.T, diff *Diff) {
				assert.Equal(t, 0, diff.CountLeft())
				assert.Equal(t, 1, diff.CountJoined())
				_, joined := diff.joined["m2"]
				assert.True(t, joined)
			},
		},
		{
			name:   "someone left",
			before: groupWithMembers(member("m1"), member("m2")),
			after:  groupWithMembers(member("m2")),
			expect: func(t *testing.T, diff *Diff) {
				assert.Equal(t, 1, diff.CountLeft())
				assert.Equal(t, 0, diff.CountJoined())
				_, left := diff.left["m1"]
				assert.True(t, left)
			},
		},
		{
			name:   "group deleted entirely",
			before: groupWithMembers(member("m1"), member("m2")),
			after:  nil,
			expect: func(t *testing.T, diff *Diff) {
				assert.Equal(t, 2, diff.CountLeft())
				assert.Equal(t, 0, diff.CountJoined())
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.expect(t, Compare(test.before, test.after))
		})
	}
}

func TestCompare_PanicsWhenBothNil(t *testing.T) {
	assert.Panics(t, func() { Compare(nil, nil) })
}

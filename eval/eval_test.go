package eval

import (
	"testing"

	"github.com/entrahub/scim/filter"
	"github.com/entrahub/scim/resource"
	"github.com/entrahub/scim/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_S1_FilterEquality(t *testing.T) {
	expr, err := filter.Parse(`userName eq "john.doe"`)
	require.NoError(t, err)

	users := []*resource.Resource{
		resource.New(spec.UserResourceType, map[string]interface{}{"userName": "john.doe"}),
		resource.New(spec.UserResourceType, map[string]interface{}{"userName": "jane.doe"}),
		resource.New(spec.UserResourceType, map[string]interface{}{"userName": "john.doe"}),
	}

	matched := 0
	for _, u := range users {
		if Evaluate(u, expr) {
			matched++
		}
	}
	assert.Equal(t, 2, matched)
}

func TestEvaluate_S2_ValuePath(t *testing.T) {
	u := resource.New(spec.UserResourceType, map[string]interface{}{
		"emails": []interface{}{
			map[string]interface{}{"value": "w@x", "type": "work", "primary": true},
			map[string]interface{}{"value": "h@x", "type": "home"},
		},
	})

	work, err := filter.Parse(`emails[type eq "work" and primary eq true]`)
	require.NoError(t, err)
	assert.True(t, Evaluate(u, work))

	home, err := filter.Parse(`emails[type eq "home" and primary eq true]`)
	require.NoError(t, err)
	assert.False(t, Evaluate(u, home))
}

func TestEvaluate_PresentAndCompare(t *testing.T) {
	u := resource.New(spec.UserResourceType, map[string]interface{}{
		"displayName": "David",
		"meta":        map[string]interface{}{"created": "2020-01-01T00:00:00Z"},
	})

	present, _ := filter.Parse(`displayName pr`)
	assert.True(t, Evaluate(u, present))

	absent, _ := filter.Parse(`nickName pr`)
	assert.False(t, Evaluate(u, absent))

	sw, _ := filter.Parse(`displayName sw "Dav"`)
	assert.True(t, Evaluate(u, sw))

	dateGe, _ := filter.Parse(`meta.created ge "2019-01-01T00:00:00Z"`)
	assert.True(t, Evaluate(u, dateGe))

	dateLt, _ := filter.Parse(`meta.created lt "2019-01-01T00:00:00Z"`)
	assert.False(t, Evaluate(u, dateLt))
}

func TestEvaluate_NullEqualsAbsent(t *testing.T) {
	u := resource.New(spec.UserResourceType, map[string]interface{}{"nickName": nil})
	expr, err := filter.Parse(`title eq null`)
	require.NoError(t, err)
	assert.True(t, Evaluate(u, expr))
}

func TestSort_S7_NestedAscending(t *testing.T) {
	users := []*resource.Resource{
		resource.New(spec.UserResourceType, map[string]interface{}{"name": map[string]interface{}{"familyName": "Smith"}}),
		resource.New(spec.UserResourceType, map[string]interface{}{"name": map[string]interface{}{"familyName": "Doe"}}),
		resource.New(spec.UserResourceType, map[string]interface{}{"name": map[string]interface{}{"familyName": "Adams"}}),
	}

	Sort(users, "name.familyName", SortAscending)

	var order []string
	for _, u := range users {
		order = append(order, u.Data()["name"].(map[string]interface{})["familyName"].(string))
	}
	assert.Equal(t, []string{"Adams", "Doe", "Smith"}, order)
}

func TestPaginate_BoundaryCases(t *testing.T) {
	var resources []*resource.Resource
	for i := 0; i < 5; i++ {
		resources = append(resources, resource.New(spec.UserResourceType, map[string]interface{}{}))
	}

	page := Paginate(resources, 1, nil)
	assert.Equal(t, 5, page.TotalResults)
	assert.Equal(t, 5, page.ItemsPerPage)

	zero := 0
	zeroPage := Paginate(resources, 1, &zero)
	assert.Equal(t, 0, zeroPage.ItemsPerPage)
	assert.Equal(t, 5, zeroPage.TotalResults)

	beyond := Paginate(resources, 100, nil)
	assert.Equal(t, 0, beyond.ItemsPerPage)
	assert.Equal(t, 5, beyond.TotalResults)
}

func TestProject_IncludeExclude(t *testing.T) {
	u := resource.New(spec.UserResourceType, map[string]interface{}{
		"id":       "1",
		"userName": "david",
		"name":     map[string]interface{}{"givenName": "David", "familyName": "Qiu"},
	})

	included := Project(u, []string{"name.givenName"}, nil)
	assert.Contains(t, included, "id")
	name, ok := included["name"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "David", name["givenName"])
	assert.NotContains(t, name, "familyName")
	assert.NotContains(t, included, "userName")

	excluded := Project(u, nil, []string{"name.familyName"})
	name2 := excluded["name"].(map[string]interface{})
	assert.Equal(t, "David", name2["givenName"])
	assert.NotContains(t, name2, "familyName")
	assert.Contains(t, excluded, "userName")
}

func TestProject_ExcludeCoreAttribute(t *testing.T) {
	u := resource.New(spec.UserResourceType, map[string]interface{}{
		"id":       "1",
		"userName": "david",
	})
	u.SetMeta("User", "2024-01-01T00:00:00Z", "2024-01-01T00:00:00Z", "/Users/1", "W/\"1\"")
	u.EnsureSchemas()

	excluded := Project(u, nil, []string{"meta", "id"})
	assert.NotContains(t, excluded, "meta")
	assert.NotContains(t, excluded, "id")
	assert.Contains(t, excluded, "userName")
	assert.Contains(t, excluded, "schemas")
}

package queryparam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	p, err := Parse(map[string][]string{})
	require.NoError(t, err)
	assert.Equal(t, 1, p.StartIndex)
	assert.Nil(t, p.Count)
	assert.False(t, p.SortDescending)
}

func TestParse_Filter(t *testing.T) {
	p, err := Parse(map[string][]string{"filter": {`userName eq "david"`}})
	require.NoError(t, err)
	require.NotNil(t, p.Filter)
}

func TestParse_InvalidFilter(t *testing.T) {
	_, err := Parse(map[string][]string{"filter": {`userName eq`}})
	assert.Error(t, err)
}

func TestParse_AttributesSplit(t *testing.T) {
	p, err := Parse(map[string][]string{"attributes": {"userName, name.familyName ,displayName"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"userName", "name.familyName", "displayName"}, p.Attributes)
}

func TestParse_SortOrder(t *testing.T) {
	p, err := Parse(map[string][]string{"sortOrder": {"DESCENDING"}})
	require.NoError(t, err)
	assert.True(t, p.SortDescending)

	_, err = Parse(map[string][]string{"sortOrder": {"sideways"}})
	assert.Error(t, err)
}

func TestParse_StartIndexAndCount(t *testing.T) {
	p, err := Parse(map[string][]string{"startIndex": {"5"}, "count": {"10"}})
	require.NoError(t, err)
	assert.Equal(t, 5, p.StartIndex)
	require.NotNil(t, p.Count)
	assert.Equal(t, 10, *p.Count)

	_, err = Parse(map[string][]string{"startIndex": {"0"}})
	assert.Error(t, err)

	_, err = Parse(map[string][]string{"count": {"-1"}})
	assert.Error(t, err)
}

package service

import (
	"testing"

	"github.com/entrahub/scim/spec"
	"github.com/stretchr/testify/assert"
)

func TestStripNeverReturned_RemovesPassword(t *testing.T) {
	data := map[string]interface{}{
		"userName": "david",
		"password": "hunter2",
	}

	StripNeverReturned(spec.UserResourceType, data)

	assert.NotContains(t, data, "password")
	assert.Contains(t, data, "userName")
}

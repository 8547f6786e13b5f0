package scimsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommand_Name(t *testing.T) {
	cmd := Command()
	assert.Equal(t, "sync", cmd.Name)
	assert.NotEmpty(t, cmd.Flags)
}

func TestArguments_LoggerDefaultsToInfo(t *testing.T) {
	a := newArgs()
	logger := a.logger()
	assert.Equal(t, "info", logger.GetLevel().String())
}

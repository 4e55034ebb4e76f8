package errors

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainErrorWrapping(t *testing.T) {
	err := InputAbsent("read /data/in", fs.ErrNotExist)

	assert.Equal(t, "INPUT_ABSENT: read /data/in: file does not exist", err.Error())
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.NotEmpty(t, err.StackTrace())
}

func TestIsType(t *testing.T) {
	wrapped := fmt.Errorf("run: %w", SchemaAbsent("no columns", nil))

	assert.True(t, IsType(wrapped, ErrTypeSchemaAbsent))
	assert.False(t, IsType(wrapped, ErrTypeInputAbsent))
	assert.False(t, IsType(fs.ErrNotExist, ErrTypeSchemaAbsent))
}

func TestNewWithoutCause(t *testing.T) {
	err := InvalidInput("unknown domain", nil)
	require.Nil(t, err.Unwrap())
	assert.Equal(t, "INVALID_INPUT: unknown domain", err.Error())
}

package logging

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWritesToRunFile(t *testing.T) {
	logger, err := NewLogger("test")
	require.NoError(t, err)
	defer logger.Close()

	logger.Infof("hello %s", "world")
	require.NotEmpty(t, logger.LogPath())

	data, err := os.ReadFile(logger.LogPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[test]")
	assert.Contains(t, string(data), "hello world")
}

func TestLoggersShareRunID(t *testing.T) {
	a, err := NewLogger("a")
	require.NoError(t, err)
	defer a.Close()

	b, err := NewLogger("b")
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, a.RunID(), b.RunID())
	assert.NotEmpty(t, a.RunID())
}

func TestCloseIsIdempotent(t *testing.T) {
	logger, err := NewLogger("close")
	require.NoError(t, err)

	require.NoError(t, logger.Close())
	assert.NoError(t, logger.Close())
}

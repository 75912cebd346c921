package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "lifelog.log")
	logger, closer, err := New(Options{Level: "debug", File: path})
	require.NoError(t, err)

	logger.Named("store").Debug("segments replaced", "log", "abc", "count", 2)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "lifelog.store: segments replaced")
	assert.Contains(t, string(data), "log=abc")
	assert.Contains(t, string(data), "count=2")
}

func TestNewRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lifelog.log")
	logger, closer, err := New(Options{Level: "warn", File: path})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNewWithoutOutputs(t *testing.T) {
	logger, closer, err := New(Options{Level: "nonsense"})
	require.NoError(t, err)
	assert.True(t, logger.IsInfo())
	assert.False(t, logger.IsDebug())
	assert.NoError(t, closer.Close())
}

package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Marcelo-Rosas/container-storage/internal/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "app.log")
	cfg := &config.Config{
		AppEnv: "production",
		Log:    config.LogConfig{Level: "warn", File: logFile, MaxSize: 1},
	}

	logger, err := NewFromConfig(cfg)
	require.NoError(t, err)

	logger.Info("not written")
	logger.Warn("container export capped")
	_ = logger.Sync()

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "container export capped")
	assert.NotContains(t, string(content), "not written")
}

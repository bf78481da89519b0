package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"RBHSUM_DATA", "RBHSUM_ADDR", "RBHSUM_SQLITE", "RBHSUM_SEQUENCE_DIR", "RBHSUM_BLAST_BIN_DIR", "RBHSUM_LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.False(t, cfg.DotEnv)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr)
	assert.Equal(t, filepath.Join("data", "db", "rbhsum.db"), cfg.SQLitePath)
	assert.Equal(t, filepath.Join("data", "db", "sequence_db"), cfg.SequenceDir)
	assert.Equal(t, zapcore.InfoLevel, cfg.LogLevel)
}

func TestLoadFromDotEnv(t *testing.T) {
	// godotenv never overrides variables that are already present.
	for _, k := range []string{"RBHSUM_DATA", "RBHSUM_LOG_LEVEL", "RBHSUM_SQLITE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("RBHSUM_DATA=/srv/rbh\nRBHSUM_LOG_LEVEL=debug\n"), 0o644))

	cfg := Load(envFile)

	assert.True(t, cfg.DotEnv)
	assert.Equal(t, "/srv/rbh", cfg.DataDir)
	assert.Equal(t, "/srv/rbh/db/rbhsum.db", cfg.SQLitePath)
	assert.Equal(t, zapcore.DebugLevel, cfg.LogLevel)
}

func TestLoadBadLevelFallsBack(t *testing.T) {
	t.Setenv("RBHSUM_LOG_LEVEL", "chatty")
	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, zapcore.InfoLevel, cfg.LogLevel)
}

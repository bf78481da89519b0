package config

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/yumyai/rbhsum/internal/util"
	"github.com/yumyai/rbhsum/logger"
)

const (
	defaultDataDir = "./data"
	defaultAddr    = "0.0.0.0:8080"
)

type Config struct {
	DataDir     string
	Addr        string
	LogLevel    zapcore.Level
	SQLitePath  string
	SequenceDir string
	BinDir      string
	// Set when a .env file was found and loaded.
	DotEnv bool
}

// Load reads an optional .env file then the RBHSUM_* environment.
// Unparseable values fall back to their defaults.
func Load(envFiles ...string) *Config {
	cfg := &Config{}
	if err := godotenv.Load(envFiles...); err == nil {
		cfg.DotEnv = true
	}

	cfg.DataDir = util.EnvOr("RBHSUM_DATA", defaultDataDir)
	cfg.Addr = util.EnvOr("RBHSUM_ADDR", defaultAddr)
	cfg.SQLitePath = util.EnvOr("RBHSUM_SQLITE", filepath.Join(cfg.DataDir, "db", "rbhsum.db"))
	cfg.SequenceDir = util.EnvOr("RBHSUM_SEQUENCE_DIR", filepath.Join(cfg.DataDir, "db", "sequence_db"))
	cfg.BinDir = util.EnvOr("RBHSUM_BLAST_BIN_DIR", "")

	level, err := logger.ParseLevel(util.EnvOr("RBHSUM_LOG_LEVEL", "info"))
	if err != nil {
		level = zapcore.InfoLevel
	}
	cfg.LogLevel = level
	return cfg
}

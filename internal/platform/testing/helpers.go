// Package testing provides shared fixtures for package tests.
package testing

import (
	"testing"

	"interviewly-voice-go/internal/platform/config"
	"interviewly-voice-go/internal/platform/logging"
)

// SetupTestConfig returns a config suitable for unit tests: loopback server,
// temp logging, memory history.
func SetupTestConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Server.IP = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Log.Level = "DEBUG"
	cfg.Log.Dir = t.TempDir()
	cfg.Log.File = "test.log"
	cfg.Web.StaticDir = ""
	cfg.Audio.TempDir = t.TempDir()
	return cfg
}

// SetupTestLogger builds a logger writing into a per-test temp directory.
func SetupTestLogger(t *testing.T) *logging.Logger {
	t.Helper()

	cfg := SetupTestConfig(t)
	logger, err := logging.New(logging.Config{
		Level:    cfg.Log.Level,
		Dir:      cfg.Log.Dir,
		Filename: cfg.Log.File,
	})
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	t.Cleanup(func() { _ = logger.Close() })
	return logger
}

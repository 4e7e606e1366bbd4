package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/cadence/pkg/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 20*time.Millisecond, cfg.Tick.Period)
	assert.Equal(t, scoring.DefaultConfig(), cfg.Scoring)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "cadence:", cfg.Redis.Prefix)
	assert.Equal(t, slog.LevelInfo, cfg.Log.SlogLevel())
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cadence.yaml"), []byte(`
tick:
  period: 10ms
scoring:
  score_time: 1500ms
redis:
  addr: localhost:6379
log:
  level: debug
`), 0o644))
	t.Setenv("CADENCE_SCORING_AUTON_SCORE_TIME", "1s")
	t.Setenv("CADENCE_HTTP_ADDR", ":9090")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, cfg.Tick.Period)
	assert.Equal(t, 1500*time.Millisecond, cfg.Scoring.ScoreTime)
	assert.Equal(t, time.Second, cfg.Scoring.AutonScoreTime)
	assert.Equal(t, 3*time.Second, cfg.Scoring.DisableClearWindow)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
}

func TestLoad_ExplicitTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[tick]
period = "5ms"

[redis]
prefix = "bench:"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Millisecond, cfg.Tick.Period)
	assert.Equal(t, "bench:", cfg.Redis.Prefix)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "an explicit path must exist")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tick:\n  period: 0s\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestLogConfig_UnknownLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, LogConfig{Level: "chatty"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, LogConfig{Level: "warn"}.SlogLevel())
}

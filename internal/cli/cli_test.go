package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/cadence/internal/config"
	"github.com/aretw0/cadence/internal/logging"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/scoring"
	"github.com/fsnotify/fsnotify"
	"github.com/muesli/termenv"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

const passingScenario = `
scoring:
  score_time: 100ms
steps:
  - set: {operator.coralStage: true, operator.staged: true, operator.l4: true}
    tick: 3
  - set: {auton.actionOff: true}
    tick: 1
  - set: {auton.actionOff: false}
    tick: 1
    expect: {action: true}
  - tick: 5
    expect: {action: false}
`

const failingScenario = `
name: never scores
steps:
  - tick: 1
    expect: {action: true}
`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestCreateStack(t *testing.T) {
	cfg := &config.Config{
		Tick:    config.TickConfig{Period: 20 * time.Millisecond},
		Scoring: scoring.DefaultConfig(),
	}
	stack, err := createStack(cfg, logging.NewNop())
	require.NoError(t, err)

	require.NoError(t, stack.Board.Set("operator.coralStage", true))
	snap := stack.Engine.Tick()
	assert.EqualValues(t, 1, snap.Tick)
	assert.Equal(t, 1.0, testutil.ToFloat64(stack.Metrics.Ticks))

	actions := stack.Actions()
	assert.Len(t, actions, 3)
	assert.Equal(t, "Clear States", actions["clear-states"].Name())
}

func TestBuildTable(t *testing.T) {
	table, err := BuildTable(scoring.DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, table.Schema())
	assert.NotEmpty(t, table.Schema().Bindings)
}

func TestExpandPaths(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"b.toml":  "",
		"a.yaml":  "",
		"c.txt":   "",
		"d.YML":   "",
		"e.json5": "",
	})

	got, err := expandPaths([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "b.toml"),
		filepath.Join(dir, "d.YML"),
	}, got)

	_, err = expandPaths([]string{t.TempDir()})
	assert.Error(t, err)

	_, err = expandPaths([]string{filepath.Join(dir, "missing.yaml")})
	assert.Error(t, err)
}

func TestSimulate(t *testing.T) {
	opts := SimulateOptions{Profile: termenv.Ascii}

	t.Run("Pass", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{"short.yaml": passingScenario})
		var out bytes.Buffer
		opts := opts
		opts.Paths = []string{dir}
		opts.Timeline = true
		opts.Flags = []string{"action"}
		opts.Changes = true

		require.NoError(t, Simulate(context.Background(), opts, &out, logging.NewNop()))
		assert.Contains(t, out.String(), "PASS short (10 ticks)")
		assert.Contains(t, out.String(), "+action")
		assert.Contains(t, out.String(), "action ····█████·")
	})

	t.Run("Fail", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{
			"a.yaml": passingScenario,
			"b.yaml": failingScenario,
		})
		var out bytes.Buffer
		opts := opts
		opts.Paths = []string{dir}

		err := Simulate(context.Background(), opts, &out, logging.NewNop())
		require.ErrorIs(t, err, domain.ErrScenarioFailed)
		assert.Contains(t, err.Error(), "1 of 2")
		assert.Contains(t, out.String(), "FAIL never scores")
		assert.Contains(t, out.String(), "action = false, want true")
	})

	t.Run("Broken Script", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{"bad.yaml": "steps:\n  - set: {nope: true}\n"})
		var out bytes.Buffer
		opts := opts
		opts.Paths = []string{dir}

		err := Simulate(context.Background(), opts, &out, logging.NewNop())
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrScenarioFailed)
	})
}

func TestWatchTargets(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.yaml": "", "b.yaml": ""})
	a := filepath.Join(dir, "a.yaml")

	dirs, files, err := watchTargets([]string{a})
	require.NoError(t, err)
	assert.Equal(t, []string{dir}, dirs)

	assert.True(t, relevant(fsnotify.Event{Name: a, Op: fsnotify.Write}, files))
	assert.False(t, relevant(fsnotify.Event{Name: filepath.Join(dir, "b.yaml"), Op: fsnotify.Write}, files))
	assert.False(t, relevant(fsnotify.Event{Name: a, Op: fsnotify.Chmod}, files))

	dirs, files, err = watchTargets([]string{dir, a})
	require.NoError(t, err)
	assert.Len(t, dirs, 1)
	assert.Nil(t, files)
	assert.True(t, relevant(fsnotify.Event{Name: filepath.Join(dir, "b.yaml"), Op: fsnotify.Create}, files))
	assert.False(t, relevant(fsnotify.Event{Name: filepath.Join(dir, "notes.md"), Op: fsnotify.Create}, files))
}

func TestHandleExecutionError(t *testing.T) {
	assert.NoError(t, HandleExecutionError(nil))
	assert.NoError(t, HandleExecutionError(context.Canceled))
	assert.Error(t, HandleExecutionError(os.ErrNotExist))
}

func TestServe_StopsOnCancel(t *testing.T) {
	cfg := &config.Config{
		Tick:    config.TickConfig{Period: 5 * time.Millisecond},
		Scoring: scoring.DefaultConfig(),
		HTTP:    config.HTTPConfig{Addr: "127.0.0.1:0"},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	assert.NoError(t, Serve(ctx, cfg, logging.NewNop()))
}

func TestLive_DeadRedisKeepsTicking(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	cfg := &config.Config{
		Tick:    config.TickConfig{Period: 5 * time.Millisecond},
		Scoring: scoring.DefaultConfig(),
		Redis:   config.RedisConfig{Addr: addr, Prefix: "cadence:", Channel: "cadence:flags"},
	}
	l, err := startLive(cfg, logging.NewNop())
	require.NoError(t, err)
	defer l.close()
	require.Len(t, l.workers, 1, "the redis writer runs beside the runner")

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	l.start(gctx, g)
	require.NoError(t, g.Wait())

	snap := l.Runner.Snapshot()
	require.NotNil(t, snap)
	assert.Greater(t, snap.Tick, uint64(20))
}

func TestServeMCP_UnknownTransport(t *testing.T) {
	err := ServeMCP(context.Background(), &config.Config{}, logging.NewNop(), "carrier-pigeon")
	assert.ErrorContains(t, err, "unknown transport")
}

func TestDisplayAddr(t *testing.T) {
	assert.Equal(t, "localhost:8080", displayAddr(":8080"))
	assert.Equal(t, "10.0.0.2:9000", displayAddr("10.0.0.2:9000"))
	assert.Equal(t, "bogus", displayAddr("bogus"))
}

func TestSimulate_ShippedExamples(t *testing.T) {
	var out bytes.Buffer
	opts := SimulateOptions{Paths: []string{"../../examples/scenarios"}, Profile: termenv.Ascii}
	require.NoError(t, Simulate(context.Background(), opts, &out, logging.NewNop()), out.String())
	assert.Contains(t, out.String(), "PASS homing")
	assert.Contains(t, out.String(), "PASS manual score")
	assert.Contains(t, out.String(), "PASS toggle pulse")
}

func TestLoad_ShippedConfig(t *testing.T) {
	cfg, err := config.Load("../../examples/cadence.yaml")
	require.NoError(t, err)
	assert.Equal(t, scoring.DefaultConfig(), cfg.Scoring)
}

package scenario_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/scenario"
	"github.com/aretw0/cadence/pkg/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlay_Fixtures(t *testing.T) {
	tests := []struct {
		file  string
		name  string
		ticks int
	}{
		{file: "manual_score.yaml", name: "manual score", ticks: 3 + 1 + 4 + 1 + 99 + 1},
		{file: "toggle_pulse.toml", name: "toggle pulse", ticks: 5},
		{file: "short_score.yaml", name: "short_score", ticks: 10},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			s, err := scenario.Load(filepath.Join("testdata", tt.file))
			require.NoError(t, err)
			assert.Equal(t, tt.name, s.Name)

			res, err := scenario.Play(context.Background(), s)
			require.NoError(t, err, "%v", res.Failures)
			assert.True(t, res.Passed())
			assert.Len(t, res.Snapshots, tt.ticks)
		})
	}
}

func TestPlay_CollectsFailures(t *testing.T) {
	s, err := scenario.Parse([]byte(`
steps:
  - tick: 1
    expect: {coral: true, algae: false}
  - tick: 1
    expect: {action: true}
`), scenario.FormatYAML)
	require.NoError(t, err)

	res, err := scenario.Play(context.Background(), s)
	require.ErrorIs(t, err, domain.ErrScenarioFailed)
	require.Len(t, res.Failures, 2)
	assert.Equal(t, "coral", res.Failures[0].Flag)
	assert.Equal(t, uint64(1), res.Failures[0].Tick)
	assert.Equal(t, "step 2: tick 2: action = false, want true", res.Failures[1].String())
}

func TestPlay_UnknownNames(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{name: "signal", doc: "steps:\n  - set: {pilot.nope: true}\n", want: domain.ErrUnknownSignal},
		{name: "pulse", doc: "steps:\n  - pulse: [pilot.nope]\n", want: domain.ErrUnknownSignal},
		{name: "flag", doc: "steps:\n  - expect: {nope: true}\n", want: domain.ErrFlagNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := scenario.Parse([]byte(tt.doc), scenario.FormatYAML)
			require.NoError(t, err)
			_, err = scenario.Play(context.Background(), s)
			assert.ErrorIs(t, err, tt.want)
			assert.NotErrorIs(t, err, domain.ErrScenarioFailed)
		})
	}
}

func TestPlay_PulseLastsOneTick(t *testing.T) {
	s, err := scenario.Parse([]byte(`
steps:
  - pulse: [pilot.home]
    tick: 1
    expect: {homeAll: true}
  - note: release runs the full reset
    tick: 1
    expect: {homeAll: false}
`), scenario.FormatYAML)
	require.NoError(t, err)

	var seen []uint64
	res, err := scenario.Play(context.Background(), s, scenario.WithObserver(func(snap *domain.Snapshot) {
		seen = append(seen, snap.Tick)
	}))
	require.NoError(t, err, "%v", res.Failures)
	assert.Equal(t, []uint64{1, 2}, seen)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		format scenario.Format
	}{
		{name: "unknown key", doc: "steps:\n  - tik: 1\n", format: scenario.FormatYAML},
		{name: "bad duration", doc: "period: soon\n", format: scenario.FormatYAML},
		{name: "negative ticks", doc: "steps:\n  - tick: -1\n", format: scenario.FormatYAML},
		{name: "bad toml", doc: "steps = [", format: scenario.FormatTOML},
		{name: "unknown format", doc: "", format: scenario.Format("json")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scenario.Parse([]byte(tt.doc), tt.format)
			assert.Error(t, err)
		})
	}
}

func TestScript_Config(t *testing.T) {
	s, err := scenario.Parse([]byte(`
[scoring]
score_time = "1s"
disable_clear_window = "500ms"
`), scenario.FormatTOML)
	require.NoError(t, err)

	cfg, err := s.Config()
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.ScoreTime)
	assert.Equal(t, 500*time.Millisecond, cfg.DisableClearWindow)
	assert.Equal(t, 750*time.Millisecond, cfg.AutonScoreTime, "unset fields keep their defaults")

	s.Scoring = map[string]any{"score_tim": "1s"}
	_, err = s.Config()
	assert.Error(t, err)
}

func TestLoad_Extension(t *testing.T) {
	_, err := scenario.Load(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)

	_, err = scenario.FormatOf("scenario.json")
	assert.Error(t, err)
}

func TestBench_UnreadPulseEnds(t *testing.T) {
	bench, err := scenario.NewBench(scoring.DefaultConfig(), 0)
	require.NoError(t, err)

	// No binding reads these; they feed output conditions only.
	for _, name := range []string{"pilot.fn", "auton.poseUpdate", "system.hasGamePiece"} {
		require.NoError(t, bench.Board.Pulse(name))
		bench.Tick()
		assert.False(t, bench.Board.Signals()[name], name)
	}
}

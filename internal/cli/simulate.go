package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/cadence/internal/presentation/tui"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/scenario"
	"github.com/muesli/termenv"
)

// SimulateOptions contains the configuration for the simulate command.
type SimulateOptions struct {
	Paths []string
	// Timeline prints a flag timeline after each scenario.
	Timeline bool
	// Flags restricts the timeline rows.
	Flags  []string
	Stride int
	// Changes prints every tick that changed a flag.
	Changes bool
	Watch   bool
	Profile termenv.Profile
}

// Simulate plays every scenario in opts.Paths and writes a report to out.
// It returns an error wrapping domain.ErrScenarioFailed if any failed.
func Simulate(ctx context.Context, opts SimulateOptions, out io.Writer, logger *slog.Logger) error {
	paths, err := expandPaths(opts.Paths)
	if err != nil {
		return err
	}

	failed := 0
	for _, path := range paths {
		passed, err := playFile(ctx, path, opts, out, logger)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if !passed {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d scenario(s)", domain.ErrScenarioFailed, failed, len(paths))
	}
	return nil
}

// playFile returns passed=false with a nil error for expectation failures.
func playFile(ctx context.Context, path string, opts SimulateOptions, out io.Writer, logger *slog.Logger) (bool, error) {
	s, err := scenario.Load(path)
	if err != nil {
		return false, err
	}

	var prev *domain.Snapshot
	observe := func(snap *domain.Snapshot) {
		if opts.Changes {
			tui.PrintChange(out, opts.Profile, domain.Diff(prev, snap))
		}
		prev = snap
	}

	res, err := scenario.Play(ctx, s,
		scenario.WithLogger(logger),
		scenario.WithObserver(observe),
	)
	if err != nil && !errors.Is(err, domain.ErrScenarioFailed) {
		return false, err
	}

	if opts.Timeline {
		tl := &tui.Timeline{Profile: opts.Profile, Flags: opts.Flags, Stride: opts.Stride}
		tl.Render(out, res.Snapshots)
	}

	if res.Passed() {
		fmt.Fprintf(out, "PASS %s (%d ticks)\n", res.Name, len(res.Snapshots))
		return true, nil
	}
	fmt.Fprintf(out, "FAIL %s\n", res.Name)
	for _, f := range res.Failures {
		fmt.Fprintf(out, "    %s\n", f)
	}
	return false, nil
}

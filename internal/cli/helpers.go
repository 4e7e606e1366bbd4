package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/cadence/internal/config"
	"github.com/aretw0/cadence/internal/logging"
)

// NewLogger configures the application logger from cfg.
// It writes to Stderr (to separate from Stdout reports and timelines).
func NewLogger(cfg config.LogConfig) *slog.Logger {
	return logging.NewWriter(os.Stderr, logging.ParseFormat(cfg.Format), cfg.SlogLevel())
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}

// HandleExecutionError maps interruptions to a clean exit.
func HandleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil
	}
	return err
}

var scenarioExts = map[string]bool{".yaml": true, ".yml": true, ".toml": true}

func isScenarioFile(path string) bool {
	return scenarioExts[strings.ToLower(filepath.Ext(path))]
}

// expandPaths replaces directories with the scenario files they contain,
// sorted, and keeps plain files as given.
func expandPaths(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		var found []string
		for _, e := range entries {
			if !e.IsDir() && isScenarioFile(e.Name()) {
				found = append(found, filepath.Join(p, e.Name()))
			}
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	if len(out) == 0 {
		return nil, errors.New("no scenario files found")
	}
	return out, nil
}

package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the cadence banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text, color string
	}{
		{"                    _                     ", "#34d399"},
		{"   ___ __ _  __| | ___ _ __   ___ ___ ", "#2dd4bf"},
		{"  / __/ _` |/ _` |/ _ \\ '_ \\ / __/ _ \\", "#22d3ee"},
		{" | (_| (_| | (_| |  __/ | | | (_|  __/", "#38bdf8"},
		{"  \\___\\__,_|\\__,_|\\___|_| |_|\\___\\___|", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

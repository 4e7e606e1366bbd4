package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/schema"
	"github.com/aretw0/cadence/pkg/trigger"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	ActiveFlags   []string
	FiredBindings []int
}

// GenerateMermaid produces a Mermaid flowchart of a table: inputs on the
// left, bindings in the middle, written flags on the right.
// It applies semantic styling by edge kind:
// - Rising: [/Parallelogram/]
// - Falling: [\Parallelogram\]
// - Change: {{Hexagon}}
// - WhileTrue: [[Subroutine]]
// Flags are (["Stadiums"]) and external sources are >"Flags"].
// Deferred writes (timed expiry, waits) are dotted; guarded writes end in "?".
func GenerateMermaid(t *schema.Table, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, f := range t.Flags {
		fmt.Fprintf(&sb, "    %s([\"%s\"])\n", flagID(f.Name()), f.Name())
	}
	for _, name := range sourceNames(t) {
		fmt.Fprintf(&sb, "    %s>\"%s\"]\n", sourceID(name), name)
	}

	for _, b := range t.Bindings {
		id := bindingID(b.Index)
		opener, closer := "[/", "/]"
		switch b.Edge {
		case domain.Falling:
			opener, closer = "[\\", "\\]"
		case domain.AnyChange:
			opener, closer = "{{", "}}"
		case domain.WhileTrue:
			opener, closer = "[[", "]]"
		}
		fmt.Fprintf(&sb, "    %s%s\"#%d %s\"%s\n", id, opener, b.Index, escape(bindingLabel(b)), closer)

		if b.Cond != nil {
			for _, f := range trigger.Flags(b.Cond) {
				fmt.Fprintf(&sb, "    %s --> %s\n", flagID(f.Name()), id)
			}
			for _, s := range trigger.Sources(b.Cond) {
				fmt.Fprintf(&sb, "    %s --> %s\n", sourceID(s.Name()), id)
			}
		}
		for _, w := range dedupe(b.Writes()) {
			label := w.Kind.String()
			if w.Conditional {
				label += "?"
			}
			if w.Deferred {
				fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s\n", id, label, flagID(w.Flag.Name()))
			} else {
				fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", id, label, flagID(w.Flag.Name()))
			}
		}
	}

	for i, g := range t.Groups {
		names := make([]string, len(g))
		for j, f := range g {
			names[j] = f.Name()
		}
		fmt.Fprintf(&sb, "    %%%% exclusive group %d: %s\n", i+1, strings.Join(names, ", "))
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef active fill:#c8e6c9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef fired fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, name := range overlay.ActiveFlags {
			fmt.Fprintf(&sb, "    class %s active;\n", flagID(name))
		}
		seen := make(map[int]bool)
		for _, i := range overlay.FiredBindings {
			if !seen[i] {
				seen[i] = true
				fmt.Fprintf(&sb, "    class %s fired;\n", bindingID(i))
			}
		}
	}

	return sb.String()
}

func bindingLabel(b *schema.Binding) string {
	if b.Name != "" {
		return b.Edge.String() + " " + b.Name
	}
	return b.Label()
}

// dedupe keeps the first write of each (flag, kind, deferred) combination.
func dedupe(ws []domain.Write) []domain.Write {
	type key struct {
		flag     *domain.Flag
		kind     domain.WriteKind
		deferred bool
	}
	seen := make(map[key]bool)
	out := ws[:0:0]
	for _, w := range ws {
		k := key{w.Flag, w.Kind, w.Deferred}
		if !seen[k] {
			seen[k] = true
			out = append(out, w)
		}
	}
	return out
}

func sourceNames(t *schema.Table) []string {
	set := make(map[string]bool)
	for _, b := range t.Bindings {
		if b.Cond == nil {
			continue
		}
		for _, s := range trigger.Sources(b.Cond) {
			set[s.Name()] = true
		}
	}
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func flagID(name string) string   { return "f_" + sanitizeMermaidID(name) }
func sourceID(name string) string { return "s_" + sanitizeMermaidID(name) }
func bindingID(i int) string      { return fmt.Sprintf("b%d", i) }

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

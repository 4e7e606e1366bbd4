package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/cadence"
	"github.com/aretw0/cadence/pkg/schema"
)

// GenerateMarkdown renders the binding table as a Markdown document: one
// row per binding in evaluation order, followed by the exclusive groups.
func GenerateMarkdown(t *schema.Table) string {
	var sb strings.Builder
	sb.WriteString("# Bindings\n\n")
	sb.WriteString("| # | Edge | Binding | Condition | Writes |\n")
	sb.WriteString("|---|------|---------|-----------|--------|\n")
	for _, info := range cadence.Describe(t) {
		fmt.Fprintf(&sb, "| %d | %s | %s | `%s` | %s |\n",
			info.Index, info.Edge, cell(info.Name), cell(info.Condition), cell(strings.Join(info.Writes, ", ")))
	}

	if len(t.Groups) > 0 {
		sb.WriteString("\n## Exclusive groups\n\n")
		for _, g := range t.Groups {
			names := make([]string, len(g))
			for i, f := range g {
				names[i] = "`" + f.Name() + "`"
			}
			sb.WriteString("- " + strings.Join(names, ", ") + "\n")
		}
	}
	return sb.String()
}

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", "\\|")
}

// Package schema describes a built orchestration table: its flags, named
// conditions, exclusive groups and the ordered list of edge bindings.
//
// A Table is produced by the dsl builder, checked by the validator and
// executed by the runtime engine. It carries no execution state of its own
// apart from what lives inside flags, debounce leaves and timed actions.
//
// Defects found while building or validating a table are reported as a
// *Report, which aggregates every Issue found rather than stopping at the
// first one:
//
//	table, err := b.Build()
//	if err != nil {
//	    for _, issue := range schema.Issues(err) {
//	        fmt.Println(issue.Kind, issue.Subject, issue.Reason)
//	    }
//	}
package schema

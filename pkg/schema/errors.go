package schema

import (
	"errors"
	"fmt"
)

// IssueKind classifies a table defect.
type IssueKind string

const (
	IssueDuplicateFlag  IssueKind = "duplicate_flag"
	IssueDuplicateRef   IssueKind = "duplicate_ref"
	IssueUnknownRef     IssueKind = "unknown_ref"
	IssueCycle          IssueKind = "cycle"
	IssueUnregistered   IssueKind = "unregistered_flag"
	IssueEmptyBinding   IssueKind = "empty_binding"
	IssueConflict       IssueKind = "conflicting_write"
	IssueExclusiveGroup IssueKind = "exclusive_group"
)

// Issue is a single defect in a table.
type Issue struct {
	Kind    IssueKind
	Subject string // Binding, flag or reference name
	Reason  string
}

func (i *Issue) Error() string {
	return fmt.Sprintf("%s %q: %s", i.Kind, i.Subject, i.Reason)
}

// Report aggregates every defect found in a table.
type Report struct {
	Issues []*Issue
}

// Add records an issue.
func (r *Report) Add(kind IssueKind, subject, format string, args ...any) {
	r.Issues = append(r.Issues, &Issue{Kind: kind, Subject: subject, Reason: fmt.Sprintf(format, args...)})
}

// Merge appends the issues of other.
func (r *Report) Merge(other *Report) {
	if other != nil {
		r.Issues = append(r.Issues, other.Issues...)
	}
}

// Err returns r as an error, or nil when there are no issues.
func (r *Report) Err() error {
	if r == nil || len(r.Issues) == 0 {
		return nil
	}
	return r
}

func (r *Report) Error() string {
	if len(r.Issues) == 1 {
		return r.Issues[0].Error()
	}
	msg := fmt.Sprintf("%d table errors:\n", len(r.Issues))
	for i, issue := range r.Issues {
		msg += fmt.Sprintf("  %d. %s\n", i+1, issue.Error())
	}
	return msg
}

// Issues returns all issues if err is or wraps a *Report. Otherwise returns nil.
func Issues(err error) []*Issue {
	var r *Report
	if errors.As(err, &r) {
		return r.Issues
	}
	return nil
}

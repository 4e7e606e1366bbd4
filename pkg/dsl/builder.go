package dsl

import (
	"github.com/aretw0/cadence/internal/validator"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/schema"
	"github.com/aretw0/cadence/pkg/trigger"
)

// Builder manages the table construction.
type Builder struct {
	flags    []*domain.Flag
	byName   map[string]*domain.Flag
	refs     map[string]*trigger.RefCond
	named    []*trigger.RefCond
	groups   [][]*domain.Flag
	bindings []*schema.Binding
	report   schema.Report
}

// New creates a new table builder.
func New() *Builder {
	return &Builder{
		byName: make(map[string]*domain.Flag),
		refs:   make(map[string]*trigger.RefCond),
	}
}

// Flag declares a flag. Declaring the same name twice is reported by Build;
// the second call returns the first flag.
func (b *Builder) Flag(name string) *domain.Flag {
	if f, ok := b.byName[name]; ok {
		b.report.Add(schema.IssueDuplicateFlag, name, "declared more than once")
		return f
	}
	f := domain.NewFlag(name)
	b.byName[name] = f
	b.flags = append(b.flags, f)
	return f
}

// Define names a condition. Earlier Ref calls to the same name resolve to it.
func (b *Builder) Define(name string, c trigger.Condition) *trigger.RefCond {
	r := b.Ref(name)
	if r.Target() != nil {
		b.report.Add(schema.IssueDuplicateRef, name, "defined more than once")
		return r
	}
	if c == nil {
		c = trigger.False
	}
	r.Resolve(c)
	b.named = append(b.named, r)
	return r
}

// Ref returns the named condition, creating a forward reference if it has
// not been defined yet.
func (b *Builder) Ref(name string) *trigger.RefCond {
	if r, ok := b.refs[name]; ok {
		return r
	}
	r := trigger.Ref(name)
	b.refs[name] = r
	return r
}

// Exclusive declares that at most one of flags may be true at the end of a tick.
func (b *Builder) Exclusive(flags ...*domain.Flag) {
	b.groups = append(b.groups, flags)
}

// On starts a binding over c.
func (b *Builder) On(c trigger.Condition) *BindingBuilder {
	return &BindingBuilder{builder: b, cond: c}
}

// Build resolves references, validates the table and returns it.
// The table is returned even when invalid so tooling can still render it;
// callers must not run a table whose error is non-nil.
func (b *Builder) Build() (*schema.Table, error) {
	table := &schema.Table{
		Flags:    append([]*domain.Flag(nil), b.flags...),
		Named:    append([]*trigger.RefCond(nil), b.named...),
		Groups:   append([][]*domain.Flag(nil), b.groups...),
		Bindings: append([]*schema.Binding(nil), b.bindings...),
	}

	report := &schema.Report{}
	report.Merge(&b.report)
	for name, r := range b.refs {
		if r.Target() == nil {
			report.Add(schema.IssueUnknownRef, name, "referenced but never defined")
		}
	}
	report.Merge(validator.Validate(table))

	return table, report.Err()
}

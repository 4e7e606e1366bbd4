package dsl

import (
	"github.com/aretw0/cadence/pkg/action"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/schema"
	"github.com/aretw0/cadence/pkg/trigger"
)

// BindingBuilder provides a fluent API for attaching actions to a condition.
// Every edge method appends one binding to the table.
type BindingBuilder struct {
	builder *Builder
	cond    trigger.Condition
	name    string
}

// Named labels the bindings created afterwards.
func (bb *BindingBuilder) Named(name string) *BindingBuilder {
	bb.name = name
	return bb
}

// Rising runs actions when the condition turns true.
func (bb *BindingBuilder) Rising(actions ...action.Action) *BindingBuilder {
	return bb.add(domain.Rising, actions)
}

// Falling runs actions when the condition turns false.
func (bb *BindingBuilder) Falling(actions ...action.Action) *BindingBuilder {
	return bb.add(domain.Falling, actions)
}

// Change runs actions on every transition.
func (bb *BindingBuilder) Change(actions ...action.Action) *BindingBuilder {
	return bb.add(domain.AnyChange, actions)
}

// WhileTrue starts actions when the condition turns true and stops the
// stoppable ones when it turns false.
func (bb *BindingBuilder) WhileTrue(actions ...action.Action) *BindingBuilder {
	return bb.add(domain.WhileTrue, actions)
}

func (bb *BindingBuilder) add(edge domain.Edge, actions []action.Action) *BindingBuilder {
	b := bb.builder
	b.bindings = append(b.bindings, &schema.Binding{
		Index:   len(b.bindings),
		Name:    bb.name,
		Cond:    bb.cond,
		Edge:    edge,
		Actions: actions,
	})
	return bb
}

package dsl

import (
	"testing"

	"github.com/aretw0/cadence/pkg/action"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/schema"
	"github.com/aretw0/cadence/pkg/trigger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_OrderAndRefs(t *testing.T) {
	b := New()
	coral := b.Flag("coral")
	l4 := b.Flag("l4")
	prep := b.Flag("actionPrep")

	// Forward reference resolved by a later Define.
	staged := b.Ref("staged")
	b.On(staged).Named("prep on staged").Rising(action.SetTrue(prep))
	b.Define("staged", trigger.And(trigger.Flag(coral), trigger.Flag(l4)))
	b.On(trigger.Flag(prep)).Falling(action.SetFalse(coral)).Rising(action.SetFalse(l4))

	table, err := b.Build()
	require.NoError(t, err)

	require.Len(t, table.Bindings, 3)
	assert.Equal(t, "prep on staged", table.Bindings[0].Label())
	assert.Equal(t, domain.Falling, table.Bindings[1].Edge)
	assert.Equal(t, domain.Rising, table.Bindings[2].Edge)
	for i, bind := range table.Bindings {
		assert.Equal(t, i, bind.Index)
	}

	require.Len(t, table.Named, 1)
	assert.Same(t, staged, table.Named[0])
	assert.Equal(t, "(coral && l4)", staged.Target().String())

	f, ok := table.Flag("l4")
	assert.True(t, ok)
	assert.Same(t, l4, f)
}

func TestBuilder_Defects(t *testing.T) {
	b := New()
	a := b.Flag("a")
	again := b.Flag("a")
	assert.Same(t, a, again)

	b.Define("x", trigger.True)
	b.Define("x", trigger.False)
	b.On(b.Ref("missing")).Rising(action.SetTrue(a))

	_, err := b.Build()
	require.Error(t, err)

	var got []schema.IssueKind
	for _, issue := range schema.Issues(err) {
		got = append(got, issue.Kind)
	}
	assert.ElementsMatch(t, []schema.IssueKind{
		schema.IssueDuplicateFlag,
		schema.IssueDuplicateRef,
		schema.IssueUnknownRef,
	}, got)
}

func TestBuilder_ValidatesExclusiveGroups(t *testing.T) {
	b := New()
	prep := b.Flag("actionPrep")
	act := b.Flag("action")
	b.Exclusive(prep, act)
	b.On(trigger.True).Rising(action.SetTrue(prep))

	table, err := b.Build()
	require.Error(t, err)
	assert.NotNil(t, table, "invalid tables are still returned for rendering")
	issues := schema.Issues(err)
	require.Len(t, issues, 1)
	assert.Equal(t, schema.IssueExclusiveGroup, issues[0].Kind)
}

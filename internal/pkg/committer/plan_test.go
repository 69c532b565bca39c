package committer

import (
	"context"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitPlan(t *testing.T) {
	plan := NewPlan()
	assert.True(t, plan.IsEmpty())
	assert.Equal(t, 0, plan.Count())

	plan.Add(nil)
	assert.True(t, plan.IsEmpty())

	quote := spanner.Insert("price_quotes", []string{"quote_id"}, []interface{}{"q-1"})
	plan.Add(quote)
	plan.AddMultiple([]*spanner.Mutation{
		spanner.Insert("outbox_events", []string{"event_id"}, []interface{}{"e-1"}),
		nil,
		spanner.Insert("outbox_events", []string{"event_id"}, []interface{}{"e-2"}),
	})

	assert.False(t, plan.IsEmpty())
	assert.Equal(t, 3, plan.Count())
	require.Len(t, plan.Mutations(), 3)
	assert.Same(t, quote, plan.Mutations()[0])
}

func TestCommitter_ApplyEmptyPlan(t *testing.T) {
	// An empty plan never reaches the client.
	c := NewCommitter(nil)
	assert.NoError(t, c.Apply(context.Background(), NewPlan()))
}

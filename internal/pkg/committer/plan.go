// Package committer collects Spanner mutations into a plan and applies them
// in one transaction.
//
// Repositories never write directly. They return mutations, a usecase adds
// them to a CommitPlan together with the outbox rows for the same change,
// and the Committer applies the whole plan atomically:
//
//	plan := committer.NewPlan()
//	plan.Add(quoteRepo.InsertMut(quote))
//	for _, event := range quote.DomainEvents() {
//	    mut, err := outboxRepo.InsertMut(ctx, enrich(event))
//	    if err != nil {
//	        return err
//	    }
//	    plan.Add(mut)
//	}
//	return committer.Apply(ctx, plan)
//
// Either every mutation lands or none does.
package committer

import (
	"context"

	"cloud.google.com/go/spanner"
	"github.com/cockroachdb/errors"
)

// CommitPlan is a typed wrapper around Spanner mutations.
type CommitPlan struct {
	mutations []*spanner.Mutation
}

// NewPlan creates a new empty CommitPlan.
func NewPlan() *CommitPlan {
	return &CommitPlan{
		mutations: make([]*spanner.Mutation, 0),
	}
}

// Add adds a mutation to the plan.
// Nil mutations are silently ignored for convenience.
func (cp *CommitPlan) Add(mut *spanner.Mutation) {
	if mut != nil {
		cp.mutations = append(cp.mutations, mut)
	}
}

// AddMultiple adds multiple mutations to the plan.
func (cp *CommitPlan) AddMultiple(muts []*spanner.Mutation) {
	for _, mut := range muts {
		cp.Add(mut)
	}
}

// Mutations returns all collected mutations.
func (cp *CommitPlan) Mutations() []*spanner.Mutation {
	return cp.mutations
}

// IsEmpty returns true if the plan has no mutations.
func (cp *CommitPlan) IsEmpty() bool {
	return len(cp.mutations) == 0
}

// Count returns the number of mutations in the plan.
func (cp *CommitPlan) Count() int {
	return len(cp.mutations)
}

// Committer provides transaction execution for CommitPlans.
type Committer struct {
	client *spanner.Client
}

// NewCommitter creates a new Committer.
func NewCommitter(client *spanner.Client) *Committer {
	return &Committer{client: client}
}

// Apply executes the CommitPlan atomically within a Spanner transaction.
func (c *Committer) Apply(ctx context.Context, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil
	}

	if _, err := c.client.Apply(ctx, plan.Mutations()); err != nil {
		return errors.Wrapf(err, "failed to apply commit plan of %d mutations", plan.Count())
	}
	return nil
}

// ApplyWithReadWriteTransaction runs fn in a read-write transaction and
// buffers the plan's mutations after it returns successfully. Use it when
// mutations depend on reads made inside the same transaction.
func (c *Committer) ApplyWithReadWriteTransaction(
	ctx context.Context,
	plan *CommitPlan,
	fn func(context.Context, *spanner.ReadWriteTransaction) error,
) error {
	_, err := c.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		if fn != nil {
			if err := fn(ctx, txn); err != nil {
				return err
			}
		}
		if plan.IsEmpty() {
			return nil
		}
		return txn.BufferWrite(plan.Mutations())
	})
	if err != nil {
		return errors.Wrap(err, "transaction failed")
	}
	return nil
}

// Package committer collects Spanner mutations into a plan and applies them
// atomically.
//
// Callers build mutations through the m_* model facades, add them to a
// CommitPlan, and hand the plan to a Committer:
//
//	plan := committer.NewPlan()
//	plan.Add(m_product.NewModel().DeleteAllMut())
//	plan.AddMultiple(upserts)
//	return committer.NewCommitter(client).Apply(ctx, plan)
//
// Plans larger than a single Spanner commit allows can be split with
// ApplyInBatches, which gives up atomicity across batches.
package committer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
)

// MaxBatchMutations is a conservative per-commit mutation count. Spanner
// limits commits by mutated cells, so rows with many columns need fewer.
const MaxBatchMutations = 2000

// ErrInvalidBatchSize is returned for a non-positive batch size.
var ErrInvalidBatchSize = errors.New("batch size must be positive")

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

// Batches splits the plan into consecutive chunks of at most size
// mutations, preserving order.
func (cp *CommitPlan) Batches(size int) ([][]*spanner.Mutation, error) {
	if size <= 0 {
		return nil, ErrInvalidBatchSize
	}
	var out [][]*spanner.Mutation
	for start := 0; start < len(cp.mutations); start += size {
		end := start + size
		if end > len(cp.mutations) {
			end = len(cp.mutations)
		}
		out = append(out, cp.mutations[start:end])
	}
	return out, nil
}

// Applier applies mutations in one commit. *spanner.Client satisfies it.
type Applier interface {
	Apply(ctx context.Context, ms []*spanner.Mutation, opts ...spanner.ApplyOption) (time.Time, error)
}

// Committer provides transaction execution for CommitPlans.
type Committer struct {
	client Applier
}

// NewCommitter creates a new Committer.
func NewCommitter(client Applier) *Committer {
	return &Committer{client: client}
}

// Apply executes the CommitPlan atomically within a Spanner transaction.
func (c *Committer) Apply(ctx context.Context, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil // Nothing to commit
	}

	_, err := c.client.Apply(ctx, plan.Mutations())
	if err != nil {
		return fmt.Errorf("failed to apply commit plan: %w", err)
	}

	return nil
}

// ApplyInBatches commits the plan in chunks of at most size mutations. It
// stops at the first failed batch and reports how many mutations were
// committed before it.
func (c *Committer) ApplyInBatches(ctx context.Context, plan *CommitPlan, size int) (int, error) {
	batches, err := plan.Batches(size)
	if err != nil {
		return 0, err
	}

	committed := 0
	for i, batch := range batches {
		if _, err := c.client.Apply(ctx, batch); err != nil {
			return committed, fmt.Errorf("failed to apply batch %d/%d: %w", i+1, len(batches), err)
		}
		committed += len(batch)
	}
	return committed, nil
}

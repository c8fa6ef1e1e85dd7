// Package committer applies Spanner mutations collected by use cases.
//
// Repositories never write on their own: they return *spanner.Mutation values,
// a use case gathers them (together with outbox and price history rows) into a
// CommitPlan, and the Committer applies the plan in one transaction. Either
// every derived pricing field of a product is written, or none is.
//
// Operations that must derive prices from the row as it exists at write time
// use ReadWrite: the callback re-reads the product through the transaction's
// Reader and returns the plan that is buffered into that same transaction.
//
//	err := tx.ReadWrite(ctx, func(ctx context.Context, rd committer.Reader) (*committer.CommitPlan, error) {
//	    product, err := repo.Load(ctx, rd, id)
//	    if err != nil {
//	        return nil, err
//	    }
//	    if err := product.SetDiscount(d); err != nil {
//	        return nil, err
//	    }
//	    plan := committer.NewPlan()
//	    plan.Add(repo.UpdateMut(product))
//	    return plan, nil
//	})
package committer

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
)

// CommitPlan collects mutations to be applied atomically.
type CommitPlan struct {
	mutations []*spanner.Mutation
}

// NewPlan creates a new empty CommitPlan.
func NewPlan() *CommitPlan {
	return &CommitPlan{
		mutations: make([]*spanner.Mutation, 0),
	}
}

// Add adds a mutation to the plan. Nil mutations are ignored.
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

func (cp *CommitPlan) Mutations() []*spanner.Mutation {
	return cp.mutations
}

func (cp *CommitPlan) IsEmpty() bool {
	return cp == nil || len(cp.mutations) == 0
}

func (cp *CommitPlan) Count() int {
	if cp == nil {
		return 0
	}
	return len(cp.mutations)
}

// Reader is the read side of a transaction. *spanner.ReadWriteTransaction
// and *spanner.ReadOnlyTransaction both satisfy it.
type Reader interface {
	ReadRow(ctx context.Context, table string, key spanner.Key, columns []string) (*spanner.Row, error)
}

// TxFunc reads what it needs through rd and returns the mutations to buffer.
// A nil or empty plan commits nothing.
type TxFunc func(ctx context.Context, rd Reader) (*CommitPlan, error)

// Transactor is what use cases depend on, so tests can substitute an in-memory fake.
type Transactor interface {
	Apply(ctx context.Context, plan *CommitPlan) error
	ReadWrite(ctx context.Context, fn TxFunc) error
}

// Committer is the Spanner-backed Transactor.
type Committer struct {
	client *spanner.Client
}

// NewCommitter creates a new Committer.
func NewCommitter(client *spanner.Client) *Committer {
	return &Committer{client: client}
}

// Apply writes the plan's mutations atomically without reading first.
func (c *Committer) Apply(ctx context.Context, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil
	}

	if _, err := c.client.Apply(ctx, plan.Mutations()); err != nil {
		return fmt.Errorf("failed to apply commit plan: %w", err)
	}
	return nil
}

// ReadWrite runs fn inside a read-write transaction and buffers the returned
// plan into it. Spanner may retry fn on abort, so fn must not have side
// effects outside the plan.
func (c *Committer) ReadWrite(ctx context.Context, fn TxFunc) error {
	_, err := c.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		plan, err := fn(ctx, txn)
		if err != nil {
			return err
		}
		if plan.IsEmpty() {
			return nil
		}
		return txn.BufferWrite(plan.Mutations())
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

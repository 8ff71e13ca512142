// Package ledger is the transaction service: create, list, update, and delete
// income/expense records on top of the record store. Edits and deletes work by
// loading the whole table, mutating in memory, and rewriting it, because the
// store has no per-record addressability beyond the id.
package ledger

import (
	"context"
	"log/slog"

	"tally/internal/core"
	"tally/internal/event"
	"tally/internal/store"

	"github.com/google/uuid"
)

type Service struct {
	store  store.Store
	events *event.Publisher
}

// NewService wires the record store and an optional event publisher. A nil
// publisher disables change events.
func NewService(st store.Store, events *event.Publisher) *Service {
	return &Service{store: st, events: events}
}

// Patch carries field updates for an existing transaction. Nil fields keep
// their current value; id, owner, and type are never patchable.
type Patch struct {
	Date        *string
	Category    *string
	Amount      *string
	Description *string
}

// Create validates and appends a new transaction, returning its fresh id.
func (s *Service) Create(ctx context.Context, owner string, typ core.TxType, date, category, amount, description string) (string, error) {
	parsed, err := core.ParseAmount(amount)
	if err != nil {
		return "", err
	}
	tx := core.Transaction{
		ID:          uuid.NewString(),
		Owner:       owner,
		Type:        typ,
		Date:        date,
		Category:    category,
		Amount:      parsed,
		Description: description,
	}
	if err := tx.Validate(); err != nil {
		return "", err
	}
	if err := s.store.AppendOne(store.Transactions, store.EncodeTransaction(tx)); err != nil {
		return "", err
	}
	s.publish(ctx, event.TransactionCreated, tx.ID, owner)
	return tx.ID, nil
}

// ListFor returns every transaction belonging to owner, in stored order.
// Callers sort; typically by date descending.
func (s *Service) ListFor(owner string) ([]core.Transaction, error) {
	all, err := s.ListAll()
	if err != nil {
		return nil, err
	}
	var out []core.Transaction
	for _, tx := range all {
		if tx.Owner == owner {
			out = append(out, tx)
		}
	}
	return out, nil
}

// ListAll returns every transaction regardless of owner.
func (s *Service) ListAll() ([]core.Transaction, error) {
	recs, err := s.store.LoadAll(store.Transactions)
	if err != nil {
		return nil, err
	}
	txs := make([]core.Transaction, 0, len(recs))
	for _, rec := range recs {
		tx, err := store.DecodeTransaction(rec)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// Get returns the transaction matching both id and owner, or core.ErrNotFound.
// A transaction owned by someone else is reported the same as a missing one.
func (s *Service) Get(id, owner string) (core.Transaction, error) {
	all, err := s.ListAll()
	if err != nil {
		return core.Transaction{}, err
	}
	for _, tx := range all {
		if tx.ID == id && tx.Owner == owner {
			return tx, nil
		}
	}
	return core.Transaction{}, core.ErrNotFound
}

// Update patches the transaction matching both id and owner and rewrites the
// full table. Fails with core.ErrNotFound when no record matches.
func (s *Service) Update(ctx context.Context, id, owner string, patch Patch) error {
	all, err := s.ListAll()
	if err != nil {
		return err
	}
	target := -1
	for i, tx := range all {
		if tx.ID == id && tx.Owner == owner {
			target = i
			break
		}
	}
	if target < 0 {
		return core.ErrNotFound
	}

	tx := all[target]
	if patch.Date != nil {
		tx.Date = *patch.Date
	}
	if patch.Category != nil {
		tx.Category = *patch.Category
	}
	if patch.Amount != nil {
		parsed, err := core.ParseAmount(*patch.Amount)
		if err != nil {
			return err
		}
		tx.Amount = parsed
	}
	if patch.Description != nil {
		tx.Description = *patch.Description
	}
	if err := tx.Validate(); err != nil {
		return err
	}
	all[target] = tx

	if err := s.rewrite(all); err != nil {
		return err
	}
	s.publish(ctx, event.TransactionUpdated, id, owner)
	return nil
}

// Delete removes the transaction matching both id and owner. A missing or
// foreign-owned id is a no-op, not an error; the table is rewritten either
// way, matching the store's load-mutate-rewrite contract.
func (s *Service) Delete(ctx context.Context, id, owner string) error {
	all, err := s.ListAll()
	if err != nil {
		return err
	}
	kept := all[:0]
	removed := false
	for _, tx := range all {
		if tx.ID == id && tx.Owner == owner {
			removed = true
			continue
		}
		kept = append(kept, tx)
	}
	if err := s.rewrite(kept); err != nil {
		return err
	}
	if removed {
		s.publish(ctx, event.TransactionDeleted, id, owner)
	}
	return nil
}

func (s *Service) rewrite(txs []core.Transaction) error {
	recs := make([]store.Record, len(txs))
	for i, tx := range txs {
		recs[i] = store.EncodeTransaction(tx)
	}
	return s.store.RewriteAll(store.Transactions, recs)
}

// publish sends a change event and logs failures without failing the request;
// the record is already saved.
func (s *Service) publish(ctx context.Context, kind, id, owner string) {
	if err := s.events.Publish(ctx, kind, id, owner); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"event", kind, "id", id, "error", err)
	}
}

package testutil

import (
	"context"
	"sync"

	"procurify-api/store"
)

// InMemoryTransactor implements store.Transactor and store.ProcurementTransactor
// over the in-memory stores. Transactions are serialized; when fn fails the
// stores it was handed are rolled back to their state before the call.
type InMemoryTransactor struct {
	mu           sync.Mutex
	Submissions  *InMemorySubmissionStore
	Procurements *InMemoryProcurementStore
	History      *InMemoryHistoryStore
	Commits      int
	Rollbacks    int
}

func NewInMemoryTransactor(subs *InMemorySubmissionStore, procs *InMemoryProcurementStore, history *InMemoryHistoryStore) *InMemoryTransactor {
	return &InMemoryTransactor{Submissions: subs, Procurements: procs, History: history}
}

func (t *InMemoryTransactor) WithinTx(_ context.Context, fn func(subs store.SubmissionRepository, ledger store.HistoryLedger) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	rollbackSubs := t.Submissions.checkpoint()
	rollbackHistory := t.History.checkpoint()

	if err := fn(t.Submissions, t.History); err != nil {
		rollbackSubs()
		rollbackHistory()
		t.Rollbacks++
		return err
	}
	t.Commits++
	return nil
}

func (t *InMemoryTransactor) WithinProcurementTx(_ context.Context, fn func(procs store.ProcurementRepository, ledger store.HistoryLedger) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	rollbackProcs := t.Procurements.checkpoint()
	rollbackHistory := t.History.checkpoint()

	if err := fn(t.Procurements, t.History); err != nil {
		rollbackProcs()
		rollbackHistory()
		t.Rollbacks++
		return err
	}
	t.Commits++
	return nil
}

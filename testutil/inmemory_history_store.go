package testutil

import (
	"context"

	"procurify-api/models"
	"procurify-api/store"
)

// InMemoryHistoryStore implements store.HistoryLedger.
type InMemoryHistoryStore struct {
	*InMemoryStore[models.StatusHistory]
}

func NewInMemoryHistoryStore() *InMemoryHistoryStore {
	return &InMemoryHistoryStore{InMemoryStore: NewInMemoryStore[models.StatusHistory]()}
}

func (s *InMemoryHistoryStore) Append(ctx context.Context, entry *models.StatusHistory) error {
	if err := s.fault("Append"); err != nil {
		return err
	}
	if entry.ID == "" {
		entry.ID = store.NewID()
	}
	return s.InMemoryStore.Create(ctx, entry.ID, *entry)
}

func (s *InMemoryHistoryStore) ListFor(_ context.Context, entityType models.EntityType, entityID string) ([]models.StatusHistory, error) {
	if err := s.fault("ListFor"); err != nil {
		return nil, err
	}
	return s.InMemoryStore.List(func(e models.StatusHistory) bool {
		return e.EntityType == entityType && e.EntityID == entityID
	}, func(a, b models.StatusHistory) bool {
		return a.CreatedAt.Before(b.CreatedAt)
	}), nil
}

package store

import (
	"context"

	ierr "procurify-api/errors"
	"procurify-api/models"

	"gorm.io/gorm"
)

// HistoryStore is the gorm HistoryLedger. It only ever inserts.
type HistoryStore struct {
	db *gorm.DB
}

func NewHistoryStore(db *gorm.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

func (s *HistoryStore) Append(ctx context.Context, entry *models.StatusHistory) error {
	if entry.ID == "" {
		entry.ID = NewID()
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return ierr.Database(err, "append status history")
	}
	return nil
}

func (s *HistoryStore) ListFor(ctx context.Context, entityType models.EntityType, entityID string) ([]models.StatusHistory, error) {
	entries := make([]models.StatusHistory, 0)
	if err := s.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, ierr.Database(err, "load status history")
	}
	return entries, nil
}

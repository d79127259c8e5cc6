package store

import (
	"context"

	ierr "procurify-api/errors"
	"procurify-api/models"

	"gorm.io/gorm"
)

type ActivityStore struct {
	db *gorm.DB
}

func NewActivityStore(db *gorm.DB) *ActivityStore {
	return &ActivityStore{db: db}
}

func (s *ActivityStore) Create(ctx context.Context, entry *models.ActivityLog) error {
	if entry.ID == "" {
		entry.ID = NewID()
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return ierr.Database(err, "record activity")
	}
	return nil
}

func (s *ActivityStore) List(ctx context.Context, filter ActivityFilter) ([]models.ActivityLog, int64, error) {
	limit, offset := NormalizePage(filter.Limit, filter.Offset)

	q := s.db.WithContext(ctx).Model(&models.ActivityLog{})
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.EntityType != "" {
		q = q.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		q = q.Where("entity_id = ?", filter.EntityID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, ierr.Database(err, "count activity logs")
	}

	var items []models.ActivityLog
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, 0, ierr.Database(err, "list activity logs")
	}
	return items, total, nil
}

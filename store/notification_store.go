package store

import (
	"context"

	ierr "procurify-api/errors"
	"procurify-api/models"

	"gorm.io/gorm"
)

type NotificationStore struct {
	db *gorm.DB
}

func NewNotificationStore(db *gorm.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

func (s *NotificationStore) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = NewID()
	}
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return ierr.Database(err, "create notification")
	}
	return nil
}

func (s *NotificationStore) ListByUser(ctx context.Context, userID string, filter NotificationFilter) ([]models.Notification, error) {
	limit, offset := NormalizePage(filter.Limit, filter.Offset)

	q := s.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)
	if filter.UnreadOnly {
		q = q.Where("`read` = ?", false)
	}

	items := make([]models.Notification, 0)
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, ierr.Database(err, "list notifications")
	}
	return items, nil
}

func (s *NotificationStore) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND `read` = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, ierr.Database(err, "count notifications")
	}
	return count, nil
}

// MarkRead marks one notification read. Only its recipient may do so; any other
// caller gets not found.
func (s *NotificationStore) MarkRead(ctx context.Context, id, userID string) error {
	var n models.Notification
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&n).Error; err != nil {
		if isRecordNotFound(err) {
			return ierr.NotFound("notification", id)
		}
		return ierr.Database(err, "load notification")
	}
	if n.Read {
		return nil
	}
	if err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("read", true).Error; err != nil {
		return ierr.Database(err, "mark notification read")
	}
	return nil
}

func (s *NotificationStore) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND `read` = ?", userID, false).
		Update("read", true)
	if res.Error != nil {
		return 0, ierr.Database(res.Error, "mark notifications read")
	}
	return res.RowsAffected, nil
}

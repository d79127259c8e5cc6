package services

import (
	"context"

	ierr "procurify-api/errors"
	"procurify-api/models"
	"procurify-api/store"
)

// NotificationService is the recipient's view of their notifications.
type NotificationService struct {
	notifications store.NotificationRepository
}

func NewNotificationService(notifications store.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

func (s *NotificationService) List(ctx context.Context, userID string, filter store.NotificationFilter) ([]models.Notification, error) {
	return s.notifications.ListByUser(ctx, userID, filter)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.notifications.CountUnread(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	if id == "" {
		return ierr.Validation("Notification id is required")
	}
	return s.notifications.MarkRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.notifications.MarkAllRead(ctx, userID)
}

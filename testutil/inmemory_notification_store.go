package testutil

import (
	"context"

	ierr "procurify-api/errors"
	"procurify-api/models"
	"procurify-api/store"
)

// InMemoryNotificationStore implements store.NotificationRepository.
type InMemoryNotificationStore struct {
	*InMemoryStore[models.Notification]
}

func NewInMemoryNotificationStore() *InMemoryNotificationStore {
	return &InMemoryNotificationStore{InMemoryStore: NewInMemoryStore[models.Notification]()}
}

func (s *InMemoryNotificationStore) Create(ctx context.Context, n *models.Notification) error {
	if err := s.fault("Create"); err != nil {
		return err
	}
	if n.ID == "" {
		n.ID = store.NewID()
	}
	return s.InMemoryStore.Create(ctx, n.ID, *n)
}

func (s *InMemoryNotificationStore) ListByUser(_ context.Context, userID string, filter store.NotificationFilter) ([]models.Notification, error) {
	if err := s.fault("ListByUser"); err != nil {
		return nil, err
	}
	limit, offset := store.NormalizePage(filter.Limit, filter.Offset)
	items := s.InMemoryStore.List(func(n models.Notification) bool {
		return n.UserID == userID && (!filter.UnreadOnly || !n.Read)
	}, func(a, b models.Notification) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
	return page(items, limit, offset), nil
}

func (s *InMemoryNotificationStore) CountUnread(_ context.Context, userID string) (int64, error) {
	if err := s.fault("CountUnread"); err != nil {
		return 0, err
	}
	items := s.InMemoryStore.List(func(n models.Notification) bool {
		return n.UserID == userID && !n.Read
	}, nil)
	return int64(len(items)), nil
}

func (s *InMemoryNotificationStore) MarkRead(ctx context.Context, id, userID string) error {
	if err := s.fault("MarkRead"); err != nil {
		return err
	}
	n, ok := s.InMemoryStore.Get(ctx, id)
	if !ok || n.UserID != userID {
		return ierr.NotFound("notification", id)
	}
	s.InMemoryStore.Update(ctx, id, func(n models.Notification) models.Notification {
		n.Read = true
		return n
	})
	return nil
}

func (s *InMemoryNotificationStore) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	if err := s.fault("MarkAllRead"); err != nil {
		return 0, err
	}
	unread := s.InMemoryStore.List(func(n models.Notification) bool {
		return n.UserID == userID && !n.Read
	}, nil)
	for _, n := range unread {
		s.InMemoryStore.Update(ctx, n.ID, func(n models.Notification) models.Notification {
			n.Read = true
			return n
		})
	}
	return int64(len(unread)), nil
}

// ForUser returns every notification of userID in insertion order.
func (s *InMemoryNotificationStore) ForUser(userID string) []models.Notification {
	return s.InMemoryStore.List(func(n models.Notification) bool {
		return n.UserID == userID
	}, nil)
}

package testutil

import (
	"context"

	"procurify-api/models"
	"procurify-api/store"
)

// InMemoryActivityStore implements store.ActivityRepository.
type InMemoryActivityStore struct {
	*InMemoryStore[models.ActivityLog]
}

func NewInMemoryActivityStore() *InMemoryActivityStore {
	return &InMemoryActivityStore{InMemoryStore: NewInMemoryStore[models.ActivityLog]()}
}

func (s *InMemoryActivityStore) Create(ctx context.Context, entry *models.ActivityLog) error {
	if err := s.fault("Create"); err != nil {
		return err
	}
	if entry.ID == "" {
		entry.ID = store.NewID()
	}
	return s.InMemoryStore.Create(ctx, entry.ID, *entry)
}

func (s *InMemoryActivityStore) List(_ context.Context, filter store.ActivityFilter) ([]models.ActivityLog, int64, error) {
	if err := s.fault("List"); err != nil {
		return nil, 0, err
	}
	limit, offset := store.NormalizePage(filter.Limit, filter.Offset)
	items := s.InMemoryStore.List(func(a models.ActivityLog) bool {
		if filter.UserID != "" && (a.UserID == nil || *a.UserID != filter.UserID) {
			return false
		}
		if filter.EntityType != "" && (a.EntityType == nil || *a.EntityType != filter.EntityType) {
			return false
		}
		if filter.EntityID != "" && (a.EntityID == nil || *a.EntityID != filter.EntityID) {
			return false
		}
		return true
	}, nil)
	return page(items, limit, offset), int64(len(items)), nil
}

// Actions lists the recorded action names in insertion order.
func (s *InMemoryActivityStore) Actions() []string {
	entries := s.InMemoryStore.List(nil, nil)
	actions := make([]string, 0, len(entries))
	for _, e := range entries {
		actions = append(actions, e.Action)
	}
	return actions
}

// InMemoryRatingStore implements store.RatingRepository.
type InMemoryRatingStore struct {
	*InMemoryStore[models.VendorRating]
}

func NewInMemoryRatingStore() *InMemoryRatingStore {
	return &InMemoryRatingStore{InMemoryStore: NewInMemoryStore[models.VendorRating]()}
}

func (s *InMemoryRatingStore) Create(ctx context.Context, rating *models.VendorRating) error {
	if err := s.fault("Create"); err != nil {
		return err
	}
	if rating.ID == "" {
		rating.ID = store.NewID()
	}
	return s.InMemoryStore.Create(ctx, rating.ID, *rating)
}

func (s *InMemoryRatingStore) Summary(_ context.Context, vendorID string) (*models.RatingSummary, error) {
	if err := s.fault("Summary"); err != nil {
		return nil, err
	}
	ratings := s.InMemoryStore.List(func(r models.VendorRating) bool {
		return r.VendorID == vendorID
	}, nil)
	summary := &models.RatingSummary{VendorID: vendorID, Count: int64(len(ratings))}
	if len(ratings) == 0 {
		return summary, nil
	}
	total := 0
	for _, r := range ratings {
		total += r.Stars
	}
	summary.Average = float64(total) / float64(len(ratings))
	return summary, nil
}

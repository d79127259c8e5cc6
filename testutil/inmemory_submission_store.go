package testutil

import (
	"context"

	ierr "procurify-api/errors"
	"procurify-api/models"
	"procurify-api/store"
)

// InMemorySubmissionStore implements store.SubmissionRepository. Items live
// in their own table like submission_items.
type InMemorySubmissionStore struct {
	*InMemoryStore[models.Submission]
	Items *InMemoryStore[models.SubmissionItem]
}

func NewInMemorySubmissionStore() *InMemorySubmissionStore {
	return &InMemorySubmissionStore{
		InMemoryStore: NewInMemoryStore[models.Submission](),
		Items:         NewInMemoryStore[models.SubmissionItem](),
	}
}

func (s *InMemorySubmissionStore) Get(ctx context.Context, id string) (*models.Submission, error) {
	if err := s.fault("Get"); err != nil {
		return nil, err
	}
	sub, ok := s.InMemoryStore.Get(ctx, id)
	if !ok {
		return nil, ierr.NotFound("submission", id)
	}
	return &sub, nil
}

func (s *InMemorySubmissionStore) SetStatus(ctx context.Context, id string, status models.SubmissionStatus) error {
	if err := s.fault("SetStatus"); err != nil {
		return err
	}
	// Like an UPDATE, a missing row is not an error.
	s.InMemoryStore.Update(ctx, id, func(sub models.Submission) models.Submission {
		sub.Status = status
		return sub
	})
	return nil
}

func (s *InMemorySubmissionStore) Create(ctx context.Context, sub *models.Submission) error {
	if err := s.fault("Create"); err != nil {
		return err
	}
	stored := *sub
	stored.Items = nil
	return s.InMemoryStore.Create(ctx, sub.ID, stored)
}

func (s *InMemorySubmissionStore) CreateItems(ctx context.Context, items []models.SubmissionItem) error {
	if err := s.fault("CreateItems"); err != nil {
		return err
	}
	for _, item := range items {
		if err := s.Items.Create(ctx, item.ID, item); err != nil {
			return err
		}
	}
	return nil
}

func (s *InMemorySubmissionStore) ListItems(_ context.Context, submissionID string) ([]models.SubmissionItem, error) {
	if err := s.fault("ListItems"); err != nil {
		return nil, err
	}
	return s.Items.List(func(item models.SubmissionItem) bool {
		return item.SubmissionID == submissionID
	}, nil), nil
}

func (s *InMemorySubmissionStore) List(_ context.Context, filter store.SubmissionFilter) ([]models.Submission, int64, error) {
	if err := s.fault("List"); err != nil {
		return nil, 0, err
	}
	limit, offset := store.NormalizePage(filter.Limit, filter.Offset)
	items := s.InMemoryStore.List(func(sub models.Submission) bool {
		return (filter.UserID == "" || sub.UserID == filter.UserID) &&
			(filter.ProcurementID == "" || sub.ProcurementID == filter.ProcurementID) &&
			(filter.Status == "" || sub.Status == filter.Status)
	}, func(a, b models.Submission) bool {
		return a.SubmittedAt.After(b.SubmittedAt)
	})
	return page(items, limit, offset), int64(len(items)), nil
}

// Put stores sub as is, for test setup.
func (s *InMemorySubmissionStore) Put(sub models.Submission) {
	_ = s.InMemoryStore.Create(context.Background(), sub.ID, sub)
}

func (s *InMemorySubmissionStore) checkpoint() func() {
	rollbackSubs := s.InMemoryStore.checkpoint()
	rollbackItems := s.Items.checkpoint()
	return func() {
		rollbackSubs()
		rollbackItems()
	}
}

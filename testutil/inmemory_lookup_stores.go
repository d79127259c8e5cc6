package testutil

import (
	"context"
	"sort"
	"sync/atomic"

	ierr "procurify-api/errors"
	"procurify-api/models"
	"procurify-api/store"
)

// InMemoryProcurementStore implements store.ProcurementRepository and counts
// Get calls so cache behaviour can be asserted.
type InMemoryProcurementStore struct {
	*InMemoryStore[models.Procurement]
	Items *InMemoryStore[models.ProcurementItem]
	gets  atomic.Int64
}

func NewInMemoryProcurementStore() *InMemoryProcurementStore {
	return &InMemoryProcurementStore{
		InMemoryStore: NewInMemoryStore[models.Procurement](),
		Items:         NewInMemoryStore[models.ProcurementItem](),
	}
}

func (s *InMemoryProcurementStore) Get(ctx context.Context, id string) (*models.Procurement, error) {
	s.gets.Add(1)
	if err := s.fault("Get"); err != nil {
		return nil, err
	}
	p, ok := s.InMemoryStore.Get(ctx, id)
	if !ok {
		return nil, ierr.NotFound("procurement", id)
	}
	return &p, nil
}

func (s *InMemoryProcurementStore) List(_ context.Context, filter store.ProcurementFilter) ([]models.Procurement, int64, error) {
	if err := s.fault("List"); err != nil {
		return nil, 0, err
	}
	limit, offset := store.NormalizePage(filter.Limit, filter.Offset)
	items := s.InMemoryStore.List(func(p models.Procurement) bool {
		return filter.Status == "" || p.Status == filter.Status
	}, nil)
	return page(items, limit, offset), int64(len(items)), nil
}

func (s *InMemoryProcurementStore) Create(ctx context.Context, p *models.Procurement) error {
	if err := s.fault("Create"); err != nil {
		return err
	}
	stored := *p
	stored.Items = nil
	return s.InMemoryStore.Create(ctx, p.ID, stored)
}

func (s *InMemoryProcurementStore) Update(ctx context.Context, p *models.Procurement) error {
	if err := s.fault("Update"); err != nil {
		return err
	}
	s.InMemoryStore.Update(ctx, p.ID, func(cur models.Procurement) models.Procurement {
		cur.Title = p.Title
		cur.Description = p.Description
		cur.Budget = p.Budget
		cur.Currency = p.Currency
		cur.Deadline = p.Deadline
		cur.Location = p.Location
		cur.UpdatedAt = p.UpdatedAt
		return cur
	})
	return nil
}

func (s *InMemoryProcurementStore) SetStatus(ctx context.Context, id string, status models.ProcurementStatus) error {
	if err := s.fault("SetStatus"); err != nil {
		return err
	}
	s.InMemoryStore.Update(ctx, id, func(cur models.Procurement) models.Procurement {
		cur.Status = status
		return cur
	})
	return nil
}

func (s *InMemoryProcurementStore) CreateItems(ctx context.Context, items []models.ProcurementItem) error {
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

func (s *InMemoryProcurementStore) ListItems(_ context.Context, procurementID string) ([]models.ProcurementItem, error) {
	if err := s.fault("ListItems"); err != nil {
		return nil, err
	}
	return s.Items.List(func(item models.ProcurementItem) bool {
		return item.ProcurementID == procurementID
	}, nil), nil
}

func (s *InMemoryProcurementStore) Put(p models.Procurement, items ...models.ProcurementItem) {
	_ = s.InMemoryStore.Create(context.Background(), p.ID, p)
	for _, item := range items {
		item.ProcurementID = p.ID
		_ = s.Items.Create(context.Background(), item.ID, item)
	}
}

func (s *InMemoryProcurementStore) GetCalls() int64 {
	return s.gets.Load()
}

func (s *InMemoryProcurementStore) checkpoint() func() {
	rollbackProcs := s.InMemoryStore.checkpoint()
	rollbackItems := s.Items.checkpoint()
	return func() {
		rollbackProcs()
		rollbackItems()
	}
}

// InMemoryUserStore implements store.UserRepository.
type InMemoryUserStore struct {
	*InMemoryStore[models.User]
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{InMemoryStore: NewInMemoryStore[models.User]()}
}

func (s *InMemoryUserStore) Get(ctx context.Context, id string) (*models.User, error) {
	if err := s.fault("Get"); err != nil {
		return nil, err
	}
	u, ok := s.InMemoryStore.Get(ctx, id)
	if !ok {
		return nil, ierr.NotFound("user", id)
	}
	return &u, nil
}

func (s *InMemoryUserStore) ListIDsByRole(_ context.Context, role models.Role) ([]string, error) {
	if err := s.fault("ListIDsByRole"); err != nil {
		return nil, err
	}
	ids := make([]string, 0)
	for _, u := range s.InMemoryStore.List(func(u models.User) bool {
		return u.Role == role && u.DeletedAt == nil
	}, nil) {
		ids = append(ids, u.ID)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *InMemoryUserStore) Put(u models.User) {
	_ = s.InMemoryStore.Create(context.Background(), u.ID, u)
}

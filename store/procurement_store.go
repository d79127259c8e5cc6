package store

import (
	"context"
	"time"

	ierr "procurify-api/errors"
	"procurify-api/models"

	"gorm.io/gorm"
)

type ProcurementStore struct {
	db *gorm.DB
}

func NewProcurementStore(db *gorm.DB) *ProcurementStore {
	return &ProcurementStore{db: db}
}

func (s *ProcurementStore) Get(ctx context.Context, id string) (*models.Procurement, error) {
	var p models.Procurement
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, ierr.NotFound("procurement", id)
		}
		return nil, ierr.Database(err, "load procurement")
	}
	return &p, nil
}

func (s *ProcurementStore) List(ctx context.Context, filter ProcurementFilter) ([]models.Procurement, int64, error) {
	limit, offset := NormalizePage(filter.Limit, filter.Offset)

	q := s.db.WithContext(ctx).Model(&models.Procurement{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, ierr.Database(err, "count procurements")
	}

	var items []models.Procurement
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, 0, ierr.Database(err, "list procurements")
	}
	return items, total, nil
}

func (s *ProcurementStore) Create(ctx context.Context, p *models.Procurement) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		if isDuplicateKey(err) {
			return ierr.AlreadyExists("procurement", p.ID)
		}
		return ierr.Database(err, "create procurement")
	}
	return nil
}

func (s *ProcurementStore) Update(ctx context.Context, p *models.Procurement) error {
	if err := s.db.WithContext(ctx).
		Model(&models.Procurement{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"title":       p.Title,
			"description": p.Description,
			"budget":      p.Budget,
			"currency":    p.Currency,
			"deadline":    p.Deadline,
			"location":    p.Location,
			"updated_at":  p.UpdatedAt,
		}).Error; err != nil {
		return ierr.Database(err, "update procurement")
	}
	return nil
}

func (s *ProcurementStore) SetStatus(ctx context.Context, id string, status models.ProcurementStatus) error {
	if err := s.db.WithContext(ctx).
		Model(&models.Procurement{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error; err != nil {
		return ierr.Database(err, "update procurement status")
	}
	return nil
}

func (s *ProcurementStore) CreateItems(ctx context.Context, items []models.ProcurementItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&items).Error; err != nil {
		return ierr.Database(err, "create procurement items")
	}
	return nil
}

func (s *ProcurementStore) ListItems(ctx context.Context, procurementID string) ([]models.ProcurementItem, error) {
	items := make([]models.ProcurementItem, 0)
	if err := s.db.WithContext(ctx).
		Where("procurement_id = ?", procurementID).
		Order("created_at ASC, id ASC").
		Find(&items).Error; err != nil {
		return nil, ierr.Database(err, "load procurement items")
	}
	return items, nil
}

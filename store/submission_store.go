package store

import (
	"context"

	ierr "procurify-api/errors"
	"procurify-api/models"

	"gorm.io/gorm"
)

type SubmissionStore struct {
	db *gorm.DB
}

func NewSubmissionStore(db *gorm.DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

func (s *SubmissionStore) Get(ctx context.Context, id string) (*models.Submission, error) {
	var sub models.Submission
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&sub).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, ierr.NotFound("submission", id)
		}
		return nil, ierr.Database(err, "load submission")
	}
	return &sub, nil
}

// SetStatus overwrites the status column. There is no version check: the last
// write wins.
func (s *SubmissionStore) SetStatus(ctx context.Context, id string, status models.SubmissionStatus) error {
	if err := s.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return ierr.Database(err, "update submission status")
	}
	return nil
}

func (s *SubmissionStore) Create(ctx context.Context, sub *models.Submission) error {
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		if isDuplicateKey(err) {
			return ierr.AlreadyExists("submission", sub.ID)
		}
		return ierr.Database(err, "create submission")
	}
	return nil
}

func (s *SubmissionStore) CreateItems(ctx context.Context, items []models.SubmissionItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&items).Error; err != nil {
		return ierr.Database(err, "create submission items")
	}
	return nil
}

func (s *SubmissionStore) ListItems(ctx context.Context, submissionID string) ([]models.SubmissionItem, error) {
	items := make([]models.SubmissionItem, 0)
	if err := s.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("created_at ASC, id ASC").
		Find(&items).Error; err != nil {
		return nil, ierr.Database(err, "load submission items")
	}
	return items, nil
}

func (s *SubmissionStore) List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, int64, error) {
	limit, offset := NormalizePage(filter.Limit, filter.Offset)

	q := s.db.WithContext(ctx).Model(&models.Submission{})
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.ProcurementID != "" {
		q = q.Where("procurement_id = ?", filter.ProcurementID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, ierr.Database(err, "count submissions")
	}

	var items []models.Submission
	if err := q.Order("submitted_at DESC, id DESC").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, 0, ierr.Database(err, "list submissions")
	}
	return items, total, nil
}

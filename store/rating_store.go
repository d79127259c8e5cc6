package store

import (
	"context"

	ierr "procurify-api/errors"
	"procurify-api/models"

	"gorm.io/gorm"
)

type RatingStore struct {
	db *gorm.DB
}

func NewRatingStore(db *gorm.DB) *RatingStore {
	return &RatingStore{db: db}
}

func (s *RatingStore) Create(ctx context.Context, rating *models.VendorRating) error {
	if rating.ID == "" {
		rating.ID = NewID()
	}
	if err := s.db.WithContext(ctx).Create(rating).Error; err != nil {
		return ierr.Database(err, "save vendor rating")
	}
	return nil
}

func (s *RatingStore) Summary(ctx context.Context, vendorID string) (*models.RatingSummary, error) {
	var row struct {
		Average float64
		Count   int64
	}
	if err := s.db.WithContext(ctx).
		Model(&models.VendorRating{}).
		Select("COALESCE(AVG(stars), 0) AS average, COUNT(*) AS count").
		Where("vendor_id = ?", vendorID).
		Scan(&row).Error; err != nil {
		return nil, ierr.Database(err, "summarize vendor ratings")
	}
	return &models.RatingSummary{
		VendorID: vendorID,
		Average:  row.Average,
		Count:    row.Count,
	}, nil
}

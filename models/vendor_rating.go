package models

import "time"

const (
	MinRatingStars = 1
	MaxRatingStars = 5
)

// VendorRating is a post-engagement evaluation of a vendor.
type VendorRating struct {
	ID            string    `gorm:"primaryKey;column:id" json:"id"`
	VendorID      string    `gorm:"column:vendor_id" json:"vendor_id"`
	SubmissionID  string    `gorm:"column:submission_id" json:"submission_id"`
	ProcurementID string    `gorm:"column:procurement_id" json:"procurement_id"`
	Stars         int       `gorm:"column:stars" json:"stars"`
	RatedBy       string    `gorm:"column:rated_by" json:"rated_by"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
}

func (VendorRating) TableName() string {
	return "vendor_ratings"
}

// RatingSummary aggregates a vendor's ratings.
type RatingSummary struct {
	VendorID string  `json:"vendor_id"`
	Average  float64 `json:"average"`
	Count    int64   `json:"count"`
}

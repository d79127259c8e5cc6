package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "PENDING"
	SubmissionStatusAccepted SubmissionStatus = "ACCEPTED"
	SubmissionStatusRejected SubmissionStatus = "REJECTED"
)

func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionStatusPending, SubmissionStatusAccepted, SubmissionStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether s is a review outcome.
func (s SubmissionStatus) IsTerminal() bool {
	return s == SubmissionStatusAccepted || s == SubmissionStatusRejected
}

// Submission is a vendor's bid against a procurement.
type Submission struct {
	ID                 string           `gorm:"primaryKey;column:id" json:"id"`
	ProcurementID      string           `gorm:"column:procurement_id" json:"procurement_id"`
	UserID             string           `gorm:"column:user_id" json:"user_id"`
	CompanyName        string           `gorm:"column:company_name" json:"company_name"`
	CompanyDescription string           `gorm:"column:company_description" json:"company_description"`
	SubmittedAt        time.Time        `gorm:"column:submitted_at" json:"submitted_at"`
	Status             SubmissionStatus `gorm:"column:status" json:"status"`

	Items []SubmissionItem `gorm:"-" json:"items,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}

// SubmissionItem is the vendor's offer for one procurement item.
type SubmissionItem struct {
	ID                string          `gorm:"primaryKey;column:id" json:"id"`
	SubmissionID      string          `gorm:"column:submission_id" json:"submission_id"`
	ProcurementItemID string          `gorm:"column:procurement_item_id" json:"procurement_item_id"`
	OfferedPrice      decimal.Decimal `gorm:"column:offered_price;type:decimal(20,2)" json:"offered_price"`
	Specification     string          `gorm:"column:specification" json:"specification"`
	CreatedAt         time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (SubmissionItem) TableName() string {
	return "submission_items"
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProcurementStatus string

const (
	ProcurementStatusOpen   ProcurementStatus = "OPEN"
	ProcurementStatusClosed ProcurementStatus = "CLOSED"
	ProcurementStatusDraft  ProcurementStatus = "DRAFT"
)

func (s ProcurementStatus) Valid() bool {
	switch s {
	case ProcurementStatusOpen, ProcurementStatusClosed, ProcurementStatusDraft:
		return true
	}
	return false
}

// Procurement is a tender. Items are stored in procurement_items and loaded
// separately.
type Procurement struct {
	ID          string            `gorm:"primaryKey;column:id" json:"id"`
	Title       string            `gorm:"column:title" json:"title"`
	Description string            `gorm:"column:description" json:"description"`
	Budget      decimal.Decimal   `gorm:"column:budget;type:decimal(20,2)" json:"budget"`
	Currency    string            `gorm:"column:currency" json:"currency"`
	Deadline    time.Time         `gorm:"column:deadline" json:"deadline"`
	Status      ProcurementStatus `gorm:"column:status" json:"status"`
	Location    *string           `gorm:"column:location" json:"location,omitempty"`
	CreatedBy   string            `gorm:"column:created_by" json:"created_by"`
	CreatedAt   time.Time         `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"column:updated_at" json:"updated_at"`

	Items []ProcurementItem `gorm:"-" json:"items,omitempty"`
}

func (Procurement) TableName() string {
	return "procurements"
}

func (p Procurement) AcceptsSubmissions() bool {
	return p.Status == ProcurementStatusOpen
}

// ProcurementItem is one line of a procurement that vendors price.
type ProcurementItem struct {
	ID             string              `gorm:"primaryKey;column:id" json:"id"`
	ProcurementID  string              `gorm:"column:procurement_id" json:"procurement_id"`
	Name           string              `gorm:"column:name" json:"name"`
	Description    *string             `gorm:"column:description" json:"description,omitempty"`
	Quantity       int                 `gorm:"column:quantity" json:"quantity"`
	Unit           string              `gorm:"column:unit" json:"unit"`
	EstimatedPrice decimal.NullDecimal `gorm:"column:estimated_price;type:decimal(20,2)" json:"estimated_price"`
	CreatedAt      time.Time           `gorm:"column:created_at" json:"created_at"`
}

func (ProcurementItem) TableName() string {
	return "procurement_items"
}

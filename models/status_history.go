package models

import "time"

// EntityType names the kind of record a status history entry belongs to.
type EntityType string

const (
	EntityTypeSubmission  EntityType = "SUBMISSION"
	EntityTypeProcurement EntityType = "PROCUREMENT"
)

// StatusHistory is one append-only status change. Rows are never updated or
// deleted.
type StatusHistory struct {
	ID            string     `gorm:"primaryKey;column:id" json:"id"`
	EntityType    EntityType `gorm:"column:entity_type" json:"entity_type"`
	EntityID      string     `gorm:"column:entity_id" json:"entity_id"`
	StatusFrom    *string    `gorm:"column:status_from" json:"status_from"`
	StatusTo      string     `gorm:"column:status_to" json:"status_to"`
	ChangedBy     string     `gorm:"column:changed_by" json:"changed_by"`
	ChangedByName string     `gorm:"column:changed_by_name" json:"changed_by_name"`
	Notes         *string    `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt     time.Time  `gorm:"column:created_at" json:"created_at"`
}

func (StatusHistory) TableName() string {
	return "status_history"
}

package models

import "time"

// Activity actions recorded in activity_logs.action.
const (
	ActionSubmissionCreate       = "SUBMISSION_CREATE"
	ActionSubmissionStatusChange = "SUBMISSION_STATUS_CHANGE"
	ActionSubmissionBatchReject  = "SUBMISSION_BATCH_REJECT"
	ActionVendorRate             = "VENDOR_RATE"

	ActionProcurementCreate       = "PROCUREMENT_CREATE"
	ActionProcurementUpdate       = "PROCUREMENT_UPDATE"
	ActionProcurementStatusChange = "PROCUREMENT_STATUS_CHANGE"
)

type ActivityLog struct {
	ID         string      `gorm:"primaryKey;column:id" json:"id"`
	UserID     *string     `gorm:"column:user_id" json:"user_id"`
	Action     string      `gorm:"column:action" json:"action"`
	EntityType *EntityType `gorm:"column:entity_type" json:"entity_type,omitempty"`
	EntityID   *string     `gorm:"column:entity_id" json:"entity_id,omitempty"`
	Metadata   *string     `gorm:"column:metadata" json:"metadata,omitempty"`
	IPAddress  *string     `gorm:"column:ip_address" json:"ip_address,omitempty"`
	UserAgent  *string     `gorm:"column:user_agent" json:"user_agent,omitempty"`
	CreatedAt  time.Time   `gorm:"column:created_at" json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

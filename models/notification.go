package models

import "time"

type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "INFO"
	NotificationTypeSuccess NotificationType = "SUCCESS"
	NotificationTypeWarning NotificationType = "WARNING"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeInfo, NotificationTypeSuccess, NotificationTypeWarning:
		return true
	}
	return false
}

type Notification struct {
	ID            string           `gorm:"primaryKey;column:id" json:"id"`
	UserID        string           `gorm:"column:user_id" json:"user_id"`
	Title         string           `gorm:"column:title" json:"title"`
	Message       string           `gorm:"column:message" json:"message"`
	Type          NotificationType `gorm:"column:type" json:"type"`
	Read          bool             `gorm:"column:read" json:"read"`
	ReferenceID   *string          `gorm:"column:reference_id" json:"reference_id,omitempty"`
	ReferenceType *EntityType      `gorm:"column:reference_type" json:"reference_type,omitempty"`
	ActionURL     *string          `gorm:"column:action_url" json:"action_url,omitempty"`
	CreatedAt     time.Time        `gorm:"column:created_at" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

package models

import (
	"time"
)

// Role is the authorization role carried in the access token.
type Role string

const (
	RoleSuperAdmin       Role = "SUPER_ADMIN"
	RoleAdminProcurement Role = "ADMIN_PROCUREMENT"
	RoleUserProcurement  Role = "USER_PROCUREMENT" // vendor
)

// AdminRoles may review submissions.
var AdminRoles = []Role{RoleSuperAdmin, RoleAdminProcurement}

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdminProcurement, RoleUserProcurement:
		return true
	}
	return false
}

// IsAdmin reports whether r may change submission status.
func (r Role) IsAdmin() bool {
	return r == RoleSuperAdmin || r == RoleAdminProcurement
}

func (r Role) IsVendor() bool {
	return r == RoleUserProcurement
}

type User struct {
	ID          string     `gorm:"primaryKey;column:id" json:"id"`
	Name        string     `gorm:"column:name" json:"name"`
	Email       string     `gorm:"column:email;unique" json:"email"`
	Role        Role       `gorm:"column:role" json:"role"`
	CompanyName *string    `gorm:"column:company_name" json:"company_name,omitempty"`
	Phone       *string    `gorm:"column:phone" json:"phone,omitempty"`
	Website     *string    `gorm:"column:website" json:"website,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt   *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
}

func (User) TableName() string {
	return "user"
}

// Actor is the authenticated caller performing an operation.
type Actor struct {
	UserID string
	Name   string
	Role   Role
}

// DisplayName is what the audit trail shows for the actor.
func (a Actor) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.UserID
}

package testutil

import (
	"time"

	"procurify-api/models"

	"github.com/shopspring/decimal"
)

var (
	AdminActor  = models.Actor{UserID: "admin-1", Name: "Rina Admin", Role: models.RoleAdminProcurement}
	SuperActor  = models.Actor{UserID: "super-1", Name: "Super", Role: models.RoleSuperAdmin}
	VendorActor = models.Actor{UserID: "vendor-1", Name: "PT Maju Jaya", Role: models.RoleUserProcurement}
	OtherVendor = models.Actor{UserID: "vendor-2", Name: "CV Sentosa", Role: models.RoleUserProcurement}
)

// Stores bundles the in-memory repositories a service test wires together.
type Stores struct {
	Submissions   *InMemorySubmissionStore
	History       *InMemoryHistoryStore
	Notifications *InMemoryNotificationStore
	Procurements  *InMemoryProcurementStore
	Users         *InMemoryUserStore
	Activities    *InMemoryActivityStore
	Ratings       *InMemoryRatingStore
	Tx            *InMemoryTransactor
}

func NewStores() *Stores {
	subs := NewInMemorySubmissionStore()
	history := NewInMemoryHistoryStore()
	procs := NewInMemoryProcurementStore()
	return &Stores{
		Submissions:   subs,
		History:       history,
		Notifications: NewInMemoryNotificationStore(),
		Procurements:  procs,
		Users:         NewInMemoryUserStore(),
		Activities:    NewInMemoryActivityStore(),
		Ratings:       NewInMemoryRatingStore(),
		Tx:            NewInMemoryTransactor(subs, procs, history),
	}
}

func NewProcurement(id, title string, status models.ProcurementStatus) models.Procurement {
	now := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	return models.Procurement{
		ID:          id,
		Title:       title,
		Description: title + " tender",
		Budget:      decimal.NewFromInt(150_000_000),
		Currency:    "IDR",
		Deadline:    now.AddDate(0, 1, 0),
		Status:      status,
		CreatedBy:   AdminActor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func NewSubmission(id, procurementID, userID string, status models.SubmissionStatus) models.Submission {
	return models.Submission{
		ID:                 id,
		ProcurementID:      procurementID,
		UserID:             userID,
		CompanyName:        "PT Maju Jaya",
		CompanyDescription: "Construction and supply",
		SubmittedAt:        time.Date(2025, 1, 10, 8, 30, 0, 0, time.UTC),
		Status:             status,
	}
}

func NewVendorUser(id, email string) models.User {
	company := "PT Maju Jaya"
	return models.User{
		ID:          id,
		Name:        "Budi",
		Email:       email,
		Role:        models.RoleUserProcurement,
		CompanyName: &company,
	}
}

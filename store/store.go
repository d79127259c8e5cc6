// Package store holds the gorm-backed repositories. Services depend on the
// interfaces declared here; tests use the in-memory versions in testutil.
package store

import (
	"context"
	"errors"

	"procurify-api/models"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type SubmissionFilter struct {
	UserID        string
	ProcurementID string
	Status        models.SubmissionStatus
	Limit         int
	Offset        int
}

type ProcurementFilter struct {
	Status models.ProcurementStatus
	Limit  int
	Offset int
}

type NotificationFilter struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

type ActivityFilter struct {
	UserID     string
	EntityType models.EntityType
	EntityID   string
	Limit      int
	Offset     int
}

type SubmissionRepository interface {
	Get(ctx context.Context, id string) (*models.Submission, error)
	SetStatus(ctx context.Context, id string, status models.SubmissionStatus) error
	// Create fails with ErrAlreadyExists when the id is taken.
	Create(ctx context.Context, sub *models.Submission) error
	List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, int64, error)
	CreateItems(ctx context.Context, items []models.SubmissionItem) error
	ListItems(ctx context.Context, submissionID string) ([]models.SubmissionItem, error)
}

// HistoryLedger is the append-only status history.
type HistoryLedger interface {
	Append(ctx context.Context, entry *models.StatusHistory) error
	// ListFor returns entries oldest first; no history is an empty slice.
	ListFor(ctx context.Context, entityType models.EntityType, entityID string) ([]models.StatusHistory, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID string, filter NotificationFilter) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

type ProcurementRepository interface {
	Get(ctx context.Context, id string) (*models.Procurement, error)
	List(ctx context.Context, filter ProcurementFilter) ([]models.Procurement, int64, error)
	// Create fails with ErrAlreadyExists when the id is taken.
	Create(ctx context.Context, p *models.Procurement) error
	// Update writes the editable columns; status only changes via SetStatus.
	Update(ctx context.Context, p *models.Procurement) error
	SetStatus(ctx context.Context, id string, status models.ProcurementStatus) error
	CreateItems(ctx context.Context, items []models.ProcurementItem) error
	ListItems(ctx context.Context, procurementID string) ([]models.ProcurementItem, error)
}

type UserRepository interface {
	Get(ctx context.Context, id string) (*models.User, error)
	// ListIDsByRole returns ids of active users holding role, sorted.
	ListIDsByRole(ctx context.Context, role models.Role) ([]string, error)
}

type ActivityRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, filter ActivityFilter) ([]models.ActivityLog, int64, error)
}

type RatingRepository interface {
	Create(ctx context.Context, rating *models.VendorRating) error
	Summary(ctx context.Context, vendorID string) (*models.RatingSummary, error)
}

// Transactor runs fn with repositories bound to one storage transaction. When
// fn returns an error nothing it wrote is kept.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(subs SubmissionRepository, ledger HistoryLedger) error) error
}

// ProcurementTransactor is Transactor for procurement writes.
type ProcurementTransactor interface {
	WithinProcurementTx(ctx context.Context, fn func(procs ProcurementRepository, ledger HistoryLedger) error) error
}

// NewID returns a time-ordered identifier, so ordering by id breaks ties
// between rows created within the same timestamp.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// NormalizePage clamps limit/offset to the defaults used by list endpoints.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

func isDuplicateKey(err error) bool {
	var mysqlErr *mysqldriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}

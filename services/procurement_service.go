package services

import (
	"context"
	"strings"
	"time"

	ierr "procurify-api/errors"
	"procurify-api/logger"
	"procurify-api/models"
	"procurify-api/store"
	"procurify-api/utils"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

const (
	procurementTitleTTL     = 5 * time.Minute
	procurementCleanupEvery = 10 * time.Minute
	titleKeyPrefix          = "procurement_title:v1:"

	maxProcurementTitle       = 255
	maxProcurementDescription = 5000
	maxItemName               = 255
	defaultCurrency           = "IDR"
	defaultItemUnit           = "Unit"
)

// BulkNotifier sends the same notification to many users.
type BulkNotifier interface {
	NotifyMany(ctx context.Context, userIDs []string, params CreateNotificationParams) ([]*models.Notification, error)
}

type ProcurementItemParams struct {
	Name           string
	Description    string
	Quantity       int
	Unit           string
	EstimatedPrice *decimal.Decimal
}

type CreateProcurementParams struct {
	Title       string
	Description string
	Budget      decimal.Decimal
	Currency    string
	Deadline    time.Time
	Location    string
	Status      models.ProcurementStatus
	Items       []ProcurementItemParams
}

// UpdateProcurementParams changes only the fields that are set.
type UpdateProcurementParams struct {
	Title       *string
	Description *string
	Budget      *decimal.Decimal
	Currency    *string
	Deadline    *time.Time
	Location    *string
}

// ProcurementService manages procurements. Titles, which are needed for every
// status notification, are cached in memory.
type ProcurementService struct {
	tx           store.ProcurementTransactor
	procurements store.ProcurementRepository
	history      store.HistoryLedger
	users        store.UserRepository
	notifier     BulkNotifier
	activity     ActivityRecorder
	log          *logger.Logger
	titles       *gocache.Cache
	now          func() time.Time
	newID        func() string
}

func NewProcurementService(
	tx store.ProcurementTransactor,
	procurements store.ProcurementRepository,
	history store.HistoryLedger,
	users store.UserRepository,
	notifier BulkNotifier,
	activity ActivityRecorder,
	log *logger.Logger,
) *ProcurementService {
	if log == nil {
		log = logger.L
	}
	return &ProcurementService{
		tx:           tx,
		procurements: procurements,
		history:      history,
		users:        users,
		notifier:     notifier,
		activity:     activity,
		log:          log,
		titles:       gocache.New(procurementTitleTTL, procurementCleanupEvery),
		now:          time.Now,
		newID:        newProcurementID,
	}
}

// Create opens a new procurement with its items. Vendors are told about it
// when it starts OPEN.
func (s *ProcurementService) Create(ctx context.Context, params CreateProcurementParams, actor models.Actor) (*models.Procurement, error) {
	if err := requireAdmin(actor, "create procurements"); err != nil {
		return nil, err
	}

	now := s.now()
	p := &models.Procurement{
		Title:       utils.SanitizeInput(params.Title),
		Description: utils.SanitizeInput(params.Description),
		Budget:      params.Budget,
		Currency:    strings.ToUpper(strings.TrimSpace(params.Currency)),
		Deadline:    params.Deadline,
		Status:      params.Status,
		CreatedBy:   actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if location := utils.SanitizeInput(params.Location); location != "" {
		p.Location = &location
	}
	if p.Currency == "" {
		p.Currency = defaultCurrency
	}
	if p.Status == "" {
		p.Status = models.ProcurementStatusOpen
	}
	if err := validateProcurement(p); err != nil {
		return nil, err
	}
	if p.Status == models.ProcurementStatusClosed {
		return nil, ierr.Validation("A new procurement must be OPEN or DRAFT")
	}
	if !p.Deadline.After(now) {
		return nil, ierr.Validation("Deadline must be in the future")
	}

	items, err := buildProcurementItems(params.Items, now)
	if err != nil {
		return nil, err
	}

	err = withFreshID(s.newID, func(id string) error {
		p.ID = id
		return s.tx.WithinProcurementTx(ctx, func(procs store.ProcurementRepository, ledger store.HistoryLedger) error {
			if err := procs.Create(ctx, p); err != nil {
				return err
			}
			for i := range items {
				items[i].ProcurementID = id
			}
			if err := procs.CreateItems(ctx, items); err != nil {
				return err
			}
			return ledger.Append(ctx, &models.StatusHistory{
				EntityType:    models.EntityTypeProcurement,
				EntityID:      id,
				StatusTo:      string(p.Status),
				ChangedBy:     actor.UserID,
				ChangedByName: actor.DisplayName(),
				CreatedAt:     now,
			})
		})
	})
	if err != nil {
		return nil, err
	}
	p.Items = items
	s.titles.SetDefault(titleKeyPrefix+p.ID, p.Title)

	s.log.Infow("procurement created",
		"procurement_id", p.ID,
		"status", p.Status,
		"items", len(items),
		"created_by", actor.UserID,
	)

	detached := persistentContext(ctx)
	s.record(detached, actor, models.ActionProcurementCreate, p.ID, map[string]any{
		"title":  p.Title,
		"status": p.Status,
	})
	if p.Status == models.ProcurementStatusOpen {
		s.announce(detached, p)
	}
	return p, nil
}

// Update edits a procurement that is not CLOSED. A renamed procurement drops
// its cached title.
func (s *ProcurementService) Update(ctx context.Context, id string, params UpdateProcurementParams, actor models.Actor) (*models.Procurement, error) {
	if err := requireAdmin(actor, "update procurements"); err != nil {
		return nil, err
	}

	p, err := s.procurements.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if p.Status == models.ProcurementStatusClosed {
		return nil, ierr.InvalidOperation("procurement closed", "A closed procurement can no longer be edited")
	}

	oldTitle := p.Title
	if params.Title != nil {
		p.Title = utils.SanitizeInput(*params.Title)
	}
	if params.Description != nil {
		p.Description = utils.SanitizeInput(*params.Description)
	}
	if params.Budget != nil {
		p.Budget = *params.Budget
	}
	if params.Currency != nil {
		p.Currency = strings.ToUpper(strings.TrimSpace(*params.Currency))
	}
	if params.Deadline != nil {
		p.Deadline = *params.Deadline
	}
	if params.Location != nil {
		if location := utils.SanitizeInput(*params.Location); location != "" {
			p.Location = &location
		} else {
			p.Location = nil
		}
	}
	if err := validateProcurement(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.now()

	if err := s.procurements.Update(ctx, p); err != nil {
		return nil, err
	}
	renamed := p.Title != oldTitle
	if renamed {
		s.Forget(p.ID)
	}

	s.log.Infow("procurement updated",
		"procurement_id", p.ID,
		"renamed", renamed,
		"updated_by", actor.UserID,
	)
	s.record(persistentContext(ctx), actor, models.ActionProcurementUpdate, p.ID, map[string]any{
		"title":   p.Title,
		"renamed": renamed,
	})
	return p, nil
}

// SetStatus moves a procurement to status and appends a PROCUREMENT history
// entry in the same transaction. Publishing to OPEN notifies every vendor.
func (s *ProcurementService) SetStatus(ctx context.Context, id string, status models.ProcurementStatus, notes string, actor models.Actor) (*models.Procurement, *models.StatusHistory, error) {
	if err := requireAdmin(actor, "change procurement status"); err != nil {
		return nil, nil, err
	}
	if !status.Valid() {
		return nil, nil, ierr.Validation("Status must be OPEN, CLOSED or DRAFT")
	}
	id = strings.TrimSpace(id)

	var (
		p     *models.Procurement
		entry *models.StatusHistory
	)
	err := s.tx.WithinProcurementTx(ctx, func(procs store.ProcurementRepository, ledger store.HistoryLedger) error {
		current, err := procs.Get(ctx, id)
		if err != nil {
			return err
		}
		if current.Status == status {
			return ierr.InvalidOperation("status unchanged", "Procurement is already "+string(status))
		}
		if err := procs.SetStatus(ctx, id, status); err != nil {
			return err
		}

		from := string(current.Status)
		entry = &models.StatusHistory{
			EntityType:    models.EntityTypeProcurement,
			EntityID:      id,
			StatusFrom:    &from,
			StatusTo:      string(status),
			ChangedBy:     actor.UserID,
			ChangedByName: actor.DisplayName(),
			CreatedAt:     s.now(),
		}
		if trimmed := utils.TruncateRunes(utils.SanitizeInput(notes), maxTransitionNotes); trimmed != "" {
			entry.Notes = &trimmed
		}
		if err := ledger.Append(ctx, entry); err != nil {
			return err
		}
		current.Status = status
		p = current
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Infow("procurement status changed",
		"procurement_id", p.ID,
		"status_from", derefString(entry.StatusFrom),
		"status_to", entry.StatusTo,
		"changed_by", actor.UserID,
	)

	detached := persistentContext(ctx)
	s.record(detached, actor, models.ActionProcurementStatusChange, p.ID, map[string]any{
		"status_from": derefString(entry.StatusFrom),
		"status_to":   entry.StatusTo,
	})
	if status == models.ProcurementStatusOpen {
		s.announce(detached, p)
	}
	return p, entry, nil
}

// Get returns the procurement with its items.
func (s *ProcurementService) Get(ctx context.Context, id string) (*models.Procurement, error) {
	p, err := s.procurements.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.procurements.ListItems(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Items = items
	s.titles.SetDefault(titleKeyPrefix+p.ID, p.Title)
	return p, nil
}

func (s *ProcurementService) List(ctx context.Context, filter store.ProcurementFilter) ([]models.Procurement, int64, error) {
	return s.procurements.List(ctx, filter)
}

// History returns the procurement's status changes oldest first.
func (s *ProcurementService) History(ctx context.Context, id string) ([]models.StatusHistory, error) {
	p, err := s.procurements.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	return s.history.ListFor(ctx, models.EntityTypeProcurement, p.ID)
}

// Title returns the procurement title, from cache when possible.
func (s *ProcurementService) Title(ctx context.Context, id string) (string, error) {
	if cached, ok := s.titles.Get(titleKeyPrefix + id); ok {
		if title, ok := cached.(string); ok {
			return title, nil
		}
	}
	p, err := s.procurements.Get(ctx, id)
	if err != nil {
		return "", err
	}
	s.titles.SetDefault(titleKeyPrefix+p.ID, p.Title)
	return p.Title, nil
}

// Forget drops a cached title, e.g. after the procurement was renamed.
func (s *ProcurementService) Forget(id string) {
	s.titles.Delete(titleKeyPrefix + id)
}

// announce tells every active vendor about an open procurement. Failures are
// logged only.
func (s *ProcurementService) announce(ctx context.Context, p *models.Procurement) {
	if s.notifier == nil || s.users == nil {
		return
	}
	vendorIDs, err := s.users.ListIDsByRole(ctx, models.RoleUserProcurement)
	if err != nil {
		s.log.Warnw("vendors unavailable for procurement announcement",
			"procurement_id", p.ID,
			"error", err,
		)
		return
	}
	if len(vendorIDs) == 0 {
		return
	}

	sent, err := s.notifier.NotifyMany(ctx, vendorIDs, CreateNotificationParams{
		Title:         "New Procurement Opportunity",
		Message:       "A new procurement \"" + p.Title + "\" is open for submissions.",
		Type:          models.NotificationTypeInfo,
		ReferenceID:   p.ID,
		ReferenceType: models.EntityTypeProcurement,
		ActionURL:     "/procurements/" + p.ID,
	})
	if err != nil {
		s.log.Warnw("procurement announcement incomplete",
			"procurement_id", p.ID,
			"sent", len(sent),
			"vendors", len(vendorIDs),
			"error", err,
		)
	}
}

func (s *ProcurementService) record(ctx context.Context, actor models.Actor, action, id string, metadata map[string]any) {
	if s.activity == nil {
		return
	}
	s.activity.Log(ctx, ActivityParams{
		UserID:     actor.UserID,
		Action:     action,
		EntityType: models.EntityTypeProcurement,
		EntityID:   id,
		Metadata:   metadata,
	})
}

func validateProcurement(p *models.Procurement) error {
	switch {
	case p.Title == "":
		return ierr.Validation("Title is required")
	case len([]rune(p.Title)) > maxProcurementTitle:
		return ierr.Validation("Title is too long")
	case len([]rune(p.Description)) > maxProcurementDescription:
		return ierr.Validation("Description is too long")
	case p.Budget.IsNegative():
		return ierr.Validation("Budget cannot be negative")
	case len(p.Currency) != 3:
		return ierr.Validation("Currency must be a 3 letter code")
	case p.Deadline.IsZero():
		return ierr.Validation("Deadline is required")
	case !p.Status.Valid():
		return ierr.Validation("Status must be OPEN, CLOSED or DRAFT")
	}
	return nil
}

func buildProcurementItems(params []ProcurementItemParams, now time.Time) ([]models.ProcurementItem, error) {
	items := make([]models.ProcurementItem, 0, len(params))
	for _, ip := range params {
		item := models.ProcurementItem{
			ID:        store.NewID(),
			Name:      utils.SanitizeInput(ip.Name),
			Quantity:  ip.Quantity,
			Unit:      utils.SanitizeInput(ip.Unit),
			CreatedAt: now,
		}
		switch {
		case item.Name == "":
			return nil, ierr.Validation("Item name is required")
		case len([]rune(item.Name)) > maxItemName:
			return nil, ierr.Validation("Item name is too long")
		case item.Quantity < 1:
			return nil, ierr.Validation("Item quantity must be at least 1")
		}
		if item.Unit == "" {
			item.Unit = defaultItemUnit
		}
		if description := utils.SanitizeInput(ip.Description); description != "" {
			item.Description = &description
		}
		if ip.EstimatedPrice != nil {
			if ip.EstimatedPrice.IsNegative() {
				return nil, ierr.Validation("Item estimated price cannot be negative")
			}
			item.EstimatedPrice = decimal.NewNullDecimal(*ip.EstimatedPrice)
		}
		items = append(items, item)
	}
	return items, nil
}

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

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const (
	maxCompanyNameLength        = 255
	maxCompanyDescriptionLength = 5000
	maxItemSpecification        = 2000
)

type CreateSubmissionParams struct {
	ProcurementID      string
	CompanyName        string
	CompanyDescription string
	Items              []SubmissionItemParams
}

// SubmissionItemParams is the vendor's offer for one procurement item.
type SubmissionItemParams struct {
	ProcurementItemID string
	OfferedPrice      decimal.Decimal
	Specification     string
}

// SubmissionDetail is a submission with its history, newest entry first.
type SubmissionDetail struct {
	models.Submission
	ProcurementTitle string                 `json:"procurement_title,omitempty"`
	History          []models.StatusHistory `json:"history"`
}

type SubmissionService struct {
	tx           store.Transactor
	submissions  store.SubmissionRepository
	history      store.HistoryLedger
	procurements store.ProcurementRepository
	titles       TitleLookup
	activity     ActivityRecorder
	log          *logger.Logger
	now          func() time.Time
	newID        func() string
}

func NewSubmissionService(
	tx store.Transactor,
	submissions store.SubmissionRepository,
	history store.HistoryLedger,
	procurements store.ProcurementRepository,
	titles TitleLookup,
	activity ActivityRecorder,
	log *logger.Logger,
) *SubmissionService {
	if log == nil {
		log = logger.L
	}
	return &SubmissionService{
		tx:           tx,
		submissions:  submissions,
		history:      history,
		procurements: procurements,
		titles:       titles,
		activity:     activity,
		log:          log,
		now:          time.Now,
		newID:        newSubmissionID,
	}
}

// Create files a vendor's bid. The submission always starts PENDING and is
// stored together with its items and an initial history entry that has no
// previous status.
func (s *SubmissionService) Create(ctx context.Context, params CreateSubmissionParams, actor models.Actor) (*models.Submission, error) {
	if !actor.Role.IsVendor() {
		return nil, ierr.Forbidden("create submissions")
	}

	procurementID := strings.TrimSpace(params.ProcurementID)
	companyName := utils.SanitizeInput(params.CompanyName)
	description := utils.SanitizeInput(params.CompanyDescription)
	switch {
	case procurementID == "":
		return nil, ierr.Validation("Procurement id is required")
	case companyName == "":
		return nil, ierr.Validation("Company name is required")
	case len([]rune(companyName)) > maxCompanyNameLength:
		return nil, ierr.Validation("Company name is too long")
	case len([]rune(description)) > maxCompanyDescriptionLength:
		return nil, ierr.Validation("Company description is too long")
	}

	procurement, err := s.procurements.Get(ctx, procurementID)
	if err != nil {
		return nil, err
	}
	if !procurement.AcceptsSubmissions() {
		return nil, ierr.InvalidOperation("procurement not open",
			"Procurement \""+procurement.Title+"\" is not accepting submissions")
	}

	now := s.now()
	items, err := s.buildItems(ctx, procurement.ID, params.Items, now)
	if err != nil {
		return nil, err
	}

	sub := &models.Submission{
		ProcurementID:      procurement.ID,
		UserID:             actor.UserID,
		CompanyName:        companyName,
		CompanyDescription: description,
		SubmittedAt:        now,
		Status:             models.SubmissionStatusPending,
	}
	err = withFreshID(s.newID, func(id string) error {
		sub.ID = id
		return s.tx.WithinTx(ctx, func(subs store.SubmissionRepository, ledger store.HistoryLedger) error {
			if err := subs.Create(ctx, sub); err != nil {
				return err
			}
			for i := range items {
				items[i].SubmissionID = id
			}
			if err := subs.CreateItems(ctx, items); err != nil {
				return err
			}
			return ledger.Append(ctx, &models.StatusHistory{
				EntityType:    models.EntityTypeSubmission,
				EntityID:      id,
				StatusTo:      string(models.SubmissionStatusPending),
				ChangedBy:     actor.UserID,
				ChangedByName: actor.DisplayName(),
				CreatedAt:     now,
			})
		})
	})
	if err != nil {
		return nil, err
	}
	sub.Items = items

	s.log.Infow("submission created",
		"submission_id", sub.ID,
		"procurement_id", sub.ProcurementID,
		"user_id", actor.UserID,
	)

	if s.activity != nil {
		s.activity.Log(ctx, ActivityParams{
			UserID:     actor.UserID,
			Action:     models.ActionSubmissionCreate,
			EntityType: models.EntityTypeSubmission,
			EntityID:   sub.ID,
			Metadata: map[string]any{
				"procurement_id": sub.ProcurementID,
				"company_name":   sub.CompanyName,
				"items":          len(items),
			},
		})
	}
	return sub, nil
}

// List returns submissions visible to actor. Vendors only ever see their own.
func (s *SubmissionService) List(ctx context.Context, filter store.SubmissionFilter, actor models.Actor) ([]models.Submission, int64, error) {
	if !actor.Role.IsAdmin() {
		filter.UserID = actor.UserID
	}
	return s.submissions.List(ctx, filter)
}

func (s *SubmissionService) Get(ctx context.Context, id string, actor models.Actor) (*SubmissionDetail, error) {
	sub, err := s.visibleSubmission(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	entries, err := s.history.ListFor(ctx, models.EntityTypeSubmission, sub.ID)
	if err != nil {
		return nil, err
	}
	if sub.Items, err = s.submissions.ListItems(ctx, sub.ID); err != nil {
		return nil, err
	}

	detail := &SubmissionDetail{
		Submission: *sub,
		History:    lo.Reverse(entries),
	}
	if s.titles != nil {
		if title, err := s.titles.Title(ctx, sub.ProcurementID); err == nil {
			detail.ProcurementTitle = title
		}
	}
	return detail, nil
}

// History returns the submission's status history oldest first.
func (s *SubmissionService) History(ctx context.Context, id string, actor models.Actor) ([]models.StatusHistory, error) {
	sub, err := s.visibleSubmission(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	return s.history.ListFor(ctx, models.EntityTypeSubmission, sub.ID)
}

func (s *SubmissionService) visibleSubmission(ctx context.Context, id string, actor models.Actor) (*models.Submission, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ierr.Validation("Submission id is required")
	}
	sub, err := s.submissions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Role.IsAdmin() && sub.UserID != actor.UserID {
		return nil, ierr.Forbidden("view this submission")
	}
	return sub, nil
}

// buildItems checks each offer against the procurement's items. Every offer
// must name a distinct item of this procurement and carry a positive price.
func (s *SubmissionService) buildItems(ctx context.Context, procurementID string, params []SubmissionItemParams, now time.Time) ([]models.SubmissionItem, error) {
	if len(params) == 0 {
		return nil, nil
	}
	known, err := s.procurements.ListItems(ctx, procurementID)
	if err != nil {
		return nil, err
	}
	itemIDs := lo.SliceToMap(known, func(item models.ProcurementItem) (string, bool) {
		return item.ID, true
	})

	seen := make(map[string]bool, len(params))
	items := make([]models.SubmissionItem, 0, len(params))
	for _, ip := range params {
		itemID := strings.TrimSpace(ip.ProcurementItemID)
		spec := utils.SanitizeInput(ip.Specification)
		switch {
		case !itemIDs[itemID]:
			return nil, ierr.Validation("Item " + itemID + " does not belong to this procurement")
		case seen[itemID]:
			return nil, ierr.Validation("Item " + itemID + " is offered more than once")
		case !ip.OfferedPrice.IsPositive():
			return nil, ierr.Validation("Offered price must be greater than zero")
		case len([]rune(spec)) > maxItemSpecification:
			return nil, ierr.Validation("Item specification is too long")
		}
		seen[itemID] = true
		items = append(items, models.SubmissionItem{
			ID:                store.NewID(),
			ProcurementItemID: itemID,
			OfferedPrice:      ip.OfferedPrice.Round(2),
			Specification:     spec,
			CreatedAt:         now,
		})
	}
	return items, nil
}

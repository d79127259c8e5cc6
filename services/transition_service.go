package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	ierr "procurify-api/errors"
	"procurify-api/logger"
	"procurify-api/models"
	"procurify-api/store"
	"procurify-api/utils"
)

const maxTransitionNotes = 1000

// TitleLookup resolves a procurement's display title.
type TitleLookup interface {
	Title(ctx context.Context, procurementID string) (string, error)
}

// TransitionResult is what a successful transition produced. Notification is
// nil when the vendor could not be notified.
type TransitionResult struct {
	Submission   *models.Submission    `json:"submission"`
	History      *models.StatusHistory `json:"history"`
	Notification *models.Notification  `json:"notification,omitempty"`
}

// TransitionService moves submissions between review states. The status
// change and its history entry commit together; the vendor is told afterwards.
type TransitionService struct {
	tx       store.Transactor
	notifier Notifier
	titles   TitleLookup
	activity ActivityRecorder
	log      *logger.Logger
	now      func() time.Time
}

func NewTransitionService(
	tx store.Transactor,
	notifier Notifier,
	titles TitleLookup,
	activity ActivityRecorder,
	log *logger.Logger,
) *TransitionService {
	if log == nil {
		log = logger.L
	}
	return &TransitionService{
		tx:       tx,
		notifier: notifier,
		titles:   titles,
		activity: activity,
		log:      log,
		now:      time.Now,
	}
}

func (s *TransitionService) Transition(ctx context.Context, submissionID string, status models.SubmissionStatus, actor models.Actor) (*TransitionResult, error) {
	return s.TransitionWithNotes(ctx, submissionID, status, actor, "")
}

// TransitionWithNotes is Transition with a reviewer note stored on the
// history entry.
func (s *TransitionService) TransitionWithNotes(ctx context.Context, submissionID string, status models.SubmissionStatus, actor models.Actor, notes string) (*TransitionResult, error) {
	if err := requireAdmin(actor, "change submission status"); err != nil {
		return nil, err
	}
	submissionID = strings.TrimSpace(submissionID)
	if submissionID == "" {
		return nil, ierr.Validation("Submission id is required")
	}
	if !status.Valid() {
		return nil, ierr.Validation(fmt.Sprintf("Status must be one of PENDING, ACCEPTED or REJECTED, got %q", status))
	}

	var (
		sub      *models.Submission
		entry    *models.StatusHistory
		reopened bool
	)
	err := s.tx.WithinTx(ctx, func(subs store.SubmissionRepository, ledger store.HistoryLedger) error {
		current, err := subs.Get(ctx, submissionID)
		if err != nil {
			return err
		}
		if err := subs.SetStatus(ctx, submissionID, status); err != nil {
			return err
		}

		from := string(current.Status)
		entry = &models.StatusHistory{
			EntityType:    models.EntityTypeSubmission,
			EntityID:      submissionID,
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

		// A decided submission moved anywhere else is a reopened review.
		reopened = current.Status.IsTerminal() && current.Status != status
		current.Status = status
		sub = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("submission status changed",
		"submission_id", sub.ID,
		"status_from", derefString(entry.StatusFrom),
		"status_to", entry.StatusTo,
		"reopened", reopened,
		"changed_by", actor.UserID,
	)

	detached := persistentContext(ctx)
	result := &TransitionResult{Submission: sub, History: entry}
	result.Notification = s.notifyVendor(detached, sub)

	if s.activity != nil {
		s.activity.Log(detached, ActivityParams{
			UserID:     actor.UserID,
			Action:     models.ActionSubmissionStatusChange,
			EntityType: models.EntityTypeSubmission,
			EntityID:   sub.ID,
			Metadata: map[string]any{
				"status_from": derefString(entry.StatusFrom),
				"status_to":   entry.StatusTo,
				"reopened":    reopened,
			},
		})
	}
	return result, nil
}

func (s *TransitionService) notifyVendor(ctx context.Context, sub *models.Submission) *models.Notification {
	if s.notifier == nil {
		return nil
	}

	title := ""
	if s.titles != nil {
		t, err := s.titles.Title(ctx, sub.ProcurementID)
		if err != nil {
			s.log.Warnw("procurement title unavailable for notification",
				"submission_id", sub.ID,
				"procurement_id", sub.ProcurementID,
				"error", err,
			)
		} else {
			title = t
		}
	}

	msg := buildStatusMessage(sub.Status, title)
	n, err := s.notifier.Create(ctx, CreateNotificationParams{
		UserID:        sub.UserID,
		Title:         msg.Title,
		Message:       msg.Body,
		Type:          msg.Type,
		ReferenceID:   sub.ID,
		ReferenceType: models.EntityTypeSubmission,
		ActionURL:     "/submissions/" + sub.ID,
	})
	if err != nil {
		s.log.Warnw("failed to notify vendor of status change",
			"submission_id", sub.ID,
			"user_id", sub.UserID,
			"error", err,
		)
		return nil
	}
	return n
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

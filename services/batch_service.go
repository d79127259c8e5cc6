package services

import (
	"context"
	"strings"

	ierr "procurify-api/errors"
	"procurify-api/logger"
	"procurify-api/models"

	"github.com/samber/lo"
)

// Transitioner is the single-submission operation a batch is made of.
type Transitioner interface {
	Transition(ctx context.Context, submissionID string, status models.SubmissionStatus, actor models.Actor) (*TransitionResult, error)
}

type BatchFailure struct {
	SubmissionID string `json:"submission_id"`
	Code         string `json:"code"`
	Message      string `json:"message"`
}

type BatchResult struct {
	Requested int            `json:"requested"`
	Succeeded []string       `json:"succeeded"`
	Failed    []BatchFailure `json:"failed"`
}

// BatchService applies one transition to many submissions. It is not atomic:
// each submission commits on its own and failures are collected.
type BatchService struct {
	transitions Transitioner
	activity    ActivityRecorder
	log         *logger.Logger
}

func NewBatchService(transitions Transitioner, activity ActivityRecorder, log *logger.Logger) *BatchService {
	if log == nil {
		log = logger.L
	}
	return &BatchService{transitions: transitions, activity: activity, log: log}
}

func (s *BatchService) BatchReject(ctx context.Context, submissionIDs []string, actor models.Actor) (*BatchResult, error) {
	if err := requireAdmin(actor, "reject submissions"); err != nil {
		return nil, err
	}

	ids := lo.Uniq(lo.Compact(lo.Map(submissionIDs, func(id string, _ int) string {
		return strings.TrimSpace(id)
	})))
	if len(ids) == 0 {
		return nil, ierr.Validation("At least one submission id is required")
	}

	result := &BatchResult{
		Requested: len(ids),
		Succeeded: make([]string, 0, len(ids)),
		Failed:    make([]BatchFailure, 0),
	}
	for _, id := range ids {
		if _, err := s.transitions.Transition(ctx, id, models.SubmissionStatusRejected, actor); err != nil {
			result.Failed = append(result.Failed, BatchFailure{
				SubmissionID: id,
				Code:         ierr.Code(err),
				Message:      ierr.Hint(err, "Failed to reject submission"),
			})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}

	s.log.Infow("batch reject finished",
		"requested", result.Requested,
		"succeeded", len(result.Succeeded),
		"failed", len(result.Failed),
		"changed_by", actor.UserID,
	)

	if s.activity != nil {
		s.activity.Log(persistentContext(ctx), ActivityParams{
			UserID: actor.UserID,
			Action: models.ActionSubmissionBatchReject,
			Metadata: map[string]any{
				"submission_ids": ids,
				"succeeded":      len(result.Succeeded),
				"failed":         len(result.Failed),
			},
		})
	}
	return result, nil
}

package services

import (
	"context"
	"encoding/json"
	"time"

	"procurify-api/logger"
	"procurify-api/models"
	"procurify-api/store"
)

type ActivityParams struct {
	UserID     string
	Action     string
	EntityType models.EntityType
	EntityID   string
	Metadata   map[string]any
}

// ActivityRecorder records user actions. Recording never fails the caller.
type ActivityRecorder interface {
	Log(ctx context.Context, params ActivityParams) *models.ActivityLog
}

type ActivityService struct {
	activities store.ActivityRepository
	log        *logger.Logger
	now        func() time.Time
}

func NewActivityService(activities store.ActivityRepository, log *logger.Logger) *ActivityService {
	if log == nil {
		log = logger.L
	}
	return &ActivityService{activities: activities, log: log, now: time.Now}
}

// Log inserts an activity row and returns it, or nil when the insert failed.
func (s *ActivityService) Log(ctx context.Context, params ActivityParams) *models.ActivityLog {
	entry := &models.ActivityLog{
		Action:    params.Action,
		CreatedAt: s.now(),
	}
	if params.UserID != "" {
		entry.UserID = &params.UserID
	}
	if params.EntityType != "" {
		entityType := params.EntityType
		entry.EntityType = &entityType
	}
	if params.EntityID != "" {
		entry.EntityID = &params.EntityID
	}
	if len(params.Metadata) > 0 {
		if raw, err := json.Marshal(params.Metadata); err == nil {
			metadata := string(raw)
			entry.Metadata = &metadata
		}
	}

	meta := requestMetaFrom(ctx)
	if meta.IPAddress != "" {
		entry.IPAddress = &meta.IPAddress
	}
	if meta.UserAgent != "" {
		entry.UserAgent = &meta.UserAgent
	}

	if err := s.activities.Create(persistentContext(ctx), entry); err != nil {
		s.log.Warnw("failed to record activity",
			"action", params.Action,
			"entity_id", params.EntityID,
			"error", err,
		)
		return nil
	}
	return entry
}

func (s *ActivityService) List(ctx context.Context, filter store.ActivityFilter) ([]models.ActivityLog, int64, error) {
	return s.activities.List(ctx, filter)
}

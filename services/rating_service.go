package services

import (
	"context"
	"strings"
	"time"

	ierr "procurify-api/errors"
	"procurify-api/logger"
	"procurify-api/models"
	"procurify-api/store"
)

// RatingService records administrator ratings of vendors after a closed
// engagement.
type RatingService struct {
	submissions  store.SubmissionRepository
	procurements store.ProcurementRepository
	ratings      store.RatingRepository
	activity     ActivityRecorder
	log          *logger.Logger
	now          func() time.Time
}

func NewRatingService(
	submissions store.SubmissionRepository,
	procurements store.ProcurementRepository,
	ratings store.RatingRepository,
	activity ActivityRecorder,
	log *logger.Logger,
) *RatingService {
	if log == nil {
		log = logger.L
	}
	return &RatingService{
		submissions:  submissions,
		procurements: procurements,
		ratings:      ratings,
		activity:     activity,
		log:          log,
		now:          time.Now,
	}
}

// Rate stores a rating for the vendor behind submissionID. Only accepted
// submissions of closed procurements can be rated.
func (s *RatingService) Rate(ctx context.Context, submissionID string, stars int, actor models.Actor) (*models.VendorRating, error) {
	if err := requireAdmin(actor, "rate vendors"); err != nil {
		return nil, err
	}
	if stars < models.MinRatingStars || stars > models.MaxRatingStars {
		return nil, ierr.Validation("Rating must be between 1 and 5 stars")
	}
	submissionID = strings.TrimSpace(submissionID)
	if submissionID == "" {
		return nil, ierr.Validation("Submission id is required")
	}

	sub, err := s.submissions.Get(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if sub.Status != models.SubmissionStatusAccepted {
		return nil, ierr.InvalidOperation("submission not accepted", "Only accepted submissions can be rated")
	}

	procurement, err := s.procurements.Get(ctx, sub.ProcurementID)
	if err != nil {
		return nil, err
	}
	if procurement.Status != models.ProcurementStatusClosed {
		return nil, ierr.InvalidOperation("procurement not closed", "Vendors can be rated once the procurement is closed")
	}

	rating := &models.VendorRating{
		VendorID:      sub.UserID,
		SubmissionID:  sub.ID,
		ProcurementID: procurement.ID,
		Stars:         stars,
		RatedBy:       actor.UserID,
		CreatedAt:     s.now(),
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, err
	}

	if s.activity != nil {
		s.activity.Log(ctx, ActivityParams{
			UserID:     actor.UserID,
			Action:     models.ActionVendorRate,
			EntityType: models.EntityTypeSubmission,
			EntityID:   sub.ID,
			Metadata: map[string]any{
				"vendor_id": sub.UserID,
				"stars":     stars,
			},
		})
	}
	return rating, nil
}

func (s *RatingService) Summary(ctx context.Context, vendorID string) (*models.RatingSummary, error) {
	vendorID = strings.TrimSpace(vendorID)
	if vendorID == "" {
		return nil, ierr.Validation("Vendor id is required")
	}
	return s.ratings.Summary(ctx, vendorID)
}

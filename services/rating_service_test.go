package services

import (
	"context"
	"testing"

	ierr "procurify-api/errors"
	"procurify-api/models"
	"procurify-api/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRatable(h *harness, subID string, subStatus models.SubmissionStatus, procStatus models.ProcurementStatus) {
	h.stores.Procurements.Put(testutil.NewProcurement("proc-"+subID, "Engagement "+subID, procStatus))
	h.stores.Submissions.Put(testutil.NewSubmission(subID, "proc-"+subID, testutil.VendorActor.UserID, subStatus))
}

func TestRateAcceptedSubmissionOfClosedProcurement(t *testing.T) {
	h := newHarness()
	seedRatable(h, "SUB-R1", models.SubmissionStatusAccepted, models.ProcurementStatusClosed)
	seedRatable(h, "SUB-R2", models.SubmissionStatusAccepted, models.ProcurementStatusClosed)
	ctx := context.Background()

	rating, err := h.ratings.Rate(ctx, "SUB-R1", 5, testutil.AdminActor)
	require.NoError(t, err)
	assert.Equal(t, testutil.VendorActor.UserID, rating.VendorID)
	assert.Equal(t, "proc-SUB-R1", rating.ProcurementID)
	assert.Equal(t, testutil.AdminActor.UserID, rating.RatedBy)

	_, err = h.ratings.Rate(ctx, "SUB-R2", 4, testutil.SuperActor)
	require.NoError(t, err)

	summary, err := h.ratings.Summary(ctx, testutil.VendorActor.UserID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.Count)
	assert.InDelta(t, 4.5, summary.Average, 0.0001)
	assert.Contains(t, h.stores.Activities.Actions(), models.ActionVendorRate)
}

func TestRateRules(t *testing.T) {
	h := newHarness()
	seedRatable(h, "SUB-OK", models.SubmissionStatusAccepted, models.ProcurementStatusClosed)
	seedRatable(h, "SUB-PENDING", models.SubmissionStatusPending, models.ProcurementStatusClosed)
	seedRatable(h, "SUB-OPEN", models.SubmissionStatusAccepted, models.ProcurementStatusOpen)
	ctx := context.Background()

	_, err := h.ratings.Rate(ctx, "SUB-OK", 4, testutil.VendorActor)
	assert.True(t, ierr.IsPermissionDenied(err))

	for _, stars := range []int{0, 6, -1} {
		_, err = h.ratings.Rate(ctx, "SUB-OK", stars, testutil.AdminActor)
		assert.True(t, ierr.IsValidation(err), "stars=%d", stars)
	}

	_, err = h.ratings.Rate(ctx, "SUB-PENDING", 3, testutil.AdminActor)
	assert.True(t, ierr.IsInvalidOperation(err))

	_, err = h.ratings.Rate(ctx, "SUB-OPEN", 3, testutil.AdminActor)
	assert.True(t, ierr.IsInvalidOperation(err))

	_, err = h.ratings.Rate(ctx, "SUB-MISSING", 3, testutil.AdminActor)
	assert.True(t, ierr.IsNotFound(err))

	assert.Zero(t, h.stores.Ratings.Len())
}

func TestRatingSummaryWithoutRatings(t *testing.T) {
	h := newHarness()

	summary, err := h.ratings.Summary(context.Background(), "vendor-x")
	require.NoError(t, err)
	assert.Zero(t, summary.Count)
	assert.Zero(t, summary.Average)

	_, err = h.ratings.Summary(context.Background(), " ")
	assert.True(t, ierr.IsValidation(err))
}

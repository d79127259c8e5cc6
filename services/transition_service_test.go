package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	ierr "procurify-api/errors"
	"procurify-api/models"
	"procurify-api/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionRejectWritesStatusHistoryAndNotification(t *testing.T) {
	h := newHarness()
	h.seedSubmission("SUB-00000001", "proc-1", "Road Repair 2025", models.SubmissionStatusPending)

	result, err := h.transitions.Transition(context.Background(), "SUB-00000001", models.SubmissionStatusRejected, testutil.AdminActor)
	require.NoError(t, err)

	sub, err := h.stores.Submissions.Get(context.Background(), "SUB-00000001")
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusRejected, sub.Status)
	assert.Equal(t, models.SubmissionStatusRejected, result.Submission.Status)

	history, err := h.stores.History.ListFor(context.Background(), models.EntityTypeSubmission, "SUB-00000001")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "REJECTED", history[0].StatusTo)
	require.NotNil(t, history[0].StatusFrom)
	assert.Equal(t, "PENDING", *history[0].StatusFrom)
	assert.Equal(t, testutil.AdminActor.UserID, history[0].ChangedBy)
	assert.Equal(t, testutil.AdminActor.Name, history[0].ChangedByName)
	assert.False(t, history[0].CreatedAt.IsZero())

	notes := h.stores.Notifications.ForUser(testutil.VendorActor.UserID)
	require.Len(t, notes, 1)
	assert.Equal(t, "Application Status: Not Selected", notes[0].Title)
	assert.Contains(t, notes[0].Message, `"Road Repair 2025"`)
	assert.Equal(t, models.NotificationTypeWarning, notes[0].Type)
	assert.False(t, notes[0].Read)
	require.NotNil(t, result.Notification)
	assert.Equal(t, notes[0].ID, result.Notification.ID)

	assert.Equal(t, []string{models.ActionSubmissionStatusChange}, h.stores.Activities.Actions())
}

func TestTransitionAcceptMessage(t *testing.T) {
	h := newHarness()
	h.seedSubmission("SUB-00000002", "proc-1", "Bridge Audit", models.SubmissionStatusPending)

	_, err := h.transitions.Transition(context.Background(), "SUB-00000002", models.SubmissionStatusAccepted, testutil.SuperActor)
	require.NoError(t, err)

	notes := h.stores.Notifications.ForUser(testutil.VendorActor.UserID)
	require.Len(t, notes, 1)
	assert.Equal(t, "Status Update: ACCEPTED", notes[0].Title)
	assert.Equal(t, `Your application review for "Bridge Audit" is complete.`, notes[0].Message)
	assert.Equal(t, models.NotificationTypeSuccess, notes[0].Type)
}

func TestTransitionMessageQuotesTitleAsEntered(t *testing.T) {
	h := newHarness()
	h.stores.Users.Put(testutil.NewVendorUser(testutil.VendorActor.UserID, "vendor1@example.com"))
	h.seedSubmission("SUB-0000000Q", "proc-q", `Pengadaan "Server" C:\Data 2024`, models.SubmissionStatusPending)

	_, err := h.transitions.Transition(context.Background(), "SUB-0000000Q", models.SubmissionStatusRejected, testutil.AdminActor)
	require.NoError(t, err)

	notes := h.stores.Notifications.ForUser(testutil.VendorActor.UserID)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Message, `your proposal for "Pengadaan "Server" C:\Data 2024" has not been selected`)

	sent := h.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].HTML, `Pengadaan &#34;Server&#34; C:\Data 2024`)
}

func TestTransitionMissingProcurementFallsBackToGenericTitle(t *testing.T) {
	h := newHarness()
	h.seedSubmission("SUB-00000003", "proc-gone", "", models.SubmissionStatusPending)

	_, err := h.transitions.Transition(context.Background(), "SUB-00000003", models.SubmissionStatusRejected, testutil.AdminActor)
	require.NoError(t, err)

	notes := h.stores.Notifications.ForUser(testutil.VendorActor.UserID)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Message, `"the project"`)
}

func TestTransitionByVendorIsForbiddenAndChangesNothing(t *testing.T) {
	h := newHarness()
	h.seedSubmission("SUB-00000004", "proc-1", "Road Repair 2025", models.SubmissionStatusPending)

	_, err := h.transitions.Transition(context.Background(), "SUB-00000004", models.SubmissionStatusAccepted, testutil.VendorActor)
	require.Error(t, err)
	assert.True(t, ierr.IsPermissionDenied(err))

	sub, _ := h.stores.Submissions.Get(context.Background(), "SUB-00000004")
	assert.Equal(t, models.SubmissionStatusPending, sub.Status)
	assert.Zero(t, h.stores.History.Len())
	assert.Zero(t, h.stores.Notifications.Len())
}

func TestTransitionUnknownSubmission(t *testing.T) {
	h := newHarness()

	_, err := h.transitions.Transition(context.Background(), "SUB-MISSING1", models.SubmissionStatusRejected, testutil.AdminActor)
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
	assert.Zero(t, h.stores.History.Len())
	assert.Zero(t, h.stores.Notifications.Len())
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	h := newHarness()
	h.seedSubmission("SUB-00000005", "proc-1", "Road Repair 2025", models.SubmissionStatusPending)

	_, err := h.transitions.Transition(context.Background(), "SUB-00000005", models.SubmissionStatus("ARCHIVED"), testutil.AdminActor)
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestTransitionHistoryFailureRollsBackStatus(t *testing.T) {
	h := newHarness()
	h.seedSubmission("SUB-00000006", "proc-1", "Road Repair 2025", models.SubmissionStatusPending)
	h.stores.History.FailOn("Append", ierr.NewError("disk full").Mark(ierr.ErrDatabase))

	_, err := h.transitions.Transition(context.Background(), "SUB-00000006", models.SubmissionStatusAccepted, testutil.AdminActor)
	require.Error(t, err)
	assert.True(t, ierr.IsDatabase(err))

	sub, _ := h.stores.Submissions.Get(context.Background(), "SUB-00000006")
	assert.Equal(t, models.SubmissionStatusPending, sub.Status)
	assert.Zero(t, h.stores.Notifications.Len())
	assert.Equal(t, 1, h.stores.Tx.Rollbacks)
}

func TestTransitionSucceedsWhenNotificationFails(t *testing.T) {
	h := newHarness()
	h.seedSubmission("SUB-00000007", "proc-1", "Road Repair 2025", models.SubmissionStatusPending)
	h.stores.Notifications.FailOn("Create", ierr.NewError("insert failed").Mark(ierr.ErrDatabase))

	result, err := h.transitions.Transition(context.Background(), "SUB-00000007", models.SubmissionStatusRejected, testutil.AdminActor)
	require.NoError(t, err)
	assert.Nil(t, result.Notification)

	sub, _ := h.stores.Submissions.Get(context.Background(), "SUB-00000007")
	assert.Equal(t, models.SubmissionStatusRejected, sub.Status)
	assert.Equal(t, 1, h.stores.History.Len())
}

func TestTransitionSucceedsWhenLivePushFails(t *testing.T) {
	h := newHarness()
	h.seedSubmission("SUB-00000008", "proc-1", "Road Repair 2025", models.SubmissionStatusPending)
	h.publisher.Err = errors.New("redis down")

	result, err := h.transitions.Transition(context.Background(), "SUB-00000008", models.SubmissionStatusAccepted, testutil.AdminActor)
	require.NoError(t, err)
	assert.NotNil(t, result.Notification)
	assert.Equal(t, 1, h.stores.Notifications.Len())
}

func TestTransitionTerminalStateCanBeReopenedByAdmin(t *testing.T) {
	h := newHarness()
	h.seedSubmission("SUB-00000009", "proc-1", "Road Repair 2025", models.SubmissionStatusRejected)

	_, err := h.transitions.TransitionWithNotes(context.Background(), "SUB-00000009", models.SubmissionStatusPending, testutil.AdminActor, "  reopened after appeal ")
	require.NoError(t, err)

	history, _ := h.stores.History.ListFor(context.Background(), models.EntityTypeSubmission, "SUB-00000009")
	require.Len(t, history, 1)
	assert.Equal(t, "REJECTED", *history[0].StatusFrom)
	assert.Equal(t, "PENDING", history[0].StatusTo)
	require.NotNil(t, history[0].Notes)
	assert.Equal(t, "reopened after appeal", *history[0].Notes)

	notes := h.stores.Notifications.ForUser(testutil.VendorActor.UserID)
	require.Len(t, notes, 1)
	assert.Equal(t, "Status Update: PENDING", notes[0].Title)
	assert.Equal(t, models.NotificationTypeInfo, notes[0].Type)

	logs := h.stores.Activities.InMemoryStore.List(nil, nil)
	require.Len(t, logs, 1)
	require.NotNil(t, logs[0].Metadata)
	assert.Contains(t, *logs[0].Metadata, `"reopened":true`)
}

func TestTransitionSameStatusStillRecordsHistory(t *testing.T) {
	h := newHarness()
	h.seedSubmission("SUB-00000010", "proc-1", "Road Repair 2025", models.SubmissionStatusAccepted)

	_, err := h.transitions.Transition(context.Background(), "SUB-00000010", models.SubmissionStatusAccepted, testutil.AdminActor)
	require.NoError(t, err)
	assert.Equal(t, 1, h.stores.History.Len())

	logs := h.stores.Activities.InMemoryStore.List(nil, nil)
	require.Len(t, logs, 1)
	assert.Contains(t, *logs[0].Metadata, `"reopened":false`)
}

func TestTransitionHistoryIsChronological(t *testing.T) {
	h := newHarness()
	h.seedSubmission("SUB-00000011", "proc-1", "Road Repair 2025", models.SubmissionStatusPending)
	ctx := context.Background()

	for _, status := range []models.SubmissionStatus{
		models.SubmissionStatusAccepted,
		models.SubmissionStatusRejected,
		models.SubmissionStatusPending,
	} {
		_, err := h.transitions.Transition(ctx, "SUB-00000011", status, testutil.AdminActor)
		require.NoError(t, err)
	}

	history, err := h.stores.History.ListFor(ctx, models.EntityTypeSubmission, "SUB-00000011")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, []string{"ACCEPTED", "REJECTED", "PENDING"}, []string{history[0].StatusTo, history[1].StatusTo, history[2].StatusTo})
	for i := 1; i < len(history); i++ {
		assert.False(t, history[i].CreatedAt.Before(history[i-1].CreatedAt))
		assert.Equal(t, history[i-1].StatusTo, *history[i].StatusFrom)
	}

	sub, _ := h.stores.Submissions.Get(ctx, "SUB-00000011")
	assert.Equal(t, models.SubmissionStatusPending, sub.Status)
}

func TestConcurrentTransitionsBothRecordHistory(t *testing.T) {
	h := newHarness()
	h.seedSubmission("SUB-00000012", "proc-1", "Road Repair 2025", models.SubmissionStatusPending)
	// The fake clock is not goroutine safe.
	h.transitions.now = h.clock.t.Local
	h.dispatcher.now = h.clock.t.Local

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, status := range []models.SubmissionStatus{models.SubmissionStatusAccepted, models.SubmissionStatusRejected} {
		wg.Add(1)
		go func(i int, status models.SubmissionStatus) {
			defer wg.Done()
			_, errs[i] = h.transitions.Transition(context.Background(), "SUB-00000012", status, testutil.AdminActor)
		}(i, status)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, 2, h.stores.History.Len())
	assert.Len(t, h.stores.Notifications.ForUser(testutil.VendorActor.UserID), 2)

	sub, _ := h.stores.Submissions.Get(context.Background(), "SUB-00000012")
	assert.Contains(t, []models.SubmissionStatus{models.SubmissionStatusAccepted, models.SubmissionStatusRejected}, sub.Status)
}

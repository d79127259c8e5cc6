package services

import (
	"context"
	"errors"
	"testing"

	ierr "procurify-api/errors"
	"procurify-api/models"
	"procurify-api/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherCreatePersistsPushesAndMails(t *testing.T) {
	h := newHarness()
	h.stores.Users.Put(testutil.NewVendorUser(testutil.VendorActor.UserID, "budi@majujaya.co.id"))

	n, err := h.dispatcher.Create(context.Background(), CreateNotificationParams{
		UserID:        testutil.VendorActor.UserID,
		Title:         "Status Update: ACCEPTED",
		Message:       "Your application review for \"Bridge <Audit>\" is complete.",
		Type:          models.NotificationTypeSuccess,
		ReferenceID:   "SUB-1",
		ReferenceType: models.EntityTypeSubmission,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	assert.False(t, n.Read)
	require.NotNil(t, n.ReferenceID)
	assert.Equal(t, "SUB-1", *n.ReferenceID)

	stored := h.stores.Notifications.ForUser(testutil.VendorActor.UserID)
	require.Len(t, stored, 1)
	assert.Equal(t, n.ID, stored[0].ID)

	pushed := h.publisher.Messages()
	require.Len(t, pushed, 1)
	assert.Equal(t, testutil.VendorActor.UserID, pushed[0].UserID)

	sent := h.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"budi@majujaya.co.id"}, sent[0].To)
	assert.Equal(t, "Status Update: ACCEPTED", sent[0].Subject)
	assert.Contains(t, sent[0].HTML, "Dear Budi,")
	assert.Contains(t, sent[0].HTML, "Bridge &lt;Audit&gt;")
}

func TestDispatcherDefaultsTypeToInfo(t *testing.T) {
	h := newHarness()

	n, err := h.dispatcher.Create(context.Background(), CreateNotificationParams{
		UserID:  "vendor-9",
		Title:   "Hello",
		Message: "World",
	})
	require.NoError(t, err)
	assert.Equal(t, models.NotificationTypeInfo, n.Type)
}

func TestDispatcherValidation(t *testing.T) {
	h := newHarness()

	_, err := h.dispatcher.Create(context.Background(), CreateNotificationParams{Title: "t", Message: "m"})
	assert.True(t, ierr.IsValidation(err))

	_, err = h.dispatcher.Create(context.Background(), CreateNotificationParams{UserID: "u", Title: " ", Message: "m"})
	assert.True(t, ierr.IsValidation(err))

	_, err = h.dispatcher.Create(context.Background(), CreateNotificationParams{UserID: "u", Title: "t", Message: "m", Type: "URGENT"})
	assert.True(t, ierr.IsValidation(err))

	assert.Zero(t, h.stores.Notifications.Len())
}

func TestDispatcherStoreFailureIsReturnedAndNothingDelivered(t *testing.T) {
	h := newHarness()
	h.stores.Notifications.FailOn("Create", ierr.NewError("insert").Mark(ierr.ErrDatabase))

	_, err := h.dispatcher.Create(context.Background(), CreateNotificationParams{UserID: "u", Title: "t", Message: "m"})
	require.Error(t, err)
	assert.True(t, ierr.IsDatabase(err))
	assert.Empty(t, h.publisher.Messages())
	assert.Empty(t, h.mailer.Sent())
}

func TestDispatcherDeliveryFailuresAreSwallowed(t *testing.T) {
	h := newHarness()
	h.stores.Users.Put(testutil.NewVendorUser("u", "u@example.com"))
	h.publisher.Err = errors.New("connection refused")
	h.mailer.Err = errors.New("smtp timeout")

	n, err := h.dispatcher.Create(context.Background(), CreateNotificationParams{UserID: "u", Title: "t", Message: "m"})
	require.NoError(t, err)
	assert.NotNil(t, n)
	assert.Equal(t, 1, h.stores.Notifications.Len())
}

func TestDispatcherSkipsMailWhenDisabledOrUnknownUser(t *testing.T) {
	h := newHarness()
	h.mailer.Disabled = true
	h.stores.Users.Put(testutil.NewVendorUser("u", "u@example.com"))

	_, err := h.dispatcher.Create(context.Background(), CreateNotificationParams{UserID: "u", Title: "t", Message: "m"})
	require.NoError(t, err)
	assert.Empty(t, h.mailer.Sent())

	h.mailer.Disabled = false
	_, err = h.dispatcher.Create(context.Background(), CreateNotificationParams{UserID: "ghost", Title: "t", Message: "m"})
	require.NoError(t, err)
	assert.Empty(t, h.mailer.Sent())
	assert.Len(t, h.publisher.Messages(), 2)
}

func TestDispatcherNotifyMany(t *testing.T) {
	h := newHarness()

	created, err := h.dispatcher.NotifyMany(context.Background(), []string{"a", "b", "c"}, CreateNotificationParams{
		Title:   "Procurement closed",
		Message: "The tender has closed.",
	})
	require.NoError(t, err)
	require.Len(t, created, 3)
	for i, userID := range []string{"a", "b", "c"} {
		assert.Equal(t, userID, created[i].UserID)
		assert.Len(t, h.stores.Notifications.ForUser(userID), 1)
	}
}

func TestBuildStatusMessage(t *testing.T) {
	reject := buildStatusMessage(models.SubmissionStatusRejected, "Road Repair")
	assert.Equal(t, "Application Status: Not Selected", reject.Title)
	assert.Equal(t, "Following a comprehensive review of the current procurement cycle, we regret to inform you that your proposal for \"Road Repair\" has not been selected at this time.", reject.Body)
	assert.Equal(t, models.NotificationTypeWarning, reject.Type)

	accept := buildStatusMessage(models.SubmissionStatusAccepted, "  ")
	assert.Equal(t, "Status Update: ACCEPTED", accept.Title)
	assert.Equal(t, `Your application review for "the project" is complete.`, accept.Body)
	assert.Equal(t, models.NotificationTypeSuccess, accept.Type)

	pending := buildStatusMessage(models.SubmissionStatusPending, "Road Repair")
	assert.Equal(t, "Status Update: PENDING", pending.Title)
	assert.Equal(t, `Your application for "Road Repair" has been returned to review.`, pending.Body)
	assert.Equal(t, models.NotificationTypeInfo, pending.Type)
}

func TestBuildStatusMessageKeepsTitleVerbatim(t *testing.T) {
	title := `Pengadaan "Server" C:\Data 2024`

	reject := buildStatusMessage(models.SubmissionStatusRejected, title)
	assert.Contains(t, reject.Body, `your proposal for "Pengadaan "Server" C:\Data 2024" has not been selected`)
	assert.NotContains(t, reject.Body, `\"`)

	accept := buildStatusMessage(models.SubmissionStatusAccepted, title)
	assert.Equal(t, `Your application review for "Pengadaan "Server" C:\Data 2024" is complete.`, accept.Body)
}

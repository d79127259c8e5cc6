package services

import (
	"context"
	"time"

	"procurify-api/logger"
	"procurify-api/models"
	"procurify-api/testutil"
)

type harness struct {
	stores       *testutil.Stores
	publisher    *testutil.FakePublisher
	mailer       *testutil.FakeMailer
	dispatcher   *NotificationDispatcher
	procurements *ProcurementService
	activity     *ActivityService
	transitions  *TransitionService
	batch        *BatchService
	submissions  *SubmissionService
	ratings      *RatingService
	clock        *fakeClock
}

type fakeClock struct {
	t time.Time
}

// now advances one second per call so entries get distinct timestamps.
func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newHarness() *harness {
	stores := testutil.NewStores()
	log := logger.NewNop()
	clock := &fakeClock{t: time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)}

	h := &harness{
		stores:    stores,
		publisher: &testutil.FakePublisher{},
		mailer:    &testutil.FakeMailer{},
		clock:     clock,
	}
	h.dispatcher = NewNotificationDispatcher(stores.Notifications, stores.Users, h.publisher, h.mailer, log)
	h.dispatcher.now = clock.now
	h.activity = NewActivityService(stores.Activities, log)
	h.procurements = NewProcurementService(stores.Tx, stores.Procurements, stores.History, stores.Users, h.dispatcher, h.activity, log)
	h.procurements.now = clock.now
	h.transitions = NewTransitionService(stores.Tx, h.dispatcher, h.procurements, h.activity, log)
	h.transitions.now = clock.now
	h.batch = NewBatchService(h.transitions, h.activity, log)
	h.submissions = NewSubmissionService(stores.Tx, stores.Submissions, stores.History, stores.Procurements, h.procurements, h.activity, log)
	h.submissions.now = clock.now
	h.ratings = NewRatingService(stores.Submissions, stores.Procurements, stores.Ratings, h.activity, log)
	return h
}

func (h *harness) seedSubmission(id, procurementID, title string, status models.SubmissionStatus) models.Submission {
	if _, ok := h.stores.Procurements.InMemoryStore.Get(context.Background(), procurementID); !ok && title != "" {
		h.stores.Procurements.Put(testutil.NewProcurement(procurementID, title, models.ProcurementStatusOpen))
	}
	sub := testutil.NewSubmission(id, procurementID, testutil.VendorActor.UserID, status)
	h.stores.Submissions.Put(sub)
	return sub
}

package services

import (
	"context"
	"regexp"
	"testing"

	ierr "procurify-api/errors"
	"procurify-api/models"
	"procurify-api/store"
	"procurify-api/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionCreateStartsPendingWithInitialHistory(t *testing.T) {
	h := newHarness()
	h.stores.Procurements.Put(testutil.NewProcurement("proc-1", "Road Repair 2025", models.ProcurementStatusOpen))
	ctx := WithRequestMeta(context.Background(), RequestMeta{IPAddress: "10.0.0.7", UserAgent: "test"})

	sub, err := h.submissions.Create(ctx, CreateSubmissionParams{
		ProcurementID:      "proc-1",
		CompanyName:        "  PT Maju Jaya ",
		CompanyDescription: "Civil works",
	}, testutil.VendorActor)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^SUB-[0-9A-F]{8}$`), sub.ID)
	assert.Equal(t, models.SubmissionStatusPending, sub.Status)
	assert.Equal(t, "PT Maju Jaya", sub.CompanyName)
	assert.Equal(t, testutil.VendorActor.UserID, sub.UserID)

	history, err := h.stores.History.ListFor(ctx, models.EntityTypeSubmission, sub.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Nil(t, history[0].StatusFrom)
	assert.Equal(t, "PENDING", history[0].StatusTo)

	logs, _, err := h.stores.Activities.List(ctx, store.ActivityFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActionSubmissionCreate, logs[0].Action)
	require.NotNil(t, logs[0].IPAddress)
	assert.Equal(t, "10.0.0.7", *logs[0].IPAddress)
}

func TestSubmissionCreateRules(t *testing.T) {
	h := newHarness()
	h.stores.Procurements.Put(testutil.NewProcurement("proc-open", "Open", models.ProcurementStatusOpen))
	h.stores.Procurements.Put(testutil.NewProcurement("proc-closed", "Closed", models.ProcurementStatusClosed))
	ctx := context.Background()

	_, err := h.submissions.Create(ctx, CreateSubmissionParams{ProcurementID: "proc-open", CompanyName: "X"}, testutil.AdminActor)
	assert.True(t, ierr.IsPermissionDenied(err))

	_, err = h.submissions.Create(ctx, CreateSubmissionParams{ProcurementID: "proc-open", CompanyName: " "}, testutil.VendorActor)
	assert.True(t, ierr.IsValidation(err))

	_, err = h.submissions.Create(ctx, CreateSubmissionParams{ProcurementID: "proc-none", CompanyName: "X"}, testutil.VendorActor)
	assert.True(t, ierr.IsNotFound(err))

	_, err = h.submissions.Create(ctx, CreateSubmissionParams{ProcurementID: "proc-closed", CompanyName: "X"}, testutil.VendorActor)
	assert.True(t, ierr.IsInvalidOperation(err))

	assert.Zero(t, h.stores.Submissions.Len())
}

func TestSubmissionCreateRollsBackWhenHistoryFails(t *testing.T) {
	h := newHarness()
	h.stores.Procurements.Put(testutil.NewProcurement("proc-1", "Road Repair 2025", models.ProcurementStatusOpen))
	h.stores.History.FailOn("Append", ierr.NewError("insert").Mark(ierr.ErrDatabase))

	_, err := h.submissions.Create(context.Background(), CreateSubmissionParams{ProcurementID: "proc-1", CompanyName: "X"}, testutil.VendorActor)
	require.Error(t, err)
	assert.True(t, ierr.IsDatabase(err))
	assert.Zero(t, h.stores.Submissions.Len())
}

func TestSubmissionListIsRoleFiltered(t *testing.T) {
	h := newHarness()
	h.seedSubmission("SUB-V1", "proc-1", "Road Repair 2025", models.SubmissionStatusPending)
	other := testutil.NewSubmission("SUB-V2", "proc-1", testutil.OtherVendor.UserID, models.SubmissionStatusPending)
	h.stores.Submissions.Put(other)
	ctx := context.Background()

	items, total, err := h.submissions.List(ctx, store.SubmissionFilter{}, testutil.VendorActor)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "SUB-V1", items[0].ID)

	// A vendor cannot widen the filter to someone else.
	items, _, err = h.submissions.List(ctx, store.SubmissionFilter{UserID: testutil.OtherVendor.UserID}, testutil.VendorActor)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "SUB-V1", items[0].ID)

	_, total, err = h.submissions.List(ctx, store.SubmissionFilter{}, testutil.AdminActor)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestSubmissionGetShowsHistoryNewestFirst(t *testing.T) {
	h := newHarness()
	h.seedSubmission("SUB-D1", "proc-1", "Road Repair 2025", models.SubmissionStatusPending)
	ctx := context.Background()

	_, err := h.transitions.Transition(ctx, "SUB-D1", models.SubmissionStatusAccepted, testutil.AdminActor)
	require.NoError(t, err)
	_, err = h.transitions.Transition(ctx, "SUB-D1", models.SubmissionStatusRejected, testutil.AdminActor)
	require.NoError(t, err)

	detail, err := h.submissions.Get(ctx, "SUB-D1", testutil.VendorActor)
	require.NoError(t, err)
	assert.Equal(t, "Road Repair 2025", detail.ProcurementTitle)
	assert.Equal(t, models.SubmissionStatusRejected, detail.Status)
	require.Len(t, detail.History, 2)
	assert.Equal(t, "REJECTED", detail.History[0].StatusTo)
	assert.Equal(t, "ACCEPTED", detail.History[1].StatusTo)

	history, err := h.submissions.History(ctx, "SUB-D1", testutil.AdminActor)
	require.NoError(t, err)
	assert.Equal(t, "ACCEPTED", history[0].StatusTo)
}

func TestSubmissionGetForOtherVendorIsForbidden(t *testing.T) {
	h := newHarness()
	h.seedSubmission("SUB-D2", "proc-1", "Road Repair 2025", models.SubmissionStatusPending)

	_, err := h.submissions.Get(context.Background(), "SUB-D2", testutil.OtherVendor)
	assert.True(t, ierr.IsPermissionDenied(err))

	_, err = h.submissions.History(context.Background(), "SUB-NOPE", testutil.AdminActor)
	assert.True(t, ierr.IsNotFound(err))
}

func TestSubmissionCreateStoresItemOffers(t *testing.T) {
	h := newHarness()
	h.stores.Procurements.Put(testutil.NewProcurement("proc-1", "Office Chairs", models.ProcurementStatusOpen),
		models.ProcurementItem{ID: "item-chair", Name: "Chair", Quantity: 20, Unit: "Unit"},
		models.ProcurementItem{ID: "item-desk", Name: "Desk", Quantity: 5, Unit: "Set"},
	)
	ctx := context.Background()

	sub, err := h.submissions.Create(ctx, CreateSubmissionParams{
		ProcurementID: "proc-1",
		CompanyName:   "PT Maju Jaya",
		Items: []SubmissionItemParams{
			{ProcurementItemID: "item-chair", OfferedPrice: decimal.RequireFromString("1250000.505"), Specification: " Mesh back "},
			{ProcurementItemID: "item-desk", OfferedPrice: decimal.NewFromInt(3_000_000)},
		},
	}, testutil.VendorActor)
	require.NoError(t, err)
	require.Len(t, sub.Items, 2)
	assert.Equal(t, sub.ID, sub.Items[0].SubmissionID)
	assert.Equal(t, "1250000.51", sub.Items[0].OfferedPrice.StringFixed(2))
	assert.Equal(t, "Mesh back", sub.Items[0].Specification)

	detail, err := h.submissions.Get(ctx, sub.ID, testutil.VendorActor)
	require.NoError(t, err)
	require.Len(t, detail.Items, 2)
	assert.Equal(t, "item-desk", detail.Items[1].ProcurementItemID)
	assert.True(t, decimal.NewFromInt(3_000_000).Equal(detail.Items[1].OfferedPrice))
}

func TestSubmissionCreateItemRules(t *testing.T) {
	tests := []struct {
		name  string
		items []SubmissionItemParams
	}{
		{"foreign item", []SubmissionItemParams{{ProcurementItemID: "item-other", OfferedPrice: decimal.NewFromInt(1)}}},
		{"duplicate item", []SubmissionItemParams{
			{ProcurementItemID: "item-chair", OfferedPrice: decimal.NewFromInt(1)},
			{ProcurementItemID: "item-chair", OfferedPrice: decimal.NewFromInt(2)},
		}},
		{"zero price", []SubmissionItemParams{{ProcurementItemID: "item-chair", OfferedPrice: decimal.Zero}}},
		{"negative price", []SubmissionItemParams{{ProcurementItemID: "item-chair", OfferedPrice: decimal.NewFromInt(-5)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.stores.Procurements.Put(testutil.NewProcurement("proc-1", "Office Chairs", models.ProcurementStatusOpen),
				models.ProcurementItem{ID: "item-chair", Name: "Chair", Quantity: 20, Unit: "Unit"},
			)
			h.stores.Procurements.Put(testutil.NewProcurement("proc-2", "Laptops", models.ProcurementStatusOpen),
				models.ProcurementItem{ID: "item-other", Name: "Laptop", Quantity: 2, Unit: "Unit"},
			)

			_, err := h.submissions.Create(context.Background(), CreateSubmissionParams{
				ProcurementID: "proc-1",
				CompanyName:   "PT Maju Jaya",
				Items:         tt.items,
			}, testutil.VendorActor)
			assert.True(t, ierr.IsValidation(err))
			assert.Zero(t, h.stores.Submissions.Len())
			assert.Zero(t, h.stores.Submissions.Items.Len())
		})
	}
}

func TestSubmissionCreateRollsBackItemsWhenHistoryFails(t *testing.T) {
	h := newHarness()
	h.stores.Procurements.Put(testutil.NewProcurement("proc-1", "Office Chairs", models.ProcurementStatusOpen),
		models.ProcurementItem{ID: "item-chair", Name: "Chair", Quantity: 20, Unit: "Unit"},
	)
	h.stores.History.FailOn("Append", ierr.NewError("insert").Mark(ierr.ErrDatabase))

	_, err := h.submissions.Create(context.Background(), CreateSubmissionParams{
		ProcurementID: "proc-1",
		CompanyName:   "PT Maju Jaya",
		Items:         []SubmissionItemParams{{ProcurementItemID: "item-chair", OfferedPrice: decimal.NewFromInt(10)}},
	}, testutil.VendorActor)
	assert.True(t, ierr.IsDatabase(err))
	assert.Zero(t, h.stores.Submissions.Len())
	assert.Zero(t, h.stores.Submissions.Items.Len())
}

func TestSubmissionCreateRetriesCollidingID(t *testing.T) {
	h := newHarness()
	h.seedSubmission("SUB-DUP00001", "proc-1", "Road Repair 2025", models.SubmissionStatusAccepted)
	h.submissions.newID = sequence("SUB-DUP00001", "SUB-NEW00001")
	ctx := context.Background()

	sub, err := h.submissions.Create(ctx, CreateSubmissionParams{ProcurementID: "proc-1", CompanyName: "CV Sentosa"}, testutil.OtherVendor)
	require.NoError(t, err)
	assert.Equal(t, "SUB-NEW00001", sub.ID)

	existing, err := h.stores.Submissions.Get(ctx, "SUB-DUP00001")
	require.NoError(t, err)
	assert.Equal(t, testutil.VendorActor.UserID, existing.UserID)
	assert.Equal(t, models.SubmissionStatusAccepted, existing.Status)

	history, err := h.stores.History.ListFor(ctx, models.EntityTypeSubmission, "SUB-NEW00001")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestSubmissionCreateGivesUpAfterSecondCollision(t *testing.T) {
	h := newHarness()
	h.seedSubmission("SUB-DUP00001", "proc-1", "Road Repair 2025", models.SubmissionStatusPending)
	h.submissions.newID = sequence("SUB-DUP00001")

	_, err := h.submissions.Create(context.Background(), CreateSubmissionParams{ProcurementID: "proc-1", CompanyName: "CV Sentosa"}, testutil.OtherVendor)
	require.Error(t, err)
	assert.True(t, ierr.IsAlreadyExists(err))
	assert.Equal(t, 1, h.stores.Submissions.Len())
	assert.Equal(t, 2, h.stores.Tx.Rollbacks)
}

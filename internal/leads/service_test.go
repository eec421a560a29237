package leads_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/contractor-connect/internal/database/models"
	"github.com/hugh/contractor-connect/internal/leads"
	"github.com/hugh/contractor-connect/internal/notifications"
	"github.com/hugh/contractor-connect/internal/notify"
	"github.com/hugh/contractor-connect/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func newService(t *testing.T) (*leads.Service, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := testutil.TestLogger()
	gateway := notify.NewGateway(nil, nil, logger)
	return leads.NewService(db, notifications.NewService(db, gateway, logger), logger), db
}

func countNotifications(t *testing.T, db *gorm.DB, leadID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Notification{}).Where("lead_id = ?", leadID).Count(&n).Error)
	return n
}

func TestService_Create(t *testing.T) {
	svc, db := newService(t)
	user := testutil.CreateTestUser(t, db)
	ctx := testutil.TestContext(t)

	t.Run("defaults and normalization", func(t *testing.T) {
		lead, err := svc.Create(ctx, user.ID, leads.Input{
			FullName: "  Jordan Roof ",
			Phone:    "  ",
			Email:    " jordan@example.com ",
			Stage:    "Nope",
		})
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, lead.ID)
		assert.Equal(t, "Jordan Roof", lead.FullName)
		assert.Nil(t, lead.Phone)
		assert.Equal(t, "jordan@example.com", *lead.Email)
		assert.Equal(t, models.StageNew, lead.Stage)
		assert.Zero(t, lead.EstimatedValue)
		assert.False(t, lead.CreatedAt.IsZero())
		assert.False(t, lead.UpdatedAt.IsZero())
	})

	t.Run("valid stage kept", func(t *testing.T) {
		lead, err := svc.Create(ctx, user.ID, leads.Input{FullName: "Kim", Stage: "Closed Won", EstimatedValue: 800})
		require.NoError(t, err)
		assert.Equal(t, models.StageClosedWon, lead.Stage)
		assert.Equal(t, 800.0, lead.EstimatedValue)
	})

	t.Run("creating directly in Booked does not notify", func(t *testing.T) {
		lead, err := svc.Create(ctx, user.ID, leads.Input{FullName: "Lee", Stage: "Booked"})
		require.NoError(t, err)
		assert.Zero(t, countNotifications(t, db, lead.ID))
	})

	t.Run("validation", func(t *testing.T) {
		_, err := svc.Create(ctx, user.ID, leads.Input{FullName: "   "})
		assert.ErrorIs(t, err, leads.ErrFullNameRequired)

		_, err = svc.Create(ctx, user.ID, leads.Input{FullName: "X", EstimatedValue: -10})
		assert.ErrorIs(t, err, leads.ErrInvalidEstimatedValue)
	})
}

func TestService_List(t *testing.T) {
	svc, db := newService(t)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	ctx := testutil.TestContext(t)

	now := time.Now()
	testutil.CreateTestLead(t, db, user.ID, "oldest", testutil.WithCreatedAt(now.Add(-2*time.Hour)))
	testutil.CreateTestLead(t, db, user.ID, "middle", testutil.WithCreatedAt(now.Add(-time.Hour)), testutil.WithStage(models.StageBooked))
	testutil.CreateTestLead(t, db, user.ID, "newest", testutil.WithCreatedAt(now))
	testutil.CreateTestLead(t, db, other.ID, "someone else's")

	all, err := svc.List(ctx, user.ID, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "newest", all[0].FullName)
	assert.Equal(t, "oldest", all[2].FullName)

	booked, err := svc.List(ctx, user.ID, "Booked")
	require.NoError(t, err)
	require.Len(t, booked, 1)
	assert.Equal(t, "middle", booked[0].FullName)

	none, err := svc.List(ctx, user.ID, "booked")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestService_Get(t *testing.T) {
	svc, db := newService(t)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	ctx := testutil.TestContext(t)

	lead := testutil.CreateTestLead(t, db, user.ID, "Ava")
	testutil.CreateTestNote(t, db, lead, "first")
	time.Sleep(5 * time.Millisecond)
	testutil.CreateTestNote(t, db, lead, "second")

	got, err := svc.Get(ctx, user.ID, lead.ID)
	require.NoError(t, err)
	require.Len(t, got.Notes, 2)
	assert.Equal(t, "second", got.Notes[0].NoteText)

	_, err = svc.Get(ctx, other.ID, lead.ID)
	assert.ErrorIs(t, err, leads.ErrLeadNotFound)

	_, err = svc.Get(ctx, user.ID, uuid.New())
	assert.ErrorIs(t, err, leads.ErrLeadNotFound)
}

func TestService_Update(t *testing.T) {
	svc, db := newService(t)
	user := testutil.CreateTestUser(t, db)
	ctx := testutil.TestContext(t)

	t.Run("no recognized fields only bumps updated_at", func(t *testing.T) {
		lead := testutil.CreateTestLead(t, db, user.ID, "Quinn",
			testutil.WithEmail("quinn@example.com"),
			testutil.WithValue(450.5),
			testutil.WithAppointment("2025-05-01T10:00"),
		)
		before, err := svc.Get(ctx, user.ID, lead.ID)
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
		_, err = svc.Update(ctx, user.ID, lead.ID, leads.Patch{})
		require.NoError(t, err)

		after, err := svc.Get(ctx, user.ID, lead.ID)
		require.NoError(t, err)

		assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
		after.UpdatedAt = before.UpdatedAt
		assert.Equal(t, before, after)
	})

	t.Run("bogus stage keeps existing stage", func(t *testing.T) {
		lead := testutil.CreateTestLead(t, db, user.ID, "Rae", testutil.WithStage(models.StageContacted))

		updated, err := svc.Update(ctx, user.ID, lead.ID, leads.Patch{Stage: strPtr("Bogus")})
		require.NoError(t, err)
		assert.Equal(t, models.StageContacted, updated.Stage)
	})

	t.Run("moving to Booked notifies exactly once", func(t *testing.T) {
		lead := testutil.CreateTestLead(t, db, user.ID, "Sol", testutil.WithPhone("555-0199"))

		_, err := svc.Update(ctx, user.ID, lead.ID, leads.Patch{Stage: strPtr("Booked")})
		require.NoError(t, err)
		assert.Equal(t, int64(1), countNotifications(t, db, lead.ID))

		var n models.Notification
		require.NoError(t, db.Where("lead_id = ?", lead.ID).First(&n).Error)
		assert.Equal(t, models.ChannelSMS, n.Channel)
		assert.Equal(t, "555-0199", n.ToValue)
		assert.Equal(t, models.NotificationLogged, n.Status)
		assert.Nil(t, n.Subject)

		_, err = svc.Update(ctx, user.ID, lead.ID, leads.Patch{Stage: strPtr("Booked"), City: strPtr("Reno")})
		require.NoError(t, err)
		assert.Equal(t, int64(1), countNotifications(t, db, lead.ID))
	})

	t.Run("not found for other users", func(t *testing.T) {
		lead := testutil.CreateTestLead(t, db, user.ID, "Tao")
		other := testutil.CreateTestUser(t, db)

		_, err := svc.Update(ctx, other.ID, lead.ID, leads.Patch{FullName: strPtr("Hijacked")})
		assert.ErrorIs(t, err, leads.ErrLeadNotFound)

		got, err := svc.Get(ctx, user.ID, lead.ID)
		require.NoError(t, err)
		assert.Equal(t, "Tao", got.FullName)
	})
}

type failingNotifier struct{ calls int }

func (f *failingNotifier) Deliver(context.Context, uuid.UUID, *uuid.UUID, notify.Message) (*models.Notification, error) {
	f.calls++
	return nil, errors.New("smtp exploded")
}

func TestService_Update_NotificationFailureKeepsStage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	notifier := &failingNotifier{}
	svc := leads.NewService(db, notifier, testutil.TestLogger())
	user := testutil.CreateTestUser(t, db)
	lead := testutil.CreateTestLead(t, db, user.ID, "Uma", testutil.WithEmail("uma@example.com"))

	updated, err := svc.Update(testutil.TestContext(t), user.ID, lead.ID, leads.Patch{Stage: strPtr("Booked")})
	require.NoError(t, err)
	assert.Equal(t, models.StageBooked, updated.Stage)
	assert.Equal(t, 1, notifier.calls)

	var stored models.Lead
	require.NoError(t, db.First(&stored, "id = ?", lead.ID).Error)
	assert.Equal(t, models.StageBooked, stored.Stage)
}

// cancellingDispatcher drops the client mid-send, after the provider has
// been reached.
type cancellingDispatcher struct{ cancel context.CancelFunc }

func (d cancellingDispatcher) Send(context.Context, notify.Message) notify.Outcome {
	d.cancel()
	return notify.Outcome{Status: models.NotificationSent, ProviderResponse: "SM123"}
}

func TestService_Update_BookedSurvivesCancelledRequest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	logger := testutil.TestLogger()
	ctx, cancel := context.WithCancel(testutil.TestContext(t))
	defer cancel()

	svc := leads.NewService(db, notifications.NewService(db, cancellingDispatcher{cancel: cancel}, logger), logger)
	user := testutil.CreateTestUser(t, db)
	lead := testutil.CreateTestLead(t, db, user.ID, "Vera", testutil.WithPhone("555-0101"))

	updated, err := svc.Update(ctx, user.ID, lead.ID, leads.Patch{Stage: strPtr("Booked")})
	require.NoError(t, err)
	assert.Equal(t, models.StageBooked, updated.Stage)
	require.Error(t, ctx.Err())

	var stored []models.Notification
	require.NoError(t, db.Where("lead_id = ?", lead.ID).Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, models.NotificationSent, stored[0].Status)
	assert.Equal(t, models.ChannelSMS, stored[0].Channel)
}

func TestService_Delete(t *testing.T) {
	svc, db := newService(t)
	user := testutil.CreateTestUser(t, db)
	ctx := testutil.TestContext(t)

	lead := testutil.CreateTestLead(t, db, user.ID, "Vic")
	keep := testutil.CreateTestLead(t, db, user.ID, "Wren")
	testutil.CreateTestNote(t, db, lead, "call back")
	testutil.CreateTestNote(t, db, keep, "keep me")
	testutil.CreateTestNotification(t, db, user.ID, &lead.ID)
	testutil.CreateTestNotification(t, db, user.ID, nil)

	require.NoError(t, svc.Delete(ctx, user.ID, lead.ID))

	var notes, notifs int64
	require.NoError(t, db.Model(&models.Note{}).Where("lead_id = ?", lead.ID).Count(&notes).Error)
	assert.Zero(t, notes)
	assert.Zero(t, countNotifications(t, db, lead.ID))

	_, err := svc.Get(ctx, user.ID, lead.ID)
	assert.ErrorIs(t, err, leads.ErrLeadNotFound)

	require.NoError(t, db.Model(&models.Note{}).Count(&notes).Error)
	assert.Equal(t, int64(1), notes)
	require.NoError(t, db.Model(&models.Notification{}).Count(&notifs).Error)
	assert.Equal(t, int64(1), notifs)

	assert.ErrorIs(t, svc.Delete(ctx, user.ID, lead.ID), leads.ErrLeadNotFound)
}

func TestService_AddNote(t *testing.T) {
	svc, db := newService(t)
	user := testutil.CreateTestUser(t, db)
	ctx := testutil.TestContext(t)
	lead := testutil.CreateTestLead(t, db, user.ID, "Xan")

	note, err := svc.AddNote(ctx, user.ID, lead.ID, "  left voicemail  ")
	require.NoError(t, err)
	assert.Equal(t, "left voicemail", note.NoteText)
	assert.Equal(t, lead.ID, note.LeadID)

	_, err = svc.AddNote(ctx, user.ID, lead.ID, "   ")
	assert.ErrorIs(t, err, leads.ErrNoteTextRequired)

	_, err = svc.AddNote(ctx, user.ID, uuid.New(), "hello")
	assert.ErrorIs(t, err, leads.ErrLeadNotFound)
}

package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fitbook/models"
)

func newTestWorkflow(store *memStore) (*Workflow, *fakeNotifier) {
	notifier := &fakeNotifier{}
	w := &Workflow{
		Requests:     &fakeRequestRepo{store: store},
		Bookings:     &fakeBookingRepo{store: store},
		Trainers:     &fakeTrainerRepo{store: store},
		Clients:      &fakeClientRepo{store: store},
		Resolver:     newTestResolver(store),
		Coordinator:  newTestCoordinator(store),
		Notifier:     notifier,
		ExpiryWindow: 24 * time.Hour,
		Logger:       zap.NewNop(),
	}
	return w, notifier
}

func seedTrainer(store *memStore) {
	store.addTrainer(models.Trainer{ID: "t1", Name: "Jo", Email: "jo@example.com", HourlyRate: 80})
	store.addClient(models.Client{ID: "c1", Name: "Sam", Email: "sam@example.com"})
}

func TestSubmitDirectRequest(t *testing.T) {
	store := newMemStore()
	seedTrainer(store)
	w, _ := newTestWorkflow(store)

	req, err := w.Submit(context.Background(), models.CreateRequestInput{
		ClientID:        "c1",
		TrainerID:       "t1",
		DurationMinutes: 60,
		Date:            "2025-01-16",
		Start:           "10:00",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RequestPending, req.Status)
	assert.True(t, req.IsDirect())
	assert.Equal(t, 600, req.Start)
	assert.True(t, req.ExpiresAt.After(req.CreatedAt))
}

func TestSubmitRejectsMissingShape(t *testing.T) {
	store := newMemStore()
	seedTrainer(store)
	w, _ := newTestWorkflow(store)

	_, err := w.Submit(context.Background(), models.CreateRequestInput{
		ClientID:        "c1",
		TrainerID:       "t1",
		DurationMinutes: 60,
	})
	assert.Error(t, err)

	_, err = w.Submit(context.Background(), models.CreateRequestInput{
		ClientID:        "c1",
		TrainerID:       "missing",
		DurationMinutes: 60,
		Date:            "2025-01-16",
		Start:           "10:00",
	})
	assert.Error(t, err)
}

func TestApprovePreferenceRequestPicksBestCandidate(t *testing.T) {
	store := newMemStore()
	seedTrainer(store)
	store.addSlot(hourSlot("best", "t1", "2025-01-15", 600))
	store.addSlot(hourSlot("worse", "t1", "2025-01-17", 600))

	req := pendingRequest("r1")
	req.Preferences = &models.SchedulePreferences{
		StartDate:      "2025-01-15",
		EndDate:        "2025-01-17",
		PreferredTimes: []string{"10:00-12:00"},
	}
	store.addRequest(req)

	w, notifier := newTestWorkflow(store)
	booking, session, err := w.Approve(context.Background(), "r1", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"best"}, booking.SlotIDs)
	assert.Equal(t, "2025-01-15", booking.Date)
	assert.Equal(t, booking.ID, session.BookingID)
	// 60 minutes at 80/hour.
	assert.InDelta(t, 80.0, booking.TotalPrice, 1e-9)
	assert.Equal(t, models.RequestApproved, store.requests["r1"].Status)
	assert.Equal(t, 1, notifier.confirmed)
}

func TestApproveIsIdempotent(t *testing.T) {
	store := newMemStore()
	seedTrainer(store)
	store.addSlot(hourSlot("s1", "t1", "2025-01-16", 600))

	req := pendingRequest("r1")
	req.Date = "2025-01-16"
	req.Start = 600
	store.addRequest(req)

	w, notifier := newTestWorkflow(store)
	first, _, err := w.Approve(context.Background(), "r1", nil)
	require.NoError(t, err)

	second, _, err := w.Approve(context.Background(), "r1", nil)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, store.bookings, 1)
	// The repeat approval emits no second confirmation.
	assert.Equal(t, 1, notifier.confirmed)
}

func TestApproveExpiredRequestFails(t *testing.T) {
	store := newMemStore()
	seedTrainer(store)
	store.addSlot(hourSlot("s1", "t1", "2025-01-16", 600))

	req := pendingRequest("r1")
	req.Date = "2025-01-16"
	req.Start = 600
	req.ExpiresAt = time.Now().Add(-time.Minute)
	store.addRequest(req)

	w, _ := newTestWorkflow(store)
	_, _, err := w.Approve(context.Background(), "r1", nil)

	var badState InvalidStateTransitionError
	require.ErrorAs(t, err, &badState)
	assert.Equal(t, string(models.RequestExpired), badState.Status)

	// The lazy sweep flipped the stored status too, and the slot is intact.
	assert.Equal(t, models.RequestExpired, store.requests["r1"].Status)
	assert.False(t, store.slots["s1"].Booked)
}

func TestApproveRejectedRequestFails(t *testing.T) {
	store := newMemStore()
	seedTrainer(store)

	req := pendingRequest("r1")
	req.Status = models.RequestRejected
	store.addRequest(req)

	w, _ := newTestWorkflow(store)
	_, _, err := w.Approve(context.Background(), "r1", nil)

	var badState InvalidStateTransitionError
	assert.ErrorAs(t, err, &badState)
}

func TestApproveValidatesChosenSequence(t *testing.T) {
	store := newMemStore()
	seedTrainer(store)
	store.addSlot(hourSlot("s1", "t1", "2025-01-16", 600))
	store.addSlot(hourSlot("s3", "t1", "2025-01-16", 720)) // not adjacent to s1

	req := pendingRequest("r1")
	req.DurationMinutes = 120
	req.Date = "2025-01-16"
	req.Start = 600
	store.addRequest(req)

	w, _ := newTestWorkflow(store)
	_, _, err := w.Approve(context.Background(), "r1", []string{"s1", "s3"})
	assert.Error(t, err)
	assert.Equal(t, models.RequestPending, store.requests["r1"].Status)
}

func TestRejectPendingRequest(t *testing.T) {
	store := newMemStore()
	store.addRequest(pendingRequest("r1"))

	w, notifier := newTestWorkflow(store)
	req, err := w.Reject(context.Background(), "r1", "schedule full")
	require.NoError(t, err)

	assert.Equal(t, models.RequestRejected, req.Status)
	assert.Equal(t, "schedule full", req.RejectReason)
	assert.Equal(t, 1, notifier.rejected)

	// A second reject is an invalid transition.
	_, err = w.Reject(context.Background(), "r1", "again")
	var badState InvalidStateTransitionError
	assert.ErrorAs(t, err, &badState)
}

func TestCancelBookingReleasesSlots(t *testing.T) {
	store := newMemStore()
	slot := hourSlot("s1", "t1", "2025-01-16", 600)
	slot.Booked = true
	slot.BookingID = "b1"
	store.addSlot(slot)
	store.addBooking(models.Booking{ID: "b1", TrainerID: "t1", SlotIDs: []string{"s1"}, Status: models.BookingConfirmed})
	store.addSession(models.Session{ID: "sess1", BookingID: "b1", Status: models.SessionScheduled})

	w, notifier := newTestWorkflow(store)
	require.NoError(t, w.CancelBooking(context.Background(), "b1"))

	assert.False(t, store.slots["s1"].Booked)
	assert.Equal(t, models.BookingCancelled, store.bookings["b1"].Status)
	assert.Equal(t, 1, notifier.cancelled)

	// Cancelling again is an invalid transition.
	err := w.CancelBooking(context.Background(), "b1")
	var badState InvalidStateTransitionError
	assert.ErrorAs(t, err, &badState)
}

func TestRescheduleMovesBooking(t *testing.T) {
	store := newMemStore()
	oldSlot := hourSlot("old", "t1", "2025-01-16", 600)
	oldSlot.Booked = true
	oldSlot.BookingID = "b1"
	store.addSlot(oldSlot)
	store.addSlot(hourSlot("new", "t1", "2025-01-17", 840))
	store.addBooking(models.Booking{
		ID: "b1", TrainerID: "t1", SlotIDs: []string{"old"},
		Date: "2025-01-16", Start: 600, End: 660,
		DurationMinutes: 60, Status: models.BookingConfirmed,
	})
	store.addSession(models.Session{ID: "sess1", BookingID: "b1", Date: "2025-01-16", Start: 600, End: 660})

	w, _ := newTestWorkflow(store)
	moved, err := w.Reschedule(context.Background(), "b1", models.RescheduleInput{Date: "2025-01-17", Start: "14:00"})
	require.NoError(t, err)

	assert.Equal(t, "2025-01-17", moved.Date)
	assert.Equal(t, 840, moved.Start)
	assert.Equal(t, []string{"new"}, moved.SlotIDs)
	assert.False(t, store.slots["old"].Booked)
	assert.True(t, store.slots["new"].Booked)
}

func TestExpireRequestsSweep(t *testing.T) {
	store := newMemStore()

	stale := pendingRequest("stale")
	stale.ExpiresAt = time.Now().Add(-time.Hour)
	store.addRequest(stale)

	fresh := pendingRequest("fresh")
	store.addRequest(fresh)

	decided := pendingRequest("decided")
	decided.Status = models.RequestApproved
	decided.ExpiresAt = time.Now().Add(-time.Hour)
	store.addRequest(decided)

	w, notifier := newTestWorkflow(store)
	count, err := w.ExpireRequests(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), count)
	assert.Equal(t, models.RequestExpired, store.requests["stale"].Status)
	assert.Equal(t, models.RequestPending, store.requests["fresh"].Status)
	assert.Equal(t, models.RequestApproved, store.requests["decided"].Status)
	assert.Equal(t, int64(1), notifier.expired)

	// The sweep is idempotent.
	count, err = w.ExpireRequests(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCandidatesDirectRequestConfirmsAvailability(t *testing.T) {
	store := newMemStore()
	seedTrainer(store)
	store.addSlot(hourSlot("s1", "t1", "2025-01-16", 600))
	store.addSlot(hourSlot("s2", "t1", "2025-01-16", 660))

	req := pendingRequest("r1")
	req.DurationMinutes = 120
	req.Date = "2025-01-16"
	req.Start = 600
	store.addRequest(req)

	w, _ := newTestWorkflow(store)
	candidates, err := w.Candidates(context.Background(), "r1", 0)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, []string{"s1", "s2"}, candidates[0].SlotIDs)
	assert.Equal(t, 720, candidates[0].End)
}

func TestCandidatesRespectLimit(t *testing.T) {
	store := newMemStore()
	seedTrainer(store)
	for i := 0; i < 5; i++ {
		store.addSlot(hourSlot(string(rune('a'+i)), "t1", "2025-01-15", 480+i*60))
	}

	req := pendingRequest("r1")
	req.Preferences = &models.SchedulePreferences{StartDate: "2025-01-15", EndDate: "2025-01-15"}
	store.addRequest(req)

	w, _ := newTestWorkflow(store)
	candidates, err := w.Candidates(context.Background(), "r1", 2)
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}

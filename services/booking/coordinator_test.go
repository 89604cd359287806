package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fitbook/models"
)

func newTestCoordinator(store *memStore) *Coordinator {
	return &Coordinator{
		Repo:    &fakeSchedulerRepo{store: store},
		LockTTL: 5 * time.Minute,
		Logger:  zap.NewNop(),
	}
}

func pendingRequest(id string) models.BookingRequest {
	return models.BookingRequest{
		ID:              id,
		ClientID:        "c1",
		TrainerID:       "t1",
		DurationMinutes: 60,
		Status:          models.RequestPending,
		ExpiresAt:       time.Now().Add(time.Hour),
	}
}

func TestReserveCommitsAllSlotsAndRequest(t *testing.T) {
	store := newMemStore()
	store.addSlot(hourSlot("s1", "t1", "2025-01-16", 600))
	store.addSlot(hourSlot("s2", "t1", "2025-01-16", 660))
	store.addRequest(pendingRequest("r1"))

	booking, session, err := newTestCoordinator(store).Reserve(context.Background(), ReservationIntent{
		RequestID:       "r1",
		ClientID:        "c1",
		TrainerID:       "t1",
		SlotIDs:         []string{"s1", "s2"},
		Date:            "2025-01-16",
		Start:           600,
		End:             720,
		DurationMinutes: 120,
	})
	require.NoError(t, err)

	assert.Equal(t, models.BookingConfirmed, booking.Status)
	assert.Equal(t, models.SessionScheduled, session.Status)
	assert.Equal(t, booking.ID, session.BookingID)

	for _, id := range []string{"s1", "s2"} {
		slot := store.slots[id]
		assert.True(t, slot.Booked, "slot %s", id)
		assert.Equal(t, booking.ID, slot.BookingID)
	}
	assert.Equal(t, models.RequestApproved, store.requests["r1"].Status)
	assert.Equal(t, booking.ID, store.requests["r1"].BookingID)
}

func TestReserveFailsWhenAnySlotUnavailable(t *testing.T) {
	store := newMemStore()
	store.addSlot(hourSlot("s1", "t1", "2025-01-16", 600))
	taken := hourSlot("s2", "t1", "2025-01-16", 660)
	taken.Booked = true
	store.addSlot(taken)
	store.addRequest(pendingRequest("r1"))

	_, _, err := newTestCoordinator(store).Reserve(context.Background(), ReservationIntent{
		RequestID: "r1",
		TrainerID: "t1",
		SlotIDs:   []string{"s1", "s2"},
	})

	var unavailable SlotUnavailableError
	require.ErrorAs(t, err, &unavailable)

	// All-or-nothing: the free slot keeps no residue from the attempt.
	assert.Nil(t, store.slots["s1"].LockedUntil)
	assert.False(t, store.slots["s1"].Booked)
	assert.Empty(t, store.bookings)
	assert.Empty(t, store.sessions)
	assert.Equal(t, models.RequestPending, store.requests["r1"].Status)
}

func TestReserveRollsBackOnCommitMismatch(t *testing.T) {
	store := newMemStore()
	store.addSlot(hourSlot("s1", "t1", "2025-01-16", 600))
	store.addRequest(pendingRequest("r1"))

	// A lock-bypassing writer books the slot between the lock and commit
	// phases; the commit count check must catch it.
	store.afterLock = func() {
		s := store.slots["s1"]
		s.Booked = true
		s.BookingID = "intruder"
		store.slots["s1"] = s
	}

	_, _, err := newTestCoordinator(store).Reserve(context.Background(), ReservationIntent{
		RequestID: "r1",
		TrainerID: "t1",
		SlotIDs:   []string{"s1"},
	})

	var conflict ConcurrencyConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Empty(t, store.bookings)
	assert.Empty(t, store.sessions)
	assert.Equal(t, models.RequestPending, store.requests["r1"].Status)
}

func TestReserveConcurrentExactlyOneWins(t *testing.T) {
	store := newMemStore()
	store.addSlot(hourSlot("s1", "t1", "2025-01-16", 600))
	coordinator := newTestCoordinator(store)

	intent := ReservationIntent{
		TrainerID:       "t1",
		SlotIDs:         []string{"s1"},
		Date:            "2025-01-16",
		Start:           600,
		End:             660,
		DurationMinutes: 60,
	}

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			attempt := intent
			attempt.ClientID = string(rune('a' + i))
			_, _, errs[i] = coordinator.Reserve(context.Background(), attempt)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			var unavailable SlotUnavailableError
			assert.ErrorAs(t, err, &unavailable)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Len(t, store.bookings, 1)
	assert.True(t, store.slots["s1"].Booked)
}

func TestReleaseReturnsSlotsToPool(t *testing.T) {
	store := newMemStore()
	slot := hourSlot("s1", "t1", "2025-01-16", 600)
	slot.Booked = true
	slot.BookingID = "b1"
	store.addSlot(slot)
	store.addBooking(models.Booking{ID: "b1", SlotIDs: []string{"s1"}, Status: models.BookingConfirmed})
	store.addSession(models.Session{ID: "sess1", BookingID: "b1", Status: models.SessionScheduled})

	err := newTestCoordinator(store).Release(context.Background(), "b1")
	require.NoError(t, err)

	assert.False(t, store.slots["s1"].Booked)
	assert.Empty(t, store.slots["s1"].BookingID)
	assert.Equal(t, models.BookingCancelled, store.bookings["b1"].Status)
	assert.Equal(t, models.SessionCancelled, store.sessions["sess1"].Status)
}

func TestMoveSwapsSlotsAtomically(t *testing.T) {
	store := newMemStore()
	oldSlot := hourSlot("old", "t1", "2025-01-16", 600)
	oldSlot.Booked = true
	oldSlot.BookingID = "b1"
	store.addSlot(oldSlot)
	store.addSlot(hourSlot("new", "t1", "2025-01-17", 660))

	booking := models.Booking{
		ID: "b1", TrainerID: "t1", SlotIDs: []string{"old"},
		Date: "2025-01-16", Start: 600, End: 660,
		DurationMinutes: 60, Status: models.BookingConfirmed,
	}
	store.addBooking(booking)
	store.addSession(models.Session{ID: "sess1", BookingID: "b1", Date: "2025-01-16", Start: 600, End: 660})

	err := newTestCoordinator(store).Move(context.Background(), &booking, []string{"new"}, "2025-01-17", 660, 720)
	require.NoError(t, err)

	assert.False(t, store.slots["old"].Booked)
	assert.True(t, store.slots["new"].Booked)
	assert.Equal(t, "b1", store.slots["new"].BookingID)
	assert.Equal(t, "2025-01-17", store.bookings["b1"].Date)
	assert.Equal(t, "2025-01-17", store.sessions["sess1"].Date)
	assert.Equal(t, 660, store.sessions["sess1"].Start)
}

func TestMoveConflictLeavesOriginalIntact(t *testing.T) {
	store := newMemStore()
	oldSlot := hourSlot("old", "t1", "2025-01-16", 600)
	oldSlot.Booked = true
	oldSlot.BookingID = "b1"
	store.addSlot(oldSlot)
	taken := hourSlot("new", "t1", "2025-01-17", 660)
	taken.Booked = true
	taken.BookingID = "other"
	store.addSlot(taken)

	booking := models.Booking{
		ID: "b1", TrainerID: "t1", SlotIDs: []string{"old"},
		Date: "2025-01-16", Start: 600, End: 660, Status: models.BookingConfirmed,
	}
	store.addBooking(booking)

	err := newTestCoordinator(store).Move(context.Background(), &booking, []string{"new"}, "2025-01-17", 660, 720)

	var unavailable SlotUnavailableError
	require.ErrorAs(t, err, &unavailable)

	// The rollback restores the original reservation.
	assert.True(t, store.slots["old"].Booked)
	assert.Equal(t, "b1", store.slots["old"].BookingID)
	assert.Equal(t, "2025-01-16", store.bookings["b1"].Date)
	assert.Equal(t, "other", store.slots["new"].BookingID)
}

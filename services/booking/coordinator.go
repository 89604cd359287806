package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	schedulerRepo "fitbook/database/repository/scheduler"
	"fitbook/models"
)

// ReservationIntent carries everything the coordinator needs to turn a chosen
// slot sequence into a durable reservation.
type ReservationIntent struct {
	RequestID       string // originating request, empty for reschedules
	ClientID        string
	TrainerID       string
	SlotIDs         []string
	Date            string
	Start           int
	End             int
	DurationMinutes int
	TotalPrice      float64
	LocationKind    string
	Recurrence      *models.RecurrenceRule
}

// Coordinator owns the locking and atomic-commit protocol. It is the only
// caller of slot booked/lock mutations; every other component is read-only
// over slot state.
type Coordinator struct {
	Repo    schedulerRepo.Repository
	LockTTL time.Duration
	Logger  *zap.Logger
}

// Reserve converts the intent into a Booking and Session, or fails with no
// partial effect. Protocol:
//
//  1. Lock phase: lease every slot in one conditional update. Anything less
//     than full coverage aborts with SlotUnavailableError.
//  2. Commit phase: insert the booking, then mark every slot booked in one
//     conditional update re-checked against booked=false. A modified count
//     short of the slot count means another actor won between lock and
//     commit; the whole transaction aborts with ConcurrencyConflictError.
//
// The commit-phase count check is the authoritative safety net and runs even
// when locking succeeded, because leases expire and nothing stops a
// lock-bypassing writer.
func (c *Coordinator) Reserve(ctx context.Context, intent ReservationIntent) (*models.Booking, *models.Session, error) {
	var booking *models.Booking
	var session *models.Session

	err := c.Repo.WithTransaction(ctx, func(txCtx context.Context) error {
		b, s, err := c.reserveInTx(txCtx, intent)
		if err != nil {
			return err
		}
		booking, session = b, s
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	c.Logger.Info("reservation committed",
		zap.String("bookingId", booking.ID),
		zap.String("trainerId", intent.TrainerID),
		zap.Strings("slotIds", intent.SlotIDs),
	)
	return booking, session, nil
}

func (c *Coordinator) reserveInTx(ctx context.Context, intent ReservationIntent) (*models.Booking, *models.Session, error) {
	now := time.Now()
	expected := int64(len(intent.SlotIDs))

	locked, err := c.Repo.LockSlots(ctx, intent.SlotIDs, now.Add(c.LockTTL), now)
	if err != nil {
		return nil, nil, err
	}
	if locked != expected {
		c.Logger.Info("lock phase rejected",
			zap.Strings("slotIds", intent.SlotIDs),
			zap.Int64("locked", locked),
		)
		return nil, nil, SlotUnavailableError{SlotIDs: intent.SlotIDs}
	}

	booking := &models.Booking{
		ID:              uuid.New().String(),
		ClientID:        intent.ClientID,
		TrainerID:       intent.TrainerID,
		RequestID:       intent.RequestID,
		SlotIDs:         intent.SlotIDs,
		Date:            intent.Date,
		Start:           intent.Start,
		End:             intent.End,
		DurationMinutes: intent.DurationMinutes,
		TotalPrice:      intent.TotalPrice,
		LocationKind:    intent.LocationKind,
		Status:          models.BookingConfirmed,
		Recurrence:      intent.Recurrence,
		CreatedAt:       now,
	}
	if err := c.Repo.InsertBooking(ctx, booking); err != nil {
		return nil, nil, err
	}

	committed, err := c.Repo.CommitSlots(ctx, intent.SlotIDs, booking.ID)
	if err != nil {
		return nil, nil, err
	}
	if committed != expected {
		// Distinct log level from routine rejections so contention rate is visible.
		c.Logger.Warn("commit phase count mismatch, rolling back",
			zap.Strings("slotIds", intent.SlotIDs),
			zap.Int64("committed", committed),
			zap.Int64("expected", expected),
		)
		return nil, nil, ConcurrencyConflictError{SlotIDs: intent.SlotIDs}
	}

	session := &models.Session{
		ID:              uuid.New().String(),
		BookingID:       booking.ID,
		ClientID:        intent.ClientID,
		TrainerID:       intent.TrainerID,
		Date:            intent.Date,
		Start:           intent.Start,
		End:             intent.End,
		DurationMinutes: intent.DurationMinutes,
		Status:          models.SessionScheduled,
		CreatedAt:       now,
	}
	if err := c.Repo.InsertSession(ctx, session); err != nil {
		return nil, nil, err
	}

	if intent.RequestID != "" {
		approved, err := c.Repo.ApproveRequest(ctx, intent.RequestID, booking.ID)
		if err != nil {
			return nil, nil, err
		}
		if approved != 1 {
			return nil, nil, InvalidStateTransitionError{Entity: "request", ID: intent.RequestID, Status: "not pending"}
		}
	}
	return booking, session, nil
}

// Release cancels a booking: its slots return to the free pool and the
// booking and session flip to cancelled, atomically.
func (c *Coordinator) Release(ctx context.Context, bookingID string) error {
	err := c.Repo.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := c.Repo.ReleaseSlots(txCtx, bookingID); err != nil {
			return err
		}
		if _, err := c.Repo.UpdateBookingStatus(txCtx, bookingID, models.BookingCancelled); err != nil {
			return err
		}
		if _, err := c.Repo.UpdateSessionStatusByBooking(txCtx, bookingID, models.SessionCancelled); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.Logger.Info("booking released", zap.String("bookingId", bookingID))
	return nil
}

// Move reschedules a booking in one transaction: the old slots are released
// and the new sequence is locked and committed under the same protocol as
// Reserve, so a failure anywhere leaves the original reservation intact.
func (c *Coordinator) Move(ctx context.Context, booking *models.Booking, newSlotIDs []string, date string, start, end int) error {
	err := c.Repo.WithTransaction(ctx, func(txCtx context.Context) error {
		now := time.Now()
		expected := int64(len(newSlotIDs))

		if _, err := c.Repo.ReleaseSlots(txCtx, booking.ID); err != nil {
			return err
		}

		locked, err := c.Repo.LockSlots(txCtx, newSlotIDs, now.Add(c.LockTTL), now)
		if err != nil {
			return err
		}
		if locked != expected {
			return SlotUnavailableError{SlotIDs: newSlotIDs}
		}

		committed, err := c.Repo.CommitSlots(txCtx, newSlotIDs, booking.ID)
		if err != nil {
			return err
		}
		if committed != expected {
			c.Logger.Warn("reschedule commit count mismatch, rolling back",
				zap.String("bookingId", booking.ID),
				zap.Strings("slotIds", newSlotIDs),
			)
			return ConcurrencyConflictError{SlotIDs: newSlotIDs}
		}

		return c.Repo.MoveBooking(txCtx, booking.ID, date, start, end, newSlotIDs)
	})
	if err != nil {
		return err
	}

	c.Logger.Info("booking rescheduled",
		zap.String("bookingId", booking.ID),
		zap.String("date", date),
	)
	return nil
}

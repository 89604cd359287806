package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingRepo "fitbook/database/repository/booking"
	clientRepo "fitbook/database/repository/client"
	requestRepo "fitbook/database/repository/request"
	trainerRepo "fitbook/database/repository/trainer"
	"fitbook/models"
	"fitbook/services/notification"
	"fitbook/utils"
)

// Workflow orchestrates the booking request lifecycle:
// submit -> score -> decide -> commit/expire. Approval is the only path that
// mutates slot, booking, or session state, and it delegates that to the
// Coordinator.
type Workflow struct {
	Requests     requestRepo.Repository
	Bookings     bookingRepo.Repository
	Trainers     trainerRepo.Repository
	Clients      clientRepo.Repository
	Resolver     *Resolver
	Coordinator  *Coordinator
	Cache        *redis.Client
	Notifier     notification.Service
	ExpiryWindow time.Duration
	Logger       *zap.Logger
}

// Submit persists a new request as pending with a fixed decision window.
// Direct requests name an exact date and start; preference requests carry a
// preference descriptor and no chosen slot yet.
func (w *Workflow) Submit(ctx context.Context, input models.CreateRequestInput) (*models.BookingRequest, error) {
	if _, err := w.Trainers.GetByID(ctx, input.TrainerID); err != nil {
		return nil, fmt.Errorf("trainer %s not found: %w", input.TrainerID, err)
	}
	if _, err := w.Clients.GetByID(ctx, input.ClientID); err != nil {
		return nil, fmt.Errorf("client %s not found: %w", input.ClientID, err)
	}
	if input.DurationMinutes <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %d", input.DurationMinutes)
	}

	now := time.Now()
	req := &models.BookingRequest{
		ID:              uuid.New().String(),
		ClientID:        input.ClientID,
		TrainerID:       input.TrainerID,
		SessionType:     input.SessionType,
		DurationMinutes: input.DurationMinutes,
		Status:          models.RequestPending,
		CreatedAt:       now,
		ExpiresAt:       now.Add(w.ExpiryWindow),
	}

	switch {
	case input.Preferences != nil:
		if _, err := utils.ParseDate(input.Preferences.StartDate); err != nil {
			return nil, err
		}
		if _, err := utils.ParseDate(input.Preferences.EndDate); err != nil {
			return nil, err
		}
		req.Preferences = input.Preferences
	case input.Date != "" && input.Start != "":
		if _, err := utils.ParseDate(input.Date); err != nil {
			return nil, err
		}
		start, err := utils.ParseClock(input.Start)
		if err != nil {
			return nil, err
		}
		req.Date = input.Date
		req.Start = start
	default:
		return nil, fmt.Errorf("request needs either an exact date and start or a preference descriptor")
	}

	if err := w.Requests.Create(ctx, req); err != nil {
		return nil, err
	}

	w.Logger.Info("booking request submitted",
		zap.String("requestId", req.ID),
		zap.String("trainerId", req.TrainerID),
		zap.Bool("direct", req.IsDirect()),
	)
	return req, nil
}

// Candidates re-runs the resolver and scorer for a pending request and
// returns ranked candidates. Preference results are cached briefly; direct
// requests just confirm availability for their exact time.
func (w *Workflow) Candidates(ctx context.Context, requestID string, maxResults int) ([]models.SlotCandidate, error) {
	req, err := w.Requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := w.ensurePending(ctx, req); err != nil {
		return nil, err
	}

	now := time.Now()
	if req.IsDirect() {
		run, err := w.Resolver.ResolveDirect(ctx, req.TrainerID, req.Date, req.Start, req.DurationMinutes, now)
		if err != nil {
			return nil, err
		}
		first, last := run[0], run[len(run)-1]
		return []models.SlotCandidate{{
			SlotIDs: slotIDs(run),
			Date:    first.Date,
			Start:   first.Start,
			End:     last.End,
		}}, nil
	}

	if cached, ok := w.cachedCandidates(ctx, requestID); ok {
		return truncate(cached, maxResults), nil
	}

	candidates, err := w.Resolver.EnumerateCandidates(ctx, req.TrainerID, *req.Preferences, req.DurationMinutes, 0, now)
	if err != nil {
		return nil, err
	}

	for _, c := range candidates {
		if c.NeedsReview {
			w.Logger.Info("candidate flagged for manual review",
				zap.String("requestId", requestID),
				zap.String("date", c.Date),
				zap.Float64("score", c.Score),
			)
		}
	}

	w.storeCandidates(ctx, requestID, candidates)
	return truncate(candidates, maxResults), nil
}

// Approve commits the chosen slot sequence for a request. Idempotent: an
// already-approved request returns its existing booking and session without
// touching any state. Lock or commit conflicts leave the request pending and
// surface to the caller for re-resolution.
func (w *Workflow) Approve(ctx context.Context, requestID string, chosenSlotIDs []string) (*models.Booking, *models.Session, error) {
	req, err := w.Requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}

	if req.Status == models.RequestApproved {
		booking, err := w.Bookings.GetByRequestID(ctx, requestID)
		if err != nil {
			return nil, nil, err
		}
		session, err := w.Bookings.GetSessionByBookingID(ctx, booking.ID)
		if err != nil {
			return nil, nil, err
		}
		w.Logger.Info("approve on already-approved request, returning existing booking",
			zap.String("requestId", requestID),
			zap.String("bookingId", booking.ID),
		)
		return booking, session, nil
	}
	if err := w.ensurePending(ctx, req); err != nil {
		return nil, nil, err
	}

	now := time.Now()
	run, err := w.chooseSequence(ctx, req, chosenSlotIDs, now)
	if err != nil {
		return nil, nil, err
	}
	first, last := run[0], run[len(run)-1]

	price, err := w.sessionPrice(ctx, req.TrainerID, req.DurationMinutes)
	if err != nil {
		return nil, nil, err
	}

	booking, session, err := w.Coordinator.Reserve(ctx, ReservationIntent{
		RequestID:       req.ID,
		ClientID:        req.ClientID,
		TrainerID:       req.TrainerID,
		SlotIDs:         slotIDs(run),
		Date:            first.Date,
		Start:           first.Start,
		End:             last.End,
		DurationMinutes: req.DurationMinutes,
		TotalPrice:      price,
	})
	if err != nil {
		return nil, nil, err
	}

	w.invalidateCandidates(ctx, requestID)
	if err := w.Notifier.BookingConfirmed(ctx, booking, session); err != nil {
		w.Logger.Warn("booking confirmed event failed", zap.Error(err))
	}
	return booking, session, nil
}

// Reject moves a pending request to rejected. No slot state changes.
func (w *Workflow) Reject(ctx context.Context, requestID, reason string) (*models.BookingRequest, error) {
	updated, err := w.Requests.Reject(ctx, requestID, reason)
	if err != nil {
		return nil, err
	}
	if updated == 0 {
		req, err := w.Requests.GetByID(ctx, requestID)
		if err != nil {
			return nil, err
		}
		return nil, InvalidStateTransitionError{Entity: "request", ID: requestID, Status: string(req.Status)}
	}

	w.invalidateCandidates(ctx, requestID)
	req, err := w.Requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := w.Notifier.RequestRejected(ctx, req); err != nil {
		w.Logger.Warn("request rejected event failed", zap.Error(err))
	}
	return req, nil
}

// CancelBooking releases a booking's slots and cancels its session.
func (w *Workflow) CancelBooking(ctx context.Context, bookingID string) error {
	booking, err := w.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.Status != models.BookingConfirmed && booking.Status != models.BookingPending {
		return InvalidStateTransitionError{Entity: "booking", ID: bookingID, Status: string(booking.Status)}
	}

	if err := w.Coordinator.Release(ctx, bookingID); err != nil {
		return err
	}

	booking.Status = models.BookingCancelled
	if err := w.Notifier.BookingCancelled(ctx, booking); err != nil {
		w.Logger.Warn("booking cancelled event failed", zap.Error(err))
	}
	return nil
}

// Reschedule moves a confirmed booking to a new time as one atomic
// cancel-plus-rebook; a conflict on the new slots leaves the original
// reservation untouched.
func (w *Workflow) Reschedule(ctx context.Context, bookingID string, input models.RescheduleInput) (*models.Booking, error) {
	booking, err := w.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingConfirmed {
		return nil, InvalidStateTransitionError{Entity: "booking", ID: bookingID, Status: string(booking.Status)}
	}

	start, err := utils.ParseClock(input.Start)
	if err != nil {
		return nil, err
	}
	if _, err := utils.ParseDate(input.Date); err != nil {
		return nil, err
	}

	now := time.Now()
	run, err := w.Resolver.ResolveDirect(ctx, booking.TrainerID, input.Date, start, booking.DurationMinutes, now)
	if err != nil {
		return nil, err
	}
	first, last := run[0], run[len(run)-1]

	if err := w.Coordinator.Move(ctx, booking, slotIDs(run), first.Date, first.Start, last.End); err != nil {
		return nil, err
	}
	return w.Bookings.GetByID(ctx, bookingID)
}

// ExpireRequests sweeps pending requests past their decision window.
// Idempotent: already-decided requests are untouched.
func (w *Workflow) ExpireRequests(ctx context.Context) (int64, error) {
	count, err := w.Requests.ExpirePending(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		w.Logger.Info("expired pending requests", zap.Int64("count", count))
		if err := w.Notifier.RequestsExpired(ctx, count); err != nil {
			w.Logger.Warn("requests expired event failed", zap.Error(err))
		}
	}
	return count, nil
}

// ensurePending rejects operations on decided requests and lazily expires a
// pending request whose window has passed.
func (w *Workflow) ensurePending(ctx context.Context, req *models.BookingRequest) error {
	if req.Status != models.RequestPending {
		return InvalidStateTransitionError{Entity: "request", ID: req.ID, Status: string(req.Status)}
	}
	if req.ExpiredAt(time.Now()) {
		if _, err := w.Requests.ExpirePending(ctx, time.Now()); err != nil {
			w.Logger.Warn("lazy expiry sweep failed", zap.Error(err))
		}
		return InvalidStateTransitionError{Entity: "request", ID: req.ID, Status: string(models.RequestExpired)}
	}
	return nil
}

// chooseSequence validates a caller-chosen slot sequence, or resolves one
// when the caller left the choice to the system.
func (w *Workflow) chooseSequence(ctx context.Context, req *models.BookingRequest, chosenSlotIDs []string, now time.Time) ([]models.TimeSlot, error) {
	if len(chosenSlotIDs) > 0 {
		return w.validateSequence(ctx, req, chosenSlotIDs, now)
	}
	if req.IsDirect() {
		return w.Resolver.ResolveDirect(ctx, req.TrainerID, req.Date, req.Start, req.DurationMinutes, now)
	}

	candidates, err := w.Resolver.EnumerateCandidates(ctx, req.TrainerID, *req.Preferences, req.DurationMinutes, 1, now)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, InfeasibleDurationError{TrainerID: req.TrainerID, DurationMinutes: req.DurationMinutes}
	}
	return w.validateSequence(ctx, req, candidates[0].SlotIDs, now)
}

func (w *Workflow) validateSequence(ctx context.Context, req *models.BookingRequest, ids []string, now time.Time) ([]models.TimeSlot, error) {
	slots, err := w.Resolver.Slots.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(slots) != len(ids) {
		return nil, SlotUnavailableError{SlotIDs: ids}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Start < slots[j].Start })

	need := w.Resolver.RequiredSlotCount(req.DurationMinutes)
	if len(slots) != need {
		return nil, fmt.Errorf("sequence of %d slot(s) cannot cover %d minutes", len(slots), req.DurationMinutes)
	}
	for i, s := range slots {
		if s.TrainerID != req.TrainerID || !s.BookableAt(now) {
			return nil, SlotUnavailableError{SlotIDs: ids}
		}
		if i > 0 && (s.Date != slots[0].Date || s.Start != slots[i-1].End) {
			return nil, fmt.Errorf("slot sequence is not consecutive")
		}
	}
	return slots, nil
}

func (w *Workflow) sessionPrice(ctx context.Context, trainerID string, durationMinutes int) (float64, error) {
	trainer, err := w.Trainers.GetByID(ctx, trainerID)
	if err != nil {
		return 0, err
	}
	return trainer.HourlyRate * float64(durationMinutes) / 60, nil
}

func (w *Workflow) cachedCandidates(ctx context.Context, requestID string) ([]models.SlotCandidate, bool) {
	if w.Cache == nil {
		return nil, false
	}
	data, err := w.Cache.Get(ctx, utils.CandidateCachePrefix+requestID).Result()
	if err != nil {
		return nil, false
	}
	var candidates []models.SlotCandidate
	if err := json.Unmarshal([]byte(data), &candidates); err != nil {
		return nil, false
	}
	return candidates, true
}

func (w *Workflow) storeCandidates(ctx context.Context, requestID string, candidates []models.SlotCandidate) {
	if w.Cache == nil {
		return
	}
	data, err := json.Marshal(candidates)
	if err != nil {
		return
	}
	if err := w.Cache.Set(ctx, utils.CandidateCachePrefix+requestID, data, utils.CandidateCacheTTL).Err(); err != nil {
		w.Logger.Warn("failed to cache candidates", zap.String("requestId", requestID), zap.Error(err))
	}
}

func (w *Workflow) invalidateCandidates(ctx context.Context, requestID string) {
	if w.Cache == nil {
		return
	}
	if err := w.Cache.Del(ctx, utils.CandidateCachePrefix+requestID).Err(); err != nil {
		w.Logger.Warn("failed to drop candidate cache", zap.String("requestId", requestID), zap.Error(err))
	}
}

func truncate(candidates []models.SlotCandidate, maxResults int) []models.SlotCandidate {
	if maxResults > 0 && len(candidates) > maxResults {
		return candidates[:maxResults]
	}
	return candidates
}

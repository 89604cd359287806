// File: database/repository/scheduler/interface.go
package schedulerRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"fitbook/database"
	"fitbook/models"
)

// Repository is the only component allowed to flip a slot's booked/lock
// state. Every conditional write returns the number of documents it actually
// modified so callers can verify the full slot set was covered; relying on
// the lock alone is not enough against expired leases or lock-bypassing
// writers.
type Repository interface {
	// WithTransaction runs fn inside a single mongo session transaction.
	// The context passed to fn must be used for every store call so all
	// writes commit or abort as a unit.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// LockSlots places a lease expiry on every listed slot, conditioned on
	// each being available, unbooked, and unlocked (or holding a stale
	// lease). Returns the modified count.
	LockSlots(ctx context.Context, slotIDs []string, until, now time.Time) (int64, error)
	// UnlockSlots clears lease expiries without touching booked state.
	UnlockSlots(ctx context.Context, slotIDs []string) error
	// CommitSlots marks every listed slot booked and points it at the
	// booking, conditioned on each still being unbooked. Returns the
	// modified count; a mismatch with the expected slot count means another
	// actor won the race.
	CommitSlots(ctx context.Context, slotIDs []string, bookingID string) (int64, error)
	// ReleaseSlots returns a booking's slots to the free pool, clearing the
	// booked flag, booking reference, and any lease.
	ReleaseSlots(ctx context.Context, bookingID string) (int64, error)

	InsertBooking(ctx context.Context, booking *models.Booking) error
	InsertSession(ctx context.Context, session *models.Session) error
	UpdateBookingStatus(ctx context.Context, bookingID string, status models.BookingStatus) (int64, error)
	UpdateSessionStatusByBooking(ctx context.Context, bookingID string, status models.SessionStatus) (int64, error)
	// MoveBooking rewrites a booking's schedule fields after a reschedule.
	MoveBooking(ctx context.Context, bookingID, date string, start, end int, slotIDs []string) error
	// ApproveRequest moves a pending request to approved and records the
	// resulting booking. Returns the modified count (0 when not pending).
	ApproveRequest(ctx context.Context, requestID, bookingID string) (int64, error)
}

type mongoSchedulerRepo struct {
	client      *mongo.Client
	slotColl    *mongo.Collection
	bookingColl *mongo.Collection
	sessionColl *mongo.Collection
	requestColl *mongo.Collection
}

// NewMongoSchedulerRepo constructs the transactional scheduler repository.
func NewMongoSchedulerRepo() Repository {
	return &mongoSchedulerRepo{
		client:      database.MongoClient,
		slotColl:    database.Collection("time_slots"),
		bookingColl: database.Collection("bookings"),
		sessionColl: database.Collection("sessions"),
		requestColl: database.Collection("booking_requests"),
	}
}

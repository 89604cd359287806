package timeslotRepo

import (
	"context"
	"time"

	"fitbook/models"
)

// Repository defines read and inventory operations over the time slot pool.
// Booking and lock mutations belong to the scheduler repository; everything
// here is read-only over booked/lock state except bulk creation, deletion and
// the stale-lock reclaim sweep.
type Repository interface {
	CreateMany(ctx context.Context, slots []models.TimeSlot) ([]string, error)
	GetByID(ctx context.Context, slotID string) (*models.TimeSlot, error)
	GetByIDs(ctx context.Context, slotIDs []string) ([]models.TimeSlot, error)
	GetByTrainerAndDate(ctx context.Context, trainerID, date string) ([]models.TimeSlot, error)
	// GetBookable returns slots that are available, unbooked, and either
	// unlocked or holding an expired lease, ordered by date then start.
	GetBookable(ctx context.Context, trainerID string, dates []string, now time.Time) ([]models.TimeSlot, error)
	GetByBookingID(ctx context.Context, bookingID string) ([]models.TimeSlot, error)
	// ReclaimStaleLocks clears lock expiries that have passed on unbooked
	// slots and reports how many were cleared.
	ReclaimStaleLocks(ctx context.Context, now time.Time) (int64, error)
	DeleteByID(ctx context.Context, trainerID, slotID string) error
	EnsureIndexes(ctx context.Context) error
}

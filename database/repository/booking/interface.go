// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"fitbook/database"
	"fitbook/models"
)

// Repository reads booking and session records. Writes that touch slot state
// go through the scheduler repository's transactional operations instead.
type Repository interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByRequestID(ctx context.Context, requestID string) (*models.Booking, error)
	List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
	GetSessionByBookingID(ctx context.Context, bookingID string) (*models.Session, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoBookingRepo struct {
	bookingColl *mongo.Collection
	sessionColl *mongo.Collection
}

// NewMongoBookingRepo constructs a Repository over the bookings and sessions collections.
func NewMongoBookingRepo() Repository {
	return &mongoBookingRepo{
		bookingColl: database.Collection("bookings"),
		sessionColl: database.Collection("sessions"),
	}
}

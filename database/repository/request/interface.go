// File: database/repository/request/interface.go
package requestRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"fitbook/database"
	"fitbook/models"
)

// Repository manages booking request records. Status mutations are
// conditional on the current status being pending, so a request can never
// leave a terminal state.
type Repository interface {
	Create(ctx context.Context, req *models.BookingRequest) error
	GetByID(ctx context.Context, id string) (*models.BookingRequest, error)
	List(ctx context.Context, filter models.RequestFilter) ([]models.BookingRequest, error)
	// Reject moves a pending request to rejected, recording the reason.
	// Returns the number of documents updated (0 when not pending).
	Reject(ctx context.Context, id, reason string) (int64, error)
	// ExpirePending moves every pending request whose expiry has passed to
	// expired. Idempotent; already-decided requests are untouched.
	ExpirePending(ctx context.Context, now time.Time) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoRequestRepo struct {
	coll *mongo.Collection
}

// NewMongoRequestRepo constructs a Repository over the booking_requests collection.
func NewMongoRequestRepo() Repository {
	return &mongoRequestRepo{coll: database.Collection("booking_requests")}
}

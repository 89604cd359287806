// File: database/repository/request/crud.go
package requestRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fitbook/models"
)

func (r *mongoRequestRepo) Create(ctx context.Context, req *models.BookingRequest) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("failed to insert booking request: %w", err)
	}
	return nil
}

func (r *mongoRequestRepo) GetByID(ctx context.Context, id string) (*models.BookingRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var req models.BookingRequest
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *mongoRequestRepo) List(ctx context.Context, filter models.RequestFilter) ([]models.BookingRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.TrainerID != "" {
		query["trainerId"] = filter.TrainerID
	}
	if filter.ClientID != "" {
		query["clientId"] = filter.ClientID
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list booking requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []models.BookingRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("error decoding booking requests: %w", err)
	}
	return requests, nil
}

func (r *mongoRequestRepo) Reject(ctx context.Context, id, reason string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": models.RequestPending}
	update := bson.M{"$set": bson.M{
		"status":       models.RequestRejected,
		"rejectReason": reason,
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to reject request %s: %w", id, err)
	}
	return res.ModifiedCount, nil
}

func (r *mongoRequestRepo) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"status":    models.RequestPending,
		"expiresAt": bson.M{"$lt": now},
	}
	update := bson.M{"$set": bson.M{"status": models.RequestExpired}}
	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to expire pending requests: %w", err)
	}
	return res.ModifiedCount, nil
}

// EnsureIndexes creates the necessary indexes on the booking_requests collection.
func (r *mongoRequestRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "expiresAt", Value: 1}},
			Options: options.Index().SetName("status_expiry_idx"),
		},
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("trainer_status_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking request indexes: %w", err)
	}
	return nil
}

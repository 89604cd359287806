// File: database/repository/timeslot/crud.go
package timeslotRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fitbook/database"
	"fitbook/models"
)

type mongoTimeSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoTimeSlotRepo returns a Repository backed by the time_slots collection.
func NewMongoTimeSlotRepo() Repository {
	return &mongoTimeSlotRepo{coll: database.Collection("time_slots")}
}

func (r *mongoTimeSlotRepo) CreateMany(ctx context.Context, slots []models.TimeSlot) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	ids := make([]string, len(slots))
	docs := make([]interface{}, len(slots))
	for i, slot := range slots {
		if slot.ID == "" {
			slot.ID = uuid.New().String()
		}
		if slot.CreatedAt.IsZero() {
			slot.CreatedAt = now
		}
		ids[i] = slot.ID
		docs[i] = slot
	}

	_, err := r.coll.InsertMany(ctx, docs, &options.InsertManyOptions{Ordered: boolPtr(true)})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *mongoTimeSlotRepo) GetByID(ctx context.Context, slotID string) (*models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var slot models.TimeSlot
	err := r.coll.FindOne(ctx, bson.M{"id": slotID}).Decode(&slot)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *mongoTimeSlotRepo) GetByIDs(ctx context.Context, slotIDs []string) ([]models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": slotIDs}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var slots []models.TimeSlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *mongoTimeSlotRepo) DeleteByID(ctx context.Context, trainerID, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Booked slots stay put until their booking is cancelled.
	filter := bson.M{"id": slotID, "trainerId": trainerID, "booked": false}
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func boolPtr(b bool) *bool { return &b }

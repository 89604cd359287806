// File: database/repository/scheduler/transaction.go
package schedulerRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"fitbook/models"
)

// WithTransaction wraps fn in a mongo session transaction. fn receives a
// session-bound context; on error the whole transaction is aborted.
func (repo *mongoSchedulerRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := repo.client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return err
	}
	return nil
}

func (repo *mongoSchedulerRepo) LockSlots(ctx context.Context, slotIDs []string, until, now time.Time) (int64, error) {
	filter := bson.M{
		"id":        bson.M{"$in": slotIDs},
		"available": true,
		"booked":    false,
		"$or": []bson.M{
			{"lockedUntil": bson.M{"$exists": false}},
			{"lockedUntil": nil},
			{"lockedUntil": bson.M{"$lt": now}},
		},
	}
	update := bson.M{"$set": bson.M{"lockedUntil": until}}

	res, err := repo.slotColl.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("lock phase update failed: %w", err)
	}
	return res.ModifiedCount, nil
}

func (repo *mongoSchedulerRepo) UnlockSlots(ctx context.Context, slotIDs []string) error {
	filter := bson.M{"id": bson.M{"$in": slotIDs}, "booked": false}
	update := bson.M{"$unset": bson.M{"lockedUntil": ""}}
	if _, err := repo.slotColl.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("unlock update failed: %w", err)
	}
	return nil
}

// CommitSlots performs the authoritative conditional write. The booked
// re-check inside the same update is what defends against lock-expiry races;
// it must never be replaced by a separate read-then-write pair.
func (repo *mongoSchedulerRepo) CommitSlots(ctx context.Context, slotIDs []string, bookingID string) (int64, error) {
	filter := bson.M{
		"id":        bson.M{"$in": slotIDs},
		"available": true,
		"booked":    false,
	}
	update := bson.M{
		"$set":   bson.M{"booked": true, "bookingId": bookingID},
		"$unset": bson.M{"lockedUntil": ""},
	}

	res, err := repo.slotColl.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("commit phase update failed: %w", err)
	}
	return res.ModifiedCount, nil
}

func (repo *mongoSchedulerRepo) InsertBooking(ctx context.Context, booking *models.Booking) error {
	if _, err := repo.bookingColl.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("insert booking failed: %w", err)
	}
	return nil
}

func (repo *mongoSchedulerRepo) InsertSession(ctx context.Context, session *models.Session) error {
	if _, err := repo.sessionColl.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("insert session failed: %w", err)
	}
	return nil
}

func (repo *mongoSchedulerRepo) ApproveRequest(ctx context.Context, requestID, bookingID string) (int64, error) {
	filter := bson.M{"id": requestID, "status": models.RequestPending}
	update := bson.M{"$set": bson.M{
		"status":    models.RequestApproved,
		"bookingId": bookingID,
	}}
	res, err := repo.requestColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("approve request update failed: %w", err)
	}
	return res.ModifiedCount, nil
}

// File: database/repository/scheduler/release.go
package schedulerRepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"fitbook/models"
)

func (repo *mongoSchedulerRepo) ReleaseSlots(ctx context.Context, bookingID string) (int64, error) {
	filter := bson.M{"bookingId": bookingID}
	update := bson.M{
		"$set":   bson.M{"booked": false},
		"$unset": bson.M{"bookingId": "", "lockedUntil": ""},
	}
	res, err := repo.slotColl.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("release slots failed: %w", err)
	}
	return res.ModifiedCount, nil
}

func (repo *mongoSchedulerRepo) UpdateBookingStatus(ctx context.Context, bookingID string, status models.BookingStatus) (int64, error) {
	res, err := repo.bookingColl.UpdateOne(ctx, bson.M{"id": bookingID}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return 0, fmt.Errorf("update booking status failed: %w", err)
	}
	return res.ModifiedCount, nil
}

func (repo *mongoSchedulerRepo) UpdateSessionStatusByBooking(ctx context.Context, bookingID string, status models.SessionStatus) (int64, error) {
	res, err := repo.sessionColl.UpdateOne(ctx, bson.M{"bookingId": bookingID}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return 0, fmt.Errorf("update session status failed: %w", err)
	}
	return res.ModifiedCount, nil
}

func (repo *mongoSchedulerRepo) MoveBooking(ctx context.Context, bookingID, date string, start, end int, slotIDs []string) error {
	update := bson.M{"$set": bson.M{
		"date":    date,
		"start":   start,
		"end":     end,
		"slotIds": slotIDs,
	}}
	if _, err := repo.bookingColl.UpdateOne(ctx, bson.M{"id": bookingID}, update); err != nil {
		return fmt.Errorf("move booking failed: %w", err)
	}

	sessionUpdate := bson.M{"$set": bson.M{"date": date, "start": start, "end": end}}
	if _, err := repo.sessionColl.UpdateOne(ctx, bson.M{"bookingId": bookingID}, sessionUpdate); err != nil {
		return fmt.Errorf("move session failed: %w", err)
	}
	return nil
}

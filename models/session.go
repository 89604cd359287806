package models

import "time"

// SessionStatus mirrors the owning booking's early lifecycle and gains
// post-hoc values once the training has occurred.
type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionCancelled SessionStatus = "cancelled"
	SessionCompleted SessionStatus = "completed"
	SessionNoShow    SessionStatus = "no_show"
)

// Session is the derived training record created alongside a confirmed
// booking. It cannot exist without one; cancelling the booking cancels it.
type Session struct {
	ID              string        `bson:"id" json:"id"`
	BookingID       string        `bson:"bookingId" json:"bookingId"`
	ClientID        string        `bson:"clientId" json:"clientId"`
	TrainerID       string        `bson:"trainerId" json:"trainerId"`
	Date            string        `bson:"date" json:"date"`
	Start           int           `bson:"start" json:"start"`
	End             int           `bson:"end" json:"end"`
	DurationMinutes int           `bson:"durationMinutes" json:"durationMinutes"`
	Status          SessionStatus `bson:"status" json:"status"`

	// Post-hoc fields, mutated after the training occurs.
	ActualStart   *time.Time `bson:"actualStart,omitempty" json:"actualStart,omitempty"`
	ActualEnd     *time.Time `bson:"actualEnd,omitempty" json:"actualEnd,omitempty"`
	ClientRating  *int       `bson:"clientRating,omitempty" json:"clientRating,omitempty"`
	TrainerRating *int       `bson:"trainerRating,omitempty" json:"trainerRating,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

package models

import "time"

// BookingStatus is the lifecycle status of a confirmed reservation.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
	BookingNoShow    BookingStatus = "no_show"
)

// RecurrenceRule describes an optional repeat pattern for a booking.
type RecurrenceRule struct {
	Frequency string `bson:"frequency" json:"frequency"` // "weekly" or "biweekly"
	Count     int    `bson:"count" json:"count"`
}

// Booking represents a confirmed reservation record. It exclusively owns its
// slot set for the reservation's lifetime; each referenced TimeSlot points
// back to exactly this booking.
type Booking struct {
	ID              string          `bson:"id" json:"id"`
	ClientID        string          `bson:"clientId" json:"clientId"`
	TrainerID       string          `bson:"trainerId" json:"trainerId"`
	RequestID       string          `bson:"requestId,omitempty" json:"requestId,omitempty"` // originating request, if any
	SlotIDs         []string        `bson:"slotIds" json:"slotIds"`
	Date            string          `bson:"date" json:"date"`
	Start           int             `bson:"start" json:"start"` // minutes from midnight
	End             int             `bson:"end" json:"end"`
	DurationMinutes int             `bson:"durationMinutes" json:"durationMinutes"`
	TotalPrice      float64         `bson:"totalPrice" json:"totalPrice"`
	LocationKind    string          `bson:"locationKind,omitempty" json:"locationKind,omitempty"` // e.g., "gym", "home", "online"
	Status          BookingStatus   `bson:"status" json:"status"`
	Recurrence      *RecurrenceRule `bson:"recurrence,omitempty" json:"recurrence,omitempty"`
	CreatedAt       time.Time       `bson:"createdAt" json:"createdAt"`
}

// BookingFilter narrows booking listings.
type BookingFilter struct {
	Status    BookingStatus
	TrainerID string
	ClientID  string
	Date      string
}

// RescheduleInput defines the payload for moving a booking to a new time.
type RescheduleInput struct {
	Date  string `json:"date" binding:"required"`
	Start string `json:"start" binding:"required"` // "HH:MM"
}

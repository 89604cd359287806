package models

import "time"

// TimeSlot represents one trainer's bookable window on a calendar date.
type TimeSlot struct {
	ID          string     `bson:"id" json:"id"`
	TrainerID   string     `bson:"trainerId" json:"trainerId"`
	Date        string     `bson:"date" json:"date"`         // e.g., "2025-01-16"
	Start       int        `bson:"start" json:"start"`       // minutes from midnight (e.g., 600 for 10:00 AM)
	End         int        `bson:"end" json:"end"`           // minutes from midnight (e.g., 660 for 11:00 AM)
	Duration    int        `bson:"duration" json:"duration"` // minutes, canonically 60
	Available   bool       `bson:"available" json:"available"`
	Booked      bool       `bson:"booked" json:"booked"`
	BookingID   string     `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	LockedUntil *time.Time `bson:"lockedUntil,omitempty" json:"lockedUntil,omitempty"` // lease expiry; stale values are ignored at read time
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
}

// LockedAt reports whether the slot holds a live lease at the given instant.
// An expired lease counts as unlocked regardless of the stored value.
func (s *TimeSlot) LockedAt(now time.Time) bool {
	return s.LockedUntil != nil && s.LockedUntil.After(now)
}

// BookableAt reports whether the slot can enter the lock phase at the given instant.
func (s *TimeSlot) BookableAt(now time.Time) bool {
	return s.Available && !s.Booked && !s.LockedAt(now)
}

// SlotTemplate describes the daily layout used for bulk slot creation.
type SlotTemplate struct {
	DayStart int `json:"dayStart" binding:"required"` // minutes from midnight
	DayEnd   int `json:"dayEnd" binding:"required"`
	Duration int `json:"duration"` // minutes per slot; defaults to the configured granularity
}

// BulkCreateSlotsRequest defines the payload for setting up a trainer's slots.
type BulkCreateSlotsRequest struct {
	StartDate string       `json:"startDate" binding:"required"`
	EndDate   string       `json:"endDate" binding:"required"`
	Template  SlotTemplate `json:"template" binding:"required"`
}

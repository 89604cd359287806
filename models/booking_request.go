package models

import "time"

// RequestStatus is the lifecycle status of a booking request.
// Transitions are one-directional: pending -> approved | rejected | expired.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
	RequestExpired  RequestStatus = "expired"
)

// SchedulePreferences describes a client's fuzzy scheduling preferences for
// preference-based requests.
type SchedulePreferences struct {
	StartDate      string   `bson:"startDate" json:"startDate"` // preferred date range, inclusive
	EndDate        string   `bson:"endDate" json:"endDate"`
	PreferredTimes []string `bson:"preferredTimes,omitempty" json:"preferredTimes,omitempty"` // e.g., "10:00-12:00"
	AvoidTimes     []string `bson:"avoidTimes,omitempty" json:"avoidTimes,omitempty"`
	AllowWeekends  bool     `bson:"allowWeekends" json:"allowWeekends"`
	AllowEvenings  bool     `bson:"allowEvenings" json:"allowEvenings"`
}

// BookingRequest is a client's ask for a session, pending trainer decision.
// Exactly one of the direct fields (Date/Start) or Preferences is set.
type BookingRequest struct {
	ID              string               `bson:"id" json:"id"`
	ClientID        string               `bson:"clientId" json:"clientId"`
	TrainerID       string               `bson:"trainerId" json:"trainerId"`
	SessionType     string               `bson:"sessionType" json:"sessionType"`
	DurationMinutes int                  `bson:"durationMinutes" json:"durationMinutes"`
	Date            string               `bson:"date,omitempty" json:"date,omitempty"`   // direct requests only
	Start           int                  `bson:"start,omitempty" json:"start,omitempty"` // minutes from midnight
	Preferences     *SchedulePreferences `bson:"preferences,omitempty" json:"preferences,omitempty"`
	Status          RequestStatus        `bson:"status" json:"status"`
	RejectReason    string               `bson:"rejectReason,omitempty" json:"rejectReason,omitempty"`
	BookingID       string               `bson:"bookingId,omitempty" json:"bookingId,omitempty"` // set on approval
	CreatedAt       time.Time            `bson:"createdAt" json:"createdAt"`
	ExpiresAt       time.Time            `bson:"expiresAt" json:"expiresAt"`
}

// IsDirect reports whether the request names an exact start time.
func (r *BookingRequest) IsDirect() bool {
	return r.Preferences == nil
}

// ExpiredAt reports whether the request's decision window has passed.
func (r *BookingRequest) ExpiredAt(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// CreateRequestInput defines the payload for creating a booking request.
type CreateRequestInput struct {
	ClientID        string               `json:"clientId" binding:"required"`
	TrainerID       string               `json:"trainerId" binding:"required"`
	SessionType     string               `json:"sessionType"`
	DurationMinutes int                  `json:"durationMinutes" binding:"required"`
	Date            string               `json:"date,omitempty"`
	Start           string               `json:"start,omitempty"` // "HH:MM"
	Preferences     *SchedulePreferences `json:"preferences,omitempty"`
}

// RequestFilter narrows request listings.
type RequestFilter struct {
	Status    RequestStatus
	TrainerID string
	ClientID  string
}

package models

import "time"

// Trainer owns a pool of time slots clients book against.
type Trainer struct {
	ID         string    `bson:"id" json:"id"`
	Name       string    `bson:"name" json:"name"`
	Email      string    `bson:"email" json:"email"`
	Specialty  string    `bson:"specialty,omitempty" json:"specialty,omitempty"`
	HourlyRate float64   `bson:"hourlyRate" json:"hourlyRate"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

// CreateTrainerInput defines the payload for registering a trainer.
type CreateTrainerInput struct {
	Name       string  `json:"name" binding:"required"`
	Email      string  `json:"email" binding:"required"`
	Specialty  string  `json:"specialty"`
	HourlyRate float64 `json:"hourlyRate"`
}

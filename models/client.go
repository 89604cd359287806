package models

import "time"

// Client is the person booking training sessions.
type Client struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Goal      string    `bson:"goal,omitempty" json:"goal,omitempty"` // e.g., "strength", "mobility"
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// CreateClientInput defines the payload for registering a client.
type CreateClientInput struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
	Goal  string `json:"goal"`
}

package model

import "time"

// Desk is a bookable physical unit. The reservation scheduler only reads
// the Bookable flag; lifecycle belongs to the desks service.
type Desk struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name        string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description string    `json:"description,omitempty" bson:"description" validate:"omitempty,max=500"`
	Location    string    `json:"location,omitempty" bson:"location" validate:"omitempty,min=2,max=100"`
	Bookable    bool      `json:"bookable" bson:"bookable"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type DeskUpdate struct {
	Name        string  `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Location    *string `json:"location,omitempty" validate:"omitempty,min=2,max=100"`
	Bookable    *bool   `json:"bookable,omitempty"`
}

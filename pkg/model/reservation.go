package model

import "time"

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Reservation holds one desk for one time interval on one calendar date.
// Date is "2006-01-02", times are "15:04"; intervals are half-open, so a
// reservation ending 10:00 does not collide with one starting 10:00.
type Reservation struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	DeskID    string    `json:"desk_id" bson:"desk_id" validate:"required,mongodb"`
	OwnerID   string    `json:"owner_id,omitempty" bson:"owner_id" validate:"omitempty,mongodb"`
	Date      string    `json:"date" bson:"date" validate:"required,dateonly"`
	StartTime string    `json:"start_time" bson:"start_time" validate:"required,clocktime"`
	EndTime   string    `json:"end_time" bson:"end_time" validate:"required,clocktime"`
	Status    string    `json:"status" bson:"status" validate:"omitempty,oneof=confirmed cancelled"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// ReservationUpdate is a partial update; zero-valued fields keep the prior
// value. Changing desk, date, or either time forces full re-admission.
type ReservationUpdate struct {
	DeskID    string `json:"desk_id,omitempty" validate:"omitempty,mongodb"`
	Date      string `json:"date,omitempty" validate:"omitempty,dateonly"`
	StartTime string `json:"start_time,omitempty" validate:"omitempty,clocktime"`
	EndTime   string `json:"end_time,omitempty" validate:"omitempty,clocktime"`
}

// ReservationFilter narrows a listing; zero-valued fields match everything.
type ReservationFilter struct {
	DeskID string
	Date   string
	Status string
}

// TimeSlot is one occupied interval in an availability listing.
type TimeSlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

package model

import "time"

const (
	EventReservationCreated   = "reservation.created"
	EventReservationUpdated   = "reservation.updated"
	EventReservationCancelled = "reservation.cancelled"
	EventReservationDeleted   = "reservation.deleted"
)

// ReservationEvent is the payload published to the reservation-events topic
// after a committed state change. Publishing is best-effort and never rolls
// back the reservation itself.
type ReservationEvent struct {
	Type        string       `json:"type"`
	Reservation *Reservation `json:"reservation"`
	ActorID     string       `json:"actor_id"`
	OccurredAt  time.Time    `json:"occurred_at"`
}

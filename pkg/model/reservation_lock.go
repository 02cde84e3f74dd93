package model

import "time"

// ReservationLock is the advisory lock document guarding admission for one
// (desk, date) key. The unique _id insert is the mutual exclusion; a TTL
// index on expires_at reclaims locks abandoned by crashed requests.
type ReservationLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

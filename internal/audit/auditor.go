package audit

import (
	"context"
	"fmt"

	"deskly/pkg/kafka"
	"deskly/pkg/logger"
	"deskly/pkg/model"
)

// Auditor consumes reservation events and writes one structured audit line
// per committed state change. It is the handler side of the events topic.
type Auditor struct {
	log *logger.Logger
}

func NewAuditor(log *logger.Logger) *Auditor {
	return &Auditor{log: log}
}

// HandleMessage decodes a reservation event and records it. Malformed
// payloads and unknown event types are permanent failures so they end up in
// the DLQ instead of being retried.
func (a *Auditor) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var event model.ReservationEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("failed to decode reservation event", err)
	}

	if err := validateEvent(&event); err != nil {
		return kafka.NewPermanentError("invalid reservation event", err)
	}

	a.log.Info("Reservation audit entry",
		"event_id", msg.GetEventID(),
		"event_type", event.Type,
		"reservation_id", event.Reservation.ID,
		"desk_id", event.Reservation.DeskID,
		"owner_id", event.Reservation.OwnerID,
		"actor_id", event.ActorID,
		"date", event.Reservation.Date,
		"start_time", event.Reservation.StartTime,
		"end_time", event.Reservation.EndTime,
		"status", event.Reservation.Status,
		"occurred_at", event.OccurredAt,
	)
	return nil
}

func validateEvent(event *model.ReservationEvent) error {
	switch event.Type {
	case model.EventReservationCreated,
		model.EventReservationUpdated,
		model.EventReservationCancelled,
		model.EventReservationDeleted:
	default:
		return fmt.Errorf("unknown event type: %q", event.Type)
	}

	if event.Reservation == nil {
		return fmt.Errorf("event carries no reservation")
	}
	return nil
}

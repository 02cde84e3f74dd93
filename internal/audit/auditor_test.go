package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"deskly/pkg/kafka"
	"deskly/pkg/logger"
	"deskly/pkg/model"
)

func newTestAuditor() *Auditor {
	return NewAuditor(logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"}))
}

func eventMessage(t *testing.T, event *model.ReservationEvent) kafka.Message {
	t.Helper()
	value, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}
	return kafka.Message{
		Value:   value,
		Headers: map[string]string{kafka.HeaderEventID: "evt-1"},
	}
}

func TestHandleMessage_ValidEvent(t *testing.T) {
	auditor := newTestAuditor()

	msg := eventMessage(t, &model.ReservationEvent{
		Type: model.EventReservationCreated,
		Reservation: &model.Reservation{
			ID:        "656f1f77bcf86cd799439011",
			DeskID:    "507f1f77bcf86cd799439011",
			OwnerID:   "607f1f77bcf86cd799439011",
			Date:      "2030-06-15",
			StartTime: "09:00",
			EndTime:   "10:00",
			Status:    model.StatusConfirmed,
		},
		ActorID:    "607f1f77bcf86cd799439011",
		OccurredAt: time.Now().UTC(),
	})

	if err := auditor.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("expected event to be accepted, got %v", err)
	}
}

func TestHandleMessage_PermanentFailures(t *testing.T) {
	auditor := newTestAuditor()

	cases := []struct {
		name string
		msg  kafka.Message
	}{
		{
			name: "malformed payload",
			msg:  kafka.Message{Value: []byte("{not json"), Headers: map[string]string{}},
		},
		{
			name: "unknown event type",
			msg: eventMessage(t, &model.ReservationEvent{
				Type:        "reservation.exploded",
				Reservation: &model.Reservation{ID: "656f1f77bcf86cd799439011"},
			}),
		},
		{
			name: "missing reservation",
			msg: eventMessage(t, &model.ReservationEvent{
				Type: model.EventReservationCancelled,
			}),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := auditor.HandleMessage(context.Background(), tc.msg)
			if err == nil {
				t.Fatal("expected an error")
			}

			var publishErr *kafka.PublishError
			if !errors.As(err, &publishErr) {
				t.Fatalf("expected a classified error, got %T", err)
			}
			if publishErr.Type != kafka.ErrorTypePermanent {
				t.Fatalf("expected permanent error, got %v", publishErr.Type)
			}
		})
	}
}

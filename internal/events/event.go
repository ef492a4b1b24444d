// Package events carries booking and payment state changes to the message
// broker and to connected staff dashboards.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Type string

const (
	BookingCreated       Type = "booking.created"
	BookingStatusChanged Type = "booking.status_changed"
	BookingCancelled     Type = "booking.cancelled"
	PaymentSucceeded     Type = "payment.succeeded"
	PaymentFailed        Type = "payment.failed"
	PaymentRefunded      Type = "payment.refunded"
)

type Event struct {
	ID         string         `json:"id"`
	Type       Type           `json:"type"`
	StudioID   int64          `json:"studio_id"`
	BookingID  int64          `json:"booking_id,omitempty"`
	PaymentID  int64          `json:"payment_id,omitempty"`
	Status     string         `json:"status,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}

func New(t Type, studioID int64) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		StudioID:   studioID,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Fanout delivers an event to every publisher and joins their errors.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Emit publishes e and logs a failure instead of returning it; state changes
// are already committed when events go out.
func Emit(ctx context.Context, p Publisher, log logrus.FieldLogger, e Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		log.WithError(err).WithFields(logrus.Fields{
			"event":      e.Type,
			"studio_id":  e.StudioID,
			"booking_id": e.BookingID,
		}).Warn("event publish failed")
	}
}

package payment

import (
	"context"
	"time"

	"studiobook/internal/domain/booking"
	"studiobook/internal/domain/studio"
)

type bookingReader interface {
	GetByID(ctx context.Context, id int64) (*booking.Booking, error)
	Get(ctx context.Context, studioID, id int64) (*booking.Booking, error)
}

type studioReader interface {
	GetByID(ctx context.Context, id int64) (*studio.Studio, error)
}

// ReconcileScheduler queues a delayed gateway re-check for a payment.
type ReconcileScheduler interface {
	ScheduleReconcile(ctx context.Context, paymentID int64, delay time.Duration) error
}

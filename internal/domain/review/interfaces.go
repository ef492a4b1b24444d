package review

import (
	"context"

	"studiobook/internal/domain/booking"
)

type bookingReader interface {
	GetByID(ctx context.Context, id int64) (*booking.Booking, error)
}

package studio

import "context"

type slotInvalidator interface {
	InvalidateStudio(ctx context.Context, studioID int64) error
}

package availability

import (
	"context"

	"studiobook/internal/domain/studio"
)

type studioReader interface {
	GetByID(ctx context.Context, id int64) (*studio.Studio, error)
}

type slotInvalidator interface {
	InvalidateStudio(ctx context.Context, studioID int64) error
}

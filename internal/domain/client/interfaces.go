package client

import (
	"context"

	"studiobook/internal/domain/studio"
)

type studioReader interface {
	GetByID(ctx context.Context, id int64) (*studio.Studio, error)
}

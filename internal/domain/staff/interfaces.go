package staff

import (
	"context"
	"time"

	"studiobook/internal/domain/studio"
)

type tokenIssuer interface {
	GenerateToken(userID, studioID int64, role string) (string, time.Time, error)
}

type studioReader interface {
	GetByID(ctx context.Context, id int64) (*studio.Studio, error)
}

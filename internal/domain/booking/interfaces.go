package booking

import (
	"context"

	"studiobook/internal/cache"
	"studiobook/internal/domain/client"
	"studiobook/internal/domain/scheduling"
	"studiobook/internal/domain/studio"
)

type studioReader interface {
	GetByID(ctx context.Context, id int64) (*studio.Studio, error)
	GetRoom(ctx context.Context, studioID, roomID int64) (*studio.Room, error)
	AddOnPrices(ctx context.Context, studioID int64, ids []int64) (map[int64]float64, error)
}

type windowSource interface {
	Windows(ctx context.Context, studioID int64, dayOfWeek int) ([]scheduling.Window, error)
}

type clientResolver interface {
	Get(ctx context.Context, studioID, clientID int64) (*client.Client, error)
	GetOrCreate(ctx context.Context, studioID int64, in client.Input) (*client.Client, error)
}

type slotCache interface {
	Get(ctx context.Context, key cache.SlotKey) ([]scheduling.Interval, cache.Generation, bool, error)
	Set(ctx context.Context, key cache.SlotKey, gen cache.Generation, slots []scheduling.Interval) error
	InvalidateStudio(ctx context.Context, studioID int64) error
}

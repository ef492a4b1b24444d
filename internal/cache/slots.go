// Package cache keeps recently computed slot lists in Redis. Entries are
// advisory: booking creation always re-checks conflicts against the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"studiobook/internal/domain/scheduling"

	"github.com/redis/go-redis/v9"
)

// SlotKey identifies one slot query.
type SlotKey struct {
	StudioID        int64
	RoomID          *int64
	Date            string
	DurationMinutes int
}

func (k SlotKey) String() string {
	room := "all"
	if k.RoomID != nil {
		room = strconv.FormatInt(*k.RoomID, 10)
	}
	return fmt.Sprintf("%d:%s:%s:%d", k.StudioID, room, k.Date, k.DurationMinutes)
}

// Generation is the studio cache version observed by a read. A list computed
// after that read must be stored under the same generation, so an
// invalidation in between leaves it unreachable.
type Generation int64

type SlotCache interface {
	Get(ctx context.Context, key SlotKey) ([]scheduling.Interval, Generation, bool, error)
	Set(ctx context.Context, key SlotKey, gen Generation, slots []scheduling.Interval) error
	InvalidateStudio(ctx context.Context, studioID int64) error
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, SlotKey) ([]scheduling.Interval, Generation, bool, error) {
	return nil, 0, false, nil
}
func (Noop) Set(context.Context, SlotKey, Generation, []scheduling.Interval) error { return nil }
func (Noop) InvalidateStudio(context.Context, int64) error                         { return nil }

// Redis namespaces every studio's entries under a generation counter.
// Invalidation bumps the counter, orphaning old entries until their TTL.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl, prefix: "studiobook:slots"}
}

func (r *Redis) generationKey(studioID int64) string {
	return fmt.Sprintf("%s:gen:%d", r.prefix, studioID)
}

func (r *Redis) entryKey(gen Generation, key SlotKey) string {
	return fmt.Sprintf("%s:%d:%s", r.prefix, gen, key)
}

func (r *Redis) generation(ctx context.Context, studioID int64) (Generation, error) {
	gen, err := r.client.Get(ctx, r.generationKey(studioID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return Generation(gen), err
}

// Get returns the cached list and the generation it looked under. On a miss
// the generation is still returned for the following Set.
func (r *Redis) Get(ctx context.Context, key SlotKey) ([]scheduling.Interval, Generation, bool, error) {
	gen, err := r.generation(ctx, key.StudioID)
	if err != nil {
		return nil, 0, false, err
	}
	raw, err := r.client.Get(ctx, r.entryKey(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, gen, false, err
	}
	var slots []scheduling.Interval
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, gen, false, err
	}
	return slots, gen, true, nil
}

// Set stores slots under gen, the generation returned by the Get that missed.
func (r *Redis) Set(ctx context.Context, key SlotKey, gen Generation, slots []scheduling.Interval) error {
	if r.ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.entryKey(gen, key), raw, r.ttl).Err()
}

func (r *Redis) InvalidateStudio(ctx context.Context, studioID int64) error {
	return r.client.Incr(ctx, r.generationKey(studioID)).Err()
}

// NewRedisClient connects and pings with a short timeout.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

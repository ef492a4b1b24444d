package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studiobook/internal/domain/scheduling"
)

func newTestRedis(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, ttl), mr
}

func slotAt(hour int) scheduling.Interval {
	start := time.Date(2030, 1, 7, hour, 0, 0, 0, time.UTC)
	return scheduling.Interval{Start: start, End: start.Add(time.Hour)}
}

func TestSlotKey_String(t *testing.T) {
	room := int64(4)
	assert.Equal(t, "1:all:2026-01-05:60", SlotKey{StudioID: 1, Date: "2026-01-05", DurationMinutes: 60}.String())
	assert.Equal(t, "1:4:2026-01-05:90", SlotKey{StudioID: 1, RoomID: &room, Date: "2026-01-05", DurationMinutes: 90}.String())
}

func TestRedis_KeysAreGenerationScoped(t *testing.T) {
	r := NewRedis(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), time.Minute)
	key := SlotKey{StudioID: 3, Date: "2026-01-05", DurationMinutes: 60}

	assert.Equal(t, "studiobook:slots:gen:3", r.generationKey(3))
	assert.Equal(t, "studiobook:slots:0:3:all:2026-01-05:60", r.entryKey(0, key))
	assert.NotEqual(t, r.entryKey(0, key), r.entryKey(1, key))
}

func TestRedis_RoundTripWithTTL(t *testing.T) {
	r, mr := newTestRedis(t, 30*time.Second)
	ctx := context.Background()
	key := SlotKey{StudioID: 1, Date: "2030-01-07", DurationMinutes: 60}

	_, gen, ok, err := r.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, Generation(0), gen)

	want := []scheduling.Interval{slotAt(9), slotAt(10)}
	require.NoError(t, r.Set(ctx, key, gen, want))
	assert.Equal(t, 30*time.Second, mr.TTL(r.entryKey(gen, key)))

	got, _, ok, err := r.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.True(t, got[0].Start.Equal(want[0].Start))
	assert.True(t, got[1].End.Equal(want[1].End))

	mr.FastForward(31 * time.Second)
	_, _, ok, err = r.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_InvalidateHidesOldEntries(t *testing.T) {
	r, _ := newTestRedis(t, time.Minute)
	ctx := context.Background()
	key := SlotKey{StudioID: 1, Date: "2030-01-07", DurationMinutes: 60}
	otherStudio := SlotKey{StudioID: 2, Date: "2030-01-07", DurationMinutes: 60}

	require.NoError(t, r.Set(ctx, key, 0, []scheduling.Interval{slotAt(9)}))
	require.NoError(t, r.Set(ctx, otherStudio, 0, []scheduling.Interval{slotAt(9)}))
	require.NoError(t, r.InvalidateStudio(ctx, 1))

	_, gen, ok, err := r.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, Generation(1), gen)

	_, _, ok, err = r.Get(ctx, otherStudio)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedis_InvalidationBetweenMissAndWriteDiscardsWrite(t *testing.T) {
	r, _ := newTestRedis(t, time.Minute)
	ctx := context.Background()
	key := SlotKey{StudioID: 1, Date: "2030-01-07", DurationMinutes: 60}

	_, gen, ok, err := r.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)

	// A booking commits and clears the cache while the slow query computes.
	require.NoError(t, r.InvalidateStudio(ctx, 1))
	require.NoError(t, r.Set(ctx, key, gen, []scheduling.Interval{slotAt(15)}))

	slots, _, ok, err := r.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, slots)
}

func TestRedis_ZeroTTLSkipsWrites(t *testing.T) {
	r, mr := newTestRedis(t, 0)
	ctx := context.Background()
	key := SlotKey{StudioID: 1, Date: "2030-01-07", DurationMinutes: 60}

	require.NoError(t, r.Set(ctx, key, 0, []scheduling.Interval{slotAt(9)}))
	assert.False(t, mr.Exists(r.entryKey(0, key)))

	_, _, ok, err := r.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNoop(t *testing.T) {
	var c SlotCache = Noop{}
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, SlotKey{StudioID: 1}, 0, nil))
	slots, _, ok, err := c.Get(ctx, SlotKey{StudioID: 1})
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, slots)
	assert.NoError(t, c.InvalidateStudio(ctx, 1))
}

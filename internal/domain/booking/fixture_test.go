package booking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"studiobook/internal/cache"
	"studiobook/internal/database"
	"studiobook/internal/domain/availability"
	"studiobook/internal/domain/client"
	"studiobook/internal/domain/scheduling"
	"studiobook/internal/domain/studio"
	"studiobook/internal/events"
	"studiobook/internal/logging"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryCache struct {
	mu            sync.Mutex
	entries       map[string][]scheduling.Interval
	gen           cache.Generation
	hits          int
	invalidations int
	// onMiss runs after a miss, outside the lock.
	onMiss func()
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]scheduling.Interval{}}
}

func entryKey(gen cache.Generation, key cache.SlotKey) string {
	return fmt.Sprintf("%d:%s", gen, key)
}

func (m *memoryCache) Get(_ context.Context, key cache.SlotKey) ([]scheduling.Interval, cache.Generation, bool, error) {
	m.mu.Lock()
	gen := m.gen
	v, ok := m.entries[entryKey(gen, key)]
	if ok {
		m.hits++
	}
	hook := m.onMiss
	m.mu.Unlock()
	if !ok && hook != nil {
		hook()
	}
	return v, gen, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key cache.SlotKey, gen cache.Generation, slots []scheduling.Interval) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entryKey(gen, key)] = slots
	return nil
}

func (m *memoryCache) InvalidateStudio(context.Context, int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.invalidations++
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	db        *gorm.DB
	repo      *Repository
	svc       *Service
	studios   *studio.Repository
	studio    *studio.Studio
	client    *client.Client
	cache     *memoryCache
	publisher *recordingPublisher
	loc       *time.Location
	now       time.Time
}

func newFixture(t *testing.T, configure ...func(*studio.Studio)) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := database.OpenMemory("booking_" + uuid.NewString())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&studio.Studio{}, &studio.Room{}, &studio.AddOn{},
		&availability.Rule{}, &client.Client{},
		&Booking{}, &LineItem{},
	))

	studios := studio.NewRepository(db)
	st := studio.New("Low End Theory")
	for _, fn := range configure {
		fn(st)
	}
	require.NoError(t, studios.Create(ctx, st))

	log := logging.Discard()
	avail := availability.NewService(availability.NewRepository(db), studios, nil, log)
	// Monday 09:00-17:00 in the studio timezone.
	monday := int(time.Monday)
	_, err = avail.Replace(ctx, st.ID, []availability.RuleInput{
		{DayOfWeek: &monday, StartTime: "09:00", EndTime: "17:00"},
	})
	require.NoError(t, err)

	clients := client.NewService(client.NewRepository(db), studios, log)
	cl, err := clients.GetOrCreate(ctx, st.ID, client.Input{Email: "mc@example.com", Name: "MC Ren"})
	require.NoError(t, err)

	loc, err := st.Location()
	require.NoError(t, err)
	now := time.Date(2026, 1, 5, 8, 0, 0, 0, loc)

	repo := NewRepository(db)
	mc := newMemoryCache()
	pub := &recordingPublisher{}
	svc := NewService(repo, studios, avail, clients, mc, pub, log).
		WithClock(func() time.Time { return now })

	return &fixture{
		db:        db,
		repo:      repo,
		svc:       svc,
		studios:   studios,
		studio:    st,
		client:    cl,
		cache:     mc,
		publisher: pub,
		loc:       loc,
		now:       now,
	}
}

// at returns hh:mm on 2026-01-05 (a Monday) in the studio timezone.
func (f *fixture) at(hour, minute int) time.Time {
	return time.Date(2026, 1, 5, hour, minute, 0, 0, f.loc)
}

func (f *fixture) book(t *testing.T, start time.Time, minutes int, roomID *int64) *Booking {
	t.Helper()
	b, err := f.svc.CreateBooking(context.Background(), f.studio.ID, CreateBookingRequest{
		ClientID:        &f.client.ID,
		RoomID:          roomID,
		StartTime:       start,
		DurationMinutes: minutes,
	})
	require.NoError(t, err)
	return b
}

func (f *fixture) room(t *testing.T, name string) *studio.Room {
	t.Helper()
	r := &studio.Room{StudioID: f.studio.ID, Name: name, IsActive: true}
	require.NoError(t, f.studios.CreateRoom(context.Background(), r))
	return r
}

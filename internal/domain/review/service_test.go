package review

import (
	"context"
	"testing"
	"time"

	"studiobook/internal/database"
	"studiobook/internal/domain/booking"
	"studiobook/internal/logging"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, *Service) {
	t.Helper()
	db, err := database.OpenMemory("review_" + uuid.NewString())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&booking.Booking{}, &booking.LineItem{}, &Model{}))
	return db, NewService(NewRepository(db), booking.NewRepository(db), logging.Discard())
}

func seedBooking(t *testing.T, db *gorm.DB, studioID int64, status booking.Status) *booking.Booking {
	t.Helper()
	start := time.Date(2026, 2, 1, 15, 0, 0, 0, time.UTC)
	b := &booking.Booking{
		StudioID:        studioID,
		ClientID:        3,
		StartTime:       start,
		EndTime:         start.Add(time.Hour),
		DurationMinutes: 60,
		TotalAmount:     100,
		Status:          status,
	}
	require.NoError(t, db.Create(b).Error)
	return b
}

func TestService_Create_Gating(t *testing.T) {
	db, svc := setup(t)
	ctx := context.Background()
	completed := seedBooking(t, db, 1, booking.StatusCompleted)
	confirmed := seedBooking(t, db, 1, booking.StatusConfirmed)

	_, err := svc.Create(ctx, 999, CreateRequest{Rating: 5})
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)

	_, err = svc.Create(ctx, completed.ID, CreateRequest{Rating: 0})
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = svc.Create(ctx, completed.ID, CreateRequest{Rating: 6})
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = svc.Create(ctx, confirmed.ID, CreateRequest{Rating: 4})
	assert.ErrorIs(t, err, ErrBookingNotCompleted)

	rv, err := svc.Create(ctx, completed.ID, CreateRequest{Rating: 5, Comment: " Great room tone "})
	require.NoError(t, err)
	assert.True(t, rv.IsPublic)
	assert.Equal(t, "Great room tone", rv.Comment)
	assert.Equal(t, int64(1), rv.StudioID)
	assert.Equal(t, completed.ClientID, rv.ClientID)

	_, err = svc.Create(ctx, completed.ID, CreateRequest{Rating: 3})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestRepository_Create_UniquePerBooking(t *testing.T) {
	db, _ := setup(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &Review{StudioID: 1, BookingID: 10, ClientID: 1, Rating: 4, IsPublic: true}))
	err := repo.Create(ctx, &Review{StudioID: 1, BookingID: 10, ClientID: 1, Rating: 2, IsPublic: true})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestService_ListPublic(t *testing.T) {
	db, svc := setup(t)
	ctx := context.Background()
	hidden := false

	a := seedBooking(t, db, 1, booking.StatusCompleted)
	b := seedBooking(t, db, 1, booking.StatusCompleted)
	other := seedBooking(t, db, 2, booking.StatusCompleted)

	_, err := svc.Create(ctx, a.ID, CreateRequest{Rating: 5})
	require.NoError(t, err)
	_, err = svc.Create(ctx, b.ID, CreateRequest{Rating: 2, IsPublic: &hidden})
	require.NoError(t, err)
	_, err = svc.Create(ctx, other.ID, CreateRequest{Rating: 4})
	require.NoError(t, err)

	reviews, err := svc.ListPublic(ctx, 1, 0, 0)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, a.ID, reviews[0].BookingID)
}

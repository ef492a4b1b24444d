package review

import (
	"context"
	"strings"

	"studiobook/internal/domain/booking"

	"github.com/sirupsen/logrus"
)

type Service struct {
	repo     *Repository
	bookings bookingReader
	log      logrus.FieldLogger
}

func NewService(repo *Repository, bookings bookingReader, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, bookings: bookings, log: log}
}

// Create records the client's review of a completed booking.
func (s *Service) Create(ctx context.Context, bookingID int64, req CreateRequest) (*Review, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if req.Rating < MinRating || req.Rating > MaxRating {
		return nil, ErrInvalidRating
	}
	if b.Status != booking.StatusCompleted {
		return nil, ErrBookingNotCompleted
	}
	exists, err := s.repo.ExistsForBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	public := true
	if req.IsPublic != nil {
		public = *req.IsPublic
	}
	rv := &Review{
		StudioID:  b.StudioID,
		BookingID: b.ID,
		ClientID:  b.ClientID,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
		IsPublic:  public,
	}
	if err := s.repo.Create(ctx, rv); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"booking_id": bookingID, "rating": rv.Rating}).Info("review created")
	return rv, nil
}

func (s *Service) ListPublic(ctx context.Context, studioID int64, limit, offset int) ([]Review, error) {
	return s.repo.ListPublic(ctx, studioID, limit, offset)
}

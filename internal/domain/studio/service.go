package studio

import (
	"context"
	"fmt"
	"strings"

	"studiobook/internal/domain/pricing"
	"studiobook/internal/pkg/validator"

	"github.com/sirupsen/logrus"
)

type Service struct {
	repo  *Repository
	slots slotInvalidator
	log   logrus.FieldLogger
}

func NewService(repo *Repository, slots slotInvalidator, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, slots: slots, log: log}
}

func (s *Service) Get(ctx context.Context, id int64) (*Studio, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateSettings applies the non-nil fields of req after validating the
// resulting policy as a whole.
func (s *Service) UpdateSettings(ctx context.Context, id int64, req UpdateSettingsRequest) (*Studio, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, ErrInvalidSettings.WithMessage("Invalid studio settings: %s", describe(errs))
	}

	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		st.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		st.Email = *req.Email
	}
	if req.Phone != nil {
		st.Phone = *req.Phone
	}
	if req.Address != nil {
		st.Address = *req.Address
	}
	if req.Timezone != nil {
		st.Timezone = *req.Timezone
	}
	if req.HourlyRate != nil {
		st.HourlyRate = *req.HourlyRate
	}
	if req.BookingBufferMinutes != nil {
		st.BookingBufferMinutes = *req.BookingBufferMinutes
	}
	if req.MinBookingMinutes != nil {
		st.MinBookingMinutes = *req.MinBookingMinutes
	}
	if req.MaxBookingMinutes != nil {
		st.MaxBookingMinutes = *req.MaxBookingMinutes
	}
	if req.RequireDeposit != nil {
		st.RequireDeposit = *req.RequireDeposit
	}
	if req.DepositType != nil {
		st.DepositType = *req.DepositType
	}
	if req.DepositAmount != nil {
		st.DepositAmount = *req.DepositAmount
	}
	if req.CancellationHours != nil {
		st.CancellationHours = *req.CancellationHours
	}
	if req.CancellationFeePercent != nil {
		st.CancellationFeePercent = *req.CancellationFeePercent
	}

	if err := validatePolicy(st); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, st); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return st, nil
}

func validatePolicy(st *Studio) error {
	if st.Name == "" {
		return ErrInvalidSettings.WithMessage("Studio name is required")
	}
	if st.MaxBookingMinutes < st.MinBookingMinutes {
		return ErrInvalidSettings.WithMessage("max_booking_minutes must be at least min_booking_minutes")
	}
	if !st.DepositType.Valid() {
		return ErrInvalidSettings.WithMessage("deposit_type must be PERCENTAGE or FIXED")
	}
	if st.DepositType == pricing.DepositPercentage && st.DepositAmount > 100 {
		return ErrInvalidSettings.WithMessage("percentage deposit cannot exceed 100")
	}
	return nil
}

func (s *Service) Rooms(ctx context.Context, studioID int64) ([]Room, error) {
	if _, err := s.repo.GetByID(ctx, studioID); err != nil {
		return nil, err
	}
	return s.repo.ListRooms(ctx, studioID)
}

func (s *Service) CreateRoom(ctx context.Context, studioID int64, req CreateRoomRequest) (*Room, error) {
	if _, err := s.repo.GetByID(ctx, studioID); err != nil {
		return nil, err
	}
	room := &Room{
		StudioID:    studioID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		IsActive:    true,
	}
	if room.Name == "" {
		return nil, ErrInvalidRequest.WithMessage("Room name is required")
	}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Service) AddOns(ctx context.Context, studioID int64) ([]AddOn, error) {
	if _, err := s.repo.GetByID(ctx, studioID); err != nil {
		return nil, err
	}
	return s.repo.ListAddOns(ctx, studioID)
}

func (s *Service) CreateAddOn(ctx context.Context, studioID int64, req CreateAddOnRequest) (*AddOn, error) {
	if _, err := s.repo.GetByID(ctx, studioID); err != nil {
		return nil, err
	}
	a := &AddOn{
		StudioID:        studioID,
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		Price:           pricing.RoundCents(req.Price),
		DurationMinutes: req.DurationMinutes,
		Category:        req.Category,
		IsActive:        true,
	}
	if err := s.repo.CreateAddOn(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) invalidate(ctx context.Context, studioID int64) {
	if s.slots == nil {
		return
	}
	if err := s.slots.InvalidateStudio(ctx, studioID); err != nil {
		s.log.WithError(err).WithField("studio_id", studioID).Warn("slot cache invalidation failed")
	}
}

func describe(errs map[string]string) string {
	parts := make([]string, 0, len(errs))
	for field, tag := range errs {
		parts = append(parts, fmt.Sprintf("%s (%s)", field, tag))
	}
	return strings.Join(parts, ", ")
}

package booking

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"studiobook/internal/cache"
	"studiobook/internal/domain/client"
	"studiobook/internal/domain/pricing"
	"studiobook/internal/domain/scheduling"
	"studiobook/internal/domain/studio"
	"studiobook/internal/events"

	"github.com/sirupsen/logrus"
)

type Service struct {
	repo    *Repository
	studios studioReader
	windows windowSource
	clients clientResolver
	slots   slotCache
	events  events.Publisher
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewService(
	repo *Repository,
	studios studioReader,
	windows windowSource,
	clients clientResolver,
	slots slotCache,
	publisher events.Publisher,
	log logrus.FieldLogger,
) *Service {
	if slots == nil {
		slots = cache.Noop{}
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		repo:    repo,
		studios: studios,
		windows: windows,
		clients: clients,
		slots:   slots,
		events:  publisher,
		log:     log,
		now:     time.Now,
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func validateDuration(st *studio.Studio, minutes int) error {
	if minutes < scheduling.MinDurationMinutes {
		return ErrInvalidDuration.WithMessage("duration must be at least %d minutes", scheduling.MinDurationMinutes)
	}
	if minutes < st.MinBookingMinutes {
		return ErrInvalidDuration.WithMessage("duration must be at least %d minutes", st.MinBookingMinutes)
	}
	if minutes > st.MaxBookingMinutes {
		return ErrInvalidDuration.WithMessage("duration must be at most %d minutes", st.MaxBookingMinutes)
	}
	return nil
}

func (s *Service) checkRoom(ctx context.Context, studioID int64, roomID *int64) error {
	if roomID == nil {
		return nil
	}
	_, err := s.studios.GetRoom(ctx, studioID, *roomID)
	return err
}

// GetAvailableSlots lists the bookable start times of date for a booking of
// durationMinutes. Cached lists are re-filtered against the clock.
func (s *Service) GetAvailableSlots(ctx context.Context, studioID int64, q SlotQuery) ([]scheduling.Interval, error) {
	st, err := s.studios.GetByID(ctx, studioID)
	if err != nil {
		return nil, err
	}
	if err := validateDuration(st, q.DurationMinutes); err != nil {
		return nil, err
	}
	if err := s.checkRoom(ctx, studioID, q.RoomID); err != nil {
		return nil, err
	}
	loc, err := st.Location()
	if err != nil {
		return nil, err
	}
	day, err := scheduling.ParseDate(q.Date, loc)
	if err != nil {
		return nil, ErrInvalidDate
	}

	now := s.now()
	key := cache.SlotKey{StudioID: studioID, RoomID: q.RoomID, Date: scheduling.FormatDate(day), DurationMinutes: q.DurationMinutes}
	cached, gen, ok, err := s.slots.Get(ctx, key)
	cacheable := err == nil
	if err != nil {
		s.log.WithError(err).WithField("key", key.String()).Warn("slot cache read failed")
	} else if ok {
		return upcoming(cached, now), nil
	}

	windows, err := s.windows.Windows(ctx, studioID, int(day.Weekday()))
	if err != nil {
		return nil, err
	}
	buffer := st.Buffer()
	reservations, err := s.repo.ActiveIntervals(ctx, studioID, q.RoomID, scheduling.Dilate(scheduling.DayBounds(day), buffer))
	if err != nil {
		return nil, err
	}

	slots := scheduling.Generate(scheduling.Request{
		Day:          day,
		Windows:      windows,
		Duration:     time.Duration(q.DurationMinutes) * time.Minute,
		Now:          now,
		Reservations: reservations,
		Buffer:       buffer,
	})
	if cacheable {
		if err := s.slots.Set(ctx, key, gen, slots); err != nil {
			s.log.WithError(err).WithField("key", key.String()).Warn("slot cache write failed")
		}
	}
	return slots, nil
}

func upcoming(slots []scheduling.Interval, now time.Time) []scheduling.Interval {
	out := make([]scheduling.Interval, 0, len(slots))
	for _, sl := range slots {
		if sl.End.After(now) {
			out = append(out, sl)
		}
	}
	return out
}

func (s *Service) resolveClient(ctx context.Context, studioID int64, req CreateBookingRequest) (*client.Client, error) {
	switch {
	case req.ClientID != nil:
		return s.clients.Get(ctx, studioID, *req.ClientID)
	case req.Client != nil:
		return s.clients.GetOrCreate(ctx, studioID, *req.Client)
	default:
		return nil, ErrClientRequired
	}
}

// CreateBooking validates the request, prices it and inserts it only when the
// time range is still free.
func (s *Service) CreateBooking(ctx context.Context, studioID int64, req CreateBookingRequest) (*Booking, error) {
	st, err := s.studios.GetByID(ctx, studioID)
	if err != nil {
		return nil, err
	}
	if err := validateDuration(st, req.DurationMinutes); err != nil {
		return nil, err
	}
	start := req.StartTime.UTC().Truncate(time.Second)
	if !start.After(s.now()) {
		return nil, ErrStartInPast
	}
	if err := s.checkRoom(ctx, studioID, req.RoomID); err != nil {
		return nil, err
	}
	cl, err := s.resolveClient(ctx, studioID, req)
	if err != nil {
		return nil, err
	}

	var catalog map[int64]float64
	if len(req.ServiceIDs) > 0 {
		if catalog, err = s.studios.AddOnPrices(ctx, studioID, req.ServiceIDs); err != nil {
			return nil, err
		}
	}
	quote := pricing.Calculate(st.PricingPolicy(), req.DurationMinutes, catalog, req.ServiceIDs)

	status := StatusConfirmed
	if quote.DepositRequired {
		status = StatusPending
	}
	b := &Booking{
		StudioID:        studioID,
		ClientID:        cl.ID,
		RoomID:          req.RoomID,
		StartTime:       start,
		EndTime:         start.Add(time.Duration(req.DurationMinutes) * time.Minute),
		DurationMinutes: req.DurationMinutes,
		TotalAmount:     quote.Total,
		DepositAmount:   quote.Deposit,
		Status:          status,
		Notes:           strings.TrimSpace(req.Notes),
		Items:           lineItems(catalog, req.ServiceIDs),
	}

	if err := s.repo.CreateAtomic(ctx, b, st.Buffer()); err != nil {
		return nil, err
	}

	s.invalidate(ctx, studioID)
	s.log.WithFields(logrus.Fields{
		"studio_id":  studioID,
		"booking_id": b.ID,
		"status":     b.Status,
	}).Info("booking created")

	e := events.New(events.BookingCreated, studioID)
	e.BookingID = b.ID
	e.Status = string(b.Status)
	e.Data = map[string]any{"start_time": b.StartTime, "end_time": b.EndTime, "room_id": b.RoomID}
	events.Emit(ctx, s.events, s.log, e)
	return b, nil
}

func lineItems(catalog map[int64]float64, selected []int64) []LineItem {
	var items []LineItem
	for _, id := range selected {
		if price, ok := catalog[id]; ok {
			items = append(items, LineItem{ServiceID: id, Price: price})
		}
	}
	return items
}

func (s *Service) Get(ctx context.Context, studioID, bookingID int64) (*Booking, error) {
	return s.repo.Get(ctx, studioID, bookingID)
}

func (s *Service) ListByStudio(ctx context.Context, studioID int64, f ListFilter) ([]Booking, int64, error) {
	if f.Status != nil && !f.Status.Valid() {
		return nil, 0, ErrInvalidStatus
	}
	return s.repo.List(ctx, studioID, f)
}

// UpdateStatus applies a staff status change. Cancellation goes through
// Cancel so the fee note is always written.
func (s *Service) UpdateStatus(ctx context.Context, studioID, bookingID int64, to Status, internalNotes *string) (*Booking, error) {
	if !to.Valid() {
		return nil, ErrInvalidStatus
	}
	if to == StatusCancelled {
		reason := ""
		if internalNotes != nil {
			reason = *internalNotes
		}
		return s.Cancel(ctx, studioID, bookingID, reason)
	}

	b, err := s.repo.Get(ctx, studioID, bookingID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(b.Status, to) {
		return nil, ErrInvalidTransition.WithMessage("cannot move booking from %s to %s", b.Status, to)
	}

	updates := map[string]any{}
	if internalNotes != nil {
		updates["internal_notes"] = *internalNotes
	}
	changed, err := s.repo.Transition(ctx, b.ID, b.Status, to, updates)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, ErrConcurrentUpdate
	}

	s.invalidate(ctx, studioID)
	s.log.WithFields(logrus.Fields{
		"studio_id":  studioID,
		"booking_id": b.ID,
		"from":       b.Status,
		"to":         to,
	}).Info("booking status changed")

	e := events.New(events.BookingStatusChanged, studioID)
	e.BookingID = b.ID
	e.Status = string(to)
	e.Data = map[string]any{"from": b.Status}
	events.Emit(ctx, s.events, s.log, e)

	return s.repo.Get(ctx, studioID, bookingID)
}

// Cancel ends a booking and records whether the late-cancellation fee applies.
func (s *Service) Cancel(ctx context.Context, studioID, bookingID int64, reason string) (*Booking, error) {
	st, err := s.studios.GetByID(ctx, studioID)
	if err != nil {
		return nil, err
	}
	b, err := s.repo.Get(ctx, studioID, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status.Terminal() {
		return nil, ErrInvalidTransition.WithMessage("booking is already %s", b.Status)
	}

	now := s.now().UTC()
	hoursUntil := b.StartTime.Sub(now).Hours()
	feeApplies := hoursUntil < float64(st.CancellationHours)

	changed, err := s.repo.Transition(ctx, b.ID, b.Status, StatusCancelled, map[string]any{
		"cancelled_at":             now,
		"cancellation_fee_applies": feeApplies,
		"internal_notes":           appendNote(b.InternalNotes, cancellationNote(reason, feeApplies, st.CancellationFeePercent)),
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, ErrConcurrentUpdate
	}

	s.invalidate(ctx, studioID)
	s.log.WithFields(logrus.Fields{
		"studio_id":   studioID,
		"booking_id":  b.ID,
		"fee_applies": feeApplies,
	}).Info("booking cancelled")

	e := events.New(events.BookingCancelled, studioID)
	e.BookingID = b.ID
	e.Status = string(StatusCancelled)
	e.Data = map[string]any{"cancellation_fee_applies": feeApplies}
	events.Emit(ctx, s.events, s.log, e)

	return s.repo.Get(ctx, studioID, bookingID)
}

func cancellationNote(reason string, feeApplies bool, feePercent float64) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "No reason provided"
	}
	if feeApplies {
		return fmt.Sprintf("Cancelled: %s. Cancellation fee applies (%s%%)", reason, strconv.FormatFloat(feePercent, 'f', -1, 64))
	}
	return fmt.Sprintf("Cancelled: %s. No cancellation fee", reason)
}

func appendNote(existing, note string) string {
	if strings.TrimSpace(existing) == "" {
		return note
	}
	return existing + "\n" + note
}

func (s *Service) invalidate(ctx context.Context, studioID int64) {
	if err := s.slots.InvalidateStudio(ctx, studioID); err != nil {
		s.log.WithError(err).WithField("studio_id", studioID).Warn("slot cache invalidation failed")
	}
}

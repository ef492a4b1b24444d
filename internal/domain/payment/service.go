package payment

import (
	"context"
	"strconv"
	"strings"
	"time"

	"studiobook/internal/domain/booking"
	"studiobook/internal/domain/pricing"
	"studiobook/internal/events"
	"studiobook/internal/lock"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Config tunes the ledger's background behaviour.
type Config struct {
	// Currency is used when the studio has none configured.
	Currency string
	// ReconcileDelay is how long after creation a payment is re-checked.
	ReconcileDelay time.Duration
	// PendingTTL is how long a payment may stay unsettled before it expires.
	PendingTTL time.Duration
}

const sweepBatch = 100

type Service struct {
	repo      *Repository
	bookings  bookingReader
	studios   studioReader
	gateway   Gateway
	scheduler ReconcileScheduler
	events    events.Publisher
	cfg       Config
	log       logrus.FieldLogger
	now       func() time.Time
	refunds   *lock.KeyedMutex
}

func NewService(
	repo *Repository,
	bookings bookingReader,
	studios studioReader,
	gateway Gateway,
	scheduler ReconcileScheduler,
	publisher events.Publisher,
	cfg Config,
	log logrus.FieldLogger,
) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	return &Service{
		repo:      repo,
		bookings:  bookings,
		studios:   studios,
		gateway:   gateway,
		scheduler: scheduler,
		events:    publisher,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
		refunds:   lock.NewKeyedMutex(),
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func amountDue(b *booking.Booking, t Type) (float64, error) {
	switch t {
	case TypeDeposit:
		if b.DepositAmount <= 0 {
			return 0, ErrNothingDue.WithMessage("Booking has no deposit")
		}
		if b.DepositPaid {
			return 0, ErrAlreadyPaid.WithMessage("Deposit has already been paid")
		}
		return b.DepositAmount, nil
	case TypeFinal:
		if b.FinalPaid {
			return 0, ErrAlreadyPaid.WithMessage("Final balance has already been paid")
		}
		due := pricing.RoundCents(b.TotalAmount - b.DepositAmount)
		if due <= 0 {
			return 0, ErrNothingDue.WithMessage("Booking has no balance after the deposit")
		}
		return due, nil
	case TypeFull:
		if b.FinalPaid || b.DepositPaid {
			return 0, ErrAlreadyPaid.WithMessage("Booking is already partly or fully paid")
		}
		if b.TotalAmount <= 0 {
			return 0, ErrNothingDue
		}
		return b.TotalAmount, nil
	}
	return 0, ErrInvalidType
}

// CreatePaymentIntent opens a gateway intent for the amount t covers and
// records it as a pending payment.
func (s *Service) CreatePaymentIntent(ctx context.Context, bookingID int64, t Type) (*IntentResult, error) {
	t = Type(strings.ToUpper(string(t)))
	if !t.Valid() {
		return nil, ErrInvalidType
	}
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status == booking.StatusCancelled || b.Status == booking.StatusNoShow {
		return nil, ErrBookingNotPayable.WithMessage("Booking is %s", b.Status)
	}
	amount, err := amountDue(b, t)
	if err != nil {
		return nil, err
	}

	currency := s.cfg.Currency
	if st, err := s.studios.GetByID(ctx, b.StudioID); err != nil {
		return nil, err
	} else if st.Currency != "" {
		currency = strings.ToLower(st.Currency)
	}

	intent, err := s.gateway.CreateChargeIntent(ctx, pricing.ToMinorUnits(amount), currency, map[string]string{
		"booking_id":   strconv.FormatInt(b.ID, 10),
		"studio_id":    strconv.FormatInt(b.StudioID, 10),
		"payment_type": string(t),
	})
	if err != nil {
		return nil, ErrGateway.Wrap(err)
	}

	p := &Payment{
		BookingID: b.ID,
		StudioID:  b.StudioID,
		Amount:    amount,
		Currency:  currency,
		Type:      t,
		Status:    StatusPending,
		IntentID:  intent.ID,
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	if s.scheduler != nil {
		if err := s.scheduler.ScheduleReconcile(ctx, p.ID, s.cfg.ReconcileDelay); err != nil {
			s.log.WithError(err).WithField("payment_id", p.ID).Warn("reconcile scheduling failed")
		}
	}
	s.log.WithFields(logrus.Fields{
		"payment_id": p.ID,
		"booking_id": b.ID,
		"type":       t,
		"amount":     amount,
	}).Info("payment intent created")

	return &IntentResult{Payment: p, ClientSecret: intent.ClientSecret}, nil
}

// ConfirmPayment settles a payment after re-verifying its intent with the
// gateway. Confirming an already succeeded payment is a no-op.
func (s *Service) ConfirmPayment(ctx context.Context, paymentID int64, intentID string) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.IntentID != intentID {
		return nil, ErrIntentMismatch
	}
	switch p.Status {
	case StatusSucceeded, StatusRefunded:
		return p, nil
	case StatusFailed:
		return nil, ErrPaymentFailed.WithMessage("Payment has failed: %s", p.FailureReason)
	}

	state, err := s.gateway.RetrieveIntent(ctx, p.IntentID)
	if err != nil {
		return nil, ErrGateway.Wrap(err)
	}
	return s.apply(ctx, p, state)
}

// apply moves p according to the gateway state. Non-success outcomes are
// returned as domain errors.
func (s *Service) apply(ctx context.Context, p *Payment, state IntentState) (*Payment, error) {
	entry := s.log.WithFields(logrus.Fields{"payment_id": p.ID, "booking_id": p.BookingID, "intent_status": state.Status})

	switch state.Status {
	case IntentSucceeded:
		changed, err := s.repo.MarkSucceeded(ctx, p.ID, state.ChargeRef, s.now())
		if err != nil {
			return nil, err
		}
		if changed {
			entry.Info("payment succeeded")
			s.emit(ctx, events.PaymentSucceeded, p, StatusSucceeded)
		}
		return s.repo.GetByID(ctx, p.ID)

	case IntentProcessing:
		if _, err := s.repo.MarkProcessing(ctx, p.ID); err != nil {
			return nil, err
		}
		return nil, ErrPaymentProcessing

	case IntentCanceled:
		changed, err := s.repo.MarkFailed(ctx, p.ID, "canceled at gateway")
		if err != nil {
			return nil, err
		}
		if changed {
			entry.Warn("payment canceled")
			s.emit(ctx, events.PaymentFailed, p, StatusFailed)
		}
		return nil, ErrPaymentCanceled
	}
	return nil, ErrPaymentNotCompleted.WithMessage("Payment has not completed (%s)", state.Status)
}

// RefundKey is the gateway idempotency key for refunding a payment. It depends
// only on the payment id, so a repeated request from any process collapses
// into the first refund.
func RefundKey(paymentID int64) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("studiobook:refund:"+strconv.FormatInt(paymentID, 10))).String()
}

// Refund returns money for a succeeded payment. A nil amount refunds it in
// full. Booking paid flags are left as they are.
func (s *Service) Refund(ctx context.Context, paymentID int64, amount *float64, reason string) (*Payment, error) {
	unlock := s.refunds.Lock("refund:" + strconv.FormatInt(paymentID, 10))
	defer unlock()

	p, err := s.repo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusSucceeded {
		return nil, ErrNotRefundable.WithMessage("Payment is %s", p.Status)
	}
	if p.ChargeRef == "" {
		return nil, ErrNotRefundable.WithMessage("Payment has no charge reference")
	}

	refundAmount := p.Amount
	var minor *int64
	if amount != nil {
		a := pricing.RoundCents(*amount)
		if a <= 0 || a > p.Amount {
			return nil, ErrInvalidRefundAmount
		}
		refundAmount = a
		m := pricing.ToMinorUnits(a)
		minor = &m
	}

	refundID, err := s.gateway.Refund(ctx, p.ChargeRef, minor, RefundKey(p.ID))
	if err != nil {
		return nil, ErrGateway.Wrap(err)
	}
	changed, err := s.repo.MarkRefunded(ctx, p.ID, refundID, refundAmount, strings.TrimSpace(reason))
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, ErrConcurrentUpdate
	}

	s.log.WithFields(logrus.Fields{
		"payment_id": p.ID,
		"refund_id":  refundID,
		"amount":     refundAmount,
	}).Info("payment refunded")
	s.emit(ctx, events.PaymentRefunded, p, StatusRefunded)
	return s.repo.GetByID(ctx, p.ID)
}

// Reconcile re-checks an unsettled payment with the gateway and expires it
// once it has been pending longer than the configured TTL.
func (s *Service) Reconcile(ctx context.Context, paymentID int64) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	return s.reconcile(ctx, p, s.cfg.PendingTTL)
}

func (s *Service) reconcile(ctx context.Context, p *Payment, expireAfter time.Duration) (*Payment, error) {
	if p.Status.Settled() {
		return p, nil
	}
	state, err := s.gateway.RetrieveIntent(ctx, p.IntentID)
	if err != nil {
		return nil, ErrGateway.Wrap(err)
	}
	if state.Status == IntentSucceeded || state.Status == IntentCanceled {
		if _, err := s.apply(ctx, p, state); err != nil && state.Status == IntentSucceeded {
			return nil, err
		}
		return s.repo.GetByID(ctx, p.ID)
	}
	if state.Status == IntentProcessing {
		if _, err := s.repo.MarkProcessing(ctx, p.ID); err != nil {
			return nil, err
		}
	}

	if expireAfter > 0 && s.now().Sub(p.CreatedAt) >= expireAfter {
		changed, err := s.repo.MarkFailed(ctx, p.ID, FailureExpired)
		if err != nil {
			return nil, err
		}
		if changed {
			s.log.WithField("payment_id", p.ID).Warn("pending payment expired")
			s.emit(ctx, events.PaymentFailed, p, StatusFailed)
		}
	}
	return s.repo.GetByID(ctx, p.ID)
}

// SweepStale reconciles every unsettled payment older than olderThan and
// expires the ones pending longer than expireAfter. It returns how many
// payments it visited.
func (s *Service) SweepStale(ctx context.Context, olderThan, expireAfter time.Duration) (int, error) {
	stale, err := s.repo.ListUnsettled(ctx, s.now().Add(-olderThan), sweepBatch)
	if err != nil {
		return 0, err
	}
	visited := 0
	for i := range stale {
		if err := ctx.Err(); err != nil {
			return visited, err
		}
		if _, err := s.reconcile(ctx, &stale[i], expireAfter); err != nil {
			s.log.WithError(err).WithField("payment_id", stale[i].ID).Warn("sweep reconcile failed")
			continue
		}
		visited++
	}
	return visited, nil
}

func (s *Service) Get(ctx context.Context, paymentID int64) (*Payment, error) {
	return s.repo.GetByID(ctx, paymentID)
}

// GetForStudio loads a payment only if it belongs to studioID.
func (s *Service) GetForStudio(ctx context.Context, studioID, paymentID int64) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.StudioID != studioID {
		return nil, ErrPaymentNotFound
	}
	return p, nil
}

func (s *Service) ListByBooking(ctx context.Context, bookingID int64) ([]Payment, error) {
	return s.repo.ListByBooking(ctx, bookingID)
}

// ListForStudioBooking lists a booking's payments after checking the booking
// belongs to studioID.
func (s *Service) ListForStudioBooking(ctx context.Context, studioID, bookingID int64) ([]Payment, error) {
	if _, err := s.bookings.Get(ctx, studioID, bookingID); err != nil {
		return nil, err
	}
	return s.repo.ListByBooking(ctx, bookingID)
}

func (s *Service) emit(ctx context.Context, t events.Type, p *Payment, status Status) {
	e := events.New(t, p.StudioID)
	e.BookingID = p.BookingID
	e.PaymentID = p.ID
	e.Status = string(status)
	e.Data = map[string]any{"payment_type": p.Type, "amount": p.Amount}
	events.Emit(ctx, s.events, s.log, e)
}

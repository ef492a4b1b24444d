package payment

import (
	"context"
	"errors"
	"time"

	"studiobook/internal/domain/booking"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, p *Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Payment, error) {
	var p Payment
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repository) ListByBooking(ctx context.Context, bookingID int64) ([]Payment, error) {
	var out []Payment
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&out).Error
	return out, err
}

// ListUnsettled returns pending or processing payments created before cutoff,
// oldest first.
func (r *Repository) ListUnsettled(ctx context.Context, cutoff time.Time, limit int) ([]Payment, error) {
	var out []Payment
	err := r.db.WithContext(ctx).
		Where("status IN ? AND created_at < ?", unsettled, cutoff.UTC()).
		Order("created_at ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// MarkSucceeded settles an unsettled payment and applies its booking side
// effects in the same transaction. It reports false when the payment had
// already left PENDING/PROCESSING, in which case nothing is written.
func (r *Repository) MarkSucceeded(ctx context.Context, id int64, chargeRef string, paidAt time.Time) (bool, error) {
	var changed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}
		res := tx.Model(&Payment{}).
			Where("id = ? AND status IN ?", id, unsettled).
			Updates(map[string]any{
				"status":         StatusSucceeded,
				"charge_ref":     chargeRef,
				"paid_at":        paidAt.UTC(),
				"failure_reason": "",
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		return applyBookingEffects(tx, &p)
	})
	return changed, err
}

func applyBookingEffects(tx *gorm.DB, p *Payment) error {
	switch p.Type {
	case TypeDeposit:
		_, err := booking.MarkDepositPaidTx(tx, p.BookingID)
		return err
	case TypeFinal:
		return booking.MarkFinalPaidTx(tx, p.BookingID)
	case TypeFull:
		_, err := booking.MarkFullyPaidTx(tx, p.BookingID)
		return err
	}
	return nil
}

func (r *Repository) MarkProcessing(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Payment{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Update("status", StatusProcessing)
	return res.RowsAffected == 1, res.Error
}

func (r *Repository) MarkFailed(ctx context.Context, id int64, reason string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Payment{}).
		Where("id = ? AND status IN ?", id, unsettled).
		Updates(map[string]any{"status": StatusFailed, "failure_reason": reason})
	return res.RowsAffected == 1, res.Error
}

func (r *Repository) MarkRefunded(ctx context.Context, id int64, refundID string, amount float64, reason string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Payment{}).
		Where("id = ? AND status = ?", id, StatusSucceeded).
		Updates(map[string]any{
			"status":          StatusRefunded,
			"refund_id":       refundID,
			"refunded_amount": amount,
			"refund_reason":   reason,
		})
	return res.RowsAffected == 1, res.Error
}

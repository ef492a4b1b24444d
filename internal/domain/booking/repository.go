package booking

import (
	"context"
	"errors"
	"strconv"
	"time"

	"studiobook/internal/domain/scheduling"
	"studiobook/internal/lock"

	"gorm.io/gorm"
)

// ListFilter narrows a studio's booking list.
type ListFilter struct {
	Status *Status
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

type Repository struct {
	db    *gorm.DB
	locks *lock.KeyedMutex
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, locks: lock.NewKeyedMutex()}
}

func scopeKey(studioID int64) string {
	return "studio:" + strconv.FormatInt(studioID, 10)
}

// inScope restricts q to the reservations that share a resource with a
// booking in roomID. A room-less booking holds the whole studio, so room
// queries also see room-less bookings and studio-wide queries see all.
func inScope(q *gorm.DB, studioID int64, roomID *int64) *gorm.DB {
	q = q.Where("studio_id = ?", studioID)
	if roomID != nil {
		q = q.Where("(room_id = ? OR room_id IS NULL)", *roomID)
	}
	return q
}

func activeOverlapping(q *gorm.DB, studioID int64, roomID *int64, window scheduling.Interval) ([]scheduling.Interval, error) {
	var rows []Booking
	err := inScope(q.Model(&Booking{}), studioID, roomID).
		Select("start_time", "end_time").
		Where("status IN ?", ActiveStatuses).
		Where("start_time < ? AND end_time > ?", window.End.UTC(), window.Start.UTC()).
		Order("start_time ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]scheduling.Interval, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Interval())
	}
	return out, nil
}

// ActiveIntervals returns the time ranges held by active bookings in scope
// that overlap window.
func (r *Repository) ActiveIntervals(ctx context.Context, studioID int64, roomID *int64, window scheduling.Interval) ([]scheduling.Interval, error) {
	return activeOverlapping(r.db.WithContext(ctx), studioID, roomID, window)
}

// CreateAtomic inserts b and its line items only if no active booking in
// scope collides with it. Creations for one studio are serialized in process
// and, on postgres, across processes with a transaction advisory lock.
func (r *Repository) CreateAtomic(ctx context.Context, b *Booking, buffer time.Duration) error {
	unlock := r.locks.Lock(scopeKey(b.StudioID))
	defer unlock()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lock.AdvisoryXact(ctx, tx, lock.Key("booking", b.StudioID)); err != nil {
			return err
		}
		candidate := b.Interval()
		existing, err := activeOverlapping(tx, b.StudioID, b.RoomID, scheduling.SearchWindow(candidate, buffer))
		if err != nil {
			return err
		}
		if scheduling.Conflicts(candidate, existing, buffer) {
			return ErrSlotUnavailable
		}
		return tx.Create(b).Error
	})
}

func (r *Repository) Get(ctx context.Context, studioID, id int64) (*Booking, error) {
	var b Booking
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND studio_id = ?", id, studioID).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetByID loads a booking without a studio scope, for background jobs and
// the payment ledger.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	var b Booking
	err := r.db.WithContext(ctx).First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) List(ctx context.Context, studioID int64, f ListFilter) ([]Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&Booking{}).Where("studio_id = ?", studioID)
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.From != nil {
		q = q.Where("start_time >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("start_time < ?", f.To.UTC())
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := q.Preload("Items").Order("start_time ASC")
	if f.Limit > 0 {
		page = page.Limit(f.Limit).Offset(f.Offset)
	}
	var out []Booking
	err := page.Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Transition moves a booking from one status to another, applying extra
// column updates in the same statement. It reports false when the booking
// was no longer in from.
func (r *Repository) Transition(ctx context.Context, id int64, from, to Status, updates map[string]any) (bool, error) {
	cols := map[string]any{"status": to}
	for k, v := range updates {
		cols[k] = v
	}
	res := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(cols)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// MarkDepositPaidTx records the deposit and confirms a pending booking. It
// runs inside the caller's transaction and reports whether the booking
// moved to CONFIRMED.
func MarkDepositPaidTx(tx *gorm.DB, bookingID int64) (bool, error) {
	if err := tx.Model(&Booking{}).Where("id = ?", bookingID).Update("deposit_paid", true).Error; err != nil {
		return false, err
	}
	res := tx.Model(&Booking{}).
		Where("id = ? AND status = ?", bookingID, StatusPending).
		Update("status", StatusConfirmed)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// MarkFinalPaidTx records the balance payment inside the caller's transaction.
func MarkFinalPaidTx(tx *gorm.DB, bookingID int64) error {
	return tx.Model(&Booking{}).Where("id = ?", bookingID).Update("final_paid", true).Error
}

// MarkFullyPaidTx records a payment covering the whole total.
func MarkFullyPaidTx(tx *gorm.DB, bookingID int64) (bool, error) {
	confirmed, err := MarkDepositPaidTx(tx, bookingID)
	if err != nil {
		return false, err
	}
	return confirmed, MarkFinalPaidTx(tx, bookingID)
}

package booking

import (
	"time"

	"studiobook/internal/domain/scheduling"
)

type Booking struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	StudioID        int64     `gorm:"index:idx_bookings_studio_start,priority:1;not null" json:"studio_id"`
	ClientID        int64     `gorm:"index;not null" json:"client_id"`
	RoomID          *int64    `gorm:"index" json:"room_id,omitempty"`
	StartTime       time.Time `gorm:"index:idx_bookings_studio_start,priority:2;not null" json:"start_time"`
	EndTime         time.Time `gorm:"not null" json:"end_time"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`

	TotalAmount   float64 `gorm:"not null" json:"total_amount"`
	DepositAmount float64 `gorm:"not null" json:"deposit_amount"`
	DepositPaid   bool    `gorm:"not null" json:"deposit_paid"`
	FinalPaid     bool    `gorm:"not null" json:"final_paid"`

	Status                 Status     `gorm:"type:varchar(20);index;not null" json:"status"`
	Notes                  string     `gorm:"type:text" json:"notes,omitempty"`
	InternalNotes          string     `gorm:"type:text" json:"internal_notes,omitempty"`
	CancellationFeeApplies bool       `gorm:"not null" json:"cancellation_fee_applies"`
	CancelledAt            *time.Time `json:"cancelled_at,omitempty"`

	Items []LineItem `gorm:"foreignKey:BookingID" json:"services,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Booking) TableName() string { return "bookings" }

func (b *Booking) Interval() scheduling.Interval {
	return scheduling.Interval{Start: b.StartTime, End: b.EndTime}
}

// BalanceDue is what remains after the deposit.
func (b *Booking) BalanceDue() float64 {
	return b.TotalAmount - b.DepositAmount
}

// LineItem snapshots the price of an add-on service at booking time.
type LineItem struct {
	ID        int64   `gorm:"primaryKey" json:"id"`
	BookingID int64   `gorm:"index;not null" json:"booking_id"`
	ServiceID int64   `gorm:"not null" json:"service_id"`
	Price     float64 `gorm:"not null" json:"price"`
}

func (LineItem) TableName() string { return "booking_services" }

package payment

import "time"

type Type string

const (
	TypeDeposit Type = "DEPOSIT"
	TypeFinal   Type = "FINAL"
	TypeFull    Type = "FULL"
)

func (t Type) Valid() bool {
	return t == TypeDeposit || t == TypeFinal || t == TypeFull
}

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusSucceeded  Status = "SUCCEEDED"
	StatusFailed     Status = "FAILED"
	StatusRefunded   Status = "REFUNDED"
)

// unsettled payments may still succeed at the gateway.
var unsettled = []Status{StatusPending, StatusProcessing}

func (s Status) Settled() bool {
	return s == StatusSucceeded || s == StatusFailed || s == StatusRefunded
}

// FailureExpired marks a payment that never succeeded within the pending TTL.
const FailureExpired = "expired"

// Payment amounts are major currency units; the gateway boundary converts
// to minor units.
type Payment struct {
	ID             int64      `gorm:"primaryKey" json:"id"`
	BookingID      int64      `gorm:"index;not null" json:"booking_id"`
	StudioID       int64      `gorm:"index;not null" json:"studio_id"`
	Amount         float64    `gorm:"not null" json:"amount"`
	Currency       string     `gorm:"size:3;not null" json:"currency"`
	Type           Type       `gorm:"column:payment_type;type:varchar(20);not null" json:"payment_type"`
	Status         Status     `gorm:"type:varchar(20);index;not null" json:"status"`
	IntentID       string     `gorm:"size:255;uniqueIndex;not null" json:"intent_id"`
	ChargeRef      string     `gorm:"size:255" json:"charge_ref,omitempty"`
	RefundID       string     `gorm:"size:255" json:"refund_id,omitempty"`
	RefundedAmount float64    `gorm:"not null" json:"refunded_amount"`
	RefundReason   string     `gorm:"type:text" json:"refund_reason,omitempty"`
	FailureReason  string     `gorm:"type:text" json:"failure_reason,omitempty"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }

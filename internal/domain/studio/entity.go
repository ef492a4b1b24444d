package studio

import (
	"time"
	_ "time/tzdata"

	"studiobook/internal/domain/pricing"
)

// Defaults applied to a studio that has not been configured yet.
const (
	DefaultHourlyRate             = 100.0
	DefaultBufferMinutes          = 15
	DefaultMinBookingMinutes      = 60
	DefaultMaxBookingMinutes      = 480
	DefaultDepositPercent         = 50.0
	DefaultCancellationHours      = 24
	DefaultCancellationFeePercent = 50.0
	DefaultTimezone               = "America/New_York"
	DefaultCurrency               = "usd"
)

type Studio struct {
	ID      int64  `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:255;not null" json:"name"`
	Email   string `gorm:"size:255" json:"email,omitempty"`
	Phone   string `gorm:"size:50" json:"phone,omitempty"`
	Address string `gorm:"type:text" json:"address,omitempty"`

	Timezone string `gorm:"size:64;not null" json:"timezone"`
	Currency string `gorm:"size:3;not null" json:"currency"`

	HourlyRate             float64             `gorm:"not null" json:"hourly_rate"`
	BookingBufferMinutes   int                 `gorm:"not null" json:"booking_buffer_minutes"`
	MinBookingMinutes      int                 `gorm:"not null" json:"min_booking_minutes"`
	MaxBookingMinutes      int                 `gorm:"not null" json:"max_booking_minutes"`
	RequireDeposit         bool                `gorm:"not null" json:"require_deposit"`
	DepositType            pricing.DepositType `gorm:"type:varchar(20);not null" json:"deposit_type"`
	DepositAmount          float64             `gorm:"not null" json:"deposit_amount"`
	CancellationHours      int                 `gorm:"not null" json:"cancellation_hours"`
	CancellationFeePercent float64             `gorm:"not null" json:"cancellation_fee_percent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Studio) TableName() string { return "studios" }

// New returns a studio carrying the default booking policy.
func New(name string) *Studio {
	return &Studio{
		Name:                   name,
		Timezone:               DefaultTimezone,
		Currency:               DefaultCurrency,
		HourlyRate:             DefaultHourlyRate,
		BookingBufferMinutes:   DefaultBufferMinutes,
		MinBookingMinutes:      DefaultMinBookingMinutes,
		MaxBookingMinutes:      DefaultMaxBookingMinutes,
		RequireDeposit:         true,
		DepositType:            pricing.DepositPercentage,
		DepositAmount:          DefaultDepositPercent,
		CancellationHours:      DefaultCancellationHours,
		CancellationFeePercent: DefaultCancellationFeePercent,
	}
}

// Location resolves the studio timezone, falling back to UTC when unset.
func (s *Studio) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(s.Timezone)
}

func (s *Studio) Buffer() time.Duration {
	return time.Duration(s.BookingBufferMinutes) * time.Minute
}

func (s *Studio) PricingPolicy() pricing.Policy {
	return pricing.Policy{
		HourlyRate:     s.HourlyRate,
		RequireDeposit: s.RequireDeposit,
		DepositType:    s.DepositType,
		DepositAmount:  s.DepositAmount,
	}
}

type Room struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	StudioID    int64     `gorm:"index;not null" json:"studio_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Room) TableName() string { return "rooms" }

type Category string

const (
	CategoryRecording  Category = "RECORDING"
	CategoryMixing     Category = "MIXING"
	CategoryMastering  Category = "MASTERING"
	CategoryProduction Category = "PRODUCTION"
	CategoryOther      Category = "OTHER"
)

// AddOn is a priced extra a client can attach to a booking, such as mixing
// or mastering. Stored in the services table.
type AddOn struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	StudioID        int64     `gorm:"index;not null" json:"studio_id"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	Description     string    `gorm:"type:text" json:"description,omitempty"`
	Price           float64   `gorm:"not null" json:"price"`
	DurationMinutes int       `json:"duration_minutes"`
	Category        Category  `gorm:"type:varchar(20);not null" json:"category"`
	IsActive        bool      `gorm:"not null" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (AddOn) TableName() string { return "services" }

package studio

import "studiobook/internal/domain/pricing"

// UpdateSettingsRequest is a partial update; nil fields are left unchanged.
type UpdateSettingsRequest struct {
	Name                   *string              `json:"name" validate:"omitempty,min=1,max=255"`
	Email                  *string              `json:"email" validate:"omitempty,email"`
	Phone                  *string              `json:"phone" validate:"omitempty,max=50"`
	Address                *string              `json:"address"`
	Timezone               *string              `json:"timezone" validate:"omitempty,timezone"`
	HourlyRate             *float64             `json:"hourly_rate" validate:"omitempty,gte=0"`
	BookingBufferMinutes   *int                 `json:"booking_buffer_minutes" validate:"omitempty,gte=0,lte=240"`
	MinBookingMinutes      *int                 `json:"min_booking_minutes" validate:"omitempty,gte=30"`
	MaxBookingMinutes      *int                 `json:"max_booking_minutes" validate:"omitempty,gte=30,lte=1440"`
	RequireDeposit         *bool                `json:"require_deposit"`
	DepositType            *pricing.DepositType `json:"deposit_type" validate:"omitempty,oneof=PERCENTAGE FIXED"`
	DepositAmount          *float64             `json:"deposit_amount" validate:"omitempty,gte=0"`
	CancellationHours      *int                 `json:"cancellation_hours" validate:"omitempty,gte=0"`
	CancellationFeePercent *float64             `json:"cancellation_fee_percent" validate:"omitempty,gte=0,lte=100"`
}

type CreateRoomRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

type CreateAddOnRequest struct {
	Name            string   `json:"name" binding:"required,max=255"`
	Description     string   `json:"description"`
	Price           float64  `json:"price" binding:"gte=0"`
	DurationMinutes int      `json:"duration_minutes" binding:"gte=0"`
	Category        Category `json:"category" binding:"required,oneof=RECORDING MIXING MASTERING PRODUCTION OTHER"`
}

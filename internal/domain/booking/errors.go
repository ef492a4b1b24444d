package booking

import "studiobook/internal/pkg/apperr"

var (
	ErrBookingNotFound   = apperr.NotFound("BOOKING_NOT_FOUND", "Booking not found")
	ErrSlotUnavailable   = apperr.Conflict("BOOKING_CONFLICT", "Selected time slot is no longer available")
	ErrConcurrentUpdate  = apperr.Conflict("BOOKING_MODIFIED", "Booking was modified by another request, retry")
	ErrInvalidDuration   = apperr.Validation("INVALID_DURATION", "Invalid booking duration")
	ErrInvalidDate       = apperr.Validation("INVALID_DATE", "date must be formatted as YYYY-MM-DD")
	ErrStartInPast       = apperr.Validation("START_IN_PAST", "Booking must start in the future")
	ErrClientRequired    = apperr.Validation("CLIENT_REQUIRED", "client_id or client details are required")
	ErrInvalidStatus     = apperr.Validation("INVALID_STATUS", "Unknown booking status")
	ErrInvalidTransition = apperr.DomainState("INVALID_STATUS_TRANSITION", "Booking status cannot change this way")
)

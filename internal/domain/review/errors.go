package review

import "studiobook/internal/pkg/apperr"

var (
	ErrInvalidRating       = apperr.Validation("INVALID_RATING", "Rating must be between 1 and 5")
	ErrBookingNotCompleted = apperr.DomainState("BOOKING_NOT_COMPLETED", "Only completed bookings can be reviewed")
	ErrAlreadyReviewed     = apperr.Conflict("REVIEW_EXISTS", "This booking has already been reviewed")
)

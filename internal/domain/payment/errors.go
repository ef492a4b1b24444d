package payment

import "studiobook/internal/pkg/apperr"

var (
	ErrPaymentNotFound     = apperr.NotFound("PAYMENT_NOT_FOUND", "Payment not found")
	ErrInvalidType         = apperr.Validation("INVALID_PAYMENT_TYPE", "payment_type must be DEPOSIT, FINAL or FULL")
	ErrIntentMismatch      = apperr.Validation("PAYMENT_INTENT_MISMATCH", "Payment intent does not belong to this payment")
	ErrInvalidRefundAmount = apperr.Validation("INVALID_REFUND_AMOUNT", "Refund amount must be positive and at most the paid amount")
	ErrBookingNotPayable   = apperr.DomainState("BOOKING_NOT_PAYABLE", "Booking can no longer be paid")
	ErrNothingDue          = apperr.DomainState("NOTHING_DUE", "Nothing is due for this payment type")
	ErrAlreadyPaid         = apperr.DomainState("ALREADY_PAID", "This amount has already been paid")
	ErrPaymentFailed       = apperr.DomainState("PAYMENT_FAILED", "Payment has failed")
	ErrPaymentProcessing   = apperr.DomainState("PAYMENT_PROCESSING", "Payment is still processing")
	ErrPaymentCanceled     = apperr.DomainState("PAYMENT_CANCELED", "Payment was canceled")
	ErrPaymentNotCompleted = apperr.DomainState("PAYMENT_NOT_COMPLETED", "Payment has not completed")
	ErrNotRefundable       = apperr.DomainState("PAYMENT_NOT_REFUNDABLE", "Only succeeded payments can be refunded")
	ErrConcurrentUpdate    = apperr.Conflict("PAYMENT_MODIFIED", "Payment was modified by another request, retry")
	ErrGateway             = apperr.Unavailable("PAYMENT_GATEWAY_ERROR", "Payment gateway request failed")
)

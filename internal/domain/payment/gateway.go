package payment

import "context"

// IntentStatus is the gateway's view of a charge intent.
type IntentStatus string

const (
	IntentSucceeded             IntentStatus = "succeeded"
	IntentProcessing            IntentStatus = "processing"
	IntentCanceled              IntentStatus = "canceled"
	IntentRequiresPaymentMethod IntentStatus = "requires_payment_method"
	IntentRequiresConfirmation  IntentStatus = "requires_confirmation"
	IntentRequiresAction        IntentStatus = "requires_action"
)

type ChargeIntent struct {
	ID           string
	ClientSecret string
}

type IntentState struct {
	Status IntentStatus
	// ChargeRef identifies the captured charge once the intent succeeded.
	ChargeRef string
}

// Gateway is the external card processor. Amounts are minor units.
type Gateway interface {
	CreateChargeIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (ChargeIntent, error)
	RetrieveIntent(ctx context.Context, intentID string) (IntentState, error)
	// Refund returns the gateway refund id. A nil amount refunds the full charge.
	// Calls sharing an idempotency key must yield at most one refund.
	Refund(ctx context.Context, chargeRef string, amountMinor *int64, idempotencyKey string) (string, error)
}

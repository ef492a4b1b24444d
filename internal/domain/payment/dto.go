package payment

type CreateIntentRequest struct {
	PaymentType Type `json:"payment_type" binding:"required"`
}

type ConfirmRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
}

type RefundRequest struct {
	Amount *float64 `json:"amount" binding:"omitempty,gt=0"`
	Reason string   `json:"reason" binding:"max=500"`
}

// IntentResult carries what the client needs to finish a card payment.
type IntentResult struct {
	Payment      *Payment `json:"payment"`
	ClientSecret string   `json:"client_secret"`
}

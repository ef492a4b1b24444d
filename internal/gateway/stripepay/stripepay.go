// Package stripepay implements the payment gateway on Stripe PaymentIntents.
package stripepay

import (
	"context"
	"errors"

	"studiobook/internal/domain/payment"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

var ErrNotConfigured = errors.New("stripe secret key is not configured")

type Gateway struct {
	api *client.API
}

// New builds a gateway for secretKey. backends may be nil to use Stripe's
// production endpoints.
func New(secretKey string, backends *stripe.Backends) (*Gateway, error) {
	if secretKey == "" {
		return nil, ErrNotConfigured
	}
	api := &client.API{}
	api.Init(secretKey, backends)
	return &Gateway{api: api}, nil
}

// NewWithURL points the gateway at a Stripe-compatible server, such as
// stripe-mock or a test server.
func NewWithURL(secretKey, url string, backend stripe.BackendConfig) (*Gateway, error) {
	backend.URL = stripe.String(url)
	b := stripe.GetBackendWithConfig(stripe.APIBackend, &backend)
	return New(secretKey, &stripe.Backends{API: b, Connect: b, Uploads: b})
}

func (g *Gateway) CreateChargeIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (payment.ChargeIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return payment.ChargeIntent{}, err
	}
	return payment.ChargeIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (g *Gateway) RetrieveIntent(ctx context.Context, intentID string) (payment.IntentState, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.Get(intentID, params)
	if err != nil {
		return payment.IntentState{}, err
	}
	state := payment.IntentState{Status: payment.IntentStatus(pi.Status)}
	if pi.LatestCharge != nil {
		state.ChargeRef = pi.LatestCharge.ID
	}
	return state, nil
}

func (g *Gateway) Refund(ctx context.Context, chargeRef string, amountMinor *int64, idempotencyKey string) (string, error) {
	params := &stripe.RefundParams{Charge: stripe.String(chargeRef)}
	if amountMinor != nil {
		params.Amount = stripe.Int64(*amountMinor)
	}
	params.Context = ctx
	params.SetIdempotencyKey(idempotencyKey)

	r, err := g.api.Refunds.New(params)
	if err != nil {
		return "", err
	}
	return r.ID, nil
}

var _ payment.Gateway = (*Gateway)(nil)

// Disabled stands in for Stripe when no key is configured. Every call fails,
// which the ledger reports as a gateway error.
type Disabled struct{}

func (Disabled) CreateChargeIntent(context.Context, int64, string, map[string]string) (payment.ChargeIntent, error) {
	return payment.ChargeIntent{}, ErrNotConfigured
}

func (Disabled) RetrieveIntent(context.Context, string) (payment.IntentState, error) {
	return payment.IntentState{}, ErrNotConfigured
}

func (Disabled) Refund(context.Context, string, *int64, string) (string, error) {
	return "", ErrNotConfigured
}

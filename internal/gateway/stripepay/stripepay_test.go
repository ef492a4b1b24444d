package stripepay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"studiobook/internal/domain/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
)

type recorded struct {
	method, path, idempotencyKey string
	form                         map[string]string
}

type stripeStub struct {
	mu       sync.Mutex
	requests []recorded
}

func (s *stripeStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	rec := recorded{method: r.Method, path: r.URL.Path, idempotencyKey: r.Header.Get("Idempotency-Key"), form: map[string]string{}}
	for k := range r.PostForm {
		rec.form[k] = r.PostForm.Get(k)
	}
	s.mu.Lock()
	s.requests = append(s.requests, rec)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	var body map[string]any
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/v1/payment_intents":
		body = map[string]any{"id": "pi_123", "object": "payment_intent", "client_secret": "pi_123_secret_abc", "status": "requires_payment_method"}
	case r.Method == http.MethodGet && r.URL.Path == "/v1/payment_intents/pi_123":
		body = map[string]any{"id": "pi_123", "object": "payment_intent", "status": "succeeded", "latest_charge": "ch_456"}
	case r.Method == http.MethodGet && r.URL.Path == "/v1/payment_intents/pi_missing":
		w.WriteHeader(http.StatusNotFound)
		body = map[string]any{"error": map[string]any{"type": "invalid_request_error", "message": "No such payment_intent"}}
	case r.Method == http.MethodPost && r.URL.Path == "/v1/refunds":
		body = map[string]any{"id": "re_789", "object": "refund", "status": "succeeded"}
	default:
		w.WriteHeader(http.StatusNotFound)
		body = map[string]any{"error": map[string]any{"type": "invalid_request_error", "message": "unknown route"}}
	}
	_ = json.NewEncoder(w).Encode(body)
}

func newTestGateway(t *testing.T) (*Gateway, *stripeStub) {
	t.Helper()
	stub := &stripeStub{}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	gw, err := NewWithURL("sk_test_123", srv.URL, stripe.BackendConfig{
		HTTPClient:        srv.Client(),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	require.NoError(t, err)
	return gw, stub
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := New("", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)

	var gw payment.Gateway = Disabled{}
	_, err = gw.RetrieveIntent(context.Background(), "pi_1")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGateway_CreateChargeIntent(t *testing.T) {
	gw, stub := newTestGateway(t)

	intent, err := gw.CreateChargeIntent(context.Background(), 12500, "usd", map[string]string{"booking_id": "7"})
	require.NoError(t, err)
	assert.Equal(t, payment.ChargeIntent{ID: "pi_123", ClientSecret: "pi_123_secret_abc"}, intent)

	require.Len(t, stub.requests, 1)
	req := stub.requests[0]
	assert.Equal(t, "12500", req.form["amount"])
	assert.Equal(t, "usd", req.form["currency"])
	assert.Equal(t, "7", req.form["metadata[booking_id]"])
	assert.Equal(t, "true", req.form["automatic_payment_methods[enabled]"])
	assert.NotEmpty(t, req.idempotencyKey)
}

func TestGateway_RetrieveIntent(t *testing.T) {
	gw, _ := newTestGateway(t)

	state, err := gw.RetrieveIntent(context.Background(), "pi_123")
	require.NoError(t, err)
	assert.Equal(t, payment.IntentSucceeded, state.Status)
	assert.Equal(t, "ch_456", state.ChargeRef)

	_, err = gw.RetrieveIntent(context.Background(), "pi_missing")
	assert.Error(t, err)
}

func TestGateway_Refund(t *testing.T) {
	gw, stub := newTestGateway(t)

	amount := int64(5000)
	id, err := gw.Refund(context.Background(), "ch_456", &amount, payment.RefundKey(7))
	require.NoError(t, err)
	assert.Equal(t, "re_789", id)

	_, err = gw.Refund(context.Background(), "ch_456", nil, payment.RefundKey(8))
	require.NoError(t, err)

	require.Len(t, stub.requests, 2)
	assert.Equal(t, "ch_456", stub.requests[0].form["charge"])
	assert.Equal(t, "5000", stub.requests[0].form["amount"])
	assert.Equal(t, payment.RefundKey(7), stub.requests[0].idempotencyKey)
	assert.Equal(t, payment.RefundKey(8), stub.requests[1].idempotencyKey)
	_, hasAmount := stub.requests[1].form["amount"]
	assert.False(t, hasAmount)
}

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studiobook/internal/config"
	"studiobook/internal/database"
	"studiobook/internal/domain/booking"
	"studiobook/internal/domain/payment"
	"studiobook/internal/domain/staff"
	"studiobook/internal/domain/studio"
	"studiobook/internal/events"
	"studiobook/internal/logging"
	"studiobook/internal/pkg/jwt"
)

type stubGateway struct {
	mu      sync.Mutex
	created int
}

func (g *stubGateway) CreateChargeIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (payment.ChargeIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.created++
	id := fmt.Sprintf("pi_test_%d", g.created)
	return payment.ChargeIntent{ID: id, ClientSecret: id + "_secret"}, nil
}

func (g *stubGateway) RetrieveIntent(ctx context.Context, intentID string) (payment.IntentState, error) {
	return payment.IntentState{Status: payment.IntentSucceeded, ChargeRef: "ch_" + intentID}, nil
}

func (g *stubGateway) Refund(ctx context.Context, chargeRef string, amountMinor *int64, idempotencyKey string) (string, error) {
	return "re_" + chargeRef, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type apiFixture struct {
	t        *testing.T
	router   *gin.Engine
	studio   *studio.Studio
	other    *studio.Studio
	jwt      *jwt.Service
	ownerJWT string
}

func testConfig() *config.Config {
	return &config.Config{
		AppVersion:          "test",
		CORSOrigins:         "http://localhost:3000",
		JWTSecret:           "test-secret",
		JWTTTL:              time.Hour,
		PaymentCurrency:     "usd",
		ReconcileDelay:      15 * time.Minute,
		PaymentPendingTTL:   24 * time.Hour,
		RateAPIPerMinute:    1000,
		RateBookingsPerHour: 100,
		RatePaymentsPerHour: 100,
	}
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenMemory("server_" + uuid.NewString())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	cfg := testConfig()
	d := Deps{
		Config:  cfg,
		DB:      db,
		Log:     logging.Discard(),
		JWT:     jwt.New(cfg.JWTSecret, cfg.JWTTTL),
		Hub:     events.NewHub(),
		Gateway: &stubGateway{},
	}
	d.Publisher = d.Hub
	app, err := NewApp(d)
	require.NoError(t, err)

	ctx := context.Background()
	studios := studio.NewRepository(db)
	s := studio.New("Blue Room Studios")
	require.NoError(t, studios.Create(ctx, s))
	other := studio.New("Elsewhere")
	require.NoError(t, studios.Create(ctx, other))

	_, err = app.Staff.Create(ctx, s.ID, staff.CreateRequest{
		Email:    "owner@blueroom.test",
		Password: "correct-horse",
		Name:     "Owner",
		Role:     staff.RoleOwner,
	})
	require.NoError(t, err)

	f := &apiFixture{t: t, router: NewRouter(d, app), studio: s, other: other, jwt: d.JWT}

	res := f.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "owner@blueroom.test",
		"password": "correct-horse",
	})
	require.True(t, res.Success, "login failed")
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &login))
	f.ownerJWT = login.Token
	return f
}

func (f *apiFixture) request(method, path, token string, body any) *httptest.ResponseRecorder {
	f.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(f.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) do(method, path, token string, body any) envelope {
	f.t.Helper()
	w := f.request(method, path, token, body)
	var env envelope
	require.NoError(f.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func (f *apiFixture) studioPath(format string, args ...any) string {
	return fmt.Sprintf("/api/v1/studios/%d", f.studio.ID) + fmt.Sprintf(format, args...)
}

// nextMonday returns 10:00 studio time on a Monday at least a week out.
func nextMonday(t *testing.T, s *studio.Studio) time.Time {
	loc, err := s.Location()
	require.NoError(t, err)
	day := time.Now().In(loc).AddDate(0, 0, 7)
	for day.Weekday() != time.Monday {
		day = day.AddDate(0, 0, 1)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 10, 0, 0, 0, loc)
}

func TestHealth(t *testing.T) {
	f := newAPIFixture(t)
	w := f.request(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestStaffRoutes_RequireMatchingStudio(t *testing.T) {
	f := newAPIFixture(t)

	w := f.request(http.MethodGet, f.studioPath("/bookings"), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.request(http.MethodGet, fmt.Sprintf("/api/v1/studios/%d/bookings", f.other.ID), f.ownerJWT, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	staffToken, _, err := f.jwt.GenerateToken(99, f.studio.ID, string(staff.RoleStaff))
	require.NoError(t, err)
	w = f.request(http.MethodPut, f.studioPath("/availability"), staffToken, gin.H{"rules": []gin.H{}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.request(http.MethodGet, f.studioPath("/bookings"), staffToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBookingLifecycle(t *testing.T) {
	f := newAPIFixture(t)

	rules := make([]gin.H, 0, 7)
	for day := 0; day < 7; day++ {
		rules = append(rules, gin.H{"day_of_week": day, "start_time": "09:00", "end_time": "17:00"})
	}
	res := f.do(http.MethodPut, f.studioPath("/availability"), f.ownerJWT, gin.H{"rules": rules})
	require.True(t, res.Success)

	start := nextMonday(t, f.studio)

	res = f.do(http.MethodGet, f.studioPath("/slots?date=%s&duration=120", start.Format("2006-01-02")), "", nil)
	require.True(t, res.Success)
	var slots struct {
		Slots []json.RawMessage `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &slots))
	assert.Len(t, slots.Slots, 13)

	body := gin.H{
		"client":           gin.H{"email": "artist@example.com", "name": "Artist"},
		"start_time":       start.Format(time.RFC3339),
		"duration_minutes": 120,
		"notes":            "vocals",
	}
	w := f.request(http.MethodPost, f.studioPath("/bookings"), "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Booking booking.Booking `json:"booking"`
	}
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, &created))
	b := created.Booking
	assert.Equal(t, booking.StatusPending, b.Status)
	assert.InDelta(t, 200.0, b.TotalAmount, 0.001)
	assert.InDelta(t, 100.0, b.DepositAmount, 0.001)

	w = f.request(http.MethodPost, f.studioPath("/bookings"), "", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "BOOKING_CONFLICT")

	res = f.do(http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/payments", b.ID), "", gin.H{"payment_type": "DEPOSIT"})
	require.True(t, res.Success)
	var intent payment.IntentResult
	require.NoError(t, json.Unmarshal(res.Data, &intent))
	assert.InDelta(t, 100.0, intent.Payment.Amount, 0.001)
	assert.NotEmpty(t, intent.ClientSecret)

	confirmPath := fmt.Sprintf("/api/v1/payments/%d/confirm", intent.Payment.ID)
	res = f.do(http.MethodPost, confirmPath, "", gin.H{"payment_intent_id": "pi_wrong"})
	assert.False(t, res.Success)

	res = f.do(http.MethodPost, confirmPath, "", gin.H{"payment_intent_id": intent.Payment.IntentID})
	require.True(t, res.Success)
	res = f.do(http.MethodPost, confirmPath, "", gin.H{"payment_intent_id": intent.Payment.IntentID})
	require.True(t, res.Success)

	res = f.do(http.MethodGet, f.studioPath("/bookings/%d", b.ID), f.ownerJWT, nil)
	require.True(t, res.Success)
	require.NoError(t, json.Unmarshal(res.Data, &created))
	assert.Equal(t, booking.StatusConfirmed, created.Booking.Status)
	assert.True(t, created.Booking.DepositPaid)

	res = f.do(http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/reviews", b.ID), "", gin.H{"rating": 5})
	assert.False(t, res.Success)
	require.NotNil(t, res.Error)
	assert.Equal(t, "BOOKING_NOT_COMPLETED", res.Error.Code)

	res = f.do(http.MethodPatch, f.studioPath("/bookings/%d/status", b.ID), f.ownerJWT, gin.H{"status": "COMPLETED"})
	require.True(t, res.Success)

	w = f.request(http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/reviews", b.ID), "", gin.H{"rating": 5, "comment": "great room"})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	res = f.do(http.MethodGet, f.studioPath("/reviews"), "", nil)
	require.True(t, res.Success)
	assert.Contains(t, string(res.Data), "great room")

	res = f.do(http.MethodGet, f.studioPath("/bookings/%d/payments", b.ID), f.ownerJWT, nil)
	require.True(t, res.Success)
	assert.Contains(t, string(res.Data), `"status":"SUCCEEDED"`)

	res = f.do(http.MethodGet, f.studioPath("/stats"), f.ownerJWT, nil)
	require.True(t, res.Success)
	var st struct {
		Stats struct {
			TotalBookings int64   `json:"total_bookings"`
			TotalRevenue  float64 `json:"total_revenue"`
			ReviewCount   int64   `json:"review_count"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &st))
	assert.Equal(t, int64(1), st.Stats.TotalBookings)
	assert.InDelta(t, 100.0, st.Stats.TotalRevenue, 0.001)
	assert.Equal(t, int64(1), st.Stats.ReviewCount)
}

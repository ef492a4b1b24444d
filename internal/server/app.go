package server

import (
	"fmt"
	"time"

	"studiobook/internal/cache"
	"studiobook/internal/config"
	"studiobook/internal/database"
	"studiobook/internal/domain/availability"
	"studiobook/internal/domain/booking"
	"studiobook/internal/domain/client"
	"studiobook/internal/domain/payment"
	"studiobook/internal/domain/review"
	"studiobook/internal/domain/staff"
	"studiobook/internal/domain/stats"
	"studiobook/internal/domain/studio"
	"studiobook/internal/events"
	"studiobook/internal/pkg/jwt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps are the long-lived resources the binaries open before wiring.
type Deps struct {
	Config    *config.Config
	DB        *gorm.DB
	Log       *logrus.Logger
	JWT       *jwt.Service
	Slots     cache.SlotCache
	Hub       *events.Hub
	Publisher events.Publisher
	Gateway   payment.Gateway
	Scheduler payment.ReconcileScheduler
}

// App holds every domain service, wired once and shared by the HTTP router
// and the background worker.
type App struct {
	Studios      *studio.Service
	Availability *availability.Service
	Clients      *client.Service
	Bookings     *booking.Service
	Payments     *payment.Service
	Reviews      *review.Service
	Stats        *stats.Service
	Staff        *staff.Service
}

func NewApp(d Deps) (*App, error) {
	if d.DB == nil || d.Config == nil || d.Log == nil || d.JWT == nil {
		return nil, fmt.Errorf("server: db, config, logger and jwt are required")
	}
	slots := d.Slots
	if slots == nil {
		slots = cache.Noop{}
	}
	publisher := d.Publisher
	if publisher == nil {
		publisher = events.Nop{}
	}

	studioRepo := studio.NewRepository(d.DB)
	bookingRepo := booking.NewRepository(d.DB)

	studios := studio.NewService(studioRepo, slots, d.Log.WithField("component", "studio"))
	avail := availability.NewService(availability.NewRepository(d.DB), studioRepo, slots, d.Log.WithField("component", "availability"))
	clients := client.NewService(client.NewRepository(d.DB), studioRepo, d.Log.WithField("component", "client"))

	bookings := booking.NewService(bookingRepo, studioRepo, avail, clients, slots, publisher, d.Log.WithField("component", "booking"))

	payments := payment.NewService(
		payment.NewRepository(d.DB),
		bookingRepo,
		studioRepo,
		d.Gateway,
		d.Scheduler,
		publisher,
		payment.Config{
			Currency:       d.Config.PaymentCurrency,
			ReconcileDelay: d.Config.ReconcileDelay,
			PendingTTL:     d.Config.PaymentPendingTTL,
		},
		d.Log.WithField("component", "payment"),
	)

	reviews := review.NewService(review.NewRepository(d.DB), bookingRepo, d.Log.WithField("component", "review"))

	sqlxDB, err := database.SQLX(d.DB)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	statsSvc := stats.NewService(stats.NewRepository(sqlxDB), studioRepo)

	staffSvc := staff.NewService(staff.NewRepository(d.DB), studioRepo, d.JWT, d.Log.WithField("component", "staff"))

	return &App{
		Studios:      studios,
		Availability: avail,
		Clients:      clients,
		Bookings:     bookings,
		Payments:     payments,
		Reviews:      reviews,
		Stats:        statsSvc,
		Staff:        staffSvc,
	}, nil
}

// rate windows for the per-IP limiters.
const (
	apiWindow     = time.Minute
	bookingWindow = time.Hour
	paymentWindow = time.Hour
)

package server

import (
	"studiobook/internal/domain/availability"
	"studiobook/internal/domain/booking"
	"studiobook/internal/domain/client"
	"studiobook/internal/domain/payment"
	"studiobook/internal/domain/review"
	"studiobook/internal/domain/staff"
	"studiobook/internal/domain/stats"
	"studiobook/internal/domain/studio"
	"studiobook/internal/events"
	"studiobook/internal/middleware"

	"github.com/gin-gonic/gin"
)

// NewRouter mounts /health and the /api/v1 surface. Public studio routes
// and staff routes share the /studios/:id prefix; the staff group adds JWT
// and studio access checks.
func NewRouter(d Deps, app *App) *gin.Engine {
	cfg := d.Config
	log := d.Log

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.AllowedOrigins()),
	)

	NewHealthHandler(d.DB, cfg.AppVersion, cfg.AppEnv).RegisterRoutes(r)

	apiLimit := middleware.NewRateLimiter("api", cfg.RateAPIPerMinute, apiWindow, log)
	bookingLimit := middleware.NewRateLimiter("bookings", cfg.RateBookingsPerHour, bookingWindow, log)
	paymentLimit := middleware.NewRateLimiter("payments", cfg.RatePaymentsPerHour, paymentWindow, log)

	studioHandler := studio.NewHandler(app.Studios)
	availabilityHandler := availability.NewHandler(app.Availability)
	clientHandler := client.NewHandler(app.Clients)
	bookingHandler := booking.NewHandler(app.Bookings)
	paymentHandler := payment.NewHandler(app.Payments)
	reviewHandler := review.NewHandler(app.Reviews)
	statsHandler := stats.NewHandler(app.Stats)
	staffHandler := staff.NewHandler(app.Staff)

	v1 := r.Group("/api/v1", apiLimit.Middleware())
	{
		staffHandler.RegisterPublicRoutes(v1)
		paymentHandler.RegisterPublicRoutes(v1, paymentLimit.Middleware())

		public := v1.Group("/studios/:id")
		studioHandler.RegisterPublicRoutes(public)
		availabilityHandler.RegisterPublicRoutes(public)
		clientHandler.RegisterPublicRoutes(public)
		bookingHandler.RegisterPublicRoutes(public, bookingLimit.Middleware())
		reviewHandler.RegisterRoutes(v1, public)

		if d.Hub != nil {
			events.NewFeedHandler(d.Hub, d.JWT, cfg.AllowedOrigins(), log.WithField("component", "feed")).
				RegisterRoutes(public)
		}

		staffGroup := v1.Group("/studios/:id", middleware.JWTAuth(d.JWT), middleware.RequireStudioAccess())
		ownerOnly := middleware.OwnerOnly()
		studioHandler.RegisterStaffRoutes(staffGroup, ownerOnly)
		availabilityHandler.RegisterStaffRoutes(staffGroup, ownerOnly)
		clientHandler.RegisterStaffRoutes(staffGroup)
		bookingHandler.RegisterStaffRoutes(staffGroup)
		paymentHandler.RegisterStaffRoutes(staffGroup, ownerOnly)
		statsHandler.RegisterStaffRoutes(staffGroup)
		staffHandler.RegisterStaffRoutes(staffGroup, ownerOnly)
	}

	return r
}

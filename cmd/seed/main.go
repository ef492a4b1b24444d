package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"studiobook/internal/config"
	"studiobook/internal/database"
	"studiobook/internal/domain/availability"
	"studiobook/internal/domain/staff"
	"studiobook/internal/domain/studio"
	"studiobook/internal/logging"
	jwtsvc "studiobook/internal/pkg/jwt"
	"studiobook/internal/server"
)

const (
	ownerEmail    = "owner@studiobook.local"
	ownerPassword = "owner12345"
)

// seed creates a demo studio with weekday hours, two rooms, a few add-on
// services and an owner account. It refuses to run twice.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	db, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}
	logger.Info("running migrations")
	if err := server.Migrate(db); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}

	app, err := server.NewApp(server.Deps{
		Config: cfg,
		DB:     db,
		Log:    logger,
		JWT:    jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL),
	})
	if err != nil {
		logger.WithError(err).Fatal("wiring failed")
	}

	var existing int64
	if err := db.Model(&staff.User{}).Where("email = ?", ownerEmail).Count(&existing).Error; err != nil {
		logger.WithError(err).Fatal("seed check failed")
	}
	if existing > 0 {
		logger.Info("demo data already present, nothing to do")
		return
	}

	s := studio.New("Northside Sound")
	s.Email = "hello@northside.local"
	s.Phone = "+1 555 0100"
	s.Address = "12 Harbor St, Brooklyn, NY"
	s.HourlyRate = 85
	if err := studio.NewRepository(db).Create(ctx, s); err != nil {
		logger.WithError(err).Fatal("create studio")
	}
	log := logger.WithField("studio_id", s.ID)

	for _, name := range []string{"Live Room A", "Vocal Booth"} {
		if _, err := app.Studios.CreateRoom(ctx, s.ID, studio.CreateRoomRequest{Name: name}); err != nil {
			log.WithError(err).Fatal("create room")
		}
	}

	addOns := []studio.CreateAddOnRequest{
		{Name: "Mixing", Price: 150, DurationMinutes: 120, Category: studio.CategoryMixing},
		{Name: "Mastering", Price: 75, DurationMinutes: 60, Category: studio.CategoryMastering},
		{Name: "Session engineer", Price: 40, Category: studio.CategoryRecording},
	}
	for _, a := range addOns {
		if _, err := app.Studios.CreateAddOn(ctx, s.ID, a); err != nil {
			log.WithError(err).Fatal("create add-on")
		}
	}

	rules := make([]availability.RuleInput, 0, 5)
	for day := 1; day <= 5; day++ {
		d := day
		rules = append(rules, availability.RuleInput{DayOfWeek: &d, StartTime: "10:00", EndTime: "22:00"})
	}
	saturday := 6
	rules = append(rules, availability.RuleInput{DayOfWeek: &saturday, StartTime: "12:00", EndTime: "18:00"})
	if _, err := app.Availability.Replace(ctx, s.ID, rules); err != nil {
		log.WithError(err).Fatal("set availability")
	}

	if _, err := app.Staff.Create(ctx, s.ID, staff.CreateRequest{
		Email:    ownerEmail,
		Password: ownerPassword,
		Name:     "Studio Owner",
		Role:     staff.RoleOwner,
	}); err != nil {
		log.WithError(err).Fatal("create owner")
	}

	log.WithField("owner", ownerEmail).Info("demo data created")
}

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"studiobook/internal/config"
	"studiobook/internal/database"
	"studiobook/internal/events"
	"studiobook/internal/gateway/stripepay"
	"studiobook/internal/jobs"
	"studiobook/internal/logging"
	jwtsvc "studiobook/internal/pkg/jwt"
	"studiobook/internal/server"
)

// The worker runs delayed payment reconciliation from the asynq queue and the
// periodic sweep of stale payments.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	if cfg.RedisAddr == "" {
		logger.Fatal("REDIS_ADDR is required for the worker")
	}

	db, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}
	if err := server.Migrate(db); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}

	gateway, err := stripepay.New(cfg.StripeSecretKey, nil)
	if err != nil {
		logger.WithError(err).Fatal("stripe")
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	queue := asynq.NewClient(redisOpt)
	defer queue.Close()

	var publisher events.Publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.EventsExchange, logger.WithField("component", "amqp"))
		if err != nil {
			logger.WithError(err).Warn("amqp unavailable, payment events dropped")
		} else {
			publisher = amqpPub
			defer amqpPub.Close()
		}
	}

	app, err := server.NewApp(server.Deps{
		Config:    cfg,
		DB:        db,
		Log:       logger,
		JWT:       jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL),
		Publisher: publisher,
		Gateway:   gateway,
		Scheduler: jobs.NewScheduler(queue, logger.WithField("component", "jobs")),
	})
	if err != nil {
		logger.WithError(err).Fatal("wiring failed")
	}

	sweeper := jobs.NewSweeper(app.Payments, cfg.ReconcileDelay, cfg.PaymentPendingTTL, logger.WithField("component", "sweep"))
	if err := sweeper.Start(cfg.SweepSchedule); err != nil {
		logger.WithError(err).Fatal("sweeper")
	}

	srv := jobs.NewServer(redisOpt, 10, logger.WithField("component", "asynq"))
	mux := jobs.NewMux(app.Payments, logger.WithField("component", "reconcile"))
	if err := srv.Start(mux); err != nil {
		logger.WithError(err).Fatal("asynq server failed")
	}
	logger.Info("worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down worker")
	srv.Shutdown()
	sweeper.Stop()
}

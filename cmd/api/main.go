package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"studiobook/internal/cache"
	"studiobook/internal/config"
	"studiobook/internal/database"
	"studiobook/internal/domain/payment"
	"studiobook/internal/events"
	"studiobook/internal/gateway/stripepay"
	"studiobook/internal/jobs"
	"studiobook/internal/logging"
	jwtsvc "studiobook/internal/pkg/jwt"
	"studiobook/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}
	if err := server.Migrate(db); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}

	ctx := context.Background()
	deps := server.Deps{
		Config: cfg,
		DB:     db,
		Log:    logger,
		JWT:    jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL),
		Hub:    events.NewHub(),
	}

	deps.Slots = cache.Noop{}
	var scheduler payment.ReconcileScheduler = jobs.NoopScheduler{}
	if cfg.RedisAddr != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.WithError(err).Warn("redis unavailable, slot cache disabled")
		} else {
			deps.Slots = cache.NewRedis(rdb, cfg.SlotCacheTTL)
			defer rdb.Close()
		}

		queue := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer queue.Close()
		scheduler = jobs.NewScheduler(queue, logger.WithField("component", "jobs"))
	} else {
		logger.Warn("REDIS_ADDR not set: slot cache and delayed reconcile disabled")
	}
	deps.Scheduler = scheduler

	publishers := events.Fanout{deps.Hub}
	if cfg.AMQPURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.EventsExchange, logger.WithField("component", "amqp"))
		if err != nil {
			logger.WithError(err).Warn("amqp unavailable, events stay in-process")
		} else {
			publishers = append(publishers, amqpPub)
			defer amqpPub.Close()
		}
	}
	deps.Publisher = publishers

	gateway, err := stripepay.New(cfg.StripeSecretKey, nil)
	if err != nil {
		logger.WithError(err).Warn("payments disabled")
		deps.Gateway = stripepay.Disabled{}
	} else {
		deps.Gateway = gateway
	}

	app, err := server.NewApp(deps)
	if err != nil {
		logger.WithError(err).Fatal("wiring failed")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.NewRouter(deps, app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}
}

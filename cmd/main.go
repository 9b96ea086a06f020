package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ray-remotestate/restro-pos/billing"
	"github.com/ray-remotestate/restro-pos/cache"
	"github.com/ray-remotestate/restro-pos/config"
	"github.com/ray-remotestate/restro-pos/database"
	"github.com/ray-remotestate/restro-pos/database/dbhelper"
	"github.com/ray-remotestate/restro-pos/events"
	"github.com/ray-remotestate/restro-pos/handlers"
	"github.com/ray-remotestate/restro-pos/server"
	"github.com/ray-remotestate/restro-pos/services"
	"github.com/ray-remotestate/restro-pos/store"
	"github.com/ray-remotestate/restro-pos/utils"
)

const hubBuffer = 64

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var st store.Store
	if cfg.DatabaseURL != "" {
		if err := database.ConnectAndMigrate(ctx, cfg.DatabaseURL); err != nil {
			logrus.Panicf("failed to initialize database, error: %v", err)
		}
		logrus.Info("migration is successful")
		st = dbhelper.New(database.Restro)
	} else {
		logrus.Warn("DATABASE_URL not set, using in-memory store")
		st = store.NewMemory()
	}

	hub := events.NewHub(hubBuffer)
	var publisher events.Publisher = hub
	var bus *events.AMQPBus
	if cfg.AMQPURL != "" {
		bus, err = events.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logrus.Panicf("failed to connect to rabbitmq: %v", err)
		}
		publisher = bus
		logrus.WithField("exchange", cfg.AMQPExchange).Info("publishing changes to rabbitmq")
	}

	svc := services.New(services.Deps{
		Store:      st,
		Events:     publisher,
		Cache:      cache.New(cfg.CacheTTL),
		Calculator: billing.NewCalculator(cfg.TaxRates),
	})
	tokens := utils.NewTokenIssuer(cfg.SecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	srv := server.SetupRoutes(handlers.New(svc, tokens, hub, cfg.Location), cfg.SecretKey)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logrus.Infof("server listening on %s", cfg.Port)
		return srv.Run(cfg.Port)
	})
	if bus != nil {
		g.Go(func() error {
			return bus.Consume(gctx, hub)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logrus.Info("shutting down...")
		if err := srv.Shutdown(cfg.ShutdownTimeout); err != nil {
			logrus.WithError(err).Error("failed to gracefully shutdown server")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logrus.WithError(err).Error("service stopped with error")
	}

	if bus != nil {
		if err := bus.Close(); err != nil {
			logrus.WithError(err).Error("failed to close rabbitmq connection")
		}
	}
	if err := database.ShutdownDatabase(); err != nil {
		logrus.WithError(err).Error("failed to close database connection!")
	}
	logrus.Info("system is shut ..zzz")
}

func setupLogging(cfg *config.Config) {
	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("unknown log level %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

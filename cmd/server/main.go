package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/workshop-maintenance/internal/auth"
	"github.com/ukydev/workshop-maintenance/internal/config"
	"github.com/ukydev/workshop-maintenance/internal/db"
	"github.com/ukydev/workshop-maintenance/internal/handlers"
	"github.com/ukydev/workshop-maintenance/internal/logging"
	"github.com/ukydev/workshop-maintenance/internal/middleware"
	"github.com/ukydev/workshop-maintenance/internal/notify"
	"github.com/ukydev/workshop-maintenance/internal/schedule"
	"github.com/ukydev/workshop-maintenance/internal/tracker"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Fatal("Server stopped with error")
	}
	logger.Info("Server stopped")
}

// stores opens the maintenance and user stores for the configured driver.
// The returned func releases them.
func stores(ctx context.Context, cfg *config.Config, logger log.FieldLogger) (db.MaintenanceStore, db.UserCollection, func(), error) {
	if cfg.StoreDriver == config.StoreMemory {
		logger.Warn("Using in-memory store, data is lost on restart")
		return db.NewMemoryStore(), db.NewMemoryUserCollection(), func() {}, nil
	}

	client, err := db.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, nil, err
	}
	store := db.NewMongoStore(client, cfg.MongoDB)
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, nil, fmt.Errorf("ensure indexes: %w", err)
	}
	logger.WithField("database", cfg.MongoDB).Info("Connected to MongoDB")

	users := &db.MongoUserCollection{Collection: client.Database(cfg.MongoDB).Collection("users")}
	closeFn := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.WithError(err).Warn("MongoDB disconnect failed")
		}
	}
	return store, users, closeFn, nil
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	store, users, closeStores, err := stores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStores()

	authService, err := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		return err
	}

	service := tracker.NewService(store,
		tracker.WithLabels(schedule.LabelsFor(cfg.Locale)),
		tracker.WithLocation(cfg.Location),
		tracker.WithLogger(logger),
	)

	var publisher notify.Publisher = notify.NopPublisher{}
	if cfg.MQTTBroker != "" {
		mqttPublisher, err := notify.NewMQTTPublisher(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopic, logger)
		if err != nil {
			return err
		}
		publisher = mqttPublisher
	} else {
		logger.Info("MQTT_BROKER not set, digests are built but not published")
	}
	defer publisher.Close()

	digest := notify.NewDigest(service, publisher, logger)
	if cfg.MQTTBroker != "" {
		scheduler, err := notify.Schedule(cfg.DigestCron, cfg.Location, digest)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
		logger.WithFields(log.Fields{"cron": cfg.DigestCron, "topic": cfg.MQTTTopic}).Info("Maintenance digest scheduled")
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Auth:            handlers.NewAuthHandler(authService, users),
		Maintenance:     handlers.NewMaintenanceHandler(service, digest),
		AuthMiddleware:  middleware.NewAuthMiddleware(authService),
		RateLimiter:     middleware.NewRateLimitMiddleware(),
		RateLimitMax:    cfg.RateLimitMax,
		RateLimitWindow: cfg.RateLimitWindow,
		Logger:          logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(log.Fields{"port": cfg.Port, "store": cfg.StoreDriver, "locale": cfg.Locale}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Gracefully shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"tour-booking/internal/api"
	"tour-booking/internal/auth"
	"tour-booking/internal/booking"
	"tour-booking/internal/config"
	"tour-booking/internal/database"
	"tour-booking/internal/events"
	"tour-booking/internal/logger"
	"tour-booking/internal/models"
	"tour-booking/internal/payment"
	"tour-booking/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	log := logger.New()
	defer log.Close()

	cfg := config.Load()
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("CONFIG", "JWT_SECRET must be set")
	}

	connector := pgdriver.NewConnector(pgdriver.WithDSN(cfg.Database.DSN))
	sqldb := sql.OpenDB(connector)
	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)
	defer sqldb.Close()

	bunDB := bun.NewDB(sqldb, pgdialect.New())

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := bunDB.PingContext(pingCtx); err != nil {
		cancel()
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect: %v", err))
	}
	cancel()
	log.Info("DATABASE", "Connected to PostgreSQL")

	if cfg.Migration.AutoMigrate {
		runner := database.NewRunner(bunDB, cfg.Migration.Dir, log)
		if err := runner.MigrateUp(); err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("Migrations failed: %v", err))
		}
	}

	db := storage.New(bunDB, log)
	seedSettingsFromEnv(db, cfg, log)

	var idem payment.IdempotencyStore = payment.NoopIdempotency{}
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Warn("REDIS", fmt.Sprintf("Redis unreachable, idempotency disabled: %v", err))
		} else {
			idem = payment.NewRedisIdempotency(rdb)
			log.Info("REDIS", "Connected to Redis")
		}
		defer rdb.Close()
	}

	producer := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Enabled, cfg.Kafka.MockMode, log)
	defer producer.Close()
	if cfg.Kafka.Enabled && !cfg.Kafka.MockMode {
		if err := events.EnsureTopicsExist(cfg.Kafka.Brokers, events.AllTopics()); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Failed to ensure topics: %v", err))
		}
	}

	authMW := auth.NewMiddleware(cfg.Auth.JWTSecret, db, log)
	svc := booking.NewService(
		db,
		booking.DefaultChargerFactory(log, cfg.Server.PaymentTimeout),
		producer,
		idem,
		booking.NewQRGenerator(cfg.Auth.JWTSecret),
		log,
		cfg.Booking.DailyCapacity,
	)
	handler := api.NewHandler(db, svc, authMW, log, nil)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("SERVER", fmt.Sprintf("Listening on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("SERVER", fmt.Sprintf("Server error: %v", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("SERVER", "Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("SERVER", fmt.Sprintf("Forced shutdown: %v", err))
	}
	log.Info("SERVER", "Stopped")
}

// seedSettingsFromEnv bootstraps the settings row from CLOVER_* variables
// on first run. Once a row exists the database copy is authoritative and
// the environment is ignored.
func seedSettingsFromEnv(db *storage.DB, cfg *config.Config, log *logger.Logger) {
	if cfg.Clover.APIToken == "" || cfg.Clover.AppID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	existing, err := db.GetSettings(ctx)
	if err != nil {
		log.Warn("CONFIG", fmt.Sprintf("Failed to check settings: %v", err))
		return
	}
	if existing != nil {
		return
	}

	_, err = db.UpsertSettings(ctx, models.UpsertSettings{
		CloverAppID:       cfg.Clover.AppID,
		CloverAPIToken:    cfg.Clover.APIToken,
		CloverEnvironment: models.CloverEnvironment(cfg.Clover.Environment),
	})
	if err != nil {
		log.Warn("CONFIG", fmt.Sprintf("Failed to seed settings from environment: %v", err))
		return
	}
	log.Info("CONFIG", "Seeded Clover settings from environment")
}

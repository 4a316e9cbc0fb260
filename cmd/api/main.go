package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/huellitas/vetrecords/internal/api"
	"github.com/huellitas/vetrecords/internal/api/handler"
	"github.com/huellitas/vetrecords/internal/core/service"
	"github.com/huellitas/vetrecords/internal/infrastructure/db/mongo"
	"github.com/huellitas/vetrecords/internal/infrastructure/db/redis"
	"github.com/huellitas/vetrecords/internal/infrastructure/queue"
	"github.com/huellitas/vetrecords/internal/infrastructure/scheduler"
	"github.com/huellitas/vetrecords/internal/pkg/config"
	"github.com/huellitas/vetrecords/internal/pkg/password"
	"github.com/huellitas/vetrecords/pkg/logger"
)

// @title        Huellitas Veterinary Records API
// @version      1.0
// @description  Pet clinical histories, inventory and appointments for a veterinary clinic.
// @BasePath     /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by the session token.

const shutdownTimeout = 15 * time.Second

func main() {
	// a missing .env is fine; the environment may already be set
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "vetrecords",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid timezone")
	}

	// --- Storage ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	users := mongo.NewUserRepository(db)
	pets := mongo.NewPetRepository(db)
	products := mongo.NewProductRepository(db)
	appointments := mongo.NewAppointmentRepository(db)

	// --- Core services ---
	hasher := password.NewHasher(cfg.Session.BcryptCost)
	sessions := redis.NewSessionStore(rdb)
	directory := service.NewIdentityDirectory(users, hasher, redis.NewDirectoryLock(rdb, log), sessions, log)
	authService := service.NewAuthService(users, sessions, hasher, cfg.Session.Secret, cfg.Session.TTL, log)

	// workers outlive the signal so in-flight visits finish during shutdown
	workersCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	visits := queue.NewDispatcher(cfg.Visits.Workers, log)
	visits.Start(workersCtx)
	petService := service.NewPetService(pets, visits, loc, log)

	if cfg.Bootstrap.Password == "" {
		log.Warn().Msg("BOOTSTRAP_ADMIN_PASSWORD not set, skipping administrator bootstrap")
	} else if created, err := directory.Bootstrap(ctx, cfg.Bootstrap.Username, cfg.Bootstrap.Password); err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap administrator")
	} else if created {
		log.Info().Str("username", cfg.Bootstrap.Username).Msg("initial administrator created")
	}

	stats := scheduler.NewStatsRefresher(users, products, cfg.Stats.LowStockThreshold, log)
	cron, err := stats.Start(ctx, cfg.Stats.Schedule)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start stats refresher")
	}
	defer cron.Stop()

	// --- HTTP ---
	e, err := api.NewRouter(api.Services{
		Auth:         authService,
		Directory:    directory,
		Pets:         petService,
		Products:     service.NewProductService(products, log),
		Appointments: service.NewAppointmentService(appointments, log),
	}, api.Options{
		Log:          log,
		SecureCookie: cfg.IsProduction(),
		SessionTTL:   cfg.Session.TTL,
		Readiness:    handler.NewHealthDependenciesHandler(db, rdb),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server stopped")
}

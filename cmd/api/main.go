package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/khatma-sync-engine/internal/adapters/handler/http"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/adapters/prayer"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/adapters/scripture"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/config"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/services"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/workers"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/logger"
)

const (
	externalTimeout = 10 * time.Second
	scriptureTTL    = 7 * 24 * time.Hour
	prayerTTL       = 6 * time.Hour
)

func main() {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Critical: invalid configuration", "err", err)
	}

	if err := logger.Init(logger.Config{Debug: cfg.LogDebug, File: cfg.LogFile}); err != nil {
		logger.Fatal("Critical: failed to initialize logger", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Connecting to database...", "host", cfg.DBHost, "db", cfg.DBName)

	db, err := repository.Connect(ctx, cfg.DSN())
	if err != nil {
		logger.Fatal("Critical: failed to connect to database", "err", err)
	}
	defer db.Close()

	if err := repository.EnsureSchema(ctx, db); err != nil {
		logger.Fatal("Critical: failed to apply schema", "err", err)
	}

	logger.Info("Database connected successfully.")

	rdb, err := cache.NewRedisClient(ctx, cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("Critical: failed to connect to redis", "err", err)
	}
	defer rdb.Close()

	logger.Info("Redis connected successfully.")

	catalogRepo := repository.NewPostgresCatalogRepository(db)
	progressRepo := repository.NewCachedProgressRepository(repository.NewPostgresProgressRepository(db), rdb)
	streakRepo := repository.NewPostgresStreakRepository(db)
	activityRepo := repository.NewPostgresActivityRepository(db)
	userRepo := repository.NewPostgresUserRepository(db)

	index := scripture.NewCachedIndex(
		scripture.NewClient(cfg.ScriptureAPIURL, externalTimeout),
		cache.NewJSONCache(rdb, "scripture", scriptureTTL),
	)
	prayers := prayer.NewCachedProvider(
		prayer.NewClient(cfg.PrayerAPIURL, externalTimeout),
		cache.NewJSONCache(rdb, "prayer", prayerTTL),
	)

	pageSync := workers.NewPageSyncWorker(progressRepo, streakRepo, index, cfg.PageSyncDebounce, cfg.PageSyncSuppress)
	pageSync.Start(ctx)

	activityService := services.NewActivityService(streakRepo, activityRepo, cfg.Location)
	progressService := services.NewProgressService(progressRepo, streakRepo, activityService, pageSync)
	pageService := services.NewPageService(index, streakRepo, progressService, activityService, pageSync)
	ramadanService := services.NewRamadanService(streakRepo, activityService, prayers, cfg.RamadanStart)
	statsService := services.NewStatsService(activityRepo)
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL, userRepo)
	authService := services.NewAuthService(userRepo, progressRepo, tokenService)

	if n, err := services.NewCatalogService(index, catalogRepo).Seed(ctx); err != nil {
		logger.Warn("Surah catalog not seeded, run the seed command once the scripture API is reachable", "err", err)
	} else {
		logger.Info("Surah catalog ready", "surahs", n)
	}

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:     adapterHTTP.NewAuthHandler(authService),
		ProgressHandler: adapterHTTP.NewProgressHandler(progressService),
		StreakHandler:   adapterHTTP.NewStreakHandler(activityService),
		PageHandler:     adapterHTTP.NewPageHandler(pageService),
		RamadanHandler:  adapterHTTP.NewRamadanHandler(ramadanService, cfg.Location),
		StatsHandler:    adapterHTTP.NewStatsHandler(statsService, activityService.Today),
		Resolver:        tokenService,
		DB:              db,
		Redis:           rdb,
		StartTime:       startTime,
		RateLimit:       cfg.RateLimit,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Khatma Sync Engine running", "addr", "http://localhost:"+cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Critical server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()

	logger.Info("Stop signal received. Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", "err", err)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully.")
}

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/suntrail/agency-server/internal/config"
	"github.com/suntrail/agency-server/internal/database"
	"github.com/suntrail/agency-server/internal/handler"
	"github.com/suntrail/agency-server/internal/jobs"
	"github.com/suntrail/agency-server/internal/middleware"
	"github.com/suntrail/agency-server/internal/redis"
	"github.com/suntrail/agency-server/internal/repository"
	"github.com/suntrail/agency-server/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	setLogLevel(cfg.LogLevel)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	adminRepo := repository.NewAdminRepository(db.DB)
	sessionRepo := repository.NewSessionRepository(db.DB)
	packageRepo := repository.NewPackageRepository(db.DB)

	if cfg.AdminUsername != "" && cfg.AdminPasswordHash != "" {
		seedCtx, seedCancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
		if err := adminRepo.Seed(seedCtx, cfg.AdminUsername, cfg.AdminPasswordHash); err != nil {
			log.Fatal().Err(err).Msg("failed to seed admin account")
		}
		seedCancel()
		log.Info().Str("username", cfg.AdminUsername).Msg("admin account ensured")
	}

	authService := service.NewAuthService(adminRepo, sessionRepo)
	packageService := service.NewPackageService(packageRepo, redisClient)

	cookieConfig := middleware.NewCookieConfig(cfg.IsProduction())
	if err := cookieConfig.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid cookie config")
	}
	sessionMiddleware := middleware.NewSessionMiddleware(sessionRepo, cookieConfig, "/admin/login")
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(cfg.IsProduction())

	authHandler := handler.NewAuthHandler(authService, sessionMiddleware)
	packageHandler := handler.NewPackageHandler(packageService)
	spa := handler.NewSPAHandler(cfg.StaticDir)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Route("/api/packages", func(r chi.Router) {
		r.Mount("/", packageHandler.PublicRoutes())
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(securityHeadersMiddleware.Handler)

		r.Mount("/api", authHandler.Routes())
		r.Route("/api/packages", func(r chi.Router) {
			r.Use(sessionMiddleware.Handler)
			r.Mount("/", packageHandler.AdminRoutes())
		})

		r.Get("/login", spa.ServeLogin)

		r.Group(func(r chi.Router) {
			r.Use(sessionMiddleware.RequirePage)
			r.Handle("/*", spa)
		})
	})

	r.Handle("/*", spa)

	cleanupJob := jobs.NewCleanupJob(sessionRepo, config.SessionSweepInterval)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:        cfg.Addr(),
		Handler:     r,
		ReadTimeout: config.ServerReadTimeout,
		IdleTimeout: config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

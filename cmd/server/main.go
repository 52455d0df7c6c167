package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/itbasis/go-clock"
	_ "github.com/lib/pq"

	"github.com/courtside/league-system/config"
	"github.com/courtside/league-system/db"
	"github.com/courtside/league-system/handlers"
	"github.com/courtside/league-system/live"
	"github.com/courtside/league-system/repositories"
	api "github.com/courtside/league-system/routes"
	"github.com/courtside/league-system/services"
	"github.com/courtside/league-system/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	fileStore, err := storage.NewCloudflareR2Store(storage.CloudflareR2Config{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 store", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 store initialized")

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := live.NewHub(logger)
	go hub.Run(hubCtx)
	logger.Info("live update hub started")

	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	scoreRepo := repositories.NewPostgresScoreRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	moveRepo := repositories.NewPostgresDivisionMoveRepository(dbConn)
	baselineRepo := repositories.NewPostgresBaselineRepository(dbConn)
	attendanceRepo := repositories.NewPostgresAttendanceRepository(dbConn)
	announcementRepo := repositories.NewPostgresAnnouncementRepository(dbConn)
	sponsorRepo := repositories.NewPostgresSponsorRepository(dbConn)
	photoRepo := repositories.NewPostgresPhotoRepository(dbConn)
	photoAdminRepo := repositories.NewPostgresPhotoAdminRepository(dbConn)
	settingsRepo := repositories.NewPostgresSettingsRepository(dbConn)
	logger.Info("repositories initialized")

	clk := clock.New()

	sessionService := services.NewSessionService(cfg.JWTSecretKey, cfg.AdminPasscodeHash, clk, logger)
	teamService := services.NewTeamService(dbConn, teamRepo, matchRepo, moveRepo, attendanceRepo, logger)
	matchService := services.NewMatchService(matchRepo, scoreRepo, attendanceRepo, hub, cfg.MaxCourt, logger)
	scoreService := services.NewScoreService(matchRepo, scoreRepo, hub, logger)
	standingsService := services.NewStandingsService(matchRepo, scoreRepo, teamRepo, moveRepo, baselineRepo, logger)
	attendanceService := services.NewAttendanceService(attendanceRepo, logger)
	announcementService := services.NewAnnouncementService(announcementRepo, hub, logger)
	sponsorService := services.NewSponsorService(sponsorRepo, fileStore, logger)
	photoService := services.NewPhotoService(photoRepo, photoAdminRepo, fileStore, clk, logger)
	adminService := services.NewAdminService(dbConn, moveRepo, baselineRepo, settingsRepo, photoAdminRepo, teamRepo, hub, logger)
	logger.Info("services initialized")

	sessionHandler := handlers.NewSessionHandler(sessionService)
	matchHandler := handlers.NewMatchHandler(matchService, scoreService)
	standingsHandler := handlers.NewStandingsHandler(standingsService)
	teamHandler := handlers.NewTeamHandler(teamService)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)
	announcementHandler := handlers.NewAnnouncementHandler(announcementService)
	sponsorHandler := handlers.NewSponsorHandler(sponsorService)
	photoHandler := handlers.NewPhotoHandler(photoService)
	adminHandler := handlers.NewAdminHandler(adminService)
	liveHandler := handlers.NewLiveHandler(hub)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		sessionService,
		sessionHandler,
		matchHandler,
		standingsHandler,
		teamHandler,
		attendanceHandler,
		announcementHandler,
		sponsorHandler,
		photoHandler,
		adminHandler,
		liveHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		} else {
			logger.Info("server shutdown complete")
		}

		// Let the hub drop its clients before the process exits.
		stopHub()
	}
	logger.Info("application exited")
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/zanzhit/camera_vault/internal/config"
	"github.com/zanzhit/camera_vault/internal/hardware/gstreamer"
	alarmhandler "github.com/zanzhit/camera_vault/internal/http-server/handlers/alarms"
	authhandler "github.com/zanzhit/camera_vault/internal/http-server/handlers/auth"
	camerahandler "github.com/zanzhit/camera_vault/internal/http-server/handlers/cameras"
	schedulehandler "github.com/zanzhit/camera_vault/internal/http-server/handlers/schedules"
	segmenthandler "github.com/zanzhit/camera_vault/internal/http-server/handlers/segments"
	authmiddleware "github.com/zanzhit/camera_vault/internal/http-server/middleware/auth"
	"github.com/zanzhit/camera_vault/internal/http-server/middleware/logger"
	wsnotifier "github.com/zanzhit/camera_vault/internal/notifier/ws"
	alarmservice "github.com/zanzhit/camera_vault/internal/services/alarms"
	authservice "github.com/zanzhit/camera_vault/internal/services/auth"
	policyservice "github.com/zanzhit/camera_vault/internal/services/policy"
	scheduleservice "github.com/zanzhit/camera_vault/internal/services/schedules"
	"github.com/zanzhit/camera_vault/internal/storage/disk"
	"github.com/zanzhit/camera_vault/internal/storage/postgres"
	authstorage "github.com/zanzhit/camera_vault/internal/storage/postgres/auth"
	camerastorage "github.com/zanzhit/camera_vault/internal/storage/postgres/cameras"
	schedulestorage "github.com/zanzhit/camera_vault/internal/storage/postgres/schedules"
	segmentstorage "github.com/zanzhit/camera_vault/internal/storage/postgres/segments"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting application", slog.String("env", cfg.Env))

	if cfg.DB.Password == "" {
		panic("POSTGRES_PASSWORD is required")
	}

	if cfg.Secret == "" {
		panic("APP_SECRET is required")
	}

	storage, err := postgres.New(cfg.DB)
	if err != nil {
		panic(err)
	}

	policy, err := policyservice.New(cfg.Retention.EmergencyQuotaPercent,
		policyservice.FullPolicy(cfg.Retention.FullPolicy))
	if err != nil {
		panic(err)
	}

	segmentStorage := segmentstorage.New(storage)
	cameraStorage := camerastorage.New(storage)
	scheduleStorage := schedulestorage.New(storage)
	authStorage := authstorage.New(storage)

	hardware := gstreamer.New(log, cfg.MediaPath)
	volume := disk.New(cfg.MediaPath)
	hub := wsnotifier.New(log)

	alarmService := alarmservice.New(log, policy, segmentStorage, cameraStorage,
		hardware, volume, hub, cfg.Retention.HardwareTimeout)

	scheduleEngine := scheduleservice.New(log, scheduleStorage, cameraStorage,
		hardware, alarmService, cfg.Retention.ScheduleTick)

	authService := authservice.New(log, authStorage, authStorage, cfg.TokenTTL, cfg.Secret)

	alarmHandler := alarmhandler.New(log, alarmService)
	segmentHandler := segmenthandler.New(log, alarmService)
	cameraHandler := camerahandler.New(log, cameraStorage)
	scheduleHandler := schedulehandler.New(log, scheduleStorage)
	authHandler := authhandler.New(log, authService)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(logger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)
	router.Get("/ws/events", hub.Handle)

	router.Group(func(r chi.Router) {
		r.Use(authmiddleware.JWTAuth(cfg.Secret))

		r.Post("/alarms", alarmHandler.Trigger)
		r.Post("/emergency", alarmHandler.Emergency)
		r.Get("/segments", segmentHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(authmiddleware.AdminRequired)

			r.Delete("/segments/{id}", segmentHandler.Purge)
			r.Post("/cameras", cameraHandler.Save)
			r.Post("/schedules", scheduleHandler.Save)
			r.Get("/schedules", scheduleHandler.List)
		})
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go scheduleEngine.Run(ctx)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server stopped", slog.String("error", err.Error()))
		}
	}()

	log.Info("server started", slog.String("address", cfg.HTTPServer.Address))

	<-ctx.Done()

	log.Info("shutting down")

	if err := srv.Shutdown(context.Background()); err != nil {
		log.Error("failed to shut down server", slog.String("error", err.Error()))
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

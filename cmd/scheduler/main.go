package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"session-scheduler/internal/app"
	"session-scheduler/internal/config"
	"session-scheduler/internal/httpapi"
	"session-scheduler/internal/notify"
	"session-scheduler/internal/repository"
	"session-scheduler/internal/service"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := app.ConnectPool(ctx, cfg.DBDSN, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}
	migrator.Close()

	slotRepo := repository.NewSlotRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	participantRepo := repository.NewParticipantRepository(pool)
	txManager := repository.NewPgxTxManager(pool)

	var notifier notify.Notifier = notify.NewLogNotifier(logger)
	if cfg.TelegramToken != "" {
		tgBot, err := bot.New(cfg.TelegramToken)
		if err != nil {
			logger.Fatal("create telegram bot", zap.Error(err))
		}
		notifier = notify.NewTelegramNotifier(tgBot, participantRepo, logger)
		logger.Info("telegram notifications enabled")
	}

	bookingService := service.NewBookingService(txManager, bookingRepo, notifier, logger)
	availabilityService := service.NewAvailabilityService(txManager, slotRepo, courseRepo, participantRepo, logger)
	scheduleService := service.NewScheduleService(slotRepo, courseRepo, logger)

	api := httpapi.NewServer(bookingService, availabilityService, scheduleService, logger)
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      api.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bitgate/internal/bootstrap"
	"bitgate/internal/checkout"
	"bitgate/internal/config"
	cronpkg "bitgate/internal/cron"
	"bitgate/internal/handler"
	"bitgate/internal/ipn"
	"bitgate/internal/middleware"
	"bitgate/internal/notify"
	"bitgate/internal/repository"
	"bitgate/internal/router"
)

func main() {
	// --- Logger ---
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// --- Config ---
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// --- Database ---
	db, err := config.NewDatabase(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := bootstrap.MigrateAndSeed(db, cfg); err != nil {
		logger.Fatal("Failed to bootstrap database schema", zap.Error(err))
	}

	// --- Echo ---
	e := echo.New()
	e.HideBanner = true

	// --- Notification Deduper (Redis with in-memory fallback) ---
	deduper, dedupeErr := middleware.NewNotificationDeduper(
		cfg.Redis.Addr,
		cfg.Redis.Pass,
		cfg.Redis.DB,
		10*time.Minute,
	)
	if dedupeErr != nil {
		logger.Warn("Redis unavailable for IPN dedup, using in-memory fallback", zap.Error(dedupeErr))
	}

	// --- Repositories ---
	orderRepo := repository.NewOrderRepository(db)
	configRepo := repository.NewConfigRepository(db, bootstrap.DefaultStoreID)
	logRepo := repository.NewIPNLogRepository(db)

	// --- Collaborators ---
	var mailer ipn.Mailer = notify.NopMailer{}
	if cfg.Mail.Endpoint != "" {
		mailer = notify.NewHTTPMailer(cfg.Mail.Endpoint, cfg.Mail.APIKey, cfg.Mail.From, logger)
	}
	reporter := notify.NewTelegramReporter(cfg.Telegram.BotToken, cfg.Telegram.ReportChannel, logger)

	// --- IPN processor ---
	processor := ipn.NewProcessor(orderRepo, configRepo, mailer, logger)

	// --- Handlers ---
	ipnHandler := handler.NewIPNHandler(processor, logRepo, reporter, logger)
	standard := checkout.NewStandard(cfg.Gateway.MerchantID, cfg.Gateway.CheckoutURL, cfg.Server.BaseURL)
	checkoutHandler := handler.NewCheckoutHandler(orderRepo, standard, logger)
	opsHandler := handler.NewOpsHandler(logRepo, logger)

	// --- Routes ---
	router.Setup(e, ipnHandler, checkoutHandler, opsHandler, deduper, cfg.API.Key)

	// --- Cron Scheduler ---
	scheduler := cronpkg.New(logRepo, cfg.Gateway.IPNLogRetentionDays, logger)
	scheduler.Start()

	// --- Start Server ---
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		logger.Info("Starting bitgate server", zap.String("addr", addr))
		if err := e.Start(addr); err != nil {
			logger.Info("Server stopped", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	// Stop cron
	ctx := scheduler.Stop()
	<-ctx.Done()

	// Stop HTTP server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

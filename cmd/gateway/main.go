package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/perepilka/content-notify/internal/bot"
	"github.com/perepilka/content-notify/internal/config"
	"github.com/perepilka/content-notify/internal/core"
	"github.com/perepilka/content-notify/internal/identity"
	"github.com/perepilka/content-notify/internal/logging"
	"github.com/perepilka/content-notify/internal/server"
	"github.com/perepilka/content-notify/internal/telegram"
)

const shutdownTimeout = 10 * time.Second

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func runGracefulShutdown(cancelPolling context.CancelFunc, srv *server.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		cancelPolling()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Gateway starting", "env", cfg.AppEnv, "core_api_url", cfg.CoreAPIURL, "port", cfg.WebhookPort)

	if cfg.InternalServiceKey == "" {
		slog.Warn("INTERNAL_SERVICE_KEY not configured, relay requests will be rejected")
	}

	coreClient := core.NewClient(cfg.CoreAPIURL)
	identities := identity.NewCache(coreClient)
	processor := bot.NewProcessor(identities, coreClient)

	tgBot, err := telegram.NewBot(cfg.BotToken, processor)
	if err != nil {
		logging.WithError(err).Error("Failed to create Telegram bot")
		os.Exit(1)
	}

	pollCtx, cancelPolling := context.WithCancel(context.Background())
	go tgBot.Run(pollCtx)

	srv := server.NewServer(cfg, tgBot)
	done := runGracefulShutdown(cancelPolling, srv)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		cancelPolling()
		os.Exit(1)
	}

	<-done
	slog.Info("Gateway stopped")
}

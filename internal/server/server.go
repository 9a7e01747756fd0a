package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/perepilka/content-notify/internal/config"
	apperrors "github.com/perepilka/content-notify/internal/errors"
)

// messageSender is the slice of the chat transport the relay endpoint needs.
type messageSender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

type Server struct {
	echo       *echo.Echo
	config     *config.Config
	serviceKey string
	sender     messageSender
}

// NewServer creates the internal HTTP server exposing the relay endpoint and
// the observability routes. serviceKey may be empty; relay requests are then
// rejected as a server misconfiguration until one is configured.
func NewServer(cfg *config.Config, sender messageSender) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:       e,
		config:     cfg,
		serviceKey: cfg.InternalServiceKey,
		sender:     sender,
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting internal server", "port", s.config.WebhookPort)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.WebhookPort))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

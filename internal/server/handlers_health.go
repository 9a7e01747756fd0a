package server

import (
	"github.com/labstack/echo/v4"

	"github.com/perepilka/content-notify/internal/version"
)

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(200, map[string]string{
		"status":  "healthy",
		"service": "telegram-gateway",
	})
}

func (s *Server) handleVersion(c echo.Context) error {
	return c.JSON(200, version.Get())
}

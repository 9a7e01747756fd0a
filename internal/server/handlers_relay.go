package server

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "github.com/perepilka/content-notify/internal/errors"
	"github.com/perepilka/content-notify/internal/metrics"
)

// serviceKeyHeader carries the shared secret the Core Service authenticates with.
const serviceKeyHeader = "X-Internal-Service-Key"

// relayRequest is the push body from the Core Service. chatId arrives as a
// string or a number depending on the caller, so it is kept raw until coerced.
type relayRequest struct {
	ChatID  json.RawMessage `json:"chatId"`
	Message string          `json:"message"`
}

// handleRelay accepts a pre-rendered notification from the Core Service and
// forwards it to the target Telegram chat. Authentication, validation and
// delivery failures each map to a distinct error type; see internal/errors.
func (s *Server) handleRelay(c echo.Context) error {
	if s.serviceKey == "" {
		metrics.RelayRequestsTotal.WithLabelValues("misconfigured").Inc()
		return apperrors.MisconfiguredError("Internal service authentication not configured")
	}

	header := c.Request().Header.Get(serviceKeyHeader)
	if subtle.ConstantTimeCompare([]byte(header), []byte(s.serviceKey)) != 1 {
		metrics.RelayRequestsTotal.WithLabelValues("forbidden").Inc()
		return apperrors.ForbiddenError("Forbidden: Invalid authentication key").
			WithContext("header_present", header != "")
	}

	var req relayRequest
	if err := c.Bind(&req); err != nil {
		metrics.RelayRequestsTotal.WithLabelValues("invalid_body").Inc()
		return apperrors.ValidationError("Invalid JSON body")
	}

	if len(req.ChatID) == 0 || string(req.ChatID) == "null" {
		metrics.RelayRequestsTotal.WithLabelValues("invalid_body").Inc()
		return apperrors.ValidationError("Missing required field: chatId")
	}
	if req.Message == "" {
		metrics.RelayRequestsTotal.WithLabelValues("invalid_body").Inc()
		return apperrors.ValidationError("Missing required field: message")
	}

	chatID, err := coerceChatID(req.ChatID)
	if err != nil {
		metrics.RelayRequestsTotal.WithLabelValues("invalid_body").Inc()
		return apperrors.ValidationError("Invalid chatId format: must be numeric")
	}

	start := time.Now()
	if err := s.sender.Send(c.Request().Context(), chatID, req.Message); err != nil {
		metrics.RelayRequestsTotal.WithLabelValues("send_failed").Inc()
		return apperrors.DeliveryError(fmt.Sprintf("Failed to send message: %v", err), err).
			WithContext("chat_id", chatID)
	}
	metrics.RelaySendDuration.Observe(time.Since(start).Seconds())

	metrics.RelayRequestsTotal.WithLabelValues("success").Inc()
	slog.Info("Notification sent", "chat_id", chatID, "message_length", len(req.Message))

	return c.JSON(200, map[string]string{
		"status":  "success",
		"message": "Notification sent",
	})
}

// coerceChatID accepts both `"123"` and `123` wire forms.
func coerceChatID(raw json.RawMessage) (int64, error) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return strconv.ParseInt(asString, 10, 64)
	}

	var asNumber int64
	if err := json.Unmarshal(raw, &asNumber); err != nil {
		return 0, err
	}
	return asNumber, nil
}

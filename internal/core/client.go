package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/perepilka/content-notify/internal/metrics"
	"github.com/perepilka/content-notify/internal/models"
)

const (
	requestTimeout = 10 * time.Second

	// provider tag the Core Service uses for Telegram identities
	providerTelegram = "TELEGRAM"
)

// Client is a typed HTTP client for the Core Service API. Each call issues a
// single request with a bounded timeout and no retries; any failure surfaces
// as a *Error.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Core Service client for the given base URL, e.g.
// "http://localhost:8080/api/v1".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

type authRequest struct {
	Provider   string `json:"provider"`
	ProviderID string `json:"providerId"`
	Username   string `json:"username,omitempty"`
}

type authResponse struct {
	AccountID string `json:"accountId"`
	IsNew     bool   `json:"isNew"`
}

type subscriptionRequest struct {
	AccountID string `json:"accountId"`
	URL       string `json:"url"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// RegisterIdentity claims an account for a Telegram identity. The Core Service
// is idempotent here: it returns the existing account or creates a new one.
// A response without an accountId is a protocol violation and fails fast.
func (c *Client) RegisterIdentity(ctx context.Context, telegramID int64, username string) (uuid.UUID, error) {
	payload := authRequest{
		Provider:   providerTelegram,
		ProviderID: fmt.Sprintf("%d", telegramID),
		Username:   username,
	}

	var resp authResponse
	if err := c.do(ctx, "register_identity", http.MethodPost, c.baseURL+"/users/auth", payload, &resp); err != nil {
		return uuid.Nil, err
	}

	if resp.AccountID == "" {
		return uuid.Nil, &Error{Kind: KindUnknown, Message: "missing accountId in response"}
	}
	accountID, err := uuid.Parse(resp.AccountID)
	if err != nil {
		return uuid.Nil, &Error{Kind: KindUnknown, Message: "malformed accountId in response", Cause: err}
	}

	slog.Info("User registered", "telegram_id", telegramID, "account_id", accountID, "is_new", resp.IsNew)
	return accountID, nil
}

// AddSubscription creates a subscription for the account. Platform detection
// and uniqueness enforcement happen on the Core Service side; a duplicate
// comes back as KindConflict.
func (c *Client) AddSubscription(ctx context.Context, accountID uuid.UUID, channelURL string) (models.Subscription, error) {
	payload := subscriptionRequest{
		AccountID: accountID.String(),
		URL:       channelURL,
	}

	var sub models.Subscription
	if err := c.do(ctx, "add_subscription", http.MethodPost, c.baseURL+"/subscriptions", payload, &sub); err != nil {
		return models.Subscription{}, err
	}

	slog.Info("Subscription added", "account_id", accountID, "platform", sub.Platform, "url", channelURL)
	return sub, nil
}

// ListSubscriptions returns all subscriptions for the account. An empty list
// is a valid outcome, not an error.
func (c *Client) ListSubscriptions(ctx context.Context, accountID uuid.UUID) ([]models.Subscription, error) {
	var subs []models.Subscription
	if err := c.do(ctx, "list_subscriptions", http.MethodGet, c.baseURL+"/subscriptions/"+accountID.String(), nil, &subs); err != nil {
		return nil, err
	}

	slog.Info("Retrieved subscriptions", "account_id", accountID, "count", len(subs))
	return subs, nil
}

// DeleteSubscription removes a subscription. The account id is passed for
// ownership verification; a 404 surfaces as KindNotFound, which callers treat
// as an expected outcome rather than a system failure.
func (c *Client) DeleteSubscription(ctx context.Context, subscriptionID int64, accountID uuid.UUID) error {
	target := fmt.Sprintf("%s/subscriptions/%d?accountId=%s",
		c.baseURL, subscriptionID, url.QueryEscape(accountID.String()))

	if err := c.do(ctx, "delete_subscription", http.MethodDelete, target, nil, nil); err != nil {
		return err
	}

	slog.Info("Subscription deleted", "subscription_id", subscriptionID, "account_id", accountID)
	return nil
}

// do issues one request and decodes a 2xx JSON body into out (when non-nil).
// Non-2xx responses and transport failures are classified into *Error.
// operation is a fixed label for logs and metrics.
func (c *Client) do(ctx context.Context, operation, method, target string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return &Error{Kind: KindUnknown, Message: "failed to encode request", Cause: err}
		}
		body = bytes.NewReader(data)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return &Error{Kind: KindUnknown, Message: "failed to build request", Cause: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.CoreAPIRequestsTotal.WithLabelValues(operation, "network_error").Inc()
		slog.Error("Core API network error", "operation", operation, "error", err)
		return unavailable(err)
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.CoreAPIRequestsTotal.WithLabelValues(operation, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		coreErr := classify(resp.StatusCode, readErrorMessage(resp.Body))
		slog.Error("Core API error", "operation", operation, "status", resp.StatusCode, "message", coreErr.Message)
		return coreErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindUnknown, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// readErrorMessage extracts the message field from an error body, or returns
// "" when the body is absent or not the conventional {message} shape.
func readErrorMessage(r io.Reader) string {
	var errResp errorResponse
	if err := json.NewDecoder(r).Decode(&errResp); err != nil {
		return ""
	}
	return errResp.Message
}

package core

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perepilka/content-notify/internal/models"
)

func TestRegisterIdentity_Success(t *testing.T) {
	accountID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users/auth", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"accountId":"` + accountID.String() + `","isNew":true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	got, err := client.RegisterIdentity(context.Background(), 123456789, "john_doe")

	require.NoError(t, err)
	assert.Equal(t, accountID, got)
}

func TestRegisterIdentity_SendsProviderPayload(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		_, _ = w.Write([]byte(`{"accountId":"` + uuid.NewString() + `"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.RegisterIdentity(context.Background(), 123456789, "john_doe")

	require.NoError(t, err)
	assert.JSONEq(t, `{"provider":"TELEGRAM","providerId":"123456789","username":"john_doe"}`, body)
}

func TestRegisterIdentity_MissingAccountID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"isNew":false}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.RegisterIdentity(context.Background(), 1, "")

	coreErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindUnknown, coreErr.Kind)
	assert.Contains(t, coreErr.Message, "accountId")
}

func TestAddSubscription_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/subscriptions", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":42,"platform":"YOUTUBE","channelUrl":"https://www.youtube.com/@MrBeast"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	sub, err := client.AddSubscription(context.Background(), uuid.New(), "https://www.youtube.com/@MrBeast")

	require.NoError(t, err)
	assert.Equal(t, int64(42), sub.ID)
	assert.Equal(t, models.PlatformYouTube, sub.Platform)
	assert.Equal(t, "https://www.youtube.com/@MrBeast", sub.ChannelURL)
}

func TestAddSubscription_Conflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"Subscription already exists"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.AddSubscription(context.Background(), uuid.New(), "https://www.twitch.tv/shroud")

	coreErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindConflict, coreErr.Kind)
	assert.Equal(t, "Subscription already exists", coreErr.Message)
	assert.Equal(t, http.StatusConflict, coreErr.Status)
}

func TestListSubscriptions_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	subs, err := client.ListSubscriptions(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestListSubscriptions_Populated(t *testing.T) {
	accountID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscriptions/"+accountID.String(), r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"id":1,"platform":"YOUTUBE","channelUrl":"https://www.youtube.com/@MrBeast"},
			{"id":2,"platform":"TWITCH","channelUrl":"https://www.twitch.tv/shroud"}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	subs, err := client.ListSubscriptions(context.Background(), accountID)

	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, models.PlatformTwitch, subs[1].Platform)
}

func TestDeleteSubscription_Success(t *testing.T) {
	accountID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/subscriptions/7", r.URL.Path)
		assert.Equal(t, accountID.String(), r.URL.Query().Get("accountId"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.DeleteSubscription(context.Background(), 7, accountID)

	require.NoError(t, err)
}

func TestDeleteSubscription_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Subscription with id 7 not found"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.DeleteSubscription(context.Background(), 7, uuid.New())

	coreErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, coreErr.Kind)
	// 404 bodies are discarded in favour of the fixed message
	assert.Equal(t, "Resource not found", coreErr.Message)
}

func TestDo_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"NullPointerException in SubscriptionService"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.ListSubscriptions(context.Background(), uuid.New())

	coreErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindUnavailable, coreErr.Kind)
	// backend internals must not leak through
	assert.Equal(t, "System is temporarily unavailable, please try again later", coreErr.Message)
}

func TestDo_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL)
	_, err := client.ListSubscriptions(context.Background(), uuid.New())

	coreErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindUnavailable, coreErr.Kind)
	assert.Zero(t, coreErr.Status)
	assert.Error(t, coreErr.Unwrap())
}

package identity

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perepilka/content-notify/internal/models"
)

type fakeRegistrar struct {
	mu       sync.Mutex
	calls    int32
	accounts map[int64]uuid.UUID
	err      error
	started  chan struct{}
	release  chan struct{}
}

func (f *fakeRegistrar) RegisterIdentity(ctx context.Context, telegramID int64, username string) (uuid.UUID, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return uuid.Nil, f.err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.accounts == nil {
		f.accounts = make(map[int64]uuid.UUID)
	}
	if _, ok := f.accounts[telegramID]; !ok {
		f.accounts[telegramID] = uuid.New()
	}
	return f.accounts[telegramID], nil
}

func TestResolve_SecondCallHitsCache(t *testing.T) {
	reg := &fakeRegistrar{}
	cache := NewCache(reg)
	user := models.ExternalUser{ID: 123456789, Username: "john_doe"}

	first, err := cache.Resolve(context.Background(), user)
	require.NoError(t, err)

	second, err := cache.Resolve(context.Background(), user)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&reg.calls))
	assert.Equal(t, 1, cache.Size())
}

func TestResolve_DistinctUsersRegisterSeparately(t *testing.T) {
	reg := &fakeRegistrar{}
	cache := NewCache(reg)

	a, err := cache.Resolve(context.Background(), models.ExternalUser{ID: 1})
	require.NoError(t, err)
	b, err := cache.Resolve(context.Background(), models.ExternalUser{ID: 2})
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Equal(t, int32(2), atomic.LoadInt32(&reg.calls))
}

func TestResolve_ConcurrentFirstContactRegistersOnce(t *testing.T) {
	reg := &fakeRegistrar{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	cache := NewCache(reg)
	user := models.ExternalUser{ID: 42, Username: "racer"}

	results := make(chan uuid.UUID, 2)
	for i := 0; i < 2; i++ {
		go func() {
			id, err := cache.Resolve(context.Background(), user)
			assert.NoError(t, err)
			results <- id
		}()
	}

	// First resolver is inside the registrar; the second must join its flight
	// instead of issuing a second registration.
	<-reg.started
	close(reg.release)

	first := <-results
	second := <-results

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&reg.calls))
}

func TestResolve_FailedRegistrationIsNotCached(t *testing.T) {
	reg := &fakeRegistrar{err: errors.New("core unavailable")}
	cache := NewCache(reg)
	user := models.ExternalUser{ID: 7}

	_, err := cache.Resolve(context.Background(), user)
	require.Error(t, err)
	assert.Equal(t, 0, cache.Size())

	reg.err = nil
	id, err := cache.Resolve(context.Background(), user)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, int32(2), atomic.LoadInt32(&reg.calls))
}

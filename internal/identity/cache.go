// Package identity maps Telegram identities to Core Service account ids.
package identity

import (
	"context"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/perepilka/content-notify/internal/metrics"
	"github.com/perepilka/content-notify/internal/models"
)

// registrar is the slice of the Core Service client the cache needs.
type registrar interface {
	RegisterIdentity(ctx context.Context, telegramID int64, username string) (uuid.UUID, error)
}

// Cache is a read-through cache from Telegram user id to account id. Entries
// live for the process lifetime and are never evicted or refreshed.
//
// Uses singleflight to collapse concurrent first contacts for the same user,
// so at most one registration call is issued per Telegram id.
type Cache struct {
	registrar registrar

	mu       sync.RWMutex
	accounts map[int64]uuid.UUID
	group    singleflight.Group
}

// NewCache creates an empty identity cache backed by the given registrar.
func NewCache(r registrar) *Cache {
	return &Cache{
		registrar: r,
		accounts:  make(map[int64]uuid.UUID),
	}
}

// Resolve returns the account id for the user, registering it with the Core
// Service on first contact. A failed registration caches nothing, so the next
// call retries.
func (c *Cache) Resolve(ctx context.Context, user models.ExternalUser) (uuid.UUID, error) {
	c.mu.RLock()
	accountID, ok := c.accounts[user.ID]
	c.mu.RUnlock()
	if ok {
		metrics.IdentityCacheLookupsTotal.WithLabelValues("hit").Inc()
		return accountID, nil
	}

	metrics.IdentityCacheLookupsTotal.WithLabelValues("miss").Inc()

	v, err, _ := c.group.Do(strconv.FormatInt(user.ID, 10), func() (any, error) {
		// Re-check under the group: a concurrent resolver may have filled
		// the entry between our read and the flight starting.
		c.mu.RLock()
		cached, ok := c.accounts[user.ID]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}

		registered, err := c.registrar.RegisterIdentity(ctx, user.ID, user.Username)
		if err != nil {
			return uuid.Nil, err
		}

		c.mu.Lock()
		c.accounts[user.ID] = registered
		c.mu.Unlock()
		return registered, nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return v.(uuid.UUID), nil
}

// Size reports the number of cached identities.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.accounts)
}

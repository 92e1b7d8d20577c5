package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alignhq/api/pkg/domain/reference"
)

// ProfileCache caches subject profiles keyed by tenant and user id. It
// sits at the authentication boundary: token claims carry identity, but
// the active flag and the current role/area assignment are read from
// storage so revocation takes effect within one TTL. The access engine
// itself never reads this cache.
type ProfileCache struct {
	client  *Client
	checker reference.Checker
	ttl     time.Duration
}

// NewProfileCache creates a profile cache backed by the given checker.
func NewProfileCache(client *Client, checker reference.Checker, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ProfileCache{
		client:  client,
		checker: checker,
		ttl:     ttl,
	}
}

func profileKey(tenantID, userID string) string {
	return fmt.Sprintf("profile:%s:%s", tenantID, userID)
}

// Get returns the subject profile for a user, consulting the cache
// before storage. A nil profile with nil error means the subject does
// not exist in the tenant.
func (c *ProfileCache) Get(ctx context.Context, userID, tenantID string) (*reference.SubjectState, error) {
	key := profileKey(tenantID, userID)

	raw, err := c.client.Get(ctx, key)
	if err == nil {
		var state reference.SubjectState
		if jsonErr := json.Unmarshal([]byte(raw), &state); jsonErr == nil {
			return &state, nil
		}
		// Corrupt entry, fall through to storage and overwrite.
	} else if !errors.Is(err, ErrKeyNotFound) {
		c.client.Logger().Warn("profile cache read failed", "error", err)
	}

	state, err := c.checker.SubjectByID(ctx, userID, tenantID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, nil
	}

	if encoded, err := json.Marshal(state); err == nil {
		if setErr := c.client.Set(ctx, key, string(encoded), c.ttl); setErr != nil {
			c.client.Logger().Warn("profile cache write failed", "error", setErr)
		}
	}
	return state, nil
}

// Invalidate drops a cached profile, forcing the next request to read
// storage.
func (c *ProfileCache) Invalidate(ctx context.Context, userID, tenantID string) error {
	return c.client.Del(ctx, profileKey(tenantID, userID))
}

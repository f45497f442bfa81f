package redis

import (
	"context"
	"time"

	"github.com/grindhub/grind-practice-hub/internal/domain/leaderboard"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD CACHE
// ══════════════════════════════════════════════════════════════════════════════

// keyLeaderboard is the key prefix for cached daily boards.
const keyLeaderboard = "leaderboard:day:"

// LeaderboardCache keeps the computed daily board so repeated reads do
// not rescan every user's log. The cached value is advisory and
// short-lived; appends invalidate the current day's entry.
type LeaderboardCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewLeaderboardCache creates a LeaderboardCache with the given TTL.
func NewLeaderboardCache(cache *Cache, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{cache: cache, ttl: ttl}
}

// Get returns the cached board for a date. ErrCacheMiss on absence.
func (c *LeaderboardCache) Get(ctx context.Context, date string) ([]leaderboard.Row, error) {
	var rows []leaderboard.Row
	if err := c.cache.GetJSON(ctx, keyLeaderboard+date, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Set stores the computed board for a date.
func (c *LeaderboardCache) Set(ctx context.Context, date string, rows []leaderboard.Row) error {
	return c.cache.SetJSON(ctx, keyLeaderboard+date, rows, c.ttl)
}

// Invalidate drops the cached board for a date, typically after an
// append changed that day's counts.
func (c *LeaderboardCache) Invalidate(ctx context.Context, date string) error {
	return c.cache.Delete(ctx, keyLeaderboard+date)
}

package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"quiz-api-service/internal/app"
	"quiz-api-service/internal/domain"
)

// LeaderboardKey is the Redis hash holding cached top-N snapshots:
// HSET quiz:leaderboard {limit} {json entries}
const LeaderboardKey = "quiz:leaderboard"

// LeaderboardCache caches leaderboard reads in Redis so that every replica
// shares one snapshot, and falls back to the wrapped repository on miss.
// Writes go to the repository and drop the whole hash.
type LeaderboardCache struct {
	client *redis.Client
	inner  app.ParticipationRepository
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

type cachedEntry struct {
	ID         int64     `json:"id"`
	PlayerName string    `json:"playerName"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"createdAt"`
}

func NewLeaderboardCache(client *redis.Client, inner app.ParticipationRepository, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{
		client: client,
		inner:  inner,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *LeaderboardCache) Add(ctx context.Context, p *domain.Participation) error {
	if err := c.inner.Add(ctx, p); err != nil {
		return err
	}
	return c.invalidate(ctx)
}

func (c *LeaderboardCache) DeleteAll(ctx context.Context) error {
	if err := c.inner.DeleteAll(ctx); err != nil {
		return err
	}
	return c.invalidate(ctx)
}

func (c *LeaderboardCache) Top(ctx context.Context, limit int) ([]domain.Participation, error) {
	field := strconv.Itoa(limit)
	if entries, ok := c.lookup(ctx, field); ok {
		return entries, nil
	}

	result, err, _ := c.sf.Do(field, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if entries, ok := c.lookup(ctx, field); ok {
			return entries, nil
		}

		entries, err := c.inner.Top(ctx, limit)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(toCached(entries)); err == nil {
			pipe := c.client.Pipeline()
			pipe.HSet(ctx, LeaderboardKey, field, raw)
			if ttl := c.ttlWithJitter(); ttl > 0 {
				pipe.Expire(ctx, LeaderboardKey, ttl)
			}
			_, _ = pipe.Exec(ctx)
		}
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Participation), nil
}

func (c *LeaderboardCache) lookup(ctx context.Context, field string) ([]domain.Participation, bool) {
	raw, err := c.client.HGet(ctx, LeaderboardKey, field).Bytes()
	if err != nil {
		return nil, false
	}
	var cached []cachedEntry
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, false
	}
	return fromCached(cached), true
}

func (c *LeaderboardCache) invalidate(ctx context.Context) error {
	return c.client.Del(ctx, LeaderboardKey).Err()
}

func (c *LeaderboardCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

func toCached(entries []domain.Participation) []cachedEntry {
	out := make([]cachedEntry, 0, len(entries))
	for _, p := range entries {
		out = append(out, cachedEntry{ID: p.ID, PlayerName: p.PlayerName, Score: p.Score, CreatedAt: p.CreatedAt})
	}
	return out
}

func fromCached(cached []cachedEntry) []domain.Participation {
	out := make([]domain.Participation, 0, len(cached))
	for _, e := range cached {
		out = append(out, domain.Participation{ID: e.ID, PlayerName: e.PlayerName, Score: e.Score, CreatedAt: e.CreatedAt})
	}
	return out
}

package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quiz-api-service/internal/app"
	"quiz-api-service/internal/domain"
)

// LeaderboardCache caches top-N leaderboard reads with TTL to avoid repeated
// store hits. Writes go straight to the wrapped repository and invalidate.
type LeaderboardCache struct {
	inner app.ParticipationRepository
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand

	mu         sync.RWMutex
	cache      map[int]cachedTop
	generation uint64
}

type cachedTop struct {
	entries   []domain.Participation
	expiresAt time.Time
}

func NewLeaderboardCache(inner app.ParticipationRepository, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{
		inner: inner,
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		cache: make(map[int]cachedTop),
	}
}

func (c *LeaderboardCache) Add(ctx context.Context, p *domain.Participation) error {
	if err := c.inner.Add(ctx, p); err != nil {
		return err
	}
	c.invalidate()
	return nil
}

func (c *LeaderboardCache) DeleteAll(ctx context.Context) error {
	if err := c.inner.DeleteAll(ctx); err != nil {
		return err
	}
	c.invalidate()
	return nil
}

func (c *LeaderboardCache) Top(ctx context.Context, limit int) ([]domain.Participation, error) {
	if entries, ok := c.lookup(limit); ok {
		return entries, nil
	}

	result, err, _ := c.sf.Do(strconv.Itoa(limit), func() (interface{}, error) {
		if entries, ok := c.lookup(limit); ok {
			return entries, nil
		}
		now := c.clock()
		c.mu.RLock()
		generation := c.generation
		c.mu.RUnlock()

		entries, err := c.inner.Top(ctx, limit)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		// A write that landed during the load makes this result stale.
		if c.generation == generation {
			c.cache[limit] = cachedTop{entries: entries, expiresAt: now.Add(c.ttlWithJitter())}
		}
		c.mu.Unlock()
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return copyParticipations(result.([]domain.Participation)), nil
}

func (c *LeaderboardCache) lookup(limit int) ([]domain.Participation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[limit]
	if !ok || !entry.expiresAt.After(c.clock()) {
		return nil, false
	}
	return copyParticipations(entry.entries), true
}

func (c *LeaderboardCache) invalidate() {
	c.mu.Lock()
	c.cache = make(map[int]cachedTop)
	c.generation++
	c.mu.Unlock()
}

func (c *LeaderboardCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

func copyParticipations(in []domain.Participation) []domain.Participation {
	out := make([]domain.Participation, len(in))
	copy(out, in)
	return out
}

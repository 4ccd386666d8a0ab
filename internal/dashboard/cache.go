package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/caramelohq/grooming-platform/pkg/logging"
)

// Cache is a read-through Redis cache for dashboard stats, keyed by org and
// reference day. Scheduling writes call Invalidate so the next read recomputes.
type Cache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewCache wraps a Redis client. ttl <= 0 falls back to one minute.
func NewCache(client *redis.Client, ttl time.Duration, logger *logging.Logger) *Cache {
	if client == nil {
		panic("dashboard: redis client required")
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Cache{redis: client, ttl: ttl, logger: logger}
}

func statsKey(orgID uuid.UUID, day string) string {
	return fmt.Sprintf("dashboard:%s:%s", orgID, day)
}

// Get returns the cached stats, or nil on miss. Cache failures read as
// misses.
func (c *Cache) Get(ctx context.Context, orgID uuid.UUID, day string) *Stats {
	if c == nil {
		return nil
	}
	data, err := c.redis.Get(ctx, statsKey(orgID, day)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Error("dashboard cache read failed", "error", err, "org_id", orgID)
		}
		return nil
	}
	var stats Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		c.logger.Error("dashboard cache decode failed", "error", err, "org_id", orgID)
		return nil
	}
	return &stats
}

// Set stores the stats under the org+day key. Failures are logged, the
// caller already has the computed value.
func (c *Cache) Set(ctx context.Context, stats *Stats) {
	if c == nil {
		return
	}
	orgID, err := uuid.Parse(stats.OrgID)
	if err != nil {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		c.logger.Error("dashboard cache encode failed", "error", err, "org_id", stats.OrgID)
		return
	}
	if err := c.redis.Set(ctx, statsKey(orgID, stats.Date), data, c.ttl).Err(); err != nil {
		c.logger.Error("dashboard cache write failed", "error", err, "org_id", stats.OrgID)
	}
}

// Invalidate drops every cached day for the organization. Appointment writes
// can land on any date, so the whole org prefix goes.
func (c *Cache) Invalidate(ctx context.Context, orgID uuid.UUID) {
	if c == nil {
		return
	}
	pattern := fmt.Sprintf("dashboard:%s:*", orgID)
	iter := c.redis.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.redis.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Error("dashboard cache invalidation failed", "error", err, "key", iter.Val())
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Error("dashboard cache scan failed", "error", err, "org_id", orgID)
	}
}

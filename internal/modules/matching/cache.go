// README: Redis cache for filtered buddy-search results.
package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"peloton/internal/types"
)

const searchKeyPrefix = "matching:search:%s:%s"

// Cache keeps recent buddy-search partitions. It is strictly best effort:
// a Redis failure is logged and the search recomputes.
type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCache(redis *redis.Client, ttl time.Duration) *Cache {
	return &Cache{redis: redis, ttl: ttl}
}

func (c *Cache) GetSearch(ctx context.Context, requesterID types.ID, filterKey string) (*SearchResult, bool) {
	val, err := c.redis.Get(ctx, searchKey(requesterID, filterKey)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("[matching] search cache get: %v", err)
		return nil, false
	}
	var res SearchResult
	if err := json.Unmarshal([]byte(val), &res); err != nil {
		return nil, false
	}
	return &res, true
}

func (c *Cache) PutSearch(ctx context.Context, requesterID types.ID, filterKey string, res *SearchResult) {
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, searchKey(requesterID, filterKey), data, c.ttl).Err(); err != nil {
		log.Printf("[matching] search cache put: %v", err)
	}
}

func searchKey(requesterID types.ID, filterKey string) string {
	return fmt.Sprintf(searchKeyPrefix, string(requesterID), filterKey)
}

// filterCacheKey flattens the soft filters into a stable cache key segment.
func filterCacheKey(f SearchFilters) string {
	maxDist := ""
	if f.MaxDistanceMi != nil {
		maxDist = fmt.Sprintf("%d", *f.MaxDistanceMi)
	}
	return fmt.Sprintf("%s|%s|%s|%s", f.PaceZone, f.ElevationPref, f.RideTypePref, maxDist)
}

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/cx-tal-miterani/hall-booking-console/shared/models"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "chb:halls:"

// Source lists the community halls of a tenant
type Source interface {
	ListHallCodes(ctx context.Context, tenantID string) ([]models.CommunityHall, error)
}

// Cache is the subset of the redis client used for the catalog
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Cached serves hall catalogs from redis, falling back to the source on misses
// and on cache errors
type Cached struct {
	source Source
	cache  Cache
	ttl    time.Duration
}

// NewCached wraps source with a redis-backed catalog cache
func NewCached(source Source, cache Cache, ttl time.Duration) *Cached {
	return &Cached{source: source, cache: cache, ttl: ttl}
}

// ListHallCodes implements search.CatalogCollaborator
func (c *Cached) ListHallCodes(ctx context.Context, tenantID string) ([]models.CommunityHall, error) {
	key := keyPrefix + tenantID

	raw, err := c.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var halls []models.CommunityHall
		if err := json.Unmarshal(raw, &halls); err == nil {
			return halls, nil
		}
		log.Printf("Catalog cache: dropping undecodable entry %s", key)
	case !errors.Is(err, redis.Nil):
		log.Printf("Catalog cache: get %s failed: %v", key, err)
	}

	halls, err := c.source.ListHallCodes(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(halls)
	if err != nil {
		return halls, nil
	}
	if err := c.cache.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("Catalog cache: set %s failed: %v", key, err)
	}
	return halls, nil
}

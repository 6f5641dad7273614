package widgetinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/joopert/translate-app/pkg/widget"
)

func siteKey(siteID string) string { return fmt.Sprintf("widget:site:%s", siteID) }

// RedisSiteCache implements widget.SiteCache with a per-entry TTL.
type RedisSiteCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSiteCache creates the cache around an existing Redis client.
func NewRedisSiteCache(rdb *redis.Client, ttl time.Duration) *RedisSiteCache {
	return &RedisSiteCache{rdb: rdb, ttl: ttl}
}

func (c *RedisSiteCache) Get(ctx context.Context, siteID string) (*widget.Site, error) {
	data, err := c.rdb.Get(ctx, siteKey(siteID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cached site: %w", err)
	}

	var site widget.Site
	if err := json.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("decode cached site: %w", err)
	}
	return &site, nil
}

func (c *RedisSiteCache) Set(ctx context.Context, site *widget.Site) error {
	data, err := json.Marshal(site)
	if err != nil {
		return fmt.Errorf("encode site for cache: %w", err)
	}
	if err := c.rdb.Set(ctx, siteKey(site.SiteID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache site: %w", err)
	}
	return nil
}

var _ widget.SiteCache = (*RedisSiteCache)(nil)

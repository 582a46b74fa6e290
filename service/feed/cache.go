package feed

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	firstPageKey = "feed:global:p1"
	firstPageTTL = 60 * time.Second
)

// Cache keeps the rendered first page of the global feed in Redis. The feed
// is read far more than it is written, and page 1 is almost every read.
// A nil Cache (no REDIS_URL) disables caching entirely.
type Cache struct {
	client *redis.Client
}

func NewCacheFromEnv() *Cache {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("Invalid REDIS_URL, feed cache disabled: %v", err)
		return nil
	}

	log.Printf("Feed cache enabled at %s", opts.Addr)
	return &Cache{client: redis.NewClient(opts)}
}

func (c *Cache) GetFirstPage(ctx context.Context) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, firstPageKey).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *Cache) SetFirstPage(ctx context.Context, payload []byte) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, firstPageKey, payload, firstPageTTL).Err(); err != nil {
		log.Printf("Error caching feed page: %v", err)
	}
}

// Invalidate drops the cached page after any post mutation.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, firstPageKey).Err(); err != nil {
		log.Printf("Error invalidating feed cache: %v", err)
	}
}

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redis_store "github.com/eko/gocache/store/redis/v4"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	DefaultPageTTL = 20 * time.Second

	pageCacheTag = "rendered-pages"
)

// PageCache keeps whole rendered pages for a fixed TTL.
// Keys never include the visitor, every visitor shares the same entry.
type PageCache struct {
	manager *cache.Cache[any]
	ttl     time.Duration

	// flush waits for buffered writes to land, nil for write-through stores
	flush func()
	purge func(ctx context.Context) error
}

func NewMemoryPageCache(ttl time.Duration) (*PageCache, error) {
	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 26,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create ristretto cache: %v", err)
	}

	manager := cache.New[any](ristretto_store.NewRistretto(client))
	return &PageCache{
		manager: manager,
		ttl:     ttl,
		flush:   client.Wait,
		purge:   manager.Clear,
	}, nil
}

// NewRedisPageCache shares pages between replicas. The redis database may hold
// other keys, so clearing only drops the entries tagged by this cache.
func NewRedisPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	manager := cache.New[any](redis_store.NewRedis(client))
	return &PageCache{
		manager: manager,
		ttl:     ttl,
		purge: func(ctx context.Context) error {
			return manager.Invalidate(ctx, store.WithInvalidateTags([]string{pageCacheTag}))
		},
	}
}

func NewPageCacheFromConfig() (*PageCache, error) {
	ttl := DefaultPageTTL
	if viper.IsSet("cache.ttl") {
		ttl = viper.GetDuration("cache.ttl")
	}

	switch driver := viper.GetString("cache.driver"); driver {
	case "", "memory":
		return NewMemoryPageCache(ttl)
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     viper.GetString("cache.redis.addr"),
			Password: viper.GetString("cache.redis.password"),
			DB:       viper.GetInt("cache.redis.db"),
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("unable to connect redis: %v", err)
		}
		return NewRedisPageCache(client, ttl), nil
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", driver)
	}
}

func (v *PageCache) TTL() time.Duration {
	return v.ttl
}

func GetPageCacheKey(url string) string {
	return fmt.Sprintf("page#%s", url)
}

func (v *PageCache) Get(ctx context.Context, url string) ([]byte, bool) {
	value, err := v.manager.Get(ctx, GetPageCacheKey(url))
	if err != nil {
		return nil, false
	}

	switch body := value.(type) {
	case []byte:
		return body, true
	case string:
		return []byte(body), true
	default:
		return nil, false
	}
}

func (v *PageCache) Set(ctx context.Context, url string, body []byte) error {
	// The response buffer is reused once the request finishes
	stored := make([]byte, len(body))
	copy(stored, body)

	err := v.manager.Set(
		ctx,
		GetPageCacheKey(url),
		stored,
		store.WithExpiration(v.ttl),
		store.WithTags([]string{pageCacheTag}),
	)
	if err != nil {
		return err
	}
	if v.flush != nil {
		v.flush()
	}

	log.Debug().Str("url", url).Dur("ttl", v.ttl).Msg("Cached rendered page.")
	return nil
}

func (v *PageCache) Clear(ctx context.Context) error {
	return v.purge(ctx)
}

package recommend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// Cache stores finished results. Results are deterministic for a catalog
// version and a canonical completed set, which is what the key encodes.
type Cache interface {
	Get(ctx context.Context, key string) (Result, bool, error)
	Set(ctx context.Context, key string, res Result, ttl time.Duration) error
}

// cacheKey builds the lookup key for a request against a catalog version.
func cacheKey(catalogVersion string, completed []string) string {
	set := canonicalSet(completed)
	codes := make([]string, 0, len(set))
	for code := range set {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	sum := sha256.Sum256([]byte(strings.Join(codes, ",")))
	return fmt.Sprintf("recommend:v1:%s:%s", catalogVersion, hex.EncodeToString(sum[:]))
}

// cachedResult keeps the path, which Result leaves out of its JSON form.
type cachedResult struct {
	Result
	Path Path `json:"path"`
}

// RedisCache is a Cache backed by Redis string values.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// ConnectRedis dials Redis and checks the connection.
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (Result, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, fmt.Errorf("error reading cache: %w", err)
	}
	var cr cachedResult
	if err := json.Unmarshal(data, &cr); err != nil {
		return Result{}, false, fmt.Errorf("failed to decode cached result: %w", err)
	}
	res := cr.Result
	res.Path = cr.Path
	return res, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, res Result, ttl time.Duration) error {
	data, err := json.Marshal(cachedResult{Result: res, Path: res.Path})
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("error writing cache: %w", err)
	}
	return nil
}

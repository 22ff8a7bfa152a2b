package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type memoryCache struct {
	entries map[string]Result
	gets    int
	sets    int
	getErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]Result{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) (Result, bool, error) {
	c.gets++
	if c.getErr != nil {
		return Result{}, false, c.getErr
	}
	res, ok := c.entries[key]
	return res, ok, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, res Result, ttl time.Duration) error {
	c.sets++
	c.entries[key] = res
	return nil
}

func TestCacheKey(t *testing.T) {
	a := cacheKey("v1", []string{"MATH135", "cs240"})
	b := cacheKey("v1", []string{" CS240", "math135", "MATH135"})
	if a != b {
		t.Fatalf("equivalent inputs must share a key: %s != %s", a, b)
	}
	if a == cacheKey("v2", []string{"MATH135", "CS240"}) {
		t.Fatalf("catalog version must be part of the key")
	}
	if a == cacheKey("v1", []string{"MATH135"}) {
		t.Fatalf("different inputs must not share a key")
	}
	if !strings.HasPrefix(a, "recommend:v1:v1:") {
		t.Fatalf("unexpected key format %s", a)
	}
}

func TestService_CachesResults(t *testing.T) {
	e := newTestEngine(t, scenarioCourses(), DefaultConfig())
	cache := newMemoryCache()
	svc := NewService(e, cache, time.Minute, zerolog.Nop())
	ctx := context.Background()

	first := svc.Recommend(ctx, []string{"MATH135"})
	if cache.sets != 1 {
		t.Fatalf("expected the result to be stored, got %d sets", cache.sets)
	}

	// poison the entry so a hit is observable
	for k, v := range cache.entries {
		v.Recommendations = v.Recommendations[:1]
		cache.entries[k] = v
	}
	second := svc.Recommend(ctx, []string{"math135"})
	if len(first.Recommendations) != 2 || len(second.Recommendations) != 1 {
		t.Fatalf("expected second call to be served from cache")
	}
	if cache.sets != 1 {
		t.Fatalf("a hit must not store again")
	}
}

func TestService_CacheErrorsAreIgnored(t *testing.T) {
	e := newTestEngine(t, scenarioCourses(), DefaultConfig())
	cache := newMemoryCache()
	cache.getErr = errors.New("connection refused")
	svc := NewService(e, cache, time.Minute, zerolog.Nop())

	res := svc.Recommend(context.Background(), []string{"MATH135"})
	assertCodes(t, res, "CS246", "CS240")
}

func TestService_ErrorsAreNotCached(t *testing.T) {
	e, err := NewEngine(nilSource{}, DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cache := newMemoryCache()
	svc := NewService(e, cache, time.Minute, zerolog.Nop())

	if res := svc.Recommend(context.Background(), nil); res.Error == "" {
		t.Fatalf("expected an error result")
	}
	if cache.gets != 0 || cache.sets != 0 {
		t.Fatalf("cache must not be used without a catalog")
	}
}

func TestService_WithoutCache(t *testing.T) {
	e := newTestEngine(t, scenarioCourses(), DefaultConfig())
	svc := NewService(e, nil, 0, zerolog.Nop())
	assertCodes(t, svc.Recommend(context.Background(), nil), "MATH135", "CS246", "CS240")
}

func TestConnectRedis_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := ConnectRedis(ctx, "127.0.0.1:1"); err == nil {
		t.Fatalf("expected an error for an unreachable server")
	}
}

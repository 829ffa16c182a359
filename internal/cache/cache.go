// internal/cache/cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/neeleshsethi/brand-intelligence-platform/internal/agents"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/config"
	apperrors "github.com/neeleshsethi/brand-intelligence-platform/internal/common/errors"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/logger"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/metrics"
)

// EvictionPolicy names how entries leave the cache.
type EvictionPolicy string

// EvictionNever keeps entries for the life of the process (or of the redis key space).
const EvictionNever EvictionPolicy = "never"

const keyTextLimit = 50

// Cache is the demo response store. Values are opaque JSON payloads.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Enabled() bool
	Policy() EvictionPolicy
}

// New picks the backend. Demo mode off yields a cache that never hits.
func New(cfg config.CacheConfig, demoMode bool, client *redis.Client) (Cache, error) {
	if !demoMode {
		return Disabled{}, nil
	}
	switch cfg.Backend {
	case "", "memory":
		return NewMemory(), nil
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("redis cache backend requires a redis client")
		}
		return NewRedis(client, cfg.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// ==========================
// Memory
// ==========================

// MemoryCache is an unbounded map created empty at start.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemory() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]byte)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *MemoryCache) Enabled() bool          { return true }
func (m *MemoryCache) Policy() EvictionPolicy { return EvictionNever }

// ==========================
// Redis
// ==========================

// RedisCache shares entries across replicas. Keys carry no TTL.
type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedis(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.NewCacheError("get", err)
	}
	return val, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return apperrors.NewCacheError("set", err)
	}
	return nil
}

func (r *RedisCache) Enabled() bool          { return true }
func (r *RedisCache) Policy() EvictionPolicy { return EvictionNever }

// ==========================
// Disabled
// ==========================

// Disabled always misses and drops writes.
type Disabled struct{}

func (Disabled) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Disabled) Set(context.Context, string, []byte) error         { return nil }
func (Disabled) Enabled() bool                                     { return false }
func (Disabled) Policy() EvictionPolicy                            { return EvictionNever }

// ==========================
// Memoize
// ==========================

// Memoize returns the cached value for key or computes, stores and returns it. Cache faults
// are logged and fall through to fn; they never fail the request. Two concurrent misses on
// the same key may both compute.
func Memoize[T any](ctx context.Context, c Cache, log logger.Logger, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	if c == nil || !c.Enabled() {
		metrics.DemoCacheRequests.WithLabelValues("bypass").Inc()
		return fn(ctx)
	}

	raw, ok, err := c.Get(ctx, key)
	if err != nil {
		log.Warn("Demo cache read failed", map[string]interface{}{"key": key, "error": err})
	}
	if ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			metrics.DemoCacheRequests.WithLabelValues("hit").Inc()
			log.Debug("Demo cache hit", map[string]interface{}{"key": key})
			return cached, nil
		}
		log.Warn("Demo cache entry unreadable, recomputing", map[string]interface{}{"key": key})
	}

	metrics.DemoCacheRequests.WithLabelValues("miss").Inc()
	value, err := fn(ctx)
	if err != nil {
		return value, err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		log.Warn("Demo cache encode failed", map[string]interface{}{"key": key, "error": err})
		return value, nil
	}
	if err := c.Set(ctx, key, payload); err != nil {
		log.Warn("Demo cache write failed", map[string]interface{}{"key": key, "error": err})
	}
	return value, nil
}

// ==========================
// Keys
// ==========================

func AnalyzeKey(brandID string) string {
	return "analyze_" + brandID
}

func PlanKey(brandID string, budget *float64, timeframe string) string {
	b := "none"
	if budget != nil {
		b = strconv.FormatFloat(*budget, 'f', -1, 64)
	}
	return fmt.Sprintf("plan_%s_%s_%s", brandID, b, timeframe)
}

func ScenarioKey(question string) string {
	return "scenario_" + agents.Truncate(question, keyTextLimit)
}

func ValidateKey(contentType, content string) string {
	return fmt.Sprintf("validate_%s_%s", contentType, agents.Truncate(content, keyTextLimit))
}

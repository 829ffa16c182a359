// internal/cache/cache_test.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/config"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

type payload struct {
	RiskLevel string   `json:"riskLevel"`
	Tactics   []string `json:"tactics"`
}

func countingFn(calls *int, p payload) func(ctx context.Context) (payload, error) {
	return func(ctx context.Context) (payload, error) {
		*calls++
		return p, nil
	}
}

// ==========================
// Memoize Tests
// ==========================

func TestMemoize_SecondCallIsHit(t *testing.T) {
	backends := map[string]func(t *testing.T) Cache{
		"memory": func(t *testing.T) Cache { return NewMemory() },
		"redis": func(t *testing.T) Cache {
			mr := miniredis.RunT(t)
			return NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "demo:")
		},
	}

	for name, build := range backends {
		t.Run(name, func(t *testing.T) {
			c := build(t)
			log := logger.NewTestLogger(t)
			ctx := context.Background()
			calls := 0
			fn := countingFn(&calls, payload{RiskLevel: "high", Tactics: []string{"a", "b", "c"}})

			first, err := Memoize(ctx, c, log, ScenarioKey("What if a rival cuts price 50%?"), fn)
			require.NoError(t, err)
			second, err := Memoize(ctx, c, log, ScenarioKey("What if a rival cuts price 50%?"), fn)
			require.NoError(t, err)

			assert.Equal(t, 1, calls)
			a, _ := json.Marshal(first)
			b, _ := json.Marshal(second)
			assert.Equal(t, string(a), string(b))
		})
	}
}

func TestMemoize_DisabledAlwaysRecomputes(t *testing.T) {
	calls := 0
	fn := countingFn(&calls, payload{RiskLevel: "low"})

	for i := 0; i < 3; i++ {
		_, err := Memoize(context.Background(), Disabled{}, logger.NewTestLogger(t), "k", fn)
		require.NoError(t, err)
	}

	assert.Equal(t, 3, calls)
}

func TestMemoize_ErrorsAreNotCached(t *testing.T) {
	c := NewMemory()
	boom := errors.New("provider down")

	_, err := Memoize(context.Background(), c, logger.NewTestLogger(t), "k", func(ctx context.Context) (payload, error) {
		return payload{}, boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}

func TestMemoize_RedisFaultsFallThrough(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedis(client, "demo:")

	mock.ExpectGet("demo:analyze_1").SetErr(errors.New("connection reset"))
	mock.ExpectSet("demo:analyze_1", []byte(`{"riskLevel":"medium","tactics":null}`), 0).SetErr(errors.New("connection reset"))

	calls := 0
	out, err := Memoize(context.Background(), c, logger.NewTestLogger(t), AnalyzeKey("1"), countingFn(&calls, payload{RiskLevel: "medium"}))

	require.NoError(t, err)
	assert.Equal(t, "medium", out.RiskLevel)
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_NoTTL(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedis(client, "demo:")

	mock.ExpectGet("demo:k").RedisNil()
	mock.ExpectSet("demo:k", []byte("v"), 0).SetVal("OK")
	mock.ExpectGet("demo:k").SetVal("v")

	_, ok, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(context.Background(), "k", []byte("v")))

	v, ok, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", string(v))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Construction and Keys
// ==========================

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.CacheConfig
		demo      bool
		client    *redis.Client
		expectErr bool
		validate  func(t *testing.T, c Cache)
	}{
		{
			name: "demo off is disabled",
			cfg:  config.CacheConfig{Backend: "redis"},
			validate: func(t *testing.T, c Cache) {
				assert.False(t, c.Enabled())
			},
		},
		{
			name: "memory backend",
			cfg:  config.CacheConfig{Backend: "memory"},
			demo: true,
			validate: func(t *testing.T, c Cache) {
				assert.IsType(t, &MemoryCache{}, c)
				assert.Equal(t, EvictionNever, c.Policy())
			},
		},
		{
			name:      "redis backend without client",
			cfg:       config.CacheConfig{Backend: "redis"},
			demo:      true,
			expectErr: true,
		},
		{
			name:   "redis backend",
			cfg:    config.CacheConfig{Backend: "redis", KeyPrefix: "demo:"},
			demo:   true,
			client: redis.NewClient(&redis.Options{Addr: "localhost:0"}),
			validate: func(t *testing.T, c Cache) {
				assert.IsType(t, &RedisCache{}, c)
			},
		},
		{
			name:      "unknown backend",
			cfg:       config.CacheConfig{Backend: "memcached"},
			demo:      true,
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.cfg, tt.demo, tt.client)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validate(t, c)
		})
	}
}

func TestKeys(t *testing.T) {
	budget := 45000000.0
	long := strings.Repeat("é", 80)

	assert.Equal(t, "analyze_7", AnalyzeKey("7"))
	assert.Equal(t, "plan_7_45000000_12 months", PlanKey("7", &budget, "12 months"))
	assert.Equal(t, "plan_7_none_6 months", PlanKey("7", nil, "6 months"))
	assert.Equal(t, "scenario_"+strings.Repeat("é", 50), ScenarioKey(long))
	assert.Equal(t, "validate_brand_plan_short", ValidateKey("brand_plan", "short"))
}

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jekabolt/salon-analytics/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	cfg := RedisConfig{Addr: addr, TTL: time.Minute, KeyPrefix: "salon-analytics-test:"}
	r := NewRedis(NewRedisClient(cfg), cfg)
	require.NoError(t, r.HealthCheck(ctx))

	_, ok, err := r.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	d := &entity.Dashboard{
		Version:     "v1",
		Granularity: entity.MetricsGranularityWeek,
		QuickStats:  entity.QuickStats{TotalAppointments: 3, TotalRevenue: decimal.NewFromFloat(12.5)},
	}
	require.NoError(t, r.Set(ctx, "k", d))

	got, ok, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v1", got.Version)
	assert.Equal(t, entity.MetricsGranularityWeek, got.Granularity)
	assert.True(t, got.QuickStats.TotalRevenue.Equal(decimal.NewFromFloat(12.5)))
}

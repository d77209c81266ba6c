package app

import (
	"context"
	"testing"
	"time"

	"github.com/jekabolt/salon-analytics/config"
	"github.com/jekabolt/salon-analytics/internal/analytics"
	"github.com/jekabolt/salon-analytics/internal/dashboard"
	"github.com/jekabolt/salon-analytics/internal/entity"
	"github.com/jekabolt/salon-analytics/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshot = "../internal/store/testdata/dataset.json"

func june() entity.FilterState {
	return entity.FilterState{DateRange: entity.DateRange{
		Start: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.June, 30, 23, 59, 59, 0, time.UTC),
	}}
}

func testConfig(kind string) *config.Config {
	return &config.Config{
		Source:    config.SourceConfig{Kind: kind, Path: snapshot},
		Bunt:      store.BuntConfig{Path: ":memory:"},
		Cache:     config.CacheConfig{Kind: config.CacheMemory},
		Dashboard: dashboard.DefaultConfig(),
		Analytics: analytics.DefaultConfig(),
	}
}

func TestBuildFileSource(t *testing.T) {
	ctx := context.Background()
	rt, err := Build(ctx, testConfig(config.SourceFile))
	require.NoError(t, err)
	defer rt.Close()

	assert.Nil(t, rt.Importer)
	d, err := rt.Engine.Compute(ctx, june(), entity.DashboardOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, d.QuickStats.TotalAppointments)
	assert.NotEmpty(t, d.Version)
}

func TestBuildBuntSeeded(t *testing.T) {
	ctx := context.Background()
	rt, err := Build(ctx, testConfig(config.SourceBunt))
	require.NoError(t, err)
	defer rt.Close()

	require.NotNil(t, rt.Importer)
	f := june()
	f.LocationID = "loc1"
	d, err := rt.Engine.Compute(ctx, f, entity.DashboardOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, d.QuickStats.TotalAppointments)

	for _, c := range rt.Checks {
		assert.NoError(t, c.Check(ctx), c.Name)
	}
}

func TestBuildMissingSnapshotStillServes(t *testing.T) {
	ctx := context.Background()
	c := testConfig(config.SourceFile)
	c.Source.Path = "does-not-exist.json"
	rt, err := Build(ctx, c)
	require.NoError(t, err)
	defer rt.Close()

	d, err := rt.Engine.Compute(ctx, june(), entity.DashboardOptions{})
	require.NoError(t, err)
	assert.Zero(t, d.QuickStats.TotalAppointments)
}

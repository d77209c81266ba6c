package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jekabolt/salon-analytics/internal/analytics"
	"github.com/jekabolt/salon-analytics/internal/entity"
	gerr "github.com/jekabolt/salon-analytics/internal/errors"
	"github.com/jekabolt/salon-analytics/internal/middleware"
	"github.com/jekabolt/salon-analytics/internal/ratelimit"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	slot   string
	filter entity.FilterState
	opts   entity.DashboardOptions
}

type fakeDashboard struct {
	mu       sync.Mutex
	computes []call
	triggers []call
	err      error
}

func (f *fakeDashboard) result(fs entity.FilterState, opts entity.DashboardOptions) (*entity.Dashboard, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &entity.Dashboard{
		Filter:      fs,
		Version:     "v1",
		Granularity: opts.Granularity,
		QuickStats:  entity.QuickStats{TotalAppointments: 2, TotalRevenue: decimal.NewFromInt(150)},
		Staff:       entity.StaffPerformance{Sort: opts.StaffSort, Revenue: []entity.StaffRevenue{}},
	}, nil
}

func (f *fakeDashboard) Compute(_ context.Context, fs entity.FilterState, opts entity.DashboardOptions) (*entity.Dashboard, error) {
	f.mu.Lock()
	f.computes = append(f.computes, call{filter: fs, opts: opts})
	f.mu.Unlock()
	return f.result(fs, opts)
}

func (f *fakeDashboard) Trigger(_ context.Context, slot string, fs entity.FilterState, opts entity.DashboardOptions) (*entity.Dashboard, error) {
	f.mu.Lock()
	f.triggers = append(f.triggers, call{slot: slot, filter: fs, opts: opts})
	f.mu.Unlock()
	return f.result(fs, opts)
}

var fixedNow = time.Date(2024, time.June, 15, 14, 30, 0, 0, time.UTC)

func newTestServer(d *fakeDashboard, checks ...HealthCheck) (*Server, http.Handler) {
	s := New(&Config{RateLimit: ratelimit.Config{Window: time.Hour, Max: 1000}}, d, analytics.DefaultConfig(), checks...)
	s.now = func() time.Time { return fixedNow }
	return s, s.Handler()
}

func get(h http.Handler, target string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetDashboard(t *testing.T) {
	d := &fakeDashboard{}
	s, h := newTestServer(d)
	defer s.Stop(context.Background())

	rec := get(h, "/api/analytics/dashboard?from=2024-06-01&to=2024-06-03&granularity=weekly&sort=name&order=asc",
		middleware.SlotHeader, "tab-1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body entity.Dashboard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "v1", body.Version)
	assert.Equal(t, entity.MetricsGranularityWeek, body.Granularity)

	require.Len(t, d.triggers, 1)
	c := d.triggers[0]
	assert.Equal(t, "tab-1", c.slot)
	assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), c.filter.DateRange.Start)
	assert.Equal(t, entity.AllLocations, c.filter.LocationID)
	assert.Equal(t, entity.StaffSort{Field: entity.SortByName, Order: entity.Ascending}, c.opts.StaffSort)
	assert.Equal(t, fixedNow, c.opts.Now)
}

func TestGetDashboardInvalidQuery(t *testing.T) {
	s, h := newTestServer(&fakeDashboard{})
	defer s.Stop(context.Background())

	rec := get(h, "/api/analytics/dashboard?granularity=hourly")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Violations)
}

func TestGetDashboardRangeTooLong(t *testing.T) {
	d := &fakeDashboard{}
	s, h := newTestServer(d)
	defer s.Stop(context.Background())

	rec := get(h, "/api/analytics/dashboard?from=0001-01-01&to=9999-12-31")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSection(t *testing.T) {
	s, h := newTestServer(&fakeDashboard{})
	defer s.Stop(context.Background())

	rec := get(h, "/api/analytics/quickstats")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Section string            `json:"section"`
		Data    entity.QuickStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "quickstats", body.Section)
	assert.Equal(t, 2, body.Data.TotalAppointments)

	rec = get(h, "/api/analytics/payroll")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExport(t *testing.T) {
	d := &fakeDashboard{}
	s, h := newTestServer(d)
	defer s.Stop(context.Background())

	rec := get(h, "/api/analytics/export.csv?from=2024-06-01&to=2024-06-03")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "salon-analytics-20240601-20240603.csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Summary\n"))

	rec = get(h, "/api/analytics/export.xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotZero(t, rec.Body.Len())

	assert.Len(t, d.computes, 2)
	assert.Empty(t, d.triggers)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{gerr.ErrInvalidDateRange, http.StatusBadRequest},
		{gerr.ErrSourceUnavailable, http.StatusServiceUnavailable},
		{context.Canceled, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		s, h := newTestServer(&fakeDashboard{err: c.err})
		rec := get(h, "/api/analytics/dashboard")
		assert.Equal(t, c.code, rec.Code, c.err.Error())
		s.Stop(context.Background())
	}
}

func TestRateLimited(t *testing.T) {
	s := New(&Config{RateLimit: ratelimit.Config{Window: time.Hour, Max: 1}}, &fakeDashboard{}, analytics.DefaultConfig())
	defer s.Stop(context.Background())
	h := s.Handler()

	assert.Equal(t, http.StatusOK, get(h, "/api/analytics/dashboard").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(h, "/api/analytics/dashboard").Code)
	assert.Equal(t, http.StatusOK, get(h, "/healthz").Code)
}

func TestHealthz(t *testing.T) {
	s, h := newTestServer(&fakeDashboard{},
		HealthCheck{Name: "source", Check: func(context.Context) error { return nil }},
	)
	defer s.Stop(context.Background())
	assert.Equal(t, http.StatusOK, get(h, "/healthz").Code)

	s2, h2 := newTestServer(&fakeDashboard{},
		HealthCheck{Name: "redis", Check: func(context.Context) error { return errors.New("down") }},
	)
	defer s2.Stop(context.Background())
	rec := get(h2, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":"down"`)
}

func TestMetricsEndpoint(t *testing.T) {
	s, h := newTestServer(&fakeDashboard{})
	defer s.Stop(context.Background())

	rec := get(h, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestIsOriginAllowed(t *testing.T) {
	assert.True(t, isOriginAllowed("http://localhost:3000", nil))
	assert.True(t, isOriginAllowed("https://salon.example", []string{"https://salon.example"}))
	assert.False(t, isOriginAllowed("https://evil.example", []string{"https://salon.example"}))
}

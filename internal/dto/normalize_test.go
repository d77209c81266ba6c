package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jekabolt/salon-analytics/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDatasetDefaults(t *testing.T) {
	raw := `{
		"appointments": [{"id": "a1", "date": "2024-06-02T10:30:00Z", "status": "No-Show"}],
		"staff": [{"id": "s1"}, {"id": "s2", "hoursPerWeek": 0, "googleCalendarHours": 25}],
		"clients": [{"id": "c1", "name": ""}],
		"products": [{"id": "p1", "businessId": "loc1", "sales": [{"date": "2024-06-02", "quantity": 2}]}],
		"promotions": [{"id": "pr1", "viewCount": -4}, {"id": "pr2"}],
		"services": [{"id": "sv1"}]
	}`
	var ds Dataset
	require.NoError(t, json.Unmarshal([]byte(raw), &ds))

	got := NormalizeDataset(&ds)

	require.Len(t, got.Appointments, 1)
	a := got.Appointments[0]
	assert.Equal(t, entity.DefaultDurationMinutes, a.Duration)
	assert.True(t, a.Price.Equal(decimal.Zero))
	assert.Equal(t, entity.StatusNoShow, a.Status)
	assert.NotNil(t, a.Addons)
	assert.Equal(t, time.Date(2024, 6, 2, 10, 30, 0, 0, time.UTC), a.Date)

	require.Len(t, got.Staff, 2)
	assert.Equal(t, entity.UnknownStaff, got.Staff[0].Name)
	assert.Equal(t, float64(entity.DefaultHoursPerWeek), got.Staff[0].HoursPerWeek)
	assert.Nil(t, got.Staff[0].GoogleCalendarHours)
	assert.Equal(t, float64(entity.DefaultHoursPerWeek), got.Staff[1].HoursPerWeek)
	require.NotNil(t, got.Staff[1].GoogleCalendarHours)
	assert.Equal(t, 25.0, *got.Staff[1].GoogleCalendarHours)

	assert.Equal(t, entity.UnknownClient, got.Clients[0].Name)

	p := got.Products[0]
	assert.Equal(t, entity.UnknownProduct, p.Name)
	assert.Equal(t, entity.Uncategorized, p.Category)
	require.Len(t, p.Sales, 1)
	assert.Equal(t, "loc1", p.Sales[0].BusinessID)
	assert.Equal(t, 2, p.Sales[0].Quantity)

	assert.Equal(t, entity.DefaultViewCount, got.Promotions[0].ViewCount)
	assert.Equal(t, entity.DefaultViewCount, got.Promotions[1].ViewCount)
	assert.Equal(t, entity.UnknownPromotion, got.Promotions[1].Name)
	assert.Equal(t, entity.UnknownService, got.Services[0].Name)
}

func TestNormalizeDatasetNil(t *testing.T) {
	got := NormalizeDataset(nil)
	assert.NotNil(t, got.Appointments)
	assert.NotNil(t, got.Staff)
	assert.NotNil(t, got.Clients)
	assert.NotNil(t, got.Products)
	assert.NotNil(t, got.Promotions)
	assert.NotNil(t, got.Services)
}

func TestTimestampUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339", `"2024-06-01T08:15:00+02:00"`, time.Date(2024, 6, 1, 6, 15, 0, 0, time.UTC)},
		{"date only", `"2024-06-01"`, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"no zone", `"2024-06-01T08:15:00"`, time.Date(2024, 6, 1, 8, 15, 0, 0, time.UTC)},
		{"millis", `1717200000000`, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %s", ts.Time)
		})
	}

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestTimestampScan(t *testing.T) {
	var ts Timestamp
	require.NoError(t, ts.Scan([]byte("2024-06-01 09:00:00")))
	assert.Equal(t, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), ts.Time)
	assert.Error(t, ts.Scan(42))
}

package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/jekabolt/salon-analytics/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func visits(counts map[string]int) []entity.Appointment {
	var out []entity.Appointment
	for _, id := range []string{"c1", "c2", "c3", "c4", "c5"} {
		for i := 0; i < counts[id]; i++ {
			out = append(out, appt(id, date(2024, time.June, 1+i, 10), "s1", id, 10))
		}
	}
	return out
}

func TestRetentionFunnelExample(t *testing.T) {
	got := RetentionFunnel(visits(map[string]int{"c1": 1, "c2": 2, "c3": 1}), entity.FunnelCumulative)

	assert.Equal(t, 3, got.TotalClients)
	require.Len(t, got.Stages, 4)
	assert.Equal(t, 3, got.Stages[0].Reached)
	assert.Equal(t, 1, got.Stages[1].Reached)
	assert.Equal(t, 2, got.Stages[0].Clients)
	assert.Equal(t, 1, got.Stages[1].Clients)
	assert.InDelta(t, 100.0, got.Stages[0].Percentage, 1e-9)
	assert.InDelta(t, 33.33, got.Stages[1].Percentage, 0.01)
	assert.Equal(t, 0.0, got.Stages[2].Percentage)
	assert.Equal(t, 0.0, got.Stages[3].Percentage)
}

func TestRetentionFunnelExclusive(t *testing.T) {
	got := RetentionFunnel(visits(map[string]int{"c1": 1, "c2": 2, "c3": 1, "c4": 3, "c5": 5}), entity.FunnelExclusive)

	assert.Equal(t, entity.FunnelExclusive, got.Mode)
	assert.InDelta(t, 40.0, got.Stages[0].Percentage, 1e-9)  // 2 of 5
	assert.InDelta(t, 50.0, got.Stages[1].Percentage, 1e-9)  // 1 of 2
	assert.InDelta(t, 100.0, got.Stages[2].Percentage, 1e-9) // 1 of 1
	assert.InDelta(t, 100.0, got.Stages[3].Percentage, 1e-9) // 1 of 1
}

func TestRetentionFunnelZeroDenominators(t *testing.T) {
	for _, mode := range []entity.FunnelMode{entity.FunnelCumulative, entity.FunnelExclusive} {
		got := RetentionFunnel(nil, mode)
		require.Len(t, got.Stages, 4)
		for _, s := range got.Stages {
			assert.False(t, math.IsNaN(s.Percentage))
			assert.Equal(t, 0.0, s.Percentage)
		}
	}

	// Only repeat clients: the exclusive first stage is empty and later stages divide by it.
	got := RetentionFunnel(visits(map[string]int{"c1": 2}), entity.FunnelExclusive)
	assert.Equal(t, 0.0, got.Stages[0].Percentage)
	assert.Equal(t, 0.0, got.Stages[1].Percentage)
}

func TestLastVisits(t *testing.T) {
	now := date(2024, time.June, 30, 12)
	appts := []entity.Appointment{
		appt("a1", date(2024, time.June, 1, 10), "s1", "c1", 10),
		appt("a2", date(2024, time.June, 20, 10), "s1", "c1", 10),
		appt("a3", date(2024, time.June, 10, 10), "s1", "c3", 10),
		appt("a4", date(2024, time.June, 10, 10), "s1", "c2", 10),
		appt("future", date(2024, time.July, 5, 10), "s1", "c4", 10),
	}
	appts[3].ClientName = "Booked Name"

	got := ClientAnalytics(appts, []entity.Client{{ID: "c3", Name: "Cleo"}}, now, DefaultConfig()).LastVisits

	require.Len(t, got, 3)
	assert.Equal(t, "c2", got[0].ClientID)
	assert.Equal(t, "Booked Name", got[0].Name)
	assert.Equal(t, 20, got[0].DaysSince)
	assert.Equal(t, "c3", got[1].ClientID)
	assert.Equal(t, "Cleo", got[1].Name)
	assert.Equal(t, "c1", got[2].ClientID)
	assert.Equal(t, 10, got[2].DaysSince)
	assert.Equal(t, date(2024, time.June, 20, 10), got[2].LastVisit)
}

func TestLastVisitsLimit(t *testing.T) {
	var appts []entity.Appointment
	for i := 0; i < 15; i++ {
		appts = append(appts, appt("a", date(2024, time.June, 1+i, 10), "s1", string(rune('a'+i)), 10))
	}

	got := ClientAnalytics(appts, nil, date(2024, time.June, 30, 0), DefaultConfig()).LastVisits

	require.Len(t, got, 10)
	assert.Equal(t, "a", got[0].ClientID)
}

func TestBookingHeatmapSingleMonday(t *testing.T) {
	monday := date(2024, time.June, 3, 10)
	require.Equal(t, time.Monday, monday.Weekday())

	got := BookingHeatmap([]entity.Appointment{appt("a1", monday.Add(25*time.Minute), "s1", "c1", 10)}, time.UTC)

	require.Len(t, got, 84)
	for _, c := range got {
		if c.Day == 1 && c.Hour == 10 {
			assert.Equal(t, 1, c.Count)
			assert.Equal(t, "Monday", c.DayLabel)
			assert.Equal(t, "10 AM", c.HourLabel)
			continue
		}
		assert.Equal(t, 0, c.Count, "day %d hour %d", c.Day, c.Hour)
	}
	assert.Equal(t, 0, got[0].Day)
	assert.Equal(t, 8, got[0].Hour)
	assert.Equal(t, "7 PM", got[11].HourLabel)
	assert.Equal(t, "12 PM", got[4].HourLabel)
}

func TestBookingHeatmapOutsideHoursAndZone(t *testing.T) {
	appts := []entity.Appointment{
		appt("early", date(2024, time.June, 3, 7), "s1", "c1", 10),
		appt("late", date(2024, time.June, 3, 20), "s1", "c1", 10),
	}
	got := BookingHeatmap(appts, time.UTC)
	for _, c := range got {
		assert.Equal(t, 0, c.Count)
	}

	got = BookingHeatmap(appts[:1], time.FixedZone("CEST", 2*60*60))
	assert.Equal(t, 1, got[1*12+1].Count)
}

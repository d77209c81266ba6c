// Package analytics holds the dashboard aggregators. Every function here is pure:
// it reads already filtered records and returns freshly allocated metrics.
package analytics

import (
	"math"
	"strings"
	"time"

	"github.com/jekabolt/salon-analytics/internal/entity"
	"github.com/shopspring/decimal"
)

// Config carries the tunables and placeholders the aggregators rely on.
type Config struct {
	// WeeksInRange multiplies weekly hours in staff utilization.
	WeeksInRange float64 `mapstructure:"weeks_in_range"`
	// DeriveWeeksInRange replaces WeeksInRange with ceil(span / 7 days).
	DeriveWeeksInRange bool `mapstructure:"derive_weeks_in_range"`
	// AssumedPackagesSold is the denominator of the package redemption rate.
	AssumedPackagesSold int `mapstructure:"assumed_packages_sold"`
	// ServiceRevenue is the service side of the product revenue breakdown.
	ServiceRevenue float64           `mapstructure:"service_revenue"`
	WeekStart      string            `mapstructure:"week_start"`
	FunnelMode     entity.FunnelMode `mapstructure:"funnel_mode"`
	TopClients     int               `mapstructure:"top_clients"`
	LapsedClients  int               `mapstructure:"lapsed_clients"`
	// MaxRangeDays bounds the span of a requested date range.
	MaxRangeDays int `mapstructure:"max_range_days"`
	// Timezone is used for heatmap cells and calendar bucketing. Empty means UTC.
	Timezone string `mapstructure:"timezone"`
}

func DefaultConfig() Config {
	return Config{
		WeeksInRange:        2,
		AssumedPackagesSold: 100,
		ServiceRevenue:      15000,
		WeekStart:           "sunday",
		FunnelMode:          entity.FunnelCumulative,
		TopClients:          5,
		LapsedClients:       10,
		MaxRangeDays:        731,
		Timezone:            "UTC",
	}
}

// withDefaults fills every zero field from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.WeeksInRange <= 0 {
		c.WeeksInRange = d.WeeksInRange
	}
	if c.AssumedPackagesSold <= 0 {
		c.AssumedPackagesSold = d.AssumedPackagesSold
	}
	if c.ServiceRevenue < 0 {
		c.ServiceRevenue = 0
	}
	if c.WeekStart == "" {
		c.WeekStart = d.WeekStart
	}
	if c.FunnelMode != entity.FunnelExclusive {
		c.FunnelMode = entity.FunnelCumulative
	}
	if c.TopClients <= 0 {
		c.TopClients = d.TopClients
	}
	if c.LapsedClients <= 0 {
		c.LapsedClients = d.LapsedClients
	}
	return c
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday maps an English day name to a weekday.
func ParseWeekday(s string) (time.Weekday, bool) {
	wd, ok := weekdays[strings.ToLower(strings.TrimSpace(s))]
	return wd, ok
}

// RangeLimit returns MaxRangeDays, or the default when unset.
func (c Config) RangeLimit() int {
	if c.MaxRangeDays <= 0 {
		return DefaultConfig().MaxRangeDays
	}
	return c.MaxRangeDays
}

// WeekStartDay falls back to Sunday for unknown names.
func (c Config) WeekStartDay() time.Weekday {
	if wd, ok := ParseWeekday(c.WeekStart); ok {
		return wd
	}
	return time.Sunday
}

// Location falls back to UTC for empty or unknown zones.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c Config) serviceRevenue() decimal.Decimal {
	return decimal.NewFromFloat(c.ServiceRevenue)
}

// weeksInRange returns the utilization multiplier for rng.
func (c Config) weeksInRange(rng entity.DateRange) float64 {
	if !c.DeriveWeeksInRange || !rng.End.After(rng.Start) {
		return c.WeeksInRange
	}
	weeks := math.Ceil(rng.End.Sub(rng.Start).Hours() / (24 * 7))
	if weeks < 1 {
		return 1
	}
	return weeks
}

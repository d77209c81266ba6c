package filter

import (
	"fmt"
	"time"

	"github.com/jekabolt/salon-analytics/internal/entity"
)

type Preset string

const (
	PresetLastWeek     Preset = "last_week"
	PresetLastMonth    Preset = "last_month"
	PresetCurrentWeek  Preset = "current_week"
	PresetCurrentMonth Preset = "current_month"
)

func (p Preset) Valid() bool {
	switch p {
	case PresetLastWeek, PresetLastMonth, PresetCurrentWeek, PresetCurrentMonth:
		return true
	}
	return false
}

// LastWeek spans the seven days ending at now.
func LastWeek(now time.Time) entity.DateRange {
	return entity.DateRange{Start: now.AddDate(0, 0, -7), End: now}
}

// LastMonth spans the thirty days ending at now.
func LastMonth(now time.Time) entity.DateRange {
	return entity.DateRange{Start: now.AddDate(0, 0, -30), End: now}
}

// CurrentWeek spans the calendar week containing now, starting on weekStart.
func CurrentWeek(now time.Time, weekStart time.Weekday) entity.DateRange {
	start := StartOfWeek(now, weekStart)
	return entity.DateRange{Start: start, End: start.AddDate(0, 0, 7).Add(-time.Nanosecond)}
}

// CurrentMonth spans the calendar month containing now.
func CurrentMonth(now time.Time) entity.DateRange {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return entity.DateRange{Start: start, End: start.AddDate(0, 1, 0).Add(-time.Nanosecond)}
}

// StartOfWeek truncates t to midnight of the most recent weekStart day.
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

// PresetRange resolves a named preset relative to now.
func PresetRange(p Preset, now time.Time, weekStart time.Weekday) (entity.DateRange, error) {
	switch p {
	case PresetLastWeek:
		return LastWeek(now), nil
	case PresetLastMonth:
		return LastMonth(now), nil
	case PresetCurrentWeek:
		return CurrentWeek(now, weekStart), nil
	case PresetCurrentMonth:
		return CurrentMonth(now), nil
	}
	return entity.DateRange{}, fmt.Errorf("unknown preset %q", p)
}

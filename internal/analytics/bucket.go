package analytics

import (
	"strconv"
	"time"

	"github.com/jekabolt/salon-analytics/internal/entity"
)

const dayKey = "2006-01-02"

func bucketStart(t time.Time, g entity.MetricsGranularity, weekStart time.Weekday) time.Time {
	loc := t.Location()
	switch g {
	case entity.MetricsGranularityWeek:
		daysBack := (int(t.Weekday()) - int(weekStart) + 7) % 7
		return time.Date(t.Year(), t.Month(), t.Day()-daysBack, 0, 0, 0, 0, loc)
	case entity.MetricsGranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	}
}

func bucketLabel(t time.Time, g entity.MetricsGranularity) string {
	switch g {
	case entity.MetricsGranularityWeek:
		return "Week of " + t.Format("Jan 02")
	case entity.MetricsGranularityMonth:
		return t.Format("Jan 2006")
	default:
		return t.Format("Jan 02")
	}
}

// daysBetween lists every calendar day from start to end inclusive, in loc.
func daysBetween(start, end time.Time, loc *time.Location) []time.Time {
	cur := bucketStart(start.In(loc), entity.MetricsGranularityDay, time.Sunday)
	last := bucketStart(end.In(loc), entity.MetricsGranularityDay, time.Sunday)
	var days []time.Time
	for !cur.After(last) {
		days = append(days, cur)
		cur = cur.AddDate(0, 0, 1)
	}
	return days
}

var weekdayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func hourLabel(h int) string {
	switch {
	case h == 0:
		return "12 AM"
	case h < 12:
		return strconv.Itoa(h) + " AM"
	case h == 12:
		return "12 PM"
	default:
		return strconv.Itoa(h-12) + " PM"
	}
}

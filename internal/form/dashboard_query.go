package form

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/jekabolt/salon-analytics/internal/entity"
	gerr "github.com/jekabolt/salon-analytics/internal/errors"
	"github.com/jekabolt/salon-analytics/internal/filter"
)

const dateLayout = "2006-01-02"

// DashboardQuery is the raw query string of an analytics request.
type DashboardQuery struct {
	From        string
	To          string
	Preset      string
	Location    string
	Granularity string
	Sort        string
	Order       string
}

func ParseDashboardQuery(q url.Values) *DashboardQuery {
	get := func(k string) string { return strings.TrimSpace(q.Get(k)) }
	return &DashboardQuery{
		From:        get("from"),
		To:          get("to"),
		Preset:      get("preset"),
		Location:    get("location"),
		Granularity: strings.ToLower(get("granularity")),
		Sort:        get("sort"),
		Order:       strings.ToLower(get("order")),
	}
}

func (r *DashboardQuery) Validate() error {
	return ValidateStruct(r,
		validation.Field(&r.From,
			validation.By(isDate),
			validation.When(r.Preset != "", validation.Empty.Error("must be empty when preset is set")),
		),
		validation.Field(&r.To,
			validation.By(isDate),
			validation.When(r.Preset != "", validation.Empty.Error("must be empty when preset is set")),
		),
		validation.Field(&r.Preset, validation.In(
			string(filter.PresetLastWeek),
			string(filter.PresetLastMonth),
			string(filter.PresetCurrentWeek),
			string(filter.PresetCurrentMonth),
		)),
		validation.Field(&r.Location, validation.Length(0, 64)),
		validation.Field(&r.Granularity, validation.In("daily", "weekly", "monthly", "day", "week", "month")),
		validation.Field(&r.Sort, validation.In(toAny(entity.StaffSortFields())...)),
		validation.Field(&r.Order, validation.In("asc", "desc")),
	)
}

// Resolve validates the query and turns it into a filter and view options.
// Bare dates are read in loc; "to" covers its whole day. Missing bounds
// default to the last thirty days. Ranges longer than maxDays are rejected
// with ErrInvalidFilter; zero disables the check.
func (r *DashboardQuery) Resolve(now time.Time, loc *time.Location, weekStart time.Weekday, maxDays int) (entity.FilterState, entity.DashboardOptions, error) {
	var (
		f    entity.FilterState
		opts entity.DashboardOptions
	)
	if err := r.Validate(); err != nil {
		return f, opts, err
	}
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)

	switch {
	case r.Preset != "":
		rng, err := filter.PresetRange(filter.Preset(r.Preset), now, weekStart)
		if err != nil {
			return f, opts, err
		}
		f.DateRange = rng
	default:
		rng := filter.LastMonth(now)
		if r.From != "" {
			rng.Start, _ = parseDate(r.From, loc, false)
		}
		if r.To != "" {
			rng.End, _ = parseDate(r.To, loc, true)
		}
		f.DateRange = rng
	}
	if err := validateSpan(f.DateRange, maxDays); err != nil {
		return f, opts, err
	}

	f.LocationID = r.Location
	if f.LocationID == "" {
		f.LocationID = entity.AllLocations
	}

	g, err := entity.ParseGranularity(r.Granularity)
	if err != nil {
		return f, opts, err
	}
	order, err := entity.ParseOrderFactor(r.Order)
	if err != nil {
		return f, opts, err
	}
	opts.Granularity = g
	opts.StaffSort = entity.DefaultStaffSort()
	if r.Sort != "" {
		opts.StaffSort.Field = entity.StaffSortField(r.Sort)
	}
	opts.StaffSort.Order = order
	return f, opts, nil
}

func validateSpan(rng entity.DateRange, maxDays int) error {
	if maxDays <= 0 {
		return nil
	}
	days := int(math.Ceil(rng.End.Sub(rng.Start).Hours() / 24))
	err := validation.Validate(days,
		validation.Max(maxDays).Error(fmt.Sprintf("date range must not exceed %d days", maxDays)),
	)
	if err != nil {
		return fmt.Errorf("%w: %s", gerr.ErrInvalidFilter, err)
	}
	return nil
}

func isDate(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := parseDate(s, time.UTC, false); err != nil {
		return fmt.Errorf("must be YYYY-MM-DD or RFC3339")
	}
	return nil
}

func parseDate(s string, loc *time.Location, endOfDay bool) (time.Time, error) {
	if t, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
		if endOfDay {
			return t.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
		}
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func toAny(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

package entity

import (
	"fmt"
	"strings"
	"time"
)

// AllLocations disables the location predicate.
const AllLocations = "all"

type OrderFactor string

const (
	Ascending  OrderFactor = "ASC"
	Descending OrderFactor = "DESC"
)

func (of *OrderFactor) String() string {
	if of != nil {
		if *of == Ascending {
			return "ASC"
		}
		return "DESC"
	}
	return "DESC"
}

// ParseOrderFactor accepts asc/desc in any case; empty input means Descending.
func ParseOrderFactor(s string) (OrderFactor, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(Descending):
		return Descending, nil
	case string(Ascending):
		return Ascending, nil
	}
	return "", fmt.Errorf("unknown order %q", s)
}

// StaffSortField selects the column the staff revenue table is ordered by.
type StaffSortField string

const (
	SortByRevenue        StaffSortField = "revenue"
	SortByAppointments   StaffSortField = "appointments"
	SortByAverageRevenue StaffSortField = "averageRevenue"
	SortByUniqueServices StaffSortField = "uniqueServices"
	SortByName           StaffSortField = "name"
)

var validStaffSortFields = map[StaffSortField]bool{
	SortByRevenue:        true,
	SortByAppointments:   true,
	SortByAverageRevenue: true,
	SortByUniqueServices: true,
	SortByName:           true,
}

func IsValidStaffSortField(field string) bool {
	return validStaffSortFields[StaffSortField(field)]
}

func StaffSortFields() []string {
	return []string{
		string(SortByRevenue),
		string(SortByAppointments),
		string(SortByAverageRevenue),
		string(SortByUniqueServices),
		string(SortByName),
	}
}

// StaffSort is the caller-selected ordering of the staff revenue table.
type StaffSort struct {
	Field StaffSortField `json:"field"`
	Order OrderFactor    `json:"order"`
}

// DefaultStaffSort orders by revenue, highest first.
func DefaultStaffSort() StaffSort {
	return StaffSort{Field: SortByRevenue, Order: Descending}
}

// DateRange is inclusive on both ends.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

type FilterState struct {
	DateRange  DateRange `json:"dateRange"`
	LocationID string    `json:"locationId"`
}

// MatchesLocation reports whether a record from businessID passes the location predicate.
func (f FilterState) MatchesLocation(businessID string) bool {
	if f.LocationID == "" || f.LocationID == AllLocations {
		return true
	}
	return businessID == f.LocationID
}

// DashboardOptions are the explicit view options of a dashboard request.
// A zero Now means the engine clock.
type DashboardOptions struct {
	Granularity MetricsGranularity `json:"granularity"`
	StaffSort   StaffSort          `json:"staffSort"`
	Now         time.Time          `json:"now"`
}

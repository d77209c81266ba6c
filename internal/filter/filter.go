// Package filter applies the dashboard's date range and location predicate to
// record collections before any aggregation runs.
package filter

import (
	"time"

	"github.com/jekabolt/salon-analytics/internal/entity"
)

// Dated is any record that carries a timestamp and a location.
type Dated interface {
	GetDate() time.Time
	GetBusinessID() string
}

// Apply keeps the records dated within the inclusive range that belong to the
// selected location. Input order is preserved and records is never modified.
func Apply[T Dated](records []T, f entity.FilterState) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if f.DateRange.Contains(r.GetDate()) && f.MatchesLocation(r.GetBusinessID()) {
			out = append(out, r)
		}
	}
	return out
}

func Appointments(appts []entity.Appointment, f entity.FilterState) []entity.Appointment {
	return Apply(appts, f)
}

// Sales returns copies of products whose embedded sales are filtered. Products
// themselves are never dropped, so stock figures stay available.
func Sales(products []entity.Product, f entity.FilterState) []entity.Product {
	out := make([]entity.Product, 0, len(products))
	for _, p := range products {
		p.Sales = Apply(p.Sales, f)
		out = append(out, p)
	}
	return out
}

// Dataset filters every dated collection of ds once. Lookup collections are shared.
func Dataset(ds *entity.Dataset, f entity.FilterState) *entity.Dataset {
	if ds == nil {
		ds = &entity.Dataset{}
	}
	return &entity.Dataset{
		Version:      ds.Version,
		Appointments: Appointments(ds.Appointments, f),
		Staff:        orEmpty(ds.Staff),
		Clients:      orEmpty(ds.Clients),
		Products:     Sales(ds.Products, f),
		Promotions:   orEmpty(ds.Promotions),
		Services:     orEmpty(ds.Services),
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

package analytics

import (
	"github.com/jekabolt/salon-analytics/internal/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type staffTally struct {
	revenue  decimal.Decimal
	count    int
	services map[string]struct{}
	minutes  int
	noShow   int
	late     int
	cancel   int
	issues   int
	clients  map[string]int
	order    []string
}

// StaffPerformance reports revenue, utilization, issue and retention rates for
// every staff member, including those without appointments in the range.
func StaffPerformance(appts []entity.Appointment, staff []entity.StaffMember, rng entity.DateRange, sort entity.StaffSort, cfg Config) entity.StaffPerformance {
	cfg = cfg.withDefaults()
	sort = normalizeStaffSort(sort)

	tallies := make(map[string]*staffTally, len(staff))
	for _, s := range staff {
		if _, ok := tallies[s.ID]; ok {
			continue
		}
		tallies[s.ID] = &staffTally{
			revenue:  decimal.Zero,
			services: map[string]struct{}{},
			clients:  map[string]int{},
		}
	}
	for _, a := range appts {
		t, ok := tallies[a.StaffID]
		if !ok {
			continue
		}
		t.revenue = t.revenue.Add(a.Price)
		t.count++
		if a.ServiceID != "" {
			t.services[a.ServiceID] = struct{}{}
		}
		t.minutes += a.DurationMinutes()
		if a.Status.IsIssue() {
			t.issues++
			switch a.Status {
			case entity.StatusNoShow:
				t.noShow++
			case entity.StatusLate:
				t.late++
			case entity.StatusCancelled:
				t.cancel++
			}
		}
		if a.ClientID != "" {
			if _, seen := t.clients[a.ClientID]; !seen {
				t.order = append(t.order, a.ClientID)
			}
			t.clients[a.ClientID]++
		}
	}

	weeks := cfg.weeksInRange(rng)
	out := entity.StaffPerformance{
		Sort:        sort,
		Revenue:     []entity.StaffRevenue{},
		Utilization: []entity.StaffUtilization{},
		Issues:      []entity.StaffIssues{},
		Retention:   []entity.StaffRetention{},
	}
	seen := make(map[string]bool, len(staff))
	for _, s := range staff {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		t := tallies[s.ID]
		name := s.DisplayName()

		out.Revenue = append(out.Revenue, entity.StaffRevenue{
			StaffID:        s.ID,
			Name:           name,
			Revenue:        t.revenue,
			Appointments:   t.count,
			UniqueServices: len(t.services),
			AverageRevenue: avgDecimal(t.revenue, t.count),
		})

		booked := entity.MinutesToHours(t.minutes)
		available := s.WeeklyHours() * weeks
		out.Utilization = append(out.Utilization, entity.StaffUtilization{
			StaffID:         s.ID,
			Name:            name,
			BookedHours:     booked,
			AvailableHours:  available,
			UtilizationRate: capPct(pct(booked, available)),
		})

		out.Issues = append(out.Issues, entity.StaffIssues{
			StaffID:           s.ID,
			Name:              name,
			NoShow:            t.noShow,
			Late:              t.late,
			Cancelled:         t.cancel,
			TotalAppointments: t.count,
			IssueRate:         pctInt(t.issues, t.count),
		})

		returning := 0
		for _, id := range t.order {
			if t.clients[id] > 1 {
				returning++
			}
		}
		out.Retention = append(out.Retention, entity.StaffRetention{
			StaffID:          s.ID,
			Name:             name,
			TotalClients:     len(t.order),
			ReturningClients: returning,
			RetentionRate:    pctInt(returning, len(t.order)),
		})
	}

	SortStaffRevenue(out.Revenue, sort)
	return out
}

func normalizeStaffSort(s entity.StaffSort) entity.StaffSort {
	if !entity.IsValidStaffSortField(string(s.Field)) {
		s.Field = entity.SortByRevenue
	}
	if s.Order != entity.Ascending {
		s.Order = entity.Descending
	}
	return s
}

// SortStaffRevenue orders rows in place by the selected field. Ties keep input order.
func SortStaffRevenue(rows []entity.StaffRevenue, s entity.StaffSort) {
	s = normalizeStaffSort(s)
	// Collators keep scratch buffers, so each sort gets its own.
	names := collate.New(language.English, collate.IgnoreCase, collate.IgnoreDiacritics)
	slices.SortStableFunc(rows, func(a, b entity.StaffRevenue) int {
		c := compareStaffRevenue(a, b, s.Field, names)
		if s.Order == entity.Descending {
			return -c
		}
		return c
	})
}

func compareStaffRevenue(a, b entity.StaffRevenue, field entity.StaffSortField, names *collate.Collator) int {
	switch field {
	case entity.SortByAppointments:
		return cmpInt(a.Appointments, b.Appointments)
	case entity.SortByAverageRevenue:
		return a.AverageRevenue.Cmp(b.AverageRevenue)
	case entity.SortByUniqueServices:
		return cmpInt(a.UniqueServices, b.UniqueServices)
	case entity.SortByName:
		return names.CompareString(a.Name, b.Name)
	default:
		return a.Revenue.Cmp(b.Revenue)
	}
}

package analytics

import (
	"fmt"
	"time"

	"github.com/jekabolt/salon-analytics/internal/entity"
	"golang.org/x/exp/slices"
)

const (
	overbookedAt = 90
	wellBookedAt = 70

	busiestAdvice = "Consider premium pricing or extending hours"
	slowestAdvice = "Target for promotions and marketing campaigns"
)

// CalendarUtilization compares booked hours with each staff member's weekly
// calendar availability and ranks weekdays by bookings.
func CalendarUtilization(appts []entity.Appointment, staff []entity.StaffMember, cfg Config) entity.CalendarUtilization {
	cfg = cfg.withDefaults()
	perStaff := calendarStaff(appts, staff)
	return entity.CalendarUtilization{
		Staff:         perStaff,
		BookingStatus: bookingStatus(perStaff),
		PeakTimes:     PeakTimes(appts, cfg.Location()),
	}
}

func calendarStaff(appts []entity.Appointment, staff []entity.StaffMember) []entity.CalendarStaff {
	minutes := map[string]int{}
	for _, a := range appts {
		minutes[a.StaffID] += a.DurationMinutes()
	}

	out := make([]entity.CalendarStaff, 0, len(staff))
	seen := make(map[string]bool, len(staff))
	for _, s := range staff {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		booked := entity.MinutesToHours(minutes[s.ID])
		available := s.CalendarHours()
		free := available - booked
		if free < 0 {
			free = 0
		}
		out = append(out, entity.CalendarStaff{
			StaffID:         s.ID,
			Name:            s.DisplayName(),
			BookedHours:     booked,
			AvailableHours:  available,
			FreeHours:       free,
			UtilizationRate: capPct(pct(booked, available)),
		})
	}
	return out
}

func bookingStatus(perStaff []entity.CalendarStaff) []entity.BookingStatusGroup {
	var over, well, under []string
	for _, s := range perStaff {
		switch {
		case s.UtilizationRate >= overbookedAt:
			over = append(over, s.Name)
		case s.UtilizationRate >= wellBookedAt:
			well = append(well, s.Name)
		default:
			under = append(under, s.Name)
		}
	}
	return []entity.BookingStatusGroup{
		{Status: entity.BookingOverbooked, Count: len(over), Names: joinNames(over)},
		{Status: entity.BookingWellBooked, Count: len(well), Names: joinNames(well)},
		{Status: entity.BookingUnderbooked, Count: len(under), Names: joinNames(under)},
	}
}

// PeakTimes counts bookings per weekday, busiest first. Ties keep weekday order.
func PeakTimes(appts []entity.Appointment, loc *time.Location) entity.PeakTimes {
	if loc == nil {
		loc = time.UTC
	}
	days := make([]entity.WeekdayCount, 7)
	for d := range days {
		days[d] = entity.WeekdayCount{Day: d, Label: weekdayNames[d]}
	}
	for _, a := range appts {
		days[int(a.Date.In(loc).Weekday())].Count++
	}

	active := 0
	for _, d := range days {
		if d.Count > 0 {
			active++
		}
	}

	slices.SortStableFunc(days, func(a, b entity.WeekdayCount) int {
		return cmpInt(b.Count, a.Count)
	})

	out := entity.PeakTimes{
		Days:            days,
		Slowest:         []entity.WeekdayAdvice{},
		Recommendations: []string{},
	}
	if active == 0 {
		return out
	}
	out.Busiest = &entity.WeekdayAdvice{WeekdayCount: days[0], Advice: busiestAdvice}
	if active < 2 {
		return out
	}
	last, prev := days[len(days)-1], days[len(days)-2]
	out.Slowest = []entity.WeekdayAdvice{
		{WeekdayCount: last, Advice: slowestAdvice},
		{WeekdayCount: prev, Advice: slowestAdvice},
	}
	out.Recommendations = []string{
		fmt.Sprintf("Run promotions on %s and %s", last.Label, prev.Label),
		"Consider special packages for off-peak times",
		"Optimize staff scheduling based on peak days",
	}
	return out
}

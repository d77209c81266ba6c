package analytics

import (
	"time"

	"github.com/jekabolt/salon-analytics/internal/entity"
	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func juneRange(from, to int) entity.DateRange {
	return entity.DateRange{
		Start: date(2024, time.June, from, 0),
		End:   date(2024, time.June, to, 0).Add(24*time.Hour - time.Nanosecond),
	}
}

func appt(id string, at time.Time, staffID, clientID string, price int64) entity.Appointment {
	return entity.Appointment{
		ID:       id,
		Date:     at,
		StaffID:  staffID,
		ClientID: clientID,
		Price:    decimal.NewFromInt(price),
		Duration: entity.DefaultDurationMinutes,
		Status:   entity.StatusCompleted,
		Addons:   []string{},
	}
}

func member(id, name string, hours float64) entity.StaffMember {
	return entity.StaffMember{ID: id, Name: name, HoursPerWeek: hours, Status: entity.StaffStatusActive}
}

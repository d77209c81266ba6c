package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultDurationMinutes is used for appointments stored without a duration.
const DefaultDurationMinutes = 60

type AppointmentStatus string

const (
	StatusCompleted AppointmentStatus = "completed"
	StatusNoShow    AppointmentStatus = "no-show"
	StatusLate      AppointmentStatus = "late"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment is a single booking with a staff member.
type Appointment struct {
	ID           string            `json:"id"`
	Date         time.Time         `json:"date"`
	StaffID      string            `json:"staffId"`
	ClientID     string            `json:"clientId"`
	ClientName   string            `json:"clientName,omitempty"`
	ServiceID    string            `json:"serviceId"`
	Price        decimal.Decimal   `json:"price"`
	Duration     int               `json:"duration"`
	Status       AppointmentStatus `json:"status"`
	PromoID      string            `json:"promoId,omitempty"`
	IsPackage    bool              `json:"isPackage"`
	Addons       []string          `json:"addons"`
	IsFirstVisit bool              `json:"isFirstVisit"`
	BusinessID   string            `json:"businessId"`
}

func (a Appointment) GetDate() time.Time      { return a.Date }
func (a Appointment) GetBusinessID() string   { return a.BusinessID }
func (a Appointment) HasAddons() bool         { return len(a.Addons) > 0 }
func (a Appointment) HasPromo() bool          { return a.PromoID != "" }

// DurationMinutes returns the booked length, falling back to DefaultDurationMinutes.
func (a Appointment) DurationMinutes() int {
	if a.Duration <= 0 {
		return DefaultDurationMinutes
	}
	return a.Duration
}

// MinutesToHours converts summed appointment minutes to hours.
func MinutesToHours(minutes int) float64 {
	return float64(minutes) / 60
}

// IsIssue reports whether the status counts against the staff member's issue rate.
func (s AppointmentStatus) IsIssue() bool {
	return s == StatusNoShow || s == StatusLate || s == StatusCancelled
}

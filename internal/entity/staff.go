package entity

// DefaultHoursPerWeek is assumed for staff members without a rota.
const DefaultHoursPerWeek = 40

const StaffStatusActive = "active"

type StaffMember struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	HoursPerWeek        float64  `json:"hoursPerWeek"`
	GoogleCalendarHours *float64 `json:"googleCalendarHours,omitempty"`
	Status              string   `json:"status"`
	BusinessID          string   `json:"businessId"`
}

func (s StaffMember) DisplayName() string {
	return nameOr(s.Name, UnknownStaff)
}

// WeeklyHours returns the contracted weekly hours or DefaultHoursPerWeek.
func (s StaffMember) WeeklyHours() float64 {
	if s.HoursPerWeek > 0 {
		return s.HoursPerWeek
	}
	return DefaultHoursPerWeek
}

// CalendarHours prefers the synced calendar availability over the contracted hours.
func (s StaffMember) CalendarHours() float64 {
	if s.GoogleCalendarHours != nil && *s.GoogleCalendarHours > 0 {
		return *s.GoogleCalendarHours
	}
	return s.WeeklyHours()
}

func (s StaffMember) IsActive() bool {
	return s.Status == StaffStatusActive
}

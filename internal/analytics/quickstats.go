package analytics

import (
	"github.com/jekabolt/salon-analytics/internal/entity"
	"github.com/shopspring/decimal"
)

// QuickStats is the headline row of the dashboard.
func QuickStats(appts []entity.Appointment, staff []entity.StaffMember, clients []entity.Client) entity.QuickStats {
	revenue := decimal.Zero
	for _, a := range appts {
		revenue = revenue.Add(a.Price)
	}
	active := 0
	for _, s := range staff {
		if s.IsActive() {
			active++
		}
	}
	return entity.QuickStats{
		TotalAppointments: len(appts),
		TotalRevenue:      revenue,
		ActiveStaff:       active,
		TotalClients:      len(clients),
	}
}

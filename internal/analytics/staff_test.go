package analytics

import (
	"testing"
	"time"

	"github.com/jekabolt/salon-analytics/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaffPerformanceEmptyAppointments(t *testing.T) {
	staff := []entity.StaffMember{member("s1", "Ann", 40), member("s2", "Bob", 0), member("s3", "", 20)}

	got := StaffPerformance(nil, staff, juneRange(1, 7), entity.DefaultStaffSort(), DefaultConfig())

	require.Len(t, got.Revenue, 3)
	require.Len(t, got.Utilization, 3)
	require.Len(t, got.Issues, 3)
	require.Len(t, got.Retention, 3)

	seen := map[string]int{}
	for _, r := range got.Revenue {
		seen[r.StaffID]++
		assert.True(t, r.Revenue.IsZero())
		assert.True(t, r.AverageRevenue.IsZero())
		assert.Equal(t, 0, r.Appointments)
	}
	assert.Equal(t, map[string]int{"s1": 1, "s2": 1, "s3": 1}, seen)
	for i := range staff {
		assert.Equal(t, 0.0, got.Utilization[i].UtilizationRate)
		assert.Equal(t, 0.0, got.Issues[i].IssueRate)
		assert.Equal(t, 0.0, got.Retention[i].RetentionRate)
	}
	assert.Equal(t, entity.UnknownStaff, got.Utilization[2].Name)
}

func TestStaffRevenueExample(t *testing.T) {
	appts := []entity.Appointment{
		appt("a1", date(2024, time.June, 2, 10), "s1", "c1", 100),
		appt("a2", date(2024, time.June, 2, 12), "s1", "c2", 50),
	}
	staff := []entity.StaffMember{member("s1", "Ann", 40)}

	got := StaffPerformance(appts, staff, juneRange(1, 3), entity.DefaultStaffSort(), DefaultConfig())

	require.Len(t, got.Revenue, 1)
	r := got.Revenue[0]
	assert.Equal(t, "s1", r.StaffID)
	assert.True(t, r.Revenue.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, 2, r.Appointments)
	assert.True(t, r.AverageRevenue.Equal(decimal.NewFromInt(75)))

	u := got.Utilization[0]
	assert.Equal(t, 2.0, u.BookedHours)
	assert.Equal(t, 80.0, u.AvailableHours)
	assert.InDelta(t, 2.5, u.UtilizationRate, 1e-9)
}

func TestStaffUtilizationCapped(t *testing.T) {
	var appts []entity.Appointment
	for i := 0; i < 10; i++ {
		a := appt("a", date(2024, time.June, 2, 9), "s1", "c1", 10)
		a.Duration = 600
		appts = append(appts, a)
	}

	got := StaffPerformance(appts, []entity.StaffMember{member("s1", "Ann", 10)}, juneRange(1, 3), entity.DefaultStaffSort(), DefaultConfig())

	assert.Equal(t, 100.0, got.Utilization[0].UtilizationRate)
}

func TestStaffUtilizationDerivedWeeks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DeriveWeeksInRange = true
	rng := entity.DateRange{Start: date(2024, time.June, 1, 0), End: date(2024, time.June, 22, 0)}

	got := StaffPerformance(nil, []entity.StaffMember{member("s1", "Ann", 40)}, rng, entity.DefaultStaffSort(), cfg)

	assert.Equal(t, 120.0, got.Utilization[0].AvailableHours)
}

func TestStaffIssuesAndRetention(t *testing.T) {
	noShow := appt("a2", date(2024, time.June, 2, 11), "s1", "c1", 0)
	noShow.Status = entity.StatusNoShow
	late := appt("a3", date(2024, time.June, 2, 12), "s1", "c2", 10)
	late.Status = entity.StatusLate
	cancelled := appt("a4", date(2024, time.June, 3, 12), "s2", "c1", 10)
	cancelled.Status = entity.StatusCancelled
	appts := []entity.Appointment{
		appt("a1", date(2024, time.June, 1, 10), "s1", "c1", 10),
		noShow,
		late,
		cancelled,
		appt("a5", date(2024, time.June, 3, 12), "ghost", "c9", 10),
	}
	staff := []entity.StaffMember{member("s1", "Ann", 40), member("s2", "Bob", 40)}

	got := StaffPerformance(appts, staff, juneRange(1, 3), entity.DefaultStaffSort(), DefaultConfig())

	s1 := got.Issues[0]
	assert.Equal(t, 1, s1.NoShow)
	assert.Equal(t, 1, s1.Late)
	assert.Equal(t, 0, s1.Cancelled)
	assert.Equal(t, 3, s1.TotalAppointments)
	assert.InDelta(t, 200.0/3, s1.IssueRate, 1e-9)
	assert.InDelta(t, 100.0, got.Issues[1].IssueRate, 1e-9)

	// c1 visits s1 twice and s2 once; returning is counted per staff member.
	assert.Equal(t, 2, got.Retention[0].TotalClients)
	assert.Equal(t, 1, got.Retention[0].ReturningClients)
	assert.InDelta(t, 50.0, got.Retention[0].RetentionRate, 1e-9)
	assert.Equal(t, 1, got.Retention[1].TotalClients)
	assert.Equal(t, 0.0, got.Retention[1].RetentionRate)
}

func TestStaffIssuesIgnoreUnknownStatus(t *testing.T) {
	pending := appt("a2", date(2024, time.June, 2, 11), "s1", "c1", 10)
	pending.Status = entity.AppointmentStatus("pending")
	appts := []entity.Appointment{
		appt("a1", date(2024, time.June, 1, 10), "s1", "c1", 10),
		pending,
	}

	got := StaffPerformance(appts, []entity.StaffMember{member("s1", "Ann", 40)}, juneRange(1, 3), entity.DefaultStaffSort(), DefaultConfig())

	require.Len(t, got.Issues, 1)
	assert.Equal(t, 2, got.Issues[0].TotalAppointments)
	assert.Equal(t, 0.0, got.Issues[0].IssueRate)
}

func TestStaffRevenueSort(t *testing.T) {
	svc := func(a entity.Appointment, id string) entity.Appointment {
		a.ServiceID = id
		return a
	}
	appts := []entity.Appointment{
		svc(appt("a1", date(2024, time.June, 2, 10), "s1", "c1", 100), "x"),
		svc(appt("a2", date(2024, time.June, 2, 10), "s2", "c1", 30), "x"),
		svc(appt("a3", date(2024, time.June, 2, 10), "s2", "c1", 30), "y"),
	}
	staff := []entity.StaffMember{member("s1", "zed", 40), member("s2", "Amy", 40), member("s3", "Kim", 40)}
	ids := func(rows []entity.StaffRevenue) []string {
		out := []string{}
		for _, r := range rows {
			out = append(out, r.StaffID)
		}
		return out
	}

	tests := []struct {
		name string
		sort entity.StaffSort
		want []string
	}{
		{"default", entity.StaffSort{}, []string{"s1", "s2", "s3"}},
		{"revenue asc", entity.StaffSort{Field: entity.SortByRevenue, Order: entity.Ascending}, []string{"s3", "s2", "s1"}},
		{"appointments desc", entity.StaffSort{Field: entity.SortByAppointments, Order: entity.Descending}, []string{"s2", "s1", "s3"}},
		{"average desc", entity.StaffSort{Field: entity.SortByAverageRevenue, Order: entity.Descending}, []string{"s1", "s2", "s3"}},
		{"unique services desc", entity.StaffSort{Field: entity.SortByUniqueServices, Order: entity.Descending}, []string{"s2", "s1", "s3"}},
		{"name asc", entity.StaffSort{Field: entity.SortByName, Order: entity.Ascending}, []string{"s2", "s3", "s1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StaffPerformance(appts, staff, juneRange(1, 3), tt.sort, DefaultConfig())
			assert.Equal(t, tt.want, ids(got.Revenue))
		})
	}
}

func TestSortStaffRevenueByNameIgnoresCaseAndAccents(t *testing.T) {
	rows := []entity.StaffRevenue{{Name: "zoë"}, {Name: "Fay"}, {Name: "Émile"}, {Name: "adam"}}
	SortStaffRevenue(rows, entity.StaffSort{Field: entity.SortByName, Order: entity.Ascending})

	names := []string{}
	for _, r := range rows {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"adam", "Émile", "Fay", "zoë"}, names)
}

package export

import (
	"strconv"
	"time"

	"github.com/jekabolt/salon-analytics/internal/entity"
	"github.com/shopspring/decimal"
)

// Table is one named section of an export. Cells hold string, int, float64,
// decimal.Decimal or time.Time values.
type Table struct {
	Name   string
	Header []string
	Rows   [][]any
}

func (t *Table) add(cells ...any) {
	t.Rows = append(t.Rows, cells)
}

// Tables flattens a dashboard into export sections in display order.
func Tables(d *entity.Dashboard) []Table {
	return []Table{
		summaryTable(d),
		revenueTable(d.Revenue),
		servicesTable(d.Revenue.Services),
		topClientsTable(d.Revenue.ClientSpend),
		staffTable(d.Staff),
		issuesTable(d.Staff),
		funnelTable(d.Clients.Funnel),
		lastVisitsTable(d.Clients.LastVisits),
		promotionsTable(d.Marketing),
		productsTable(d.Products),
		turnoverTable(d.Products.Turnover),
		calendarTable(d.Calendar),
	}
}

func summaryTable(d *entity.Dashboard) Table {
	t := Table{Name: "Summary", Header: []string{"Metric", "Value"}}
	t.add("From", d.Filter.DateRange.Start)
	t.add("To", d.Filter.DateRange.End)
	t.add("Location", d.Filter.LocationID)
	t.add("Total Appointments", d.QuickStats.TotalAppointments)
	t.add("Total Revenue", d.QuickStats.TotalRevenue)
	t.add("Active Staff", d.QuickStats.ActiveStaff)
	t.add("Total Clients", d.QuickStats.TotalClients)
	t.add("Average Spend", d.Revenue.ClientSpend.AverageSpend)
	t.add("Client Conversion Rate", d.Revenue.ClientSpend.ConversionRate)
	t.add("Upsell Rate", d.Marketing.Upsell.Rate)
	t.add("Package Redemption Rate", d.Marketing.Packages.RedemptionRate)
	t.add("Retail Revenue", d.Products.Breakdown.RetailRevenue)
	t.add("Service Revenue", d.Products.Breakdown.ServiceRevenue)
	return t
}

func revenueTable(r entity.RevenueTrends) Table {
	t := Table{Name: "Revenue", Header: []string{"Period", "Date", "Revenue", "Appointments"}}
	for _, b := range r.Buckets {
		t.add(b.Label, b.Date, b.Revenue, b.AppointmentCount)
	}
	return t
}

func servicesTable(services []entity.ServicePerformance) Table {
	t := Table{Name: "Services", Header: []string{"Service", "Revenue", "Bookings", "Label"}}
	for _, s := range services {
		t.add(s.Name, s.Revenue, s.Count, s.Label)
	}
	return t
}

func topClientsTable(cs entity.ClientSpend) Table {
	t := Table{Name: "Top Clients", Header: []string{"Client", "Total Spend", "Visits"}}
	for _, c := range cs.HighestPaying {
		t.add(c.Name, c.TotalSpend, c.Visits)
	}
	return t
}

func staffTable(sp entity.StaffPerformance) Table {
	t := Table{Name: "Staff", Header: []string{
		"Staff", "Revenue", "Appointments", "Average Revenue", "Unique Services",
		"Booked Hours", "Available Hours", "Utilization %", "Retention %",
	}}
	util := map[string]entity.StaffUtilization{}
	for _, u := range sp.Utilization {
		util[u.StaffID] = u
	}
	ret := map[string]entity.StaffRetention{}
	for _, r := range sp.Retention {
		ret[r.StaffID] = r
	}
	for _, s := range sp.Revenue {
		u, r := util[s.StaffID], ret[s.StaffID]
		t.add(s.Name, s.Revenue, s.Appointments, s.AverageRevenue, s.UniqueServices,
			u.BookedHours, u.AvailableHours, u.UtilizationRate, r.RetentionRate)
	}
	return t
}

func issuesTable(sp entity.StaffPerformance) Table {
	t := Table{Name: "Staff Issues", Header: []string{"Staff", "No-show", "Late", "Cancelled", "Total", "Issue %"}}
	for _, i := range sp.Issues {
		t.add(i.Name, i.NoShow, i.Late, i.Cancelled, i.TotalAppointments, i.IssueRate)
	}
	return t
}

func funnelTable(f entity.RetentionFunnel) Table {
	t := Table{Name: "Retention Funnel", Header: []string{"Stage", "Clients", "Reached", "Percentage"}}
	for _, s := range f.Stages {
		t.add(s.Stage, s.Clients, s.Reached, s.Percentage)
	}
	return t
}

func lastVisitsTable(visits []entity.ClientRecency) Table {
	t := Table{Name: "Last Visits", Header: []string{"Client", "Last Visit", "Days Since"}}
	for _, v := range visits {
		t.add(v.Name, v.LastVisit, v.DaysSince)
	}
	return t
}

func promotionsTable(m entity.MarketingInsights) Table {
	t := Table{Name: "Promotions", Header: []string{"Promotion", "Code", "Views", "Conversions", "Conversion %", "Revenue", "Label"}}
	for _, p := range m.Promotions {
		t.add(p.Name, p.Code, p.Views, p.Conversions, p.ConversionRate, p.Revenue, p.Label)
	}
	return t
}

func productsTable(ps entity.ProductSales) Table {
	t := Table{Name: "Products", Header: []string{"Product", "Category", "Units Sold", "Revenue"}}
	for _, p := range ps.Products {
		t.add(p.Name, p.Category, p.TotalSales, p.TotalRevenue)
	}
	return t
}

func turnoverTable(turnover []entity.StockTurnover) Table {
	t := Table{Name: "Stock Turnover", Header: []string{"Product", "Current Stock", "Units Sold", "Initial Stock", "Turnover %", "Status"}}
	for _, s := range turnover {
		t.add(s.Name, s.CurrentStock, s.TotalSales, s.InitialStock, s.TurnoverRate, string(s.Status))
	}
	return t
}

func calendarTable(c entity.CalendarUtilization) Table {
	t := Table{Name: "Calendar", Header: []string{"Staff", "Booked Hours", "Available Hours", "Free Hours", "Utilization %"}}
	for _, s := range c.Staff {
		t.add(s.Name, s.BookedHours, s.AvailableHours, s.FreeHours, s.UtilizationRate)
	}
	return t
}

// formatCell renders a cell for text output.
func formatCell(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case int:
		return strconv.Itoa(c)
	case float64:
		return strconv.FormatFloat(c, 'f', 2, 64)
	case decimal.Decimal:
		return c.StringFixed(2)
	case time.Time:
		if c.IsZero() {
			return ""
		}
		return c.Format(time.RFC3339)
	case nil:
		return ""
	}
	return ""
}

package dto

import (
	"strings"
	"time"

	"github.com/jekabolt/salon-analytics/internal/entity"
	"github.com/shopspring/decimal"
)

// NormalizeDataset converts a raw snapshot into entity records, applying every
// field default exactly once. A nil dataset yields empty collections.
func NormalizeDataset(raw *Dataset) *entity.Dataset {
	ds := &entity.Dataset{
		Appointments: []entity.Appointment{},
		Staff:        []entity.StaffMember{},
		Clients:      []entity.Client{},
		Products:     []entity.Product{},
		Promotions:   []entity.Promotion{},
		Services:     []entity.Service{},
	}
	if raw == nil {
		return ds
	}
	ds.Version = raw.Version
	ds.Appointments = ConvertAppointmentsToEntity(raw.Appointments)
	ds.Staff = ConvertStaffToEntity(raw.Staff)
	ds.Clients = ConvertClientsToEntity(raw.Clients)
	ds.Products = ConvertProductsToEntity(raw.Products)
	ds.Promotions = ConvertPromotionsToEntity(raw.Promotions)
	ds.Services = ConvertServicesToEntity(raw.Services)
	return ds
}

func ConvertAppointmentsToEntity(raw []Appointment) []entity.Appointment {
	out := make([]entity.Appointment, 0, len(raw))
	for _, a := range raw {
		out = append(out, ConvertAppointmentToEntity(a))
	}
	return out
}

func ConvertAppointmentToEntity(a Appointment) entity.Appointment {
	duration := intOr(a.Duration, entity.DefaultDurationMinutes)
	if duration <= 0 {
		duration = entity.DefaultDurationMinutes
	}
	return entity.Appointment{
		ID:           a.ID,
		Date:         timeOr(a.Date),
		StaffID:      strOr(a.StaffID, ""),
		ClientID:     strOr(a.ClientID, ""),
		ClientName:   strOr(a.ClientName, ""),
		ServiceID:    strOr(a.ServiceID, ""),
		Price:        decimalOr(a.Price),
		Duration:     duration,
		Status:       entity.AppointmentStatus(strings.ToLower(strOr(a.Status, ""))),
		PromoID:      strOr(a.PromoID, ""),
		IsPackage:    boolOr(a.IsPackage),
		Addons:       append([]string{}, a.Addons...),
		IsFirstVisit: boolOr(a.IsFirstVisit),
		BusinessID:   strOr(a.BusinessID, ""),
	}
}

func ConvertStaffToEntity(raw []StaffMember) []entity.StaffMember {
	out := make([]entity.StaffMember, 0, len(raw))
	for _, s := range raw {
		hours := floatOr(s.HoursPerWeek, entity.DefaultHoursPerWeek)
		if hours <= 0 {
			hours = entity.DefaultHoursPerWeek
		}
		var calendar *float64
		if s.GoogleCalendarHours != nil && *s.GoogleCalendarHours > 0 {
			v := *s.GoogleCalendarHours
			calendar = &v
		}
		out = append(out, entity.StaffMember{
			ID:                  s.ID,
			Name:                strOr(s.Name, entity.UnknownStaff),
			HoursPerWeek:        hours,
			GoogleCalendarHours: calendar,
			Status:              strings.ToLower(strOr(s.Status, "")),
			BusinessID:          strOr(s.BusinessID, ""),
		})
	}
	return out
}

func ConvertClientsToEntity(raw []Client) []entity.Client {
	out := make([]entity.Client, 0, len(raw))
	for _, c := range raw {
		out = append(out, entity.Client{
			ID:         c.ID,
			Name:       strOr(c.Name, entity.UnknownClient),
			BusinessID: strOr(c.BusinessID, ""),
		})
	}
	return out
}

// ConvertProductsToEntity normalizes products and their embedded sales. A sale
// without its own business id inherits the product's.
func ConvertProductsToEntity(raw []Product) []entity.Product {
	out := make([]entity.Product, 0, len(raw))
	for _, p := range raw {
		business := strOr(p.BusinessID, "")
		sales := make([]entity.Sale, 0, len(p.Sales))
		for _, s := range p.Sales {
			sales = append(sales, entity.Sale{
				Date:       timeOr(s.Date),
				Quantity:   intOr(s.Quantity, 0),
				StaffID:    strOr(s.StaffID, ""),
				BusinessID: strOr(s.BusinessID, business),
			})
		}
		out = append(out, entity.Product{
			ID:         p.ID,
			Name:       strOr(p.Name, entity.UnknownProduct),
			Category:   strOr(p.Category, entity.Uncategorized),
			Price:      decimalOr(p.Price),
			Stock:      intOr(p.Stock, 0),
			Sales:      sales,
			BusinessID: business,
		})
	}
	return out
}

func ConvertPromotionsToEntity(raw []Promotion) []entity.Promotion {
	out := make([]entity.Promotion, 0, len(raw))
	for _, p := range raw {
		views := intOr(p.ViewCount, entity.DefaultViewCount)
		if views <= 0 {
			views = entity.DefaultViewCount
		}
		out = append(out, entity.Promotion{
			ID:         p.ID,
			Name:       strOr(p.Name, entity.UnknownPromotion),
			Code:       strOr(p.Code, ""),
			ViewCount:  views,
			BusinessID: strOr(p.BusinessID, ""),
		})
	}
	return out
}

func ConvertServicesToEntity(raw []Service) []entity.Service {
	out := make([]entity.Service, 0, len(raw))
	for _, s := range raw {
		out = append(out, entity.Service{
			ID:         s.ID,
			Name:       strOr(s.Name, entity.UnknownService),
			BusinessID: strOr(s.BusinessID, ""),
		})
	}
	return out
}

func strOr(s *string, def string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return def
	}
	return *s
}

func intOr(i *int, def int) int {
	if i == nil {
		return def
	}
	return *i
}

func floatOr(f *float64, def float64) float64 {
	if f == nil {
		return def
	}
	return *f
}

func boolOr(b *bool) bool {
	return b != nil && *b
}

func decimalOr(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func timeOr(t *Timestamp) time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.Time
}

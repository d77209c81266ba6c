package analytics

import (
	"github.com/jekabolt/salon-analytics/internal/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

const (
	sliceWithPackage = "Package Appointments"
	sliceRegular     = "Regular Appointments"
)

func MarketingInsights(appts []entity.Appointment, promos []entity.Promotion, cfg Config) entity.MarketingInsights {
	cfg = cfg.withDefaults()
	return entity.MarketingInsights{
		Promotions: promotionPerformance(appts, promos),
		Upsell:     upsellRate(appts),
		Packages:   packageUsage(appts, cfg.AssumedPackagesSold),
	}
}

func promotionPerformance(appts []entity.Appointment, promos []entity.Promotion) []entity.PromotionPerformance {
	type tally struct {
		count   int
		revenue decimal.Decimal
	}
	byPromo := map[string]*tally{}
	for _, a := range appts {
		if !a.HasPromo() {
			continue
		}
		t, ok := byPromo[a.PromoID]
		if !ok {
			t = &tally{revenue: decimal.Zero}
			byPromo[a.PromoID] = t
		}
		t.count++
		t.revenue = t.revenue.Add(a.Price)
	}

	out := make([]entity.PromotionPerformance, 0, len(promos))
	for _, p := range promos {
		perf := entity.PromotionPerformance{
			PromoID: p.ID,
			Name:    p.DisplayName(),
			Code:    p.Code,
			Views:   p.Views(),
			Revenue: decimal.Zero,
		}
		if t, ok := byPromo[p.ID]; ok && p.ID != "" {
			perf.Conversions = t.count
			perf.Revenue = t.revenue
		}
		perf.ConversionRate = pctInt(perf.Conversions, perf.Views)
		out = append(out, perf)
	}

	slices.SortStableFunc(out, func(a, b entity.PromotionPerformance) int {
		switch {
		case a.ConversionRate > b.ConversionRate:
			return -1
		case a.ConversionRate < b.ConversionRate:
			return 1
		}
		return 0
	})
	if len(out) > 0 {
		out[0].Label = entity.LabelTopPerformer
	}
	return out
}

func upsellRate(appts []entity.Appointment) entity.UpsellRate {
	with := 0
	for _, a := range appts {
		if a.HasAddons() {
			with++
		}
	}
	return entity.UpsellRate{
		WithAddons:        with,
		TotalAppointments: len(appts),
		Rate:              pctInt(with, len(appts)),
	}
}

func packageUsage(appts []entity.Appointment, sold int) entity.PackageUsage {
	pkg := 0
	for _, a := range appts {
		if a.IsPackage {
			pkg++
		}
	}
	regular := len(appts) - pkg
	return entity.PackageUsage{
		Breakdown: []entity.UsageSlice{
			{Name: sliceWithPackage, Value: pkg},
			{Name: sliceRegular, Value: regular},
		},
		PackageCount:   pkg,
		RegularCount:   regular,
		PackagesSold:   sold,
		RedemptionRate: pctInt(pkg, sold),
	}
}

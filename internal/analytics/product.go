package analytics

import (
	"github.com/jekabolt/salon-analytics/internal/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// ProductSales aggregates retail sales. The embedded sales of each product must
// already be restricted to the filter.
func ProductSales(products []entity.Product, staff []entity.StaffMember, cfg Config) entity.ProductSales {
	cfg = cfg.withDefaults()
	perProduct := productPerformance(products)
	return entity.ProductSales{
		Products:  perProduct,
		Staff:     staffProductSales(products, staff),
		Breakdown: revenueBreakdown(perProduct, cfg.serviceRevenue()),
		Turnover:  stockTurnover(perProduct, products),
	}
}

func productPerformance(products []entity.Product) []entity.ProductPerformance {
	out := make([]entity.ProductPerformance, 0, len(products))
	for _, p := range products {
		perf := entity.ProductPerformance{
			ProductID:    p.ID,
			Name:         p.DisplayName(),
			Category:     p.CategoryName(),
			TotalRevenue: decimal.Zero,
		}
		for _, s := range p.Sales {
			perf.TotalSales += s.Quantity
			perf.TotalRevenue = perf.TotalRevenue.Add(p.Price.Mul(decimal.NewFromInt(int64(s.Quantity))))
		}
		out = append(out, perf)
	}
	slices.SortStableFunc(out, func(a, b entity.ProductPerformance) int {
		return cmpDesc(a.TotalRevenue, b.TotalRevenue)
	})
	return out
}

func staffProductSales(products []entity.Product, staff []entity.StaffMember) []entity.StaffProductSales {
	out := make([]entity.StaffProductSales, 0, len(staff))
	index := make(map[string]int, len(staff))
	sold := make([]map[string]struct{}, 0, len(staff))
	for _, s := range staff {
		if _, ok := index[s.ID]; ok {
			continue
		}
		index[s.ID] = len(out)
		out = append(out, entity.StaffProductSales{
			StaffID:      s.ID,
			Name:         s.DisplayName(),
			TotalRevenue: decimal.Zero,
		})
		sold = append(sold, map[string]struct{}{})
	}

	for _, p := range products {
		for _, sale := range p.Sales {
			i, ok := index[sale.StaffID]
			if !ok {
				continue
			}
			out[i].TotalSales += sale.Quantity
			out[i].TotalRevenue = out[i].TotalRevenue.Add(p.Price.Mul(decimal.NewFromInt(int64(sale.Quantity))))
			sold[i][p.ID] = struct{}{}
		}
	}
	for i := range out {
		out[i].UniqueProducts = len(sold[i])
	}

	slices.SortStableFunc(out, func(a, b entity.StaffProductSales) int {
		return cmpDesc(a.TotalRevenue, b.TotalRevenue)
	})
	return out
}

func revenueBreakdown(perProduct []entity.ProductPerformance, service decimal.Decimal) entity.RevenueBreakdown {
	retail := decimal.Zero
	for _, p := range perProduct {
		retail = retail.Add(p.TotalRevenue)
	}
	total := retail.Add(service)
	return entity.RevenueBreakdown{
		RetailRevenue:  retail,
		ServiceRevenue: service,
		RetailPct:      pctDecimal(retail, total),
		ServicePct:     pctDecimal(service, total),
	}
}

// stockTurnover follows the revenue order of perProduct.
func stockTurnover(perProduct []entity.ProductPerformance, products []entity.Product) []entity.StockTurnover {
	stock := make(map[string]int, len(products))
	for _, p := range products {
		stock[p.ID] = p.CurrentStock()
	}

	out := make([]entity.StockTurnover, 0, len(perProduct))
	for _, p := range perProduct {
		sold := p.TotalSales
		if sold < 0 {
			sold = 0
		}
		initial := stock[p.ProductID] + sold
		rate := capPct(pctInt(sold, initial))
		out = append(out, entity.StockTurnover{
			ProductID:    p.ProductID,
			Name:         p.Name,
			CurrentStock: stock[p.ProductID],
			TotalSales:   sold,
			InitialStock: initial,
			TurnoverRate: rate,
			Status:       turnoverStatus(rate),
		})
	}
	return out
}

func turnoverStatus(rate float64) entity.TurnoverStatus {
	switch {
	case rate > 50:
		return entity.TurnoverHigh
	case rate > 20:
		return entity.TurnoverMedium
	default:
		return entity.TurnoverLow
	}
}

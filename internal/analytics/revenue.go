package analytics

import (
	"github.com/jekabolt/salon-analytics/internal/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// RevenueTrends buckets revenue over time and ranks services and clients by spend.
func RevenueTrends(
	appts []entity.Appointment,
	services []entity.Service,
	clients []entity.Client,
	rng entity.DateRange,
	granularity entity.MetricsGranularity,
	cfg Config,
) entity.RevenueTrends {
	cfg = cfg.withDefaults()
	if granularity < entity.MetricsGranularityDay || granularity > entity.MetricsGranularityMonth {
		granularity = entity.MetricsGranularityDay
	}
	return entity.RevenueTrends{
		Granularity: granularity,
		Buckets:     revenueBuckets(appts, rng, granularity, cfg),
		Services:    servicePerformance(appts, services),
		ClientSpend: clientSpend(appts, clients, cfg.TopClients),
	}
}

// revenueBuckets is dense and chronological for days. Weeks and months only
// contain buckets that saw an appointment, in order of first appearance.
func revenueBuckets(appts []entity.Appointment, rng entity.DateRange, g entity.MetricsGranularity, cfg Config) []entity.RevenueBucket {
	loc := cfg.Location()
	weekStart := cfg.WeekStartDay()

	buckets := []entity.RevenueBucket{}
	index := map[string]int{}

	if g == entity.MetricsGranularityDay {
		for _, d := range daysBetween(rng.Start, rng.End, loc) {
			index[d.Format(dayKey)] = len(buckets)
			buckets = append(buckets, entity.RevenueBucket{
				Date:    d,
				Label:   bucketLabel(d, g),
				Revenue: decimal.Zero,
			})
		}
	}

	for _, a := range appts {
		start := bucketStart(a.Date.In(loc), g, weekStart)
		key := start.Format(dayKey)
		i, ok := index[key]
		if !ok {
			if g == entity.MetricsGranularityDay {
				continue
			}
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, entity.RevenueBucket{
				Date:    start,
				Label:   bucketLabel(start, g),
				Revenue: decimal.Zero,
			})
		}
		buckets[i].Revenue = buckets[i].Revenue.Add(a.Price)
		buckets[i].AppointmentCount++
	}
	return buckets
}

func servicePerformance(appts []entity.Appointment, services []entity.Service) []entity.ServicePerformance {
	names := make(map[string]string, len(services))
	for _, s := range services {
		names[s.ID] = s.DisplayName()
	}

	perf := []entity.ServicePerformance{}
	index := map[string]int{}
	for _, a := range appts {
		if a.ServiceID == "" {
			continue
		}
		i, ok := index[a.ServiceID]
		if !ok {
			name, known := names[a.ServiceID]
			if !known {
				name = entity.UnknownService
			}
			i = len(perf)
			index[a.ServiceID] = i
			perf = append(perf, entity.ServicePerformance{
				ServiceID: a.ServiceID,
				Name:      name,
				Revenue:   decimal.Zero,
			})
		}
		perf[i].Revenue = perf[i].Revenue.Add(a.Price)
		perf[i].Count++
	}

	slices.SortStableFunc(perf, func(a, b entity.ServicePerformance) int {
		return cmpDesc(a.Revenue, b.Revenue)
	})
	if len(perf) > 0 {
		perf[0].Label = entity.LabelTopSeller
	}
	if len(perf) > 1 {
		perf[len(perf)-1].Label = entity.LabelLowPerformer
	}
	return perf
}

type clientTally struct {
	entry     entity.ClientSpendEntry
	firstTime bool
}

func clientSpend(appts []entity.Appointment, clients []entity.Client, top int) entity.ClientSpend {
	names := clientNames(clients)

	var tallies []*clientTally
	index := map[string]*clientTally{}
	for _, a := range appts {
		if a.ClientID == "" {
			continue
		}
		t, ok := index[a.ClientID]
		if !ok {
			t = &clientTally{entry: entity.ClientSpendEntry{
				ClientID:   a.ClientID,
				Name:       clientName(names, a),
				TotalSpend: decimal.Zero,
			}}
			index[a.ClientID] = t
			tallies = append(tallies, t)
		}
		t.entry.TotalSpend = t.entry.TotalSpend.Add(a.Price)
		t.entry.Visits++
		if a.IsFirstVisit {
			t.firstTime = true
		}
	}

	out := entity.ClientSpend{
		AverageSpend:  decimal.Zero,
		HighestPaying: []entity.ClientSpendEntry{},
		TotalClients:  len(tallies),
	}
	total := decimal.Zero
	visits := 0
	entries := make([]entity.ClientSpendEntry, 0, len(tallies))
	for _, t := range tallies {
		total = total.Add(t.entry.TotalSpend)
		visits += t.entry.Visits
		if t.firstTime {
			out.FirstTimeClients++
		}
		if t.entry.Visits > 1 {
			out.ReturningClients++
		}
		entries = append(entries, t.entry)
	}
	out.AverageSpend = avgDecimal(total, visits)
	out.ConversionRate = pctInt(out.ReturningClients, out.FirstTimeClients)

	slices.SortStableFunc(entries, func(a, b entity.ClientSpendEntry) int {
		return cmpDesc(a.TotalSpend, b.TotalSpend)
	})
	if len(entries) > top {
		entries = entries[:top]
	}
	out.HighestPaying = entries
	return out
}

func clientNames(clients []entity.Client) map[string]string {
	names := make(map[string]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.DisplayName()
	}
	return names
}

// clientName prefers the client directory, then the name captured on the booking.
func clientName(names map[string]string, a entity.Appointment) string {
	if n, ok := names[a.ClientID]; ok && n != entity.UnknownClient {
		return n
	}
	if a.ClientName != "" {
		return a.ClientName
	}
	return entity.UnknownClient
}

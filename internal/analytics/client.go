package analytics

import (
	"strings"
	"time"

	"github.com/jekabolt/salon-analytics/internal/entity"
	"golang.org/x/exp/slices"
)

const (
	heatmapFirstHour = 8
	heatmapHours     = 12
)

var funnelStages = [4]string{"1st Visit", "2nd Visit", "3rd Visit", "More Than 3 Visits"}

// ClientAnalytics builds the retention funnel, the longest-absent clients as of
// now, and the weekday by hour booking heatmap.
func ClientAnalytics(appts []entity.Appointment, clients []entity.Client, now time.Time, cfg Config) entity.ClientAnalytics {
	cfg = cfg.withDefaults()
	return entity.ClientAnalytics{
		Funnel:     RetentionFunnel(appts, cfg.FunnelMode),
		LastVisits: lastVisits(appts, clients, now, cfg.LapsedClients),
		Heatmap:    BookingHeatmap(appts, cfg.Location()),
	}
}

// RetentionFunnel groups clients by visit count. Each stage percentage is taken
// against the previous stage; the first stage is taken against all clients.
// FunnelExclusive counts each client only in its own visit bucket, which is what
// the salon dashboard has always shown. FunnelCumulative counts a client in every
// stage it has reached.
func RetentionFunnel(appts []entity.Appointment, mode entity.FunnelMode) entity.RetentionFunnel {
	if mode != entity.FunnelExclusive {
		mode = entity.FunnelCumulative
	}

	visits := map[string]int{}
	for _, a := range appts {
		if a.ClientID == "" {
			continue
		}
		visits[a.ClientID]++
	}

	var exact [4]int
	for _, v := range visits {
		switch {
		case v == 1:
			exact[0]++
		case v == 2:
			exact[1]++
		case v == 3:
			exact[2]++
		case v > 3:
			exact[3]++
		}
	}
	var reached [4]int
	reached[3] = exact[3]
	for i := 2; i >= 0; i-- {
		reached[i] = reached[i+1] + exact[i]
	}

	counts := reached
	if mode == entity.FunnelExclusive {
		counts = exact
	}

	total := len(visits)
	stages := make([]entity.FunnelStage, 0, len(funnelStages))
	prev := total
	for i, name := range funnelStages {
		stages = append(stages, entity.FunnelStage{
			Stage:      name,
			Clients:    exact[i],
			Reached:    reached[i],
			Percentage: pctInt(counts[i], prev),
		})
		prev = counts[i]
	}
	return entity.RetentionFunnel{
		Mode:         mode,
		TotalClients: total,
		Stages:       stages,
	}
}

func lastVisits(appts []entity.Appointment, clients []entity.Client, now time.Time, limit int) []entity.ClientRecency {
	names := clientNames(clients)

	latest := map[string]int{}
	var order []string
	for i, a := range appts {
		if a.ClientID == "" || a.Date.After(now) {
			continue
		}
		j, ok := latest[a.ClientID]
		if !ok {
			order = append(order, a.ClientID)
			latest[a.ClientID] = i
			continue
		}
		if a.Date.After(appts[j].Date) {
			latest[a.ClientID] = i
		}
	}

	out := make([]entity.ClientRecency, 0, len(order))
	for _, id := range order {
		a := appts[latest[id]]
		out = append(out, entity.ClientRecency{
			ClientID:  id,
			Name:      clientName(names, a),
			LastVisit: a.Date,
			DaysSince: int(now.Sub(a.Date).Hours() / 24),
		})
	}
	slices.SortStableFunc(out, func(a, b entity.ClientRecency) int {
		if c := cmpInt(b.DaysSince, a.DaysSince); c != 0 {
			return c
		}
		return strings.Compare(a.ClientID, b.ClientID)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// BookingHeatmap returns all 84 weekday/hour cells, day-major from Sunday 8 AM.
func BookingHeatmap(appts []entity.Appointment, loc *time.Location) []entity.HeatmapCell {
	if loc == nil {
		loc = time.UTC
	}
	cells := make([]entity.HeatmapCell, 0, 7*heatmapHours)
	for d := 0; d < 7; d++ {
		for h := 0; h < heatmapHours; h++ {
			hour := heatmapFirstHour + h
			cells = append(cells, entity.HeatmapCell{
				Day:       d,
				DayLabel:  weekdayNames[d],
				Hour:      hour,
				HourLabel: hourLabel(hour),
			})
		}
	}
	for _, a := range appts {
		t := a.Date.In(loc)
		h := t.Hour() - heatmapFirstHour
		if h < 0 || h >= heatmapHours {
			continue
		}
		cells[int(t.Weekday())*heatmapHours+h].Count++
	}
	return cells
}

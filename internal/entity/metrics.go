package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MetricsGranularity controls time bucket size for revenue trends (day, week, month).
type MetricsGranularity int

const (
	MetricsGranularityDay   MetricsGranularity = 1
	MetricsGranularityWeek  MetricsGranularity = 2
	MetricsGranularityMonth MetricsGranularity = 3
)

func (g MetricsGranularity) String() string {
	switch g {
	case MetricsGranularityWeek:
		return "weekly"
	case MetricsGranularityMonth:
		return "monthly"
	default:
		return "daily"
	}
}

func (g MetricsGranularity) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

func (g *MetricsGranularity) UnmarshalText(b []byte) error {
	v, err := ParseGranularity(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// ParseGranularity maps daily/weekly/monthly (or day/week/month) to a granularity.
// Empty input means daily.
func ParseGranularity(s string) (MetricsGranularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "daily", "day":
		return MetricsGranularityDay, nil
	case "weekly", "week":
		return MetricsGranularityWeek, nil
	case "monthly", "month":
		return MetricsGranularityMonth, nil
	}
	return 0, fmt.Errorf("unknown granularity %q", s)
}

// Dashboard bundles the output of every aggregator for one filter.
type Dashboard struct {
	Filter      FilterState         `json:"filter"`
	Version     string              `json:"version"`
	Granularity MetricsGranularity  `json:"granularity"`
	QuickStats  QuickStats          `json:"quickStats"`
	Revenue     RevenueTrends       `json:"revenue"`
	Staff       StaffPerformance    `json:"staff"`
	Clients     ClientAnalytics     `json:"clients"`
	Marketing   MarketingInsights   `json:"marketing"`
	Products    ProductSales        `json:"products"`
	Calendar    CalendarUtilization `json:"calendar"`
}

type QuickStats struct {
	TotalAppointments int             `json:"totalAppointments"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	ActiveStaff       int             `json:"activeStaff"`
	TotalClients      int             `json:"totalClients"`
}

// Revenue trends

type RevenueTrends struct {
	Granularity MetricsGranularity   `json:"granularity"`
	Buckets     []RevenueBucket      `json:"buckets"`
	Services    []ServicePerformance `json:"services"`
	ClientSpend ClientSpend          `json:"clientSpend"`
}

type RevenueBucket struct {
	Date             time.Time       `json:"date"`
	Label            string          `json:"label"`
	Revenue          decimal.Decimal `json:"revenue"`
	AppointmentCount int             `json:"appointmentCount"`
}

const (
	LabelTopSeller    = "Top Seller"
	LabelLowPerformer = "Low Performer"
	LabelTopPerformer = "Top Performer"
)

type ServicePerformance struct {
	ServiceID string          `json:"serviceId"`
	Name      string          `json:"name"`
	Revenue   decimal.Decimal `json:"revenue"`
	Count     int             `json:"count"`
	Label     string          `json:"label,omitempty"`
}

type ClientSpend struct {
	AverageSpend     decimal.Decimal    `json:"averageSpend"`
	HighestPaying    []ClientSpendEntry `json:"highestPaying"`
	TotalClients     int                `json:"totalClients"`
	FirstTimeClients int                `json:"firstTimeClients"`
	ReturningClients int                `json:"returningClients"`
	ConversionRate   float64            `json:"conversionRate"`
}

type ClientSpendEntry struct {
	ClientID   string          `json:"clientId"`
	Name       string          `json:"name"`
	TotalSpend decimal.Decimal `json:"totalSpend"`
	Visits     int             `json:"visits"`
}

// Staff performance

type StaffPerformance struct {
	Sort        StaffSort          `json:"sort"`
	Revenue     []StaffRevenue     `json:"revenue"`
	Utilization []StaffUtilization `json:"utilization"`
	Issues      []StaffIssues      `json:"issues"`
	Retention   []StaffRetention   `json:"retention"`
}

type StaffRevenue struct {
	StaffID        string          `json:"staffId"`
	Name           string          `json:"name"`
	Revenue        decimal.Decimal `json:"revenue"`
	Appointments   int             `json:"appointments"`
	UniqueServices int             `json:"uniqueServices"`
	AverageRevenue decimal.Decimal `json:"averageRevenue"`
}

type StaffUtilization struct {
	StaffID         string  `json:"staffId"`
	Name            string  `json:"name"`
	BookedHours     float64 `json:"bookedHours"`
	AvailableHours  float64 `json:"availableHours"`
	UtilizationRate float64 `json:"utilizationRate"`
}

type StaffIssues struct {
	StaffID           string  `json:"staffId"`
	Name              string  `json:"name"`
	NoShow            int     `json:"noShow"`
	Late              int     `json:"late"`
	Cancelled         int     `json:"cancelled"`
	TotalAppointments int     `json:"totalAppointments"`
	IssueRate         float64 `json:"issueRate"`
}

type StaffRetention struct {
	StaffID          string  `json:"staffId"`
	Name             string  `json:"name"`
	TotalClients     int     `json:"totalClients"`
	ReturningClients int     `json:"returningClients"`
	RetentionRate    float64 `json:"retentionRate"`
}

// Client analytics

// FunnelMode selects which stage counts drive the funnel percentages.
type FunnelMode string

const (
	// FunnelCumulative counts every client that reached at least N visits.
	FunnelCumulative FunnelMode = "cumulative"
	// FunnelExclusive counts clients with exactly N visits (more than three for the last stage).
	FunnelExclusive FunnelMode = "exclusive"
)

type ClientAnalytics struct {
	Funnel     RetentionFunnel `json:"funnel"`
	LastVisits []ClientRecency `json:"lastVisits"`
	Heatmap    []HeatmapCell   `json:"heatmap"`
}

type RetentionFunnel struct {
	Mode         FunnelMode    `json:"mode"`
	TotalClients int           `json:"totalClients"`
	Stages       []FunnelStage `json:"stages"`
}

type FunnelStage struct {
	Stage      string  `json:"stage"`
	Clients    int     `json:"clients"`
	Reached    int     `json:"reached"`
	Percentage float64 `json:"percentage"`
}

type ClientRecency struct {
	ClientID  string    `json:"clientId"`
	Name      string    `json:"name"`
	LastVisit time.Time `json:"lastVisit"`
	DaysSince int       `json:"daysSince"`
}

type HeatmapCell struct {
	Day       int    `json:"day"`
	DayLabel  string `json:"dayLabel"`
	Hour      int    `json:"hour"`
	HourLabel string `json:"hourLabel"`
	Count     int    `json:"count"`
}

// Marketing

type MarketingInsights struct {
	Promotions []PromotionPerformance `json:"promotions"`
	Upsell     UpsellRate             `json:"upsell"`
	Packages   PackageUsage           `json:"packages"`
}

type PromotionPerformance struct {
	PromoID        string          `json:"promoId"`
	Name           string          `json:"name"`
	Code           string          `json:"code"`
	Views          int             `json:"views"`
	Conversions    int             `json:"conversions"`
	ConversionRate float64         `json:"conversionRate"`
	Revenue        decimal.Decimal `json:"revenue"`
	Label          string          `json:"label,omitempty"`
}

type UpsellRate struct {
	WithAddons        int     `json:"withAddons"`
	TotalAppointments int     `json:"totalAppointments"`
	Rate              float64 `json:"rate"`
}

type PackageUsage struct {
	Breakdown      []UsageSlice `json:"breakdown"`
	PackageCount   int          `json:"packageCount"`
	RegularCount   int          `json:"regularCount"`
	PackagesSold   int          `json:"packagesSold"`
	RedemptionRate float64      `json:"redemptionRate"`
}

type UsageSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Product sales

type ProductSales struct {
	Products  []ProductPerformance `json:"products"`
	Staff     []StaffProductSales  `json:"staff"`
	Breakdown RevenueBreakdown     `json:"breakdown"`
	Turnover  []StockTurnover      `json:"turnover"`
}

type ProductPerformance struct {
	ProductID    string          `json:"productId"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	TotalSales   int             `json:"totalSales"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

type StaffProductSales struct {
	StaffID        string          `json:"staffId"`
	Name           string          `json:"name"`
	TotalSales     int             `json:"totalSales"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	UniqueProducts int             `json:"uniqueProducts"`
}

type RevenueBreakdown struct {
	RetailRevenue  decimal.Decimal `json:"retailRevenue"`
	ServiceRevenue decimal.Decimal `json:"serviceRevenue"`
	RetailPct      float64         `json:"retailPct"`
	ServicePct     float64         `json:"servicePct"`
}

type TurnoverStatus string

const (
	TurnoverHigh   TurnoverStatus = "High"
	TurnoverMedium TurnoverStatus = "Medium"
	TurnoverLow    TurnoverStatus = "Low"
)

type StockTurnover struct {
	ProductID    string         `json:"productId"`
	Name         string         `json:"name"`
	CurrentStock int            `json:"currentStock"`
	TotalSales   int            `json:"totalSales"`
	InitialStock int            `json:"initialStock"`
	TurnoverRate float64        `json:"turnoverRate"`
	Status       TurnoverStatus `json:"status"`
}

// Calendar utilization

type CalendarUtilization struct {
	Staff         []CalendarStaff      `json:"staff"`
	BookingStatus []BookingStatusGroup `json:"bookingStatus"`
	PeakTimes     PeakTimes            `json:"peakTimes"`
}

type CalendarStaff struct {
	StaffID         string  `json:"staffId"`
	Name            string  `json:"name"`
	BookedHours     float64 `json:"bookedHours"`
	AvailableHours  float64 `json:"availableHours"`
	FreeHours       float64 `json:"freeHours"`
	UtilizationRate float64 `json:"utilizationRate"`
}

const (
	BookingOverbooked  = "Overbooked"
	BookingWellBooked  = "Well Booked"
	BookingUnderbooked = "Underbooked"
)

type BookingStatusGroup struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Names  string `json:"names"`
}

type PeakTimes struct {
	Days            []WeekdayCount  `json:"days"`
	Busiest         *WeekdayAdvice  `json:"busiest,omitempty"`
	Slowest         []WeekdayAdvice `json:"slowest"`
	Recommendations []string        `json:"recommendations"`
}

type WeekdayCount struct {
	Day   int    `json:"day"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type WeekdayAdvice struct {
	WeekdayCount
	Advice string `json:"advice"`
}

package dto

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Dataset is the raw, untrusted shape of a record snapshot as stored in JSON documents.
type Dataset struct {
	Version      string        `json:"version,omitempty"`
	Appointments []Appointment `json:"appointments"`
	Staff        []StaffMember `json:"staff"`
	Clients      []Client      `json:"clients"`
	Products     []Product     `json:"products"`
	Promotions   []Promotion   `json:"promotions"`
	Services     []Service     `json:"services"`
}

type Appointment struct {
	ID           string           `json:"id" db:"id"`
	Date         *Timestamp       `json:"date" db:"date"`
	StaffID      *string          `json:"staffId" db:"staff_id"`
	ClientID     *string          `json:"clientId" db:"client_id"`
	ClientName   *string          `json:"clientName" db:"client_name"`
	ServiceID    *string          `json:"serviceId" db:"service_id"`
	Price        *decimal.Decimal `json:"price" db:"price"`
	Duration     *int             `json:"duration" db:"duration"`
	Status       *string          `json:"status" db:"status"`
	PromoID      *string          `json:"promoId" db:"promo_id"`
	IsPackage    *bool            `json:"isPackage" db:"is_package"`
	Addons       []string         `json:"addons" db:"-"`
	IsFirstVisit *bool            `json:"isFirstVisit" db:"is_first_visit"`
	BusinessID   *string          `json:"businessId" db:"business_id"`
}

type StaffMember struct {
	ID                  string   `json:"id" db:"id"`
	Name                *string  `json:"name" db:"name"`
	HoursPerWeek        *float64 `json:"hoursPerWeek" db:"hours_per_week"`
	GoogleCalendarHours *float64 `json:"googleCalendarHours" db:"google_calendar_hours"`
	Status              *string  `json:"status" db:"status"`
	BusinessID          *string  `json:"businessId" db:"business_id"`
}

type Client struct {
	ID         string  `json:"id" db:"id"`
	Name       *string `json:"name" db:"name"`
	BusinessID *string `json:"businessId" db:"business_id"`
}

type Product struct {
	ID         string           `json:"id" db:"id"`
	Name       *string          `json:"name" db:"name"`
	Category   *string          `json:"category" db:"category"`
	Price      *decimal.Decimal `json:"price" db:"price"`
	Stock      *int             `json:"stock" db:"stock"`
	Sales      []Sale           `json:"sales" db:"-"`
	BusinessID *string          `json:"businessId" db:"business_id"`
}

type Sale struct {
	Date       *Timestamp `json:"date" db:"date"`
	Quantity   *int       `json:"quantity" db:"quantity"`
	StaffID    *string    `json:"staffId" db:"staff_id"`
	BusinessID *string    `json:"businessId" db:"business_id"`
}

type Promotion struct {
	ID         string  `json:"id" db:"id"`
	Name       *string `json:"name" db:"name"`
	Code       *string `json:"code" db:"code"`
	ViewCount  *int    `json:"viewCount" db:"view_count"`
	BusinessID *string `json:"businessId" db:"business_id"`
}

type Service struct {
	ID         string  `json:"id" db:"id"`
	Name       *string `json:"name" db:"name"`
	BusinessID *string `json:"businessId" db:"business_id"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Timestamp accepts RFC3339 and date-only strings, or unix milliseconds.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: t}
}

// ParseTimestamp parses s with the layouts Timestamp accepts. Strings without an offset are UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp %q", s)
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		parsed, err := ParseTimestamp(s)
		if err != nil {
			return err
		}
		t.Time = parsed
		return nil
	}
	ms, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("unsupported timestamp %s: %w", b, err)
	}
	t.Time = time.UnixMilli(ms).UTC()
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// Scan implements sql.Scanner so MySQL DATETIME columns land in a Timestamp.
func (t *Timestamp) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	}
	return fmt.Errorf("can't scan %T into Timestamp", value)
}

func (t *Timestamp) scanString(s string) error {
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) Value() (driver.Value, error) {
	return t.Time, nil
}

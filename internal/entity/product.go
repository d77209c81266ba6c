package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const Uncategorized = "Uncategorized"

// Product is a retail item together with its sales history.
type Product struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	Sales      []Sale          `json:"sales"`
	BusinessID string          `json:"businessId"`
}

// Sale is a single retail transaction attributed to a staff member.
type Sale struct {
	Date       time.Time `json:"date"`
	Quantity   int       `json:"quantity"`
	StaffID    string    `json:"staffId"`
	BusinessID string    `json:"businessId"`
}

func (s Sale) GetDate() time.Time    { return s.Date }
func (s Sale) GetBusinessID() string { return s.BusinessID }

func (p Product) DisplayName() string {
	return nameOr(p.Name, UnknownProduct)
}

func (p Product) CategoryName() string {
	return nameOr(p.Category, Uncategorized)
}

// CurrentStock never reports negative stock.
func (p Product) CurrentStock() int {
	if p.Stock < 0 {
		return 0
	}
	return p.Stock
}

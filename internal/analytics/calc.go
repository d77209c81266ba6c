package analytics

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// pct returns part/whole*100, or 0 when whole is not positive.
func pct(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

func pctInt(part, whole int) float64 {
	return pct(float64(part), float64(whole))
}

func pctDecimal(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	f, _ := part.Div(whole).Mul(hundred).Float64()
	return f
}

// capPct clamps a percentage into [0,100].
func capPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func avgDecimal(total decimal.Decimal, n int) decimal.Decimal {
	if n <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(n)))
}

func cmpDesc(a, b decimal.Decimal) int {
	return b.Cmp(a)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}

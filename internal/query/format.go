package query

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/selivandex/stockspan/pkg/models"
)

const (
	markerUp   = "📈"
	markerDown = "📉"
	markerFlat = "➖"
)

// money formats a currency amount with two decimals, e.g. $1234.50
func money(v float64) string {
	if v < 0 {
		return "-$" + decimal.NewFromFloat(-v).StringFixed(2)
	}
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

// signedMoney formats a change with an explicit sign
func signedMoney(v float64) string {
	if v > 0 {
		return "+" + money(v)
	}
	return money(v)
}

// percent formats a percentage with one decimal and explicit sign
func percent(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(1) + "%"
	if v > 0 {
		return "+" + s
	}
	return s
}

func marker(delta float64) string {
	switch {
	case delta > 0:
		return markerUp
	case delta < 0:
		return markerDown
	default:
		return markerFlat
	}
}

func day(t time.Time) string {
	return t.Format(models.DateLayout)
}

// change returns the absolute and percent change from prev to cur
func change(prev, cur float64) (float64, float64) {
	delta := cur - prev
	if prev == 0 {
		return delta, 0
	}
	return delta, delta / math.Abs(prev) * 100
}

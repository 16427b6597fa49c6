package models

import "github.com/shopspring/decimal"

// ToFloat64 safely converts decimal to float64
func ToFloat64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// Round rounds a float to the given number of decimal places
func Round(value float64, places int32) float64 {
	return ToFloat64(NewDecimal(value).Round(places))
}

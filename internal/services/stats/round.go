// Package stats reduces trade sets and equity curves into performance and risk statistics.
// Every function is total: degenerate input yields a documented fallback instead of an error.
package stats

import (
	"math"

	"github.com/shopspring/decimal"

	"SignalLab/internal/domain/models"
)

const (
	PricePrecision      = 2
	ReturnPrecision     = 2
	RatioPrecision      = 4
	PercentagePrecision = 2
	CountPrecision      = 0
)

const na = models.NotAvailable

// RoundTo rounds half away from zero. NaN and ±Inf pass through unchanged.
func RoundTo(x float64, places int32) float64 {
	if !finite(x) {
		return x
	}
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}

func RoundPrice(x float64) float64      { return RoundTo(x, PricePrecision) }
func RoundReturn(x float64) float64     { return RoundTo(x, ReturnPrecision) }
func RoundRatio(x float64) float64      { return RoundTo(x, RatioPrecision) }
func RoundPercentage(x float64) float64 { return RoundTo(x, PercentagePrecision) }
func RoundCount(x float64) float64      { return RoundTo(x, CountPrecision) }

func format(x float64, places int32, suffix string) string {
	if !finite(x) {
		return na
	}
	return decimal.NewFromFloat(x).StringFixed(places) + suffix
}

func FormatPrice(x float64) string      { return format(x, PricePrecision, "") }
func FormatReturn(x float64) string     { return format(x, ReturnPrecision, "%") }
func FormatRatio(x float64) string      { return format(x, RatioPrecision, "") }
func FormatPercentage(x float64) string { return format(x, PercentagePrecision, "%") }
func FormatCount(x float64) string      { return format(x, CountPrecision, "") }

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

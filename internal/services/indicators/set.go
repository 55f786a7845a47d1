package indicators

import (
	"SignalLab/internal/domain/models"
	"SignalLab/internal/services/features"
)

const (
	DefaultRSIPeriod  = 14
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9
	DefaultBollPeriod = 20
	DefaultBollK      = 2.0
)

// Set is the full indicator bundle aligned to a bar series.
type Set struct {
	SMA5  []float64
	SMA10 []float64
	SMA20 []float64
	SMA60 []float64
	EMA12 []float64
	EMA26 []float64
	RSI   []float64
	MACD  MACDSeries
	Boll  BollSeries
}

// Compute builds the indicator set from bar closes.
func Compute(bars []models.Bar) *Set {
	closes := features.Closes(bars)
	return &Set{
		SMA5:  SMA(closes, 5),
		SMA10: SMA(closes, 10),
		SMA20: SMA(closes, 20),
		SMA60: SMA(closes, 60),
		EMA12: EMA(closes, DefaultMACDFast),
		EMA26: EMA(closes, DefaultMACDSlow),
		RSI:   RSI(closes, DefaultRSIPeriod),
		MACD:  MACD(closes, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal),
		Boll:  BollingerBands(closes, DefaultBollPeriod, DefaultBollK),
	}
}

// Len is the number of bars the set was computed over.
func (s *Set) Len() int { return len(s.RSI) }

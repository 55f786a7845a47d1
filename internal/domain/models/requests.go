package models

import "time"

// Requests for scan and metrics HTTP endpoints. Defined in domain for reuse by the Kafka job handler.

type ScanOptions struct {
	Strategies     []string `json:"strategies" validate:"omitempty,dive,strategy"`
	HoldingDays    int      `json:"holding_days" default:"5" validate:"gte=1,lte=120"`
	MinGapDays     int      `json:"min_gap_days" default:"3" validate:"gte=0,lte=365"`
	KeepStrongest  *bool    `json:"keep_strongest,omitempty"`
	ExcludeST      *bool    `json:"exclude_st,omitempty"`
	ExcludeNew     *bool    `json:"exclude_new,omitempty"`
	MinListingDays int      `json:"min_listing_days" default:"60" validate:"gte=0"`
	MinStrength    *float64 `json:"min_strength,omitempty" validate:"omitempty,gte=0"`
	MaxStrength    *float64 `json:"max_strength,omitempty" validate:"omitempty,gte=0"`
	LookbackDays   int      `json:"lookback_days" default:"400" validate:"gte=60,lte=5000"`
	WithCosts      *bool    `json:"with_costs,omitempty"`
}

type ScanRequest struct {
	Symbol string `json:"symbol" validate:"required"`
	ScanOptions
}

type BatchScanRequest struct {
	Symbols []string `json:"symbols" validate:"required,min=1,max=5000,dive,required"`
	ScanOptions
	WithReport bool `json:"with_report"`
}

type MetricsRequest struct {
	Equity       []EquityPoint `json:"equity" validate:"required,min=2"`
	Benchmark    []EquityPoint `json:"benchmark,omitempty"`
	Trades       []TradeRecord `json:"trades,omitempty" validate:"omitempty,dive"`
	RiskFreeRate *float64      `json:"risk_free_rate,omitempty"`
}

// ScanJob is the Kafka payload that requests an asynchronous batch scan.
type ScanJob struct {
	JobID     string    `json:"job_id"`
	Symbols   []string  `json:"symbols"`
	Submitted time.Time `json:"submitted"`
	ScanOptions
}

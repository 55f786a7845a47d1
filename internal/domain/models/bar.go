package models

import "time"

// Bar is one OHLCV sample. Series are ordered ascending by Time.
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Stock carries the listing attributes the scanner filters on.
type Stock struct {
	Symbol   string    `json:"symbol"`
	Name     string    `json:"name"`
	IsST     bool      `json:"is_st"`
	ListedAt time.Time `json:"listed_at"`
}

// MarketStatus is the per-bar tradability classification.
type MarketStatus struct {
	IsLimitUp   bool `json:"is_limit_up"`
	IsLimitDown bool `json:"is_limit_down"`
	IsSuspended bool `json:"is_suspended"`
}

// CostConfig holds per-leg transaction cost rates as fractions of notional.
type CostConfig struct {
	Commission float64 `json:"commission" yaml:"commission" default:"0.0003"`
	StampDuty  float64 `json:"stamp_duty" yaml:"stamp_duty" default:"0.001"`
	Slippage   float64 `json:"slippage" yaml:"slippage" default:"0.001"`
}

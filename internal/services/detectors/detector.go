// Package detectors holds the closed set of strategy rules evaluated at a single bar index.
package detectors

import (
	"math"
	"sort"

	"SignalLab/internal/domain/models"
	"SignalLab/internal/services/indicators"
)

// Detector inspects bars[i] together with the precomputed indicator set.
// It returns nil when the rule does not fire at i.
type Detector interface {
	Name() string
	Type() models.SignalType
	Detect(bars []models.Bar, i int, ind *indicators.Set) *models.RawDetection
}

const (
	MACDGoldenCross = "macd_golden_cross"
	MACDDeathCross  = "macd_death_cross"
	MAGoldenCross   = "ma_golden_cross"
	MADeathCross    = "ma_death_cross"
	RSIOversold     = "rsi_oversold"
	RSIOverbought   = "rsi_overbought"
	BollLowerTouch  = "boll_lower_touch"
	BollUpperTouch  = "boll_upper_touch"
	VolumeBreakout  = "volume_breakout"
)

var registry = map[string]Detector{}

func init() {
	for _, d := range []Detector{
		crossDetector{name: MACDGoldenCross, typ: models.SignalBuy, fast: macdDIF, slow: macdDEA},
		crossDetector{name: MACDDeathCross, typ: models.SignalSell, fast: macdDIF, slow: macdDEA},
		crossDetector{name: MAGoldenCross, typ: models.SignalBuy, fast: sma5, slow: sma20},
		crossDetector{name: MADeathCross, typ: models.SignalSell, fast: sma5, slow: sma20},
		rsiDetector{name: RSIOversold, typ: models.SignalBuy, threshold: 30},
		rsiDetector{name: RSIOverbought, typ: models.SignalSell, threshold: 70},
		bollDetector{name: BollLowerTouch, typ: models.SignalBuy},
		bollDetector{name: BollUpperTouch, typ: models.SignalSell},
		volumeBreakout{volWindow: 5, highWindow: 20, multiple: 2},
	} {
		registry[d.Name()] = d
	}
}

// Lookup returns the detector registered under name.
func Lookup(name string) (Detector, bool) {
	d, ok := registry[name]
	return d, ok
}

// Names lists registered detector names in lexical order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func detection(d Detector, bars []models.Bar, i int, strength float64) *models.RawDetection {
	return &models.RawDetection{
		Type:      d.Type(),
		Signal:    d.Name(),
		Strength:  clampStrength(strength),
		Price:     bars[i].Close,
		Timestamp: bars[i].Time,
		Index:     i,
	}
}

// clampStrength keeps strength on a 0..100 scale.
func clampStrength(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(v, 100)
}

func anyNaN(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) {
			return true
		}
	}
	return false
}

func inRange(bars []models.Bar, i int, ind *indicators.Set) bool {
	return i > 0 && i < len(bars) && ind != nil && i < ind.Len()
}

// Package features extracts columns and rolling windows from bar series.
package features

import (
	"math"

	"SignalLab/internal/domain/models"
)

// Closes extracts the close column.
func Closes(bars []models.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// AverageVolume is the mean volume over the `window` bars strictly before index i.
// Returns NaN if there is not enough history.
func AverageVolume(bars []models.Bar, i, window int) float64 {
	if window <= 0 || i-window < 0 || i > len(bars) {
		return math.NaN()
	}
	sum := 0.0
	for j := i - window; j < i; j++ {
		sum += bars[j].Volume
	}
	return sum / float64(window)
}

// HighestHigh is the max High over the `window` bars strictly before index i.
// Returns NaN if there is not enough history.
func HighestHigh(bars []models.Bar, i, window int) float64 {
	if window <= 0 || i-window < 0 || i > len(bars) {
		return math.NaN()
	}
	hi := math.Inf(-1)
	for j := i - window; j < i; j++ {
		if bars[j].High > hi {
			hi = bars[j].High
		}
	}
	return hi
}

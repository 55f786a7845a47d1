package stats

import (
	"math"
	"sort"

	"SignalLab/internal/domain/models"
)

type WinStats struct {
	Total        int     `json:"total"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRate      float64 `json:"win_rate"`
	AvgWin       float64 `json:"avg_win"`
	AvgLoss      float64 `json:"avg_loss"`
	LargestWin   float64 `json:"largest_win"`
	LargestLoss  float64 `json:"largest_loss"`
	ProfitFactor float64 `json:"profit_factor"`
	Expectancy   float64 `json:"expectancy"`
}

// CalculateWinStats reduces percentage returns. Zero returns count toward the
// total but are neither wins nor losses. AvgLoss and LargestLoss are magnitudes.
// ProfitFactor is +Inf when there are wins and no losses.
func CalculateWinStats(returns []float64) WinStats {
	ws := WinStats{Total: len(returns)}
	if ws.Total == 0 {
		return ws
	}
	var sumWin, sumLoss float64
	for _, r := range returns {
		switch {
		case r > 0:
			ws.Wins++
			sumWin += r
			ws.LargestWin = math.Max(ws.LargestWin, r)
		case r < 0:
			ws.Losses++
			sumLoss += -r
			ws.LargestLoss = math.Max(ws.LargestLoss, -r)
		}
	}
	ws.WinRate = float64(ws.Wins) / float64(ws.Total) * 100
	if ws.Wins > 0 {
		ws.AvgWin = sumWin / float64(ws.Wins)
	}
	if ws.Losses > 0 {
		ws.AvgLoss = sumLoss / float64(ws.Losses)
	}
	switch {
	case sumLoss > 0:
		ws.ProfitFactor = sumWin / sumLoss
	case sumWin > 0:
		ws.ProfitFactor = math.Inf(1)
	}
	pWin := float64(ws.Wins) / float64(ws.Total)
	pLoss := float64(ws.Losses) / float64(ws.Total)
	ws.Expectancy = pWin*ws.AvgWin - pLoss*ws.AvgLoss
	return ws
}

const (
	StreakWin  = "win"
	StreakLoss = "loss"
	StreakNone = "none"
)

type Streaks struct {
	MaxConsecutiveWins   int    `json:"max_consecutive_wins"`
	MaxConsecutiveLosses int    `json:"max_consecutive_losses"`
	CurrentStreak        int    `json:"current_streak"`
	CurrentStreakType    string `json:"current_streak_type"`
}

// Sequence is a chronologically ordered run of trade outcomes.
// Build it with SignalSequence or TradeSequence so ordering is never left to the caller.
type Sequence struct {
	wins []bool
}

// SignalSequence orders signals by entry date. Ties keep input order.
func SignalSequence(sigs []models.EnrichedSignal) Sequence {
	sorted := make([]models.EnrichedSignal, len(sigs))
	copy(sorted, sigs)
	sort.SliceStable(sorted, func(a, b int) bool { return sorted[a].EntryDate.Before(sorted[b].EntryDate) })
	seq := Sequence{wins: make([]bool, len(sorted))}
	for i, s := range sorted {
		seq.wins[i] = s.IsWin
	}
	return seq
}

// TradeSequence keeps closing trades (sell side with a PnL) ordered by date.
func TradeSequence(trades []models.TradeRecord) Sequence {
	closing := closingTrades(trades)
	sort.SliceStable(closing, func(a, b int) bool { return closing[a].Date.Before(closing[b].Date) })
	seq := Sequence{wins: make([]bool, len(closing))}
	for i, t := range closing {
		seq.wins[i] = *t.PnLPercent > 0
	}
	return seq
}

func (s Sequence) Len() int { return len(s.wins) }

// CalculateStreaks tracks win and loss runs in one pass.
func CalculateStreaks(seq Sequence) Streaks {
	st := Streaks{CurrentStreakType: StreakNone}
	for _, win := range seq.wins {
		kind := StreakLoss
		if win {
			kind = StreakWin
		}
		if kind == st.CurrentStreakType {
			st.CurrentStreak++
		} else {
			st.CurrentStreakType = kind
			st.CurrentStreak = 1
		}
		if win {
			st.MaxConsecutiveWins = max(st.MaxConsecutiveWins, st.CurrentStreak)
		} else {
			st.MaxConsecutiveLosses = max(st.MaxConsecutiveLosses, st.CurrentStreak)
		}
	}
	return st
}

func closingTrades(trades []models.TradeRecord) []models.TradeRecord {
	out := make([]models.TradeRecord, 0, len(trades))
	for _, t := range trades {
		if t.Side == models.SignalSell && t.PnLPercent != nil {
			out = append(out, t)
		}
	}
	return out
}

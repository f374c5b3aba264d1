package backtest

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// logLossEpsilon keeps log-loss finite for degenerate probabilities.
const logLossEpsilon = 1e-15

// Sample is one settled prediction.
type Sample struct {
	FixtureID  int64   `json:"fixture_id"`
	LeagueID   int64   `json:"league_id"`
	MarketKey  string  `json:"market_key"`
	Outcome    string  `json:"outcome"`
	Predicted  float64 `json:"predicted"`
	Actual     float64 `json:"actual"`
	Confidence float64 `json:"confidence"`
	Odds       float64 `json:"odds,omitempty"`
	HasOdds    bool    `json:"has_odds"`
}

// Correct reports whether the binary call matched reality.
func (s Sample) Correct() bool {
	return (s.Predicted > 0.5) == (s.Actual == 1)
}

// Accuracy is the share of correct binary calls.
func Accuracy(samples []Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	correct := 0
	for _, s := range samples {
		if s.Correct() {
			correct++
		}
	}
	return float64(correct) / float64(len(samples))
}

// BrierScore is the mean squared probability error; lower is better.
func BrierScore(samples []Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		diff := s.Predicted - s.Actual
		sum += diff * diff
	}
	return sum / float64(len(samples))
}

// LogLoss is the mean negative log likelihood; lower is better.
func LogLoss(samples []Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		p := math.Min(1-logLossEpsilon, math.Max(logLossEpsilon, s.Predicted))
		sum += s.Actual*math.Log(p) + (1-s.Actual)*math.Log(1-p)
	}
	return -sum / float64(len(samples))
}

// BettingReturns simulates flat unit stakes on samples clearing the
// confidence and edge thresholds, returning per-bet profit.
func BettingReturns(samples []Sample, minConfidence, minEdge float64) []float64 {
	var returns []float64
	for _, s := range samples {
		if !s.HasOdds || s.Confidence < minConfidence {
			continue
		}
		edge := s.Predicted*s.Odds - 1
		if edge < minEdge {
			continue
		}
		if s.Actual == 1 {
			returns = append(returns, s.Odds-1)
		} else {
			returns = append(returns, -1)
		}
	}
	return returns
}

// ROI is total profit over total staked for unit stakes.
func ROI(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	total := 0.0
	for _, r := range returns {
		total += r
	}
	return total / float64(len(returns))
}

// SharpeRatio is mean return over its standard deviation. Undefined
// below two bets.
func SharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	mean := stat.Mean(returns, nil)
	std := stat.StdDev(returns, nil)
	if std == 0 {
		return 0
	}
	return mean / std
}

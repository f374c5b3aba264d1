// Package kelly sizes stakes with the Kelly criterion, damped by model
// confidence and capped for bankroll safety.
package kelly

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Confidence tiers reported alongside a sized bet.
const (
	TierHigh   = "high"
	TierMedium = "medium"
	TierLow    = "low"
)

// Config bounds what the sizer will stake.
type Config struct {
	MaxFraction    float64 `mapstructure:"max_fraction" json:"max_fraction" validate:"gt=0,lte=1"`
	MinEdge        float64 `mapstructure:"min_edge" json:"min_edge"`
	MinProbability float64 `mapstructure:"min_probability" json:"min_probability"`
	MaxProbability float64 `mapstructure:"max_probability" json:"max_probability"`
}

// DefaultConfig returns production limits.
func DefaultConfig() Config {
	return Config{
		MaxFraction:    0.25,
		MinEdge:        0.02,
		MinProbability: 0.10,
		MaxProbability: 0.95,
	}
}

// Sizer computes Kelly stakes. Safe for concurrent use.
type Sizer struct {
	cfg Config
}

// NewSizer returns a sizer with the given limits.
func NewSizer(cfg Config) *Sizer {
	return &Sizer{cfg: cfg}
}

// Result is the sizing decision for one bet.
type Result struct {
	IsValueBet     bool    `json:"is_value_bet"`
	Fraction       float64 `json:"fraction"`
	HalfKelly      float64 `json:"half_kelly"`
	QuarterKelly   float64 `json:"quarter_kelly"`
	Edge           float64 `json:"edge"`
	ExpectedValue  float64 `json:"expected_value"`
	Tier           string  `json:"tier"`
	Recommendation string  `json:"recommendation"`
	Reason         string  `json:"reason,omitempty"`
}

func reject(reason string) Result {
	return Result{Reason: reason, Recommendation: "No bet: " + reason}
}

// Size computes the confidence-adjusted Kelly fraction for a single
// outcome. Probability is the model's estimate, odds are decimal, and
// confidence in [0, 1] dampens the raw fraction.
func (s *Sizer) Size(probability, odds, confidence float64) Result {
	if probability <= 0 || probability >= 1 {
		return reject("probability outside (0, 1)")
	}
	if odds <= 1 {
		return reject("odds at or below even money stake back")
	}
	if probability < s.cfg.MinProbability {
		return reject("probability below floor")
	}
	if probability > s.cfg.MaxProbability {
		return reject("probability above ceiling")
	}

	// Edge is model probability over the price's implied probability.
	edge := probability - 1/odds
	if edge < s.cfg.MinEdge {
		return reject("edge below minimum")
	}

	b := odds - 1
	q := 1 - probability
	fraction := (b*probability - q) / b
	if fraction <= 0 {
		return reject("negative kelly fraction")
	}
	ev := probability*b - q

	if fraction > s.cfg.MaxFraction {
		fraction = s.cfg.MaxFraction
	}
	// Damp by confidence; a 0-confidence signal still keeps half the
	// mathematical stake rather than zeroing it.
	fraction *= 0.5 + 0.5*confidence

	r := Result{
		IsValueBet:    true,
		Fraction:      fraction,
		HalfKelly:     fraction / 2,
		QuarterKelly:  fraction / 4,
		Edge:          edge,
		ExpectedValue: ev,
		Tier:          tier(confidence, edge),
	}
	r.Recommendation = recommendation(r.HalfKelly, edge, r.Tier, odds)
	return r
}

func recommendation(halfKelly, edge float64, tier string, odds float64) string {
	if halfKelly < 0.01 {
		return "Skip: edge too small for a meaningful stake"
	}
	strength := "Speculative"
	switch tier {
	case TierHigh:
		strength = "Strong"
	case TierMedium:
		strength = "Moderate"
	}
	return fmt.Sprintf("%s bet: %.1f%% of bankroll @ %.2f (edge: %.1f%%)",
		strength, halfKelly*100, odds, edge*100)
}

func tier(confidence, edge float64) string {
	switch {
	case confidence >= 0.8 && edge >= 0.10:
		return TierHigh
	case confidence >= 0.6 && edge >= 0.05:
		return TierMedium
	default:
		return TierLow
	}
}

// Stake converts the half-Kelly fraction to a currency amount. Half
// Kelly is the recommended operating point.
func (r Result) Stake(bankroll decimal.Decimal) decimal.Decimal {
	if !r.IsValueBet {
		return decimal.Zero
	}
	return bankroll.Mul(decimal.NewFromFloat(r.HalfKelly)).Round(2)
}

// SizeMarket sizes every outcome in a market and returns only the
// stakeable ones.
func (s *Sizer) SizeMarket(probabilities, odds map[string]float64, confidence float64) map[string]Result {
	results := make(map[string]Result)
	for outcome, prob := range probabilities {
		price, ok := odds[outcome]
		if !ok {
			continue
		}
		if r := s.Size(prob, price, confidence); r.IsValueBet {
			results[outcome] = r
		}
	}
	return results
}

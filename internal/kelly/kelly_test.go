package kelly

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeWorkedExample(t *testing.T) {
	s := NewSizer(DefaultConfig())

	// p=0.60 at 2.00 with b=1: raw f = (0.6-0.4)/1 = 0.20, under the
	// cap, then damped by 0.5+0.5*0.8 = 0.9 -> 0.18.
	r := s.Size(0.60, 2.00, 0.8)

	require.True(t, r.IsValueBet)
	assert.Empty(t, r.Reason)
	assert.InDelta(t, 0.18, r.Fraction, 1e-9)
	assert.InDelta(t, 0.09, r.HalfKelly, 1e-9)
	assert.InDelta(t, 0.045, r.QuarterKelly, 1e-9)
	assert.InDelta(t, 0.10, r.Edge, 1e-9, "edge is p minus implied probability")
	assert.InDelta(t, 0.20, r.ExpectedValue, 1e-9)
	assert.Equal(t, TierHigh, r.Tier)
	assert.Equal(t, "Strong bet: 9.0% of bankroll @ 2.00 (edge: 10.0%)", r.Recommendation)
}

func TestSizeRejections(t *testing.T) {
	s := NewSizer(DefaultConfig())

	tests := []struct {
		name        string
		probability float64
		odds        float64
		confidence  float64
	}{
		{"zero probability", 0, 2.0, 0.8},
		{"probability of one", 1, 2.0, 0.8},
		{"below probability floor", 0.09, 15.0, 0.8},
		{"above probability ceiling", 0.96, 1.10, 0.8},
		{"even odds", 0.60, 1.0, 0.8},
		{"odds below one", 0.60, 0.9, 0.8},
		{"edge below minimum", 0.50, 2.02, 0.8}, // edge 0.00495
		{"thin edge at longer price", 0.50, 2.04, 0.8}, // edge 0.0098
		{"no edge at all", 0.40, 2.0, 0.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := s.Size(tt.probability, tt.odds, tt.confidence)
			assert.False(t, r.IsValueBet)
			assert.NotEmpty(t, r.Reason)
			assert.Zero(t, r.Fraction)
		})
	}
}

func TestSizeAcceptsAtThresholds(t *testing.T) {
	s := NewSizer(DefaultConfig())

	// Exactly on the probability floor with a big price.
	r := s.Size(0.10, 20.0, 0.5)
	assert.True(t, r.IsValueBet)

	// Edge exactly at the minimum: 0.52 - 1/2.0 = 0.02.
	r = s.Size(0.52, 2.0, 0.5)
	assert.True(t, r.IsValueBet)
	assert.InDelta(t, 0.02, r.Edge, 1e-9)
}

func TestSizeCapsFraction(t *testing.T) {
	s := NewSizer(DefaultConfig())

	// Huge edge: p=0.80 at 3.0 gives raw f = (2*0.8-0.2)/2 = 0.70.
	r := s.Size(0.80, 3.0, 1.0)
	require.True(t, r.IsValueBet)
	assert.Equal(t, 0.25, r.Fraction)
	assert.Equal(t, 0.125, r.HalfKelly)

	// The cap applies to the raw fraction before confidence damping, so
	// a damped stake can sit below the cap even when raw Kelly is huge.
	damped := s.Size(0.80, 3.0, 0.8)
	require.True(t, damped.IsValueBet)
	assert.InDelta(t, 0.225, damped.Fraction, 1e-9)
}

func TestConfidenceDamping(t *testing.T) {
	s := NewSizer(DefaultConfig())

	full := s.Size(0.60, 2.00, 1.0)
	none := s.Size(0.60, 2.00, 0.0)

	require.True(t, full.IsValueBet)
	require.True(t, none.IsValueBet)
	assert.InDelta(t, 0.20, full.Fraction, 1e-9)
	assert.InDelta(t, 0.10, none.Fraction, 1e-9)
}

func TestTierAssignment(t *testing.T) {
	s := NewSizer(DefaultConfig())

	assert.Equal(t, TierHigh, s.Size(0.60, 2.00, 0.85).Tier)
	// Confidence 0.6 with edge 0.2 misses the high bar on confidence.
	assert.Equal(t, TierMedium, s.Size(0.60, 2.00, 0.6).Tier)
	// Small edge lands low regardless of confidence.
	assert.Equal(t, TierLow, s.Size(0.52, 2.00, 0.9).Tier)
}

func TestRecommendationText(t *testing.T) {
	s := NewSizer(DefaultConfig())

	rejected := s.Size(0.40, 2.00, 0.8)
	assert.Equal(t, "No bet: edge below minimum", rejected.Recommendation)

	// Valid but tiny: raw f = 0.0325 halves twice to under 1%.
	tiny := s.Size(0.355, 3.0, 0)
	require.True(t, tiny.IsValueBet)
	assert.Equal(t, "Skip: edge too small for a meaningful stake", tiny.Recommendation)
}

func TestStake(t *testing.T) {
	s := NewSizer(DefaultConfig())
	bankroll := decimal.NewFromInt(1000)

	r := s.Size(0.60, 2.00, 0.8)
	require.True(t, r.IsValueBet)
	assert.True(t, r.Stake(bankroll).Equal(decimal.NewFromInt(90)), "half Kelly of 1000 at f=0.18")

	rejected := s.Size(0.40, 2.00, 0.8)
	assert.True(t, rejected.Stake(bankroll).IsZero())
}

func TestSizeMarketFiltersOutcomes(t *testing.T) {
	s := NewSizer(DefaultConfig())

	probs := map[string]float64{
		"home_win": 0.60, // value at 2.00
		"draw":     0.25, // no value at 3.00
		"away_win": 0.15, // no odds quoted
	}
	odds := map[string]float64{
		"home_win": 2.00,
		"draw":     3.00,
	}

	results := s.SizeMarket(probs, odds, 0.8)
	require.Len(t, results, 1)
	assert.Contains(t, results, "home_win")
}

// Package parlay validates accumulator legs against outcome correlation.
// Bookmakers price legs as independent; correlated legs make the quoted
// combined odds misleading in either direction.
package parlay

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitchside/internal/models"
)

// Config holds the correlation thresholds.
type Config struct {
	HighThreshold     float64 `mapstructure:"high_threshold" json:"high_threshold"`
	ModerateThreshold float64 `mapstructure:"moderate_threshold" json:"moderate_threshold"`
	ModeratePenalty   float64 `mapstructure:"moderate_penalty" json:"moderate_penalty"`
	MaxRecommendations int    `mapstructure:"max_recommendations" json:"max_recommendations"`
}

// DefaultConfig returns production thresholds.
func DefaultConfig() Config {
	return Config{
		HighThreshold:      0.70,
		ModerateThreshold:  0.30,
		ModeratePenalty:    0.95,
		MaxRecommendations: 5,
	}
}

// Selection is one parlay leg.
type Selection struct {
	FixtureID int64   `json:"fixture_id"`
	MarketKey string  `json:"market_key"`
	Outcome   string  `json:"outcome"`
	Odds      float64 `json:"odds"`
}

func (s Selection) key() string {
	return s.MarketKey + "_" + s.Outcome
}

type pairKey struct{ a, b string }

func orderedPair(a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// measuredCorrelations are empirical same-fixture outcome correlations.
var measuredCorrelations = map[pairKey]float64{
	orderedPair("over_under_2_5_over", "over_under_3_5_over"):   0.681,
	orderedPair("over_under_1_5_over", "over_under_2_5_over"):   0.624,
	orderedPair("over_under_2_5_over", "btts_yes"):              0.487,
	orderedPair("over_under_3_5_over", "btts_yes"):              0.442,
	orderedPair("match_winner_home", "over_under_2_5_over"):     0.112,
	orderedPair("match_winner_home", "btts_no"):                 0.183,
	orderedPair("over_under_2_5_under", "btts_no"):              0.512,
	orderedPair("corners_over", "over_under_2_5_over"):          0.214,
	orderedPair("cards_over", "match_winner_draw"):              0.161,
}

// Validator checks parlays for correlated legs. Safe for concurrent use.
type Validator struct {
	cfg    Config
	known  map[pairKey]float64
	logger *logrus.Logger
}

// NewValidator uses the built-in measured correlation table.
func NewValidator(cfg Config, logger *logrus.Logger) *Validator {
	return &Validator{cfg: cfg, known: measuredCorrelations, logger: logger}
}

// WithCorrelations overrides the measured table; used by backtests that
// estimate correlations from their own window.
func (v *Validator) WithCorrelations(table map[string]map[string]float64) *Validator {
	known := make(map[pairKey]float64)
	for a, row := range table {
		for b, r := range row {
			known[orderedPair(a, b)] = r
		}
	}
	return &Validator{cfg: v.cfg, known: known, logger: v.logger}
}

func marketFamily(marketKey string) string {
	if strings.HasPrefix(marketKey, "over_under") {
		return "over_under"
	}
	return marketKey
}

// Correlation estimates the outcome correlation between two legs.
// Cross-fixture legs are treated as independent.
func (v *Validator) Correlation(a, b Selection) float64 {
	if a.FixtureID != b.FixtureID {
		return 0
	}
	if r, ok := v.known[orderedPair(a.key(), b.key())]; ok {
		return r
	}

	famA, famB := marketFamily(a.MarketKey), marketFamily(b.MarketKey)
	switch {
	case a.MarketKey == b.MarketKey && a.Outcome != b.Outcome:
		// Mutually exclusive outcomes of the same market.
		return -1.0
	case famA == "over_under" && famB == "over_under":
		return 0.6
	case famA == models.MarketMatchWinner && famB == "over_under",
		famB == models.MarketMatchWinner && famA == "over_under":
		return 0.05
	case famA == models.MarketMatchWinner && famB == models.MarketMatchWinner:
		return -0.5
	default:
		return 0.15
	}
}

// PairCorrelation reports one evaluated leg pair.
type PairCorrelation struct {
	LegA        string  `json:"leg_a"`
	LegB        string  `json:"leg_b"`
	Correlation float64 `json:"correlation"`
}

// Verdict is the validation result for a parlay.
type Verdict struct {
	Valid        bool              `json:"valid"`
	Reason       string            `json:"reason,omitempty"`
	Pairs        []PairCorrelation `json:"pairs,omitempty"`
	OddsPenalty  float64           `json:"odds_penalty"`
	QuotedOdds   float64           `json:"quoted_odds"`
	AdjustedOdds float64           `json:"adjusted_odds"`
}

// Validate checks every leg pair. Any pair above the high threshold
// rejects the parlay; moderate pairs survive with a compounding odds
// penalty.
func (v *Validator) Validate(legs []Selection) (*Verdict, error) {
	if len(legs) < 2 {
		return nil, fmt.Errorf("%w: parlay needs at least 2 legs", models.ErrInvalidInput)
	}

	verdict := &Verdict{Valid: true, OddsPenalty: 1.0, QuotedOdds: 1.0}
	for _, leg := range legs {
		if leg.Odds > 1 {
			verdict.QuotedOdds *= leg.Odds
		}
	}

	for i := 0; i < len(legs); i++ {
		for j := i + 1; j < len(legs); j++ {
			r := v.Correlation(legs[i], legs[j])
			abs := math.Abs(r)
			pair := PairCorrelation{
				LegA:        legs[i].key(),
				LegB:        legs[j].key(),
				Correlation: r,
			}
			verdict.Pairs = append(verdict.Pairs, pair)

			if abs > v.cfg.HighThreshold {
				verdict.Valid = false
				verdict.Reason = fmt.Sprintf("legs %s and %s are highly correlated (%.2f)",
					pair.LegA, pair.LegB, r)
			} else if abs > v.cfg.ModerateThreshold {
				verdict.OddsPenalty *= v.cfg.ModeratePenalty
			}
		}
	}

	verdict.AdjustedOdds = verdict.QuotedOdds * verdict.OddsPenalty
	if !verdict.Valid {
		verdict.AdjustedOdds = 0
	}

	if v.logger != nil {
		v.logger.WithFields(logrus.Fields{
			"legs":    len(legs),
			"valid":   verdict.Valid,
			"penalty": verdict.OddsPenalty,
		}).Debug("parlay validated")
	}
	return verdict, nil
}

// Recommendation is a low-correlation leg pairing.
type Recommendation struct {
	Legs         []Selection `json:"legs"`
	Correlation  float64     `json:"correlation"`
	CombinedOdds float64     `json:"combined_odds"`
}

// Recommend returns the least-correlated valid pairings from the
// available selections, most independent first.
func (v *Validator) Recommend(selections []Selection) []Recommendation {
	var recs []Recommendation
	for i := 0; i < len(selections); i++ {
		for j := i + 1; j < len(selections); j++ {
			r := v.Correlation(selections[i], selections[j])
			if math.Abs(r) >= v.cfg.ModerateThreshold {
				continue
			}
			recs = append(recs, Recommendation{
				Legs:         []Selection{selections[i], selections[j]},
				Correlation:  r,
				CombinedOdds: selections[i].Odds * selections[j].Odds,
			})
		}
	}

	sort.Slice(recs, func(i, j int) bool {
		ai, aj := math.Abs(recs[i].Correlation), math.Abs(recs[j].Correlation)
		if ai != aj {
			return ai < aj
		}
		return recs[i].CombinedOdds > recs[j].CombinedOdds
	})

	if len(recs) > v.cfg.MaxRecommendations {
		recs = recs[:v.cfg.MaxRecommendations]
	}
	return recs
}

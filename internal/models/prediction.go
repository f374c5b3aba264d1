package models

import (
	"time"

	"github.com/google/uuid"
)

// Market keys shared across the predictor, screener and backtester.
const (
	MarketMatchWinner   = "match_winner"
	MarketOverUnder15   = "over_under_1_5"
	MarketOverUnder25   = "over_under_2_5"
	MarketOverUnder35   = "over_under_3_5"
	MarketBTTS          = "btts"
	MarketCorners       = "corners"
	MarketCards         = "cards"
	MarketShots         = "shots"
	MarketShotsOnTarget = "shots_on_target"
	MarketOffsides      = "offsides"
	MarketHalfTime      = "half_time"
	MarketExactScore    = "exact_score"
	MarketPlayerGoals   = "player_goals"
	MarketPlayerSOT     = "player_shots_on_target"
)

// primaryLines are the headline over/under lines for count markets.
// Settlement and prediction must agree on these.
var primaryLines = map[string]float64{
	MarketCorners:       9.5,
	MarketCards:         3.5,
	MarketShots:         22.5,
	MarketShotsOnTarget: 8.5,
	MarketOffsides:      4.5,
}

// PrimaryLine returns the headline line for a count market.
func PrimaryLine(market string) (float64, bool) {
	line, ok := primaryLines[market]
	return line, ok
}

// Prediction is one market prediction for one fixture. Outcomes within a
// single market always sum to 1.
type Prediction struct {
	ID          uuid.UUID          `db:"id" json:"id"`
	FixtureID   int64              `db:"fixture_id" json:"fixture_id" validate:"required"`
	LeagueID    int64              `db:"league_id" json:"league_id"`
	MarketKey   string             `db:"market_key" json:"market_key" validate:"required"`
	Outcomes    map[string]float64 `db:"outcomes" json:"outcomes" validate:"required"`
	Confidence  float64            `db:"confidence" json:"confidence" validate:"gte=0,lte=1"`
	Grade       string             `db:"grade" json:"grade,omitempty"`
	Features    *Features          `db:"features" json:"features,omitempty"`
	PredictedAt time.Time          `db:"predicted_at" json:"predicted_at"`
}

// Features records the model inputs behind a prediction. Only the block
// relevant to the prediction's market family is populated.
type Features struct {
	Goals    *GoalsFeatures    `json:"goals,omitempty"`
	Elo      *EloFeatures      `json:"elo,omitempty"`
	Corners  *CornersFeatures  `json:"corners,omitempty"`
	Cards    *CardsFeatures    `json:"cards,omitempty"`
	Shots    *ShotsFeatures    `json:"shots,omitempty"`
	Offsides *OffsidesFeatures `json:"offsides,omitempty"`
}

// GoalsFeatures backs goal-derived markets (winner, totals, BTTS, scores).
type GoalsFeatures struct {
	HomeExpectedGoals float64 `json:"home_expected_goals"`
	AwayExpectedGoals float64 `json:"away_expected_goals"`
	Rho               float64 `json:"rho"`
	IsCup             bool    `json:"is_cup,omitempty"`
}

// EloFeatures backs rating-derived signals.
type EloFeatures struct {
	HomeElo  float64 `json:"home_elo"`
	AwayElo  float64 `json:"away_elo"`
	EloDiff  float64 `json:"elo_diff"`
	FormDiff float64 `json:"form_diff,omitempty"`
}

// CornersFeatures backs the corner count markets.
type CornersFeatures struct {
	HomeExpected float64 `json:"home_expected"`
	AwayExpected float64 `json:"away_expected"`
	Dispersion   float64 `json:"dispersion"`
}

// CardsFeatures backs the booking markets.
type CardsFeatures struct {
	ExpectedCards     float64 `json:"expected_cards"`
	RefereeStrictness float64 `json:"referee_strictness"`
	DerbyFactor       float64 `json:"derby_factor,omitempty"`
	PhysicalMismatch  float64 `json:"physical_mismatch,omitempty"`
}

// ShotsFeatures backs shot and shot-on-target markets.
type ShotsFeatures struct {
	HomeExpected float64 `json:"home_expected"`
	AwayExpected float64 `json:"away_expected"`
	OnTarget     bool    `json:"on_target,omitempty"`
}

// OffsidesFeatures backs the offside count markets.
type OffsidesFeatures struct {
	HomeExpected    float64 `json:"home_expected"`
	AwayExpected    float64 `json:"away_expected"`
	ShrinkageWeight float64 `json:"shrinkage_weight"`
}

// MeetsThreshold checks if the confidence meets the given threshold.
func (p *Prediction) MeetsThreshold(threshold float64) bool {
	return p.Confidence >= threshold
}

// MostLikelyOutcome returns the outcome with the highest probability.
func (p *Prediction) MostLikelyOutcome() (string, float64) {
	best := ""
	bestProb := -1.0
	for outcome, prob := range p.Outcomes {
		if prob > bestProb || (prob == bestProb && outcome < best) {
			best = outcome
			bestProb = prob
		}
	}
	return best, bestProb
}

// OddsSnapshot is one bookmaker quote for one market at a point in time.
type OddsSnapshot struct {
	FixtureID  int64              `db:"fixture_id" json:"fixture_id"`
	Bookmaker  string             `db:"bookmaker" json:"bookmaker"`
	MarketKey  string             `db:"market_key" json:"market_key"`
	Odds       map[string]float64 `db:"odds" json:"odds"`
	RecordedAt time.Time          `db:"recorded_at" json:"recorded_at"`
}

// ImpliedProbability converts decimal odds for one outcome, without
// removing the overround.
func (o *OddsSnapshot) ImpliedProbability(outcome string) (float64, bool) {
	price, ok := o.Odds[outcome]
	if !ok || price <= 1.0 {
		return 0, false
	}
	return 1.0 / price, true
}

// Package markets predicts secondary betting markets (corners, cards,
// shots, offsides, half-time splits, exact scores and player props) from
// team statistics and the fitted goal model.
package markets

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitchside/internal/dixoncoles"
	"github.com/yourusername/pitchside/internal/models"
)

// Importance levels scale card expectations and Elo K-factors.
const (
	ImportanceLow    = "low"
	ImportanceNormal = "normal"
	ImportanceHigh   = "high"
)

// Config tunes the secondary-market models.
type Config struct {
	CornerDispersion float64 `mapstructure:"corner_dispersion" json:"corner_dispersion"`
	CornerHomeBoost  float64 `mapstructure:"corner_home_boost" json:"corner_home_boost"`
	ShotsHomeBoost   float64 `mapstructure:"shots_home_boost" json:"shots_home_boost"`
	OffsideHomeBoost float64 `mapstructure:"offside_home_boost" json:"offside_home_boost"`
	DerbyCardFactor  float64 `mapstructure:"derby_card_factor" json:"derby_card_factor"`

	// BTTS blends the goal model with clean-sheet history.
	BTTSModelWeight float64 `mapstructure:"btts_model_weight" json:"btts_model_weight"`

	HalfTimeGoalShare   float64 `mapstructure:"half_time_goal_share" json:"half_time_goal_share"`
	HalfTimeCornerShare float64 `mapstructure:"half_time_corner_share" json:"half_time_corner_share"`

	LeagueAvgOffsides float64 `mapstructure:"league_avg_offsides" json:"league_avg_offsides"`
	LeagueAvgCards    float64 `mapstructure:"league_avg_cards" json:"league_avg_cards"`
	LeagueAvgGoals    float64 `mapstructure:"league_avg_goals" json:"league_avg_goals"`

	// Shrinkage pulls thin samples toward league averages; full team
	// weight is reached at this many matches.
	ShrinkageMatches int `mapstructure:"shrinkage_matches" json:"shrinkage_matches"`
}

// DefaultConfig returns production tuning.
func DefaultConfig() Config {
	return Config{
		CornerDispersion:    2.5,
		CornerHomeBoost:     1.10,
		ShotsHomeBoost:      1.08,
		OffsideHomeBoost:    1.08,
		DerbyCardFactor:     1.3,
		BTTSModelWeight:     0.8,
		HalfTimeGoalShare:   0.45,
		HalfTimeCornerShare: 0.48,
		LeagueAvgOffsides:   2.25,
		LeagueAvgCards:      1.9,
		LeagueAvgGoals:      1.3,
		ShrinkageMatches:    20,
	}
}

// Predictor derives secondary markets. Safe for concurrent use.
type Predictor struct {
	cfg    Config
	logger *logrus.Logger
}

// New returns a market predictor.
func New(cfg Config, logger *logrus.Logger) *Predictor {
	return &Predictor{cfg: cfg, logger: logger}
}

// Request carries everything known about a fixture ahead of kickoff.
// Optional pointers may be nil; defaults are substituted.
type Request struct {
	Fixture *models.Fixture

	HomeStats *models.TeamStats
	AwayStats *models.TeamStats
	Referee   *models.RefereeProfile

	// Goals is the already-computed goal model output for this pairing.
	// When nil, goal-derived markets are skipped.
	Goals *dixoncoles.MatchPrediction

	HomeQuality *models.TeamQualityProfile
	AwayQuality *models.TeamQualityProfile

	HomePlayers []*models.PlayerStats
	AwayPlayers []*models.PlayerStats

	IsDerby    bool
	Importance string
}

func (r *Request) importanceFactor() float64 {
	switch r.Importance {
	case ImportanceLow:
		return 0.9
	case ImportanceHigh:
		return 1.2
	default:
		return 1.0
	}
}

// Count is one count market: expected totals plus over/under lines.
type Count struct {
	HomeExpected  float64            `json:"home_expected"`
	AwayExpected  float64            `json:"away_expected"`
	TotalExpected float64            `json:"total_expected"`
	Lines         map[string]float64 `json:"lines"` // line -> P(over)
}

// MultiMarket is the full secondary-market output for one fixture.
type MultiMarket struct {
	FixtureID int64 `json:"fixture_id"`

	BTTSYes float64 `json:"btts_yes,omitempty"`
	BTTSNo  float64 `json:"btts_no,omitempty"`

	Corners  *Count `json:"corners,omitempty"`
	Cards    *Count `json:"cards,omitempty"`
	Shots    *Count `json:"shots,omitempty"`
	ShotsOT  *Count `json:"shots_on_target,omitempty"`
	Offsides *Count `json:"offsides,omitempty"`

	HalfTime    *HalfTime          `json:"half_time,omitempty"`
	ExactScores []dixoncoles.Score `json:"exact_scores,omitempty"`
	PlayerProps []PlayerProp       `json:"player_props,omitempty"`

	CardsFeatures    *models.CardsFeatures    `json:"-"`
	CornersFeatures  *models.CornersFeatures  `json:"-"`
	ShotsFeatures    *models.ShotsFeatures    `json:"-"`
	OffsidesFeatures *models.OffsidesFeatures `json:"-"`

	GeneratedAt time.Time `json:"generated_at"`
}

// PredictAll derives every secondary market the request has data for.
func (p *Predictor) PredictAll(req *Request) (*MultiMarket, error) {
	if req == nil || req.Fixture == nil {
		return nil, models.ErrInvalidInput
	}
	if req.HomeStats == nil {
		req.HomeStats = models.DefaultTeamStats(req.Fixture.HomeTeamID, req.Fixture.LeagueID)
	}
	if req.AwayStats == nil {
		req.AwayStats = models.DefaultTeamStats(req.Fixture.AwayTeamID, req.Fixture.LeagueID)
	}
	if req.Referee == nil {
		req.Referee = models.DefaultRefereeProfile()
	}
	quality := deriveQuality(req.HomeQuality, req.AwayQuality)

	out := &MultiMarket{
		FixtureID:   req.Fixture.ID,
		GeneratedAt: time.Now().UTC(),
	}

	out.Corners, out.CornersFeatures = p.predictCorners(req, quality)
	out.Cards, out.CardsFeatures = p.predictCards(req, quality)
	out.Shots, out.ShotsFeatures = p.predictShots(req, quality, false)
	out.ShotsOT, _ = p.predictShots(req, quality, true)
	out.Offsides, out.OffsidesFeatures = p.predictOffsides(req)

	if req.Goals != nil {
		out.BTTSYes, out.BTTSNo = p.predictBTTS(req)
		out.HalfTime = p.predictHalfTime(req, out.Corners)
		out.ExactScores = req.Goals.TopScores
		out.PlayerProps = p.predictPlayerProps(req)
	}

	if p.logger != nil {
		p.logger.WithFields(logrus.Fields{
			"fixture_id":   req.Fixture.ID,
			"corners_avg":  out.Corners.TotalExpected,
			"cards_avg":    out.Cards.TotalExpected,
			"player_props": len(out.PlayerProps),
		}).Debug("secondary markets predicted")
	}
	return out, nil
}

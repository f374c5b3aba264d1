// Package value screens model predictions against bookmaker odds for
// positive expected value and ranks the survivors.
package value

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitchside/internal/kelly"
	"github.com/yourusername/pitchside/internal/models"
	"github.com/yourusername/pitchside/internal/quality"
)

// Config holds the screening thresholds.
type Config struct {
	MinOdds       float64 `mapstructure:"min_odds" json:"min_odds"`
	MaxOdds       float64 `mapstructure:"max_odds" json:"max_odds"`
	MinConfidence float64 `mapstructure:"min_confidence" json:"min_confidence"`
	MinEdge       float64 `mapstructure:"min_edge" json:"min_edge"`
	MinEV         float64 `mapstructure:"min_ev" json:"min_ev"`
}

// DefaultConfig returns production thresholds.
func DefaultConfig() Config {
	return Config{
		MinOdds:       1.20,
		MaxOdds:       10.0,
		MinConfidence: 0.40,
		MinEdge:       0.03,
		MinEV:         0.02,
	}
}

// Screener filters and ranks value bets. Safe for concurrent use.
type Screener struct {
	cfg    Config
	sizer  *kelly.Sizer
	logger *logrus.Logger
}

// NewScreener wires the screener with a stake sizer.
func NewScreener(cfg Config, sizer *kelly.Sizer, logger *logrus.Logger) *Screener {
	return &Screener{cfg: cfg, sizer: sizer, logger: logger}
}

// FixtureData bundles one fixture's predictions, quotes and grades.
type FixtureData struct {
	Fixture     *models.Fixture
	Predictions []*models.Prediction
	Odds        []*models.OddsSnapshot
	Quality     map[string]*quality.Score // keyed by market
}

// Bet is one screened value opportunity.
type Bet struct {
	FixtureID   int64     `json:"fixture_id"`
	LeagueID    int64     `json:"league_id"`
	HomeTeam    string    `json:"home_team"`
	AwayTeam    string    `json:"away_team"`
	KickoffTime time.Time `json:"kickoff_time"`
	MarketKey   string    `json:"market_key"`
	Outcome     string    `json:"outcome"`
	Bookmaker   string    `json:"bookmaker"`

	ModelProbability   float64 `json:"model_probability"`
	ImpliedProbability float64 `json:"implied_probability"`
	Odds               float64 `json:"odds"`
	Edge               float64 `json:"edge"`
	ExpectedValue      float64 `json:"expected_value"`
	Confidence         float64 `json:"confidence"`
	Grade              string  `json:"grade"`
	KellyFraction      float64 `json:"kelly_fraction"`
	Score              float64 `json:"score"`
}

var gradeMultipliers = map[string]float64{
	"A": 1.5,
	"B": 1.2,
	"C": 1.0,
	"D": 0.8,
	"F": 0.5,
}

// rank combines edge, EV and confidence into a 0-100 base score, then
// scales by the prediction's quality grade.
func rank(edge, ev, confidence float64, grade string) float64 {
	edgeComponent := edge / 0.15
	if edgeComponent > 1 {
		edgeComponent = 1
	}
	evComponent := ev / 0.20
	if evComponent > 1 {
		evComponent = 1
	}
	base := edgeComponent*40 + evComponent*30 + confidence*30

	mult, ok := gradeMultipliers[grade]
	if !ok {
		mult = 1.0
	}
	return base * mult
}

// Screen evaluates every prediction/quote pairing and returns passing
// bets ranked best first.
func (s *Screener) Screen(fixtures []*FixtureData) []*Bet {
	var bets []*Bet
	for _, fd := range fixtures {
		bets = append(bets, s.screenFixture(fd)...)
	}

	sort.Slice(bets, func(i, j int) bool {
		if bets[i].Score != bets[j].Score {
			return bets[i].Score > bets[j].Score
		}
		return bets[i].FixtureID < bets[j].FixtureID
	})

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"fixtures": len(fixtures),
			"bets":     len(bets),
		}).Info("value screen complete")
	}
	return bets
}

// latestOdds keeps only the most recent snapshot per market; stale
// quotes must never produce a bet.
func latestOdds(snaps []*models.OddsSnapshot) map[string]*models.OddsSnapshot {
	latest := make(map[string]*models.OddsSnapshot, len(snaps))
	for _, snap := range snaps {
		cur, ok := latest[snap.MarketKey]
		if !ok || snap.RecordedAt.After(cur.RecordedAt) {
			latest[snap.MarketKey] = snap
		}
	}
	return latest
}

func (s *Screener) screenFixture(fd *FixtureData) []*Bet {
	var bets []*Bet
	latest := latestOdds(fd.Odds)
	for _, pred := range fd.Predictions {
		if pred.Confidence < s.cfg.MinConfidence {
			continue
		}
		grade := pred.Grade
		if q, ok := fd.Quality[pred.MarketKey]; ok {
			grade = q.Grade
		}

		snap, ok := latest[pred.MarketKey]
		if !ok {
			continue
		}
		for outcome, modelProb := range pred.Outcomes {
			price, ok := snap.Odds[outcome]
			if !ok || price < s.cfg.MinOdds || price > s.cfg.MaxOdds {
				continue
			}

			implied := 1.0 / price
			edge := modelProb - implied
			ev := modelProb*price - 1
			if edge < s.cfg.MinEdge || ev < s.cfg.MinEV {
				continue
			}

			sized := s.sizer.Size(modelProb, price, pred.Confidence)

			bets = append(bets, &Bet{
				FixtureID:          fd.Fixture.ID,
				LeagueID:           fd.Fixture.LeagueID,
				HomeTeam:           fd.Fixture.HomeTeamName,
				AwayTeam:           fd.Fixture.AwayTeamName,
				KickoffTime:        fd.Fixture.KickoffTime,
				MarketKey:          pred.MarketKey,
				Outcome:            outcome,
				Bookmaker:          snap.Bookmaker,
				ModelProbability:   modelProb,
				ImpliedProbability: implied,
				Odds:               price,
				Edge:               edge,
				ExpectedValue:      ev,
				Confidence:         pred.Confidence,
				Grade:              grade,
				KellyFraction:      sized.Fraction,
				Score:              rank(edge, ev, pred.Confidence, grade),
			})
		}
	}
	return bets
}

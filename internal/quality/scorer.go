// Package quality grades predictions by data coverage, model confidence
// and the system's measured accuracy for the league and market.
package quality

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitchside/internal/leagues"
	"github.com/yourusername/pitchside/internal/models"
)

// Component weights for the final score.
const (
	coverageWeight   = 0.35
	confidenceWeight = 0.40
	historicalWeight = 0.25
)

// DataAvailability flags which inputs were present when predicting.
// A nil pointer means availability was not tracked; coverage then falls
// back to a league-tier estimate.
type DataAvailability struct {
	TeamStats  bool `json:"team_stats"`
	HeadToHead bool `json:"head_to_head"`
	RecentForm bool `json:"recent_form"`
	Odds       bool `json:"odds"`
	Injuries   bool `json:"injuries"`
	Lineups    bool `json:"lineups"`
	Weather    bool `json:"weather"`
	VenueStats bool `json:"venue_stats"`
}

// coverage weights each input by its predictive value.
func (d *DataAvailability) coverage() float64 {
	score := 0.0
	if d.TeamStats {
		score += 0.20
	}
	if d.HeadToHead {
		score += 0.15
	}
	if d.RecentForm {
		score += 0.20
	}
	if d.Odds {
		score += 0.15
	}
	if d.Injuries {
		score += 0.10
	}
	if d.Lineups {
		score += 0.10
	}
	if d.Weather {
		score += 0.05
	}
	if d.VenueStats {
		score += 0.05
	}
	return score
}

// Score is the graded quality assessment of one prediction.
type Score struct {
	FixtureID          int64     `json:"fixture_id"`
	MarketKey          string    `json:"market_key"`
	DataCoverage       float64   `json:"data_coverage"`
	ModelConfidence    float64   `json:"model_confidence"`
	HistoricalAccuracy float64   `json:"historical_accuracy"`
	Final              float64   `json:"final"`
	Grade              string    `json:"grade"`
	Reasoning          string    `json:"reasoning"`
	CalculatedAt       time.Time `json:"calculated_at"`
}

type accKey struct {
	LeagueID  int64
	MarketKey string
}

type accRecord struct {
	correct int
	total   int
}

// Scorer grades predictions. Safe for concurrent use.
type Scorer struct {
	mu      sync.RWMutex
	history map[accKey]*accRecord
	logger  *logrus.Logger
}

// NewScorer returns a scorer with no recorded outcomes yet.
func NewScorer(logger *logrus.Logger) *Scorer {
	return &Scorer{
		history: make(map[accKey]*accRecord),
		logger:  logger,
	}
}

// minSample before recorded accuracy overrides the league baseline.
const minSample = 20

func (s *Scorer) historicalAccuracy(leagueID int64, marketKey string) float64 {
	s.mu.RLock()
	rec, ok := s.history[accKey{LeagueID: leagueID, MarketKey: marketKey}]
	s.mu.RUnlock()
	if ok && rec.total >= minSample {
		return float64(rec.correct) / float64(rec.total)
	}
	return leagues.HistoricalAccuracy(leagueID)
}

// tierCoverage estimates data coverage when availability was not tracked.
// Top leagues have near-complete provider coverage.
func tierCoverage(leagueID int64) float64 {
	switch leagues.Tier(leagueID) {
	case 1:
		return 0.85
	case 2:
		return 0.80
	default:
		return 0.70
	}
}

// Grade maps a final score to a letter grade.
func Grade(final float64) string {
	switch {
	case final >= 0.75:
		return "A"
	case final >= 0.60:
		return "B"
	case final >= 0.45:
		return "C"
	case final >= 0.30:
		return "D"
	default:
		return "F"
	}
}

// ScorePrediction grades a single prediction. avail may be nil.
func (s *Scorer) ScorePrediction(pred *models.Prediction, avail *DataAvailability) *Score {
	coverage := tierCoverage(pred.LeagueID)
	if avail != nil {
		coverage = avail.coverage()
	}
	historical := s.historicalAccuracy(pred.LeagueID, pred.MarketKey)

	final := coverageWeight*coverage +
		confidenceWeight*pred.Confidence +
		historicalWeight*historical

	score := &Score{
		FixtureID:          pred.FixtureID,
		MarketKey:          pred.MarketKey,
		DataCoverage:       coverage,
		ModelConfidence:    pred.Confidence,
		HistoricalAccuracy: historical,
		Final:              final,
		Grade:              Grade(final),
		Reasoning: fmt.Sprintf("coverage=%.2f confidence=%.2f historical=%.2f",
			coverage, pred.Confidence, historical),
		CalculatedAt: time.Now().UTC(),
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"fixture_id": pred.FixtureID,
			"market":     pred.MarketKey,
			"grade":      score.Grade,
			"final":      final,
		}).Debug("prediction graded")
	}
	return score
}

// RecordOutcome feeds a settled prediction back into the accuracy history.
func (s *Scorer) RecordOutcome(leagueID int64, marketKey string, correct bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := accKey{LeagueID: leagueID, MarketKey: marketKey}
	rec, ok := s.history[key]
	if !ok {
		rec = &accRecord{}
		s.history[key] = rec
	}
	rec.total++
	if correct {
		rec.correct++
	}
}

// Package ratings implements a contextual Elo system for football teams:
// venue-specific ratings, head-to-head history, recent form and time-decay
// regression for inactive sides.
package ratings

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitchside/internal/leagues"
)

// Config tunes the rating system. Use DefaultConfig unless backtesting
// alternatives.
type Config struct {
	BaseK            float64 `mapstructure:"base_k" json:"base_k" validate:"gt=0"`
	HomeFieldBonus   float64 `mapstructure:"home_field_bonus" json:"home_field_bonus"`
	RatingFloor      float64 `mapstructure:"rating_floor" json:"rating_floor"`
	RatingCeiling    float64 `mapstructure:"rating_ceiling" json:"rating_ceiling" validate:"gtfield=RatingFloor"`
	H2HMultiplier    float64 `mapstructure:"h2h_multiplier" json:"h2h_multiplier"`
	FormDecay        float64 `mapstructure:"form_decay" json:"form_decay" validate:"gt=0,lte=1"`
	FormWindow       int     `mapstructure:"form_window" json:"form_window"`
	InactivityDays   int     `mapstructure:"inactivity_days" json:"inactivity_days"`
	RegressionFactor float64 `mapstructure:"regression_factor" json:"regression_factor"`
	MaxRegression    float64 `mapstructure:"max_regression" json:"max_regression"`
	// Contextual blends Elo signals: venue rating, overall, recent form,
	// and optionally head-to-head when history exists.
	VenueWeight   float64 `mapstructure:"venue_weight" json:"venue_weight"`
	OverallWeight float64 `mapstructure:"overall_weight" json:"overall_weight"`
	FormWeight    float64 `mapstructure:"form_weight" json:"form_weight"`
	H2HWeight     float64 `mapstructure:"h2h_weight" json:"h2h_weight"`
}

// DefaultConfig returns production tuning.
func DefaultConfig() Config {
	return Config{
		BaseK:            32,
		HomeFieldBonus:   65,
		RatingFloor:      1200,
		RatingCeiling:    2000,
		H2HMultiplier:    1.5,
		FormDecay:        0.8,
		FormWindow:       10,
		InactivityDays:   30,
		RegressionFactor: 0.03,
		MaxRegression:    0.15,
		VenueWeight:      0.50,
		OverallWeight:    0.30,
		FormWeight:       0.20,
		H2HWeight:        0.20,
	}
}

type formEntry struct {
	Score    float64   `json:"score"`
	PlayedAt time.Time `json:"played_at"`
}

// TeamRating is the full rating state for one team.
type TeamRating struct {
	Overall     float64     `json:"overall"`
	Home        float64     `json:"home"`
	Away        float64     `json:"away"`
	Matches     int         `json:"matches"`
	Recent      []formEntry `json:"recent,omitempty"`
	LastPlayed  time.Time   `json:"last_played"`
}

type h2hKey struct {
	Team     int64 `json:"team"`
	Opponent int64 `json:"opponent"`
}

// Store maintains ratings for all teams. Reads are safe for concurrent use;
// updates must be applied in chronological match order from a single
// goroutine.
type Store struct {
	mu     sync.RWMutex
	cfg    Config
	teams  map[int64]*TeamRating
	h2h    map[h2hKey]float64
	logger *logrus.Logger
}

// NewStore returns an empty store. Teams are seeded lazily from league
// tier defaults on first access.
func NewStore(cfg Config, logger *logrus.Logger) *Store {
	return &Store{
		cfg:    cfg,
		teams:  make(map[int64]*TeamRating),
		h2h:    make(map[h2hKey]float64),
		logger: logger,
	}
}

func (s *Store) team(teamID, leagueID int64) *TeamRating {
	tr, ok := s.teams[teamID]
	if !ok {
		seed := leagues.DefaultRating(teamID, leagueID)
		tr = &TeamRating{Overall: seed, Home: seed, Away: seed}
		s.teams[teamID] = tr
	}
	return tr
}

// Rating returns the overall rating, seeding the team if unseen.
func (s *Store) Rating(teamID, leagueID int64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.team(teamID, leagueID).Overall
}

// recentForm returns the exponentially decayed average of recent results
// in [0, 1], weighting the latest match highest. ok is false with no
// history.
func recentForm(entries []formEntry, decay float64) (float64, bool) {
	if len(entries) == 0 {
		return 0, false
	}
	weight := 1.0
	sum := 0.0
	total := 0.0
	for i := len(entries) - 1; i >= 0; i-- {
		sum += entries[i].Score * weight
		total += weight
		weight *= decay
	}
	return sum / total, true
}

// ContextualRating blends the venue-specific rating with overall strength,
// recent form and head-to-head record against this opponent.
func (s *Store) ContextualRating(teamID, opponentID, leagueID int64, isHome bool) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contextualLocked(teamID, opponentID, leagueID, isHome)
}

func (s *Store) contextualLocked(teamID, opponentID, leagueID int64, isHome bool) float64 {
	tr := s.team(teamID, leagueID)
	venue := tr.Home
	if !isHome {
		venue = tr.Away
	}

	// Form contributes up to +-50 points around the overall rating.
	formAdj := 0.0
	if form, ok := recentForm(tr.Recent, s.cfg.FormDecay); ok {
		formAdj = (form - 0.5) * 2 * 50
	}
	formRating := tr.Overall + formAdj

	h2h, hasH2H := s.h2h[h2hKey{Team: teamID, Opponent: opponentID}]
	if !hasH2H {
		return s.cfg.VenueWeight*venue +
			s.cfg.OverallWeight*tr.Overall +
			s.cfg.FormWeight*formRating
	}

	// With head-to-head history, overall gives up weight to the H2H rating.
	overallW := s.cfg.OverallWeight - s.cfg.H2HWeight
	if overallW < 0 {
		overallW = 0
	}
	return s.cfg.VenueWeight*venue +
		overallW*tr.Overall +
		s.cfg.FormWeight*formRating +
		s.cfg.H2HWeight*h2h
}

// Outcome holds match probabilities from the rating model.
type Outcome struct {
	HomeWin  float64 `json:"home_win"`
	Draw     float64 `json:"draw"`
	AwayWin  float64 `json:"away_win"`
	HomeElo  float64 `json:"home_elo"`
	AwayElo  float64 `json:"away_elo"`
	EloDiff  float64 `json:"elo_diff"`
}

// PredictMatch produces win/draw/loss probabilities from contextual
// ratings. The three outcomes sum to 1.
func (s *Store) PredictMatch(homeID, awayID, leagueID int64) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	home := s.contextualLocked(homeID, awayID, leagueID, true)
	away := s.contextualLocked(awayID, homeID, leagueID, false)
	diff := home - away

	pHome := 1.0 / (1.0 + math.Pow(10, -(diff+s.cfg.HomeFieldBonus)/400))
	draw := 0.26 + math.Max(0, 0.12-math.Abs(diff)/1000)

	return Outcome{
		HomeWin: pHome * (1 - draw),
		Draw:    draw,
		AwayWin: (1 - pHome) * (1 - draw),
		HomeElo: home,
		AwayElo: away,
		EloDiff: diff,
	}
}

// ExpectedScore is the classic Elo expectation for the first rating, with
// the home bonus applied when that side hosts.
func (s *Store) ExpectedScore(rating, opponent float64, isHome bool) float64 {
	diff := rating - opponent
	if isHome {
		diff += s.cfg.HomeFieldBonus
	}
	return 1.0 / (1.0 + math.Pow(10, -diff/400))
}

func (s *Store) clip(r float64) float64 {
	return math.Min(s.cfg.RatingCeiling, math.Max(s.cfg.RatingFloor, r))
}

// UpdateResult applies one finished match to both teams. importance scales
// K (0.9 friendly, 1.0 league, 1.2 knockout). Call in kickoff order.
func (s *Store) UpdateResult(homeID, awayID, leagueID int64, homeGoals, awayGoals int, importance float64, playedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	home := s.team(homeID, leagueID)
	away := s.team(awayID, leagueID)

	var homeScore float64
	switch {
	case homeGoals > awayGoals:
		homeScore = 1
	case homeGoals == awayGoals:
		homeScore = 0.5
	default:
		homeScore = 0
	}
	goalDiff := homeGoals - awayGoals

	// Margin-of-victory multiplier grows logarithmically with goal margin.
	mov := math.Log(math.Abs(float64(goalDiff))+1) + 1
	k := s.cfg.BaseK * importance * mov

	expHome := s.ExpectedScore(home.Overall, away.Overall, true)
	delta := k * (homeScore - expHome)

	hkHome := h2hKey{Team: homeID, Opponent: awayID}
	hkAway := h2hKey{Team: awayID, Opponent: homeID}
	if _, ok := s.h2h[hkHome]; !ok {
		s.h2h[hkHome] = home.Overall
		s.h2h[hkAway] = away.Overall
	}

	home.Overall = s.clip(home.Overall + delta)
	away.Overall = s.clip(away.Overall - delta)
	home.Home = s.clip(home.Home + delta)
	away.Away = s.clip(away.Away - delta)

	// Head-to-head ratings take the same match delta at a higher gear so
	// a few meetings register.
	h2hDelta := delta * s.cfg.H2HMultiplier
	s.h2h[hkHome] = s.clip(s.h2h[hkHome] + h2hDelta)
	s.h2h[hkAway] = s.clip(s.h2h[hkAway] - h2hDelta)

	s.pushForm(home, homeScore, playedAt)
	s.pushForm(away, 1-homeScore, playedAt)
	home.Matches++
	away.Matches++
	home.LastPlayed = playedAt
	away.LastPlayed = playedAt

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"home_team": homeID,
			"away_team": awayID,
			"delta":     delta,
			"k_factor":  k,
		}).Debug("Elo ratings updated")
	}
}

func (s *Store) pushForm(tr *TeamRating, score float64, playedAt time.Time) {
	tr.Recent = append(tr.Recent, formEntry{Score: score, PlayedAt: playedAt})
	if len(tr.Recent) > s.cfg.FormWindow {
		tr.Recent = tr.Recent[len(tr.Recent)-s.cfg.FormWindow:]
	}
}

// ApplyTimeRegression pulls a team toward its league mean after a long
// inactive spell, capped at MaxRegression of the gap.
func (s *Store) ApplyTimeRegression(teamID, leagueID int64, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tr := s.team(teamID, leagueID)
	if tr.LastPlayed.IsZero() {
		return
	}
	days := now.Sub(tr.LastPlayed).Hours() / 24
	if days <= float64(s.cfg.InactivityDays) {
		return
	}

	// 3% of the gap per month of inactivity, capped at 15%.
	mean := leagues.MeanRating(leagueID)
	fraction := math.Min(s.cfg.MaxRegression, s.cfg.RegressionFactor*days/30)

	tr.Overall += (mean - tr.Overall) * fraction
}

// snapshot is the serialised store layout.
type snapshot struct {
	Config Config                 `json:"config"`
	Teams  map[int64]*TeamRating  `json:"teams"`
	H2H    []h2hSnapshotEntry     `json:"h2h"`
}

type h2hSnapshotEntry struct {
	Team     int64   `json:"team"`
	Opponent int64   `json:"opponent"`
	Rating   float64 `json:"rating"`
}

// Save serialises the full rating state.
func (s *Store) Save() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot{Config: s.cfg, Teams: s.teams}
	for k, v := range s.h2h {
		snap.H2H = append(snap.H2H, h2hSnapshotEntry{Team: k.Team, Opponent: k.Opponent, Rating: v})
	}
	return json.Marshal(snap)
}

// Load replaces the store state with a previously saved snapshot.
func (s *Store) Load(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decoding rating snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.Teams != nil {
		s.teams = snap.Teams
	}
	s.h2h = make(map[h2hKey]float64, len(snap.H2H))
	for _, e := range snap.H2H {
		s.h2h[h2hKey{Team: e.Team, Opponent: e.Opponent}] = e.Rating
	}
	return nil
}

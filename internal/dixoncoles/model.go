// Package dixoncoles fits a bivariate-Poisson goal model with the
// Dixon-Coles low-score correction and derives goal-market probabilities
// from the resulting score matrix.
package dixoncoles

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitchside/internal/leagues"
	"github.com/yourusername/pitchside/internal/models"
)

// Config tunes the fit and prediction behaviour.
type Config struct {
	MaxGoals       int     `mapstructure:"max_goals" json:"max_goals" validate:"gte=5,lte=15"`
	MinMatches     int     `mapstructure:"min_matches" json:"min_matches"`
	MinTeamMatches int     `mapstructure:"min_team_matches" json:"min_team_matches"`
	MaxIterations  int     `mapstructure:"max_iterations" json:"max_iterations"`
	Tolerance      float64 `mapstructure:"tolerance" json:"tolerance"`
	TimeDecay      float64 `mapstructure:"time_decay" json:"time_decay"`
	LearningDamp   float64 `mapstructure:"learning_damp" json:"learning_damp"`
	ParamClip      float64 `mapstructure:"param_clip" json:"param_clip"`
	LambdaFloor    float64 `mapstructure:"lambda_floor" json:"lambda_floor"`
	LambdaCeiling  float64 `mapstructure:"lambda_ceiling" json:"lambda_ceiling"`
	RhoFloor       float64 `mapstructure:"rho_floor" json:"rho_floor"`

	// Cup adjustments.
	CupHomeAdvReduction float64 `mapstructure:"cup_home_adv_reduction" json:"cup_home_adv_reduction"`
	CupDrawBoost        float64 `mapstructure:"cup_draw_boost" json:"cup_draw_boost"`
	CupUpsetFactor      float64 `mapstructure:"cup_upset_factor" json:"cup_upset_factor"`
}

// DefaultConfig returns production tuning.
func DefaultConfig() Config {
	return Config{
		MaxGoals:            10,
		MinMatches:          10,
		MinTeamMatches:      5,
		MaxIterations:       15,
		Tolerance:           0.001,
		TimeDecay:           0.0065,
		LearningDamp:        0.5,
		ParamClip:           1.5,
		LambdaFloor:         0.1,
		LambdaCeiling:       5.0,
		RhoFloor:            -0.3,
		CupHomeAdvReduction: 0.35,
		CupDrawBoost:        0.12,
		CupUpsetFactor:      0.08,
	}
}

// Model holds fitted attack/defense parameters. Fit before predicting;
// reads are safe concurrently once fitted.
type Model struct {
	cfg    Config
	logger *logrus.Logger

	attack        map[int64]float64
	defense       map[int64]float64
	homeAdvantage float64
	avgGoals      float64
	rho           float64
	fitted        bool
	fittedAt      time.Time
}

// New returns an unfitted model.
func New(cfg Config, logger *logrus.Logger) *Model {
	return &Model{
		cfg:     cfg,
		logger:  logger,
		attack:  make(map[int64]float64),
		defense: make(map[int64]float64),
	}
}

// IsFitted reports whether Fit has completed.
func (m *Model) IsFitted() bool { return m.fitted }

// Rho returns the fitted low-score correlation parameter.
func (m *Model) Rho() float64 { return m.rho }

// Fit estimates parameters from finished fixtures, weighting recent
// matches more. Equivalent to FitAt with the current time.
func (m *Model) Fit(fixtures []*models.Fixture) error {
	return m.FitAt(fixtures, time.Now())
}

// FitAt estimates parameters as of a reference time. Fixtures after asOf
// or without a result are ignored.
func (m *Model) FitAt(fixtures []*models.Fixture, asOf time.Time) error {
	played := make([]*models.Fixture, 0, len(fixtures))
	for _, f := range fixtures {
		if f.IsFinished() && !f.KickoffTime.After(asOf) {
			played = append(played, f)
		}
	}
	if m.cfg.MinTeamMatches > 0 {
		appearances := make(map[int64]int)
		for _, f := range played {
			appearances[f.HomeTeamID]++
			appearances[f.AwayTeamID]++
		}
		kept := played[:0]
		for _, f := range played {
			if appearances[f.HomeTeamID] >= m.cfg.MinTeamMatches &&
				appearances[f.AwayTeamID] >= m.cfg.MinTeamMatches {
				kept = append(kept, f)
			}
		}
		played = kept
	}
	if len(played) < m.cfg.MinMatches {
		return fmt.Errorf("%w: %d finished fixtures, need %d",
			models.ErrInsufficientData, len(played), m.cfg.MinMatches)
	}

	var totalHome, totalAway float64
	teams := make(map[int64]bool)
	for _, f := range played {
		totalHome += float64(*f.HomeScore)
		totalAway += float64(*f.AwayScore)
		teams[f.HomeTeamID] = true
		teams[f.AwayTeamID] = true
	}
	n := float64(len(played))
	avgHome := totalHome / n
	avgAway := totalAway / n
	m.avgGoals = (totalHome + totalAway) / (2 * n)
	if m.avgGoals <= 0 {
		m.avgGoals = 1.3
	}

	if avgAway > 0 && avgHome > 0 {
		m.homeAdvantage = math.Log(avgHome/avgAway) / 2
	} else {
		m.homeAdvantage = leagues.HomeAdvantage(played[0].LeagueID)
	}

	m.attack = make(map[int64]float64, len(teams))
	m.defense = make(map[int64]float64, len(teams))
	for id := range teams {
		m.attack[id] = 0
		m.defense[id] = 0
	}

	type tally struct{ actual, expected float64 }
	iterations := 0
	for iter := 0; iter < m.cfg.MaxIterations; iter++ {
		scored := make(map[int64]*tally, len(teams))
		conceded := make(map[int64]*tally, len(teams))
		for id := range teams {
			scored[id] = &tally{}
			conceded[id] = &tally{}
		}

		for _, f := range played {
			days := asOf.Sub(f.KickoffTime).Hours() / 24
			if days < 0 {
				days = 0
			}
			w := math.Exp(-m.cfg.TimeDecay * days)

			expHome := m.avgGoals * math.Exp(m.homeAdvantage+m.attack[f.HomeTeamID]+m.defense[f.AwayTeamID])
			expAway := m.avgGoals * math.Exp(m.attack[f.AwayTeamID]+m.defense[f.HomeTeamID])

			scored[f.HomeTeamID].actual += w * float64(*f.HomeScore)
			scored[f.HomeTeamID].expected += w * expHome
			conceded[f.AwayTeamID].actual += w * float64(*f.HomeScore)
			conceded[f.AwayTeamID].expected += w * expHome

			scored[f.AwayTeamID].actual += w * float64(*f.AwayScore)
			scored[f.AwayTeamID].expected += w * expAway
			conceded[f.HomeTeamID].actual += w * float64(*f.AwayScore)
			conceded[f.HomeTeamID].expected += w * expAway
		}

		maxChange := 0.0
		for id := range teams {
			// Damped log-ratio update; the half-goal smoothing keeps
			// shutout teams finite.
			atk := m.attack[id] + m.cfg.LearningDamp*math.Log((scored[id].actual+0.5)/(scored[id].expected+0.5))
			def := m.defense[id] + m.cfg.LearningDamp*math.Log((conceded[id].actual+0.5)/(conceded[id].expected+0.5))
			atk = clamp(atk, -m.cfg.ParamClip, m.cfg.ParamClip)
			def = clamp(def, -m.cfg.ParamClip, m.cfg.ParamClip)

			maxChange = math.Max(maxChange, math.Abs(atk-m.attack[id]))
			maxChange = math.Max(maxChange, math.Abs(def-m.defense[id]))
			m.attack[id] = atk
			m.defense[id] = def
		}

		// Attack parameters are identifiable only up to a constant; keep
		// them mean zero.
		var meanAtk float64
		for _, a := range m.attack {
			meanAtk += a
		}
		meanAtk /= float64(len(m.attack))
		for id := range m.attack {
			m.attack[id] -= meanAtk
		}

		iterations = iter + 1
		if maxChange < m.cfg.Tolerance {
			break
		}
	}

	m.fitRho(played)
	m.fitted = true
	m.fittedAt = asOf

	if m.logger != nil {
		m.logger.WithFields(logrus.Fields{
			"fixtures":       len(played),
			"teams":          len(teams),
			"iterations":     iterations,
			"home_advantage": m.homeAdvantage,
			"rho":            m.rho,
		}).Info("Dixon-Coles fit complete")
	}
	return nil
}

// fitRho reads the low-score correlation from the fixtures with at most
// one goal per side: an excess of 0-0/1-1 over 1-0/0-1 drives rho
// negative.
func (m *Model) fitRho(played []*models.Fixture) {
	draws, decided := 0, 0
	for _, f := range played {
		h, a := *f.HomeScore, *f.AwayScore
		if h > 1 || a > 1 {
			continue
		}
		if h == a {
			draws++
		} else {
			decided++
		}
	}
	if decided == 0 {
		decided = 1
	}
	ratio := float64(draws) / float64(decided)
	m.rho = math.Max(m.cfg.RhoFloor, math.Min(0, -0.05*(ratio-1)))
}

// Params returns the fitted attack and defense value for a team.
func (m *Model) Params(teamID int64) (attack, defense float64, ok bool) {
	attack, ok = m.attack[teamID]
	if !ok {
		return 0, 0, false
	}
	return attack, m.defense[teamID], true
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

type savedModel struct {
	Config        Config            `json:"config"`
	Attack        map[int64]float64 `json:"attack"`
	Defense       map[int64]float64 `json:"defense"`
	HomeAdvantage float64           `json:"home_advantage"`
	AvgGoals      float64           `json:"avg_goals"`
	Rho           float64           `json:"rho"`
	FittedAt      time.Time         `json:"fitted_at"`
}

// Save serialises the fitted parameters.
func (m *Model) Save() ([]byte, error) {
	if !m.fitted {
		return nil, models.ErrNotFitted
	}
	return json.Marshal(savedModel{
		Config:        m.cfg,
		Attack:        m.attack,
		Defense:       m.defense,
		HomeAdvantage: m.homeAdvantage,
		AvgGoals:      m.avgGoals,
		Rho:           m.rho,
		FittedAt:      m.fittedAt,
	})
}

// Load restores previously saved parameters.
func (m *Model) Load(data []byte) error {
	var saved savedModel
	if err := json.Unmarshal(data, &saved); err != nil {
		return fmt.Errorf("decoding model snapshot: %w", err)
	}
	m.attack = saved.Attack
	m.defense = saved.Defense
	m.homeAdvantage = saved.HomeAdvantage
	m.avgGoals = saved.AvgGoals
	m.rho = saved.Rho
	m.fittedAt = saved.FittedAt
	m.fitted = true
	return nil
}

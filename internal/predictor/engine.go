// Package predictor orchestrates the goal model, rating system and
// secondary-market models into per-fixture predictions.
package predictor

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/yourusername/pitchside/internal/dixoncoles"
	"github.com/yourusername/pitchside/internal/kelly"
	"github.com/yourusername/pitchside/internal/leagues"
	"github.com/yourusername/pitchside/internal/markets"
	"github.com/yourusername/pitchside/internal/metrics"
	"github.com/yourusername/pitchside/internal/models"
	"github.com/yourusername/pitchside/internal/parlay"
	"github.com/yourusername/pitchside/internal/ratings"
	"github.com/yourusername/pitchside/internal/value"
)

// ModelConfig selects model variants and carries per-component tuning.
// Toggles exist so backtests can compare the legacy independent-Poisson
// and plain-Elo setup against the current one.
type ModelConfig struct {
	UseBivariatePoisson bool `mapstructure:"use_bivariate_poisson" json:"use_bivariate_poisson"`
	UseContextualElo    bool `mapstructure:"use_contextual_elo" json:"use_contextual_elo"`

	// Winner ensemble weights; must sum to 1.
	GoalModelWeight float64 `mapstructure:"goal_model_weight" json:"goal_model_weight"`
	EloWeight       float64 `mapstructure:"elo_weight" json:"elo_weight"`

	Elo        ratings.Config    `mapstructure:"elo" json:"elo"`
	DixonColes dixoncoles.Config `mapstructure:"dixon_coles" json:"dixon_coles"`
	Markets    markets.Config    `mapstructure:"markets" json:"markets"`
	Kelly      kelly.Config      `mapstructure:"kelly" json:"kelly"`
	Value      value.Config      `mapstructure:"value" json:"value"`
	Parlay     parlay.Config     `mapstructure:"parlay" json:"parlay"`
}

// DefaultModelConfig returns the current production model.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		UseBivariatePoisson: true,
		UseContextualElo:    true,
		GoalModelWeight:     0.6,
		EloWeight:           0.4,
		Elo:                 ratings.DefaultConfig(),
		DixonColes:          dixoncoles.DefaultConfig(),
		Markets:             markets.DefaultConfig(),
		Kelly:               kelly.DefaultConfig(),
		Value:               value.DefaultConfig(),
		Parlay:              parlay.DefaultConfig(),
	}
}

// LegacyModelConfig returns the pre-rework model: independent Poisson
// goals and venue-blind Elo. Kept for regression backtests.
func LegacyModelConfig() ModelConfig {
	cfg := DefaultModelConfig()
	cfg.UseBivariatePoisson = false
	cfg.UseContextualElo = false
	return cfg
}

// normalize maps the variant toggles onto component tuning.
func (c ModelConfig) normalize() ModelConfig {
	if !c.UseBivariatePoisson {
		// Forcing the rho floor to zero collapses tau to 1 everywhere.
		c.DixonColes.RhoFloor = 0
	}
	if !c.UseContextualElo {
		c.Elo.VenueWeight = 0
		c.Elo.FormWeight = 0
		c.Elo.H2HWeight = 0
		c.Elo.OverallWeight = 1.0
	}
	if c.GoalModelWeight+c.EloWeight <= 0 {
		c.GoalModelWeight, c.EloWeight = 0.6, 0.4
	}
	return c
}

const predictionCacheTTL = 10 * time.Minute

// Engine predicts fixtures. Fit it (or load saved state) before
// predicting. Predictions are safe to run concurrently; result updates
// must be applied chronologically from one goroutine.
type Engine struct {
	cfg ModelConfig

	elo     *ratings.Store
	goals   *dixoncoles.Model
	markets *markets.Predictor

	stats    map[int64]*models.TeamStats
	referees map[string]*models.RefereeProfile
	quality  map[int64]*models.TeamQualityProfile
	players  map[int64][]*models.PlayerStats
	derbies  map[[2]int64]bool

	cache   *gocache.Cache
	limiter *rate.Limiter
	logger  *logrus.Logger
}

// New builds an engine from a model config.
func New(cfg ModelConfig, logger *logrus.Logger) *Engine {
	cfg = cfg.normalize()
	return &Engine{
		cfg:      cfg,
		elo:      ratings.NewStore(cfg.Elo, logger),
		goals:    dixoncoles.New(cfg.DixonColes, logger),
		markets:  markets.New(cfg.Markets, logger),
		stats:    make(map[int64]*models.TeamStats),
		referees: make(map[string]*models.RefereeProfile),
		quality:  make(map[int64]*models.TeamQualityProfile),
		players:  make(map[int64][]*models.PlayerStats),
		derbies:  make(map[[2]int64]bool),
		cache:    gocache.New(predictionCacheTTL, 2*predictionCacheTTL),
		limiter:  rate.NewLimiter(rate.Inf, 1),
		logger:   logger,
	}
}

// Ratings exposes the Elo store for persistence.
func (e *Engine) Ratings() *ratings.Store { return e.elo }

// GoalModel exposes the fitted goal model for persistence.
func (e *Engine) GoalModel() *dixoncoles.Model { return e.goals }

// SetRateLimit paces batch prediction, for runs that fan out to shared
// downstream systems.
func (e *Engine) SetRateLimit(perSecond float64) {
	if perSecond <= 0 {
		e.limiter = rate.NewLimiter(rate.Inf, 1)
		return
	}
	e.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
}

// SetTeamStats registers season statistics for a team.
func (e *Engine) SetTeamStats(stats *models.TeamStats) {
	e.stats[stats.TeamID] = stats
}

// SetReferee registers a referee profile by name.
func (e *Engine) SetReferee(profile *models.RefereeProfile) {
	e.referees[profile.Name] = profile
}

// SetQualityProfile registers a squad quality profile.
func (e *Engine) SetQualityProfile(profile *models.TeamQualityProfile) {
	e.quality[profile.TeamID] = profile
}

// SetPlayers registers the players considered for prop markets.
func (e *Engine) SetPlayers(teamID int64, players []*models.PlayerStats) {
	e.players[teamID] = players
}

// RegisterDerby marks a pairing as a local rivalry.
func (e *Engine) RegisterDerby(teamA, teamB int64) {
	e.derbies[derbyKey(teamA, teamB)] = true
}

func derbyKey(a, b int64) [2]int64 {
	if a > b {
		a, b = b, a
	}
	return [2]int64{a, b}
}

func importanceFor(leagueID int64) (string, float64) {
	if leagues.IsCup(leagueID) {
		return markets.ImportanceHigh, 1.2
	}
	return markets.ImportanceNormal, 1.0
}

// Fit estimates all model parameters from finished fixtures: the goal
// model in one pass, then an in-order replay of results through the
// rating system.
func (e *Engine) Fit(fixtures []*models.Fixture) error {
	start := time.Now()

	sorted := make([]*models.Fixture, len(fixtures))
	copy(sorted, fixtures)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].KickoffTime.Before(sorted[j].KickoffTime)
	})

	if err := e.goals.Fit(sorted); err != nil {
		return fmt.Errorf("fitting goal model: %w", err)
	}

	for _, f := range sorted {
		if !f.IsFinished() {
			continue
		}
		e.ApplyResult(f)
	}

	metrics.RecordModelFit(time.Since(start).Seconds())
	metrics.ModelDrawRho.Set(e.goals.Rho())

	if e.logger != nil {
		e.logger.WithFields(logrus.Fields{
			"fixtures": len(sorted),
			"duration": time.Since(start).String(),
		}).Info("engine fit complete")
	}
	return nil
}

// ApplyResult feeds one finished fixture into the rating system. Call in
// kickoff order.
func (e *Engine) ApplyResult(f *models.Fixture) {
	if !f.IsFinished() {
		return
	}
	_, importance := importanceFor(f.LeagueID)
	e.elo.ApplyTimeRegression(f.HomeTeamID, f.LeagueID, f.KickoffTime)
	e.elo.ApplyTimeRegression(f.AwayTeamID, f.LeagueID, f.KickoffTime)
	e.elo.UpdateResult(f.HomeTeamID, f.AwayTeamID, f.LeagueID,
		*f.HomeScore, *f.AwayScore, importance, f.KickoffTime)
}

// PredictFixture produces predictions for every supported market of one
// fixture.
func (e *Engine) PredictFixture(f *models.Fixture) ([]*models.Prediction, error) {
	if f == nil {
		return nil, models.ErrInvalidInput
	}
	cacheKey := fmt.Sprintf("fixture:%d", f.ID)
	if cached, ok := e.cache.Get(cacheKey); ok {
		return cached.([]*models.Prediction), nil
	}

	goalPred, err := e.goals.PredictMatch(f.HomeTeamID, f.AwayTeamID, f.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("goal model prediction for fixture %d: %w", f.ID, err)
	}
	eloPred := e.elo.PredictMatch(f.HomeTeamID, f.AwayTeamID, f.LeagueID)

	importance, _ := importanceFor(f.LeagueID)
	req := &markets.Request{
		Fixture:     f,
		HomeStats:   e.stats[f.HomeTeamID],
		AwayStats:   e.stats[f.AwayTeamID],
		Referee:     e.referees[f.Referee],
		Goals:       goalPred,
		HomeQuality: e.quality[f.HomeTeamID],
		AwayQuality: e.quality[f.AwayTeamID],
		HomePlayers: e.players[f.HomeTeamID],
		AwayPlayers: e.players[f.AwayTeamID],
		IsDerby:     e.derbies[derbyKey(f.HomeTeamID, f.AwayTeamID)],
		Importance:  importance,
	}
	secondary, err := e.markets.PredictAll(req)
	if err != nil {
		return nil, fmt.Errorf("secondary markets for fixture %d: %w", f.ID, err)
	}

	preds := e.assemble(f, goalPred, eloPred, secondary)
	for _, p := range preds {
		metrics.RecordPrediction(p.MarketKey)
	}
	e.cache.Set(cacheKey, preds, gocache.DefaultExpiration)
	return preds, nil
}

// BatchPredict fans fixtures out across workers. Per-fixture failures
// are logged and skipped rather than failing the batch.
func (e *Engine) BatchPredict(ctx context.Context, fixtures []*models.Fixture) ([]*models.Prediction, error) {
	results := make([][]*models.Prediction, len(fixtures))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, f := range fixtures {
		if f == nil {
			continue
		}
		g.Go(func() error {
			if err := e.limiter.Wait(ctx); err != nil {
				return err
			}
			preds, err := e.PredictFixture(f)
			if err != nil {
				metrics.RecordPredictionFailure()
				if e.logger != nil {
					e.logger.WithFields(logrus.Fields{
						"fixture_id": f.ID,
						"error":      err.Error(),
					}).Warn("skipping fixture")
				}
				return nil
			}
			results[i] = preds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var flat []*models.Prediction
	for _, preds := range results {
		flat = append(flat, preds...)
	}
	return flat, nil
}

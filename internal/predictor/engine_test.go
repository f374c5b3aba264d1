package predictor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitchside/internal/leagues"
	"github.com/yourusername/pitchside/internal/models"
)

func ip(v int) *int { return &v }

// trainingFixtures builds a small deterministic history for four teams.
// Team 1 dominates, team 4 struggles, 2 and 3 trade results.
func trainingFixtures() []*models.Fixture {
	results := []struct {
		home, away int64
		hg, ag     int
	}{
		{1, 2, 2, 0}, {1, 3, 3, 1}, {1, 4, 4, 0},
		{2, 1, 0, 1}, {3, 1, 0, 2}, {4, 1, 0, 3},
		{2, 3, 1, 1}, {3, 2, 2, 1}, {2, 4, 2, 0},
		{4, 2, 1, 1}, {3, 4, 2, 0}, {4, 3, 0, 1},
		{1, 2, 1, 0}, {3, 4, 3, 1}, {2, 4, 2, 1}, {1, 3, 2, 0},
	}

	kick := time.Date(2024, 9, 1, 15, 0, 0, 0, time.UTC)
	fixtures := make([]*models.Fixture, 0, len(results))
	for i, r := range results {
		fixtures = append(fixtures, &models.Fixture{
			ID:          int64(i + 1),
			LeagueID:    leagues.PremierLeague,
			HomeTeamID:  r.home,
			AwayTeamID:  r.away,
			KickoffTime: kick.Add(time.Duration(i) * 4 * 24 * time.Hour),
			Status:      models.StatusFinished,
			HomeScore:   ip(r.hg),
			AwayScore:   ip(r.ag),
		})
	}
	return fixtures
}

func upcomingFixture(id, home, away int64) *models.Fixture {
	return &models.Fixture{
		ID:          id,
		LeagueID:    leagues.PremierLeague,
		HomeTeamID:  home,
		AwayTeamID:  away,
		KickoffTime: time.Date(2024, 12, 1, 15, 0, 0, 0, time.UTC),
		Status:      models.StatusScheduled,
	}
}

func fittedEngine(t *testing.T, cfg ModelConfig) *Engine {
	t.Helper()
	e := New(cfg, nil)
	require.NoError(t, e.Fit(trainingFixtures()))
	return e
}

func TestPredictFixtureCoversAllMarkets(t *testing.T) {
	e := fittedEngine(t, DefaultModelConfig())

	preds, err := e.PredictFixture(upcomingFixture(100, 1, 4))
	require.NoError(t, err)

	byMarket := make(map[string]*models.Prediction, len(preds))
	for _, p := range preds {
		byMarket[p.MarketKey] = p
	}

	for _, market := range []string{
		models.MarketMatchWinner,
		models.MarketOverUnder15,
		models.MarketOverUnder25,
		models.MarketOverUnder35,
		models.MarketBTTS,
		models.MarketCorners,
		models.MarketCards,
		models.MarketShots,
		models.MarketShotsOnTarget,
		models.MarketOffsides,
		models.MarketHalfTime,
		models.MarketExactScore,
	} {
		require.Contains(t, byMarket, market)
	}

	for market, p := range byMarket {
		total := 0.0
		for _, prob := range p.Outcomes {
			assert.GreaterOrEqual(t, prob, 0.0, market)
			total += prob
		}
		assert.InDelta(t, 1.0, total, 1e-6, "outcomes of %s must sum to 1", market)
		assert.GreaterOrEqual(t, p.Confidence, 0.0, market)
		assert.LessOrEqual(t, p.Confidence, 1.0, market)
		assert.NotEqual(t, "", p.ID.String(), market)
		assert.Equal(t, int64(100), p.FixtureID, market)
	}
}

func TestPredictFixtureFavoursDominantTeam(t *testing.T) {
	e := fittedEngine(t, DefaultModelConfig())

	preds, err := e.PredictFixture(upcomingFixture(101, 1, 4))
	require.NoError(t, err)

	var winner *models.Prediction
	for _, p := range preds {
		if p.MarketKey == models.MarketMatchWinner {
			winner = p
		}
	}
	require.NotNil(t, winner)

	outcome, prob := winner.MostLikelyOutcome()
	assert.Equal(t, "home", outcome)
	assert.Greater(t, prob, winner.Outcomes["away"])
	require.NotNil(t, winner.Features)
	require.NotNil(t, winner.Features.Goals)
	require.NotNil(t, winner.Features.Elo)
	assert.Greater(t, winner.Features.Elo.EloDiff, 0.0)
}

func TestPredictFixtureUsesCache(t *testing.T) {
	e := fittedEngine(t, DefaultModelConfig())
	f := upcomingFixture(102, 2, 3)

	first, err := e.PredictFixture(f)
	require.NoError(t, err)
	second, err := e.PredictFixture(f)
	require.NoError(t, err)

	// Identical slice back, not a recomputation.
	require.Len(t, second, len(first))
	for i := range first {
		assert.Same(t, first[i], second[i])
	}
}

func TestPredictFixtureErrors(t *testing.T) {
	unfitted := New(DefaultModelConfig(), nil)

	_, err := unfitted.PredictFixture(nil)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = unfitted.PredictFixture(upcomingFixture(103, 1, 2))
	assert.ErrorIs(t, err, models.ErrNotFitted)
}

func TestLegacyAndCurrentConfigsDiffer(t *testing.T) {
	current := fittedEngine(t, DefaultModelConfig())
	legacy := fittedEngine(t, LegacyModelConfig())

	// The legacy variant runs independent Poisson goals.
	assert.Zero(t, legacy.GoalModel().Rho())

	f := upcomingFixture(104, 1, 4)
	currentPreds, err := current.PredictFixture(f)
	require.NoError(t, err)
	legacyPreds, err := legacy.PredictFixture(f)
	require.NoError(t, err)
	require.Equal(t, len(currentPreds), len(legacyPreds))
}

func TestBatchPredict(t *testing.T) {
	e := fittedEngine(t, DefaultModelConfig())

	fixtures := []*models.Fixture{
		upcomingFixture(200, 1, 2),
		upcomingFixture(201, 3, 4),
		nil, // failures are skipped, not fatal
		upcomingFixture(202, 2, 4),
	}

	preds, err := e.BatchPredict(context.Background(), fixtures)
	require.NoError(t, err)

	seen := make(map[int64]bool)
	for _, p := range preds {
		seen[p.FixtureID] = true
	}
	assert.True(t, seen[200] && seen[201] && seen[202])
}

func TestBatchPredictHonoursContext(t *testing.T) {
	e := fittedEngine(t, DefaultModelConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.BatchPredict(ctx, []*models.Fixture{upcomingFixture(300, 1, 2)})
	assert.Error(t, err)
}

func TestApplyResultMovesRatings(t *testing.T) {
	e := fittedEngine(t, DefaultModelConfig())

	before := e.Ratings().PredictMatch(1, 4, leagues.PremierLeague)
	// Shock result: the whipping boy beats the champion away.
	e.ApplyResult(&models.Fixture{
		ID:          400,
		LeagueID:    leagues.PremierLeague,
		HomeTeamID:  1,
		AwayTeamID:  4,
		KickoffTime: time.Date(2024, 12, 8, 15, 0, 0, 0, time.UTC),
		Status:      models.StatusFinished,
		HomeScore:   ip(0),
		AwayScore:   ip(3),
	})
	after := e.Ratings().PredictMatch(1, 4, leagues.PremierLeague)

	assert.Less(t, after.HomeWin, before.HomeWin)
	assert.Greater(t, after.AwayWin, before.AwayWin)
}

func TestImportanceFor(t *testing.T) {
	label, factor := importanceFor(leagues.ChampionsLeague)
	assert.Equal(t, "high", label)
	assert.Greater(t, factor, 1.0)

	label, factor = importanceFor(leagues.PremierLeague)
	assert.Equal(t, "normal", label)
	assert.Equal(t, 1.0, factor)
}

func TestNormalizeCollapsesLegacyToggles(t *testing.T) {
	cfg := LegacyModelConfig().normalize()
	assert.Zero(t, cfg.DixonColes.RhoFloor)
	assert.Zero(t, cfg.Elo.VenueWeight)
	assert.Zero(t, cfg.Elo.FormWeight)
	assert.Zero(t, cfg.Elo.H2HWeight)
	assert.Equal(t, 1.0, cfg.Elo.OverallWeight)

	current := DefaultModelConfig().normalize()
	assert.Less(t, current.DixonColes.RhoFloor, 0.0)
	assert.Greater(t, current.Elo.VenueWeight, 0.0)
}

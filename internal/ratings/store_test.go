package ratings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitchside/internal/leagues"
)

var kickoff = time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)

func newTestStore() *Store {
	return NewStore(DefaultConfig(), nil)
}

func TestDefaultSeedingUsesLeagueTier(t *testing.T) {
	s := newTestStore()
	assert.Equal(t, 1600.0, s.Rating(9001, leagues.PremierLeague))
	assert.Equal(t, 1400.0, s.Rating(9002, 9999))
}

func TestEliteSquadBonusApplied(t *testing.T) {
	s := newTestStore()
	// Manchester City carries a cold-start bonus on top of the league tier.
	assert.Equal(t, 1720.0, s.Rating(50, leagues.PremierLeague))
}

func TestPredictMatchProbabilitiesSumToOne(t *testing.T) {
	s := newTestStore()
	out := s.PredictMatch(101, 102, leagues.PremierLeague)
	assert.InDelta(t, 1.0, out.HomeWin+out.Draw+out.AwayWin, 1e-9)
	assert.Greater(t, out.HomeWin, 0.0)
	assert.Greater(t, out.Draw, 0.0)
	assert.Greater(t, out.AwayWin, 0.0)
}

func TestHomeEdgeWithEqualRatings(t *testing.T) {
	s := newTestStore()
	out := s.PredictMatch(101, 102, leagues.PremierLeague)
	assert.Greater(t, out.HomeWin, out.AwayWin, "home bonus should tilt equal teams")
}

func TestUpdateResultZeroSum(t *testing.T) {
	s := newTestStore()
	before := s.Rating(101, leagues.PremierLeague) + s.Rating(102, leagues.PremierLeague)

	s.UpdateResult(101, 102, leagues.PremierLeague, 3, 0, 1.0, kickoff)

	after := s.Rating(101, leagues.PremierLeague) + s.Rating(102, leagues.PremierLeague)
	assert.InDelta(t, before, after, 1e-9, "overall ratings are zero-sum away from the clip bounds")
}

func TestWinnerGainsLoserDrops(t *testing.T) {
	s := newTestStore()
	h0 := s.Rating(101, leagues.PremierLeague)
	a0 := s.Rating(102, leagues.PremierLeague)

	s.UpdateResult(101, 102, leagues.PremierLeague, 2, 0, 1.0, kickoff)

	assert.Greater(t, s.Rating(101, leagues.PremierLeague), h0)
	assert.Less(t, s.Rating(102, leagues.PremierLeague), a0)
}

func TestMarginOfVictoryScalesUpdate(t *testing.T) {
	narrow := newTestStore()
	narrow.UpdateResult(101, 102, leagues.PremierLeague, 1, 0, 1.0, kickoff)
	narrowGain := narrow.Rating(101, leagues.PremierLeague) - 1600

	blowout := newTestStore()
	blowout.UpdateResult(101, 102, leagues.PremierLeague, 5, 0, 1.0, kickoff)
	blowoutGain := blowout.Rating(101, leagues.PremierLeague) - 1600

	assert.Greater(t, blowoutGain, narrowGain)
}

func TestRatingsStayWithinBounds(t *testing.T) {
	s := newTestStore()
	for i := 0; i < 200; i++ {
		s.UpdateResult(101, 102, leagues.PremierLeague, 5, 0, 1.2, kickoff.Add(time.Duration(i)*24*time.Hour))
	}
	assert.LessOrEqual(t, s.Rating(101, leagues.PremierLeague), 2000.0)
	assert.GreaterOrEqual(t, s.Rating(102, leagues.PremierLeague), 1200.0)
}

func TestRecentFormLiftsContextualRating(t *testing.T) {
	s := newTestStore()
	// Five straight wins for 101 against varied opponents.
	for i, opp := range []int64{201, 202, 203, 204, 205} {
		s.UpdateResult(101, opp, leagues.PremierLeague, 2, 0, 1.0, kickoff.Add(time.Duration(i)*7*24*time.Hour))
	}

	inForm := s.ContextualRating(101, 999, leagues.PremierLeague, true)
	assert.Greater(t, inForm, s.Rating(101, leagues.PremierLeague),
		"contextual rating should sit above overall after a winning streak")
}

func TestHeadToHeadShiftsPrediction(t *testing.T) {
	s := newTestStore()
	// 102 repeatedly beats 101 despite identical league seeds.
	for i := 0; i < 5; i++ {
		s.UpdateResult(101, 102, leagues.PremierLeague, 0, 2, 1.0, kickoff.Add(time.Duration(i)*30*24*time.Hour))
	}

	out := s.PredictMatch(101, 102, leagues.PremierLeague)
	assert.Greater(t, out.AwayWin, out.HomeWin, "H2H record should overcome the home bonus")
}

func TestHeadToHeadUsesScaledMatchDelta(t *testing.T) {
	s := newTestStore()
	s.UpdateResult(101, 102, leagues.PremierLeague, 2, 0, 1.0, kickoff)

	overallGain := s.Rating(101, leagues.PremierLeague) - 1600
	require.Greater(t, overallGain, 0.0)

	homeH2H := s.h2h[h2hKey{Team: 101, Opponent: 102}]
	awayH2H := s.h2h[h2hKey{Team: 102, Opponent: 101}]
	assert.InDelta(t, 1600+1.5*overallGain, homeH2H, 1e-9,
		"head-to-head moves at 1.5x the match delta")
	assert.InDelta(t, 1600-1.5*overallGain, awayH2H, 1e-9)
}

func TestTimeRegressionPullsTowardLeagueMean(t *testing.T) {
	s := newTestStore()
	s.UpdateResult(101, 102, leagues.PremierLeague, 4, 0, 1.2, kickoff)
	inflated := s.Rating(101, leagues.PremierLeague)
	require.Greater(t, inflated, 1600.0)

	s.ApplyTimeRegression(101, leagues.PremierLeague, kickoff.Add(120*24*time.Hour))
	regressed := s.Rating(101, leagues.PremierLeague)

	assert.Less(t, regressed, inflated)
	assert.Greater(t, regressed, 1600.0, "regression never overshoots the mean")

	// 120 days is four months at 3% per month.
	assert.InDelta(t, inflated+(1600-inflated)*0.12, regressed, 1e-9)
}

func TestTimeRegressionCapsAtMaxFraction(t *testing.T) {
	s := newTestStore()
	s.UpdateResult(101, 102, leagues.PremierLeague, 4, 0, 1.2, kickoff)
	inflated := s.Rating(101, leagues.PremierLeague)

	// Ten months inactive would be 30%, capped at 15%.
	s.ApplyTimeRegression(101, leagues.PremierLeague, kickoff.Add(300*24*time.Hour))
	regressed := s.Rating(101, leagues.PremierLeague)
	assert.InDelta(t, inflated+(1600-inflated)*0.15, regressed, 1e-9)
}

func TestTimeRegressionSkipsActiveTeams(t *testing.T) {
	s := newTestStore()
	s.UpdateResult(101, 102, leagues.PremierLeague, 2, 0, 1.0, kickoff)
	before := s.Rating(101, leagues.PremierLeague)

	s.ApplyTimeRegression(101, leagues.PremierLeague, kickoff.Add(10*24*time.Hour))
	assert.Equal(t, before, s.Rating(101, leagues.PremierLeague))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore()
	s.UpdateResult(101, 102, leagues.PremierLeague, 2, 1, 1.0, kickoff)
	s.UpdateResult(102, 101, leagues.PremierLeague, 1, 1, 1.0, kickoff.Add(14*24*time.Hour))

	data, err := s.Save()
	require.NoError(t, err)

	restored := newTestStore()
	require.NoError(t, restored.Load(data))

	assert.Equal(t, s.Rating(101, leagues.PremierLeague), restored.Rating(101, leagues.PremierLeague))
	assert.Equal(t, s.Rating(102, leagues.PremierLeague), restored.Rating(102, leagues.PremierLeague))

	orig := s.PredictMatch(101, 102, leagues.PremierLeague)
	loaded := restored.PredictMatch(101, 102, leagues.PremierLeague)
	assert.InDelta(t, orig.HomeWin, loaded.HomeWin, 1e-9)
	assert.InDelta(t, orig.Draw, loaded.Draw, 1e-9)
}

func TestLoadRejectsGarbage(t *testing.T) {
	s := newTestStore()
	assert.Error(t, s.Load([]byte("{not json")))
}

package markets

import (
	"github.com/yourusername/pitchside/internal/dist"
	"github.com/yourusername/pitchside/internal/models"
)

// predictOffsides models per-team offside counts as a multiplicative
// composite: match tempo, the opponent's defensive line height and how
// much of the ball the opponent keeps. Thin samples shrink toward the
// league average.
func (p *Predictor) predictOffsides(req *Request) (*Count, *models.OffsidesFeatures) {
	hs, as := req.HomeStats, req.AwayStats

	homeExp, homeW := p.offsidesForTeam(hs, as, true)
	awayExp, _ := p.offsidesForTeam(as, hs, false)

	total := homeExp + awayExp
	lines := make(map[string]float64, 3)
	for _, line := range []float64{3.5, 4.5, 5.5} {
		lines[lineLabel(line)] = dist.OverProbPoisson(line, total)
	}

	count := &Count{
		HomeExpected:  homeExp,
		AwayExpected:  awayExp,
		TotalExpected: total,
		Lines:         lines,
	}
	features := &models.OffsidesFeatures{
		HomeExpected:    homeExp,
		AwayExpected:    awayExp,
		ShrinkageWeight: homeW,
	}
	return count, features
}

func (p *Predictor) offsidesForTeam(team, opponent *models.TeamStats, isHome bool) (float64, float64) {
	expected := team.OffsidesAvg

	// Faster, higher-scoring games produce more through balls.
	tempo := 0.8 + (team.GoalsScoredAvg+opponent.GoalsScoredAvg)/2/1.5*0.4
	expected *= tempo

	// Opponents who concede a lot tend to defend deeper; high lines
	// belong to stingy sides.
	defLine := 1 + (opponent.GoalsConcededAvg-1.2)*0.15
	expected *= defLine

	// Possession-dominant opponents leave fewer counter chances to run
	// offside against. Clean-sheet rate proxies control.
	possession := 1.2 - opponent.CleanSheetRate*0.4
	expected *= possession

	if isHome {
		expected *= p.cfg.OffsideHomeBoost
	}

	// Bayesian shrinkage toward the league mean for thin samples.
	w := float64(team.MatchesPlayed) / float64(p.cfg.ShrinkageMatches)
	if w > 1 {
		w = 1
	}
	expected = w*expected + (1-w)*p.cfg.LeagueAvgOffsides

	return dist.Clamp(expected, 0.5, 5), w
}

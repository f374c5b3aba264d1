package markets

import (
	"github.com/yourusername/pitchside/internal/dist"
	"github.com/yourusername/pitchside/internal/models"
)

// predictShots models shot counts, optionally restricted to shots on
// target. Leaky opponents inflate a side's volume; squad quality adds
// on top.
func (p *Predictor) predictShots(req *Request, quality qualityAdjustments, onTarget bool) (*Count, *models.ShotsFeatures) {
	hs, as := req.HomeStats, req.AwayStats

	homeBase, awayBase := hs.ShotsAvg, as.ShotsAvg
	if onTarget {
		homeBase, awayBase = hs.ShotsOnTargetAvg, as.ShotsOnTargetAvg
	}

	homeLeak := opponentLeak(as.GoalsConcededAvg, p.cfg.LeagueAvgGoals)
	awayLeak := opponentLeak(hs.GoalsConcededAvg, p.cfg.LeagueAvgGoals)

	homeExp := homeBase * p.cfg.ShotsHomeBoost * homeLeak
	awayExp := awayBase * awayLeak

	if onTarget {
		homeExp += quality.homeSOT
		awayExp += quality.awaySOT
	} else {
		homeExp += quality.homeShots
		awayExp += quality.awayShots
	}

	if onTarget {
		homeExp = dist.Clamp(homeExp, 1.5, 10)
		awayExp = dist.Clamp(awayExp, 1.5, 10)
	} else {
		homeExp = dist.Clamp(homeExp, 5, 25)
		awayExp = dist.Clamp(awayExp, 5, 25)
	}
	total := homeExp + awayExp

	var targetLines []float64
	if onTarget {
		targetLines = []float64{6.5, 7.5, 8.5, 9.5}
	} else {
		targetLines = []float64{20.5, 22.5, 24.5, 26.5}
	}
	lines := make(map[string]float64, len(targetLines))
	for _, line := range targetLines {
		lines[lineLabel(line)] = dist.OverProbPoisson(line, total)
	}

	count := &Count{
		HomeExpected:  homeExp,
		AwayExpected:  awayExp,
		TotalExpected: total,
		Lines:         lines,
	}
	features := &models.ShotsFeatures{
		HomeExpected: homeExp,
		AwayExpected: awayExp,
		OnTarget:     onTarget,
	}
	return count, features
}

// opponentLeak scales volume by how much more than league average the
// opponent concedes.
func opponentLeak(concededAvg, leagueAvg float64) float64 {
	if leagueAvg <= 0 {
		return 1
	}
	return dist.Clamp(concededAvg/leagueAvg, 0.75, 1.3)
}

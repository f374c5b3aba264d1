package markets

import (
	"github.com/yourusername/pitchside/internal/dist"
	"github.com/yourusername/pitchside/internal/models"
)

// predictCorners models team corner counts with a negative binomial.
// Corner counts are overdispersed relative to Poisson, so the tails need
// the extra variance.
func (p *Predictor) predictCorners(req *Request, quality qualityAdjustments) (*Count, *models.CornersFeatures) {
	hs, as := req.HomeStats, req.AwayStats

	// A team's corners come from its own attacking output and what the
	// opponent tends to concede.
	homeExp := (hs.CornersForAvg + as.CornersAgainstAvg) / 2 * p.cfg.CornerHomeBoost
	awayExp := (as.CornersForAvg + hs.CornersAgainstAvg) / 2

	homeExp += quality.homeCorners
	awayExp += quality.awayCorners

	homeExp = dist.Clamp(homeExp, 2, 9)
	awayExp = dist.Clamp(awayExp, 2, 9)
	total := homeExp + awayExp

	lines := make(map[string]float64, 4)
	for _, line := range []float64{7.5, 8.5, 9.5, 10.5} {
		lines[lineLabel(line)] = dist.OverProbNegBinom(line, total, p.cfg.CornerDispersion)
	}

	count := &Count{
		HomeExpected:  homeExp,
		AwayExpected:  awayExp,
		TotalExpected: total,
		Lines:         lines,
	}
	features := &models.CornersFeatures{
		HomeExpected: homeExp,
		AwayExpected: awayExp,
		Dispersion:   p.cfg.CornerDispersion,
	}
	return count, features
}

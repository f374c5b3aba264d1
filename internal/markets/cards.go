package markets

import (
	"github.com/yourusername/pitchside/internal/dist"
	"github.com/yourusername/pitchside/internal/models"
)

// predictCards models total bookings from the referee profile, team
// aggression, derby status and match importance.
func (p *Predictor) predictCards(req *Request, quality qualityAdjustments) (*Count, *models.CardsFeatures) {
	ref := req.Referee
	hs, as := req.HomeStats, req.AwayStats

	expected := ref.AvgYellowPerGame

	// A strict official inflates an average game's count by up to 30%.
	strictness := 0.7 + 0.6*ref.Strictness
	expected *= strictness

	// Aggressive teams draw cards regardless of the official.
	teamFactor := (hs.CardsAvg + as.CardsAvg) / (2 * p.cfg.LeagueAvgCards)
	expected *= teamFactor

	derbyFactor := 1.0
	if req.IsDerby {
		derbyFactor = p.cfg.DerbyCardFactor
	}
	expected *= derbyFactor
	expected *= req.importanceFactor()
	expected += quality.cards

	expected = dist.Clamp(expected, 1.5, 8)

	// Away sides pick up the larger share, amplified by referee bias.
	awayShare := dist.Clamp(0.55*ref.HomeBias, 0.35, 0.75)
	awayExp := expected * awayShare
	homeExp := expected - awayExp

	lines := make(map[string]float64, 4)
	for _, line := range []float64{2.5, 3.5, 4.5, 5.5} {
		lines[lineLabel(line)] = dist.OverProbPoisson(line, expected)
	}

	count := &Count{
		HomeExpected:  homeExp,
		AwayExpected:  awayExp,
		TotalExpected: expected,
		Lines:         lines,
	}
	features := &models.CardsFeatures{
		ExpectedCards:     expected,
		RefereeStrictness: ref.Strictness,
		DerbyFactor:       derbyFactor,
		PhysicalMismatch:  quality.physicalMismatch,
	}
	return count, features
}

package dixoncoles

import (
	"math"

	"github.com/yourusername/pitchside/internal/dist"
	"github.com/yourusername/pitchside/internal/leagues"
	"github.com/yourusername/pitchside/internal/models"
)

// Line holds over/under probabilities for one goal line.
type Line struct {
	Over  float64 `json:"over"`
	Under float64 `json:"under"`
}

// Score is one exact scoreline with its probability.
type Score struct {
	Home        int     `json:"home"`
	Away        int     `json:"away"`
	Probability float64 `json:"probability"`
}

// MatchPrediction bundles every goal-derived market for one fixture.
type MatchPrediction struct {
	HomeWin float64 `json:"home_win"`
	Draw    float64 `json:"draw"`
	AwayWin float64 `json:"away_win"`

	OverUnder map[string]Line `json:"over_under"`
	BTTSYes   float64         `json:"btts_yes"`
	BTTSNo    float64         `json:"btts_no"`

	HomeXG float64 `json:"home_xg"`
	AwayXG float64 `json:"away_xg"`

	MostLikelyScore Score   `json:"most_likely_score"`
	TopScores       []Score `json:"top_scores"`

	Rho   float64 `json:"rho"`
	IsCup bool    `json:"is_cup"`
}

// expectedGoalsFor computes the Poisson means for a pairing. Unknown teams
// fall back to neutral parameters.
func (m *Model) expectedGoalsFor(homeID, awayID int64, reduceHomeAdv bool) (lambda, mu float64) {
	ha := m.homeAdvantage
	if reduceHomeAdv {
		ha *= 1 - m.cfg.CupHomeAdvReduction
	}
	lambda = math.Exp(ha + m.attack[homeID] + m.defense[awayID])
	mu = math.Exp(m.attack[awayID] + m.defense[homeID])
	lambda = clamp(lambda, m.cfg.LambdaFloor, m.cfg.LambdaCeiling)
	mu = clamp(mu, m.cfg.LambdaFloor, m.cfg.LambdaCeiling)
	return lambda, mu
}

// ExpectedGoals returns the modelled goal means for a league fixture.
func (m *Model) ExpectedGoals(homeID, awayID int64) (lambda, mu float64, err error) {
	if !m.fitted {
		return 0, 0, models.ErrNotFitted
	}
	lambda, mu = m.expectedGoalsFor(homeID, awayID, false)
	return lambda, mu, nil
}

// tau is the Dixon-Coles low-score adjustment factor.
func (m *Model) tau(home, away int, lambda, mu float64) float64 {
	switch {
	case home == 0 && away == 0:
		return 1 - lambda*mu*m.rho
	case home == 0 && away == 1:
		return 1 + lambda*m.rho
	case home == 1 && away == 0:
		return 1 + mu*m.rho
	case home == 1 && away == 1:
		return 1 - m.rho
	default:
		return 1
	}
}

// ScoreMatrix builds the normalised joint score distribution up to
// MaxGoals per side. Cell [h][a] is P(home scores h, away scores a).
func (m *Model) ScoreMatrix(homeID, awayID int64) ([][]float64, error) {
	if !m.fitted {
		return nil, models.ErrNotFitted
	}
	lambda, mu := m.expectedGoalsFor(homeID, awayID, false)
	return m.scoreMatrixFor(lambda, mu), nil
}

func (m *Model) scoreMatrixFor(lambda, mu float64) [][]float64 {
	size := m.cfg.MaxGoals + 1
	matrix := make([][]float64, size)
	total := 0.0
	for h := 0; h < size; h++ {
		matrix[h] = make([]float64, size)
		for a := 0; a < size; a++ {
			p := dist.PoissonPMF(h, lambda) * dist.PoissonPMF(a, mu) * m.tau(h, a, lambda, mu)
			if p < 0 {
				p = 0
			}
			matrix[h][a] = p
			total += p
		}
	}
	// Truncation and tau both disturb the mass; renormalise.
	if total > 0 {
		for h := range matrix {
			for a := range matrix[h] {
				matrix[h][a] /= total
			}
		}
	}
	return matrix
}

// PredictMatch derives all goal markets for a fixture. Cup competitions
// get a reduced home advantage, a draw boost and an upset bump for
// heavily favoured home sides.
func (m *Model) PredictMatch(homeID, awayID, leagueID int64) (*MatchPrediction, error) {
	if !m.fitted {
		return nil, models.ErrNotFitted
	}

	isCup := leagues.IsCup(leagueID)
	lambda, mu := m.expectedGoalsFor(homeID, awayID, isCup)
	matrix := m.scoreMatrixFor(lambda, mu)

	pred := &MatchPrediction{
		OverUnder: make(map[string]Line, 3),
		HomeXG:    lambda,
		AwayXG:    mu,
		Rho:       m.rho,
		IsCup:     isCup,
	}

	var bttsYes float64
	for h := range matrix {
		for a := range matrix[h] {
			p := matrix[h][a]
			switch {
			case h > a:
				pred.HomeWin += p
			case h == a:
				pred.Draw += p
			default:
				pred.AwayWin += p
			}
			if h > 0 && a > 0 {
				bttsYes += p
			}
			if p > pred.MostLikelyScore.Probability {
				pred.MostLikelyScore = Score{Home: h, Away: a, Probability: p}
			}
		}
	}
	pred.BTTSYes = bttsYes
	pred.BTTSNo = 1 - bttsYes

	for _, line := range []float64{1.5, 2.5, 3.5} {
		over := 0.0
		for h := range matrix {
			for a := range matrix[h] {
				if float64(h+a) > line {
					over += matrix[h][a]
				}
			}
		}
		pred.OverUnder[lineKey(line)] = Line{Over: over, Under: 1 - over}
	}

	pred.TopScores = topScores(lambda, mu, 10)

	if isCup {
		m.applyCupAdjustments(pred)
	}
	return pred, nil
}

func lineKey(line float64) string {
	switch line {
	case 1.5:
		return "1.5"
	case 2.5:
		return "2.5"
	default:
		return "3.5"
	}
}

// topScores lists the likeliest exact scores from the plain Poisson
// product, without the low-score adjustment, up to 6 goals per side.
func topScores(lambda, mu float64, n int) []Score {
	const maxGoals = 6
	scores := make([]Score, 0, (maxGoals+1)*(maxGoals+1))
	for h := 0; h <= maxGoals; h++ {
		for a := 0; a <= maxGoals; a++ {
			p := dist.PoissonPMF(h, lambda) * dist.PoissonPMF(a, mu)
			scores = append(scores, Score{Home: h, Away: a, Probability: p})
		}
	}
	// Partial selection sort; n is small.
	for i := 0; i < n && i < len(scores); i++ {
		best := i
		for j := i + 1; j < len(scores); j++ {
			if scores[j].Probability > scores[best].Probability {
				best = j
			}
		}
		scores[i], scores[best] = scores[best], scores[i]
	}
	if n > len(scores) {
		n = len(scores)
	}
	return scores[:n]
}

// applyCupAdjustments shifts winner probabilities for knockout football:
// draws are likelier over 90 minutes and favourites get upset more often.
func (m *Model) applyCupAdjustments(pred *MatchPrediction) {
	boost := m.cfg.CupDrawBoost
	if pred.HomeWin >= pred.AwayWin {
		pred.HomeWin -= boost * 0.6
		pred.AwayWin -= boost * 0.4
	} else {
		pred.AwayWin -= boost * 0.6
		pred.HomeWin -= boost * 0.4
	}
	pred.Draw += boost

	if pred.HomeWin-pred.AwayWin > 0.15 {
		pred.HomeWin -= m.cfg.CupUpsetFactor
		pred.AwayWin += m.cfg.CupUpsetFactor
	}

	pred.HomeWin = math.Max(0.01, pred.HomeWin)
	pred.AwayWin = math.Max(0.01, pred.AwayWin)
	pred.Draw = math.Max(0.01, pred.Draw)
	total := pred.HomeWin + pred.Draw + pred.AwayWin
	pred.HomeWin /= total
	pred.Draw /= total
	pred.AwayWin /= total
}

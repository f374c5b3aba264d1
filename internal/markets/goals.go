package markets

import (
	"fmt"

	"github.com/yourusername/pitchside/internal/dist"
)

func lineLabel(line float64) string {
	return fmt.Sprintf("%.1f", line)
}

// predictBTTS blends the goal model's both-teams-score probability with
// the clean-sheet record of the two sides.
func (p *Predictor) predictBTTS(req *Request) (yes, no float64) {
	modelBTTS := req.Goals.BTTSYes

	hs, as := req.HomeStats, req.AwayStats
	histHome := (1 - hs.CleanSheetRate) * (1 - as.FailedToScoreRate)
	histAway := (1 - as.CleanSheetRate) * (1 - hs.FailedToScoreRate)
	histBTTS := (histHome + histAway) / 2

	w := p.cfg.BTTSModelWeight
	yes = dist.Clamp(w*modelBTTS+(1-w)*histBTTS, 0.10, 0.95)
	return yes, 1 - yes
}

// HalfTime holds first-half market probabilities.
type HalfTime struct {
	HomeWin float64 `json:"home_win"`
	Draw    float64 `json:"draw"`
	AwayWin float64 `json:"away_win"`

	GoalLines   map[string]float64 `json:"goal_lines"`   // line -> P(over)
	CornerLines map[string]float64 `json:"corner_lines"` // line -> P(over)

	HomeXG float64 `json:"home_xg"`
	AwayXG float64 `json:"away_xg"`
}

// predictHalfTime scales full-match expectations down to the first half.
// Scoring is back-loaded, so the first half carries under half the goals.
func (p *Predictor) predictHalfTime(req *Request, corners *Count) *HalfTime {
	htLambda := req.Goals.HomeXG * p.cfg.HalfTimeGoalShare
	htMu := req.Goals.AwayXG * p.cfg.HalfTimeGoalShare

	ht := &HalfTime{
		GoalLines:   make(map[string]float64, 2),
		CornerLines: make(map[string]float64, 2),
		HomeXG:      htLambda,
		AwayXG:      htMu,
	}

	// Independent Poisson is adequate at first-half scoring rates.
	const maxHT = 6
	total := 0.0
	for h := 0; h <= maxHT; h++ {
		for a := 0; a <= maxHT; a++ {
			prob := dist.PoissonPMF(h, htLambda) * dist.PoissonPMF(a, htMu)
			total += prob
			switch {
			case h > a:
				ht.HomeWin += prob
			case h == a:
				ht.Draw += prob
			default:
				ht.AwayWin += prob
			}
		}
	}
	if total > 0 {
		ht.HomeWin /= total
		ht.Draw /= total
		ht.AwayWin /= total
	}

	for _, line := range []float64{0.5, 1.5} {
		ht.GoalLines[lineLabel(line)] = dist.OverProbPoisson(line, htLambda+htMu)
	}

	if corners != nil {
		htCorners := corners.TotalExpected * p.cfg.HalfTimeCornerShare
		for _, line := range []float64{3.5, 4.5} {
			ht.CornerLines[lineLabel(line)] = dist.OverProbNegBinom(line, htCorners, p.cfg.CornerDispersion)
		}
	}
	return ht
}

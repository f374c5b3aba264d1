package predictor

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/pitchside/internal/dixoncoles"
	"github.com/yourusername/pitchside/internal/markets"
	"github.com/yourusername/pitchside/internal/models"
	"github.com/yourusername/pitchside/internal/ratings"
)

// primaryLineLabel formats the headline line for a count market.
func primaryLineLabel(market string) string {
	line, ok := models.PrimaryLine(market)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%.1f", line)
}

// spreadConfidence maps the gap between the top two outcomes to a
// confidence in [0.5, 0.95]. A coin-flip market earns no more than the
// floor.
func spreadConfidence(outcomes map[string]float64) float64 {
	best, second := 0.0, 0.0
	for _, p := range outcomes {
		if p > best {
			best, second = p, best
		} else if p > second {
			second = p
		}
	}
	conf := 0.5 + (best-second)*0.8
	return math.Min(conf, 0.95)
}

func binaryConfidence(pOver float64) float64 {
	conf := 0.5 + math.Abs(pOver-0.5)*0.8
	return math.Min(conf, 0.95)
}

func (e *Engine) newPrediction(f *models.Fixture, market string, outcomes map[string]float64, features *models.Features) *models.Prediction {
	return &models.Prediction{
		ID:          uuid.New(),
		FixtureID:   f.ID,
		LeagueID:    f.LeagueID,
		MarketKey:   market,
		Outcomes:    outcomes,
		Confidence:  spreadConfidence(outcomes),
		Features:    features,
		PredictedAt: time.Now().UTC(),
	}
}

// assemble flattens model outputs into one prediction per market.
func (e *Engine) assemble(f *models.Fixture, goals *dixoncoles.MatchPrediction, elo ratings.Outcome, secondary *markets.MultiMarket) []*models.Prediction {
	preds := make([]*models.Prediction, 0, 12)

	goalFeatures := &models.Features{
		Goals: &models.GoalsFeatures{
			HomeExpectedGoals: goals.HomeXG,
			AwayExpectedGoals: goals.AwayXG,
			Rho:               goals.Rho,
			IsCup:             goals.IsCup,
		},
		Elo: &models.EloFeatures{
			HomeElo: elo.HomeElo,
			AwayElo: elo.AwayElo,
			EloDiff: elo.EloDiff,
		},
	}

	// Match winner blends the goal model with the rating model.
	wG, wE := e.cfg.GoalModelWeight, e.cfg.EloWeight
	winner := map[string]float64{
		"home": wG*goals.HomeWin + wE*elo.HomeWin,
		"draw": wG*goals.Draw + wE*elo.Draw,
		"away": wG*goals.AwayWin + wE*elo.AwayWin,
	}
	preds = append(preds, e.newPrediction(f, models.MarketMatchWinner, winner, goalFeatures))

	ouMarkets := map[string]string{
		"1.5": models.MarketOverUnder15,
		"2.5": models.MarketOverUnder25,
		"3.5": models.MarketOverUnder35,
	}
	for line, marketKey := range ouMarkets {
		ou, ok := goals.OverUnder[line]
		if !ok {
			continue
		}
		preds = append(preds, e.newPrediction(f, marketKey, map[string]float64{
			"over":  ou.Over,
			"under": ou.Under,
		}, goalFeatures))
	}

	preds = append(preds, e.newPrediction(f, models.MarketBTTS, map[string]float64{
		"yes": secondary.BTTSYes,
		"no":  secondary.BTTSNo,
	}, goalFeatures))

	preds = append(preds,
		e.countPrediction(f, models.MarketCorners, secondary.Corners,
			&models.Features{Corners: secondary.CornersFeatures}),
		e.countPrediction(f, models.MarketCards, secondary.Cards,
			&models.Features{Cards: secondary.CardsFeatures}),
		e.countPrediction(f, models.MarketShots, secondary.Shots,
			&models.Features{Shots: secondary.ShotsFeatures}),
		e.countPrediction(f, models.MarketShotsOnTarget, secondary.ShotsOT, nil),
		e.countPrediction(f, models.MarketOffsides, secondary.Offsides,
			&models.Features{Offsides: secondary.OffsidesFeatures}),
	)

	if ht := secondary.HalfTime; ht != nil {
		preds = append(preds, e.newPrediction(f, models.MarketHalfTime, map[string]float64{
			"home": ht.HomeWin,
			"draw": ht.Draw,
			"away": ht.AwayWin,
		}, goalFeatures))
	}

	if len(secondary.ExactScores) > 0 {
		outcomes := make(map[string]float64, len(secondary.ExactScores)+1)
		covered := 0.0
		for _, s := range secondary.ExactScores {
			outcomes[fmt.Sprintf("%d-%d", s.Home, s.Away)] = s.Probability
			covered += s.Probability
		}
		// Long-tail scorelines outside the top list.
		outcomes["other"] = math.Max(0, 1-covered)
		sp := e.newPrediction(f, models.MarketExactScore, outcomes, goalFeatures)
		// Exact scores are inherently uncertain; cap at the top score.
		sp.Confidence = math.Min(sp.Confidence, 0.5+secondary.ExactScores[0].Probability)
		preds = append(preds, sp)
	}

	return preds
}

func (e *Engine) countPrediction(f *models.Fixture, market string, count *markets.Count, features *models.Features) *models.Prediction {
	pOver, ok := count.Lines[primaryLineLabel(market)]
	if !ok {
		// Fall back to whichever line is closest to a coin flip.
		bestDist := math.Inf(1)
		for _, p := range count.Lines {
			if d := math.Abs(p - 0.5); d < bestDist {
				bestDist = d
				pOver = p
			}
		}
	}
	pred := e.newPrediction(f, market, map[string]float64{
		"over":  pOver,
		"under": 1 - pOver,
	}, features)
	pred.Confidence = binaryConfidence(pOver)
	return pred
}

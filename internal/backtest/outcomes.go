package backtest

import (
	"fmt"

	"github.com/yourusername/pitchside/internal/models"
)

// ActualOutcome settles one market outcome against a finished fixture.
// Returns 1 or 0, with ok=false when the fixture lacks the statistic.
func ActualOutcome(f *models.Fixture, marketKey, outcome string) (float64, bool) {
	if !f.IsFinished() {
		return 0, false
	}

	switch marketKey {
	case models.MarketMatchWinner:
		return settleWinner(*f.HomeScore, *f.AwayScore, outcome)

	case models.MarketOverUnder15:
		return settleOverUnder(float64(f.TotalGoals()), 1.5, outcome)
	case models.MarketOverUnder25:
		return settleOverUnder(float64(f.TotalGoals()), 2.5, outcome)
	case models.MarketOverUnder35:
		return settleOverUnder(float64(f.TotalGoals()), 3.5, outcome)

	case models.MarketBTTS:
		yes := *f.HomeScore > 0 && *f.AwayScore > 0
		switch outcome {
		case "yes":
			return boolToFloat(yes), true
		case "no":
			return boolToFloat(!yes), true
		}
		return 0, false

	case models.MarketHalfTime:
		if f.HTHomeScore == nil || f.HTAwayScore == nil {
			return 0, false
		}
		return settleWinner(*f.HTHomeScore, *f.HTAwayScore, outcome)

	case models.MarketExactScore:
		actual := fmt.Sprintf("%d-%d", *f.HomeScore, *f.AwayScore)
		if outcome == "other" {
			return 0, false // cannot settle without the full top-score list
		}
		return boolToFloat(outcome == actual), true

	case models.MarketCorners:
		return settleCount(f.HomeCorners, f.AwayCorners, marketKey, outcome)
	case models.MarketCards:
		return settleCount(f.HomeYellowCards, f.AwayYellowCards, marketKey, outcome)
	case models.MarketShots:
		return settleCount(f.HomeShots, f.AwayShots, marketKey, outcome)
	case models.MarketShotsOnTarget:
		return settleCount(f.HomeShotsOnTarget, f.AwayShotsOnTarget, marketKey, outcome)
	case models.MarketOffsides:
		return settleCount(f.HomeOffsides, f.AwayOffsides, marketKey, outcome)
	}

	return 0, false
}

func settleWinner(home, away int, outcome string) (float64, bool) {
	switch outcome {
	case "home":
		return boolToFloat(home > away), true
	case "draw":
		return boolToFloat(home == away), true
	case "away":
		return boolToFloat(home < away), true
	}
	return 0, false
}

func settleOverUnder(total, line float64, outcome string) (float64, bool) {
	switch outcome {
	case "over":
		return boolToFloat(total > line), true
	case "under":
		return boolToFloat(total < line), true
	}
	return 0, false
}

func settleCount(home, away *int, marketKey, outcome string) (float64, bool) {
	h, okH := models.IntValue(home)
	a, okA := models.IntValue(away)
	if !okH || !okA {
		return 0, false
	}
	line, ok := models.PrimaryLine(marketKey)
	if !ok {
		return 0, false
	}
	return settleOverUnder(float64(h+a), line, outcome)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

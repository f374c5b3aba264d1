package backtest

import (
	"context"
	"testing"
	"time"

	"github.com/yourusername/pitchside/internal/models"
	"github.com/yourusername/pitchside/internal/predictor"
)

// syntheticSeason builds a deterministic 90-fixture league: teams 1 and 2
// dominate, 5 and 6 struggle, 3 and 4 sit mid-table.
func syntheticSeason() []*models.Fixture {
	strength := map[int64]int{1: 3, 2: 3, 3: 1, 4: 1, 5: 0, 6: 0}
	teams := []int64{1, 2, 3, 4, 5, 6}

	var fixtures []*models.Fixture
	id := int64(1)
	kick := time.Date(2024, 8, 1, 15, 0, 0, 0, time.UTC)

	for round := 0; round < 3; round++ {
		for _, home := range teams {
			for _, away := range teams {
				if home == away {
					continue
				}
				diff := strength[home] - strength[away]
				homeGoals := 1 + max(0, diff)
				awayGoals := 1 + max(0, -diff)
				if diff == 0 {
					// Same strength: home edge in round order.
					homeGoals, awayGoals = 1, 1
				}

				f := &models.Fixture{
					ID:          id,
					LeagueID:    39,
					HomeTeamID:  home,
					AwayTeamID:  away,
					KickoffTime: kick,
					Status:      models.StatusFinished,
					HomeScore:   ip(homeGoals),
					AwayScore:   ip(awayGoals),

					HomeCorners:     ip(5 + diff),
					AwayCorners:     ip(5 - diff),
					HomeYellowCards: ip(2),
					AwayYellowCards: ip(2),
					HomeOffsides:    ip(2),
					AwayOffsides:    ip(3),
				}
				fixtures = append(fixtures, f)
				id++
				kick = kick.Add(26 * time.Hour)
			}
		}
	}
	return fixtures
}

func TestRunRequiresEnoughFixtures(t *testing.T) {
	h := NewHarness(DefaultConfig(), nil)

	_, err := h.Run(context.Background(), syntheticSeason()[:15], nil,
		predictor.LegacyModelConfig(), predictor.DefaultModelConfig())
	if err == nil {
		t.Fatal("expected an insufficient data error")
	}
}

func TestRunComparesModels(t *testing.T) {
	h := NewHarness(DefaultConfig(), nil)

	cmp, err := h.Run(context.Background(), syntheticSeason(), nil,
		predictor.LegacyModelConfig(), predictor.DefaultModelConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if cmp.Old.Label != "legacy" || cmp.New.Label != "current" {
		t.Errorf("labels = %q, %q", cmp.Old.Label, cmp.New.Label)
	}
	if cmp.Old.Predictions == 0 || cmp.New.Predictions == 0 {
		t.Error("both replays must produce settled predictions")
	}
	if cmp.Verdict == "" {
		t.Error("comparison must carry a verdict")
	}
	if len(cmp.ByMarket) == 0 {
		t.Error("per-market deltas missing")
	}

	// The top side wins nearly every match in this league; any sane
	// model clears coin-flip accuracy on winners.
	winner, ok := cmp.New.ByMarket[models.MarketMatchWinner]
	if !ok {
		t.Fatal("winner market missing from report")
	}
	if winner.Accuracy < 0.5 {
		t.Errorf("winner accuracy = %v, want >= 0.5", winner.Accuracy)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	h := NewHarness(DefaultConfig(), nil)
	ctx := context.Background()

	first, err := h.Run(ctx, syntheticSeason(), nil,
		predictor.LegacyModelConfig(), predictor.DefaultModelConfig())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := h.Run(ctx, syntheticSeason(), nil,
		predictor.LegacyModelConfig(), predictor.DefaultModelConfig())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if first.New.Accuracy != second.New.Accuracy {
		t.Errorf("accuracy differs across runs: %v vs %v", first.New.Accuracy, second.New.Accuracy)
	}
	if first.New.Brier != second.New.Brier {
		t.Errorf("brier differs across runs: %v vs %v", first.New.Brier, second.New.Brier)
	}
	if first.Old.LogLoss != second.Old.LogLoss {
		t.Errorf("log loss differs across runs: %v vs %v", first.Old.LogLoss, second.Old.LogLoss)
	}
}

func TestRunWithOddsSimulatesBets(t *testing.T) {
	h := NewHarness(DefaultConfig(), nil)
	fixtures := syntheticSeason()

	// Generous quotes on every winner outcome so qualifying bets exist.
	odds := make(map[int64][]*models.OddsSnapshot, len(fixtures))
	for _, f := range fixtures {
		odds[f.ID] = []*models.OddsSnapshot{{
			FixtureID: f.ID,
			Bookmaker: "sim",
			MarketKey: models.MarketMatchWinner,
			Odds:      map[string]float64{"home": 2.4, "draw": 3.6, "away": 3.2},
		}}
	}

	cmp, err := h.Run(context.Background(), fixtures, odds,
		predictor.LegacyModelConfig(), predictor.DefaultModelConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if cmp.New.Bets == 0 {
		t.Error("expected at least one simulated bet with generous odds")
	}
}

func TestRunHonoursContextCancellation(t *testing.T) {
	h := NewHarness(DefaultConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := h.Run(ctx, syntheticSeason(), nil,
		predictor.LegacyModelConfig(), predictor.DefaultModelConfig()); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestMarketCorrelations(t *testing.T) {
	fixtures := syntheticSeason()
	corr := MarketCorrelations(fixtures, 10)

	if len(corr) == 0 {
		t.Fatal("expected at least one correlated market pair")
	}
	for a, row := range corr {
		for b, r := range row {
			if r < -1 || r > 1 {
				t.Errorf("correlation %s/%s = %v outside [-1, 1]", a, b, r)
			}
			if a >= b {
				t.Errorf("pair %s/%s not canonically ordered", a, b)
			}
		}
	}
}

func TestMarketCorrelationsRespectsMinSamples(t *testing.T) {
	fixtures := syntheticSeason()[:5]
	if corr := MarketCorrelations(fixtures, 10); len(corr) != 0 {
		t.Errorf("expected no pairs below the sample floor, got %d", len(corr))
	}
}

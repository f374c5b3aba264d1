package backtest

import (
	"testing"
	"time"

	"github.com/yourusername/pitchside/internal/models"
)

func ip(v int) *int { return &v }

func finishedFixture(homeGoals, awayGoals int) *models.Fixture {
	return &models.Fixture{
		ID:          1,
		LeagueID:    39,
		HomeTeamID:  10,
		AwayTeamID:  20,
		KickoffTime: time.Date(2025, 1, 11, 15, 0, 0, 0, time.UTC),
		Status:      models.StatusFinished,
		HomeScore:   ip(homeGoals),
		AwayScore:   ip(awayGoals),
	}
}

func TestActualOutcomeWinnerAndTotals(t *testing.T) {
	f := finishedFixture(2, 1)

	tests := []struct {
		market  string
		outcome string
		want    float64
		ok      bool
	}{
		{models.MarketMatchWinner, "home", 1, true},
		{models.MarketMatchWinner, "draw", 0, true},
		{models.MarketMatchWinner, "away", 0, true},
		{models.MarketMatchWinner, "bogus", 0, false},
		{models.MarketOverUnder15, "over", 1, true},
		{models.MarketOverUnder25, "over", 1, true},
		{models.MarketOverUnder25, "under", 0, true},
		{models.MarketOverUnder35, "over", 0, true},
		{models.MarketOverUnder35, "under", 1, true},
		{models.MarketBTTS, "yes", 1, true},
		{models.MarketBTTS, "no", 0, true},
		{models.MarketExactScore, "2-1", 1, true},
		{models.MarketExactScore, "1-1", 0, true},
		{models.MarketExactScore, "other", 0, false},
	}
	for _, tt := range tests {
		got, ok := ActualOutcome(f, tt.market, tt.outcome)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ActualOutcome(%s, %s) = %v, %v; want %v, %v",
				tt.market, tt.outcome, got, ok, tt.want, tt.ok)
		}
	}
}

func TestActualOutcomeGoallessDraw(t *testing.T) {
	f := finishedFixture(0, 0)

	if got, ok := ActualOutcome(f, models.MarketMatchWinner, "draw"); !ok || got != 1 {
		t.Errorf("draw settlement = %v, %v", got, ok)
	}
	if got, ok := ActualOutcome(f, models.MarketBTTS, "no"); !ok || got != 1 {
		t.Errorf("btts no settlement = %v, %v", got, ok)
	}
	if got, ok := ActualOutcome(f, models.MarketOverUnder15, "under"); !ok || got != 1 {
		t.Errorf("under settlement = %v, %v", got, ok)
	}
}

func TestActualOutcomeUnfinishedFixture(t *testing.T) {
	f := finishedFixture(2, 1)
	f.Status = models.StatusScheduled

	if _, ok := ActualOutcome(f, models.MarketMatchWinner, "home"); ok {
		t.Error("unfinished fixture must not settle")
	}
}

func TestActualOutcomeCountMarkets(t *testing.T) {
	f := finishedFixture(1, 0)
	f.HomeCorners, f.AwayCorners = ip(6), ip(5)           // 11 vs line 9.5
	f.HomeYellowCards, f.AwayYellowCards = ip(1), ip(2)   // 3 vs line 3.5
	f.HomeShots, f.AwayShots = ip(14), ip(9)              // 23 vs line 22.5
	f.HomeShotsOnTarget, f.AwayShotsOnTarget = ip(4), ip(3) // 7 vs line 8.5
	f.HomeOffsides, f.AwayOffsides = ip(3), ip(2)         // 5 vs line 4.5

	tests := []struct {
		market  string
		outcome string
		want    float64
	}{
		{models.MarketCorners, "over", 1},
		{models.MarketCards, "over", 0},
		{models.MarketCards, "under", 1},
		{models.MarketShots, "over", 1},
		{models.MarketShotsOnTarget, "under", 1},
		{models.MarketOffsides, "over", 1},
	}
	for _, tt := range tests {
		got, ok := ActualOutcome(f, tt.market, tt.outcome)
		if !ok || got != tt.want {
			t.Errorf("ActualOutcome(%s, %s) = %v, %v; want %v", tt.market, tt.outcome, got, ok, tt.want)
		}
	}
}

func TestActualOutcomeMissingStats(t *testing.T) {
	f := finishedFixture(1, 0)

	if _, ok := ActualOutcome(f, models.MarketCorners, "over"); ok {
		t.Error("corners must not settle without recorded counts")
	}
	if _, ok := ActualOutcome(f, models.MarketHalfTime, "home"); ok {
		t.Error("half time must not settle without a half-time score")
	}
}

func TestActualOutcomeHalfTime(t *testing.T) {
	f := finishedFixture(2, 2)
	f.HTHomeScore, f.HTAwayScore = ip(1), ip(0)

	if got, ok := ActualOutcome(f, models.MarketHalfTime, "home"); !ok || got != 1 {
		t.Errorf("half time home = %v, %v", got, ok)
	}
	if got, ok := ActualOutcome(f, models.MarketHalfTime, "draw"); !ok || got != 0 {
		t.Errorf("half time draw = %v, %v", got, ok)
	}
}

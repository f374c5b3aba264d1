package backtest

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/pitchside/internal/models"
)

// canonicalOutcomes define one binary indicator series per market for the
// correlation matrix.
var canonicalOutcomes = map[string]string{
	models.MarketMatchWinner: "home",
	models.MarketOverUnder15: "over",
	models.MarketOverUnder25: "over",
	models.MarketOverUnder35: "over",
	models.MarketBTTS:        "yes",
	models.MarketCorners:     "over",
	models.MarketCards:       "over",
	models.MarketShots:       "over",
	models.MarketOffsides:    "over",
}

// MarketCorrelations computes the pairwise Pearson correlation of actual
// market outcomes across fixtures. Pairs with fewer than minSamples
// common fixtures are omitted.
func MarketCorrelations(fixtures []*models.Fixture, minSamples int) map[string]map[string]float64 {
	// Indicator series keyed by market, indexed by fixture.
	series := make(map[string]map[int64]float64, len(canonicalOutcomes))
	for market, outcome := range canonicalOutcomes {
		values := make(map[int64]float64)
		for _, f := range fixtures {
			if v, ok := ActualOutcome(f, market, outcome); ok {
				values[f.ID] = v
			}
		}
		series[market] = values
	}

	result := make(map[string]map[string]float64)
	for marketA, seriesA := range series {
		for marketB, seriesB := range series {
			if marketA >= marketB {
				continue
			}

			var xs, ys []float64
			for id, x := range seriesA {
				if y, ok := seriesB[id]; ok {
					xs = append(xs, x)
					ys = append(ys, y)
				}
			}
			if len(xs) < minSamples {
				continue
			}

			r := stat.Correlation(xs, ys, nil)
			if math.IsNaN(r) {
				// One side never varied in the window.
				continue
			}
			if result[marketA] == nil {
				result[marketA] = make(map[string]float64)
			}
			result[marketA][marketB] = r
		}
	}
	return result
}

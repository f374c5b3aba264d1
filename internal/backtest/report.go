package backtest

import (
	"fmt"
	"sort"
	"time"
)

// MarketMetrics is the per-market slice of a model report.
type MarketMetrics struct {
	Samples  int     `json:"samples"`
	Accuracy float64 `json:"accuracy"`
	Brier    float64 `json:"brier"`
	LogLoss  float64 `json:"log_loss"`
}

// ModelReport summarises one model's replay.
type ModelReport struct {
	Label       string `json:"label"`
	Fixtures    int    `json:"fixtures"`
	Predictions int    `json:"predictions"`

	Accuracy float64 `json:"accuracy"`
	Brier    float64 `json:"brier"`
	LogLoss  float64 `json:"log_loss"`

	Bets   int     `json:"bets"`
	ROI    float64 `json:"roi"`
	Sharpe float64 `json:"sharpe"`

	ByMarket map[string]MarketMetrics `json:"by_market"`
}

func buildReport(label string, fixtures int, samples []Sample, cfg Config) *ModelReport {
	byMarket := make(map[string][]Sample)
	for _, s := range samples {
		byMarket[s.MarketKey] = append(byMarket[s.MarketKey], s)
	}

	report := &ModelReport{
		Label:       label,
		Fixtures:    fixtures,
		Predictions: len(samples),
		Accuracy:    Accuracy(samples),
		Brier:       BrierScore(samples),
		LogLoss:     LogLoss(samples),
		ByMarket:    make(map[string]MarketMetrics, len(byMarket)),
	}

	returns := BettingReturns(samples, cfg.MinConfidence, cfg.MinEdge)
	report.Bets = len(returns)
	report.ROI = ROI(returns)
	report.Sharpe = SharpeRatio(returns)

	for market, ms := range byMarket {
		report.ByMarket[market] = MarketMetrics{
			Samples:  len(ms),
			Accuracy: Accuracy(ms),
			Brier:    BrierScore(ms),
			LogLoss:  LogLoss(ms),
		}
	}
	return report
}

// MarketDelta is the old-to-new change for one market.
type MarketDelta struct {
	Samples       int     `json:"samples"`
	AccuracyDelta float64 `json:"accuracy_delta"`
	BrierDelta    float64 `json:"brier_delta"`
}

// Comparison is the full old-vs-new backtest output.
type Comparison struct {
	Old *ModelReport `json:"old"`
	New *ModelReport `json:"new"`

	AccuracyDelta float64 `json:"accuracy_delta"`
	BrierDelta    float64 `json:"brier_delta"`
	LogLossDelta  float64 `json:"log_loss_delta"`
	ROIDelta      float64 `json:"roi_delta"`

	ByMarket     map[string]MarketDelta        `json:"by_market"`
	Correlations map[string]map[string]float64 `json:"correlations,omitempty"`

	Verdict     string    `json:"verdict"`
	Duration    string    `json:"duration"`
	GeneratedAt time.Time `json:"generated_at"`
}

func compare(oldReport, newReport *ModelReport) *Comparison {
	cmp := &Comparison{
		Old:           oldReport,
		New:           newReport,
		AccuracyDelta: newReport.Accuracy - oldReport.Accuracy,
		BrierDelta:    newReport.Brier - oldReport.Brier,
		LogLossDelta:  newReport.LogLoss - oldReport.LogLoss,
		ROIDelta:      newReport.ROI - oldReport.ROI,
		ByMarket:      make(map[string]MarketDelta),
	}

	for market, newM := range newReport.ByMarket {
		oldM, ok := oldReport.ByMarket[market]
		if !ok {
			continue
		}
		cmp.ByMarket[market] = MarketDelta{
			Samples:       newM.Samples,
			AccuracyDelta: newM.Accuracy - oldM.Accuracy,
			BrierDelta:    newM.Brier - oldM.Brier,
		}
	}

	// Brier and log loss improve downward, accuracy upward.
	improvements := 0
	if cmp.AccuracyDelta > 0 {
		improvements++
	}
	if cmp.BrierDelta < 0 {
		improvements++
	}
	if cmp.LogLossDelta < 0 {
		improvements++
	}
	switch {
	case improvements >= 2:
		cmp.Verdict = fmt.Sprintf("current model ahead: accuracy %+.4f, brier %+.5f, log loss %+.5f",
			cmp.AccuracyDelta, cmp.BrierDelta, cmp.LogLossDelta)
	case improvements == 1:
		cmp.Verdict = "mixed result; metrics disagree"
	default:
		cmp.Verdict = fmt.Sprintf("legacy model ahead: accuracy %+.4f, brier %+.5f",
			cmp.AccuracyDelta, cmp.BrierDelta)
	}
	return cmp
}

// SortedMarkets returns the comparison's market keys in stable order for
// rendering.
func (c *Comparison) SortedMarkets() []string {
	keys := make([]string, 0, len(c.ByMarket))
	for k := range c.ByMarket {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

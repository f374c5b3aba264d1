// Package backtest replays historical fixtures through two model
// configurations and compares their predictive quality and simulated
// betting performance.
package backtest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/pitchside/internal/metrics"
	"github.com/yourusername/pitchside/internal/models"
	"github.com/yourusername/pitchside/internal/predictor"
)

// Config tunes the replay and the simulated betting policy.
type Config struct {
	// TrainFraction of the (chronological) fixtures warms up the models
	// before any prediction is scored.
	TrainFraction float64 `mapstructure:"train_fraction" json:"train_fraction" validate:"gt=0,lt=1"`
	MinTrain      int     `mapstructure:"min_train" json:"min_train"`

	MinConfidence float64 `mapstructure:"min_confidence" json:"min_confidence"`
	MinEdge       float64 `mapstructure:"min_edge" json:"min_edge"`

	MinCorrelationSamples int `mapstructure:"min_correlation_samples" json:"min_correlation_samples"`
}

// DefaultConfig returns sensible replay settings.
func DefaultConfig() Config {
	return Config{
		TrainFraction:         0.3,
		MinTrain:              20,
		MinConfidence:         0.6,
		MinEdge:               0.05,
		MinCorrelationSamples: 10,
	}
}

// Harness runs old-vs-new comparisons.
type Harness struct {
	cfg    Config
	logger *logrus.Logger
}

// NewHarness returns a harness.
func NewHarness(cfg Config, logger *logrus.Logger) *Harness {
	return &Harness{cfg: cfg, logger: logger}
}

// Run replays fixtures through both model configs and reports the
// comparison. Odds are optional, keyed by fixture ID; without them the
// betting simulation is skipped. Deterministic for fixed inputs.
func (h *Harness) Run(ctx context.Context, fixtures []*models.Fixture, odds map[int64][]*models.OddsSnapshot, oldCfg, newCfg predictor.ModelConfig) (*Comparison, error) {
	start := time.Now()

	finished := make([]*models.Fixture, 0, len(fixtures))
	for _, f := range fixtures {
		if f.IsFinished() {
			finished = append(finished, f)
		}
	}
	sort.Slice(finished, func(i, j int) bool {
		if !finished[i].KickoffTime.Equal(finished[j].KickoffTime) {
			return finished[i].KickoffTime.Before(finished[j].KickoffTime)
		}
		return finished[i].ID < finished[j].ID
	})

	trainSize := int(float64(len(finished)) * h.cfg.TrainFraction)
	if trainSize < h.cfg.MinTrain {
		trainSize = h.cfg.MinTrain
	}
	if trainSize >= len(finished) {
		return nil, fmt.Errorf("%w: %d finished fixtures, need more than %d",
			models.ErrInsufficientData, len(finished), trainSize)
	}
	train, test := finished[:trainSize], finished[trainSize:]

	// The two engines share no state, so they replay concurrently.
	var oldReport, newReport *ModelReport
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		oldReport, err = h.replay(ctx, "legacy", oldCfg, train, test, odds)
		return err
	})
	g.Go(func() error {
		var err error
		newReport, err = h.replay(ctx, "current", newCfg, train, test, odds)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cmp := compare(oldReport, newReport)
	cmp.Correlations = MarketCorrelations(test, h.cfg.MinCorrelationSamples)
	cmp.Duration = time.Since(start).String()
	cmp.GeneratedAt = time.Now().UTC()

	metrics.RecordBacktestRun(time.Since(start).Seconds())

	if h.logger != nil {
		h.logger.WithFields(logrus.Fields{
			"train_fixtures": len(train),
			"test_fixtures":  len(test),
			"old_accuracy":   oldReport.Accuracy,
			"new_accuracy":   newReport.Accuracy,
			"duration":       cmp.Duration,
		}).Info("backtest complete")
	}
	return cmp, nil
}

// replay warms an engine on the training window, then walks the test
// window predicting each fixture before applying its result.
func (h *Harness) replay(ctx context.Context, label string, cfg predictor.ModelConfig, train, test []*models.Fixture, odds map[int64][]*models.OddsSnapshot) (*ModelReport, error) {
	engine := predictor.New(cfg, h.logger)
	if err := engine.Fit(train); err != nil {
		return nil, fmt.Errorf("warming %s model: %w", label, err)
	}

	var samples []Sample
	for _, f := range test {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		preds, err := engine.PredictFixture(f)
		if err != nil {
			if h.logger != nil {
				h.logger.WithFields(logrus.Fields{
					"fixture_id": f.ID,
					"model":      label,
				}).Warn("skipping unpredictable fixture")
			}
		} else {
			samples = append(samples, h.settle(f, preds, odds[f.ID])...)
		}

		engine.ApplyResult(f)
	}

	return buildReport(label, len(test), samples, h.cfg), nil
}

// settle turns each prediction's most likely outcome into a scored
// sample, attaching odds when a quote exists.
func (h *Harness) settle(f *models.Fixture, preds []*models.Prediction, quotes []*models.OddsSnapshot) []Sample {
	samples := make([]Sample, 0, len(preds))
	for _, pred := range preds {
		outcome, prob := pred.MostLikelyOutcome()
		actual, ok := ActualOutcome(f, pred.MarketKey, outcome)
		if !ok {
			continue
		}

		sample := Sample{
			FixtureID:  f.ID,
			LeagueID:   f.LeagueID,
			MarketKey:  pred.MarketKey,
			Outcome:    outcome,
			Predicted:  prob,
			Actual:     actual,
			Confidence: pred.Confidence,
		}
		for _, q := range quotes {
			if q.MarketKey != pred.MarketKey {
				continue
			}
			if price, present := q.Odds[outcome]; present && price > 1 {
				sample.Odds = price
				sample.HasOdds = true
				break
			}
		}
		samples = append(samples, sample)
	}
	return samples
}

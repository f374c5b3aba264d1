// Package main provides the entry point for the backtesting CLI tool.
package main

import (
	"context"
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitchside/internal/backtest"
	"github.com/yourusername/pitchside/internal/config"
	"github.com/yourusername/pitchside/internal/dataset"
	"github.com/yourusername/pitchside/internal/logger"
	"github.com/yourusername/pitchside/internal/models"
	"github.com/yourusername/pitchside/internal/predictor"
)

func main() {
	var (
		configPath   = flag.String("config", "config/config.yaml", "Path to config file")
		fixturesPath = flag.String("fixtures", "", "Path to historical fixtures JSON (required)")
		oddsPath     = flag.String("odds", "", "Path to odds snapshots JSON (optional)")
		output       = flag.String("output", "./output/backtest_report.json", "Output path for the comparison report")
		trainFrac    = flag.Float64("train-fraction", 0, "Override training fraction (0,1)")
	)
	flag.Parse()

	log := logger.NewLogger("info", "development")

	if *fixturesPath == "" {
		log.Fatal("-fixtures is required")
	}

	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	if *trainFrac > 0 && *trainFrac < 1 {
		cfg.Backtest.TrainFraction = *trainFrac
	}

	fixtures, err := dataset.LoadFixtures(*fixturesPath)
	if err != nil {
		log.Fatalf("Failed to load fixtures: %v", err)
	}

	oddsByFixture, err := loadOdds(*oddsPath)
	if err != nil {
		log.Fatalf("Failed to load odds: %v", err)
	}

	oldCfg := predictor.LegacyModelConfig()
	newCfg := cfg.Model

	log.WithFields(logrus.Fields{
		"fixtures": len(fixtures),
		"odds":     len(oddsByFixture),
	}).Info("Starting backtest")

	harness := backtest.NewHarness(cfg.Backtest, log)
	report, err := harness.Run(context.Background(), fixtures, oddsByFixture, oldCfg, newCfg)
	if err != nil {
		log.Fatalf("Backtest failed: %v", err)
	}

	if err := dataset.WriteJSON(*output, report); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}

	log.WithFields(logrus.Fields{
		"verdict":        report.Verdict,
		"accuracy_delta": report.AccuracyDelta,
		"brier_delta":    report.BrierDelta,
		"roi_delta":      report.ROIDelta,
		"output":         *output,
	}).Info("Backtest complete")
}

func loadOdds(path string) (map[int64][]*models.OddsSnapshot, error) {
	if path == "" {
		return nil, nil
	}
	return dataset.LoadOdds(path)
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/pitchside/internal/config"
	"github.com/yourusername/pitchside/internal/dataset"
	"github.com/yourusername/pitchside/internal/health"
	"github.com/yourusername/pitchside/internal/kelly"
	applogger "github.com/yourusername/pitchside/internal/logger"
	"github.com/yourusername/pitchside/internal/metrics"
	"github.com/yourusername/pitchside/internal/parlay"
	"github.com/yourusername/pitchside/internal/predictor"
	"github.com/yourusername/pitchside/internal/quality"
	"github.com/yourusername/pitchside/internal/value"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile   string
	fixturesFile string
	historyFile  string
	oddsFile     string
	statsFile    string
	refereesFile string
	playersFile  string
	qualityFile  string
	outputFile   string
	ratingsFile  string
	modelFile    string

	logger *logrus.Logger
	cfg    *config.Config

	// liveEngine backs the readiness probe once a command has fitted.
	liveEngine atomic.Pointer[predictor.Engine]
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")

	fitCmd.Flags().StringVar(&historyFile, "history", "", "Finished fixtures JSON used to fit the models")
	fitCmd.Flags().StringVar(&ratingsFile, "ratings-out", "./output/ratings.json", "Where to save the fitted rating store")
	fitCmd.Flags().StringVar(&modelFile, "model-out", "./output/goal_model.json", "Where to save the fitted goal model")

	runCmd.Flags().StringVar(&historyFile, "history", "", "Finished fixtures JSON used to fit the models")
	runCmd.Flags().StringVar(&fixturesFile, "fixtures", "", "Upcoming fixtures JSON to predict")
	runCmd.Flags().StringVar(&statsFile, "stats", "", "Team statistics JSON (optional)")
	runCmd.Flags().StringVar(&refereesFile, "referees", "", "Referee profiles JSON (optional)")
	runCmd.Flags().StringVar(&playersFile, "players", "", "Player samples JSON (optional)")
	runCmd.Flags().StringVar(&qualityFile, "quality", "", "Squad quality profiles JSON (optional)")
	runCmd.Flags().StringVar(&outputFile, "output", "./output/predictions.json", "Where to write predictions")

	valueCmd.Flags().StringVar(&historyFile, "history", "", "Finished fixtures JSON used to fit the models")
	valueCmd.Flags().StringVar(&fixturesFile, "fixtures", "", "Upcoming fixtures JSON to screen")
	valueCmd.Flags().StringVar(&oddsFile, "odds", "", "Odds snapshots JSON")
	valueCmd.Flags().StringVar(&outputFile, "output", "./output/value_bets.json", "Where to write screened bets")

	parlayCmd.Flags().StringVar(&fixturesFile, "legs", "", "Parlay legs JSON")

	recommendCmd.Flags().StringVar(&fixturesFile, "legs", "", "Candidate legs JSON")
	recommendCmd.Flags().StringVar(&outputFile, "output", "./output/parlays.json", "Where to write suggested pairings")
}

var rootCmd = &cobra.Command{
	Use:   "predict",
	Short: "Football match outcome prediction engine",
	Long:  `Fit goal and rating models on historical fixtures, predict upcoming markets, screen value bets and validate parlays.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logger = applogger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
		if cfg.Metrics.Enabled {
			go serveMetrics(cfg.Metrics.Address)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("predict %s (%s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit models on historical fixtures and save them",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := fittedEngine()
		if err != nil {
			return err
		}

		ratingsData, err := engine.Ratings().Save()
		if err != nil {
			return fmt.Errorf("saving ratings: %w", err)
		}
		if err := os.WriteFile(ratingsFile, ratingsData, 0o644); err != nil {
			return err
		}

		modelData, err := engine.GoalModel().Save()
		if err != nil {
			return fmt.Errorf("saving goal model: %w", err)
		}
		if err := os.WriteFile(modelFile, modelData, 0o644); err != nil {
			return err
		}

		logger.WithFields(logrus.Fields{
			"ratings": ratingsFile,
			"model":   modelFile,
		}).Info("Models fitted and saved")
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Predict all markets for upcoming fixtures",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := fittedEngine()
		if err != nil {
			return err
		}
		if err := attachSideData(engine); err != nil {
			return err
		}

		upcoming, err := dataset.LoadFixtures(fixturesFile)
		if err != nil {
			return err
		}

		preds, err := engine.BatchPredict(context.Background(), upcoming)
		if err != nil {
			return err
		}

		scorer := quality.NewScorer(logger)
		for _, p := range preds {
			p.Grade = scorer.ScorePrediction(p, nil).Grade
		}

		if err := dataset.WriteJSON(outputFile, preds); err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{
			"fixtures":    len(upcoming),
			"predictions": len(preds),
			"output":      outputFile,
		}).Info("Predictions written")
		return nil
	},
}

var valueCmd = &cobra.Command{
	Use:   "value",
	Short: "Screen upcoming fixtures for value bets",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := fittedEngine()
		if err != nil {
			return err
		}

		upcoming, err := dataset.LoadFixtures(fixturesFile)
		if err != nil {
			return err
		}
		odds, err := dataset.LoadOdds(oddsFile)
		if err != nil {
			return err
		}

		scorer := quality.NewScorer(logger)
		sizer := kelly.NewSizer(cfg.Model.Kelly)
		screener := value.NewScreener(cfg.Model.Value, sizer, logger)

		var data []*value.FixtureData
		for _, f := range upcoming {
			preds, err := engine.PredictFixture(f)
			if err != nil {
				logger.WithField("fixture_id", f.ID).Warn("skipping fixture")
				continue
			}
			qualities := make(map[string]*quality.Score, len(preds))
			for _, p := range preds {
				q := scorer.ScorePrediction(p, nil)
				p.Grade = q.Grade
				qualities[p.MarketKey] = q
			}
			data = append(data, &value.FixtureData{
				Fixture:     f,
				Predictions: preds,
				Odds:        odds[f.ID],
				Quality:     qualities,
			})
		}

		bets := screener.Screen(data)
		for range bets {
			metrics.RecordValueBet()
		}

		if err := dataset.WriteJSON(outputFile, bets); err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{
			"fixtures": len(upcoming),
			"bets":     len(bets),
			"output":   outputFile,
		}).Info("Value screen written")
		return nil
	},
}

var parlayCmd = &cobra.Command{
	Use:   "parlay",
	Short: "Validate parlay legs for correlation",
	RunE: func(cmd *cobra.Command, args []string) error {
		var legs []parlay.Selection
		data, err := os.ReadFile(fixturesFile)
		if err != nil {
			return fmt.Errorf("reading legs: %w", err)
		}
		if err := json.Unmarshal(data, &legs); err != nil {
			return fmt.Errorf("parsing legs: %w", err)
		}

		validator := parlay.NewValidator(cfg.Model.Parlay, logger)
		verdict, err := validator.Validate(legs)
		if err != nil {
			return err
		}
		if !verdict.Valid {
			metrics.RecordParlayRejection()
		}

		logger.WithFields(logrus.Fields{
			"valid":         verdict.Valid,
			"reason":        verdict.Reason,
			"quoted_odds":   verdict.QuotedOdds,
			"adjusted_odds": verdict.AdjustedOdds,
		}).Info("Parlay validated")
		return nil
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Suggest low-correlation parlay pairings",
	RunE: func(cmd *cobra.Command, args []string) error {
		var legs []parlay.Selection
		data, err := os.ReadFile(fixturesFile)
		if err != nil {
			return fmt.Errorf("reading legs: %w", err)
		}
		if err := json.Unmarshal(data, &legs); err != nil {
			return fmt.Errorf("parsing legs: %w", err)
		}

		validator := parlay.NewValidator(cfg.Model.Parlay, logger)
		recs := validator.Recommend(legs)
		if err := dataset.WriteJSON(outputFile, recs); err != nil {
			return fmt.Errorf("writing recommendations: %w", err)
		}

		logger.WithFields(logrus.Fields{
			"candidates":      len(legs),
			"recommendations": len(recs),
			"output":          outputFile,
		}).Info("Parlay pairings written")
		return nil
	},
}

func main() {
	rootCmd.AddCommand(fitCmd, runCmd, valueCmd, parlayCmd, recommendCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func fittedEngine() (*predictor.Engine, error) {
	if historyFile == "" {
		return nil, fmt.Errorf("--history is required")
	}
	history, err := dataset.LoadFixtures(historyFile)
	if err != nil {
		return nil, err
	}

	engine := predictor.New(cfg.Model, logger)
	if err := engine.Fit(history); err != nil {
		return nil, err
	}
	liveEngine.Store(engine)
	return engine, nil
}

func attachSideData(engine *predictor.Engine) error {
	if statsFile != "" {
		stats, err := dataset.LoadTeamStats(statsFile)
		if err != nil {
			return err
		}
		for _, s := range stats {
			engine.SetTeamStats(s)
		}
	}
	if refereesFile != "" {
		refs, err := dataset.LoadReferees(refereesFile)
		if err != nil {
			return err
		}
		for _, r := range refs {
			engine.SetReferee(r)
		}
	}
	if playersFile != "" {
		players, err := dataset.LoadPlayers(playersFile)
		if err != nil {
			return err
		}
		for teamID, ps := range players {
			engine.SetPlayers(teamID, ps)
		}
	}
	if qualityFile != "" {
		profiles, err := dataset.LoadQualityProfiles(qualityFile)
		if err != nil {
			return err
		}
		for _, q := range profiles {
			engine.SetQualityProfile(q)
		}
	}
	return nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	hh := health.NewHandler("predict", Version, GitCommit, logger)
	hh.AddCheck("model", func() error {
		if liveEngine.Load() == nil {
			return fmt.Errorf("no fitted model yet")
		}
		return nil
	})
	hh.Register(mux)

	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.WithField("error", err.Error()).Warn("metrics server stopped")
	}
}


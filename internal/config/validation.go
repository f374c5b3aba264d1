package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate checks struct tags plus cross-field model constraints.
func Validate(cfg *Config) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return validateCrossField(cfg)
}

func validateCrossField(cfg *Config) error {
	m := cfg.Model
	if w := m.GoalModelWeight + m.EloWeight; w > 0 && (w < 0.999 || w > 1.001) {
		return fmt.Errorf("model ensemble weights must sum to 1, got %.3f", w)
	}
	if m.DixonColes.RhoFloor > 0 {
		return fmt.Errorf("dixon_coles.rho_floor must be non-positive, got %.3f", m.DixonColes.RhoFloor)
	}
	if cfg.Backtest.MinConfidence < 0 || cfg.Backtest.MinConfidence > 1 {
		return fmt.Errorf("backtest.min_confidence must be in [0, 1], got %.3f", cfg.Backtest.MinConfidence)
	}
	return nil
}

func formatValidationErrors(errs validator.ValidationErrors) error {
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s validation", e.Namespace(), e.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

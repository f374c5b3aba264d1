package models

import "errors"

// Custom errors
var (
	ErrInsufficientData = errors.New("insufficient data to fit model")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnknownMarket    = errors.New("unknown market")
	ErrNotFitted        = errors.New("model has not been fitted")
	ErrNoOdds           = errors.New("no odds available")
)

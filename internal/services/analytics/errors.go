package analytics

import "errors"

var (
	// ErrInsufficientData means the model has too few observations to fit.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrNonPositive means an input that is log-transformed is not positive and finite.
	ErrNonPositive = errors.New("non-positive or non-finite input")
)

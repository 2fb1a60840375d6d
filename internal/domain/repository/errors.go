package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData means the source had no observations for the requested
	// ticker/field/window. Distinct from transport failures.
	ErrNoData = errors.New("series source: no data")

	// ErrDataUnavailable means an indicator's inputs could not be obtained
	// or lack the required lookback. The indicator is excluded and the
	// remaining weights renormalized.
	ErrDataUnavailable = errors.New("indicator data unavailable")

	// ErrInsufficientIndicators means too few indicators were available to
	// produce a composite score. The caller gets an explicit no-score state,
	// never a default number.
	ErrInsufficientIndicators = errors.New("insufficient indicators for composite score")

	// ErrUnknownRegion means the requested region has no configuration.
	ErrUnknownRegion = errors.New("unknown region")
)

// Unavailablef wraps ErrDataUnavailable with a formatted reason.
func Unavailablef(format string, a ...interface{}) error {
	return fmt.Errorf(format+": %w", append(a, ErrDataUnavailable)...)
}

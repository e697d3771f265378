package models

import "fmt"

// The engine reports failures as typed values carrying the failure kind and
// the offending input, matched by callers with errors.As. Nothing retries
// and nothing defaults silently: inputs are deterministic, so a retry with
// the same input reproduces the same failure.

// InsufficientDataError reports that the available history is too short for
// the requested window or horizon.
type InsufficientDataError struct {
	Context string // what was being computed, e.g. "return series"
	Need    int    // minimum observations required
	Got     int    // observations available
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: need at least %d observations, got %d", e.Context, e.Need, e.Got)
}

// InvalidParameterError reports a model parameter outside its valid range,
// such as a confidence level not in (0,1) or a component count exceeding the
// asset count.
type InvalidParameterError struct {
	Name   string // parameter name, e.g. "confidence"
	Value  any    // the rejected value
	Reason string // the constraint that was violated
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Name, e.Value, e.Reason)
}

// EmptyDistributionError reports a loss distribution with no observations
// reaching the quantile engine.
type EmptyDistributionError struct {
	Op string // the operation that received the empty distribution
}

func (e *EmptyDistributionError) Error() string {
	return fmt.Sprintf("%s: empty loss distribution", e.Op)
}

// InvalidMarketDataError reports non-physical market inputs: negative
// prices, negative implied volatility, a non-positive strike.
type InvalidMarketDataError struct {
	Field  string  // offending field, e.g. "implied_vol"
	Value  float64 // the rejected value
	Reason string
}

func (e *InvalidMarketDataError) Error() string {
	return fmt.Sprintf("invalid market data %s=%v: %s", e.Field, e.Value, e.Reason)
}

// NumericalInstabilityError reports a numerical routine that failed on
// otherwise well-formed inputs, such as an eigen decomposition that did not
// converge or a covariance matrix that is not positive semi-definite.
type NumericalInstabilityError struct {
	Op  string // the numerical operation, e.g. "cholesky"
	Err error  // underlying cause, may be nil
}

func (e *NumericalInstabilityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("numerical instability in %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("numerical instability in %s", e.Op)
}

func (e *NumericalInstabilityError) Unwrap() error {
	return e.Err
}

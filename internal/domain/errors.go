package domain

import "fmt"

// InputError signals malformed candles, unsorted timestamps, OHLC
// inconsistency, or insufficient bars for a requested window. It is
// fatal to the current symbol/run.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string { return fmt.Sprintf("input error: %s", e.Reason) }

// NewInputError constructs an InputError.
func NewInputError(reason string) *InputError { return &InputError{Reason: reason} }

// ConfigError signals an invalid weight, a NaN threshold, or a
// suppressed-regime label that does not exist. Detected at scorer
// construction time; fatal immediately.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: field %q: %s", e.Field, e.Reason)
}

// NewConfigError constructs a ConfigError.
func NewConfigError(field, reason string) *ConfigError {
	return &ConfigError{Field: field, Reason: reason}
}

// NumericEdge is never returned as an error: it documents behaviors
// that are silent rather than propagated, such as Sharpe
// being defined as 0 for a degenerate return series instead of NaN.
// The type exists so call sites can name the condition in comments
// and tests without inventing ad-hoc sentinels.
type NumericEdge struct {
	Description string
}

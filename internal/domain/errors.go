package domain

import (
	"errors"
	"fmt"
)

// DataError marks a per-company scoring failure caused by missing or
// unusable input data. It is fatal for that company only - a batch run
// records it and continues with the rest of the universe.
type DataError struct {
	Ticker string
	Reason string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("data error for %s: %s", e.Ticker, e.Reason)
}

// IsDataError reports whether err is (or wraps) a DataError.
func IsDataError(err error) bool {
	var de *DataError
	return errors.As(err, &de)
}

// ConfigError marks malformed scoring configuration - weight profiles that
// do not sum to one, tier bands with gaps or overlaps. It is fatal to an
// entire run and must surface before any company is scored.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Reason)
}

// AggregationError marks a portfolio-level condition the caller must
// render explicitly (e.g. "insufficient data") instead of a blank score.
type AggregationError struct {
	PortfolioID string
	Reason      string
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregation error for portfolio %s: %s", e.PortfolioID, e.Reason)
}

// Named aggregation conditions.
const (
	ReasonZeroValue  = "portfolio has zero total value"
	ReasonNoSnapshot = "holding has no resolvable score snapshot"
	ReasonNoHoldings = "portfolio has no holdings"
)

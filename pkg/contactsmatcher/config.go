package contactsmatcher

import (
	"fmt"
	"math"
)

const (
	// DefaultThreshold is the minimum composite score accepted as a match.
	DefaultThreshold = 0.85

	// DefaultMetric is the company-name metric used when none is configured.
	DefaultMetric = MetricTokenSet

	// weightTolerance is the allowed deviation of a weight sum from 1.0.
	weightTolerance = 1e-6
)

// Config holds the tunable matching parameters. A Config is validated when a
// Matcher is constructed and treated as read-only afterwards.
type Config struct {
	// Threshold is the minimum composite score in [0, 1] accepted as a match
	Threshold float64 `json:"threshold"`
	// Metric selects the company-name similarity metric
	Metric Metric `json:"metric"`
	// FieldWeights maps scored fields to their share of the composite score.
	// Weights must be non-negative and sum to 1.0. Nil means {name: 1.0}.
	FieldWeights map[Field]float64 `json:"field_weights,omitempty"`
}

// DefaultConfig returns the documented default settings: threshold 0.85,
// the tokenset metric, and company-name-only scoring.
func DefaultConfig() Config {
	return Config{
		Threshold:    DefaultThreshold,
		Metric:       DefaultMetric,
		FieldWeights: map[Field]float64{FieldName: 1.0},
	}
}

// Validate checks the configuration and returns a ConfigError describing the
// first problem found.
func (c Config) Validate() error {
	if math.IsNaN(c.Threshold) || c.Threshold < 0 || c.Threshold > 1 {
		return &ConfigError{
			Field:   "threshold",
			Details: fmt.Sprintf("must be in [0, 1], got %v", c.Threshold),
		}
	}
	if !c.Metric.Valid() {
		return &ConfigError{
			Field:   "metric",
			Details: fmt.Sprintf("unknown metric '%s' (supported: %v)", c.Metric, Metrics()),
		}
	}
	if c.FieldWeights == nil {
		return nil
	}

	sum := 0.0
	for field, weight := range c.FieldWeights {
		if !field.Valid() {
			return &ConfigError{
				Field:   "field_weights",
				Details: fmt.Sprintf("unknown field '%s' (supported: %v)", field, Fields()),
			}
		}
		if math.IsNaN(weight) || weight < 0 {
			return &ConfigError{
				Field:   "field_weights",
				Details: fmt.Sprintf("weight for '%s' must be non-negative, got %v", field, weight),
			}
		}
		sum += weight
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return &ConfigError{
			Field:   "field_weights",
			Details: fmt.Sprintf("weights must sum to 1.0, got %v", sum),
		}
	}
	return nil
}

// clone returns a deep copy so callers cannot mutate a Matcher's settings.
func (c Config) clone() Config {
	out := c
	if c.FieldWeights != nil {
		out.FieldWeights = make(map[Field]float64, len(c.FieldWeights))
		for field, weight := range c.FieldWeights {
			out.FieldWeights[field] = weight
		}
	}
	return out
}

// fieldWeight is one configured field in canonical order.
type fieldWeight struct {
	field  Field
	weight float64
}

// orderedWeights returns the effective field weights in canonical field
// order, substituting name-only scoring for a nil map.
func (c Config) orderedWeights() []fieldWeight {
	if c.FieldWeights == nil {
		return []fieldWeight{{field: FieldName, weight: 1.0}}
	}
	weights := make([]fieldWeight, 0, len(c.FieldWeights))
	for _, field := range fieldOrder {
		if weight, ok := c.FieldWeights[field]; ok {
			weights = append(weights, fieldWeight{field: field, weight: weight})
		}
	}
	return weights
}

// Package chromatin builds stochastic models of nucleosome-wrapped DNA with
// restriction-enzyme cut sites.
package chromatin

import (
	"errors"
	"fmt"
	"math"
)

// DefaultRetryBudget is the number of draws a single rejection loop may make
// before the build is abandoned.
const DefaultRetryBudget = 10000

var (
	// ErrInvalidConfig matches every *ConfigError.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrRetryBudgetExceeded is returned when a rejection loop runs out of attempts.
	ErrRetryBudgetExceeded = errors.New("retry budget exceeded")
	// ErrInvariantViolation signals an internal fault in model construction.
	ErrInvariantViolation = errors.New("model invariant violated")
)

// ConfigError describes a single rejected configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrInvalidConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Config holds the parameters of one model build.
type Config struct {
	WrapLength           int
	MeanLinkerLength     int
	LinkerVariance       float64
	TotalNucleosomes     int
	MissingFraction      float64
	CutsPerKilobasePairs float64
	RetryBudget          int
}

// DefaultConfig returns the canonical model: 146 bp wrapped per nucleosome,
// 20 bp linkers, 1000 nucleosomes, all attached, one cut per 3 kbp unit.
func DefaultConfig() Config {
	return Config{
		WrapLength:           146,
		MeanLinkerLength:     20,
		LinkerVariance:       0,
		TotalNucleosomes:     1000,
		MissingFraction:      0,
		CutsPerKilobasePairs: 1,
		RetryBudget:          DefaultRetryBudget,
	}
}

// Validate checks that every rejection loop of a build can terminate.
func (c Config) Validate() error {
	switch {
	case c.WrapLength <= 0:
		return &ConfigError{Field: "wrap length", Reason: fmt.Sprintf("must be positive, got %d", c.WrapLength)}
	case c.MeanLinkerLength <= 0:
		return &ConfigError{Field: "mean linker length", Reason: fmt.Sprintf("must be positive, got %d", c.MeanLinkerLength)}
	case math.IsNaN(c.LinkerVariance) || math.IsInf(c.LinkerVariance, 0) || c.LinkerVariance < 0:
		return &ConfigError{Field: "linker variance", Reason: fmt.Sprintf("must be finite and >= 0, got %g", c.LinkerVariance)}
	case c.TotalNucleosomes < 0:
		return &ConfigError{Field: "total nucleosomes", Reason: fmt.Sprintf("must be >= 0, got %d", c.TotalNucleosomes)}
	case math.IsNaN(c.MissingFraction) || c.MissingFraction < 0 || c.MissingFraction > 1:
		return &ConfigError{Field: "missing fraction", Reason: fmt.Sprintf("must be in [0,1], got %g", c.MissingFraction)}
	case math.IsNaN(c.CutsPerKilobasePairs) || math.IsInf(c.CutsPerKilobasePairs, 0) || c.CutsPerKilobasePairs < 0:
		return &ConfigError{Field: "cuts per kbp", Reason: fmt.Sprintf("must be finite and >= 0, got %g", c.CutsPerKilobasePairs)}
	case c.RetryBudget <= 0:
		return &ConfigError{Field: "retry budget", Reason: fmt.Sprintf("must be positive, got %d", c.RetryBudget)}
	}
	return nil
}

// DetachCount returns floor(TotalNucleosomes * MissingFraction).
func (c Config) DetachCount() int {
	return int(float64(c.TotalNucleosomes) * c.MissingFraction)
}

// ConfigFromControls applies the three interactive control values to base.
// missingPercent is 0-100, variance is the linker variance in bp^2.
func ConfigFromControls(base Config, missingPercent, variance int, cutsPerKbp float64) Config {
	cfg := base
	cfg.MissingFraction = float64(missingPercent) / 100.0
	cfg.LinkerVariance = float64(variance)
	cfg.CutsPerKilobasePairs = cutsPerKbp
	return cfg
}

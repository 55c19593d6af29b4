package chromatin

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 146, cfg.WrapLength)
	assert.Equal(t, 20, cfg.MeanLinkerLength)
	assert.Equal(t, 1000, cfg.TotalNucleosomes)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero wrap", func(c *Config) { c.WrapLength = 0 }, "wrap length"},
		{"negative linker", func(c *Config) { c.MeanLinkerLength = -1 }, "mean linker length"},
		{"zero linker with variance", func(c *Config) { c.MeanLinkerLength = 0; c.LinkerVariance = 4 }, "mean linker length"},
		{"negative variance", func(c *Config) { c.LinkerVariance = -1 }, "linker variance"},
		{"NaN variance", func(c *Config) { c.LinkerVariance = math.NaN() }, "linker variance"},
		{"negative count", func(c *Config) { c.TotalNucleosomes = -5 }, "total nucleosomes"},
		{"missing above one", func(c *Config) { c.MissingFraction = 1.01 }, "missing fraction"},
		{"missing below zero", func(c *Config) { c.MissingFraction = -0.1 }, "missing fraction"},
		{"negative cuts", func(c *Config) { c.CutsPerKilobasePairs = -2 }, "cuts per kbp"},
		{"infinite cuts", func(c *Config) { c.CutsPerKilobasePairs = math.Inf(1) }, "cuts per kbp"},
		{"zero budget", func(c *Config) { c.RetryBudget = 0 }, "retry budget"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)

			var ce *ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestConfig_ValidateBoundaries(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MissingFraction = 1
	cfg.TotalNucleosomes = 0
	cfg.CutsPerKilobasePairs = 0
	assert.NoError(t, cfg.Validate())
}

func TestConfig_DetachCountTruncates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TotalNucleosomes = 7
	cfg.MissingFraction = 0.5
	assert.Equal(t, 3, cfg.DetachCount())

	cfg.MissingFraction = 1
	assert.Equal(t, 7, cfg.DetachCount())
}

func TestConfigFromControls(t *testing.T) {
	base := DefaultConfig()
	cfg := ConfigFromControls(base, 25, 16, 2.5)

	assert.InDelta(t, 0.25, cfg.MissingFraction, 1e-12)
	assert.Equal(t, 16.0, cfg.LinkerVariance)
	assert.Equal(t, 2.5, cfg.CutsPerKilobasePairs)
	assert.Equal(t, base.WrapLength, cfg.WrapLength)
	assert.Equal(t, 0.0, base.MissingFraction, "base is not modified")
}

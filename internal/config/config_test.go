package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/calcengine"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("CALC_ANGLE", "deg")
	t.Setenv("CALC_PRECISION", "30")
	t.Setenv("CALC_MAX_DEPTH", "16")
	t.Setenv("CALC_DIGITS", "8")
	t.Setenv("CALC_DECIMAL_SEPARATOR", ",")
	t.Setenv("CALC_GROUPING_SEPARATOR", ".")
	t.Setenv("CALC_WORKERS", "2")
	t.Setenv("CALC_LOG_LEVEL", "debug")
	t.Setenv("CALC_LOG_DEV", "true")

	cfg, err := Load()
	require.NoError(t, err)
	want := &Config{
		Angle:             calcengine.Degrees,
		Precision:         30,
		MaxDepth:          16,
		Digits:            8,
		DecimalSeparator:  ",",
		GroupingSeparator: ".",
		Workers:           2,
		LogLevel:          "debug",
		LogDev:            true,
	}
	assert.Equal(t, want, cfg)

	ctx := calcengine.NewContext(cfg.ContextOptions()...)
	assert.Equal(t, calcengine.Degrees, ctx.AngleMode())
	assert.Equal(t, uint(30), ctx.Prec())

	l := cfg.Logging()
	assert.Equal(t, "debug", l.Level)
	assert.True(t, l.Development)
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name, key, value string
	}{
		{"angle", "CALC_ANGLE", "gradians"},
		{"precision", "CALC_PRECISION", "many"},
		{"zeroprec", "CALC_PRECISION", "0"},
		{"workers", "CALC_WORKERS", "0"},
		{"digits", "CALC_DIGITS", "-1"},
		{"separators", "CALC_GROUPING_SEPARATOR", "."},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Setenv(c.key, c.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestContextOptionsEvaluate(t *testing.T) {
	cfg := Default()
	cfg.Angle = calcengine.Degrees
	r, err := calcengine.Calculate("sin(30)", cfg.DecimalSeparator, cfg.GroupingSeparator, cfg.ContextOptions()...)
	require.NoError(t, err)
	assert.Equal(t, "0.5", calcengine.Format(r, cfg.Digits))
}

package config

import (
	"testing"

	"qisim/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"PORT", "GIN_MODE", "LOG_LEVEL", "SIM_SEED", "SIM_DEFAULT_PARTICIPANTS",
		"SIM_MAX_PARTICIPANTS", "EXPORT_DIR", "REPORT_TITLE"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, int64(0), cfg.Simulation.Seed)
	assert.Equal(t, 100, cfg.Simulation.DefaultParticipants)
	assert.Equal(t, 50000, cfg.Simulation.MaxParticipants)
	assert.Equal(t, "./exports", cfg.Paths.ExportDir)
	assert.Equal(t, DefaultReportTitle, cfg.Report.Title)
	assert.Equal(t, "INFO", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SIM_SEED", "42")
	t.Setenv("SIM_DEFAULT_PARTICIPANTS", "250")
	t.Setenv("SIM_MAX_PARTICIPANTS", "200")
	t.Setenv("REPORT_TITLE", "Ward 4 review")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, int64(42), cfg.Simulation.Seed)
	assert.Equal(t, 200, cfg.Simulation.DefaultParticipants, "default is capped by the maximum")
	assert.Equal(t, "Ward 4 review", cfg.Report.Title)
}

func TestLoad_BadNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("SIM_SEED", "abc")
	t.Setenv("SIM_DEFAULT_PARTICIPANTS", "many")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(0), cfg.Simulation.Seed)
	assert.Equal(t, 100, cfg.Simulation.DefaultParticipants)
}

func TestLoad_InvalidMaximum(t *testing.T) {
	clearEnv(t)
	t.Setenv("SIM_MAX_PARTICIPANTS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

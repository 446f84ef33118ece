package api

import (
	"context"
	"io"
	"testing"

	"qisim/adapters/rng"
	"qisim/domain/cohort"
	"qisim/domain/core"
	"qisim/internal"
	"qisim/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, seed int64) *Service {
	t.Helper()
	cfg := &config.Config{Simulation: config.SimulationConfig{Seed: seed, DefaultParticipants: 10, MaxParticipants: 100}}
	return NewService(cfg, rng.NewProvider(), internal.NewLoggerTo(io.Discard, internal.LogLevelError))
}

func TestServiceUsesConfiguredSeed(t *testing.T) {
	s := newTestService(t, 77)
	cfg := cohort.DefaultSimulationConfig()
	cfg.NumParticipants = 5

	info, err := s.Simulate(cfg, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(77), info.Seed)

	again, err := s.Simulate(cfg, 77)
	require.NoError(t, err)
	assert.Equal(t, info.Fingerprint, again.Fingerprint)
}

func TestServicePage(t *testing.T) {
	s := newTestService(t, 1)
	ps := make([]cohort.Participant, 6)
	for i := range ps {
		ps[i].ID = core.ParticipantID(string(rune('a' + i)))
	}
	_, err := s.Import(ps)
	require.NoError(t, err)

	page, total := s.Page(4, 10)
	assert.Equal(t, 6, total)
	assert.Len(t, page, 2)

	page, _ = s.Page(-3, 2)
	assert.Equal(t, core.ParticipantID("a"), page[0].ID)

	page, _ = s.Page(50, 2)
	assert.Empty(t, page)
}

func TestServiceImportLimit(t *testing.T) {
	s := newTestService(t, 1)
	_, err := s.Import(make([]cohort.Participant, 101))
	assert.Error(t, err)
}

func TestCorrelationsHonoursCancellation(t *testing.T) {
	s := newTestService(t, 1)
	cfg := cohort.DefaultSimulationConfig()
	cfg.NumParticipants = 20
	_, err := s.Simulate(cfg, 0)
	require.NoError(t, err)

	cells, err := s.Correlations(context.Background(), []string{"age", "riskScore", "lengthOfStay", "readmissionRisk"})
	require.NoError(t, err)
	assert.Len(t, cells, 6)
	for _, cell := range cells {
		assert.Equal(t, 20, cell.N)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Correlations(ctx, []string{"age", "riskScore"})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.Correlations(context.Background(), []string{"age", "bad..path"})
	assert.Error(t, err)
}

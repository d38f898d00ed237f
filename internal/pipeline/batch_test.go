package pipeline

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flood-guardian/flood-guardian-api-poc/internal/config"
)

func TestRunBatch(t *testing.T) {
	cfg := config.Default()
	cfg.CanonicalSize = 64
	p := New(cfg, zerolog.Nop())

	jobs := []Job{
		{ID: "dry", Radar: radarScene(64, 0.9, 0.9)},
		{ID: "wet", Radar: radarScene(64, 0.05, 0.05)},
	}

	results, err := p.RunBatch(jobs)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 0, results["dry"].Statistics().FloodPixels)
	assert.Greater(t, results["wet"].Statistics().FloodPixels, 0)
}

func TestRunBatch_FirstErrorAborts(t *testing.T) {
	cfg := config.Default()
	cfg.CanonicalSize = 64
	p := New(cfg, zerolog.Nop())

	jobs := []Job{
		{ID: "ok", Radar: radarScene(64, 0.9, 0.9)},
		{ID: "broken"}, // no scenes at all
	}

	_, err := p.RunBatch(jobs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestRunBatch_NoJobs(t *testing.T) {
	p := New(config.Default(), zerolog.Nop())
	_, err := p.RunBatch(nil)
	require.Error(t, err)
}

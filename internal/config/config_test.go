package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultIsUsable(t *testing.T) {
	cfg := Default()
	assert.NotEmpty(t, cfg.RadioBinPath)
	assert.Equal(t, uint32(2_000_000), cfg.SampleRate)
	assert.Equal(t, "max", cfg.GainMode)
	assert.Equal(t, "none", cfg.RendererBackend)
	assert.Len(t, cfg.AcarsChannelsHz, 3)
	assert.Contains(t, cfg.Services, "reader")
	assert.Contains(t, cfg.Services, "processAdsb")
	assert.Contains(t, cfg.Services, "processAcars")
}

func TestLoadWithoutConfigFileFallsBackToDefaults(t *testing.T) {
	prev, err := os.Getwd()
	assert.NoError(t, err)
	defer os.Chdir(prev)
	assert.NoError(t, os.Chdir(t.TempDir()))

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, Default().RadioBinPath, cfg.RadioBinPath)
	assert.Equal(t, Default().SampleRate, cfg.SampleRate)
	assert.Equal(t, Default().RendererBackend, cfg.RendererBackend)
}

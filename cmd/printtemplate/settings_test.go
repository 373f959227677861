package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gardar/printtemplate/pkg/render"
)

// Tests in this file use t.Setenv and cannot run in parallel.

func TestLoadSettingsDefaults(t *testing.T) {
	cfg, err := loadSettings("")
	require.NoError(t, err)

	want := render.DefaultConfig()
	require.Equal(t, want.BackgroundPage, cfg.BackgroundPage)
	require.Equal(t, want.RegionLayer, cfg.RegionLayer)
	require.Equal(t, want.TextLayer, cfg.TextLayer)
	require.Equal(t, want.Font, cfg.Font)
	require.True(t, cfg.LogWarnings)
	require.False(t, cfg.Debug)
}

func TestLoadSettingsFileAndEnv(t *testing.T) {
	path := writeFile(t, "settings.yml", `debug: true
background_page: 2
layers:
  regions: Frames
font:
  name: Times
  style: B
  size: 12
`)
	t.Setenv("PRINTTEMPLATE_FONT_SIZE", "14")
	t.Setenv("PRINTTEMPLATE_LAYERS_TEXT", "Labels")

	cfg, err := loadSettings(path)
	require.NoError(t, err)
	require.True(t, cfg.Debug)
	require.Equal(t, 2, cfg.BackgroundPage)
	require.Equal(t, "Frames", cfg.RegionLayer)
	require.Equal(t, "Labels", cfg.TextLayer)
	require.Equal(t, render.FontConfig{Name: "Times", Style: "B", Size: 14}, cfg.Font)
}

func TestLoadSettingsErrors(t *testing.T) {
	_, err := loadSettings(writeFile(t, "bad.yml", "font: [unclosed"))
	require.ErrorContains(t, err, "read settings")

	t.Setenv("PRINTTEMPLATE_FONT_SIZE", "0")
	_, err = loadSettings("")
	require.ErrorContains(t, err, "font size must be positive")
}

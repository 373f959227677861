package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/gardar/printtemplate/pkg/render"
)

// loadSettings builds the render config from defaults, an optional YAML
// settings file and PRINTTEMPLATE_* environment variables, in increasing
// order of precedence.
//
//	debug: false
//	force: false
//	warnings: true
//	background_page: 1
//	layers:
//	  regions: Regions
//	  text: Text fields
//	font:
//	  name: Helvetica
//	  style: ""
//	  size: 10
func loadSettings(path string) (render.Config, error) {
	defaults := render.DefaultConfig()

	v := viper.New()
	v.SetDefault("debug", defaults.Debug)
	v.SetDefault("force", defaults.Force)
	v.SetDefault("warnings", defaults.LogWarnings)
	v.SetDefault("background_page", defaults.BackgroundPage)
	v.SetDefault("layers.regions", defaults.RegionLayer)
	v.SetDefault("layers.text", defaults.TextLayer)
	v.SetDefault("font.name", defaults.Font.Name)
	v.SetDefault("font.style", defaults.Font.Style)
	v.SetDefault("font.size", defaults.Font.Size)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return render.Config{}, fmt.Errorf("read settings: %w", err)
		}
	}

	v.SetEnvPrefix("PRINTTEMPLATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := defaults
	cfg.Debug = v.GetBool("debug")
	cfg.Force = v.GetBool("force")
	cfg.LogWarnings = v.GetBool("warnings")
	cfg.BackgroundPage = v.GetInt("background_page")
	cfg.RegionLayer = v.GetString("layers.regions")
	cfg.TextLayer = v.GetString("layers.text")
	cfg.Font = render.FontConfig{
		Name:  v.GetString("font.name"),
		Style: v.GetString("font.style"),
		Size:  v.GetFloat64("font.size"),
	}

	if cfg.Font.Size <= 0 {
		return render.Config{}, fmt.Errorf("font size must be positive, got %v", cfg.Font.Size)
	}
	if cfg.RegionLayer == "" || cfg.TextLayer == "" {
		return render.Config{}, fmt.Errorf("layer names must not be empty")
	}
	return cfg, nil
}

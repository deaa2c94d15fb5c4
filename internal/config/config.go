package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the immutable run configuration built once in main and passed
// into every stage. Stages never write it back.
type Config struct {
	MatchPath   string `yaml:"match"`
	OutputDir   string `yaml:"output_dir"`
	OutputVideo string `yaml:"output"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	FPS         int    `yaml:"fps"`
	Workers     int    `yaml:"workers"`

	FadeDuration   float64 `yaml:"fade"`
	TransitionType string  `yaml:"transition"`

	ChartDuration float64 `yaml:"chart_duration"`

	VideoEncoder string `yaml:"encoder"`
	Quality      int    `yaml:"quality"`

	MockMode bool `yaml:"mock"`
	PlanOnly bool `yaml:"plan_only"`

	ScriptAPIKey   string `yaml:"gemini_api_key"`
	AvatarProvider string `yaml:"avatar_provider"`
	AvatarAPIKey   string `yaml:"avatar_api_key"`

	BackgroundAudio  string  `yaml:"background_audio"`
	BackgroundVolume float64 `yaml:"background_volume"`

	ScorecardURL string `yaml:"scorecard_url"`

	Style Style `yaml:"style"`
}

// Style is the chart/overlay palette, dark broadcast look by default.
type Style struct {
	Primary    string `yaml:"primary"`
	Secondary  string `yaml:"secondary"`
	Accent     string `yaml:"accent"`
	Success    string `yaml:"success"`
	Background string `yaml:"background"`
	Surface    string `yaml:"surface"`
	Text       string `yaml:"text"`
}

// Default returns the baseline configuration. CLI flags and an optional
// YAML file are merged over it.
func Default() Config {
	return Config{
		OutputDir:        "output",
		Width:            1920,
		Height:           1080,
		FPS:              30,
		FadeDuration:     0.5,
		TransitionType:   "fade",
		ChartDuration:    8.0,
		VideoEncoder:     "libx264",
		Quality:          23,
		AvatarProvider:   "mock",
		BackgroundVolume: 0.2,
		Style:            DefaultStyle(),
	}
}

// DefaultStyle returns the default palette.
func DefaultStyle() Style {
	return Style{
		Primary:    "#00A8E8",
		Secondary:  "#F4D03F",
		Accent:     "#E74C3C",
		Success:    "#2ECC71",
		Background: "#1C1C1C",
		Surface:    "#2C2C2C",
		Text:       "#FFFFFF",
	}
}

// LoadFile merges a YAML config file over cfg. Style fields left empty in
// the file keep their defaults.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config read error: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config parse error: %w", err)
	}
	cfg.Style = mergeStyle(cfg.Style)
	return nil
}

func mergeStyle(s Style) Style {
	def := DefaultStyle()
	pick := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}
	return Style{
		Primary:    pick(s.Primary, def.Primary),
		Secondary:  pick(s.Secondary, def.Secondary),
		Accent:     pick(s.Accent, def.Accent),
		Success:    pick(s.Success, def.Success),
		Background: pick(s.Background, def.Background),
		Surface:    pick(s.Surface, def.Surface),
		Text:       pick(s.Text, def.Text),
	}
}

package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kikiluvv/partsplit/internal/clips"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	// FFmpeg settings
	FFmpeg FFmpegConfig `yaml:"ffmpeg"`

	// Part label drawn onto clips
	Label LabelConfig `yaml:"label"`

	// Blurred background used by the reframing graphs
	Background BackgroundConfig `yaml:"background"`

	// Values prefilled in the CLI flags, form and GUI
	Defaults DefaultsConfig `yaml:"defaults"`

	UI UIConfig `yaml:"ui"`
}

type FFmpegConfig struct {
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`
	VideoCodec  string `yaml:"video_codec"`
	Preset      string `yaml:"preset"`
	CRF         int    `yaml:"crf"`

	// Lines of encoder output kept for failure reports
	TailLines int `yaml:"tail_lines"`

	// How long a cancelled encode may take to exit after the interrupt before it is killed
	CancelGrace time.Duration `yaml:"cancel_grace"`
}

type LabelConfig struct {
	FontSize  int    `yaml:"font_size"`
	FontColor string `yaml:"font_color"`
	Y         int    `yaml:"y"`
	BoxColor  string `yaml:"box_color"`
	BoxBorder int    `yaml:"box_border"`
}

type BackgroundConfig struct {
	Blur string `yaml:"blur"`
}

type DefaultsConfig struct {
	ClipDuration int               `yaml:"clip_duration"`
	Aspect       clips.AspectRatio `yaml:"aspect"`
	AddLabel     bool              `yaml:"add_label"`
}

type UIConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	LogLines     int           `yaml:"log_lines"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.fillZeroes()
	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, data, 0644)
}

// Marshal renders the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		FFmpeg: FFmpegConfig{
			FFmpegPath:  "ffmpeg",
			FFprobePath: "ffprobe",
			VideoCodec:  "libx264",
			Preset:      "slow",
			CRF:         18,
			TailLines:   20,
			CancelGrace: 5 * time.Second,
		},
		Label: LabelConfig{
			FontSize:  48,
			FontColor: "white",
			Y:         60,
			BoxColor:  "black@0.5",
			BoxBorder: 5,
		},
		Background: BackgroundConfig{
			Blur: "10:5",
		},
		Defaults: DefaultsConfig{
			ClipDuration: 60,
			Aspect:       clips.AspectOriginal,
			AddLabel:     false,
		},
		UI: UIConfig{
			PollInterval: 100 * time.Millisecond,
			LogLines:     12,
		},
	}
}

// fillZeroes restores defaults for values a partial config file left empty
func (c *Config) fillZeroes() {
	d := Default()
	if c.FFmpeg.FFmpegPath == "" {
		c.FFmpeg.FFmpegPath = d.FFmpeg.FFmpegPath
	}
	if c.FFmpeg.FFprobePath == "" {
		c.FFmpeg.FFprobePath = d.FFmpeg.FFprobePath
	}
	if c.FFmpeg.VideoCodec == "" {
		c.FFmpeg.VideoCodec = d.FFmpeg.VideoCodec
	}
	if c.FFmpeg.Preset == "" {
		c.FFmpeg.Preset = d.FFmpeg.Preset
	}
	if c.FFmpeg.TailLines <= 0 {
		c.FFmpeg.TailLines = d.FFmpeg.TailLines
	}
	if c.FFmpeg.CancelGrace <= 0 {
		c.FFmpeg.CancelGrace = d.FFmpeg.CancelGrace
	}
	if c.Label.FontSize <= 0 {
		c.Label.FontSize = d.Label.FontSize
	}
	if c.Label.FontColor == "" {
		c.Label.FontColor = d.Label.FontColor
	}
	if c.Label.BoxColor == "" {
		c.Label.BoxColor = d.Label.BoxColor
	}
	if c.Background.Blur == "" {
		c.Background.Blur = d.Background.Blur
	}
	if c.Defaults.ClipDuration <= 0 {
		c.Defaults.ClipDuration = d.Defaults.ClipDuration
	}
	if c.UI.PollInterval <= 0 {
		c.UI.PollInterval = d.UI.PollInterval
	}
	if c.UI.LogLines <= 0 {
		c.UI.LogLines = d.UI.LogLines
	}
}

func findConfigFile() string {
	candidates := []string{
		"./partsplit.yaml",
		"./partsplit.yml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".partsplit", "config.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return Default()
}

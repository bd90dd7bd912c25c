package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kikiluvv/partsplit/internal/clips"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FFmpeg.Preset != "slow" || cfg.FFmpeg.CRF != 18 || cfg.FFmpeg.VideoCodec != "libx264" {
		t.Errorf("unexpected encode defaults: %+v", cfg.FFmpeg)
	}
	if cfg.Defaults.ClipDuration != 60 {
		t.Errorf("ClipDuration = %d", cfg.Defaults.ClipDuration)
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partsplit.yaml")
	data := `
ffmpeg:
  preset: veryfast
  crf: 23
defaults:
  aspect: reels
  add_label: true
ui:
  poll_interval: 250ms
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FFmpeg.Preset != "veryfast" || cfg.FFmpeg.CRF != 23 {
		t.Errorf("overrides not applied: %+v", cfg.FFmpeg)
	}
	if cfg.FFmpeg.VideoCodec != "libx264" {
		t.Errorf("untouched value lost: %q", cfg.FFmpeg.VideoCodec)
	}
	if cfg.Defaults.Aspect != clips.AspectReels || !cfg.Defaults.AddLabel {
		t.Errorf("defaults not applied: %+v", cfg.Defaults)
	}
	if cfg.UI.PollInterval != 250*time.Millisecond {
		t.Errorf("PollInterval = %v", cfg.UI.PollInterval)
	}
	if cfg.Label.FontSize != 48 {
		t.Errorf("FontSize = %d", cfg.Label.FontSize)
	}
}

func TestLoadInvalidAspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("defaults:\n  aspect: widescreen\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown aspect")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.FFmpeg.CRF = 20
	cfg.Defaults.Aspect = clips.AspectSquare

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.FFmpeg.CRF != 20 || back.Defaults.Aspect != clips.AspectSquare {
		t.Errorf("round trip lost values: %+v %+v", back.FFmpeg, back.Defaults)
	}
}

func TestContextHelpers(t *testing.T) {
	if FromContext(context.Background()).FFmpeg.FFmpegPath != "ffmpeg" {
		t.Error("expected defaults without stored config")
	}
	cfg := Default()
	cfg.FFmpeg.FFmpegPath = "/opt/ffmpeg"
	ctx := WithConfig(context.Background(), cfg)
	if FromContext(ctx) != cfg {
		t.Error("expected stored config")
	}
}

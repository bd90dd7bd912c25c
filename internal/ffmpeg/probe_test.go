package ffmpeg

import (
	"context"
	"errors"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/partsplit/internal/config"
)

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("125.480000\n")
	if err != nil {
		t.Fatalf("ParseDuration: %v", err)
	}
	if math.Abs(d-125.48) > 1e-9 {
		t.Errorf("duration = %v", d)
	}

	for _, bad := range []string{"", "N/A", "0", "-3.5", "NaN", "+Inf"} {
		_, err := ParseDuration(bad)
		var pe *ProbeError
		if !errors.As(err, &pe) {
			t.Errorf("ParseDuration(%q): expected ProbeError, got %v", bad, err)
			continue
		}
		if pe.Kind != ProbeUnparsableOutput {
			t.Errorf("ParseDuration(%q): kind %v", bad, pe.Kind)
		}
	}
}

func TestProbeDuration(t *testing.T) {
	e := fakeExecutor(t, `echo "45.000000"
`)

	d, err := e.ProbeDuration(context.Background(), "/in/short.mp4")
	if err != nil {
		t.Fatalf("ProbeDuration: %v", err)
	}
	if d != 45 {
		t.Errorf("duration = %v", d)
	}
}

func TestProbeDurationNonZeroExit(t *testing.T) {
	e := fakeExecutor(t, `echo "/in/missing.mp4: No such file or directory" 1>&2
exit 1
`)

	_, err := e.ProbeDuration(context.Background(), "/in/missing.mp4")

	var pe *ProbeError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProbeError, got %v", err)
	}
	if pe.Kind != ProbeNonZeroExit {
		t.Errorf("kind = %v", pe.Kind)
	}
	if pe.Output == "" {
		t.Error("expected stderr to be captured")
	}
}

func TestProbeDurationUnparsable(t *testing.T) {
	e := fakeExecutor(t, `echo "N/A"
`)

	_, err := e.ProbeDuration(context.Background(), "/in/stream.ts")

	var pe *ProbeError
	if !errors.As(err, &pe) || pe.Kind != ProbeUnparsableOutput {
		t.Fatalf("expected unparsable ProbeError, got %v", err)
	}
	if pe.Path != "/in/stream.ts" {
		t.Errorf("Path = %q", pe.Path)
	}
}

func TestProbeDurationNotFound(t *testing.T) {
	e := &Executor{logger: zerolog.Nop(), ffprobePath: filepath.Join(t.TempDir(), "gone")}

	_, err := e.ProbeDuration(context.Background(), "in.mp4")

	var pe *ProbeError
	if !errors.As(err, &pe) || pe.Kind != ProbeNotFound {
		t.Fatalf("expected not-found ProbeError, got %v", err)
	}
}

func TestProbeDurationRealFile(t *testing.T) {
	skipIfNoFFmpeg(t)

	video := filepath.Join(t.TempDir(), "test.mp4")
	cmd := exec.Command("ffmpeg", "-f", "lavfi", "-i", "testsrc=duration=2:size=320x240:rate=30",
		"-pix_fmt", "yuv420p", "-y", video)
	if err := cmd.Run(); err != nil {
		t.Skipf("Could not generate test video: %v", err)
	}

	e, err := New(zerolog.New(os.Stderr), config.Default().FFmpeg)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}

	d, err := e.ProbeDuration(context.Background(), video)
	if err != nil {
		t.Fatalf("ProbeDuration: %v", err)
	}
	if math.Abs(d-2) > 0.1 {
		t.Errorf("expected ~2s, got %v", d)
	}
}

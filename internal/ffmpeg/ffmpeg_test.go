package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/partsplit/internal/config"
)

// skipIfNoFFmpeg skips the test if ffmpeg is not available
func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH - install with: brew install ffmpeg")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH - install with: brew install ffmpeg")
	}
}

// fakeTool writes an executable shell script standing in for ffmpeg or ffprobe
func fakeTool(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are shell scripts")
	}
	path := filepath.Join(t.TempDir(), "fake-tool")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatalf("write fake tool: %v", err)
	}
	return path
}

func fakeExecutor(t *testing.T, body string) *Executor {
	t.Helper()
	path := fakeTool(t, body)
	return &Executor{
		logger:      zerolog.Nop(),
		ffmpegPath:  path,
		ffprobePath: path,
		tailLines:   3,
		cancelGrace: 2 * time.Second,
	}
}

func TestExecutorCreation(t *testing.T) {
	skipIfNoFFmpeg(t)

	logger := zerolog.New(os.Stderr)
	exec, err := New(logger, config.Default().FFmpeg)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}
	if exec.ffmpegPath == "" {
		t.Error("ffmpeg path is empty")
	}
	if exec.ffprobePath == "" {
		t.Error("ffprobe path is empty")
	}

	t.Logf("ffmpeg: %s", exec.ffmpegPath)
	t.Logf("ffprobe: %s", exec.ffprobePath)
}

func TestNewMissingBinary(t *testing.T) {
	cfg := config.Default().FFmpeg
	cfg.FFmpegPath = filepath.Join(t.TempDir(), "no-such-ffmpeg")

	_, err := New(zerolog.Nop(), cfg)

	var depErr *DependencyError
	if !errors.As(err, &depErr) {
		t.Fatalf("expected DependencyError, got %v", err)
	}
	if depErr.Name != "ffmpeg" {
		t.Errorf("Name = %q", depErr.Name)
	}
	if errs := CheckTools(cfg); len(errs) == 0 {
		t.Error("CheckTools should report the missing binary")
	}
}

func TestRunStreamsLinesAndProgress(t *testing.T) {
	e := fakeExecutor(t, `echo "ffmpeg version fake"
printf 'frame=   10 fps=0.0 q=28.0 size=       0kB time=00:00:01.00 bitrate=N/A speed=2x\r'
printf 'frame=   20 fps=20 q=28.0 size=     256kB time=00:00:02.50 bitrate= 838.9kbits/s speed=2.1x\r'
echo "written to stderr" 1>&2
echo
exit 0
`)

	var lines []string
	var progress []*Progress
	err := e.Run(context.Background(), RunOptions{
		Args:            []string{"-i", "in.mp4", "out.mp4"},
		LogHandler:      func(line string) { lines = append(lines, line) },
		ProgressHandler: func(p *Progress) { progress = append(progress, p) },
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), lines)
	}
	if lines[0] != "ffmpeg version fake" || lines[3] != "written to stderr" {
		t.Errorf("unexpected lines: %q", lines)
	}

	if len(progress) != 2 {
		t.Fatalf("expected 2 progress updates, got %d", len(progress))
	}
	last := progress[1]
	if last.Frame != 20 || last.Elapsed != 2500*time.Millisecond || last.Speed != "2.1x" {
		t.Errorf("unexpected progress: %+v", last)
	}
}

func TestRunNonZeroExit(t *testing.T) {
	e := fakeExecutor(t, `for i in 1 2 3 4 5; do echo "line $i"; done
echo "Conversion failed!" 1>&2
exit 3
`)

	err := e.Run(context.Background(), RunOptions{Args: []string{"x"}})

	var failure *EncodeFailure
	if !errors.As(err, &failure) {
		t.Fatalf("expected EncodeFailure, got %v", err)
	}
	if failure.ExitCode != 3 {
		t.Errorf("ExitCode = %d", failure.ExitCode)
	}
	want := []string{"line 4", "line 5", "Conversion failed!"}
	if !reflect.DeepEqual(failure.Tail, want) {
		t.Errorf("Tail = %q, want %q", failure.Tail, want)
	}
}

func TestRunPassesArguments(t *testing.T) {
	e := fakeExecutor(t, `for a in "$@"; do echo "arg:$a"; done
`)

	var lines []string
	err := e.Run(context.Background(), RunOptions{
		Args:       []string{"-i", "my video.mp4", "Part 1.mp4"},
		LogHandler: func(line string) { lines = append(lines, line) },
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"arg:-i", "arg:my video.mp4", "arg:Part 1.mp4"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("lines = %q, want %q", lines, want)
	}
}

func TestRunCancel(t *testing.T) {
	e := fakeExecutor(t, `echo started
exec sleep 30
`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	start := time.Now()
	err := e.Run(ctx, RunOptions{
		Args: []string{"x"},
		LogHandler: func(line string) {
			if line == "started" {
				cancel()
			}
		},
	})

	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("cancel took %v", elapsed)
	}
}

func TestRunNoArgs(t *testing.T) {
	e := &Executor{logger: zerolog.Nop(), ffmpegPath: "ffmpeg"}
	if err := e.Run(context.Background(), RunOptions{}); err == nil {
		t.Fatal("expected error without arguments")
	}
}

func TestScanLines(t *testing.T) {
	input := "one\r\ntwo\rthree\nfour"
	scanner := bufio.NewScanner(strings.NewReader(input))
	scanner.Split(scanLines)

	var got []string
	for scanner.Scan() {
		got = append(got, scanner.Text())
	}

	want := []string{"one", "two", "three", "four"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseProgress(t *testing.T) {
	p, ok := ParseProgress("frame= 1500 fps= 59 q=-1.0 Lsize=   10240kB time=00:01:00.00 bitrate=1398.1kbits/s speed=2.35x")
	if !ok {
		t.Fatal("expected stats line to parse")
	}
	if p.Frame != 1500 || p.FPS != 59 || p.Elapsed != time.Minute || p.Bitrate != "1398.1kbits/s" {
		t.Errorf("unexpected progress: %+v", p)
	}

	for _, line := range []string{
		"Input #0, mov,mp4,m4a,3gp,3g2,mj2, from 'in.mp4':",
		"size=N/A time=N/A bitrate=N/A speed=N/A",
	} {
		if _, ok := ParseProgress(line); ok {
			t.Errorf("did not expect %q to parse", line)
		}
	}
}

func TestTailBuffer(t *testing.T) {
	tail := newTail(2)
	if got := tail.lines(); len(got) != 0 {
		t.Errorf("expected empty tail, got %q", got)
	}
	tail.add("a")
	if got := tail.lines(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("got %q", got)
	}
	tail.add("b")
	tail.add("c")
	if got := tail.lines(); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("got %q", got)
	}
}

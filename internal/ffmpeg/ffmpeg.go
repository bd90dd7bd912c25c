package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/partsplit/internal/config"
	"github.com/kikiluvv/partsplit/pkg/util"
)

// Executor runs ffprobe and ffmpeg as child processes and streams their output
type Executor struct {
	logger      zerolog.Logger
	ffmpegPath  string
	ffprobePath string
	tailLines   int
	cancelGrace time.Duration
}

// New resolves both binaries and creates an executor. A missing binary is
// reported as a *DependencyError.
func New(logger zerolog.Logger, cfg config.FFmpegConfig) (*Executor, error) {
	ffmpegPath, err := lookTool(cfg.FFmpegPath, "ffmpeg")
	if err != nil {
		return nil, err
	}

	ffprobePath, err := lookTool(cfg.FFprobePath, "ffprobe")
	if err != nil {
		return nil, err
	}

	tail := cfg.TailLines
	if tail <= 0 {
		tail = defaultTailLines
	}

	return &Executor{
		logger:      logger.With().Str("component", "ffmpeg").Logger(),
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		tailLines:   tail,
		cancelGrace: cfg.CancelGrace,
	}, nil
}

// CheckTools reports every configured binary that cannot be found
func CheckTools(cfg config.FFmpegConfig) []error {
	var errs []error
	if _, err := lookTool(cfg.FFmpegPath, "ffmpeg"); err != nil {
		errs = append(errs, err)
	}
	if _, err := lookTool(cfg.FFprobePath, "ffprobe"); err != nil {
		errs = append(errs, err)
	}
	return errs
}

func lookTool(configured, name string) (string, error) {
	if configured == "" {
		configured = name
	}
	path, err := exec.LookPath(configured)
	if err != nil {
		return "", &DependencyError{Name: name, InstallURL: FfmpegInstallURL, Err: err}
	}
	return path, nil
}

// FFmpegPath returns the resolved ffmpeg binary
func (e *Executor) FFmpegPath() string {
	return e.ffmpegPath
}

// Run executes ffmpeg with the given arguments. Output from stdout and stderr is
// merged, split into lines and handed to the handlers on the calling goroutine as
// it arrives. A non-zero exit yields *EncodeFailure; a cancelled context yields
// an error wrapping ErrCancelled.
func (e *Executor) Run(ctx context.Context, opts RunOptions) error {
	if len(opts.Args) == 0 {
		return fmt.Errorf("no arguments provided")
	}

	e.logger.Debug().
		Str("cmd", e.ffmpegPath).
		Strs("args", opts.Args).
		Msg("executing ffmpeg")

	cmd := exec.CommandContext(ctx, e.ffmpegPath, opts.Args...)
	configureProcess(cmd)
	cmd.Cancel = func() error {
		return interrupt(cmd.Process)
	}
	cmd.WaitDelay = e.cancelGrace

	r, w, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("failed to create output pipe: %w", err)
	}
	cmd.Stdout = w
	cmd.Stderr = w

	if err := cmd.Start(); err != nil {
		r.Close()
		w.Close()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("ffmpeg %w: %w", ErrCancelled, ctxErr)
		}
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	// the child holds its own copy; ours must go so the reader sees EOF
	w.Close()

	tail := newTail(e.tailLines)
	e.streamOutput(r, tail, opts.ProgressHandler, opts.LogHandler)
	r.Close()

	err = cmd.Wait()
	if err == nil {
		e.logger.Debug().Msg("ffmpeg execution completed")
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("ffmpeg %w: %w", ErrCancelled, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &EncodeFailure{ExitCode: exitErr.ExitCode(), Tail: tail.lines()}
	}

	return fmt.Errorf("ffmpeg execution failed: %w", err)
}

// streamOutput splits ffmpeg output and calls handlers
func (e *Executor) streamOutput(r io.Reader, tail *tailBuffer, progressHandler ProgressFunc, logHandler func(string)) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(scanLines)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " ")
		if line == "" {
			continue
		}

		tail.add(line)
		e.logger.Debug().Str("ffmpeg", line).Msg("encoder output")

		if logHandler != nil {
			logHandler(line)
		}

		if progressHandler != nil {
			if p, ok := ParseProgress(line); ok {
				progressHandler(p)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		e.logger.Warn().Err(err).Msg("reading ffmpeg output")
		// keep draining so the child never blocks on a full pipe
		_, _ = io.Copy(io.Discard, r)
	}
}

// scanLines is bufio.ScanLines that also breaks on a lone carriage return,
// which ffmpeg uses to redraw its stats line in place.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\r' {
			if i+1 < len(data) {
				if data[i+1] == '\n' {
					return i + 2, data[:i], nil
				}
			} else if !atEOF {
				// can't tell yet whether this is a CRLF pair
				return 0, nil, nil
			}
		}
		return i + 1, data[:i], nil
	}

	if atEOF {
		return len(data), data, nil
	}

	return 0, nil, nil
}

var statField = regexp.MustCompile(`(\w+)=\s*(\S+)`)

// ParseProgress extracts progress data from an ffmpeg stats line such as
// "frame=  120 fps= 30 q=28.0 size=  256kB time=00:00:04.00 bitrate= 524.3kbits/s speed=1.99x".
func ParseProgress(line string) (*Progress, bool) {
	if !strings.Contains(line, "time=") || !strings.Contains(line, "bitrate=") {
		return nil, false
	}

	p := &Progress{}
	for _, m := range statField.FindAllStringSubmatch(line, -1) {
		key, value := m[1], m[2]
		switch key {
		case "frame":
			p.Frame, _ = strconv.Atoi(value)
		case "fps":
			p.FPS, _ = strconv.ParseFloat(value, 64)
		case "bitrate":
			p.Bitrate = value
		case "time":
			p.Time = value
		case "speed":
			p.Speed = value
		}
	}

	elapsed, err := util.ParseTimestamp(p.Time)
	if err != nil {
		return nil, false
	}
	p.Elapsed = elapsed

	return p, true
}

// tailBuffer keeps the most recent lines of output for failure reports
type tailBuffer struct {
	max  int
	buf  []string
	next int
	full bool
}

func newTail(max int) *tailBuffer {
	return &tailBuffer{max: max, buf: make([]string, max)}
}

func (t *tailBuffer) add(line string) {
	if t.max == 0 {
		return
	}
	t.buf[t.next] = line
	t.next = (t.next + 1) % t.max
	if t.next == 0 {
		t.full = true
	}
}

func (t *tailBuffer) lines() []string {
	if !t.full {
		return append([]string(nil), t.buf[:t.next]...)
	}
	out := make([]string, 0, t.max)
	out = append(out, t.buf[t.next:]...)
	return append(out, t.buf[:t.next]...)
}

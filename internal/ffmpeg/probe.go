package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// ProbeDuration returns the container duration of filePath in seconds.
// Failures are reported as *ProbeError; nothing is retried.
func (e *Executor) ProbeDuration(ctx context.Context, filePath string) (float64, error) {
	if filePath == "" {
		return 0, fmt.Errorf("file path is required")
	}

	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		filePath,
	}

	e.logger.Debug().
		Str("cmd", e.ffprobePath).
		Strs("args", args).
		Msg("probing duration")

	cmd := exec.CommandContext(ctx, e.ffprobePath, args...)
	configureProcess(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, fmt.Errorf("ffprobe %w: %w", ErrCancelled, ctxErr)
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return 0, &ProbeError{
				Kind:   ProbeNonZeroExit,
				Path:   filePath,
				Output: stderr.String(),
				Err:    err,
			}
		}

		return 0, &ProbeError{Kind: ProbeNotFound, Path: filePath, Err: err}
	}

	duration, err := ParseDuration(stdout.String())
	if err != nil {
		var pe *ProbeError
		if errors.As(err, &pe) {
			pe.Path = filePath
		}
		return 0, err
	}

	e.logger.Debug().Float64("duration", duration).Str("input", filePath).Msg("duration probed")
	return duration, nil
}

// ParseDuration parses ffprobe's bare duration output. Anything that is not a
// finite positive number is rejected, including "N/A".
func ParseDuration(out string) (float64, error) {
	text := strings.TrimSpace(out)

	duration, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, &ProbeError{Kind: ProbeUnparsableOutput, Output: out, Err: err}
	}

	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration <= 0 {
		return 0, &ProbeError{
			Kind:   ProbeUnparsableOutput,
			Output: out,
			Err:    fmt.Errorf("invalid duration %q", text),
		}
	}

	return duration, nil
}

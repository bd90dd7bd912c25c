package ffmpeg

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCancelled is returned when a probe or encode was interrupted through its context
var ErrCancelled = errors.New("cancelled")

// ProbeErrorKind classifies why a duration probe failed
type ProbeErrorKind int

const (
	ProbeNotFound ProbeErrorKind = iota
	ProbeNonZeroExit
	ProbeUnparsableOutput
)

func (k ProbeErrorKind) String() string {
	switch k {
	case ProbeNotFound:
		return "not found"
	case ProbeNonZeroExit:
		return "non-zero exit"
	case ProbeUnparsableOutput:
		return "unparsable output"
	default:
		return "unknown"
	}
}

// ProbeError is returned by the duration probe
type ProbeError struct {
	Kind   ProbeErrorKind
	Path   string
	Output string // ffprobe stderr, or the stdout that failed to parse
	Err    error
}

func (e *ProbeError) Error() string {
	msg := fmt.Sprintf("ffprobe %q: %s", e.Path, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *ProbeError) Unwrap() error { return e.Err }

// EncodeFailure reports an ffmpeg run that exited with a non-zero code
type EncodeFailure struct {
	ExitCode int
	Tail     []string // last lines of combined output
}

func (e *EncodeFailure) Error() string {
	return fmt.Sprintf("ffmpeg exited with code %d", e.ExitCode)
}

// DependencyError contains information about a missing external tool
type DependencyError struct {
	Name       string
	InstallURL string
	Err        error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s not found. Install from: %s", e.Name, e.InstallURL)
}

func (e *DependencyError) Unwrap() error { return e.Err }

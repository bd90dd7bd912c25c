package pipeline

import (
	"errors"
	"fmt"
)

// ErrBatchRunning is returned by Start while another batch is in flight
var ErrBatchRunning = errors.New("a batch is already running")

// ValidationError reports unusable options; it is raised before any subprocess runs
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks a request before a batch starts
func (r Request) Validate() error {
	if r.Options.ClipDuration <= 0 {
		return &ValidationError{Field: "clip duration", Reason: "must be a positive number of seconds"}
	}
	if r.InputPath == "" {
		return &ValidationError{Field: "input", Reason: "no video file selected"}
	}
	if r.OutputDir == "" {
		return &ValidationError{Field: "output", Reason: "no output folder selected"}
	}
	return nil
}

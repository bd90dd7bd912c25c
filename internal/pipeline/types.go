package pipeline

import (
	"fmt"

	"github.com/kikiluvv/partsplit/internal/clips"
	"github.com/kikiluvv/partsplit/pkg/util"
)

// SplitOptions configures how one batch cuts and reframes clips
type SplitOptions struct {
	ClipDuration int // seconds, must be > 0
	Aspect       clips.AspectRatio
	AddLabel     bool
}

// Request is everything a consumer supplies to start a batch
type Request struct {
	InputPath string
	OutputDir string
	Options   SplitOptions
}

// MediaSource is the probed input of a batch
type MediaSource struct {
	Path      string
	Extension string
	Duration  float64 // seconds
}

// Status is the terminal state of a batch
type Status int

const (
	StatusSuccess Status = iota
	StatusFailed
	StatusAborted // stopped before any clip was encoded
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	case StatusAborted:
		return "aborted"
	case StatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Stage names where a batch stopped
const (
	StageValidation = "validation"
	StageAnalysis   = "analysis"
	StageOutput     = "output"
	StageClip       = "clip"
)

// BatchOutcome is the aggregate result of one batch
type BatchOutcome struct {
	BatchID   string
	Status    Status
	Total     int
	Completed int

	// Set when Status is not StatusSuccess
	Stage      string
	FailedClip int // 1-based, 0 when the batch stopped before encoding
	ExitCode   int
	OutputTail []string
	Err        error
}

// OK reports whether every clip was produced
func (o BatchOutcome) OK() bool {
	return o.Status == StatusSuccess
}

// Summary is the short user-facing message for the end of a batch
func (o BatchOutcome) Summary() string {
	switch o.Status {
	case StatusSuccess:
		return fmt.Sprintf("Successfully split the video into %d parts.", o.Total)
	case StatusCancelled:
		if o.FailedClip > 0 {
			return fmt.Sprintf("Cancelled while creating clip %d. %d of %d clips were kept.", o.FailedClip, o.Completed, o.Total)
		}
		return "Cancelled before any clip was created."
	}

	switch o.Stage {
	case StageValidation:
		if o.Err != nil {
			return o.Err.Error()
		}
		return "Invalid options."
	case StageAnalysis:
		return "An error occurred while analyzing the video. Check the log for details."
	case StageClip:
		return fmt.Sprintf("Error creating clip %d. Check the log for details.", o.FailedClip)
	default:
		if o.Err != nil {
			return fmt.Sprintf("An unexpected error occurred: %v", o.Err)
		}
		return "An unexpected error occurred. Check the log for details."
	}
}

func newSource(path string, duration float64) MediaSource {
	return MediaSource{
		Path:      path,
		Extension: util.GetExtension(path),
		Duration:  duration,
	}
}

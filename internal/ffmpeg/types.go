package ffmpeg

import "time"

// Progress represents one parsed ffmpeg stats line
type Progress struct {
	Frame   int
	FPS     float64
	Bitrate string
	Time    string
	Elapsed time.Duration // output timestamp reached so far
	Speed   string
}

// ProgressFunc is a callback for progress updates during ffmpeg operations.
// Called with each stats line ffmpeg prints while encoding.
type ProgressFunc func(*Progress)

// RunOptions configures ffmpeg execution
type RunOptions struct {
	Args            []string
	ProgressHandler ProgressFunc
	LogHandler      func(line string)
}

// Default encoding settings
const (
	DefaultCRF        = 18
	DefaultPreset     = "slow"
	DefaultVideoCodec = "libx264"

	// audio is never re-encoded, whatever the video path does
	AudioCodec = "copy"

	defaultTailLines = 20
)

// Install locations reported when a binary is missing
const FfmpegInstallURL = "https://ffmpeg.org/download.html"

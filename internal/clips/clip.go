package clips

import (
	"fmt"
	"math"
	"path/filepath"
)

// VideoExtensions are the source containers offered by file pickers
var VideoExtensions = []string{".mp4", ".mov", ".avi", ".mkv"}

// Spec describes one planned output clip
type Spec struct {
	Index      int     // 1-based position in the batch
	Start      float64 // seek offset into the source, in seconds
	Length     float64 // nominal clip length, in seconds
	FileName   string
	OutputPath string
}

// Count returns how many clips a source of the given duration yields.
// A source shorter than one clip still produces exactly one clip.
func Count(duration float64, clipSeconds int) int {
	if clipSeconds <= 0 {
		return 0
	}
	step := float64(clipSeconds)
	if duration < step {
		return 1
	}
	return int(math.Ceil(duration / step))
}

// Plan splits a source of the given duration into consecutive clips of clipSeconds each.
// Every clip carries the nominal length, including the last one; ffmpeg stops at end of
// stream so the final part is naturally shorter.
func Plan(duration float64, clipSeconds int, outputDir, ext string) []Spec {
	n := Count(duration, clipSeconds)
	specs := make([]Spec, 0, n)

	for i := 0; i < n; i++ {
		name := FileName(i+1, ext)
		specs = append(specs, Spec{
			Index:      i + 1,
			Start:      float64(i * clipSeconds),
			Length:     float64(clipSeconds),
			FileName:   name,
			OutputPath: filepath.Join(outputDir, name),
		})
	}

	return specs
}

// FileName returns the output name for a clip, e.g. "Part 3.mp4"
func FileName(index int, ext string) string {
	return fmt.Sprintf("Part %d%s", index, ext)
}

// Label is the text drawn onto a clip when labelling is enabled
func Label(index int) string {
	return fmt.Sprintf("Part %d", index)
}

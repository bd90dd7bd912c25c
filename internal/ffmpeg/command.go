package ffmpeg

import (
	"strconv"
	"strings"

	"github.com/kikiluvv/partsplit/internal/clips"
	"github.com/kikiluvv/partsplit/internal/config"
	"github.com/kikiluvv/partsplit/pkg/util"
)

// EncodeSettings are the video encoder parameters used whenever a clip is re-encoded
type EncodeSettings struct {
	VideoCodec string
	Preset     string
	CRF        int
}

// EncodeSettingsFromConfig maps the ffmpeg config section, falling back to defaults
func EncodeSettingsFromConfig(cfg config.FFmpegConfig) EncodeSettings {
	s := EncodeSettings{
		VideoCodec: cfg.VideoCodec,
		Preset:     cfg.Preset,
		CRF:        cfg.CRF,
	}
	if s.VideoCodec == "" {
		s.VideoCodec = DefaultVideoCodec
	}
	if s.Preset == "" {
		s.Preset = DefaultPreset
	}
	if s.CRF <= 0 {
		s.CRF = DefaultCRF
	}
	return s
}

// EncodeJob is the resolved ffmpeg invocation for one clip
type EncodeJob struct {
	Clip       clips.Spec
	Args       []string // arguments after the binary name
	StreamCopy bool
	Graph      FilterGraph
}

// BuildEncodeJob assembles the ffmpeg arguments for a clip. The seek is placed
// before -i (input seeking): fast, at the cost of frame accuracy at the cut.
// Without a graph both streams are copied; with one, video is re-encoded and
// audio is still copied.
func BuildEncodeJob(spec clips.Spec, graph FilterGraph, source string, settings EncodeSettings) EncodeJob {
	args := []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-ss", util.FormatSeconds(spec.Start),
		"-i", source,
		"-t", util.FormatSeconds(spec.Length),
	}

	if graph.IsNone() {
		args = append(args, "-c", "copy")
	} else {
		args = append(args,
			graph.Flag(), graph.Expr,
			"-c:v", settings.VideoCodec,
			"-preset", settings.Preset,
			"-crf", strconv.Itoa(settings.CRF),
			"-c:a", AudioCodec,
		)
	}

	args = append(args, spec.OutputPath)

	return EncodeJob{
		Clip:       spec,
		Args:       args,
		StreamCopy: graph.IsNone(),
		Graph:      graph,
	}
}

// CommandLine renders the invocation for the log, quoting arguments with spaces
func (j EncodeJob) CommandLine(binary string) string {
	parts := make([]string, 0, len(j.Args)+1)
	parts = append(parts, quoteArg(binary))
	for _, a := range j.Args {
		parts = append(parts, quoteArg(a))
	}
	return strings.Join(parts, " ")
}

func quoteArg(s string) string {
	if s == "" || strings.ContainsAny(s, " \t") {
		return `"` + s + `"`
	}
	return s
}

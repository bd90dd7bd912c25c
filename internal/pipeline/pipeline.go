package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kikiluvv/partsplit/internal/clips"
	"github.com/kikiluvv/partsplit/internal/config"
	"github.com/kikiluvv/partsplit/internal/ffmpeg"
	"github.com/kikiluvv/partsplit/pkg/util"
)

// Prober reads the duration of a media file
type Prober interface {
	ProbeDuration(ctx context.Context, path string) (float64, error)
}

// Encoder runs one ffmpeg invocation
type Encoder interface {
	Run(ctx context.Context, opts ffmpeg.RunOptions) error
}

// Runner splits one source file into clips, one ffmpeg run at a time
type Runner struct {
	logger   zerolog.Logger
	prober   Prober
	encoder  Encoder
	binary   string
	settings ffmpeg.EncodeSettings
	style    ffmpeg.GraphStyle
	running  atomic.Bool
}

// New creates a runner backed by the ffmpeg and ffprobe binaries in cfg.
// Missing binaries fail here, before any batch is accepted.
func New(logger zerolog.Logger, cfg *config.Config) (*Runner, error) {
	exec, err := ffmpeg.New(logger, cfg.FFmpeg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ffmpeg: %w", err)
	}
	return NewWithTools(logger, cfg, exec, exec), nil
}

// NewWithTools creates a runner with explicit probe and encode implementations
func NewWithTools(logger zerolog.Logger, cfg *config.Config, prober Prober, encoder Encoder) *Runner {
	binary := "ffmpeg"
	if named, ok := encoder.(interface{ FFmpegPath() string }); ok {
		binary = named.FFmpegPath()
	}

	return &Runner{
		logger:   logger.With().Str("component", "pipeline").Logger(),
		prober:   prober,
		encoder:  encoder,
		binary:   binary,
		settings: ffmpeg.EncodeSettingsFromConfig(cfg.FFmpeg),
		style:    ffmpeg.GraphStyleFromConfig(cfg),
	}
}

// Start runs a batch on its own goroutine. The outcome is delivered on the
// returned channel, which is then closed. Only one batch may run at a time.
func (r *Runner) Start(ctx context.Context, req Request, sink Sink) (<-chan BatchOutcome, error) {
	if !r.running.CompareAndSwap(false, true) {
		return nil, ErrBatchRunning
	}

	done := make(chan BatchOutcome, 1)
	go func() {
		outcome := r.Run(ctx, req, sink)
		r.running.Store(false)
		done <- outcome
		close(done)
	}()

	return done, nil
}

// Running reports whether a batch started with Start is in flight
func (r *Runner) Running() bool {
	return r.running.Load()
}

// Run executes a batch on the calling goroutine:
// validate, probe, plan, then encode clip by clip until done, the first
// failure, or cancellation. Clips written before a failure are left in place.
// Every step is published to sink as it happens; the last event is EventDone.
func (r *Runner) Run(ctx context.Context, req Request, sink Sink) BatchOutcome {
	b := &batch{
		id:   uuid.NewString(),
		sink: sink,
	}
	b.logger = r.logger.With().Str("batch", b.id).Logger()

	b.logger.Info().
		Str("input", req.InputPath).
		Str("output", req.OutputDir).
		Int("clip_duration", req.Options.ClipDuration).
		Str("aspect", req.Options.Aspect.String()).
		Bool("label", req.Options.AddLabel).
		Msg("starting batch")

	outcome := r.run(ctx, req, b)
	outcome.BatchID = b.id
	b.finish(outcome)

	return outcome
}

func (r *Runner) run(ctx context.Context, req Request, b *batch) BatchOutcome {
	if err := req.Validate(); err != nil {
		b.log("ERROR: " + err.Error())
		return BatchOutcome{Status: StatusAborted, Stage: StageValidation, Err: err}
	}
	opts := req.Options

	// Probing
	b.status("Analyzing video...")
	b.log("--- Analyzing video file ---")
	duration, err := r.prober.ProbeDuration(ctx, req.InputPath)
	if err != nil {
		if errors.Is(err, ffmpeg.ErrCancelled) {
			b.log("Cancelled while analyzing the video")
			return BatchOutcome{Status: StatusCancelled, Stage: StageAnalysis, Err: err}
		}
		b.log("An error occurred while analyzing the video:\n" + err.Error())
		return BatchOutcome{Status: StatusAborted, Stage: StageAnalysis, Err: err}
	}
	source := newSource(req.InputPath, duration)
	b.log(fmt.Sprintf("Video duration: %.2f seconds", source.Duration))

	// Planning
	specs := clips.Plan(source.Duration, opts.ClipDuration, req.OutputDir, source.Extension)
	total := len(specs)
	b.log(fmt.Sprintf("Calculated %d clips of %d seconds each.", total, opts.ClipDuration))
	b.logger.Info().Float64("duration", source.Duration).Int("clips", total).Msg("batch planned")

	outcome := BatchOutcome{Total: total}

	if err := util.EnsureDir(req.OutputDir); err != nil {
		err = fmt.Errorf("failed to create output folder: %w", err)
		b.log("An unexpected error occurred: " + err.Error())
		outcome.Status = StatusAborted
		outcome.Stage = StageOutput
		outcome.Err = err
		return outcome
	}

	b.progress(0, total)

	// Encoding
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			b.log(fmt.Sprintf("Cancelled before clip %d", spec.Index))
			return cancelled(outcome, spec.Index, fmt.Errorf("batch %w: %w", ffmpeg.ErrCancelled, err))
		}

		b.status(fmt.Sprintf("Processing clip %d of %d...", spec.Index, total))
		b.log(fmt.Sprintf("--- Generating clip %d: %s ---", spec.Index, spec.FileName))

		graph := ffmpeg.BuildFilterGraph(opts.Aspect, opts.AddLabel, spec.Index, r.style)
		job := ffmpeg.BuildEncodeJob(spec, graph, source.Path, r.settings)
		b.log("Executing FFmpeg command:\n" + job.CommandLine(r.binary))

		started := time.Now()
		err := r.encoder.Run(ctx, ffmpeg.RunOptions{
			Args:       job.Args,
			LogHandler: b.encoderOutput,
			ProgressHandler: func(p *ffmpeg.Progress) {
				b.clipProgress(spec.Index, p.Elapsed.Seconds()/spec.Length)
			},
		})
		if err != nil {
			return b.clipFailed(outcome, spec, err)
		}

		outcome.Completed = spec.Index
		b.progress(spec.Index, total)
		b.logger.Info().
			Int("clip", spec.Index).
			Str("output", spec.OutputPath).
			Bool("stream_copy", job.StreamCopy).
			Dur("took", time.Since(started)).
			Msg("clip complete")
	}

	b.status("Splitting complete!")
	b.log("--- All clips processed successfully! ---")
	outcome.Status = StatusSuccess
	return outcome
}

func cancelled(outcome BatchOutcome, clip int, err error) BatchOutcome {
	outcome.Status = StatusCancelled
	outcome.Stage = StageClip
	outcome.FailedClip = clip
	outcome.Err = err
	return outcome
}

// batch carries the per-run logger and sink
type batch struct {
	id     string
	sink   Sink
	logger zerolog.Logger
}

func (b *batch) publish(e Event) {
	if b.sink == nil {
		return
	}
	e.Time = time.Now()
	b.sink.Publish(e)
}

func (b *batch) log(line string) {
	b.publish(Event{Kind: EventLog, Text: line})
}

func (b *batch) encoderOutput(line string) {
	b.publish(Event{Kind: EventLog, Text: line, Encoder: true})
}

func (b *batch) status(text string) {
	b.publish(Event{Kind: EventStatus, Text: text})
}

func (b *batch) progress(done, total int) {
	b.publish(Event{Kind: EventProgress, Done: done, Total: total})
}

func (b *batch) clipProgress(clip int, fraction float64) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	b.publish(Event{Kind: EventClipProgress, Clip: clip, Fraction: fraction})
}

func (b *batch) clipFailed(outcome BatchOutcome, spec clips.Spec, err error) BatchOutcome {
	if errors.Is(err, ffmpeg.ErrCancelled) {
		b.log(fmt.Sprintf("Cancelled while generating clip %d", spec.Index))
		return cancelled(outcome, spec.Index, err)
	}

	outcome.Status = StatusFailed
	outcome.Stage = StageClip
	outcome.FailedClip = spec.Index
	outcome.Err = err

	var failure *ffmpeg.EncodeFailure
	if errors.As(err, &failure) {
		outcome.ExitCode = failure.ExitCode
		outcome.OutputTail = failure.Tail
		b.log(fmt.Sprintf("ERROR: FFmpeg exited with code %d", failure.ExitCode))
	} else {
		b.log("An unexpected error occurred: " + err.Error())
	}

	return outcome
}

func (b *batch) finish(outcome BatchOutcome) {
	ev := b.logger.Info()
	if !outcome.OK() {
		ev = b.logger.Error().Err(outcome.Err)
	}
	ev.Str("status", outcome.Status.String()).
		Int("completed", outcome.Completed).
		Int("total", outcome.Total).
		Int("failed_clip", outcome.FailedClip).
		Msg("batch finished")

	if len(outcome.OutputTail) > 0 {
		b.logger.Debug().Str("tail", strings.Join(outcome.OutputTail, "\n")).Msg("ffmpeg output tail")
	}

	b.status(outcome.Summary())
	b.publish(Event{Kind: EventDone, Outcome: &outcome})
}

// PlannedClip is one clip of a dry run with the command that would encode it
type PlannedClip struct {
	Spec        clips.Spec
	Job         ffmpeg.EncodeJob
	CommandLine string
}

// BatchPlan is the result of a dry run
type BatchPlan struct {
	Source MediaSource
	Clips  []PlannedClip
}

// Plan validates and probes like Run, then returns every clip and its ffmpeg
// command without encoding anything or touching the output folder.
func (r *Runner) Plan(ctx context.Context, req Request) (*BatchPlan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	duration, err := r.prober.ProbeDuration(ctx, req.InputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze video: %w", err)
	}

	source := newSource(req.InputPath, duration)
	opts := req.Options
	plan := &BatchPlan{Source: source}
	for _, spec := range clips.Plan(duration, opts.ClipDuration, req.OutputDir, source.Extension) {
		graph := ffmpeg.BuildFilterGraph(opts.Aspect, opts.AddLabel, spec.Index, r.style)
		job := ffmpeg.BuildEncodeJob(spec, graph, source.Path, r.settings)
		plan.Clips = append(plan.Clips, PlannedClip{
			Spec:        spec,
			Job:         job,
			CommandLine: job.CommandLine(r.binary),
		})
	}

	r.logger.Debug().Str("input", req.InputPath).Int("clips", len(plan.Clips)).Msg("planned batch")
	return plan, nil
}

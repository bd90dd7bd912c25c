// Package gui is the desktop consumer: a single fyne window to pick a video,
// an output folder and options, then watch the batch progress and log.
package gui

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/kikiluvv/partsplit/internal/clips"
	"github.com/kikiluvv/partsplit/internal/config"
	"github.com/kikiluvv/partsplit/internal/ffmpeg"
	"github.com/kikiluvv/partsplit/internal/pipeline"
)

const (
	appID       = "io.github.kikiluvv.partsplit"
	maxLogLines = 2000
)

// formWarning is a problem with the form shown before a batch starts
type formWarning struct {
	Title   string
	Message string
}

func (w *formWarning) Error() string { return w.Message }

// Window holds the widgets and presentation state of the main window. All
// fields are only touched on the fyne main goroutine.
type Window struct {
	ctx    context.Context
	logger zerolog.Logger
	cfg    *config.Config
	runner *pipeline.Runner
	window fyne.Window

	inputPath string
	outputDir string

	inputLabel   *widget.Label
	outputLabel  *widget.Label
	duration     *widget.Entry
	aspect       *widget.Select
	label        *widget.Check
	progress     *widget.ProgressBar
	clipProgress *widget.ProgressBar
	status       *widget.Label
	logView      *widget.Entry
	startButton  *widget.Button
	cancelButton *widget.Button

	logLines    []string
	cancelBatch context.CancelFunc
}

// Run opens the window and blocks until it is closed
func Run(ctx context.Context, logger zerolog.Logger, cfg *config.Config) error {
	a := app.NewWithID(appID)
	w := newWindow(a, logger, cfg)
	w.ctx = ctx

	w.window.SetOnClosed(func() {
		if w.cancelBatch != nil {
			w.cancelBatch()
		}
	})

	stop := quitOnDone(ctx, func() {
		fyne.Do(a.Quit)
	})
	defer stop()

	w.checkTools()
	w.window.ShowAndRun()
	return nil
}

// quitOnDone calls quit once ctx is done, unless stop is called first
func quitOnDone(ctx context.Context, quit func()) (stop func()) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			quit()
		case <-done:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

func newWindow(a fyne.App, logger zerolog.Logger, cfg *config.Config) *Window {
	w := &Window{
		ctx:    context.Background(),
		logger: logger.With().Str("component", "gui").Logger(),
		cfg:    cfg,
		window: a.NewWindow("Video Splitter"),
	}
	w.window.Resize(fyne.NewSize(600, 620))
	w.window.SetContent(w.build())
	return w
}

func (w *Window) build() fyne.CanvasObject {
	w.inputLabel = widget.NewLabel("No file selected...")
	w.inputLabel.Truncation = fyne.TextTruncateEllipsis
	w.outputLabel = widget.NewLabel("No folder selected...")
	w.outputLabel.Truncation = fyne.TextTruncateEllipsis

	w.duration = widget.NewEntry()
	w.duration.SetText(strconv.Itoa(w.cfg.Defaults.ClipDuration))

	names := make([]string, 0, len(clips.AspectRatios()))
	for _, a := range clips.AspectRatios() {
		names = append(names, a.DisplayName())
	}
	w.aspect = widget.NewSelect(names, nil)
	w.aspect.SetSelected(w.cfg.Defaults.Aspect.DisplayName())

	w.label = widget.NewCheck("Add Part Number Text", nil)
	w.label.SetChecked(w.cfg.Defaults.AddLabel)

	w.progress = widget.NewProgressBar()
	w.clipProgress = widget.NewProgressBar()
	w.status = widget.NewLabel("Ready")

	w.logView = widget.NewMultiLineEntry()
	w.logView.TextStyle = fyne.TextStyle{Monospace: true}
	w.logView.Wrapping = fyne.TextWrapOff
	w.logView.Disable()

	w.startButton = widget.NewButtonWithIcon("Start Splitting", theme.MediaPlayIcon(), w.start)
	w.startButton.Importance = widget.HighImportance
	w.cancelButton = widget.NewButtonWithIcon("Cancel", theme.CancelIcon(), w.cancel)
	w.cancelButton.Disable()

	title := widget.NewLabelWithStyle("Video Splitting Tool", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	form := widget.NewForm(
		widget.NewFormItem("Video File:", container.NewBorder(nil, nil, nil,
			widget.NewButton("Browse...", w.selectInput), w.inputLabel)),
		widget.NewFormItem("Output Folder:", container.NewBorder(nil, nil, nil,
			widget.NewButton("Browse...", w.selectOutput), w.outputLabel)),
		widget.NewFormItem("Clip Duration (s):", w.duration),
		widget.NewFormItem("Aspect Ratio:", w.aspect),
		widget.NewFormItem("", w.label),
	)

	controls := container.NewBorder(nil, nil, nil,
		container.NewHBox(w.cancelButton, w.startButton),
		container.NewVBox(w.progress, w.clipProgress))

	top := container.NewVBox(title, form, controls, w.status, widget.NewLabel("FFmpeg Log:"))
	return container.NewBorder(top, nil, nil, nil, w.logView)
}

// checkTools disables splitting when ffmpeg or ffprobe is missing
func (w *Window) checkTools() {
	if errs := ffmpeg.CheckTools(w.cfg.FFmpeg); len(errs) > 0 {
		err := errors.Join(errs...)
		w.logger.Error().Err(err).Msg("ffmpeg tools not found")
		w.startButton.Disable()
		w.status.SetText("FFmpeg not found")
		dialog.ShowError(errors.New("FFmpeg is not installed or not in your system's PATH. Please install FFmpeg from ffmpeg.org."), w.window)
		return
	}

	runner, err := pipeline.New(w.logger, w.cfg)
	if err != nil {
		w.logger.Error().Err(err).Msg("failed to create runner")
		w.startButton.Disable()
		dialog.ShowError(err, w.window)
		return
	}
	w.runner = runner
}

func (w *Window) selectInput() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w.window)
			return
		}
		if rc == nil {
			return
		}
		defer rc.Close()
		w.setInput(rc.URI().Path())
	}, w.window)
	fd.SetFilter(storage.NewExtensionFileFilter(clips.VideoExtensions))
	fd.Show()
}

func (w *Window) selectOutput() {
	fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, w.window)
			return
		}
		if uri == nil {
			return
		}
		w.setOutput(uri.Path())
	}, w.window)
	fd.Show()
}

func (w *Window) setInput(path string) {
	w.inputPath = path
	w.inputLabel.SetText(filepath.Base(path))
}

func (w *Window) setOutput(path string) {
	w.outputDir = path
	w.outputLabel.SetText(filepath.Base(path))
}

// request reads the form into a batch request
func (w *Window) request() (pipeline.Request, error) {
	duration, err := strconv.Atoi(strings.TrimSpace(w.duration.Text))
	if err != nil {
		return pipeline.Request{}, &formWarning{Title: "Invalid Duration", Message: "Please enter a valid number for clip duration."}
	}
	if duration <= 0 {
		return pipeline.Request{}, &formWarning{Title: "Invalid Duration", Message: "Clip duration must be a positive number."}
	}
	if w.inputPath == "" || w.outputDir == "" {
		return pipeline.Request{}, &formWarning{Title: "Input Missing", Message: "Please select both an input file and an output folder."}
	}

	aspect := clips.AspectOriginal
	for _, a := range clips.AspectRatios() {
		if a.DisplayName() == w.aspect.Selected {
			aspect = a
		}
	}

	return pipeline.Request{
		InputPath: w.inputPath,
		OutputDir: w.outputDir,
		Options: pipeline.SplitOptions{
			ClipDuration: duration,
			Aspect:       aspect,
			AddLabel:     w.label.Checked,
		},
	}, nil
}

func (w *Window) start() {
	req, err := w.request()
	if err != nil {
		var warn *formWarning
		if errors.As(err, &warn) {
			dialog.ShowInformation(warn.Title, warn.Message, w.window)
		}
		return
	}
	if w.runner == nil {
		return
	}

	ctx, cancel := context.WithCancel(w.ctx)
	queue := pipeline.NewQueue()
	if _, err := w.runner.Start(ctx, req, queue); err != nil {
		cancel()
		dialog.ShowError(err, w.window)
		return
	}

	w.cancelBatch = cancel
	w.reset()
	w.status.SetText("Starting...")

	interval := w.cfg.UI.PollInterval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	// polling outlives the batch context so the cancelled outcome still arrives
	go queue.Poll(w.ctx, interval, func(events []pipeline.Event) {
		fyne.Do(func() { w.apply(events) })
	})
}

func (w *Window) cancel() {
	if w.cancelBatch == nil {
		return
	}
	w.status.SetText("Cancelling...")
	w.cancelButton.Disable()
	w.cancelBatch()
}

// reset clears progress and log and locks the form for a new batch
func (w *Window) reset() {
	w.startButton.Disable()
	w.cancelButton.Enable()
	w.progress.SetValue(0)
	w.clipProgress.SetValue(0)
	w.logLines = nil
	w.logView.SetText("")
}

// apply folds drained batch events into the widgets
func (w *Window) apply(events []pipeline.Event) {
	appended := false
	for _, e := range events {
		switch e.Kind {
		case pipeline.EventLog:
			w.logLines = append(w.logLines, strings.Split(e.Text, "\n")...)
			appended = true
		case pipeline.EventStatus:
			w.status.SetText(e.Text)
		case pipeline.EventProgress:
			if e.Total > 0 {
				w.progress.SetValue(float64(e.Done) / float64(e.Total))
			}
			w.clipProgress.SetValue(0)
		case pipeline.EventClipProgress:
			w.clipProgress.SetValue(e.Fraction)
		case pipeline.EventDone:
			if e.Outcome != nil {
				w.finish(*e.Outcome)
			}
		}
	}

	if appended {
		if len(w.logLines) > maxLogLines {
			w.logLines = w.logLines[len(w.logLines)-maxLogLines:]
		}
		w.logView.SetText(strings.Join(w.logLines, "\n"))
		w.logView.CursorRow = len(w.logLines)
		w.logView.Refresh()
	}
}

// finish unlocks the form and shows the outcome
func (w *Window) finish(outcome pipeline.BatchOutcome) {
	if w.cancelBatch != nil {
		w.cancelBatch()
		w.cancelBatch = nil
	}
	w.startButton.Enable()
	w.cancelButton.Disable()
	w.status.SetText(outcome.Summary())

	w.logger.Info().
		Str("batch", outcome.BatchID).
		Str("status", outcome.Status.String()).
		Msg("batch finished")

	switch {
	case outcome.OK():
		w.progress.SetValue(1)
		dialog.ShowInformation("Success", outcome.Summary(), w.window)
	case outcome.Status == pipeline.StatusCancelled:
		dialog.ShowInformation("Cancelled", outcome.Summary(), w.window)
	default:
		dialog.ShowError(errors.New(outcome.Summary()), w.window)
	}
}
